package emitter

import (
	"fmt"
	"strings"

	"github.com/zyth-lang/zythc/internal/analyzer"
	"github.com/zyth-lang/zythc/internal/ast"
)

// emitCall lowers a call expression, per SPEC_FULL.md §4.4.7: built-ins
// (`print`, `len`), the `json`/`http` host modules with literal-argument
// memoization, user-defined function calls (with allocator threading when
// the callee is fallible), class constructors, and the fixed method table.
func (e *Emitter) emitCall(c *ast.Call) (string, error) {
	switch callee := c.Func.(type) {
	case *ast.Name:
		switch callee.Id {
		case "print":
			return e.emitPrint(c)
		case "len":
			arg, err := e.emitExpr(c.Args[0])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("runtime.len(%s)", arg), nil
		case "range", "enumerate", "zip":
			return "", &Error{Kind: UnsupportedForLoop, Msg: callee.Id + "() is only valid as a for-loop iterable", Span: c.Span()}
		}
		if _, ok := e.analysis.Classes[callee.Id]; ok {
			args, err := e.emitArgs(c.Args)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s.init(%s)", callee.Id, strings.Join(args, ", ")), nil
		}
		return e.emitUserCall(callee.Id, c.Args)

	case *ast.Attribute:
		if mod, ok := callee.Value.(*ast.Name); ok && (mod.Id == "json" || mod.Id == "http") {
			return e.emitHostCall(mod.Id, callee.Attr, c)
		}
		return e.emitMethodCall(callee, c.Args)

	default:
		return "", fmt.Errorf("emitter: unsupported call target %T", c.Func)
	}
}

func (e *Emitter) emitArgs(args []ast.Expr) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		text, err := e.emitExpr(a)
		if err != nil {
			return nil, err
		}
		out[i] = text
	}
	return out, nil
}

func (e *Emitter) emitPrint(c *ast.Call) (string, error) {
	if len(c.Args) != 1 {
		return "", fmt.Errorf("emitter: print() takes exactly one argument in this subset")
	}
	arg := c.Args[0]
	text, err := e.emitExpr(arg)
	if err != nil {
		return "", err
	}
	if e.argIsInt(arg) {
		return fmt.Sprintf("runtime.printInt(%s)", text), nil
	}
	if e.argIsBool(arg) {
		return fmt.Sprintf("try runtime.printObject(alloc, runtime.boxBool(%s))", text), nil
	}
	return fmt.Sprintf("try runtime.printObject(alloc, %s)", text), nil
}

func (e *Emitter) argIsInt(x ast.Expr) bool {
	switch v := x.(type) {
	case *ast.Constant:
		return v.Kind == ast.ConstInt
	case *ast.Name:
		return e.typeOf(v.Id).Tag == analyzer.TagInt
	case *ast.BinOp:
		if v.Op == ast.Add {
			return !e.addProducesString(v)
		}
		return intProducingOps[v.Op]
	case *ast.Call:
		switch callee := v.Func.(type) {
		case *ast.Name:
			if fn, ok := e.analysis.Functions[callee.Id]; ok {
				return fn.ReturnType.Tag == analyzer.TagInt
			}
			if callee.Id == "len" {
				return true
			}
		case *ast.Attribute:
			return methodReturnsInt(callee.Attr)
		}
		return false
	default:
		return false
	}
}

// argIsBool mirrors argIsInt for the native-`bool`-producing expression
// shapes (§4.4.3's comparison/boolean operators), so print() can box them
// through runtime.boxBool before handing them to runtime.printObject.
func (e *Emitter) argIsBool(x ast.Expr) bool {
	switch v := x.(type) {
	case *ast.Constant:
		return v.Kind == ast.ConstBool
	case *ast.Name:
		return e.typeOf(v.Id).Tag == analyzer.TagBool
	case *ast.UnaryOp:
		return v.Op == ast.Not
	case *ast.BinOp:
		return boolProducingOps[v.Op]
	case *ast.Call:
		switch callee := v.Func.(type) {
		case *ast.Name:
			if fn, ok := e.analysis.Functions[callee.Id]; ok {
				return fn.ReturnType.Tag == analyzer.TagBool
			}
		case *ast.Attribute:
			return methodReturnsBool(callee.Attr)
		}
		return false
	default:
		return false
	}
}

// emitUserCall lowers a call to a module-level function, threading `alloc`
// when the callee needs one (§4.4.6) and marking the call `try`.
func (e *Emitter) emitUserCall(name string, argExprs []ast.Expr) (string, error) {
	args, err := e.emitArgs(argExprs)
	if err != nil {
		return "", err
	}
	callee := e.analysis.Functions[name]
	if callee != nil {
		for i, a := range argExprs {
			if i < len(callee.ParamTypes) && callee.ParamTypes[i].Tag.IsHeap() && callee.ParamTypes[i].Tag != analyzer.TagClass {
				args[i] = e.boxed(a, args[i])
			}
		}
	}
	if callee != nil && callee.NeedsAllocator {
		args = append(args, "alloc")
		return fmt.Sprintf("try %s(%s)", name, strings.Join(args, ", ")), nil
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", ")), nil
}

// emitMethodCall dispatches `recv.name(args)` through the fixed method
// table (builtins.go), grounded on analyzer.methodReturnTag's table.
func (e *Emitter) emitMethodCall(attr *ast.Attribute, argExprs []ast.Expr) (string, error) {
	recv, err := e.emitExpr(attr.Value)
	if err != nil {
		return "", err
	}
	args, err := e.emitArgs(argExprs)
	if err != nil {
		return "", err
	}

	// dict.get(key, default) is a two-argument form of the otherwise
	// one-argument `get` entry in methodDispatch; it needs its own
	// runtime entry point since dictGet has no default parameter.
	if attr.Attr == "get" && len(argExprs) == 2 {
		boxedArgs := make([]string, len(args))
		for i, a := range argExprs {
			boxedArgs[i] = e.boxed(a, args[i])
		}
		callArgs := append([]string{recv}, boxedArgs...)
		return fmt.Sprintf("runtime.dictGetDefault(%s)", strings.Join(callArgs, ", ")), nil
	}

	spec, ok := methodDispatch[attr.Attr]
	if !ok {
		// A user-defined method on a class instance; class methods are
		// never fallible in the supported subset (§4.4.6), so no `alloc`
		// threading or `try` is needed here.
		return fmt.Sprintf("%s.%s(%s)", recv, attr.Attr, strings.Join(args, ", ")), nil
	}

	for i, a := range argExprs {
		args[i] = e.boxed(a, args[i])
	}
	callArgs := []string{recv}
	callArgs = append(callArgs, args...)
	joined := strings.Join(callArgs, ", ")
	if spec.fallible {
		return fmt.Sprintf("try runtime.%s(alloc, %s)", spec.runtimeFn, joined), nil
	}
	return fmt.Sprintf("runtime.%s(%s)", spec.runtimeFn, joined), nil
}

// emitHostCall lowers `json.loads`/`json.dumps`/`http.get`, per §4.4.7.
// A `json.loads`/`json.dumps` call whose sole argument is a string literal
// is memoized: the parsed/serialized result is computed once and cached in
// a module-level slot keyed by the literal's exact text, preserving
// literal-identity memoization (§9).
func (e *Emitter) emitHostCall(mod, fn string, c *ast.Call) (string, error) {
	if mod == "http" && fn == "get" {
		arg, err := e.emitExpr(c.Args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("try runtime.httpGet(alloc, %s)", arg), nil
	}

	if mod != "json" || (fn != "loads" && fn != "dumps") {
		return "", fmt.Errorf("emitter: unsupported host call %s.%s", mod, fn)
	}

	runtimeFn := "jsonLoads"
	if fn == "dumps" {
		runtimeFn = "jsonDumps"
	}

	if lit, ok := c.Args[0].(*ast.Constant); ok && lit.Kind == ast.ConstString {
		slot := e.jsonSlot(mod + "." + fn + ":" + lit.S)
		litText := e.emitConstant(lit)
		return fmt.Sprintf(`(blk: {
    if (%s) |v| break :blk v;
    const v = try runtime.%s(alloc, %s);
    %s = v;
    break :blk v;
})`, slot, runtimeFn, litText, slot), nil
	}

	arg, err := e.emitExpr(c.Args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("try runtime.%s(alloc, %s)", runtimeFn, arg), nil
}

func (e *Emitter) jsonSlot(key string) string {
	if slot, ok := e.jsonSlots[key]; ok {
		return slot
	}
	slot := fmt.Sprintf("__json_memo_%d", len(e.jsonOrder)+1)
	e.jsonSlots[key] = slot
	e.jsonOrder = append(e.jsonOrder, key)
	return slot
}
