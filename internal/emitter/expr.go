package emitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zyth-lang/zythc/internal/analyzer"
	"github.com/zyth-lang/zythc/internal/ast"
)

// emitExpr lowers e to a Zig expression, per SPEC_FULL.md §4.4.3. Fallible
// sub-expressions are prefixed with `try`; the caller's own function must
// therefore be fallible whenever any reachable expression is.
func (e *Emitter) emitExpr(expr ast.Expr) (string, error) {
	switch v := expr.(type) {
	case *ast.Constant:
		return e.emitConstant(v), nil

	case *ast.Name:
		return v.Id, nil

	case *ast.BinOp:
		return e.emitBinOp(v)

	case *ast.UnaryOp:
		x, err := e.emitExpr(v.X)
		if err != nil {
			return "", err
		}
		switch v.Op {
		case ast.Not:
			return fmt.Sprintf("!(%s)", x), nil
		case ast.Sub:
			return fmt.Sprintf("(-%s)", x), nil
		default:
			return x, nil
		}

	case *ast.CondExpr:
		body, err := e.emitExpr(v.Body)
		if err != nil {
			return "", err
		}
		cond, err := e.emitExpr(v.Cond)
		if err != nil {
			return "", err
		}
		els, err := e.emitExpr(v.Else)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(if (%s) %s else %s)", cond, body, els), nil

	case *ast.Call:
		return e.emitCall(v)

	case *ast.Attribute:
		recv, err := e.emitExpr(v.Value)
		if err != nil {
			return "", err
		}
		return recv + "." + v.Attr, nil

	case *ast.Subscript:
		container, err := e.emitExpr(v.Value)
		if err != nil {
			return "", err
		}
		index, err := e.emitExpr(v.Index)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("try runtime.getItem(alloc, %s, %s)", container, e.boxed(v.Index, index)), nil

	case *ast.List:
		return e.emitListLiteral(v)

	case *ast.Tuple:
		return e.emitTupleLiteral(v)

	case *ast.Dict:
		return e.emitDictLiteral(v)

	default:
		return "", fmt.Errorf("emitter: unsupported expression node %T", expr)
	}
}

func (e *Emitter) emitConstant(c *ast.Constant) string {
	switch c.Kind {
	case ast.ConstInt:
		return strconv.FormatInt(c.I, 10)
	case ast.ConstFloat:
		return strconv.FormatFloat(c.F, 'g', -1, 64)
	case ast.ConstBool:
		if c.B {
			return "true"
		}
		return "false"
	case ast.ConstString:
		return fmt.Sprintf("%q", c.S)
	default: // ConstNone
		return "runtime.none()"
	}
}

var binOpSymbols = map[ast.Operator]string{
	ast.Lt: "<", ast.Le: "<=", ast.Gt: ">", ast.Ge: ">=", ast.Eq: "==", ast.Ne: "!=",
	ast.BitAnd: "&", ast.BitOr: "|", ast.BitXor: "^", ast.Shl: "<<", ast.Shr: ">>",
	ast.And: "and", ast.Or: "or",
}

func (e *Emitter) emitBinOp(v *ast.BinOp) (string, error) {
	left, err := e.emitExpr(v.Left)
	if err != nil {
		return "", err
	}
	right, err := e.emitExpr(v.Right)
	if err != nil {
		return "", err
	}

	if v.Op == ast.Add && e.addProducesString(v) {
		return fmt.Sprintf("try runtime.stringConcat(alloc, %s, %s)", e.boxed(v.Left, left), e.boxed(v.Right, right)), nil
	}

	switch v.Op {
	case ast.Add:
		return fmt.Sprintf("(%s + %s)", left, right), nil
	case ast.Sub:
		return fmt.Sprintf("(%s - %s)", left, right), nil
	case ast.Mul:
		return fmt.Sprintf("(%s * %s)", left, right), nil
	case ast.FloorDiv:
		return fmt.Sprintf("@divFloor(%s, %s)", left, right), nil
	case ast.Div:
		return fmt.Sprintf("(@as(f64, @floatFromInt(%s)) / @as(f64, @floatFromInt(%s)))", left, right), nil
	case ast.Mod:
		return fmt.Sprintf("@mod(%s, %s)", left, right), nil
	case ast.Pow:
		return fmt.Sprintf("std.math.pow(i64, %s, %s)", left, right), nil
	case ast.In:
		return fmt.Sprintf("runtime.contains(%s, %s)", right, left), nil
	case ast.Is:
		return fmt.Sprintf("(%s == %s)", left, right), nil
	default:
		if sym, ok := binOpSymbols[v.Op]; ok {
			return fmt.Sprintf("(%s %s %s)", left, sym, right), nil
		}
		return "", fmt.Errorf("emitter: unsupported operator %v", v.Op)
	}
}

// addProducesString mirrors the analyzer's inferExprTag Add rule (§4.3 rule
// 3) so the emitter and the analyzer never disagree about whether a given
// Add is string concatenation or integer addition.
func (e *Emitter) addProducesString(v *ast.BinOp) bool {
	if isNestedAddExpr(v.Left) {
		return true
	}
	if e.operandIsStringish(v.Left) || e.operandIsStringish(v.Right) {
		return true
	}
	return false
}

func isNestedAddExpr(x ast.Expr) bool {
	b, ok := x.(*ast.BinOp)
	return ok && b.Op == ast.Add
}

func (e *Emitter) operandIsStringish(x ast.Expr) bool {
	switch v := x.(type) {
	case *ast.Constant:
		return v.Kind == ast.ConstString
	case *ast.Name:
		return e.typeOf(v.Id).Tag == analyzer.TagString
	default:
		return false
	}
}

// boxed renders expr (already emitted as text) as a *PyObject, boxing bare
// scalars produced by int/float/bool-typed expressions (§4.4.7: container
// elements and subscript indices are always stored as PyObjects).
func (e *Emitter) boxed(expr ast.Expr, text string) string {
	switch v := expr.(type) {
	case *ast.Constant:
		switch v.Kind {
		case ast.ConstInt:
			return fmt.Sprintf("try runtime.boxInt(alloc, %s)", text)
		case ast.ConstFloat:
			return fmt.Sprintf("try runtime.boxFloat(alloc, %s)", text)
		case ast.ConstBool:
			return fmt.Sprintf("runtime.boxBool(%s)", text)
		case ast.ConstString:
			return fmt.Sprintf("try runtime.newString(alloc, %s)", text)
		}
	case *ast.Name:
		switch e.typeOf(v.Id).Tag {
		case analyzer.TagInt:
			return fmt.Sprintf("try runtime.boxInt(alloc, %s)", text)
		case analyzer.TagFloat:
			return fmt.Sprintf("try runtime.boxFloat(alloc, %s)", text)
		case analyzer.TagBool:
			return fmt.Sprintf("runtime.boxBool(%s)", text)
		}
	}
	return text
}

func (e *Emitter) emitListLiteral(v *ast.List) (string, error) {
	tmp := e.newTemp("l")
	var b strings.Builder
	fmt.Fprintf(&b, "(blk: {\n")
	fmt.Fprintf(&b, "    const %s = try runtime.newList(alloc);\n", tmp)
	for _, elt := range v.Elts {
		text, err := e.emitExpr(elt)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "    try runtime.listAppend(alloc, %s, %s);\n", tmp, e.boxed(elt, text))
	}
	fmt.Fprintf(&b, "    break :blk %s;\n})", tmp)
	return b.String(), nil
}

func (e *Emitter) emitDictLiteral(v *ast.Dict) (string, error) {
	tmp := e.newTemp("d")
	var b strings.Builder
	fmt.Fprintf(&b, "(blk: {\n")
	fmt.Fprintf(&b, "    const %s = try runtime.newDict(alloc);\n", tmp)
	for _, en := range v.Entries {
		key, err := e.emitExpr(en.Key)
		if err != nil {
			return "", err
		}
		val, err := e.emitExpr(en.Value)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "    try runtime.dictSet(alloc, %s, %s, %s);\n", tmp, e.boxed(en.Key, key), e.boxed(en.Value, val))
	}
	fmt.Fprintf(&b, "    break :blk %s;\n})", tmp)
	return b.String(), nil
}

func (e *Emitter) emitTupleLiteral(v *ast.Tuple) (string, error) {
	items := make([]string, len(v.Elts))
	for i, elt := range v.Elts {
		text, err := e.emitExpr(elt)
		if err != nil {
			return "", err
		}
		items[i] = e.boxed(elt, text)
	}
	return fmt.Sprintf("try runtime.newTuple(alloc, &[_]*PyObject{%s})", strings.Join(items, ", ")), nil
}
