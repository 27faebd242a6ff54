package emitter

import (
	"github.com/zyth-lang/zythc/internal/ast"
)

// emitFor lowers a `for` statement to one of the three shapes SPEC_FULL.md
// §4.4.2 supports over `range`/`enumerate`/`zip`, or the generic case of
// iterating a PyObject list directly.
func (e *Emitter) emitFor(s *ast.For) error {
	if call, ok := s.Iterable.(*ast.Call); ok {
		if name, ok := call.Func.(*ast.Name); ok {
			switch name.Id {
			case "range":
				return e.emitRangeFor(s, call)
			case "enumerate":
				return e.emitEnumerateFor(s, call)
			case "zip":
				return e.emitZipFor(s, call)
			}
		}
	}
	return e.emitGenericFor(s)
}

func (e *Emitter) emitRangeFor(s *ast.For, call *ast.Call) error {
	if len(s.Target.Names) != 1 {
		return &Error{Kind: InvalidRangeArgs, Msg: "range() loop requires exactly one loop variable", Span: s.Span()}
	}
	var start, stop, step string
	switch len(call.Args) {
	case 1:
		start = "0"
		t, err := e.emitExpr(call.Args[0])
		if err != nil {
			return err
		}
		stop = t
		step = "1"
	case 2:
		a, err := e.emitExpr(call.Args[0])
		if err != nil {
			return err
		}
		b, err := e.emitExpr(call.Args[1])
		if err != nil {
			return err
		}
		start, stop, step = a, b, "1"
	case 3:
		a, err := e.emitExpr(call.Args[0])
		if err != nil {
			return err
		}
		b, err := e.emitExpr(call.Args[1])
		if err != nil {
			return err
		}
		c, err := e.emitExpr(call.Args[2])
		if err != nil {
			return err
		}
		start, stop, step = a, b, c
	default:
		return &Error{Kind: InvalidRangeArgs, Msg: "range() takes 1 to 3 arguments", Span: call.Span()}
	}

	loopVar := s.Target.Names[0]
	e.writef("var %s: i64 = %s;", loopVar, start)
	e.writef("while (%s < %s) : (%s += %s) {", loopVar, stop, loopVar, step)
	e.indent++
	e.bound[loopVar] = true
	if err := e.emitBlock(s.Body); err != nil {
		return err
	}
	e.indent--
	e.writeln("}")
	return nil
}

func (e *Emitter) emitEnumerateFor(s *ast.For, call *ast.Call) error {
	if len(s.Target.Names) != 2 {
		return &Error{Kind: InvalidEnumerateTarget, Msg: "enumerate() requires exactly two loop variables", Span: s.Span()}
	}
	if len(call.Args) != 1 {
		return &Error{Kind: InvalidEnumerateTarget, Msg: "enumerate() takes exactly one argument", Span: call.Span()}
	}
	xs, err := e.emitExpr(call.Args[0])
	if err != nil {
		return err
	}
	idx, val := s.Target.Names[0], s.Target.Names[1]

	e.writef("var %s: i64 = 0;", idx)
	e.writef("while (%s < runtime.len(%s)) : (%s += 1) {", idx, xs, idx)
	e.indent++
	e.writef("const %s = runtime.getItemUnchecked(%s, %s);", val, xs, idx)
	e.bound[idx], e.bound[val] = true, true
	if err := e.emitBlock(s.Body); err != nil {
		return err
	}
	e.indent--
	e.writeln("}")
	return nil
}

func (e *Emitter) emitZipFor(s *ast.For, call *ast.Call) error {
	if len(s.Target.Names) != len(call.Args) {
		return &Error{Kind: InvalidZipTarget, Msg: "zip() loop variables must match the number of iterables", Span: s.Span()}
	}
	iterables := make([]string, len(call.Args))
	for i, a := range call.Args {
		t, err := e.emitExpr(a)
		if err != nil {
			return err
		}
		iterables[i] = t
	}

	counter := e.newTemp("zi")
	bound := e.newTemp("zn")
	e.writef("var %s: i64 = 0;", counter)
	boundExpr := "runtime.len(" + iterables[0] + ")"
	for _, it := range iterables[1:] {
		boundExpr = "@min(" + boundExpr + ", runtime.len(" + it + "))"
	}
	e.writef("const %s = %s;", bound, boundExpr)
	e.writef("while (%s < %s) : (%s += 1) {", counter, bound, counter)
	e.indent++
	for i, target := range s.Target.Names {
		e.writef("const %s = runtime.getItemUnchecked(%s, %s);", target, iterables[i], counter)
		e.bound[target] = true
	}
	if err := e.emitBlock(s.Body); err != nil {
		return err
	}
	e.indent--
	e.writeln("}")
	return nil
}

func (e *Emitter) emitGenericFor(s *ast.For) error {
	if len(s.Target.Names) != 1 {
		return &Error{Kind: UnsupportedForLoop, Msg: "unpacking for-loop targets require enumerate()/zip()", Span: s.Span()}
	}
	xs, err := e.emitExpr(s.Iterable)
	if err != nil {
		return err
	}
	target := s.Target.Names[0]
	counter := e.newTemp("gi")

	e.writef("var %s: i64 = 0;", counter)
	e.writef("while (%s < runtime.len(%s)) : (%s += 1) {", counter, xs, counter)
	e.indent++
	e.writef("const %s = runtime.getItemUnchecked(%s, %s);", target, xs, counter)
	e.bound[target] = true
	if err := e.emitBlock(s.Body); err != nil {
		return err
	}
	e.indent--
	e.writeln("}")
	return nil
}
