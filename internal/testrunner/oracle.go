package testrunner

import (
	"github.com/zyth-lang/zythc/internal/ast"
	"github.com/zyth-lang/zythc/internal/hostlib"
	"github.com/zyth-lang/zythc/internal/parser"
)

// deriveExpected computes the expected stdout of a scenario whose entire
// body is a single `print(<literal expression>)` call, by evaluating the
// literal independently through hostlib rather than asking a human to
// transcribe it. Anything involving a name, a call, a loop, or a class
// falls outside what a literal-only evaluator can judge and is left to a
// golden .out file instead.
func deriveExpected(source string) (string, bool) {
	mod, err := parser.Parse(source)
	if err != nil || len(mod.Body) != 1 {
		return "", false
	}

	stmt, ok := mod.Body[0].(*ast.ExprStmt)
	if !ok {
		return "", false
	}

	call, ok := stmt.X.(*ast.Call)
	if !ok {
		return "", false
	}
	name, ok := call.Func.(*ast.Name)
	if !ok || name.Id != "print" || len(call.Args) != 1 {
		return "", false
	}

	value, ok := evalLiteral(call.Args[0])
	if !ok {
		return "", false
	}
	return value.Display() + "\n", true
}

func evalLiteral(e ast.Expr) (hostlib.Value, bool) {
	switch n := e.(type) {
	case *ast.Constant:
		switch n.Kind {
		case ast.ConstInt:
			return hostlib.Int(n.I), true
		case ast.ConstFloat:
			return hostlib.Float(n.F), true
		case ast.ConstString:
			return hostlib.Str(n.S), true
		case ast.ConstBool:
			return hostlib.Bool(n.B), true
		case ast.ConstNone:
			return hostlib.None(), true
		}
		return hostlib.Value{}, false
	case *ast.List:
		elts, ok := evalLiteralList(n.Elts)
		if !ok {
			return hostlib.Value{}, false
		}
		return hostlib.Value{Kind: hostlib.KindList, List: elts}, true
	case *ast.Tuple:
		elts, ok := evalLiteralList(n.Elts)
		if !ok {
			return hostlib.Value{}, false
		}
		return hostlib.Value{Kind: hostlib.KindTuple, Tuple: elts}, true
	case *ast.UnaryOp:
		x, ok := evalLiteral(n.X)
		if !ok {
			return hostlib.Value{}, false
		}
		switch n.Op {
		case ast.Sub:
			if x.Kind == hostlib.KindInt {
				return hostlib.Int(-x.Int), true
			}
			if x.Kind == hostlib.KindFloat {
				return hostlib.Float(-x.Float), true
			}
		case ast.Not:
			if x.Kind == hostlib.KindBool {
				return hostlib.Bool(!x.Bool), true
			}
		}
		return hostlib.Value{}, false
	case *ast.BinOp:
		if n.Op != ast.Add {
			return hostlib.Value{}, false
		}
		left, ok := evalLiteral(n.Left)
		if !ok {
			return hostlib.Value{}, false
		}
		right, ok := evalLiteral(n.Right)
		if !ok {
			return hostlib.Value{}, false
		}
		if left.Kind == hostlib.KindString && right.Kind == hostlib.KindString {
			return hostlib.Str(left.Str + right.Str), true
		}
		if left.Kind == hostlib.KindInt && right.Kind == hostlib.KindInt {
			return hostlib.Int(left.Int + right.Int), true
		}
		return hostlib.Value{}, false
	default:
		return hostlib.Value{}, false
	}
}

func evalLiteralList(elts []ast.Expr) ([]hostlib.Value, bool) {
	out := make([]hostlib.Value, 0, len(elts))
	for _, elt := range elts {
		v, ok := evalLiteral(elt)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}
