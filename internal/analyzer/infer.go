package analyzer

import (
	"github.com/zyth-lang/zythc/internal/ast"
)

// inferStmts walks stmts in source order, applying the coarse type
// inference rules of SPEC_FULL.md §4.3 to every Assign. symbols is mutated
// in place; once a name is tagged the tag is never weakened, matching the
// tag-stability invariant the emitter depends on.
func inferStmts(stmts []ast.Stmt, symbols map[string]Type, r *Result, fn *FuncInfo) error {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Assign:
			tag := inferExprTag(s.Value, symbols, r)
			for _, t := range s.Targets {
				if t.Attr {
					continue
				}
				for _, n := range t.Names {
					if _, known := symbols[n]; !known {
						symbols[n] = tag
					}
				}
			}
		case *ast.If:
			if err := inferStmts(s.Then, symbols, r, fn); err != nil {
				return err
			}
			if err := inferStmts(s.Else, symbols, r, fn); err != nil {
				return err
			}
		case *ast.While:
			if err := inferStmts(s.Body, symbols, r, fn); err != nil {
				return err
			}
		case *ast.For:
			for i, n := range s.Target.Names {
				if _, known := symbols[n]; !known {
					symbols[n] = Type{Tag: forTargetTag(s, i)}
				}
			}
			if err := inferStmts(s.Body, symbols, r, fn); err != nil {
				return err
			}
		}
		if fn != nil {
			recordCalls(stmt, fn)
		}
	}
	return nil
}

// forTargetTag tags a for-loop target at position i by iterable shape
// (§4.4.2): `range()` always yields ints; `enumerate()`'s first target is
// the int index and its second the iterated PyObject; every other shape
// (`zip()` and plain iteration) yields PyObjects.
func forTargetTag(s *ast.For, i int) Tag {
	call, ok := s.Iterable.(*ast.Call)
	if !ok {
		return TagPyObject
	}
	name, ok := call.Func.(*ast.Name)
	if !ok {
		return TagPyObject
	}
	switch name.Id {
	case "range":
		return TagInt
	case "enumerate":
		if i == 0 {
			return TagInt
		}
		return TagPyObject
	default:
		return TagPyObject
	}
}

// inferExprTag implements rules 1-7 of SPEC_FULL.md §4.3, applied in order.
func inferExprTag(e ast.Expr, symbols map[string]Type, r *Result) Type {
	switch v := e.(type) {
	case *ast.Constant:
		switch v.Kind {
		case ast.ConstInt:
			return Type{Tag: TagInt}
		case ast.ConstString:
			return Type{Tag: TagString}
		case ast.ConstFloat:
			return Type{Tag: TagFloat}
		case ast.ConstBool:
			return Type{Tag: TagBool}
		default: // ConstNone
			return Type{Tag: TagPyObject}
		}
	case *ast.List:
		return Type{Tag: TagList}
	case *ast.Dict:
		return Type{Tag: TagDict}
	case *ast.Tuple:
		return Type{Tag: TagTuple}
	case *ast.Name:
		if t, ok := symbols[v.Id]; ok {
			return t
		}
		return Type{Tag: TagPyObject}
	case *ast.BinOp:
		if v.Op == ast.Add && (operandIsStringish(v.Left, symbols) || isNestedAdd(v.Left)) {
			return Type{Tag: TagString}
		}
		if v.Op == ast.Add && operandIsStringish(v.Right, symbols) {
			return Type{Tag: TagString}
		}
		return Type{Tag: TagInt}
	case *ast.Call:
		return inferCallTag(v, symbols, r)
	case *ast.Subscript:
		return Type{Tag: TagPyObject}
	case *ast.Attribute, *ast.UnaryOp, *ast.CondExpr:
		return Type{Tag: TagPyObject}
	default:
		return Type{Tag: TagPyObject}
	}
}

func operandIsStringish(e ast.Expr, symbols map[string]Type) bool {
	if n, ok := e.(*ast.Name); ok {
		return symbols[n.Id].Tag == TagString
	}
	if c, ok := e.(*ast.Constant); ok {
		return c.Kind == ast.ConstString
	}
	return false
}

// isNestedAdd implements the documented over-approximation of SPEC_FULL.md
// §9: any nested Add on the left operand is flagged as string-concat, even
// when both operands are actually ints (e.g. `(1+2)+"x"` and, by this same
// rule, `(1+2)+3`). Preserved deliberately: the emitter's scoped-release
// logic for string temporaries relies on this conservative behaviour.
func isNestedAdd(e ast.Expr) bool {
	b, ok := e.(*ast.BinOp)
	return ok && b.Op == ast.Add
}

func inferCallTag(c *ast.Call, symbols map[string]Type, r *Result) Type {
	switch callee := c.Func.(type) {
	case *ast.Name:
		if _, ok := r.Classes[callee.Id]; ok {
			return Type{Tag: TagClass, Class: callee.Id}
		}
		return Type{Tag: TagPyObject}
	case *ast.Attribute:
		return Type{Tag: methodReturnTag(callee.Attr)}
	default:
		return Type{Tag: TagPyObject}
	}
}

func recordCalls(stmt ast.Stmt, fn *FuncInfo) {
	if fn.Calls == nil {
		fn.Calls = map[string]bool{}
	}
	var walkExpr func(e ast.Expr)
	walkExpr = func(e ast.Expr) {
		switch v := e.(type) {
		case *ast.Call:
			if n, ok := v.Func.(*ast.Name); ok {
				fn.Calls[n.Id] = true
			}
			for _, a := range v.Args {
				walkExpr(a)
			}
			walkExpr(v.Func)
		case *ast.BinOp:
			walkExpr(v.Left)
			walkExpr(v.Right)
		case *ast.UnaryOp:
			walkExpr(v.X)
		case *ast.Attribute:
			walkExpr(v.Value)
		case *ast.Subscript:
			walkExpr(v.Value)
			walkExpr(v.Index)
		case *ast.CondExpr:
			walkExpr(v.Body)
			walkExpr(v.Cond)
			walkExpr(v.Else)
		case *ast.List:
			for _, el := range v.Elts {
				walkExpr(el)
			}
		case *ast.Tuple:
			for _, el := range v.Elts {
				walkExpr(el)
			}
		case *ast.Dict:
			for _, en := range v.Entries {
				walkExpr(en.Key)
				walkExpr(en.Value)
			}
		}
	}

	var walkStmt func(s ast.Stmt)
	walkStmt = func(s ast.Stmt) {
		switch v := s.(type) {
		case *ast.ExprStmt:
			walkExpr(v.X)
		case *ast.Assign:
			walkExpr(v.Value)
		case *ast.Return:
			if v.Value != nil {
				walkExpr(v.Value)
			}
		case *ast.If:
			walkExpr(v.Cond)
			for _, s2 := range v.Then {
				walkStmt(s2)
			}
			for _, s2 := range v.Else {
				walkStmt(s2)
			}
		case *ast.While:
			walkExpr(v.Cond)
			for _, s2 := range v.Body {
				walkStmt(s2)
			}
		case *ast.For:
			walkExpr(v.Iterable)
			for _, s2 := range v.Body {
				walkStmt(s2)
			}
		}
	}
	walkStmt(stmt)
}

