package analyzer

import (
	"github.com/zyth-lang/zythc/internal/ast"
	"github.com/zyth-lang/zythc/internal/hostlib"
)

// validateJSONLiterals implements SPEC_FULL.md §4.3's addition: a
// `json.loads` call whose sole argument is a constant string literal is
// validated against hostlib's parser at compile time, surfacing
// InvalidJSONLiteral immediately instead of deferring the same failure to
// the emitted program's own jsonLoads.
func validateJSONLiterals(mod *ast.Module) error {
	var err error

	var walkExpr func(e ast.Expr)
	walkExpr = func(e ast.Expr) {
		if err != nil || e == nil {
			return
		}
		switch v := e.(type) {
		case *ast.Call:
			if isJSONLoadsCall(v) && len(v.Args) == 1 {
				if lit, ok := v.Args[0].(*ast.Constant); ok && lit.Kind == ast.ConstString {
					if verr := hostlib.ValidateJSON(lit.S); verr != nil {
						err = &Error{Kind: InvalidJSONLiteral, Msg: verr.Error(), Span: lit.Span()}
						return
					}
				}
			}
			walkExpr(v.Func)
			for _, a := range v.Args {
				walkExpr(a)
			}
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

	var walkStmts func(stmts []ast.Stmt)
	walkStmts = func(stmts []ast.Stmt) {
		for _, stmt := range stmts {
			if err != nil {
				return
			}
			switch s := stmt.(type) {
			case *ast.ExprStmt:
				walkExpr(s.X)
			case *ast.Assign:
				walkExpr(s.Value)
			case *ast.Return:
				walkExpr(s.Value)
			case *ast.If:
				walkExpr(s.Cond)
				walkStmts(s.Then)
				walkStmts(s.Else)
			case *ast.While:
				walkExpr(s.Cond)
				walkStmts(s.Body)
			case *ast.For:
				walkExpr(s.Iterable)
				walkStmts(s.Body)
			case *ast.FunctionDef:
				walkStmts(s.Body)
			case *ast.ClassDef:
				walkStmts(s.Body)
			}
		}
	}

	walkStmts(mod.Body)
	return err
}

// isJSONLoadsCall recognizes both `json.loads(...)` and the
// `from json import loads` bare-name form.
func isJSONLoadsCall(c *ast.Call) bool {
	switch callee := c.Func.(type) {
	case *ast.Attribute:
		mod, ok := callee.Value.(*ast.Name)
		return ok && mod.Id == "json" && callee.Attr == "loads"
	case *ast.Name:
		return callee.Id == "loads"
	default:
		return false
	}
}
