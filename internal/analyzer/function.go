package analyzer

import "github.com/zyth-lang/zythc/internal/ast"

// analyzeFunction fills in fn's parameter types, local symbol table, return
// type, and local allocator-need predicate for the function or method
// declared by fd. owner is non-nil for class methods, whose `self`
// parameter is tagged `class <Name>` rather than inferred.
func analyzeFunction(fd *ast.FunctionDef, fn *FuncInfo, r *Result, owner *ClassInfo) error {
	fn.Reassigned = reassignedNames(fd.Body)
	fn.Locals = map[string]Type{}

	fn.ParamTypes = make([]Type, len(fd.Params))
	for i, p := range fd.Params {
		if owner != nil && i == 0 && p.Name == "self" {
			fn.ParamTypes[i] = Type{Tag: TagClass, Class: owner.Name}
		} else {
			fn.ParamTypes[i] = Type{Tag: inferParamTag(p.Name, fd.Body)}
		}
		fn.Locals[p.Name] = fn.ParamTypes[i]
	}

	if err := inferStmts(fd.Body, fn.Locals, r, fn); err != nil {
		return err
	}

	fn.ReturnType = inferReturnType(fd.Body, fn.Locals)

	if owner == nil {
		fn.NeedsAllocator = localNeedsAllocator(fd.Body, fn.Locals)
	}

	return nil
}

// inferParamTag implements SPEC_FULL.md §4.3's function-level parameter
// inference: a parameter is `pyobject` if it is ever used on either side of
// a string-containing Add, as an attribute-access receiver, as a
// subscripted value, as the argument to `len`, or as the iterable of a
// `for`/`enumerate`/`zip` loop (`range` excepted, since its arguments are
// always ints); otherwise it is `int`.
func inferParamTag(name string, body []ast.Stmt) Tag {
	isObj := false

	var visitExpr func(e ast.Expr)
	visitExpr = func(e ast.Expr) {
		if isObj || e == nil {
			return
		}
		switch v := e.(type) {
		case *ast.BinOp:
			if v.Op == ast.Add && ((isName(v.Left, name) && containsStringLiteral(v.Right)) ||
				(isName(v.Right, name) && containsStringLiteral(v.Left))) {
				isObj = true
				return
			}
			visitExpr(v.Left)
			visitExpr(v.Right)
		case *ast.Attribute:
			if isName(v.Value, name) {
				isObj = true
				return
			}
			visitExpr(v.Value)
		case *ast.Subscript:
			if isName(v.Value, name) {
				isObj = true
				return
			}
			visitExpr(v.Value)
			visitExpr(v.Index)
		case *ast.Call:
			if n, ok := v.Func.(*ast.Name); ok && n.Id == "len" {
				for _, a := range v.Args {
					if isName(a, name) {
						isObj = true
						return
					}
				}
			}
			visitExpr(v.Func)
			for _, a := range v.Args {
				visitExpr(a)
			}
		case *ast.UnaryOp:
			visitExpr(v.X)
		case *ast.CondExpr:
			visitExpr(v.Body)
			visitExpr(v.Cond)
			visitExpr(v.Else)
		case *ast.List:
			for _, el := range v.Elts {
				visitExpr(el)
			}
		case *ast.Tuple:
			for _, el := range v.Elts {
				visitExpr(el)
			}
		case *ast.Dict:
			for _, en := range v.Entries {
				visitExpr(en.Key)
				visitExpr(en.Value)
			}
		}
	}

	var visitStmt func(s ast.Stmt)
	visitStmt = func(s ast.Stmt) {
		if isObj {
			return
		}
		switch v := s.(type) {
		case *ast.ExprStmt:
			visitExpr(v.X)
		case *ast.Assign:
			visitExpr(v.Value)
		case *ast.Return:
			if v.Value != nil {
				visitExpr(v.Value)
			}
		case *ast.If:
			visitExpr(v.Cond)
			for _, s2 := range v.Then {
				visitStmt(s2)
			}
			for _, s2 := range v.Else {
				visitStmt(s2)
			}
		case *ast.While:
			visitExpr(v.Cond)
			for _, s2 := range v.Body {
				visitStmt(s2)
			}
		case *ast.For:
			if isName(v.Iterable, name) {
				isObj = true
				return
			}
			if call, ok := v.Iterable.(*ast.Call); ok {
				if fnName, ok := call.Func.(*ast.Name); ok && (fnName.Id == "enumerate" || fnName.Id == "zip") {
					for _, a := range call.Args {
						if isName(a, name) {
							isObj = true
							return
						}
					}
				}
			}
			visitExpr(v.Iterable)
			for _, s2 := range v.Body {
				visitStmt(s2)
			}
		}
	}

	for _, s := range body {
		visitStmt(s)
	}

	if isObj {
		return TagPyObject
	}
	return TagInt
}

func isName(e ast.Expr, name string) bool {
	n, ok := e.(*ast.Name)
	return ok && n.Id == name
}

// isGuaranteedInt reports whether e is syntactically certain to evaluate to
// an int, the only case where print() doesn't need to format a PyObject.
func isGuaranteedInt(e ast.Expr, locals map[string]Type) bool {
	switch v := e.(type) {
	case *ast.Constant:
		return v.Kind == ast.ConstInt
	case *ast.Name:
		return locals[v.Id].Tag == TagInt
	case *ast.BinOp:
		if v.Op == ast.Add {
			return !operandIsStringish(v.Left, locals) && !operandIsStringish(v.Right, locals) && !isNestedAdd(v.Left)
		}
		switch v.Op {
		case ast.Sub, ast.Mul, ast.FloorDiv, ast.Mod, ast.Pow, ast.BitAnd, ast.BitOr, ast.BitXor, ast.Shl, ast.Shr:
			return true
		default:
			return false
		}
	case *ast.Call:
		if n, ok := v.Func.(*ast.Name); ok && n.Id == "len" {
			return true
		}
		if a, ok := v.Func.(*ast.Attribute); ok {
			return methodReturnTag(a.Attr) == TagInt
		}
		return false
	default:
		return false
	}
}

func containsStringLiteral(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.Constant:
		return v.Kind == ast.ConstString
	case *ast.BinOp:
		return containsStringLiteral(v.Left) || containsStringLiteral(v.Right)
	case *ast.UnaryOp:
		return containsStringLiteral(v.X)
	case *ast.Call:
		if containsStringLiteral(v.Func) {
			return true
		}
		for _, a := range v.Args {
			if containsStringLiteral(a) {
				return true
			}
		}
		return false
	case *ast.Attribute:
		return containsStringLiteral(v.Value)
	case *ast.CondExpr:
		return containsStringLiteral(v.Body) || containsStringLiteral(v.Cond) || containsStringLiteral(v.Else)
	default:
		return false
	}
}

// inferReturnType implements SPEC_FULL.md §4.3's function-level return
// inference: recursively inspect Return values, merging disagreeing types
// with the "most general wins" rule (pyobject > int > void).
func inferReturnType(body []ast.Stmt, locals map[string]Type) Type {
	result := Type{Tag: TagVoid}

	var walk func(stmts []ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			switch v := s.(type) {
			case *ast.Return:
				t := Type{Tag: TagVoid}
				if v.Value != nil {
					t = classifyReturnExpr(v.Value, locals)
				}
				result = Merge(result, t)
			case *ast.If:
				walk(v.Then)
				walk(v.Else)
			case *ast.While:
				walk(v.Body)
			case *ast.For:
				walk(v.Body)
			}
		}
	}
	walk(body)
	return result
}

func classifyReturnExpr(e ast.Expr, locals map[string]Type) Type {
	switch v := e.(type) {
	case *ast.Constant:
		if v.Kind == ast.ConstInt {
			return Type{Tag: TagInt}
		}
		return Type{Tag: TagPyObject}
	case *ast.Name:
		if t, ok := locals[v.Id]; ok && t.Tag == TagInt {
			return Type{Tag: TagInt}
		}
		return Type{Tag: TagPyObject}
	case *ast.Attribute:
		if n, ok := v.Value.(*ast.Name); ok && locals[n.Id].Tag == TagClass {
			return Type{Tag: TagInt}
		}
		return Type{Tag: TagPyObject}
	case *ast.BinOp:
		if v.Op == ast.Add && (isNestedAdd(v.Left) || operandIsStringish(v.Left, locals) || operandIsStringish(v.Right, locals)) {
			return Type{Tag: TagPyObject}
		}
		return Type{Tag: TagInt}
	case *ast.Call:
		if n, ok := v.Func.(*ast.Name); ok && n.Id == "len" {
			return Type{Tag: TagInt}
		}
		if a, ok := v.Func.(*ast.Attribute); ok {
			return Type{Tag: methodReturnTag(a.Attr)}
		}
		return Type{Tag: TagPyObject}
	default:
		return Type{Tag: TagPyObject}
	}
}

// localNeedsAllocator implements the local (non-call-graph) half of
// SPEC_FULL.md §4.3's allocator-need predicate: a string/collection
// literal, a Subscript, a call to `len`, a string-producing Add, or a
// `print` of a non-int value (formatting a PyObject allocates) appearing
// anywhere in body. locals supplies the tags `print`'s argument needs to
// be checked against.
func localNeedsAllocator(body []ast.Stmt, locals map[string]Type) bool {
	found := false

	var visitExpr func(e ast.Expr)
	visitExpr = func(e ast.Expr) {
		if found || e == nil {
			return
		}
		switch v := e.(type) {
		case *ast.Constant:
			if v.Kind == ast.ConstString {
				found = true
			}
		case *ast.List, *ast.Dict, *ast.Tuple:
			found = true
		case *ast.Subscript:
			found = true
		case *ast.BinOp:
			if v.Op == ast.Add && (isNestedAdd(v.Left) || containsStringLiteral(v.Left) || containsStringLiteral(v.Right)) {
				found = true
			}
			visitExpr(v.Left)
			visitExpr(v.Right)
		case *ast.Call:
			if n, ok := v.Func.(*ast.Name); ok {
				if n.Id == "len" {
					found = true
				}
				if n.Id == "print" && len(v.Args) == 1 && !isGuaranteedInt(v.Args[0], locals) {
					found = true
				}
			}
			visitExpr(v.Func)
			for _, a := range v.Args {
				visitExpr(a)
			}
		case *ast.UnaryOp:
			visitExpr(v.X)
		case *ast.Attribute:
			visitExpr(v.Value)
		case *ast.CondExpr:
			visitExpr(v.Body)
			visitExpr(v.Cond)
			visitExpr(v.Else)
		}
	}

	var visitStmt func(s ast.Stmt)
	visitStmt = func(s ast.Stmt) {
		if found {
			return
		}
		switch v := s.(type) {
		case *ast.ExprStmt:
			visitExpr(v.X)
		case *ast.Assign:
			visitExpr(v.Value)
		case *ast.Return:
			if v.Value != nil {
				visitExpr(v.Value)
			}
		case *ast.If:
			visitExpr(v.Cond)
			for _, s2 := range v.Then {
				visitStmt(s2)
			}
			for _, s2 := range v.Else {
				visitStmt(s2)
			}
		case *ast.While:
			visitExpr(v.Cond)
			for _, s2 := range v.Body {
				visitStmt(s2)
			}
		case *ast.For:
			visitExpr(v.Iterable)
			for _, s2 := range v.Body {
				visitStmt(s2)
			}
		}
	}

	for _, s := range body {
		visitStmt(s)
	}
	return found
}
