package analyzer

import "github.com/zyth-lang/zythc/internal/ast"

// Analyze runs both sweeps of SPEC_FULL.md §4.3 over mod and returns the
// per-name type table, the function/class metadata tables, and the
// allocator-need fixed point. Analyze is deterministic and idempotent:
// running it twice over the same AST yields identical tables, as
// SPEC_FULL.md §8 requires.
func Analyze(mod *ast.Module) (*Result, error) {
	r := &Result{
		ModuleSymbols: map[string]Type{},
		Functions:     map[string]*FuncInfo{},
		Classes:       map[string]*ClassInfo{},
	}

	for _, stmt := range mod.Body {
		switch s := stmt.(type) {
		case *ast.FunctionDef:
			r.Functions[s.Name] = &FuncInfo{Name: s.Name}
		case *ast.ClassDef:
			ci := &ClassInfo{Name: s.Name, Methods: map[string]*FuncInfo{}}
			for _, m := range s.Body {
				if fd, ok := m.(*ast.FunctionDef); ok {
					ci.Methods[fd.Name] = &FuncInfo{Name: fd.Name}
					if fd.Name == "__init__" {
						ci.Fields = initFields(fd)
					}
				}
			}
			r.Classes[s.Name] = ci
		}
	}

	if err := validateJSONLiterals(mod); err != nil {
		return nil, err
	}

	r.ModuleReassigned = reassignedNames(mod.Body)

	if err := inferModuleTypes(mod, r); err != nil {
		return nil, err
	}

	for name, fn := range r.Functions {
		fd := funcDeclByName(mod, name)
		if err := analyzeFunction(fd, fn, r, nil); err != nil {
			return nil, err
		}
	}
	for _, ci := range r.Classes {
		cd := classDeclByName(mod, ci.Name)
		for _, m := range cd.Body {
			fd, ok := m.(*ast.FunctionDef)
			if !ok {
				continue
			}
			if err := analyzeFunction(fd, ci.Methods[fd.Name], r, ci); err != nil {
				return nil, err
			}
		}
	}

	resolveAllocatorFixedPoint(r)

	return r, nil
}

func funcDeclByName(mod *ast.Module, name string) *ast.FunctionDef {
	for _, stmt := range mod.Body {
		if fd, ok := stmt.(*ast.FunctionDef); ok && fd.Name == name {
			return fd
		}
	}
	return nil
}

func classDeclByName(mod *ast.Module, name string) *ast.ClassDef {
	for _, stmt := range mod.Body {
		if cd, ok := stmt.(*ast.ClassDef); ok && cd.Name == name {
			return cd
		}
	}
	return nil
}

// initFields infers a class's instance fields from `self.<name> = <value>`
// assignments in __init__, per SPEC_FULL.md §4.4.5. Each becomes a 64-bit
// signed integer field, the only instance-field type in the supported
// subset.
func initFields(init *ast.FunctionDef) []string {
	var fields []string
	seen := map[string]bool{}
	var walk func(stmts []ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *ast.Assign:
				for _, t := range s.Targets {
					if t.Attr && len(t.Names) == 2 && t.Names[0] == "self" && !seen[t.Names[1]] {
						seen[t.Names[1]] = true
						fields = append(fields, t.Names[1])
					}
				}
			case *ast.If:
				walk(s.Then)
				walk(s.Else)
			case *ast.While:
				walk(s.Body)
			case *ast.For:
				walk(s.Body)
			}
		}
	}
	walk(init.Body)
	return fields
}

// reassignedNames implements sweep 1 (§4.3): a name assigned more than once
// in the same scope is reassigned and must bind mutably in emitted code.
// `for` targets are always treated as reassigned since the induction
// variable mutates every iteration.
func reassignedNames(body []ast.Stmt) map[string]bool {
	counts := map[string]int{}
	var walk func(stmts []ast.Stmt)
	walk = func(stmts []ast.Stmt) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *ast.Assign:
				for _, t := range s.Targets {
					if t.Attr {
						continue // attribute targets don't bind a local name
					}
					for _, n := range t.Names {
						counts[n]++
					}
				}
			case *ast.For:
				for _, n := range s.Target.Names {
					counts[n] += 2
				}
				walk(s.Body)
			case *ast.If:
				walk(s.Then)
				walk(s.Else)
			case *ast.While:
				walk(s.Body)
			}
		}
	}
	walk(body)

	out := map[string]bool{}
	for name, c := range counts {
		if c > 1 {
			out[name] = true
		}
	}
	return out
}

// inferModuleTypes applies sweep 2 (§4.3 rules 1-7) to module-level
// assignments.
func inferModuleTypes(mod *ast.Module, r *Result) error {
	return inferStmts(mod.Body, r.ModuleSymbols, r, nil)
}
