package emitter

import (
	"github.com/zyth-lang/zythc/internal/analyzer"
	"github.com/zyth-lang/zythc/internal/ast"
)

// emitClass lowers a class to a Zig value struct, per SPEC_FULL.md §4.4.5:
// every instance field is a 64-bit signed integer, `__init__` becomes a
// by-value constructor named `init`, and every other method takes a pointer
// receiver so it can be called as `instance.method(...)`.
func (e *Emitter) emitClass(cd *ast.ClassDef) error {
	ci := e.analysis.Classes[cd.Name]

	e.writef("pub const %s = struct {", cd.Name)
	e.indent++
	for _, f := range ci.Fields {
		e.writef("%s: i64,", f)
	}
	e.writeln("")

	var initFD *ast.FunctionDef
	var methods []*ast.FunctionDef
	for _, m := range cd.Body {
		fd, ok := m.(*ast.FunctionDef)
		if !ok {
			continue
		}
		if fd.Name == "__init__" {
			initFD = fd
		} else {
			methods = append(methods, fd)
		}
	}

	if initFD != nil {
		if err := e.emitInit(cd.Name, initFD, ci.Methods["__init__"]); err != nil {
			return err
		}
	}

	for _, fd := range methods {
		e.writeln("")
		if err := e.emitFunction(fd, ci); err != nil {
			return err
		}
	}

	e.indent--
	e.writeln("};")
	e.writeln("")
	return nil
}

func (e *Emitter) emitInit(className string, fd *ast.FunctionDef, fn *analyzer.FuncInfo) error {
	prevFn, prevOwner := e.fn, e.owner
	e.fn, e.owner = fn, nil
	defer func() { e.fn, e.owner = prevFn, prevOwner }()

	params := make([]string, 0, len(fd.Params)-1)
	for i, p := range fd.Params {
		if i == 0 && p.Name == "self" {
			continue
		}
		params = append(params, p.Name+": "+zigType(fn.ParamTypes[i]))
	}

	e.writef("pub fn init(%s) %s {", joinComma(params), className)
	e.indent++
	e.writef("var self: %s = undefined;", className)
	if err := e.emitBlock(fd.Body); err != nil {
		return err
	}
	e.writeln("return self;")
	e.indent--
	e.writeln("}")
	return nil
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
