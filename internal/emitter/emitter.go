// Package emitter lowers a type-annotated AST (an *ast.Module plus the
// *analyzer.Result describing it) into Zig source text, per SPEC_FULL.md
// §4.4. Names and user functions are typed from the tag tables the analyzer
// already built; literal kinds and operator shapes are read off the AST
// directly (argIsInt, argIsBool, addProducesString, boxed).
package emitter

import (
	"fmt"
	"strings"

	"github.com/zyth-lang/zythc/internal/analyzer"
	"github.com/zyth-lang/zythc/internal/ast"
)

// Emitter accumulates Zig source text for one module. It is not safe for
// concurrent use; callers invoke EmitModule once per compilation unit.
type Emitter struct {
	buf    strings.Builder
	indent int

	analysis *analyzer.Result
	fn       *analyzer.FuncInfo // function currently being emitted, for Locals/Reassigned lookups
	owner    *analyzer.ClassInfo
	bound    map[string]bool // names already bound in the function currently being emitted

	tmp       int
	jsonSlots map[string]string // literal JSON text -> module-level memoized slot name
	jsonOrder []string          // preserves first-seen order for deterministic preamble emission

	asyncBlk bool // true while emitting an async frame's resume body: Return lowers to `break :blk` instead of `return`
}

// EmitModule is the entry point: it produces a complete runtime.zig-importing
// Zig source file implementing mod's functions and classes.
func EmitModule(mod *ast.Module, analysis *analyzer.Result) (string, error) {
	e := &Emitter{analysis: analysis, jsonSlots: map[string]string{}}

	e.writeln(`const std = @import("std");`)
	e.writeln(`const runtime = @import("runtime.zig");`)
	e.writeln(`const PyObject = runtime.PyObject;`)
	e.writeln("")

	var classes []*ast.ClassDef
	var funcs []*ast.FunctionDef
	for _, stmt := range mod.Body {
		switch s := stmt.(type) {
		case *ast.ClassDef:
			classes = append(classes, s)
		case *ast.FunctionDef:
			funcs = append(funcs, s)
		}
	}

	for _, cd := range classes {
		if err := e.emitClass(cd); err != nil {
			return "", err
		}
	}
	for _, fd := range funcs {
		if err := e.emitFunction(fd, nil); err != nil {
			return "", err
		}
	}

	// json.loads/dumps literal memoization slots are module-level `var`s,
	// lazily initialized on first use and reused thereafter (§4.4.7).
	if len(e.jsonOrder) > 0 {
		preamble := &strings.Builder{}
		fmt.Fprintf(preamble, "\n")
		for _, lit := range e.jsonOrder {
			fmt.Fprintf(preamble, "var %s: ?*PyObject = null;\n", e.jsonSlots[lit])
		}
		out := e.buf.String()
		head := `const std = @import("std");` + "\n" + `const runtime = @import("runtime.zig");` + "\n" + `const PyObject = runtime.PyObject;` + "\n"
		out = strings.Replace(out, head, head+preamble.String(), 1)
		return out, nil
	}

	return e.buf.String(), nil
}

func (e *Emitter) writeln(s string) {
	if s == "" {
		e.buf.WriteString("\n")
		return
	}
	e.buf.WriteString(strings.Repeat("    ", e.indent))
	e.buf.WriteString(s)
	e.buf.WriteString("\n")
}

func (e *Emitter) writef(format string, args ...any) {
	e.writeln(fmt.Sprintf(format, args...))
}

func (e *Emitter) newTemp(prefix string) string {
	e.tmp++
	return fmt.Sprintf("__%s%d", prefix, e.tmp)
}

// zigType maps an analyzer.Type to the Zig type used for parameters, return
// values, and local bindings (§4.4.1).
func zigType(ty analyzer.Type) string {
	switch ty.Tag {
	case analyzer.TagVoid:
		return "void"
	case analyzer.TagInt:
		return "i64"
	case analyzer.TagFloat:
		return "f64"
	case analyzer.TagBool:
		return "bool"
	case analyzer.TagClass:
		return "*" + ty.Class
	default: // string, list, dict, tuple, pyobject all carry the same runtime representation
		return "*PyObject"
	}
}

// resultType is the Zig return-type text, wrapped in an error union when the
// function is fallible (§4.4.6).
func resultType(fn *analyzer.FuncInfo) string {
	t := zigType(fn.ReturnType)
	if fn.NeedsAllocator {
		return "!" + t
	}
	return t
}

// typeOf looks name up in the current function's locals (when e.fn is set),
// then in the module table, and falls back to pyobject.
func (e *Emitter) typeOf(name string) analyzer.Type {
	if e.fn != nil {
		if t, ok := e.fn.Locals[name]; ok {
			return t
		}
	}
	if t, ok := e.analysis.ModuleSymbols[name]; ok {
		return t
	}
	return analyzer.Type{Tag: analyzer.TagPyObject}
}

func (e *Emitter) isReassigned(name string) bool {
	if e.fn != nil {
		return e.fn.Reassigned[name]
	}
	return e.analysis.ModuleReassigned[name]
}

// bindingKeyword implements §4.4.1: `var` when the name is reassigned later,
// or when it holds a class instance whose class defines at least one method
// (the receiver must be addressable for `recv.method()` call syntax).
func (e *Emitter) bindingKeyword(name string, ty analyzer.Type) string {
	if e.isReassigned(name) {
		return "var"
	}
	if ty.Tag == analyzer.TagClass {
		if ci, ok := e.analysis.Classes[ty.Class]; ok && len(ci.Methods) > 0 {
			return "var"
		}
	}
	return "const"
}
