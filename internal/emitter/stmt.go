package emitter

import (
	"fmt"

	"github.com/zyth-lang/zythc/internal/analyzer"
	"github.com/zyth-lang/zythc/internal/ast"
)

// emitBlock lowers a statement sequence in source order.
func (e *Emitter) emitBlock(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := e.emitStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) emitStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Assign:
		return e.emitAssign(s)
	case *ast.ExprStmt:
		text, err := e.emitExpr(s.X)
		if err != nil {
			return err
		}
		e.writef("_ = %s;", text)
		return nil
	case *ast.Return:
		kw := "return"
		if e.asyncBlk {
			kw = "break :blk"
		}
		if s.Value == nil {
			e.writef("%s;", kw)
			return nil
		}
		text, err := e.emitExpr(s.Value)
		if err != nil {
			return err
		}
		e.writef("%s %s;", kw, text)
		return nil
	case *ast.If:
		cond, err := e.emitExpr(s.Cond)
		if err != nil {
			return err
		}
		e.writef("if (%s) {", cond)
		e.indent++
		if err := e.emitBlock(s.Then); err != nil {
			return err
		}
		e.indent--
		if len(s.Else) > 0 {
			e.writeln("} else {")
			e.indent++
			if err := e.emitBlock(s.Else); err != nil {
				return err
			}
			e.indent--
		}
		e.writeln("}")
		return nil
	case *ast.While:
		cond, err := e.emitExpr(s.Cond)
		if err != nil {
			return err
		}
		e.writef("while (%s) {", cond)
		e.indent++
		if err := e.emitBlock(s.Body); err != nil {
			return err
		}
		e.indent--
		e.writeln("}")
		return nil
	case *ast.For:
		return e.emitFor(s)
	case *ast.Import, *ast.ImportFrom:
		// json/http are host modules resolved entirely at call sites
		// (§4.4.7); no Zig import is emitted for the module name itself.
		return nil
	default:
		return fmt.Errorf("emitter: unsupported statement %T", stmt)
	}
}

// emitAssign lowers an assignment, applying §4.4.1's binding and
// reassignment rules: a first binding picks `const`/`var` via
// bindingKeyword and registers a scoped-release `defer` for heap-typed
// names; a later reassignment decrefs the outgoing value before rebinding.
func (e *Emitter) emitAssign(s *ast.Assign) error {
	text, err := e.emitExpr(s.Value)
	if err != nil {
		return err
	}

	for _, t := range s.Targets {
		if t.Attr {
			if len(t.Names) != 2 {
				return fmt.Errorf("emitter: unsupported attribute assignment target")
			}
			e.writef("%s.%s = %s;", t.Names[0], t.Names[1], text)
			continue
		}
		if len(t.Names) != 1 {
			return fmt.Errorf("emitter: tuple-unpacking assignment is not supported by this emitter")
		}
		name := t.Names[0]
		ty := e.typeOf(name)
		rhs := text
		isRefcounted := ty.Tag.IsHeap() && ty.Tag != analyzer.TagClass
		if isRefcounted {
			rhs = e.boxed(s.Value, text)
		}

		if e.bound == nil {
			e.bound = map[string]bool{}
		}
		if e.bound[name] {
			if isRefcounted {
				e.writef("runtime.decref(%s, alloc);", name)
			}
			e.writef("%s = %s;", name, rhs)
			continue
		}

		e.bound[name] = true
		kw := e.bindingKeyword(name, ty)
		e.writef("%s %s = %s;", kw, name, rhs)
		if isRefcounted {
			e.writef("defer runtime.decref(%s, alloc);", name)
		}
	}
	return nil
}
