package emitter

import (
	"strings"

	"github.com/zyth-lang/zythc/internal/analyzer"
	"github.com/zyth-lang/zythc/internal/ast"
)

// emitFunction lowers a `def`/`async def` to a Zig function, per
// SPEC_FULL.md §4.4.4. owner is non-nil when fd is a class method; its
// `self` parameter is emitted as a pointer receiver (§4.4.5).
func (e *Emitter) emitFunction(fd *ast.FunctionDef, owner *analyzer.ClassInfo) error {
	var fn *analyzer.FuncInfo
	if owner != nil {
		fn = owner.Methods[fd.Name]
	} else {
		fn = e.analysis.Functions[fd.Name]
	}

	prevFn, prevOwner, prevBound := e.fn, e.owner, e.bound
	e.fn, e.owner, e.bound = fn, owner, map[string]bool{}
	defer func() { e.fn, e.owner, e.bound = prevFn, prevOwner, prevBound }()

	params := make([]string, 0, len(fd.Params)+1)
	for i, p := range fd.Params {
		e.bound[p.Name] = true
		if owner != nil && i == 0 && p.Name == "self" {
			params = append(params, "self: *"+owner.Name)
			continue
		}
		params = append(params, p.Name+": "+zigType(fn.ParamTypes[i]))
	}
	if fn.NeedsAllocator {
		params = append(params, "alloc: std.mem.Allocator")
	}

	if fd.IsAsync {
		return e.emitAsyncFunction(fd, fn, params)
	}

	e.writef("pub fn %s(%s) %s {", fd.Name, joinComma(params), resultType(fn))
	e.indent++
	if err := e.emitBlock(fd.Body); err != nil {
		return err
	}
	if fn.ReturnType.Tag == analyzer.TagVoid {
		e.writeln("return;")
	}
	e.indent--
	e.writeln("}")
	e.writeln("")
	return nil
}

// emitAsyncFunction lowers an `async def` to the single-shot state-machine
// frame of SPEC_FULL.md §4.4.4: a `Frame_f` struct holding the call's
// arguments plus a `start`/`running`/`done` state, an `init` constructor,
// and a `resume` method that runs the body once and caches its result for
// any later `resume` call. The original name becomes a zero-frame-argument
// wrapper that builds the frame, resumes it once, and returns the result —
// so ordinary call sites never see the frame at all.
func (e *Emitter) emitAsyncFunction(fd *ast.FunctionDef, fn *analyzer.FuncInfo, params []string) error {
	frameName := "Frame_" + fd.Name
	hasResult := fn.ReturnType.Tag != analyzer.TagVoid
	resTy := zigType(fn.ReturnType)

	names := make([]string, len(params))
	for i, p := range params {
		names[i] = strings.SplitN(p, ":", 2)[0]
	}

	e.writef("pub const %s = struct {", frameName)
	e.indent++
	for _, p := range params {
		e.writef("%s,", p)
	}
	e.writeln("state: enum { start, running, done } = .start,")
	if hasResult {
		e.writef("result: %s = undefined,", resTy)
	}
	e.writeln("")

	e.writef("pub fn init(%s) %s {", joinComma(params), frameName)
	e.indent++
	inits := make([]string, len(names))
	for i, n := range names {
		inits[i] = "." + n + " = " + n
	}
	e.writef("return .{ %s };", strings.Join(inits, ", "))
	e.indent--
	e.writeln("}")
	e.writeln("")

	e.writef("pub fn resume(self: *%s) %s {", frameName, resultType(fn))
	e.indent++
	if hasResult {
		e.writeln("if (self.state == .done) return self.result;")
	} else {
		e.writeln("if (self.state == .done) return;")
	}
	e.writeln("self.state = .running;")
	for _, n := range names {
		e.writef("const %s = self.%s;", n, n)
	}

	prevAsync := e.asyncBlk
	e.asyncBlk = true
	if hasResult {
		e.writeln("self.result = blk: {")
	} else {
		e.writeln("blk: {")
	}
	e.indent++
	if err := e.emitBlock(fd.Body); err != nil {
		e.asyncBlk = prevAsync
		return err
	}
	e.indent--
	if hasResult {
		e.writeln("};")
	} else {
		e.writeln("}")
	}
	e.asyncBlk = prevAsync

	e.writeln("self.state = .done;")
	if hasResult {
		e.writeln("return self.result;")
	} else {
		e.writeln("return;")
	}
	e.indent--
	e.writeln("}")
	e.indent--
	e.writeln("};")
	e.writeln("")

	e.writef("pub fn %s(%s) %s {", fd.Name, joinComma(params), resultType(fn))
	e.indent++
	e.writef("var frame = %s.init(%s);", frameName, strings.Join(names, ", "))
	if fn.NeedsAllocator {
		e.writeln("return try frame.resume();")
	} else {
		e.writeln("return frame.resume();")
	}
	e.indent--
	e.writeln("}")
	e.writeln("")
	return nil
}
