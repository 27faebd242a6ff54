// Package runtime embeds the Zig runtime value library linked into every
// compiled Zyth program.
//
// The library ships as a single `.zig` source file rather than a separately
// compiled artifact: Zig has no stable ABI-level package manager step in
// this pipeline, so the build orchestrator (internal/build) writes Source
// out as a `runtime.zig` sibling of the emitted program on every build and
// lets `zig build-exe` resolve the emitter's `@import("runtime.zig")` as a
// plain file import, the way
// `_examples/original_source/packages/core/zyth_core/compiler.py` inlines
// its own runtime ahead of invoking the TL compiler.
package runtime

import _ "embed"

//go:embed runtime.zig
var source string

// Source returns the embedded runtime library's Zig text, byte-identical
// across calls (the compiler's determinism property, spec.md §8, requires
// this).
func Source() string {
	return source
}
