package emitter

import (
	"fmt"

	"github.com/zyth-lang/zythc/internal/ast"
)

// Kind names the restriction diagnostics of SPEC_FULL.md §7 tier 1 that
// originate during emission, once the shape of a `for` loop is known.
// UnsupportedImport is declared here but no emission path returns it:
// import statements emit no code, whatever module they name.
type Kind string

const (
	UnsupportedForLoop     Kind = "UnsupportedForLoop"
	UnsupportedImport      Kind = "UnsupportedImport"
	InvalidRangeArgs       Kind = "InvalidRangeArgs"
	InvalidEnumerateTarget Kind = "InvalidEnumerateTarget"
	InvalidZipTarget       Kind = "InvalidZipTarget"
)

// Error is an emission-time diagnostic carrying its source span.
type Error struct {
	Kind Kind
	Msg  string
	Span ast.Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Span.Offset, e.Msg)
}
