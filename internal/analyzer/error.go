package analyzer

import (
	"fmt"

	"github.com/zyth-lang/zythc/internal/ast"
)

// Kind names the restriction and semantic diagnostics the analyzer can
// surface, per SPEC_FULL.md §7 tier 1.
type Kind string

const (
	InvalidJSONLiteral Kind = "InvalidJSONLiteral"
)

// Error is an analysis-time diagnostic carrying its source span.
type Error struct {
	Kind Kind
	Msg  string
	Span ast.Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Span.Offset, e.Msg)
}
