package lexer

import (
	"fmt"

	"github.com/zyth-lang/zythc/internal/ast"
)

// Kind names the compile-time, user-fixable lexical diagnostics of
// SPEC_FULL.md §7 tier 1.
type Kind string

const (
	UnexpectedCharacter Kind = "UnexpectedCharacter"
	BadIndentation      Kind = "BadIndentation"
)

// Error is a lexical diagnostic carrying its source span.
type Error struct {
	Kind Kind
	Msg  string
	Span ast.Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Span.Offset, e.Msg)
}
