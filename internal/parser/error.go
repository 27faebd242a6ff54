package parser

import (
	"fmt"

	"github.com/zyth-lang/zythc/internal/ast"
)

// Kind names the syntactic and restriction diagnostics of SPEC_FULL.md §7
// tier 1 that originate in the parser.
type Kind string

const (
	UnexpectedToken        Kind = "UnexpectedToken"
	ExpectedExpression     Kind = "ExpectedExpression"
	UnsupportedClassMember Kind = "UnsupportedClassMember"
	UnsupportedTarget      Kind = "UnsupportedTarget"
)

// Error is a parse diagnostic carrying its source span. The parser fails
// fast: the first Error returned aborts parsing.
type Error struct {
	Kind Kind
	Msg  string
	Span ast.Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Span.Offset, e.Msg)
}
