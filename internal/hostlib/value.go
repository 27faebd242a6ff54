// Package hostlib is a host-side (Go) mirror of the runtime value
// library's string/collection/JSON semantics. It exists for two
// consumers, per SPEC_FULL.md §2:
//
//   - the analyzer, which validates `json.loads("literal")` calls slated
//     for memoization at compile time rather than deferring the failure to
//     the emitted program;
//   - the test runner, which uses it as an independent oracle to compute
//     expected stdout for golden scenarios instead of hand-deriving it.
//
// Value mirrors runtime.zig's PyObject tag set exactly, minus the
// refcounting header, which has no meaning on the Go side.
package hostlib

import "fmt"

// Kind mirrors runtime.zig's Tag enum.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindNone
	KindString
	KindList
	KindDict
	KindTuple
)

// Value is the host-side equivalent of *PyObject.
type Value struct {
	Kind   Kind
	Int    int64
	Float  float64
	Bool   bool
	Str    string
	List   []Value
	Tuple  []Value
	Dict   map[string]Value
	DOrder []string // dict keys; LoadsJSON fills it in Go map iteration order, not source order
}

func Int(v int64) Value    { return Value{Kind: KindInt, Int: v} }
func Float(v float64) Value { return Value{Kind: KindFloat, Float: v} }
func Bool(v bool) Value    { return Value{Kind: KindBool, Bool: v} }
func None() Value          { return Value{Kind: KindNone} }
func Str(v string) Value   { return Value{Kind: KindString, Str: v} }

// Display mirrors runtime.zig's toDisplayString, the text print() emits.
func (v Value) Display() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNone:
		return "None"
	case KindList:
		return displaySeq(v.List, "[", "]")
	case KindTuple:
		return displaySeq(v.Tuple, "(", ")")
	case KindDict:
		return "{...}"
	default:
		return "<object>"
	}
}

func displaySeq(items []Value, open, close string) string {
	out := open
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item.Display()
	}
	return out + close
}
