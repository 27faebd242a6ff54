package hostlib

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// LoadsJSON parses exactly one RFC-8259 JSON value with nothing but
// whitespace after it, as runtime.zig's jsonLoads does, so the analyzer's
// compile-time literal check and the emitted program's runtime parse agree
// on well-formedness. One difference remains: an integer outside the int64
// range loads here as a float, while jsonLoads fails on it.
func LoadsJSON(text string) (Value, error) {
	var raw any
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("hostlib: invalid JSON literal: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("hostlib: invalid JSON literal: data after the top-level value")
	}
	return fromAny(raw), nil
}

// ValidateJSON reports only whether text parses, for the analyzer's
// InvalidJSONLiteral diagnostic (SPEC_FULL.md §4.3 addition).
func ValidateJSON(text string) error {
	_, err := LoadsJSON(text)
	return err
}

// DumpsJSON serializes v back to JSON text with encoding/json, which writes
// object keys in sorted order, while runtime.zig's jsonDumps writes them in
// its dict's iteration order; callers comparing with the emitted program
// should compare parsed values, not raw text (see the round-trip law in
// spec.md §8).
func DumpsJSON(v Value) (string, error) {
	out, err := json.Marshal(toAny(v))
	if err != nil {
		return "", fmt.Errorf("hostlib: dumps: %w", err)
	}
	return string(out), nil
}

func fromAny(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return None()
	case bool:
		return Bool(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int(i)
		}
		f, _ := v.Float64()
		return Float(f)
	case string:
		return Str(v)
	case []any:
		items := make([]Value, len(v))
		for i, el := range v {
			items[i] = fromAny(el)
		}
		return Value{Kind: KindList, List: items}
	case map[string]any:
		d := map[string]Value{}
		order := make([]string, 0, len(v))
		for k, val := range v {
			d[k] = fromAny(val)
			order = append(order, k)
		}
		return Value{Kind: KindDict, Dict: d, DOrder: order}
	default:
		return None()
	}
}

func toAny(v Value) any {
	switch v.Kind {
	case KindNone:
		return nil
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindList, KindTuple:
		items := v.List
		if v.Kind == KindTuple {
			items = v.Tuple
		}
		out := make([]any, len(items))
		for i, el := range items {
			out[i] = toAny(el)
		}
		return out
	case KindDict:
		out := map[string]any{}
		for k, val := range v.Dict {
			out[k] = toAny(val)
		}
		return out
	default:
		return nil
	}
}
