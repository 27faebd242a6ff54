package hostlib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateJSONAcceptsWellFormed(t *testing.T) {
	require.NoError(t, ValidateJSON(`{"a": 1, "b": [1, 2, 3], "c": null}`))
}

func TestValidateJSONRejectsTrailingComma(t *testing.T) {
	require.Error(t, ValidateJSON(`{"a": 1,}`))
}

func TestLoadsDumpsRoundTrip(t *testing.T) {
	v, err := LoadsJSON(`{"x": 1, "y": "two", "z": [true, false, null]}`)
	require.NoError(t, err)
	require.Equal(t, KindDict, v.Kind)

	out, err := DumpsJSON(v)
	require.NoError(t, err)

	roundTripped, err := LoadsJSON(out)
	require.NoError(t, err)
	require.Equal(t, v.Dict["x"], roundTripped.Dict["x"])
	require.Equal(t, v.Dict["y"], roundTripped.Dict["y"])
}

func TestStringOpsMirrorRuntimeSemantics(t *testing.T) {
	require.Equal(t, "HELLO", Upper("hello"))
	require.Equal(t, "hello", Lower(Upper("hello")))
	require.Equal(t, "Hello World", Title("hello world"))
	require.Equal(t, "Hello", Capitalize("hELLO"))
	require.Equal(t, "hELLO", Swapcase("Hello"))
	require.Equal(t, "  hi  ", Center("hi", 6))
	require.Equal(t, []string{"a", "b", "c"}, Split("a b  c"))
	require.Equal(t, "a-b-c", Join("-", []string{"a", "b", "c"}))
	require.Equal(t, int64(2), Count("abcabc", "a"))
	require.Equal(t, int64(1), Index("abc", "b"))
	require.True(t, StartsWith("hello", "he"))
	require.True(t, EndsWith("hello", "lo"))
	require.True(t, IsDigit("123"))
	require.False(t, IsDigit("12a"))
	require.True(t, IsAlpha("abc"))
}
