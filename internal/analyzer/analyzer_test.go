package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zyth-lang/zythc/internal/parser"
)

func analyze(t *testing.T, src string) *Result {
	t.Helper()
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	r, err := Analyze(mod)
	require.NoError(t, err)
	return r
}

func TestIntReturnInference(t *testing.T) {
	r := analyze(t, "def f(n):\n    return n\n")
	require.Equal(t, TagInt, r.Functions["f"].ReturnType.Tag)
	require.Equal(t, TagInt, r.Functions["f"].ParamTypes[0].Tag)
}

func TestStringConcatParamAndReturnArePyObject(t *testing.T) {
	r := analyze(t, "def greet(name):\n    return \"hi \" + name\n")
	require.Equal(t, TagPyObject, r.Functions["greet"].ParamTypes[0].Tag)
	require.Equal(t, TagPyObject, r.Functions["greet"].ReturnType.Tag)
	require.True(t, r.Functions["greet"].NeedsAllocator)
}

func TestSubscriptedParamIsPyObject(t *testing.T) {
	r := analyze(t, "def first(xs):\n    return xs[0]\n")
	require.Equal(t, TagPyObject, r.Functions["first"].ParamTypes[0].Tag)
	require.True(t, r.Functions["first"].NeedsAllocator)
}

func TestLenParamIsPyObject(t *testing.T) {
	r := analyze(t, "def size(xs):\n    return len(xs)\n")
	require.Equal(t, TagPyObject, r.Functions["size"].ParamTypes[0].Tag)
	require.True(t, r.Functions["size"].NeedsAllocator)
}

func TestReassignmentDetection(t *testing.T) {
	r := analyze(t, "def f():\n    x = 1\n    x = 2\n    return x\n")
	require.True(t, r.Functions["f"].Reassigned["x"])
}

func TestSingleAssignmentIsNotReassigned(t *testing.T) {
	r := analyze(t, "def f():\n    x = 1\n    return x\n")
	require.False(t, r.Functions["f"].Reassigned["x"])
}

func TestForTargetAlwaysReassigned(t *testing.T) {
	r := analyze(t, "def f(xs):\n    for x in xs:\n        return x\n    return 0\n")
	require.True(t, r.Functions["f"].Reassigned["x"])
}

func TestAllocatorNeedPropagatesThroughCallGraph(t *testing.T) {
	r := analyze(t, "def inner():\n    return \"x\" + \"y\"\ndef outer():\n    return inner()\n")
	require.True(t, r.Functions["inner"].NeedsAllocator)
	require.True(t, r.Functions["outer"].NeedsAllocator)
}

func TestClassFieldsFromInit(t *testing.T) {
	r := analyze(t, "class C:\n    def __init__(self, x):\n        self.x = x\n    def g(self):\n        return self.x\n")
	require.Equal(t, []string{"x"}, r.Classes["C"].Fields)
	require.Equal(t, TagClass, r.Classes["C"].Methods["g"].ParamTypes[0].Tag)
}

func TestConstructorCallTagsAsClass(t *testing.T) {
	r := analyze(t, "class C:\n    def __init__(self, x):\n        self.x = x\ndef f():\n    c = C(1)\n    return 0\n")
	require.Equal(t, TagClass, r.Functions["f"].Locals["c"].Tag)
	require.Equal(t, "C", r.Functions["f"].Locals["c"].Class)
}

func TestListDictTupleLiteralTags(t *testing.T) {
	r := analyze(t, "def f():\n    a = [1, 2]\n    b = {1: 2}\n    c = (1, 2)\n    return 0\n")
	require.Equal(t, TagList, r.Functions["f"].Locals["a"].Tag)
	require.Equal(t, TagDict, r.Functions["f"].Locals["b"].Tag)
	require.Equal(t, TagTuple, r.Functions["f"].Locals["c"].Tag)
}

func TestMethodCallReturnTags(t *testing.T) {
	r := analyze(t, "def f(s):\n    a = s.upper()\n    b = s.count(\"x\")\n    return 0\n")
	require.Equal(t, TagString, r.Functions["f"].Locals["a"].Tag)
	require.Equal(t, TagInt, r.Functions["f"].Locals["b"].Tag)
}

func TestOverapproximatedNestedAddIsString(t *testing.T) {
	r := analyze(t, "def f():\n    a = (1 + 2) + 3\n    return 0\n")
	require.Equal(t, TagString, r.Functions["f"].Locals["a"].Tag)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	src := "def greet(name):\n    return \"hi \" + name\n"
	mod1, err := parser.Parse(src)
	require.NoError(t, err)
	r1, err := Analyze(mod1)
	require.NoError(t, err)

	mod2, err := parser.Parse(src)
	require.NoError(t, err)
	r2, err := Analyze(mod2)
	require.NoError(t, err)

	require.Equal(t, r1.Functions["greet"].ReturnType, r2.Functions["greet"].ReturnType)
	require.Equal(t, r1.Functions["greet"].NeedsAllocator, r2.Functions["greet"].NeedsAllocator)
}

func TestValidJSONLiteralPassesAnalysis(t *testing.T) {
	_ = analyze(t, "def f():\n    return json.loads(\"{\\\"a\\\": 1}\")\n")
}

func TestInvalidJSONLiteralIsCompileTimeError(t *testing.T) {
	mod, err := parser.Parse("def f():\n    return json.loads(\"{bad\")\n")
	require.NoError(t, err)
	_, err = Analyze(mod)
	require.Error(t, err)
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	require.Equal(t, InvalidJSONLiteral, aerr.Kind)
}

func TestNonLiteralJSONLoadsArgumentSkipsCompileTimeCheck(t *testing.T) {
	_ = analyze(t, "def f(s):\n    return json.loads(s)\n")
}
