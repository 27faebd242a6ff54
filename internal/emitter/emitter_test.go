package emitter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zyth-lang/zythc/internal/analyzer"
	"github.com/zyth-lang/zythc/internal/parser"
)

func emit(t *testing.T, src string) string {
	t.Helper()
	mod, err := parser.Parse(src)
	require.NoError(t, err)
	result, err := analyzer.Analyze(mod)
	require.NoError(t, err)
	out, err := EmitModule(mod, result)
	require.NoError(t, err)
	return out
}

func TestEmitIntFunction(t *testing.T) {
	out := emit(t, "def f(n):\n    return n + 1\ndef main():\n    print(f(7))\n")
	require.Contains(t, out, "pub fn f(n: i64) i64 {")
	require.Contains(t, out, "return (n + 1);")
	require.Contains(t, out, "runtime.printInt(f(7))")
}

func TestEmitFibonacci(t *testing.T) {
	src := "def fib(n):\n    if n < 2:\n        return n\n    return fib(n - 1) + fib(n - 2)\n"
	out := emit(t, src)
	require.Contains(t, out, "pub fn fib(n: i64) i64 {")
	require.Contains(t, out, "if ((n < 2)) {")
	require.Contains(t, out, "return (fib((n - 1)) + fib((n - 2)));")
}

func TestEmitStringConcat(t *testing.T) {
	src := "def greet(name):\n    return \"hi \" + name\n"
	out := emit(t, src)
	require.Contains(t, out, "pub fn greet(name: *PyObject, alloc: std.mem.Allocator) !*PyObject {")
	require.Contains(t, out, "try runtime.stringConcat(alloc,")
}

func TestEmitListAppendLen(t *testing.T) {
	src := "def f():\n    xs = []\n    xs.append(1)\n    return len(xs)\n"
	out := emit(t, src)
	require.Contains(t, out, "try runtime.newList(alloc)")
	require.Contains(t, out, "defer runtime.decref(xs, alloc);")
	require.Contains(t, out, "runtime.len(xs)")
}

func TestEmitRangeFor(t *testing.T) {
	src := "def f():\n    for i in range(3):\n        print(i)\n    return 0\n"
	out := emit(t, src)
	require.Contains(t, out, "var i: i64 = 0;")
	require.Contains(t, out, "while (i < 3) : (i += 1) {")
	require.Contains(t, out, "runtime.printInt(i)")
}

func TestEmitClassMethod(t *testing.T) {
	src := "class Counter:\n    def __init__(self, start):\n        self.value = start\n    def get(self):\n        return self.value\n"
	out := emit(t, src)
	require.Contains(t, out, "pub const Counter = struct {")
	require.Contains(t, out, "value: i64,")
	require.Contains(t, out, "pub fn init(start: i64) Counter {")
	require.Contains(t, out, "pub fn get(self: *Counter) i64 {")
	require.Contains(t, out, "return self.value;")
}

func TestEmitReassignmentDecref(t *testing.T) {
	src := "def f():\n    s = \"a\"\n    s = \"b\"\n    return s\n"
	out := emit(t, src)
	require.Contains(t, out, `var s = try runtime.newString(alloc, "a");`)
	require.Contains(t, out, "runtime.decref(s, alloc);")
	require.Contains(t, out, `s = try runtime.newString(alloc, "b");`)
}

func TestEmitAsyncFunction(t *testing.T) {
	src := "async def f(n):\n    return n + 1\ndef main():\n    print(f(7))\n"
	out := emit(t, src)
	require.Contains(t, out, "pub const Frame_f = struct {")
	require.Contains(t, out, "n: i64,")
	require.Contains(t, out, "state: enum { start, running, done } = .start,")
	require.Contains(t, out, "result: i64 = undefined,")
	require.Contains(t, out, "pub fn init(n: i64) Frame_f {")
	require.Contains(t, out, "return .{ .n = n };")
	require.Contains(t, out, "pub fn resume(self: *Frame_f) i64 {")
	require.Contains(t, out, "if (self.state == .done) return self.result;")
	require.Contains(t, out, "const n = self.n;")
	require.Contains(t, out, "self.result = blk: {")
	require.Contains(t, out, "break :blk (n + 1);")
	require.Contains(t, out, "self.state = .done;")
	require.Contains(t, out, "return self.result;")

	// The wrapper keeps the original name and signature, so an ordinary
	// call site never has to construct the frame itself.
	require.Contains(t, out, "pub fn f(n: i64) i64 {")
	require.Contains(t, out, "var frame = Frame_f.init(n);")
	require.Contains(t, out, "return frame.resume();")
	require.Contains(t, out, "runtime.printInt(f(7))")
}

func TestEmitPrintBoolLiteral(t *testing.T) {
	src := "def f():\n    print(True)\n    return 0\n"
	out := emit(t, src)
	require.Contains(t, out, "try runtime.printObject(alloc, runtime.boxBool(true))")
}

func TestEmitPrintComparison(t *testing.T) {
	src := "def f(n):\n    print(n < 2)\n    return 0\n"
	out := emit(t, src)
	require.Contains(t, out, "try runtime.printObject(alloc, runtime.boxBool((n < 2)))")
}

func TestEmitDictGetWithDefault(t *testing.T) {
	src := "def f(d):\n    return d.get(\"k\", 0)\n"
	out := emit(t, src)
	require.Contains(t, out, "runtime.dictGetDefault(d,")
	require.Contains(t, out, `try runtime.newString(alloc, "k")`)
	require.Contains(t, out, "try runtime.boxInt(alloc, 0)")
}

func TestEmitJSONLiteralMemoization(t *testing.T) {
	src := "def f():\n    return json.loads(\"{}\")\n"
	out := emit(t, src)
	require.Contains(t, out, "__json_memo_1")
	require.Contains(t, out, "if (__json_memo_1) |v| break :blk v;")
	require.Contains(t, out, "var __json_memo_1: ?*PyObject = null;")
}

func TestEmitEnumerateFor(t *testing.T) {
	src := "def f(xs):\n    for i, v in enumerate(xs):\n        print(v)\n    return 0\n"
	out := emit(t, src)
	require.Contains(t, out, "while (i < runtime.len(xs)) : (i += 1) {")
	require.Contains(t, out, "runtime.getItemUnchecked(xs, i)")
}
