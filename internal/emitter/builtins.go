package emitter

import "github.com/zyth-lang/zythc/internal/ast"

// intProducingOps are the binary operators (besides string-aware Add) that
// always produce an `i64` result, used to decide whether print() needs the
// native-int or PyObject lowering.
var intProducingOps = map[ast.Operator]bool{
	ast.Sub: true, ast.Mul: true, ast.FloorDiv: true, ast.Mod: true, ast.Pow: true,
	ast.BitAnd: true, ast.BitOr: true, ast.BitXor: true, ast.Shl: true, ast.Shr: true,
}

// methodReturnsInt reports whether a dispatched method name returns an int,
// mirroring analyzer.methodReturnTag's table.
func methodReturnsInt(name string) bool {
	switch name {
	case "count", "index", "find":
		return true
	default:
		return false
	}
}

// boolProducingOps are the binary operators that always produce a native
// Zig `bool` result, used alongside intProducingOps to decide print()'s
// lowering.
var boolProducingOps = map[ast.Operator]bool{
	ast.Lt: true, ast.Le: true, ast.Gt: true, ast.Ge: true, ast.Eq: true, ast.Ne: true,
	ast.In: true, ast.Is: true, ast.And: true, ast.Or: true,
}

// methodReturnsBool reports whether a dispatched method name returns a bool,
// mirroring analyzer.methodReturnTag's table.
func methodReturnsBool(name string) bool {
	switch name {
	case "startswith", "endswith", "isdigit", "isalpha":
		return true
	default:
		return false
	}
}

// methodSpec describes how a dispatched `recv.name(args...)` call lowers to
// a runtime helper, per SPEC_FULL.md §4.3 rule 5's fixed method table.
type methodSpec struct {
	runtimeFn string
	fallible  bool
}

// methodDispatch is grounded on analyzer.methodReturnTag's table: every
// method named there has an entry here, since a method the analyzer can
// type must also be one the emitter can lower. append, get, keys, values
// and items appear only here; methodReturnTag types them as pyobject.
var methodDispatch = map[string]methodSpec{
	"upper":      {"strUpper", true},
	"lower":      {"strLower", true},
	"strip":      {"strStrip", true},
	"lstrip":     {"strLstrip", true},
	"rstrip":     {"strRstrip", true},
	"replace":    {"strReplace", true},
	"capitalize": {"strCapitalize", true},
	"title":      {"strTitle", true},
	"swapcase":   {"strSwapcase", true},
	"center":     {"strCenter", true},
	"join":       {"strJoin", true},
	"copy":       {"listCopy", true},
	"reversed":   {"listReversed", true},
	"split":      {"strSplit", true},
	"count":      {"strCount", false},
	"index":      {"strIndex", false},
	"find":       {"strFind", false},
	"append":     {"listAppend", true},
	"get":        {"dictGet", false},
	"keys":       {"dictKeys", true},
	"values":     {"dictValues", true},
	"items":      {"dictItems", true},
	"startswith": {"strStartswith", false},
	"endswith":   {"strEndswith", false},
	"isdigit":    {"strIsdigit", false},
	"isalpha":    {"strIsalpha", false},
	"pop":        {"listPop", false},
	"extend":     {"listExtend", true},
	"reverse":    {"listReverse", false},
	"remove":     {"listRemove", false},
	"insert":     {"listInsert", true},
	"clear":      {"listClear", false},
	"sort":       {"listSort", false},
	"update":     {"dictUpdate", true},
}
