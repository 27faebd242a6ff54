package analyzer

// methodReturnTag implements SPEC_FULL.md §4.3 rule 5's fixed dispatch
// table for attribute-call return tags.
func methodReturnTag(name string) Tag {
	switch name {
	case "upper", "lower", "strip", "lstrip", "rstrip", "replace", "capitalize",
		"title", "swapcase", "center", "join":
		return TagString
	case "copy", "reversed", "split":
		return TagList
	case "count", "index", "find":
		return TagInt
	case "startswith", "endswith", "isdigit", "isalpha":
		return TagBool
	case "pop":
		return TagPyObject
	case "extend", "reverse", "remove", "insert", "clear", "sort", "update":
		return TagVoid
	default:
		return TagPyObject
	}
}
