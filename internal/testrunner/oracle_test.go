package testrunner

import "testing"

func TestDeriveExpectedHandlesLiteralPrint(t *testing.T) {
	cases := map[string]string{
		"print(7)":                 "7\n",
		"print(\"hi\")":             "hi\n",
		"print(True)":               "true\n",
		"print([1, 2, 3])":          "[1, 2, 3]\n",
		"print(\"a\" + \"b\")":      "ab\n",
		"print(-3)":                 "-3\n",
	}
	for source, want := range cases {
		got, ok := deriveExpected(source)
		if !ok {
			t.Fatalf("deriveExpected(%q): expected a match", source)
		}
		if got != want {
			t.Fatalf("deriveExpected(%q) = %q, want %q", source, got, want)
		}
	}
}

func TestDeriveExpectedRejectsNonLiteralPrograms(t *testing.T) {
	sources := []string{
		"a = 1\nprint(a)\n",
		"def f(n):\n    return n\nprint(f(7))\n",
		"for i in range(3):\n    print(i)\n",
	}
	for _, source := range sources {
		if _, ok := deriveExpected(source); ok {
			t.Fatalf("deriveExpected(%q): expected no match", source)
		}
	}
}
