package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func typesOf(t *testing.T, toks []Token) []Type {
	t.Helper()
	out := make([]Type, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestLexSimpleFunction(t *testing.T) {
	toks, err := Lex("def f(n):\n    return n\n")
	require.NoError(t, err)
	require.Equal(t, []Type{DEF, NAME, LPAREN, NAME, RPAREN, COLON, NEWLINE, INDENT, RETURN, NAME, NEWLINE, DEDENT, EOF}, typesOf(t, toks))
}

func TestLexDedentToModuleLevel(t *testing.T) {
	toks, err := Lex("def f():\n    return 1\nprint(f())\n")
	require.NoError(t, err)
	last := toks[len(toks)-1]
	require.Equal(t, EOF, last.Type)
	var dedents int
	for _, tok := range toks {
		if tok.Type == DEDENT {
			dedents++
		}
	}
	require.Equal(t, 1, dedents)
}

func TestLexIntPrefixes(t *testing.T) {
	toks, err := Lex("0x1F\n0o17\n0b101\n42\n")
	require.NoError(t, err)
	require.Equal(t, int64(31), toks[0].IVal)
	require.Equal(t, int64(15), toks[2].IVal)
	require.Equal(t, int64(5), toks[4].IVal)
	require.Equal(t, int64(42), toks[6].IVal)
}

func TestLexFloat(t *testing.T) {
	toks, err := Lex("3.14\n")
	require.NoError(t, err)
	require.Equal(t, FLOAT, toks[0].Type)
	require.InDelta(t, 3.14, toks[0].FVal, 1e-9)
}

func TestLexStringEscapes(t *testing.T) {
	toks, err := Lex(`"a\nb\tc\\d\"e"` + "\n")
	require.NoError(t, err)
	require.Equal(t, "a\nb\tc\\d\"e", toks[0].Lexeme)
}

func TestLexMaximalMunchOperators(t *testing.T) {
	toks, err := Lex("<= >= == != // ** += -= -> \n")
	require.NoError(t, err)
	require.Equal(t, []Type{LE, GE, EQ, NE, DSLASH, DSTAR, PLUSEQ, MINUSEQ, ARROW, NEWLINE, EOF}, typesOf(t, toks))
}

func TestLexUnexpectedCharacter(t *testing.T) {
	_, err := Lex("$\n")
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	require.Equal(t, UnexpectedCharacter, lexErr.Kind)
}

func TestLexBadIndentationMismatch(t *testing.T) {
	_, err := Lex("if True:\n    pass\n  pass\n")
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	require.Equal(t, BadIndentation, lexErr.Kind)
}

func TestLexCommentsAndBlankLinesSwallowed(t *testing.T) {
	toks, err := Lex("# comment\n\ndef f():\n    return 1\n")
	require.NoError(t, err)
	require.Equal(t, DEF, toks[0].Type)
}

func TestLexIdempotence(t *testing.T) {
	src := "def f(a: int, b: str) -> int:\n    return a\n"
	first, err := Lex(src)
	require.NoError(t, err)
	second, err := Lex(src)
	require.NoError(t, err)
	require.Equal(t, typesOf(t, first), typesOf(t, second))
}
