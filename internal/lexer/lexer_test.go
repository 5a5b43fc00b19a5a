package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenKinds(source string) []TokenKind {
	lexer := New([]byte(source), nil)
	tokens, _ := lexer.Tokenize()
	kinds := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		kinds[i] = t.Kind
	}
	return kinds
}

func tokenTexts(source string) []string {
	lexer := New([]byte(source), nil)
	tokens, _ := lexer.Tokenize()
	var texts []string
	for _, t := range tokens {
		if t.Kind != TokEOF {
			texts = append(texts, source[t.Span.Start:t.Span.End])
		}
	}
	return texts
}

func lexError(t *testing.T, source string) string {
	t.Helper()
	lexer := New([]byte(source), nil)
	_, err := lexer.Tokenize()
	require.NotNil(t, err, "expected lex error for %q", source)
	return err.Error()
}

func TestEmptyInput(t *testing.T) {
	assert.Equal(t, []TokenKind{TokEOF}, tokenKinds(""))
}

func TestPunctuation(t *testing.T) {
	kinds := tokenKinds("{ } [ ] ( ) ; , = < > : /")
	expected := []TokenKind{
		TokLBrace, TokRBrace, TokLBracket, TokRBracket,
		TokLParen, TokRParen, TokSemicolon, TokComma,
		TokEquals, TokLAngle, TokRAngle, TokColon, TokSlash, TokEOF,
	}
	assert.Equal(t, expected, kinds)
}

func TestKeywords(t *testing.T) {
	kinds := tokenKinds("syntax message enum service rpc returns stream oneof map")
	expected := []TokenKind{
		TokKwSyntax, TokKwMessage, TokKwEnum, TokKwService,
		TokKwRpc, TokKwReturns, TokKwStream, TokKwOneof, TokKwMap, TokEOF,
	}
	assert.Equal(t, expected, kinds)
}

func TestIdentifiers(t *testing.T) {
	texts := tokenTexts("foo Bar_Baz _leading x1")
	assert.Equal(t, []string{"foo", "Bar_Baz", "_leading", "x1"}, texts)
}

func TestDottedIdentifiers(t *testing.T) {
	texts := tokenTexts("google.protobuf.Timestamp .foo.Bar")
	assert.Equal(t, []string{"google.protobuf.Timestamp", ".foo.Bar"}, texts)

	kinds := tokenKinds("a.b.C")
	assert.Equal(t, []TokenKind{TokIdent, TokEOF}, kinds)
}

func TestDottedNameIsNeverKeyword(t *testing.T) {
	kinds := tokenKinds("foo.message")
	assert.Equal(t, []TokenKind{TokIdent, TokEOF}, kinds)
}

func TestIntegerLiterals(t *testing.T) {
	texts := tokenTexts("0 1 42 0x1F -7")
	assert.Equal(t, []string{"0", "1", "42", "0x1F", "-7"}, texts)

	kinds := tokenKinds("42 -7 0xFF")
	assert.Equal(t, []TokenKind{TokIntLit, TokIntLit, TokIntLit, TokEOF}, kinds)
}

func TestFloatLiterals(t *testing.T) {
	kinds := tokenKinds("1.5 -0.25 2e10 3.14e-2")
	expected := []TokenKind{
		TokFloatLit, TokFloatLit, TokFloatLit, TokFloatLit, TokEOF,
	}
	assert.Equal(t, expected, kinds)
}

func TestSignedNonFiniteFloats(t *testing.T) {
	kinds := tokenKinds("-inf -nan")
	assert.Equal(t, []TokenKind{TokFloatLit, TokFloatLit, TokEOF}, kinds)

	texts := tokenTexts("-inf -nan")
	assert.Equal(t, []string{"-inf", "-nan"}, texts)

	// Unsigned forms stay identifiers; other words after a minus are not
	// numbers.
	assert.Equal(t, []TokenKind{TokIdent, TokIdent, TokEOF}, tokenKinds("inf nan"))
	msg := lexError(t, "-infinity")
	assert.Contains(t, msg, "malformed numeric literal")
}

func TestMalformedNumber(t *testing.T) {
	msg := lexError(t, "12abc")
	assert.Contains(t, msg, "malformed numeric literal")
}

func TestStringLiterals(t *testing.T) {
	texts := tokenTexts(`"hello" 'single'`)
	assert.Equal(t, []string{`"hello"`, `'single'`}, texts)
}

func TestStringEscapes(t *testing.T) {
	kinds := tokenKinds(`"a\n\t\\\"b" "\x41\101é"`)
	assert.Equal(t, []TokenKind{TokString, TokString, TokEOF}, kinds)
}

func TestInvalidEscape(t *testing.T) {
	msg := lexError(t, `"\q"`)
	assert.Contains(t, msg, "escape")
}

func TestUnterminatedString(t *testing.T) {
	msg := lexError(t, `"no closing quote`)
	assert.Contains(t, msg, "unterminated string literal")
}

func TestStringMayNotSpanLines(t *testing.T) {
	msg := lexError(t, "\"first\nsecond\"")
	assert.Contains(t, msg, "unterminated string literal")
}

func TestLineComments(t *testing.T) {
	source := "// leading\nfoo // trailing\n"
	lexer := New([]byte(source), nil)
	tokens, err := lexer.Tokenize()
	require.Nil(t, err)

	assert.Equal(t, TokIdent, tokens[0].Kind)
	comments := lexer.Comments()
	require.Len(t, comments, 2)
	assert.Equal(t, " leading", comments[0].Text)
	assert.True(t, comments[0].Line)
	assert.Equal(t, " trailing", comments[1].Text)
}

func TestBlockComments(t *testing.T) {
	source := "/* one\n   two */ foo"
	lexer := New([]byte(source), nil)
	tokens, err := lexer.Tokenize()
	require.Nil(t, err)

	assert.Equal(t, TokIdent, tokens[0].Kind)
	comments := lexer.Comments()
	require.Len(t, comments, 1)
	assert.False(t, comments[0].Line)
}

func TestBlockCommentIsOpaque(t *testing.T) {
	kinds := tokenKinds("/* message Hidden { string x = 1; } */ foo")
	assert.Equal(t, []TokenKind{TokIdent, TokEOF}, kinds)
}

func TestBlockCommentDoesNotNest(t *testing.T) {
	// The first */ closes the comment, leaving trailing garbage tokens.
	kinds := tokenKinds("/* outer /* inner */ x")
	assert.Equal(t, []TokenKind{TokIdent, TokEOF}, kinds)
}

func TestUnterminatedBlockComment(t *testing.T) {
	msg := lexError(t, "/* never closed")
	assert.Contains(t, msg, "unterminated block comment")
}

func TestInvalidCharacter(t *testing.T) {
	msg := lexError(t, "message M @")
	assert.Contains(t, msg, "invalid character")
}

func TestSpans(t *testing.T) {
	source := "syntax = \"proto3\";"
	lexer := New([]byte(source), nil)
	tokens, err := lexer.Tokenize()
	require.Nil(t, err)
	require.Len(t, tokens, 5)

	assert.Equal(t, "syntax", source[tokens[0].Span.Start:tokens[0].Span.End])
	assert.Equal(t, `"proto3"`, source[tokens[2].Span.Start:tokens[2].Span.End])
	assert.Equal(t, ";", source[tokens[3].Span.Start:tokens[3].Span.End])
}

func TestUnquote(t *testing.T) {
	for _, tc := range []struct {
		quoted string
		want   string
	}{
		{`"plain"`, "plain"},
		{`'single'`, "single"},
		{`"tab\there"`, "tab\there"},
		{`"\x41\102"`, "AB"},
		{`"é"`, "é"},
		{`"\U0001F600"`, "\U0001F600"},
		{`"quote\"inside"`, `quote"inside`},
	} {
		assert.Equal(t, tc.want, Unquote(tc.quoted), "unquote %s", tc.quoted)
	}
}

func TestLookupKeyword(t *testing.T) {
	kind, ok := LookupKeyword("reserved")
	require.True(t, ok)
	assert.Equal(t, TokKwReserved, kind)

	_, ok = LookupKeyword("notakeyword")
	assert.False(t, ok)
}

func TestKeywordTableIsSorted(t *testing.T) {
	for i := 1; i < len(keywords); i++ {
		assert.Less(t, keywords[i-1].text, keywords[i].text)
	}
}
