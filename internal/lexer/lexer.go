package lexer

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/protozod/protozod/ast"
	"github.com/protozod/protozod/internal/types"
)

// Comment is a comment recorded during lexing. Comments are not emitted as
// tokens; the parser consults them only for doc attachment.
type Comment struct {
	// Text is the comment content without the // or /* */ markers.
	Text string
	Span ast.Span
	// Line is true for // comments, false for /* */ blocks.
	Line bool
}

// Lexer tokenizes proto3 source text. The first lexical error aborts
// tokenization; the lexer never guesses past malformed input.
type Lexer struct {
	source   []byte
	pos      int
	comments []Comment
	types.Logger
}

// New returns a Lexer that tokenizes the given source bytes.
func New(source []byte, logger *slog.Logger) *Lexer {
	l := &Lexer{
		source: source,
		Logger: types.Logger{L: logger},
	}
	l.Log(slog.LevelDebug, "lexer initialized", slog.Int("bytes", len(source)))
	return l
}

// Comments returns a copy of all comments seen so far, in source order.
func (l *Lexer) Comments() []Comment {
	return slices.Clone(l.comments)
}

// Text returns the source text covered by a span.
func (l *Lexer) Text(span ast.Span) string {
	return string(l.source[span.Start:span.End])
}

func (l *Lexer) traceToken(tok Token) {
	if l.TraceEnabled() {
		l.Trace("token",
			slog.Int("kind", int(tok.Kind)),
			slog.Int("start", int(tok.Span.Start)),
			slog.Int("end", int(tok.Span.End)))
	}
}

// Tokenize consumes all source text and returns the token stream. The
// returned slice always ends with a TokEOF token. The first lexical error
// aborts tokenization and is returned with no tokens.
func (l *Lexer) Tokenize() ([]Token, *types.SyntaxError) {
	estimatedTokens := max(len(l.source)/6, 64)
	tokens := make([]Token, 0, estimatedTokens)
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF {
			break
		}
	}
	l.Log(slog.LevelDebug, "tokenization complete",
		slog.Int("tokens", len(tokens)),
		slog.Int("comments", len(l.comments)))
	return tokens, nil
}

// Next advances the lexer and returns the next token, or a lexical error.
// Returns TokEOF when all input is consumed.
func (l *Lexer) Next() (Token, *types.SyntaxError) {
	for {
		l.skipWhitespace()

		start := l.pos
		b, ok := l.peek()
		if !ok {
			return l.token(TokEOF, start), nil
		}

		if b == '/' {
			next, ok := l.peekAt(1)
			if ok && next == '/' {
				l.consumeLineComment()
				continue
			}
			if ok && next == '*' {
				if err := l.consumeBlockComment(); err != nil {
					return Token{}, err
				}
				continue
			}
			l.advance()
			return l.token(TokSlash, start), nil
		}

		switch b {
		case '{':
			l.advance()
			return l.token(TokLBrace, start), nil
		case '}':
			l.advance()
			return l.token(TokRBrace, start), nil
		case '[':
			l.advance()
			return l.token(TokLBracket, start), nil
		case ']':
			l.advance()
			return l.token(TokRBracket, start), nil
		case '(':
			l.advance()
			return l.token(TokLParen, start), nil
		case ')':
			l.advance()
			return l.token(TokRParen, start), nil
		case '<':
			l.advance()
			return l.token(TokLAngle, start), nil
		case '>':
			l.advance()
			return l.token(TokRAngle, start), nil
		case '=':
			l.advance()
			return l.token(TokEquals, start), nil
		case ':':
			l.advance()
			return l.token(TokColon, start), nil
		case ';':
			l.advance()
			return l.token(TokSemicolon, start), nil
		case ',':
			l.advance()
			return l.token(TokComma, start), nil
		}

		if b == '.' {
			if next, ok := l.peekAt(1); ok {
				if isIdentStart(next) {
					return l.scanIdentifierOrKeyword(), nil
				}
				if isDigit(next) {
					return l.scanNumber()
				}
			}
			l.advance()
			return l.token(TokDot, start), nil
		}

		if b == '-' || isDigit(b) {
			return l.scanNumber()
		}

		if b == '"' || b == '\'' {
			return l.scanString()
		}

		if isIdentStart(b) {
			return l.scanIdentifierOrKeyword(), nil
		}

		l.advance()
		return Token{}, l.error(l.spanFrom(start),
			fmt.Sprintf("invalid character: %q", rune(b)))
	}
}

func (l *Lexer) peek() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	return l.source[l.pos], true
}

func (l *Lexer) peekAt(offset int) (byte, bool) {
	idx := l.pos + offset
	if idx >= len(l.source) {
		return 0, false
	}
	return l.source[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	b := l.source[l.pos]
	l.pos++
	return b, true
}

func (l *Lexer) skipWhitespace() {
	for {
		b, ok := l.peek()
		if !ok {
			return
		}
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\f' || b == '\v' {
			l.advance()
		} else {
			return
		}
	}
}

func (l *Lexer) error(span ast.Span, message string) *types.SyntaxError {
	return &types.SyntaxError{
		Kind: types.ErrLex,
		Span: span,
		Msg:  message,
	}
}

func (l *Lexer) spanFrom(start int) ast.Span {
	return ast.NewSpan(ast.ByteOffset(start), ast.ByteOffset(l.pos))
}

func (l *Lexer) token(kind TokenKind, start int) Token {
	tok := Token{
		Kind: kind,
		Span: l.spanFrom(start),
	}
	l.traceToken(tok)
	return tok
}

// consumeLineComment consumes a // comment up to (not including) the line
// ending and records it.
func (l *Lexer) consumeLineComment() {
	start := l.pos
	l.advance() // /
	l.advance() // /
	textStart := l.pos
	for {
		b, ok := l.peek()
		if !ok || b == '\n' || b == '\r' {
			break
		}
		l.advance()
	}
	l.comments = append(l.comments, Comment{
		Text: string(l.source[textStart:l.pos]),
		Span: l.spanFrom(start),
		Line: true,
	})
}

// consumeBlockComment consumes a non-nesting /* */ comment and records it.
// The body is wholly opaque: nothing inside is ever tokenized, no matter
// how much it resembles declarations.
func (l *Lexer) consumeBlockComment() *types.SyntaxError {
	start := l.pos
	l.advance() // /
	l.advance() // *
	textStart := l.pos
	for {
		b, ok := l.peek()
		if !ok {
			return l.error(l.spanFrom(start), "unterminated block comment")
		}
		if b == '*' {
			if next, ok := l.peekAt(1); ok && next == '/' {
				textEnd := l.pos
				l.advance()
				l.advance()
				l.comments = append(l.comments, Comment{
					Text: string(l.source[textStart:textEnd]),
					Span: l.spanFrom(start),
					Line: false,
				})
				return nil
			}
		}
		l.advance()
	}
}

func (l *Lexer) scanIdentifierOrKeyword() Token {
	start := l.pos
	dotted := false

	if b, _ := l.peek(); b == '.' {
		dotted = true
		l.advance()
	}

	for {
		l.advance() // identifier start byte, validated by the caller
		for {
			b, ok := l.peek()
			if !ok || !isIdentPart(b) {
				break
			}
			l.advance()
		}
		// A dot directly followed by another identifier continues a
		// qualified name.
		b, ok := l.peek()
		if !ok || b != '.' {
			break
		}
		next, ok := l.peekAt(1)
		if !ok || !isIdentStart(next) {
			break
		}
		dotted = true
		l.advance()
	}

	text := string(l.source[start:l.pos])
	if !dotted {
		if kind, ok := LookupKeyword(text); ok {
			return l.token(kind, start)
		}
	}
	return l.token(TokIdent, start)
}

// scanNumber scans an integer or float literal, with optional leading
// minus, hex/octal integer forms, and fraction/exponent float forms.
func (l *Lexer) scanNumber() (Token, *types.SyntaxError) {
	start := l.pos
	isFloat := false

	if b, _ := l.peek(); b == '-' {
		l.advance()
		// The text format allows signed non-finite floats.
		if tok, ok := l.scanSignedNonFinite(start); ok {
			return tok, nil
		}
	}

	if b, _ := l.peek(); b == '0' {
		if next, ok := l.peekAt(1); ok && (next == 'x' || next == 'X') {
			l.advance()
			l.advance()
			n := 0
			for {
				b, ok := l.peek()
				if !ok || !isHexDigit(b) {
					break
				}
				l.advance()
				n++
			}
			if n == 0 {
				return Token{}, l.error(l.spanFrom(start), "malformed hex literal")
			}
			return l.finishNumber(start, TokIntLit)
		}
	}

	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}

	if b, ok := l.peek(); ok && b == '.' {
		isFloat = true
		l.advance()
		for {
			b, ok := l.peek()
			if !ok || !isDigit(b) {
				break
			}
			l.advance()
		}
	}

	if b, ok := l.peek(); ok && (b == 'e' || b == 'E') {
		if l.scanExponent() {
			isFloat = true
		}
	}

	kind := TokIntLit
	if isFloat {
		kind = TokFloatLit
	}
	return l.finishNumber(start, kind)
}

// scanSignedNonFinite consumes inf or nan directly after a minus sign and
// returns a float token covering the signed form.
func (l *Lexer) scanSignedNonFinite(start int) (Token, bool) {
	n := 0
	for {
		b, ok := l.peekAt(n)
		if !ok || !isIdentPart(b) {
			break
		}
		n++
	}
	word := string(l.source[l.pos : l.pos+n])
	if word != "inf" && word != "nan" {
		return Token{}, false
	}
	for ; n > 0; n-- {
		l.advance()
	}
	return l.token(TokFloatLit, start), true
}

// scanExponent consumes e[+-]digits and reports whether it did. A bare 'e'
// with no digits is left for identifier scanning to reject.
func (l *Lexer) scanExponent() bool {
	offset := 1
	if b, ok := l.peekAt(offset); ok && (b == '+' || b == '-') {
		offset++
	}
	b, ok := l.peekAt(offset)
	if !ok || !isDigit(b) {
		return false
	}
	l.advance() // e
	if b, _ := l.peek(); b == '+' || b == '-' {
		l.advance()
	}
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}
	return true
}

func (l *Lexer) finishNumber(start int, kind TokenKind) (Token, *types.SyntaxError) {
	if b, ok := l.peek(); ok && isIdentPart(b) {
		l.advance()
		return Token{}, l.error(l.spanFrom(start),
			fmt.Sprintf("malformed numeric literal: %q", string(l.source[start:l.pos])))
	}
	return l.token(kind, start), nil
}

// scanString scans a single- or double-quoted string literal, validating
// escape sequences. Comment markers inside the string never start a
// comment. Raw newlines and EOF inside the literal are errors.
func (l *Lexer) scanString() (Token, *types.SyntaxError) {
	start := l.pos
	quote, _ := l.advance()

	for {
		b, ok := l.advance()
		if !ok {
			return Token{}, l.error(l.spanFrom(start), "unterminated string literal")
		}
		switch {
		case b == quote:
			return l.token(TokString, start), nil
		case b == '\n' || b == '\r':
			l.pos--
			return Token{}, l.error(l.spanFrom(start), "unterminated string literal")
		case b == '\\':
			if err := l.scanEscape(start); err != nil {
				return Token{}, err
			}
		}
	}
}

// scanEscape validates the escape sequence after a backslash.
func (l *Lexer) scanEscape(start int) *types.SyntaxError {
	b, ok := l.advance()
	if !ok {
		return l.error(l.spanFrom(start), "unterminated string literal")
	}
	switch b {
	case 'a', 'b', 'f', 'n', 'r', 't', 'v', '\\', '\'', '"', '?':
		return nil
	case 'x', 'X':
		if !l.scanHexDigits(1, 2) {
			return l.error(l.spanFrom(start), "invalid hex escape in string literal")
		}
		return nil
	case '0', '1', '2', '3', '4', '5', '6', '7':
		// Up to two more octal digits.
		for i := 0; i < 2; i++ {
			if d, ok := l.peek(); ok && d >= '0' && d <= '7' {
				l.advance()
			}
		}
		return nil
	case 'u':
		if !l.scanHexDigits(4, 4) {
			return l.error(l.spanFrom(start), "invalid unicode escape in string literal")
		}
		return nil
	case 'U':
		if !l.scanHexDigits(8, 8) {
			return l.error(l.spanFrom(start), "invalid unicode escape in string literal")
		}
		return nil
	default:
		return l.error(l.spanFrom(start),
			fmt.Sprintf("invalid escape sequence: \\%c", b))
	}
}

func (l *Lexer) scanHexDigits(min, max int) bool {
	n := 0
	for n < max {
		b, ok := l.peek()
		if !ok || !isHexDigit(b) {
			break
		}
		l.advance()
		n++
	}
	return n >= min
}

// Unquote decodes a string literal's escape sequences. The literal must
// have been validated by the lexer; text includes the surrounding quotes.
func Unquote(text string) string {
	if len(text) < 2 {
		return text
	}
	body := text[1 : len(text)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			break
		}
		switch e := body[i]; e {
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '\\', '\'', '"', '?':
			b.WriteByte(e)
		case 'x', 'X':
			v, n := decodeHex(body[i+1:], 2)
			b.WriteByte(byte(v))
			i += n
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v := int(e - '0')
			for n := 0; n < 2 && i+1 < len(body); n++ {
				d := body[i+1]
				if d < '0' || d > '7' {
					break
				}
				v = v*8 + int(d-'0')
				i++
			}
			b.WriteByte(byte(v))
		case 'u':
			v, n := decodeHex(body[i+1:], 4)
			b.WriteRune(rune(v))
			i += n
		case 'U':
			v, n := decodeHex(body[i+1:], 8)
			b.WriteRune(rune(v))
			i += n
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String()
}

func decodeHex(s string, max int) (value, consumed int) {
	for consumed < max && consumed < len(s) {
		d := s[consumed]
		switch {
		case d >= '0' && d <= '9':
			value = value*16 + int(d-'0')
		case d >= 'a' && d <= 'f':
			value = value*16 + int(d-'a'+10)
		case d >= 'A' && d <= 'F':
			value = value*16 + int(d-'A'+10)
		default:
			return value, consumed
		}
		consumed++
	}
	return value, consumed
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}
