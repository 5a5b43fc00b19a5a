// Package lexer provides tokenization for proto3 source text.
package lexer

import (
	"github.com/protozod/protozod/ast"
)

// Token is a token with kind and source span.
type Token struct {
	Kind TokenKind
	Span ast.Span
}

// NewToken creates a new token.
func NewToken(kind TokenKind, span ast.Span) Token {
	return Token{Kind: kind, Span: span}
}

// TokenKind identifies a token type.
type TokenKind int

const (
	// === Special ===

	// TokEOF is end of input.
	TokEOF TokenKind = iota

	// === Identifiers and literals ===

	// TokIdent is an identifier, including dotted qualified names
	// (foo.bar.Baz) and fully-qualified names with a leading dot.
	TokIdent
	// TokIntLit is an integer literal (decimal, hex, or octal), possibly
	// with a leading minus sign.
	TokIntLit
	// TokFloatLit is a floating-point literal, possibly signed, with an
	// optional fraction and exponent.
	TokFloatLit
	// TokString is a string literal, single- or double-quoted. The span
	// includes the quotes.
	TokString

	// === Punctuation ===

	// TokLBrace is '{'.
	TokLBrace
	// TokRBrace is '}'.
	TokRBrace
	// TokLBracket is '['.
	TokLBracket
	// TokRBracket is ']'.
	TokRBracket
	// TokLParen is '('.
	TokLParen
	// TokRParen is ')'.
	TokRParen
	// TokLAngle is '<'.
	TokLAngle
	// TokRAngle is '>'.
	TokRAngle
	// TokEquals is '='.
	TokEquals
	// TokColon is ':'.
	TokColon
	// TokSemicolon is ';'.
	TokSemicolon
	// TokComma is ','.
	TokComma
	// TokDot is a '.' that does not begin an identifier or number.
	TokDot
	// TokSlash is '/', seen in message-literal extension keys.
	TokSlash

	// === Keywords ===
	// Proto keywords are contextual: any keyword token is accepted as an
	// identifier where a name is expected. The parser relies on
	// IsKeyword() for that.

	// TokKwSyntax is 'syntax'.
	TokKwSyntax
	// TokKwPackage is 'package'.
	TokKwPackage
	// TokKwImport is 'import'.
	TokKwImport
	// TokKwPublic is 'public'.
	TokKwPublic
	// TokKwWeak is 'weak'.
	TokKwWeak
	// TokKwOption is 'option'.
	TokKwOption
	// TokKwMessage is 'message'.
	TokKwMessage
	// TokKwEnum is 'enum'.
	TokKwEnum
	// TokKwService is 'service'.
	TokKwService
	// TokKwExtend is 'extend'.
	TokKwExtend
	// TokKwExtensions is 'extensions'.
	TokKwExtensions
	// TokKwOneof is 'oneof'.
	TokKwOneof
	// TokKwReserved is 'reserved'.
	TokKwReserved
	// TokKwRpc is 'rpc'.
	TokKwRpc
	// TokKwReturns is 'returns'.
	TokKwReturns
	// TokKwStream is 'stream'.
	TokKwStream
	// TokKwRepeated is 'repeated'.
	TokKwRepeated
	// TokKwOptional is 'optional'.
	TokKwOptional
	// TokKwRequired is 'required' (proto2 only).
	TokKwRequired
	// TokKwMap is 'map'.
	TokKwMap
	// TokKwTo is 'to'.
	TokKwTo
	// TokKwMax is 'max'.
	TokKwMax
)

// Name returns the token kind name used in error messages.
func (k TokenKind) Name() string {
	switch k {
	case TokEOF:
		return "end of input"
	case TokIdent:
		return "identifier"
	case TokIntLit:
		return "integer literal"
	case TokFloatLit:
		return "float literal"
	case TokString:
		return "string literal"
	case TokLBrace:
		return "'{'"
	case TokRBrace:
		return "'}'"
	case TokLBracket:
		return "'['"
	case TokRBracket:
		return "']'"
	case TokLParen:
		return "'('"
	case TokRParen:
		return "')'"
	case TokLAngle:
		return "'<'"
	case TokRAngle:
		return "'>'"
	case TokEquals:
		return "'='"
	case TokColon:
		return "':'"
	case TokSemicolon:
		return "';'"
	case TokComma:
		return "','"
	case TokDot:
		return "'.'"
	case TokSlash:
		return "'/'"
	case TokKwSyntax:
		return "'syntax'"
	case TokKwPackage:
		return "'package'"
	case TokKwImport:
		return "'import'"
	case TokKwPublic:
		return "'public'"
	case TokKwWeak:
		return "'weak'"
	case TokKwOption:
		return "'option'"
	case TokKwMessage:
		return "'message'"
	case TokKwEnum:
		return "'enum'"
	case TokKwService:
		return "'service'"
	case TokKwExtend:
		return "'extend'"
	case TokKwExtensions:
		return "'extensions'"
	case TokKwOneof:
		return "'oneof'"
	case TokKwReserved:
		return "'reserved'"
	case TokKwRpc:
		return "'rpc'"
	case TokKwReturns:
		return "'returns'"
	case TokKwStream:
		return "'stream'"
	case TokKwRepeated:
		return "'repeated'"
	case TokKwOptional:
		return "'optional'"
	case TokKwRequired:
		return "'required'"
	case TokKwMap:
		return "'map'"
	case TokKwTo:
		return "'to'"
	case TokKwMax:
		return "'max'"
	default:
		return "unknown token"
	}
}

// IsKeyword returns true if this token is a keyword. Every keyword is also
// a legal identifier; the parser treats keyword tokens as identifiers in
// name position.
func (k TokenKind) IsKeyword() bool {
	return k >= TokKwSyntax && k <= TokKwMax
}
