package types

import (
	"fmt"
	"strings"

	"github.com/protozod/protozod/ast"
)

// ErrKind classifies a syntax error by the component that raised it.
type ErrKind int

const (
	// ErrLex is a lexical error: unterminated string or block comment,
	// invalid character, invalid escape.
	ErrLex ErrKind = iota
	// ErrParse is a token/production mismatch in the IDL grammar.
	ErrParse
	// ErrOptionValue is a malformed text-format option literal.
	ErrOptionValue
)

// SyntaxError is the internal error produced by the lexer and parser. It
// carries a byte span into the source; the facade lowers it to a public
// error type with line/column information.
type SyntaxError struct {
	Kind ErrKind
	Span ast.Span
	Msg  string
	// Expected lists the acceptable tokens at the error point, parse
	// errors only.
	Expected []string
	// Actual describes the token actually found, parse errors only.
	Actual string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if len(e.Expected) > 0 {
		return fmt.Sprintf("%s: expected %s, found %s",
			e.Msg, strings.Join(e.Expected, " or "), e.Actual)
	}
	return e.Msg
}
