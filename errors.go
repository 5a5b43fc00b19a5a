package protozod

import (
	"fmt"
	"strings"

	"github.com/protozod/protozod/internal/types"
)

// Position locates an error in source text. Line and Column are 1-based;
// Offset is the byte offset.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// String returns "file:line:col", omitting the filename when empty.
func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// LexError is a lexical error: an unterminated string or block comment, an
// invalid character, or an invalid escape sequence.
type LexError struct {
	Pos Position
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ParseError is a token/production mismatch: the parser met a token it
// could not accept. Expected lists the acceptable tokens, Actual describes
// the one found.
type ParseError struct {
	Pos      Position
	Expected []string
	Actual   string
	Msg      string
}

func (e *ParseError) Error() string {
	if len(e.Expected) > 0 {
		return fmt.Sprintf("%s: %s: expected %s, found %s",
			e.Pos, e.Msg, strings.Join(e.Expected, " or "), e.Actual)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// OptionValueError is a malformed text-format option literal. The position
// points inside the literal.
type OptionValueError struct {
	Pos Position
	Msg string
}

func (e *OptionValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// lowerError converts an internal span error to its public form, resolving
// the span to a line and column.
func lowerError(filename string, source []byte, serr *types.SyntaxError) error {
	idx := types.NewLineIndex(source)
	line, col := idx.Position(serr.Span.Start)
	pos := Position{
		Filename: filename,
		Offset:   int(serr.Span.Start),
		Line:     line,
		Column:   col,
	}
	switch serr.Kind {
	case types.ErrLex:
		return &LexError{Pos: pos, Msg: serr.Msg}
	case types.ErrOptionValue:
		return &OptionValueError{Pos: pos, Msg: serr.Msg}
	default:
		return &ParseError{
			Pos:      pos,
			Expected: serr.Expected,
			Actual:   serr.Actual,
			Msg:      serr.Msg,
		}
	}
}
