package parser

import (
	"fmt"
	"strings"

	"github.com/protozod/protozod/ast"
	"github.com/protozod/protozod/internal/lexer"
	"github.com/protozod/protozod/internal/types"
)

// This file implements the option-value grammar: the value after '=' in an
// option statement or bracketed field option, and the embedded text-format
// grammar inside '{ ... }' message literals. The literal grammar differs
// from the surrounding IDL: ':' separates keys from values, '{' blocks
// need no '=', and ',', ';', and plain whitespace are interchangeable
// entry separators. Errors raised inside a literal are classified as
// option-value errors, not parse errors.

// parseOptionStatement parses: option name = value ;
func (p *Parser) parseOptionStatement() (*ast.Option, *types.SyntaxError) {
	start := p.advance().Span.Start // option

	opt, err := p.parseOptionTail()
	if err != nil {
		return nil, err
	}
	end, serr := p.expect(lexer.TokSemicolon, "option statement")
	if serr != nil {
		return nil, serr
	}
	opt.Span = ast.NewSpan(start, end.Span.End)
	return opt, nil
}

// parseBracketedOptions parses: [ name = value, name = value, ... ]
func (p *Parser) parseBracketedOptions() ([]*ast.Option, *types.SyntaxError) {
	p.advance() // [

	var opts []*ast.Option
	for {
		start := p.peek().Span.Start
		opt, err := p.parseOptionTail()
		if err != nil {
			return nil, err
		}
		opt.Span = ast.NewSpan(start, opt.Value.ValueSpan().End)
		opts = append(opts, opt)
		if _, ok := p.accept(lexer.TokComma); !ok {
			break
		}
	}

	if _, err := p.expect(lexer.TokRBracket, "field options"); err != nil {
		return nil, err
	}
	return opts, nil
}

// parseOptionTail parses: name = value (shared by option statements and
// bracketed field options).
func (p *Parser) parseOptionTail() (*ast.Option, *types.SyntaxError) {
	name, err := p.parseOptionName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokEquals, "option"); err != nil {
		return nil, err
	}
	value, verr := p.parseOptionValue()
	if verr != nil {
		return nil, verr
	}
	return &ast.Option{Name: name, Value: value}, nil
}

// parseOptionName parses an option path: plain or dotted identifiers with
// custom ("extension") segments in parentheses, e.g. java_package,
// (x.y).z, or (a).(b.c). The path is recorded as written.
func (p *Parser) parseOptionName() (string, *types.SyntaxError) {
	var b strings.Builder
	for {
		if _, ok := p.accept(lexer.TokLParen); ok {
			tok, err := p.expectIdent("custom option name")
			if err != nil {
				return "", err
			}
			if _, err := p.expect(lexer.TokRParen, "custom option name"); err != nil {
				return "", err
			}
			b.WriteByte('(')
			b.WriteString(p.text(tok.Span))
			b.WriteByte(')')
		} else if tok, ok := p.identLike(); ok {
			b.WriteString(p.text(tok.Span))
		} else {
			return "", p.errExpected([]string{"option name"}, "option")
		}

		// A '.' continues the path; the lexer folds ".segment" into the
		// following identifier, so both shapes appear here.
		if _, ok := p.accept(lexer.TokDot); ok {
			b.WriteByte('.')
			continue
		}
		if p.check(lexer.TokIdent) && strings.HasPrefix(p.text(p.peek().Span), ".") {
			continue
		}
		break
	}
	return b.String(), nil
}

// parseOptionValue parses the value after '=' in the IDL grammar: a scalar
// or a message literal. Lists are legal only inside literals, but the
// reference compiler accepts them after '=' as well, so they are accepted
// here too.
func (p *Parser) parseOptionValue() (ast.Value, *types.SyntaxError) {
	switch p.peek().Kind {
	case lexer.TokLBrace, lexer.TokLAngle:
		return p.parseMessageLiteral()
	case lexer.TokLBracket:
		return p.parseListLiteral()
	default:
		return p.parseScalarValue()
	}
}

// parseScalarValue parses a string (with adjacent-literal concatenation),
// number, boolean, or bare identifier.
func (p *Parser) parseScalarValue() (*ast.ScalarValue, *types.SyntaxError) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.TokString:
		p.advance()
		span := tok.Span
		str := lexer.Unquote(p.text(tok.Span))
		// Adjacent string literals concatenate, as in C.
		for p.check(lexer.TokString) {
			next := p.advance()
			str += lexer.Unquote(p.text(next.Span))
			span.End = next.Span.End
		}
		return &ast.ScalarValue{
			Kind: ast.StringValue,
			Text: p.text(span),
			Str:  str,
			Span: span,
		}, nil
	case lexer.TokIntLit, lexer.TokFloatLit:
		p.advance()
		text := p.text(tok.Span)
		return &ast.ScalarValue{
			Kind: ast.NumberValue,
			Text: text,
			Str:  text,
			Span: tok.Span,
		}, nil
	default:
		if tok.Kind != lexer.TokIdent && !tok.Kind.IsKeyword() {
			return nil, p.errExpected(
				[]string{"string", "number", "identifier", "message literal"},
				"option value")
		}
		p.advance()
		text := p.text(tok.Span)
		kind := ast.IdentValue
		if text == "true" || text == "false" {
			kind = ast.BoolValue
		}
		return &ast.ScalarValue{
			Kind: kind,
			Text: text,
			Str:  text,
			Span: tok.Span,
		}, nil
	}
}

func (p *Parser) errLiteral(span ast.Span, message string) *types.SyntaxError {
	return &types.SyntaxError{
		Kind: types.ErrOptionValue,
		Span: span,
		Msg:  message,
	}
}

// parseMessageLiteral parses a '{ ... }' (or text-format '< ... >')
// message literal: key: value and key { ... } entries separated by ',',
// ';', or whitespace, nested to arbitrary depth. Repeated keys are kept as
// distinct entries in order.
func (p *Parser) parseMessageLiteral() (*ast.MessageValue, *types.SyntaxError) {
	open := p.advance() // { or <
	closing := lexer.TokRBrace
	if open.Kind == lexer.TokLAngle {
		closing = lexer.TokRAngle
	}

	msg := &ast.MessageValue{}
	for !p.check(closing) {
		if p.isEOF() {
			return nil, p.errLiteral(open.Span, "unterminated message literal")
		}
		// Separators between entries are interchangeable and optional.
		if _, ok := p.accept(lexer.TokComma); ok {
			continue
		}
		if _, ok := p.accept(lexer.TokSemicolon); ok {
			continue
		}

		entry, err := p.parseLiteralEntry()
		if err != nil {
			return nil, err
		}
		msg.Entries = append(msg.Entries, entry)
	}

	end := p.advance() // closing delimiter
	msg.Span = ast.NewSpan(open.Span.Start, end.Span.End)
	return msg, nil
}

// parseLiteralEntry parses one key: value or key { ... } pair.
func (p *Parser) parseLiteralEntry() (ast.MessageEntry, *types.SyntaxError) {
	start := p.peek().Span.Start

	key, err := p.parseLiteralKey()
	if err != nil {
		return ast.MessageEntry{}, err
	}

	var value ast.Value
	if _, ok := p.accept(lexer.TokColon); ok {
		value, err = p.parseLiteralValue()
	} else if p.check(lexer.TokLBrace) || p.check(lexer.TokLAngle) {
		// The ':' is optional before a nested message literal.
		value, err = p.parseMessageLiteral()
	} else {
		err = p.errLiteral(p.peek().Span,
			fmt.Sprintf("expected ':' or message literal after key %q, found %s",
				key, p.describe(p.peek())))
	}
	if err != nil {
		return ast.MessageEntry{}, err
	}

	return ast.MessageEntry{
		Key:   key,
		Value: value,
		Span:  ast.NewSpan(start, value.ValueSpan().End),
	}, nil
}

// parseLiteralKey parses a literal entry key: a plain identifier or a
// bracketed extension name like [x.y] or [type.example.com/x.y]. The
// brackets are retained in the recorded key.
func (p *Parser) parseLiteralKey() (string, *types.SyntaxError) {
	if _, ok := p.accept(lexer.TokLBracket); ok {
		tok, err := p.expectIdent("extension key")
		if err != nil {
			return "", p.errLiteral(p.peek().Span,
				fmt.Sprintf("expected extension key, found %s", p.describe(p.peek())))
		}
		key := p.text(tok.Span)
		if _, ok := p.accept(lexer.TokSlash); ok {
			rest, err := p.expectIdent("extension key")
			if err != nil {
				return "", p.errLiteral(p.peek().Span,
					fmt.Sprintf("expected extension key, found %s", p.describe(p.peek())))
			}
			key += "/" + p.text(rest.Span)
		}
		if _, err := p.expect(lexer.TokRBracket, "extension key"); err != nil {
			return "", p.errLiteral(p.peek().Span,
				fmt.Sprintf("expected ']' after extension key, found %s", p.describe(p.peek())))
		}
		return "[" + key + "]", nil
	}

	tok, ok := p.identLike()
	if !ok {
		return "", p.errLiteral(p.peek().Span,
			fmt.Sprintf("expected key, found %s", p.describe(p.peek())))
	}
	return p.text(tok.Span), nil
}

// parseLiteralValue parses a value in literal position: scalar, list, or
// nested message literal.
func (p *Parser) parseLiteralValue() (ast.Value, *types.SyntaxError) {
	switch p.peek().Kind {
	case lexer.TokLBrace, lexer.TokLAngle:
		return p.parseMessageLiteral()
	case lexer.TokLBracket:
		return p.parseListLiteral()
	default:
		val, err := p.parseScalarValue()
		if err != nil {
			return nil, p.errLiteral(p.peek().Span,
				fmt.Sprintf("expected value, found %s", p.describe(p.peek())))
		}
		return val, nil
	}
}

// parseListLiteral parses: [ value, value, ... ] with values of any shape.
// An empty list is legal.
func (p *Parser) parseListLiteral() (*ast.ListValue, *types.SyntaxError) {
	open := p.advance() // [

	list := &ast.ListValue{}
	if end, ok := p.accept(lexer.TokRBracket); ok {
		list.Span = ast.NewSpan(open.Span.Start, end.Span.End)
		return list, nil
	}

	for {
		val, err := p.parseLiteralValue()
		if err != nil {
			return nil, err
		}
		list.Elems = append(list.Elems, val)
		if _, ok := p.accept(lexer.TokComma); !ok {
			break
		}
	}

	end, err := p.expect(lexer.TokRBracket, "list value")
	if err != nil {
		return nil, p.errLiteral(p.peek().Span,
			fmt.Sprintf("expected ',' or ']' in list, found %s", p.describe(p.peek())))
	}
	list.Span = ast.NewSpan(open.Span.Start, end.Span.End)
	return list, nil
}
