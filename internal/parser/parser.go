// Package parser provides recursive-descent parsing of proto3 source into
// an AST.
//
// The grammar implemented here is deliberately the empirically accepted
// one, not the published proto3 grammar: the reference compiler accepts a
// superset of its own spec (keywords as identifiers, stray semicolons,
// string concatenation, lowercase enum names), and real-world files rely
// on that. The parser is permissive about such shapes while failing loudly
// and precisely on genuinely malformed input: the first error aborts the
// parse of the file and no partial AST is ever produced.
//
// Parsing is a pure function of the input text with no state shared across
// calls, so distinct files may be parsed concurrently without
// synchronization. Nesting depth is bounded only by the call stack; the
// recursion per nesting level is shallow, so realistic inputs (hundreds of
// levels) are nowhere near exhausting it.
package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/protozod/protozod/ast"
	"github.com/protozod/protozod/internal/lexer"
	"github.com/protozod/protozod/internal/types"
)

// Parser converts a token stream into a File AST.
type Parser struct {
	source   []byte
	tokens   []lexer.Token
	pos      int
	comments []lexer.Comment
	lines    *types.LineIndex
	eofToken lexer.Token
	proto2   bool
	types.Logger
}

// Parse parses one complete proto source buffer into a File AST. filename
// is recorded for diagnostics only. Pass nil for logger to disable logging.
func Parse(filename string, source []byte, logger *slog.Logger) (*ast.File, *types.SyntaxError) {
	var lexLogger *slog.Logger
	if logger != nil {
		lexLogger = logger.With(slog.String("component", "lexer"))
	}
	lex := lexer.New(source, lexLogger)
	tokens, err := lex.Tokenize()
	if err != nil {
		return nil, err
	}

	eofSpan := ast.NewSpan(ast.ByteOffset(len(source)), ast.ByteOffset(len(source)))
	p := &Parser{
		source:   source,
		tokens:   tokens,
		comments: lex.Comments(),
		lines:    types.NewLineIndex(source),
		eofToken: lexer.NewToken(lexer.TokEOF, eofSpan),
		Logger:   types.Logger{L: logger},
	}
	p.Log(slog.LevelDebug, "parser initialized", slog.Int("tokens", len(tokens)))

	file, perr := p.parseFile(filename)
	if perr != nil {
		return nil, perr
	}
	return file, nil
}

func (p *Parser) isEOF() bool {
	return p.peek().Kind == lexer.TokEOF
}

func (p *Parser) peek() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.eofToken
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind lexer.TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) accept(kind lexer.TokenKind) (lexer.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

func (p *Parser) expect(kind lexer.TokenKind, context string) (lexer.Token, *types.SyntaxError) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errExpected([]string{kind.Name()}, context)
}

func (p *Parser) text(span ast.Span) string {
	return string(p.source[span.Start:span.End])
}

// describe renders a token for error messages: literals and identifiers
// show their text, everything else its kind name.
func (p *Parser) describe(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.TokIdent, lexer.TokIntLit, lexer.TokFloatLit, lexer.TokString:
		return fmt.Sprintf("%q", p.text(tok.Span))
	default:
		return tok.Kind.Name()
	}
}

func (p *Parser) errExpected(expected []string, context string) *types.SyntaxError {
	return &types.SyntaxError{
		Kind:     types.ErrParse,
		Span:     p.peek().Span,
		Msg:      context,
		Expected: expected,
		Actual:   p.describe(p.peek()),
	}
}

func (p *Parser) errAt(span ast.Span, message string) *types.SyntaxError {
	return &types.SyntaxError{
		Kind: types.ErrParse,
		Span: span,
		Msg:  message,
	}
}

// identLike accepts an identifier token or any keyword used as an
// identifier. Proto keywords are contextual: fields, enum values, and rpcs
// named "option" or "message" are legal and the reference compiler accepts
// them.
func (p *Parser) identLike() (lexer.Token, bool) {
	kind := p.peek().Kind
	if kind == lexer.TokIdent || kind.IsKeyword() {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

func (p *Parser) expectIdent(context string) (lexer.Token, *types.SyntaxError) {
	if tok, ok := p.identLike(); ok {
		return tok, nil
	}
	return lexer.Token{}, p.errExpected([]string{"identifier"}, context)
}

// expectSimpleName expects an undotted identifier, used for declaration
// names (messages, enums, fields, and the like).
func (p *Parser) expectSimpleName(context string) (string, ast.Span, *types.SyntaxError) {
	tok, err := p.expectIdent(context)
	if err != nil {
		return "", ast.Span{}, err
	}
	name := p.text(tok.Span)
	if strings.Contains(name, ".") {
		return "", ast.Span{}, p.errAt(tok.Span,
			fmt.Sprintf("%s: %q must be a simple (undotted) name", context, name))
	}
	return name, tok.Span, nil
}

func (p *Parser) parseInt32(tok lexer.Token, context string) (int32, *types.SyntaxError) {
	text := p.text(tok.Span)
	v, err := strconv.ParseInt(text, 0, 32)
	if err != nil {
		return 0, p.errAt(tok.Span, fmt.Sprintf("invalid %s %q", context, text))
	}
	return int32(v), nil
}

// docFor returns the contiguous // comments whose lines directly precede
// the declaration starting at the given offset, stripped of one leading
// space. Block comments and trailing same-line comments never attach.
func (p *Parser) docFor(start ast.ByteOffset) []string {
	declLine, _ := p.lines.Position(start)

	// Find the first comment at or past the declaration.
	lo, hi := 0, len(p.comments)
	for lo < hi {
		mid := (lo + hi) / 2
		if p.comments[mid].Span.Start < start {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	wantLine := declLine - 1
	j := lo - 1
	for ; j >= 0; j-- {
		c := p.comments[j]
		if !c.Line {
			break
		}
		line, _ := p.lines.Position(c.Span.Start)
		if line != wantLine || !p.commentOwnsLine(c) {
			break
		}
		wantLine = line - 1
	}

	if j == lo-1 {
		return nil
	}
	doc := make([]string, 0, lo-1-j)
	for k := j + 1; k < lo; k++ {
		doc = append(doc, strings.TrimPrefix(p.comments[k].Text, " "))
	}
	return doc
}

// commentOwnsLine reports whether no token ends on the comment's own line
// before it, i.e. the comment is not a trailing comment.
func (p *Parser) commentOwnsLine(c lexer.Comment) bool {
	commentLine, _ := p.lines.Position(c.Span.Start)
	lo, hi := 0, len(p.tokens)
	for lo < hi {
		mid := (lo + hi) / 2
		if p.tokens[mid].Span.Start < c.Span.Start {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return true
	}
	prev := p.tokens[lo-1]
	if prev.Span.IsEmpty() {
		return true
	}
	prevLine, _ := p.lines.Position(prev.Span.End - 1)
	return prevLine != commentLine
}

// parseFile parses statements until end of input. An unrecognized leading
// token at file scope is a parse error.
func (p *Parser) parseFile(filename string) (*ast.File, *types.SyntaxError) {
	file := &ast.File{
		Name: filename,
		Span: ast.NewSpan(0, ast.ByteOffset(len(p.source))),
	}

	if p.check(lexer.TokKwSyntax) {
		if err := p.parseSyntax(file); err != nil {
			return nil, err
		}
	}

	for !p.isEOF() {
		switch p.peek().Kind {
		case lexer.TokSemicolon:
			p.advance()
		case lexer.TokKwPackage:
			if err := p.parsePackage(file); err != nil {
				return nil, err
			}
		case lexer.TokKwImport:
			if err := p.parseImport(file); err != nil {
				return nil, err
			}
		case lexer.TokKwOption:
			opt, err := p.parseOptionStatement()
			if err != nil {
				return nil, err
			}
			file.Options = append(file.Options, opt)
		case lexer.TokKwMessage:
			msg, err := p.parseMessage()
			if err != nil {
				return nil, err
			}
			file.Decls = append(file.Decls, msg)
		case lexer.TokKwEnum:
			enum, err := p.parseEnum()
			if err != nil {
				return nil, err
			}
			file.Decls = append(file.Decls, enum)
		case lexer.TokKwService:
			svc, err := p.parseService()
			if err != nil {
				return nil, err
			}
			file.Decls = append(file.Decls, svc)
		case lexer.TokKwExtend:
			ext, err := p.parseExtend()
			if err != nil {
				return nil, err
			}
			file.Decls = append(file.Decls, ext)
		default:
			return nil, p.errExpected(
				[]string{"'message'", "'enum'", "'service'", "'extend'",
					"'import'", "'package'", "'option'", "'syntax'"},
				"file scope")
		}
	}

	p.Log(slog.LevelDebug, "parsing complete",
		slog.String("file", filename),
		slog.Int("decls", len(file.Decls)))
	return file, nil
}

// parseSyntax parses: syntax = "proto3" ;
func (p *Parser) parseSyntax(file *ast.File) *types.SyntaxError {
	p.advance() // syntax
	if _, err := p.expect(lexer.TokEquals, "syntax statement"); err != nil {
		return err
	}
	tok, err := p.expect(lexer.TokString, "syntax statement")
	if err != nil {
		return err
	}
	syntax := lexer.Unquote(p.text(tok.Span))
	switch syntax {
	case "proto3":
	case "proto2":
		p.proto2 = true
	default:
		return p.errAt(tok.Span, fmt.Sprintf("unsupported syntax %q", syntax))
	}
	file.Syntax = syntax
	_, serr := p.expect(lexer.TokSemicolon, "syntax statement")
	return serr
}

// parsePackage parses: package dotted.name ;
func (p *Parser) parsePackage(file *ast.File) *types.SyntaxError {
	kw := p.advance() // package
	if file.Package != "" {
		return p.errAt(kw.Span, "duplicate package statement")
	}
	tok, err := p.expectIdent("package statement")
	if err != nil {
		return err
	}
	file.Package = p.text(tok.Span)
	_, serr := p.expect(lexer.TokSemicolon, "package statement")
	return serr
}

// parseImport parses: import [public|weak] "path" ;
// The path is recorded as a literal string, never followed or resolved.
func (p *Parser) parseImport(file *ast.File) *types.SyntaxError {
	start := p.advance().Span.Start // import

	imp := &ast.Import{}
	if _, ok := p.accept(lexer.TokKwPublic); ok {
		imp.Public = true
	} else if _, ok := p.accept(lexer.TokKwWeak); ok {
		imp.Weak = true
	}

	tok, err := p.expect(lexer.TokString, "import statement")
	if err != nil {
		return err
	}
	imp.Path = lexer.Unquote(p.text(tok.Span))

	end, serr := p.expect(lexer.TokSemicolon, "import statement")
	if serr != nil {
		return serr
	}
	imp.Span = ast.NewSpan(start, end.Span.End)
	file.Imports = append(file.Imports, imp)
	return nil
}

// parseMessage parses: message Name { body } with an optional trailing
// semicolon consumed by the enclosing scope's statement loop.
func (p *Parser) parseMessage() (*ast.Message, *types.SyntaxError) {
	start := p.peek().Span.Start
	doc := p.docFor(start)
	p.advance() // message

	name, _, err := p.expectSimpleName("message name")
	if err != nil {
		return nil, err
	}
	p.Log(slog.LevelDebug, "parsing message", slog.String("name", name))

	msg := &ast.Message{DeclBase: ast.DeclBase{Name: name, Doc: doc}}

	if _, err := p.expect(lexer.TokLBrace, "message body"); err != nil {
		return nil, err
	}
	body, berr := p.parseMessageBody()
	if berr != nil {
		return nil, berr
	}
	msg.Body = body

	end, cerr := p.expect(lexer.TokRBrace, "message body")
	if cerr != nil {
		return nil, cerr
	}
	msg.Span = ast.NewSpan(start, end.Span.End)
	return msg, nil
}

// parseMessageBody parses message elements until the closing brace, which
// is left unconsumed.
func (p *Parser) parseMessageBody() ([]ast.MessageDecl, *types.SyntaxError) {
	var body []ast.MessageDecl
	for !p.check(lexer.TokRBrace) && !p.isEOF() {
		switch p.peek().Kind {
		case lexer.TokSemicolon:
			p.advance()
		case lexer.TokKwMessage:
			nested, err := p.parseMessage()
			if err != nil {
				return nil, err
			}
			body = append(body, nested)
		case lexer.TokKwEnum:
			enum, err := p.parseEnum()
			if err != nil {
				return nil, err
			}
			body = append(body, enum)
		case lexer.TokKwOneof:
			oneof, err := p.parseOneof()
			if err != nil {
				return nil, err
			}
			body = append(body, oneof)
		case lexer.TokKwReserved:
			res, err := p.parseReserved()
			if err != nil {
				return nil, err
			}
			body = append(body, res)
		case lexer.TokKwExtensions:
			ext, err := p.parseExtensions()
			if err != nil {
				return nil, err
			}
			body = append(body, ext)
		case lexer.TokKwExtend:
			ext, err := p.parseExtend()
			if err != nil {
				return nil, err
			}
			body = append(body, ext)
		case lexer.TokKwOption:
			opt, err := p.parseOptionStatement()
			if err != nil {
				return nil, err
			}
			body = append(body, opt)
		default:
			field, err := p.parseField(fieldInMessage)
			if err != nil {
				return nil, err
			}
			body = append(body, field)
		}
	}
	return body, nil
}

// fieldContext selects label and type rules for field parsing.
type fieldContext int

const (
	fieldInMessage fieldContext = iota
	fieldInOneof
	fieldInExtend
)

// parseField parses: [label] type name = number [[options]] ;
func (p *Parser) parseField(fctx fieldContext) (*ast.Field, *types.SyntaxError) {
	start := p.peek().Span.Start
	doc := p.docFor(start)

	label := ast.LabelNone
	labelTok := p.peek()
	switch labelTok.Kind {
	case lexer.TokKwOptional:
		label = ast.LabelOptional
		p.advance()
	case lexer.TokKwRepeated:
		label = ast.LabelRepeated
		p.advance()
	case lexer.TokKwRequired:
		label = ast.LabelRequired
		p.advance()
	}

	if label != ast.LabelNone && fctx == fieldInOneof {
		return nil, p.errAt(labelTok.Span,
			fmt.Sprintf("oneof fields may not have a %q label", label.String()))
	}
	if label == ast.LabelRequired && !p.proto2 {
		return nil, p.errAt(labelTok.Span, "proto3 does not allow 'required' fields")
	}

	typ, terr := p.parseTypeRef()
	if terr != nil {
		return nil, terr
	}
	if typ.IsMap() && fctx == fieldInOneof {
		return nil, p.errAt(typ.Span, "map fields are not allowed inside oneof")
	}
	if typ.IsMap() && label != ast.LabelNone {
		return nil, p.errAt(typ.Span,
			fmt.Sprintf("map fields may not have a %q label", label.String()))
	}

	name, _, nerr := p.expectSimpleName("field name")
	if nerr != nil {
		return nil, nerr
	}

	if _, err := p.expect(lexer.TokEquals, "field declaration"); err != nil {
		return nil, err
	}

	numTok, err := p.expect(lexer.TokIntLit, "field number")
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(p.text(numTok.Span), "-") {
		return nil, p.errAt(numTok.Span, "field numbers must be positive")
	}
	number, nerr2 := p.parseInt32(numTok, "field number")
	if nerr2 != nil {
		return nil, nerr2
	}

	field := &ast.Field{
		DeclBase: ast.DeclBase{Name: name, Doc: doc},
		Label:    label,
		Type:     typ,
		Number:   number,
	}

	if p.check(lexer.TokLBracket) {
		opts, oerr := p.parseBracketedOptions()
		if oerr != nil {
			return nil, oerr
		}
		field.Options = opts
		for _, opt := range opts {
			if opt.Name == "json_name" {
				if sv, ok := opt.Value.(*ast.ScalarValue); ok && sv.Kind == ast.StringValue {
					field.JSONName = sv.Str
				}
			}
		}
	}

	end, serr := p.expect(lexer.TokSemicolon, "field declaration")
	if serr != nil {
		return nil, serr
	}
	field.Span = ast.NewSpan(start, end.Span.End)
	return field, nil
}

// parseTypeRef parses a scalar keyword, a dotted type name, or map<K,V>.
func (p *Parser) parseTypeRef() (*ast.TypeRef, *types.SyntaxError) {
	if p.check(lexer.TokKwMap) {
		// map followed by '<' is a map type; a bare "map" is a legal
		// message type name.
		mapTok := p.advance()
		if !p.check(lexer.TokLAngle) {
			return &ast.TypeRef{Name: "map", Span: mapTok.Span}, nil
		}
		p.advance() // <

		keyTok, err := p.expectIdent("map key type")
		if err != nil {
			return nil, err
		}
		keyName := p.text(keyTok.Span)
		if !ast.IsMapKeyType(keyName) {
			return nil, p.errAt(keyTok.Span,
				fmt.Sprintf("invalid map key type %q", keyName))
		}

		if _, err := p.expect(lexer.TokComma, "map type"); err != nil {
			return nil, err
		}

		valTok, err := p.expectIdent("map value type")
		if err != nil {
			return nil, err
		}

		end, aerr := p.expect(lexer.TokRAngle, "map type")
		if aerr != nil {
			return nil, aerr
		}
		return &ast.TypeRef{
			Name:  "map",
			Key:   &ast.TypeRef{Name: keyName, Span: keyTok.Span},
			Value: &ast.TypeRef{Name: p.text(valTok.Span), Span: valTok.Span},
			Span:  ast.NewSpan(mapTok.Span.Start, end.Span.End),
		}, nil
	}

	tok, err := p.expectIdent("field type")
	if err != nil {
		return nil, err
	}
	return &ast.TypeRef{Name: p.text(tok.Span), Span: tok.Span}, nil
}

// parseOneof parses: oneof name { fields }. Member fields never carry a
// label.
func (p *Parser) parseOneof() (*ast.Oneof, *types.SyntaxError) {
	start := p.peek().Span.Start
	doc := p.docFor(start)
	p.advance() // oneof

	name, _, err := p.expectSimpleName("oneof name")
	if err != nil {
		return nil, err
	}
	oneof := &ast.Oneof{DeclBase: ast.DeclBase{Name: name, Doc: doc}}

	if _, err := p.expect(lexer.TokLBrace, "oneof body"); err != nil {
		return nil, err
	}
	for !p.check(lexer.TokRBrace) && !p.isEOF() {
		switch p.peek().Kind {
		case lexer.TokSemicolon:
			p.advance()
		case lexer.TokKwOption:
			opt, oerr := p.parseOptionStatement()
			if oerr != nil {
				return nil, oerr
			}
			oneof.Options = append(oneof.Options, opt)
		default:
			field, ferr := p.parseField(fieldInOneof)
			if ferr != nil {
				return nil, ferr
			}
			oneof.Fields = append(oneof.Fields, field)
		}
	}
	end, cerr := p.expect(lexer.TokRBrace, "oneof body")
	if cerr != nil {
		return nil, cerr
	}
	oneof.Span = ast.NewSpan(start, end.Span.End)
	return oneof, nil
}

// parseReserved parses a reserved statement: either numbers/ranges or
// string names, never both.
func (p *Parser) parseReserved() (*ast.Reserved, *types.SyntaxError) {
	start := p.advance().Span.Start // reserved
	res := &ast.Reserved{}

	names := p.check(lexer.TokString)
	for {
		if names {
			tok, err := p.expect(lexer.TokString, "reserved names")
			if err != nil {
				if p.check(lexer.TokIntLit) {
					return nil, p.errAt(p.peek().Span,
						"reserved statement cannot mix field names and numbers")
				}
				return nil, err
			}
			res.Names = append(res.Names, lexer.Unquote(p.text(tok.Span)))
		} else {
			if p.check(lexer.TokString) {
				return nil, p.errAt(p.peek().Span,
					"reserved statement cannot mix field names and numbers")
			}
			rng, err := p.parseTagRange("reserved range")
			if err != nil {
				return nil, err
			}
			res.Ranges = append(res.Ranges, rng)
		}
		if _, ok := p.accept(lexer.TokComma); !ok {
			break
		}
	}

	end, serr := p.expect(lexer.TokSemicolon, "reserved statement")
	if serr != nil {
		return nil, serr
	}
	res.Span = ast.NewSpan(start, end.Span.End)
	return res, nil
}

// parseTagRange parses: number [to (number | max)].
func (p *Parser) parseTagRange(context string) (ast.TagRange, *types.SyntaxError) {
	loTok, err := p.expect(lexer.TokIntLit, context)
	if err != nil {
		return ast.TagRange{}, err
	}
	lo, lerr := p.parseInt32(loTok, context)
	if lerr != nil {
		return ast.TagRange{}, lerr
	}
	rng := ast.TagRange{Lo: lo, Hi: lo}

	if _, ok := p.accept(lexer.TokKwTo); !ok {
		return rng, nil
	}
	if _, ok := p.accept(lexer.TokKwMax); ok {
		rng.Hi = ast.MaxTag
		return rng, nil
	}
	hiTok, herr := p.expect(lexer.TokIntLit, context)
	if herr != nil {
		return ast.TagRange{}, p.errExpected([]string{"integer literal", "'max'"}, context)
	}
	hi, herr2 := p.parseInt32(hiTok, context)
	if herr2 != nil {
		return ast.TagRange{}, herr2
	}
	rng.Hi = hi
	return rng, nil
}

// parseExtensions parses the proto2 statement: extensions ranges ;
func (p *Parser) parseExtensions() (*ast.Extensions, *types.SyntaxError) {
	start := p.advance().Span.Start // extensions
	ext := &ast.Extensions{}
	for {
		rng, err := p.parseTagRange("extensions range")
		if err != nil {
			return nil, err
		}
		ext.Ranges = append(ext.Ranges, rng)
		if _, ok := p.accept(lexer.TokComma); !ok {
			break
		}
	}
	end, serr := p.expect(lexer.TokSemicolon, "extensions statement")
	if serr != nil {
		return nil, serr
	}
	ext.Span = ast.NewSpan(start, end.Span.End)
	return ext, nil
}

// parseEnum parses: enum name { (option | reserved | value)* }
// Value numbers need not be contiguous or start at zero, and value names
// may use any identifier shape, including all-lowercase.
func (p *Parser) parseEnum() (*ast.Enum, *types.SyntaxError) {
	start := p.peek().Span.Start
	doc := p.docFor(start)
	p.advance() // enum

	name, _, err := p.expectSimpleName("enum name")
	if err != nil {
		return nil, err
	}
	enum := &ast.Enum{DeclBase: ast.DeclBase{Name: name, Doc: doc}}

	if _, err := p.expect(lexer.TokLBrace, "enum body"); err != nil {
		return nil, err
	}
	for !p.check(lexer.TokRBrace) && !p.isEOF() {
		switch p.peek().Kind {
		case lexer.TokSemicolon:
			p.advance()
		case lexer.TokKwOption:
			opt, oerr := p.parseOptionStatement()
			if oerr != nil {
				return nil, oerr
			}
			enum.Body = append(enum.Body, opt)
		case lexer.TokKwReserved:
			res, rerr := p.parseReserved()
			if rerr != nil {
				return nil, rerr
			}
			enum.Body = append(enum.Body, res)
		default:
			val, verr := p.parseEnumValue()
			if verr != nil {
				return nil, verr
			}
			enum.Body = append(enum.Body, val)
		}
	}
	end, cerr := p.expect(lexer.TokRBrace, "enum body")
	if cerr != nil {
		return nil, cerr
	}
	enum.Span = ast.NewSpan(start, end.Span.End)
	return enum, nil
}

// parseEnumValue parses: NAME = number [[options]] ;
func (p *Parser) parseEnumValue() (*ast.EnumValue, *types.SyntaxError) {
	start := p.peek().Span.Start
	doc := p.docFor(start)

	name, _, err := p.expectSimpleName("enum value name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokEquals, "enum value"); err != nil {
		return nil, err
	}
	numTok, nerr := p.expect(lexer.TokIntLit, "enum value number")
	if nerr != nil {
		return nil, nerr
	}
	number, perr := p.parseInt32(numTok, "enum value number")
	if perr != nil {
		return nil, perr
	}

	val := &ast.EnumValue{
		DeclBase: ast.DeclBase{Name: name, Doc: doc},
		Number:   number,
	}
	if p.check(lexer.TokLBracket) {
		opts, oerr := p.parseBracketedOptions()
		if oerr != nil {
			return nil, oerr
		}
		val.Options = opts
	}
	end, serr := p.expect(lexer.TokSemicolon, "enum value")
	if serr != nil {
		return nil, serr
	}
	val.Span = ast.NewSpan(start, end.Span.End)
	return val, nil
}

// parseService parses: service name { (option | rpc)* }
func (p *Parser) parseService() (*ast.Service, *types.SyntaxError) {
	start := p.peek().Span.Start
	doc := p.docFor(start)
	p.advance() // service

	name, _, err := p.expectSimpleName("service name")
	if err != nil {
		return nil, err
	}
	svc := &ast.Service{DeclBase: ast.DeclBase{Name: name, Doc: doc}}

	if _, err := p.expect(lexer.TokLBrace, "service body"); err != nil {
		return nil, err
	}
	for !p.check(lexer.TokRBrace) && !p.isEOF() {
		switch p.peek().Kind {
		case lexer.TokSemicolon:
			p.advance()
		case lexer.TokKwOption:
			opt, oerr := p.parseOptionStatement()
			if oerr != nil {
				return nil, oerr
			}
			svc.Body = append(svc.Body, opt)
		case lexer.TokKwRpc:
			rpc, rerr := p.parseRpc()
			if rerr != nil {
				return nil, rerr
			}
			svc.Body = append(svc.Body, rpc)
		default:
			return nil, p.errExpected([]string{"'rpc'", "'option'", "'}'"}, "service body")
		}
	}
	end, cerr := p.expect(lexer.TokRBrace, "service body")
	if cerr != nil {
		return nil, cerr
	}
	svc.Span = ast.NewSpan(start, end.Span.End)
	return svc, nil
}

// parseRpc parses: rpc Name (stream? Type) returns (stream? Type)
// followed by either ';' or an options body. An empty '{}' body is
// equivalent to none.
func (p *Parser) parseRpc() (*ast.Rpc, *types.SyntaxError) {
	start := p.peek().Span.Start
	doc := p.docFor(start)
	p.advance() // rpc

	name, _, err := p.expectSimpleName("rpc name")
	if err != nil {
		return nil, err
	}
	rpc := &ast.Rpc{DeclBase: ast.DeclBase{Name: name, Doc: doc}}

	if _, err := p.expect(lexer.TokLParen, "rpc request type"); err != nil {
		return nil, err
	}
	if _, ok := p.accept(lexer.TokKwStream); ok {
		rpc.StreamRequest = true
	}
	reqTok, rerr := p.expectIdent("rpc request type")
	if rerr != nil {
		return nil, rerr
	}
	rpc.Request = p.text(reqTok.Span)
	if _, err := p.expect(lexer.TokRParen, "rpc request type"); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.TokKwReturns, "rpc declaration"); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.TokLParen, "rpc response type"); err != nil {
		return nil, err
	}
	if _, ok := p.accept(lexer.TokKwStream); ok {
		rpc.StreamResponse = true
	}
	respTok, perr := p.expectIdent("rpc response type")
	if perr != nil {
		return nil, perr
	}
	rpc.Response = p.text(respTok.Span)
	if _, err := p.expect(lexer.TokRParen, "rpc response type"); err != nil {
		return nil, err
	}

	if end, ok := p.accept(lexer.TokSemicolon); ok {
		rpc.Span = ast.NewSpan(start, end.Span.End)
		return rpc, nil
	}

	if _, err := p.expect(lexer.TokLBrace, "rpc body"); err != nil {
		return nil, p.errExpected([]string{"';'", "'{'"}, "rpc declaration")
	}
	for !p.check(lexer.TokRBrace) && !p.isEOF() {
		switch p.peek().Kind {
		case lexer.TokSemicolon:
			p.advance()
		case lexer.TokKwOption:
			opt, oerr := p.parseOptionStatement()
			if oerr != nil {
				return nil, oerr
			}
			rpc.Options = append(rpc.Options, opt)
		default:
			return nil, p.errExpected([]string{"'option'", "'}'"}, "rpc body")
		}
	}
	end, cerr := p.expect(lexer.TokRBrace, "rpc body")
	if cerr != nil {
		return nil, cerr
	}
	rpc.Span = ast.NewSpan(start, end.Span.End)
	return rpc, nil
}

// parseExtend parses: extend TypeName { field* }
// The extended type and fields are recorded, not interpreted.
func (p *Parser) parseExtend() (*ast.Extend, *types.SyntaxError) {
	start := p.peek().Span.Start
	doc := p.docFor(start)
	p.advance() // extend

	tok, err := p.expectIdent("extended type name")
	if err != nil {
		return nil, err
	}
	ext := &ast.Extend{DeclBase: ast.DeclBase{Name: p.text(tok.Span), Doc: doc}}

	if _, err := p.expect(lexer.TokLBrace, "extend body"); err != nil {
		return nil, err
	}
	for !p.check(lexer.TokRBrace) && !p.isEOF() {
		if _, ok := p.accept(lexer.TokSemicolon); ok {
			continue
		}
		field, ferr := p.parseField(fieldInExtend)
		if ferr != nil {
			return nil, ferr
		}
		ext.Fields = append(ext.Fields, field)
	}
	end, cerr := p.expect(lexer.TokRBrace, "extend body")
	if cerr != nil {
		return nil, cerr
	}
	ext.Span = ast.NewSpan(start, end.Span.End)
	return ext, nil
}
