// Package printer serializes a File AST back to proto3 source text.
//
// The output is canonical: two-space indentation, double-quoted strings,
// one declaration per line. Re-parsing printed output yields a tree
// structurally equal to the one printed (spans aside), which is the
// package's contract and what its tests verify.
package printer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/protozod/protozod/ast"
)

// Print returns the file rendered as proto3 source text.
func Print(f *ast.File) string {
	var p printer
	p.file(f)
	return p.b.String()
}

// Fprint writes the file rendered as proto3 source text to w.
func Fprint(w io.Writer, f *ast.File) error {
	_, err := io.WriteString(w, Print(f))
	return err
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) line(format string, args ...any) {
	for i := 0; i < p.indent; i++ {
		p.b.WriteString("  ")
	}
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteByte('\n')
}

func (p *printer) blank() {
	p.b.WriteByte('\n')
}

func (p *printer) doc(doc []string) {
	for _, d := range doc {
		if d == "" {
			p.line("//")
		} else {
			p.line("// %s", d)
		}
	}
}

func (p *printer) file(f *ast.File) {
	if f.Syntax != "" {
		p.line("syntax = %s;", strconv.Quote(f.Syntax))
	}
	if f.Package != "" {
		p.line("package %s;", f.Package)
	}
	for _, imp := range f.Imports {
		switch {
		case imp.Public:
			p.line("import public %s;", strconv.Quote(imp.Path))
		case imp.Weak:
			p.line("import weak %s;", strconv.Quote(imp.Path))
		default:
			p.line("import %s;", strconv.Quote(imp.Path))
		}
	}
	for _, opt := range f.Options {
		p.option(opt)
	}
	for _, decl := range f.Decls {
		p.blank()
		switch d := decl.(type) {
		case *ast.Message:
			p.message(d)
		case *ast.Enum:
			p.enum(d)
		case *ast.Service:
			p.service(d)
		case *ast.Extend:
			p.extend(d)
		}
	}
}

func (p *printer) option(opt *ast.Option) {
	p.line("option %s = %s;", opt.Name, formatValue(opt.Value))
}

func (p *printer) message(m *ast.Message) {
	p.doc(m.Doc)
	if len(m.Body) == 0 {
		p.line("message %s {}", m.Name)
		return
	}
	p.line("message %s {", m.Name)
	p.indent++
	for _, decl := range m.Body {
		switch d := decl.(type) {
		case *ast.Field:
			p.field(d)
		case *ast.Message:
			p.message(d)
		case *ast.Enum:
			p.enum(d)
		case *ast.Oneof:
			p.oneof(d)
		case *ast.Reserved:
			p.reserved(d)
		case *ast.Extensions:
			p.line("extensions %s;", formatRanges(d.Ranges))
		case *ast.Extend:
			p.extend(d)
		case *ast.Option:
			p.option(d)
		}
	}
	p.indent--
	p.line("}")
}

func (p *printer) field(f *ast.Field) {
	p.doc(f.Doc)
	var b strings.Builder
	if f.Label != ast.LabelNone {
		b.WriteString(f.Label.String())
		b.WriteByte(' ')
	}
	b.WriteString(formatType(f.Type))
	fmt.Fprintf(&b, " %s = %d", f.Name, f.Number)
	if len(f.Options) > 0 {
		b.WriteString(" [")
		for i, opt := range f.Options {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s = %s", opt.Name, formatValue(opt.Value))
		}
		b.WriteByte(']')
	}
	b.WriteByte(';')
	p.line("%s", b.String())
}

func (p *printer) oneof(o *ast.Oneof) {
	p.doc(o.Doc)
	p.line("oneof %s {", o.Name)
	p.indent++
	for _, opt := range o.Options {
		p.option(opt)
	}
	for _, f := range o.Fields {
		p.field(f)
	}
	p.indent--
	p.line("}")
}

func (p *printer) reserved(r *ast.Reserved) {
	if r.IsNames() {
		quoted := make([]string, len(r.Names))
		for i, n := range r.Names {
			quoted[i] = strconv.Quote(n)
		}
		p.line("reserved %s;", strings.Join(quoted, ", "))
		return
	}
	p.line("reserved %s;", formatRanges(r.Ranges))
}

func (p *printer) enum(e *ast.Enum) {
	p.doc(e.Doc)
	if len(e.Body) == 0 {
		p.line("enum %s {}", e.Name)
		return
	}
	p.line("enum %s {", e.Name)
	p.indent++
	for _, decl := range e.Body {
		switch d := decl.(type) {
		case *ast.EnumValue:
			p.enumValue(d)
		case *ast.Option:
			p.option(d)
		case *ast.Reserved:
			p.reserved(d)
		}
	}
	p.indent--
	p.line("}")
}

func (p *printer) enumValue(v *ast.EnumValue) {
	p.doc(v.Doc)
	var b strings.Builder
	fmt.Fprintf(&b, "%s = %d", v.Name, v.Number)
	if len(v.Options) > 0 {
		b.WriteString(" [")
		for i, opt := range v.Options {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s = %s", opt.Name, formatValue(opt.Value))
		}
		b.WriteByte(']')
	}
	b.WriteByte(';')
	p.line("%s", b.String())
}

func (p *printer) service(s *ast.Service) {
	p.doc(s.Doc)
	if len(s.Body) == 0 {
		p.line("service %s {}", s.Name)
		return
	}
	p.line("service %s {", s.Name)
	p.indent++
	for _, decl := range s.Body {
		switch d := decl.(type) {
		case *ast.Rpc:
			p.rpc(d)
		case *ast.Option:
			p.option(d)
		}
	}
	p.indent--
	p.line("}")
}

func (p *printer) rpc(r *ast.Rpc) {
	p.doc(r.Doc)
	req := r.Request
	if r.StreamRequest {
		req = "stream " + req
	}
	resp := r.Response
	if r.StreamResponse {
		resp = "stream " + resp
	}
	if len(r.Options) == 0 {
		p.line("rpc %s (%s) returns (%s);", r.Name, req, resp)
		return
	}
	p.line("rpc %s (%s) returns (%s) {", r.Name, req, resp)
	p.indent++
	for _, opt := range r.Options {
		p.option(opt)
	}
	p.indent--
	p.line("}")
}

func (p *printer) extend(e *ast.Extend) {
	p.doc(e.Doc)
	if len(e.Fields) == 0 {
		p.line("extend %s {}", e.Name)
		return
	}
	p.line("extend %s {", e.Name)
	p.indent++
	for _, f := range e.Fields {
		p.field(f)
	}
	p.indent--
	p.line("}")
}

func formatType(t *ast.TypeRef) string {
	if t.IsMap() {
		return fmt.Sprintf("map<%s, %s>", t.Key.Name, t.Value.Name)
	}
	return t.Name
}

func formatRanges(ranges []ast.TagRange) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		switch {
		case r.Lo == r.Hi:
			parts[i] = strconv.Itoa(int(r.Lo))
		case r.Hi == ast.MaxTag:
			parts[i] = fmt.Sprintf("%d to max", r.Lo)
		default:
			parts[i] = fmt.Sprintf("%d to %d", r.Lo, r.Hi)
		}
	}
	return strings.Join(parts, ", ")
}

func formatValue(v ast.Value) string {
	switch val := v.(type) {
	case *ast.ScalarValue:
		if val.Kind == ast.StringValue {
			return strconv.Quote(val.Str)
		}
		return val.Text
	case *ast.ListValue:
		parts := make([]string, len(val.Elems))
		for i, e := range val.Elems {
			parts[i] = formatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.MessageValue:
		if len(val.Entries) == 0 {
			return "{}"
		}
		parts := make([]string, len(val.Entries))
		for i, e := range val.Entries {
			switch e.Value.(type) {
			case *ast.MessageValue:
				parts[i] = fmt.Sprintf("%s %s", e.Key, formatValue(e.Value))
			default:
				parts[i] = fmt.Sprintf("%s: %s", e.Key, formatValue(e.Value))
			}
		}
		return "{ " + strings.Join(parts, " ") + " }"
	default:
		return ""
	}
}
