// Package tsgen emits TypeScript zod schema definitions from a File AST.
//
// Generation is a single read-only traversal of the tree: no AST node is
// ever mutated, declaration order is preserved, and one named schema is
// emitted per message, nested messages included. Scalar field types map to
// zod primitives, optional fields to z.optional, repeated fields to
// z.array, map fields to z.record, and oneofs to a union of single-field
// objects.
package tsgen

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/protozod/protozod/ast"
	"github.com/protozod/protozod/internal/types"
)

// ErrUnknownType is returned when a field references a type that is
// neither scalar nor declared in the file. Cross-file references cannot be
// generated because imports are recorded, not resolved.
var ErrUnknownType = errors.New("unknown type")

// Option configures Generate.
type Option func(*config)

type config struct {
	logger *slog.Logger
	header bool
	bigint bool
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHeader controls the generated-code header comment. Default on.
func WithHeader(enabled bool) Option {
	return func(c *config) { c.header = enabled }
}

// WithBigInt controls 64-bit integer mapping: z.coerce.bigint() when on
// (the default), z.number() when off for callers that accept precision
// loss.
func WithBigInt(enabled bool) Option {
	return func(c *config) { c.bigint = enabled }
}

// Generate renders the file's messages and enums as TypeScript zod
// schemas. Services, options, and extend blocks produce no output.
func Generate(file *ast.File, opts ...Option) ([]byte, error) {
	cfg := config{header: true, bigint: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &generator{
		cfg:    cfg,
		types:  collectTypes(file),
		pkg:    file.Package,
		Logger: types.Logger{L: cfg.logger},
	}
	g.Log(slog.LevelDebug, "generating schemas",
		slog.String("file", file.Name),
		slog.Int("types", len(g.types)))

	var b strings.Builder
	if cfg.header {
		b.WriteString("//\n// Code generated by protozod - DO NOT EDIT\n")
		fmt.Fprintf(&b, "// Source: %s\n//\n\n", file.Name)
	}
	b.WriteString("import { z } from \"zod\";\n\n")

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.Message:
			if err := g.message(&b, d, nil); err != nil {
				return nil, err
			}
		case *ast.Enum:
			g.enum(&b, d, nil)
		}
	}

	return []byte(b.String()), nil
}

// tsType is the TypeScript-side identity of a declared message or enum.
type tsType struct {
	fullName string // dotted proto name, e.g. Outer.Inner
	name     string // TypeScript type name, e.g. Outer_Inner
	schema   string // schema const name, e.g. Outer_InnerSchema
}

func newTSType(name string, parents []string) *tsType {
	parts := append(append([]string{}, parents...), name)
	tsName := strings.Join(parts, "_")
	return &tsType{
		fullName: strings.Join(parts, "."),
		name:     tsName,
		schema:   tsName + "Schema",
	}
}

// collectTypes indexes every message and enum in the file, nested ones
// under their dotted names.
func collectTypes(file *ast.File) map[string]*tsType {
	index := make(map[string]*tsType)
	var walk func(m *ast.Message, parents []string)
	walk = func(m *ast.Message, parents []string) {
		index[strings.Join(append(append([]string{}, parents...), m.Name), ".")] = newTSType(m.Name, parents)
		nested := append(append([]string{}, parents...), m.Name)
		for _, d := range m.Body {
			switch c := d.(type) {
			case *ast.Message:
				walk(c, nested)
			case *ast.Enum:
				index[strings.Join(append(append([]string{}, nested...), c.Name), ".")] = newTSType(c.Name, nested)
			}
		}
	}
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.Message:
			walk(d, nil)
		case *ast.Enum:
			index[d.Name] = newTSType(d.Name, nil)
		}
	}
	return index
}

type generator struct {
	cfg   config
	types map[string]*tsType
	pkg   string
	types.Logger
}

// lookup resolves a type reference: as written, relative to the enclosing
// message, or with the leading dot and file package stripped.
func (g *generator) lookup(name string, parent *tsType) *tsType {
	if t, ok := g.types[name]; ok {
		return t
	}
	if parent != nil {
		if t, ok := g.types[parent.fullName+"."+name]; ok {
			return t
		}
	}
	trimmed := strings.TrimPrefix(name, ".")
	if g.pkg != "" {
		trimmed = strings.TrimPrefix(trimmed, g.pkg+".")
	}
	if t, ok := g.types[trimmed]; ok {
		return t
	}
	return nil
}

// message emits the schemas for a message: nested declarations first, so
// their consts are defined before the parent schema references them.
func (g *generator) message(b *strings.Builder, m *ast.Message, parent *tsType) error {
	t := g.lookup(m.Name, parent)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrUnknownType, m.Name)
	}

	var fields []string
	for _, decl := range m.Body {
		switch d := decl.(type) {
		case *ast.Message:
			if err := g.message(b, d, t); err != nil {
				return err
			}
		case *ast.Enum:
			g.enum(b, d, t)
		case *ast.Field:
			entry, err := g.field(d, t)
			if err != nil {
				return err
			}
			fields = append(fields, entry)
		case *ast.Oneof:
			entry, err := g.oneof(d, t)
			if err != nil {
				return err
			}
			fields = append(fields, entry)
		}
	}

	fmt.Fprintf(b, "export const %s = z.object({\n", t.schema)
	for _, f := range fields {
		fmt.Fprintf(b, "  %s,\n", f)
	}
	b.WriteString("});\n\n")
	fmt.Fprintf(b, "export type %s = z.infer<typeof %s>;\n\n", t.name, t.schema)
	return nil
}

// field renders one field as a "name: schema" object entry.
func (g *generator) field(f *ast.Field, parent *tsType) (string, error) {
	name := g.fieldName(f)

	if f.Type.IsMap() {
		key, err := g.typeName(f.Type.Key.Name, parent)
		if err != nil {
			return "", err
		}
		val, verr := g.typeName(f.Type.Value.Name, parent)
		if verr != nil {
			return "", verr
		}
		return fmt.Sprintf("%s: z.record(%s, %s)", name, key, val), nil
	}

	typ, err := g.typeName(f.Type.Name, parent)
	if err != nil {
		return "", err
	}
	switch f.Label {
	case ast.LabelOptional:
		typ = fmt.Sprintf("z.optional(%s)", typ)
	case ast.LabelRepeated:
		typ = fmt.Sprintf("z.array(%s)", typ)
	}
	return fmt.Sprintf("%s: %s", name, typ), nil
}

// fieldName returns the TypeScript property name: the explicit json_name
// override when present, otherwise the lowerCamel form of the proto name.
func (g *generator) fieldName(f *ast.Field) string {
	if f.JSONName != "" {
		return f.JSONName
	}
	return strcase.ToLowerCamel(f.Name)
}

// oneof renders a oneof as a union of single-field objects. A one-member
// oneof collapses to the bare object: z.union rejects single-element
// lists.
func (g *generator) oneof(o *ast.Oneof, parent *tsType) (string, error) {
	cases := make([]string, 0, len(o.Fields))
	for _, f := range o.Fields {
		entry, err := g.field(f, parent)
		if err != nil {
			return "", err
		}
		cases = append(cases, fmt.Sprintf("z.object({ %s })", entry))
	}

	name := strcase.ToLowerCamel(o.Name)
	if len(cases) == 1 {
		return fmt.Sprintf("%s: %s", name, cases[0]), nil
	}
	return fmt.Sprintf("%s: z.union([%s])", name, strings.Join(cases, ", ")), nil
}

// typeName maps a proto type reference to its zod schema expression.
func (g *generator) typeName(name string, parent *tsType) (string, error) {
	switch name {
	case "string", "bytes":
		return "z.string()", nil
	case "int32", "uint32", "sint32", "fixed32", "sfixed32", "double", "float":
		return "z.number()", nil
	case "int64", "uint64", "sint64", "fixed64", "sfixed64":
		if g.cfg.bigint {
			return "z.coerce.bigint()", nil
		}
		return "z.number()", nil
	case "bool":
		return "z.boolean()", nil
	case "google.protobuf.Timestamp":
		return "z.coerce.date()", nil
	}

	if t := g.lookup(name, parent); t != nil {
		return t.schema, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownType, name)
}

// enum emits a TypeScript enum keyed by value name plus a nativeEnum
// schema. When the enum has a zero value, the schema catches unknown
// inputs to it, matching proto3's default semantics.
func (g *generator) enum(b *strings.Builder, e *ast.Enum, parent *tsType) {
	t := g.lookup(e.Name, parent)
	if t == nil {
		// Enums are always indexed during collection.
		return
	}

	fmt.Fprintf(b, "export enum %s {\n", t.name)
	for _, v := range e.Values() {
		fmt.Fprintf(b, "  %s = %q,\n", v.Name, v.Name)
	}
	b.WriteString("}\n\n")

	catch := ""
	for _, v := range e.Values() {
		if v.Number == 0 {
			catch = fmt.Sprintf(".catch(%s.%s)", t.name, v.Name)
			break
		}
	}
	fmt.Fprintf(b, "export const %s = z.nativeEnum(%s)%s;\n\n", t.schema, t.name, catch)
}
