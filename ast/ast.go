// Package ast provides Abstract Syntax Tree types for parsed proto3 files.
//
// A File and everything beneath it is owned exclusively by its parent node;
// the tree has no back-edges. Nodes are not modified once the parse that
// created them returns, so a File may be shared freely across goroutines.
// Declaration order within every scope is preserved exactly as written and
// is semantically significant: fields are never reordered by number, nested
// declarations never hoisted.
package ast

// File is the top-level AST node for a parsed proto source file.
type File struct {
	// Name is the source filename, used only for diagnostics.
	Name string
	// Syntax is the declared syntax ("proto3"), or "" when the file has no
	// syntax statement (treated as proto3).
	Syntax  string
	Package string
	Imports []*Import
	// Options are file-level option statements in declaration order.
	Options []*Option
	// Decls are the top-level messages, enums, services, and extend blocks
	// in declaration order.
	Decls []Decl
	Span  Span
}

// Messages returns the top-level messages in declaration order.
func (f *File) Messages() []*Message {
	var out []*Message
	for _, d := range f.Decls {
		if m, ok := d.(*Message); ok {
			out = append(out, m)
		}
	}
	return out
}

// Enums returns the top-level enums in declaration order.
func (f *File) Enums() []*Enum {
	var out []*Enum
	for _, d := range f.Decls {
		if e, ok := d.(*Enum); ok {
			out = append(out, e)
		}
	}
	return out
}

// Services returns the services in declaration order.
func (f *File) Services() []*Service {
	var out []*Service
	for _, d := range f.Decls {
		if s, ok := d.(*Service); ok {
			out = append(out, s)
		}
	}
	return out
}

// Decl is a top-level construct in a file body.
type Decl interface {
	DeclName() string
	DeclSpan() Span
	decl()
}

// DeclBase provides the Name, Doc, and Span fields common to declarations.
type DeclBase struct {
	Name string
	// Doc holds the contiguous // comments immediately preceding the
	// declaration, one entry per line, leading slashes stripped.
	Doc  []string
	Span Span
}

func (d *DeclBase) DeclName() string { return d.Name }
func (d *DeclBase) DeclSpan() Span   { return d.Span }
func (*DeclBase) decl()              {}

// Import records an import statement. The path is never resolved or
// followed; cross-file references are a separate concern.
type Import struct {
	// Path is the imported path as written, without quotes.
	Path   string
	Public bool
	Weak   bool
	Span   Span
}

// Message is a message declaration.
type Message struct {
	DeclBase
	// Body holds the message's fields, nested messages and enums, oneofs,
	// reserved statements, options, and extension declarations in
	// declaration order.
	Body []MessageDecl
}

func (*Message) messageDecl() {}

// Fields returns the message's direct fields in declaration order.
// Fields inside oneofs are not included.
func (m *Message) Fields() []*Field {
	var out []*Field
	for _, d := range m.Body {
		if f, ok := d.(*Field); ok {
			out = append(out, f)
		}
	}
	return out
}

// Messages returns the directly nested messages in declaration order.
func (m *Message) Messages() []*Message {
	var out []*Message
	for _, d := range m.Body {
		if n, ok := d.(*Message); ok {
			out = append(out, n)
		}
	}
	return out
}

// Enums returns the directly nested enums in declaration order.
func (m *Message) Enums() []*Enum {
	var out []*Enum
	for _, d := range m.Body {
		if e, ok := d.(*Enum); ok {
			out = append(out, e)
		}
	}
	return out
}

// Oneofs returns the message's oneofs in declaration order.
func (m *Message) Oneofs() []*Oneof {
	var out []*Oneof
	for _, d := range m.Body {
		if o, ok := d.(*Oneof); ok {
			out = append(out, o)
		}
	}
	return out
}

// Options returns the message-level option statements in declaration order.
func (m *Message) Options() []*Option {
	var out []*Option
	for _, d := range m.Body {
		if o, ok := d.(*Option); ok {
			out = append(out, o)
		}
	}
	return out
}

// MessageDecl is an element of a message body.
type MessageDecl interface {
	messageDecl()
}

// Label is a field cardinality label.
type Label int

const (
	// LabelNone is a plain singular field.
	LabelNone Label = iota
	// LabelOptional marks an explicitly optional field.
	LabelOptional
	// LabelRepeated marks a repeated field.
	LabelRepeated
	// LabelRequired is the proto2 required label. It is recorded when the
	// file declares proto2 syntax and rejected otherwise.
	LabelRequired
)

// String returns the label as written in source, "" for LabelNone.
func (l Label) String() string {
	switch l {
	case LabelOptional:
		return "optional"
	case LabelRepeated:
		return "repeated"
	case LabelRequired:
		return "required"
	default:
		return ""
	}
}

// TypeRef is a field type reference: a scalar keyword, a dotted message or
// enum name (unresolved), or a map type.
type TypeRef struct {
	// Name is the scalar keyword or dotted type name, or "map" for maps.
	Name string
	// Key and Value are set only for map types.
	Key   *TypeRef
	Value *TypeRef
	Span  Span
}

// IsMap returns true for map<K,V> types.
func (t *TypeRef) IsMap() bool {
	return t.Key != nil
}

// IsScalar returns true if the reference names a scalar type.
func (t *TypeRef) IsScalar() bool {
	return IsScalarType(t.Name)
}

// Field is a message or extend field declaration.
type Field struct {
	DeclBase
	Label Label
	Type  *TypeRef
	// Number is the declared field number as written. Negative numbers are
	// rejected during parsing, so the value is always >= 0 in a parsed tree.
	Number int32
	// Options holds the bracketed field options in declaration order.
	Options []*Option
	// JSONName is the explicit json_name override, "" when absent. The
	// originating option is also retained in Options.
	JSONName string
}

func (*Field) messageDecl() {}

// Oneof is a oneof declaration. Member fields never carry a label.
type Oneof struct {
	DeclBase
	Fields  []*Field
	Options []*Option
}

func (*Oneof) messageDecl() {}

// Enum is an enum declaration.
type Enum struct {
	DeclBase
	// Body holds the enum's values, options, and reserved statements in
	// declaration order.
	Body []EnumDecl
}

func (*Enum) messageDecl() {}

// Values returns the enum's values in declaration order. Values need not
// be contiguous or start at zero.
func (e *Enum) Values() []*EnumValue {
	var out []*EnumValue
	for _, d := range e.Body {
		if v, ok := d.(*EnumValue); ok {
			out = append(out, v)
		}
	}
	return out
}

// EnumDecl is an element of an enum body.
type EnumDecl interface {
	enumDecl()
}

// EnumValue is a single name = number entry in an enum.
type EnumValue struct {
	DeclBase
	Number  int32
	Options []*Option
}

func (*EnumValue) enumDecl() {}

// Service is a service declaration.
type Service struct {
	DeclBase
	// Body holds the service's rpcs and options in declaration order.
	Body []ServiceDecl
}

// Rpcs returns the service's rpcs in declaration order.
func (s *Service) Rpcs() []*Rpc {
	var out []*Rpc
	for _, d := range s.Body {
		if r, ok := d.(*Rpc); ok {
			out = append(out, r)
		}
	}
	return out
}

// Options returns the service-level option statements in declaration order.
func (s *Service) Options() []*Option {
	var out []*Option
	for _, d := range s.Body {
		if o, ok := d.(*Option); ok {
			out = append(out, o)
		}
	}
	return out
}

// ServiceDecl is an element of a service body.
type ServiceDecl interface {
	serviceDecl()
}

// Rpc is an rpc declaration inside a service. Request and response types
// are raw dotted names; streaming is recorded independently per direction.
// A body-less rpc (";") and one with an empty "{}" body are equivalent.
type Rpc struct {
	DeclBase
	Request        string
	StreamRequest  bool
	Response       string
	StreamResponse bool
	Options        []*Option
}

func (*Rpc) serviceDecl() {}

// MaxTag is the largest allowed field number (2^29 - 1). A reserved or
// extensions range written as "lo to max" has Hi == MaxTag.
const MaxTag = 536870911

// TagRange is an inclusive field-number range. A single number n is
// represented as {n, n}.
type TagRange struct {
	Lo, Hi int32
}

// Reserved is a reserved statement: either field numbers/ranges or field
// names, never both in one statement.
type Reserved struct {
	// Ranges holds the numeric form; nil when the statement reserves names.
	Ranges []TagRange
	// Names holds the name form; nil when the statement reserves numbers.
	Names []string
	Span  Span
}

func (*Reserved) messageDecl() {}
func (*Reserved) enumDecl()    {}

// IsNames returns true for the name form of a reserved statement.
func (r *Reserved) IsNames() bool {
	return r.Names != nil
}

// Extensions is a proto2 "extensions lo to hi;" statement. It is recorded
// for compatibility but carries no proto3 semantics.
type Extensions struct {
	Ranges []TagRange
	Span   Span
}

func (*Extensions) messageDecl() {}

// Extend is an extend block. Name is the extended type as written.
type Extend struct {
	DeclBase
	Fields []*Field
}

func (*Extend) messageDecl() {}
