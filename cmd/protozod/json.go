package main

import (
	"github.com/protozod/protozod/ast"
)

// FileJSON is the top-level JSON output for the dump command. Declarations
// are grouped by kind; within each group the declaration order of the
// source file is preserved.
type FileJSON struct {
	File     string        `json:"file"`
	Syntax   string        `json:"syntax,omitempty"`
	Package  string        `json:"package,omitempty"`
	Imports  []ImportJSON  `json:"imports,omitempty"`
	Options  []OptionJSON  `json:"options,omitempty"`
	Messages []MessageJSON `json:"messages,omitempty"`
	Enums    []EnumJSON    `json:"enums,omitempty"`
	Services []ServiceJSON `json:"services,omitempty"`
	Extends  []ExtendJSON  `json:"extends,omitempty"`
}

// ImportJSON holds one import statement.
type ImportJSON struct {
	Path   string `json:"path"`
	Public bool   `json:"public,omitempty"`
	Weak   bool   `json:"weak,omitempty"`
}

// OptionJSON holds one option with its rendered value.
type OptionJSON struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// EntryJSON holds one message-literal entry. Entries stay a slice so that
// duplicate keys survive with their order intact.
type EntryJSON struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// MessageJSON holds a message and its nested declarations.
type MessageJSON struct {
	Name       string           `json:"name"`
	Doc        []string         `json:"doc,omitempty"`
	Fields     []FieldJSON      `json:"fields,omitempty"`
	Oneofs     []OneofJSON      `json:"oneofs,omitempty"`
	Messages   []MessageJSON    `json:"messages,omitempty"`
	Enums      []EnumJSON       `json:"enums,omitempty"`
	Options    []OptionJSON     `json:"options,omitempty"`
	Reserved   []ReservedJSON   `json:"reserved,omitempty"`
	Extensions []ExtensionsJSON `json:"extensions,omitempty"`
}

// FieldJSON holds one field.
type FieldJSON struct {
	Name      string       `json:"name"`
	Doc       []string     `json:"doc,omitempty"`
	Label     string       `json:"label,omitempty"`
	Type      string       `json:"type"`
	KeyType   string       `json:"keyType,omitempty"`
	ValueType string       `json:"valueType,omitempty"`
	Number    int32        `json:"number"`
	JSONName  string       `json:"jsonName,omitempty"`
	Options   []OptionJSON `json:"options,omitempty"`
}

// OneofJSON holds a oneof group.
type OneofJSON struct {
	Name    string       `json:"name"`
	Doc     []string     `json:"doc,omitempty"`
	Fields  []FieldJSON  `json:"fields,omitempty"`
	Options []OptionJSON `json:"options,omitempty"`
}

// EnumJSON holds an enum and its values.
type EnumJSON struct {
	Name     string          `json:"name"`
	Doc      []string        `json:"doc,omitempty"`
	Values   []EnumValueJSON `json:"values,omitempty"`
	Options  []OptionJSON    `json:"options,omitempty"`
	Reserved []ReservedJSON  `json:"reserved,omitempty"`
}

// EnumValueJSON holds one enum value.
type EnumValueJSON struct {
	Name    string       `json:"name"`
	Doc     []string     `json:"doc,omitempty"`
	Number  int32        `json:"number"`
	Options []OptionJSON `json:"options,omitempty"`
}

// ServiceJSON holds a service and its rpcs.
type ServiceJSON struct {
	Name    string       `json:"name"`
	Doc     []string     `json:"doc,omitempty"`
	Rpcs    []RpcJSON    `json:"rpcs,omitempty"`
	Options []OptionJSON `json:"options,omitempty"`
}

// RpcJSON holds one rpc method.
type RpcJSON struct {
	Name           string       `json:"name"`
	Doc            []string     `json:"doc,omitempty"`
	Request        string       `json:"request"`
	StreamRequest  bool         `json:"streamRequest,omitempty"`
	Response       string       `json:"response"`
	StreamResponse bool         `json:"streamResponse,omitempty"`
	Options        []OptionJSON `json:"options,omitempty"`
}

// ReservedJSON holds one reserved statement.
type ReservedJSON struct {
	Names  []string    `json:"names,omitempty"`
	Ranges []RangeJSON `json:"ranges,omitempty"`
}

// ExtensionsJSON holds one extensions statement.
type ExtensionsJSON struct {
	Ranges []RangeJSON `json:"ranges"`
}

// RangeJSON holds a tag range. Max is ast.MaxTag for open ranges.
type RangeJSON struct {
	Lo int32 `json:"lo"`
	Hi int32 `json:"hi"`
}

// ExtendJSON holds one extend block.
type ExtendJSON struct {
	Name   string      `json:"name"`
	Fields []FieldJSON `json:"fields,omitempty"`
}

func fileToJSON(f *ast.File) FileJSON {
	out := FileJSON{
		File:    f.Name,
		Syntax:  f.Syntax,
		Package: f.Package,
		Options: optionsToJSON(f.Options),
	}
	for _, imp := range f.Imports {
		out.Imports = append(out.Imports, ImportJSON{
			Path:   imp.Path,
			Public: imp.Public,
			Weak:   imp.Weak,
		})
	}
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.Message:
			out.Messages = append(out.Messages, messageToJSON(d))
		case *ast.Enum:
			out.Enums = append(out.Enums, enumToJSON(d))
		case *ast.Service:
			out.Services = append(out.Services, serviceToJSON(d))
		case *ast.Extend:
			out.Extends = append(out.Extends, extendToJSON(d))
		}
	}
	return out
}

func messageToJSON(m *ast.Message) MessageJSON {
	out := MessageJSON{Name: m.Name, Doc: m.Doc}
	for _, decl := range m.Body {
		switch d := decl.(type) {
		case *ast.Field:
			out.Fields = append(out.Fields, fieldToJSON(d))
		case *ast.Oneof:
			out.Oneofs = append(out.Oneofs, oneofToJSON(d))
		case *ast.Message:
			out.Messages = append(out.Messages, messageToJSON(d))
		case *ast.Enum:
			out.Enums = append(out.Enums, enumToJSON(d))
		case *ast.Option:
			out.Options = append(out.Options, optionToJSON(d))
		case *ast.Reserved:
			out.Reserved = append(out.Reserved, reservedToJSON(d))
		case *ast.Extensions:
			out.Extensions = append(out.Extensions, ExtensionsJSON{Ranges: rangesToJSON(d.Ranges)})
		}
	}
	return out
}

func fieldToJSON(f *ast.Field) FieldJSON {
	out := FieldJSON{
		Name:     f.Name,
		Doc:      f.Doc,
		Number:   f.Number,
		JSONName: f.JSONName,
		Options:  optionsToJSON(f.Options),
	}
	if f.Label != ast.LabelNone {
		out.Label = f.Label.String()
	}
	if f.Type.IsMap() {
		out.Type = "map"
		out.KeyType = f.Type.Key.Name
		out.ValueType = f.Type.Value.Name
	} else {
		out.Type = f.Type.Name
	}
	return out
}

func oneofToJSON(o *ast.Oneof) OneofJSON {
	out := OneofJSON{Name: o.Name, Doc: o.Doc, Options: optionsToJSON(o.Options)}
	for _, f := range o.Fields {
		out.Fields = append(out.Fields, fieldToJSON(f))
	}
	return out
}

func enumToJSON(e *ast.Enum) EnumJSON {
	out := EnumJSON{Name: e.Name, Doc: e.Doc}
	for _, decl := range e.Body {
		switch d := decl.(type) {
		case *ast.EnumValue:
			out.Values = append(out.Values, EnumValueJSON{
				Name:    d.Name,
				Doc:     d.Doc,
				Number:  d.Number,
				Options: optionsToJSON(d.Options),
			})
		case *ast.Option:
			out.Options = append(out.Options, optionToJSON(d))
		case *ast.Reserved:
			out.Reserved = append(out.Reserved, reservedToJSON(d))
		}
	}
	return out
}

func serviceToJSON(s *ast.Service) ServiceJSON {
	out := ServiceJSON{Name: s.Name, Doc: s.Doc}
	for _, decl := range s.Body {
		switch d := decl.(type) {
		case *ast.Rpc:
			out.Rpcs = append(out.Rpcs, RpcJSON{
				Name:           d.Name,
				Doc:            d.Doc,
				Request:        d.Request,
				StreamRequest:  d.StreamRequest,
				Response:       d.Response,
				StreamResponse: d.StreamResponse,
				Options:        optionsToJSON(d.Options),
			})
		case *ast.Option:
			out.Options = append(out.Options, optionToJSON(d))
		}
	}
	return out
}

func extendToJSON(e *ast.Extend) ExtendJSON {
	out := ExtendJSON{Name: e.Name}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, fieldToJSON(f))
	}
	return out
}

func reservedToJSON(r *ast.Reserved) ReservedJSON {
	return ReservedJSON{Names: r.Names, Ranges: rangesToJSON(r.Ranges)}
}

func rangesToJSON(ranges []ast.TagRange) []RangeJSON {
	out := make([]RangeJSON, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, RangeJSON{Lo: r.Lo, Hi: r.Hi})
	}
	return out
}

func optionsToJSON(opts []*ast.Option) []OptionJSON {
	out := make([]OptionJSON, 0, len(opts))
	for _, o := range opts {
		out = append(out, optionToJSON(o))
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func optionToJSON(o *ast.Option) OptionJSON {
	return OptionJSON{Name: o.Name, Value: valueToJSON(o.Value)}
}

// valueToJSON renders an option value for JSON output. Strings decode to
// their content, booleans to bool, and numbers and identifiers keep their
// source text since proto numeric literals are not all valid JSON.
func valueToJSON(v ast.Value) any {
	switch val := v.(type) {
	case *ast.ScalarValue:
		switch val.Kind {
		case ast.StringValue:
			return val.Str
		case ast.BoolValue:
			b, _ := val.Bool()
			return b
		default:
			return val.Text
		}
	case *ast.ListValue:
		elems := make([]any, 0, len(val.Elems))
		for _, e := range val.Elems {
			elems = append(elems, valueToJSON(e))
		}
		return elems
	case *ast.MessageValue:
		entries := make([]EntryJSON, 0, len(val.Entries))
		for _, e := range val.Entries {
			entries = append(entries, EntryJSON{Key: e.Key, Value: valueToJSON(e.Value)})
		}
		return entries
	default:
		return nil
	}
}
