package ast

// Option is an option statement or a bracketed field option: a dotted,
// possibly parenthesized name and a value.
type Option struct {
	// Name is the option path as written, with custom option segments kept
	// in parentheses, e.g. "java_package" or "(x.y).z".
	Name  string
	Value Value
	Span  Span
}

func (*Option) messageDecl() {}
func (*Option) enumDecl()    {}
func (*Option) serviceDecl() {}

// Value is an option value: a scalar, a list, or a message literal.
type Value interface {
	ValueSpan() Span
	value()
}

// ScalarKind identifies the lexical shape of a scalar option value.
type ScalarKind int

const (
	// StringValue is a quoted string.
	StringValue ScalarKind = iota
	// NumberValue is an integer or floating-point literal, possibly signed.
	NumberValue
	// BoolValue is the identifier true or false.
	BoolValue
	// IdentValue is any other bare identifier (enum constants and the like).
	IdentValue
)

// ScalarValue is a leaf option value.
type ScalarValue struct {
	Kind ScalarKind
	// Text is the value verbatim from source, quotes included for strings.
	Text string
	// Str is the decoded form: the unquoted, unescaped string for
	// StringValue, otherwise identical to Text.
	Str  string
	Span Span
}

func (v *ScalarValue) ValueSpan() Span { return v.Span }
func (*ScalarValue) value()            {}

// Bool returns the boolean value; ok is false unless Kind is BoolValue.
func (v *ScalarValue) Bool() (val, ok bool) {
	if v.Kind != BoolValue {
		return false, false
	}
	return v.Text == "true", true
}

// ListValue is a bracketed list of option values.
type ListValue struct {
	Elems []Value
	Span  Span
}

func (v *ListValue) ValueSpan() Span { return v.Span }
func (*ListValue) value()            {}

// MessageValue is a brace-delimited message literal in the text-format
// grammar. Entries appear in declaration order. A key repeated within one
// literal is preserved as distinct entries, in order: the parser never
// coalesces duplicates into a list and never drops earlier occurrences.
// Consumers that need a merge policy apply their own.
type MessageValue struct {
	Entries []MessageEntry
	Span    Span
}

func (v *MessageValue) ValueSpan() Span { return v.Span }
func (*MessageValue) value()            {}

// MessageEntry is one key: value pair inside a message literal.
type MessageEntry struct {
	Key   string
	Value Value
	Span  Span
}
