package ast

// scalarTypes is the set of proto3 scalar type keywords.
var scalarTypes = map[string]bool{
	"double":   true,
	"float":    true,
	"int32":    true,
	"int64":    true,
	"uint32":   true,
	"uint64":   true,
	"sint32":   true,
	"sint64":   true,
	"fixed32":  true,
	"fixed64":  true,
	"sfixed32": true,
	"sfixed64": true,
	"bool":     true,
	"string":   true,
	"bytes":    true,
}

// IsScalarType returns true if name is a proto3 scalar type keyword.
func IsScalarType(name string) bool {
	return scalarTypes[name]
}

// IsMapKeyType returns true if name is a legal map key type: any integral
// scalar, string, or bool. Floating-point types and bytes are not legal
// keys.
func IsMapKeyType(name string) bool {
	switch name {
	case "double", "float", "bytes":
		return false
	default:
		return scalarTypes[name]
	}
}
