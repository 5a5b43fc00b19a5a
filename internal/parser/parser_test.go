package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protozod/protozod/ast"
	"github.com/protozod/protozod/internal/types"
)

func parse(t *testing.T, source string) *ast.File {
	t.Helper()
	file, err := Parse("test.proto", []byte(source), nil)
	require.Nil(t, err, "unexpected parse error: %v", err)
	return file
}

func parseErr(t *testing.T, source string) *types.SyntaxError {
	t.Helper()
	file, err := Parse("test.proto", []byte(source), nil)
	require.NotNil(t, err, "expected a parse error")
	assert.Nil(t, file, "no tree on error")
	return err
}

func TestEmptyFile(t *testing.T) {
	file := parse(t, "")
	assert.Equal(t, "test.proto", file.Name)
	assert.Empty(t, file.Syntax)
	assert.Empty(t, file.Decls)
}

func TestSyntaxDeclaration(t *testing.T) {
	file := parse(t, `syntax = "proto3";`)
	assert.Equal(t, "proto3", file.Syntax)
}

func TestUnsupportedSyntax(t *testing.T) {
	err := parseErr(t, `syntax = "proto4";`)
	assert.Contains(t, err.Error(), "unsupported syntax")
}

func TestSyntaxMustComeFirst(t *testing.T) {
	err := parseErr(t, "package p;\nsyntax = \"proto3\";")
	assert.Equal(t, types.ErrParse, err.Kind)
}

func TestPackageDeclaration(t *testing.T) {
	file := parse(t, `syntax = "proto3"; package foo.bar.v1;`)
	assert.Equal(t, "foo.bar.v1", file.Package)
}

func TestDuplicatePackage(t *testing.T) {
	err := parseErr(t, "package a;\npackage b;")
	assert.Contains(t, err.Error(), "duplicate package statement")
}

func TestImports(t *testing.T) {
	file := parse(t, `
		import "a.proto";
		import public "b.proto";
		import weak "c.proto";
	`)
	require.Len(t, file.Imports, 3)
	assert.Equal(t, "a.proto", file.Imports[0].Path)
	assert.False(t, file.Imports[0].Public)
	assert.True(t, file.Imports[1].Public)
	assert.True(t, file.Imports[2].Weak)
}

func TestMessageFieldsInDeclarationOrder(t *testing.T) {
	file := parse(t, `
		message Wide {
			string a = 1;
			int32 b = 2;
			bool c = 3;
			bytes d = 4;
			double e = 5;
		}
	`)
	require.Len(t, file.Messages(), 1)
	fields := file.Messages()[0].Fields()
	require.Len(t, fields, 5)
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		assert.Equal(t, name, fields[i].Name)
		assert.Equal(t, int32(i+1), fields[i].Number)
	}
}

func TestFieldLabels(t *testing.T) {
	file := parse(t, `
		message M {
			optional string a = 1;
			repeated int32 b = 2;
			string c = 3;
		}
	`)
	fields := file.Messages()[0].Fields()
	assert.Equal(t, ast.LabelOptional, fields[0].Label)
	assert.Equal(t, ast.LabelRepeated, fields[1].Label)
	assert.Equal(t, ast.LabelNone, fields[2].Label)
}

func TestRequiredRejectedInProto3(t *testing.T) {
	err := parseErr(t, `
		syntax = "proto3";
		message M { required string a = 1; }
	`)
	assert.Contains(t, err.Error(), "required")
}

func TestRequiredAllowedInProto2(t *testing.T) {
	file := parse(t, `
		syntax = "proto2";
		message M { required string a = 1; }
	`)
	assert.Equal(t, ast.LabelRequired, file.Messages()[0].Fields()[0].Label)
}

func TestNegativeFieldNumber(t *testing.T) {
	err := parseErr(t, "message M { string a = -1; }")
	assert.Contains(t, err.Error(), "field numbers must be positive")
}

func TestMapField(t *testing.T) {
	file := parse(t, "message M { map<string, Project> projects = 3; }")
	f := file.Messages()[0].Fields()[0]
	require.True(t, f.Type.IsMap())
	assert.Equal(t, "string", f.Type.Key.Name)
	assert.Equal(t, "Project", f.Type.Value.Name)
}

func TestMapKeyMustBeIntegralOrString(t *testing.T) {
	err := parseErr(t, "message M { map<double, string> m = 1; }")
	assert.Contains(t, err.Error(), "map key")
}

func TestMapFieldRejectsLabel(t *testing.T) {
	err := parseErr(t, "message M { repeated map<string, int32> m = 1; }")
	assert.Equal(t, types.ErrParse, err.Kind)
}

func TestKeywordsUsableAsIdentifiers(t *testing.T) {
	file := parse(t, `
		message service {
			string option = 1;
			int32 message = 2;
			bool required = 3;
		}
	`)
	m := file.Messages()[0]
	assert.Equal(t, "service", m.Name)
	assert.Equal(t, "option", m.Fields()[0].Name)
	assert.Equal(t, "message", m.Fields()[1].Name)
	assert.Equal(t, "required", m.Fields()[2].Name)
}

func TestNestedMessages(t *testing.T) {
	file := parse(t, `
		message L1 { message L2 { message L3 { message L4 { message L5 {
			string deep = 1;
		} } } } }
	`)
	m := file.Messages()[0]
	for _, name := range []string{"L2", "L3", "L4", "L5"} {
		require.Len(t, m.Messages(), 1)
		m = m.Messages()[0]
		assert.Equal(t, name, m.Name)
	}
	require.Len(t, m.Fields(), 1)
	assert.Equal(t, "deep", m.Fields()[0].Name)
}

func TestDeeplyNestedMessages(t *testing.T) {
	const depth = 200
	var b strings.Builder
	for i := 1; i <= depth; i++ {
		fmt.Fprintf(&b, "message L%d {\n", i)
	}
	b.WriteString("string deep = 1;\n")
	b.WriteString(strings.Repeat("}\n", depth))

	file := parse(t, b.String())
	require.Len(t, file.Messages(), 1)
	m := file.Messages()[0]
	assert.Equal(t, "L1", m.Name)
	for i := 2; i <= depth; i++ {
		require.Len(t, m.Messages(), 1, "level %d", i)
		m = m.Messages()[0]
		assert.Equal(t, fmt.Sprintf("L%d", i), m.Name)
	}
	assert.Empty(t, m.Messages())
	require.Len(t, m.Fields(), 1)
	assert.Equal(t, "deep", m.Fields()[0].Name)
}

func TestEmptyMessage(t *testing.T) {
	file := parse(t, "message Empty {}")
	m := file.Messages()[0]
	assert.Equal(t, "Empty", m.Name)
	assert.Empty(t, m.Body)
}

func TestCommentOnlyMessage(t *testing.T) {
	file := parse(t, `
		message Quiet {
			// just thinking out loud
			/* nothing to see here */
		}
	`)
	assert.Empty(t, file.Messages()[0].Body)
}

func TestBlockCommentHidesDeclarations(t *testing.T) {
	file := parse(t, `
		/* message Ghost { string boo = 1; } */
		message Real {}
	`)
	require.Len(t, file.Messages(), 1)
	assert.Equal(t, "Real", file.Messages()[0].Name)
}

func TestDocComments(t *testing.T) {
	file := parse(t, `
		// A user of the system.
		// Identified by id.
		message User {
			// Unique id.
			int64 id = 1;

			int64 undocumented = 2;
		}
	`)
	m := file.Messages()[0]
	assert.Equal(t, []string{"A user of the system.", "Identified by id."}, m.Doc)
	assert.Equal(t, []string{"Unique id."}, m.Fields()[0].Doc)
	assert.Empty(t, m.Fields()[1].Doc)
}

func TestTrailingCommentNotAttachedToNextDecl(t *testing.T) {
	file := parse(t, `
		message A {} // about A
		message B {}
	`)
	assert.Empty(t, file.Messages()[1].Doc)
}

func TestOneof(t *testing.T) {
	file := parse(t, `
		message M {
			oneof kind {
				string name = 1;
				int32 id = 2;
			}
		}
	`)
	oneofs := file.Messages()[0].Oneofs()
	require.Len(t, oneofs, 1)
	assert.Equal(t, "kind", oneofs[0].Name)
	require.Len(t, oneofs[0].Fields, 2)
	assert.Equal(t, "name", oneofs[0].Fields[0].Name)
}

func TestOneofFieldRejectsLabel(t *testing.T) {
	err := parseErr(t, `
		message M {
			oneof kind { repeated string name = 1; }
		}
	`)
	assert.Contains(t, err.Error(), "oneof")
}

func TestReservedRanges(t *testing.T) {
	file := parse(t, "message M { reserved 2, 15, 9 to 11, 40 to max; }")
	var reserved *ast.Reserved
	for _, d := range file.Messages()[0].Body {
		if r, ok := d.(*ast.Reserved); ok {
			reserved = r
		}
	}
	require.NotNil(t, reserved)
	require.Len(t, reserved.Ranges, 4)
	assert.Equal(t, ast.TagRange{Lo: 2, Hi: 2}, reserved.Ranges[0])
	assert.Equal(t, ast.TagRange{Lo: 9, Hi: 11}, reserved.Ranges[2])
	assert.Equal(t, ast.TagRange{Lo: 40, Hi: ast.MaxTag}, reserved.Ranges[3])
}

func TestReservedNames(t *testing.T) {
	file := parse(t, `message M { reserved "foo", "bar"; }`)
	var reserved *ast.Reserved
	for _, d := range file.Messages()[0].Body {
		if r, ok := d.(*ast.Reserved); ok {
			reserved = r
		}
	}
	require.NotNil(t, reserved)
	assert.True(t, reserved.IsNames())
	assert.Equal(t, []string{"foo", "bar"}, reserved.Names)
}

func TestReservedMixRejected(t *testing.T) {
	err := parseErr(t, `message M { reserved 1, "foo"; }`)
	assert.Contains(t, err.Error(), "cannot mix")
}

func TestEnum(t *testing.T) {
	file := parse(t, `
		enum Status {
			STATUS_UNSPECIFIED = 0;
			ACTIVE = 1;
			retired_lowercase = 44;
		}
	`)
	e := file.Enums()[0]
	values := e.Values()
	require.Len(t, values, 3)
	assert.Equal(t, int32(0), values[0].Number)
	assert.Equal(t, "retired_lowercase", values[2].Name)
	assert.Equal(t, int32(44), values[2].Number)
}

func TestEnumNegativeValue(t *testing.T) {
	file := parse(t, "enum E { ZERO = 0; NEG = -1; }")
	assert.Equal(t, int32(-1), file.Enums()[0].Values()[1].Number)
}

func TestEnumReserved(t *testing.T) {
	file := parse(t, `enum E { ZERO = 0; reserved 2, 5 to 7; reserved "OLD"; }`)
	e := file.Enums()[0]
	var statements []*ast.Reserved
	for _, d := range e.Body {
		if r, ok := d.(*ast.Reserved); ok {
			statements = append(statements, r)
		}
	}
	require.Len(t, statements, 2)
	assert.Len(t, statements[0].Ranges, 2)
	assert.Equal(t, []string{"OLD"}, statements[1].Names)
}

func TestServiceStreamCombinations(t *testing.T) {
	file := parse(t, `
		service Greeter {
			rpc Unary (Req) returns (Resp);
			rpc ServerStream (Req) returns (stream Resp);
			rpc ClientStream (stream Req) returns (Resp) {}
			rpc BidiStream (stream Req) returns (stream Resp) {
				option idempotency_level = NO_SIDE_EFFECTS;
			}
		}
	`)
	rpcs := file.Services()[0].Rpcs()
	require.Len(t, rpcs, 4)

	for i, want := range []struct{ in, out bool }{
		{false, false}, {false, true}, {true, false}, {true, true},
	} {
		assert.Equal(t, want.in, rpcs[i].StreamRequest, "rpc %s request", rpcs[i].Name)
		assert.Equal(t, want.out, rpcs[i].StreamResponse, "rpc %s response", rpcs[i].Name)
	}
	require.Len(t, rpcs[3].Options, 1)
	assert.Equal(t, "idempotency_level", rpcs[3].Options[0].Name)
}

func TestRpcQualifiedTypes(t *testing.T) {
	file := parse(t, `
		service S {
			rpc Get (.google.protobuf.Empty) returns (foo.bar.Item);
		}
	`)
	rpc := file.Services()[0].Rpcs()[0]
	assert.Equal(t, ".google.protobuf.Empty", rpc.Request)
	assert.Equal(t, "foo.bar.Item", rpc.Response)
}

func TestExtend(t *testing.T) {
	file := parse(t, `
		extend google.protobuf.FieldOptions {
			string my_opt = 50000;
		}
	`)
	var ext *ast.Extend
	for _, d := range file.Decls {
		if e, ok := d.(*ast.Extend); ok {
			ext = e
		}
	}
	require.NotNil(t, ext)
	assert.Equal(t, "google.protobuf.FieldOptions", ext.Name)
	require.Len(t, ext.Fields, 1)
	assert.Equal(t, int32(50000), ext.Fields[0].Number)
}

func TestExtensions(t *testing.T) {
	file := parse(t, "message M { extensions 100 to 199, 500; }")
	var ext *ast.Extensions
	for _, d := range file.Messages()[0].Body {
		if e, ok := d.(*ast.Extensions); ok {
			ext = e
		}
	}
	require.NotNil(t, ext)
	assert.Equal(t, ast.TagRange{Lo: 100, Hi: 199}, ext.Ranges[0])
	assert.Equal(t, ast.TagRange{Lo: 500, Hi: 500}, ext.Ranges[1])
}

func TestJSONNameLifted(t *testing.T) {
	file := parse(t, `message M { string foo_bar = 1 [json_name = "fooBar", deprecated = true]; }`)
	f := file.Messages()[0].Fields()[0]
	assert.Equal(t, "fooBar", f.JSONName)
	// json_name stays in the options list too.
	require.Len(t, f.Options, 2)
	assert.Equal(t, "json_name", f.Options[0].Name)
	assert.Equal(t, "deprecated", f.Options[1].Name)
}

func TestStringLiteralConcatenation(t *testing.T) {
	file := parse(t, `option note = "one " "two " 'three';`)
	v, ok := file.Options[0].Value.(*ast.ScalarValue)
	require.True(t, ok)
	assert.Equal(t, "one two three", v.Str)
}

func TestDanglingTopLevelToken(t *testing.T) {
	err := parseErr(t, "message M {} garbage")
	assert.Equal(t, types.ErrParse, err.Kind)
	assert.Contains(t, err.Error(), "expected")
	assert.Contains(t, err.Error(), `found "garbage"`)
}

func TestMissingSemicolon(t *testing.T) {
	err := parseErr(t, "message M { string a = 1 }")
	assert.Equal(t, types.ErrParse, err.Kind)
}

func TestLexErrorSurfacesFromParse(t *testing.T) {
	err := parseErr(t, "message M { string a = 1; } \x01")
	assert.Equal(t, types.ErrLex, err.Kind)
}
