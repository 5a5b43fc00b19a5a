package tsgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protozod/protozod/internal/parser"
)

func generate(t *testing.T, source string, opts ...Option) string {
	t.Helper()
	file, err := parser.Parse("test.proto", []byte(source), nil)
	require.Nil(t, err, "parse error: %v", err)
	out, gerr := Generate(file, append([]Option{WithHeader(false)}, opts...)...)
	require.NoError(t, gerr)
	return string(out)
}

func TestHeader(t *testing.T) {
	file, err := parser.Parse("api.proto", []byte("message M {}"), nil)
	require.Nil(t, err)
	out, gerr := Generate(file)
	require.NoError(t, gerr)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "//\n// Code generated by protozod - DO NOT EDIT\n// Source: api.proto\n//\n"))
	assert.Contains(t, text, `import { z } from "zod";`)
}

func TestScalarFields(t *testing.T) {
	out := generate(t, `
		message Scalars {
			string name = 1;
			bytes raw = 2;
			int32 small = 3;
			double ratio = 4;
			int64 big = 5;
			bool flag = 6;
		}
	`)
	expected := `import { z } from "zod";

export const ScalarsSchema = z.object({
  name: z.string(),
  raw: z.string(),
  small: z.number(),
  ratio: z.number(),
  big: z.coerce.bigint(),
  flag: z.boolean(),
});

export type Scalars = z.infer<typeof ScalarsSchema>;

`
	assert.Equal(t, expected, out)
}

func TestBigIntDisabled(t *testing.T) {
	out := generate(t, "message M { uint64 n = 1; }", WithBigInt(false))
	assert.Contains(t, out, "n: z.number(),")
	assert.NotContains(t, out, "bigint")
}

func TestTimestampMapsToDate(t *testing.T) {
	out := generate(t, `
		import "google/protobuf/timestamp.proto";
		message M { google.protobuf.Timestamp created_at = 1; }
	`)
	assert.Contains(t, out, "createdAt: z.coerce.date(),")
}

func TestFieldModifiers(t *testing.T) {
	out := generate(t, `
		message M {
			optional string note = 1;
			repeated int32 ids = 2;
			map<string, bool> flags = 3;
		}
	`)
	assert.Contains(t, out, "note: z.optional(z.string()),")
	assert.Contains(t, out, "ids: z.array(z.number()),")
	assert.Contains(t, out, "flags: z.record(z.string(), z.boolean()),")
}

func TestFieldNamesCamelized(t *testing.T) {
	out := generate(t, "message M { string display_name = 1; }")
	assert.Contains(t, out, "displayName: z.string(),")
}

func TestJSONNameOverride(t *testing.T) {
	out := generate(t, `message M { string foo_bar = 1 [json_name = "fooBAR"]; }`)
	assert.Contains(t, out, "fooBAR: z.string(),")
}

func TestMessageReference(t *testing.T) {
	out := generate(t, `
		message Author { string name = 1; }
		message Book { Author author = 1; }
	`)
	assert.Contains(t, out, "author: AuthorSchema,")
	// Referenced schema is defined before its user.
	assert.Less(t,
		strings.Index(out, "export const AuthorSchema"),
		strings.Index(out, "export const BookSchema"))
}

func TestNestedTypesNamedByPath(t *testing.T) {
	out := generate(t, `
		message Outer {
			message Inner { string x = 1; }
			Inner inner = 1;
		}
	`)
	assert.Contains(t, out, "export const Outer_InnerSchema = z.object({")
	assert.Contains(t, out, "export type Outer_Inner = z.infer<typeof Outer_InnerSchema>;")
	assert.Contains(t, out, "inner: Outer_InnerSchema,")
	// Nested schemas are emitted before the enclosing message's.
	assert.Less(t,
		strings.Index(out, "export const Outer_InnerSchema"),
		strings.Index(out, "export const OuterSchema"))
}

func TestPackageQualifiedReference(t *testing.T) {
	out := generate(t, `
		package example.v1;
		message Author { string name = 1; }
		message Book { example.v1.Author author = 1; }
	`)
	assert.Contains(t, out, "author: AuthorSchema,")
}

func TestOneofUnion(t *testing.T) {
	out := generate(t, `
		message Event {
			oneof payload {
				string text = 1;
				int32 code = 2;
			}
		}
	`)
	assert.Contains(t, out,
		"payload: z.union([z.object({ text: z.string() }), z.object({ code: z.number() })]),")
}

func TestSingleMemberOneofCollapses(t *testing.T) {
	out := generate(t, `
		message Event {
			oneof payload { string text = 1; }
		}
	`)
	assert.Contains(t, out, "payload: z.object({ text: z.string() }),")
	assert.NotContains(t, out, "z.union")
}

func TestEnum(t *testing.T) {
	out := generate(t, `
		enum Status {
			STATUS_UNSPECIFIED = 0;
			ACTIVE = 1;
		}
	`)
	expected := `import { z } from "zod";

export enum Status {
  STATUS_UNSPECIFIED = "STATUS_UNSPECIFIED",
  ACTIVE = "ACTIVE",
}

export const StatusSchema = z.nativeEnum(Status).catch(Status.STATUS_UNSPECIFIED);

`
	assert.Equal(t, expected, out)
}

func TestEnumWithoutZeroValueHasNoCatch(t *testing.T) {
	out := generate(t, `
		syntax = "proto2";
		enum E { ONE = 1; TWO = 2; }
	`)
	assert.Contains(t, out, "export const ESchema = z.nativeEnum(E);")
}

func TestNestedEnumReference(t *testing.T) {
	out := generate(t, `
		message Task {
			enum State { STATE_UNSPECIFIED = 0; DONE = 1; }
			State state = 1;
		}
	`)
	assert.Contains(t, out, "export enum Task_State {")
	assert.Contains(t, out, "state: Task_StateSchema,")
}

func TestUnknownTypeFails(t *testing.T) {
	file, err := parser.Parse("test.proto", []byte("message M { Missing m = 1; }"), nil)
	require.Nil(t, err)
	_, gerr := Generate(file)
	require.Error(t, gerr)
	assert.ErrorIs(t, gerr, ErrUnknownType)
	assert.Contains(t, gerr.Error(), "Missing")
}

func TestServicesProduceNoOutput(t *testing.T) {
	out := generate(t, `
		message Req { string q = 1; }
		service S { rpc Get (Req) returns (Req); }
	`)
	assert.NotContains(t, out, "service")
	assert.NotContains(t, out, "Get")
}

func TestDeclarationOrderPreserved(t *testing.T) {
	file, err := parser.Parse("test.proto", []byte(`
		enum First { FIRST_UNSPECIFIED = 0; }
		message Second { First f = 1; }
		message Third { string s = 1; }
	`), nil)
	require.Nil(t, err)
	out, gerr := Generate(file, WithHeader(false))
	require.NoError(t, gerr)

	text := string(out)
	first := strings.Index(text, "export enum First")
	second := strings.Index(text, "export const SecondSchema")
	third := strings.Index(text, "export const ThirdSchema")
	assert.True(t, first < second && second < third)
}
