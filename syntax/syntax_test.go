// Copyright (c) 2026 The serialib authors
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Miravalier/serialib/syntax"
)

func parse(t *testing.T, src string) *syntax.Schema {
	t.Helper()
	schema, err := syntax.Parse([]byte(src))
	require.NoError(t, err)
	return schema
}

func parseErr(t *testing.T, src string) *syntax.Error {
	t.Helper()
	_, err := syntax.Parse([]byte(src))
	require.Error(t, err, "source %q", src)
	var syntaxErr *syntax.Error
	require.ErrorAs(t, err, &syntaxErr, "source %q", src)
	return syntaxErr
}

func TestParseEmptySchema(t *testing.T) {
	t.Parallel()

	schema := parse(t, "")
	require.Empty(t, schema.Decls)

	schema = parse(t, " \n\t // only trivia\n/* here */")
	require.Empty(t, schema.Decls)
}

func TestParseEnum(t *testing.T) {
	t.Parallel()

	schema := parse(t, `
		enum Fruit {
			APPLE,
			ORANGE = 5,
			BANANA
		}
	`)
	require.Len(t, schema.Decls, 1)
	decl, ok := schema.Decls[0].(*syntax.EnumDecl)
	require.True(t, ok)
	require.Equal(t, "Fruit", decl.Name)
	require.Equal(t, "", decl.Width)
	require.Len(t, decl.Items, 3)
	require.Equal(t, "APPLE", decl.Items[0].Name)
	require.Nil(t, decl.Items[0].Value)
	require.Equal(t, "ORANGE", decl.Items[1].Name)
	require.NotNil(t, decl.Items[1].Value)
	require.Equal(t, uint64(5), *decl.Items[1].Value)
	require.Equal(t, "BANANA", decl.Items[2].Name)
	require.Nil(t, decl.Items[2].Value)
}

func TestParseEnumWidth(t *testing.T) {
	t.Parallel()

	schema := parse(t, "enum Tiny : uint8 { A }")
	decl := schema.Decls[0].(*syntax.EnumDecl)
	require.Equal(t, "uint8", decl.Width)
}

func TestParseEnumEmpty(t *testing.T) {
	t.Parallel()

	schema := parse(t, "enum Nothing {}")
	decl := schema.Decls[0].(*syntax.EnumDecl)
	require.Empty(t, decl.Items)
}

func TestParseEnumTrailingComma(t *testing.T) {
	t.Parallel()

	// A trailing comma leaves the parser expecting another member.
	parseErr(t, "enum Fruit { APPLE, }")
}

func TestParseEnumMissingSeparator(t *testing.T) {
	t.Parallel()

	err := parseErr(t, "enum Fruit { APPLE ORANGE }")
	require.Contains(t, err.Error(), "','")
}

func TestParseStruct(t *testing.T) {
	t.Parallel()

	schema := parse(t, `
		struct Point {
			x: int32;
			y: int32 = 7;
		}
	`)
	decl, ok := schema.Decls[0].(*syntax.StructDecl)
	require.True(t, ok)
	require.Equal(t, "Point", decl.Name)
	require.Len(t, decl.Fields, 2)

	require.Equal(t, "x", decl.Fields[0].Name)
	require.Equal(t, "int32", decl.Fields[0].Type.Name)
	require.False(t, decl.Fields[0].Type.Vector)
	require.Nil(t, decl.Fields[0].Type.ArrayLen)
	require.Nil(t, decl.Fields[0].Default)

	require.Equal(t, "y", decl.Fields[1].Name)
	require.NotNil(t, decl.Fields[1].Default)
	require.False(t, decl.Fields[1].Default.IsString)
	require.Equal(t, uint64(7), decl.Fields[1].Default.Num)
}

func TestParseTable(t *testing.T) {
	t.Parallel()

	schema := parse(t, `
		table Person {
			name: string = "anonymous";
			age: uint8;
		}
	`)
	decl, ok := schema.Decls[0].(*syntax.TableDecl)
	require.True(t, ok)
	require.Equal(t, "Person", decl.Name)
	require.Len(t, decl.Fields, 2)
	require.NotNil(t, decl.Fields[0].Default)
	require.True(t, decl.Fields[0].Default.IsString)
	require.Equal(t, "anonymous", decl.Fields[0].Default.Str)
}

func TestParseVectorAndArrayTypes(t *testing.T) {
	t.Parallel()

	schema := parse(t, `
		table Bag {
			items: [int32];
			fixed: [uint8:4];
			nested: Other;
		}
	`)
	decl := schema.Decls[0].(*syntax.TableDecl)
	require.Len(t, decl.Fields, 3)

	vec := decl.Fields[0].Type
	require.True(t, vec.Vector)
	require.Equal(t, "int32", vec.Name)
	require.Nil(t, vec.ArrayLen)

	arr := decl.Fields[1].Type
	require.False(t, arr.Vector)
	require.Equal(t, "uint8", arr.Name)
	require.NotNil(t, arr.ArrayLen)
	require.Equal(t, uint64(4), *arr.ArrayLen)

	plain := decl.Fields[2].Type
	require.False(t, plain.Vector)
	require.Equal(t, "Other", plain.Name)
}

func TestParseArrayLenZero(t *testing.T) {
	t.Parallel()

	err := parseErr(t, "table T { xs: [uint8:0]; }")
	require.Contains(t, err.Error(), "positive")
}

func TestParseDefaultLiterals(t *testing.T) {
	t.Parallel()

	schema := parse(t, `
		table Defaults {
			a: uint8 = 'x';
			b: bool = true;
			c: Fruit = ORANGE;
			d: uint32 = 0xFF;
		}
	`)
	decl := schema.Decls[0].(*syntax.TableDecl)
	require.Equal(t, uint64('x'), decl.Fields[0].Default.Num)
	require.Equal(t, uint64(1), decl.Fields[1].Default.Num)
	require.Equal(t, "ORANGE", decl.Fields[2].Default.Symbol)
	require.Equal(t, uint64(0xFF), decl.Fields[3].Default.Num)
}

func TestParseMultipleDecls(t *testing.T) {
	t.Parallel()

	schema := parse(t, `
		enum Color { RED, GREEN }
		struct Pixel { color: Color; }
		table Image { pixels: [Pixel]; }
	`)
	require.Len(t, schema.Decls, 3)
	require.Equal(t, "Color", schema.Decls[0].DeclName())
	require.Equal(t, "Pixel", schema.Decls[1].DeclName())
	require.Equal(t, "Image", schema.Decls[2].DeclName())
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []string{
		"widget W {}",            // unknown declaration keyword
		"enum",                   // truncated
		"enum {",                 // missing name
		"enum E { 5 }",           // member must be an identifier
		"struct S { x int32; }",  // missing colon
		"struct S { x: int32 }",  // missing semicolon
		"struct S { x: [3]; }",   // element type must be named
		"table T { x: uint8 = }", // missing default literal
		"5",                      // stray token at top level
	}
	for _, src := range tests {
		parseErr(t, src)
	}
}

func TestParseErrorSpans(t *testing.T) {
	t.Parallel()

	src := "struct S {\n  x int32;\n}"
	err := parseErr(t, src)
	line, col := err.Span().Position([]byte(src))
	require.Equal(t, 2, line)
	require.Equal(t, 5, col)
}
