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

package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Miravalier/serialib"
	"github.com/Miravalier/serialib/compiler"
	"github.com/Miravalier/serialib/syntax"
)

func compile(t *testing.T, src string) *serialib.Schema {
	t.Helper()
	parsed, err := syntax.Parse([]byte(src))
	require.NoError(t, err)
	result := compiler.Compile(parsed)
	require.Empty(t, result.Errors)
	require.NotNil(t, result.Schema)
	return result.Schema
}

func compileErrs(t *testing.T, src string) []*compiler.Error {
	t.Helper()
	parsed, err := syntax.Parse([]byte(src))
	require.NoError(t, err)
	result := compiler.Compile(parsed)
	require.NotEmpty(t, result.Errors, "source:\n%s", src)
	require.Nil(t, result.Schema)
	return result.Errors
}

func errCodes(errs []*compiler.Error) []uint32 {
	codes := make([]uint32, len(errs))
	for i, err := range errs {
		codes[i] = err.Code()
	}
	return codes
}

func TestCompileEnumValues(t *testing.T) {
	t.Parallel()

	schema := compile(t, `
		enum Fruit {
			APPLE,
			ORANGE = 5,
			BANANA,
			CHERRY = 0x10,
			DATE
		}
	`)
	enum := schema.Enum("Fruit")
	require.NotNil(t, enum)
	require.Equal(t, 2, enum.Width)
	require.Equal(t, []serialib.EnumItem{
		{Name: "APPLE", Value: 0},
		{Name: "ORANGE", Value: 5},
		{Name: "BANANA", Value: 6},
		{Name: "CHERRY", Value: 16},
		{Name: "DATE", Value: 17},
	}, enum.Items)
}

func TestCompileEnumWidths(t *testing.T) {
	t.Parallel()

	schema := compile(t, `
		enum A : uint8 { X }
		enum B : byte { X }
		enum C : int32 { X }
		enum D : ulong { X }
		enum E { X }
	`)
	require.Equal(t, 1, schema.Enum("A").Width)
	require.Equal(t, 1, schema.Enum("B").Width)
	require.Equal(t, 4, schema.Enum("C").Width)
	require.Equal(t, 8, schema.Enum("D").Width)
	require.Equal(t, 2, schema.Enum("E").Width)
}

func TestCompileEnumWidthErrors(t *testing.T) {
	t.Parallel()

	errs := compileErrs(t, "enum E : string { X }")
	require.Equal(t, []uint32{3002}, errCodes(errs))

	errs = compileErrs(t, "enum E : Missing { X }")
	require.Equal(t, []uint32{3002}, errCodes(errs))
}

func TestCompileEnumValueOverflow(t *testing.T) {
	t.Parallel()

	errs := compileErrs(t, "enum E : uint8 { BIG = 256 }")
	require.Equal(t, []uint32{3004}, errCodes(errs))

	// Implicit values continue past an explicit one and must still fit.
	errs = compileErrs(t, "enum E : uint8 { LAST = 255, WRAPPED }")
	require.Equal(t, []uint32{3004}, errCodes(errs))
}

func TestCompileEnumDuplicates(t *testing.T) {
	t.Parallel()

	errs := compileErrs(t, "enum E { A, A }")
	require.Equal(t, []uint32{3003}, errCodes(errs))

	parsed, err := syntax.Parse([]byte("enum E { A = 3, B = 3 }"))
	require.NoError(t, err)
	result := compiler.Compile(parsed)
	require.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	require.Equal(t, uint32(4000), result.Warnings[0].Code())
}

func TestCompileEmptyEnumWarning(t *testing.T) {
	t.Parallel()

	parsed, err := syntax.Parse([]byte("enum E {}"))
	require.NoError(t, err)
	result := compiler.Compile(parsed)
	require.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	require.Equal(t, uint32(4001), result.Warnings[0].Code())
}

func TestCompileStructLayout(t *testing.T) {
	t.Parallel()

	schema := compile(t, `
		enum Flag : uint8 { OFF, ON }
		struct Inner {
			a: uint16;
			b: bool;
		}
		struct Outer {
			x: uint32;
			inner: Inner;
			flag: Flag;
			y: int64;
		}
	`)
	inner := schema.Record("Inner")
	require.NotNil(t, inner)
	require.True(t, inner.FixedSize())
	require.Equal(t, 3, inner.ByteWidth())

	outer := schema.Record("Outer")
	require.Equal(t, 4+3+1+8, outer.ByteWidth())

	field, ok := outer.Field("inner")
	require.True(t, ok)
	require.Equal(t, 4, field.Offset)
	field, ok = outer.Field("y")
	require.True(t, ok)
	require.Equal(t, 8, field.Offset)
}

func TestCompileForwardReference(t *testing.T) {
	t.Parallel()

	schema := compile(t, `
		table Outer { inner: Inner; }
		struct Inner { x: uint8; }
	`)
	outer := schema.Record("Outer")
	field, ok := outer.Field("inner")
	require.True(t, ok)
	require.Equal(t, serialib.KindStruct, field.Type.Kind)
	require.Same(t, schema.Record("Inner"), field.Type.Record)
}

func TestCompileBuiltinAliases(t *testing.T) {
	t.Parallel()

	schema := compile(t, `
		table Aliases {
			a: byte;
			b: char;
			c: ushort;
			d: sint;
			e: long;
			f: str;
			g: boolean;
		}
	`)
	rec := schema.Record("Aliases")
	wantKinds := map[string]serialib.Kind{
		"a": serialib.KindU8,
		"b": serialib.KindI8,
		"c": serialib.KindU16,
		"d": serialib.KindI32,
		"e": serialib.KindI64,
		"f": serialib.KindString,
		"g": serialib.KindBool,
	}
	for name, kind := range wantKinds {
		field, ok := rec.Field(name)
		require.True(t, ok, "field %q", name)
		require.Equal(t, kind, field.Type.Kind, "field %q", name)
	}
}

func TestCompileVectorsAndArrays(t *testing.T) {
	t.Parallel()

	schema := compile(t, `
		table Bag {
			counts: [uint32];
			names: [string];
			fixed: [int16:4];
		}
	`)
	rec := schema.Record("Bag")

	field, _ := rec.Field("counts")
	require.Equal(t, serialib.KindVector, field.Type.Kind)
	require.Equal(t, serialib.KindU32, field.Type.Elem.Kind)

	field, _ = rec.Field("names")
	require.Equal(t, serialib.KindVector, field.Type.Kind)
	require.Equal(t, serialib.KindString, field.Type.Elem.Kind)

	field, _ = rec.Field("fixed")
	require.Equal(t, serialib.KindArray, field.Type.Kind)
	require.Equal(t, uint32(4), field.Type.ArrayLen)
}

func TestCompileStructFieldRestrictions(t *testing.T) {
	t.Parallel()

	sources := []string{
		"struct S { s: string; }",
		"struct S { v: [uint8]; }",
		"struct S { a: [uint8:4]; }",
		"table T { x: uint8; }\nstruct S { t: T; }",
	}
	for _, src := range sources {
		errs := compileErrs(t, src)
		require.Equal(t, []uint32{3007}, errCodes(errs), "source:\n%s", src)
	}
}

func TestCompileStructCycle(t *testing.T) {
	t.Parallel()

	errs := compileErrs(t, `
		struct A { b: B; }
		struct B { c: C; }
		struct C { a: A; }
	`)
	require.Equal(t, []uint32{3008}, errCodes(errs))
	require.Contains(t, errs[0].Message(), "A -> B -> C -> A")
}

func TestCompileTableCyclesAllowed(t *testing.T) {
	t.Parallel()

	schema := compile(t, `
		table Node {
			value: int32;
			next: Node;
		}
	`)
	rec := schema.Record("Node")
	field, ok := rec.Field("next")
	require.True(t, ok)
	require.Equal(t, serialib.KindTable, field.Type.Kind)
	require.Same(t, rec, field.Type.Record)
}

func TestCompileUnknownType(t *testing.T) {
	t.Parallel()

	errs := compileErrs(t, "table T { x: Missing; }")
	require.Equal(t, []uint32{3005}, errCodes(errs))
	require.Contains(t, errs[0].Message(), "Missing")
	require.Contains(t, errs[0].Message(), "T.x")
}

func TestCompileDuplicates(t *testing.T) {
	t.Parallel()

	errs := compileErrs(t, "table T { x: uint8; }\nenum T { A }")
	require.Equal(t, []uint32{3001}, errCodes(errs))

	errs = compileErrs(t, "table T { x: uint8; x: uint8; }")
	require.Equal(t, []uint32{3006}, errCodes(errs))
}

func TestCompileReservedName(t *testing.T) {
	t.Parallel()

	errs := compileErrs(t, "struct uint8 { x: uint16; }")
	require.Equal(t, []uint32{3000}, errCodes(errs))
}

func TestCompileDefaults(t *testing.T) {
	t.Parallel()

	schema := compile(t, `
		enum Fruit { APPLE, ORANGE, BANANA }
		struct Pod {
			count: uint8 = 3;
			ripe: bool = true;
			kind: Fruit = ORANGE;
		}
		table Label {
			text: string = "unlabeled";
			initial: char = 'x';
			kind: Fruit = 2;
		}
	`)
	pod := schema.Record("Pod")
	field, _ := pod.Field("count")
	require.Equal(t, &serialib.Default{Num: 3}, field.Default)
	field, _ = pod.Field("ripe")
	require.Equal(t, &serialib.Default{Num: 1}, field.Default)
	field, _ = pod.Field("kind")
	require.Equal(t, &serialib.Default{Num: 1}, field.Default)

	label := schema.Record("Label")
	field, _ = label.Field("text")
	require.Equal(t, &serialib.Default{Str: "unlabeled", IsString: true}, field.Default)
	field, _ = label.Field("initial")
	require.Equal(t, &serialib.Default{Num: 'x'}, field.Default)
	field, _ = label.Field("kind")
	require.Equal(t, &serialib.Default{Num: 2}, field.Default)
}

func TestCompileDefaultErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		code uint32
	}{
		{"struct S { x: uint8; }\ntable T { s: S = 1; }", 3009},
		{"table T { v: [uint8] = 1; }", 3009},
		{"table T { s: string = 5; }", 3010},
		{"table T { x: uint8 = \"five\"; }", 3010},
		{"table T { b: bool = 2; }", 3011},
		{"table T { x: uint8 = 256; }", 3011},
		{"table T { x: int8 = 200; }", 3011},
		{"enum F { A }\ntable T { f: F = MISSING; }", 3012},
		{"enum F { A }\ntable T { f: F = 9; }", 3012},
	}
	for _, test := range tests {
		errs := compileErrs(t, test.src)
		require.Equal(t, []uint32{test.code}, errCodes(errs), "source:\n%s", test.src)
	}
}

func TestCompileCollectsMultipleErrors(t *testing.T) {
	t.Parallel()

	errs := compileErrs(t, `
		table T {
			a: Missing;
			b: AlsoMissing;
			a: uint8;
		}
	`)
	require.Equal(t, []uint32{3005, 3005, 3006}, errCodes(errs))
}

func TestCompileEmptyRecordError(t *testing.T) {
	t.Parallel()

	errs := compileErrs(t, "struct P {} table T {}")
	require.Equal(t, []uint32{3014, 3014}, errCodes(errs))
	require.Contains(t, errs[0].Message(), "P")
	require.Contains(t, errs[1].Message(), "T")
}
