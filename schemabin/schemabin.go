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

// Package schemabin encodes compiled schemas in the engine's own wire
// format. The descriptor layout is itself declared in the IDL and
// compiled at package load, so the codec that serializes user data is
// the same one that serializes schemas.
package schemabin

import (
	"fmt"

	"github.com/Miravalier/serialib"
	"github.com/Miravalier/serialib/compiler"
	"github.com/Miravalier/serialib/syntax"
)

// metaIDL declares the schema descriptor types. TypeKind values mirror
// the runtime kind constants one to one.
const metaIDL = `
enum TypeKind : uint8 {
	BOOL,
	UINT8,
	INT8,
	UINT16,
	INT16,
	UINT32,
	INT32,
	UINT64,
	INT64,
	STRING,
	ENUM,
	STRUCT,
	TABLE,
	VECTOR,
	ARRAY
}

table TypeRef {
	kind: TypeKind;
	name: string;
	elem: TypeRef;
	array_len: uint32;
}

table DefaultDef {
	is_string: bool;
	num: uint64;
	str: string;
}

table FieldDef {
	name: string;
	type: TypeRef;
	default: DefaultDef;
}

table EnumItemDef {
	name: string;
	value: uint64;
}

table EnumDef {
	name: string;
	width: uint8;
	items: [EnumItemDef];
}

table RecordDef {
	name: string;
	is_table: bool;
	fields: [FieldDef];
}

table SchemaDef {
	enums: [EnumDef];
	records: [RecordDef];
}
`

var (
	metaTypeRef     *serialib.Record
	metaDefaultDef  *serialib.Record
	metaFieldDef    *serialib.Record
	metaEnumItemDef *serialib.Record
	metaEnumDef     *serialib.Record
	metaRecordDef   *serialib.Record
	metaSchemaDef   *serialib.Record
)

func init() {
	parsed, err := syntax.Parse([]byte(metaIDL))
	if err != nil {
		panic(fmt.Sprintf("schemabin: meta schema does not parse: %v", err))
	}
	result := compiler.Compile(parsed)
	if len(result.Errors) > 0 {
		panic(fmt.Sprintf("schemabin: meta schema does not compile: %v", result.Errors[0]))
	}
	meta := result.Schema
	metaTypeRef = meta.Record("TypeRef")
	metaDefaultDef = meta.Record("DefaultDef")
	metaFieldDef = meta.Record("FieldDef")
	metaEnumItemDef = meta.Record("EnumItemDef")
	metaEnumDef = meta.Record("EnumDef")
	metaRecordDef = meta.Record("RecordDef")
	metaSchemaDef = meta.Record("SchemaDef")
}

// Encode serializes a finalized schema's descriptors. Declaration
// order is preserved, so re-encoding a decoded schema is byte-exact.
func Encode(schema *serialib.Schema) []byte {
	root := serialib.New(metaSchemaDef)
	defer root.Release()

	enums := make([]serialib.Value, len(schema.Enums))
	for i, enum := range schema.Enums {
		enums[i] = serialib.Nested(encodeEnum(enum))
	}
	root.Set("enums", serialib.List(enums...))

	records := make([]serialib.Value, len(schema.Records))
	for i, rec := range schema.Records {
		records[i] = serialib.Nested(encodeRecord(rec))
	}
	root.Set("records", serialib.List(records...))

	return root.Encode()
}

func encodeEnum(enum *serialib.Enum) *serialib.Instance {
	inst := serialib.New(metaEnumDef)
	inst.Set("name", serialib.String(enum.Name))
	inst.Set("width", serialib.Uint64(uint64(enum.Width)))
	items := make([]serialib.Value, len(enum.Items))
	for i, item := range enum.Items {
		itemInst := serialib.New(metaEnumItemDef)
		itemInst.Set("name", serialib.String(item.Name))
		itemInst.Set("value", serialib.Uint64(item.Value))
		items[i] = serialib.Nested(itemInst)
	}
	inst.Set("items", serialib.List(items...))
	return inst
}

func encodeRecord(rec *serialib.Record) *serialib.Instance {
	inst := serialib.New(metaRecordDef)
	inst.Set("name", serialib.String(rec.Name))
	inst.Set("is_table", serialib.Bool(rec.Table))
	fields := make([]serialib.Value, len(rec.Fields))
	for i := range rec.Fields {
		fields[i] = serialib.Nested(encodeField(&rec.Fields[i]))
	}
	inst.Set("fields", serialib.List(fields...))
	return inst
}

func encodeField(field *serialib.Field) *serialib.Instance {
	inst := serialib.New(metaFieldDef)
	inst.Set("name", serialib.String(field.Name))
	inst.Set("type", serialib.Nested(encodeTypeRef(field.Type)))
	if field.Default != nil {
		def := serialib.New(metaDefaultDef)
		def.Set("is_string", serialib.Bool(field.Default.IsString))
		def.Set("num", serialib.Uint64(field.Default.Num))
		def.Set("str", serialib.String(field.Default.Str))
		inst.Set("default", serialib.Nested(def))
	}
	return inst
}

func encodeTypeRef(t *serialib.Type) *serialib.Instance {
	inst := serialib.New(metaTypeRef)
	inst.Set("kind", serialib.Uint64(uint64(t.Kind)))
	switch t.Kind {
	case serialib.KindEnum:
		inst.Set("name", serialib.String(t.Enum.Name))
	case serialib.KindStruct, serialib.KindTable:
		inst.Set("name", serialib.String(t.Record.Name))
	case serialib.KindVector:
		inst.Set("elem", serialib.Nested(encodeTypeRef(t.Elem)))
	case serialib.KindArray:
		inst.Set("elem", serialib.Nested(encodeTypeRef(t.Elem)))
		inst.Set("array_len", serialib.Uint64(uint64(t.ArrayLen)))
	}
	return inst
}

// Decode rebuilds a schema from its descriptor encoding and finalizes
// it. The result is independent of the input buffer.
func Decode(buf []byte) (*serialib.Schema, error) {
	root, err := serialib.Decode(metaSchemaDef, buf)
	if err != nil {
		return nil, err
	}
	defer root.Release()

	schema := &serialib.Schema{}
	enums := make(map[string]*serialib.Enum)
	records := make(map[string]*serialib.Record)

	for _, v := range root.Get("enums").Items() {
		enum, err := decodeEnum(v.AsInstance())
		if err != nil {
			return nil, err
		}
		if _, ok := enums[enum.Name]; ok {
			return nil, fmt.Errorf("schemabin: duplicate enum %q", enum.Name)
		}
		enums[enum.Name] = enum
		schema.Enums = append(schema.Enums, enum)
	}

	// Records decode in two passes so type references can point at any
	// record, including ones declared later and the record itself.
	recordInsts := root.Get("records").Items()
	for _, v := range recordInsts {
		inst := v.AsInstance()
		rec := &serialib.Record{
			Name:  inst.Get("name").AsString(),
			Table: inst.Get("is_table").AsBool(),
		}
		if _, ok := records[rec.Name]; ok {
			return nil, fmt.Errorf("schemabin: duplicate record %q", rec.Name)
		}
		records[rec.Name] = rec
		schema.Records = append(schema.Records, rec)
	}
	resolver := &resolver{enums: enums, records: records}
	for i, v := range recordInsts {
		rec := schema.Records[i]
		inst := v.AsInstance()
		for _, fv := range inst.Get("fields").Items() {
			field, err := resolver.decodeField(rec.Name, fv.AsInstance())
			if err != nil {
				return nil, err
			}
			rec.Fields = append(rec.Fields, field)
		}
	}

	if err := schema.Finalize(); err != nil {
		return nil, fmt.Errorf("schemabin: %w", err)
	}
	return schema, nil
}

func decodeEnum(inst *serialib.Instance) (*serialib.Enum, error) {
	enum := &serialib.Enum{
		Name:  inst.Get("name").AsString(),
		Width: int(inst.Get("width").AsUint64()),
	}
	switch enum.Width {
	case 1, 2, 4, 8:
	default:
		return nil, fmt.Errorf(
			"schemabin: enum %q has invalid width %d", enum.Name, enum.Width,
		)
	}
	for _, v := range inst.Get("items").Items() {
		itemInst := v.AsInstance()
		item := serialib.EnumItem{
			Name:  itemInst.Get("name").AsString(),
			Value: itemInst.Get("value").AsUint64(),
		}
		if enum.Width < 8 && item.Value >= uint64(1)<<(8*enum.Width) {
			return nil, fmt.Errorf(
				"schemabin: enum item %s.%s value %d does not fit in %d bytes",
				enum.Name, item.Name, item.Value, enum.Width,
			)
		}
		enum.Items = append(enum.Items, item)
	}
	return enum, nil
}

type resolver struct {
	enums   map[string]*serialib.Enum
	records map[string]*serialib.Record
}

func (r *resolver) decodeField(recName string, inst *serialib.Instance) (serialib.Field, error) {
	field := serialib.Field{
		Name: inst.Get("name").AsString(),
	}
	typeInst := inst.Get("type").AsInstance()
	if typeInst == nil {
		return serialib.Field{}, fmt.Errorf(
			"schemabin: field %s.%s has no type", recName, field.Name,
		)
	}
	fieldType, err := r.decodeTypeRef(recName, field.Name, typeInst)
	if err != nil {
		return serialib.Field{}, err
	}
	field.Type = fieldType

	if defInst := inst.Get("default").AsInstance(); defInst != nil {
		field.Default = &serialib.Default{
			Num:      defInst.Get("num").AsUint64(),
			Str:      defInst.Get("str").AsString(),
			IsString: defInst.Get("is_string").AsBool(),
		}
	}
	return field, nil
}

func (r *resolver) decodeTypeRef(
	recName, fieldName string,
	inst *serialib.Instance,
) (*serialib.Type, error) {
	kind := serialib.Kind(inst.Get("kind").AsUint64())
	t := &serialib.Type{Kind: kind}
	switch kind {
	case serialib.KindEnum:
		name := inst.Get("name").AsString()
		enum, ok := r.enums[name]
		if !ok {
			return nil, fmt.Errorf(
				"schemabin: field %s.%s references unknown enum %q",
				recName, fieldName, name,
			)
		}
		t.Enum = enum

	case serialib.KindStruct, serialib.KindTable:
		name := inst.Get("name").AsString()
		rec, ok := r.records[name]
		if !ok {
			return nil, fmt.Errorf(
				"schemabin: field %s.%s references unknown record %q",
				recName, fieldName, name,
			)
		}
		if rec.Table != (kind == serialib.KindTable) {
			return nil, fmt.Errorf(
				"schemabin: field %s.%s kind disagrees with record %q",
				recName, fieldName, name,
			)
		}
		t.Record = rec

	case serialib.KindVector, serialib.KindArray:
		elemInst := inst.Get("elem").AsInstance()
		if elemInst == nil {
			return nil, fmt.Errorf(
				"schemabin: field %s.%s has no element type",
				recName, fieldName,
			)
		}
		elem, err := r.decodeTypeRef(recName, fieldName, elemInst)
		if err != nil {
			return nil, err
		}
		switch elem.Kind {
		case serialib.KindVector, serialib.KindArray:
			// The IDL has no spelling for a container of containers.
			return nil, fmt.Errorf(
				"schemabin: field %s.%s nests container types",
				recName, fieldName,
			)
		}
		t.Elem = elem
		if kind == serialib.KindArray {
			arrayLen := inst.Get("array_len").AsUint64()
			if arrayLen == 0 {
				return nil, fmt.Errorf(
					"schemabin: field %s.%s has a zero array length",
					recName, fieldName,
				)
			}
			t.ArrayLen = uint32(arrayLen)
		}
	}
	return t, nil
}
