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

package serialib

import (
	"fmt"
)

type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindI8
	KindU16
	KindI16
	KindU32
	KindI32
	KindU64
	KindI64
	KindString
	KindEnum
	KindStruct
	KindTable
	KindVector
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindU8:
		return "uint8"
	case KindI8:
		return "int8"
	case KindU16:
		return "uint16"
	case KindI16:
		return "int16"
	case KindU32:
		return "uint32"
	case KindI32:
		return "int32"
	case KindU64:
		return "uint64"
	case KindI64:
		return "int64"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindTable:
		return "table"
	case KindVector:
		return "vector"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IsScalar reports whether k is an integer primitive.
func (k Kind) IsScalar() bool {
	return k >= KindU8 && k <= KindI64
}

func (k Kind) Signed() bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64:
		return true
	}
	return false
}

// ScalarWidth returns the encoded width of a scalar or bool kind, or 0
// for every other kind.
func (k Kind) ScalarWidth() int {
	switch k {
	case KindBool, KindU8, KindI8:
		return 1
	case KindU16, KindI16:
		return 2
	case KindU32, KindI32:
		return 4
	case KindU64, KindI64:
		return 8
	}
	return 0
}

// Strategy is the wire strategy a field's encoder and decoder follow.
// It is derived entirely from the field's resolved type; the codec has
// no per-declaration special cases.
type Strategy uint8

const (
	// StrategyInline encodes raw fixed-width bytes in place: scalars,
	// bools, enums, and the concatenated fields of a nested struct.
	StrategyInline Strategy = iota

	// StrategyLengthPrefixed emits a u32 byte-length prefix followed by
	// that many bytes: strings and nested tables.
	StrategyLengthPrefixed

	// StrategyCounted emits a u32 element-count prefix followed by the
	// per-element encodings: vectors.
	StrategyCounted

	// StrategyFixedArray emits exactly ArrayLen element encodings with
	// no prefix, padding unset slots with the element default.
	StrategyFixedArray
)

func (s Strategy) String() string {
	switch s {
	case StrategyInline:
		return "inline"
	case StrategyLengthPrefixed:
		return "length-prefixed"
	case StrategyCounted:
		return "counted"
	case StrategyFixedArray:
		return "fixed-array"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// Type is a resolved type reference. Exactly one of Enum, Record, or
// Elem is set for the enum, struct/table, and vector/array kinds; all
// are nil for scalar, bool, and string kinds.
type Type struct {
	Kind     Kind
	Enum     *Enum
	Record   *Record
	Elem     *Type
	ArrayLen uint32
}

// FixedSize reports whether every value of t encodes to the same number
// of bytes.
func (t *Type) FixedSize() bool {
	switch t.Kind {
	case KindString, KindTable, KindVector:
		return false
	case KindStruct:
		return true
	case KindEnum:
		return true
	case KindArray:
		return t.Elem.FixedSize()
	}
	return true
}

// ByteWidth returns the encoded width of a fixed-size type, or 0 when
// the width is data-dependent.
func (t *Type) ByteWidth() int {
	switch t.Kind {
	case KindEnum:
		return t.Enum.Width
	case KindStruct:
		return t.Record.width
	case KindArray:
		if !t.Elem.FixedSize() {
			return 0
		}
		return int(t.ArrayLen) * t.Elem.ByteWidth()
	case KindString, KindTable, KindVector:
		return 0
	}
	return t.Kind.ScalarWidth()
}

// Strategy returns the wire strategy for values of t.
func (t *Type) Strategy() Strategy {
	switch t.Kind {
	case KindString, KindTable:
		return StrategyLengthPrefixed
	case KindVector:
		return StrategyCounted
	case KindArray:
		return StrategyFixedArray
	}
	return StrategyInline
}

// Name returns the IDL spelling of t.
func (t *Type) Name() string {
	switch t.Kind {
	case KindEnum:
		return t.Enum.Name
	case KindStruct, KindTable:
		return t.Record.Name
	case KindVector:
		return fmt.Sprintf("[%s]", t.Elem.Name())
	case KindArray:
		return fmt.Sprintf("[%s:%d]", t.Elem.Name(), t.ArrayLen)
	}
	return t.Kind.String()
}

type Enum struct {
	Name  string
	Width int
	Items []EnumItem

	byValue map[uint64]int
}

type EnumItem struct {
	Name  string
	Value uint64
}

// ItemByValue returns the first declared item with the given raw value.
func (e *Enum) ItemByValue(raw uint64) (EnumItem, bool) {
	if idx, ok := e.byValue[raw]; ok {
		return e.Items[idx], true
	}
	return EnumItem{}, false
}

func (e *Enum) ItemByName(name string) (EnumItem, bool) {
	for _, item := range e.Items {
		if item.Name == name {
			return item, true
		}
	}
	return EnumItem{}, false
}

// zeroValue is the value used when an enum slot must be filled without
// caller input: the first declared item, which is always decodable.
func (e *Enum) zeroValue() uint64 {
	if len(e.Items) == 0 {
		return 0
	}
	return e.Items[0].Value
}

type Record struct {
	Name   string
	Table  bool
	Fields []Field

	width      int
	fieldIndex map[string]int
}

// FixedSize reports whether r is a struct. Tables are always
// variable-size.
func (r *Record) FixedSize() bool {
	return !r.Table
}

// ByteWidth returns the encoded width of a struct, or 0 for a table.
func (r *Record) ByteWidth() int {
	if r.Table {
		return 0
	}
	return r.width
}

// Field returns the field descriptor for the given field name.
func (r *Record) Field(name string) (*Field, bool) {
	if idx, ok := r.fieldIndex[name]; ok {
		return &r.Fields[idx], true
	}
	return nil, false
}

type Field struct {
	Name string
	Type *Type

	// Default is the construction-time default, or nil for the field
	// category's zero value. Only scalar, bool, enum, and string fields
	// carry defaults.
	Default *Default

	// Offset is the field's byte offset within the record encoding.
	// Meaningful only when the record is a struct.
	Offset int
}

type Default struct {
	Num      uint64
	Str      string
	IsString bool
}

// Schema is a compiled schema: enum and record descriptors in
// declaration order, with layout resolved by Finalize.
type Schema struct {
	Enums   []*Enum
	Records []*Record

	enums     map[string]*Enum
	records   map[string]*Record
	finalized bool
}

func (s *Schema) Enum(name string) *Enum {
	return s.enums[name]
}

func (s *Schema) Record(name string) *Record {
	return s.records[name]
}

// Finalize computes the layout plan: enum value indices, struct byte
// widths, and per-field offsets. It must be called once, after every
// descriptor has been attached, and before any instance or codec use.
//
// The compiler package reports composition problems with source
// positions before it ever builds a Schema; errors here indicate a
// malformed descriptor graph built directly through this API.
func (s *Schema) Finalize() error {
	if s.finalized {
		return fmt.Errorf("serialib: schema already finalized")
	}
	s.enums = make(map[string]*Enum, len(s.Enums))
	s.records = make(map[string]*Record, len(s.Records))

	for _, enum := range s.Enums {
		if _, ok := s.enums[enum.Name]; ok {
			return fmt.Errorf("serialib: duplicate enum %q", enum.Name)
		}
		s.enums[enum.Name] = enum
		switch enum.Width {
		case 1, 2, 4, 8:
		default:
			return fmt.Errorf("serialib: enum %q has invalid width %d", enum.Name, enum.Width)
		}
		enum.byValue = make(map[uint64]int, len(enum.Items))
		for idx, item := range enum.Items {
			if _, ok := enum.byValue[item.Value]; !ok {
				enum.byValue[item.Value] = idx
			}
		}
	}

	for _, rec := range s.Records {
		if _, ok := s.records[rec.Name]; ok {
			return fmt.Errorf("serialib: duplicate record %q", rec.Name)
		}
		if _, ok := s.enums[rec.Name]; ok {
			return fmt.Errorf("serialib: record %q collides with enum of the same name", rec.Name)
		}
		s.records[rec.Name] = rec
		if len(rec.Fields) == 0 {
			// A zero-width record would make a present table value
			// indistinguishable from an absent one on the wire, and a
			// vector of zero-width elements has no meaningful count
			// bound.
			return fmt.Errorf("serialib: record %q has no fields", rec.Name)
		}
		rec.fieldIndex = make(map[string]int, len(rec.Fields))
		for idx := range rec.Fields {
			name := rec.Fields[idx].Name
			if _, ok := rec.fieldIndex[name]; ok {
				return fmt.Errorf("serialib: duplicate field %q in %q", name, rec.Name)
			}
			rec.fieldIndex[name] = idx
		}
	}

	state := make(map[*Record]int, len(s.Records))
	for _, rec := range s.Records {
		if err := s.planRecord(rec, state); err != nil {
			return err
		}
	}
	s.finalized = true
	return nil
}

const (
	planPending = iota
	planInProgress
	planDone
)

// planRecord computes a struct's width and field offsets bottom-up.
// Tables get field offsets of 0 and no width; their size is decided at
// encode time.
func (s *Schema) planRecord(rec *Record, state map[*Record]int) error {
	switch state[rec] {
	case planDone:
		return nil
	case planInProgress:
		return fmt.Errorf("serialib: cyclic struct reference through %q", rec.Name)
	}
	state[rec] = planInProgress

	offset := 0
	for idx := range rec.Fields {
		field := &rec.Fields[idx]
		if field.Type.Kind == KindStruct {
			if err := s.planRecord(field.Type.Record, state); err != nil {
				return err
			}
		}
		if !rec.Table {
			switch field.Type.Kind {
			case KindString, KindTable, KindVector, KindArray:
				return fmt.Errorf(
					"serialib: struct %q field %q has variable-size type %s",
					rec.Name, field.Name, field.Type.Name(),
				)
			}
			field.Offset = offset
			offset += field.Type.ByteWidth()
		}
	}
	if !rec.Table {
		rec.width = offset
	}
	state[rec] = planDone
	return nil
}
