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
	"math"
)

type valueKind uint8

const (
	valueNum valueKind = iota
	valueStr
	valueInst
	valueList
)

// Value is the union carried by instance fields: a number (scalar,
// bool, or enum raw value), a string, an owned nested instance, or an
// owned list of elements (vector or fixed array).
//
// The zero Value is the number 0.
type Value struct {
	kind valueKind
	num  uint64
	str  string
	inst *Instance
	list []Value
}

// Uint64 wraps an unsigned scalar or enum raw value.
func Uint64(v uint64) Value {
	return Value{kind: valueNum, num: v}
}

// Int64 wraps a signed scalar value.
func Int64(v int64) Value {
	return Value{kind: valueNum, num: uint64(v)}
}

func Bool(v bool) Value {
	if v {
		return Value{kind: valueNum, num: 1}
	}
	return Value{kind: valueNum}
}

func String(v string) Value {
	return Value{kind: valueStr, str: v}
}

// Nested wraps an instance for assignment to a struct or table field.
// Assigning a nil instance to a table field clears it.
func Nested(inst *Instance) Value {
	return Value{kind: valueInst, inst: inst}
}

// List wraps elements for assignment to a vector or fixed-array field.
func List(elems ...Value) Value {
	return Value{kind: valueList, list: elems}
}

// AsUint64 returns the value as an unsigned number. It panics if the
// value is not a number.
func (v Value) AsUint64() uint64 {
	v.mustKind(valueNum)
	return v.num
}

// AsInt64 returns the value as a signed number.
func (v Value) AsInt64() int64 {
	v.mustKind(valueNum)
	return int64(v.num)
}

func (v Value) AsBool() bool {
	v.mustKind(valueNum)
	return v.num != 0
}

func (v Value) AsString() string {
	v.mustKind(valueStr)
	return v.str
}

// AsInstance returns the owned nested instance. The result is still
// owned by the containing instance; callers must not release it.
func (v Value) AsInstance() *Instance {
	v.mustKind(valueInst)
	return v.inst
}

// Items returns the owned elements of a vector or fixed-array value.
// The returned slice is still owned by the containing instance.
func (v Value) Items() []Value {
	v.mustKind(valueList)
	return v.list
}

func (v Value) mustKind(want valueKind) {
	if v.kind != want {
		names := [...]string{"number", "string", "instance", "list"}
		panic(fmt.Sprintf(
			"serialib: value is a %s, not a %s",
			names[v.kind], names[want],
		))
	}
}

// Instance is one owned value of a struct or table type. An instance
// exclusively owns its string, vector, array, and nested record field
// values; there is no sharing between instances.
type Instance struct {
	rec      *Record
	fields   []Value
	released bool
	owned    bool
}

// New constructs a fresh instance with every field set to its schema
// default: declared defaults where present, otherwise the category's
// zero value. Nested struct fields are constructed recursively; nested
// table fields start nil.
func New(rec *Record) *Instance {
	inst := &Instance{
		rec:    rec,
		fields: make([]Value, len(rec.Fields)),
	}
	for idx := range rec.Fields {
		inst.fields[idx] = defaultValue(&rec.Fields[idx])
	}
	return inst
}

func defaultValue(field *Field) Value {
	if d := field.Default; d != nil {
		if d.IsString {
			return String(d.Str)
		}
		return Uint64(d.Num)
	}
	return zeroValue(field.Type)
}

// zeroValue is the category zero: 0/false, the empty string, a
// default-constructed struct, a nil table, or an empty list.
func zeroValue(t *Type) Value {
	switch t.Kind {
	case KindString:
		return String("")
	case KindEnum:
		return Uint64(t.Enum.zeroValue())
	case KindStruct:
		return Nested(New(t.Record))
	case KindTable:
		return Nested(nil)
	case KindVector, KindArray:
		return List()
	}
	return Uint64(0)
}

// Type returns the instance's record descriptor.
func (inst *Instance) Type() *Record {
	return inst.rec
}

// Get returns the named field's current value. Nested instances and
// lists remain owned by inst.
func (inst *Instance) Get(name string) Value {
	inst.mustUsable()
	return inst.fields[inst.fieldIndex(name)]
}

// Set replaces the named field's value wholesale. The previous owned
// value is released first, and ownership of v (including any nested
// instances it carries) transfers to inst. Passing a value of the
// wrong category, an out-of-range scalar, or an undeclared enum raw
// value is a programming error and panics.
func (inst *Instance) Set(name string, v Value) {
	inst.mustUsable()
	idx := inst.fieldIndex(name)
	field := &inst.rec.Fields[idx]
	if err := checkValue(field.Type, v); err != nil {
		panic(fmt.Sprintf("serialib: set %s.%s: %v", inst.rec.Name, field.Name, err))
	}
	releaseValue(inst.fields[idx])
	claimValue(v)
	inst.fields[idx] = v
}

func (inst *Instance) fieldIndex(name string) int {
	idx, ok := inst.rec.fieldIndex[name]
	if !ok {
		panic(fmt.Sprintf("serialib: %s has no field %q", inst.rec.Name, name))
	}
	return idx
}

func (inst *Instance) mustUsable() {
	if inst.released {
		panic(fmt.Sprintf("serialib: use of released %s instance", inst.rec.Name))
	}
}

// checkValue validates v against t before ownership transfer.
func checkValue(t *Type, v Value) error {
	switch t.Kind {
	case KindBool:
		if v.kind != valueNum {
			return fmt.Errorf("expected bool value")
		}
		if v.num > 1 {
			return fmt.Errorf("bool value must be 0 or 1, got %d", v.num)
		}
	case KindString:
		if v.kind != valueStr {
			return fmt.Errorf("expected string value")
		}
		if uint64(len(v.str)) > math.MaxUint32 {
			return fmt.Errorf("string length %d exceeds u32 range", len(v.str))
		}
	case KindEnum:
		if v.kind != valueNum {
			return fmt.Errorf("expected %s enum value", t.Enum.Name)
		}
		if _, ok := t.Enum.ItemByValue(v.num); !ok {
			return fmt.Errorf("%d is not a declared %s value", v.num, t.Enum.Name)
		}
	case KindStruct, KindTable:
		if v.kind != valueInst {
			return fmt.Errorf("expected %s instance", t.Record.Name)
		}
		if v.inst == nil {
			if t.Kind == KindStruct {
				return fmt.Errorf("struct field %s cannot be nil", t.Record.Name)
			}
			return nil
		}
		if v.inst.released {
			return fmt.Errorf("instance already released")
		}
		if v.inst.owned {
			return fmt.Errorf("instance already owned elsewhere")
		}
		if v.inst.rec != t.Record {
			return fmt.Errorf(
				"expected %s instance, got %s",
				t.Record.Name, v.inst.rec.Name,
			)
		}
	case KindVector, KindArray:
		if v.kind != valueList {
			return fmt.Errorf("expected list value")
		}
		if t.Kind == KindArray && uint64(len(v.list)) > uint64(t.ArrayLen) {
			return fmt.Errorf(
				"%d elements exceed fixed array length %d",
				len(v.list), t.ArrayLen,
			)
		}
		if t.Kind == KindVector && uint64(len(v.list)) > math.MaxUint32 {
			return fmt.Errorf("vector length %d exceeds u32 range", len(v.list))
		}
		for i, elem := range v.list {
			if err := checkValue(t.Elem, elem); err != nil {
				return fmt.Errorf("element %d: %v", i, err)
			}
		}
	default:
		if v.kind != valueNum {
			return fmt.Errorf("expected %s value", t.Kind)
		}
		if err := checkScalarRange(t.Kind, v.num); err != nil {
			return err
		}
	}
	return nil
}

func checkScalarRange(kind Kind, raw uint64) error {
	width := kind.ScalarWidth()
	if kind.Signed() {
		v := int64(raw)
		min := int64(-1) << (width*8 - 1)
		max := int64(1)<<(width*8-1) - 1
		if v < min || v > max {
			return fmt.Errorf("%d out of range for %s", v, kind)
		}
		return nil
	}
	if width < 8 && raw > (uint64(1)<<(width*8))-1 {
		return fmt.Errorf("%d out of range for %s", raw, kind)
	}
	return nil
}

// claimValue marks every instance reachable from v as owned.
func claimValue(v Value) {
	switch v.kind {
	case valueInst:
		if v.inst != nil {
			v.inst.owned = true
		}
	case valueList:
		for _, elem := range v.list {
			claimValue(elem)
		}
	}
}

// DeepCopy returns an instance field-wise equal to inst sharing no
// ownership with it.
func (inst *Instance) DeepCopy() *Instance {
	inst.mustUsable()
	dup := &Instance{
		rec:    inst.rec,
		fields: make([]Value, len(inst.fields)),
	}
	for idx, v := range inst.fields {
		dup.fields[idx] = copyValue(v)
	}
	return dup
}

func copyValue(v Value) Value {
	switch v.kind {
	case valueInst:
		if v.inst == nil {
			return v
		}
		dup := v.inst.DeepCopy()
		dup.owned = true
		return Value{kind: valueInst, inst: dup}
	case valueList:
		list := make([]Value, len(v.list))
		for i, elem := range v.list {
			list[i] = copyValue(elem)
		}
		return Value{kind: valueList, list: list}
	}
	return v
}

// Release consumes the instance and its entire owned subgraph. Any
// further use of the instance, including through values previously
// returned by Get, is a programming error. Instances owned by another
// instance are released by their owner, never directly.
func (inst *Instance) Release() {
	if inst.owned {
		panic(fmt.Sprintf(
			"serialib: %s instance is owned and must be released by its owner",
			inst.rec.Name,
		))
	}
	inst.release()
}

func (inst *Instance) release() {
	inst.mustUsable()
	for _, v := range inst.fields {
		releaseValue(v)
	}
	inst.fields = nil
	inst.released = true
}

func releaseValue(v Value) {
	switch v.kind {
	case valueInst:
		if v.inst != nil {
			v.inst.release()
		}
	case valueList:
		for _, elem := range v.list {
			releaseValue(elem)
		}
	}
}

// Equal reports field-wise equality between two instances of the same
// record type. Fixed-array fields compare as their encoded meaning:
// slots beyond either side's set elements count as the element
// default, so an instance compares equal to its own decoded encoding.
func (inst *Instance) Equal(other *Instance) bool {
	inst.mustUsable()
	other.mustUsable()
	if inst.rec != other.rec {
		return false
	}
	for idx := range inst.fields {
		t := inst.rec.Fields[idx].Type
		if !valueEqual(t, inst.fields[idx], other.fields[idx]) {
			return false
		}
	}
	return true
}

func valueEqual(t *Type, a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case valueNum:
		return a.num == b.num
	case valueStr:
		return a.str == b.str
	case valueInst:
		if a.inst == nil || b.inst == nil {
			return a.inst == b.inst
		}
		return a.inst.Equal(b.inst)
	case valueList:
		n := len(a.list)
		if len(b.list) > n {
			n = len(b.list)
		}
		if t.Kind == KindArray {
			n = int(t.ArrayLen)
		} else if len(a.list) != len(b.list) {
			return false
		}
		for i := 0; i < n; i++ {
			av, bv := listSlot(t, a.list, i), listSlot(t, b.list, i)
			if !valueEqual(t.Elem, av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// listSlot returns the i'th element, or the element default for array
// slots past the set elements.
func listSlot(t *Type, list []Value, i int) Value {
	if i < len(list) {
		return list[i]
	}
	return zeroValue(t.Elem)
}
