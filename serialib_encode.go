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
	"io"
)

// Encode serializes the instance: each field's encoding concatenated
// in declaration order. A struct instance always encodes to its
// record's ByteWidth; a table's length is data-dependent. Encode never
// fails on a live instance.
func (inst *Instance) Encode() []byte {
	inst.mustUsable()
	return inst.appendTo(make([]byte, 0, inst.EncodedSize()))
}

// EncodeTo writes the encoding to w.
func (inst *Instance) EncodeTo(w io.Writer) error {
	_, err := w.Write(inst.Encode())
	return err
}

// EncodedSize returns the exact number of bytes Encode will produce.
func (inst *Instance) EncodedSize() int {
	inst.mustUsable()
	size := 0
	for idx := range inst.fields {
		size += encodedValueSize(inst.rec.Fields[idx].Type, inst.fields[idx])
	}
	return size
}

func encodedValueSize(t *Type, v Value) int {
	switch t.Kind {
	case KindString:
		return 4 + len(v.str)
	case KindEnum:
		return t.Enum.Width
	case KindStruct:
		return t.Record.width
	case KindTable:
		if v.inst == nil {
			return 4
		}
		return 4 + v.inst.EncodedSize()
	case KindVector:
		size := 4
		for _, elem := range v.list {
			size += encodedValueSize(t.Elem, elem)
		}
		return size
	case KindArray:
		size := 0
		for i := 0; i < int(t.ArrayLen); i++ {
			size += encodedValueSize(t.Elem, listSlot(t, v.list, i))
		}
		return size
	}
	return t.Kind.ScalarWidth()
}

func (inst *Instance) appendTo(buf []byte) []byte {
	for idx := range inst.fields {
		buf = appendValue(buf, inst.rec.Fields[idx].Type, inst.fields[idx])
	}
	return buf
}

func appendValue(buf []byte, t *Type, v Value) []byte {
	switch t.Kind {
	case KindString:
		buf = appendUint32(buf, uint32(len(v.str)))
		return append(buf, v.str...)
	case KindEnum:
		return appendRaw(buf, t.Enum.Width, v.num)
	case KindStruct:
		return v.inst.appendTo(buf)
	case KindTable:
		if v.inst == nil {
			return appendUint32(buf, 0)
		}
		buf = appendUint32(buf, uint32(v.inst.EncodedSize()))
		return v.inst.appendTo(buf)
	case KindVector:
		buf = appendUint32(buf, uint32(len(v.list)))
		for _, elem := range v.list {
			buf = appendValue(buf, t.Elem, elem)
		}
		return buf
	case KindArray:
		for i := 0; i < int(t.ArrayLen); i++ {
			buf = appendValue(buf, t.Elem, listSlot(t, v.list, i))
		}
		return buf
	}
	return appendRaw(buf, t.Kind.ScalarWidth(), v.num)
}

func appendRaw(buf []byte, width int, raw uint64) []byte {
	switch width {
	case 1:
		return append(buf, uint8(raw))
	case 2:
		buf = append(buf, 0, 0)
		lePutUint16(buf[len(buf)-2:], uint16(raw))
	case 4:
		buf = append(buf, 0, 0, 0, 0)
		lePutUint32(buf[len(buf)-4:], uint32(raw))
	case 8:
		buf = append(buf, 0, 0, 0, 0, 0, 0, 0, 0)
		lePutUint64(buf[len(buf)-8:], raw)
	}
	return buf
}

func appendUint32(buf []byte, v uint32) []byte {
	buf = append(buf, 0, 0, 0, 0)
	lePutUint32(buf[len(buf)-4:], v)
	return buf
}
