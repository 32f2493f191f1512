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

// Decode materializes a fresh, independently owned instance of rec
// from buf. The entire buffer must be consumed: a record encoding is
// self-delimiting, so trailing bytes are an error, never ignored.
func Decode(rec *Record, buf []byte) (*Instance, error) {
	d := &decoder{buf: buf}
	inst, err := d.record(rec, len(buf))
	if err != nil {
		return nil, err
	}
	if d.off != len(buf) {
		return nil, &LengthMismatchError{
			Offset:    d.off,
			Remaining: len(buf) - d.off,
			Trailing:  true,
		}
	}
	return inst, nil
}

// Verify walks buf against rec's layout plan without materializing
// instances. It fails with the same error taxonomy as Decode.
func Verify(rec *Record, buf []byte) error {
	d := &decoder{buf: buf}
	if err := d.verifyRecord(rec, len(buf)); err != nil {
		return err
	}
	if d.off != len(buf) {
		return &LengthMismatchError{
			Offset:    d.off,
			Remaining: len(buf) - d.off,
			Trailing:  true,
		}
	}
	return nil
}

// decoder is a cursor over one input buffer. Nested self-delimited
// values narrow the window end rather than re-slicing, so reported
// offsets are absolute.
type decoder struct {
	buf   []byte
	off   int
	depth int
}

func (d *decoder) record(rec *Record, end int) (*Instance, error) {
	inst := &Instance{
		rec:    rec,
		fields: make([]Value, len(rec.Fields)),
	}
	for idx := range rec.Fields {
		v, err := d.value(rec.Fields[idx].Type, end)
		if err != nil {
			return nil, err
		}
		inst.fields[idx] = v
	}
	return inst, nil
}

func (d *decoder) value(t *Type, end int) (Value, error) {
	switch t.Kind {
	case KindString:
		n, err := d.prefix(end)
		if err != nil {
			return Value{}, err
		}
		str := string(d.buf[d.off : d.off+n])
		d.off += n
		return String(str), nil

	case KindEnum:
		raw, err := d.raw(t.Enum.Width, end)
		if err != nil {
			return Value{}, err
		}
		if _, ok := t.Enum.ItemByValue(raw); !ok {
			return Value{}, &InvalidEnumValueError{
				Offset: d.off - t.Enum.Width,
				Enum:   t.Enum.Name,
				Raw:    raw,
			}
		}
		return Uint64(raw), nil

	case KindStruct:
		inst, err := d.record(t.Record, end)
		if err != nil {
			return Value{}, err
		}
		inst.owned = true
		return Value{kind: valueInst, inst: inst}, nil

	case KindTable:
		subEnd, err := d.enterTable(end)
		if err != nil {
			return Value{}, err
		}
		if subEnd < 0 {
			return Nested(nil), nil
		}
		inst, err := d.record(t.Record, subEnd)
		if err != nil {
			return Value{}, err
		}
		if err := d.leaveTable(subEnd); err != nil {
			return Value{}, err
		}
		inst.owned = true
		return Value{kind: valueInst, inst: inst}, nil

	case KindVector:
		count, err := d.count(t.Elem, end)
		if err != nil {
			return Value{}, err
		}
		list := make([]Value, count)
		for i := 0; i < count; i++ {
			if list[i], err = d.value(t.Elem, end); err != nil {
				return Value{}, err
			}
		}
		return Value{kind: valueList, list: list}, nil

	case KindArray:
		list := make([]Value, t.ArrayLen)
		for i := range list {
			var err error
			if list[i], err = d.value(t.Elem, end); err != nil {
				return Value{}, err
			}
		}
		return Value{kind: valueList, list: list}, nil
	}

	width := t.Kind.ScalarWidth()
	raw, err := d.raw(width, end)
	if err != nil {
		return Value{}, err
	}
	if t.Kind == KindBool && raw != 0 {
		raw = 1
	}
	if t.Kind.Signed() {
		raw = signExtend(raw, width)
	}
	return Uint64(raw), nil
}

// signExtend widens a width-byte two's complement value to 64 bits.
func signExtend(raw uint64, width int) uint64 {
	shift := 64 - 8*width
	return uint64(int64(raw<<shift) >> shift)
}

func (d *decoder) verifyRecord(rec *Record, end int) error {
	for idx := range rec.Fields {
		if err := d.verifyValue(rec.Fields[idx].Type, end); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) verifyValue(t *Type, end int) error {
	switch t.Kind {
	case KindString:
		n, err := d.prefix(end)
		if err != nil {
			return err
		}
		d.off += n
		return nil

	case KindEnum:
		raw, err := d.raw(t.Enum.Width, end)
		if err != nil {
			return err
		}
		if _, ok := t.Enum.ItemByValue(raw); !ok {
			return &InvalidEnumValueError{
				Offset: d.off - t.Enum.Width,
				Enum:   t.Enum.Name,
				Raw:    raw,
			}
		}
		return nil

	case KindStruct:
		return d.verifyRecord(t.Record, end)

	case KindTable:
		subEnd, err := d.enterTable(end)
		if err != nil {
			return err
		}
		if subEnd < 0 {
			return nil
		}
		if err := d.verifyRecord(t.Record, subEnd); err != nil {
			return err
		}
		return d.leaveTable(subEnd)

	case KindVector:
		count, err := d.count(t.Elem, end)
		if err != nil {
			return err
		}
		for i := 0; i < count; i++ {
			if err := d.verifyValue(t.Elem, end); err != nil {
				return err
			}
		}
		return nil

	case KindArray:
		for i := 0; i < int(t.ArrayLen); i++ {
			if err := d.verifyValue(t.Elem, end); err != nil {
				return err
			}
		}
		return nil
	}

	_, err := d.raw(t.Kind.ScalarWidth(), end)
	return err
}

// enterTable reads a nested table's length prefix and returns the
// window end of its encoding, or -1 for an absent (zero-length) table.
func (d *decoder) enterTable(end int) (int, error) {
	n, err := d.prefix(end)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return -1, nil
	}
	d.depth++
	if d.depth > MaxDecodeDepth {
		return 0, &DepthLimitError{Offset: d.off}
	}
	return d.off + n, nil
}

// leaveTable checks that the nested encoding was consumed exactly.
func (d *decoder) leaveTable(subEnd int) error {
	if d.off != subEnd {
		return &LengthMismatchError{
			Offset:    d.off,
			Remaining: subEnd - d.off,
			Trailing:  true,
		}
	}
	d.depth--
	return nil
}

// raw reads a little-endian value of the given width.
func (d *decoder) raw(width int, end int) (uint64, error) {
	if end-d.off < width {
		return 0, &TruncatedBufferError{
			Offset:    d.off,
			Needed:    width,
			Remaining: end - d.off,
		}
	}
	var raw uint64
	switch width {
	case 1:
		raw = uint64(d.buf[d.off])
	case 2:
		raw = uint64(leUint16(d.buf[d.off:]))
	case 4:
		raw = uint64(leUint32(d.buf[d.off:]))
	case 8:
		raw = leUint64(d.buf[d.off:])
	}
	d.off += width
	return raw, nil
}

// prefix reads a u32 byte-length prefix and checks it against the
// window.
func (d *decoder) prefix(end int) (int, error) {
	start := d.off
	raw, err := d.raw(4, end)
	if err != nil {
		return 0, err
	}
	n := int(raw)
	if n > end-d.off {
		return 0, &LengthMismatchError{
			Offset:    start,
			Declared:  n,
			Remaining: end - d.off,
		}
	}
	return n, nil
}

// count reads a u32 element-count prefix, rejecting counts that could
// not possibly fit in the window even at the element's minimum
// encoded size.
func (d *decoder) count(elem *Type, end int) (int, error) {
	start := d.off
	raw, err := d.raw(4, end)
	if err != nil {
		return 0, err
	}
	n := int(raw)
	min := minEncodedSize(elem)
	if min < 1 {
		// Zero-width element types are rejected when the schema is
		// finalized; never let a forged count drive the allocation.
		min = 1
	}
	if n > (end-d.off)/min {
		return 0, &LengthMismatchError{
			Offset:    start,
			Declared:  n * min,
			Remaining: end - d.off,
		}
	}
	return n, nil
}

func minEncodedSize(t *Type) int {
	switch t.Kind {
	case KindString, KindTable, KindVector:
		return 4
	case KindStruct:
		return t.Record.width
	case KindEnum:
		return t.Enum.Width
	case KindArray:
		return int(t.ArrayLen) * minEncodedSize(t.Elem)
	}
	return t.Kind.ScalarWidth()
}
