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
	"strings"
)

// DebugString returns a human-readable dump of the instance. The
// format is for debugging only and is not part of the wire contract.
func (inst *Instance) DebugString() string {
	inst.mustUsable()
	var sb strings.Builder
	inst.debugTo(&sb, 0)
	return sb.String()
}

func (inst *Instance) debugTo(sb *strings.Builder, indent int) {
	sb.WriteString(inst.rec.Name)
	sb.WriteString(" {\n")
	for idx := range inst.fields {
		field := &inst.rec.Fields[idx]
		writeIndent(sb, indent+1)
		sb.WriteString(field.Name)
		sb.WriteString(": ")
		debugValue(sb, field.Type, inst.fields[idx], indent+1)
		sb.WriteString("\n")
	}
	writeIndent(sb, indent)
	sb.WriteString("}")
}

func debugValue(sb *strings.Builder, t *Type, v Value, indent int) {
	switch t.Kind {
	case KindBool:
		fmt.Fprintf(sb, "%v", v.num != 0)
	case KindString:
		fmt.Fprintf(sb, "%q", v.str)
	case KindEnum:
		if item, ok := t.Enum.ItemByValue(v.num); ok {
			sb.WriteString(item.Name)
		} else {
			fmt.Fprintf(sb, "%s(%d)", t.Enum.Name, v.num)
		}
	case KindStruct, KindTable:
		if v.inst == nil {
			sb.WriteString("null")
		} else {
			v.inst.debugTo(sb, indent)
		}
	case KindVector, KindArray:
		sb.WriteString("[")
		for i, elem := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}
			debugValue(sb, t.Elem, elem, indent)
		}
		sb.WriteString("]")
	default:
		if t.Kind.Signed() {
			fmt.Fprintf(sb, "%d", int64(v.num))
		} else {
			fmt.Fprintf(sb, "%d", v.num)
		}
	}
}

func writeIndent(sb *strings.Builder, indent int) {
	for i := 0; i < indent; i++ {
		sb.WriteString("  ")
	}
}

// DebugString returns a listing of the schema's layout plan: every
// type with its width, and every field with its offset and wire
// strategy.
func (s *Schema) DebugString() string {
	var sb strings.Builder
	for _, enum := range s.Enums {
		fmt.Fprintf(&sb, "enum %s : %d bytes {\n", enum.Name, enum.Width)
		for _, item := range enum.Items {
			fmt.Fprintf(&sb, "  %s = %d\n", item.Name, item.Value)
		}
		sb.WriteString("}\n")
	}
	for _, rec := range s.Records {
		if rec.Table {
			fmt.Fprintf(&sb, "table %s {\n", rec.Name)
		} else {
			fmt.Fprintf(&sb, "struct %s : %d bytes {\n", rec.Name, rec.width)
		}
		for idx := range rec.Fields {
			field := &rec.Fields[idx]
			sb.WriteString("  ")
			if !rec.Table {
				fmt.Fprintf(&sb, "@%-4d ", field.Offset)
			}
			fmt.Fprintf(&sb, "%s: %s (%s", field.Name, field.Type.Name(), field.Type.Strategy())
			if field.Type.FixedSize() {
				fmt.Fprintf(&sb, ", %d bytes", field.Type.ByteWidth())
			}
			sb.WriteString(")")
			if d := field.Default; d != nil {
				if d.IsString {
					fmt.Fprintf(&sb, " = %q", d.Str)
				} else {
					fmt.Fprintf(&sb, " = %d", d.Num)
				}
			}
			sb.WriteString("\n")
		}
		sb.WriteString("}\n")
	}
	return sb.String()
}
