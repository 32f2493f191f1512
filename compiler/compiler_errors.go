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

package compiler

import (
	"fmt"
	"strings"

	"github.com/Miravalier/serialib/syntax"
)

// Error is a schema composition error. The span locates the offending
// declaration, field, or literal in the source passed to Compile.
type Error struct {
	code    uint32
	message string
	span    syntax.Span
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Span() syntax.Span {
	return err.span
}

func errReservedTypeName(name string, span syntax.Span) error {
	return &Error{
		code:    3000,
		message: fmt.Sprintf("Type name %q is reserved for a built-in type", name),
		span:    span,
	}
}

func errDuplicateDecl(name string, span syntax.Span) error {
	return &Error{
		code:    3001,
		message: fmt.Sprintf("Duplicate declaration of type %q", name),
		span:    span,
	}
}

func errInvalidEnumWidth(enum, width string, span syntax.Span) error {
	return &Error{
		code: 3002,
		message: fmt.Sprintf(
			"The underlying type of enum %q must be an integer primitive, not %q",
			enum, width,
		),
		span: span,
	}
}

func errDuplicateEnumItem(enum, item string, span syntax.Span) error {
	return &Error{
		code:    3003,
		message: fmt.Sprintf("Duplicate member %q in enum %q", item, enum),
		span:    span,
	}
}

func errEnumValueOverflow(enum, item string, value uint64, width int, span syntax.Span) error {
	return &Error{
		code: 3004,
		message: fmt.Sprintf(
			"Enum member %s.%s value %d does not fit in %d byte(s)",
			enum, item, value, width,
		),
		span: span,
	}
}

func errUnknownType(record, field, name string, span syntax.Span) error {
	return &Error{
		code: 3005,
		message: fmt.Sprintf(
			"Unknown type %q in field %s.%s",
			name, record, field,
		),
		span: span,
	}
}

func errDuplicateField(record, field string, span syntax.Span) error {
	return &Error{
		code:    3006,
		message: fmt.Sprintf("Duplicate field %q in %q", field, record),
		span:    span,
	}
}

func errInvalidStructField(structName, field, typeName string, span syntax.Span) error {
	return &Error{
		code: 3007,
		message: fmt.Sprintf(
			"Struct field %s.%s has variable-size type %q;"+
				" strings, vectors, arrays, and tables require a table",
			structName, field, typeName,
		),
		span: span,
	}
}

func errCyclicStruct(cycle []string, span syntax.Span) error {
	return &Error{
		code: 3008,
		message: fmt.Sprintf(
			"Cyclic struct reference: %s",
			strings.Join(cycle, " -> "),
		),
		span: span,
	}
}

func errInvalidDefault(record, field, typeName string, span syntax.Span) error {
	return &Error{
		code: 3009,
		message: fmt.Sprintf(
			"Field %s.%s of type %q cannot have a default value",
			record, field, typeName,
		),
		span: span,
	}
}

func errDefaultTypeMismatch(record, field, typeName, literal string, span syntax.Span) error {
	return &Error{
		code: 3010,
		message: fmt.Sprintf(
			"The default value of %s.%s must be a %s, not %s",
			record, field, typeName, literal,
		),
		span: span,
	}
}

func errDefaultOutOfRange(record, field, typeName string, value uint64, span syntax.Span) error {
	return &Error{
		code: 3011,
		message: fmt.Sprintf(
			"The default value %d of %s.%s is out of range for %s",
			value, record, field, typeName,
		),
		span: span,
	}
}

func errDefaultNotEnumMember(record, field, enum, member string, span syntax.Span) error {
	return &Error{
		code: 3012,
		message: fmt.Sprintf(
			"The default value %s of %s.%s is not a member of enum %q",
			member, record, field, enum,
		),
		span: span,
	}
}

func errArrayLenTooLarge(record, field string, length uint64, span syntax.Span) error {
	return &Error{
		code: 3013,
		message: fmt.Sprintf(
			"Fixed array length %d of %s.%s exceeds the maximum of 4294967295",
			length, record, field,
		),
		span: span,
	}
}

func errEmptyRecord(name string, span syntax.Span) error {
	return &Error{
		code: 3014,
		message: fmt.Sprintf(
			"Record %q must declare at least one field: a zero-width value cannot be represented on the wire",
			name,
		),
		span: span,
	}
}

func errInternal(detail error) error {
	return &Error{
		code:    3999,
		message: fmt.Sprintf("Internal compiler error: %v", detail),
	}
}
