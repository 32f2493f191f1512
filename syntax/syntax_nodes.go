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

package syntax

// Span is a half-open byte range within the source text.
type Span struct {
	Start uint32
	Len   uint32
}

// Position converts the span's start offset to a 1-based line and
// column within src.
func (s Span) Position(src []byte) (line, col int) {
	line, col = 1, 1
	end := int(s.Start)
	if end > len(src) {
		end = len(src)
	}
	for _, c := range src[:end] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// Schema is the parsed form of one IDL source file: the declarations
// in source order.
type Schema struct {
	Decls []Decl
}

type Decl interface {
	DeclName() string
	DeclSpan() Span
}

type EnumDecl struct {
	Name     string
	NameSpan Span

	// Width names the underlying integer type, or "" when the
	// declaration omits it.
	Width     string
	WidthSpan Span

	Items []EnumItemDecl
	Span  Span
}

func (d *EnumDecl) DeclName() string { return d.Name }
func (d *EnumDecl) DeclSpan() Span   { return d.Span }

type EnumItemDecl struct {
	Name     string
	NameSpan Span

	// Value is the explicit member value, or nil to continue from the
	// previous member.
	Value     *uint64
	ValueSpan Span
}

type StructDecl struct {
	Name     string
	NameSpan Span
	Fields   []FieldDecl
	Span     Span
}

func (d *StructDecl) DeclName() string { return d.Name }
func (d *StructDecl) DeclSpan() Span   { return d.Span }

type TableDecl struct {
	Name     string
	NameSpan Span
	Fields   []FieldDecl
	Span     Span
}

func (d *TableDecl) DeclName() string { return d.Name }
func (d *TableDecl) DeclSpan() Span   { return d.Span }

type FieldDecl struct {
	Name     string
	NameSpan Span
	Type     TypeRef
	Default  *Literal
	Span     Span
}

// TypeRef is an unresolved field type: a plain name, a vector `[T]`,
// or a fixed array `[T:N]`.
type TypeRef struct {
	Name     string
	NameSpan Span
	Vector   bool
	ArrayLen *uint64
	Span     Span
}

// Literal is a default value: an integer (including character and
// boolean spellings), a string, or a bare identifier naming an enum
// member.
type Literal struct {
	IsString bool
	Num      uint64
	Str      string
	Symbol   string
	Span     Span
}
