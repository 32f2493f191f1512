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

import (
	"fmt"
	"unicode/utf8"
)

// Error is a schema syntax error. Parse errors carry the expected and
// found token texts; lexical errors carry only a message. The span
// locates the error in the source passed to Parse.
type Error struct {
	code     uint32
	message  string
	span     Span
	expected string
	found    string
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

func (err *Error) Span() Span {
	return err.span
}

// Expected describes the token the parser required, or "" for lexical
// errors.
func (err *Error) Expected() string {
	return err.expected
}

// Found describes the token actually present, or "" for lexical
// errors.
func (err *Error) Found() string {
	return err.found
}

func errInvalidUtf8(src []byte) error {
	var off uint32
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError {
			break
		}
		off += uint32(size)
		src = src[size:]
	}
	return &Error{
		code:    1000,
		message: "Source file contains invalid UTF-8",
		span:    Span{Start: off, Len: 1},
	}
}

func errUnexpectedCharacter(start uint32, r rune) error {
	return &Error{
		code:    1001,
		message: fmt.Sprintf("Unexpected character '%s' (U+%04X)", string(r), r),
		span:    Span{Start: start, Len: uint32(utf8.RuneLen(r))},
	}
}

func errUnterminatedStringLit(start, tokenLen uint32) error {
	return &Error{
		code:    1002,
		message: "Unterminated string literal",
		span:    Span{Start: start, Len: tokenLen},
	}
}

func errStringContainsNewline(start, tokenLen uint32) error {
	return &Error{
		code:    1003,
		message: "String literal contains unescaped newline",
		span:    Span{Start: start, Len: tokenLen},
	}
}

func errUnterminatedCharLit(start uint32) error {
	return &Error{
		code:    1004,
		message: "Unterminated character literal",
		span:    Span{Start: start, Len: 1},
	}
}

func errInvalidEscape(start uint32, c byte) error {
	return &Error{
		code:    1005,
		message: fmt.Sprintf("Invalid escape sequence '\\%c'", c),
		span:    Span{Start: start, Len: 4},
	}
}

func errUnterminatedBlockComment(start uint32) error {
	return &Error{
		code:    1006,
		message: "Unterminated block comment",
		span:    Span{Start: start, Len: 2},
	}
}

func errIntLitInvalid(start uint32, token string) error {
	return &Error{
		code:    1007,
		message: fmt.Sprintf("Invalid integer literal %q", token),
		span:    Span{Start: start, Len: uint32(len(token))},
	}
}

func expectationError(code uint32, expected string, token Token) error {
	found := tokenText(token)
	return &Error{
		code: code,
		message: fmt.Sprintf(
			"Expected %s, got (%s %q)",
			expected, token.Kind, found,
		),
		span:     token.Span,
		expected: expected,
		found:    found,
	}
}

func tokenText(token Token) string {
	switch token.Kind {
	case T_EOF:
		return ""
	case T_INT_LIT:
		return fmt.Sprintf("%d", token.Num)
	case T_COLON:
		return ":"
	case T_SEMICOLON:
		return ";"
	case T_COMMA:
		return ","
	case T_EQ:
		return "="
	case T_OPEN_SQUARE:
		return "["
	case T_CLOSE_SQUARE:
		return "]"
	case T_OPEN_CURL:
		return "{"
	case T_CLOSE_CURL:
		return "}"
	}
	return token.Text
}

func errExpectedSigil(kind TokenKind, token Token) error {
	var code uint32
	var want string
	switch kind {
	case T_COLON:
		code = 2000
		want = "':'"
	case T_SEMICOLON:
		code = 2001
		want = "';'"
	case T_COMMA:
		code = 2002
		want = "','"
	case T_EQ:
		code = 2003
		want = "'='"
	case T_OPEN_SQUARE:
		code = 2004
		want = "'['"
	case T_CLOSE_SQUARE:
		code = 2005
		want = "']'"
	case T_OPEN_CURL:
		code = 2006
		want = "'{'"
	case T_CLOSE_CURL:
		code = 2007
		want = "'}'"
	default:
		panic("unreachable")
	}
	return expectationError(code, want, token)
}

func errExpectedIdent(token Token) error {
	return expectationError(2008, "identifier", token)
}

func errExpectedIntLit(token Token) error {
	return expectationError(2009, "integer literal", token)
}

func errExpectedLiteral(token Token) error {
	return expectationError(2010, "literal", token)
}

func errExpectedDeclaration(token Token) error {
	return expectationError(2011, "'enum', 'struct', or 'table'", token)
}

func errExpectedTypeName(token Token) error {
	return expectationError(2012, "type name", token)
}

func errExpectedEnumItemSep(token Token) error {
	return expectationError(2013, "',' or '}'", token)
}

func errArrayLenZero(span Span) error {
	return &Error{
		code:    2014,
		message: "Fixed array length must be a positive integer",
		span:    span,
	}
}
