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
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf8"
)

type TokenKind uint8

const (
	T_EOF TokenKind = iota

	T_COLON
	T_SEMICOLON
	T_COMMA
	T_EQ

	T_OPEN_SQUARE
	T_CLOSE_SQUARE
	T_OPEN_CURL
	T_CLOSE_CURL

	T_INT_LIT
	T_STRING_LIT

	T_IDENT
)

func (k TokenKind) String() string {
	switch k {
	case T_EOF:
		return "EOF"
	case T_COLON:
		return "COLON"
	case T_SEMICOLON:
		return "SEMICOLON"
	case T_COMMA:
		return "COMMA"
	case T_EQ:
		return "EQ"
	case T_OPEN_SQUARE:
		return "OPEN_SQUARE"
	case T_CLOSE_SQUARE:
		return "CLOSE_SQUARE"
	case T_OPEN_CURL:
		return "OPEN_CURL"
	case T_CLOSE_CURL:
		return "CLOSE_CURL"
	case T_INT_LIT:
		return "INT_LIT"
	case T_STRING_LIT:
		return "STRING_LIT"
	case T_IDENT:
		return "IDENT"
	default:
		return fmt.Sprintf("TokenKind(%d)", uint8(k))
	}
}

// Token is one lexical element. Num carries the decoded value of an
// integer, character, or boolean literal; Text carries the text of an
// identifier or the body of a string literal.
type Token struct {
	Kind TokenKind
	Span Span
	Num  uint64
	Text string
}

// escapeCodes maps the character after a backslash in a character
// literal to its decoded value, as in '\n' or '\0'.
var escapeCodes = map[byte]uint64{
	'r':  '\r',
	'n':  '\n',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'0':  0,
	'1':  1,
	'2':  2,
	'3':  3,
	'4':  4,
	'5':  5,
	'6':  6,
	'7':  7,
	'8':  8,
	'9':  9,
}

// Tokens scans IDL source. Whitespace and comments are consumed
// between tokens and never surfaced.
type Tokens struct {
	src    []byte
	offset uint32
}

func NewTokens(src []byte) (*Tokens, error) {
	if !utf8.Valid(src) {
		return nil, errInvalidUtf8(src)
	}
	return &Tokens{src: src}, nil
}

func (t *Tokens) Next(token *Token) error {
	if err := t.skipTrivia(); err != nil {
		return err
	}
	if len(t.src) == 0 {
		*token = Token{Kind: T_EOF, Span: Span{Start: t.offset}}
		return nil
	}

	c := t.src[0]
	var kind TokenKind
	switch c {
	case ':':
		kind = T_COLON
	case ';':
		kind = T_SEMICOLON
	case ',':
		kind = T_COMMA
	case '=':
		kind = T_EQ
	case '[':
		kind = T_OPEN_SQUARE
	case ']':
		kind = T_CLOSE_SQUARE
	case '{':
		kind = T_OPEN_CURL
	case '}':
		kind = T_CLOSE_CURL
	case '"':
		return t.nextStringLit(token)
	case '\'':
		return t.nextCharLit(token)
	default:
		if c >= '0' && c <= '9' {
			return t.nextNumLit(token)
		}
		if isIdentStart(c) {
			return t.nextIdent(token)
		}
		r, _ := utf8.DecodeRune(t.src)
		return errUnexpectedCharacter(t.offset, r)
	}

	*token = Token{
		Kind: kind,
		Span: Span{Start: t.offset, Len: 1},
	}
	t.consume(1)
	return nil
}

// skipTrivia consumes whitespace, `//` line comments, and `/* */`
// block comments.
func (t *Tokens) skipTrivia() error {
	for len(t.src) > 0 {
		switch c := t.src[0]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			t.consume(1)
		case c == '/' && len(t.src) > 1 && t.src[1] == '/':
			end := bytes.IndexByte(t.src, '\n')
			if end < 0 {
				end = len(t.src)
			}
			t.consume(end)
		case c == '/' && len(t.src) > 1 && t.src[1] == '*':
			end := bytes.Index(t.src[2:], []byte("*/"))
			if end < 0 {
				return errUnterminatedBlockComment(t.offset)
			}
			t.consume(end + 4)
		default:
			return nil
		}
	}
	return nil
}

func (t *Tokens) nextStringLit(token *Token) error {
	start := t.offset
	for i := 1; i < len(t.src); i++ {
		switch t.src[i] {
		case '"':
			*token = Token{
				Kind: T_STRING_LIT,
				Span: Span{Start: start, Len: uint32(i) + 1},
				Text: string(t.src[1:i]),
			}
			t.consume(i + 1)
			return nil
		case '\n':
			return errStringContainsNewline(start, uint32(i))
		}
	}
	return errUnterminatedStringLit(start, uint32(len(t.src)))
}

func (t *Tokens) nextCharLit(token *Token) error {
	start := t.offset
	src := t.src
	if len(src) >= 3 && src[1] == '\\' {
		if len(src) < 4 || src[3] != '\'' {
			return errUnterminatedCharLit(start)
		}
		value, ok := escapeCodes[src[2]]
		if !ok {
			return errInvalidEscape(start, src[2])
		}
		*token = Token{
			Kind: T_INT_LIT,
			Span: Span{Start: start, Len: 4},
			Num:  value,
		}
		t.consume(4)
		return nil
	}
	if len(src) < 3 || src[2] != '\'' || src[1] == '\'' {
		return errUnterminatedCharLit(start)
	}
	*token = Token{
		Kind: T_INT_LIT,
		Span: Span{Start: start, Len: 3},
		Num:  uint64(src[1]),
	}
	t.consume(3)
	return nil
}

func (t *Tokens) nextNumLit(token *Token) error {
	start := t.offset
	src := t.src
	base := 10
	digits := 0
	if len(src) >= 2 && src[0] == '0' && (src[1] == 'x' || src[1] == 'X') {
		base = 16
		digits = 2
	}
	for digits < len(src) && isDigit(src[digits], base) {
		digits++
	}
	text := string(src[:digits])
	var value uint64
	var err error
	if base == 16 {
		value, err = strconv.ParseUint(text[2:], 16, 64)
	} else {
		value, err = strconv.ParseUint(text, 10, 64)
	}
	if err != nil {
		return errIntLitInvalid(start, text)
	}
	*token = Token{
		Kind: T_INT_LIT,
		Span: Span{Start: start, Len: uint32(digits)},
		Num:  value,
	}
	t.consume(digits)
	return nil
}

func (t *Tokens) nextIdent(token *Token) error {
	start := t.offset
	src := t.src
	end := 1
	for end < len(src) && isIdentRest(src[end]) {
		end++
	}
	text := string(src[:end])
	tok := Token{
		Kind: T_IDENT,
		Span: Span{Start: start, Len: uint32(end)},
		Text: text,
	}

	// 'true' and 'false' are the integer literals 1 and 0, not
	// keywords.
	switch text {
	case "true":
		tok = Token{Kind: T_INT_LIT, Span: tok.Span, Num: 1}
	case "false":
		tok = Token{Kind: T_INT_LIT, Span: tok.Span, Num: 0}
	}
	*token = tok
	t.consume(end)
	return nil
}

func (t *Tokens) consume(n int) {
	t.offset += uint32(n)
	t.src = t.src[n:]
}

func isIdentStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_'
}

func isIdentRest(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte, base int) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if base != 16 {
		return false
	}
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
