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

// Package syntax tokenizes and parses serialib IDL source text into an
// abstract syntax tree of enum, struct, and table declarations.
// Parsing is single-pass and order-preserving: declaration order is
// semantically meaningful for field layout and enum constant values.
package syntax

// Parse parses one IDL source file.
func Parse(src []byte) (*Schema, error) {
	tokens, err := NewTokens(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	return p.parseSchema()
}

type parser struct {
	tokens    *Tokens
	token     Token
	haveToken bool
}

// peek makes the next token current without consuming it.
func (p *parser) peek() (Token, error) {
	if !p.haveToken {
		if err := p.tokens.Next(&p.token); err != nil {
			return Token{}, err
		}
		p.haveToken = true
	}
	return p.token, nil
}

func (p *parser) next() (Token, error) {
	token, err := p.peek()
	if err != nil {
		return Token{}, err
	}
	p.haveToken = false
	return token, nil
}

func (p *parser) sigil(kind TokenKind) (Token, error) {
	token, err := p.peek()
	if err != nil {
		return Token{}, err
	}
	if token.Kind != kind {
		return Token{}, errExpectedSigil(kind, token)
	}
	p.haveToken = false
	return token, nil
}

func (p *parser) trySigil(kind TokenKind) (bool, error) {
	token, err := p.peek()
	if err != nil {
		return false, err
	}
	if token.Kind != kind {
		return false, nil
	}
	p.haveToken = false
	return true, nil
}

func (p *parser) ident() (Token, error) {
	token, err := p.peek()
	if err != nil {
		return Token{}, err
	}
	if token.Kind != T_IDENT {
		return Token{}, errExpectedIdent(token)
	}
	p.haveToken = false
	return token, nil
}

func (p *parser) int() (Token, error) {
	token, err := p.peek()
	if err != nil {
		return Token{}, err
	}
	if token.Kind != T_INT_LIT {
		return Token{}, errExpectedIntLit(token)
	}
	p.haveToken = false
	return token, nil
}

func spanUntil(start Span, end Span) Span {
	return Span{
		Start: start.Start,
		Len:   end.Start + end.Len - start.Start,
	}
}

func (p *parser) parseSchema() (*Schema, error) {
	schema := &Schema{}
	for {
		token, err := p.peek()
		if err != nil {
			return nil, err
		}
		if token.Kind == T_EOF {
			return schema, nil
		}
		if token.Kind != T_IDENT {
			return nil, errExpectedDeclaration(token)
		}

		var decl Decl
		switch token.Text {
		case "enum":
			decl, err = p.parseEnum()
		case "struct":
			decl, err = p.parseStruct()
		case "table":
			decl, err = p.parseTable()
		default:
			return nil, errExpectedDeclaration(token)
		}
		if err != nil {
			return nil, err
		}
		schema.Decls = append(schema.Decls, decl)
	}
}

func (p *parser) parseEnum() (*EnumDecl, error) {
	keyword, err := p.ident()
	if err != nil {
		return nil, err
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	decl := &EnumDecl{
		Name:     name.Text,
		NameSpan: name.Span,
	}

	hasWidth, err := p.trySigil(T_COLON)
	if err != nil {
		return nil, err
	}
	if hasWidth {
		width, err := p.ident()
		if err != nil {
			return nil, err
		}
		decl.Width = width.Text
		decl.WidthSpan = width.Span
	}

	if _, err := p.sigil(T_OPEN_CURL); err != nil {
		return nil, err
	}
	closed, err := p.trySigil(T_CLOSE_CURL)
	if err != nil {
		return nil, err
	}
	for !closed {
		item, err := p.parseEnumItem()
		if err != nil {
			return nil, err
		}
		decl.Items = append(decl.Items, item)

		// Members are comma-separated with no trailing comma: a
		// comma commits the parser to another member.
		token, err := p.next()
		if err != nil {
			return nil, err
		}
		switch token.Kind {
		case T_COMMA:
		case T_CLOSE_CURL:
			closed = true
		default:
			return nil, errExpectedEnumItemSep(token)
		}
	}
	decl.Span = spanUntil(keyword.Span, p.lastSpan())
	return decl, nil
}

func (p *parser) parseEnumItem() (EnumItemDecl, error) {
	name, err := p.ident()
	if err != nil {
		return EnumItemDecl{}, err
	}
	item := EnumItemDecl{
		Name:     name.Text,
		NameSpan: name.Span,
	}
	hasValue, err := p.trySigil(T_EQ)
	if err != nil {
		return EnumItemDecl{}, err
	}
	if hasValue {
		value, err := p.int()
		if err != nil {
			return EnumItemDecl{}, err
		}
		item.Value = &value.Num
		item.ValueSpan = value.Span
	}
	return item, nil
}

func (p *parser) parseStruct() (*StructDecl, error) {
	keyword, name, fields, err := p.parseRecord()
	if err != nil {
		return nil, err
	}
	return &StructDecl{
		Name:     name.Text,
		NameSpan: name.Span,
		Fields:   fields,
		Span:     spanUntil(keyword.Span, p.lastSpan()),
	}, nil
}

func (p *parser) parseTable() (*TableDecl, error) {
	keyword, name, fields, err := p.parseRecord()
	if err != nil {
		return nil, err
	}
	return &TableDecl{
		Name:     name.Text,
		NameSpan: name.Span,
		Fields:   fields,
		Span:     spanUntil(keyword.Span, p.lastSpan()),
	}, nil
}

// parseRecord parses the shared body of struct and table
// declarations.
func (p *parser) parseRecord() (keyword, name Token, fields []FieldDecl, err error) {
	if keyword, err = p.ident(); err != nil {
		return
	}
	if name, err = p.ident(); err != nil {
		return
	}
	if _, err = p.sigil(T_OPEN_CURL); err != nil {
		return
	}
	for {
		var closed bool
		if closed, err = p.trySigil(T_CLOSE_CURL); err != nil {
			return
		}
		if closed {
			return
		}
		var field FieldDecl
		if field, err = p.parseField(); err != nil {
			return
		}
		fields = append(fields, field)
	}
}

func (p *parser) parseField() (FieldDecl, error) {
	name, err := p.ident()
	if err != nil {
		return FieldDecl{}, err
	}
	if _, err := p.sigil(T_COLON); err != nil {
		return FieldDecl{}, err
	}
	typeRef, err := p.parseTypeRef()
	if err != nil {
		return FieldDecl{}, err
	}
	field := FieldDecl{
		Name:     name.Text,
		NameSpan: name.Span,
		Type:     typeRef,
	}

	hasDefault, err := p.trySigil(T_EQ)
	if err != nil {
		return FieldDecl{}, err
	}
	if hasDefault {
		literal, err := p.parseLiteral()
		if err != nil {
			return FieldDecl{}, err
		}
		field.Default = &literal
	}

	semi, err := p.sigil(T_SEMICOLON)
	if err != nil {
		return FieldDecl{}, err
	}
	field.Span = spanUntil(name.Span, semi.Span)
	return field, nil
}

func (p *parser) parseTypeRef() (TypeRef, error) {
	token, err := p.peek()
	if err != nil {
		return TypeRef{}, err
	}
	switch token.Kind {
	case T_IDENT:
		p.haveToken = false
		return TypeRef{
			Name:     token.Text,
			NameSpan: token.Span,
			Span:     token.Span,
		}, nil

	case T_OPEN_SQUARE:
		p.haveToken = false
		name, err := p.ident()
		if err != nil {
			return TypeRef{}, err
		}
		ref := TypeRef{
			Name:     name.Text,
			NameSpan: name.Span,
			Vector:   true,
		}
		hasLen, err := p.trySigil(T_COLON)
		if err != nil {
			return TypeRef{}, err
		}
		if hasLen {
			length, err := p.int()
			if err != nil {
				return TypeRef{}, err
			}
			if length.Num == 0 {
				return TypeRef{}, errArrayLenZero(length.Span)
			}
			ref.Vector = false
			ref.ArrayLen = &length.Num
		}
		closeToken, err := p.sigil(T_CLOSE_SQUARE)
		if err != nil {
			return TypeRef{}, err
		}
		ref.Span = spanUntil(token.Span, closeToken.Span)
		return ref, nil
	}
	return TypeRef{}, errExpectedTypeName(token)
}

func (p *parser) parseLiteral() (Literal, error) {
	token, err := p.peek()
	if err != nil {
		return Literal{}, err
	}
	switch token.Kind {
	case T_INT_LIT:
		p.haveToken = false
		return Literal{Num: token.Num, Span: token.Span}, nil
	case T_STRING_LIT:
		p.haveToken = false
		return Literal{IsString: true, Str: token.Text, Span: token.Span}, nil
	case T_IDENT:
		p.haveToken = false
		return Literal{Symbol: token.Text, Span: token.Span}, nil
	}
	return Literal{}, errExpectedLiteral(token)
}

// lastSpan is the span of the most recently consumed token.
func (p *parser) lastSpan() Span {
	return p.token.Span
}
