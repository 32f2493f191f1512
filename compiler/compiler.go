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

// Package compiler resolves a parsed schema into compiled type
// descriptors. It builds the symbol table, resolves forward
// references, validates struct composition and defaults, and hands
// the result to the runtime's layout planner.
package compiler

import (
	"fmt"
	"math"

	"github.com/Miravalier/serialib"
	"github.com/Miravalier/serialib/syntax"
)

// builtinTypes maps every predefined type name, including the C-style
// aliases, to its runtime kind.
var builtinTypes = map[string]serialib.Kind{
	"bool":    serialib.KindBool,
	"boolean": serialib.KindBool,
	"string":  serialib.KindString,
	"str":     serialib.KindString,

	"uint8":  serialib.KindU8,
	"byte":   serialib.KindU8,
	"ubyte":  serialib.KindU8,
	"uchar":  serialib.KindU8,
	"int8":   serialib.KindI8,
	"sbyte":  serialib.KindI8,
	"char":   serialib.KindI8,
	"schar":  serialib.KindI8,
	"uint16": serialib.KindU16,
	"ushort": serialib.KindU16,
	"int16":  serialib.KindI16,
	"short":  serialib.KindI16,
	"sshort": serialib.KindI16,
	"uint32": serialib.KindU32,
	"uint":   serialib.KindU32,
	"int32":  serialib.KindI32,
	"int":    serialib.KindI32,
	"sint":   serialib.KindI32,
	"uint64": serialib.KindU64,
	"ulong":  serialib.KindU64,
	"int64":  serialib.KindI64,
	"long":   serialib.KindI64,
	"slong":  serialib.KindI64,
}

// defaultEnumWidth is the encoded width of enums declared without an
// explicit underlying type.
const defaultEnumWidth = 2

type CompileResult struct {
	// Schema is the compiled schema, finalized and ready for instance
	// and codec use. It is nil when Errors is non-empty.
	Schema *serialib.Schema

	Errors   []*Error
	Warnings []*Warning
}

// Compile resolves and validates a parsed schema. Resolution continues
// past the first problem so that one run reports every error it can.
func Compile(parsedSchema *syntax.Schema) CompileResult {
	c := compiler{
		schema:      &serialib.Schema{},
		declsByName: make(map[string]*declInfo),
	}
	c.compileSchema(parsedSchema)
	if len(c.errors) > 0 {
		return CompileResult{
			Errors:   c.errors,
			Warnings: c.warnings,
		}
	}
	return CompileResult{
		Schema:   c.schema,
		Warnings: c.warnings,
	}
}

type compiler struct {
	schema   *serialib.Schema
	errors   []*Error
	warnings []*Warning

	decls       []*declInfo
	declsByName map[string]*declInfo
}

type declInfo struct {
	enumDecl *syntax.EnumDecl
	enum     *serialib.Enum

	fields []syntax.FieldDecl
	record *serialib.Record

	nameSpan syntax.Span
}

func (c *compiler) err(err error) {
	c.errors = append(c.errors, err.(*Error))
}

func (c *compiler) warn(warning *Warning) {
	c.warnings = append(c.warnings, warning)
}

func (c *compiler) compileSchema(parsedSchema *syntax.Schema) {
	c.registerDecls(parsedSchema)
	for _, info := range c.decls {
		if info.enum != nil {
			c.compileEnum(info)
		}
	}
	for _, info := range c.decls {
		if info.record != nil {
			c.compileRecord(info)
		}
	}
	c.checkStructCycles()
	if len(c.errors) > 0 {
		return
	}
	if err := c.schema.Finalize(); err != nil {
		c.err(errInternal(err))
	}
}

// registerDecls builds the symbol table before any resolution, so
// fields may reference types declared later in the file.
func (c *compiler) registerDecls(parsedSchema *syntax.Schema) {
	for _, decl := range parsedSchema.Decls {
		name := decl.DeclName()
		var nameSpan syntax.Span
		info := &declInfo{}
		switch decl := decl.(type) {
		case *syntax.EnumDecl:
			nameSpan = decl.NameSpan
			info.enumDecl = decl
			info.enum = &serialib.Enum{Name: name, Width: defaultEnumWidth}
		case *syntax.StructDecl:
			nameSpan = decl.NameSpan
			info.fields = decl.Fields
			info.record = &serialib.Record{Name: name}
		case *syntax.TableDecl:
			nameSpan = decl.NameSpan
			info.fields = decl.Fields
			info.record = &serialib.Record{Name: name, Table: true}
		default:
			continue
		}
		info.nameSpan = nameSpan

		if _, ok := builtinTypes[name]; ok {
			c.err(errReservedTypeName(name, nameSpan))
			continue
		}
		if _, ok := c.declsByName[name]; ok {
			c.err(errDuplicateDecl(name, nameSpan))
			continue
		}
		c.declsByName[name] = info
		c.decls = append(c.decls, info)
		if info.enum != nil {
			c.schema.Enums = append(c.schema.Enums, info.enum)
		} else {
			c.schema.Records = append(c.schema.Records, info.record)
		}
	}
}

func (c *compiler) compileEnum(info *declInfo) {
	decl := info.enumDecl
	enum := info.enum

	widthOK := true
	if decl.Width != "" {
		kind, ok := builtinTypes[decl.Width]
		if !ok || !kind.IsScalar() {
			c.err(errInvalidEnumWidth(decl.Name, decl.Width, decl.WidthSpan))
			widthOK = false
		} else {
			enum.Width = kind.ScalarWidth()
		}
	}
	if len(decl.Items) == 0 {
		c.warn(warnEmptyEnum(decl.Name, decl.NameSpan))
	}

	names := make(map[string]struct{}, len(decl.Items))
	valueOwner := make(map[uint64]string, len(decl.Items))
	next := uint64(0)
	nextOverflows := false
	for _, item := range decl.Items {
		if _, ok := names[item.Name]; ok {
			c.err(errDuplicateEnumItem(decl.Name, item.Name, item.NameSpan))
			continue
		}
		names[item.Name] = struct{}{}

		var value uint64
		if item.Value != nil {
			value = *item.Value
			if widthOK && !fitsWidth(value, enum.Width) {
				c.err(errEnumValueOverflow(
					decl.Name, item.Name, value, enum.Width, item.ValueSpan,
				))
				continue
			}
		} else {
			// Implicit values continue the sequence: one past the
			// previous member, or zero for the first.
			value = next
			if nextOverflows || (widthOK && !fitsWidth(value, enum.Width)) {
				c.err(errEnumValueOverflow(
					decl.Name, item.Name, value, enum.Width, item.NameSpan,
				))
				continue
			}
		}

		if prev, ok := valueOwner[value]; ok {
			c.warn(warnDuplicateEnumValue(
				decl.Name, item.Name, prev, value, item.NameSpan,
			))
		} else {
			valueOwner[value] = item.Name
		}
		enum.Items = append(enum.Items, serialib.EnumItem{
			Name:  item.Name,
			Value: value,
		})
		next = value + 1
		nextOverflows = value == math.MaxUint64
	}
}

func fitsWidth(value uint64, width int) bool {
	if width >= 8 {
		return true
	}
	return value < uint64(1)<<(8*width)
}

func (c *compiler) compileRecord(info *declInfo) {
	rec := info.record
	if len(info.fields) == 0 {
		c.err(errEmptyRecord(rec.Name, info.nameSpan))
		return
	}
	names := make(map[string]struct{}, len(info.fields))
	for _, field := range info.fields {
		if _, ok := names[field.Name]; ok {
			c.err(errDuplicateField(rec.Name, field.Name, field.NameSpan))
			continue
		}
		names[field.Name] = struct{}{}

		fieldType := c.resolveTypeRef(rec.Name, field)
		if fieldType == nil {
			continue
		}
		if !rec.Table {
			switch fieldType.Kind {
			case serialib.KindString, serialib.KindTable,
				serialib.KindVector, serialib.KindArray:
				c.err(errInvalidStructField(
					rec.Name, field.Name, fieldType.Name(), field.Type.Span,
				))
				continue
			}
		}

		var fieldDefault *serialib.Default
		if field.Default != nil {
			fieldDefault = c.compileDefault(rec.Name, field, fieldType)
			if fieldDefault == nil {
				continue
			}
		}
		rec.Fields = append(rec.Fields, serialib.Field{
			Name:    field.Name,
			Type:    fieldType,
			Default: fieldDefault,
		})
	}
}

func (c *compiler) resolveTypeRef(recName string, field syntax.FieldDecl) *serialib.Type {
	ref := field.Type
	base := c.resolveTypeName(recName, field.Name, ref.Name, ref.NameSpan)
	if base == nil {
		return nil
	}
	if ref.Vector {
		return &serialib.Type{Kind: serialib.KindVector, Elem: base}
	}
	if ref.ArrayLen != nil {
		if *ref.ArrayLen > math.MaxUint32 {
			c.err(errArrayLenTooLarge(recName, field.Name, *ref.ArrayLen, ref.Span))
			return nil
		}
		return &serialib.Type{
			Kind:     serialib.KindArray,
			Elem:     base,
			ArrayLen: uint32(*ref.ArrayLen),
		}
	}
	return base
}

func (c *compiler) resolveTypeName(
	recName, fieldName, typeName string,
	span syntax.Span,
) *serialib.Type {
	if kind, ok := builtinTypes[typeName]; ok {
		return &serialib.Type{Kind: kind}
	}
	info, ok := c.declsByName[typeName]
	if !ok {
		c.err(errUnknownType(recName, fieldName, typeName, span))
		return nil
	}
	if info.enum != nil {
		return &serialib.Type{Kind: serialib.KindEnum, Enum: info.enum}
	}
	kind := serialib.KindStruct
	if info.record.Table {
		kind = serialib.KindTable
	}
	return &serialib.Type{Kind: kind, Record: info.record}
}

func (c *compiler) compileDefault(
	recName string,
	field syntax.FieldDecl,
	fieldType *serialib.Type,
) *serialib.Default {
	lit := field.Default
	span := lit.Span

	switch fieldType.Kind {
	case serialib.KindStruct, serialib.KindTable,
		serialib.KindVector, serialib.KindArray:
		c.err(errInvalidDefault(recName, field.Name, fieldType.Name(), span))
		return nil

	case serialib.KindString:
		if !lit.IsString {
			c.err(errDefaultTypeMismatch(
				recName, field.Name, "string", literalText(lit), span,
			))
			return nil
		}
		return &serialib.Default{Str: lit.Str, IsString: true}

	case serialib.KindBool:
		if lit.IsString || lit.Symbol != "" {
			c.err(errDefaultTypeMismatch(
				recName, field.Name, "boolean", literalText(lit), span,
			))
			return nil
		}
		if lit.Num > 1 {
			c.err(errDefaultOutOfRange(
				recName, field.Name, "bool", lit.Num, span,
			))
			return nil
		}
		return &serialib.Default{Num: lit.Num}

	case serialib.KindEnum:
		enum := fieldType.Enum
		if lit.IsString {
			c.err(errDefaultTypeMismatch(
				recName, field.Name, enum.Name, literalText(lit), span,
			))
			return nil
		}
		if lit.Symbol != "" {
			item, ok := enum.ItemByName(lit.Symbol)
			if !ok {
				c.err(errDefaultNotEnumMember(
					recName, field.Name, enum.Name, lit.Symbol, span,
				))
				return nil
			}
			return &serialib.Default{Num: item.Value}
		}
		for _, item := range enum.Items {
			if item.Value == lit.Num {
				return &serialib.Default{Num: lit.Num}
			}
		}
		c.err(errDefaultNotEnumMember(
			recName, field.Name, enum.Name, literalText(lit), span,
		))
		return nil
	}

	// Integer primitives. The grammar has no negative literals, so the
	// lower bound is always zero.
	if lit.IsString || lit.Symbol != "" {
		c.err(errDefaultTypeMismatch(
			recName, field.Name, fieldType.Name(), literalText(lit), span,
		))
		return nil
	}
	if lit.Num > scalarMax(fieldType.Kind) {
		c.err(errDefaultOutOfRange(
			recName, field.Name, fieldType.Name(), lit.Num, span,
		))
		return nil
	}
	return &serialib.Default{Num: lit.Num}
}

func literalText(lit *syntax.Literal) string {
	switch {
	case lit.IsString:
		return fmt.Sprintf("%q", lit.Str)
	case lit.Symbol != "":
		return fmt.Sprintf("'%s'", lit.Symbol)
	}
	return fmt.Sprintf("%d", lit.Num)
}

func scalarMax(kind serialib.Kind) uint64 {
	width := kind.ScalarWidth()
	if kind.Signed() {
		return uint64(1)<<(8*width-1) - 1
	}
	if width >= 8 {
		return math.MaxUint64
	}
	return uint64(1)<<(8*width) - 1
}

const (
	visitPending = iota
	visitActive
	visitDone
)

// checkStructCycles rejects struct graphs whose resolution would never
// terminate. Tables are excluded: a table field is stored by reference
// and self-delimited, so table recursion does not inflate any fixed
// size.
func (c *compiler) checkStructCycles() {
	state := make(map[*declInfo]int, len(c.decls))
	var path []string

	var visit func(info *declInfo) bool
	visit = func(info *declInfo) bool {
		switch state[info] {
		case visitDone:
			return true
		case visitActive:
			start := 0
			for i, name := range path {
				if name == info.record.Name {
					start = i
					break
				}
			}
			cycle := append(append([]string{}, path[start:]...), info.record.Name)
			c.err(errCyclicStruct(cycle, info.nameSpan))
			return false
		}
		state[info] = visitActive
		path = append(path, info.record.Name)
		for _, field := range info.fields {
			if field.Type.Vector || field.Type.ArrayLen != nil {
				continue
			}
			target, ok := c.declsByName[field.Type.Name]
			if !ok || target.record == nil || target.record.Table {
				continue
			}
			if !visit(target) {
				break
			}
		}
		path = path[:len(path)-1]
		state[info] = visitDone
		return true
	}

	for _, info := range c.decls {
		if info.record != nil && !info.record.Table {
			visit(info)
		}
	}
}
