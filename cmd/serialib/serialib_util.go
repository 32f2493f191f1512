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

package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Miravalier/serialib"
	"github.com/Miravalier/serialib/compiler"
	"github.com/Miravalier/serialib/syntax"
)

// diagnostic prints a compiler or syntax message with its source
// location, as "path:line:col: message".
func diagnostic(srcPath string, src []byte, span syntax.Span, message string) {
	line, col := span.Position(src)
	fmt.Fprintf(os.Stderr, "%s:%d:%d: %s\n", srcPath, line, col, message)
}

// compileFile parses and compiles one schema file, printing every
// diagnostic. It returns nil when the schema has errors.
func compileFile(srcPath string) *serialib.Schema {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil
	}

	parsed, err := syntax.Parse(src)
	if err != nil {
		if syntaxErr, ok := err.(*syntax.Error); ok {
			diagnostic(srcPath, src, syntaxErr.Span(), syntaxErr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return nil
	}
	log().Debug("parsed schema",
		zap.String("path", srcPath),
		zap.Int("decls", len(parsed.Decls)),
	)

	result := compiler.Compile(parsed)
	for _, warn := range result.Warnings {
		diagnostic(srcPath, src, warn.Span(), warn.String())
	}
	if len(result.Errors) > 0 {
		for _, err := range result.Errors {
			diagnostic(srcPath, src, err.Span(), err.Error())
		}
		return nil
	}
	log().Debug("compiled schema",
		zap.String("path", srcPath),
		zap.Int("enums", len(result.Schema.Enums)),
		zap.Int("records", len(result.Schema.Records)),
	)
	return result.Schema
}
