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

// Package testutil holds test helpers shared by the engine's package
// tests.
package testutil

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/Miravalier/serialib"
	"github.com/Miravalier/serialib/compiler"
	"github.com/Miravalier/serialib/syntax"
)

// MustCompile parses and compiles IDL source, failing the test on any
// syntax or composition error.
func MustCompile(t *testing.T, src string) *serialib.Schema {
	t.Helper()
	parsed, err := syntax.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	result := compiler.Compile(parsed)
	for _, compileErr := range result.Errors {
		t.Errorf("Compile: %v", compileErr)
	}
	if len(result.Errors) > 0 {
		t.FailNow()
	}
	return result.Schema
}

// ExpectNoDiff fails with a unified diff when two multi-line strings
// differ.
func ExpectNoDiff(t *testing.T, a, b string) {
	t.Helper()
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:       difflib.SplitLines(a),
		B:       difflib.SplitLines(b),
		Context: 5,
	})
	if diff != "" {
		t.Error(diff)
	}
}

// ExpectPanic runs fn and fails the test unless it panics.
func ExpectPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Error("Expected panic, got: normal return")
		}
	}()
	fn()
}
