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
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// cmdCheck parses and compiles schemas without producing output, for
// use in editor integrations and CI.
type cmdCheck struct{}

func (*cmdCheck) help() *commandHelp {
	return &commandHelp{
		usage:   "check SCHEMA...",
		summary: "Check schemas for errors without compiling output",
	}
}

func (*cmdCheck) flags(flags *pflag.FlagSet) {}

func (*cmdCheck) run(ctx context.Context, argv []string) int {
	if len(argv) == 0 {
		fmt.Fprintln(os.Stderr, "usage: serialib check SCHEMA...")
		return 1
	}
	status := 0
	for _, srcPath := range argv {
		if compileFile(srcPath) == nil {
			status = 1
		}
	}
	return status
}
