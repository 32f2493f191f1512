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
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Miravalier/serialib/schemabin"
)

type cmdCompile struct {
	outPath string
	format  string
}

func (*cmdCompile) help() *commandHelp {
	return &commandHelp{
		usage:   "compile SCHEMA",
		summary: "Compile a schema to its binary or text form",
	}
}

func (cmd *cmdCompile) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outPath, "output", "o", "", "output path (default stdout)")
	flags.StringVarP(&cmd.format, "format", "f", "", "output format, 'text' or 'binary'")
}

func (cmd *cmdCompile) run(ctx context.Context, argv []string) int {
	if len(argv) != 1 {
		fmt.Fprintln(os.Stderr, "usage: serialib compile [options] SCHEMA")
		return 1
	}
	srcPath := argv[0]

	outputText := false
	switch cmd.format {
	case "":
		// Guess from the output path extension when possible.
		switch filepath.Ext(cmd.outPath) {
		case ".txt":
			outputText = true
		case ".bin":
		default:
			fmt.Fprintln(os.Stderr, "No format selected (choose 'text' or 'binary')")
			return 1
		}
	case "text":
		outputText = true
	case "bin", "binary":
	default:
		fmt.Fprintf(os.Stderr, "Unsupported output format %q\n", cmd.format)
		return 1
	}

	schema := compileFile(srcPath)
	if schema == nil {
		return 1
	}

	var output []byte
	if outputText {
		output = []byte(schema.DebugString())
	} else {
		output = schemabin.Encode(schema)
	}
	log().Debug("encoded schema",
		zap.Bool("text", outputText),
		zap.Int("bytes", len(output)),
	)

	if cmd.outPath == "" {
		if _, err := os.Stdout.Write(output); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(cmd.outPath, output, 0o666); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
