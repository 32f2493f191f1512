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

// Package serialib is the runtime for schemas compiled from the serialib
// interface-definition language. A compiled [Schema] holds type
// descriptors with their layout plans; [Instance] values built from
// those descriptors encode to and decode from a deterministic
// little-endian wire format.
//
// The compiler lives in the companion packages: syntax parses IDL text
// into an AST, and compiler resolves and lays out the AST into a
// *Schema. At run time only this package executes.
package serialib

import (
	"encoding/binary"
)

const (
	// MaxDecodeDepth bounds recursion through nested tables during
	// decode and verify. Table type graphs may be cyclic, so depth is
	// limited by policy rather than by the schema.
	MaxDecodeDepth = 64
)

func leUint16(buf []byte) uint16 {
	return binary.LittleEndian.Uint16(buf)
}

func leUint32(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf)
}

func leUint64(buf []byte) uint64 {
	return binary.LittleEndian.Uint64(buf)
}

func lePutUint16(buf []byte, v uint16) {
	binary.LittleEndian.PutUint16(buf, v)
}

func lePutUint32(buf []byte, v uint32) {
	binary.LittleEndian.PutUint32(buf, v)
}

func lePutUint64(buf []byte, v uint64) {
	binary.LittleEndian.PutUint64(buf, v)
}
