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

package serialib_test

import (
	"testing"

	"github.com/Miravalier/serialib"
	"github.com/Miravalier/serialib/internal/testutil"
)

func TestInstanceDebugString(t *testing.T) {
	t.Parallel()
	schema := testutil.MustCompile(t, spriteIDL + `
		table Scene {
			sprites: [Sprite];
			background: Sprite;
			tags: [string:3];
		}
	`)

	sprite := serialib.New(schema.Record("Sprite"))
	want := `Sprite {
  name: "sprite"
  color: GREEN
  visible: true
  origin: Point {
    x: 42
    y: 0
  }
  scale: 42
}`
	testutil.ExpectNoDiff(t, want, sprite.DebugString())

	scene := serialib.New(schema.Record("Scene"))
	scene.Set("sprites", serialib.List(serialib.Nested(sprite)))
	scene.Set("tags", serialib.List(serialib.String("a"), serialib.String("b")))
	want = `Scene {
  sprites: [Sprite {
    name: "sprite"
    color: GREEN
    visible: true
    origin: Point {
      x: 42
      y: 0
    }
    scale: 42
  }]
  background: null
  tags: ["a", "b"]
}`
	testutil.ExpectNoDiff(t, want, scene.DebugString())
}

func TestSchemaDebugString(t *testing.T) {
	t.Parallel()
	schema := testutil.MustCompile(t, spriteIDL)

	want := `enum Color : 1 bytes {
  RED = 0
  GREEN = 5
  BLUE = 6
}
struct Point : 8 bytes {
  @0    x: int32 (inline, 4 bytes) = 42
  @4    y: int32 (inline, 4 bytes)
}
table Sprite {
  name: string (length-prefixed) = "sprite"
  color: Color (inline, 1 bytes) = 5
  visible: bool (inline, 1 bytes) = 1
  origin: Point (inline, 8 bytes)
  scale: uint8 (inline, 1 bytes) = 42
}
`
	testutil.ExpectNoDiff(t, want, schema.DebugString())
}

func TestDebugStringPanicsAfterRelease(t *testing.T) {
	t.Parallel()
	schema := testutil.MustCompile(t, spriteIDL)

	sprite := serialib.New(schema.Record("Sprite"))
	sprite.Release()
	testutil.ExpectPanic(t, func() { sprite.DebugString() })
}
