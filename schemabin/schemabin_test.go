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

package schemabin_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Miravalier/serialib"
	"github.com/Miravalier/serialib/compiler"
	"github.com/Miravalier/serialib/schemabin"
	"github.com/Miravalier/serialib/syntax"
)

const testIDL = `
enum Suit : uint8 {
	CLUBS,
	DIAMONDS,
	HEARTS,
	SPADES
}

struct Card {
	suit: Suit = HEARTS;
	rank: uint8 = 1;
}

table Hand {
	owner: string = "dealer";
	cards: [Card];
	reserve: [Card:2];
	sorted: bool;
}

table Game {
	hands: [Hand];
	next: Game;
}
`

func compileTestSchema(t *testing.T) *serialib.Schema {
	t.Helper()
	parsed, err := syntax.Parse([]byte(testIDL))
	require.NoError(t, err)
	result := compiler.Compile(parsed)
	require.Empty(t, result.Errors)
	return result.Schema
}

func TestSchemaRoundTrip(t *testing.T) {
	t.Parallel()

	schema := compileTestSchema(t)
	encoded := schemabin.Encode(schema)
	require.NotEmpty(t, encoded)

	decoded, err := schemabin.Decode(encoded)
	require.NoError(t, err)

	suit := decoded.Enum("Suit")
	require.NotNil(t, suit)
	require.Equal(t, 1, suit.Width)
	require.Equal(t, schema.Enum("Suit").Items, suit.Items)

	card := decoded.Record("Card")
	require.NotNil(t, card)
	require.False(t, card.Table)
	require.Equal(t, 2, card.ByteWidth())
	field, ok := card.Field("suit")
	require.True(t, ok)
	require.Equal(t, serialib.KindEnum, field.Type.Kind)
	require.Same(t, suit, field.Type.Enum)
	require.Equal(t, &serialib.Default{Num: 2}, field.Default)

	hand := decoded.Record("Hand")
	require.NotNil(t, hand)
	require.True(t, hand.Table)
	field, ok = hand.Field("owner")
	require.True(t, ok)
	require.Equal(t, &serialib.Default{Str: "dealer", IsString: true}, field.Default)
	field, ok = hand.Field("reserve")
	require.True(t, ok)
	require.Equal(t, serialib.KindArray, field.Type.Kind)
	require.Equal(t, uint32(2), field.Type.ArrayLen)
	require.Same(t, card, field.Type.Elem.Record)

	// Self-referencing table survives the round trip.
	game := decoded.Record("Game")
	field, ok = game.Field("next")
	require.True(t, ok)
	require.Same(t, game, field.Type.Record)
}

func TestReencodeIsByteExact(t *testing.T) {
	t.Parallel()

	schema := compileTestSchema(t)
	encoded := schemabin.Encode(schema)

	decoded, err := schemabin.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, encoded, schemabin.Encode(decoded))
}

func TestDecodedSchemaIsUsable(t *testing.T) {
	t.Parallel()

	schema := compileTestSchema(t)
	decoded, err := schemabin.Decode(schemabin.Encode(schema))
	require.NoError(t, err)

	hand := serialib.New(decoded.Record("Hand"))
	card := serialib.New(decoded.Record("Card"))
	card.Set("rank", serialib.Uint64(13))
	hand.Set("cards", serialib.List(serialib.Nested(card)))
	hand.Set("sorted", serialib.Bool(true))

	buf := hand.Encode()
	back, err := serialib.Decode(decoded.Record("Hand"), buf)
	require.NoError(t, err)
	require.True(t, hand.Equal(back))
	back.Release()
	hand.Release()
}

func TestDecodeRejectsDanglingReference(t *testing.T) {
	t.Parallel()

	// A descriptor graph whose field references a record that is not
	// part of the schema. Decode must fail rather than rebuild a
	// schema with a dangling reference.
	schema := &serialib.Schema{
		Records: []*serialib.Record{{
			Name:  "Holder",
			Table: true,
			Fields: []serialib.Field{{
				Name: "p",
				Type: &serialib.Type{
					Kind:   serialib.KindStruct,
					Record: &serialib.Record{Name: "Ghost"},
				},
			}},
		}},
	}
	encoded := schemabin.Encode(schema)
	_, err := schemabin.Decode(encoded)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Ghost")
}

func TestDecodeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := schemabin.Decode([]byte{0xFF, 0xFF, 0xFF})
	require.Error(t, err)
}

// Descriptor input is untrusted: invariants the compiler enforces on
// IDL source must hold for decoded descriptors too.
func TestDecodeRejectsInvalidDescriptors(t *testing.T) {
	t.Parallel()

	encode := func(schema *serialib.Schema) []byte {
		return schemabin.Encode(schema)
	}

	t.Run("enum width", func(t *testing.T) {
		t.Parallel()
		buf := encode(&serialib.Schema{
			Enums: []*serialib.Enum{{
				Name:  "E",
				Width: 3,
				Items: []serialib.EnumItem{{Name: "A", Value: 0}},
			}},
		})
		_, err := schemabin.Decode(buf)
		require.Error(t, err)
		require.Contains(t, err.Error(), "width")
	})

	t.Run("item exceeds width", func(t *testing.T) {
		t.Parallel()
		buf := encode(&serialib.Schema{
			Enums: []*serialib.Enum{{
				Name:  "E",
				Width: 1,
				Items: []serialib.EnumItem{{Name: "BIG", Value: 300}},
			}},
		})
		_, err := schemabin.Decode(buf)
		require.Error(t, err)
		require.Contains(t, err.Error(), "BIG")
	})

	t.Run("nested containers", func(t *testing.T) {
		t.Parallel()
		buf := encode(&serialib.Schema{
			Records: []*serialib.Record{{
				Name:  "R",
				Table: true,
				Fields: []serialib.Field{{
					Name: "xs",
					Type: &serialib.Type{
						Kind: serialib.KindVector,
						Elem: &serialib.Type{
							Kind: serialib.KindVector,
							Elem: &serialib.Type{Kind: serialib.KindU8},
						},
					},
				}},
			}},
		})
		_, err := schemabin.Decode(buf)
		require.Error(t, err)
		require.Contains(t, err.Error(), "nests container")
	})

	t.Run("record without fields", func(t *testing.T) {
		t.Parallel()
		buf := encode(&serialib.Schema{
			Records: []*serialib.Record{{Name: "Empty", Table: true}},
		})
		_, err := schemabin.Decode(buf)
		require.Error(t, err)
		require.Contains(t, err.Error(), "Empty")
	})
}
