// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"math"
	"testing"

	"go.e43.eu/xdrschema/internal/errors"
	"go.e43.eu/xdrschema/manifest"
)

func vdecl(typ string, max uint32) manifest.Declaration {
	return manifest.Declaration{Type: typ, Mode: manifest.ModeVariable, Length: max}
}

func fdecl(typ string, n uint32) manifest.Declaration {
	return manifest.Declaration{Type: typ, Mode: manifest.ModeFixed, Length: n}
}

func TestCodecsPrimitive(t *testing.T) {
	unsignedInt := manifest.Declaration{Type: "int", Unsigned: true}
	uhyper := manifest.Declaration{Type: "hyper", Unsigned: true}

	testcases := []testcase{
		{
			Name:   "bool false",
			Decl:   decl("bool"),
			Object: false,
			Bytes:  []byte{0, 0, 0, 0},
		}, {
			Name:   "bool true",
			Decl:   decl("bool"),
			Object: true,
			Bytes:  []byte{0, 0, 0, 1},
		}, {
			Name:       "bool ???",
			Direction:  decodeTest,
			Decl:       decl("bool"),
			Object:     true,
			Bytes:      []byte{0, 0, 0, 2},
			DecErrorIs: errors.ErrInvalidValue,
		}, {
			Name:      "bool from string",
			Direction: encodeTest,
			Decl:      decl("bool"),
			Object:    "true",
			Bytes:     []byte{0, 0, 0, 1},
		}, {
			Name:   "int -1",
			Decl:   decl("int"),
			Object: int32(-1),
			Bytes:  []byte{0xff, 0xff, 0xff, 0xff},
		}, {
			Name:   "int 1",
			Decl:   decl("int"),
			Object: int32(1),
			Bytes:  []byte{0, 0, 0, 1},
		}, {
			Name:      "int from int",
			Direction: encodeTest,
			Decl:      decl("int"),
			Object:    258,
			Bytes:     []byte{0, 0, 1, 2},
		}, {
			Name:      "int from integral float",
			Direction: encodeTest,
			Decl:      decl("int"),
			Object:    float64(-2),
			Bytes:     []byte{0xff, 0xff, 0xff, 0xfe},
		}, {
			Name:       "int out of range",
			Direction:  encodeTest,
			Decl:       decl("int"),
			Object:     int64(math.MaxInt32) + 1,
			EncErrorIs: errors.ErrInvalidValue,
		}, {
			Name:       "int from fraction",
			Direction:  encodeTest,
			Decl:       decl("int"),
			Object:     1.5,
			EncErrorIs: errors.ErrInvalidValue,
		}, {
			Name:   "unsigned int max",
			Decl:   unsignedInt,
			Object: uint32(math.MaxUint32),
			Bytes:  []byte{0xff, 0xff, 0xff, 0xff},
		}, {
			Name:       "unsigned int negative",
			Direction:  encodeTest,
			Decl:       unsignedInt,
			Object:     int32(-1),
			EncErrorIs: errors.ErrInvalidValue,
		}, {
			Name:   "hyper -2",
			Decl:   decl("hyper"),
			Object: int64(-2),
			Bytes:  []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe},
		}, {
			Name:   "unsigned hyper",
			Decl:   uhyper,
			Object: uint64(0x0102030405060708),
			Bytes:  []byte{1, 2, 3, 4, 5, 6, 7, 8},
		}, {
			Name:   "float 1.5",
			Decl:   decl("float"),
			Object: float32(1.5),
			Bytes:  []byte{0x3f, 0xc0, 0, 0},
		}, {
			Name:       "float out of range",
			Direction:  encodeTest,
			Decl:       decl("float"),
			Object:     float64(1e39),
			EncErrorIs: errors.ErrInvalidValue,
		}, {
			Name:       "float negative out of range",
			Direction:  encodeTest,
			Decl:       decl("float"),
			Object:     -math.MaxFloat64,
			EncErrorIs: errors.ErrInvalidValue,
		}, {
			Name:      "float infinity",
			Direction: encodeTest,
			Decl:      decl("float"),
			Object:    math.Inf(1),
			Bytes:     []byte{0x7f, 0x80, 0, 0},
		}, {
			Name:   "double -2",
			Decl:   decl("double"),
			Object: float64(-2),
			Bytes:  []byte{0xc0, 0, 0, 0, 0, 0, 0, 0},
		}, {
			Name:      "double NaN",
			Direction: decodeTest,
			Decl:      decl("double"),
			Object:    math.NaN(),
			Bytes:     []byte{0x7f, 0xf8, 0, 0, 0, 0, 0, 1},
			DecodeComparator: func(t *testing.T, _, actual interface{}) {
				if f, ok := actual.(float64); !ok || !math.IsNaN(f) {
					t.Errorf("expected NaN, got %v", actual)
				}
			},
		}, {
			Name:   "void",
			Decl:   decl("void"),
			Object: nil,
			Bytes:  []byte{},
		}, {
			Name:       "void with value",
			Direction:  encodeTest,
			Decl:       decl("void"),
			Object:     int32(1),
			EncErrorIs: errors.ErrInvalidValue,
		}, {
			Name:       "quadruple",
			Decl:       decl("quadruple"),
			Object:     float64(1),
			Bytes:      make([]byte, 16),
			EncErrorIs: errors.ErrUnsupportedType,
			DecErrorIs: errors.ErrUnsupportedType,
		}, {
			Name:       "int short",
			Direction:  decodeTest,
			Decl:       decl("int"),
			Object:     int32(0),
			Bytes:      []byte{0, 0},
			DecErrorIs: errors.ErrInsufficientBytes,
		}, {
			Name:       "unknown type",
			Decl:       decl("nope"),
			Object:     int32(0),
			Bytes:      []byte{0, 0, 0, 0},
			EncErrorIs: errors.ErrUnknownType,
			DecErrorIs: errors.ErrUnknownType,
		},
	}

	RunTestcases(t, manifest.New(""), testcases)
}

func TestCodecsOpaque(t *testing.T) {
	testcases := []testcase{
		{
			Name:   "string",
			Decl:   decl("string"),
			Object: "hello",
			Bytes:  []byte{0, 0, 0, 5, 'h', 'e', 'l', 'l', 'o', 0, 0, 0},
		}, {
			Name:   "string empty",
			Decl:   vdecl("string", manifest.Unbounded),
			Object: "",
			Bytes:  []byte{0, 0, 0, 0},
		}, {
			Name:       "string<4> too long",
			Decl:       vdecl("string", 4),
			Object:     "hello",
			Bytes:      []byte{0, 0, 0, 5, 'h', 'e', 'l', 'l', 'o', 0, 0, 0},
			EncErrorIs: errors.ErrLengthExceedsMax,
			DecErrorIs: errors.ErrLengthExceedsMax,
		}, {
			Name:   "string[4]",
			Decl:   fdecl("string", 4),
			Object: "abcd",
			Bytes:  []byte{'a', 'b', 'c', 'd'},
		}, {
			Name:       "string[4] short",
			Direction:  encodeTest,
			Decl:       fdecl("string", 4),
			Object:     "abc",
			EncErrorIs: errors.ErrLengthIncorrect,
		}, {
			Name:   "opaque<8>",
			Decl:   vdecl("opaque", 8),
			Object: []byte{1, 2, 3, 4, 5},
			Bytes:  []byte{0, 0, 0, 5, 1, 2, 3, 4, 5, 0, 0, 0},
		}, {
			Name:      "opaque<8> from string",
			Direction: encodeTest,
			Decl:      vdecl("opaque", 8),
			Object:    "ab",
			Bytes:     []byte{0, 0, 0, 2, 'a', 'b', 0, 0},
		}, {
			Name:      "opaque<8> from byte list",
			Direction: encodeTest,
			Decl:      vdecl("opaque", 8),
			Object:    []interface{}{1, 2.0, uint8(3)},
			Bytes:     []byte{0, 0, 0, 3, 1, 2, 3, 0},
		}, {
			Name:       "opaque<8> with big byte",
			Direction:  encodeTest,
			Decl:       vdecl("opaque", 8),
			Object:     []interface{}{256},
			EncErrorIs: errors.ErrInvalidValue,
		}, {
			Name:          "opaque<8> length 9",
			Direction:     decodeTest,
			Decl:          vdecl("opaque", 8),
			Object:        []byte{},
			ReaderFactory: infinitelyPaddedReaderFactory([]byte{0, 0, 0, 9}),
			DecErrorIs:    errors.ErrLengthExceedsMax,
		}, {
			Name:       "opaque<> truncated",
			Direction:  decodeTest,
			Decl:       vdecl("opaque", manifest.Unbounded),
			Object:     []byte{},
			Bytes:      []byte{0, 0, 0, 100, 1, 2, 3, 4},
			DecErrorIs: errors.ErrInsufficientBytes,
		}, {
			Name:   "opaque[6]",
			Decl:   fdecl("opaque", 6),
			Object: []byte{1, 2, 3, 4, 5, 6},
			Bytes:  []byte{1, 2, 3, 4, 5, 6, 0, 0},
		}, {
			Name:      "opaque[4] from array",
			Direction: encodeTest,
			Decl:      fdecl("opaque", 4),
			Object:    [4]byte{9, 8, 7, 6},
			Bytes:     []byte{9, 8, 7, 6},
		}, {
			Name:       "opaque[32] short",
			Direction:  encodeTest,
			Decl:       fdecl("opaque", 32),
			Object:     make([]byte, 31),
			EncErrorIs: errors.ErrLengthIncorrect,
		}, {
			Name:       "string from int",
			Direction:  encodeTest,
			Decl:       decl("string"),
			Object:     int32(1),
			EncErrorIs: errors.ErrInvalidValue,
		},
	}

	RunTestcases(t, manifest.New(""), testcases)
}
