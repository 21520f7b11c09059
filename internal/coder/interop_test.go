// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"bytes"
	"testing"

	xdr "github.com/rasky/go-xdr/xdr2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.e43.eu/xdrschema/manifest"
)

type wirePoint struct {
	X int32
	Y int32
}

type wireRecord struct {
	ID    int32
	Count uint32
	Big   int64
	Flag  bool
	Name  string
	Data  []byte
	Hash  [4]byte
	Items []int32
	Ratio float64
	Kind  int32
	Pos   wirePoint
}

// wireManifest describes wireRecord:
//
//	struct Record {
//	    int id; unsigned int count; hyper big; bool flag; string name<>;
//	    opaque data<>; opaque hash[4]; int items<>; double ratio;
//	    Color kind; Point pos;
//	};
func wireManifest() *manifest.Manifest {
	m := testManifest()
	m.Entry = "Record"
	m.Structs["Record"] = manifest.Struct{
		field("int", "id"),
		{Type: "int", Identifier: "count", Unsigned: true},
		field("hyper", "big"),
		field("bool", "flag"),
		{Type: "string", Identifier: "name", Mode: manifest.ModeVariable, Length: manifest.Unbounded},
		{Type: "opaque", Identifier: "data", Mode: manifest.ModeVariable, Length: manifest.Unbounded},
		{Type: "opaque", Identifier: "hash", Mode: manifest.ModeFixed, Length: 4},
		{Type: "int", Identifier: "items", Mode: manifest.ModeVariable, Length: manifest.Unbounded},
		field("double", "ratio"),
		field("Color", "kind"),
		field("Point", "pos"),
	}
	return m
}

func TestInteropWithReflectiveCodec(t *testing.T) {
	rec := wireRecord{
		ID:    -7,
		Count: 3000000000,
		Big:   1 << 40,
		Flag:  true,
		Name:  "xdr",
		Data:  []byte{1, 2, 3, 4, 5},
		Hash:  [4]byte{0xde, 0xad, 0xbe, 0xef},
		Items: []int32{1, -1},
		Ratio: 0.25,
		Kind:  2,
		Pos:   wirePoint{X: 10, Y: 20},
	}
	native := obj{
		"id":    int32(-7),
		"count": uint32(3000000000),
		"big":   int64(1 << 40),
		"flag":  true,
		"name":  "xdr",
		"data":  []byte{1, 2, 3, 4, 5},
		"hash":  []byte{0xde, 0xad, 0xbe, 0xef},
		"items": list{int32(1), int32(-1)},
		"ratio": 0.25,
		"kind":  "BLUE",
		"pos":   point(10, 20),
	}

	var expected bytes.Buffer
	_, err := xdr.Marshal(&expected, &rec)
	require.NoError(t, err)

	cr := NewCoder(wireManifest(), Options{})

	t.Run("Decode", func(t *testing.T) {
		v, err := cr.Unmarshal(expected.Bytes())
		require.NoError(t, err)
		assert.Equal(t, native, v)
	})

	t.Run("Encode", func(t *testing.T) {
		b, err := cr.Marshal(native)
		require.NoError(t, err)
		assert.Equal(t, expected.Bytes(), b)

		var back wireRecord
		_, err = xdr.Unmarshal(bytes.NewReader(b), &back)
		require.NoError(t, err)
		assert.Equal(t, rec, back)
	})

	t.Run("EncodeGoStruct", func(t *testing.T) {
		// Field names match case insensitively and values convert
		b, err := cr.Marshal(rec)
		require.NoError(t, err)
		assert.Equal(t, expected.Bytes(), b)
	})
}
