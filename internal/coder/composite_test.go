// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"testing"

	"go.e43.eu/xdrschema/internal/errors"
	"go.e43.eu/xdrschema/manifest"
)

func field(typ, ident string) manifest.Declaration {
	return manifest.Declaration{Type: typ, Identifier: ident}
}

func arm(label string, d manifest.Declaration) manifest.Arm {
	return manifest.Arm{Label: label, Declaration: d}
}

// testManifest is equivalent to:
//
//	enum Color { RED = 0, GREEN = 1, BLUE = 2 };
//	enum Sparse { ONE = 1, TEN = 10 };
//	typedef opaque hash[4];
//	typedef Point Location;
//	struct Point { int x; int y; };
//	struct Node { int value; Node *next; };
//	struct Bag { Point points<3>; int pair[2]; hash h; hash hs<2>; string *note; };
//	union Shape switch (Color kind) { case RED: void; case GREEN: int n; default: Point p; };
//	union Flag switch (bool set) { case TRUE: string s<>; case FALSE: void; };
//	union Num switch (unsigned int k) { case 1: hyper h; };
func testManifest() *manifest.Manifest {
	m := manifest.New("Point")
	m.Enums["Color"] = manifest.Enum{{Label: "RED", Value: 0}, {Label: "GREEN", Value: 1}, {Label: "BLUE", Value: 2}}
	m.Enums["Sparse"] = manifest.Enum{{Label: "ONE", Value: 1}, {Label: "TEN", Value: 10}}
	m.Typedefs["hash"] = fdecl("opaque", 4)
	m.Typedefs["Location"] = decl("Point")

	m.Structs["Point"] = manifest.Struct{field("int", "x"), field("int", "y")}
	m.Structs["Node"] = manifest.Struct{
		field("int", "value"),
		{Type: "Node", Identifier: "next", Optional: true},
	}
	m.Structs["Bag"] = manifest.Struct{
		{Type: "Point", Identifier: "points", Mode: manifest.ModeVariable, Length: 3},
		{Type: "int", Identifier: "pair", Mode: manifest.ModeFixed, Length: 2},
		field("hash", "h"),
		{Type: "hash", Identifier: "hs", Mode: manifest.ModeVariable, Length: 2},
		{Type: "string", Identifier: "note", Optional: true},
	}

	m.Unions["Shape"] = manifest.Union{
		Discriminant: manifest.Discriminant{Type: "Color", Identifier: "kind"},
		Arms: []manifest.Arm{
			arm("RED", decl("void")),
			arm("GREEN", field("int", "n")),
			arm(manifest.DefaultArm, field("Point", "p")),
		},
	}
	m.Unions["Flag"] = manifest.Union{
		Discriminant: manifest.Discriminant{Type: "bool", Identifier: "set"},
		Arms: []manifest.Arm{
			arm("TRUE", manifest.Declaration{Type: "string", Identifier: "s", Mode: manifest.ModeVariable, Length: manifest.Unbounded}),
			arm("FALSE", decl("void")),
		},
	}
	m.Unions["Num"] = manifest.Union{
		Discriminant: manifest.Discriminant{Type: "int", Identifier: "k", Unsigned: true},
		Arms:         []manifest.Arm{arm("1", field("hyper", "h"))},
	}
	return m
}

type obj = map[string]interface{}
type list = []interface{}

func point(x, y int32) obj {
	return obj{"x": x, "y": y}
}

func TestCodecsStruct(t *testing.T) {
	type goPoint struct {
		X int32
		Y int32
	}
	type taggedPoint struct {
		Horizontal int64 `xdr:"x"`
		Vertical   int   `xdr:"y"`
	}

	testcases := []testcase{
		{
			Name:   "Point",
			Decl:   decl("Point"),
			Object: point(3, -4),
			Bytes:  []byte{0, 0, 0, 3, 0xff, 0xff, 0xff, 0xfc},
		}, {
			Name:   "Point through typedef",
			Decl:   decl("Location"),
			Object: point(1, 2),
			Bytes:  []byte{0, 0, 0, 1, 0, 0, 0, 2},
		}, {
			Name:      "Point from Go struct",
			Direction: encodeTest,
			Decl:      decl("Point"),
			Object:    goPoint{X: 3, Y: -4},
			Bytes:     []byte{0, 0, 0, 3, 0xff, 0xff, 0xff, 0xfc},
		}, {
			Name:      "Point from tagged Go struct",
			Direction: encodeTest,
			Decl:      decl("Point"),
			Object:    taggedPoint{Horizontal: 3, Vertical: -4},
			Bytes:     []byte{0, 0, 0, 3, 0xff, 0xff, 0xff, 0xfc},
		}, {
			Name:      "Point from map[string]int32",
			Direction: encodeTest,
			Decl:      decl("Point"),
			Object:    map[string]int32{"x": 3, "y": -4},
			Bytes:     []byte{0, 0, 0, 3, 0xff, 0xff, 0xff, 0xfc},
		}, {
			Name:       "Point missing y",
			Direction:  encodeTest,
			Decl:       decl("Point"),
			Object:     obj{"x": int32(3)},
			EncErrorIs: errors.ErrMissingField,
		}, {
			Name:       "Point with nil y",
			Direction:  encodeTest,
			Decl:       decl("Point"),
			Object:     obj{"x": int32(3), "y": nil},
			EncErrorIs: errors.ErrMissingField,
		}, {
			Name:       "Point from int",
			Direction:  encodeTest,
			Decl:       decl("Point"),
			Object:     int32(3),
			EncErrorIs: errors.ErrInvalidValue,
		}, {
			Name:   "Node list",
			Decl:   decl("Node"),
			Object: obj{"value": int32(1), "next": obj{"value": int32(2)}},
			Bytes: []byte{
				0, 0, 0, 1,
				0, 0, 0, 1,
				0, 0, 0, 2,
				0, 0, 0, 0,
			},
		}, {
			Name: "Bag",
			Decl: decl("Bag"),
			Object: obj{
				"points": list{point(1, 2), point(3, 4)},
				"pair":   list{int32(5), int32(6)},
				"h":      []byte{1, 2, 3, 4},
				"hs":     list{[]byte{5, 6, 7, 8}},
			},
			Bytes: []byte{
				0, 0, 0, 2,
				0, 0, 0, 1, 0, 0, 0, 2,
				0, 0, 0, 3, 0, 0, 0, 4,
				0, 0, 0, 5, 0, 0, 0, 6,
				1, 2, 3, 4,
				0, 0, 0, 1, 5, 6, 7, 8,
				0, 0, 0, 0,
			},
		}, {
			Name: "Bag with note",
			Decl: decl("Bag"),
			Object: obj{
				"points": list{},
				"pair":   list{int32(0), int32(0)},
				"h":      []byte{0, 0, 0, 0},
				"hs":     list{},
				"note":   "hi",
			},
			Bytes: []byte{
				0, 0, 0, 0,
				0, 0, 0, 0, 0, 0, 0, 0,
				0, 0, 0, 0,
				0, 0, 0, 0,
				0, 0, 0, 1, 0, 0, 0, 2, 'h', 'i', 0, 0,
			},
		}, {
			Name:      "Bag from Go slices",
			Direction: encodeTest,
			Decl:      decl("Bag"),
			Object: obj{
				"points": []obj{point(1, 2)},
				"pair":   [2]int{5, 6},
				"h":      [4]byte{1, 2, 3, 4},
				"hs":     [][]byte{},
			},
			Bytes: []byte{
				0, 0, 0, 1,
				0, 0, 0, 1, 0, 0, 0, 2,
				0, 0, 0, 5, 0, 0, 0, 6,
				1, 2, 3, 4,
				0, 0, 0, 0,
				0, 0, 0, 0,
			},
		}, {
			Name:      "Bag with too many points",
			Direction: encodeTest,
			Decl:      decl("Bag"),
			Object: obj{
				"points": list{point(0, 0), point(0, 0), point(0, 0), point(0, 0)},
				"pair":   list{int32(0), int32(0)},
				"h":      []byte{0, 0, 0, 0},
				"hs":     list{},
			},
			EncErrorIs: errors.ErrLengthExceedsMax,
		}, {
			Name:       "Bag with 4 points",
			Direction:  decodeTest,
			Decl:       decl("Bag"),
			Object:     obj{},
			Bytes:      []byte{0, 0, 0, 4},
			DecErrorIs: errors.ErrLengthExceedsMax,
		}, {
			Name:      "Bag with three of a pair",
			Direction: encodeTest,
			Decl:      decl("Bag"),
			Object: obj{
				"points": list{},
				"pair":   list{int32(0), int32(0), int32(0)},
				"h":      []byte{0, 0, 0, 0},
				"hs":     list{},
			},
			EncErrorIs: errors.ErrLengthIncorrect,
		}, {
			Name:      "Bag with short hash",
			Direction: encodeTest,
			Decl:      decl("Bag"),
			Object: obj{
				"points": list{},
				"pair":   list{int32(0), int32(0)},
				"h":      []byte{0, 0, 0},
				"hs":     list{},
			},
			EncErrorIs: errors.ErrLengthIncorrect,
		},
	}

	RunTestcases(t, testManifest(), testcases)
}

func TestCodecsEnum(t *testing.T) {
	testcases := []testcase{
		{
			Name:   "GREEN",
			Decl:   decl("Color"),
			Object: "GREEN",
			Bytes:  []byte{0, 0, 0, 1},
		}, {
			Name:      "BLUE by value",
			Direction: encodeTest,
			Decl:      decl("Color"),
			Object:    2,
			Bytes:     []byte{0, 0, 0, 2},
		}, {
			Name:      "BLUE by value string",
			Direction: encodeTest,
			Decl:      decl("Color"),
			Object:    "2",
			Bytes:     []byte{0, 0, 0, 2},
		}, {
			Name:       "PURPLE",
			Direction:  encodeTest,
			Decl:       decl("Color"),
			Object:     "PURPLE",
			EncErrorIs: errors.ErrInvalidValue,
		}, {
			Name:       "undefined value",
			Direction:  encodeTest,
			Decl:       decl("Color"),
			Object:     7,
			EncErrorIs: errors.ErrInvalidValue,
		}, {
			Name:      "undefined falls back to zero label",
			Direction: decodeTest,
			Decl:      decl("Color"),
			Object:    "RED",
			Bytes:     []byte{0, 0, 0, 99},
		}, {
			Name:      "undefined falls back to lowest label",
			Direction: decodeTest,
			Decl:      decl("Sparse"),
			Object:    "ONE",
			Bytes:     []byte{0, 0, 0, 5},
		}, {
			Name:       "undefined when strict",
			Direction:  decodeTest,
			Decl:       decl("Color"),
			Options:    Options{Strict: true},
			Object:     "RED",
			Bytes:      []byte{0, 0, 0, 99},
			DecErrorIs: errors.ErrUnknownEnumValue,
		}, {
			Name:   "TEN",
			Decl:   decl("Sparse"),
			Object: "TEN",
			Bytes:  []byte{0, 0, 0, 10},
		},
	}

	RunTestcases(t, testManifest(), testcases)
}

func TestCodecsUnion(t *testing.T) {
	testcases := []testcase{
		{
			Name:   "Shape void arm",
			Decl:   decl("Shape"),
			Object: obj{"kind": "RED"},
			Bytes:  []byte{0, 0, 0, 0},
		}, {
			Name:   "Shape int arm",
			Decl:   decl("Shape"),
			Object: obj{"kind": "GREEN", "n": int32(7)},
			Bytes:  []byte{0, 0, 0, 1, 0, 0, 0, 7},
		}, {
			Name:   "Shape default arm",
			Decl:   decl("Shape"),
			Object: obj{"kind": "BLUE", "p": point(1, -1)},
			Bytes:  []byte{0, 0, 0, 2, 0, 0, 0, 1, 0xff, 0xff, 0xff, 0xff},
		}, {
			Name:       "Shape missing arm",
			Direction:  encodeTest,
			Decl:       decl("Shape"),
			Object:     obj{"kind": "GREEN"},
			EncErrorIs: errors.ErrMissingField,
		}, {
			Name:       "Shape missing discriminant",
			Direction:  encodeTest,
			Decl:       decl("Shape"),
			Object:     obj{"n": int32(1)},
			EncErrorIs: errors.ErrMissingField,
		}, {
			Name:      "Shape undefined discriminant",
			Direction: decodeTest,
			Decl:      decl("Shape"),
			Object:    obj{"kind": "RED"},
			Bytes:     []byte{0, 0, 0, 99},
		}, {
			Name:       "Shape undefined discriminant when strict",
			Direction:  decodeTest,
			Decl:       decl("Shape"),
			Options:    Options{Strict: true},
			Object:     obj{},
			Bytes:      []byte{0, 0, 0, 99},
			DecErrorIs: errors.ErrUnknownEnumValue,
		}, {
			Name:   "Flag set",
			Decl:   decl("Flag"),
			Object: obj{"set": true, "s": "hi"},
			Bytes:  []byte{0, 0, 0, 1, 0, 0, 0, 2, 'h', 'i', 0, 0},
		}, {
			Name:   "Flag unset",
			Decl:   decl("Flag"),
			Object: obj{"set": false},
			Bytes:  []byte{0, 0, 0, 0},
		}, {
			Name:   "Num",
			Decl:   decl("Num"),
			Object: obj{"k": uint32(1), "h": int64(5)},
			Bytes:  []byte{0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 5},
		}, {
			Name:       "Num undefined arm",
			Decl:       decl("Num"),
			Object:     obj{"k": uint32(2), "h": int64(5)},
			Bytes:      []byte{0, 0, 0, 2},
			EncErrorIs: errors.ErrUnionSwitchArmUndefined,
			DecErrorIs: errors.ErrUnionSwitchArmUndefined,
		},
	}

	RunTestcases(t, testManifest(), testcases)
}
