// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package interchange serializes manifests as TypeCollections.
//
// A TypeCollection is itself an XDR type, described by the manifest
// returned by TypeCollection, so a set of manifests can be shipped in XDR
// using the same codec which they drive. The same structure is also
// available as JSON and YAML.
package interchange

import (
	"go.e43.eu/xdrschema/manifest"
)

// Namespace of the TypeCollection manifest
const Namespace = "_core"

// Labels of the LengthMode enum
const (
	ModeNone     = "none"
	ModeFixed    = "fixed"
	ModeVariable = "variable"
)

// Parameters carries the array, optional and signedness markers of a
// declaration. It is omitted when a declaration has none.
type Parameters struct {
	Length   uint32 `xdr:"length" json:"length" yaml:"length"`
	Mode     string `xdr:"mode" json:"mode" yaml:"mode"`
	Optional bool   `xdr:"optional" json:"optional" yaml:"optional"`
	Unsigned bool   `xdr:"unsigned" json:"unsigned" yaml:"unsigned"`
}

type PropertyParameters struct {
	Type       string      `xdr:"type" json:"type" yaml:"type"`
	Identifier string      `xdr:"identifier" json:"identifier" yaml:"identifier"`
	Parameters *Parameters `xdr:"parameters" json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

type TypeParameters struct {
	Type       string      `xdr:"type" json:"type" yaml:"type"`
	Parameters *Parameters `xdr:"parameters" json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

type Discriminant struct {
	Type       string `xdr:"type" json:"type" yaml:"type"`
	Identifier string `xdr:"identifier" json:"identifier" yaml:"identifier"`
	Unsigned   bool   `xdr:"unsigned" json:"unsigned" yaml:"unsigned"`
}

type ArmParameters struct {
	Type       string      `xdr:"type" json:"type" yaml:"type"`
	Arm        string      `xdr:"arm" json:"arm" yaml:"arm"`
	Identifier *string     `xdr:"identifier" json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Parameters *Parameters `xdr:"parameters" json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

type EnumPair struct {
	Value      int32  `xdr:"value" json:"value" yaml:"value"`
	Identifier string `xdr:"identifier" json:"identifier" yaml:"identifier"`
}

type EnumEntry struct {
	Key  string     `xdr:"key" json:"key" yaml:"key"`
	Body []EnumPair `xdr:"body" json:"body" yaml:"body"`
}

type StructEntry struct {
	Key        string               `xdr:"key" json:"key" yaml:"key"`
	Properties []PropertyParameters `xdr:"properties" json:"properties" yaml:"properties"`
}

type TypeDefEntry struct {
	Key         string         `xdr:"key" json:"key" yaml:"key"`
	Declaration TypeParameters `xdr:"declaration" json:"declaration" yaml:"declaration"`
}

type UnionEntry struct {
	Key          string          `xdr:"key" json:"key" yaml:"key"`
	Discriminant Discriminant    `xdr:"discriminant" json:"discriminant" yaml:"discriminant"`
	Arms         []ArmParameters `xdr:"arms" json:"arms" yaml:"arms"`
}

// TypeLibrary holds every type definition of a collection, once each
type TypeLibrary struct {
	Enums    []EnumEntry    `xdr:"enums" json:"enums" yaml:"enums"`
	Structs  []StructEntry  `xdr:"structs" json:"structs" yaml:"structs"`
	Typedefs []TypeDefEntry `xdr:"typedefs" json:"typedefs" yaml:"typedefs"`
	Unions   []UnionEntry   `xdr:"unions" json:"unions" yaml:"unions"`
}

// TypeManifest lists, by name, the library types one manifest uses
type TypeManifest struct {
	Entry     string   `xdr:"entry" json:"entry" yaml:"entry"`
	Enums     []string `xdr:"enums" json:"enums" yaml:"enums"`
	Name      string   `xdr:"name" json:"name" yaml:"name"`
	Namespace *string  `xdr:"namespace" json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Structs   []string `xdr:"structs" json:"structs" yaml:"structs"`
	Typedefs  []string `xdr:"typedefs" json:"typedefs" yaml:"typedefs"`
	Unions    []string `xdr:"unions" json:"unions" yaml:"unions"`
}

type TypeEntry struct {
	Key      string       `xdr:"key" json:"key" yaml:"key"`
	Manifest TypeManifest `xdr:"manifest" json:"manifest" yaml:"manifest"`
}

// Collection is the native form of a TypeCollection
type Collection struct {
	Library TypeLibrary `xdr:"library" json:"library" yaml:"library"`
	Types   []TypeEntry `xdr:"types" json:"types" yaml:"types"`
}

func field(typ, ident string) manifest.Declaration {
	return manifest.Declaration{Type: typ, Identifier: ident}
}

func list(typ, ident string) manifest.Declaration {
	return manifest.Declaration{Type: typ, Identifier: ident, Mode: manifest.ModeVariable, Length: manifest.Unbounded}
}

func optional(typ, ident string) manifest.Declaration {
	return manifest.Declaration{Type: typ, Identifier: ident, Optional: true}
}

func unsigned(ident string) manifest.Declaration {
	return manifest.Declaration{Type: "int", Identifier: ident, Unsigned: true}
}

// TypeCollection returns the manifest describing a TypeCollection. It is
// equivalent to compiling:
//
//	namespace _core {
//	    typedef string Name<>;
//	    enum LengthMode { none = 0, fixed = 1, variable = 2 };
//	    struct Parameters { unsigned int length; LengthMode mode; bool optional; bool unsigned; };
//	    struct PropertyParameters { Name type; Name identifier; Parameters *parameters; };
//	    struct TypeParameters { Name type; Parameters *parameters; };
//	    struct Discriminant { Name type; Name identifier; bool unsigned; };
//	    struct ArmParameters { Name type; Name arm; Name *identifier; Parameters *parameters; };
//	    struct EnumPair { int value; Name identifier; };
//	    struct EnumEntry { Name key; EnumPair body<>; };
//	    struct StructEntry { Name key; PropertyParameters properties<>; };
//	    struct TypeDefEntry { Name key; TypeParameters declaration; };
//	    struct UnionEntry { Name key; Discriminant discriminant; ArmParameters arms<>; };
//	    struct TypeLibrary { EnumEntry enums<>; StructEntry structs<>; TypeDefEntry typedefs<>; UnionEntry unions<>; };
//	    struct TypeManifest { Name entry; Name enums<>; Name name; Name *namespace; Name structs<>; Name typedefs<>; Name unions<>; };
//	    struct TypeEntry { Name key; TypeManifest manifest; };
//	    struct TypeCollection { TypeLibrary library; TypeEntry types<>; };
//	}
func TypeCollection() *manifest.Manifest {
	m := manifest.New("TypeCollection")
	m.Name = "TypeCollection"
	m.Namespace = Namespace

	m.Typedefs["Name"] = manifest.Declaration{Type: "string", Mode: manifest.ModeVariable, Length: manifest.Unbounded}

	m.Enums["LengthMode"] = manifest.Enum{
		{Label: ModeNone, Value: 0},
		{Label: ModeFixed, Value: 1},
		{Label: ModeVariable, Value: 2},
	}

	m.Structs["Parameters"] = manifest.Struct{
		unsigned("length"),
		field("LengthMode", "mode"),
		field("bool", "optional"),
		field("bool", "unsigned"),
	}
	m.Structs["PropertyParameters"] = manifest.Struct{
		field("Name", "type"),
		field("Name", "identifier"),
		optional("Parameters", "parameters"),
	}
	m.Structs["TypeParameters"] = manifest.Struct{
		field("Name", "type"),
		optional("Parameters", "parameters"),
	}
	m.Structs["Discriminant"] = manifest.Struct{
		field("Name", "type"),
		field("Name", "identifier"),
		field("bool", "unsigned"),
	}
	m.Structs["ArmParameters"] = manifest.Struct{
		field("Name", "type"),
		field("Name", "arm"),
		optional("Name", "identifier"),
		optional("Parameters", "parameters"),
	}
	m.Structs["EnumPair"] = manifest.Struct{
		field("int", "value"),
		field("Name", "identifier"),
	}
	m.Structs["EnumEntry"] = manifest.Struct{
		field("Name", "key"),
		list("EnumPair", "body"),
	}
	m.Structs["StructEntry"] = manifest.Struct{
		field("Name", "key"),
		list("PropertyParameters", "properties"),
	}
	m.Structs["TypeDefEntry"] = manifest.Struct{
		field("Name", "key"),
		field("TypeParameters", "declaration"),
	}
	m.Structs["UnionEntry"] = manifest.Struct{
		field("Name", "key"),
		field("Discriminant", "discriminant"),
		list("ArmParameters", "arms"),
	}
	m.Structs["TypeLibrary"] = manifest.Struct{
		list("EnumEntry", "enums"),
		list("StructEntry", "structs"),
		list("TypeDefEntry", "typedefs"),
		list("UnionEntry", "unions"),
	}
	m.Structs["TypeManifest"] = manifest.Struct{
		field("Name", "entry"),
		list("Name", "enums"),
		field("Name", "name"),
		optional("Name", "namespace"),
		list("Name", "structs"),
		list("Name", "typedefs"),
		list("Name", "unions"),
	}
	m.Structs["TypeEntry"] = manifest.Struct{
		field("Name", "key"),
		field("TypeManifest", "manifest"),
	}
	m.Structs["TypeCollection"] = manifest.Struct{
		field("TypeLibrary", "library"),
		list("TypeEntry", "types"),
	}
	return m
}
