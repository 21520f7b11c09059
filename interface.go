// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package xdrschema compiles XDR interface definitions (RFC 4506 section 6)
// into schema manifests, and uses them to encode and decode the XDR
// (External Data Representation) format without generating any Go types.
//
// A manifest names an entry type and holds every enum, struct, union and
// typedef reachable from it. A Coder built from a manifest converts between
// XDR bytes and native values:
//
//	                    XDR | decoded Go value
//	------------------------+--------------------------------------
//	                    int | int32
//	           unsigned int | uint32
//	                  hyper | int64
//	         unsigned hyper | uint64
//	                  float | float32
//	                 double | float64
//	                   bool | bool
//	                   enum | string (the label)
//	   string ident<N>, [N] | string
//	   opaque ident<N>, [N] | []byte
//	                   void | nil
//	                 struct | map[string]interface{}
//	                  union | map[string]interface{}
//	         T ident<N>/[N] | []interface{}
//	               T *ident | value, or key omitted when absent
//
// A decoded union holds its discriminant under the discriminant's name
// (the enum label, bool or integer) and the arm's value under the arm's
// name.
//
// Encoding is more forgiving: any Go integer, float or json.Number is
// accepted for numeric types so long as it is in range, enums accept either
// a label or a value, opaque accepts strings, and structs accept Go structs
// (fields are matched by name, case insensitively, or by `xdr` tag).
//
// Decoding an enum value the schema does not define falls back to the label
// whose value is zero, unless the Coder is strict. Unions behave the same way
// for undefined discriminants which have no default arm.
//
// Behaviour for a particular type name can be overridden by registering a
// Codec with the Coder.
package xdrschema

import (
	xdrinterfaces "go.e43.eu/xdrschema/interfaces"
	"go.e43.eu/xdrschema/manifest"
)

// interface Coder is the top-level interface to the XDR library
//
// A coder (which may be safely used from multiple threads) marshals values
// as described by a manifest. It also contains a repository of Codecs for
// type names which need custom handling
type Coder = xdrinterfaces.Coder

// interface Encoder is the interface to the XDR encoder
type Encoder = xdrinterfaces.Encoder

// interface Decoder is the interface to the XDR decoder
type Decoder = xdrinterfaces.Decoder

// interface Codec overrides the handling of a named type
type Codec = xdrinterfaces.Codec

// Manifest is a compiled schema
type Manifest = manifest.Manifest

// Declaration is a typed, optionally named slot within a schema
type Declaration = manifest.Declaration
