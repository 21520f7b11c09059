// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package xdrinterfaces defines the primary interfaces of the XDR encoder
//
// (This package is primarily separated out in order to permit the implementation to
// be broken down into multiple packages)
package xdrinterfaces

import (
	"io"

	"go.e43.eu/xdrschema/manifest"
)

// interface Codec is the interface by which the marshalling of a named type
// may be overridden.
//
// Codecs are registered with a Coder against a type name (usually a typedef
// such as `timestamp`) and then replace the manifest driven behaviour for
// every declaration of that type. Array and optional wrappers are still
// handled by the Coder; the codec sees a single item.
type Codec interface {
	// Encodes v into the encoder e.
	Encode(e Encoder, v interface{}) error

	// Decodes a value from the decoder d.
	Decode(d Decoder) (interface{}, error)
}

// interface Coder is the top-level interface to the XDR library
//
// A coder (which may be safely used from multiple threads) marshals native
// values to and from XDR as described by a single manifest. It also contains
// a repository of Codecs for type names which need custom handling
type Coder interface {
	// Manifest returns the manifest driving the coder
	Manifest() *manifest.Manifest

	// Marshals v as the manifest's entry type into the returned buffer
	Marshal(v interface{}) ([]byte, error)

	// Unmarshals buf as the manifest's entry type
	Unmarshal(buf []byte) (interface{}, error)

	// MarshalType marshals v as the named type
	MarshalType(name string, v interface{}) ([]byte, error)

	// UnmarshalType unmarshals buf as the named type
	UnmarshalType(name string, buf []byte) (interface{}, error)

	// MarshalDecl marshals v as described by d
	MarshalDecl(v interface{}, d manifest.Declaration) ([]byte, error)

	// UnmarshalDecl unmarshals a value described by d from the front of buf,
	// and returns it along with the number of bytes consumed
	UnmarshalDecl(buf []byte, d manifest.Declaration) (interface{}, int, error)

	// Write marshals v as the entry type into the passed writer
	Write(w io.Writer, v interface{}) error

	// Read unmarshals a value of the entry type out of the passed reader
	Read(r io.Reader) (interface{}, error)

	// Constructs a new encoder which writes to w
	NewEncoder(w io.Writer) Encoder

	// Constructs a new decoder which reads from r
	NewDecoder(r io.Reader) Decoder

	// Registers the codec for the named type. Panics if a codec is already
	// registered for the name, or the name is an XDR primitive.
	RegisterCodec(name string, c Codec)
}

// interface Encoder is the interface to the XDR encoder
type Encoder interface {
	// EncodeBool writes a bool to the XDR encoder
	EncodeBool(b bool) error

	// EncodeInt writes an int to the XDR encoder
	EncodeInt(i int32) error

	// EncodeUnsignedInt writes an unsigned int to the XDR encoder
	EncodeUnsignedInt(i uint32) error

	// EncodeHyper writes a hyper (int64) to the XDR encoder
	EncodeHyper(h int64) error

	// EncodeUnsignedHyper writes an unsigned hyper (uint64) to the XDR encoder
	EncodeUnsignedHyper(h uint64) error

	// EncodeFloat writes a single precision floating point number to the XDR encoder
	EncodeFloat(f float32) error

	// EncodeDouble writes a double precision floating point number to the XDR encoder
	EncodeDouble(d float64) error

	// EncodeOpaque writes an `opaque` (dense byte slice) to the XDR encoder
	EncodeOpaque(b []byte) error

	// EncodeFixedOpaque writes a fixed length opaque (dense byte slice) to the XDR encoder
	// This is for fixed length fields; no length prefix will be written
	EncodeFixedOpaque(b []byte) error

	// EncodeString writes a string to the XDR encoder
	EncodeString(s string) error

	// EncodeFixedString writes a fixed length string to the XDR encoder
	EncodeFixedString(s string) error

	// Encode writes v to the XDR encoder as described by d
	Encode(v interface{}, d manifest.Declaration) error
}

// interface Decoder is the interface to the XDR decoder
type Decoder interface {
	DecodeBool() (bool, error)
	DecodeInt() (int32, error)
	DecodeUnsignedInt() (uint32, error)
	DecodeHyper() (int64, error)
	DecodeUnsignedHyper() (uint64, error)

	// DecodeFloat reads a single precision floating point number from the XDR decoder
	DecodeFloat() (float32, error)

	// DecodeDouble reads a double precision floating point number from the XDR decoder
	DecodeDouble() (float64, error)

	// DecodeOpaque reads an opaque of maximum length maxLen from the XDR decoder
	// A newly allocated buffer is returned.
	DecodeOpaque(maxLen uint32) ([]byte, error)

	// DecodeFixedOpaque reads a fixed-size opaque into the passed buffer
	DecodeFixedOpaque(buf []byte) error

	// DecodeString reads a string (with maximum length maxLen) from the decoder
	DecodeString(maxLen uint32) (string, error)

	// DecodeFixedString reads a fixed length string (of length len) from the decoder
	DecodeFixedString(len uint32) (string, error)

	// Decode reads a value described by d from the stream
	Decode(d manifest.Declaration) (interface{}, error)

	// Consumed returns the number of bytes read so far
	Consumed() int
}
