// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"math"

	"go.e43.eu/xdrschema/internal/errors"
	"go.e43.eu/xdrschema/manifest"
)

func typeName(d manifest.Declaration) string {
	if d.Unsigned {
		return "unsigned " + d.Type
	}
	return d.Type
}

func encodePrimitive(e *encoder, v interface{}, d manifest.Declaration) error {
	switch d.Type {
	case "int":
		if d.Unsigned {
			u, ok := toUint64(v)
			if !ok || u > math.MaxUint32 {
				return errors.InvalidValueError{Type: typeName(d), Value: v}
			}
			return e.EncodeUnsignedInt(uint32(u))
		}
		i, ok := toInt64(v)
		if !ok || i < math.MinInt32 || i > math.MaxInt32 {
			return errors.InvalidValueError{Type: typeName(d), Value: v}
		}
		return e.EncodeInt(int32(i))

	case "hyper":
		if d.Unsigned {
			u, ok := toUint64(v)
			if !ok {
				return errors.InvalidValueError{Type: typeName(d), Value: v}
			}
			return e.EncodeUnsignedHyper(u)
		}
		i, ok := toInt64(v)
		if !ok {
			return errors.InvalidValueError{Type: typeName(d), Value: v}
		}
		return e.EncodeHyper(i)

	case "float":
		f, ok := toFloat64(v)
		if !ok || (math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0)) {
			return errors.InvalidValueError{Type: d.Type, Value: v}
		}
		return e.EncodeFloat(float32(f))

	case "double":
		f, ok := toFloat64(v)
		if !ok {
			return errors.InvalidValueError{Type: d.Type, Value: v}
		}
		return e.EncodeDouble(f)

	case "bool":
		b, ok := toBool(v)
		if !ok {
			return errors.InvalidValueError{Type: d.Type, Value: v}
		}
		return e.EncodeBool(b)

	case "void":
		if !isEmpty(v) {
			return errors.InvalidValueError{Type: d.Type, Value: v}
		}
		return nil

	case "opaque":
		b, ok := toBytes(v)
		if !ok {
			return errors.InvalidValueError{Type: d.Type, Value: v}
		}
		if err := checkLength(uint64(len(b)), d); err != nil {
			return err
		}
		if d.Mode == manifest.ModeFixed {
			return e.EncodeFixedOpaque(b)
		}
		return e.EncodeOpaque(b)

	case "string":
		s, ok := toString(v)
		if !ok {
			return errors.InvalidValueError{Type: d.Type, Value: v}
		}
		if err := checkLength(uint64(len(s)), d); err != nil {
			return err
		}
		if d.Mode == manifest.ModeFixed {
			return e.EncodeFixedString(s)
		}
		return e.EncodeString(s)

	default:
		return errors.UnsupportedTypeError{Name: d.Type}
	}
}

// checkLength validates the byte length of an opaque or string against its
// declaration. Undecorated declarations are treated as `<>`.
func checkLength(n uint64, d manifest.Declaration) error {
	switch d.Mode {
	case manifest.ModeFixed:
		if n != uint64(d.Length) {
			return errors.FixedLengthError{Actual: n, Expected: uint64(d.Length)}
		}
	case manifest.ModeVariable:
		if n > uint64(d.Length) {
			return errors.LengthError{Actual: n, Max: uint64(d.Length)}
		}
	}
	return nil
}

func maxLength(d manifest.Declaration) uint32 {
	if d.Mode == manifest.ModeVariable {
		return d.Length
	}
	return manifest.Unbounded
}

func decodePrimitive(dec *decoder, d manifest.Declaration) (interface{}, error) {
	switch d.Type {
	case "int":
		if d.Unsigned {
			return dec.DecodeUnsignedInt()
		}
		return dec.DecodeInt()

	case "hyper":
		if d.Unsigned {
			return dec.DecodeUnsignedHyper()
		}
		return dec.DecodeHyper()

	case "float":
		return dec.DecodeFloat()

	case "double":
		return dec.DecodeDouble()

	case "bool":
		return dec.DecodeBool()

	case "void":
		return nil, nil

	case "opaque":
		if d.Mode == manifest.ModeFixed {
			if uint64(d.Length) > uint64(maxInt) {
				return nil, errors.LengthError{Actual: uint64(d.Length), Max: uint64(d.Length)}
			}
			if err := dec.checkAvailable(uint64(d.Length)); err != nil {
				return nil, err
			}
			b := make([]byte, d.Length)
			if err := dec.DecodeFixedOpaque(b); err != nil {
				return nil, err
			}
			return b, nil
		}
		return dec.DecodeOpaque(maxLength(d))

	case "string":
		if d.Mode == manifest.ModeFixed {
			return dec.DecodeFixedString(d.Length)
		}
		return dec.DecodeString(maxLength(d))

	default:
		return nil, errors.UnsupportedTypeError{Name: d.Type}
	}
}
