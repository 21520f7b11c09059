// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"fmt"

	"go.e43.eu/xdrschema/internal/errors"
	"go.e43.eu/xdrschema/manifest"
)

// ownsLength reports whether the array parameters of a declaration of type
// name describe the length of the value itself (opaque and string, possibly
// through typedefs) rather than a count of items
func (cr *Coder) ownsLength(name string) bool {
	for i := 0; i <= len(cr.m.Typedefs); i++ {
		switch name {
		case "opaque", "string":
			return true
		}
		if _, custom := cr.codec(name); custom {
			return false
		}
		td, ok := cr.m.Typedefs[name]
		if !ok || td.Mode != manifest.ModeNone || td.Optional {
			return false
		}
		name = td.Type
	}
	return false
}

// throughTypedef merges the outer declaration d into the typedef td it
// refers to. The typedef's own parameters win; the outer ones only apply
// when the typedef has none.
func throughTypedef(td, d manifest.Declaration) manifest.Declaration {
	td.Identifier = d.Identifier
	if td.Mode == manifest.ModeNone {
		td.Mode, td.Length = d.Mode, d.Length
	}
	return td
}

func (cr *Coder) encodeDecl(e *encoder, v interface{}, d manifest.Declaration) error {
	v = indirect(v)

	if d.Optional {
		if v == nil {
			return e.EncodeBool(false)
		}
		if err := e.EncodeBool(true); err != nil {
			return err
		}
		d = d.Required()
	}

	if d.IsArray() && !cr.ownsLength(d.Type) {
		return cr.encodeArray(e, v, d)
	}

	if c, ok := cr.codec(d.Type); ok {
		return c.Encode(e, v)
	}

	switch cr.m.Kind(d.Type) {
	case manifest.KindEnum:
		return cr.encodeEnum(e, v, d.Type)
	case manifest.KindStruct:
		return cr.encodeStruct(e, v, d.Type)
	case manifest.KindUnion:
		return cr.encodeUnion(e, v, d.Type)
	case manifest.KindTypedef:
		return e.Encode(v, throughTypedef(cr.m.Typedefs[d.Type], d))
	case manifest.KindPrimitive:
		return encodePrimitive(e, v, d)
	default:
		return errors.UnknownTypeError{Name: d.Type}
	}
}

func (cr *Coder) decodeDecl(dec *decoder, d manifest.Declaration) (interface{}, error) {
	if d.Optional {
		present, err := dec.DecodeBool()
		if err != nil || !present {
			return nil, err
		}
		d = d.Required()
	}

	if d.IsArray() && !cr.ownsLength(d.Type) {
		return cr.decodeArray(dec, d)
	}

	if c, ok := cr.codec(d.Type); ok {
		return c.Decode(dec)
	}

	switch cr.m.Kind(d.Type) {
	case manifest.KindEnum:
		return cr.decodeEnum(dec, d.Type)
	case manifest.KindStruct:
		return cr.decodeStruct(dec, d.Type)
	case manifest.KindUnion:
		return cr.decodeUnion(dec, d.Type)
	case manifest.KindTypedef:
		return dec.Decode(throughTypedef(cr.m.Typedefs[d.Type], d))
	case manifest.KindPrimitive:
		return decodePrimitive(dec, d)
	default:
		return nil, errors.UnknownTypeError{Name: d.Type}
	}
}

func (cr *Coder) encodeArray(e *encoder, v interface{}, d manifest.Declaration) error {
	items, ok := toSlice(v)
	if !ok {
		return errors.InvalidValueError{Type: d.Type + "[]", Value: v}
	}

	switch d.Mode {
	case manifest.ModeFixed:
		if uint64(len(items)) != uint64(d.Length) {
			return errors.FixedLengthError{Actual: uint64(len(items)), Expected: uint64(d.Length)}
		}

	case manifest.ModeVariable:
		if uint64(len(items)) > uint64(d.Length) {
			return errors.LengthError{Actual: uint64(len(items)), Max: uint64(d.Length)}
		}
		if err := e.EncodeUnsignedInt(uint32(len(items))); err != nil {
			return err
		}
	}

	elem := d.Element()
	for i, item := range items {
		if err := e.Encode(item, elem); err != nil {
			return errors.WithFieldError(err, fmt.Sprintf("%s[%d]", d.Identifier, i))
		}
	}
	return nil
}

func (cr *Coder) decodeArray(dec *decoder, d manifest.Declaration) (interface{}, error) {
	count := d.Length
	if d.Mode == manifest.ModeVariable {
		var err error
		if count, err = dec.DecodeUnsignedInt(); err != nil {
			return nil, err
		}
		if count > d.Length {
			return nil, errors.LengthError{Actual: uint64(count), Max: uint64(d.Length)}
		}
	}

	if uint64(count) > uint64(maxInt) {
		return nil, errors.LengthError{Actual: uint64(count), Max: uint64(d.Length)}
	}
	if err := dec.checkAvailable(uint64(count)); err != nil {
		return nil, err
	}

	capacity := int(count)
	if dec.remaining < 0 && capacity > 1024 {
		capacity = 1024
	}

	elem := d.Element()
	items := make([]interface{}, 0, capacity)
	for i := 0; i < int(count); i++ {
		item, err := dec.Decode(elem)
		if err != nil {
			return nil, errors.WithFieldError(err, fmt.Sprintf("%s[%d]", d.Identifier, i))
		}
		items = append(items, item)
	}
	return items, nil
}
