// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"math"
	"strconv"

	"go.e43.eu/xdrschema/internal/errors"
	"go.e43.eu/xdrschema/manifest"
)

// enumValue resolves v (a label, an integer, or an integer string) to a
// member of enum
func enumValue(enum manifest.Enum, name string, v interface{}) (manifest.EnumValue, error) {
	if s, ok := v.(string); ok {
		if val, ok := enum.Value(s); ok {
			return manifest.EnumValue{Label: s, Value: val}, nil
		}
		i, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return manifest.EnumValue{}, errors.InvalidValueError{Type: name, Value: v}
		}
		v = i
	}

	i, ok := toInt64(v)
	if !ok || i < math.MinInt32 || i > math.MaxInt32 {
		return manifest.EnumValue{}, errors.InvalidValueError{Type: name, Value: v}
	}
	label, ok := enum.Label(int32(i))
	if !ok {
		return manifest.EnumValue{}, errors.InvalidValueError{Type: name, Value: v}
	}
	return manifest.EnumValue{Label: label, Value: int32(i)}, nil
}

func (cr *Coder) encodeEnum(e *encoder, v interface{}, name string) error {
	ev, err := enumValue(cr.m.Enums[name], name, v)
	if err != nil {
		return err
	}
	return e.EncodeInt(ev.Value)
}

// lookupEnum maps a decoded value to its label, falling back to the default
// label unless the coder is strict
func (cr *Coder) lookupEnum(name string, i int32) (string, error) {
	enum := cr.m.Enums[name]
	if label, ok := enum.Label(i); ok {
		return label, nil
	}

	if !cr.opts.Strict {
		if def, ok := enum.Default(); ok {
			return def.Label, nil
		}
	}
	return "", errors.EnumValueError{Enum: name, Value: i}
}

func (cr *Coder) decodeEnum(dec *decoder, name string) (interface{}, error) {
	i, err := dec.DecodeInt()
	if err != nil {
		return nil, err
	}
	return cr.lookupEnum(name, i)
}
