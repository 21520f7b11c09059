// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"math"
	"strconv"

	"go.e43.eu/xdrschema/internal/errors"
	"go.e43.eu/xdrschema/manifest"
)

func (cr *Coder) encodeStruct(e *encoder, v interface{}, name string) error {
	fields := cr.m.Structs[name]
	m, ok := toMap(v)
	if !ok {
		return errors.InvalidValueError{Type: name, Value: v}
	}

	for _, f := range fields {
		fv, present := lookupField(m, f.Identifier)
		if (!present || isNil(fv)) && !f.Optional && f.Type != "void" {
			return errors.WithFieldError(errors.ErrMissingField, name, f.Identifier)
		}

		if err := e.Encode(fv, f); err != nil {
			return errors.WithFieldError(err, name, f.Identifier)
		}
	}
	return nil
}

func (cr *Coder) decodeStruct(dec *decoder, name string) (interface{}, error) {
	fields := cr.m.Structs[name]
	out := make(map[string]interface{}, len(fields))

	for _, f := range fields {
		fv, err := dec.Decode(f)
		if err != nil {
			return nil, errors.WithFieldError(err, name, f.Identifier)
		}

		// Absent optionals are left out entirely
		if f.Optional && fv == nil {
			continue
		}
		out[f.Identifier] = fv
	}
	return out, nil
}

type switchKind byte

const (
	switchKindEnum switchKind = iota
	switchKindBool
	switchKindInt
	switchKindUint
)

// Arm labels of boolean discriminants
const (
	LabelTrue  = "TRUE"
	LabelFalse = "FALSE"
)

// switchKindOf resolves the type of a discriminant through any typedefs.
// The enum name is returned for enum discriminants.
func (cr *Coder) switchKindOf(disc manifest.Discriminant) (switchKind, string, error) {
	name, unsigned := disc.Type, disc.Unsigned
	for i := 0; i <= len(cr.m.Typedefs); i++ {
		switch cr.m.Kind(name) {
		case manifest.KindEnum:
			return switchKindEnum, name, nil
		case manifest.KindTypedef:
			td := cr.m.Typedefs[name]
			name, unsigned = td.Type, unsigned || td.Unsigned
			continue
		case manifest.KindPrimitive:
			switch name {
			case "bool":
				return switchKindBool, "", nil
			case "int":
				if unsigned {
					return switchKindUint, "", nil
				}
				return switchKindInt, "", nil
			}
			return 0, "", errors.UnsupportedTypeError{Name: name}
		default:
			return 0, "", errors.UnknownTypeError{Name: name}
		}
	}
	return 0, "", errors.UnknownTypeError{Name: disc.Type}
}

// zeroLabel is the arm label selected by a zero discriminant
func (cr *Coder) zeroLabel(kind switchKind, enum string) string {
	switch kind {
	case switchKindEnum:
		label, _ := cr.m.Enums[enum].Label(0)
		return label
	case switchKindBool:
		return LabelFalse
	default:
		return "0"
	}
}

// selectArm finds the arm for label: an exact match, then the default arm,
// then (when lenient) the arm of the zero discriminant
func (cr *Coder) selectArm(u manifest.Union, label, zero string, lenient bool) (manifest.Arm, bool) {
	if arm, ok := u.Arm(label); ok {
		return arm, true
	}
	if arm, ok := u.Arm(manifest.DefaultArm); ok {
		return arm, true
	}
	if lenient && zero != "" {
		return u.Arm(zero)
	}
	return manifest.Arm{}, false
}

func (cr *Coder) encodeDiscriminant(e *encoder, kind switchKind, enum string, v interface{}) (string, error) {
	switch kind {
	case switchKindEnum:
		ev, err := enumValue(cr.m.Enums[enum], enum, v)
		if err != nil {
			return "", err
		}
		return ev.Label, e.EncodeInt(ev.Value)

	case switchKindBool:
		b, ok := toBool(v)
		if !ok {
			return "", errors.InvalidValueError{Type: "bool", Value: v}
		}
		if b {
			return LabelTrue, e.EncodeBool(true)
		}
		return LabelFalse, e.EncodeBool(false)

	case switchKindUint:
		u, ok := toUint64(v)
		if !ok || u > math.MaxUint32 {
			return "", errors.InvalidValueError{Type: "unsigned int", Value: v}
		}
		return strconv.FormatUint(u, 10), e.EncodeUnsignedInt(uint32(u))

	default:
		i, ok := toInt64(v)
		if !ok || i < math.MinInt32 || i > math.MaxInt32 {
			return "", errors.InvalidValueError{Type: "int", Value: v}
		}
		return strconv.FormatInt(i, 10), e.EncodeInt(int32(i))
	}
}

func (cr *Coder) decodeDiscriminant(dec *decoder, kind switchKind, enum string) (string, interface{}, error) {
	switch kind {
	case switchKindEnum:
		i, err := dec.DecodeInt()
		if err != nil {
			return "", nil, err
		}
		label, err := cr.lookupEnum(enum, i)
		return label, label, err

	case switchKindBool:
		b, err := dec.DecodeBool()
		if err != nil {
			return "", nil, err
		}
		if b {
			return LabelTrue, true, nil
		}
		return LabelFalse, false, nil

	case switchKindUint:
		u, err := dec.DecodeUnsignedInt()
		return strconv.FormatUint(uint64(u), 10), u, err

	default:
		i, err := dec.DecodeInt()
		return strconv.FormatInt(int64(i), 10), i, err
	}
}

func (cr *Coder) encodeUnion(e *encoder, v interface{}, name string) error {
	u := cr.m.Unions[name]
	m, ok := toMap(v)
	if !ok {
		return errors.InvalidValueError{Type: name, Value: v}
	}

	kind, enum, err := cr.switchKindOf(u.Discriminant)
	if err != nil {
		return errors.WithFieldError(err, name, u.Discriminant.Identifier, "union:switch")
	}

	dv, present := lookupField(m, u.Discriminant.Identifier)
	if !present || isNil(dv) {
		return errors.WithFieldError(errors.ErrMissingField, name, u.Discriminant.Identifier, "union:switch")
	}

	label, err := cr.encodeDiscriminant(e, kind, enum, indirect(dv))
	if err != nil {
		return errors.WithFieldError(err, name, u.Discriminant.Identifier, "union:switch")
	}

	arm, ok := cr.selectArm(u, label, "", false)
	if !ok {
		return errors.WithFieldError(errors.ErrUnionSwitchArmUndefined, name, "?", "union:"+label)
	}

	if arm.Identifier == "" {
		return e.Encode(nil, arm.Declaration)
	}

	av, present := lookupField(m, arm.Identifier)
	if (!present || isNil(av)) && !arm.Optional && arm.Type != "void" {
		return errors.WithFieldError(errors.ErrMissingField, name, arm.Identifier, "union:"+label)
	}
	if err := e.Encode(av, arm.Declaration); err != nil {
		return errors.WithFieldError(err, name, arm.Identifier, "union:"+label)
	}
	return nil
}

func (cr *Coder) decodeUnion(dec *decoder, name string) (interface{}, error) {
	u := cr.m.Unions[name]

	kind, enum, err := cr.switchKindOf(u.Discriminant)
	if err != nil {
		return nil, errors.WithFieldError(err, name, u.Discriminant.Identifier, "union:switch")
	}

	label, dv, err := cr.decodeDiscriminant(dec, kind, enum)
	if err != nil {
		return nil, errors.WithFieldError(err, name, u.Discriminant.Identifier, "union:switch")
	}

	arm, ok := cr.selectArm(u, label, cr.zeroLabel(kind, enum), !cr.opts.Strict)
	if !ok {
		return nil, errors.WithFieldError(errors.ErrUnionSwitchArmUndefined, name, "?", "union:"+label)
	}

	out := map[string]interface{}{u.Discriminant.Identifier: dv}
	av, err := dec.Decode(arm.Declaration)
	if err != nil {
		return nil, errors.WithFieldError(err, name, arm.Identifier, "union:"+label)
	}
	if arm.Identifier != "" && !(arm.Optional && av == nil) {
		out[arm.Identifier] = av
	}
	return out, nil
}
