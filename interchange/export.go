// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package interchange

import (
	"sort"

	"github.com/mitchellh/mapstructure"

	"go.e43.eu/xdrschema/internal/errors"
	"go.e43.eu/xdrschema/manifest"
)

func modeLabel(m manifest.Mode) string {
	switch m {
	case manifest.ModeFixed:
		return ModeFixed
	case manifest.ModeVariable:
		return ModeVariable
	default:
		return ModeNone
	}
}

func parseMode(label string) (manifest.Mode, error) {
	switch label {
	case "", ModeNone:
		return manifest.ModeNone, nil
	case ModeFixed:
		return manifest.ModeFixed, nil
	case ModeVariable:
		return manifest.ModeVariable, nil
	default:
		return 0, errors.InvalidValueError{Type: "LengthMode", Value: label}
	}
}

func parameters(d manifest.Declaration) *Parameters {
	if d.Mode == manifest.ModeNone && d.Length == 0 && !d.Optional && !d.Unsigned {
		return nil
	}
	return &Parameters{
		Length:   d.Length,
		Mode:     modeLabel(d.Mode),
		Optional: d.Optional,
		Unsigned: d.Unsigned,
	}
}

func declaration(typ, ident string, p *Parameters) (manifest.Declaration, error) {
	d := manifest.Declaration{Type: typ, Identifier: ident}
	if p == nil {
		return d, nil
	}

	mode, err := parseMode(p.Mode)
	if err != nil {
		return d, err
	}
	d.Length, d.Mode, d.Optional, d.Unsigned = p.Length, mode, p.Optional, p.Unsigned
	return d, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Export flattens manifests into a collection. Each type is stored in the
// library once, by the first manifest which defines it; later definitions
// of the same name are dropped.
func Export(ms ...*manifest.Manifest) *Collection {
	c := &Collection{
		Library: TypeLibrary{
			Enums:    []EnumEntry{},
			Structs:  []StructEntry{},
			Typedefs: []TypeDefEntry{},
			Unions:   []UnionEntry{},
		},
		Types: []TypeEntry{},
	}

	usedEnums := make(map[string]bool)
	usedStructs := make(map[string]bool)
	usedTypedefs := make(map[string]bool)
	usedUnions := make(map[string]bool)
	usedTypes := make(map[string]bool)

	for _, m := range ms {
		tm := TypeManifest{
			Entry:    m.Entry,
			Name:     m.Name,
			Enums:    sortedKeys(m.Enums),
			Structs:  sortedKeys(m.Structs),
			Typedefs: sortedKeys(m.Typedefs),
			Unions:   sortedKeys(m.Unions),
		}
		if m.Namespace != "" {
			ns := m.Namespace
			tm.Namespace = &ns
		}

		for _, name := range tm.Enums {
			if usedEnums[name] {
				continue
			}
			usedEnums[name] = true

			e := EnumEntry{Key: name, Body: make([]EnumPair, 0, len(m.Enums[name]))}
			for _, ev := range m.Enums[name] {
				e.Body = append(e.Body, EnumPair{Value: ev.Value, Identifier: ev.Label})
			}
			c.Library.Enums = append(c.Library.Enums, e)
		}

		for _, name := range tm.Structs {
			if usedStructs[name] {
				continue
			}
			usedStructs[name] = true

			s := StructEntry{Key: name, Properties: make([]PropertyParameters, 0, len(m.Structs[name]))}
			for _, f := range m.Structs[name] {
				s.Properties = append(s.Properties, PropertyParameters{
					Type:       f.Type,
					Identifier: f.Identifier,
					Parameters: parameters(f),
				})
			}
			c.Library.Structs = append(c.Library.Structs, s)
		}

		for _, name := range tm.Typedefs {
			if usedTypedefs[name] {
				continue
			}
			usedTypedefs[name] = true

			td := m.Typedefs[name]
			c.Library.Typedefs = append(c.Library.Typedefs, TypeDefEntry{
				Key:         name,
				Declaration: TypeParameters{Type: td.Type, Parameters: parameters(td)},
			})
		}

		for _, name := range tm.Unions {
			if usedUnions[name] {
				continue
			}
			usedUnions[name] = true

			u := m.Unions[name]
			ue := UnionEntry{
				Key: name,
				Discriminant: Discriminant{
					Type:       u.Discriminant.Type,
					Identifier: u.Discriminant.Identifier,
					Unsigned:   u.Discriminant.Unsigned,
				},
				Arms: make([]ArmParameters, 0, len(u.Arms)),
			}
			for _, a := range u.Arms {
				ap := ArmParameters{Type: a.Type, Arm: a.Label, Parameters: parameters(a.Declaration)}
				if a.Identifier != "" {
					ident := a.Identifier
					ap.Identifier = &ident
				}
				ue.Arms = append(ue.Arms, ap)
			}
			c.Library.Unions = append(c.Library.Unions, ue)
		}

		key := m.Name
		if key == "" {
			key = m.Entry
		}
		if usedTypes[key] {
			continue
		}
		usedTypes[key] = true
		c.Types = append(c.Types, TypeEntry{Key: key, Manifest: tm})
	}
	return c
}

// Import rebuilds the manifests of a collection, in order
func Import(c *Collection) ([]*manifest.Manifest, error) {
	enums := make(map[string]manifest.Enum, len(c.Library.Enums))
	for _, e := range c.Library.Enums {
		enum := make(manifest.Enum, 0, len(e.Body))
		for _, p := range e.Body {
			enum = append(enum, manifest.EnumValue{Label: p.Identifier, Value: p.Value})
		}
		enum.Sort()
		enums[e.Key] = enum
	}

	structs := make(map[string]manifest.Struct, len(c.Library.Structs))
	for _, s := range c.Library.Structs {
		fields := make(manifest.Struct, 0, len(s.Properties))
		for _, p := range s.Properties {
			f, err := declaration(p.Type, p.Identifier, p.Parameters)
			if err != nil {
				return nil, errors.WithFieldError(err, s.Key, p.Identifier)
			}
			fields = append(fields, f)
		}
		structs[s.Key] = fields
	}

	typedefs := make(map[string]manifest.Declaration, len(c.Library.Typedefs))
	for _, td := range c.Library.Typedefs {
		d, err := declaration(td.Declaration.Type, "", td.Declaration.Parameters)
		if err != nil {
			return nil, errors.WithFieldError(err, td.Key)
		}
		typedefs[td.Key] = d
	}

	unions := make(map[string]manifest.Union, len(c.Library.Unions))
	for _, ue := range c.Library.Unions {
		u := manifest.Union{
			Discriminant: manifest.Discriminant{
				Type:       ue.Discriminant.Type,
				Identifier: ue.Discriminant.Identifier,
				Unsigned:   ue.Discriminant.Unsigned,
			},
			Arms: make([]manifest.Arm, 0, len(ue.Arms)),
		}
		for _, ap := range ue.Arms {
			var ident string
			if ap.Identifier != nil {
				ident = *ap.Identifier
			}
			d, err := declaration(ap.Type, ident, ap.Parameters)
			if err != nil {
				return nil, errors.WithFieldError(err, ue.Key, ident, "union:"+ap.Arm)
			}
			u.Arms = append(u.Arms, manifest.Arm{Label: ap.Arm, Declaration: d})
		}
		unions[ue.Key] = u
	}

	ms := make([]*manifest.Manifest, 0, len(c.Types))
	for _, te := range c.Types {
		tm := te.Manifest
		m := manifest.New(tm.Entry)
		m.Name = tm.Name
		if tm.Namespace != nil {
			m.Namespace = *tm.Namespace
		}

		for _, name := range tm.Enums {
			e, ok := enums[name]
			if !ok {
				return nil, errors.WithFieldError(errors.UnknownTypeError{Name: name}, te.Key, "enums")
			}
			m.Enums[name] = e
		}
		for _, name := range tm.Structs {
			s, ok := structs[name]
			if !ok {
				return nil, errors.WithFieldError(errors.UnknownTypeError{Name: name}, te.Key, "structs")
			}
			m.Structs[name] = s
		}
		for _, name := range tm.Typedefs {
			td, ok := typedefs[name]
			if !ok {
				return nil, errors.WithFieldError(errors.UnknownTypeError{Name: name}, te.Key, "typedefs")
			}
			m.Typedefs[name] = td
		}
		for _, name := range tm.Unions {
			u, ok := unions[name]
			if !ok {
				return nil, errors.WithFieldError(errors.UnknownTypeError{Name: name}, te.Key, "unions")
			}
			m.Unions[name] = u
		}
		ms = append(ms, m)
	}
	return ms, nil
}

// FromValue binds a decoded TypeCollection value (as produced by a Coder
// for the TypeCollection manifest, or parsed from JSON) to a Collection
func FromValue(v interface{}) (*Collection, error) {
	c := new(Collection)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "xdr",
		WeaklyTypedInput: true,
		Result:           c,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, errors.InvalidValueError{Type: "TypeCollection", Value: v}
	}
	return c, nil
}
