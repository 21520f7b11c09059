// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package compiler

import (
	"sort"

	"go.uber.org/zap"

	"go.e43.eu/xdrschema/internal/errors"
	"go.e43.eu/xdrschema/manifest"
)

// references lists the type names directly used by the named definition
func (c *compiler) references(name string) []string {
	var refs []string
	if s, ok := c.structs[name]; ok {
		for _, f := range s {
			refs = append(refs, f.Type)
		}
	}
	if u, ok := c.unions[name]; ok {
		refs = append(refs, u.Discriminant.Type)
		for _, a := range u.Arms {
			refs = append(refs, a.Type)
		}
	}
	if td, ok := c.typedefs[name]; ok {
		refs = append(refs, td.Type)
	}
	return refs
}

// inferEntry picks the first struct or union, in declaration order, which
// no other struct or union uses as a field or arm type. Typedefs do not count
// as users.
func (c *compiler) inferEntry() (string, error) {
	referenced := make(map[string]bool)
	for name := range c.order {
		if _, ok := c.typedefs[name]; ok {
			continue
		}
		for _, ref := range c.references(name) {
			if ref != name {
				referenced[ref] = true
			}
		}
	}

	var candidates []string
	for name := range c.structs {
		candidates = append(candidates, name)
	}
	for name := range c.unions {
		candidates = append(candidates, name)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return c.order[candidates[i]] < c.order[candidates[j]]
	})

	for _, name := range candidates {
		if !referenced[name] {
			return name, nil
		}
	}
	return "", errors.ErrNoEntryFound
}

// closure packages every type reachable from entry into a manifest
func (c *compiler) closure(entry string) (*manifest.Manifest, error) {
	m := manifest.New(entry)

	queue := []string{entry}
	seen := map[string]bool{entry: true}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		if e, ok := c.enums[name]; ok {
			m.Enums[name] = e
		} else if s, ok := c.structs[name]; ok {
			m.Structs[name] = s
		} else if u, ok := c.unions[name]; ok {
			m.Unions[name] = u
		} else if td, ok := c.typedefs[name]; ok {
			m.Typedefs[name] = td
		} else if !manifest.IsPrimitive(name) {
			return nil, errors.UnknownTypeError{Name: name}
		}

		for _, ref := range c.references(name) {
			if seen[ref] {
				continue
			}
			if _, defined := c.order[ref]; !defined && !manifest.IsPrimitive(ref) {
				return nil, errors.WithFieldError(errors.UnknownTypeError{Name: ref}, name)
			}
			seen[ref] = true
			queue = append(queue, ref)
		}
	}

	c.log.Debug("computed closure", zap.String("entry", entry), zap.Int("types", len(seen)))
	return m, nil
}
