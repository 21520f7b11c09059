// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package xdrschema

import (
	"sync"

	"go.e43.eu/xdrschema/manifest"
)

// Instance holds a value of a schema type in either its encoded or its
// native form. The other form is computed by Resolve, at most once.
type Instance struct {
	coder Coder
	decl  manifest.Declaration

	once  sync.Once
	err   error
	bytes []byte
	value interface{}
	// true when bytes is the source and value must be decoded
	fromBytes bool
}

func instanceDecl(c Coder, typeName string) manifest.Declaration {
	if typeName == "" {
		typeName = c.Manifest().Entry
	}
	return manifest.Declaration{Type: typeName}
}

// InstanceFromBytes wraps encoded bytes of the named type (or the entry
// type, when typeName is empty)
func InstanceFromBytes(c Coder, typeName string, b []byte) *Instance {
	return &Instance{
		coder:     c,
		decl:      instanceDecl(c, typeName),
		bytes:     b,
		fromBytes: true,
	}
}

// InstanceFromValue wraps a native value of the named type (or the entry
// type, when typeName is empty)
func InstanceFromValue(c Coder, typeName string, v interface{}) *Instance {
	return &Instance{
		coder: c,
		decl:  instanceDecl(c, typeName),
		value: v,
	}
}

// Type returns the name of the instance's type
func (i *Instance) Type() string {
	return i.decl.Type
}

// Resolve computes the missing representation. The outcome (including any
// error) is cached.
func (i *Instance) Resolve() error {
	i.once.Do(func() {
		if i.fromBytes {
			i.value, _, i.err = i.coder.UnmarshalDecl(i.bytes, i.decl)
		} else {
			i.bytes, i.err = i.coder.MarshalDecl(i.value, i.decl)
		}
	})
	return i.err
}

// Bytes returns the encoded form, resolving it if necessary
func (i *Instance) Bytes() ([]byte, error) {
	if err := i.Resolve(); err != nil {
		return nil, err
	}
	return i.bytes, nil
}

// Value returns the native form, resolving it if necessary
func (i *Instance) Value() (interface{}, error) {
	if err := i.Resolve(); err != nil {
		return nil, err
	}
	return i.value, nil
}

// String returns the base64 encoding of the instance, or the empty string
// if it cannot be encoded
func (i *Instance) String() string {
	b, err := i.Bytes()
	if err != nil {
		return ""
	}
	return encoding.EncodeToString(b)
}
