// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package interchange

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"go.e43.eu/xdrschema"
	"go.e43.eu/xdrschema/manifest"
)

var (
	collectionCoder     xdrschema.Coder
	collectionCoderOnce sync.Once
)

// Coder returns the (shared) Coder for the TypeCollection manifest
func Coder() xdrschema.Coder {
	collectionCoderOnce.Do(func() {
		collectionCoder = xdrschema.NewCoder(TypeCollection())
	})
	return collectionCoder
}

// Marshal encodes manifests as an XDR TypeCollection
func Marshal(ms ...*manifest.Manifest) ([]byte, error) {
	return Coder().Marshal(Export(ms...))
}

// Unmarshal decodes an XDR TypeCollection
func Unmarshal(buf []byte) ([]*manifest.Manifest, error) {
	v, err := Coder().Unmarshal(buf)
	if err != nil {
		return nil, err
	}

	c, err := FromValue(v)
	if err != nil {
		return nil, err
	}
	return Import(c)
}

// MarshalJSON encodes manifests as a TypeCollection in JSON
func MarshalJSON(ms ...*manifest.Manifest) ([]byte, error) {
	return json.MarshalIndent(Export(ms...), "", "  ")
}

// UnmarshalJSON decodes a TypeCollection from JSON
func UnmarshalJSON(b []byte) ([]*manifest.Manifest, error) {
	var c Collection
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return Import(&c)
}

// MarshalYAML encodes manifests as a TypeCollection in YAML
func MarshalYAML(ms ...*manifest.Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Export(ms...)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a TypeCollection from YAML
func UnmarshalYAML(b []byte) ([]*manifest.Manifest, error) {
	var c Collection
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return Import(&c)
}

// MarshalText encodes manifests as a base64 XDR TypeCollection
func MarshalText(ms ...*manifest.Manifest) (string, error) {
	return xdrschema.Stringify(Coder(), Export(ms...))
}

// UnmarshalText decodes a base64 XDR TypeCollection
func UnmarshalText(text string) ([]*manifest.Manifest, error) {
	v, err := xdrschema.Parse(Coder(), strings.TrimSpace(text))
	if err != nil {
		return nil, err
	}

	c, err := FromValue(v)
	if err != nil {
		return nil, err
	}
	return Import(c)
}
