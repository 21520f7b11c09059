// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package xdrschema

import (
	"github.com/mitchellh/mapstructure"
)

// DecodeInto copies a decoded value (as returned by Unmarshal) into the Go
// value pointed to by out. Struct fields are matched by name, case
// insensitively, or by their `xdr` tag.
func DecodeInto(v interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "xdr",
		Result:  out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(v)
}

// UnmarshalInto unmarshals buf as c's entry type and binds the result to
// out
func UnmarshalInto(c Coder, buf []byte, out interface{}) error {
	v, err := c.Unmarshal(buf)
	if err != nil {
		return err
	}
	return DecodeInto(v, out)
}
