// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package xdrschema

import (
	"encoding/base64"

	"go.e43.eu/xdrschema/internal/errors"
)

// Text form of encoded values
var encoding = base64.StdEncoding

// Parse decodes base64 text and unmarshals it as the entry type of c's
// manifest
func Parse(c Coder, text string) (interface{}, error) {
	b, err := encoding.DecodeString(text)
	if err != nil {
		return nil, errors.InvalidValueError{Type: "base64", Value: text}
	}
	return c.Unmarshal(b)
}

// Stringify marshals v as the entry type of c's manifest and returns it as
// base64 text
func Stringify(c Coder, v interface{}) (string, error) {
	b, err := c.Marshal(v)
	if err != nil {
		return "", err
	}
	return encoding.EncodeToString(b), nil
}
