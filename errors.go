// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package xdrschema

import "go.e43.eu/xdrschema/internal/errors"

// Error kinds. Every error returned by this package matches one of these
// under errors.Is.
const (
	ErrMalformedDeclaration       = errors.ErrMalformedDeclaration
	ErrInvalidEnumMember          = errors.ErrInvalidEnumMember
	ErrSyntax                     = errors.ErrSyntax
	ErrNoEntryFound               = errors.ErrNoEntryFound
	ErrUnknownType                = errors.ErrUnknownType
	ErrUnsupportedType            = errors.ErrUnsupportedType
	ErrMissingField               = errors.ErrMissingField
	ErrLengthExceeded             = errors.ErrLengthExceedsMax
	ErrLengthExceedsPlatformLimit = errors.ErrLengthExceedsPlatformLimit
	ErrFixedLengthMismatch        = errors.ErrLengthIncorrect
	ErrInsufficientBytes          = errors.ErrInsufficientBytes
	ErrUnionArmUndefined          = errors.ErrUnionSwitchArmUndefined
	ErrUnknownEnumValue           = errors.ErrUnknownEnumValue
	ErrInvalidInput               = errors.ErrInvalidValue
	ErrMaxDepth                   = errors.ErrMaxDepth
)

// LengthError reports a variable length object longer than its maximum
type LengthError = errors.LengthError

// FixedLengthError reports a fixed length object of the wrong length
type FixedLengthError = errors.FixedLengthError

// FieldError locates an error within a struct, union or array
type FieldError = errors.FieldError

// SyntaxError locates an error within IDL source
type SyntaxError = errors.SyntaxError
