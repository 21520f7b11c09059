// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package errors

import (
	"fmt"
	"strings"
)

const (
	// maxUint is the maximum value a uint can hold
	maxUint = ^uint(0)
	// maxInt is the maximum value an int can hold
	maxInt = int(maxUint >> 1)
)

type xerror string

func (e xerror) Error() string {
	return string(e)
}

const (
	// Declaration text could not be parsed
	ErrMalformedDeclaration = xerror("xdr: Malformed declaration")

	// Enum member value is neither a literal, a constant nor a known label
	ErrInvalidEnumMember = xerror("xdr: Invalid enum member")

	// IDL text could not be tokenized or parsed
	ErrSyntax = xerror("xdr: Syntax error")

	// No entry type was given and none could be inferred
	ErrNoEntryFound = xerror("xdr: No entry type found")

	// Type name not defined by the manifest
	ErrUnknownType = xerror("xdr: Unknown type")

	// Type is recognised but not implemented (quadruple)
	ErrUnsupportedType = xerror("xdr: Unsupported type")

	// Non-optional struct field absent from the value being encoded
	ErrMissingField = xerror("xdr: Missing field")

	// Array, opaque or string longer than permitted by the schema
	// (or XDR; for values where the schema specifies no limit, it is implicitly
	// treated as if 0xFFFFFFFF were specified; though in that case the error can
	// only be reached on encode)
	ErrLengthExceedsMax = xerror("xdr: Variable length object too long")

	// Array or slice length longer than we can decode
	//
	// This error means that a received length was larger than can be represented
	// as the Go `int` type but less than any maximum specified by the schema.
	// It can only occur on 32-bit platforms.
	ErrLengthExceedsPlatformLimit = xerror("xdr: Variable length object too long for platform")

	// Length of fixed length object incorrect
	//
	// This is returned when attempting to marshal an object of the wrong length
	ErrLengthIncorrect = xerror("xdr: Length incorrect")

	// Input ended before the value was complete
	ErrInsufficientBytes = xerror("xdr: Insufficient bytes")

	// Union switch arm undefined
	ErrUnionSwitchArmUndefined = xerror("xdr: Union switch arm undefined")

	// Decoded enum value not defined by the enum (strict mode only)
	ErrUnknownEnumValue = xerror("xdr: Unknown enum value")

	// Invalid value for type
	ErrInvalidValue = xerror("xdr: Invalid value for type")

	// Schema nesting exceeded the configured depth
	ErrMaxDepth = xerror("xdr: Maximum depth exceeded")
)

type LengthError struct {
	Actual, Max uint64
}

func (err LengthError) Is(target error) bool {
	switch target {
	case ErrLengthExceedsMax:
		return err.Actual > err.Max
	case ErrLengthExceedsPlatformLimit:
		return err.Actual > uint64(maxInt)
	default:
		return false
	}
}

func (err LengthError) Error() string {
	if err.Actual > err.Max {
		return fmt.Sprintf("%s (%d > %d)", ErrLengthExceedsMax, err.Actual, err.Max)
	} else {
		return fmt.Sprintf("%s (%d > %d)", ErrLengthExceedsPlatformLimit, err.Actual, maxInt)
	}
}

type FixedLengthError struct {
	Actual, Expected uint64
}

func (err FixedLengthError) Is(target error) bool {
	return target == ErrLengthIncorrect
}

func (err FixedLengthError) Error() string {
	return fmt.Sprintf("%s (%d != %d)", ErrLengthIncorrect, err.Actual, err.Expected)
}

// InsufficientBytesError is returned when the input runs out. Err is the
// underlying reader error, if any.
type InsufficientBytesError struct {
	Need, Have uint64
	Err        error
}

func (err InsufficientBytesError) Is(target error) bool {
	return target == ErrInsufficientBytes
}

func (err InsufficientBytesError) Unwrap() error {
	return err.Err
}

func (err InsufficientBytesError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("%s (%v)", ErrInsufficientBytes, err.Err)
	}
	return fmt.Sprintf("%s (need %d, have %d)", ErrInsufficientBytes, err.Need, err.Have)
}

type UnknownTypeError struct {
	Name string
}

func (err UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}

func (err UnknownTypeError) Error() string {
	return fmt.Sprintf("%s '%s'", ErrUnknownType, err.Name)
}

type UnsupportedTypeError struct {
	Name string
}

func (err UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

func (err UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s '%s'", ErrUnsupportedType, err.Name)
}

type InvalidValueError struct {
	Type  string
	Value interface{}
}

func (err InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

func (err InvalidValueError) Error() string {
	return fmt.Sprintf("%s '%s' (%T %v)", ErrInvalidValue, err.Type, err.Value, err.Value)
}

type EnumValueError struct {
	Enum  string
	Value int32
}

func (err EnumValueError) Is(target error) bool {
	return target == ErrUnknownEnumValue
}

func (err EnumValueError) Error() string {
	return fmt.Sprintf("%s %d for enum '%s'", ErrUnknownEnumValue, err.Value, err.Enum)
}

// SyntaxError locates a compile failure in the IDL source. Err is one of
// ErrSyntax, ErrMalformedDeclaration or ErrInvalidEnumMember.
type SyntaxError struct {
	Line int
	Err  error
	Msg  string
}

func (err SyntaxError) Unwrap() error {
	return err.Err
}

func (err SyntaxError) Error() string {
	uerr := strings.TrimPrefix(err.Err.Error(), "xdr: ")
	if err.Line > 0 {
		return fmt.Sprintf("xdr: line %d: %s: %s", err.Line, uerr, err.Msg)
	}
	return fmt.Sprintf("xdr: %s: %s", uerr, err.Msg)
}

type FieldError struct {
	Underlying error
	Path       string
}

func (err FieldError) Unwrap() error {
	return err.Underlying
}

func (err FieldError) Error() string {
	uerr := strings.TrimPrefix(err.Underlying.Error(), "xdr: ")
	return fmt.Sprintf("xdr: %s (at %s)", uerr, err.Path)
}

// WithFieldError records that err occurred within the named field. Parts
// are (type), (type, field) or (type, field, detail).
func WithFieldError(err error, parts ...string) error {
	if err == nil {
		return nil
	}

	var combined string
	if parts[0] == "" {
		parts[0] = "<anonymous>"
	}

	switch len(parts) {
	case 1:
		combined = parts[0]
	case 3:
		combined = fmt.Sprintf("%s.%s(%s)", parts[0], parts[1], parts[2])
	default:
		combined = strings.Join(parts, ".")
	}

	switch err := err.(type) {
	case FieldError:
		err.Path = fmt.Sprintf("%s %s", combined, err.Path)
		return err
	default:
		return FieldError{err, combined}
	}
}
