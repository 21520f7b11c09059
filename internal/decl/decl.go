// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package decl parses single XDR declarations such as `unsigned int *x<5>`
package decl

import (
	"fmt"
	"strconv"
	"strings"

	"go.e43.eu/xdrschema/internal/errors"
	"go.e43.eu/xdrschema/internal/token"
	"go.e43.eu/xdrschema/manifest"
)

// ParseNumber parses an integer literal following C radix rules: a `0x`
// prefix is hexadecimal, a leading `0` is octal, and anything else is
// decimal. A leading `-` negates.
func ParseNumber(s string) (int64, error) {
	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")

	base := 10
	switch {
	case strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X"):
		base, digits = 16, digits[2:]
	case len(digits) > 1 && digits[0] == '0':
		base, digits = 8, digits[1:]
	}
	if digits == "" || strings.ContainsAny(digits, "+-_") {
		return 0, fmt.Errorf("invalid number %q", s)
	}

	u, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if neg {
		if u > 1<<63 {
			return 0, fmt.Errorf("number %q out of range", s)
		}
		return -int64(u), nil
	}
	if u > 1<<63-1 {
		return 0, fmt.Errorf("number %q out of range", s)
	}
	return int64(u), nil
}

// Value resolves a number literal or the name of a constant
func Value(t token.Token, consts map[string]int64) (int64, error) {
	switch t.Type {
	case token.Number:
		return ParseNumber(t.Value)
	case token.Ident:
		if v, ok := consts[t.Value]; ok {
			return v, nil
		}
		return 0, fmt.Errorf("unknown constant %q", t.Value)
	}
	return 0, fmt.Errorf("expected number, got %q", t.Value)
}

func malformed(line int, format string, args ...interface{}) error {
	return errors.SyntaxError{
		Line: line,
		Err:  errors.ErrMalformedDeclaration,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Parse parses the declaration text (with or without its trailing
// semicolon). consts supplies the named constants usable as array bounds.
func Parse(text string, consts map[string]int64) (manifest.Declaration, error) {
	toks, err := token.Tokenize(text)
	if err != nil {
		return manifest.Declaration{}, errors.SyntaxError{Err: errors.ErrMalformedDeclaration, Msg: err.Error()}
	}
	if n := len(toks); n > 0 && toks[n-1].Is(";") {
		toks = toks[:n-1]
	}
	return FromTokens(toks, consts)
}

var typeKeywords = map[string]bool{
	"struct": true,
	"union":  true,
	"enum":   true,
}

// FromTokens parses the tokens of one declaration, excluding the semicolon
func FromTokens(toks []token.Token, consts map[string]int64) (manifest.Declaration, error) {
	var d manifest.Declaration
	if len(toks) == 0 {
		return d, malformed(0, "empty declaration")
	}

	line := toks[0].Line
	pos := 0
	peek := func() *token.Token {
		if pos >= len(toks) {
			return nil
		}
		return &toks[pos]
	}

	// `struct Foo x;` and friends: the keyword is redundant
	if t := peek(); t.Type == token.Ident && typeKeywords[t.Value] && len(toks) > 1 && toks[1].Type == token.Ident {
		pos++
	}

	t := peek()
	if t.Type != token.Ident {
		return d, malformed(line, "expected type, got %q", t.Value)
	}
	pos++

	if t.Value == "unsigned" {
		d.Unsigned = true
		d.Type = "int"
		if n := peek(); n != nil && n.Type == token.Ident && (n.Value == "int" || n.Value == "hyper" || n.Value == "long") {
			if n.Value == "hyper" {
				d.Type = "hyper"
			}
			pos++
		}
	} else {
		d.Type = t.Value
	}

	if t := peek(); t != nil && t.Is("*") {
		d.Optional = true
		pos++
	}

	if d.Type == "void" {
		if t := peek(); t != nil && t.Type == token.Ident {
			d.Identifier = t.Value
			pos++
		}
		if t := peek(); t != nil {
			return d, malformed(t.Line, "unexpected %q after void", t.Value)
		}
		return d, nil
	}

	if t := peek(); t != nil && t.Is("*") {
		d.Optional = true
		pos++
	}

	t = peek()
	if t == nil {
		return d, malformed(line, "missing identifier after %q", d.Type)
	}
	if t.Type != token.Ident {
		return d, malformed(t.Line, "expected identifier, got %q", t.Value)
	}
	d.Identifier = t.Value
	pos++

	if t := peek(); t != nil {
		var closer string
		switch {
		case t.Is("<"):
			d.Mode, closer = manifest.ModeVariable, ">"
		case t.Is("["):
			d.Mode, closer = manifest.ModeFixed, "]"
		default:
			return d, malformed(t.Line, "unexpected %q after identifier", t.Value)
		}
		pos++

		n := peek()
		switch {
		case n == nil:
			return d, malformed(t.Line, "unterminated array bound")

		case n.Is(closer) && d.Mode == manifest.ModeVariable:
			d.Length = manifest.Unbounded

		case n.Is(closer):
			return d, malformed(n.Line, "fixed length array requires a length")

		default:
			v, err := Value(*n, consts)
			if err != nil {
				return d, malformed(n.Line, "%v", err)
			}
			if v < 0 || v > int64(manifest.Unbounded) {
				return d, malformed(n.Line, "array bound %d out of range", v)
			}
			d.Length = uint32(v)
			pos++
			if n = peek(); n == nil || !n.Is(closer) {
				return d, malformed(t.Line, "expected %q", closer)
			}
		}
		pos++
	}

	if t := peek(); t != nil {
		return d, malformed(t.Line, "unexpected %q", t.Value)
	}
	return d, nil
}
