// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package token splits XDR IDL source into tokens
package token

import (
	"fmt"
	"strings"
)

type Type int

const (
	Ident Type = iota
	Number
	Punct
)

func (t Type) String() string {
	switch t {
	case Ident:
		return "identifier"
	case Number:
		return "number"
	case Punct:
		return "punctuation"
	}
	return "unknown"
}

type Token struct {
	Value string
	Type  Type
	Line  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q (line %d)", t.Type, t.Value, t.Line)
}

// Is reports whether t is the punctuation or identifier v
func (t Token) Is(v string) bool {
	return t.Type != Number && t.Value == v
}

const punctuation = "{}()[]<>;:,=*"

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Error is a character the tokenizer does not understand
type Error struct {
	Line int
	Char byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: unexpected character %q", e.Line, e.Char)
}

// Tokenize splits input into tokens. C and C++ style comments are skipped,
// as are `%` pass-through lines.
func Tokenize(input string) ([]Token, error) {
	var tokens []Token
	line := 1
	atLineStart := true

	for i := 0; i < len(input); i++ {
		c := input[i]

		if c == '\n' {
			line++
			atLineStart = true
			continue
		}
		if c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v' {
			continue
		}

		// Pass-through line
		if c == '%' && atLineStart {
			for i < len(input) && input[i] != '\n' {
				i++
			}
			i--
			continue
		}
		atLineStart = false

		// Line comment
		if c == '/' && i+1 < len(input) && input[i+1] == '/' {
			for i < len(input) && input[i] != '\n' {
				i++
			}
			i--
			continue
		}

		// Block comment
		if c == '/' && i+1 < len(input) && input[i+1] == '*' {
			end := strings.Index(input[i+2:], "*/")
			if end < 0 {
				return nil, &Error{line, c}
			}
			line += strings.Count(input[i:i+2+end], "\n")
			i += end + 3
			continue
		}

		if strings.IndexByte(punctuation, c) >= 0 {
			tokens = append(tokens, Token{string(c), Punct, line})
			continue
		}

		if isDigit(c) || (c == '-' && i+1 < len(input) && isDigit(input[i+1])) {
			start := i
			i++
			for i < len(input) && (isIdentChar(input[i])) {
				i++
			}
			tokens = append(tokens, Token{input[start:i], Number, line})
			i--
			continue
		}

		if isIdentStart(c) {
			start := i
			for i < len(input) && isIdentChar(input[i]) {
				i++
			}
			tokens = append(tokens, Token{input[start:i], Ident, line})
			i--
			continue
		}

		return nil, &Error{line, c}
	}

	return tokens, nil
}
