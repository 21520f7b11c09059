// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Value
	}
	return out
}

func TestTokenize(t *testing.T) {
	testcases := []struct {
		Name   string
		Input  string
		Values []string
	}{
		{
			Name:   "declaration",
			Input:  "unsigned int *x<5>;",
			Values: []string{"unsigned", "int", "*", "x", "<", "5", ">", ";"},
		}, {
			Name:   "numbers",
			Input:  "const A = 0x1F; const B = -12; const C = 017;",
			Values: []string{"const", "A", "=", "0x1F", ";", "const", "B", "=", "-12", ";", "const", "C", "=", "017", ";"},
		}, {
			Name:   "comments",
			Input:  "int /* a\nb */ x; // trailing\nint y;",
			Values: []string{"int", "x", ";", "int", "y", ";"},
		}, {
			Name:   "pass-through lines",
			Input:  "%#define FOO\nint x;\n  %indented",
			Values: []string{"int", "x", ";"},
		},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			toks, err := Tokenize(tc.Input)
			require.NoError(t, err)
			assert.Equal(t, tc.Values, values(toks))
		})
	}
}

func TestTokenizeLines(t *testing.T) {
	toks, err := Tokenize("%pass\nstruct A {\n/* one\ntwo */\n int x;\n};")
	require.NoError(t, err)
	require.Len(t, toks, 8)

	assert.Equal(t, Token{"struct", Ident, 2}, toks[0])
	assert.Equal(t, Token{"{", Punct, 2}, toks[2])
	assert.Equal(t, Token{"int", Ident, 5}, toks[3])
	assert.Equal(t, Token{";", Punct, 6}, toks[7])
}

func TestTokenizeErrors(t *testing.T) {
	_, err := Tokenize("int x; /* never closed")
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 1, terr.Line)

	_, err = Tokenize("int\nx @ 3;")
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 2, terr.Line)
	assert.Equal(t, byte('@'), terr.Char)

	_, err = Tokenize("int x; %oops")
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, byte('%'), terr.Char)
}

func TestTokenIs(t *testing.T) {
	assert.True(t, Token{";", Punct, 1}.Is(";"))
	assert.True(t, Token{"case", Ident, 1}.Is("case"))
	assert.False(t, Token{"1", Number, 1}.Is("1"))
}
