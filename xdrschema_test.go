// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package xdrschema

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const accountIDL = `
enum Status { OPEN = 0, FROZEN = 1 };
struct Account {
	string owner<32>;
	unsigned hyper balance;
	Status status;
	opaque tag[4];
};
`

func account(t *testing.T) *Manifest {
	t.Helper()
	m, err := Compile(accountIDL)
	require.NoError(t, err)
	return m
}

var accountValue = map[string]interface{}{
	"owner":   "ada",
	"balance": uint64(1 << 40),
	"status":  "FROZEN",
	"tag":     []byte{1, 2, 3, 4},
}

var accountBytes = []byte{
	0x00, 0x00, 0x00, 0x03, 'a', 'd', 'a', 0x00,
	0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x01,
	0x01, 0x02, 0x03, 0x04,
}

func TestMarshalUnmarshal(t *testing.T) {
	m := account(t)

	b, err := Marshal(m, accountValue)
	require.NoError(t, err)
	assert.Equal(t, accountBytes, b)

	v, err := Unmarshal(m, b)
	require.NoError(t, err)
	assert.Equal(t, accountValue, v)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, accountValue))
	v, err = Read(&buf, m)
	require.NoError(t, err)
	assert.Equal(t, accountValue, v)
}

func TestParseStringify(t *testing.T) {
	c := NewCoder(account(t))

	text, err := Stringify(c, accountValue)
	require.NoError(t, err)

	v, err := Parse(c, text)
	require.NoError(t, err)
	assert.Equal(t, accountValue, v)

	_, err = Parse(c, "%%%")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUnmarshalInto(t *testing.T) {
	type Account struct {
		Owner   string `xdr:"owner"`
		Balance uint64 `xdr:"balance"`
		Status  string `xdr:"status"`
		Tag     []byte `xdr:"tag"`
	}

	var got Account
	require.NoError(t, UnmarshalInto(NewCoder(account(t)), accountBytes, &got))
	assert.Equal(t, Account{Owner: "ada", Balance: 1 << 40, Status: "FROZEN", Tag: []byte{1, 2, 3, 4}}, got)

	// Go structs encode through the same tags
	b, err := Marshal(account(t), got)
	require.NoError(t, err)
	assert.Equal(t, accountBytes, b)
}

func TestInstance(t *testing.T) {
	c := NewCoder(account(t))

	fromValue := InstanceFromValue(c, "", accountValue)
	assert.Equal(t, "Account", fromValue.Type())
	b, err := fromValue.Bytes()
	require.NoError(t, err)
	assert.Equal(t, accountBytes, b)

	fromBytes := InstanceFromBytes(c, "", accountBytes)
	v, err := fromBytes.Value()
	require.NoError(t, err)
	assert.Equal(t, accountValue, v)
	assert.Equal(t, fromValue.String(), fromBytes.String())

	status := InstanceFromBytes(c, "Status", []byte{0, 0, 0, 1})
	v, err = status.Value()
	require.NoError(t, err)
	assert.Equal(t, "FROZEN", v)

	bad := InstanceFromValue(c, "Status", "MELTED")
	_, err = bad.Bytes()
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "", bad.String())
}

func TestStrict(t *testing.T) {
	m := account(t)
	unknown := append([]byte(nil), accountBytes...)
	unknown[19] = 9

	v, err := Unmarshal(m, unknown)
	require.NoError(t, err)
	assert.Equal(t, "OPEN", v.(map[string]interface{})["status"])

	_, err = NewCoder(m, WithStrict(true)).Unmarshal(unknown)
	assert.ErrorIs(t, err, ErrUnknownEnumValue)
}

func TestCompileOptions(t *testing.T) {
	SetLogger(zap.NewNop())

	m, err := Compile(accountIDL,
		WithEntry("Status"),
		WithName("status"),
		WithNamespace("bank"))
	require.NoError(t, err)
	assert.Equal(t, "Status", m.Entry)
	assert.Equal(t, "status", m.Name)
	assert.Equal(t, "bank", m.Namespace)
	assert.Equal(t, []string{"Status"}, m.Names())

	_, err = Compile(`struct A { int x; `)
	assert.ErrorIs(t, err, ErrSyntax)

	d, err := ParseDeclaration("opaque data<LIMIT>", map[string]int64{"LIMIT": 16})
	require.NoError(t, err)
	assert.Equal(t, "opaque data<16>", d.String())
}

func TestNewManifest(t *testing.T) {
	m := NewManifest("Pair")
	m.Structs["Pair"] = []Declaration{
		{Type: "int", Identifier: "a"},
		{Type: "int", Identifier: "b"},
	}

	b, err := Marshal(m, map[string]interface{}{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 1, 0, 0, 0, 2}, b)
}
