// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package commands

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var encodeCmd = &cobra.Command{
	Use:   "encode FILE",
	Short: "Encode a JSON value as base64 XDR",
	Long: `Encode a JSON value with the schema in FILE and print it as base64.

Structs and unions are JSON objects keyed by field name and enums are
labels. Opaque data is given as an array of byte values or as a string,
whose bytes are used as they are.

Examples:
  echo '{"x": 3, "y": -4}' | xdrc encode point.x
  xdrc encode --entry Message --in msg.json message.x`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

var decodeCmd = &cobra.Command{
	Use:   "decode FILE",
	Short: "Decode base64 XDR into a JSON value",
	Long: `Decode base64 text with the schema in FILE and print the value as JSON.
Opaque data is printed as base64.

Examples:
  echo AAAAAP////w= | xdrc decode point.x
  xdrc decode --strict --entry Message --in msg.b64 message.x`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func init() {
	for _, c := range []*cobra.Command{encodeCmd, decodeCmd} {
		c.Flags().String("entry", "", "Entry type (inferred when empty)")
		c.Flags().String("type", "", "Type to encode, when not the entry type")
		c.Flags().String("in", "", "Input file (stdin when empty)")
	}
}

func runEncode(cmd *cobra.Command, args []string) error {
	m, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	in, err := readInput(cmd)
	if err != nil {
		return err
	}
	v, err := decodeJSON(in)
	if err != nil {
		return err
	}

	c := newCoder(m)
	typ, _ := cmd.Flags().GetString("type")

	var b []byte
	if typ == "" {
		b, err = c.Marshal(v)
	} else {
		b, err = c.MarshalType(typ, v)
	}
	if err != nil {
		return err
	}

	log.Debug("encoded value", zap.String("manifest", m.Name), zap.Int("bytes", len(b)))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(b))
	return err
}

func runDecode(cmd *cobra.Command, args []string) error {
	m, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	in, err := readInput(cmd)
	if err != nil {
		return err
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(in)))
	if err != nil {
		return fmt.Errorf("invalid base64 input: %w", err)
	}

	c := newCoder(m)
	typ, _ := cmd.Flags().GetString("type")

	var v interface{}
	if typ == "" {
		v, err = c.Unmarshal(b)
	} else {
		v, err = c.UnmarshalType(typ, b)
	}
	if err != nil {
		return err
	}
	return writeJSON(cmd, v)
}
