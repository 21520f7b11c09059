// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"go.e43.eu/xdrschema"
	"go.e43.eu/xdrschema/manifest"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatXDR  = "xdr"
)

// readInput reads the file named by the --in flag, or stdin when it is
// empty or "-"
func readInput(cmd *cobra.Command) ([]byte, error) {
	path, _ := cmd.Flags().GetString("in")
	return readFile(cmd, path)
}

func readFile(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// load compiles the schema at path through the registry
func load(cmd *cobra.Command, path string) (*manifest.Manifest, error) {
	entry, _ := cmd.Flags().GetString("entry")

	var opts []xdrschema.CompileOption
	if cmd.Flags().Lookup("name") != nil {
		if name, _ := cmd.Flags().GetString("name"); name != "" {
			opts = append(opts, xdrschema.WithName(name))
		}
	}
	return reg.Load(cmd.Context(), path, entry, opts...)
}

func newCoder(m *manifest.Manifest) xdrschema.Coder {
	return xdrschema.NewCoder(m,
		xdrschema.WithStrict(cfg.Codec.Strict),
		xdrschema.WithMaxDepth(cfg.Codec.MaxDepth))
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(cmd *cobra.Command, v interface{}) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// decodeJSON parses a JSON value, keeping numbers exact
func decodeJSON(b []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON value: %w", err)
	}
	return v, nil
}

func unknownFormat(format string) error {
	return fmt.Errorf("unknown format %q", format)
}
