// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"go.e43.eu/xdrschema/interchange"
	"go.e43.eu/xdrschema/manifest"
)

var exportCmd = &cobra.Command{
	Use:   "export FILE...",
	Short: "Bundle the manifests of several schemas into a TypeCollection",
	Long: `Compile each FILE and write their manifests as one TypeCollection.

Types shared between schemas are stored once.

Examples:
  xdrc export --format json a.x b.x
  xdrc export a.x b.x > bundle.b64`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Unpack a TypeCollection into manifests",
	Long: `Read a TypeCollection, as base64 XDR or JSON, and print its manifests.

Examples:
  xdrc import bundle.b64
  xdrc import --format json bundle.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringP("format", "f", formatXDR, "Output format (xdr|json|yaml)")
	importCmd.Flags().StringP("format", "f", formatXDR, "Input format (xdr|json|yaml)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ms := make([]*manifest.Manifest, 0, len(args))
	for _, path := range args {
		m, err := load(cmd, path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		ms = append(ms, m)
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case formatXDR:
		text, err := interchange.MarshalText(ms...)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	case formatJSON:
		return writeJSON(cmd, interchange.Export(ms...))
	case formatYAML:
		return writeYAML(cmd, interchange.Export(ms...))
	default:
		return unknownFormat(format)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	in, err := readFile(cmd, args[0])
	if err != nil {
		return err
	}

	var ms []*manifest.Manifest
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case formatXDR:
		ms, err = interchange.UnmarshalText(strings.TrimSpace(string(in)))
	case formatJSON:
		ms, err = interchange.UnmarshalJSON(in)
	case formatYAML:
		ms, err = interchange.UnmarshalYAML(in)
	default:
		return unknownFormat(format)
	}
	if err != nil {
		return err
	}

	for _, m := range ms {
		reg.Put(m)
	}
	return writeJSON(cmd, ms)
}
