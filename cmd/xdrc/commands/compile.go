// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.e43.eu/xdrschema/interchange"
)

var compileCmd = &cobra.Command{
	Use:   "compile FILE",
	Short: "Compile IDL into a manifest",
	Long: `Compile an XDR IDL file (path or URL) into a manifest.

Examples:
  # Print the manifest as JSON, inferring the entry type
  xdrc compile point.x

  # Pick the entry type and print a base64 XDR TypeCollection
  xdrc compile --entry Message --format xdr message.x`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().String("entry", "", "Entry type (inferred when empty)")
	compileCmd.Flags().String("name", "", "Manifest name (defaults to the entry)")
	compileCmd.Flags().StringP("format", "f", formatJSON, "Output format (json|yaml|xdr)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	m, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case formatJSON:
		return writeJSON(cmd, m)
	case formatYAML:
		return writeYAML(cmd, m)
	case formatXDR:
		text, err := interchange.MarshalText(m)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	default:
		return unknownFormat(format)
	}
}
