// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Command xdrc compiles XDR IDL into manifests and encodes or decodes
// values with them.
package main

import (
	"fmt"
	"os"

	"go.e43.eu/xdrschema/cmd/xdrc/commands"
)

// Build-time variables injected via ldflags
var (
	version = "dev"
	commit  = "none"
)

func main() {
	commands.Version = version
	commands.Commit = commit

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
