// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package commands implements the xdrc command line
package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.e43.eu/xdrschema"
	"go.e43.eu/xdrschema/include"
	"go.e43.eu/xdrschema/internal/config"
	"go.e43.eu/xdrschema/registry"
)

var (
	// Version information injected at build time
	Version = "dev"
	Commit  = "none"
)

// State shared by subcommands, set up by the root command's pre-run
var (
	cfg *config.Config
	log *zap.Logger
	reg *registry.Registry
)

var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "xdrc",
	Short: "XDR schema compiler and codec",
	Long: `xdrc compiles XDR IDL (RFC 4506) into manifests, and uses them to
encode and decode values.

Values are read and written as JSON; encoded data as base64 text.

Settings may also be given in a YAML configuration file (--config) or as
XDRC_* environment variables, e.g. XDRC_CODEC_STRICT=true.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = Version + " (" + Commit + ")"
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Configuration file")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	flags.Bool("strict", false, "Reject undefined enum values and union arms when decoding")
	flags.String("include-base", "", "Base path or URL for relative schemas and includes")

	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("codec.strict", flags.Lookup("strict"))
	_ = v.BindPFlag("include.base", flags.Lookup("include-base"))

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	c, err := config.Load(v, configPath)
	if err != nil {
		return err
	}

	l, err := c.Log.Logger()
	if err != nil {
		return err
	}

	cfg, log = c, l
	xdrschema.SetLogger(log)

	resolver := include.NewResolver(include.DefaultFetcher(), include.Options{
		TTL:        cfg.Include.CacheTTL,
		MaxEntries: cfg.Include.CacheSize,
		Timeout:    cfg.Include.Timeout,
		Logger:     log,
	})
	reg = registry.New(registry.Options{
		Resolver: resolver,
		Base:     cfg.Include.Base,
		Logger:   log,
	})
	return nil
}
