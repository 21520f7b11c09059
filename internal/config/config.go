// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package config loads the configuration of the xdrc command.
//
// Settings are taken, in decreasing order of precedence, from command line
// flags bound to the viper instance, XDRC_* environment variables, the
// configuration file, and the defaults below.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go.e43.eu/xdrschema/internal/coder"
)

// EnvPrefix of environment variables; XDRC_CODEC_STRICT sets codec.strict
const EnvPrefix = "XDRC"

type Log struct {
	// Level is one of debug, info, warn or error
	Level string `mapstructure:"level" yaml:"level"`

	// Format is console or json
	Format string `mapstructure:"format" yaml:"format"`
}

type Include struct {
	// Base against which relative schema and include paths are resolved
	Base string `mapstructure:"base" yaml:"base"`

	// CacheTTL of fetched includes; zero keeps them for the whole run
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`

	// CacheSize bounds the number of cached includes; zero is unbounded
	CacheSize int `mapstructure:"cache_size" yaml:"cache_size"`

	// Timeout of each fetch
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type Codec struct {
	Strict   bool `mapstructure:"strict" yaml:"strict"`
	MaxDepth int  `mapstructure:"max_depth" yaml:"max_depth"`
}

type Config struct {
	Log     Log     `mapstructure:"log" yaml:"log"`
	Include Include `mapstructure:"include" yaml:"include"`
	Codec   Codec   `mapstructure:"codec" yaml:"codec"`
}

// New returns a viper instance with defaults and environment lookup set up.
// Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("include.base", "")
	v.SetDefault("include.cache_ttl", time.Duration(0))
	v.SetDefault("include.cache_size", 0)
	v.SetDefault("include.timeout", 30*time.Second)
	v.SetDefault("codec.strict", false)
	v.SetDefault("codec.max_depth", coder.DefaultMaxDepth)
	return v
}

// Load reads the configuration file at path, if path is not empty, and
// returns the merged configuration
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("configuration file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values which cannot be checked by decoding alone
func Validate(cfg *Config) error {
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Log.Format)
	}
	if cfg.Include.CacheTTL < 0 {
		return fmt.Errorf("include.cache_ttl: must not be negative")
	}
	if cfg.Include.CacheSize < 0 {
		return fmt.Errorf("include.cache_size: must not be negative")
	}
	if cfg.Include.Timeout < 0 {
		return fmt.Errorf("include.timeout: must not be negative")
	}
	if cfg.Codec.MaxDepth < 0 {
		return fmt.Errorf("codec.max_depth: must not be negative")
	}
	return nil
}

// Logger builds the logger described by cfg. It always writes to stderr.
func (cfg Log) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
		zc.Development = false
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
