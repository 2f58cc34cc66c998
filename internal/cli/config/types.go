// Package config provides configuration management for the sqlcol CLI.
//
// Configuration is layered: built-in defaults, then an optional
// sqlcol.yaml file, then SQLCOL_-prefixed environment variables, then
// command-line flags.
package config

import (
	"github.com/datatrail-labs/sqlcol/pkg/extract"
)

// Defaults.
const (
	DefaultDialect  = ""
	DefaultFallback = string(extract.FallbackStrict)
	DefaultOutput   = "auto"
	DefaultOutFile  = "columns.csv"
	DefaultWorkers  = 4
)

// Config holds all CLI configuration options.
type Config struct {
	Dialect             string `koanf:"dialect"`
	MultiDialect        bool   `koanf:"multi_dialect"`
	ResolveUnqualified  bool   `koanf:"resolve_unqualified"`
	UnqualifiedFallback string `koanf:"unqualified_fallback"`
	Output              string `koanf:"output"`
	OutFile             string `koanf:"out_file"`
	Workers             int    `koanf:"workers"`
	Verbose             bool   `koanf:"verbose"`
}

// ExtractOptions converts the CLI configuration into core extraction
// options.
func (c *Config) ExtractOptions() extract.Options {
	return extract.Options{
		Dialect:             c.Dialect,
		MultiDialect:        c.MultiDialect,
		ResolveUnqualified:  c.ResolveUnqualified,
		UnqualifiedFallback: extract.FallbackPolicy(c.UnqualifiedFallback),
	}
}
