// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package config holds the hotspotd application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kkyr/fig"
)

const configEnv = "HOTSPOTD"

// Config represents the application's configuration structure.
type Config struct {
	// Listen is the address the HTTP API binds to
	Listen   string     `fig:"listen" default:":8080"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	WiGLE struct {
		// APIKey is the WiGLE credential in "username:token" form. Leave empty to
		// disable the commercial data source.
		APIKey string `fig:"api_key"`
		// CredentialFile optionally points at a file holding the credential. The file
		// is watched and reloaded on change, so the key can be rotated at runtime.
		CredentialFile string `fig:"credential_file"`
	} `fig:"wigle"`

	Search struct {
		// RadiusDegrees is the default bounding-box half-size in degrees of
		// latitude/longitude (0.01 is roughly 1 km, depending on latitude)
		RadiusDegrees float64 `fig:"radius_degrees" default:"0.01"`
		// DedupThresholdMeters is the proximity below which two records from
		// different sources count as the same access point
		DedupThresholdMeters float64 `fig:"dedup_threshold_meters" default:"50"`
	} `fig:"search"`
}

// NewFromFile loads the configuration from the given file, with environment overrides
func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// New loads the configuration from defaults and the environment only
func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// Validate checks the loaded configuration for values that cannot work
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.Search.RadiusDegrees <= 0 || c.Search.RadiusDegrees > 1 {
		return fmt.Errorf("invalid search radius: %f", c.Search.RadiusDegrees)
	}
	if c.Search.DedupThresholdMeters <= 0 {
		return fmt.Errorf("invalid dedup threshold: %f", c.Search.DedupThresholdMeters)
	}
	if c.WiGLE.APIKey != "" && c.WiGLE.CredentialFile != "" {
		return fmt.Errorf("wigle api_key and credential_file are mutually exclusive")
	}

	return nil
}
