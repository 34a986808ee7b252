// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"log/slog"
	"testing"
)

func TestNew(t *testing.T) {
	const (
		expectListen         = ":8080"
		expectLogLevel       = slog.LevelInfo
		expectRadius         = 0.01
		expectDedupThreshold = 50.0
	)
	t.Run("new config with all defaults set", func(t *testing.T) {
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Listen != expectListen {
			t.Errorf("expected listen address to be: %s, got %s", expectListen, conf.Listen)
		}
		if conf.LogLevel != expectLogLevel {
			t.Errorf("expected log level to be: %s, got %s", expectLogLevel, conf.LogLevel)
		}
		if conf.Search.RadiusDegrees != expectRadius {
			t.Errorf("expected search radius to be: %f, got %f", expectRadius, conf.Search.RadiusDegrees)
		}
		if conf.Search.DedupThresholdMeters != expectDedupThreshold {
			t.Errorf("expected dedup threshold to be: %f, got %f", expectDedupThreshold,
				conf.Search.DedupThresholdMeters)
		}
		if conf.WiGLE.APIKey != "" {
			t.Errorf("expected no WiGLE API key by default, got %q", conf.WiGLE.APIKey)
		}
	})
	t.Run("environment overrides the defaults", func(t *testing.T) {
		t.Setenv("HOTSPOTD_LISTEN", ":9090")
		t.Setenv("HOTSPOTD_WIGLE_API_KEY", "user:token")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Listen != ":9090" {
			t.Errorf("expected listen address to be: %s, got %s", ":9090", conf.Listen)
		}
		if conf.WiGLE.APIKey != "user:token" {
			t.Errorf("expected WiGLE API key to be set, got %q", conf.WiGLE.APIKey)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("zero search radius fails validation", func(t *testing.T) {
		t.Setenv("HOTSPOTD_SEARCH_RADIUS_DEGREES", "0")
		if _, err := New(); err == nil {
			t.Error("expected config validation to fail on a zero radius")
		}
	})
	t.Run("oversized search radius fails validation", func(t *testing.T) {
		t.Setenv("HOTSPOTD_SEARCH_RADIUS_DEGREES", "2.5")
		if _, err := New(); err == nil {
			t.Error("expected config validation to fail on an oversized radius")
		}
	})
	t.Run("negative dedup threshold fails validation", func(t *testing.T) {
		t.Setenv("HOTSPOTD_SEARCH_DEDUP_THRESHOLD_METERS", "-1")
		if _, err := New(); err == nil {
			t.Error("expected config validation to fail on a negative threshold")
		}
	})
	t.Run("api key and credential file are mutually exclusive", func(t *testing.T) {
		t.Setenv("HOTSPOTD_WIGLE_API_KEY", "user:token")
		t.Setenv("HOTSPOTD_WIGLE_CREDENTIAL_FILE", "/tmp/wigle-credential")
		if _, err := New(); err == nil {
			t.Error("expected config validation to fail on conflicting credential settings")
		}
	})
	t.Run("empty listen address fails validation", func(t *testing.T) {
		conf := &Config{}
		conf.Search.RadiusDegrees = 0.01
		conf.Search.DedupThresholdMeters = 50
		if err := conf.Validate(); err == nil {
			t.Error("expected config validation to fail on an empty listen address")
		}
	})
}

func TestNewFromFile(t *testing.T) {
	t.Run("loading a nonexistent file fails", func(t *testing.T) {
		if _, err := NewFromFile(t.TempDir(), "config.toml"); err == nil {
			t.Error("expected loading a nonexistent config file to fail")
		}
	})
}
