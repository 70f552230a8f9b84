package config

import (
	"testing"

	"github.com/omaimashtiew/Tareeqy-public-view/internal/status"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.DBDSN == "" {
		t.Error("expected a default DB_DSN")
	}
	if cfg.Timezone != "Asia/Gaza" {
		t.Errorf("Timezone = %q, want Asia/Gaza", cfg.Timezone)
	}
	if cfg.PredictIntervalSec != 60 {
		t.Errorf("PredictIntervalSec = %d, want 60", cfg.PredictIntervalSec)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MQTT_TOPIC", "tareeqy/test/+")
	t.Setenv("TRAIN_WINDOW_DAYS", "14")
	t.Setenv("DEFAULT_WAIT_MIN", "7.5")
	t.Setenv("CACHE_TTL_SEC", "not-a-number")

	cfg := Load()
	if cfg.MQTTTopic != "tareeqy/test/+" {
		t.Errorf("MQTTTopic = %q, want override", cfg.MQTTTopic)
	}
	if cfg.TrainWindowDays != 14 {
		t.Errorf("TrainWindowDays = %d, want 14", cfg.TrainWindowDays)
	}
	if cfg.DefaultWaitMin != 7.5 {
		t.Errorf("DefaultWaitMin = %v, want 7.5", cfg.DefaultWaitMin)
	}
	if cfg.CacheTTLSec != 120 {
		t.Errorf("CacheTTLSec = %d, want fallback 120 on bad value", cfg.CacheTTLSec)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty dsn", func(c *Config) { c.DBDSN = "" }},
		{"zero train window", func(c *Config) { c.TrainWindowDays = 0 }},
		{"zero predict interval", func(c *Config) { c.PredictIntervalSec = 0 }},
		{"negative default wait", func(c *Config) { c.DefaultWaitMin = -1 }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDefaultTaxonomyPrecedence(t *testing.T) {
	tax := DefaultTaxonomy()
	if len(tax) == 0 {
		t.Fatal("empty taxonomy")
	}
	if tax[0].Label != status.Closed {
		t.Errorf("first taxonomy entry = %q, want closed to outrank everything", tax[0].Label)
	}
	// A message claiming both closed and open must classify as closed.
	if got := status.Classify("الحاجز مغلق وكان سالك", tax); got != status.Closed {
		t.Errorf("Classify = %q, want closed", got)
	}
}

func TestSeedDataConsistency(t *testing.T) {
	names := DefaultFenceNames()
	if len(names) != 40 {
		t.Fatalf("seed list has %d names, want 40", len(names))
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			t.Errorf("duplicate seed name %q", n)
		}
		seen[n] = true
	}
	for alias, canonical := range DefaultAliases() {
		if !seen[canonical] {
			t.Errorf("alias %q points at unknown checkpoint %q", alias, canonical)
		}
		if seen[alias] {
			t.Errorf("alias %q is itself a seed name", alias)
		}
	}
}
