package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/acsarchive/acsharvest/internal/config"
)

// parseHarvest parses the given args against a fresh harvest command and
// returns the built config.
func parseHarvest(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	var cfg *config.Config
	cmd := NewHarvestCmd()
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = buildConfig(cmd)
		return err
	}
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	return cfg, err
}

// TestBuildConfigDefaults tests that defaults flow through.
func TestBuildConfigDefaults(t *testing.T) {
	cfg, err := parseHarvest(t, "--scrape")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if cfg.BaseURL != config.DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Start != config.DefaultStart || cfg.End != config.DefaultEnd {
		t.Errorf("range = %d-%d", cfg.Start, cfg.End)
	}
	if cfg.Concurrency != config.DefaultConcurrency {
		t.Errorf("Concurrency = %d", cfg.Concurrency)
	}
	if cfg.Retries != config.DefaultRetries {
		t.Errorf("Retries = %d", cfg.Retries)
	}
	if !cfg.Phases.Scrape || cfg.Phases.Names || cfg.Phases.Backlinks || cfg.Phases.Reconcile {
		t.Errorf("phases = %+v", cfg.Phases)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

// TestBuildConfigFlags tests explicit flag overrides.
func TestBuildConfigFlags(t *testing.T) {
	cfg, err := parseHarvest(t,
		"--getnames", "--scrape", "--backlinks", "--cross",
		"--start", "100", "--end", "199",
		"--limit", "3", "--retries", "1",
		"--timeout", "5s", "--rate", "2.5",
		"--max-pages", "7",
		"--base-url", "https://mirror.example.com",
		"--output", "artifacts",
	)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if cfg.Start != 100 || cfg.End != 199 {
		t.Errorf("range = %d-%d", cfg.Start, cfg.End)
	}
	if cfg.Concurrency != 3 || cfg.Retries != 1 {
		t.Errorf("limit=%d retries=%d", cfg.Concurrency, cfg.Retries)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s", cfg.Timeout)
	}
	if cfg.RequestsPerSecond != 2.5 {
		t.Errorf("RequestsPerSecond = %g", cfg.RequestsPerSecond)
	}
	if cfg.MaxBacklinkPages != 7 {
		t.Errorf("MaxBacklinkPages = %d", cfg.MaxBacklinkPages)
	}
	if cfg.BaseURL != "https://mirror.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.OutputDir != "artifacts" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if !cfg.Phases.Names || !cfg.Phases.Scrape || !cfg.Phases.Backlinks || !cfg.Phases.Reconcile {
		t.Errorf("phases = %+v", cfg.Phases)
	}
}

// TestBuildConfigFile tests config file loading and flag precedence.
func TestBuildConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")
	content := "base_url: https://file.example.com\ntimeout: 90s\noutput_dir: from-file\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Run("file values apply", func(t *testing.T) {
		cfg, err := parseHarvest(t, "--scrape", "--config", path)
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}
		if cfg.BaseURL != "https://file.example.com" {
			t.Errorf("BaseURL = %q", cfg.BaseURL)
		}
		if cfg.Timeout != 90*time.Second {
			t.Errorf("Timeout = %s", cfg.Timeout)
		}
		if cfg.OutputDir != "from-file" {
			t.Errorf("OutputDir = %q", cfg.OutputDir)
		}
	})

	t.Run("explicit flags override the file", func(t *testing.T) {
		cfg, err := parseHarvest(t, "--scrape", "--config", path,
			"--base-url", "https://flag.example.com", "--timeout", "10s")
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}
		if cfg.BaseURL != "https://flag.example.com" {
			t.Errorf("BaseURL = %q", cfg.BaseURL)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("Timeout = %s", cfg.Timeout)
		}
	})

	t.Run("missing explicit file errors", func(t *testing.T) {
		if _, err := parseHarvest(t, "--scrape", "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

// TestBuildConfigNoPhases tests that a phase-less run fails validation.
func TestBuildConfigNoPhases(t *testing.T) {
	cfg, err := parseHarvest(t)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error when no phases are selected")
	}
}
