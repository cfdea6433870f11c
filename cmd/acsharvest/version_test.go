package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion tests version string resolution.
func TestGetVersion(t *testing.T) {
	t.Run("returns ldflags version when set", func(t *testing.T) {
		orig := version
		defer func() { version = orig }()

		version = "v2.1.0"
		if got := getVersion(); got != "v2.1.0" {
			t.Errorf("getVersion() = %q, want v2.1.0", got)
		}
	})

	t.Run("never empty", func(t *testing.T) {
		if getVersion() == "" {
			t.Error("getVersion() should never be empty")
		}
	})
}

// TestGetCommit tests commit hash resolution.
func TestGetCommit(t *testing.T) {
	t.Run("returns ldflags commit when set", func(t *testing.T) {
		orig := commit
		defer func() { commit = orig }()

		commit = "abcdef1"
		if got := getCommit(); got != "abcdef1" {
			t.Errorf("getCommit() = %q, want abcdef1", got)
		}
	})
}

// TestVersionCmd tests the version command output.
func TestVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out.String(), "acsharvest version") {
		t.Errorf("output = %q", out.String())
	}
}
