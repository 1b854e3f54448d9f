// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pulseboard.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" || cfg.SessionLifetime != 30*24*time.Hour || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfigFile(t, `
port: "9090"
database_url: postgres://localhost/pulse
timezone: Asia/Dubai
viewer_password: viewer
admin_password: admin
session_lifetime: 12h
`)

	t.Setenv("PULSEBOARD_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "7070" {
		t.Fatalf("expected env to override file, got %q", cfg.Port)
	}

	if cfg.DatabaseURL != "postgres://localhost/pulse" {
		t.Fatalf("unexpected database url %q", cfg.DatabaseURL)
	}

	if cfg.SessionLifetime != 12*time.Hour {
		t.Fatalf("unexpected session lifetime %s", cfg.SessionLifetime)
	}

	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level to survive, got %q", cfg.LogLevel)
	}

	loc, err := cfg.Location()
	if err != nil || loc.String() != "Asia/Dubai" {
		t.Fatalf("unexpected location %v %v", loc, err)
	}

	if got := cfg.TierPasswords(); got[1] != "viewer" || got[2] != "admin" {
		t.Fatalf("unexpected tier passwords %v", got)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := writeConfigFile(t, "timezone: Mars/Olympus\n")
	if _, err := Load(path); !errors.Is(err, ErrUnknownTimezone) {
		t.Fatalf("expected ErrUnknownTimezone, got %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	cfg := Default()
	cfg.SessionLifetime = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidSessionLifetime) {
		t.Fatalf("expected ErrInvalidSessionLifetime, got %v", err)
	}
}
