/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package config loads pulseboard settings from defaults, an optional YAML
// file and PULSEBOARD_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. PULSEBOARD_PORT.
const EnvPrefix = "PULSEBOARD_"

// FileEnvVar names the environment variable holding the YAML file path.
const FileEnvVar = EnvPrefix + "CONFIG"

// Config holds runtime settings.
type Config struct {
	Port        string `koanf:"port"`
	DatabaseURL string `koanf:"database_url"`
	// Timezone is the IANA zone used to read wall-clock dates.
	Timezone string `koanf:"timezone"`
	// ViewerPassword unlocks tier 1: browsing patients and recording vitals.
	ViewerPassword string `koanf:"viewer_password"`
	// AdminPassword unlocks tier 2: bulk export and metrics.
	AdminPassword   string        `koanf:"admin_password"`
	CSRFSecret      string        `koanf:"csrf_secret"`
	SessionLifetime time.Duration `koanf:"session_lifetime"`
	LogLevel        string        `koanf:"log_level"`
	SiteTitle       string        `koanf:"site_title"`
	Dev             bool          `koanf:"dev"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:            "8080",
		Timezone:        "Local",
		SessionLifetime: 30 * 24 * time.Hour,
		LogLevel:        "info",
		SiteTitle:       "Pulseboard",
	}
}

// Load layers, lowest first: Default, the YAML file at path when path is
// not empty, then PULSEBOARD_* environment variables.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks settings that have no usable fallback.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return ErrPortRequired
	}

	if c.SessionLifetime <= 0 {
		return ErrInvalidSessionLifetime
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// Location resolves Timezone. "Local" and "" mean the host zone.
func (c Config) Location() (*time.Location, error) {
	switch strings.TrimSpace(c.Timezone) {
	case "", "Local":
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTimezone, c.Timezone)
	}

	return loc, nil
}

// TierPasswords reports which tiers can be unlocked.
func (c Config) TierPasswords() map[int]string {
	passwords := make(map[int]string, 2)
	if c.ViewerPassword != "" {
		passwords[1] = c.ViewerPassword
	}

	if c.AdminPassword != "" {
		passwords[2] = c.AdminPassword
	}

	return passwords
}
