// Package config materializes environment configuration into an explicit
// struct built once at startup. A .env file is honored when present; real
// environment variables win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingCredentials is returned when any required credential is absent.
// Absence is a configuration error, not a runtime error.
var ErrMissingCredentials = errors.New("missing AGNI_URL, KEY_ID, KEY_VALUE, or AGNI_ORG_ID")

// Config is the environment-sourced configuration shared by all exports.
type Config struct {
	BaseURL  string
	KeyID    string
	KeyValue string
	OrgID    string

	// StartDate overrides the lookback-derived range start when set.
	StartDate time.Time

	// PushgatewayURL, when set, receives run metrics after a successful export.
	PushgatewayURL string

	// RedisAddr, when set, backs the NAD-name cache with Redis.
	RedisAddr string

	LogLevel  string
	LogPretty bool
}

// FromEnv loads .env (if present) and reads the configuration. Required:
// AGNI_URL, KEY_ID, KEY_VALUE, AGNI_ORG_ID.
func FromEnv() (*Config, error) {
	// Missing .env is fine; explicit environment is enough.
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:        strings.TrimRight(os.Getenv("AGNI_URL"), "/"),
		KeyID:          os.Getenv("KEY_ID"),
		KeyValue:       os.Getenv("KEY_VALUE"),
		OrgID:          os.Getenv("AGNI_ORG_ID"),
		PushgatewayURL: os.Getenv("AGNI_PUSHGATEWAY_URL"),
		RedisAddr:      os.Getenv("AGNI_REDIS_ADDR"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		LogPretty:      os.Getenv("LOG_PRETTY") == "true",
	}

	if cfg.BaseURL == "" || cfg.KeyID == "" || cfg.KeyValue == "" || cfg.OrgID == "" {
		return nil, ErrMissingCredentials
	}

	if raw := os.Getenv("AGNI_START_DATE"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("parse AGNI_START_DATE: %w", err)
		}
		cfg.StartDate = start
	}

	return cfg, nil
}

// RangeStart resolves the start of the historical range: the configured start
// date when set, otherwise now minus the lookback.
func (c *Config) RangeStart(now time.Time, lookback time.Duration) time.Time {
	if !c.StartDate.IsZero() {
		return c.StartDate
	}
	return now.Add(-lookback)
}
