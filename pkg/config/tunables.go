package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tunables are the per-run knobs. Defaults match the original tool; a YAML
// file can override them and explicit flags override the file.
type Tunables struct {
	WindowMinutes   int      `yaml:"window_minutes"`
	LookbackHours   int      `yaml:"lookback_hours"`
	RequestDelayMS  int      `yaml:"request_delay_ms"`
	MaxWorkers      int      `yaml:"max_workers"`
	StatTypes       []string `yaml:"stat_types"`
	PriorityColumns []string `yaml:"priority_columns"`
}

// DefaultTunables returns the defaults for an export with the given lookback.
func DefaultTunables(lookbackHours int) Tunables {
	return Tunables{
		WindowMinutes:  30,
		LookbackHours:  lookbackHours,
		RequestDelayMS: 200,
		MaxWorkers:     20,
		StatTypes: []string{
			"stats.count.users",
			"stats.count.clients",
			"stats.count.nads",
			"hourly.auth.count",
			"daily.topN.auth.errors",
			"daily.topN.locations.failed",
		},
		PriorityColumns: []string{
			"mac", "username", "userID", "switch_name", "switch_interface",
			"ip", "deviceType", "segmentName", "location", "cert_expiry",
		},
	}
}

// LoadTunables reads a YAML tunables file over the given defaults. Fields
// absent from the file keep their defaults.
func LoadTunables(path string, defaults Tunables) (Tunables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Errorf("read tunables file: %w", err)
	}

	t := defaults
	if err := yaml.Unmarshal(data, &t); err != nil {
		return defaults, fmt.Errorf("parse tunables file %s: %w", path, err)
	}
	return t, nil
}

// WindowSize returns the window size as a duration.
func (t Tunables) WindowSize() time.Duration {
	return time.Duration(t.WindowMinutes) * time.Minute
}

// Lookback returns the lookback as a duration.
func (t Tunables) Lookback() time.Duration {
	return time.Duration(t.LookbackHours) * time.Hour
}

// RequestDelay returns the flat inter-call delay as a duration.
func (t Tunables) RequestDelay() time.Duration {
	return time.Duration(t.RequestDelayMS) * time.Millisecond
}
