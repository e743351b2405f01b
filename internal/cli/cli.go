// Package cli carries the flag and setup plumbing shared by the export
// binaries.
package cli

import (
	"flag"

	"github.com/rs/zerolog"

	"github.com/agni-tools/agni-export/pkg/agni"
	"github.com/agni-tools/agni-export/pkg/config"
	"github.com/agni-tools/agni-export/pkg/logging"
)

// Options are the flags every export shares.
type Options struct {
	WindowMinutes int
	LookbackHours int
	DelayMS       int
	OutDir        string
	TunablesPath  string

	defaultLookback int
}

// Register binds the common flags on fs. defaults differ per export: the
// failed-sessions export looks back 6 hours, the others 24.
func Register(fs *flag.FlagSet, defaultLookbackHours int, defaultOut string) *Options {
	o := &Options{defaultLookback: defaultLookbackHours}
	base := config.DefaultTunables(defaultLookbackHours)

	fs.IntVar(&o.WindowMinutes, "window", base.WindowMinutes, "query window size in minutes")
	fs.IntVar(&o.LookbackHours, "lookback", base.LookbackHours, "how many hours back to fetch")
	fs.IntVar(&o.DelayMS, "delay", base.RequestDelayMS, "flat delay between API calls in milliseconds")
	fs.StringVar(&o.OutDir, "out", defaultOut, "output directory")
	fs.StringVar(&o.TunablesPath, "config", "", "optional YAML tunables file")
	return o
}

// Tunables resolves the effective tunables: defaults, then the YAML file,
// then any flag the operator actually set.
func (o *Options) Tunables(fs *flag.FlagSet) (config.Tunables, error) {
	t := config.DefaultTunables(o.defaultLookback)

	if o.TunablesPath != "" {
		loaded, err := config.LoadTunables(o.TunablesPath, t)
		if err != nil {
			return t, err
		}
		t = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "window":
			t.WindowMinutes = o.WindowMinutes
		case "lookback":
			t.LookbackHours = o.LookbackHours
		case "delay":
			t.RequestDelayMS = o.DelayMS
		}
	})
	return t, nil
}

// Setup builds the logger from environment configuration.
func Setup(cfg *config.Config, component string) zerolog.Logger {
	logging.Setup(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	return logging.NewLogger(component)
}

// NewClient builds the AGNI client from config and tunables.
func NewClient(cfg *config.Config, t config.Tunables) (*agni.Client, error) {
	return agni.New(agni.Config{
		BaseURL:      cfg.BaseURL,
		KeyID:        cfg.KeyID,
		KeyValue:     cfg.KeyValue,
		OrgID:        cfg.OrgID,
		RequestDelay: t.RequestDelay(),
	})
}
