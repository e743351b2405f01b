// Command agni-sessions exports failed AGNI session records to CSV.
//
// It logs in with an API key, walks the configured historical range in
// fixed-size windows, fetches failed sessions per window, and writes all
// records to one timestamped CSV. Any failure aborts the run with a non-zero
// exit; there is no retry and no resume.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/agni-tools/agni-export/internal/cli"
	"github.com/agni-tools/agni-export/pkg/agni"
	"github.com/agni-tools/agni-export/pkg/config"
	"github.com/agni-tools/agni-export/pkg/export"
	"github.com/agni-tools/agni-export/pkg/fetch"
	"github.com/agni-tools/agni-export/pkg/metrics"
)

func main() {
	opts := cli.Register(flag.CommandLine, 6, ".")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		logger := cli.Setup(&config.Config{}, "agni-sessions")
		logger.Fatal().Err(err).Str("class", string(agni.ErrorClassConfig)).Msg("Configuration error")
	}
	logger := cli.Setup(cfg, "agni-sessions")

	tunables, err := opts.Tunables(flag.CommandLine)
	if err != nil {
		logger.Fatal().Err(err).Str("class", string(agni.ErrorClassConfig)).Msg("Configuration error")
	}

	client, err := cli.NewClient(cfg, tunables)
	if err != nil {
		logger.Fatal().Err(err).Str("class", string(agni.ErrorClassConfig)).Msg("Configuration error")
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		logger.Fatal().Err(err).Str("class", string(agni.ErrorClassExport)).Msg("Output directory")
	}

	ctx := context.Background()
	if err := client.Login(ctx); err != nil {
		logger.Fatal().Err(err).Str("class", string(agni.ErrorClassAuth)).Msg("Login failed")
	}

	now := time.Now().UTC()
	start := cfg.RangeStart(now, tunables.Lookback())

	fetcher := &fetch.Fetcher{
		Client:     client,
		Logger:     logger,
		WindowSize: tunables.WindowSize(),
	}
	records, err := fetcher.FailedSessions(ctx, start, now)
	if err != nil {
		logger.Fatal().Err(err).Str("class", string(agni.Classify(err))).Msg("Fetch failed")
	}

	columns := export.NewColumnSet()
	export.ObserveAll(columns, records)

	path := filepath.Join(opts.OutDir, export.Filename("agni_failed_sessions", now))
	written, err := export.WriteCSV(path, "failed_sessions", columns.Ordered(nil, true), records)
	if err != nil {
		logger.Fatal().Err(err).Str("class", string(agni.ErrorClassExport)).Msg("CSV write failed")
	}

	logger.Info().
		Int("total_records", written).
		Str("file", path).
		Msg("Export complete")

	if cfg.PushgatewayURL != "" {
		runID := metrics.NewRunID()
		if err := metrics.PushRun(ctx, cfg.PushgatewayURL, "agni_sessions", runID); err != nil {
			logger.Warn().Err(err).Msg("Metrics push failed")
		} else {
			logger.Debug().Str("run_id", runID).Msg("Metrics pushed")
		}
	}
}
