// Command agni-stats exports AGNI statistics to CSV, one file per statistic
// type. A failing type logs and moves on; the batch keeps going.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agni-tools/agni-export/internal/cli"
	"github.com/agni-tools/agni-export/pkg/agni"
	"github.com/agni-tools/agni-export/pkg/config"
	"github.com/agni-tools/agni-export/pkg/export"
	"github.com/agni-tools/agni-export/pkg/fetch"
	"github.com/agni-tools/agni-export/pkg/metrics"
)

func main() {
	opts := cli.Register(flag.CommandLine, 24, "stats")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		logger := cli.Setup(&config.Config{}, "agni-stats")
		logger.Fatal().Err(err).Str("class", string(agni.ErrorClassConfig)).Msg("Configuration error")
	}
	logger := cli.Setup(cfg, "agni-stats")

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
	from := cfg.RangeStart(now, tunables.Lookback())
	written := 0

	for _, res := range fetch.StatsBatch(ctx, client, logger, tunables.StatTypes, from) {
		flat := make([]map[string]any, len(res.Records))
		columns := export.NewColumnSet()
		for i, rec := range res.Records {
			flat[i] = export.FlattenStats(rec)
			columns.Observe(flat[i])
		}

		name := strings.ReplaceAll(res.Type, ".", "_")
		path := filepath.Join(opts.OutDir, export.Filename(name, now))
		rows, err := export.WriteCSV(path, "stats", columns.Ordered([]string{"dateTime"}, true), flat)
		if err != nil {
			logger.Fatal().Err(err).Str("class", string(agni.ErrorClassExport)).Msg("CSV write failed")
		}

		logger.Info().Str("type", res.Type).Int("rows", rows).Str("file", path).Msg("Stats exported")
		written += rows
	}

	logger.Info().Int("total_rows", written).Str("dir", opts.OutDir).Msg("Batch complete")

	if cfg.PushgatewayURL != "" {
		runID := metrics.NewRunID()
		if err := metrics.PushRun(ctx, cfg.PushgatewayURL, "agni_stats", runID); err != nil {
			logger.Warn().Err(err).Msg("Metrics push failed")
		}
	}
}
