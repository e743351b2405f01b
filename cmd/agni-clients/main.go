// Command agni-clients exports the devices seen on one segment, optionally
// enriched with switch, port, and identity details.
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
	"github.com/agni-tools/agni-export/pkg/enrich"
	"github.com/agni-tools/agni-export/pkg/export"
	"github.com/agni-tools/agni-export/pkg/fetch"
	"github.com/agni-tools/agni-export/pkg/metrics"
	"github.com/agni-tools/agni-export/pkg/nadcache"
)

func main() {
	opts := cli.Register(flag.CommandLine, 24, ".")
	segmentName := flag.String("segment", "", "segment name to export (required)")
	noEnrich := flag.Bool("no-enrich", false, "skip per-device enrichment lookups")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		logger := cli.Setup(&config.Config{}, "agni-clients")
		logger.Fatal().Err(err).Str("class", string(agni.ErrorClassConfig)).Msg("Configuration error")
	}
	logger := cli.Setup(cfg, "agni-clients")

	if *segmentName == "" {
		logger.Fatal().Str("class", string(agni.ErrorClassConfig)).Msg("-segment is required")
	}

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

	segmentID, err := client.ResolveSegment(ctx, *segmentName)
	if err != nil {
		logger.Fatal().Err(err).Str("segment", *segmentName).Msg("Segment lookup failed")
	}
	logger.Info().Str("segment", *segmentName).Str("segment_id", segmentID).Msg("Segment resolved")

	now := time.Now().UTC()
	start := cfg.RangeStart(now, tunables.Lookback())

	fetcher := &fetch.Fetcher{
		Client:     client,
		Logger:     logger,
		WindowSize: tunables.WindowSize(),
	}
	sessions, err := fetcher.SegmentSessions(ctx, segmentID, start, now)
	if err != nil {
		logger.Fatal().Err(err).Str("class", string(agni.Classify(err))).Msg("Fetch failed")
	}

	devices := fetch.DedupeByMAC(sessions)
	logger.Info().Int("sessions", len(sessions)).Int("devices", len(devices)).Msg("Deduplicated by MAC")

	if !*noEnrich && len(devices) > 0 {
		var nads nadcache.Store
		if cfg.RedisAddr != "" {
			store, err := nadcache.NewRedisStore(ctx, cfg.RedisAddr)
			if err != nil {
				logger.Warn().Err(err).Msg("Redis unavailable, using in-memory NAD cache")
			} else {
				defer store.Close()
				nads = store
			}
		}
		enricher := enrich.New(client, nads, enrich.Config{MaxWorkers: tunables.MaxWorkers}, logger)
		devices = enricher.EnrichAll(ctx, devices)
	}

	columns := export.NewColumnSet()
	export.ObserveAll(columns, devices)

	prefix := "devices_" + strings.ReplaceAll(*segmentName, " ", "_")
	path := filepath.Join(opts.OutDir, export.Filename(prefix, now))
	written, err := export.WriteCSV(path, "clients", columns.Ordered(tunables.PriorityColumns, false), devices)
	if err != nil {
		logger.Fatal().Err(err).Str("class", string(agni.ErrorClassExport)).Msg("CSV write failed")
	}

	logger.Info().
		Int("devices", written).
		Str("file", path).
		Msg("Export complete")

	if cfg.PushgatewayURL != "" {
		runID := metrics.NewRunID()
		if err := metrics.PushRun(ctx, cfg.PushgatewayURL, "agni_clients", runID); err != nil {
			logger.Warn().Err(err).Msg("Metrics push failed")
		}
	}
}
