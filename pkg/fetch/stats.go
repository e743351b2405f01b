package fetch

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agni-tools/agni-export/pkg/agni"
)

// StatsClient is the slice of the AGNI client the stats batch needs.
type StatsClient interface {
	StatsRecords(ctx context.Context, statType string, from time.Time) ([]agni.Record, error)
}

// StatsResult holds the records of one successfully queried statistic type.
type StatsResult struct {
	Type    string
	Records []agni.Record
}

// StatsBatch queries each statistic type in turn. A failing type logs and is
// skipped, as is a type with no data; one bad type never aborts the batch.
// Results keep the request order.
func StatsBatch(ctx context.Context, client StatsClient, logger zerolog.Logger, types []string, from time.Time) []StatsResult {
	var out []StatsResult
	for _, statType := range types {
		typeLog := logger.With().Str("type", statType).Logger()

		records, err := client.StatsRecords(ctx, statType, from)
		if err != nil {
			typeLog.Warn().Err(err).Msg("Stats query failed, continuing")
			continue
		}
		if len(records) == 0 {
			typeLog.Info().Msg("No data returned")
			continue
		}
		out = append(out, StatsResult{Type: statType, Records: records})
	}
	return out
}
