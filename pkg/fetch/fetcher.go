// Package fetch implements the windowed session fetch loop: one query per
// time window, cursor pagination within a window, strictly sequential.
package fetch

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/agni-tools/agni-export/pkg/agni"
	"github.com/agni-tools/agni-export/pkg/window"
)

var windowsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "agni_windows_processed_total",
	Help: "Time windows processed by outcome",
}, []string{"outcome"})

// SessionLister is the slice of the AGNI client the fetcher needs.
type SessionLister interface {
	ListSessions(ctx context.Context, q agni.SessionQuery) ([]agni.Record, error)
}

// Fetcher walks a historical time range in fixed-size windows and accumulates
// the session records of every window in fetch order. There is one outstanding
// query at a time; inter-call pacing lives in the client.
type Fetcher struct {
	Client     SessionLister
	Logger     zerolog.Logger
	WindowSize time.Duration
	PageLimit  int
}

// FailedSessions fetches all failed-session records in [start, now), window by
// window. A failure in any window is fatal to the whole run: no partial
// results, no resume.
func (f *Fetcher) FailedSessions(ctx context.Context, start, now time.Time) ([]agni.Record, error) {
	return f.walk(ctx, start, now, agni.SessionQuery{
		Status: "failed",
		Limit:  f.PageLimit,
	}, true)
}

// SegmentSessions scans network-access sessions of one segment in [start, now).
// Unlike the failed-sessions export, a window failure here logs and moves on:
// the scan feeds a best-effort device inventory.
func (f *Fetcher) SegmentSessions(ctx context.Context, segmentID string, start, now time.Time) ([]agni.Record, error) {
	return f.walk(ctx, start, now, agni.SessionQuery{
		SessionType: "network_access",
		Filters:     []agni.Filter{{Field: "segment_id", Value: segmentID}},
		Limit:       f.PageLimit,
	}, false)
}

func (f *Fetcher) walk(ctx context.Context, start, now time.Time, base agni.SessionQuery, fatal bool) ([]agni.Record, error) {
	windows := window.Slice(start, now, f.WindowSize)
	f.Logger.Info().
		Time("start", start).
		Time("now", now).
		Int("windows", len(windows)).
		Str("window_size", f.WindowSize.String()).
		Msg("Starting windowed fetch")

	var all []agni.Record
	for i, w := range windows {
		q := base
		q.From = w.From
		q.To = w.To

		records, err := f.Client.ListSessions(ctx, q)
		if err != nil {
			windowsProcessed.WithLabelValues("error").Inc()
			if fatal {
				return nil, fmt.Errorf("window %d (%s): %w", i+1, w, err)
			}
			f.Logger.Warn().Err(err).
				Str("window", w.String()).
				Msg("Window fetch failed, continuing")
			continue
		}

		windowsProcessed.WithLabelValues("ok").Inc()
		f.Logger.Info().
			Str("window", w.String()).
			Int("records", len(records)).
			Str("progress", strconv.Itoa(i+1)+"/"+strconv.Itoa(len(windows))).
			Msg("Window fetched")

		all = append(all, records...)
	}

	f.Logger.Info().Int("total_records", len(all)).Msg("Windowed fetch complete")
	return all, nil
}

// DedupeByMAC keeps the last-seen record per client MAC, preserving the order
// in which each surviving MAC was first observed. Records without a mac field
// are dropped.
func DedupeByMAC(records []agni.Record) []agni.Record {
	index := make(map[string]int)
	var out []agni.Record
	for _, rec := range records {
		mac, ok := rec["mac"].(string)
		if !ok || mac == "" {
			continue
		}
		if i, seen := index[mac]; seen {
			out[i] = rec
			continue
		}
		index[mac] = len(out)
		out = append(out, rec)
	}
	return out
}
