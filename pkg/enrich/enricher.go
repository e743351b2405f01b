// Package enrich augments deduplicated device records with switch, port, and
// identity details through a worker pool of concurrent API lookups.
package enrich

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agni-tools/agni-export/pkg/agni"
	"github.com/agni-tools/agni-export/pkg/nadcache"
)

// DeviceAPI is the slice of the AGNI client the enricher needs.
type DeviceAPI interface {
	NADName(ctx context.Context, nadID string) (string, error)
	SessionNASPort(ctx context.Context, authReqID string) (string, error)
	ClientInfo(ctx context.Context, mac string) (agni.Record, error)
}

// Config holds enricher configuration.
type Config struct {
	// MaxWorkers is the number of concurrent lookup workers (default 20,
	// matching the original tool).
	MaxWorkers int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{MaxWorkers: 20}
}

// Enricher runs per-device lookups. Individual lookup failures leave fields
// blank; the export carries on.
type Enricher struct {
	api    DeviceAPI
	nads   nadcache.Store
	config Config
	logger zerolog.Logger
}

// New creates an enricher. A nil store disables NAD-name caching.
func New(api DeviceAPI, nads nadcache.Store, cfg Config, logger zerolog.Logger) *Enricher {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = DefaultConfig().MaxWorkers
	}
	if nads == nil {
		nads = nadcache.NewMemoryStore()
	}
	return &Enricher{api: api, nads: nads, config: cfg, logger: logger}
}

// EnrichAll enriches every device record, preserving input order. Each worker
// owns distinct result slots, so no locking is needed on the output.
func (e *Enricher) EnrichAll(ctx context.Context, devices []agni.Record) []agni.Record {
	if len(devices) == 0 {
		return nil
	}

	e.logger.Info().
		Int("devices", len(devices)).
		Int("workers", e.config.MaxWorkers).
		Msg("Starting device enrichment")

	out := make([]agni.Record, len(devices))
	jobs := make(chan int, len(devices))
	for i := range devices {
		jobs <- i
	}
	close(jobs)

	var done sync.WaitGroup
	for w := 0; w < e.config.MaxWorkers; w++ {
		done.Add(1)
		go func() {
			defer done.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					// Cancelled: pass the record through unenriched.
					out[i] = devices[i]
					continue
				default:
				}
				out[i] = e.enrichOne(ctx, devices[i])
			}
		}()
	}
	done.Wait()

	e.logger.Info().Int("devices", len(devices)).Msg("Enrichment complete")
	return out
}

// enrichOne merges switch, interface, and identity details into a copy of the
// session record.
func (e *Enricher) enrichOne(ctx context.Context, device agni.Record) agni.Record {
	rec := make(agni.Record, len(device)+4)
	for k, v := range device {
		rec[k] = v
	}

	if nadID, ok := device["nadID"].(string); ok && nadID != "" {
		rec["switch_name"] = e.nadName(ctx, nadID)
	}

	if authReqID, ok := device["authReqID"].(string); ok && authReqID != "" {
		port, err := e.api.SessionNASPort(ctx, authReqID)
		if err != nil {
			e.logger.Debug().Err(err).Str("authReqID", authReqID).Msg("Session details lookup failed")
		} else {
			rec["switch_interface"] = port
		}
	}

	mac, _ := device["mac"].(string)
	if mac == "" {
		return rec
	}
	info, err := e.api.ClientInfo(ctx, mac)
	if err != nil {
		e.logger.Debug().Err(err).Str("mac", mac).Msg("Client info lookup failed")
		return rec
	}
	mergeClientInfo(rec, info)
	return rec
}

// nadName resolves a switch name through the cache, falling back to the API.
// Failures resolve to "Unknown", matching the original tool.
func (e *Enricher) nadName(ctx context.Context, nadID string) string {
	name, err := e.nads.Get(ctx, nadID)
	if err == nil {
		return name
	}
	if !errors.Is(err, nadcache.ErrCacheMiss) {
		e.logger.Warn().Err(err).Str("nadID", nadID).Msg("NAD cache lookup failed")
	}

	name, err = e.api.NADName(ctx, nadID)
	if err != nil || name == "" {
		e.logger.Debug().Err(err).Str("nadID", nadID).Msg("NAD lookup failed")
		return "Unknown"
	}
	if err := e.nads.Put(ctx, nadID, name); err != nil {
		e.logger.Warn().Err(err).Str("nadID", nadID).Msg("NAD cache store failed")
	}
	return name
}

// mergeClientInfo flattens an identity record into the session record:
// attributes get a client_attr_ prefix, the certificate contributes subject
// and expiry columns, and colliding root fields get a client_ prefix.
func mergeClientInfo(rec, info agni.Record) {
	if attrs, ok := info["attributes"].(map[string]any); ok {
		for k, v := range attrs {
			rec["client_attr_"+k] = v
		}
	}
	if cert, ok := info["certificate"].(map[string]any); ok {
		rec["cert_subject"] = cert["subject"]
		rec["cert_expiry"] = cert["expiryDate"]
	}
	for k, v := range info {
		if k == "attributes" || k == "certificate" {
			continue
		}
		if _, exists := rec[k]; exists {
			rec["client_"+k] = v
		} else {
			rec[k] = v
		}
	}
}
