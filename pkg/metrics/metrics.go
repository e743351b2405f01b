// Package metrics documents the run metrics and pushes them to a Pushgateway.
// The exports are short-lived batch jobs, so metrics are pushed once at the
// end of a successful run rather than scraped. All metrics are registered via
// promauto in their defining packages:
//
//	agni_requests_total{endpoint, status}    (pkg/agni)
//	agni_request_duration_seconds{endpoint}  (pkg/agni)
//	agni_errors_total{class}                 (pkg/agni)
//	agni_records_fetched_total{endpoint}     (pkg/agni)
//	agni_windows_processed_total{outcome}    (pkg/fetch)
//	agni_rows_written_total{export}          (pkg/export)
package metrics

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// NewRunID returns the identifier grouping one run's pushed metrics.
func NewRunID() string {
	return uuid.NewString()
}

// PushRun pushes the default registry to a Pushgateway, grouped by run ID.
// Callers treat a push failure as a logged warning, never as a run failure.
func PushRun(ctx context.Context, gatewayURL, job, runID string) error {
	return push.New(gatewayURL, job).
		Gatherer(prometheus.DefaultGatherer).
		Grouping("run_id", runID).
		AddContext(ctx)
}
