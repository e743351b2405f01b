package agni

import (
	"context"
	"time"
)

const statsGetPath = "/api/stats.get"

// StatsRecords queries one statistic type from the given start time onward.
// Records usually carry a dateTime field and a nested stats object; flattening
// is the exporter's concern.
func (c *Client) StatsRecords(ctx context.Context, statType string, from time.Time) ([]Record, error) {
	payload := map[string]string{
		"orgID": c.orgID,
		"type":  statType,
		"from":  apiTimestamp(from),
	}

	var data struct {
		Records []Record `json:"records"`
	}
	if err := c.postJSON(ctx, statsGetPath, payload, &data); err != nil {
		return nil, err
	}
	agniRecordsFetched.WithLabelValues(statsGetPath).Add(float64(len(data.Records)))
	return data.Records, nil
}
