package agni

import (
	"context"
	"time"
)

const sessionListPath = "/api/session.list"

// defaultPageLimit is the observed maximum page size of session.list.
const defaultPageLimit = 1000

// Filter narrows a session query by one field.
type Filter struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// SessionQuery describes one session.list call. From/To bound a half-open
// interval [From, To).
type SessionQuery struct {
	Status      string
	SessionType string
	Filters     []Filter
	From        time.Time
	To          time.Time
	Limit       int
}

// sessionListRequest is the wire shape of a session.list query.
type sessionListRequest struct {
	OrgID         string   `json:"orgID"`
	Status        string   `json:"status,omitempty"`
	SessionType   string   `json:"sessionType,omitempty"`
	Filters       []Filter `json:"filters,omitempty"`
	FromTimestamp string   `json:"fromTimestamp"`
	ToTimestamp   string   `json:"toTimestamp"`
	Limit         int      `json:"limit"`
	Cursor        string   `json:"cursor,omitempty"`
}

// sessionListData is the data envelope of a session.list response. A
// non-empty cursor means more records exist for the same query.
type sessionListData struct {
	Records []Record `json:"records"`
	Cursor  string   `json:"cursor"`
}

// apiTimestamp renders a timestamp the way the API expects: RFC3339 UTC with
// a Z suffix.
func apiTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z07:00")
}

// ListSessions fetches all session records matching the query, following the
// pagination cursor until the server stops returning one. Records are
// returned in page order. Any page failure aborts with that page's error.
func (c *Client) ListSessions(ctx context.Context, q SessionQuery) ([]Record, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}

	req := sessionListRequest{
		OrgID:         c.orgID,
		Status:        q.Status,
		SessionType:   q.SessionType,
		Filters:       q.Filters,
		FromTimestamp: apiTimestamp(q.From),
		ToTimestamp:   apiTimestamp(q.To),
		Limit:         limit,
	}

	var all []Record
	for {
		var data sessionListData
		if err := c.postJSON(ctx, sessionListPath, req, &data); err != nil {
			return nil, err
		}

		all = append(all, data.Records...)
		agniRecordsFetched.WithLabelValues(sessionListPath).Add(float64(len(data.Records)))

		if data.Cursor == "" {
			return all, nil
		}
		req.Cursor = data.Cursor

		c.logger.Debug().
			Str("cursor", data.Cursor).
			Int("records_so_far", len(all)).
			Msg("Following session.list cursor")
	}
}
