package agni

import (
	"context"
	"fmt"
)

const segmentListPath = "/api/config.segment.list"

// Segment is one configured network segment.
type Segment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// segmentListData matches the upstream response, which capitalizes Records
// on this endpoint (unlike session.list).
type segmentListData struct {
	Records []Segment `json:"Records"`
}

// ListSegments returns all configured segments for the organization.
func (c *Client) ListSegments(ctx context.Context) ([]Segment, error) {
	var data segmentListData
	if err := c.postJSON(ctx, segmentListPath, map[string]string{"orgID": c.orgID}, &data); err != nil {
		return nil, err
	}
	return data.Records, nil
}

// ResolveSegment looks up a segment by name and returns its ID.
func (c *Client) ResolveSegment(ctx context.Context, name string) (string, error) {
	segments, err := c.ListSegments(ctx)
	if err != nil {
		return "", fmt.Errorf("segment lookup: %w", err)
	}
	for _, s := range segments {
		if s.Name == name {
			return s.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrSegmentNotFound, name)
}
