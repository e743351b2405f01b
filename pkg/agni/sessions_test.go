package agni

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/agni-tools/agni-export/internal/testutil"
)

func TestListSessions_QueryShape(t *testing.T) {
	mock := testutil.NewMockAGNI()
	defer mock.Close()

	client := newTestClient(t, mock)

	from := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	to := time.Date(2025, 10, 31, 12, 30, 0, 0, time.UTC)
	_, err := client.ListSessions(context.Background(), SessionQuery{
		Status: "failed",
		From:   from,
		To:     to,
	})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}

	bodies := mock.Bodies("/api/session.list")
	if len(bodies) != 1 {
		t.Fatalf("requests = %d, want 1", len(bodies))
	}

	var req sessionListRequest
	if err := json.Unmarshal(bodies[0], &req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if req.OrgID != "org-1" || req.Status != "failed" {
		t.Errorf("req = %+v", req)
	}
	if req.FromTimestamp != "2025-10-31T12:00:00Z" || req.ToTimestamp != "2025-10-31T12:30:00Z" {
		t.Errorf("timestamps = %q / %q, want Z-suffixed RFC3339", req.FromTimestamp, req.ToTimestamp)
	}
	if req.Limit != defaultPageLimit {
		t.Errorf("limit = %d, want %d", req.Limit, defaultPageLimit)
	}
}

func TestListSessions_FollowsCursor(t *testing.T) {
	mock := testutil.NewMockAGNI()
	defer mock.Close()

	pages := []map[string]any{
		testutil.SessionPage("cur-1", map[string]any{"mac": "aa"}, map[string]any{"mac": "bb"}),
		testutil.SessionPage("cur-2", map[string]any{"mac": "cc"}),
		testutil.SessionPage("", map[string]any{"mac": "dd"}),
	}
	call := 0
	mock.SetHandler("/api/session.list", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteData(w, pages[call])
		call++
	})

	client := newTestClient(t, mock)
	records, err := client.ListSessions(context.Background(), SessionQuery{
		From: time.Now().Add(-time.Hour),
		To:   time.Now(),
	})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}

	if call != 3 {
		t.Errorf("pages fetched = %d, want 3", call)
	}

	wantMACs := []string{"aa", "bb", "cc", "dd"}
	if len(records) != len(wantMACs) {
		t.Fatalf("records = %d, want %d", len(records), len(wantMACs))
	}
	for i, mac := range wantMACs {
		if records[i]["mac"] != mac {
			t.Errorf("record %d mac = %v, want %s (page order)", i, records[i]["mac"], mac)
		}
	}

	// Second and third requests must carry the previous cursor.
	bodies := mock.Bodies("/api/session.list")
	var second sessionListRequest
	if err := json.Unmarshal(bodies[1], &second); err != nil {
		t.Fatal(err)
	}
	if second.Cursor != "cur-1" {
		t.Errorf("second request cursor = %q, want cur-1", second.Cursor)
	}
}

func TestListSessions_EmptyWindow(t *testing.T) {
	mock := testutil.NewMockAGNI()
	defer mock.Close()

	client := newTestClient(t, mock)
	records, err := client.ListSessions(context.Background(), SessionQuery{
		From: time.Now().Add(-time.Hour),
		To:   time.Now(),
	})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %d, want 0", len(records))
	}
}
