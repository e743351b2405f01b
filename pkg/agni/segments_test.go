package agni

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/agni-tools/agni-export/internal/testutil"
)

func setSegments(mock *testutil.MockAGNI, segments ...Segment) {
	mock.SetHandler("/api/config.segment.list", func(w http.ResponseWriter, r *http.Request) {
		// The upstream capitalizes Records on this endpoint.
		testutil.WriteData(w, map[string]any{"Records": segments})
	})
}

func TestResolveSegment(t *testing.T) {
	mock := testutil.NewMockAGNI()
	defer mock.Close()
	setSegments(mock,
		Segment{ID: "seg-1", Name: "corp-wifi"},
		Segment{ID: "seg-2", Name: "guest-wifi"},
	)

	client := newTestClient(t, mock)

	id, err := client.ResolveSegment(context.Background(), "guest-wifi")
	if err != nil {
		t.Fatalf("ResolveSegment: %v", err)
	}
	if id != "seg-2" {
		t.Errorf("id = %q, want seg-2", id)
	}
}

func TestResolveSegment_NotFound(t *testing.T) {
	mock := testutil.NewMockAGNI()
	defer mock.Close()
	setSegments(mock, Segment{ID: "seg-1", Name: "corp-wifi"})

	client := newTestClient(t, mock)

	_, err := client.ResolveSegment(context.Background(), "missing")
	if !errors.Is(err, ErrSegmentNotFound) {
		t.Errorf("err = %v, want ErrSegmentNotFound", err)
	}
}
