package export

import (
	"testing"
)

func TestFlattenStats(t *testing.T) {
	rec := map[string]any{
		"dateTime": "2025-10-31T12:00:00Z",
		"stats": map[string]any{
			"authCount": float64(128),
			"topErrors": []any{
				map[string]any{"error": "timeout", "count": float64(7)},
			},
		},
		"location": "hq",
	}

	flat := FlattenStats(rec)

	if flat["dateTime"] != "2025-10-31T12:00:00Z" {
		t.Errorf("dateTime = %v", flat["dateTime"])
	}
	if flat["authCount"] != float64(128) {
		t.Errorf("authCount = %v, want 128", flat["authCount"])
	}
	if flat["location"] != "hq" {
		t.Errorf("location = %v, want hq", flat["location"])
	}
	topErrors, ok := flat["topErrors"].(string)
	if !ok {
		t.Fatalf("topErrors not JSON-encoded: %T", flat["topErrors"])
	}
	if topErrors != `[{"count":7,"error":"timeout"}]` {
		t.Errorf("topErrors = %s", topErrors)
	}
	if _, ok := flat["stats"]; ok {
		t.Error("stats object must not survive flattening")
	}
}

func TestFlattenStats_NoStatsObject(t *testing.T) {
	flat := FlattenStats(map[string]any{"dateTime": "2025-10-31T12:00:00Z", "total": float64(5)})

	if flat["total"] != float64(5) {
		t.Errorf("total = %v, want 5", flat["total"])
	}
	if len(flat) != 2 {
		t.Errorf("flat = %v, want 2 keys", flat)
	}
}
