package export

import (
	"encoding/json"
)

// FlattenStats flattens one stats.get record for CSV output: dateTime is kept
// as-is, each key of the nested stats object is promoted to the top level
// (nested objects and arrays are JSON-encoded, the way topN results arrive),
// and any remaining root keys are carried over.
func FlattenStats(rec map[string]any) map[string]any {
	flat := make(map[string]any, len(rec))

	if dt, ok := rec["dateTime"]; ok {
		flat["dateTime"] = dt
	}

	if stats, ok := rec["stats"].(map[string]any); ok {
		for k, v := range stats {
			switch v.(type) {
			case map[string]any, []any:
				if b, err := json.Marshal(v); err == nil {
					flat[k] = string(b)
				} else {
					flat[k] = v
				}
			default:
				flat[k] = v
			}
		}
	}

	for k, v := range rec {
		if k == "stats" || k == "dateTime" {
			continue
		}
		flat[k] = v
	}

	return flat
}
