package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rowsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "agni_rows_written_total",
	Help: "Total CSV data rows written by export name",
}, []string{"export"})

// filenameStamp is the fetch-time timestamp embedded in output filenames.
const filenameStamp = "20060102_150405"

// Filename builds "<prefix>_<stamp>.csv" for the given fetch time.
func Filename(prefix string, at time.Time) string {
	return prefix + "_" + at.Format(filenameStamp) + ".csv"
}

// WriteCSV writes one row per record to path, in record order, with the given
// column set. Fields absent from a record are written empty. An empty record
// sequence still produces the file (header-only when columns exist). Returns
// the number of data rows written.
func WriteCSV[R ~map[string]any](path, exportName string, columns []string, records []R) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(columns) > 0 {
		if err := w.Write(columns); err != nil {
			return 0, fmt.Errorf("write header: %w", err)
		}
	}

	row := make([]string, len(columns))
	for i, rec := range records {
		for j, col := range columns {
			row[j] = formatValue(rec[col])
		}
		if err := w.Write(row); err != nil {
			return i, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return len(records), fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return len(records), fmt.Errorf("close %s: %w", path, err)
	}

	rowsWritten.WithLabelValues(exportName).Add(float64(len(records)))
	return len(records), nil
}

// formatValue renders one cell. Scalars print naturally; nested structures
// are JSON-encoded rather than Go-formatted so the cell stays machine-readable.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}
