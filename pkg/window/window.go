// Package window computes the fixed-size, half-open time windows that bound
// individual API queries.
package window

import (
	"fmt"
	"time"
)

// Window is a half-open interval [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// String renders the window for progress output.
func (w Window) String() string {
	return fmt.Sprintf("%s -> %s",
		w.From.UTC().Format(time.RFC3339), w.To.UTC().Format(time.RFC3339))
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.To.Sub(w.From)
}

// Slice splits [start, now) into consecutive windows of the given size,
// advancing forward from start. The windows are non-overlapping, contiguous,
// and cover exactly [start, now): the last window is clipped to now rather
// than overshooting. Returns nil when start is not before now or size is not
// positive.
func Slice(start, now time.Time, size time.Duration) []Window {
	if size <= 0 || !start.Before(now) {
		return nil
	}

	var windows []Window
	for current := start; current.Before(now); current = current.Add(size) {
		end := current.Add(size)
		if end.After(now) {
			end = now
		}
		windows = append(windows, Window{From: current, To: end})
	}
	return windows
}
