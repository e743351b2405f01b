// Package export turns accumulated API records into delimited output files.
package export

import (
	"sort"
)

// ColumnSet accumulates output column names as the union of keys observed
// across all records, in first-seen order. The API response shape is not
// guaranteed stable, so columns are discovered during the fetch pass and
// finalized just before writing.
type ColumnSet struct {
	order []string
	seen  map[string]struct{}
}

// NewColumnSet creates an empty column set.
func NewColumnSet() *ColumnSet {
	return &ColumnSet{seen: make(map[string]struct{})}
}

// Observe adds every key of the record not seen before.
func (cs *ColumnSet) Observe(rec map[string]any) {
	// Map iteration order is random; keep discovery within one record stable.
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := cs.seen[k]; !ok {
			cs.seen[k] = struct{}{}
			cs.order = append(cs.order, k)
		}
	}
}

// ObserveAll observes every record in the slice.
func ObserveAll[R ~map[string]any](cs *ColumnSet, recs []R) {
	for _, rec := range recs {
		cs.Observe(rec)
	}
}

// Len returns the number of distinct columns observed.
func (cs *ColumnSet) Len() int {
	return len(cs.order)
}

// Ordered finalizes the column order: columns named in pin come first (in pin
// order, skipping any never observed), the rest follow in discovery order, or
// sorted when sortRest is set.
func (cs *ColumnSet) Ordered(pin []string, sortRest bool) []string {
	pinned := make(map[string]struct{}, len(pin))
	var out []string
	for _, p := range pin {
		if _, ok := cs.seen[p]; ok {
			pinned[p] = struct{}{}
			out = append(out, p)
		}
	}

	rest := make([]string, 0, len(cs.order))
	for _, k := range cs.order {
		if _, ok := pinned[k]; !ok {
			rest = append(rest, k)
		}
	}
	if sortRest {
		sort.Strings(rest)
	}
	return append(out, rest...)
}
