package tui

import (
	"sort"
	"strings"
	"time"

	"github.com/dmehta/aionex/internal/gateway"
)

// sortResults derives a new ordering from the cached result set. The
// input slice is never mutated, the sort is stable, and no mode touches
// the network: re-sorting is always a pure re-derivation.
func sortResults(results []gateway.SearchResult, mode sortMode) []gateway.SearchResult {
	out := append([]gateway.SearchResult(nil), results...)
	switch mode {
	case sortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return parseResultDate(out[i].Date).After(parseResultDate(out[j].Date))
		})
	case sortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return parseResultDate(out[i].Date).Before(parseResultDate(out[j].Date))
		})
	case sortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	}
	return out
}

// parseResultDate reads the backend's YYYY-MM-DD dates. Unparseable
// values sort as the zero time, which lands them last under "newest".
func parseResultDate(value string) time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}
	}
	return t
}
