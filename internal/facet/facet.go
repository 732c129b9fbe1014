package facet

import (
	"sort"

	"cloudtrail-explorer/internal/types"
)

// DefaultSuggestionLimit caps each distinct-value list.
const DefaultSuggestionLimit = 300

// SuggestionFields are the filterable fields that get autocomplete lists.
var SuggestionFields = []types.Field{types.FieldSource, types.FieldName, types.FieldPrincipal, types.FieldRegion}

// Summary holds aggregate statistics over a full row set.
// EarliestMillis and LatestMillis are 0 when no row has a known time.
type Summary struct {
	Total          int   `json:"total"`
	ErrorCount     int   `json:"errorCount"`
	EarliestMillis int64 `json:"earliestMillis"`
	LatestMillis   int64 `json:"latestMillis"`
}

// HasRange reports whether any row had a known timestamp.
func (s Summary) HasRange() bool {
	return s.LatestMillis != 0
}

// Summarize scans all rows. Rows with unknown time (0) are left out of the
// range rather than read as the epoch.
func Summarize(rows []*types.Row) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		if r.HasError() {
			s.ErrorCount++
		}
		ms := r.EventTimeMillis
		if ms == 0 {
			continue
		}
		if s.EarliestMillis == 0 || ms < s.EarliestMillis {
			s.EarliestMillis = ms
		}
		if s.LatestMillis == 0 || ms > s.LatestMillis {
			s.LatestMillis = ms
		}
	}
	return s
}

// DistinctValues returns the sorted unique non-empty values of f, capped at
// limit. A limit of 0 or less means no cap.
func DistinctValues(rows []*types.Row, f types.Field, limit int) []string {
	seen := make(map[string]bool)
	for _, r := range rows {
		if v := r.Value(f); v != "" {
			seen[v] = true
		}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)

	if limit > 0 && len(values) > limit {
		values = values[:limit]
	}
	return values
}

// Suggestions builds the distinct-value list of every SuggestionFields entry.
func Suggestions(rows []*types.Row, limit int) map[types.Field][]string {
	out := make(map[types.Field][]string, len(SuggestionFields))
	for _, f := range SuggestionFields {
		out[f] = DistinctValues(rows, f, limit)
	}
	return out
}
