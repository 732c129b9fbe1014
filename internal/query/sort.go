package query

import (
	"sort"
	"strings"

	"cloudtrail-explorer/internal/types"
)

// placeholder stands in for empty values so they order consistently.
const placeholder = "-"

func sortKey(r *types.Row, f types.Field) string {
	v := r.Value(f)
	if v == "" {
		v = placeholder
	}
	return strings.ToLower(v)
}

// Compare orders a and b under spec, returning <0, 0 or >0.
// Time compares epoch milliseconds; other fields compare lowercase bytes.
func Compare(a, b *types.Row, spec types.SortSpec) int {
	dir := 1
	if spec.Direction == types.Desc {
		dir = -1
	}

	if spec.Field == types.FieldTime {
		switch {
		case a.EventTimeMillis < b.EventTimeMillis:
			return -dir
		case a.EventTimeMillis > b.EventTimeMillis:
			return dir
		}
		return 0
	}

	return strings.Compare(sortKey(a, spec.Field), sortKey(b, spec.Field)) * dir
}

// Sort returns a reordered copy of rows. The input slice is left untouched.
// Equal keys keep their relative order, though callers must not depend on it.
func Sort(rows []*types.Row, spec types.SortSpec) []*types.Row {
	out := make([]*types.Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j], spec) < 0
	})
	return out
}
