package query

import "cloudtrail-explorer/internal/types"

// Paginate slices rows into the requested page. PageSizeAll yields a single
// page; an out-of-range page number is clamped into [1, totalPages].
func Paginate(rows []*types.Row, size types.PageSize, requested int) types.Page {
	n := len(rows)
	pageSize := int(size)
	if size == types.PageSizeAll || pageSize < 0 {
		pageSize = max(1, n)
	}

	totalPages := max(1, (n+pageSize-1)/pageSize)
	page := min(max(requested, 1), totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, n)

	return types.Page{
		Number:     page,
		Size:       pageSize,
		TotalPages: totalPages,
		Rows:       rows[start:end],
	}
}
