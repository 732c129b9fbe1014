package query

import "cloudtrail-explorer/internal/types"

// Request is everything a single recomputation needs.
type Request struct {
	Criteria types.FilterCriteria `json:"criteria"`
	Sort     types.SortSpec       `json:"sort"`
	PageSize types.PageSize       `json:"pageSize"`
	Page     int                  `json:"page"`
}

// DefaultRequest shows the first page of everything, newest first.
func DefaultRequest() Request {
	return Request{
		Sort:     types.DefaultSort(),
		PageSize: types.DefaultPageSize,
		Page:     1,
	}
}

// Result is the outcome of one filter, sort and paginate pass.
type Result struct {
	Page    types.Page `json:"page"`
	Matched int        `json:"matched"`
	Total   int        `json:"total"`
}

// Run recomputes the full pipeline from the complete row set.
func Run(rows []*types.Row, req Request) Result {
	spec := req.Sort
	if spec.Field == "" {
		spec = types.DefaultSort()
	} else if spec.Direction == "" {
		spec.Direction = types.DefaultDirection(spec.Field)
	}

	matched := Sort(Filter(rows, req.Criteria), spec)
	return Result{
		Page:    Paginate(matched, req.PageSize, req.Page),
		Matched: len(matched),
		Total:   len(rows),
	}
}
