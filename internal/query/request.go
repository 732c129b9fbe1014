package query

import (
	"fmt"
	"strconv"

	"cloudtrail-explorer/internal/types"
)

// ParseRequest builds a Request from named parameters: q, source, name,
// principal, region, status, sort, dir, limit, page. get returns "" for
// parameters that are not set.
func ParseRequest(get func(key string) string, defaultSize types.PageSize) (Request, error) {
	req := DefaultRequest()
	req.PageSize = defaultSize

	status, err := types.ParseStatusMode(get("status"))
	if err != nil {
		return req, err
	}
	req.Criteria = types.FilterCriteria{
		Query:     get("q"),
		Source:    get("source"),
		Name:      get("name"),
		Principal: get("principal"),
		Region:    get("region"),
		Status:    status,
	}

	if s := get("sort"); s != "" {
		field, err := types.ParseField(s)
		if err != nil {
			return req, err
		}
		req.Sort.Field = field
	}
	dir, err := types.ParseDirection(get("dir"), types.DefaultDirection(req.Sort.Field))
	if err != nil {
		return req, err
	}
	req.Sort.Direction = dir

	if s := get("limit"); s != "" {
		size, err := types.ParsePageSize(s)
		if err != nil {
			return req, err
		}
		req.PageSize = size
	}

	if s := get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return req, fmt.Errorf("invalid page %q", s)
		}
		req.Page = n
	}
	return req, nil
}
