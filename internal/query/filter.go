package query

import (
	"strings"

	"cloudtrail-explorer/internal/types"
)

// NegationPrefix inverts the free-text clause.
const NegationPrefix = "!"

// matcher is FilterCriteria compiled once per pass.
type matcher struct {
	text      string
	negated   bool
	source    string
	name      string
	principal string
	region    string
	status    types.StatusMode
}

func compile(c types.FilterCriteria) matcher {
	q := strings.ToLower(strings.TrimSpace(c.Query))
	negated := false
	if strings.HasPrefix(q, NegationPrefix) {
		q = strings.TrimSpace(strings.TrimPrefix(q, NegationPrefix))
		// "!" alone is no filter at all, not "exclude everything".
		negated = q != ""
	}
	return matcher{
		text:      q,
		negated:   negated,
		source:    fold(c.Source),
		name:      fold(c.Name),
		principal: fold(c.Principal),
		region:    fold(c.Region),
		status:    c.Status,
	}
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (m matcher) match(r *types.Row) bool {
	if m.text != "" && strings.Contains(r.SearchBlob, m.text) == m.negated {
		return false
	}
	if !containsFold(r.EventSource, m.source) ||
		!containsFold(r.EventName, m.name) ||
		!containsFold(r.Principal, m.principal) ||
		!containsFold(r.Region, m.region) {
		return false
	}
	switch m.status {
	case types.StatusErrors:
		return r.HasError()
	case types.StatusSuccess:
		return !r.HasError()
	}
	return true
}

// containsFold reports whether needle (already lowercase) occurs in value.
// An empty needle imposes no constraint.
func containsFold(value, needle string) bool {
	return needle == "" || strings.Contains(strings.ToLower(value), needle)
}

// Filter returns the rows matching every active clause of c, in input order.
func Filter(rows []*types.Row, c types.FilterCriteria) []*types.Row {
	m := compile(c)
	out := make([]*types.Row, 0, len(rows))
	for _, r := range rows {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}
