package query

import (
	"fmt"
	"testing"

	"cloudtrail-explorer/internal/ingest"
	"cloudtrail-explorer/internal/parser"
	"cloudtrail-explorer/internal/types"
)

const twoEventTrail = `{"Records":[
	{"eventTime":"2023-01-01T00:00:00Z","eventName":"ConsoleLogin","errorCode":""},
	{"eventTime":"2023-01-02T00:00:00Z","eventName":"DeleteBucket","errorMessage":"AccessDenied"}
]}`

func load(t *testing.T, doc string) []*types.Row {
	t.Helper()
	events, err := ingest.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return parser.NormalizeAll(events)
}

func sampleRows() []*types.Row {
	mk := func(i int, ms int64, src, name, who, region, errCode string) *types.Row {
		return &types.Row{
			Index: i, EventTimeMillis: ms, EventSource: src, EventName: name,
			Principal: who, Region: region, ErrorCode: errCode,
			SearchBlob: fmt.Sprintf("%s %s %s %s %s", src, name, who, region, errCode),
		}
	}
	return []*types.Row{
		mk(0, 3000, "s3.amazonaws.com", "GetObject", "alice", "us-east-1", ""),
		mk(1, 1000, "iam.amazonaws.com", "CreateUser", "Bob", "us-west-2", "AccessDenied"),
		mk(2, 0, "", "ConsoleLogin", "-", "", ""),
		mk(3, 2000, "ec2.amazonaws.com", "RunInstances", "alice", "eu-west-1", "UnauthorizedOperation"),
	}
}

func indices(rows []*types.Row) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Index
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRun_ErrorsOnlyAndDefaultSort(t *testing.T) {
	rows := load(t, twoEventTrail)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	errs := Filter(rows, types.FilterCriteria{Status: types.StatusErrors})
	if len(errs) != 1 || errs[0].EventName != "DeleteBucket" {
		t.Errorf("Expected only DeleteBucket, got %v", indices(errs))
	}

	res := Run(rows, DefaultRequest())
	if res.Page.Rows[0].EventName != "DeleteBucket" {
		t.Errorf("Expected DeleteBucket first, got %s", res.Page.Rows[0].EventName)
	}
}

func TestFilter_NegatedQuery(t *testing.T) {
	rows := load(t, twoEventTrail)

	got := Filter(rows, types.FilterCriteria{Query: "!login"})
	if len(got) != 1 || got[0].EventName != "DeleteBucket" {
		t.Errorf("Expected only DeleteBucket, got %v", indices(got))
	}
}

func TestFilter_BareArrayDocument(t *testing.T) {
	rows := load(t, `[{"eventName":"A"}]`)
	if len(rows) != 1 || rows[0].EventTimeMillis != 0 {
		t.Errorf("Expected one row with unknown time, got %+v", rows)
	}
}

func TestFilter_DefaultCriteriaReturnsAll(t *testing.T) {
	rows := sampleRows()
	got := Filter(rows, types.FilterCriteria{})
	if !equalInts(indices(got), []int{0, 1, 2, 3}) {
		t.Errorf("Expected all rows in order, got %v", indices(got))
	}
}

func TestFilter_NegationIsComplement(t *testing.T) {
	rows := sampleRows()
	base := types.FilterCriteria{Principal: "alice"}

	for _, term := range []string{"s3", "amazonaws", "nothing-matches", "ALICE"} {
		pos := base
		pos.Query = term
		neg := base
		neg.Query = "!" + term

		p := Filter(rows, pos)
		n := Filter(rows, neg)
		all := Filter(rows, base)
		if len(p)+len(n) != len(all) {
			t.Errorf("%s: %d + %d != %d", term, len(p), len(n), len(all))
		}
		for _, r := range p {
			for _, s := range n {
				if r == s {
					t.Errorf("%s: row %d in both sets", term, r.Index)
				}
			}
		}
	}
}

func TestFilter_EmptyNegationIsNoop(t *testing.T) {
	rows := sampleRows()
	for _, q := range []string{"!", "  !   ", ""} {
		if got := Filter(rows, types.FilterCriteria{Query: q}); len(got) != len(rows) {
			t.Errorf("%q: expected all rows, got %d", q, len(got))
		}
	}
}

func TestFilter_FieldClauses(t *testing.T) {
	rows := sampleRows()
	tests := []struct {
		name string
		c    types.FilterCriteria
		want []int
	}{
		{"source", types.FilterCriteria{Source: " S3 "}, []int{0}},
		{"name", types.FilterCriteria{Name: "user"}, []int{1}},
		{"principal case-insensitive", types.FilterCriteria{Principal: "bob"}, []int{1}},
		{"region", types.FilterCriteria{Region: "us-"}, []int{0, 1}},
		{"combined", types.FilterCriteria{Principal: "alice", Region: "eu"}, []int{3}},
		{"errors", types.FilterCriteria{Status: types.StatusErrors}, []int{1, 3}},
		{"success", types.FilterCriteria{Status: types.StatusSuccess}, []int{0, 2}},
		{"query and status", types.FilterCriteria{Query: "alice", Status: types.StatusErrors}, []int{3}},
	}

	for _, tt := range tests {
		got := indices(Filter(rows, tt.c))
		if !equalInts(got, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestSort_Time(t *testing.T) {
	rows := sampleRows()

	asc := Sort(rows, types.SortSpec{Field: types.FieldTime, Direction: types.Asc})
	for i := 1; i < len(asc); i++ {
		if asc[i-1].EventTimeMillis > asc[i].EventTimeMillis {
			t.Errorf("Ascending order broken at %d: %v", i, indices(asc))
		}
	}
	if asc[0].Index != 2 {
		t.Errorf("Expected unknown time first in ascending order, got %d", asc[0].Index)
	}

	desc := Sort(rows, types.DefaultSort())
	for i := 1; i < len(desc); i++ {
		if desc[i-1].EventTimeMillis < desc[i].EventTimeMillis {
			t.Errorf("Descending order broken at %d: %v", i, indices(desc))
		}
	}

	if !equalInts(indices(rows), []int{0, 1, 2, 3}) {
		t.Errorf("Expected input to be untouched, got %v", indices(rows))
	}
}

func TestSort_StringFields(t *testing.T) {
	rows := sampleRows()

	got := Sort(rows, types.SortSpec{Field: types.FieldPrincipal, Direction: types.Asc})
	// "-" sorts before letters; "alice" ties are interchangeable.
	if got[0].Index != 2 || got[3].Index != 1 {
		t.Errorf("Unexpected principal order %v", indices(got))
	}

	got = Sort(rows, types.SortSpec{Field: types.FieldSource, Direction: types.Desc})
	if !equalInts(indices(got), []int{0, 1, 3, 2}) {
		t.Errorf("Unexpected source order %v", indices(got))
	}
}

func TestSortSpec_Toggle(t *testing.T) {
	s := types.DefaultSort()

	s = s.Toggle(types.FieldTime)
	if s.Direction != types.Asc {
		t.Errorf("Expected time to flip to asc, got %s", s.Direction)
	}
	s = s.Toggle(types.FieldName)
	if s.Field != types.FieldName || s.Direction != types.Asc {
		t.Errorf("Expected name asc, got %+v", s)
	}
	s = s.Toggle(types.FieldName)
	if s.Direction != types.Desc {
		t.Errorf("Expected name desc, got %s", s.Direction)
	}
	s = s.Toggle(types.FieldTime)
	if s.Direction != types.Desc {
		t.Errorf("Expected time to reset to desc, got %s", s.Direction)
	}
}

func makeRows(n int) []*types.Row {
	rows := make([]*types.Row, n)
	for i := range rows {
		rows[i] = &types.Row{Index: i}
	}
	return rows
}

func TestPaginate_SecondPage(t *testing.T) {
	page := Paginate(makeRows(250), 100, 3)
	if page.TotalPages != 3 {
		t.Errorf("Expected 3 pages, got %d", page.TotalPages)
	}
	if len(page.Rows) != 50 || page.Rows[0].Index != 200 || page.Rows[49].Index != 249 {
		t.Errorf("Expected rows 200-249, got %d rows", len(page.Rows))
	}
}

func TestPaginate_Invariants(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 101} {
		rows := makeRows(n)
		for _, size := range []types.PageSize{1, 3, 100, types.PageSizeAll} {
			first := Paginate(rows, size, 1)
			wantPages := 1
			if size != types.PageSizeAll && n > 0 {
				wantPages = (n + int(size) - 1) / int(size)
			}
			if first.TotalPages != wantPages {
				t.Errorf("n=%d size=%s: expected %d pages, got %d", n, size, wantPages, first.TotalPages)
			}

			var seen []int
			for p := 1; p <= first.TotalPages; p++ {
				page := Paginate(rows, size, p)
				if len(page.Rows) > page.Size {
					t.Errorf("n=%d size=%s page=%d: %d rows exceed size %d", n, size, p, len(page.Rows), page.Size)
				}
				seen = append(seen, indices(page.Rows)...)
			}
			if !equalInts(seen, indices(rows)) {
				t.Errorf("n=%d size=%s: pages do not reproduce input", n, size)
			}
		}
	}
}

func TestPaginate_Clamping(t *testing.T) {
	rows := makeRows(25)

	if p := Paginate(rows, 10, 0); p.Number != 1 || p.Rows[0].Index != 0 {
		t.Errorf("Expected page 0 to clamp to 1, got %d", p.Number)
	}
	if p := Paginate(rows, 10, -4); p.Number != 1 {
		t.Errorf("Expected negative page to clamp to 1, got %d", p.Number)
	}
	if p := Paginate(rows, 10, 99); p.Number != 3 || len(p.Rows) != 5 {
		t.Errorf("Expected page 99 to clamp to 3 with 5 rows, got %d with %d", p.Number, len(p.Rows))
	}
}

func TestPaginate_AllMode(t *testing.T) {
	p := Paginate(makeRows(0), types.PageSizeAll, 5)
	if p.Size != 1 || p.TotalPages != 1 || len(p.Rows) != 0 {
		t.Errorf("Expected single empty page of size 1, got %+v", p)
	}

	p = Paginate(makeRows(42), types.PageSizeAll, 1)
	if p.Size != 42 || len(p.Rows) != 42 {
		t.Errorf("Expected one page of 42, got size %d with %d rows", p.Size, len(p.Rows))
	}
}

func TestRun_CountsAndClamp(t *testing.T) {
	rows := sampleRows()

	res := Run(rows, Request{
		Criteria: types.FilterCriteria{Principal: "alice"},
		Sort:     types.SortSpec{Field: types.FieldName},
		PageSize: 1,
		Page:     10,
	})
	if res.Total != 4 || res.Matched != 2 {
		t.Errorf("Expected 2 of 4, got %d of %d", res.Matched, res.Total)
	}
	if res.Page.Number != 2 || res.Page.Rows[0].EventName != "RunInstances" {
		t.Errorf("Expected clamped last page with RunInstances, got page %d", res.Page.Number)
	}
}
