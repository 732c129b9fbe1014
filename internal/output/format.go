package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloudtrail-explorer/internal/facet"
	"cloudtrail-explorer/internal/parser"
	"cloudtrail-explorer/internal/query"
	"cloudtrail-explorer/internal/types"
)

const (
	utcLayout   = "2006-01-02T15:04:05.000Z"
	localLayout = "2006-01-02 15:04:05"
)

// SafeText renders empty values as "-".
func SafeText(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// FormatTime renders epoch milliseconds for display. Unknown time (0) falls
// back to the raw timestamp text.
func FormatTime(ms int64, fallback string, mode types.TimeMode) string {
	if ms == 0 {
		return SafeText(fallback)
	}
	t := time.UnixMilli(ms)
	if mode == types.TimeLocal {
		return t.Local().Format(localLayout)
	}
	return t.UTC().Format(utcLayout)
}

// Status renders the status column: the error code or "OK".
func Status(r *types.Row) string {
	if r.HasError() {
		return r.ErrorCode
	}
	return "OK"
}

// Detail is the full view of one event.
type Detail struct {
	Index int    `json:"index"`
	Hint  string `json:"hint"`
	JSON  string `json:"json"`
}

// Describe pretty-prints the raw event of r.
func Describe(r *types.Row) Detail {
	id := parser.EventID(r.Raw)
	if id == "" {
		id = "n/a"
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(r.Raw)

	return Detail{
		Index: r.Index,
		Hint:  "eventID/requestID: " + id,
		JSON:  strings.TrimSuffix(buf.String(), "\n"),
	}
}

// MetaLine summarizes the loaded document.
func MetaLine(name string, s facet.Summary, mode types.TimeMode) string {
	if name == "" {
		return "No file loaded."
	}
	first, last := "-", "-"
	if s.HasRange() {
		first = FormatTime(s.EarliestMillis, "-", mode)
		last = FormatTime(s.LatestMillis, "-", mode)
	}
	return fmt.Sprintf("Loaded: %s | Events: %d | Errors: %d | Range: %s .. %s", name, s.Total, s.ErrorCount, first, last)
}

// ResultsLine reports how many rows matched.
func ResultsLine(res query.Result) string {
	return fmt.Sprintf("%d results (of %d)", res.Matched, res.Total)
}

// PageLine reports the position within the result pages.
func PageLine(p types.Page) string {
	return fmt.Sprintf("Page %d / %d", p.Number, p.TotalPages)
}
