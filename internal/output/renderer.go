package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"cloudtrail-explorer/internal/query"
	"cloudtrail-explorer/internal/types"
)

// Renderer writes result pages and event details to an output stream.
type Renderer interface {
	RenderPage(res query.Result) error
	RenderDetail(d Detail) error
}

// New picks a renderer by format name ("json" or text).
func New(format string, mode types.TimeMode) Renderer {
	if strings.EqualFold(format, "json") {
		return NewJSONRenderer()
	}
	return NewTextRenderer(mode)
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal table)
// ---------------------------------------------------------------------------

const maxColumnWidth = 48

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	styleCell   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	styleOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleFooter = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
)

var columnTitles = []string{"TIME", "SOURCE", "EVENT", "USER", "REGION", "STATUS"}

// TextRenderer prints pages as an aligned table.
type TextRenderer struct {
	w    io.Writer
	mode types.TimeMode
}

// NewTextRenderer returns a Renderer that writes colorized text to stdout.
func NewTextRenderer(mode types.TimeMode) *TextRenderer {
	return &TextRenderer{w: os.Stdout, mode: mode}
}

func (r *TextRenderer) cells(row *types.Row) []string {
	return []string{
		FormatTime(row.EventTimeMillis, row.EventTime, r.mode),
		SafeText(row.EventSource),
		SafeText(row.EventName),
		SafeText(row.Principal),
		SafeText(row.Region),
		Status(row),
	}
}

func (r *TextRenderer) RenderPage(res query.Result) error {
	table := make([][]string, 0, len(res.Page.Rows))
	widths := make([]int, len(columnTitles))
	for i, t := range columnTitles {
		widths[i] = len(t)
	}
	for _, row := range res.Page.Rows {
		cells := r.cells(row)
		for i, c := range cells {
			cells[i] = truncate(c, maxColumnWidth)
			widths[i] = max(widths[i], utf8.RuneCountInString(cells[i]))
		}
		table = append(table, cells)
	}

	var b strings.Builder
	b.WriteString(styleHeader.Render(joinPadded(columnTitles, widths)))
	b.WriteByte('\n')
	for i, cells := range table {
		last := len(cells) - 1
		line := styleCell.Render(joinPadded(cells[:last], widths[:last]))
		status := cells[last]
		if res.Page.Rows[i].HasError() {
			status = styleError.Render(status)
		} else {
			status = styleOK.Render(status)
		}
		b.WriteString(line + "  " + status + "\n")
	}
	b.WriteString(styleFooter.Render(ResultsLine(res) + " | " + PageLine(res.Page)))

	_, err := fmt.Fprintln(r.w, b.String())
	return err
}

func (r *TextRenderer) RenderDetail(d Detail) error {
	_, err := fmt.Fprintf(r.w, "%s\n%s\n", styleHeader.Render(d.Hint), d.JSON)
	return err
}

func joinPadded(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c))
	}
	return strings.Join(parts, "  ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

type jsonRow struct {
	Index     int    `json:"index"`
	EventTime string `json:"eventTime"`
	Millis    int64  `json:"eventTimeMillis"`
	Source    string `json:"eventSource"`
	Name      string `json:"eventName"`
	Principal string `json:"principal"`
	Region    string `json:"region"`
	ErrorCode string `json:"errorCode,omitempty"`
}

type jsonPage struct {
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
	Matched    int       `json:"matched"`
	Total      int       `json:"total"`
	Rows       []jsonRow `json:"rows"`
}

// JSONRenderer prints each page as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to stdout.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(os.Stdout)}
}

func (r *JSONRenderer) RenderPage(res query.Result) error {
	out := jsonPage{
		Page:       res.Page.Number,
		PageSize:   res.Page.Size,
		TotalPages: res.Page.TotalPages,
		Matched:    res.Matched,
		Total:      res.Total,
		Rows:       make([]jsonRow, 0, len(res.Page.Rows)),
	}
	for _, row := range res.Page.Rows {
		out.Rows = append(out.Rows, jsonRow{
			Index:     row.Index,
			EventTime: row.EventTime,
			Millis:    row.EventTimeMillis,
			Source:    row.EventSource,
			Name:      row.EventName,
			Principal: row.Principal,
			Region:    row.Region,
			ErrorCode: row.ErrorCode,
		})
	}
	return r.enc.Encode(out)
}

func (r *JSONRenderer) RenderDetail(d Detail) error {
	return r.enc.Encode(struct {
		Index int             `json:"index"`
		Hint  string          `json:"hint"`
		Event json.RawMessage `json:"event"`
	}{d.Index, d.Hint, json.RawMessage(d.JSON)})
}
