package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is one normalized audit event. Rows are created once per load and
// never mutated afterwards; filters and sorts reorder pointers only.
type Row struct {
	Index           int         `json:"index"`
	Raw             interface{} `json:"-"` // original decoded event, for detail display
	EventTime       string      `json:"eventTime"`
	EventTimeMillis int64       `json:"eventTimeMillis"`
	EventSource     string      `json:"eventSource"`
	EventName       string      `json:"eventName"`
	Principal       string      `json:"principal"`
	Region          string      `json:"region"`
	ErrorCode       string      `json:"errorCode"`
	SearchBlob      string      `json:"-"`
}

// HasError reports whether the event carries an error code or message.
func (r *Row) HasError() bool {
	return r.ErrorCode != ""
}

// Field identifies a comparable row attribute
type Field string

const (
	FieldTime      Field = "eventTime"
	FieldSource    Field = "eventSource"
	FieldName      Field = "eventName"
	FieldPrincipal Field = "principal"
	FieldRegion    Field = "region"
	FieldStatus    Field = "errorCode"
)

// SortableFields lists the fields a column header can sort by, in display order.
var SortableFields = []Field{FieldTime, FieldSource, FieldName, FieldPrincipal, FieldRegion, FieldStatus}

// Value returns the string projection of f for the row.
func (r *Row) Value(f Field) string {
	switch f {
	case FieldTime:
		return r.EventTime
	case FieldSource:
		return r.EventSource
	case FieldName:
		return r.EventName
	case FieldPrincipal:
		return r.Principal
	case FieldRegion:
		return r.Region
	case FieldStatus:
		return r.ErrorCode
	default:
		return ""
	}
}

// ParseField accepts the canonical field names plus a few short aliases.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eventtime", "time":
		return FieldTime, nil
	case "eventsource", "source":
		return FieldSource, nil
	case "eventname", "name", "event":
		return FieldName, nil
	case "principal", "user", "useridentity", "username":
		return FieldPrincipal, nil
	case "region", "awsregion":
		return FieldRegion, nil
	case "errorcode", "status", "error":
		return FieldStatus, nil
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// StatusMode restricts rows by error state
type StatusMode string

const (
	StatusAll     StatusMode = "all"
	StatusErrors  StatusMode = "errors"
	StatusSuccess StatusMode = "success"
)

// ParseStatusMode maps user input to a StatusMode. Empty input means all.
func ParseStatusMode(s string) (StatusMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StatusAll, nil
	case "errors", "errors-only", "error":
		return StatusErrors, nil
	case "success", "success-only", "ok":
		return StatusSuccess, nil
	}
	return "", fmt.Errorf("unknown status mode %q", s)
}

// FilterCriteria is the current user input. The zero value matches everything.
type FilterCriteria struct {
	Query     string     `json:"query"`
	Source    string     `json:"source"`
	Name      string     `json:"name"`
	Principal string     `json:"principal"`
	Region    string     `json:"region"`
	Status    StatusMode `json:"status"`
}

// Direction of a sort
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc" or "desc"; empty input returns def.
func ParseDirection(s string, def Direction) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// SortSpec selects the ordering of the filtered set.
type SortSpec struct {
	Field     Field     `json:"field"`
	Direction Direction `json:"direction"`
}

// DefaultSort orders by time, most recent first.
func DefaultSort() SortSpec {
	return SortSpec{Field: FieldTime, Direction: Desc}
}

// DefaultDirection is the direction a column starts with when first selected.
func DefaultDirection(f Field) Direction {
	if f == FieldTime {
		return Desc
	}
	return Asc
}

// Toggle applies a column header click: the active field flips direction,
// any other field becomes active with its default direction.
func (s SortSpec) Toggle(f Field) SortSpec {
	if s.Field == f {
		if s.Direction == Asc {
			return SortSpec{Field: f, Direction: Desc}
		}
		return SortSpec{Field: f, Direction: Asc}
	}
	return SortSpec{Field: f, Direction: DefaultDirection(f)}
}

// PageSize is a positive row count or PageSizeAll.
type PageSize int

const (
	PageSizeAll     PageSize = 0
	DefaultPageSize PageSize = 100
)

// ParsePageSize accepts "all" or a positive integer.
func ParsePageSize(s string) (PageSize, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "all" {
		return PageSizeAll, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return DefaultPageSize, fmt.Errorf("invalid page size %q", s)
	}
	return PageSize(n), nil
}

func (p PageSize) String() string {
	if p == PageSizeAll {
		return "all"
	}
	return strconv.Itoa(int(p))
}

// Page is one slice of the filtered, sorted set.
type Page struct {
	Number     int    `json:"page"`
	Size       int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
	Rows       []*Row `json:"rows"`
}

// TimeMode selects how timestamps are displayed. It never affects ordering.
type TimeMode string

const (
	TimeUTC   TimeMode = "utc"
	TimeLocal TimeMode = "local"
)

// ParseTimeMode defaults to UTC for anything but "local".
func ParseTimeMode(s string) TimeMode {
	if strings.EqualFold(strings.TrimSpace(s), string(TimeLocal)) {
		return TimeLocal
	}
	return TimeUTC
}

// Config represents the application configuration
type Config struct {
	Input struct {
		Path  string `yaml:"path"`  // file or doublestar glob; newest match wins
		Watch bool   `yaml:"watch"` // re-ingest when the file changes
	} `yaml:"input"`

	Query struct {
		PageSize        string `yaml:"page_size"` // integer or "all"
		TimeMode        string `yaml:"time_mode"` // utc, local
		SuggestionLimit int    `yaml:"suggestion_limit"`
	} `yaml:"query"`

	Cache struct {
		Disabled bool   `yaml:"disabled"`
		DBPath   string `yaml:"db_path"`
	} `yaml:"cache"`

	Dashboard struct {
		Port string `yaml:"port"`
	} `yaml:"dashboard"`

	Output struct {
		AuditLogPath string `yaml:"audit_log_path"`
		Format       string `yaml:"format"` // text, json
	} `yaml:"output"`
}
