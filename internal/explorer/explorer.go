package explorer

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"cloudtrail-explorer/internal/audit"
	"cloudtrail-explorer/internal/facet"
	"cloudtrail-explorer/internal/ingest"
	"cloudtrail-explorer/internal/metrics"
	"cloudtrail-explorer/internal/parser"
	"cloudtrail-explorer/internal/query"
	"cloudtrail-explorer/internal/state"
	"cloudtrail-explorer/internal/types"
)

const subscriberBuffer = 16

// Cache persists the last successfully loaded document.
type Cache interface {
	SaveLast(doc state.Document) error
	LoadLast() (*state.Document, error)
	ClearLast() error
}

// Journal records load attempts.
type Journal interface {
	LogLoad(rec audit.LoadRecord) error
}

// Snapshot is an immutable, fully normalized batch. Queries read a snapshot
// and never observe a partially loaded one.
type Snapshot struct {
	ID          string
	Name        string
	Text        []byte
	Rows        []*types.Row
	Summary     facet.Summary
	Suggestions map[types.Field][]string
	LoadedAt    time.Time
	Restored    bool
}

// Notice is sent to subscribers whenever the snapshot is replaced or cleared.
type Notice struct {
	SnapshotID string        `json:"snapshotId,omitempty"`
	Name       string        `json:"name,omitempty"`
	Summary    facet.Summary `json:"summary"`
	LoadedAt   time.Time     `json:"loadedAt,omitempty"`
	Cleared    bool          `json:"cleared,omitempty"`
}

// Explorer owns the current snapshot and its collaborators.
type Explorer struct {
	current         atomic.Pointer[Snapshot]
	cache           Cache   // optional
	journal         Journal // optional
	suggestionLimit int

	mu          sync.RWMutex
	subscribers []chan Notice
	dropped     int64
}

// New creates an Explorer. cache and journal may be nil.
func New(cache Cache, journal Journal, suggestionLimit int) *Explorer {
	if suggestionLimit == 0 {
		suggestionLimit = facet.DefaultSuggestionLimit
	}
	return &Explorer{
		cache:           cache,
		journal:         journal,
		suggestionLimit: suggestionLimit,
	}
}

// Snapshot returns the current snapshot, or nil when nothing is loaded.
func (e *Explorer) Snapshot() *Snapshot {
	return e.current.Load()
}

// Load ingests document text and replaces the current snapshot. On error
// the previous snapshot is kept. When persist is set the text is cached.
func (e *Explorer) Load(name string, text []byte, persist bool) (*Snapshot, error) {
	return e.load(name, text, persist, false)
}

func (e *Explorer) load(name string, text []byte, persist, restored bool) (*Snapshot, error) {
	rec := audit.LoadRecord{Name: name, Bytes: len(text), Restored: restored}

	events, err := ingest.Parse(text)
	if err != nil {
		metrics.LoadsTotal.WithLabelValues(outcome(err)).Inc()
		rec.Failure = err.Error()
		e.logLoad(rec)
		return nil, err
	}

	rows := parser.NormalizeAll(events)
	snap := &Snapshot{
		ID:          uuid.NewString(),
		Name:        name,
		Text:        text,
		Rows:        rows,
		Summary:     facet.Summarize(rows),
		Suggestions: facet.Suggestions(rows, e.suggestionLimit),
		LoadedAt:    time.Now(),
		Restored:    restored,
	}
	e.current.Store(snap)

	metrics.LoadsTotal.WithLabelValues("ok").Inc()
	metrics.EventsIngested.Add(float64(len(rows)))
	metrics.SnapshotRows.Set(float64(len(rows)))

	rec.SnapshotID = snap.ID
	rec.Events = snap.Summary.Total
	rec.Errors = snap.Summary.ErrorCount
	e.logLoad(rec)

	if persist && e.cache != nil {
		if err := e.cache.SaveLast(state.Document{Name: name, Text: text, SavedAt: snap.LoadedAt}); err != nil {
			log.Printf("[STATE] Failed to cache %s: %v", name, err)
		}
	}

	e.broadcast(Notice{SnapshotID: snap.ID, Name: name, Summary: snap.Summary, LoadedAt: snap.LoadedAt})
	return snap, nil
}

// Restore replays the cached document, if any, without re-caching it.
// A corrupt cache entry is removed.
func (e *Explorer) Restore() (*Snapshot, error) {
	if e.cache == nil {
		return nil, nil
	}

	doc, err := e.cache.LoadLast()
	if errors.Is(err, state.ErrCorrupt) {
		if cerr := e.cache.ClearLast(); cerr != nil {
			log.Printf("[STATE] Failed to clear corrupt cache: %v", cerr)
		}
		return nil, err
	}
	if err != nil || doc == nil {
		return nil, err
	}

	return e.load(doc.Name, doc.Text, false, true)
}

// Clear drops the current snapshot and the cached document.
func (e *Explorer) Clear() {
	e.current.Store(nil)
	metrics.SnapshotRows.Set(0)

	if e.cache != nil {
		if err := e.cache.ClearLast(); err != nil {
			log.Printf("[STATE] Failed to clear cache: %v", err)
		}
	}
	e.broadcast(Notice{Cleared: true})
}

// Query runs the filter, sort and paginate pipeline against the current
// snapshot. With nothing loaded it returns an empty first page.
func (e *Explorer) Query(req query.Request) (query.Result, *Snapshot) {
	start := time.Now()
	defer func() { metrics.QueryDuration.Observe(time.Since(start).Seconds()) }()

	snap := e.Snapshot()
	var rows []*types.Row
	if snap != nil {
		rows = snap.Rows
	}
	return query.Run(rows, req), snap
}

// Row returns the row with the given original index.
func (e *Explorer) Row(index int) (*types.Row, bool) {
	snap := e.Snapshot()
	if snap == nil || index < 0 || index >= len(snap.Rows) {
		return nil, false
	}
	return snap.Rows[index], true
}

func (e *Explorer) logLoad(rec audit.LoadRecord) {
	if e.journal == nil {
		return
	}
	if err := e.journal.LogLoad(rec); err != nil {
		log.Printf("[AUDIT] Failed to record load of %s: %v", rec.Name, err)
	}
}

func outcome(err error) string {
	var invalid *ingest.InvalidJSONError
	var malformed *ingest.MalformedInputError
	switch {
	case errors.As(err, &invalid):
		return "invalid_json"
	case errors.As(err, &malformed):
		return "malformed_input"
	default:
		return "error"
	}
}
