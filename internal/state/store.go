package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultRestoreName is used when a cached document has no name.
const DefaultRestoreName = "restored-cloudtrail.json"

// lastDocumentKey is the single slot the cache keeps.
const lastDocumentKey = "last"

// Document is a cached raw input together with its display name.
type Document struct {
	Name    string
	Text    []byte
	SavedAt time.Time
}

// ErrCorrupt marks a cached record that cannot be replayed.
var ErrCorrupt = errors.New("cached document is corrupt")

// Store keeps the last successfully loaded document in SQLite.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	query := `
	CREATE TABLE IF NOT EXISTS documents (
		slot TEXT PRIMARY KEY,
		file_name TEXT,
		body BLOB,
		saved_at DATETIME NOT NULL
	);`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// SaveLast replaces the cached document.
func (s *Store) SaveLast(doc Document) error {
	if doc.SavedAt.IsZero() {
		doc.SavedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO documents (slot, file_name, body, saved_at)
		VALUES (?, ?, ?, ?)
	`, lastDocumentKey, doc.Name, doc.Text, doc.SavedAt.UTC())
	return err
}

// LoadLast returns the cached document, or nil when nothing is cached.
// A record without a body yields ErrCorrupt.
func (s *Store) LoadLast() (*Document, error) {
	var (
		name  sql.NullString
		body  []byte
		saved time.Time
	)
	err := s.db.QueryRow(
		"SELECT file_name, body, saved_at FROM documents WHERE slot = ?", lastDocumentKey,
	).Scan(&name, &body, &saved)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, ErrCorrupt
	}

	doc := &Document{Name: name.String, Text: body, SavedAt: saved}
	if doc.Name == "" {
		doc.Name = DefaultRestoreName
	}
	return doc, nil
}

// ClearLast removes the cached document.
func (s *Store) ClearLast() error {
	_, err := s.db.Exec("DELETE FROM documents WHERE slot = ?", lastDocumentKey)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
