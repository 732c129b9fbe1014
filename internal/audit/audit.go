package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// LoadRecord describes one ingestion attempt.
type LoadRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	SnapshotID string    `json:"snapshot_id,omitempty"`
	Name       string    `json:"name"`
	Bytes      int       `json:"bytes"`
	Events     int       `json:"events"`
	Errors     int       `json:"errors"`
	Restored   bool      `json:"restored"`
	Failure    string    `json:"failure,omitempty"`
}

// Logger appends load records to a JSON-lines file
type Logger struct {
	mu       sync.Mutex
	filePath string
}

// NewLogger creates a new audit logger
func NewLogger(filePath string) *Logger {
	return &Logger{
		filePath: filePath,
	}
}

// LogLoad writes a record to the journal in a thread-safe manner
func (l *Logger) LogLoad(rec LoadRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	f, err := os.OpenFile(l.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return fmt.Errorf("failed to encode load record: %w", err)
	}

	return nil
}
