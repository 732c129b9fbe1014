package ingest

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// ReadFile reads a whole document from disk.
func ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return b, nil
}

// ResolvePath expands a doublestar pattern (e.g. "logs/**/*.json") and returns
// the most recently modified match. A plain path resolves to itself.
func ResolvePath(pattern string) (string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return "", fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no files matched %q", pattern)
	}

	best := ""
	var bestMod int64
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		mod := info.ModTime().UnixNano()
		if best == "" || mod > bestMod || (mod == bestMod && m > best) {
			best, bestMod = m, mod
		}
	}
	if best == "" {
		return "", fmt.Errorf("no readable files matched %q", pattern)
	}
	return best, nil
}
