package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"cloudtrail-explorer/internal/audit"
	"cloudtrail-explorer/internal/explorer"
	"cloudtrail-explorer/internal/facet"
	"cloudtrail-explorer/internal/ingest"
	"cloudtrail-explorer/internal/output"
	"cloudtrail-explorer/internal/state"
	"cloudtrail-explorer/internal/types"
)

var errNoInput = errors.New("no input: pass a file or glob, set input.path, or load a document first")

// session is the per-command wiring of config, cache, journal and explorer.
type session struct {
	cfg      *types.Config
	explorer *explorer.Explorer
	store    *state.Store
	path     string // resolved input file, empty when restored from cache
}

func bind(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

// openSession builds an explorer backed by the configured cache and journal.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg}

	var cache explorer.Cache
	if !cfg.Cache.Disabled {
		store, err := state.NewStore(cfg.Cache.DBPath)
		if err != nil {
			log.Printf("[STATE] Failed to open cache %s: %v", cfg.Cache.DBPath, err)
		} else {
			s.store = store
			cache = store
		}
	}

	var journal explorer.Journal
	if cfg.Output.AuditLogPath != "" {
		journal = audit.NewLogger(cfg.Output.AuditLogPath)
	}

	s.explorer = explorer.New(cache, journal, cfg.Query.SuggestionLimit)
	return s, nil
}

func (s *session) Close() {
	if s.store != nil {
		s.store.Close()
	}
}

func (s *session) timeMode() types.TimeMode {
	return types.ParseTimeMode(s.cfg.Query.TimeMode)
}

func (s *session) pageSize() types.PageSize {
	size, _ := types.ParsePageSize(s.cfg.Query.PageSize)
	return size
}

func (s *session) renderer() output.Renderer {
	return output.New(s.cfg.Output.Format, s.timeMode())
}

// load ingests the given pattern, falling back to input.path and then to
// the cached document. required reports errNoInput when nothing is found.
func (s *session) load(pattern string, required bool) error {
	if pattern == "" {
		pattern = s.cfg.Input.Path
	}

	if pattern == "" {
		snap, err := s.explorer.Restore()
		if err != nil {
			log.Printf("[STATE] Failed to restore cached document: %v", err)
		}
		if snap == nil && required {
			return errNoInput
		}
		return nil
	}

	path, err := ingest.ResolvePath(pattern)
	if err != nil {
		return err
	}
	text, err := ingest.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := s.explorer.Load(filepath.Base(path), text, true); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	s.path = path
	return nil
}

// printMeta writes the loaded-document summary to stderr.
func (s *session) printMeta() {
	name, summary := "", facet.Summary{}
	if snap := s.explorer.Snapshot(); snap != nil {
		name, summary = snap.Name, snap.Summary
	}
	fmt.Fprintln(os.Stderr, output.MetaLine(name, summary, s.timeMode()))
}
