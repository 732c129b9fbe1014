package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"cloudtrail-explorer/internal/facet"
	"cloudtrail-explorer/internal/types"
)

// LoadConfig reads the configuration from the given path. A missing file
// yields the defaults. Overrides run after decoding and before validation.
func LoadConfig(path string, overrides ...func(*types.Config)) (*types.Config, error) {
	var cfg types.Config

	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	default:
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	for _, override := range overrides {
		override(&cfg)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateConfig applies defaults and hard rules
func validateConfig(cfg *types.Config) error {
	if cfg.Query.PageSize == "" {
		cfg.Query.PageSize = types.DefaultPageSize.String()
	}
	if _, err := types.ParsePageSize(cfg.Query.PageSize); err != nil {
		return fmt.Errorf("query.page_size: %w", err)
	}

	cfg.Query.TimeMode = string(types.ParseTimeMode(cfg.Query.TimeMode))
	if cfg.Query.SuggestionLimit <= 0 {
		cfg.Query.SuggestionLimit = facet.DefaultSuggestionLimit
	}

	if cfg.Cache.DBPath == "" {
		cfg.Cache.DBPath = "cloudtrail-explorer.db"
	}
	if cfg.Dashboard.Port == "" {
		cfg.Dashboard.Port = ":8080"
	}

	switch cfg.Output.Format {
	case "":
		cfg.Output.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("output.format: unknown format %q", cfg.Output.Format)
	}
	return nil
}
