// Package config loads watch configurations from YAML files.
package config

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/dirpoll/internal/core/domain"
	"go.trai.ch/dirpoll/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader for YAML watch files.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a Loader that reports unknown keys to logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the watch file at path. A relative root resolves against the
// directory holding the file.
func (l *Loader) Load(path string) (domain.WatchConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return domain.WatchConfig{}, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.WatchConfig{}, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", path)
	}
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		if !knownKeys[key] && l.logger != nil {
			l.logger.Warn("ignoring unknown key " + key + " in " + path)
		}
	}

	var file WatchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.WatchConfig{}, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", path)
	}

	cfg, err := file.toConfig(filepath.Dir(path))
	if err != nil {
		return domain.WatchConfig{}, zerr.With(err, "path", path)
	}
	return cfg, nil
}

func (f *WatchFile) toConfig(base string) (domain.WatchConfig, error) {
	if f.Root == "" {
		return domain.WatchConfig{}, zerr.Wrap(domain.ErrInvalidConfig, "root is required")
	}
	root := f.Root
	if !filepath.IsAbs(root) {
		root = filepath.Join(base, root)
	}

	cfg := domain.DefaultWatchConfig(filepath.Clean(root))
	cfg.Filter = f.Filter
	cfg.Exclude = slices.Clone(f.Exclude)

	if f.RefreshRate != nil {
		if *f.RefreshRate <= 0 {
			err := zerr.Wrap(domain.ErrInvalidConfig, "refreshRate must be a positive number of milliseconds")
			return domain.WatchConfig{}, zerr.With(err, "refreshRate", *f.RefreshRate)
		}
		cfg.RefreshRate = time.Duration(*f.RefreshRate) * time.Millisecond
	}

	if f.DirectoryDepth != nil {
		if *f.DirectoryDepth < 0 {
			err := zerr.Wrap(domain.ErrInvalidConfig, "directoryDepth must not be negative")
			return domain.WatchConfig{}, zerr.With(err, "directoryDepth", *f.DirectoryDepth)
		}
		cfg.MaxDepth = *f.DirectoryDepth
	}

	if len(f.NotifyFilters) > 0 {
		notify, err := domain.ParseNotifyFilters(f.NotifyFilters)
		if err != nil {
			return domain.WatchConfig{}, err
		}
		cfg.NotifyFilters = notify
	}

	if f.Precheck != nil {
		cfg.Precheck = *f.Precheck
	}

	if _, err := cfg.ScanOptions(); err != nil {
		return domain.WatchConfig{}, err
	}
	return cfg, nil
}
