package domain

import (
	"slices"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultRefreshRate is the interval between two polls.
	DefaultRefreshRate = 250 * time.Millisecond

	// UnboundedDepth disables the directory depth limit.
	UnboundedDepth = -1
)

// WatchConfig describes what a watcher observes and how often.
type WatchConfig struct {
	// Root is the directory being watched.
	Root string
	// Filter is the filter expression; empty tracks every file.
	Filter string
	// RefreshRate is the interval between two polls.
	RefreshRate time.Duration
	// NotifyFilters selects which timestamp changes are reported.
	NotifyFilters NotifyFilter
	// MaxDepth bounds recursion below Root. Zero scans Root only.
	MaxDepth int
	// Precheck skips a poll when the modification time of Root is unchanged.
	// It only sees changes to Root's direct entries.
	Precheck bool
	// Exclude lists glob patterns for entry names that are never tracked.
	Exclude []string
}

// DefaultWatchConfig returns the configuration used when only a root is known.
func DefaultWatchConfig(root string) WatchConfig {
	return WatchConfig{
		Root:          root,
		RefreshRate:   DefaultRefreshRate,
		NotifyFilters: DefaultNotifyFilter,
		MaxDepth:      UnboundedDepth,
		Precheck:      true,
	}
}

// Clone returns a copy that shares no slice with c.
func (c WatchConfig) Clone() WatchConfig {
	c.Exclude = slices.Clone(c.Exclude)
	return c
}

// ScanOptions compiles the filter and exclude patterns of the configuration.
func (c WatchConfig) ScanOptions() (ScanOptions, error) {
	if c.RefreshRate <= 0 {
		err := zerr.Wrap(ErrInvalidConfig, "refresh rate must be positive")
		return ScanOptions{}, zerr.With(err, "refresh_rate", c.RefreshRate.String())
	}
	if c.MaxDepth < UnboundedDepth {
		err := zerr.Wrap(ErrInvalidConfig, "directory depth must not be negative")
		return ScanOptions{}, zerr.With(err, "directory_depth", c.MaxDepth)
	}

	filter, err := ParseFilter(c.Filter)
	if err != nil {
		return ScanOptions{}, err
	}
	exclude, err := CompileExclude(c.Exclude)
	if err != nil {
		return ScanOptions{}, err
	}

	return ScanOptions{Filter: filter, MaxDepth: c.MaxDepth, Exclude: exclude}, nil
}

// ScanOptions controls a single directory scan.
type ScanOptions struct {
	Filter   PathFilter
	MaxDepth int
	Exclude  ExcludeSet
}

// Unbounded reports whether the scan ignores depth.
func (o ScanOptions) Unbounded() bool {
	return o.MaxDepth < 0
}
