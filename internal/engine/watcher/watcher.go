// Package watcher polls a directory tree and delivers classified changes to
// subscribers.
//
// A running watcher owns two goroutines: the poller, which scans the tree on
// every interval and publishes one message per non-empty classification, and
// the notifier, which invokes subscribers in publish order. The two are joined
// by an unbounded queue so that a slow subscriber never delays a scan.
package watcher

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"

	"go.trai.ch/dirpoll/internal/core/domain"
	"go.trai.ch/dirpoll/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// FileHandler receives a batch of created, changed or deleted files.
type FileHandler func(domain.FileBatch)

// RenameHandler receives a batch of renames.
type RenameHandler func(domain.RenameBatch)

// ErrorHandler receives a terminal watcher failure.
type ErrorHandler func(error)

type handlers struct {
	created []FileHandler
	changed []FileHandler
	deleted []FileHandler
	renamed []RenameHandler
	errored []ErrorHandler
}

func (h handlers) clone() handlers {
	return handlers{
		created: slices.Clone(h.created),
		changed: slices.Clone(h.changed),
		deleted: slices.Clone(h.deleted),
		renamed: slices.Clone(h.renamed),
		errored: slices.Clone(h.errored),
	}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger used for skipped directories and handler panics.
func WithLogger(l ports.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithTelemetry records every scan cycle as a vertex.
func WithTelemetry(t ports.Telemetry) Option {
	return func(w *Watcher) {
		if t != nil {
			w.telemetry = t
		}
	}
}

// WithMetrics reports scan and publish counts.
func WithMetrics(m ports.Metrics) Option {
	return func(w *Watcher) {
		if m != nil {
			w.metrics = m
		}
	}
}

// Watcher polls one directory tree.
type Watcher struct {
	cfg       domain.WatchConfig
	opts      domain.ScanOptions
	scanner   ports.Scanner
	logger    ports.Logger
	telemetry ports.Telemetry
	metrics   ports.Metrics

	mu       sync.Mutex
	handlers handlers
	current  *run
	running  bool
}

// New validates cfg and returns a stopped watcher.
// It fails with domain.ErrNotADirectory if the root is not a readable
// directory, domain.ErrBadFilter if the filter is malformed, or
// domain.ErrInvalidConfig for any other out-of-range value.
func New(cfg domain.WatchConfig, scanner ports.Scanner, opts ...Option) (*Watcher, error) {
	if _, err := scanner.StatRoot(cfg.Root); err != nil {
		return nil, err
	}

	scanOpts, err := cfg.ScanOptions()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		cfg:       cfg.Clone(),
		opts:      scanOpts,
		scanner:   scanner,
		logger:    discardLogger{},
		telemetry: noopTelemetry{},
		metrics:   noopMetrics{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// OnCreated subscribes fn to created files.
func (w *Watcher) OnCreated(fn FileHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers.created = append(w.handlers.created, fn)
}

// OnChanged subscribes fn to changed files.
func (w *Watcher) OnChanged(fn FileHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers.changed = append(w.handlers.changed, fn)
}

// OnDeleted subscribes fn to deleted files.
func (w *Watcher) OnDeleted(fn FileHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers.deleted = append(w.handlers.deleted, fn)
}

// OnRenamed subscribes fn to renames.
func (w *Watcher) OnRenamed(fn RenameHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers.renamed = append(w.handlers.renamed, fn)
}

// OnError subscribes fn to terminal failures.
func (w *Watcher) OnError(fn ErrorHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers.errored = append(w.handlers.errored, fn)
}

// WatchedDirectory returns the root being watched.
func (w *Watcher) WatchedDirectory() string {
	return w.cfg.Root
}

// CurrentFilter returns the configured filter expression, or false if none was given.
func (w *Watcher) CurrentFilter() (string, bool) {
	return w.cfg.Filter, w.cfg.Filter != ""
}

// Config returns a copy of the configuration the watcher was built with.
func (w *Watcher) Config() domain.WatchConfig {
	return w.cfg.Clone()
}

// Running reports whether the watcher is polling.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Start launches the poller and the notifier. Subscribers registered so far
// are captured for the run. It returns false if the watcher is already running.
func (w *Watcher) Start() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		cancel:   cancel,
		queue:    newQueue(),
		handlers: w.handlers.clone(),
		prev:     w.current,
	}
	w.current = r
	w.running = true

	r.group.Go(func() error { return w.poll(ctx, r) })
	r.group.Go(func() error {
		w.notify(r)
		return nil
	})
	return true
}

// Stop asks the running poller to exit and returns without waiting.
// Messages already published are still delivered. It returns false if the
// watcher is not running.
func (w *Watcher) Stop() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return false
	}
	w.running = false
	w.current.cancel()
	return true
}

// Wait blocks until the most recent run has delivered its last message.
// It returns the error that ended the run, or nil after Stop.
func (w *Watcher) Wait() error {
	w.mu.Lock()
	r := w.current
	w.mu.Unlock()

	if r == nil {
		return nil
	}
	return r.wait()
}

// finish marks r as no longer running if it is still the current run.
func (w *Watcher) finish(r *run) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == r {
		w.running = false
	}
	r.cancel()
}

// run holds the state of one Start/Stop cycle.
type run struct {
	cancel   context.CancelFunc
	group    errgroup.Group
	queue    *queue
	handlers handlers
	prev     *run
}

func (r *run) wait() error {
	return r.group.Wait()
}

type discardLogger struct{}

func (discardLogger) Info(string) {}
func (discardLogger) Warn(string) {}
func (discardLogger) Error(error) {}

type noopTelemetry struct{}

func (noopTelemetry) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

func (noopTelemetry) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer { return io.Discard }
func (noopVertex) Cached() {}
func (noopVertex) Complete(error) {}

type noopMetrics struct{}

func (noopMetrics) ObserveScan(time.Duration, int) {}
func (noopMetrics) SkippedScan() {}
func (noopMetrics) Published(domain.EventKind, int) {}
