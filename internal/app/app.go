// Package app implements the application layer for dirpoll.
package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/dirpoll/internal/adapters/linear" //nolint:depguard // Wired in app layer
	"go.trai.ch/dirpoll/internal/core/domain"
	"go.trai.ch/dirpoll/internal/core/ports"
	"go.trai.ch/dirpoll/internal/engine/watcher"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// MetricsExporter is a ports.Metrics that can serve its collectors over HTTP.
type MetricsExporter interface {
	ports.Metrics
	Handler() http.Handler
}

// Options are the command line overrides for a watch or scan.
// Nil pointers leave the value from the watch file or the default in place.
type Options struct {
	ConfigPath  string
	Root        string
	Filter      *string
	Interval    *time.Duration
	Depth       *int
	Notify      *string
	NoPrecheck  bool
	Exclude     []string
	MetricsAddr string
	JSON        bool
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scanner      ports.Scanner
	logger       ports.Logger
	telemetry    ports.Telemetry
	metrics      MetricsExporter
	stdout       io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	scanner ports.Scanner,
	logger ports.Logger,
	telemetry ports.Telemetry,
	metrics MetricsExporter,
) *App {
	return &App{
		configLoader: loader,
		scanner:      scanner,
		logger:       logger,
		telemetry:    telemetry,
		metrics:      metrics,
		stdout:       os.Stdout,
	}
}

// WithOutput sets the writer events and listings are printed to.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// ResolveConfig merges the watch file, if any, with the command line overrides.
func (a *App) ResolveConfig(opts Options) (domain.WatchConfig, error) {
	var cfg domain.WatchConfig
	if opts.ConfigPath != "" {
		loaded, err := a.configLoader.Load(opts.ConfigPath)
		if err != nil {
			return domain.WatchConfig{}, zerr.Wrap(err, "failed to load watch file")
		}
		cfg = loaded
		if opts.Root != "" {
			cfg.Root = opts.Root
		}
	} else {
		root := opts.Root
		if root == "" {
			root = "."
		}
		cfg = domain.DefaultWatchConfig(root)
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return domain.WatchConfig{}, zerr.With(zerr.Wrap(domain.ErrNotADirectory, err.Error()), "root", cfg.Root)
	}
	cfg.Root = root

	if opts.Filter != nil {
		cfg.Filter = *opts.Filter
	}
	if opts.Interval != nil {
		cfg.RefreshRate = *opts.Interval
	}
	if opts.Depth != nil {
		cfg.MaxDepth = *opts.Depth
	}
	if opts.Notify != nil {
		notify, err := domain.ParseNotifyFilter(*opts.Notify)
		if err != nil {
			return domain.WatchConfig{}, err
		}
		cfg.NotifyFilters = notify
	}
	if opts.NoPrecheck {
		cfg.Precheck = false
	}
	cfg.Exclude = append(cfg.Exclude, opts.Exclude...)

	return cfg, nil
}

// Watch polls the configured root and prints every change until ctx is
// cancelled or the root becomes unreadable.
func (a *App) Watch(ctx context.Context, opts Options) error {
	a.setJSON(opts.JSON)
	defer func() { _ = a.telemetry.Close() }()

	cfg, err := a.ResolveConfig(opts)
	if err != nil {
		return err
	}

	w, err := watcher.New(cfg, a.scanner,
		watcher.WithLogger(a.logger),
		watcher.WithTelemetry(a.telemetry),
		watcher.WithMetrics(a.metrics),
	)
	if err != nil {
		return zerr.Wrap(err, "failed to create watcher")
	}

	renderer := linear.NewRenderer(a.stdout, cfg.Root)
	renderer.SetJSON(opts.JSON)
	w.OnCreated(renderer.Created)
	w.OnChanged(renderer.Changed)
	w.OnDeleted(renderer.Deleted)
	w.OnRenamed(renderer.Renamed)
	if opts.JSON {
		// Text mode leaves failures to the logger.
		w.OnError(renderer.Error)
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.MetricsAddr != "" {
		a.serveMetrics(gctx, g, opts.MetricsAddr)
	}

	a.logger.Info(describe(w))
	w.Start()

	g.Go(func() error {
		done := make(chan error, 1)
		go func() { done <- reported(w.Wait()) }()

		select {
		case <-gctx.Done():
			w.Stop()
			return <-done
		case err := <-done:
			return err
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// reportedError marks a failure the watcher already handed to the logger.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// Reported reports whether err was already logged while the watcher ran.
func Reported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// Scan prints a one-shot listing of the files a watcher would track.
func (a *App) Scan(ctx context.Context, opts Options) error {
	a.setJSON(opts.JSON)

	cfg, err := a.ResolveConfig(opts)
	if err != nil {
		return err
	}
	scanOpts, err := cfg.ScanOptions()
	if err != nil {
		return err
	}
	if _, err := a.scanner.StatRoot(cfg.Root); err != nil {
		return err
	}

	start := time.Now()
	snap, err := a.scanner.Scan(ctx, cfg.Root, scanOpts)
	if err != nil {
		return zerr.Wrap(err, "scan failed")
	}
	a.metrics.ObserveScan(time.Since(start), snap.Len())

	renderer := linear.NewRenderer(a.stdout, cfg.Root)
	renderer.SetJSON(opts.JSON)
	renderer.Listing(snap)
	return nil
}

func (a *App) serveMetrics(ctx context.Context, g *errgroup.Group, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return zerr.With(zerr.Wrap(err, "metrics server failed"), "addr", addr)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	a.logger.Info("serving metrics on " + addr + "/metrics")
}

func (a *App) setJSON(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

func describe(w *watcher.Watcher) string {
	msg := "watching " + w.WatchedDirectory()
	if filter, ok := w.CurrentFilter(); ok {
		msg += " for " + filter
	}
	return msg + " every " + w.Config().RefreshRate.String()
}
