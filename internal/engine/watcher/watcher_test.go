package watcher_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dirpoll/internal/adapters/fs"
	"go.trai.ch/dirpoll/internal/core/domain"
	"go.trai.ch/dirpoll/internal/core/ports"
	"go.trai.ch/dirpoll/internal/core/ports/mocks"
	"go.trai.ch/dirpoll/internal/engine/watcher"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const interval = 100 * time.Millisecond

// memScanner serves snapshots from memory. Every call to set bumps the root
// modification time, as adding or removing an entry would on disk.
type memScanner struct {
	mu      sync.Mutex
	snap    domain.Snapshot
	version int64
	rootErr error
	scans   int
}

func newMemScanner(files ...domain.File) *memScanner {
	s := &memScanner{}
	s.set(files...)
	return s
}

func (s *memScanner) set(files ...domain.File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := domain.NewSnapshot()
	for _, f := range files {
		snap.Add(f)
	}
	s.version++
	snap.RootModified = time.Unix(s.version, 0)
	s.snap = snap
}

func (s *memScanner) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rootErr = err
}

func (s *memScanner) scanCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scans
}

func (s *memScanner) StatRoot(root string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rootErr != nil {
		return time.Time{}, zerr.With(zerr.Wrap(domain.ErrNotADirectory, s.rootErr.Error()), "root", root)
	}
	return s.snap.RootModified, nil
}

func (s *memScanner) Scan(ctx context.Context, root string, _ domain.ScanOptions) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans++
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	if s.rootErr != nil {
		return domain.Snapshot{}, zerr.With(zerr.Wrap(domain.ErrRootUnreadable, s.rootErr.Error()), "root", root)
	}
	return s.snap.Clone(), nil
}

// recorder collects deliveries in the order they arrive.
type recorder struct {
	mu     sync.Mutex
	events []string
	files  map[domain.EventKind][][]string
	pairs  [][]domain.RenamedPair
	errs   []error
}

func newRecorder() *recorder {
	return &recorder{files: map[domain.EventKind][][]string{}}
}

func (r *recorder) subscribe(w *watcher.Watcher) {
	fileHandler := func(kind domain.EventKind) watcher.FileHandler {
		return func(b domain.FileBatch) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, kind.String())
			r.files[kind] = append(r.files[kind], b.Paths())
		}
	}
	w.OnCreated(fileHandler(domain.EventCreated))
	w.OnChanged(fileHandler(domain.EventChanged))
	w.OnDeleted(fileHandler(domain.EventDeleted))
	w.OnRenamed(func(b domain.RenameBatch) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, domain.EventRenamed.String())
		r.pairs = append(r.pairs, b.Pairs())
	})
	w.OnError(func(err error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, domain.EventError.String())
		r.errs = append(r.errs, err)
	})
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func f(path string, modified int64) domain.File {
	return domain.File{Path: path, Modified: time.Unix(modified, 0)}
}

func config() domain.WatchConfig {
	cfg := domain.DefaultWatchConfig("/w")
	cfg.RefreshRate = interval
	return cfg
}

func TestNew_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	scanner := mocks.NewMockScanner(ctrl)
	notDir := zerr.With(zerr.Wrap(domain.ErrNotADirectory, "missing"), "root", "/missing")
	scanner.EXPECT().StatRoot("/missing").Return(time.Time{}, notDir).Times(1)
	scanner.EXPECT().StatRoot("/w").Return(time.Unix(1, 0), nil).AnyTimes()

	cfg := config()
	cfg.Root = "/missing"
	_, err := watcher.New(cfg, scanner)
	require.ErrorIs(t, err, domain.ErrNotADirectory)

	cfg = config()
	cfg.Filter = "*.txt;bad"
	_, err = watcher.New(cfg, scanner)
	require.ErrorIs(t, err, domain.ErrBadFilter)

	cfg = config()
	cfg.RefreshRate = 0
	_, err = watcher.New(cfg, scanner)
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestWatcher_Accessors(t *testing.T) {
	scanner := newMemScanner()

	w, err := watcher.New(config(), scanner)
	require.NoError(t, err)
	assert.Equal(t, "/w", w.WatchedDirectory())
	_, ok := w.CurrentFilter()
	assert.False(t, ok)
	assert.Equal(t, interval, w.Config().RefreshRate)

	cfg := config()
	cfg.Filter = "*.txt;*.pdf"
	w, err = watcher.New(cfg, scanner)
	require.NoError(t, err)
	filter, ok := w.CurrentFilter()
	assert.True(t, ok)
	assert.Equal(t, "*.txt;*.pdf", filter)

	cfg.Filter = "*.*"
	w, err = watcher.New(cfg, scanner)
	require.NoError(t, err)
	filter, ok = w.CurrentFilter()
	assert.True(t, ok)
	assert.Equal(t, "*.*", filter)
}

func TestWatcher_StartStopAreIdempotent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		w, err := watcher.New(config(), newMemScanner())
		require.NoError(t, err)

		assert.False(t, w.Stop(), "stop before start")
		assert.True(t, w.Start())
		assert.False(t, w.Start())
		assert.True(t, w.Running())

		assert.True(t, w.Stop())
		assert.False(t, w.Stop())
		assert.False(t, w.Running())
		require.NoError(t, w.Wait())
	})
}

func TestWatcher_DeliversInClassificationOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		scanner := newMemScanner(f("/w/a", 1), f("/w/c", 1), f("/w/old", 5))
		w, err := watcher.New(config(), scanner)
		require.NoError(t, err)

		rec := newRecorder()
		rec.subscribe(w)
		require.True(t, w.Start())
		synctest.Wait()

		scanner.set(f("/w/a", 2), f("/w/b", 3), f("/w/new", 5))
		time.Sleep(interval + interval/2)
		synctest.Wait()

		require.True(t, w.Stop())
		require.NoError(t, w.Wait())

		assert.Equal(t, []string{"created", "changed", "deleted", "renamed"}, rec.snapshot())
		assert.Equal(t, [][]string{{"/w/b"}}, rec.files[domain.EventCreated])
		assert.Equal(t, [][]string{{"/w/a"}}, rec.files[domain.EventChanged])
		assert.Equal(t, [][]string{{"/w/c"}}, rec.files[domain.EventDeleted])
		assert.Equal(t, [][]domain.RenamedPair{{{NewName: "/w/new", OldName: "/w/old"}}}, rec.pairs)
	})
}

func TestWatcher_NoEventsWhenNothingChanges(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		scanner := newMemScanner(f("/w/a", 1))
		cfg := config()
		cfg.Precheck = false
		w, err := watcher.New(cfg, scanner)
		require.NoError(t, err)

		rec := newRecorder()
		rec.subscribe(w)
		require.True(t, w.Start())

		time.Sleep(10 * interval)
		synctest.Wait()

		require.True(t, w.Stop())
		require.NoError(t, w.Wait())
		assert.Empty(t, rec.snapshot())
		assert.GreaterOrEqual(t, scanner.scanCount(), 10)
	})
}

func TestWatcher_PrecheckSkipsUnchangedRoot(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		scanner := newMemScanner(f("/w/a", 1))
		w, err := watcher.New(config(), scanner)
		require.NoError(t, err)
		require.True(t, w.Start())

		time.Sleep(10 * interval)
		synctest.Wait()
		assert.Equal(t, 1, scanner.scanCount(), "only the baseline scan runs")

		scanner.set(f("/w/a", 1), f("/w/b", 1))
		time.Sleep(interval)
		synctest.Wait()
		assert.Equal(t, 2, scanner.scanCount())

		require.True(t, w.Stop())
		require.NoError(t, w.Wait())
	})
}

func TestWatcher_RootFailureEndsRun(t *testing.T) {
	tests := []struct {
		name     string
		precheck bool
		want     error
	}{
		{"precheck", true, domain.ErrNotADirectory},
		{"full scan", false, domain.ErrRootUnreadable},
	}
	for _, tt := range tests {
		precheck := tt.precheck
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				ctrl := gomock.NewController(t)
				log := mocks.NewMockLogger(ctrl)
				log.EXPECT().Error(gomock.Any()).Times(1)

				scanner := newMemScanner(f("/w/a", 1))
				cfg := config()
				cfg.Precheck = precheck
				w, err := watcher.New(cfg, scanner, watcher.WithLogger(log))
				require.NoError(t, err)

				rec := newRecorder()
				rec.subscribe(w)
				require.True(t, w.Start())
				synctest.Wait()

				scanner.fail(errors.New("no such file or directory"))
				time.Sleep(3 * interval)
				synctest.Wait()

				assert.False(t, w.Running())
				assert.False(t, w.Stop())
				err = w.Wait()
				require.ErrorIs(t, err, tt.want)

				assert.Equal(t, []string{"error"}, rec.snapshot())
				require.Len(t, rec.errs, 1)
				assert.ErrorIs(t, rec.errs[0], tt.want)
			})
		})
	}
}

func TestWatcher_HandlerPanicDoesNotStopDelivery(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		log := mocks.NewMockLogger(ctrl)
		log.EXPECT().Error(gomock.Cond(func(err error) bool {
			return errors.Is(err, domain.ErrHandlerPanicked)
		})).Times(2)

		scanner := newMemScanner()
		w, err := watcher.New(config(), scanner, watcher.WithLogger(log))
		require.NoError(t, err)

		var mu sync.Mutex
		var delivered [][]string
		w.OnCreated(func(domain.FileBatch) { panic("boom") })
		w.OnCreated(func(b domain.FileBatch) {
			mu.Lock()
			defer mu.Unlock()
			delivered = append(delivered, b.Paths())
		})

		require.True(t, w.Start())
		synctest.Wait()

		scanner.set(f("/w/a", 1))
		time.Sleep(interval + interval/2)
		scanner.set(f("/w/a", 1), f("/w/b", 2))
		time.Sleep(interval)
		synctest.Wait()

		require.True(t, w.Stop())
		require.NoError(t, w.Wait())

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, [][]string{{"/w/a"}, {"/w/b"}}, delivered)
	})
}

func TestWatcher_StopDeliversQueuedMessages(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		scanner := newMemScanner()
		w, err := watcher.New(config(), scanner)
		require.NoError(t, err)

		release := make(chan struct{})
		var once sync.Once
		var mu sync.Mutex
		var delivered []string
		w.OnCreated(func(b domain.FileBatch) {
			once.Do(func() { <-release })
			mu.Lock()
			defer mu.Unlock()
			delivered = append(delivered, b.Paths()...)
		})

		require.True(t, w.Start())
		synctest.Wait()

		scanner.set(f("/w/a", 1))
		time.Sleep(interval + interval/2)
		synctest.Wait()

		// The notifier is blocked; the poller keeps publishing.
		scanner.set(f("/w/a", 1), f("/w/b", 2))
		time.Sleep(interval)
		synctest.Wait()
		assert.GreaterOrEqual(t, scanner.scanCount(), 3)

		require.True(t, w.Stop())
		close(release)
		require.NoError(t, w.Wait())

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"/w/a", "/w/b"}, delivered)
	})
}

func TestWatcher_RestartCapturesNewSubscribers(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		scanner := newMemScanner()
		w, err := watcher.New(config(), scanner)
		require.NoError(t, err)

		first := newRecorder()
		first.subscribe(w)
		require.True(t, w.Start())
		synctest.Wait()

		late := newRecorder()
		late.subscribe(w)

		scanner.set(f("/w/a", 1))
		time.Sleep(interval + interval/2)
		synctest.Wait()
		assert.Equal(t, []string{"created"}, first.snapshot())
		assert.Empty(t, late.snapshot(), "subscribers are captured at start")

		require.True(t, w.Stop())
		require.NoError(t, w.Wait())

		require.True(t, w.Start())
		synctest.Wait()
		scanner.set(f("/w/a", 1), f("/w/b", 1))
		time.Sleep(interval + interval/2)
		synctest.Wait()

		require.True(t, w.Stop())
		require.NoError(t, w.Wait())
		assert.Equal(t, []string{"created", "created"}, first.snapshot())
		assert.Equal(t, []string{"created"}, late.snapshot())
	})
}

func TestWatcher_ReportsMetricsAndTelemetry(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		metrics := mocks.NewMockMetrics(ctrl)
		telemetry := mocks.NewMockTelemetry(ctrl)
		vertex := mocks.NewMockVertex(ctrl)

		metrics.EXPECT().ObserveScan(gomock.Any(), gomock.Any()).AnyTimes()
		metrics.EXPECT().SkippedScan().AnyTimes()
		metrics.EXPECT().Published(domain.EventCreated, 2).Times(1)

		telemetry.EXPECT().Record(gomock.Any(), "poll /w").
			DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
				return ctx, vertex
			}).AnyTimes()
		vertex.EXPECT().Stdout().Return(io.Discard).AnyTimes()
		vertex.EXPECT().Cached().AnyTimes()
		vertex.EXPECT().Complete(nil).AnyTimes()

		scanner := newMemScanner()
		w, err := watcher.New(config(), scanner, watcher.WithMetrics(metrics), watcher.WithTelemetry(telemetry))
		require.NoError(t, err)
		require.True(t, w.Start())
		synctest.Wait()

		scanner.set(f("/w/a", 1), f("/w/b", 2))
		time.Sleep(interval + interval/2)
		synctest.Wait()

		require.True(t, w.Stop())
		require.NoError(t, w.Wait())
	})
}

func TestWatcher_EndToEndRename(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		root := t.TempDir()
		oldPath := filepath.Join(root, "a.txt")
		newPath := filepath.Join(root, "b.txt")
		require.NoError(t, os.WriteFile(oldPath, []byte("a"), 0o600)) //nolint:gosec // Test file permissions
		stamp := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
		require.NoError(t, os.Chtimes(oldPath, stamp, stamp))

		cfg := domain.DefaultWatchConfig(root)
		cfg.RefreshRate = interval
		cfg.Filter = "*.txt"
		cfg.Precheck = false

		w, err := watcher.New(cfg, fs.NewScanner(fs.NewWalker(nil)))
		require.NoError(t, err)

		rec := newRecorder()
		rec.subscribe(w)
		require.True(t, w.Start())
		synctest.Wait()

		require.NoError(t, os.Rename(oldPath, newPath))
		time.Sleep(2*interval + interval/2)
		synctest.Wait()

		require.True(t, w.Stop())
		require.NoError(t, w.Wait())

		assert.Equal(t, []string{"renamed"}, rec.snapshot())
		assert.Equal(t, [][]domain.RenamedPair{{{NewName: newPath, OldName: oldPath}}}, rec.pairs)
	})
}
