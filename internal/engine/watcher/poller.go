package watcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.trai.ch/dirpoll/internal/core/domain"
	"go.trai.ch/dirpoll/internal/engine/detector"
	"go.trai.ch/zerr"
)

// poll is the producer side of a run. It closes the queue on exit so that the
// notifier drains and terminates.
func (w *Watcher) poll(ctx context.Context, r *run) error {
	defer r.queue.close()

	if r.prev != nil {
		// A previous run may still be delivering; keep runs ordered.
		_ = r.prev.wait()
	}

	det := detector.New(w.cfg.NotifyFilters)
	baseline, err := w.scan(ctx)
	if err != nil {
		return w.abort(ctx, r, err)
	}
	det.Reset(baseline)
	rootModified := baseline.RootModified

	for {
		if ctx.Err() != nil {
			return nil
		}

		if w.cfg.Precheck {
			mtime, err := w.scanner.StatRoot(w.cfg.Root)
			if err != nil {
				return w.abort(ctx, r, zerr.Wrap(err, "watched directory is unreadable"))
			}
			if mtime.Equal(rootModified) {
				w.metrics.SkippedScan()
				if !sleep(ctx, w.cfg.RefreshRate) {
					return nil
				}
				continue
			}
		}

		latest, err := w.cycle(ctx, r, det)
		if err != nil {
			return w.abort(ctx, r, err)
		}
		rootModified = latest.RootModified

		if !sleep(ctx, w.cfg.RefreshRate) {
			return nil
		}
	}
}

// cycle scans once, classifies against the baseline and publishes the result
// in the order created, changed, deleted, renamed.
func (w *Watcher) cycle(ctx context.Context, r *run, det *detector.Detector) (domain.Snapshot, error) {
	ctx, vertex := w.telemetry.Record(ctx, "poll "+w.cfg.Root)

	latest, err := w.scan(ctx)
	if err != nil {
		vertex.Complete(err)
		return domain.Snapshot{}, err
	}

	changes := det.Detect(latest)
	if changes.Empty() {
		vertex.Cached()
		vertex.Complete(nil)
		return latest, nil
	}

	_, _ = fmt.Fprintf(vertex.Stdout(), "created=%d changed=%d deleted=%d renamed=%d\n",
		len(changes.Created), len(changes.Changed), len(changes.Deleted), len(changes.Renamed))

	err = w.publishChanges(r, changes)
	vertex.Complete(err)
	return latest, err
}

func (w *Watcher) publishChanges(r *run, c detector.Changes) error {
	files := []struct {
		kind  domain.EventKind
		files []domain.File
	}{
		{domain.EventCreated, c.Created},
		{domain.EventChanged, c.Changed},
		{domain.EventDeleted, c.Deleted},
	}
	for _, f := range files {
		if len(f.files) == 0 {
			continue
		}
		if err := w.publish(r, message{kind: f.kind, files: domain.NewFileBatch(f.files)}); err != nil {
			return err
		}
	}

	if len(c.Renamed) == 0 {
		return nil
	}
	return w.publish(r, message{kind: domain.EventRenamed, renames: domain.NewRenameBatch(c.Renamed)})
}

func (w *Watcher) publish(r *run, m message) error {
	if err := r.queue.push(m); err != nil {
		return err
	}
	n := m.files.Len()
	if m.kind == domain.EventRenamed {
		n = m.renames.Len()
	}
	w.metrics.Published(m.kind, n)
	return nil
}

func (w *Watcher) scan(ctx context.Context) (domain.Snapshot, error) {
	start := time.Now()
	snap, err := w.scanner.Scan(ctx, w.cfg.Root, w.opts)
	if err != nil {
		return domain.Snapshot{}, err
	}
	w.metrics.ObserveScan(time.Since(start), snap.Len())
	return snap, nil
}

// abort ends the run. A cancelled context is a normal stop; anything else is
// reported to error subscribers once and returned from Wait.
func (w *Watcher) abort(ctx context.Context, r *run, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return nil
	}

	err = zerr.With(err, "root", w.cfg.Root)
	if pushErr := r.queue.push(message{kind: domain.EventError, err: err}); pushErr == nil {
		w.metrics.Published(domain.EventError, 1)
	}
	w.finish(r)
	return err
}

// sleep waits for d or until ctx is done. It reports whether the wait completed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
