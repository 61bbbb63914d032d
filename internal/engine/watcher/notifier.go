package watcher

import (
	"go.trai.ch/dirpoll/internal/core/domain"
	"go.trai.ch/zerr"
)

// notify is the consumer side of a run. It returns once the poller has closed
// the queue and every queued message has been delivered.
func (w *Watcher) notify(r *run) {
	for m := range r.queue.drain() {
		w.deliver(r.handlers, m)
	}
}

func (w *Watcher) deliver(h handlers, m message) {
	switch m.kind {
	case domain.EventCreated:
		for _, fn := range h.created {
			w.invoke(m.kind, func() { fn(m.files) })
		}
	case domain.EventChanged:
		for _, fn := range h.changed {
			w.invoke(m.kind, func() { fn(m.files) })
		}
	case domain.EventDeleted:
		for _, fn := range h.deleted {
			w.invoke(m.kind, func() { fn(m.files) })
		}
	case domain.EventRenamed:
		for _, fn := range h.renamed {
			w.invoke(m.kind, func() { fn(m.renames) })
		}
	case domain.EventError:
		w.logger.Error(m.err)
		for _, fn := range h.errored {
			w.invoke(m.kind, func() { fn(m.err) })
		}
	}
}

// invoke runs one subscriber. A panic is logged and does not stop delivery.
func (w *Watcher) invoke(kind domain.EventKind, call func()) {
	defer zerr.Defer(func(err error) {
		err = zerr.With(zerr.Wrap(domain.ErrHandlerPanicked, err.Error()), "event", kind.String())
		w.logger.Error(err)
	})
	call()
}
