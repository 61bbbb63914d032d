package watcher

import (
	"iter"
	"sync"

	"go.trai.ch/dirpoll/internal/core/domain"
	"go.trai.ch/zerr"
)

// message is one unit of work handed from the poller to the notifier.
type message struct {
	kind    domain.EventKind
	files   domain.FileBatch
	renames domain.RenameBatch
	err     error
}

// queue is an unbounded FIFO with a single producer and a single consumer.
// The producer never blocks; closing lets the consumer drain what is left.
type queue struct {
	mu     sync.Mutex
	items  []message
	closed bool
	wake   chan struct{}
}

func newQueue() *queue {
	return &queue{wake: make(chan struct{}, 1)}
}

func (q *queue) push(m message) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return zerr.With(zerr.Wrap(domain.ErrQueueClosed, "publish rejected"), "kind", m.kind.String())
	}
	q.items = append(q.items, m)
	q.mu.Unlock()
	q.signal()
	return nil
}

func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

func (q *queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// next blocks until a message is available. It returns false once the queue
// is closed and empty.
func (q *queue) next() (message, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			m := q.items[0]
			q.items[0] = message{}
			q.items = q.items[1:]
			q.mu.Unlock()
			return m, true
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return message{}, false
		}
		<-q.wake
	}
}

// drain yields messages in publish order until the queue is closed and empty.
func (q *queue) drain() iter.Seq[message] {
	return func(yield func(message) bool) {
		for {
			m, ok := q.next()
			if !ok || !yield(m) {
				return
			}
		}
	}
}
