package layout

import (
	"context"
	"sync"
)

// DefaultQueueSize is the pass buffer used when NewQueue is given size <= 0.
const DefaultQueueSize = 64

// Queue runs layout passes one at a time in the order they were scheduled.
//
// A pass observes the column heights exactly as the previous pass left them.
// Scheduling is safe from any goroutine; the passes themselves run on the
// queue's own goroutine and must not call Schedule or Flush.
type Queue struct {
	passes chan func()
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewQueue starts a queue with room for size pending passes.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	q := &Queue{
		passes: make(chan func(), size),
		done:   make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for fn := range q.passes {
		fn()
	}
}

// Schedule appends a pass. It blocks while the buffer is full and returns
// false once the queue has been closed.
func (q *Queue) Schedule(fn func()) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	q.passes <- fn
	return true
}

// Flush waits until every pass scheduled before the call has run.
// On a closed queue it waits for the remaining passes to drain.
func (q *Queue) Flush(ctx context.Context) error {
	marker := make(chan struct{})
	wait := q.done
	if q.Schedule(func() { close(marker) }) {
		wait = marker
	}
	select {
	case <-wait:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting passes. Passes already scheduled still run; Done is
// closed after the last one.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.passes)
}

// Done is closed once the queue has been closed and fully drained.
func (q *Queue) Done() <-chan struct{} { return q.done }
