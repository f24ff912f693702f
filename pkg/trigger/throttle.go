package trigger

import (
	"sync"
	"time"
)

// Throttler runs fn at most once per interval. The first trigger after a
// quiet period runs immediately; triggers inside the window collapse into a
// single trailing call at the end of it.
type Throttler struct {
	interval time.Duration
	fn       func()

	mu      sync.Mutex
	last    time.Time
	timer   *time.Timer
	stopped bool
}

// NewThrottler creates a leading and trailing edge throttler.
func NewThrottler(interval time.Duration, fn func()) *Throttler {
	return &Throttler{interval: interval, fn: fn}
}

// Trigger requests a call.
func (t *Throttler) Trigger() {
	t.mu.Lock()
	if t.stopped || t.timer != nil {
		t.mu.Unlock()
		return
	}
	since := time.Since(t.last)
	if since >= t.interval {
		t.last = time.Now()
		t.mu.Unlock()
		t.fn()
		return
	}
	t.timer = time.AfterFunc(t.interval-since, t.trailing)
	t.mu.Unlock()
}

func (t *Throttler) trailing() {
	t.mu.Lock()
	t.timer = nil
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.last = time.Now()
	t.mu.Unlock()
	t.fn()
}

// Stop cancels a pending trailing call. Later triggers are ignored.
func (t *Throttler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
