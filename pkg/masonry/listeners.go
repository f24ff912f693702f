package masonry

import (
	"sync"

	"github.com/matzehuels/masonry/pkg/content"
	"github.com/matzehuels/masonry/pkg/event"
	"github.com/matzehuels/masonry/pkg/surface"
)

// listeners is everything a Waterfall has installed. release undoes all of it.
type listeners struct {
	scroll      surface.Listener
	resize      surface.Listener
	reachBottom *event.Subscription
	pagination  *page
}

// page is the pending pagination batch armed by LoadMore.
type page struct {
	descs []content.Descriptor
}

func (l *listeners) release() {
	if l.scroll != nil {
		l.scroll.Release()
	}
	if l.resize != nil {
		l.resize.Release()
	}
	l.reachBottom.Unsubscribe()
	*l = listeners{}
}

// inflight counts running loads.
type inflight struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

func (f *inflight) add() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.n == 0 {
		f.idle = make(chan struct{})
	}
	f.n++
}

func (f *inflight) done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n--
	if f.n == 0 {
		close(f.idle)
	}
}

// wait returns a channel closed once no loads are running.
func (f *inflight) wait() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.n == 0 {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return f.idle
}
