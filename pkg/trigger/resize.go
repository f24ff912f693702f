package trigger

import (
	"sync"
	"time"

	"github.com/matzehuels/masonry/pkg/surface"
)

// DefaultResizeInterval is the minimum spacing between accepted resizes.
const DefaultResizeInterval = 200 * time.Millisecond

// ResizeConfig configures a Resize coordinator.
type ResizeConfig struct {
	Interval time.Duration // throttle window; DefaultResizeInterval when zero
	OnResize func()        // called for each accepted resize
}

// Resize requests relayout when the surface changes size.
type Resize struct {
	cfg ResizeConfig

	mu       sync.Mutex
	listener surface.Listener
}

// NewResize creates a resize coordinator.
func NewResize(cfg ResizeConfig) *Resize {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultResizeInterval
	}
	return &Resize{cfg: cfg}
}

// Install subscribes to src's resize events. Calling Install again returns
// the existing listener.
func (r *Resize) Install(src surface.Surface) surface.Listener {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener != nil {
		return r.listener
	}

	th := NewThrottler(r.cfg.Interval, r.cfg.OnResize)
	l := src.OnResize(th.Trigger)
	r.listener = surface.NewListener(func() {
		l.Release()
		th.Stop()
	})
	return r.listener
}
