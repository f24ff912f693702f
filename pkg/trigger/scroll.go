package trigger

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/event"
	"github.com/matzehuels/masonry/pkg/surface"
)

// DefaultScrollInterval is the quiet period before a scroll is evaluated.
const DefaultScrollInterval = 100 * time.Millisecond

// Guard reports whether a load is in flight.
type Guard interface {
	Active() bool
}

// ScrollConfig configures a Scroll coordinator.
type ScrollConfig struct {
	Threshold float64       // distance from the bottom that counts as reached; >= errors.MinThreshold
	Interval  time.Duration // debounce interval; DefaultScrollInterval when zero
	Guard     Guard         // suppresses notifications while active; may be nil
	Bus       event.Bus     // receives event.ReachedBottom
	Logger    *log.Logger
}

// Scroll publishes reached-bottom notifications.
type Scroll struct {
	cfg ScrollConfig

	mu       sync.Mutex
	listener surface.Listener
}

// NewScroll validates cfg. A threshold below errors.MinThreshold is a
// configuration error and no coordinator is returned.
func NewScroll(cfg ScrollConfig) (*Scroll, error) {
	if err := errors.ValidateThreshold(cfg.Threshold); err != nil {
		return nil, err
	}
	if cfg.Bus == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "scroll coordinator needs an event bus")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultScrollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Scroll{cfg: cfg}, nil
}

// Install subscribes to src's scroll events. Calling Install again returns
// the existing listener.
func (s *Scroll) Install(src surface.Surface) surface.Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener
	}

	d := NewDebouncer(s.cfg.Interval, func() {
		s.Check(context.Background(), src.Scroll())
	})
	l := src.OnScroll(d.Trigger)
	s.listener = surface.NewListener(func() {
		l.Release()
		d.Stop()
	})
	return s.listener
}

// Check evaluates one scroll position and reports whether a reached-bottom
// notification was published. While the guard is active the notification is
// dropped, not deferred.
func (s *Scroll) Check(ctx context.Context, m surface.Metrics) bool {
	remaining := m.Remaining()
	if remaining > s.cfg.Threshold {
		return false
	}
	if s.cfg.Guard != nil && s.cfg.Guard.Active() {
		s.cfg.Logger.Debug("reached bottom while loading, dropped", "remaining", remaining)
		return false
	}
	s.cfg.Logger.Debug("reached bottom", "remaining", remaining, "threshold", s.cfg.Threshold)
	s.cfg.Bus.Publish(ctx, event.Event{Topic: event.ReachedBottom, Data: m})
	return true
}
