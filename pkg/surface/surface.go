// Package surface defines the rendering adapter the waterfall draws on.
//
// A [Surface] owns the visual elements, knows its own width and scroll
// position, measures mounted elements and reports scroll and resize events.
// The layout core never constructs markup or styles itself; it hands
// [Element] values to the surface and tells it where they go.
//
// [Canvas] is an in-memory implementation used by the CLI, the HTTP server,
// the terminal preview and tests.
package surface

import (
	"sync"
	"time"

	"github.com/matzehuels/masonry/pkg/animation"
	"github.com/matzehuels/masonry/pkg/layout"
)

// Surface is the rendering adapter.
type Surface interface {
	// Width returns the current content width.
	Width() float64

	// Scroll returns the current scroll metrics.
	Scroll() Metrics

	// SetExtent sets the total height of the content along the growth axis.
	SetExtent(h float64)

	// Mount attaches an element. Mounting happens before measurement because
	// heights are only known once an element is part of the surface.
	Mount(el *Element)

	// Measure returns the content height of a mounted element laid out at the
	// given width.
	Measure(el *Element, width float64) float64

	// Place moves a mounted element to pos.
	Place(el *Element, pos layout.Position)

	// Animate starts an entrance transition on a placed element.
	Animate(el *Element, t Transition)

	// OnScroll and OnResize install event callbacks. Release the returned
	// listener to remove them.
	OnScroll(fn func()) Listener
	OnResize(fn func()) Listener
}

// Metrics describes the scrollable area.
type Metrics struct {
	Top      float64 // scroll offset of the viewport
	Viewport float64 // visible height
	Height   float64 // total scrollable height
}

// Remaining returns the distance from the bottom of the viewport to the
// bottom of the scrollable area.
func (m Metrics) Remaining() float64 {
	return m.Height - (m.Top + m.Viewport)
}

// Listener is an installed event callback.
type Listener interface {
	Release()
}

// ListenerFunc adapts a function to [Listener]. Release is idempotent.
type ListenerFunc struct {
	once sync.Once
	fn   func()
}

// NewListener wraps fn so it runs at most once.
func NewListener(fn func()) *ListenerFunc {
	return &ListenerFunc{fn: fn}
}

// Release runs the wrapped function the first time it is called.
func (l *ListenerFunc) Release() {
	l.once.Do(l.fn)
}

// Event is a user interaction delivered to click handlers.
type Event struct {
	Type   string  `json:"type"`
	Target string  `json:"target"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Classes are opaque style hooks attached to elements.
type Classes struct {
	Container string `toml:"container" json:"container,omitempty"`
	Item      string `toml:"item" json:"item,omitempty"`
	Image     string `toml:"image" json:"image,omitempty"`
	Aux       string `toml:"aux" json:"aux,omitempty"`
}

// Element is the visual representation of one content item.
// It is built once by the content loader and not modified afterwards;
// position and transition state live in the surface.
type Element struct {
	ID string

	// Primary image. Broken is set when neither the source nor the fallback
	// could be loaded; Src then still holds the original reference.
	Src           string
	Alt           string
	Broken        bool
	Fallback      bool
	NaturalWidth  int
	NaturalHeight int

	// Markup is the auxiliary block rendered beneath the image.
	Markup string

	Classes Classes
	OnClick func(Event)
}

// HasImage reports whether the element shows a loaded image.
func (e *Element) HasImage() bool {
	return e.Src != "" && !e.Broken && e.NaturalWidth > 0
}

// Transition describes an entrance animation.
type Transition struct {
	Name     string
	From, To animation.State
	Duration time.Duration
}
