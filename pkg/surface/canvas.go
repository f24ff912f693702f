package surface

import (
	"strings"
	"sync"

	"github.com/matzehuels/masonry/pkg/animation"
	"github.com/matzehuels/masonry/pkg/layout"
)

// DefaultLineHeight is the height of one markup line on a Canvas.
const DefaultLineHeight = 20

// Canvas is an in-memory Surface. Scroll and resize callbacks run
// synchronously on the goroutine that calls ScrollTo or Resize.
type Canvas struct {
	mu         sync.Mutex
	width      float64
	viewport   float64
	top        float64
	extent     float64
	lineHeight float64

	nodes []*node
	byID  map[string]*node

	nextListener int
	scrollFns    map[int]func()
	resizeFns    map[int]func()
}

type node struct {
	el         *Element
	pos        layout.Position
	placed     bool
	state      animation.State
	transition string
}

// Node is a snapshot of one mounted element.
type Node struct {
	Element    *Element
	Position   layout.Position
	Placed     bool
	State      animation.State
	Transition string
}

// CanvasOption configures a Canvas.
type CanvasOption func(*Canvas)

// WithLineHeight sets the height of one line of auxiliary markup.
func WithLineHeight(h float64) CanvasOption {
	return func(c *Canvas) { c.lineHeight = h }
}

// NewCanvas creates a canvas with the given content width and viewport height.
func NewCanvas(width, viewport float64, opts ...CanvasOption) *Canvas {
	c := &Canvas{
		width:      width,
		viewport:   viewport,
		lineHeight: DefaultLineHeight,
		byID:       make(map[string]*node),
		scrollFns:  make(map[int]func()),
		resizeFns:  make(map[int]func()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Width implements Surface.
func (c *Canvas) Width() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

// Scroll implements Surface.
func (c *Canvas) Scroll() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics()
}

func (c *Canvas) metrics() Metrics {
	return Metrics{Top: c.top, Viewport: c.viewport, Height: max(c.extent, c.viewport)}
}

// Extent returns the content height last set by SetExtent.
func (c *Canvas) Extent() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.extent
}

// SetExtent implements Surface.
func (c *Canvas) SetExtent(h float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.extent = h
	c.top = min(c.top, max(0, h-c.viewport))
}

// Mount implements Surface. Mounting an element twice is a no-op.
func (c *Canvas) Mount(el *Element) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[el.ID]; ok {
		return
	}
	n := &node{el: el, state: animation.State{Opacity: 1, Transform: "none"}}
	c.nodes = append(c.nodes, n)
	c.byID[el.ID] = n
}

// Measure implements Surface: the image scaled to width plus one line height
// per line of markup.
func (c *Canvas) Measure(el *Element, width float64) float64 {
	c.mu.Lock()
	lh := c.lineHeight
	c.mu.Unlock()

	var h float64
	if el.HasImage() {
		h = float64(el.NaturalHeight) * width / float64(el.NaturalWidth)
	}
	if el.Markup != "" {
		h += float64(strings.Count(el.Markup, "\n")+1) * lh
	}
	return h
}

// Place implements Surface.
func (c *Canvas) Place(el *Element, pos layout.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.byID[el.ID]; ok {
		n.pos = pos
		n.placed = true
	}
}

// Animate implements Surface. The canvas has no clock; the element jumps to
// the end state and remembers which transition ran.
func (c *Canvas) Animate(el *Element, t Transition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.byID[el.ID]; ok {
		n.state = t.To
		n.transition = t.Name
	}
}

// OnScroll implements Surface.
func (c *Canvas) OnScroll(fn func()) Listener {
	return c.listen(c.scrollFns, fn)
}

// OnResize implements Surface.
func (c *Canvas) OnResize(fn func()) Listener {
	return c.listen(c.resizeFns, fn)
}

func (c *Canvas) listen(set map[int]func(), fn func()) Listener {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextListener
	c.nextListener++
	set[id] = fn
	return NewListener(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(set, id)
	})
}

// Listeners returns the number of installed scroll and resize callbacks.
func (c *Canvas) Listeners() (scroll, resize int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.scrollFns), len(c.resizeFns)
}

// ScrollTo moves the viewport to y, clamped to the scrollable range, and
// notifies scroll listeners.
func (c *Canvas) ScrollTo(y float64) {
	c.mu.Lock()
	m := c.metrics()
	c.top = max(0, min(y, m.Height-m.Viewport))
	fns := collect(c.scrollFns)
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// ScrollBy moves the viewport by dy.
func (c *Canvas) ScrollBy(dy float64) {
	c.ScrollTo(c.Scroll().Top + dy)
}

// ScrollToBottom moves the viewport to the end of the content.
func (c *Canvas) ScrollToBottom() {
	m := c.Scroll()
	c.ScrollTo(m.Height - m.Viewport)
}

// Resize changes the width and viewport height and notifies resize listeners.
func (c *Canvas) Resize(width, viewport float64) {
	c.mu.Lock()
	c.width = width
	c.viewport = viewport
	fns := collect(c.resizeFns)
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Click delivers a click to the element with the given id. It reports
// whether the element exists and has a handler.
func (c *Canvas) Click(id string, ev Event) bool {
	c.mu.Lock()
	n, ok := c.byID[id]
	c.mu.Unlock()
	if !ok || n.el.OnClick == nil {
		return false
	}
	if ev.Type == "" {
		ev.Type = "click"
	}
	ev.Target = id
	n.el.OnClick(ev)
	return true
}

// Nodes returns snapshots of all mounted elements in mount order.
func (c *Canvas) Nodes() []Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Node, len(c.nodes))
	for i, n := range c.nodes {
		out[i] = Node{Element: n.el, Position: n.pos, Placed: n.placed, State: n.state, Transition: n.transition}
	}
	return out
}

// Visible returns the placed nodes that intersect the viewport.
func (c *Canvas) Visible() []Node {
	m := c.Scroll()
	var out []Node
	for _, n := range c.Nodes() {
		if n.Placed && n.Position.Bottom() > m.Top && n.Position.Top < m.Top+m.Viewport {
			out = append(out, n)
		}
	}
	return out
}

// Clear unmounts every element.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = nil
	c.byID = make(map[string]*node)
	c.extent = 0
	c.top = 0
}

func collect(set map[int]func()) []func() {
	fns := make([]func(), 0, len(set))
	for _, fn := range set {
		fns = append(fns, fn)
	}
	return fns
}

var _ Surface = (*Canvas)(nil)
