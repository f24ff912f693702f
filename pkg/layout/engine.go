package layout

import (
	"context"
	"time"

	"github.com/matzehuels/masonry/pkg/observability"
)

// Engine assigns items to columns. It is not safe for concurrent use; run
// every pass through a [Queue].
type Engine struct {
	width   float64
	gapX    float64
	gapY    float64
	heights *Heights
}

// Option configures an Engine.
type Option func(*Engine)

// WithGaps sets the horizontal and vertical gaps between items.
func WithGaps(x, y float64) Option {
	return func(e *Engine) {
		e.gapX = x
		e.gapY = y
	}
}

// NewEngine creates an engine for the given column count and item width.
func NewEngine(columns int, width float64, opts ...Option) *Engine {
	e := &Engine{
		width:   width,
		heights: NewHeights(columns),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DeriveWidth returns the item width used when none is configured:
// the surface width divided evenly among the columns.
func DeriveWidth(surfaceWidth float64, columns int) float64 {
	if columns < 1 {
		return surfaceWidth
	}
	return surfaceWidth / float64(columns)
}

// Columns returns the column count.
func (e *Engine) Columns() int { return e.heights.Len() }

// Width returns the current item width.
func (e *Engine) Width() float64 { return e.width }

// SetWidth changes the item width for subsequent passes.
func (e *Engine) SetWidth(w float64) { e.width = w }

// Heights returns a copy of the column heights.
func (e *Engine) Heights() []float64 { return e.heights.Snapshot() }

// Extent returns the tallest column height.
func (e *Engine) Extent() float64 { return e.heights.Max() }

// Layout places items in order. With reset the column heights are zeroed
// first; otherwise placement continues from the current heights and
// previously placed items are untouched.
func (e *Engine) Layout(ctx context.Context, items []Item, reset bool) Result {
	mode := ModeFor(reset)
	start := time.Now()
	observability.Layout().OnPassStart(ctx, mode.String(), len(items))

	if reset {
		e.heights.Reset()
	}
	for _, it := range items {
		e.place(it)
	}

	extent := e.heights.Max()
	observability.Layout().OnPassComplete(ctx, mode.String(), extent, time.Since(start))

	return Result{
		Mode:    mode,
		Placed:  len(items),
		Extent:  extent,
		Heights: e.heights.Snapshot(),
	}
}

func (e *Engine) place(it Item) {
	h := it.Height()
	col, top := e.heights.Shortest()
	it.Place(Position{
		Column: col,
		Left:   float64(col) * (e.width + e.gapX),
		Top:    top,
		Width:  e.width,
		Height: h,
	})
	e.heights.Grow(col, h, e.gapY)
}
