package layout

import "math"

// Heights is the per-column accumulated height vector.
//
// heights[i] equals the sum of round(itemHeight + gapY) over every item
// assigned to column i since the last Reset.
type Heights struct {
	cols []float64
}

// NewHeights returns a zeroed vector with n columns. n must be positive.
func NewHeights(n int) *Heights {
	return &Heights{cols: make([]float64, n)}
}

// Len returns the column count.
func (h *Heights) Len() int { return len(h.cols) }

// Reset zeroes every column.
func (h *Heights) Reset() {
	clear(h.cols)
}

// Shortest returns the column with the minimum height and that height.
// Ties resolve to the lowest index.
func (h *Heights) Shortest() (int, float64) {
	best := 0
	for i := 1; i < len(h.cols); i++ {
		if h.cols[i] < h.cols[best] {
			best = i
		}
	}
	return best, h.cols[best]
}

// Grow adds an item of the given height plus the vertical gap to column col.
// The sum is rounded as a whole so that gap and height share one rounding.
func (h *Heights) Grow(col int, itemHeight, gapY float64) float64 {
	h.cols[col] += math.Round(itemHeight + gapY)
	return h.cols[col]
}

// Max returns the tallest column height.
func (h *Heights) Max() float64 {
	m := 0.0
	for _, v := range h.cols {
		m = max(m, v)
	}
	return m
}

// At returns the height of column col.
func (h *Heights) At(col int) float64 { return h.cols[col] }

// Snapshot returns a copy of the column heights.
func (h *Heights) Snapshot() []float64 {
	out := make([]float64, len(h.cols))
	copy(out, h.cols)
	return out
}
