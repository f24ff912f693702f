package layout

import (
	"slices"
	"testing"
)

func TestHeightsShortest(t *testing.T) {
	tests := []struct {
		name    string
		grow    [][2]float64 // column, height
		wantCol int
		wantH   float64
	}{
		{"fresh", nil, 0, 0},
		{"first filled", [][2]float64{{0, 10}}, 1, 0},
		{"equal minima", [][2]float64{{0, 10}, {1, 5}, {2, 5}}, 1, 5},
		{"last shortest", [][2]float64{{0, 10}, {1, 10}, {2, 3}}, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHeights(3)
			for _, g := range tt.grow {
				h.Grow(int(g[0]), g[1], 0)
			}
			col, got := h.Shortest()
			if col != tt.wantCol || got != tt.wantH {
				t.Errorf("Shortest() = (%d, %v), want (%d, %v)", col, got, tt.wantCol, tt.wantH)
			}
		})
	}
}

func TestHeightsResetAndSnapshot(t *testing.T) {
	h := NewHeights(2)
	h.Grow(0, 12.4, 10)
	h.Grow(1, 7, 0)

	snap := h.Snapshot()
	if !slices.Equal(snap, []float64{22, 7}) {
		t.Errorf("Snapshot() = %v, want [22 7]", snap)
	}
	if h.Max() != 22 || h.At(1) != 7 {
		t.Errorf("Max() = %v, At(1) = %v", h.Max(), h.At(1))
	}

	snap[0] = 999
	if h.At(0) != 22 {
		t.Error("Snapshot should return a copy")
	}

	h.Reset()
	if h.Max() != 0 || h.Len() != 2 {
		t.Errorf("after Reset: Max() = %v, Len() = %d", h.Max(), h.Len())
	}
}
