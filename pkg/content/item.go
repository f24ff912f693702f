package content

import (
	"github.com/matzehuels/masonry/pkg/layout"
	"github.com/matzehuels/masonry/pkg/surface"
)

// State tracks an item through its lifecycle.
type State int

const (
	StatePending State = iota // built, not yet placed
	StatePlaced               // positioned by at least one pass
)

func (s State) String() string {
	if s == StatePlaced {
		return "placed"
	}
	return "pending"
}

// Image is a decoded image reference.
type Image struct {
	Src    string `json:"src"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Item is one piece of content and its visual element. Items are created by
// [Loader.CreateContent] and are owned by the waterfall afterwards; the
// layout fields are only touched from layout passes.
type Item struct {
	ID         string
	Descriptor Descriptor
	Element    *surface.Element

	// Image is the image actually shown: the primary source, or the default
	// image when Fallback is set. Zero when nothing could be loaded.
	Image    Image
	LoadErr  error
	Fallback bool

	height float64
	pos    layout.Position
	state  State
}

// Height implements layout.Item.
func (it *Item) Height() float64 { return it.height }

// SetHeight records the measured content height.
func (it *Item) SetHeight(h float64) { it.height = h }

// Place implements layout.Item.
func (it *Item) Place(p layout.Position) {
	it.pos = p
	it.state = StatePlaced
}

// Position returns the last placement.
func (it *Item) Position() layout.Position { return it.pos }

// State returns the lifecycle state.
func (it *Item) State() State { return it.state }

var _ layout.Item = (*Item)(nil)
