package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// Layout is a serialisable snapshot of a waterfall.
type Layout struct {
	Columns   int       `json:"columns"`
	Width     float64   `json:"width"` // surface width
	ItemWidth float64   `json:"item_width"`
	GapX      float64   `json:"gap_x"`
	GapY      float64   `json:"gap_y"`
	Extent    float64   `json:"extent"`
	Heights   []float64 `json:"heights"`
	Blocks    []Block   `json:"blocks"`
}

// Block is one placed item.
type Block struct {
	ID       string  `json:"id"`
	Src      string  `json:"src,omitempty"`
	Alt      string  `json:"alt,omitempty"`
	Fallback bool    `json:"fallback,omitempty"`
	Broken   bool    `json:"broken,omitempty"`
	Markup   string  `json:"markup,omitempty"`
	Column   int     `json:"column"`
	Left     float64 `json:"left"`
	Top      float64 `json:"top"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// Export snapshots w. Call it after [masonry.Waterfall.Settle] to include
// every scheduled pass.
func Export(w *masonry.Waterfall) Layout {
	cfg := w.Config()
	items := w.Items()
	l := Layout{
		Columns:   cfg.Columns,
		Width:     w.Surface().Width(),
		ItemWidth: w.Width(),
		GapX:      cfg.GapX,
		GapY:      cfg.GapY,
		Extent:    w.Extent(),
		Heights:   w.Heights(),
		Blocks:    make([]Block, len(items)),
	}
	for i, it := range items {
		pos := it.Position()
		el := it.Element
		l.Blocks[i] = Block{
			ID:       it.ID,
			Src:      el.Src,
			Alt:      el.Alt,
			Fallback: el.Fallback,
			Broken:   el.Broken,
			Markup:   el.Markup,
			Column:   pos.Column,
			Left:     pos.Left,
			Top:      pos.Top,
			Width:    pos.Width,
			Height:   pos.Height,
		}
	}
	return l
}

// WriteJSON encodes l as indented JSON.
func WriteJSON(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a layout and checks that every block sits in a column
// the layout has.
func ReadJSON(r io.Reader) (Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	if len(l.Heights) != l.Columns {
		return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout has %d columns but %d heights", l.Columns, len(l.Heights))
	}
	for _, b := range l.Blocks {
		if b.Column < 0 || b.Column >= l.Columns {
			return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "block %s in column %d of %d", b.ID, b.Column, l.Columns)
		}
	}
	return l, nil
}

// WriteLayoutFile writes l to a JSON file at path.
func WriteLayoutFile(l Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(l, f)
}

// ReadLayoutFile reads a layout written by [WriteLayoutFile].
func ReadLayoutFile(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
