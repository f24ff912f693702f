package content

import "github.com/matzehuels/masonry/pkg/surface"

// Descriptor is one caller-supplied content record. The loader reads it but
// never modifies it.
type Descriptor struct {
	Src    string         `toml:"src" json:"src,omitempty"`
	Alt    string         `toml:"alt" json:"alt,omitempty"`
	Fields map[string]any `toml:"fields" json:"fields,omitempty"`
}

// Field returns a string-valued field, or "" when absent.
func (d Descriptor) Field(name string) string {
	if v, ok := d.Fields[name].(string); ok {
		return v
	}
	return ""
}

// RenderFunc produces the auxiliary markup shown beneath an item's image.
type RenderFunc func(d Descriptor) string

// ClickFunc is called with the original descriptor when an item is clicked.
type ClickFunc func(d Descriptor, ev surface.Event)
