package imageload

import (
	"context"
	"strings"

	"github.com/matzehuels/masonry/pkg/content"
	"github.com/matzehuels/masonry/pkg/errors"
)

// Mux sends http(s) sources to HTTP and everything else to File.
type Mux struct {
	HTTP content.ImageLoader
	File content.ImageLoader
}

// NewMux combines an HTTP and a file loader.
func NewMux(http, file content.ImageLoader) *Mux {
	return &Mux{HTTP: http, File: file}
}

// Load implements content.ImageLoader.
func (m *Mux) Load(ctx context.Context, src string) (content.Image, error) {
	next := m.File
	lower := strings.ToLower(src)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		next = m.HTTP
	}
	if next == nil {
		return content.Image{}, errors.New(errors.ErrCodeImageLoad, "no loader for %s", src)
	}
	return next.Load(ctx, src)
}

var _ content.ImageLoader = (*Mux)(nil)
