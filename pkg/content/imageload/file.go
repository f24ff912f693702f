package imageload

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/masonry/pkg/content"
	"github.com/matzehuels/masonry/pkg/errors"
)

// FileLoader reads image sizes from the local filesystem. Relative paths are
// resolved against Root.
type FileLoader struct {
	Root string
}

// NewFileLoader creates a loader rooted at dir.
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{Root: dir}
}

// Load implements content.ImageLoader.
func (l *FileLoader) Load(ctx context.Context, src string) (content.Image, error) {
	if err := ctx.Err(); err != nil {
		return content.Image{}, err
	}
	path := l.resolve(src)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return content.Image{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", src)
		}
		return content.Image{}, errors.Wrap(errors.ErrCodeImageLoad, err, "open %s", src)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return content.Image{}, errors.Wrap(errors.ErrCodeImageLoad, err, "decode %s", src)
	}
	return content.Image{Src: src, Width: cfg.Width, Height: cfg.Height}, nil
}

func (l *FileLoader) resolve(src string) string {
	path := filepath.FromSlash(strings.TrimPrefix(src, "file://"))
	if filepath.IsAbs(path) || l.Root == "" {
		return path
	}
	return filepath.Join(l.Root, path)
}

var _ content.ImageLoader = (*FileLoader)(nil)
