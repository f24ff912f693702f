package content

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/surface"
)

// ImageLoader resolves an image source to its decoded size.
type ImageLoader interface {
	Load(ctx context.Context, src string) (Image, error)
}

// ImageLoaderFunc adapts a function to [ImageLoader].
type ImageLoaderFunc func(ctx context.Context, src string) (Image, error)

// Load calls f.
func (f ImageLoaderFunc) Load(ctx context.Context, src string) (Image, error) { return f(ctx, src) }

// Loader builds items from descriptors.
type Loader struct {
	Images       ImageLoader
	Render       RenderFunc
	OnClick      ClickFunc
	DefaultImage string
	Classes      surface.Classes

	// Concurrency caps simultaneous image loads; zero means one task per
	// descriptor.
	Concurrency int

	Logger *log.Logger
}

// CreateContent builds one item per descriptor and waits until every image
// load has settled. The result has the same length and order as descs.
func (l *Loader) CreateContent(ctx context.Context, descs []Descriptor) []*Item {
	hooks := observability.Loader()
	start := time.Now()
	hooks.OnBatchStart(ctx, len(descs))

	items := make([]*Item, len(descs))
	var failures atomic.Int32

	var g errgroup.Group
	if l.Concurrency > 0 {
		g.SetLimit(l.Concurrency)
	}
	for i, d := range descs {
		g.Go(func() error {
			it := l.build(ctx, d)
			if it.LoadErr != nil {
				failures.Add(1)
			}
			items[i] = it
			return nil
		})
	}
	_ = g.Wait()

	hooks.OnBatchComplete(ctx, len(descs), int(failures.Load()), time.Since(start))
	return items
}

func (l *Loader) build(ctx context.Context, d Descriptor) *Item {
	id := uuid.NewString()
	it := &Item{ID: id, Descriptor: d}
	el := &surface.Element{
		ID:      id,
		Src:     d.Src,
		Alt:     d.Alt,
		Classes: l.Classes,
	}
	if l.Render != nil {
		el.Markup = l.Render(d)
	}
	if l.OnClick != nil {
		onClick := l.OnClick
		el.OnClick = func(ev surface.Event) { onClick(d, ev) }
	}
	it.Element = el

	if d.Src == "" {
		return it
	}

	img, err := l.load(ctx, d.Src)
	if err == nil {
		l.show(it, img, false)
		return it
	}
	it.LoadErr = err
	observability.Loader().OnImageError(ctx, d.Src, false, err)

	if l.DefaultImage == "" {
		l.logger().Warn("image load failed", "src", d.Src, "err", err)
		el.Broken = true
		return it
	}

	img, ferr := l.load(ctx, l.DefaultImage)
	if ferr != nil {
		observability.Loader().OnImageError(ctx, l.DefaultImage, true, ferr)
		l.logger().Warn("image and fallback failed", "src", d.Src, "fallback", l.DefaultImage, "err", ferr)
		el.Broken = true
		return it
	}
	l.logger().Debug("image load failed, using fallback", "src", d.Src, "err", err)
	l.show(it, img, true)
	return it
}

func (l *Loader) show(it *Item, img Image, fallback bool) {
	it.Image = img
	it.Fallback = fallback
	it.Element.Src = img.Src
	it.Element.Fallback = fallback
	it.Element.NaturalWidth = img.Width
	it.Element.NaturalHeight = img.Height
}

func (l *Loader) load(ctx context.Context, src string) (Image, error) {
	if l.Images == nil {
		return Image{}, errors.New(errors.ErrCodeImageLoad, "no image loader configured for %s", src)
	}
	if err := errors.ValidateImageSource(src); err != nil {
		return Image{}, err
	}
	img, err := l.Images.Load(ctx, src)
	if err != nil {
		return Image{}, err
	}
	if img.Src == "" {
		img.Src = src
	}
	return img, nil
}

func (l *Loader) logger() *log.Logger {
	if l.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return l.Logger
}
