package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/masonry/pkg/animation"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/surface"
)

// Defaults for a settings file.
const (
	DefaultColumns  = 3
	DefaultGap      = 10
	DefaultWidth    = 960
	DefaultViewport = 720
)

// File is the on-disk settings document.
type File struct {
	Columns      int                `toml:"columns"`
	GapX         float64            `toml:"gap_x"`
	GapY         float64            `toml:"gap_y"`
	Width        float64            `toml:"width"`    // surface width
	Viewport     float64            `toml:"viewport"` // visible surface height
	ItemWidth    float64            `toml:"item_width"`
	Threshold    float64            `toml:"threshold"`
	Responsive   bool               `toml:"responsive"`
	DefaultImage string             `toml:"default_image"`
	Animation    Animation          `toml:"animation"`
	Classes      surface.Classes    `toml:"classes"`
	Timing       Timing             `toml:"timing"`
	Cache        Cache              `toml:"cache"`
	Images       map[string]ImgSize `toml:"images"`
}

// Animation is the entrance animation section. Duration is a Go duration
// string such as "300ms".
type Animation struct {
	Name     string   `toml:"name"`
	Duration Duration `toml:"duration"`
}

// Timing holds the event coalescing intervals.
type Timing struct {
	ScrollDebounce Duration `toml:"scroll_debounce"`
	ResizeThrottle Duration `toml:"resize_throttle"`
	ImageTimeout   Duration `toml:"image_timeout"`
}

// Cache selects the image-size cache backend.
type Cache struct {
	Backend string   `toml:"backend"` // "file" (default), "redis" or "none"
	Dir     string   `toml:"dir"`
	Redis   string   `toml:"redis"` // redis address
	TTL     Duration `toml:"ttl"`
}

// ImgSize pins the intrinsic size of an image source so it is not fetched.
type ImgSize struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Duration decodes TOML strings like "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the settings used when no file is given.
func Defaults() *File {
	return &File{
		Columns:   DefaultColumns,
		GapX:      DefaultGap,
		GapY:      DefaultGap,
		Width:     DefaultWidth,
		Viewport:  DefaultViewport,
		Threshold: masonry.DefaultThreshold,
		Animation: Animation{Name: animation.None},
		Cache:     Cache{Backend: "file"},
	}
}

// Load reads a settings file over [Defaults]. Keys missing from the file
// keep their default values; unknown keys are an error.
func Load(path string) (*File, error) {
	f := Defaults()
	md, err := toml.DecodeFile(path, f)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Validate checks the values a Waterfall would reject, so that a bad file
// fails before any surface is created.
func (f *File) Validate() error {
	if err := errors.ValidateColumns(f.Columns); err != nil {
		return err
	}
	if err := errors.ValidateGaps(f.GapX, f.GapY); err != nil {
		return err
	}
	if err := errors.ValidateThreshold(f.Threshold); err != nil {
		return err
	}
	if !errors.NonNegative(f.Width) || f.Width == 0 || !errors.NonNegative(f.Viewport) || f.Viewport == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "width and viewport must be positive")
	}
	if !errors.NonNegative(f.ItemWidth) {
		return errors.New(errors.ErrCodeInvalidConfig, "item width must be non-negative, got %v", f.ItemWidth)
	}
	if _, ok := animation.Lookup(f.Animation.Name); !ok {
		return errors.New(errors.ErrCodeInvalidAnimation, "unknown animation %q (want one of %v)", f.Animation.Name, animation.Names())
	}
	switch f.Cache.Backend {
	case "", "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", f.Cache.Backend)
	}
	return nil
}

// Apply copies the layout settings into cfg. Callbacks, collaborators and
// the container are left alone.
func (f *File) Apply(cfg *masonry.Config) {
	cfg.Columns = f.Columns
	cfg.GapX = f.GapX
	cfg.GapY = f.GapY
	cfg.ItemWidth = f.ItemWidth
	cfg.Threshold = f.Threshold
	cfg.Responsive = f.Responsive
	cfg.DefaultImage = f.DefaultImage
	cfg.Animation = animation.Entrance{Name: f.Animation.Name, Duration: f.Animation.Duration.Duration}
	cfg.Classes = f.Classes
	cfg.ScrollDebounce = f.Timing.ScrollDebounce.Duration
	cfg.ResizeThrottle = f.Timing.ResizeThrottle.Duration
}
