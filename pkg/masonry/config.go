package masonry

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/animation"
	"github.com/matzehuels/masonry/pkg/content"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/event"
	"github.com/matzehuels/masonry/pkg/surface"
	"github.com/matzehuels/masonry/pkg/trigger"
)

// Default values applied by SetDefaults.
const (
	DefaultThreshold      = errors.MinThreshold
	DefaultScrollDebounce = trigger.DefaultScrollInterval
	DefaultResizeThrottle = trigger.DefaultResizeInterval
)

// Config configures a Waterfall. Only the serialisable layout options carry
// tags; callbacks and collaborators are set in code.
type Config struct {
	// Container is the surface to draw on. When nil, Selector is resolved
	// through Resolver.
	Container surface.Surface  `toml:"-" json:"-"`
	Selector  string           `toml:"selector" json:"selector,omitempty"`
	Resolver  surface.Resolver `toml:"-" json:"-"`

	Columns    int     `toml:"columns" json:"columns"`
	GapX       float64 `toml:"gap_x" json:"gap_x"`
	GapY       float64 `toml:"gap_y" json:"gap_y"`
	ItemWidth  float64 `toml:"item_width" json:"item_width,omitempty"` // 0 derives surface width / columns
	Responsive bool    `toml:"responsive" json:"responsive"`
	Threshold  float64 `toml:"threshold" json:"threshold"`

	Items []content.Descriptor `toml:"-" json:"items,omitempty"`

	Render        content.RenderFunc `toml:"-" json:"-"`
	OnClick       content.ClickFunc  `toml:"-" json:"-"`
	OnReachBottom func()             `toml:"-" json:"-"`

	Animation    animation.Entrance `toml:"animation" json:"animation"`
	DefaultImage string             `toml:"default_image" json:"default_image,omitempty"`
	Classes      surface.Classes    `toml:"classes" json:"classes"`

	ScrollDebounce time.Duration `toml:"scroll_debounce" json:"scroll_debounce,omitempty"`
	ResizeThrottle time.Duration `toml:"resize_throttle" json:"resize_throttle,omitempty"`
	Concurrency    int           `toml:"concurrency" json:"concurrency,omitempty"`

	// Runtime collaborators
	Images content.ImageLoader `toml:"-" json:"-"` // defaults to HTTP + file loading
	Bus    event.Bus           `toml:"-" json:"-"` // defaults to a private broker
	Logger *log.Logger         `toml:"-" json:"-"`
}

// SetDefaults fills unset optional fields.
func (c *Config) SetDefaults() {
	if c.Threshold == 0 {
		c.Threshold = DefaultThreshold
	}
	if c.ScrollDebounce == 0 {
		c.ScrollDebounce = DefaultScrollDebounce
	}
	if c.ResizeThrottle == 0 {
		c.ResizeThrottle = DefaultResizeThrottle
	}
	if c.Animation.Name == "" {
		c.Animation.Name = animation.None
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options that do not depend on the surface.
func (c *Config) Validate() error {
	if err := errors.ValidateColumns(c.Columns); err != nil {
		return err
	}
	if err := errors.ValidateGaps(c.GapX, c.GapY); err != nil {
		return err
	}
	if !errors.NonNegative(c.ItemWidth) {
		return errors.New(errors.ErrCodeInvalidConfig, "item width must be non-negative, got %v", c.ItemWidth)
	}
	if err := errors.ValidateThreshold(c.Threshold); err != nil {
		return err
	}
	if c.Animation.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidAnimation, "animation duration must be non-negative, got %s", c.Animation.Duration)
	}
	if c.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency must be non-negative, got %d", c.Concurrency)
	}
	if c.Container == nil && c.Selector != "" {
		return errors.ValidateSelector(c.Selector)
	}
	return nil
}

// resolveContainer returns the configured surface.
func (c *Config) resolveContainer() (surface.Surface, error) {
	if c.Container != nil {
		return c.Container, nil
	}
	if c.Selector == "" {
		return nil, errors.New(errors.ErrCodeContainerNotFound, "no container or selector configured")
	}
	return surface.Resolve(c.Resolver, c.Selector)
}
