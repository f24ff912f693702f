package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/buildinfo"
	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/config"
	"github.com/matzehuels/masonry/pkg/content"
	"github.com/matzehuels/masonry/pkg/content/imageload"
	"github.com/matzehuels/masonry/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "masonry"

	// defaultImageTTL is how long fetched image dimensions stay cached.
	defaultImageTTL = cache.DefaultImageTTL
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Masonry lays out image feeds as waterfall columns",
		Long: `Masonry places a feed of images and cards into equal-width columns,
always appending to the shortest column, and pages in more content as the
reader nears the bottom.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.animationsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Settings
// =============================================================================

// geometry holds the layout flags shared by commands. Zero values keep the
// settings file value.
type geometry struct {
	configPath string
	columns    int
	gapX       float64
	gapY       float64
	width      float64
	viewport   float64
	itemWidth  float64
	threshold  float64
	timeout    time.Duration
	noCache    bool
}

func (g *geometry) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&g.configPath, "config", "c", "", "settings file (TOML)")
	cmd.Flags().IntVar(&g.columns, "columns", 0, "number of columns")
	cmd.Flags().Float64Var(&g.gapX, "gap-x", -1, "horizontal gap between columns")
	cmd.Flags().Float64Var(&g.gapY, "gap-y", -1, "vertical gap between items")
	cmd.Flags().Float64Var(&g.width, "width", 0, "surface width")
	cmd.Flags().Float64Var(&g.viewport, "height", 0, "visible surface height")
	cmd.Flags().Float64Var(&g.itemWidth, "item-width", 0, "fixed item width (default: width / columns)")
	cmd.Flags().Float64Var(&g.threshold, "threshold", 0, "bottom distance that triggers the next page")
	cmd.Flags().DurationVar(&g.timeout, "image-timeout", 0, "per-image fetch timeout (0: none)")
	cmd.Flags().BoolVar(&g.noCache, "no-cache", false, "disable the image-dimension cache")
}

// settings loads the settings file, if any, and applies flag overrides.
func (g *geometry) settings() (*config.File, error) {
	f := config.Defaults()
	if g.configPath != "" {
		var err error
		if f, err = config.Load(g.configPath); err != nil {
			return nil, err
		}
	}
	if g.columns != 0 {
		f.Columns = g.columns
	}
	if g.gapX >= 0 {
		f.GapX = g.gapX
	}
	if g.gapY >= 0 {
		f.GapY = g.gapY
	}
	if g.width != 0 {
		f.Width = g.width
	}
	if g.viewport != 0 {
		f.Viewport = g.viewport
	}
	if g.itemWidth != 0 {
		f.ItemWidth = g.itemWidth
	}
	if g.threshold != 0 {
		f.Threshold = g.threshold
	}
	if g.timeout != 0 {
		f.Timing.ImageTimeout.Duration = g.timeout
	}
	if g.noCache {
		f.Cache.Backend = "none"
	}
	return f, f.Validate()
}

// =============================================================================
// Image Loading
// =============================================================================

// newImageLoader builds the loader chain for f: pinned sizes from the
// settings file first, then HTTP (cached in store) or filesystem. root
// resolves relative image paths, normally the feed's directory.
func newImageLoader(f *config.File, store cache.Cache, root string) content.ImageLoader {
	ttl := f.Cache.TTL.Duration
	if ttl == 0 {
		ttl = defaultImageTTL
	}

	opts := []imageload.HTTPOption{imageload.WithCache(store, cache.NewDefaultKeyer(), ttl)}
	if f.Timing.ImageTimeout.Duration > 0 {
		opts = append(opts, imageload.WithTimeout(f.Timing.ImageTimeout.Duration))
	}
	var l content.ImageLoader = imageload.NewMux(imageload.NewHTTPLoader(opts...), imageload.NewFileLoader(root))
	if len(f.Images) > 0 {
		l = pinned(f.Images, l)
	}
	return l
}

// pinned serves sizes declared in the settings file without fetching.
func pinned(sizes map[string]config.ImgSize, next content.ImageLoader) content.ImageLoader {
	return content.ImageLoaderFunc(func(ctx context.Context, src string) (content.Image, error) {
		if s, ok := sizes[src]; ok {
			if s.Width <= 0 || s.Height <= 0 {
				return content.Image{}, errors.New(errors.ErrCodeImageLoad, "pinned size for %s is not positive", src)
			}
			return content.Image{Src: src, Width: s.Width, Height: s.Height}, nil
		}
		return next.Load(ctx, src)
	})
}

func newCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Redis, Prefix: appName + ":"})
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/masonry/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// basePath strips the extension from output, or from input when output is
// empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatJSON}
	}
	return strings.Split(s, ",")
}
