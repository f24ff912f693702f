package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/internal/server"
	"github.com/matzehuels/masonry/pkg/cache"
)

// shutdownTimeout bounds graceful shutdown after the context is cancelled.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		geo  geometry
		addr string
		root string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Start an HTTP server that lays out feeds on request.

  GET  /healthz         liveness and version
  GET  /v1/animations   entrance animation names
  POST /v1/layout       lay out {"items": [...], "pages": [[...]]}

Request geometry falls back to the settings file. Layouts are cached in the
same backend as image dimensions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &geo, addr, root, ttl)
		},
	}

	geo.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&root, "root", ".", "directory for relative image paths")
	cmd.Flags().DurationVar(&ttl, "layout-ttl", server.DefaultLayoutTTL, "how long computed layouts stay cached")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, geo *geometry, addr, root string, ttl time.Duration) error {
	logger := loggerFromContext(ctx)

	f, err := geo.settings()
	if err != nil {
		return err
	}
	// Layouts share the image cache backend under their own key prefix.
	store, err := newCache(ctx, f.Cache)
	if err != nil {
		return err
	}
	defer store.Close()
	images := newImageLoader(f, store, root)

	srv := &http.Server{
		Addr: addr,
		Handler: server.New(server.Config{
			Images:    images,
			Cache:     store,
			Keyer:     cache.NewScopedKeyer(cache.NewDefaultKeyer(), "serve:"),
			Defaults:  f,
			Logger:    logger,
			LayoutTTL: ttl,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	printSuccess("Listening on %s", StyleLink.Render("http://"+displayAddr(addr)))

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// displayAddr fills in localhost for a bare port.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
