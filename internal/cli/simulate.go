package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/config"
	"github.com/matzehuels/masonry/pkg/event"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// simulateCommand creates the simulate command.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		geo      geometry
		pageSize int
		scrolls  int
		resize   float64
	)

	cmd := &cobra.Command{
		Use:   "simulate [feed]",
		Short: "Scroll through a feed page by page",
		Long: `Split a feed into pages and scroll to the bottom of the surface once per
page. Each scroll goes through the same debounced bottom check a reader's
scrolling would, so the log shows every pass the waterfall runs.

With --resize the surface is resized to the given width after the last page,
which triggers a full relayout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSimulate(cmd.Context(), args[0], &geo, pageSize, scrolls, resize)
		},
	}

	geo.register(cmd)
	cmd.Flags().IntVar(&pageSize, "page-size", 10, "items per page")
	cmd.Flags().IntVar(&scrolls, "scrolls", 0, "maximum number of scrolls (0: until the feed is exhausted)")
	cmd.Flags().Float64Var(&resize, "resize", 0, "resize the surface to this width at the end")

	return cmd
}

func (c *CLI) runSimulate(ctx context.Context, input string, geo *geometry, pageSize, scrolls int, resize float64) error {
	logger := loggerFromContext(ctx)

	f, err := geo.settings()
	if err != nil {
		return err
	}
	if resize > 0 {
		f.Responsive = true
	}
	descs, err := config.ImportFeed(input)
	if err != nil {
		return err
	}
	pages := config.Paginate(descs, pageSize)
	if len(pages) == 0 {
		printWarning("Feed %s is empty", input)
		return nil
	}

	store, err := newCache(ctx, f.Cache)
	if err != nil {
		return err
	}
	defer store.Close()
	images := newImageLoader(f, store, filepath.Dir(input))

	wf, canvas, err := c.newWaterfall(ctx, f, images, pages[0])
	if err != nil {
		return err
	}
	defer wf.Destroy()

	// reached is signalled after the waterfall has handled a reached-bottom
	// event, so the page armed before the scroll has already fired.
	reached := make(chan struct{}, 1)
	sub := wf.Bus().Subscribe(event.ReachedBottom, func(context.Context, event.Event) {
		select {
		case reached <- struct{}{}:
		default:
		}
	})
	defer sub.Unsubscribe()

	if err := wf.Settle(ctx); err != nil {
		return err
	}
	logger.Info("initial page", "items", len(wf.Items()), "heights", wf.Heights())

	wait := f.Timing.ScrollDebounce.Duration
	if wait == 0 {
		wait = masonry.DefaultScrollDebounce
	}
	wait += time.Second

	for i := 1; i < len(pages); i++ {
		if scrolls > 0 && i > scrolls {
			break
		}
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Scrolling to page %d/%d...", i+1, len(pages)))
		spinner.Start()

		wf.LoadMore(pages[i])
		canvas.ScrollToBottom()

		select {
		case <-reached:
		case <-time.After(wait):
			spinner.StopWithError("Scroll did not reach the bottom")
			return fmt.Errorf("scroll %d: no reached-bottom notification after %s", i, wait)
		case <-ctx.Done():
			spinner.Stop()
			return ctx.Err()
		}
		spinner.Update(fmt.Sprintf("Loading %d items...", len(pages[i])))
		if err := wf.Settle(ctx); err != nil {
			spinner.StopWithError("Page failed to settle")
			return err
		}
		spinner.Stop()
		logger.Info("page appended", "page", i+1, "items", len(wf.Items()), "extent", wf.Extent(), "heights", wf.Heights())
	}

	if resize > 0 {
		canvas.Resize(resize, f.Viewport)
		if err := wf.Settle(ctx); err != nil {
			return err
		}
		logger.Info("resized", "width", resize, "item_width", wf.Width(), "heights", wf.Heights())
	}

	printSuccess("Simulated %d pages", len(pages))
	printStats(len(wf.Items()), countBrokenItems(wf), wf.Extent())
	return nil
}

func countBrokenItems(wf *masonry.Waterfall) int {
	n := 0
	for _, it := range wf.Items() {
		if it.Element.Broken {
			n++
		}
	}
	return n
}
