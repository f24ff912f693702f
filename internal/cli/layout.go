package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/config"
	"github.com/matzehuels/masonry/pkg/content"
	"github.com/matzehuels/masonry/pkg/event"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/render"
	"github.com/matzehuels/masonry/pkg/surface"
)

// Output formats for the layout command.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatJSON: true, formatDOT: true, formatSVG: true, formatPDF: true, formatPNG: true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'json', 'dot', 'svg', 'pdf', or 'png')", f)
		}
	}
	return nil
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		geo        geometry
		output     string
		formatsStr string
		labels     bool
		scale      float64
	)

	cmd := &cobra.Command{
		Use:   "layout [feed]",
		Short: "Lay out a feed and write the result",
		Long: `Lay out a feed file (TOML [[item]] tables or a JSON array) into columns.

Every image is measured, then the items are placed one by one into the
shortest column. The result is written as <feed>.layout.json and, with
--format, as DOT, SVG, PDF or PNG.

Image dimensions fetched over HTTP are cached locally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := validateFormats(formats); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], &geo, output, formats, labels, scale)
		},
	}

	geo.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: <feed> without extension)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&labels, "labels", true, "write alt text into rendered blocks")
	cmd.Flags().Float64Var(&scale, "scale", 2, "PNG scale factor")

	return cmd
}

// runLayout lays out the feed and writes every requested format.
func (c *CLI) runLayout(ctx context.Context, input string, geo *geometry, output string, formats []string, labels bool, scale float64) error {
	f, err := geo.settings()
	if err != nil {
		return err
	}
	descs, err := config.ImportFeed(input)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %d items...", len(descs)))
	spinner.Start()

	l, err := c.compute(ctx, f, descs, filepath.Dir(input))
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	printSuccess("Layout complete")
	base := basePath(output, input)
	for _, format := range formats {
		path, err := writeLayout(ctx, l, format, base, labels, scale)
		if err != nil {
			return err
		}
		printFile(path)
	}

	printStats(len(l.Blocks), countBroken(l), l.Extent)
	printNewline()
	printNextStep("Preview", appName+" preview "+input)
	return nil
}

// compute runs a waterfall for descs on a canvas and waits for it to settle.
func (c *CLI) compute(ctx context.Context, f *config.File, descs []content.Descriptor, root string) (render.Layout, error) {
	store, err := newCache(ctx, f.Cache)
	if err != nil {
		return render.Layout{}, err
	}
	defer store.Close()
	images := newImageLoader(f, store, root)

	wf, _, err := c.newWaterfall(ctx, f, images, descs)
	if err != nil {
		return render.Layout{}, err
	}
	defer wf.Destroy()

	prog := newProgress(c.Logger)
	if err := wf.Settle(ctx); err != nil {
		return render.Layout{}, err
	}
	prog.done(fmt.Sprintf("Placed %d items", len(wf.Items())))
	return render.Export(wf), nil
}

// newWaterfall builds a waterfall over a fresh canvas sized from f.
func (c *CLI) newWaterfall(ctx context.Context, f *config.File, images content.ImageLoader, descs []content.Descriptor) (*masonry.Waterfall, *surface.Canvas, error) {
	canvas := surface.NewCanvas(f.Width, f.Viewport)
	cfg := masonry.Config{
		Container: canvas,
		Items:     descs,
		Images:    images,
		Bus:       event.New(),
		Logger:    c.Logger,
	}
	f.Apply(&cfg)

	wf, err := masonry.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return wf, canvas, nil
}

// writeLayout writes l in format next to base and returns the path.
func writeLayout(ctx context.Context, l render.Layout, format, base string, labels bool, scale float64) (string, error) {
	if format == formatJSON {
		path := base + ".layout.json"
		if err := render.WriteLayoutFile(l, path); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		return path, nil
	}

	path := base + "." + format
	dot := render.ToDOT(l, render.Options{Labels: labels})
	var data []byte
	if format == formatDOT {
		data = []byte(dot)
	} else {
		svg, err := render.RenderSVG(ctx, dot)
		if err != nil {
			return "", fmt.Errorf("render svg: %w", err)
		}
		switch format {
		case formatSVG:
			data = svg
		case formatPDF:
			if data, err = render.ToPDF(svg); err != nil {
				return "", err
			}
		case formatPNG:
			if data, err = render.ToPNG(svg, scale); err != nil {
				return "", err
			}
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func countBroken(l render.Layout) int {
	n := 0
	for _, b := range l.Blocks {
		if b.Broken {
			n++
		}
	}
	return n
}
