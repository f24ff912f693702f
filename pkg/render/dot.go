package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// pointsPerInch converts surface units to Graphviz node sizes.
const pointsPerInch = 72

// Options configures DOT output.
type Options struct {
	// Labels writes each block's alt text (or id) into the box.
	Labels bool
}

// ToDOT converts a layout to a Graphviz graph. Every block is a fixed-size
// box pinned at its position; Graphviz's y axis points up, so tops are
// flipped against the extent.
func ToDOT(l Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph masonry {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=nodesfirst;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, fontsize=10, margin=0];\n")
	buf.WriteString("\n")

	for _, b := range l.Blocks {
		cx := b.Left + b.Width/2
		cy := l.Extent - (b.Top + b.Height/2)
		attrs := []string{
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", cx, cy),
			fmt.Sprintf("width=%.4f", b.Width/pointsPerInch),
			fmt.Sprintf("height=%.4f", max(b.Height, 1)/pointsPerInch),
		}
		label := ""
		if opts.Labels {
			label = b.Alt
			if label == "" {
				label = shortID(b.ID)
			}
		}
		attrs = append(attrs, fmt.Sprintf("label=%q", label))
		switch {
		case b.Broken:
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		case b.Fallback:
			attrs = append(attrs, "fillcolor=lightyellow")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", b.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RenderSVG renders a DOT graph produced by [ToDOT] to SVG with the neato
// engine, which honours pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
