// Package render exports a laid-out waterfall.
//
// [Export] snapshots a [masonry.Waterfall] into a [Layout]: the surface
// geometry, the column heights and one [Block] per item. Layouts round-trip
// through JSON ([WriteJSON], [ReadJSON], [WriteLayoutFile], [ReadLayoutFile])
// so that a computed layout can be cached or rendered later.
//
// # Images
//
// [ToDOT] turns a layout into a Graphviz graph with every block pinned at its
// computed position, and [RenderSVG] renders it with the neato engine:
//
//	dot := render.ToDOT(l, render.Options{Labels: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// [ToPDF] and [ToPNG] convert the SVG with the external rsvg-convert tool.
package render
