// Package pkg provides the core libraries for masonry waterfall layouts.
//
// # Overview
//
// Masonry places a feed of images and cards into equal-width columns. Each
// item goes into the column that is currently shortest, so the columns grow
// evenly, and more content is paged in as the reader nears the bottom of the
// surface. The pkg directory is organized into four areas:
//
//  1. Layout core: [layout], [content], [trigger], [masonry]
//  2. Collaborators: [surface], [event], [animation]
//  3. Infrastructure: [cache], [httputil], [observability], [errors]
//  4. Files and output: [config], [render], [buildinfo]
//
// # Architecture
//
// The data flow through one waterfall:
//
//	Feed descriptors
//	       ↓
//	  [content] package (measure images, build elements)
//	       ↓
//	  [layout] package (shortest-column placement, one ordered pass queue)
//	       ↓
//	  [surface] package (mount, place, animate)
//	       ↓
//	  [render] package (JSON, DOT, SVG, PDF, PNG)
//
// Scrolling flows back the other way: the surface reports scroll events,
// [trigger] debounces them and publishes a reached-bottom notification on
// the [event] bus, and the [masonry] waterfall answers by loading the next
// page.
//
// # Quick Start
//
// Lay out three images on an in-memory canvas:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/masonry/pkg/content"
//	    "github.com/matzehuels/masonry/pkg/masonry"
//	    "github.com/matzehuels/masonry/pkg/render"
//	    "github.com/matzehuels/masonry/pkg/surface"
//	)
//
//	canvas := surface.NewCanvas(960, 720)
//	wf, err := masonry.New(ctx, masonry.Config{
//	    Container: canvas,
//	    Columns:   3,
//	    GapX:      10,
//	    GapY:      10,
//	    Items: []content.Descriptor{
//	        {Src: "https://cdn.example.com/a.jpg"},
//	        {Src: "https://cdn.example.com/b.jpg"},
//	        {Src: "https://cdn.example.com/c.jpg"},
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	defer wf.Destroy()
//
//	wf.Settle(ctx)
//	layout := render.Export(wf)
//
// Page in more content when the reader reaches the bottom:
//
//	wf.LoadMore(nextPage)
//
// # Main Packages
//
// [layout] - Column heights and the placement engine. Every pass (initial
// reset, append, resize reset) runs on a FIFO queue so a pass always sees
// the heights the previous pass left behind.
//
// [content] - Turns descriptors into measured items. Images load
// concurrently; failures fall back to a default image or a broken marker.
// [content/imageload] fetches dimensions over HTTP (with retries and a
// cache) or from the filesystem.
//
// [trigger] - Debounced scroll and throttled resize coordinators.
//
// [masonry] - The waterfall: configuration, the load guard, pagination and
// teardown.
//
// [cache] - File, Redis and null caches for image dimensions and layouts.
//
// [config] - TOML settings files and feed files.
//
// [render] - Layout export and Graphviz rendering.
//
// # Testing
//
// Run tests:
//
//	go test ./...                 # All tests
//	go test -short ./...          # Skip Graphviz rendering
//	go test -run Example ./pkg/...
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/layout
// [content]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/content
// [content/imageload]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/content/imageload
// [trigger]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/trigger
// [masonry]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/masonry
// [surface]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/surface
// [event]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/event
// [animation]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/animation
// [cache]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/errors
// [config]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/config
// [render]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/render
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/masonry/pkg/buildinfo
package pkg
