// Package masonry places a growing stream of content into balanced columns.
//
// A [Waterfall] owns one surface. At construction it loads the initial batch
// of descriptors in the background and lays it out with a reset pass. Each
// [Waterfall.LoadMore] call arms a one-shot pagination handler that fires on
// the next reached-bottom notification, loads the batch and appends it.
// When Responsive is set, resizing the surface lays everything out again.
//
// # Concurrency
//
// Layout passes run one at a time on a [layout.Queue] in the order they were
// scheduled, so a resize relayout and a pagination append never interleave.
// Image loads for a batch run concurrently; the loaded items keep the order
// of their descriptors.
//
// A [LoadGuard] is held from the moment a load starts until its pass has been
// applied. Reached-bottom notifications that arrive while it is held are
// dropped, not queued. Image loads have no timeout, so a load that never
// returns keeps the guard held and pagination stops.
//
// [Waterfall.Destroy] removes the scroll and resize listeners. Loads and
// passes already under way still finish and apply their results.
//
// # Usage
//
//	canvas := surface.NewCanvas(960, 720)
//	w, err := masonry.New(ctx, masonry.Config{
//	    Container: canvas,
//	    Columns:   4,
//	    GapX:      16,
//	    GapY:      16,
//	    Items:     page1,
//	    OnReachBottom: func() { w.LoadMore(nextPage()) },
//	})
//	if err != nil {
//	    return err
//	}
//	defer w.Destroy()
//	w.LoadMore(page2)
package masonry
