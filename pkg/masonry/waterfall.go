package masonry

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/animation"
	"github.com/matzehuels/masonry/pkg/content"
	"github.com/matzehuels/masonry/pkg/content/imageload"
	"github.com/matzehuels/masonry/pkg/event"
	"github.com/matzehuels/masonry/pkg/layout"
	"github.com/matzehuels/masonry/pkg/surface"
	"github.com/matzehuels/masonry/pkg/trigger"
)

// Waterfall is a masonry layout bound to one surface.
type Waterfall struct {
	cfg      Config
	surface  surface.Surface
	bus      event.Bus
	loader   *content.Loader
	queue    *layout.Queue
	guard    LoadGuard
	loads    inflight
	entrance *animation.Preset
	logger   *log.Logger

	// Pass state; written only from queue passes.
	state  sync.RWMutex
	engine *layout.Engine
	items  []*content.Item

	mu        sync.Mutex
	lst       listeners
	destroyed bool
}

// New validates cfg, installs the scroll (and, when Responsive, resize)
// listeners and starts loading cfg.Items in the background. Configuration
// errors are returned before anything is installed.
func New(ctx context.Context, cfg Config) (*Waterfall, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	surf, err := cfg.resolveContainer()
	if err != nil {
		return nil, err
	}

	bus := cfg.Bus
	if bus == nil {
		bus = event.New()
	}
	images := cfg.Images
	if images == nil {
		images = imageload.NewMux(imageload.NewHTTPLoader(), imageload.NewFileLoader(""))
	}

	width := cfg.ItemWidth
	if width == 0 {
		width = layout.DeriveWidth(surf.Width(), cfg.Columns)
	}

	w := &Waterfall{
		cfg:     cfg,
		surface: surf,
		bus:     bus,
		loader: &content.Loader{
			Images:       images,
			Render:       cfg.Render,
			OnClick:      cfg.OnClick,
			DefaultImage: cfg.DefaultImage,
			Classes:      cfg.Classes,
			Concurrency:  cfg.Concurrency,
			Logger:       cfg.Logger,
		},
		queue:  layout.NewQueue(0),
		engine: layout.NewEngine(cfg.Columns, width, layout.WithGaps(cfg.GapX, cfg.GapY)),
		logger: cfg.Logger,
	}

	if cfg.Animation.Enabled() {
		if p, ok := animation.Lookup(cfg.Animation.Name); ok {
			w.entrance = &p
		} else {
			w.logger.Warn("unknown animation, items will appear without one", "name", cfg.Animation.Name)
		}
	}

	scroll, err := trigger.NewScroll(trigger.ScrollConfig{
		Threshold: cfg.Threshold,
		Interval:  cfg.ScrollDebounce,
		Guard:     &w.guard,
		Bus:       bus,
		Logger:    cfg.Logger,
	})
	if err != nil {
		w.queue.Close()
		return nil, err
	}

	w.mu.Lock()
	w.lst.scroll = scroll.Install(surf)
	if cfg.Responsive {
		rz := trigger.NewResize(trigger.ResizeConfig{Interval: cfg.ResizeThrottle, OnResize: w.relayout})
		w.lst.resize = rz.Install(surf)
	}
	w.lst.reachBottom = bus.Subscribe(event.ReachedBottom, w.reachedBottom)
	w.mu.Unlock()

	w.logger.Debug("waterfall created", "columns", cfg.Columns, "width", width, "items", len(cfg.Items))

	w.guard.TryAcquire()
	w.loads.add()
	go func() {
		defer w.loads.done()
		w.load(ctx, cfg.Items, true)
	}()
	return w, nil
}

// LoadMore arms the pagination handler with descs. The batch is loaded and
// appended on the next reached-bottom notification. A later LoadMore call
// replaces a batch that has not fired yet.
func (w *Waterfall) LoadMore(descs []content.Descriptor) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		w.logger.Debug("load more after destroy ignored", "items", len(descs))
		return
	}
	if w.lst.pagination != nil {
		w.logger.Debug("replacing pending page", "old", len(w.lst.pagination.descs), "new", len(descs))
	}
	w.lst.pagination = &page{descs: descs}
}

// Destroy removes every listener the waterfall installed. Running loads and
// scheduled passes still complete. Calling Destroy again has no effect.
func (w *Waterfall) Destroy() {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.destroyed = true
	w.lst.release()
	w.mu.Unlock()

	idle := w.loads.wait()
	go func() {
		<-idle
		w.queue.Close()
	}()
	w.logger.Debug("waterfall destroyed")
}

// Settle blocks until every running load has finished and every scheduled
// pass has been applied.
func (w *Waterfall) Settle(ctx context.Context) error {
	select {
	case <-w.loads.wait():
	case <-ctx.Done():
		return ctx.Err()
	}
	return w.queue.Flush(ctx)
}

// reachedBottom handles event.ReachedBottom: it fires the pending page, if
// any, then calls the caller's callback. While a load is running the
// notification is dropped entirely and a pending page stays armed.
func (w *Waterfall) reachedBottom(ctx context.Context, _ event.Event) {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	p := w.lst.pagination
	held := false
	switch {
	case p == nil:
		held = w.guard.Active()
	case w.guard.TryAcquire():
		w.lst.pagination = nil
		w.loads.add()
	default:
		held = true
		p = nil
	}
	pending := w.lst.pagination != nil
	w.mu.Unlock()

	if held {
		w.logger.Debug("reached bottom while loading, trigger dropped", "pending", pending)
		return
	}
	if p != nil {
		go func() {
			defer w.loads.done()
			w.load(context.WithoutCancel(ctx), p.descs, false)
		}()
	}
	if w.cfg.OnReachBottom != nil {
		w.cfg.OnReachBottom()
	}
}

// load builds items for descs and schedules their pass. The guard must be
// held; it is released once the pass has run.
func (w *Waterfall) load(ctx context.Context, descs []content.Descriptor, reset bool) {
	items := w.loader.CreateContent(ctx, descs)
	scheduled := w.queue.Schedule(func() {
		defer w.guard.Release()
		w.pass(ctx, items, reset)
	})
	if !scheduled {
		w.guard.Release()
	}
}

// relayout schedules a reset pass over every item at the current width.
func (w *Waterfall) relayout() {
	w.logger.Debug("surface resized", "width", w.surface.Width())
	w.queue.Schedule(func() { w.pass(context.Background(), nil, true) })
}

// pass mounts added, measures and places items, and updates the surface
// extent. A reset pass re-derives the item width and repositions every item;
// an append pass places only added.
func (w *Waterfall) pass(ctx context.Context, added []*content.Item, reset bool) {
	w.state.Lock()
	defer w.state.Unlock()

	w.items = append(w.items, added...)
	for _, it := range added {
		w.surface.Mount(it.Element)
	}

	if reset && w.cfg.ItemWidth == 0 {
		w.engine.SetWidth(layout.DeriveWidth(w.surface.Width(), w.cfg.Columns))
	}
	width := w.engine.Width()

	target := added
	if reset {
		target = w.items
	}
	placeable := make([]layout.Item, len(target))
	for i, it := range target {
		it.SetHeight(w.surface.Measure(it.Element, width))
		placeable[i] = it
	}

	res := w.engine.Layout(ctx, placeable, reset)
	for _, it := range target {
		w.surface.Place(it.Element, it.Position())
	}
	if w.entrance != nil {
		for _, it := range added {
			w.surface.Animate(it.Element, surface.Transition{
				Name:     w.entrance.Name,
				From:     w.entrance.Start,
				To:       w.entrance.End,
				Duration: w.cfg.Animation.EffectiveDuration(),
			})
		}
	}
	w.surface.SetExtent(res.Extent)

	w.logger.Debug("layout pass", "mode", res.Mode, "placed", res.Placed, "extent", res.Extent)
}

// Items returns the items in placement order.
func (w *Waterfall) Items() []*content.Item {
	w.state.RLock()
	defer w.state.RUnlock()
	out := make([]*content.Item, len(w.items))
	copy(out, w.items)
	return out
}

// Heights returns the current column heights.
func (w *Waterfall) Heights() []float64 {
	w.state.RLock()
	defer w.state.RUnlock()
	return w.engine.Heights()
}

// Extent returns the tallest column height.
func (w *Waterfall) Extent() float64 {
	w.state.RLock()
	defer w.state.RUnlock()
	return w.engine.Extent()
}

// Width returns the current item width.
func (w *Waterfall) Width() float64 {
	w.state.RLock()
	defer w.state.RUnlock()
	return w.engine.Width()
}

// Loading reports whether a load is in flight.
func (w *Waterfall) Loading() bool { return w.guard.Active() }

// Surface returns the surface the waterfall draws on.
func (w *Waterfall) Surface() surface.Surface { return w.surface }

// Bus returns the event bus reached-bottom notifications are published on.
func (w *Waterfall) Bus() event.Bus { return w.bus }

// Config returns the configuration after defaults were applied.
func (w *Waterfall) Config() Config { return w.cfg }
