package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/masonry/pkg/animation"
	"github.com/matzehuels/masonry/pkg/buildinfo"
	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/content"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/event"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/render"
	"github.com/matzehuels/masonry/pkg/surface"
)

// maxBodyBytes caps layout request bodies.
const maxBodyBytes = 4 << 20

// Output formats accepted by /v1/layout.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// LayoutRequest is the body of POST /v1/layout. Zero geometry fields take
// the server defaults.
type LayoutRequest struct {
	Columns   int     `json:"columns,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Viewport  float64 `json:"viewport,omitempty"`
	ItemWidth float64 `json:"item_width,omitempty"`
	GapX      float64 `json:"gap_x,omitempty"`
	GapY      float64 `json:"gap_y,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Format    string  `json:"format,omitempty"`

	Items []content.Descriptor `json:"items"`
	// Pages are appended one after another as if the reader had scrolled
	// to the bottom once per page.
	Pages [][]content.Descriptor `json:"pages,omitempty"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleAnimations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, animation.Names())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	s.fill(&req)
	switch req.Format {
	case FormatJSON, FormatDOT, FormatSVG:
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", req.Format))
		return
	}

	ctx := r.Context()
	key, err := s.layoutKey(req)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "layout key"))
		return
	}

	var l render.Layout
	if data, hit, _ := s.cfg.Cache.Get(ctx, key); hit && json.Unmarshal(data, &l) == nil {
		s.cfg.Logger.Debug("layout cache hit", "key", key)
	} else {
		l, err = s.compute(r, req)
		if err != nil {
			writeError(w, err)
			return
		}
		if data, err := json.Marshal(l); err == nil {
			if err := s.cfg.Cache.Set(ctx, key, data, s.cfg.LayoutTTL); err != nil {
				s.cfg.Logger.Warn("layout cache write failed", "err", err)
			}
		}
	}

	switch req.Format {
	case FormatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		w.Write([]byte(render.ToDOT(l, render.Options{Labels: true})))
	case FormatSVG:
		svg, err := render.RenderSVG(ctx, render.ToDOT(l, render.Options{Labels: true}))
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg)
	default:
		writeJSON(w, http.StatusOK, l)
	}
}

func (s *Server) fill(req *LayoutRequest) {
	d := s.cfg.Defaults
	if req.Columns == 0 {
		req.Columns = d.Columns
	}
	if req.Width == 0 {
		req.Width = d.Width
	}
	if req.Viewport == 0 {
		req.Viewport = d.Viewport
	}
	if req.ItemWidth == 0 {
		req.ItemWidth = d.ItemWidth
	}
	if req.GapX == 0 {
		req.GapX = d.GapX
	}
	if req.GapY == 0 {
		req.GapY = d.GapY
	}
	if req.Threshold == 0 {
		req.Threshold = d.Threshold
	}
	if req.Format == "" {
		req.Format = FormatJSON
	}
}

func (s *Server) layoutKey(req LayoutRequest) (string, error) {
	feed, err := cache.HashJSON(struct {
		Items []content.Descriptor     `json:"items"`
		Pages [][]content.Descriptor `json:"pages"`
	}{req.Items, req.Pages})
	if err != nil {
		return "", err
	}
	return s.cfg.Keyer.LayoutKey(feed, cache.LayoutKeyOpts{
		Columns:   req.Columns,
		Width:     req.Width,
		ItemWidth: req.ItemWidth,
		GapX:      req.GapX,
		GapY:      req.GapY,
	}), nil
}

// compute runs a waterfall on an in-memory canvas and snapshots it once
// every page has been appended.
func (s *Server) compute(r *http.Request, req LayoutRequest) (render.Layout, error) {
	ctx := r.Context()
	bus := event.New()
	cfg := masonry.Config{
		Container: surface.NewCanvas(req.Width, req.Viewport),
		Columns:   req.Columns,
		GapX:      req.GapX,
		GapY:      req.GapY,
		ItemWidth: req.ItemWidth,
		Threshold: req.Threshold,
		Items:     req.Items,
		Images:    s.cfg.Images,
		Bus:       bus,
		Logger:    s.cfg.Logger.With("id", middleware.GetReqID(ctx)),
	}
	if d := s.cfg.Defaults; d != nil {
		cfg.DefaultImage = d.DefaultImage
		cfg.Classes = d.Classes
	}

	wf, err := masonry.New(ctx, cfg)
	if err != nil {
		return render.Layout{}, err
	}
	defer wf.Destroy()

	if err := wf.Settle(ctx); err != nil {
		return render.Layout{}, errors.Wrap(errors.ErrCodeTimeout, err, "initial load")
	}
	for i, page := range req.Pages {
		wf.LoadMore(page)
		bus.Publish(ctx, event.Event{Topic: event.ReachedBottom})
		if err := wf.Settle(ctx); err != nil {
			return render.Layout{}, errors.Wrap(errors.ErrCodeTimeout, err, "page %d", i+1)
		}
	}
	return render.Export(wf), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	if errors.IsConfig(&errors.Error{Code: code}) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
