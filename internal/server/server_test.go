package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/content"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/render"
)

// sizes serves fixed intrinsic sizes and counts loads.
type sizes struct {
	m     map[string]content.Image
	calls atomic.Int32
}

func (s *sizes) Load(_ context.Context, src string) (content.Image, error) {
	s.calls.Add(1)
	img, ok := s.m[src]
	if !ok {
		return content.Image{}, errors.New(errors.ErrCodeFileNotFound, "no image %s", src)
	}
	return img, nil
}

func newSizes() *sizes {
	return &sizes{m: map[string]content.Image{
		"a.png": {Src: "a.png", Width: 100, Height: 100},
		"b.png": {Src: "b.png", Width: 100, Height: 80},
		"c.png": {Src: "c.png", Width: 100, Height: 80},
		"d.png": {Src: "d.png", Width: 100, Height: 50},
	}}
}

// memCache is a map-backed cache.Cache.
type memCache struct {
	cache.NullCache
	m map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.m[key] = data
	return nil
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/layout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const feed = `{
	"columns": 3, "width": 320, "item_width": 100, "gap_x": 10, "gap_y": 10,
	"items": [{"src": "a.png"}, {"src": "b.png"}, {"src": "c.png"}]
}`

func TestHealth(t *testing.T) {
	s := New(Config{Images: newSizes()})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestAnimations(t *testing.T) {
	s := New(Config{Images: newSizes()})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/animations", nil))

	var names []string
	if err := json.Unmarshal(rec.Body.Bytes(), &names); err != nil {
		t.Fatal(err)
	}
	if len(names) == 0 {
		t.Error("expected at least one animation name")
	}
}

func TestLayoutJSON(t *testing.T) {
	s := New(Config{Images: newSizes()})
	rec := post(t, s, feed)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	l, err := render.ReadJSON(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{110, 90, 90}
	for i, h := range l.Heights {
		if h != want[i] {
			t.Errorf("Heights = %v, want %v", l.Heights, want)
			break
		}
	}
	if len(l.Blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(l.Blocks))
	}
	if got := l.Blocks[2].Left; got != 220 {
		t.Errorf("third block left = %v, want 220", got)
	}
}

func TestLayoutPages(t *testing.T) {
	s := New(Config{Images: newSizes()})
	body := `{
		"columns": 3, "width": 320, "item_width": 100, "gap_x": 10, "gap_y": 10,
		"items": [{"src": "a.png"}, {"src": "b.png"}, {"src": "c.png"}],
		"pages": [[{"src": "d.png"}]]
	}`
	rec := post(t, s, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	l, err := render.ReadJSON(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(l.Blocks))
	}
	// Columns 1 and 2 tie at 90; the lower index wins.
	if b := l.Blocks[3]; b.Column != 1 || b.Top != 90 {
		t.Errorf("page block at column %d top %v, want column 1 top 90", b.Column, b.Top)
	}
}

func TestLayoutCached(t *testing.T) {
	images := newSizes()
	s := New(Config{Images: images, Cache: &memCache{m: map[string][]byte{}}})

	for i := 0; i < 3; i++ {
		if rec := post(t, s, feed); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	if got := images.calls.Load(); got != 3 {
		t.Errorf("image loads = %d, want 3 (one request's worth)", got)
	}

	// Different geometry is a different key.
	post(t, s, strings.Replace(feed, `"columns": 3`, `"columns": 2`, 1))
	if got := images.calls.Load(); got != 6 {
		t.Errorf("image loads = %d, want 6", got)
	}
}

func TestLayoutDOT(t *testing.T) {
	s := New(Config{Images: newSizes()})
	rec := post(t, s, strings.Replace(feed, `"columns": 3,`, `"columns": 3, "format": "dot",`, 1))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("graph masonry {")) {
		t.Errorf("body does not start with a graph: %q", rec.Body.String())
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   errors.Code
	}{
		{"bad json", `{"items": [`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"rows": 3, "items": []}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad format", `{"format": "gif", "items": []}`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"negative columns", `{"columns": -1, "items": []}`, http.StatusBadRequest, errors.ErrCodeInvalidColumns},
		{"low threshold", `{"threshold": 50, "items": []}`, http.StatusBadRequest, errors.ErrCodeInvalidThreshold},
	}

	s := New(Config{Images: newSizes()})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			var er errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
				t.Fatal(err)
			}
			if er.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", er.Code, tt.wantCode)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidSelector, http.StatusBadRequest},
		{errors.ErrCodeInvalidAnimation, http.StatusBadRequest},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeNetwork, http.StatusInternalServerError},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
