package content

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/surface"
)

// fakeImages serves fixed sizes; sources listed in fail return an error.
type fakeImages struct {
	sizes map[string][2]int
	fail  map[string]bool
	delay map[string]time.Duration

	mu    sync.Mutex
	calls []string
}

func (f *fakeImages) Load(ctx context.Context, src string) (Image, error) {
	f.mu.Lock()
	f.calls = append(f.calls, src)
	f.mu.Unlock()

	if d := f.delay[src]; d > 0 {
		time.Sleep(d)
	}
	if f.fail[src] {
		return Image{}, fmt.Errorf("404 %s", src)
	}
	s := f.sizes[src]
	return Image{Src: src, Width: s[0], Height: s[1]}, nil
}

func TestCreateContentPreservesOrder(t *testing.T) {
	images := &fakeImages{
		sizes: map[string][2]int{"a.jpg": {100, 200}, "b.jpg": {100, 50}, "c.jpg": {100, 100}},
		delay: map[string]time.Duration{"a.jpg": 20 * time.Millisecond, "b.jpg": 10 * time.Millisecond},
	}
	l := &Loader{Images: images}

	items := l.CreateContent(context.Background(), []Descriptor{{Src: "a.jpg"}, {Src: "b.jpg"}, {Src: "c.jpg"}})

	want := []string{"a.jpg", "b.jpg", "c.jpg"}
	if len(items) != len(want) {
		t.Fatalf("len(items) = %d, want %d", len(items), len(want))
	}
	for i, it := range items {
		if it.Descriptor.Src != want[i] {
			t.Errorf("items[%d].Src = %q, want %q", i, it.Descriptor.Src, want[i])
		}
		if it.Element == nil || it.Element.ID != it.ID {
			t.Errorf("items[%d] element not bound to item id", i)
		}
		if it.State() != StatePending {
			t.Errorf("items[%d].State = %v, want pending", i, it.State())
		}
	}
	if items[0].Image.Height != 200 || items[1].Image.Height != 50 {
		t.Errorf("image sizes not attached: %+v %+v", items[0].Image, items[1].Image)
	}
}

func TestCreateContentFallback(t *testing.T) {
	images := &fakeImages{
		sizes: map[string][2]int{"1.jpg": {10, 10}, "3.jpg": {10, 30}, "default.png": {10, 5}},
		fail:  map[string]bool{"2.jpg": true},
	}
	l := &Loader{Images: images, DefaultImage: "default.png"}

	items := l.CreateContent(context.Background(), []Descriptor{{Src: "1.jpg"}, {Src: "2.jpg"}, {Src: "3.jpg"}})

	for i, src := range []string{"1.jpg", "2.jpg", "3.jpg"} {
		if items[i].Descriptor.Src != src {
			t.Errorf("items[%d].Src = %q, want %q", i, items[i].Descriptor.Src, src)
		}
	}
	it := items[1]
	if !it.Fallback || !it.Element.Fallback {
		t.Error("failed item should use the fallback image")
	}
	if it.Element.Src != "default.png" {
		t.Errorf("Element.Src = %q, want default.png", it.Element.Src)
	}
	if it.LoadErr == nil {
		t.Error("LoadErr should record the primary failure")
	}
	if it.Element.Broken {
		t.Error("item with a working fallback should not be broken")
	}
	if items[0].Fallback || items[2].Fallback {
		t.Error("healthy items should not use the fallback")
	}
}

func TestCreateContentBrokenWhenFallbackFails(t *testing.T) {
	tests := []struct {
		name         string
		defaultImage string
	}{
		{"no default image", ""},
		{"default image fails", "default.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images := &fakeImages{fail: map[string]bool{"x.jpg": true, "default.png": true}}
			l := &Loader{Images: images, DefaultImage: tt.defaultImage}

			items := l.CreateContent(context.Background(), []Descriptor{{Src: "x.jpg", Alt: "x"}})
			if len(items) != 1 {
				t.Fatalf("len(items) = %d, want 1", len(items))
			}
			el := items[0].Element
			if !el.Broken {
				t.Error("Element.Broken = false, want true")
			}
			if el.Src != "x.jpg" {
				t.Errorf("Element.Src = %q, want the original reference", el.Src)
			}
			if el.HasImage() {
				t.Error("broken element should not report an image")
			}
		})
	}
}

func TestCreateContentMarkupAndClick(t *testing.T) {
	var clicked atomic.Value
	l := &Loader{
		Render: func(d Descriptor) string { return "<p>" + d.Field("title") + "</p>" },
		OnClick: func(d Descriptor, ev surface.Event) {
			clicked.Store(d.Field("title"))
		},
		Classes: surface.Classes{Item: "card"},
	}

	descs := []Descriptor{
		{Fields: map[string]any{"title": "first"}},
		{Fields: map[string]any{"title": "second"}},
	}
	items := l.CreateContent(context.Background(), descs)

	if got := items[1].Element.Markup; got != "<p>second</p>" {
		t.Errorf("Markup = %q, want %q", got, "<p>second</p>")
	}
	if got := items[0].Element.Classes.Item; got != "card" {
		t.Errorf("Classes.Item = %q, want card", got)
	}

	items[1].Element.OnClick(surface.Event{Type: "click"})
	if got := clicked.Load(); got != "second" {
		t.Errorf("click delivered %v, want second", got)
	}
}

func TestCreateContentWithoutSource(t *testing.T) {
	images := &fakeImages{}
	l := &Loader{Images: images}

	items := l.CreateContent(context.Background(), []Descriptor{{Alt: "text only"}})
	if items[0].LoadErr != nil || items[0].Element.Broken {
		t.Error("descriptor without source should not fail")
	}
	if len(images.calls) != 0 {
		t.Errorf("image loader called %d times, want 0", len(images.calls))
	}
}

func TestCreateContentNoLoader(t *testing.T) {
	l := &Loader{}
	items := l.CreateContent(context.Background(), []Descriptor{{Src: "a.jpg"}})
	if !errors.Is(items[0].LoadErr, errors.ErrCodeImageLoad) {
		t.Errorf("LoadErr = %v, want %s", items[0].LoadErr, errors.ErrCodeImageLoad)
	}
}

func TestCreateContentRejectsUnsafeSource(t *testing.T) {
	images := &fakeImages{}
	l := &Loader{Images: images}
	items := l.CreateContent(context.Background(), []Descriptor{{Src: "javascript:alert(1)"}})
	if items[0].LoadErr == nil {
		t.Error("unsafe source should fail")
	}
	if len(images.calls) != 0 {
		t.Error("unsafe source should not reach the image loader")
	}
}

func TestCreateContentEmpty(t *testing.T) {
	l := &Loader{}
	if items := l.CreateContent(context.Background(), nil); len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}
}

func TestCreateContentConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	images := ImageLoaderFunc(func(ctx context.Context, src string) (Image, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return Image{Width: 1, Height: 1}, nil
	})
	l := &Loader{Images: images, Concurrency: 2}

	descs := make([]Descriptor, 8)
	for i := range descs {
		descs[i] = Descriptor{Src: fmt.Sprintf("%d.jpg", i)}
	}
	items := l.CreateContent(context.Background(), descs)
	if len(items) != 8 {
		t.Fatalf("len(items) = %d, want 8", len(items))
	}
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
	if items[3].Image.Src != "3.jpg" {
		t.Errorf("Image.Src defaulted to %q, want 3.jpg", items[3].Image.Src)
	}
}

func TestItemPlace(t *testing.T) {
	it := &Item{}
	it.SetHeight(42)
	if it.Height() != 42 {
		t.Errorf("Height() = %v, want 42", it.Height())
	}
	if it.State().String() != "pending" {
		t.Errorf("State = %v, want pending", it.State())
	}
}
