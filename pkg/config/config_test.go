package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "masonry.toml", `
columns = 4
gap_x = 16
gap_y = 12
threshold = 250
responsive = true
default_image = "placeholder.png"

[animation]
name = "fadeInUp"
duration = "250ms"

[classes]
item = "card"

[timing]
scroll_debounce = "50ms"

[images]
"a.jpg" = { width = 400, height = 300 }
`)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if f.Columns != 4 || f.GapX != 16 || f.GapY != 12 || f.Threshold != 250 {
		t.Errorf("layout = %d/%v/%v/%v", f.Columns, f.GapX, f.GapY, f.Threshold)
	}
	if f.Width != DefaultWidth {
		t.Errorf("Width = %v, want default %v", f.Width, DefaultWidth)
	}
	if f.Animation.Duration.Duration != 250*time.Millisecond {
		t.Errorf("animation duration = %v, want 250ms", f.Animation.Duration)
	}
	if got := f.Images["a.jpg"]; got.Width != 400 || got.Height != 300 {
		t.Errorf("pinned image = %+v", got)
	}

	var cfg masonry.Config
	f.Apply(&cfg)
	if cfg.Columns != 4 || !cfg.Responsive || cfg.Classes.Item != "card" {
		t.Errorf("Apply() = %+v", cfg)
	}
	if cfg.Animation.Name != "fadeInUp" || cfg.Animation.Duration != 250*time.Millisecond {
		t.Errorf("Apply() animation = %+v", cfg.Animation)
	}
	if cfg.ScrollDebounce != 50*time.Millisecond {
		t.Errorf("Apply() scroll debounce = %v, want 50ms", cfg.ScrollDebounce)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want errors.Code
	}{
		{"threshold too small", "threshold = 50", errors.ErrCodeInvalidThreshold},
		{"nan threshold", "threshold = nan", errors.ErrCodeInvalidThreshold},
		{"nan gap", "gap_y = nan", errors.ErrCodeInvalidConfig},
		{"infinite width", "width = inf", errors.ErrCodeInvalidConfig},
		{"nan item width", "item_width = nan", errors.ErrCodeInvalidConfig},
		{"zero columns", "columns = 0", errors.ErrCodeInvalidColumns},
		{"unknown key", "colums = 3", errors.ErrCodeInvalidConfig},
		{"unknown animation", "[animation]\nname = \"wobble\"", errors.ErrCodeInvalidAnimation},
		{"bad duration", "[animation]\nduration = \"soon\"", errors.ErrCodeInvalidConfig},
		{"bad backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidConfig},
		{"syntax", "columns = ", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "c.toml", tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want code %s", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestDefaultsValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Errorf("Defaults().Validate() = %v", err)
	}
}

func TestReadFeed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"toml", `
[[item]]
src = "a.jpg"
alt = "first"
[item.fields]
title = "A"

[[item]]
src = "b.jpg"
`},
		{"json", `[
  {"src": "a.jpg", "alt": "first", "fields": {"title": "A"}},
  {"src": "b.jpg"}
]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descs, err := ReadFeed(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadFeed() error: %v", err)
			}
			if len(descs) != 2 {
				t.Fatalf("len = %d, want 2", len(descs))
			}
			if descs[0].Src != "a.jpg" || descs[0].Alt != "first" || descs[0].Field("title") != "A" {
				t.Errorf("descs[0] = %+v", descs[0])
			}
			if descs[1].Src != "b.jpg" {
				t.Errorf("descs[1].Src = %q", descs[1].Src)
			}
		})
	}
}

func TestReadFeedInvalid(t *testing.T) {
	for _, input := range []string{"[{", "[[item]\nsrc ="} {
		if _, err := ReadFeed(strings.NewReader(input)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ReadFeed(%q) error = %v, want %s", input, err, errors.ErrCodeInvalidFormat)
		}
	}
}

func TestImportFeed(t *testing.T) {
	path := writeFile(t, "feed.json", `[{"src": "x.png"}]`)
	descs, err := ImportFeed(path)
	if err != nil {
		t.Fatalf("ImportFeed() error: %v", err)
	}
	if len(descs) != 1 || descs[0].Src != "x.png" {
		t.Errorf("ImportFeed() = %+v", descs)
	}

	if _, err := ImportFeed(filepath.Join(t.TempDir(), "none.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing feed error = %v", err)
	}
}

func TestPaginate(t *testing.T) {
	descs, _ := ReadFeed(strings.NewReader(`[{"src":"1"},{"src":"2"},{"src":"3"},{"src":"4"},{"src":"5"}]`))

	tests := []struct {
		size int
		want []int
	}{
		{0, []int{5}},
		{2, []int{2, 2, 1}},
		{5, []int{5}},
		{10, []int{5}},
	}
	for _, tt := range tests {
		pages := Paginate(descs, tt.size)
		var got []int
		for _, p := range pages {
			got = append(got, len(p))
		}
		if len(got) != len(tt.want) {
			t.Errorf("Paginate(size=%d) = %v, want %v", tt.size, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Paginate(size=%d) = %v, want %v", tt.size, got, tt.want)
				break
			}
		}
	}
	if Paginate(nil, 3) != nil {
		t.Error("Paginate(nil) should be nil")
	}
}
