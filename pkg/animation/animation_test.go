package animation

import (
	"slices"
	"testing"
	"time"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
	}{
		{"none", None, true},
		{"empty means none", "", true},
		{"fadeInUp", "fadeInUp", true},
		{"zoomIn", "zoomIn", true},
		{"unknown", "wobble", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Lookup(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && p.End.Opacity != 1 {
				t.Errorf("preset %q should end fully visible, got %+v", tt.input, p.End)
			}
		})
	}
}

func TestNoneIsStatic(t *testing.T) {
	p, _ := Lookup(None)
	if p.Start != p.End {
		t.Errorf("none preset should not change state: %+v -> %+v", p.Start, p.End)
	}
}

func TestEntrance(t *testing.T) {
	if (Entrance{}).Enabled() || (Entrance{Name: None}).Enabled() {
		t.Error("empty and none entrances should be disabled")
	}
	e := Entrance{Name: "fadeIn"}
	if !e.Enabled() {
		t.Error("fadeIn should be enabled")
	}
	if e.EffectiveDuration() != DefaultDuration {
		t.Errorf("EffectiveDuration() = %v, want %v", e.EffectiveDuration(), DefaultDuration)
	}
	e.Duration = time.Second
	if e.EffectiveDuration() != time.Second {
		t.Errorf("EffectiveDuration() = %v, want 1s", e.EffectiveDuration())
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if !slices.IsSorted(names) {
		t.Errorf("Names() not sorted: %v", names)
	}
	if !slices.Contains(names, None) {
		t.Error("Names() should include none")
	}
}
