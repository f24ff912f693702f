// Package animation provides named entrance presets for placed items.
//
// A preset is a pair of opacity/transform states. Once an item has been
// positioned the surface transitions it from Start to End over the configured
// duration. Animations are cosmetic and never influence placement.
package animation

import (
	"sort"
	"time"
)

// None disables entrance animation.
const None = "none"

// DefaultDuration is used when an Entrance names a preset without a duration.
const DefaultDuration = 300 * time.Millisecond

// State is one end of a transition.
type State struct {
	Opacity   float64 `json:"opacity"`
	Transform string  `json:"transform,omitempty"`
}

// Preset is a named start/end pair.
type Preset struct {
	Name  string
	Start State
	End   State
}

// Entrance selects a preset and its duration.
type Entrance struct {
	Name     string        `toml:"name" json:"name"`
	Duration time.Duration `toml:"duration" json:"duration"`
}

// Enabled reports whether the entrance names a preset other than none.
func (e Entrance) Enabled() bool {
	return e.Name != "" && e.Name != None
}

// EffectiveDuration returns Duration or DefaultDuration when unset.
func (e Entrance) EffectiveDuration() time.Duration {
	if e.Duration > 0 {
		return e.Duration
	}
	return DefaultDuration
}

var visible = State{Opacity: 1, Transform: "none"}

var presets = map[string]Preset{
	None:          {Name: None, Start: visible, End: visible},
	"fadeIn":      {Name: "fadeIn", Start: State{Opacity: 0, Transform: "none"}, End: visible},
	"fadeInUp":    {Name: "fadeInUp", Start: State{Opacity: 0, Transform: "translate3d(0, 100%, 0)"}, End: visible},
	"fadeInDown":  {Name: "fadeInDown", Start: State{Opacity: 0, Transform: "translate3d(0, -100%, 0)"}, End: visible},
	"zoomIn":      {Name: "zoomIn", Start: State{Opacity: 0, Transform: "scale3d(0.3, 0.3, 0.3)"}, End: visible},
	"slideInLeft": {Name: "slideInLeft", Start: State{Opacity: 1, Transform: "translate3d(-100%, 0, 0)"}, End: visible},
}

// Lookup returns the preset registered under name.
func Lookup(name string) (Preset, bool) {
	if name == "" {
		name = None
	}
	p, ok := presets[name]
	return p, ok
}

// Names returns all preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
