// Package trigger turns raw surface events into layout work.
//
// [Scroll] watches the scroll position through a [Debouncer] and publishes
// [event.ReachedBottom] when the viewport is within the threshold of the end
// of the content, unless a load is already in flight. [Resize] watches the
// surface size through a [Throttler] and requests a full relayout.
//
// Both coordinators subscribe exactly once and hand back a single
// [surface.Listener] that removes the subscription and stops pending timers.
package trigger
