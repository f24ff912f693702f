// Package layout places variable-height items into a fixed number of columns.
//
// # Algorithm
//
// Each item goes to the column whose accumulated height is currently the
// smallest. When several columns share the minimum, the lowest-indexed one
// wins, which biases growth toward the left under ties. The item is
// positioned at
//
//	left = column * (width + gapX)
//	top  = heights[column]
//
// and the column grows by round(itemHeight + gapY). After a pass the surface
// extent is the tallest column.
//
// # Passes
//
// A reset pass zeroes [Heights] first and is used for the initial layout and
// for relayout after a resize. An append pass continues from the current
// heights and positions only the new items, leaving placed items alone.
// Appending A and then B yields the same heights as a reset pass over A++B.
//
// # Ordering
//
// [Heights] is the only mutable state and is not safe for interleaved
// passes. All passes are funnelled through a single [Queue] that runs them
// one at a time in the order they were scheduled.
package layout
