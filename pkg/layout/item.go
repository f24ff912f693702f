package layout

// Position is the placement of one item on the surface.
// All coordinates are in surface units with the origin at the top left.
type Position struct {
	Column int     `json:"column"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the horizontal end of the item.
func (p Position) Right() float64 { return p.Left + p.Width }

// Bottom returns the vertical end of the item, excluding the gap below it.
func (p Position) Bottom() float64 { return p.Top + p.Height }

// Item is anything the engine can place. Height is read once per pass, after
// the item has been measured at the current column width.
type Item interface {
	Height() float64
	Place(Position)
}

// Mode selects between a reset pass and an append pass.
type Mode int

const (
	// ModeAppend continues from the current column heights.
	ModeAppend Mode = iota
	// ModeReset zeroes the column heights before placing.
	ModeReset
)

// String returns "append" or "reset".
func (m Mode) String() string {
	if m == ModeReset {
		return "reset"
	}
	return "append"
}

// ModeFor maps a resetHeights flag to a Mode.
func ModeFor(reset bool) Mode {
	if reset {
		return ModeReset
	}
	return ModeAppend
}

// Result summarises one pass.
type Result struct {
	Mode    Mode
	Placed  int
	Extent  float64
	Heights []float64
}
