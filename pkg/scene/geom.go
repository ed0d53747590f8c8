package scene

import "math"

// World dimensions. The origin sits at the centre of the frame and y grows
// upwards, so the visible area spans [-WorldWidth/2, WorldWidth/2] by
// [-WorldHeight/2, WorldHeight/2].
const (
	WorldHeight = 8.0
	WorldWidth  = WorldHeight * 16 / 9
)

const (
	// PointSize converts a font size into world units per em.
	PointSize = 0.0125
	// StrokeUnit converts a stroke width into world units.
	StrokeUnit = 0.01

	charWidth     = 0.55
	monoCharWidth = 0.6
)

// Vec is a point or displacement in world units.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Directions for edge alignment and relative placement.
var (
	Origin = Vec{}
	Up     = Vec{0, 1}
	Down   = Vec{0, -1}
	Left   = Vec{-1, 0}
	Right  = Vec{1, 0}
	UL     = Vec{-1, 1}
	UR     = Vec{1, 1}
	DL     = Vec{-1, -1}
	DR     = Vec{1, -1}
)

func V(x, y float64) Vec { return Vec{x, y} }

func (v Vec) Add(o Vec) Vec     { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec     { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Mul(f float64) Vec { return Vec{v.X * f, v.Y * f} }
func (v Vec) Len() float64      { return math.Hypot(v.X, v.Y) }
func (v Vec) Mid(o Vec) Vec     { return v.Lerp(o, 0.5) }

func (v Vec) Lerp(o Vec, a float64) Vec {
	return Vec{lerp(v.X, o.X, a), lerp(v.Y, o.Y, a)}
}

// Bounds is an axis-aligned box.
type Bounds struct {
	Min Vec `json:"min"`
	Max Vec `json:"max"`
}

func (b Bounds) Width() float64  { return b.Max.X - b.Min.X }
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }
func (b Bounds) Center() Vec     { return b.Min.Mid(b.Max) }
func (b Bounds) Top() Vec        { return Vec{b.Center().X, b.Max.Y} }
func (b Bounds) Bottom() Vec     { return Vec{b.Center().X, b.Min.Y} }
func (b Bounds) Empty() bool     { return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y }

// Union returns the smallest box covering both.
func (b Bounds) Union(o Bounds) Bounds {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return Bounds{
		Min: Vec{min(b.Min.X, o.Min.X), min(b.Min.Y, o.Min.Y)},
		Max: Vec{max(b.Max.X, o.Max.X), max(b.Max.Y, o.Max.Y)},
	}
}

// Pad grows the box by d on every side.
func (b Bounds) Pad(d float64) Bounds {
	return Bounds{Min: b.Min.Sub(Vec{d, d}), Max: b.Max.Add(Vec{d, d})}
}

func emptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{Min: Vec{inf, inf}, Max: Vec{-inf, -inf}}
}

func pointBounds(pts []Vec) Bounds {
	b := emptyBounds()
	for _, p := range pts {
		b.Min.X, b.Min.Y = min(b.Min.X, p.X), min(b.Min.Y, p.Y)
		b.Max.X, b.Max.Y = max(b.Max.X, p.X), max(b.Max.Y, p.Y)
	}
	return b
}

// edgeShift returns the displacement that pushes b against the frame edges
// named by dir, leaving buff between them.
func edgeShift(b Bounds, dir Vec, buff float64) Vec {
	var d Vec
	switch {
	case dir.X > 0:
		d.X = WorldWidth/2 - buff - b.Max.X
	case dir.X < 0:
		d.X = -WorldWidth/2 + buff - b.Min.X
	}
	switch {
	case dir.Y > 0:
		d.Y = WorldHeight/2 - buff - b.Max.Y
	case dir.Y < 0:
		d.Y = -WorldHeight/2 + buff - b.Min.Y
	}
	return d
}

// nextToShift returns the displacement that places b beside ref in direction
// dir, centred on the other axis.
func nextToShift(b, ref Bounds, dir Vec, buff float64) Vec {
	d := ref.Center().Sub(b.Center())
	switch {
	case dir.X > 0:
		d.X = ref.Max.X + buff - b.Min.X
	case dir.X < 0:
		d.X = ref.Min.X - buff - b.Max.X
	}
	switch {
	case dir.Y > 0:
		d.Y = ref.Max.Y + buff - b.Min.Y
	case dir.Y < 0:
		d.Y = ref.Min.Y - buff - b.Max.Y
	}
	return d
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func clamp01(t float64) float64 { return max(0, min(1, t)) }
