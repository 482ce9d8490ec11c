// Package core provides the platform-neutral building blocks shared by the
// game and the terminal front end: the screen buffer, input actions,
// geometry, clocks and timers. It has no Bubble Tea dependency so the game
// logic stays pure and testable.
package core

import "math"

// Rect is an integer rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a rectangle from its top-left corner and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Vec2 is a point or offset in world units. Y grows upward.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Box is an axis-aligned box in world units described by its center and
// half extents.
type Box struct {
	Center Vec2
	HalfW  float64
	HalfH  float64
}

// NewBox creates a box centered at (x, y) with full size w by h.
func NewBox(x, y, w, h float64) Box {
	return Box{Center: Vec2{x, y}, HalfW: w / 2, HalfH: h / 2}
}

// MinX returns the left edge.
func (b Box) MinX() float64 { return b.Center.X - b.HalfW }

// MaxX returns the right edge.
func (b Box) MaxX() float64 { return b.Center.X + b.HalfW }

// MinY returns the bottom edge.
func (b Box) MinY() float64 { return b.Center.Y - b.HalfH }

// MaxY returns the top edge.
func (b Box) MaxY() float64 { return b.Center.Y + b.HalfH }

// Translate returns the box moved by d.
func (b Box) Translate(d Vec2) Box {
	b.Center = b.Center.Add(d)
	return b
}

// Overlaps reports whether two boxes share interior area.
// Boxes that only touch along an edge do not overlap.
func (b Box) Overlaps(o Box) bool {
	return b.MinX() < o.MaxX()-Epsilon && o.MinX() < b.MaxX()-Epsilon &&
		b.MinY() < o.MaxY()-Epsilon && o.MinY() < b.MaxY()-Epsilon
}

// Union returns the smallest box covering both boxes.
func (b Box) Union(o Box) Box {
	minX, maxX := math.Min(b.MinX(), o.MinX()), math.Max(b.MaxX(), o.MaxX())
	minY, maxY := math.Min(b.MinY(), o.MinY()), math.Max(b.MaxY(), o.MaxY())
	return NewBox((minX+maxX)/2, (minY+maxY)/2, maxX-minX, maxY-minY)
}

// Epsilon is the tolerance used for world-space comparisons.
const Epsilon = 1e-6

// Clamp restricts val to [lo, hi].
func Clamp(val, lo, hi int) int {
	return min(max(val, lo), hi)
}

// ClampF restricts val to [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	return math.Min(math.Max(val, lo), hi)
}

// Sign returns -1 for negative values and +1 otherwise.
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
