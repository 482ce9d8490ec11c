// Package physics is the small rigid-body layer the game runs on: an
// ambient gravity setting, a collision space backed by resolv, and bodies
// that report contacts and trigger overlaps to a listener.
package physics

import "math"

// Gravity is the world's ambient gravity on the y axis.
// It has a single writer: only the player changes its direction.
type Gravity struct {
	magnitude float64
	sign      float64
}

// NewGravity creates gravity of the given strength pulling in the
// direction of sign (+1 up, -1 down).
func NewGravity(strength, sign float64) *Gravity {
	g := &Gravity{magnitude: math.Abs(strength)}
	g.Set(sign)
	return g
}

// Y returns the signed acceleration.
func (g *Gravity) Y() float64 { return g.sign * g.magnitude }

// Sign returns +1 when gravity pulls up and -1 when it pulls down.
func (g *Gravity) Sign() float64 { return g.sign }

// Magnitude returns the strength of gravity.
func (g *Gravity) Magnitude() float64 { return g.magnitude }

// Set points gravity up for a positive sign and down otherwise.
func (g *Gravity) Set(sign float64) {
	if sign > 0 {
		g.sign = 1
	} else {
		g.sign = -1
	}
}

// Flip reverses the direction of gravity.
func (g *Gravity) Flip() { g.sign = -g.sign }

// ForceDown points gravity down regardless of its current direction.
func (g *Gravity) ForceDown() { g.sign = -1 }
