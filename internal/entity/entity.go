// Package entity implements the per-frame actors of a run: the map
// scroller, moving obstacles, the flag and the player ball.
package entity

import (
	"github.com/vovakirdan/gravity/internal/achievement"
	"github.com/vovakirdan/gravity/internal/core"
)

// Run is the part of the run controller the actors talk to.
type Run interface {
	// Live reports whether the run has started and is not over.
	Live() bool
	Distance() float64
	ReportDistance(d float64)
	EndRun(success bool)
	Achieve(id achievement.ID)
}

// Frame is the map's reference frame. The map scrolls left by moving the
// frame; the ball keeps its screen column.
type Frame struct {
	OffsetX float64
}

// Translate shifts the frame horizontally.
func (f *Frame) Translate(dx float64) { f.OffsetX += dx }

// ToView converts a map position to camera space.
func (f *Frame) ToView(p core.Vec2) core.Vec2 {
	return core.Vec2{X: p.X + f.OffsetX, Y: p.Y}
}

// VoidLanes reports which lanes have no outer block.
type VoidLanes interface {
	IsVoid(lane int) bool
}
