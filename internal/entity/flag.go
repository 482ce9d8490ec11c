package entity

import (
	"github.com/vovakirdan/gravity/internal/core"
	"github.com/vovakirdan/gravity/internal/physics"
)

// Flag marks the end of the map.
type Flag struct {
	pos     core.Vec2
	trigger *physics.Trigger
}

// NewFlag creates the flag actor.
func NewFlag(pos core.Vec2, trigger *physics.Trigger) *Flag {
	return &Flag{pos: pos, trigger: trigger}
}

// Position returns the flag's map position.
func (f *Flag) Position() core.Vec2 { return f.pos }

// Trigger returns the flag's trigger volume.
func (f *Flag) Trigger() *physics.Trigger { return f.trigger }
