package entity

import (
	"math"

	"github.com/vovakirdan/gravity/internal/compiler"
	"github.com/vovakirdan/gravity/internal/config"
	"github.com/vovakirdan/gravity/internal/core"
	"github.com/vovakirdan/gravity/internal/frame"
	"github.com/vovakirdan/gravity/internal/physics"
)

// ObstacleState is the phase of an obstacle's cycle.
type ObstacleState uint8

const (
	ObstacleFalling ObstacleState = iota
	ObstacleResting
)

func (s ObstacleState) String() string {
	if s == ObstacleResting {
		return "resting"
	}
	return "falling"
}

// Obstacle travels from its spawn along y, snaps back once it has covered
// its travel distance and rests there before starting again.
type Obstacle struct {
	spawn    core.Vec2
	pos      core.Vec2
	speed    float64
	travel   float64
	wait     float64
	view     config.ViewConfig
	frame    *Frame
	trigger  *physics.Trigger
	state    ObstacleState
	resumeAt float64
}

// NewObstacle creates an obstacle at its spawn. The trigger follows it and
// may be nil in tests.
func NewObstacle(spec compiler.ObstacleSpec, cfg config.ObstacleConfig, view config.ViewConfig, f *Frame, trigger *physics.Trigger) *Obstacle {
	return &Obstacle{
		spawn:   spec.Spawn,
		pos:     spec.Spawn,
		speed:   spec.Speed,
		travel:  cfg.TravelDistance,
		wait:    cfg.WaitTime,
		view:    view,
		frame:   f,
		trigger: trigger,
	}
}

// Position returns the obstacle's map position.
func (o *Obstacle) Position() core.Vec2 { return o.pos }

// Spawn returns the position the obstacle starts from.
func (o *Obstacle) Spawn() core.Vec2 { return o.spawn }

// State returns the current phase.
func (o *Obstacle) State() ObstacleState { return o.state }

// Visible reports whether the obstacle's column is inside the camera view.
func (o *Obstacle) Visible() bool {
	x := o.frame.ToView(o.spawn).X
	return x >= o.view.MinX && x <= o.view.MaxX
}

// Active reports whether the obstacle has a travel target and is on screen.
func (o *Obstacle) Active() bool {
	return o.travel > 0 && o.speed != 0 && o.Visible()
}

// Update advances the cycle by one tick.
func (o *Obstacle) Update(t frame.Time) {
	if o.state == ObstacleResting {
		if t.Now < o.resumeAt {
			return
		}
		o.state = ObstacleFalling
	}

	if o.reachedEnd() {
		o.pos = o.spawn
		o.state = ObstacleResting
		o.resumeAt = t.Now + o.wait
		o.sync()
		return
	}

	o.pos.Y += o.speed * t.Delta
	o.sync()
}

// reachedEnd reports whether the obstacle covered its travel distance or
// moved behind its spawn.
func (o *Obstacle) reachedEnd() bool {
	d := o.pos.Y - o.spawn.Y
	return math.Abs(d) >= o.travel-core.Epsilon || d*o.speed < 0
}

func (o *Obstacle) sync() {
	if o.trigger != nil {
		o.trigger.Move(o.pos)
	}
}
