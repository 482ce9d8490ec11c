package entity

import (
	"math"

	"github.com/vovakirdan/gravity/internal/achievement"
	"github.com/vovakirdan/gravity/internal/compiler"
	"github.com/vovakirdan/gravity/internal/config"
	"github.com/vovakirdan/gravity/internal/core"
	"github.com/vovakirdan/gravity/internal/frame"
	"github.com/vovakirdan/gravity/internal/physics"
)

// PlayerState is the ball's movement state.
type PlayerState uint8

const (
	Airborne PlayerState = iota
	Grounded
	RunEnded
)

func (s PlayerState) String() string {
	switch s {
	case Airborne:
		return "airborne"
	case Grounded:
		return "grounded"
	case RunEnded:
		return "ended"
	}
	return "unknown"
}

// EndCause records why the ball stopped playing.
type EndCause uint8

const (
	EndNone EndCause = iota
	EndFinished
	EndHazard
	EndObstacle
	EndOutOfBounds
)

func (c EndCause) String() string {
	switch c {
	case EndNone:
		return "none"
	case EndFinished:
		return "finished"
	case EndHazard:
		return "hazard"
	case EndObstacle:
		return "obstacle"
	case EndOutOfBounds:
		return "out of bounds"
	}
	return "unknown"
}

// Destroyed reports whether the ball was smashed rather than left
// the map some other way.
func (c EndCause) Destroyed() bool {
	return c == EndHazard || c == EndObstacle
}

// Effects receives the ball's visual and audio cues.
type Effects interface {
	BallDestroyed(pos core.Vec2)
}

const trailLength = 6

// stuckLanes are the y values of the three block rows.
var stuckLanes = [...]float64{7, 3.5, 0}

// PlayerOptions configures a player.
type PlayerOptions struct {
	Spec       compiler.PlayerSpec
	Size       float64
	Speed      float64 // Map speed, used while coasting
	Invincible bool
	Bounds     config.PlayerConfig
	Voids      VoidLanes
	Effects    Effects
}

// Player is the ball. It owns a physics body and reacts to its contacts.
type Player struct {
	run     Run
	body    *physics.Body
	gravity *physics.Gravity
	opts    PlayerOptions

	state     PlayerState
	cause     EndCause
	active    bool
	canSwitch bool
	tapped    bool

	coasted float64

	inBand     bool
	bandFrom   float64
	stuckFired bool

	trail    []core.Vec2
	trailOff bool
}

// NewPlayer adds the ball to space at its spawn.
func NewPlayer(run Run, space *physics.Space, g *physics.Gravity, opts PlayerOptions) *Player {
	p := &Player{
		run:     run,
		gravity: g,
		opts:    opts,
		active:  true,
	}
	pos := opts.Spec.Spawn
	p.body = space.NewBody(core.NewBox(pos.X, pos.Y, opts.Size, opts.Size), p)
	return p
}

// Position returns the ball's map position.
func (p *Player) Position() core.Vec2 { return p.body.Position() }

// State returns the movement state.
func (p *Player) State() PlayerState { return p.state }

// Cause returns why the run ended, or EndNone.
func (p *Player) Cause() EndCause { return p.cause }

// CanSwitch reports whether a tap would flip gravity now.
func (p *Player) CanSwitch() bool { return p.state == Grounded && p.canSwitch }

// Trail returns recent ball positions, oldest first. It is empty once the
// trail has been detached.
func (p *Player) Trail() []core.Vec2 { return p.trail }

// Tap requests a gravity flip. It is applied on the next update and
// dropped if the ball cannot switch then.
func (p *Player) Tap() { p.tapped = true }

// Active reports whether the ball still takes part in the run.
func (p *Player) Active() bool { return p.active }

// PrePhysics keeps the ball in its column and applies gravity. It runs
// before every physics step.
func (p *Player) PrePhysics() {
	if !p.active || !p.body.Enabled() {
		return
	}
	p.body.SetX(p.opts.Spec.Spawn.X + p.run.Distance() + p.coasted)
	p.body.AddForce(p.gravity.Y())
}

// Update applies input and checks bounds once per tick.
func (p *Player) Update(t frame.Time) {
	if p.tapped {
		p.tapped = false
		if p.CanSwitch() {
			p.gravity.Flip()
			p.canSwitch = false
		}
	}

	if p.state == RunEnded {
		p.coast(t.Delta)
		return
	}
	p.recordTrail()
	if !p.run.Live() {
		return
	}
	p.checkStuck()
	p.checkBounds()
}

func (p *Player) recordTrail() {
	if p.trailOff {
		return
	}
	if len(p.trail) == trailLength {
		copy(p.trail, p.trail[1:])
		p.trail = p.trail[:trailLength-1]
	}
	p.trail = append(p.trail, p.body.Position())
}

// coast moves a finished ball forward at map speed until it has left
// the screen.
func (p *Player) coast(dt float64) {
	p.coasted += p.opts.Speed * dt
	p.recordTrail()
	if p.coasted < p.opts.Bounds.CoastDistance {
		return
	}
	p.trail = nil
	p.trailOff = true
	p.deactivate()
}

func (p *Player) checkStuck() {
	if p.state != Grounded {
		p.inBand = false
		return
	}
	y := p.body.Position().Y
	in := false
	for _, lane := range stuckLanes {
		if math.Abs(y-lane) <= p.opts.Bounds.StuckBand {
			in = true
			break
		}
	}
	if !in {
		p.resetStuck()
		return
	}

	d := p.run.Distance()
	if !p.inBand {
		p.inBand = true
		p.bandFrom = d
		return
	}
	if !p.stuckFired && d-p.bandFrom >= p.opts.Bounds.StuckDistance {
		p.stuckFired = true
		p.run.Achieve(achievement.InstructionsUnclear)
	}
}

func (p *Player) resetStuck() {
	p.inBand = false
	p.bandFrom = 0
	p.stuckFired = false
}

func (p *Player) checkBounds() {
	b := p.opts.Bounds
	pos := p.body.Position()

	if pos.Y >= b.HardMaxY || pos.Y <= b.HardMinY {
		p.outOfBounds()
		return
	}

	lane := int(math.Floor(p.run.Distance()))
	if p.opts.Voids != nil && p.opts.Voids.IsVoid(lane) {
		switch {
		case pos.Y > b.SwitchPosY:
			p.body.SetPosition(core.Vec2{X: pos.X, Y: b.SwitchNegY + b.SwitchInset})
		case pos.Y < b.SwitchNegY:
			p.body.SetPosition(core.Vec2{X: pos.X, Y: b.SwitchPosY - b.SwitchInset})
		}
		return
	}

	if pos.Y >= b.LaneMaxY || pos.Y <= b.LaneMinY {
		p.outOfBounds()
	}
}

func (p *Player) outOfBounds() {
	p.run.Achieve(achievement.BanishedToTheShadowRealm)
	p.end(EndOutOfBounds)
}

// OnContactBegin handles touching spikes and platforms.
func (p *Player) OnContactBegin(tag string) {
	if p.state == RunEnded {
		return
	}
	switch tag {
	case compiler.TagSpike:
		if p.opts.Invincible {
			return
		}
		p.run.Achieve(achievement.OohThatsGottaHurt)
		p.end(EndHazard)
	case compiler.TagPlatform:
		p.state = Grounded
		p.canSwitch = true
	}
}

// OnContactEnd leaves the ground.
func (p *Player) OnContactEnd(string) {
	if p.state == RunEnded {
		return
	}
	p.state = Airborne
	p.resetStuck()
}

// OnTriggerEnter handles obstacles and the flag.
func (p *Player) OnTriggerEnter(tag string) {
	if p.state == RunEnded {
		return
	}
	switch tag {
	case compiler.TagObstacle:
		if p.opts.Invincible {
			return
		}
		p.run.Achieve(achievement.ObstacleSmash)
		p.end(EndObstacle)
	case compiler.TagFlag:
		p.gravity.ForceDown()
		p.end(EndFinished)
	}
}

func (p *Player) end(cause EndCause) {
	p.state = RunEnded
	p.cause = cause
	p.canSwitch = false
	p.tapped = false

	if cause.Destroyed() {
		if p.opts.Effects != nil {
			p.opts.Effects.BallDestroyed(p.body.Position())
		}
		p.trail = nil
		p.trailOff = true
		p.deactivate()
	}
	p.run.EndRun(cause == EndFinished)
}

func (p *Player) deactivate() {
	p.active = false
	p.body.SetEnabled(false)
}
