package physics

import (
	"github.com/solarlune/resolv"

	"github.com/vovakirdan/gravity/internal/core"
)

// Body is a dynamic box that falls under applied forces, is blocked by
// solid colliders and reports contacts to its listener. It only moves on
// the y axis; its x is set by the owner.
type Body struct {
	space    *Space
	obj      *resolv.Object
	box      core.Box
	vy       float64
	ay       float64
	listener ContactListener
	enabled  bool

	touching map[string]bool
	inside   map[*Trigger]bool
}

// Position returns the body's center.
func (b *Body) Position() core.Vec2 { return b.box.Center }

// SetPosition moves the body without sweeping. Overlaps are resolved on
// the next step.
func (b *Body) SetPosition(p core.Vec2) {
	b.box.Center = p
	b.sync()
}

// SetX moves the body horizontally.
func (b *Body) SetX(x float64) {
	b.box.Center.X = x
	b.sync()
}

// Box returns the body's collider.
func (b *Body) Box() core.Box { return b.box }

// VelocityY returns the vertical velocity.
func (b *Body) VelocityY() float64 { return b.vy }

// SetVelocityY overrides the vertical velocity.
func (b *Body) SetVelocityY(v float64) { b.vy = v }

// AddForce accumulates a vertical acceleration for the next step.
func (b *Body) AddForce(ay float64) { b.ay += ay }

// Enabled reports whether the body is simulated.
func (b *Body) Enabled() bool { return b.enabled }

// SetEnabled starts or stops simulating the body. A disabled body keeps
// its position and stops reporting events.
func (b *Body) SetEnabled(on bool) { b.enabled = on }

// Touching reports whether the body is currently in contact with tag.
func (b *Body) Touching(tag string) bool { return b.touching[tag] }

func (b *Body) sync() {
	b.space.place(b.obj, b.box)
}

func (b *Body) step(dt float64) {
	b.vy += b.ay * dt
	b.ay = 0

	b.depenetrate()
	b.moveY(b.vy * dt)
	b.sync()
	b.dispatch()
}

// depenetrate pushes the body out of solid colliders along the shorter
// vertical direction.
func (b *Body) depenetrate() {
	for range 3 {
		hits := b.space.query(b.box, b.space.solid)
		if len(hits) == 0 {
			return
		}
		ob := hits[0]
		up := ob.MaxY() - b.box.MinY()
		down := b.box.MaxY() - ob.MinY()
		if up <= down {
			b.box.Center.Y += up
			b.vy = max(b.vy, 0)
		} else {
			b.box.Center.Y -= down
			b.vy = min(b.vy, 0)
		}
	}
}

func (b *Body) moveY(dy float64) {
	if dy == 0 {
		return
	}
	target := b.box.Translate(core.Vec2{Y: dy})
	hit := false
	for _, ob := range b.space.query(b.box.Union(target), b.space.solid) {
		switch {
		case dy < 0 && ob.MaxY() <= b.box.MinY()+core.Epsilon && ob.MaxY() > target.MinY():
			target.Center.Y = ob.MaxY() + b.box.HalfH
			hit = true
		case dy > 0 && ob.MinY() >= b.box.MaxY()-core.Epsilon && ob.MinY() < target.MaxY():
			target.Center.Y = ob.MinY() - b.box.HalfH
			hit = true
		}
	}
	b.box = target
	if hit {
		b.vy = 0
	}
}

// dispatch compares the body's overlaps with the previous step and
// reports changes: contact colliders first, then triggers, then solids.
// It stops as soon as a listener disables the body.
func (b *Body) dispatch() {
	for _, tag := range b.space.contacts {
		now := len(b.space.query(b.box, tag)) > 0
		if !b.transition(tag, now) {
			return
		}
	}

	current := b.space.overlappingTriggers(b.box)
	for _, t := range b.space.order {
		if current[t] && !b.inside[t] {
			b.inside[t] = true
			if b.listener != nil {
				b.listener.OnTriggerEnter(t.tag)
			}
			if !b.enabled {
				return
			}
		}
	}
	for t := range b.inside {
		if !current[t] {
			delete(b.inside, t)
		}
	}

	probe := b.box
	probe.HalfH += skin
	b.transition(b.space.solid, len(b.space.query(probe, b.space.solid)) > 0)
}

// transition records a contact state for tag and reports whether the body
// is still enabled afterwards.
func (b *Body) transition(tag string, now bool) bool {
	was := b.touching[tag]
	if now == was {
		return true
	}
	b.touching[tag] = now
	if b.listener != nil {
		if now {
			b.listener.OnContactBegin(tag)
		} else {
			b.listener.OnContactEnd(tag)
		}
	}
	return b.enabled
}
