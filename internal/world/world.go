// Package world instantiates a compiled map: static colliders, actors and
// their frame registrations. A world is torn down before the next map is
// built.
package world

import (
	"github.com/vovakirdan/gravity/internal/compiler"
	"github.com/vovakirdan/gravity/internal/config"
	"github.com/vovakirdan/gravity/internal/core"
	"github.com/vovakirdan/gravity/internal/entity"
	"github.com/vovakirdan/gravity/internal/frame"
	"github.com/vovakirdan/gravity/internal/physics"
)

// margin is the extra room around the map covered by the physics space.
const margin = 2

// World is one instantiated map.
type World struct {
	Plan      *compiler.Plan
	Space     *physics.Space
	Frame     *entity.Frame
	Scroller  *entity.Scroller
	Obstacles []*entity.Obstacle
	Flag      *entity.Flag
	Player    *entity.Player

	sched   *frame.Scheduler
	handles []frame.Handle
}

// Build creates the world for plan, registers its actors on sched and
// sets g to the map's initial gravity direction.
func Build(plan *compiler.Plan, sched *frame.Scheduler, run entity.Run, g *physics.Gravity, cfg config.GravityConfig, fx entity.Effects) *World {
	w := &World{
		Plan:  plan,
		Frame: &entity.Frame{},
		sched: sched,
	}

	w.Space = physics.NewSpace(physics.Bounds{
		MinX: compiler.LeftOffset - margin,
		MaxX: compiler.ColumnX(plan.Width) + cfg.Player.CoastDistance + margin,
		MinY: cfg.Player.HardMinY - margin,
		MaxY: cfg.Player.HardMaxY + margin,
	}, compiler.TagPlatform)
	w.Space.AddStatic(plan.Blocks.Tag, plan.Blocks.Boxes...)
	w.Space.AddStatic(plan.Spikes.Tag, plan.Spikes.Boxes...)

	g.Set(plan.Player.GravitySign)

	w.Scroller = entity.NewScroller(run, w.Frame, cfg.Physics.MapSpeed)
	w.register(w.Scroller)

	size := cfg.Physics.BlockSize
	for _, spec := range plan.Obstacles {
		tr := w.Space.AddTrigger(compiler.TagObstacle, core.NewBox(spec.Spawn.X, spec.Spawn.Y, size, size))
		o := entity.NewObstacle(spec, cfg.Obstacles, cfg.View, w.Frame, tr)
		w.Obstacles = append(w.Obstacles, o)
		w.register(o)
	}

	flag := w.Space.AddTrigger(compiler.TagFlag, core.NewBox(plan.Flag.X, plan.Flag.Y, size, size))
	w.Flag = entity.NewFlag(plan.Flag, flag)

	w.Player = entity.NewPlayer(run, w.Space, g, entity.PlayerOptions{
		Spec:       plan.Player,
		Size:       cfg.Physics.BallSize,
		Speed:      cfg.Physics.MapSpeed,
		Invincible: cfg.Debug.InvincibleBall,
		Bounds:     cfg.Player,
		Voids:      plan,
		Effects:    fx,
	})
	w.register(w.Player)
	return w
}

func (w *World) register(u frame.Updatable) {
	w.handles = append(w.handles, w.sched.Register(u))
}

// PhysicsStep advances the physics simulation by dt scaled seconds.
func (w *World) PhysicsStep(dt float64) {
	if dt <= 0 {
		return
	}
	w.Player.PrePhysics()
	w.Space.Step(dt)
}

// Distance returns the distance scrolled so far.
func (w *World) Distance() float64 {
	return w.Scroller.Distance()
}

// Teardown deregisters every actor and empties the physics space.
// It is safe to call more than once.
func (w *World) Teardown() {
	for _, h := range w.handles {
		w.sched.Deregister(h)
	}
	w.handles = nil
	w.Space.Clear()
}
