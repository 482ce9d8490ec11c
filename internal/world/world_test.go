package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gravity/internal/achievement"
	"github.com/vovakirdan/gravity/internal/compiler"
	"github.com/vovakirdan/gravity/internal/config"
	"github.com/vovakirdan/gravity/internal/entity"
	"github.com/vovakirdan/gravity/internal/frame"
	"github.com/vovakirdan/gravity/internal/level"
	"github.com/vovakirdan/gravity/internal/physics"
)

type stubRun struct {
	live     bool
	distance float64
	ended    []bool
}

func (r *stubRun) Live() bool               { return r.live }
func (r *stubRun) Distance() float64        { return r.distance }
func (r *stubRun) ReportDistance(d float64) { r.distance = d }
func (r *stubRun) EndRun(success bool)      { r.ended = append(r.ended, success); r.live = false }
func (r *stubRun) Achieve(achievement.ID)   {}

var testGrid = level.Grid{
	"CCCCCCCCCCCCCCCCCCCC",
	"             O      ",
	"",
	"CCCCCCCCCCCCCCCCCCCC",
	"",
	"   P              F ",
	"CCCCCCCCCCCCCCCCCCCC",
}

func build(t *testing.T, sched *frame.Scheduler, run entity.Run) (*World, *physics.Gravity) {
	t.Helper()
	cfg := config.DefaultGravityConfig()
	plan, err := compiler.Compile(1, testGrid, compiler.OptionsFrom(cfg))
	require.NoError(t, err)
	g := physics.NewGravity(cfg.Physics.Gravity, 1)
	return Build(plan, sched, run, g, cfg, nil), g
}

func TestBuildRegistersActors(t *testing.T) {
	sched := frame.NewScheduler(nil)
	w, g := build(t, sched, &stubRun{})

	assert.Equal(t, 3, sched.Len(), "scroller, obstacle and player")
	assert.Len(t, w.Obstacles, 1)
	assert.Equal(t, -1.0, g.Sign(), "a lower lane spawn pulls down")
	assert.Equal(t, 3+2+1, w.Space.Len(), "merged block rows, obstacle, flag and ball")
}

func TestTeardownLeaksNothing(t *testing.T) {
	sched := frame.NewScheduler(nil)
	run := &stubRun{}

	for range 5 {
		w, _ := build(t, sched, run)
		w.Teardown()
		w.Teardown()
	}

	assert.Zero(t, sched.Len())
}

func TestWorldPlaysToTheFlag(t *testing.T) {
	run := &stubRun{live: true}
	sched := frame.NewScheduler(func() bool { return true })
	w, _ := build(t, sched, run)

	const dt = 1.0 / 60
	now := 0.0
	for i := 0; i < 60*10 && len(run.ended) == 0; i++ {
		now += dt
		w.PhysicsStep(dt)
		sched.Tick(frame.Time{Delta: dt, Now: now, Unscaled: now})
	}

	require.Equal(t, []bool{true}, run.ended)
	assert.Equal(t, entity.EndFinished, w.Player.Cause())
	assert.Greater(t, run.distance, w.Plan.TotalDistance)
}
