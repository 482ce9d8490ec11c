package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name   string
	active bool
	log    *[]string
	onTick func()
}

func (r *recorder) Active() bool { return r.active }

func (r *recorder) Update(Time) {
	*r.log = append(*r.log, r.name)
	if r.onTick != nil {
		r.onTick()
	}
}

func TestSchedulerRunsInRegistrationOrder(t *testing.T) {
	var log []string
	s := NewScheduler(nil)
	s.Register(&recorder{name: "a", active: true, log: &log})
	s.Register(&recorder{name: "b", active: false, log: &log})
	s.Register(&recorder{name: "c", active: true, log: &log})

	s.Tick(Time{Delta: 1.0 / 60})
	s.Tick(Time{Delta: 1.0 / 60})

	assert.Equal(t, []string{"a", "c", "a", "c"}, log)
}

func TestSchedulerGate(t *testing.T) {
	var log []string
	started := false
	s := NewScheduler(func() bool { return started })
	s.Register(&recorder{name: "a", active: true, log: &log})

	s.Tick(Time{})
	assert.Empty(t, log, "tick before start must be a no-op")

	started = true
	s.Tick(Time{})
	assert.Equal(t, []string{"a"}, log)
}

func TestSchedulerDeregisterDuringTick(t *testing.T) {
	var log []string
	s := NewScheduler(nil)

	var hb Handle
	a := &recorder{name: "a", active: true, log: &log}
	a.onTick = func() { s.Deregister(hb) }
	s.Register(a)
	hb = s.Register(&recorder{name: "b", active: true, log: &log})
	s.Register(&recorder{name: "c", active: true, log: &log})

	s.Tick(Time{})
	assert.Equal(t, []string{"a", "c"}, log)
	assert.Equal(t, 2, s.Len())

	log = nil
	a.onTick = nil
	s.Tick(Time{})
	assert.Equal(t, []string{"a", "c"}, log)
}

func TestSchedulerRegisterDuringTickWaitsForNextTick(t *testing.T) {
	var log []string
	s := NewScheduler(nil)

	a := &recorder{name: "a", active: true, log: &log}
	a.onTick = func() {
		s.Register(&recorder{name: "late", active: true, log: &log})
		a.onTick = nil
	}
	s.Register(a)

	s.Tick(Time{})
	require.Equal(t, []string{"a"}, log)

	s.Tick(Time{})
	assert.Equal(t, []string{"a", "a", "late"}, log)
}

func TestSchedulerDeregisterOutsideTick(t *testing.T) {
	var log []string
	s := NewScheduler(nil)
	h := s.Register(&recorder{name: "a", active: true, log: &log})
	s.Register(&recorder{name: "b", active: true, log: &log})

	s.Deregister(h)
	s.Deregister(h)
	s.Deregister(Handle(99))
	s.Tick(Time{})

	assert.Equal(t, []string{"b"}, log)
	assert.Equal(t, 1, s.Len())
}

func TestSchedulerStats(t *testing.T) {
	var log []string
	s := NewScheduler(nil)
	h := s.Register(&recorder{name: "a", active: true, log: &log})
	s.Register(&recorder{name: "b", active: false, log: &log})

	for i := 0; i < 3; i++ {
		s.Tick(Time{})
	}

	stats := s.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, h, stats[0].Handle)
	assert.Equal(t, int64(3), stats[0].ExecutionCount)
	assert.Equal(t, int64(0), stats[1].ExecutionCount)
}
