// Package frame fans a per-tick update out to every live game entity.
package frame

import "github.com/kamstrup/intmap"

// Time is the timing information handed to entities each tick.
type Time struct {
	Delta    float64 // Scaled seconds since the previous tick
	Now      float64 // Scaled seconds since the clock started
	Unscaled float64 // Real seconds since the clock started
}

// Updatable is implemented by every entity that takes part in the frame loop.
// Update is only called while Active reports true.
type Updatable interface {
	Active() bool
	Update(t Time)
}

// Handle identifies a registration so it can be removed later.
type Handle uint64

type entry struct {
	handle  Handle
	u       Updatable
	removed bool
	execs   int64
}

// Stats reports how often a registered entity has been updated.
type Stats struct {
	Handle         Handle
	ExecutionCount int64
}

// Scheduler calls Update on registered entities in registration order.
// Entities registered during a tick are first visited on the next tick.
// Entities deregistered during a tick are skipped for the rest of it.
type Scheduler struct {
	entries []*entry
	index   *intmap.Map[Handle, *entry]
	next    Handle
	gate    func() bool
	ticking bool
	dirty   bool
}

// NewScheduler creates a scheduler. Ticks are ignored while gate returns
// false; a nil gate always allows them.
func NewScheduler(gate func() bool) *Scheduler {
	return &Scheduler{gate: gate, index: intmap.New[Handle, *entry](64)}
}

// Register adds u to the end of the update order.
func (s *Scheduler) Register(u Updatable) Handle {
	s.next++
	e := &entry{handle: s.next, u: u}
	s.entries = append(s.entries, e)
	s.index.Put(e.handle, e)
	return e.handle
}

// Deregister removes a registration. Unknown handles are ignored.
func (s *Scheduler) Deregister(h Handle) {
	e, ok := s.index.Get(h)
	if !ok {
		return
	}
	s.index.Del(h)
	e.removed = true
	s.dirty = true
	if !s.ticking {
		s.compact()
	}
}

// Len returns the number of live registrations.
func (s *Scheduler) Len() int {
	return s.index.Len()
}

// Tick updates every active entity once, unless the gate is closed.
func (s *Scheduler) Tick(t Time) {
	if s.gate != nil && !s.gate() {
		return
	}

	s.ticking = true
	count := len(s.entries)
	for i := 0; i < count; i++ {
		e := s.entries[i]
		if e.removed || !e.u.Active() {
			continue
		}
		e.u.Update(t)
		e.execs++
	}
	s.ticking = false

	if s.dirty {
		s.compact()
	}
}

func (s *Scheduler) compact() {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if !e.removed {
			kept = append(kept, e)
		}
	}
	clear(s.entries[len(kept):])
	s.entries = kept
	s.dirty = false
}

// Stats returns per-registration execution counts in update order.
func (s *Scheduler) Stats() []Stats {
	out := make([]Stats, 0, len(s.entries))
	for _, e := range s.entries {
		if e.removed {
			continue
		}
		out = append(out, Stats{Handle: e.handle, ExecutionCount: e.execs})
	}
	return out
}
