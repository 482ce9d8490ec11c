package core

import (
	"cmp"
	"slices"
)

// TimerID identifies a pending timer.
type TimerID uint64

type timer struct {
	id   TimerID
	kind ClockKind
	due  float64
	fn   func()
}

// Timers is a queue of delayed callbacks, each bound to one clock base.
// Callbacks run on the goroutine that calls Fire, never concurrently.
type Timers struct {
	clock   *Clock
	nextID  TimerID
	pending []timer
	firing  []timer
}

// NewTimers creates a timer queue reading time from clock.
func NewTimers(clock *Clock) *Timers {
	return &Timers{clock: clock}
}

// After schedules fn to run once delay seconds have elapsed on the given
// clock base. A non-positive delay fires on the next Fire call.
func (t *Timers) After(kind ClockKind, delay float64, fn func()) TimerID {
	t.nextID++
	t.pending = append(t.pending, timer{
		id:   t.nextID,
		kind: kind,
		due:  t.clock.Now(kind) + delay,
		fn:   fn,
	})
	return t.nextID
}

// Cancel removes a pending timer. It reports whether the timer was pending.
func (t *Timers) Cancel(id TimerID) bool {
	for i, p := range t.pending {
		if p.id == id {
			t.pending = slices.Delete(t.pending, i, i+1)
			return true
		}
	}
	for i := range t.firing {
		if t.firing[i].id == id && t.firing[i].fn != nil {
			t.firing[i].fn = nil
			return true
		}
	}
	return false
}

// CancelAll drops every pending timer.
func (t *Timers) CancelAll() {
	t.pending = t.pending[:0]
	for i := range t.firing {
		t.firing[i].fn = nil
	}
}

// Len returns the number of pending timers.
func (t *Timers) Len() int { return len(t.pending) }

// Fire runs every timer that is due and returns how many ran. Scaled
// timers run before unscaled ones, each clock earliest first. Timers scheduled by a callback are not run until the next call,
// and timers cancelled by a callback do not run.
func (t *Timers) Fire() int {
	var due []timer
	kept := t.pending[:0]
	for _, p := range t.pending {
		if p.due <= t.clock.Now(p.kind)+Epsilon {
			due = append(due, p)
		} else {
			kept = append(kept, p)
		}
	}
	t.pending = kept
	if len(due) == 0 {
		return 0
	}

	// Deadlines on different clocks are not comparable.
	slices.SortFunc(due, func(a, b timer) int {
		return cmp.Or(
			cmp.Compare(a.kind, b.kind),
			cmp.Compare(a.due, b.due),
			cmp.Compare(a.id, b.id),
		)
	})
	t.firing = due
	ran := 0
	for i := range t.firing {
		if fn := t.firing[i].fn; fn != nil {
			t.firing[i].fn = nil
			fn()
			ran++
		}
	}
	t.firing = nil
	return ran
}
