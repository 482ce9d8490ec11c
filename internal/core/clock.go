package core

// ClockKind selects which time base a timer or entity follows.
type ClockKind uint8

const (
	// Scaled time stops while the game is paused.
	Scaled ClockKind = iota
	// Unscaled time always advances with real ticks.
	Unscaled
)

// Clock tracks scaled and unscaled game time in seconds.
// It advances only when the owner calls Advance, so simulations stay
// deterministic for a given sequence of tick deltas.
type Clock struct {
	scale    float64
	scaled   float64
	unscaled float64

	scaledDelta   float64
	unscaledDelta float64
}

// NewClock returns a clock at time zero with a scale of 1.
func NewClock() *Clock {
	return &Clock{scale: 1}
}

// Advance moves both time bases forward by one real tick of dt seconds
// and returns the scaled delta.
func (c *Clock) Advance(dt float64) float64 {
	c.unscaledDelta = dt
	c.scaledDelta = dt * c.scale
	c.unscaled += dt
	c.scaled += c.scaledDelta
	return c.scaledDelta
}

// SetScale sets the multiplier applied to scaled time. 0 freezes it.
func (c *Clock) SetScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	c.scale = scale
}

// Scale returns the current time scale.
func (c *Clock) Scale() float64 { return c.scale }

// Now returns the current time on the given base.
func (c *Clock) Now(kind ClockKind) float64 {
	if kind == Unscaled {
		return c.unscaled
	}
	return c.scaled
}

// Delta returns the duration of the last tick on the given base.
func (c *Clock) Delta(kind ClockKind) float64 {
	if kind == Unscaled {
		return c.unscaledDelta
	}
	return c.scaledDelta
}
