package entity

import "github.com/vovakirdan/gravity/internal/frame"

// Scroller advances the run distance and scrolls the map frame.
type Scroller struct {
	run      Run
	frame    *Frame
	speed    float64
	distance float64
}

// NewScroller creates a scroller moving the map at speed units per second.
func NewScroller(run Run, f *Frame, speed float64) *Scroller {
	return &Scroller{run: run, frame: f, speed: speed}
}

// Active reports whether the run is live.
func (s *Scroller) Active() bool { return s.run.Live() }

// Update scrolls by one tick.
func (s *Scroller) Update(t frame.Time) {
	delta := s.speed * t.Delta
	s.distance += delta
	s.run.ReportDistance(s.distance)
	s.frame.Translate(-delta)
}

// Distance returns the distance scrolled so far.
func (s *Scroller) Distance() float64 { return s.distance }
