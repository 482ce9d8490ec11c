package tui

import (
	"io"
	"sync"

	"github.com/vovakirdan/gravity/internal/run"
)

// Bell plays sound effects as the terminal bell. Muted sounds are
// skipped.
type Bell struct {
	mu  sync.Mutex
	out io.Writer
	n   int
}

// NewBell rings on out.
func NewBell(out io.Writer) *Bell {
	return &Bell{out: out}
}

// Play rings once for any sound played with a positive volume.
func (b *Bell) Play(_ run.Sound, volume float64) {
	if b == nil || volume <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.out == nil {
		return
	}
	if _, err := io.WriteString(b.out, "\a"); err == nil {
		b.n++
	}
}

// Rings returns how many times the bell rang.
func (b *Bell) Rings() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}

var _ run.Audio = (*Bell)(nil)
