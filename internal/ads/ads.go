// Package ads provides the ad collaborators of the run controller. The
// terminal has no ad network, so the Tracker only records what would be
// shown and lets the front end draw a placeholder.
package ads

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gravity/internal/run"
)

// Tracker records banner visibility and interstitial requests.
type Tracker struct {
	mu            sync.Mutex
	banner        bool
	interstitials int
	pending       bool
	logger        *log.Logger
}

// NewTracker creates a tracker. A nil logger discards output.
func NewTracker(logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Tracker{logger: logger}
}

// ShowBanner implements run.Ads.
func (t *Tracker) ShowBanner() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.banner {
		t.logger.Debug("banner shown")
	}
	t.banner = true
	return nil
}

// HideBanner implements run.Ads.
func (t *Tracker) HideBanner() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.banner {
		t.logger.Debug("banner hidden")
	}
	t.banner = false
	return nil
}

// ShowInterstitial implements run.Ads.
func (t *Tracker) ShowInterstitial() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interstitials++
	t.pending = true
	t.logger.Info("interstitial shown", "count", t.interstitials)
	return nil
}

// BannerVisible reports whether a banner is showing.
func (t *Tracker) BannerVisible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.banner
}

// Interstitials returns how many interstitials were requested.
func (t *Tracker) Interstitials() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interstitials
}

// TakeInterstitial reports whether an interstitial is waiting to be
// drawn and marks it as seen.
func (t *Tracker) TakeInterstitial() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.pending
	t.pending = false
	return p
}

// Nop ignores every request.
type Nop struct{}

func (Nop) ShowBanner() error       { return nil }
func (Nop) HideBanner() error       { return nil }
func (Nop) ShowInterstitial() error { return nil }

var (
	_ run.Ads = (*Tracker)(nil)
	_ run.Ads = Nop{}
)
