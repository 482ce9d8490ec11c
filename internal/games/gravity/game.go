// Package gravity adapts the run controller to the platform's Game
// interface and draws the world into the terminal screen buffer.
package gravity

import (
	"math"
	"time"

	"github.com/vovakirdan/gravity/internal/core"
	"github.com/vovakirdan/gravity/internal/registry"
	"github.com/vovakirdan/gravity/internal/run"
)

// Mode identifiers.
const (
	ModeCampaign = "gravity"
	ModePractice = "gravity_practice"
)

// interstitialTime is how long a full-screen ad stays up, in real seconds.
const interstitialTime = 2.0

// interstitials is implemented by ad backends that queue full-screen ads
// for the front end to show.
type interstitials interface {
	TakeInterstitial() bool
}

// banners is implemented by ad backends that expose the banner state.
type banners interface {
	BannerVisible() bool
}

// Game drives one run.Controller from platform input.
type Game struct {
	id       string
	title    string
	practice bool

	env  registry.Env
	ctrl *run.Controller
	cfg  core.RuntimeConfig

	// now returns the wall clock. Steps use the real elapsed time so the
	// FPS counter reflects the terminal's frame rate.
	now      func() time.Time
	lastStep time.Time

	adUntil float64
	quit    bool
	closed  bool
}

// New creates a game over env. Practice mode makes the ball invincible
// and keeps runs out of the profile's progress.
func New(env registry.Env, practice bool) (*Game, error) {
	opts := run.Options{
		Config:      env.Config,
		Profile:     env.Profile,
		Source:      env.Source,
		Persistence: env.Persistence,
		Progress:    env.Progress,
		History:     env.History,
		Ads:         env.Ads,
		Audio:       env.Audio,
		Logger:      env.Logger,

		SynchronousCompile: env.SynchronousCompile,
	}
	g := &Game{
		id:    ModeCampaign,
		title: "Gravity",
		env:   env,
		now:   time.Now,
	}
	if practice {
		g.id, g.title, g.practice = ModePractice, "Gravity (practice)", true
		opts.Config.Debug.InvincibleBall = true
		opts.Persistence = readOnly{env.Persistence}
		opts.Progress = nil
		opts.History = nil
	}

	ctrl, err := run.New(opts)
	if err != nil {
		return nil, err
	}
	g.ctrl = ctrl
	return g, nil
}

// readOnly loads a save record but never writes one.
type readOnly struct{ p run.Persistence }

func (r readOnly) Load(profile string) (run.SaveRecord, bool, error) {
	if r.p == nil {
		return run.SaveRecord{}, false, nil
	}
	return r.p.Load(profile)
}

func (readOnly) Save(string, run.SaveRecord) error { return nil }

// ID returns the mode identifier.
func (g *Game) ID() string { return g.id }

// Title returns the display name.
func (g *Game) Title() string { return g.title }

// Controller exposes the underlying run controller.
func (g *Game) Controller() *run.Controller { return g.ctrl }

// Reset loads the selected level.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.cfg = cfg
	g.quit = false
	g.adUntil = 0
	g.lastStep = time.Time{}
	g.ctrl.LoadLevel()
}

// Levels returns the number of playable levels.
func (g *Game) Levels() int { return g.ctrl.MaxLevels() }

// Unlocked returns the highest level that may be started: the one after
// the best completed level. Practice mode unlocks everything.
func (g *Game) Unlocked() int {
	if g.practice {
		return g.ctrl.MaxLevels()
	}
	return core.Clamp(g.ctrl.Save().HighestLevel+1, 1, g.ctrl.MaxLevels())
}

// Selected returns the level the next Reset loads.
func (g *Game) Selected() int { return g.ctrl.Session().SelectedLevel }

// SelectLevel picks the next level. Locked levels are refused.
func (g *Game) SelectLevel(id int) bool {
	if id > g.Unlocked() {
		return false
	}
	return g.ctrl.SelectLevel(id)
}

// Step applies input and advances the controller by the time elapsed
// since the previous step.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.quit {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionQuit) {
		g.quit = true
		return core.StepResult{State: g.State()}
	}

	g.handle(in)
	if !g.quit {
		g.ctrl.Tick(g.elapsed())
	}

	if q, ok := g.env.Ads.(interstitials); ok && q.TakeInterstitial() {
		g.adUntil = g.ctrl.Clock().Now(core.Unscaled) + interstitialTime
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) handle(in core.InputFrame) {
	c := g.ctrl
	switch c.Screen() {
	case run.ScreenTutorial, run.ScreenInGame:
		if in.Has(core.ActionFlip) {
			c.Tap()
		}
		if in.Has(core.ActionPause) {
			c.TogglePause()
		}
	case run.ScreenPause:
		g.adjustVolume(in)
		switch {
		case in.Has(core.ActionPause), in.Has(core.ActionFlip):
			c.ResumeGame()
		case c.CountingDown():
		case in.Has(core.ActionRestart):
			c.RestartGame(false)
		case in.Has(core.ActionMenu):
			g.toMenu()
		}
	case run.ScreenComplete, run.ScreenFailed:
		switch {
		case in.Has(core.ActionNext) && c.Completed() && c.NextLevelAvailable():
			c.NextLevel()
		case in.Has(core.ActionRestart), in.Has(core.ActionFlip):
			c.RestartGame(c.Completed())
		case in.Has(core.ActionMenu):
			g.toMenu()
		}
	case run.ScreenError:
		switch {
		case in.Has(core.ActionRefresh), in.Has(core.ActionRestart):
			c.Refresh()
		case in.Has(core.ActionMenu):
			g.toMenu()
		}
		return
	}

	if in.Has(core.ActionRefresh) && c.Screen() != run.ScreenLoading && c.Screen() != run.ScreenMenu {
		c.Refresh()
	}
}

func (g *Game) toMenu() {
	g.ctrl.MainMenu()
	g.quit = true
}

// elapsed returns the real time since the last step, limited to a few
// ticks so a stalled terminal does not tunnel the ball through a wall.
func (g *Game) elapsed() float64 {
	tick := g.cfg.TickDelta()
	now := g.now()
	last := g.lastStep
	g.lastStep = now
	if last.IsZero() {
		return tick
	}
	dt := now.Sub(last).Seconds()
	if dt <= 0 {
		return tick
	}
	return math.Min(dt, 4*tick)
}

// Background pauses a live run when the player leaves without quitting.
func (g *Game) Background() { g.ctrl.Background() }

// Close saves and releases the controller. The game cannot be reset
// afterwards.
func (g *Game) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.ctrl.Quit()
}

// State returns the platform summary of the run.
func (g *Game) State() core.GameState {
	screen := g.ctrl.Screen()
	return core.GameState{
		Score:    int(math.Round(g.ctrl.Distance())),
		GameOver: screen == run.ScreenComplete || screen == run.ScreenFailed,
		Paused:   g.ctrl.State() == run.Paused,
		Quit:     g.quit,
	}
}

func init() {
	registry.Register(ModeCampaign, "Gravity", func(env registry.Env) (registry.Game, error) {
		return New(env, false)
	})
	registry.Register(ModePractice, "Gravity (practice)", func(env registry.Env) (registry.Game, error) {
		return New(env, true)
	})
}

var (
	_ registry.Game    = (*Game)(nil)
	_ registry.Leveled = (*Game)(nil)
	_ registry.Closer  = (*Game)(nil)

	_ registry.Backgrounder = (*Game)(nil)
)

// volumeStep is how much one key press changes the volumes.
const volumeStep = 0.1

// adjustVolume moves both volumes together by one step.
func (g *Game) adjustVolume(in core.InputFrame) {
	var d float64
	switch {
	case in.Has(core.ActionVolumeDown):
		d = -volumeStep
	case in.Has(core.ActionVolumeUp):
		d = volumeStep
	default:
		return
	}
	bgm, se := g.ctrl.Volumes()
	g.ctrl.SetVolumes(math.Round((bgm+d)*10)/10, math.Round((se+d)*10)/10)
}
