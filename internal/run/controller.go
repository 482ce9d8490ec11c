// Package run drives one play session: it loads maps, starts, pauses and
// ends runs, and reports results to the save, achievement and ad
// collaborators.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gravity/internal/achievement"
	"github.com/vovakirdan/gravity/internal/compiler"
	"github.com/vovakirdan/gravity/internal/config"
	"github.com/vovakirdan/gravity/internal/core"
	"github.com/vovakirdan/gravity/internal/frame"
	"github.com/vovakirdan/gravity/internal/level"
	"github.com/vovakirdan/gravity/internal/physics"
	"github.com/vovakirdan/gravity/internal/world"
)

// State is the phase of the current run.
type State uint8

const (
	NotStarted State = iota
	Playing
	Paused
	Over
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Over:
		return "over"
	}
	return "unknown"
}

// Screen is the overlay the front end should show.
type Screen uint8

const (
	ScreenMenu Screen = iota
	ScreenLoading
	ScreenTutorial
	ScreenInGame
	ScreenPause
	ScreenComplete
	ScreenFailed
	ScreenError
)

// Options configures a Controller. Nil collaborators are replaced with
// no-ops.
type Options struct {
	Config      config.GravityConfig
	Profile     string
	Source      level.Source
	Persistence Persistence
	Progress    Progress
	Ads         Ads
	Audio       Audio
	History     History
	Logger      *log.Logger

	// SynchronousCompile compiles maps inside LoadLevel. Results are
	// still applied on the next tick.
	SynchronousCompile bool
}

// Burst is the last ball destruction, for the renderer.
type Burst struct {
	Pos core.Vec2
	At  float64 // Unscaled time of the destruction
}

// Controller owns the clocks, the frame scheduler and the current world.
// It is not safe for concurrent use; every method must be called from the
// goroutine that calls Tick.
type Controller struct {
	cfg     config.GravityConfig
	profile string
	logger  *log.Logger

	persistence Persistence
	progress    Progress
	ads         Ads
	audio       Audio
	history     History

	ctx    context.Context
	cancel context.CancelFunc

	clock    *core.Clock
	timers   *core.Timers
	sched    *frame.Scheduler
	gravity  *physics.Gravity
	compiler *compiler.Compiler
	world    *world.World

	save      SaveRecord
	session   Session
	maxLevels int

	state        State
	screen       Screen
	started      bool
	tutorial     bool
	countingDown bool
	pauseText    string
	completed    bool
	nextLevel    bool
	distance     float64
	loadErr      error
	burst        *Burst

	fpsDelta float64
}

// New creates a controller and loads the profile's save record.
func New(opts Options) (*Controller, error) {
	if opts.Source == nil {
		return nil, errors.New("run: no level source")
	}
	ids, err := opts.Source.IDs()
	if err != nil {
		return nil, fmt.Errorf("run: cannot list levels: %w", err)
	}
	if len(ids) == 0 {
		return nil, errors.New("run: level source is empty")
	}

	c := &Controller{
		cfg:         opts.Config,
		profile:     opts.Profile,
		logger:      opts.Logger,
		persistence: opts.Persistence,
		progress:    opts.Progress,
		ads:         opts.Ads,
		audio:       opts.Audio,
		history:     opts.History,
		maxLevels:   maxContiguous(ids),
		pauseText:   "Paused",
		screen:      ScreenMenu,
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	if c.persistence == nil {
		c.persistence = nopPersistence{}
	}
	if c.progress == nil {
		c.progress = nopProgress{}
	}
	if c.ads == nil {
		c.ads = nopAds{}
	}
	if c.audio == nil {
		c.audio = nopAudio{}
	}
	if c.history == nil {
		c.history = nopHistory{}
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.clock = core.NewClock()
	c.timers = core.NewTimers(c.clock)
	c.sched = frame.NewScheduler(func() bool { return c.started })
	c.gravity = physics.NewGravity(c.cfg.Physics.Gravity, -1)
	c.compiler = compiler.NewCompiler(opts.Source, compiler.OptionsFrom(c.cfg), c.logger)
	c.compiler.Synchronous = opts.SynchronousCompile

	c.save = c.loadSave()
	ads := c.cfg.Run.GamesBetweenAds
	if ads <= 0 {
		ads = gamesBetweenAds
	}
	c.session = Session{
		SelectedLevel: core.Clamp(c.save.HighestLevel, 1, c.maxLevels),
		GamesUntilAd:  ads,
	}
	return c, nil
}

// maxContiguous returns the highest id n such that 1..n are all present.
func maxContiguous(ids []int) int {
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	n := 0
	for seen[n+1] {
		n++
	}
	return n
}

func (c *Controller) loadSave() SaveRecord {
	rec, ok, err := c.persistence.Load(c.profile)
	if err != nil {
		c.logger.Warn("cannot load save, using defaults", "profile", c.profile, "err", err)
		return DefaultSaveRecord()
	}
	if !ok {
		return DefaultSaveRecord()
	}
	return rec.Normalize()
}

// State returns the run state.
func (c *Controller) State() State { return c.state }

// Screen returns the overlay to display.
func (c *Controller) Screen() Screen { return c.screen }

// Session returns the unsaved session data.
func (c *Controller) Session() Session { return c.session }

// Save returns the current save record.
func (c *Controller) Save() SaveRecord { return c.save }

// MaxLevels returns the number of playable levels.
func (c *Controller) MaxLevels() int { return c.maxLevels }

// World returns the current map, or nil while loading.
func (c *Controller) World() *world.World { return c.world }

// Clock returns the controller's clock.
func (c *Controller) Clock() *core.Clock { return c.clock }

// Gravity returns the ambient gravity.
func (c *Controller) Gravity() *physics.Gravity { return c.gravity }

// Scheduler returns the frame scheduler.
func (c *Controller) Scheduler() *frame.Scheduler { return c.sched }

// PauseText returns the text of the pause overlay.
func (c *Controller) PauseText() string { return c.pauseText }

// CountingDown reports whether a resume countdown is running.
func (c *Controller) CountingDown() bool { return c.countingDown }

// Completed reports whether the last finished run reached the flag.
func (c *Controller) Completed() bool { return c.completed }

// NextLevelAvailable reports whether a level follows the selected one.
func (c *Controller) NextLevelAvailable() bool { return c.nextLevel }

// Err returns the error that stopped the last map load.
func (c *Controller) Err() error { return c.loadErr }

// LastBurst returns the most recent ball destruction, if any.
func (c *Controller) LastBurst() (Burst, bool) {
	if c.burst == nil {
		return Burst{}, false
	}
	return *c.burst, true
}

// Started reports whether the current run has begun.
func (c *Controller) Started() bool { return c.started }

// Live reports whether the run has started and is not over.
func (c *Controller) Live() bool { return c.started && c.state != Over }

// Distance returns the distance travelled in this run.
func (c *Controller) Distance() float64 { return c.distance }

// ReportDistance records the distance travelled.
func (c *Controller) ReportDistance(d float64) { c.distance = d }

// TotalDistance returns the length of the current map.
func (c *Controller) TotalDistance() float64 {
	if c.world == nil {
		return 0
	}
	return c.world.Plan.TotalDistance
}

// Tick advances the game by dt real seconds.
func (c *Controller) Tick(dt float64) {
	scaled := c.clock.Advance(dt)
	c.fpsDelta += (dt - c.fpsDelta) * 0.1

	if res, ok := c.compiler.Poll(); ok {
		c.apply(res)
	}
	c.timers.Fire()

	if c.world != nil {
		c.world.PhysicsStep(scaled)
	}
	c.sched.Tick(frame.Time{
		Delta:    scaled,
		Now:      c.clock.Now(core.Scaled),
		Unscaled: c.clock.Now(core.Unscaled),
	})
}

// SelectLevel chooses the level to play next. It returns false for
// ids outside the level range.
func (c *Controller) SelectLevel(id int) bool {
	if id < 1 || id > c.maxLevels {
		return false
	}
	c.session.SelectedLevel = id
	return true
}

// LoadLevel tears down the current map and starts compiling the selected
// level. The run begins once the map is built.
func (c *Controller) LoadLevel() {
	c.teardown()
	c.screen = ScreenLoading
	c.loadErr = nil
	gen := c.compiler.Start(c.ctx, c.session.SelectedLevel)
	c.logger.Debug("loading level", "level", c.session.SelectedLevel, "generation", gen)
}

// Refresh recompiles the current map from its source without touching
// the session counters.
func (c *Controller) Refresh() {
	c.logger.Info("recompiling map", "level", c.session.SelectedLevel)
	c.LoadLevel()
}

func (c *Controller) teardown() {
	c.compiler.Cancel()
	c.timers.CancelAll()
	if c.world != nil {
		c.world.Teardown()
		c.world = nil
	}
	c.clock.SetScale(1)
	c.state = NotStarted
	c.started = false
	c.tutorial = false
	c.countingDown = false
	c.pauseText = "Paused"
	c.completed = false
	c.distance = 0
	c.burst = nil
}

func (c *Controller) apply(res compiler.Result) {
	if res.Err != nil {
		c.loadErr = res.Err
		c.screen = ScreenError
		c.logger.Error("cannot load level", "level", res.Level, "err", res.Err)
		return
	}

	c.world = world.Build(res.Plan, c.sched, c, c.gravity, c.cfg, c)
	c.logger.Info("level loaded", "level", res.Level,
		"distance", res.Plan.TotalDistance, "obstacles", len(res.Plan.Obstacles))

	showTutorial := c.save.FirstTime || c.cfg.Debug.DisplayTutorial
	c.timers.After(core.Unscaled, c.cfg.Run.StartDelay, func() {
		c.StartGame(showTutorial)
	})
}

// StartGame begins the run, or shows the tutorial first when asked to on
// level 1. The run then starts when the tutorial is dismissed.
func (c *Controller) StartGame(showTutorial bool) {
	if c.world == nil || c.started {
		return
	}
	if showTutorial && c.session.SelectedLevel == 1 {
		c.tutorial = true
		c.screen = ScreenTutorial
	} else {
		if c.save.FirstTime {
			c.Achieve(achievement.BeginTheTilt)
		}
		c.started = true
		c.state = Playing
		c.screen = ScreenInGame
		c.save.FirstTime = false
		c.session.Tries++
		c.logger.Info("run started", "level", c.session.SelectedLevel, "tries", c.session.Tries)
	}
	c.collab("hide banner", c.ads.HideBanner())
}

// Tap handles the flip input. While the tutorial is shown the tap only
// dismisses it.
func (c *Controller) Tap() {
	switch {
	case c.tutorial:
		c.tutorial = false
		c.StartGame(false)
	case c.state == Playing && c.world != nil:
		c.world.Player.Tap()
	}
}

// PauseGame freezes scaled time and shows the pause overlay.
func (c *Controller) PauseGame() {
	if c.state != Playing {
		return
	}
	c.state = Paused
	c.clock.SetScale(0)
	c.screen = ScreenPause
	c.collab("show banner", c.ads.ShowBanner())
}

// ResumeGame counts down on the real-time clock and then resumes play.
// Calls during the countdown are ignored.
func (c *Controller) ResumeGame() {
	if c.state != Paused || c.countingDown {
		return
	}
	c.countingDown = true
	c.countdown(c.cfg.Run.ResumeCountdown)
}

func (c *Controller) countdown(left int) {
	if left <= 0 {
		c.clock.SetScale(1)
		c.pauseText = "Paused"
		c.screen = ScreenInGame
		c.state = Playing
		c.countingDown = false
		c.collab("hide banner", c.ads.HideBanner())
		return
	}
	c.pauseText = fmt.Sprintf("Resuming In: %d", left)
	c.timers.After(core.Unscaled, 1, func() { c.countdown(left - 1) })
}

// TogglePause pauses a live run or resumes a paused one.
func (c *Controller) TogglePause() {
	switch c.state {
	case Playing:
		c.PauseGame()
	case Paused:
		c.ResumeGame()
	}
}

// EndRun implements entity.Run.
func (c *Controller) EndRun(success bool) { c.EndGame(success) }

// EndGame ends the run and, after a short real-time delay, shows the
// result and reports it.
func (c *Controller) EndGame(success bool) {
	if c.state == Over || !c.started {
		return
	}
	c.state = Over
	c.completed = success

	delay := c.cfg.Run.FailureDelay
	if success {
		delay = c.cfg.Run.SuccessDelay
	}
	c.logger.Info("run ended", "level", c.session.SelectedLevel,
		"completed", success, "distance", c.distance)
	c.timers.After(core.Unscaled, delay, func() { c.finish(success) })
}

func (c *Controller) finish(success bool) {
	c.collab("show banner", c.ads.ShowBanner())

	c.session.GamesUntilAd--
	if c.session.GamesUntilAd <= 0 {
		c.collab("show interstitial", c.ads.ShowInterstitial())
		c.session.GamesUntilAd = c.gamesBetweenAds()
	}

	if success {
		c.screen = ScreenComplete
	} else {
		c.screen = ScreenFailed
	}
	c.nextLevel = c.session.SelectedLevel < c.maxLevels

	if success && c.session.SelectedLevel > c.save.HighestLevel {
		c.save.HighestLevel = c.session.SelectedLevel
	}

	for _, id := range achievement.Earned(achievement.Outcome{
		Completed:     success,
		Tries:         c.session.Tries,
		Level:         c.session.SelectedLevel,
		MaxLevel:      c.maxLevels,
		Distance:      c.distance,
		TotalDistance: c.TotalDistance(),
	}) {
		c.Achieve(id)
	}

	err := c.history.RecordRun(c.profile, Result{
		Level:     c.session.SelectedLevel,
		Completed: success,
		Distance:  c.distance,
		Tries:     c.session.Tries,
	})
	if err != nil {
		c.logger.Warn("cannot record run", "profile", c.profile, "err", err)
	}
	c.persist()
}

func (c *Controller) gamesBetweenAds() int {
	if c.cfg.Run.GamesBetweenAds > 0 {
		return c.cfg.Run.GamesBetweenAds
	}
	return gamesBetweenAds
}

// RestartGame replays the selected level. A completed level resets the
// try counter.
func (c *Controller) RestartGame(completed bool) {
	if completed {
		c.session.Tries = 0
	}
	c.session.GamesUntilAd--
	c.LoadLevel()
}

// NextLevel advances to the following level and restarts.
func (c *Controller) NextLevel() {
	if c.session.SelectedLevel >= c.maxLevels {
		return
	}
	c.session.SelectedLevel++
	c.RestartGame(true)
}

// MainMenu leaves the current map for the level select.
func (c *Controller) MainMenu() {
	c.session.Tries = 0
	c.teardown()
	c.screen = ScreenMenu
}

// Background pauses a live run and saves, for when the player leaves.
func (c *Controller) Background() {
	if c.state == Over {
		return
	}
	c.PauseGame()
	c.persist()
}

// Quit saves and releases everything.
func (c *Controller) Quit() {
	c.persist()
	c.collab("hide banner", c.ads.HideBanner())
	c.teardown()
	c.cancel()
}

// Volumes returns the music and sound effect volumes.
func (c *Controller) Volumes() (bgm, se float64) {
	return c.save.BGMVolume, c.save.SEVolume
}

// SetVolumes changes the volumes. They are written with the next save.
func (c *Controller) SetVolumes(bgm, se float64) {
	c.save.BGMVolume = core.ClampF(bgm, 0, 1)
	c.save.SEVolume = core.ClampF(se, 0, 1)
}

// Achieve unlocks an achievement. Failures are logged.
func (c *Controller) Achieve(id achievement.ID) {
	first, err := c.progress.UnlockOrIncrement(id)
	if err != nil {
		c.logger.Warn("cannot record achievement", "id", id, "err", err)
		return
	}
	if first {
		c.logger.Info("achievement unlocked", "id", id)
	}
}

// BallDestroyed implements entity.Effects.
func (c *Controller) BallDestroyed(pos core.Vec2) {
	c.burst = &Burst{Pos: pos, At: c.clock.Now(core.Unscaled)}
	c.audio.Play(SoundBallDestroyed, c.save.SEVolume)
}

func (c *Controller) persist() {
	if err := c.persistence.Save(c.profile, c.save); err != nil {
		c.logger.Warn("cannot save", "profile", c.profile, "err", err)
	}
}

func (c *Controller) collab(op string, err error) {
	if err != nil {
		c.logger.Warn("ads unavailable", "op", op, "err", err)
	}
}
