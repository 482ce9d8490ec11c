package run

import (
	"errors"
	"math"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gravity/internal/achievement"
	"github.com/vovakirdan/gravity/internal/config"
	"github.com/vovakirdan/gravity/internal/entity"
	"github.com/vovakirdan/gravity/internal/level"
)

const (
	flatMap = `# flat
<start>
CCCCCCCCCCCCCCCC




   P      F
CCCCCCCCCCCCCCCC
<end>
`
	spikeMap = `<start>
CCCCCCCCCCCCCCCCCC




   P  T      F
CCCCCCCCCCCCCCCCCC
<end>
`
	brokenMap = `<start>
C
Q
<end>
`
)

var errUnavailable = errors.New("unavailable")

type memPersistence struct {
	records map[string]SaveRecord
	saves   int
	fail    bool
}

func (m *memPersistence) Load(profile string) (SaveRecord, bool, error) {
	if m.fail {
		return SaveRecord{}, false, errUnavailable
	}
	rec, ok := m.records[profile]
	return rec, ok, nil
}

func (m *memPersistence) Save(profile string, rec SaveRecord) error {
	m.saves++
	if m.fail {
		return errUnavailable
	}
	if m.records == nil {
		m.records = make(map[string]SaveRecord)
	}
	m.records[profile] = rec
	return nil
}

type memProgress struct {
	ids  []achievement.ID
	fail bool
}

func (m *memProgress) UnlockOrIncrement(id achievement.ID) (bool, error) {
	if m.fail {
		return false, errUnavailable
	}
	first := !slices.Contains(m.ids, id)
	m.ids = append(m.ids, id)
	return first, nil
}

type countingAds struct {
	banners, hides, interstitials int
	fail                          bool
}

func (a *countingAds) err() error {
	if a.fail {
		return errUnavailable
	}
	return nil
}

func (a *countingAds) ShowBanner() error       { a.banners++; return a.err() }
func (a *countingAds) HideBanner() error       { a.hides++; return a.err() }
func (a *countingAds) ShowInterstitial() error { a.interstitials++; return a.err() }

type memHistory struct{ runs []Result }

func (h *memHistory) RecordRun(_ string, r Result) error {
	h.runs = append(h.runs, r)
	return nil
}

type recordingAudio struct{ played []Sound }

func (a *recordingAudio) Play(s Sound, _ float64) { a.played = append(a.played, s) }

type rig struct {
	c        *Controller
	save     *memPersistence
	progress *memProgress
	ads      *countingAds
	audio    *recordingAudio
	history  *memHistory
}

func testSource() level.Source {
	return level.NewFSSource(fstest.MapFS{
		"maps/level_1.mlvl": {Data: []byte(flatMap)},
		"maps/level_2.mlvl": {Data: []byte(spikeMap)},
		"maps/level_3.mlvl": {Data: []byte(brokenMap)},
	}, "maps", "")
}

func newRig(t *testing.T, returning bool, mutate func(*config.GravityConfig)) *rig {
	t.Helper()
	cfg := config.DefaultGravityConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	r := &rig{
		save:     &memPersistence{},
		progress: &memProgress{},
		ads:      &countingAds{},
		audio:    &recordingAudio{},
		history:  &memHistory{},
	}
	if returning {
		r.save.records = map[string]SaveRecord{"test": {HighestLevel: 0, BGMVolume: 0.3, SEVolume: 0.7}}
	}
	c, err := New(Options{
		Config:             cfg,
		Profile:            "test",
		Source:             testSource(),
		Persistence:        r.save,
		Progress:           r.progress,
		Ads:                r.ads,
		Audio:              r.audio,
		History:            r.history,
		SynchronousCompile: true,
	})
	require.NoError(t, err)
	r.c = c
	return r
}

// tickFor advances the controller by whole 60 Hz ticks covering secs.
func tickFor(c *Controller, secs float64) {
	for range int(math.Ceil(secs * 60)) {
		c.Tick(1.0 / 60)
	}
}

func (r *rig) start(t *testing.T, id int) {
	t.Helper()
	require.True(t, r.c.SelectLevel(id))
	r.c.LoadLevel()
	tickFor(r.c, 1.05)
	require.Equal(t, Playing, r.c.State())
}

func (r *rig) playUntil(t *testing.T, screen Screen, limit float64) {
	t.Helper()
	for elapsed := 0.0; elapsed < limit; elapsed += 1.0 / 60 {
		if r.c.Screen() == screen {
			return
		}
		r.c.Tick(1.0 / 60)
	}
	require.Equal(t, screen, r.c.Screen(), "screen not reached in %.1fs", limit)
}

func TestNewDiscoversLevels(t *testing.T) {
	r := newRig(t, false, nil)
	assert.Equal(t, 3, r.c.MaxLevels())
	assert.Equal(t, 1, r.c.Session().SelectedLevel)
	assert.Equal(t, 8, r.c.Session().GamesUntilAd)
	assert.Equal(t, DefaultSaveRecord(), r.c.Save())
	assert.Equal(t, ScreenMenu, r.c.Screen())
}

func TestMaxContiguous(t *testing.T) {
	assert.Equal(t, 2, maxContiguous([]int{1, 2, 4}))
	assert.Equal(t, 0, maxContiguous([]int{2, 3}))
}

func TestLoadThenStart(t *testing.T) {
	r := newRig(t, true, nil)

	r.c.LoadLevel()
	assert.Equal(t, ScreenLoading, r.c.Screen())
	assert.Nil(t, r.c.World())

	r.c.Tick(1.0 / 60)
	require.NotNil(t, r.c.World(), "compiled map is applied on the next tick")
	assert.Equal(t, NotStarted, r.c.State())
	assert.Equal(t, "0 m/ 4 m", r.c.Score())

	tickFor(r.c, 0.9)
	assert.Equal(t, NotStarted, r.c.State(), "start waits for the start delay")

	tickFor(r.c, 0.2)
	assert.Equal(t, Playing, r.c.State())
	assert.Equal(t, ScreenInGame, r.c.Screen())
	assert.Equal(t, 1, r.c.Session().Tries)
	assert.Equal(t, 1, r.ads.hides)
}

func TestCompletedRun(t *testing.T) {
	r := newRig(t, true, nil)
	r.start(t, 1)

	r.playUntil(t, ScreenComplete, 10)

	assert.True(t, r.c.Completed())
	assert.True(t, r.c.NextLevelAvailable())
	assert.Equal(t, 1, r.c.Save().HighestLevel)
	assert.Equal(t, 7, r.c.Session().GamesUntilAd)
	assert.Equal(t, 1, r.ads.banners)
	assert.Zero(t, r.ads.interstitials)
	assert.Equal(t, []achievement.ID{achievement.TooEZ, achievement.YayYouDidIt}, r.progress.ids)

	require.Len(t, r.history.runs, 1)
	assert.Equal(t, Result{Level: 1, Completed: true, Distance: r.c.Distance(), Tries: 1}, r.history.runs[0])

	require.Equal(t, 1, r.save.saves)
	saved := r.save.records["test"]
	assert.Equal(t, 1, saved.HighestLevel)
	assert.False(t, saved.FirstTime)
	assert.Equal(t, 0.3, saved.BGMVolume)
}

func TestResultWaitsForEndDelay(t *testing.T) {
	r := newRig(t, true, nil)
	r.start(t, 1)

	for r.c.State() != Over {
		r.c.Tick(1.0 / 60)
	}
	assert.Equal(t, ScreenInGame, r.c.Screen())
	assert.Zero(t, r.save.saves)

	tickFor(r.c, 2.9)
	assert.Equal(t, ScreenInGame, r.c.Screen(), "success shows its result after three seconds")

	tickFor(r.c, 0.2)
	assert.Equal(t, ScreenComplete, r.c.Screen())
}

func TestFailedRun(t *testing.T) {
	r := newRig(t, true, nil)
	r.start(t, 2)

	r.playUntil(t, ScreenFailed, 10)

	assert.False(t, r.c.Completed())
	assert.Zero(t, r.c.Save().HighestLevel)
	assert.Contains(t, r.progress.ids, achievement.OohThatsGottaHurt)
	assert.Contains(t, r.progress.ids, achievement.SoSoClose)
	assert.NotContains(t, r.progress.ids, achievement.TooEZ)
	assert.Equal(t, []Sound{SoundBallDestroyed}, r.audio.played)

	burst, ok := r.c.LastBurst()
	require.True(t, ok)
	assert.InDelta(t, 1.0, burst.Pos.Y, 0.1)
	assert.Equal(t, entity.EndHazard, r.c.World().Player.Cause())
}

func TestTutorialSwallowsDismissTap(t *testing.T) {
	r := newRig(t, false, nil)
	r.c.LoadLevel()
	tickFor(r.c, 1.05)

	require.Equal(t, ScreenTutorial, r.c.Screen())
	assert.False(t, r.c.Started())
	tickFor(r.c, 1)
	assert.Zero(t, r.c.Distance(), "the map does not scroll behind the tutorial")

	r.c.Tap()
	assert.Equal(t, Playing, r.c.State())
	assert.False(t, r.c.Save().FirstTime)
	assert.Contains(t, r.progress.ids, achievement.BeginTheTilt)

	tickFor(r.c, 0.5)
	assert.Equal(t, -1.0, r.c.Gravity().Sign(), "dismissing the tutorial must not flip gravity")
}

func TestTutorialOnlyOnFirstLevel(t *testing.T) {
	r := newRig(t, true, func(cfg *config.GravityConfig) { cfg.Debug.DisplayTutorial = true })
	r.start(t, 2)
	assert.Equal(t, ScreenInGame, r.c.Screen())
}

func TestTapFlipsGravity(t *testing.T) {
	r := newRig(t, true, nil)
	r.start(t, 1)
	tickFor(r.c, 0.2)

	r.c.Tap()
	r.c.Tick(1.0 / 60)
	assert.Equal(t, 1.0, r.c.Gravity().Sign())
}

func TestPauseResumeCountdown(t *testing.T) {
	r := newRig(t, true, nil)
	r.start(t, 1)
	tickFor(r.c, 0.2)

	r.c.PauseGame()
	require.Equal(t, Paused, r.c.State())
	assert.Equal(t, ScreenPause, r.c.Screen())
	assert.Equal(t, 0.0, r.c.Clock().Scale())
	assert.Equal(t, 1, r.ads.banners)

	d := r.c.Distance()
	tickFor(r.c, 2)
	assert.Equal(t, d, r.c.Distance(), "paused runs do not scroll")

	r.c.ResumeGame()
	assert.Equal(t, "Resuming In: 3", r.c.PauseText())

	tickFor(r.c, 1.01)
	assert.Equal(t, "Resuming In: 2", r.c.PauseText())
	r.c.TogglePause()
	r.c.PauseGame()
	assert.True(t, r.c.CountingDown(), "input is locked during the countdown")

	tickFor(r.c, 1.01)
	assert.Equal(t, "Resuming In: 1", r.c.PauseText())
	assert.Equal(t, Paused, r.c.State())
	assert.Equal(t, d, r.c.Distance())

	tickFor(r.c, 1.01)
	assert.Equal(t, Playing, r.c.State())
	assert.Equal(t, ScreenInGame, r.c.Screen())
	assert.Equal(t, 1.0, r.c.Clock().Scale())
	assert.Equal(t, "Paused", r.c.PauseText())
	assert.False(t, r.c.CountingDown())

	tickFor(r.c, 0.1)
	assert.Greater(t, r.c.Distance(), d)
}

func TestInterstitialAfterEnoughGames(t *testing.T) {
	r := newRig(t, true, func(cfg *config.GravityConfig) { cfg.Run.GamesBetweenAds = 2 })

	r.start(t, 2)
	r.playUntil(t, ScreenFailed, 10)
	assert.Equal(t, 1, r.c.Session().GamesUntilAd)

	r.c.RestartGame(false)
	assert.Equal(t, 0, r.c.Session().GamesUntilAd)
	assert.Equal(t, 1, r.c.Session().Tries, "a plain restart keeps the tries")

	tickFor(r.c, 1.05)
	r.playUntil(t, ScreenFailed, 10)
	assert.Equal(t, 1, r.ads.interstitials)
	assert.Equal(t, 2, r.c.Session().GamesUntilAd)
	assert.Equal(t, 2, r.c.Session().Tries)
}

func TestNextLevel(t *testing.T) {
	r := newRig(t, true, nil)
	r.start(t, 1)
	r.playUntil(t, ScreenComplete, 10)

	r.c.NextLevel()
	assert.Equal(t, 2, r.c.Session().SelectedLevel)
	assert.Zero(t, r.c.Session().Tries)
	assert.Equal(t, 6, r.c.Session().GamesUntilAd)
	assert.Equal(t, ScreenLoading, r.c.Screen())

	tickFor(r.c, 1.05)
	assert.Equal(t, Playing, r.c.State())

	r.c.SelectLevel(3)
	r.c.NextLevel()
	assert.Equal(t, 3, r.c.Session().SelectedLevel, "no level after the last one")
}

func TestBrokenMapShowsError(t *testing.T) {
	r := newRig(t, true, nil)
	require.True(t, r.c.SelectLevel(3))
	r.c.LoadLevel()
	r.c.Tick(1.0 / 60)

	assert.Equal(t, ScreenError, r.c.Screen())
	var ce *level.ContentError
	require.ErrorAs(t, r.c.Err(), &ce)
	assert.Equal(t, level.CodeUnknownCell, ce.Code)
	assert.Nil(t, r.c.World())

	tickFor(r.c, 2)
	assert.Equal(t, NotStarted, r.c.State())
}

func TestSelectLevelBounds(t *testing.T) {
	r := newRig(t, true, nil)
	assert.False(t, r.c.SelectLevel(0))
	assert.False(t, r.c.SelectLevel(4))
	assert.True(t, r.c.SelectLevel(3))
}

func TestRefreshDoesNotLeak(t *testing.T) {
	r := newRig(t, true, nil)
	r.start(t, 1)
	live := r.c.Scheduler().Len()
	tries := r.c.Session().Tries

	for range 5 {
		r.c.Refresh()
		r.c.Tick(1.0 / 60)
	}

	assert.Equal(t, live, r.c.Scheduler().Len())
	assert.Equal(t, tries, r.c.Session().Tries)
	assert.Equal(t, NotStarted, r.c.State())
}

func TestMainMenuResetsTries(t *testing.T) {
	r := newRig(t, true, nil)
	r.start(t, 2)
	r.playUntil(t, ScreenFailed, 10)

	r.c.MainMenu()
	assert.Zero(t, r.c.Session().Tries)
	assert.Equal(t, ScreenMenu, r.c.Screen())
	assert.Nil(t, r.c.World())
	assert.Zero(t, r.c.Scheduler().Len())
}

func TestMainMenuDropsPendingResult(t *testing.T) {
	r := newRig(t, true, nil)
	r.start(t, 2)
	for r.c.State() != Over {
		r.c.Tick(1.0 / 60)
	}
	saves := r.save.saves

	r.c.MainMenu()
	tickFor(r.c, 3)
	assert.Equal(t, ScreenMenu, r.c.Screen())
	assert.Equal(t, saves, r.save.saves)
}

func TestBackgroundPausesAndSaves(t *testing.T) {
	r := newRig(t, true, nil)
	r.start(t, 1)

	r.c.Background()
	assert.Equal(t, Paused, r.c.State())
	assert.Equal(t, 1, r.save.saves)
}

func TestVolumesAreClampedAndSaved(t *testing.T) {
	r := newRig(t, true, nil)
	r.c.SetVolumes(1.5, -0.2)

	bgm, se := r.c.Volumes()
	assert.Equal(t, 1.0, bgm)
	assert.Equal(t, 0.0, se)

	r.c.Quit()
	assert.Equal(t, 1.0, r.save.records["test"].BGMVolume)
	assert.Equal(t, 0.0, r.save.records["test"].SEVolume)
}

func TestCollaboratorFailuresAreNotFatal(t *testing.T) {
	r := newRig(t, true, nil)
	r.save.fail = true
	r.progress.fail = true
	r.ads.fail = true

	r.start(t, 1)
	r.playUntil(t, ScreenComplete, 10)
	assert.Equal(t, 1, r.c.Save().HighestLevel)

	r.c.Quit()
	assert.Nil(t, r.c.World())
}

func TestLoadFailureUsesDefaults(t *testing.T) {
	c, err := New(Options{
		Config:      config.DefaultGravityConfig(),
		Source:      testSource(),
		Persistence: &memPersistence{fail: true},
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultSaveRecord(), c.Save())
}

func TestNewRequiresLevels(t *testing.T) {
	_, err := New(Options{Config: config.DefaultGravityConfig()})
	assert.Error(t, err)

	_, err = New(Options{
		Config: config.DefaultGravityConfig(),
		Source: level.NewFSSource(fstest.MapFS{"maps/readme": {}}, "maps", ""),
	})
	assert.Error(t, err)
}

func TestFPS(t *testing.T) {
	r := newRig(t, true, nil)
	assert.Zero(t, r.c.FPS())

	tickFor(r.c, 2)
	assert.InDelta(t, 60, r.c.FPS(), 1)
}

func TestSaveRecord(t *testing.T) {
	local := SaveRecord{HighestLevel: 2, BGMVolume: 0.2, SEVolume: 0.9}
	cloud := SaveRecord{HighestLevel: 4, BGMVolume: 1, SEVolume: 0}

	merged := local.MergeHighest(cloud)
	assert.Equal(t, 4, merged.HighestLevel)
	assert.Equal(t, 0.2, merged.BGMVolume, "only the level is taken from the other record")
	assert.Equal(t, 4, cloud.MergeHighest(local).HighestLevel)

	n := SaveRecord{HighestLevel: -1, BGMVolume: 3, SEVolume: -1}.Normalize()
	assert.Equal(t, SaveRecord{HighestLevel: 0, BGMVolume: 1, SEVolume: 0}, n)
}
