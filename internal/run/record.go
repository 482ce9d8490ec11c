package run

import (
	"github.com/vovakirdan/gravity/internal/achievement"
	"github.com/vovakirdan/gravity/internal/core"
)

// SaveRecord is the per-profile data written to disk.
type SaveRecord struct {
	FirstTime    bool
	HighestLevel int     // Highest level completed, 0 for none
	BGMVolume    float64 // [0, 1]
	SEVolume     float64 // [0, 1]
}

// DefaultSaveRecord returns the record of a new profile.
func DefaultSaveRecord() SaveRecord {
	return SaveRecord{FirstTime: true, BGMVolume: 0.5, SEVolume: 0.5}
}

// MergeHighest folds another copy of the record into r, keeping the
// higher completed level. Everything else comes from r.
func (r SaveRecord) MergeHighest(other SaveRecord) SaveRecord {
	if other.HighestLevel > r.HighestLevel {
		r.HighestLevel = other.HighestLevel
	}
	return r
}

// Normalize clamps the volumes into range.
func (r SaveRecord) Normalize() SaveRecord {
	r.BGMVolume = core.ClampF(r.BGMVolume, 0, 1)
	r.SEVolume = core.ClampF(r.SEVolume, 0, 1)
	r.HighestLevel = max(r.HighestLevel, 0)
	return r
}

// gamesBetweenAds is used when the configuration does not say.
const gamesBetweenAds = 8

// Session is data kept across runs of one process but never saved.
type Session struct {
	SelectedLevel int
	GamesUntilAd  int
	Tries         int // Attempts at the selected level since it was last completed
}

// Persistence loads and stores save records. Failures are never fatal
// to a run.
type Persistence interface {
	Load(profile string) (SaveRecord, bool, error)
	Save(profile string, rec SaveRecord) error
}

// Progress unlocks achievements. The result is advisory.
type Progress interface {
	UnlockOrIncrement(id achievement.ID) (bool, error)
}

// Ads shows banner and interstitial ads.
type Ads interface {
	ShowBanner() error
	HideBanner() error
	ShowInterstitial() error
}

// Result is one finished run, for the history.
type Result struct {
	Level     int
	Completed bool
	Distance  float64
	Tries     int
}

// History records finished runs.
type History interface {
	RecordRun(profile string, r Result) error
}

// Sound names a sound effect.
type Sound string

const SoundBallDestroyed Sound = "ball_destroyed"

// Audio plays sound effects.
type Audio interface {
	Play(s Sound, volume float64)
}

type nopPersistence struct{}

func (nopPersistence) Load(string) (SaveRecord, bool, error) { return SaveRecord{}, false, nil }
func (nopPersistence) Save(string, SaveRecord) error         { return nil }

type nopProgress struct{}

func (nopProgress) UnlockOrIncrement(achievement.ID) (bool, error) { return false, nil }

type nopAds struct{}

func (nopAds) ShowBanner() error       { return nil }
func (nopAds) HideBanner() error       { return nil }
func (nopAds) ShowInterstitial() error { return nil }

type nopHistory struct{}

func (nopHistory) RecordRun(string, Result) error { return nil }

type nopAudio struct{}

func (nopAudio) Play(Sound, float64) {}
