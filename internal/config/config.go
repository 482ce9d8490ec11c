// Package config loads the YAML game configuration, applies environment
// overrides and validates the result.
package config

import (
	"errors"
	"fmt"
)

// GravityConfig contains every tunable of the game.
type GravityConfig struct {
	Physics   PhysicsConfig  `yaml:"physics"`
	Obstacles ObstacleConfig `yaml:"obstacles"`
	Player    PlayerConfig   `yaml:"player"`
	Run       RunConfig      `yaml:"run"`
	Levels    LevelsConfig   `yaml:"levels"`
	View      ViewConfig     `yaml:"view"`
	Storage   StorageConfig  `yaml:"storage"`
	Debug     DebugConfig    `yaml:"debug"`
}

// PhysicsConfig defines world physics and collider sizes, in world units.
type PhysicsConfig struct {
	Gravity   float64 `yaml:"gravity"`   // Ambient gravity on the y axis (negative = down)
	MapSpeed  float64 `yaml:"map_speed"` // Units per second the map scrolls
	BallSize  float64 `yaml:"ball_size"`
	BlockSize float64 `yaml:"block_size"`
	SpikeSize float64 `yaml:"spike_size"`
}

// ObstacleConfig defines the moving obstacle cycle.
type ObstacleConfig struct {
	Speed          float64 `yaml:"speed"`
	TravelDistance float64 `yaml:"travel_distance"`
	WaitTime       float64 `yaml:"wait_time"` // Seconds resting at spawn
}

// PlayerConfig holds the player's out-of-bounds and stuck thresholds.
type PlayerConfig struct {
	HardMaxY      float64 `yaml:"hard_max_y"`
	HardMinY      float64 `yaml:"hard_min_y"`
	SwitchPosY    float64 `yaml:"switch_pos_y"` // Void redirect upper rail
	SwitchNegY    float64 `yaml:"switch_neg_y"` // Void redirect lower rail
	SwitchInset   float64 `yaml:"switch_inset"`
	LaneMaxY      float64 `yaml:"lane_max_y"`
	LaneMinY      float64 `yaml:"lane_min_y"`
	StuckBand     float64 `yaml:"stuck_band"`     // Half-width of each in-block band
	StuckDistance float64 `yaml:"stuck_distance"` // Distance inside a band before it counts
	CoastDistance float64 `yaml:"coast_distance"` // Travel after the run ends before despawn
}

// RunConfig holds run controller delays, in real seconds.
type RunConfig struct {
	StartDelay      float64 `yaml:"start_delay"`
	ResumeCountdown int     `yaml:"resume_countdown"`
	SuccessDelay    float64 `yaml:"success_delay"`
	FailureDelay    float64 `yaml:"failure_delay"`
	GamesBetweenAds int     `yaml:"games_between_ads"`
}

// LevelsConfig selects where map files come from. An empty Dir uses the
// built-in maps.
type LevelsConfig struct {
	Dir      string `yaml:"dir" env:"GRAVITY_LEVELS_DIR"`
	Template string `yaml:"template"`
}

// ViewConfig is the horizontal span of the camera in world units.
// Obstacles only move while inside it.
type ViewConfig struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
}

// StorageConfig locates the save database.
type StorageConfig struct {
	Path string `yaml:"path" env:"GRAVITY_DB"`
}

// DebugConfig holds development switches.
type DebugConfig struct {
	InvincibleBall  bool `yaml:"invincible_ball" env:"GRAVITY_INVINCIBLE"`
	DisplayTutorial bool `yaml:"display_tutorial" env:"GRAVITY_TUTORIAL"`
	UseGrayBlocks   bool `yaml:"use_gray_blocks" env:"GRAVITY_GRAY_BLOCKS"`
	ShowFPS         bool `yaml:"show_fps" env:"GRAVITY_FPS"`
}

// Validate reports the first setting that would make the game unplayable.
func (c GravityConfig) Validate() error {
	var errs []error
	check := func(ok bool, field string) {
		if !ok {
			errs = append(errs, fmt.Errorf("config: invalid %s", field))
		}
	}

	check(c.Physics.Gravity != 0, "physics.gravity")
	check(c.Physics.MapSpeed > 0, "physics.map_speed")
	check(c.Physics.BallSize > 0, "physics.ball_size")
	check(c.Physics.BlockSize > 0, "physics.block_size")
	check(c.Physics.SpikeSize > 0, "physics.spike_size")
	check(c.Obstacles.Speed > 0, "obstacles.speed")
	check(c.Obstacles.TravelDistance > 0, "obstacles.travel_distance")
	check(c.Obstacles.WaitTime >= 0, "obstacles.wait_time")
	check(c.Player.HardMaxY > c.Player.SwitchPosY, "player.hard_max_y")
	check(c.Player.HardMinY < c.Player.SwitchNegY, "player.hard_min_y")
	check(c.Player.LaneMaxY > c.Player.LaneMinY, "player.lane_max_y")
	check(c.Run.ResumeCountdown >= 0, "run.resume_countdown")
	check(c.Run.GamesBetweenAds > 0, "run.games_between_ads")
	check(c.View.MaxX > c.View.MinX, "view.max_x")

	return errors.Join(errs...)
}
