package config

import (
	_ "embed"
)

//go:embed defaults/gravity.yaml
var defaultGravityYAML []byte

// DefaultGravityConfig returns the built-in configuration.
// It mirrors defaults/gravity.yaml and is used if the embedded file cannot
// be parsed.
func DefaultGravityConfig() GravityConfig {
	return GravityConfig{
		Physics: PhysicsConfig{
			Gravity:   -9.81,
			MapSpeed:  4,
			BallSize:  1,
			BlockSize: 1,
			SpikeSize: 0.6,
		},
		Obstacles: ObstacleConfig{
			Speed:          4,
			TravelDistance: 3.5,
			WaitTime:       1,
		},
		Player: PlayerConfig{
			HardMaxY:      20,
			HardMinY:      -10,
			SwitchPosY:    10,
			SwitchNegY:    -3,
			SwitchInset:   0.1,
			LaneMaxY:      7.5,
			LaneMinY:      -0.5,
			StuckBand:     0.2,
			StuckDistance: 2,
			CoastDistance: 15,
		},
		Run: RunConfig{
			StartDelay:      1,
			ResumeCountdown: 3,
			SuccessDelay:    3,
			FailureDelay:    2,
			GamesBetweenAds: 8,
		},
		Levels: LevelsConfig{
			Template: "level_%d.mlvl",
		},
		View: ViewConfig{
			MinX: -4,
			MaxX: 16,
		},
		Storage: StorageConfig{
			Path: "~/.gravity/gravity.db",
		},
	}
}
