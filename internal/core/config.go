package core

// RuntimeConfig is passed to a game when it is reset.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Simulation ticks per second
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// TickDelta returns the duration of one tick in seconds.
func (c RuntimeConfig) TickDelta() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1 / float64(c.TickRate)
}

// GameState summarizes a game for the platform layer.
type GameState struct {
	Score    int  // Distance travelled in whole units
	GameOver bool // Run has ended (success or failure)
	Paused   bool
	Quit     bool // Game asked the platform to leave
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState
}
