// Package registry provides a global registry for game modes.
// Modes register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gravity/internal/config"
	"github.com/vovakirdan/gravity/internal/core"
	"github.com/vovakirdan/gravity/internal/level"
	"github.com/vovakirdan/gravity/internal/run"
)

// Game is the interface the platform drives.
// Games contain pure logic with no dependency on Bubble Tea.
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns the mode identifier (e.g., "gravity").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset loads the selected level for a new run.
	// The RuntimeConfig provides screen dimensions and tick rate.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current game state.
	State() core.GameState
}

// Leveled is implemented by games with a level select.
type Leveled interface {
	Levels() int
	Unlocked() int // Highest level the profile may start
	Selected() int
	SelectLevel(id int) bool
}

// Backgrounder is implemented by games that pause and save when the
// player leaves without quitting, such as on terminal focus loss.
type Backgrounder interface {
	Background()
}

// Closer is implemented by games holding resources past their last step.
type Closer interface {
	Close()
}

// Env carries the collaborators a game is created with. Nil
// collaborators are replaced with no-ops by the game.
type Env struct {
	Config      config.GravityConfig
	Profile     string
	Source      level.Source
	Persistence run.Persistence
	Progress    run.Progress
	History     run.History
	Ads         run.Ads
	Audio       run.Audio
	Logger      *log.Logger

	// SynchronousCompile compiles maps on the calling goroutine.
	SynchronousCompile bool
}

// GameInfo contains metadata about a registered mode.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new instance of a game.
type Factory func(env Env) (Game, error)

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new game by its ID.
// Returns an error if the game ID is not registered.
func Create(id string, env Env) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	g, err := f(env)
	if err != nil {
		return nil, fmt.Errorf("registry: create %q: %w", id, err)
	}
	return g, nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
