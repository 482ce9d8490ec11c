package tui

import (
	"fmt"

	"github.com/vovakirdan/gravity/internal/registry"
	"github.com/vovakirdan/gravity/internal/storage"
)

// ProfileEnv fills the storage collaborators of base for profile. A nil
// store leaves them empty so games fall back to no-ops.
func ProfileEnv(base registry.Env, store *storage.Store, profile string) registry.Env {
	base.Profile = profile
	if store != nil {
		base.Persistence = store
		base.Progress = store.Progress(profile)
		base.History = store
	}
	if base.Logger != nil {
		base.Logger = base.Logger.With("profile", profile)
	}
	return base
}

// ProgressOf returns store as a progress source, or nil without a store.
func ProgressOf(store *storage.Store) ProgressSource {
	if store == nil {
		return nil
	}
	return store
}

// Modes creates every registered game that has a level select.
type Modes struct {
	Entries []ModeEntry
	games   []registry.Game
}

// CreateModes instantiates the registered modes over env.
func CreateModes(env registry.Env) (*Modes, error) {
	m := &Modes{}
	for _, info := range registry.List() {
		g, err := registry.Create(info.ID, env)
		if err != nil {
			m.Close()
			return nil, err
		}
		m.games = append(m.games, g)
		if lv, ok := g.(registry.Leveled); ok {
			m.Entries = append(m.Entries, ModeEntry{GameID: info.ID, Title: info.Title, Levels: lv})
		}
	}
	if len(m.Entries) == 0 {
		m.Close()
		return nil, fmt.Errorf("tui: no playable modes registered")
	}
	return m, nil
}

// Game returns the created game with id.
func (m *Modes) Game(id string) (registry.Game, bool) {
	for _, g := range m.games {
		if g.ID() == id {
			return g, true
		}
	}
	return nil, false
}

// Background pauses and saves every game that supports it.
func (m *Modes) Background() {
	for _, g := range m.games {
		if b, ok := g.(registry.Backgrounder); ok {
			b.Background()
		}
	}
}

// Close releases every game.
func (m *Modes) Close() {
	for _, g := range m.games {
		if c, ok := g.(registry.Closer); ok {
			c.Close()
		}
	}
	m.games = nil
	m.Entries = nil
}
