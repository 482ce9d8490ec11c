package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gravity/internal/core"
	"github.com/vovakirdan/gravity/internal/registry"
)

// exit is why the game program ended.
type exit uint8

const (
	exitNone exit = iota
	exitQuit      // Leave the program
	exitMenu      // Back to the level select
)

// Model is the Bubble Tea model that drives one game. Input collected
// between ticks is delivered with the next tick.
type Model struct {
	game    registry.Game
	screen  *core.Screen
	config  core.RuntimeConfig
	keys    *KeyMapper
	pending core.InputFrame
	state   core.GameState
	exit    exit

	// shotDir is where ctrl+s writes screenshots. Empty disables them.
	shotDir string
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig) Model {
	m := Model{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config: cfg,
		keys:   NewKeyMapper(),
	}
	if home, err := os.UserHomeDir(); err == nil {
		m.shotDir = filepath.Join(home, ".gravity", "screenshots")
	}
	return m
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			//nolint:errcheck // Best-effort, the game continues regardless
			m.screenshot(time.Now())
			return m, nil
		}
		if m.keys.MapKeyToFrame(msg, &m.pending) {
			// Let the game see the quit so it can save.
			m.game.Step(m.pending)
			m.exit = exitQuit
			return m, tea.Quit
		}

	case tea.MouseMsg:
		m.keys.MapMouseToFrame(msg, &m.pending)

	case tea.BlurMsg:
		if b, ok := m.game.(registry.Backgrounder); ok {
			b.Background()
		}

	case tea.WindowSizeMsg:
		// Rendering follows the screen size; the run is not restarted.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)

	case TickMsg:
		m.state = m.game.Step(m.pending).State
		m.pending.Clear()
		if m.state.Quit {
			m.exit = exitMenu
			return m, tea.Quit
		}
		return m, tickCmd(m.config.TickRate)
	}
	return m, nil
}

// screenshot writes the current frame as plain text and returns its path.
func (m *Model) screenshot(at time.Time) (string, error) {
	if m.shotDir == "" {
		return "", fmt.Errorf("tui: no screenshot directory")
	}
	if err := os.MkdirAll(m.shotDir, 0o755); err != nil {
		return "", err
	}
	m.screen.Clear()
	m.game.Render(m.screen)
	path := filepath.Join(m.shotDir, fmt.Sprintf("%s_%s.txt", m.game.ID(), at.Format("20060102_150405")))
	return path, os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.exit == exitQuit {
		return ""
	}
	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting reports whether the player quit the program.
func (m Model) IsQuitting() bool { return m.exit == exitQuit }

// BackToMenu reports whether the game returned to the level select.
func (m Model) BackToMenu() bool { return m.exit == exitMenu }

// Run plays game until the player quits or goes back to the menu.
// It reports whether the menu was requested.
func Run(game registry.Game, cfg core.RuntimeConfig) (backToMenu bool, err error) {
	final, err := tea.NewProgram(
		NewModel(game, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.BackToMenu(), nil
}
