package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gravity/internal/core"
)

// GameKeys are the in-game bindings.
type GameKeys struct {
	Flip    key.Binding
	Pause   key.Binding
	Restart key.Binding
	Next    key.Binding
	Menu    key.Binding
	Refresh key.Binding
	Quit    key.Binding

	VolumeDown key.Binding
	VolumeUp   key.Binding
}

// DefaultGameKeys returns the in-game bindings.
func DefaultGameKeys() GameKeys {
	return GameKeys{
		Flip:    key.NewBinding(key.WithKeys(" ", "up", "w", "k"), key.WithHelp("space", "flip")),
		Pause:   key.NewBinding(key.WithKeys("p", "esc"), key.WithHelp("p", "pause")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Next:    key.NewBinding(key.WithKeys("n", "enter"), key.WithHelp("n", "next level")),
		Menu:    key.NewBinding(key.WithKeys("m", "b"), key.WithHelp("m", "menu")),
		Refresh: key.NewBinding(key.WithKeys("f5", "ctrl+r"), key.WithHelp("f5", "reload")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),

		VolumeDown: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "volume down")),
		VolumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
	}
}

// MenuKeys are the level select bindings.
type MenuKeys struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Progress key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// DefaultMenuKeys returns the level select bindings.
func DefaultMenuKeys() MenuKeys {
	return MenuKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k", "w"), key.WithHelp("↑/k", "level")),
		Down:     key.NewBinding(key.WithKeys("down", "j", "s"), key.WithHelp("↓/j", "level")),
		Left:     key.NewBinding(key.WithKeys("left", "h", "a"), key.WithHelp("←/h", "mode")),
		Right:    key.NewBinding(key.WithKeys("right", "l", "d"), key.WithHelp("→/l", "mode")),
		Select:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "play")),
		Progress: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "progress")),
		Back:     key.NewBinding(key.WithKeys("b", "esc")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k MenuKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Select, k.Progress, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k MenuKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// KeyMapper translates Bubble Tea input to game and menu actions.
type KeyMapper struct {
	Game GameKeys
	Menu MenuKeys
}

// NewKeyMapper creates a key mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{Game: DefaultGameKeys(), Menu: DefaultMenuKeys()}
}

// MapKey translates a key message to a game action and reports whether
// it asks to quit the program.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	g := km.Game
	switch {
	case key.Matches(msg, g.Quit):
		return core.ActionQuit, true
	case key.Matches(msg, g.Flip):
		return core.ActionFlip, false
	case key.Matches(msg, g.Pause):
		return core.ActionPause, false
	case key.Matches(msg, g.Restart):
		return core.ActionRestart, false
	case key.Matches(msg, g.Next):
		return core.ActionNext, false
	case key.Matches(msg, g.Menu):
		return core.ActionMenu, false
	case key.Matches(msg, g.Refresh):
		return core.ActionRefresh, false
	case key.Matches(msg, g.VolumeDown):
		return core.ActionVolumeDown, false
	case key.Matches(msg, g.VolumeUp):
		return core.ActionVolumeUp, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame adds the key's action to frame and reports whether it
// asks to quit the program.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	frame.Set(action)
	return isQuit
}

// MapMouseToFrame treats a left click as a tap.
func (km *KeyMapper) MapMouseToFrame(msg tea.MouseMsg, frame *core.InputFrame) {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		frame.Set(core.ActionFlip)
	}
}

// MenuAction is a level select action.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionProgress
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	m := km.Menu
	switch {
	case key.Matches(msg, m.Quit):
		return MenuActionQuit
	case key.Matches(msg, m.Up):
		return MenuActionUp
	case key.Matches(msg, m.Down):
		return MenuActionDown
	case key.Matches(msg, m.Left):
		return MenuActionLeft
	case key.Matches(msg, m.Right):
		return MenuActionRight
	case key.Matches(msg, m.Select):
		return MenuActionSelect
	case key.Matches(msg, m.Progress):
		return MenuActionProgress
	case key.Matches(msg, m.Back):
		return MenuActionBack
	}
	return MenuActionNone
}
