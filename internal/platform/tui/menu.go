package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gravity/internal/core"
	"github.com/vovakirdan/gravity/internal/registry"
)

// ModeEntry is one playable mode in the level select.
type ModeEntry struct {
	GameID string
	Title  string
	Levels registry.Leveled
}

// Selection is the mode and level picked in the menu.
type Selection struct {
	GameID string
	Level  int
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	menuTabStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	menuLockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	menuHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuNoteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// MenuModel is the Bubble Tea model for the level select.
type MenuModel struct {
	modes        []ModeEntry
	mode         int
	cursor       int // Level index, 0-based
	profile      string
	width        int
	height       int
	config       core.RuntimeConfig
	keyMapper    *KeyMapper
	help         help.Model
	note         string
	quitting     bool
	selected     *Selection
	openProgress bool
}

// NewMenuModel creates a level select over modes. The cursor starts on
// the first mode's selected level.
func NewMenuModel(modes []ModeEntry, profile string, cfg core.RuntimeConfig) MenuModel {
	m := MenuModel{
		modes:     modes,
		profile:   profile,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		help:      help.New(),
	}
	if lv := m.levels(); lv != nil {
		m.cursor = lv.Selected() - 1
	}
	return m
}

func (m MenuModel) levels() registry.Leveled {
	if len(m.modes) == 0 {
		return nil
	}
	return m.modes[m.mode].Levels
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.note = ""
	lv := m.levels()

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if lv != nil && m.cursor < lv.Levels()-1 {
			m.cursor++
		}

	case MenuActionLeft:
		if len(m.modes) > 0 {
			m.mode = (m.mode + len(m.modes) - 1) % len(m.modes)
			m.cursor = core.Clamp(m.cursor, 0, m.modes[m.mode].Levels.Levels()-1)
		}

	case MenuActionRight:
		if len(m.modes) > 0 {
			m.mode = (m.mode + 1) % len(m.modes)
			m.cursor = core.Clamp(m.cursor, 0, m.modes[m.mode].Levels.Levels()-1)
		}

	case MenuActionSelect:
		if lv == nil {
			break
		}
		id := m.cursor + 1
		if !lv.SelectLevel(id) {
			m.note = fmt.Sprintf("Level %d is locked. Clear level %d first.", id, lv.Unlocked())
			break
		}
		m.selected = &Selection{GameID: m.modes[m.mode].GameID, Level: id}
		return m, tea.Quit

	case MenuActionProgress:
		m.openProgress = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("G R A V I T Y"), m.width))
	b.WriteString("\n")
	if m.profile != "" {
		b.WriteString(centerText(menuHelpStyle.Render("profile: "+m.profile), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	tabs := make([]string, len(m.modes))
	for i, mode := range m.modes {
		if i == m.mode {
			tabs[i] = menuActiveStyle.Render(mode.Title)
		} else {
			tabs[i] = menuTabStyle.Render(mode.Title)
		}
	}
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	if lv := m.levels(); lv != nil {
		first, last := m.window(lv.Levels())
		unlocked := lv.Unlocked()
		for i := first; i < last; i++ {
			id := i + 1
			cursor := "  "
			if i == m.cursor {
				cursor = "> "
			}
			line := fmt.Sprintf("%sLevel %-3d", cursor, id)
			if id > unlocked {
				line = menuLockedStyle.Render(line + " locked")
			} else if i == m.cursor {
				line = menuTitleStyle.Render(line + "       ")
			} else {
				line += "       "
			}
			b.WriteString(centerText(line, m.width))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(centerText("No levels found.", m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.note != "" {
		b.WriteString(centerText(menuNoteStyle.Render(m.note), m.width))
		b.WriteString("\n")
	}
	b.WriteString(centerText(m.help.View(m.keyMapper.Menu), m.width))
	b.WriteString("\n")

	return b.String()
}

// window returns the range of level indices that fit on screen around
// the cursor.
func (m MenuModel) window(n int) (first, last int) {
	rows := max(3, m.height-12)
	if n <= rows {
		return 0, n
	}
	first = core.Clamp(m.cursor-rows/2, 0, n-rows)
	return first, first + rows
}

// Selected returns the picked mode and level, or nil if none.
func (m MenuModel) Selected() *Selection {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsProgress returns true if user asked for the progress screen.
func (m MenuModel) WantsProgress() bool {
	return m.openProgress
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Selection     *Selection
	Config        core.RuntimeConfig
	WantsProgress bool
	Quit          bool
}

// RunMenu runs the level select and returns the choice.
func RunMenu(modes []ModeEntry, profile string, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(modes, profile, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsProgress():
		result.WantsProgress = true
	case m.Selected() != nil:
		result.Selection = m.Selected()
	default:
		result.Quit = true
	}
	return result, nil
}
