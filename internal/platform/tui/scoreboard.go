package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gravity/internal/achievement"
	"github.com/vovakirdan/gravity/internal/storage"
)

// Progress layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show the view list sidebar
	sidebarWidth       = 20
	maxRecentRuns      = 100
)

// ProgressSource is the read side of the save database.
type ProgressSource interface {
	LevelStats(profile string) ([]storage.LevelStats, error)
	Achievements(profile string) ([]storage.AchievementEntry, error)
	RecentRuns(profile string, limit int) ([]storage.RunEntry, error)
}

var _ ProgressSource = (*storage.Store)(nil)

// progressView is one table of the progress screen.
type progressView int

const (
	viewLevels progressView = iota
	viewAchievements
	viewRuns
	viewCount
)

var viewTitles = [viewCount]string{
	viewLevels:       "Levels",
	viewAchievements: "Achievements",
	viewRuns:         "Recent runs",
}

// ProgressKeyMap defines the key bindings for the progress screen.
type ProgressKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Back     key.Binding
	Quit     key.Binding
	NextView key.Binding
	PrevView key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ProgressKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.PrevView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ProgressKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.PrevView},
		{k.Back, k.Quit},
	}
}

// DefaultProgressKeyMap returns default key bindings.
func DefaultProgressKeyMap() ProgressKeyMap {
	return ProgressKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev view"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next view"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ProgressModel is the Bubble Tea model for a profile's progress.
type ProgressModel struct {
	source      ProgressSource
	profile     string
	view        progressView
	rows        []table.Row
	loadErr     error
	table       table.Model
	help        help.Model
	keys        ProgressKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewProgressModel creates a progress screen for profile. A nil source
// shows empty tables.
func NewProgressModel(source ProgressSource, profile string, width, height int) ProgressModel {
	h := help.New()
	h.ShowAll = false

	m := ProgressModel{
		source:      source,
		profile:     profile,
		keys:        DefaultProgressKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.load()
	return m
}

// columns returns the table columns of the current view.
func (m *ProgressModel) columns() []table.Column {
	switch m.view {
	case viewAchievements:
		return []table.Column{
			{Title: "Achievement", Width: 30},
			{Title: "Times", Width: 6},
			{Title: "Unlocked", Width: 14},
		}
	case viewRuns:
		return []table.Column{
			{Title: "Level", Width: 6},
			{Title: "Result", Width: 9},
			{Title: "Distance", Width: 9},
			{Title: "Try", Width: 4},
			{Title: "Date", Width: 14},
		}
	}
	return []table.Column{
		{Title: "Level", Width: 6},
		{Title: "Attempts", Width: 9},
		{Title: "Cleared", Width: 8},
		{Title: "Best", Width: 8},
		{Title: "Last played", Width: 14},
	}
}

func (m *ProgressModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-8)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load reads the current view from the source.
func (m *ProgressModel) load() {
	m.rows, m.loadErr = nil, nil
	if m.source != nil {
		m.rows, m.loadErr = m.fetch()
	}
	m.table = m.createTable()
	m.table.SetRows(m.rows)
	m.table.GotoTop()
}

func (m *ProgressModel) fetch() ([]table.Row, error) {
	const date = "Jan 02 15:04"
	var rows []table.Row

	switch m.view {
	case viewAchievements:
		entries, err := m.source.Achievements(m.profile)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			title := string(e.ID)
			if info, ok := achievement.Lookup(e.ID); ok {
				title = info.Title
			}
			rows = append(rows, table.Row{title, fmt.Sprintf("%d", e.Count), e.UnlockedAt.Format(date)})
		}

	case viewRuns:
		runs, err := m.source.RecentRuns(m.profile, maxRecentRuns)
		if err != nil {
			return nil, err
		}
		for _, r := range runs {
			result := "failed"
			if r.Completed {
				result = "cleared"
			}
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", r.Level),
				result,
				fmt.Sprintf("%.0f m", r.Distance),
				fmt.Sprintf("%d", r.Tries),
				r.CreatedAt.Format(date),
			})
		}

	default:
		stats, err := m.source.LevelStats(m.profile)
		if err != nil {
			return nil, err
		}
		for _, s := range stats {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", s.Level),
				fmt.Sprintf("%d", s.Attempts),
				fmt.Sprintf("%d", s.Completions),
				fmt.Sprintf("%.0f m", s.BestDistance),
				s.LastPlayed.Format(date),
			})
		}
	}
	return rows, nil
}

// Init initializes the progress model.
func (m ProgressModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the progress screen.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextView), key.Matches(msg, m.keys.Right):
			m.view = (m.view + 1) % viewCount
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevView), key.Matches(msg, m.keys.Left):
			m.view = (m.view + viewCount - 1) % viewCount
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.table.SetRows(m.rows)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the progress screen.
func (m ProgressModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("PROGRESS - %s", viewTitles[m.view])
	if m.profile != "" {
		title += " (" + m.profile + ")"
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the tables with a sidebar listing the views.
func (m ProgressModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Views\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for v := range viewCount {
		cursor := "  "
		style := lipgloss.NewStyle()
		if v == m.view {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + viewTitles[v]))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders view tabs above the table.
func (m ProgressModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, viewCount)
	for v := range viewCount {
		if v == m.view {
			tabs[v] = activeTabStyle.Render(viewTitles[v])
		} else {
			tabs[v] = tabStyle.Render(" " + viewTitles[v] + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", viewTitles[m.view])
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))
	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m ProgressModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.loadErr != nil {
		return emptyStyle.Render("Could not read progress:\n" + m.loadErr.Error())
	}
	if len(m.rows) == 0 {
		return emptyStyle.Render("Nothing recorded yet.\nPlay a level to get started!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ProgressModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ProgressModel) IsQuitting() bool {
	return m.quitting
}

// RunProgress runs the progress screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunProgress(source ProgressSource, profile string, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewProgressModel(source, profile, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ProgressModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
