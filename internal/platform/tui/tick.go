// Package tui runs games in the terminal with Bubble Tea: the level
// select, the game loop, the progress screen and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultTickRate = 60

// TickMsg asks the game to advance one frame.
type TickMsg time.Time

// frameInterval is the time between frames at tickRate. Non-positive
// rates fall back to 60 Hz.
func frameInterval(tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = defaultTickRate
	}
	return time.Second / time.Duration(tickRate)
}

func tickCmd(tickRate int) tea.Cmd {
	return tea.Tick(frameInterval(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
