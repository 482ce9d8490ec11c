package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gravity/internal/core"
)

// Palette maps screen colors to terminal styles. Colors missing from the
// palette are drawn unstyled.
type Palette map[core.Color]lipgloss.Style

// DefaultPalette uses the 16 ANSI colors plus two 256-color extras.
func DefaultPalette() Palette {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return Palette{
		core.ColorRed:           fg("1"),
		core.ColorGreen:         fg("2"),
		core.ColorYellow:        fg("3"),
		core.ColorBlue:          fg("4"),
		core.ColorMagenta:       fg("5"),
		core.ColorCyan:          fg("6"),
		core.ColorWhite:         fg("7"),
		core.ColorBrightRed:     fg("9"),
		core.ColorBrightGreen:   fg("10"),
		core.ColorBrightYellow:  fg("11").Bold(true),
		core.ColorBrightBlue:    fg("12"),
		core.ColorBrightMagenta: fg("13"),
		core.ColorBrightCyan:    fg("14"),
		core.ColorBrightWhite:   fg("15"),
		core.ColorOrange:        fg("208"),
		core.ColorGray:          fg("245"),
	}
}

// MonoPalette draws everything in the terminal's default color.
func MonoPalette() Palette { return Palette{} }

// screenPalette honors NO_COLOR (https://no-color.org).
var screenPalette = func() Palette {
	if os.Getenv("NO_COLOR") != "" {
		return MonoPalette()
	}
	return DefaultPalette()
}()

// Render converts a screen buffer to a styled string, one escape sequence
// per run of same-colored cells. Blank cells are never styled.
func (p Palette) Render(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.Width(); {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color && cell.Rune != ' ' {
					break
				}
				run.WriteRune(cell.Rune)
			}
			text := run.String()
			if style, ok := p[color]; ok && strings.TrimSpace(text) != "" {
				text = style.Render(text)
			}
			sb.WriteString(text)
		}
	}
	return sb.String()
}

// RenderScreen renders s with the process palette.
func RenderScreen(s *core.Screen) string {
	return screenPalette.Render(s)
}
