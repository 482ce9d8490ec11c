package gravity

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/vovakirdan/gravity/internal/compiler"
	"github.com/vovakirdan/gravity/internal/core"
	"github.com/vovakirdan/gravity/internal/run"
	"github.com/vovakirdan/gravity/internal/world"
)

// Playfield geometry. World y runs up, screen rows run down.
const (
	topY        = 8.0
	bottomY     = -1.0
	rowsPerUnit = 2
	maxCols     = 4 // Columns per world unit on wide terminals
	fieldRows   = int((topY - bottomY) * rowsPerUnit)
	minWidth    = 40
	minHeight   = fieldRows + 4 // HUD, two rails and the footer
	burstTime   = 0.75
)

// Visual characters.
const (
	blockChar     = '█'
	decorChar     = '▒'
	spikeUpChar   = '▲'
	spikeDownChar = '▼'
	obstacleChar  = '▓'
	flagChar      = '⚑'
	ballChar      = '●'
	trailChar     = '·'
	burstChar     = '*'
)

// viewport maps view-space positions to screen cells.
type viewport struct {
	minX   float64
	sx     int
	x0, y0 int
	w      int // Playfield width in columns
}

func newViewport(w, h int, minX, maxX float64) viewport {
	span := maxX - minX
	sx := core.Clamp(int(float64(w)/span), 1, maxCols)
	fw := int(span * float64(sx))
	return viewport{
		minX: minX,
		sx:   sx,
		x0:   max(0, (w-fw)/2),
		y0:   2 + max(0, (h-minHeight)/2),
		w:    fw,
	}
}

func (v viewport) col(x float64) int {
	return v.x0 + int(math.Floor((x-v.minX)*float64(v.sx)))
}

func (v viewport) row(y float64) int {
	return v.y0 + int(math.Floor((topY-y)*rowsPerUnit))
}

func (v viewport) inside(x, y int) bool {
	return x >= v.x0 && x < v.x0+v.w && y >= v.y0 && y < v.y0+fieldRows
}

func (v viewport) set(dst *core.Screen, x, y int, r rune, c core.Color) {
	if v.inside(x, y) {
		dst.SetColor(x, y, r, c)
	}
}

// fill covers a square of side size centered on p. At least one cell is
// drawn.
func (v viewport) fill(dst *core.Screen, p core.Vec2, size float64, r rune, c core.Color) {
	half := size / 2
	x1, x2 := v.col(p.X-half), v.col(p.X+half)
	y1, y2 := v.row(p.Y+half), v.row(p.Y-half)
	if x2 <= x1 {
		x2 = x1 + 1
	}
	if y2 <= y1 {
		y2 = y1 + 1
	}
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			v.set(dst, x, y, r, c)
		}
	}
}

// Render draws the current screen of the run.
func (g *Game) Render(dst *core.Screen) {
	w, h := dst.Width(), dst.Height()
	if w < minWidth || h < minHeight {
		dst.DrawTextCentered(h/2, fmt.Sprintf("Enlarge the terminal to %dx%d", minWidth, minHeight), core.ColorYellow)
		return
	}

	c := g.ctrl
	view := g.env.Config.View
	vp := newViewport(w, h, view.MinX, view.MaxX)

	if wd := c.World(); wd != nil {
		g.drawWorld(dst, vp, wd)
	}
	g.drawHUD(dst, vp)

	if c.Clock().Now(core.Unscaled) < g.adUntil {
		g.panel(dst, core.ColorBrightWhite, "Advertisement", "", "The game continues shortly")
		return
	}
	g.drawOverlay(dst)
}

func (g *Game) drawWorld(dst *core.Screen, vp viewport, wd *world.World) {
	cfg := g.env.Config
	block := core.ColorBlue
	if cfg.Debug.UseGrayBlocks {
		block = core.ColorGray
	}

	for _, pl := range wd.Plan.Placements {
		p := wd.Frame.ToView(pl.Pos)
		switch pl.Kind {
		case compiler.KindBlock:
			vp.fill(dst, p, cfg.Physics.BlockSize, blockChar, block)
		case compiler.KindDecor:
			vp.fill(dst, p, cfg.Physics.BlockSize, decorChar, core.ColorGray)
		case compiler.KindSpike:
			r := spikeUpChar
			if pl.Row == 0 || pl.Row == 1 || pl.Row == 4 {
				r = spikeDownChar
			}
			vp.fill(dst, p, cfg.Physics.SpikeSize, r, core.ColorRed)
		}
	}

	if wd.Flag != nil {
		p := wd.Frame.ToView(wd.Flag.Position())
		vp.set(dst, vp.col(p.X), vp.row(p.Y), flagChar, core.ColorBrightGreen)
		vp.set(dst, vp.col(p.X), vp.row(p.Y)+1, '│', core.ColorGreen)
	}

	for _, o := range wd.Obstacles {
		vp.fill(dst, wd.Frame.ToView(o.Position()), cfg.Physics.BlockSize, obstacleChar, core.ColorMagenta)
	}

	pl := wd.Player
	for _, t := range pl.Trail() {
		p := wd.Frame.ToView(t)
		vp.set(dst, vp.col(p.X), vp.row(p.Y), trailChar, core.ColorGray)
	}
	if pl.Active() {
		vp.fill(dst, wd.Frame.ToView(pl.Position()), cfg.Physics.BallSize, ballChar, core.ColorBrightYellow)
	}

	if b, ok := g.ctrl.LastBurst(); ok {
		age := g.ctrl.Clock().Now(core.Unscaled) - b.At
		if age < burstTime {
			g.drawBurst(dst, vp, wd.Frame.ToView(b.Pos), age)
		}
	}
}

// drawBurst scatters particles outward from p as the burst ages.
func (g *Game) drawBurst(dst *core.Screen, vp viewport, p core.Vec2, age float64) {
	radius := 0.5 + 2*age/burstTime
	for i := range 8 {
		a := float64(i) * math.Pi / 4
		q := core.Vec2{X: p.X + radius*math.Cos(a), Y: p.Y + radius*math.Sin(a)}
		vp.set(dst, vp.col(q.X), vp.row(q.Y), burstChar, core.ColorOrange)
	}
}

func (g *Game) drawHUD(dst *core.Screen, vp viewport) {
	c := g.ctrl
	dst.DrawTextColor(vp.x0, 0, fmt.Sprintf("Level %d", c.Session().SelectedLevel), core.ColorCyan)
	if c.World() != nil {
		dst.DrawTextCentered(0, c.Score(), core.ColorBrightWhite)
	}
	if c.ShowFPS() {
		fps := fmt.Sprintf("FPS %d", c.FPS())
		dst.DrawTextColor(vp.x0+vp.w-utf8.RuneCountInString(fps), 0, fps, core.ColorGray)
	}

	// Lane rails.
	for x := vp.x0; x < vp.x0+vp.w; x++ {
		dst.SetColor(x, vp.y0-1, '─', core.ColorGray)
		dst.SetColor(x, vp.y0+fieldRows, '─', core.ColorGray)
	}

	footer := vp.y0 + fieldRows + 1
	if b, ok := g.env.Ads.(banners); ok && b.BannerVisible() {
		dst.DrawTextCentered(footer, "[ advertisement ]", core.ColorGray)
		return
	}
	if c.Screen() == run.ScreenInGame {
		dst.DrawTextCentered(footer, "SPACE flip  P pause  F5 reload  Q quit", core.ColorGray)
	}
}

func (g *Game) drawOverlay(dst *core.Screen) {
	c := g.ctrl
	switch c.Screen() {
	case run.ScreenLoading:
		g.panel(dst, core.ColorCyan, fmt.Sprintf("Loading level %d...", c.Session().SelectedLevel))
	case run.ScreenTutorial:
		g.panel(dst, core.ColorBrightCyan,
			"How to play",
			"",
			"SPACE flips gravity while the ball rests on a platform",
			"Spikes, falling blocks and the lane edges end the run",
			"Reach the flag to clear the level",
			"",
			"Press SPACE to start")
	case run.ScreenPause:
		_, se := c.Volumes()
		lines := []string{c.PauseText(), "", fmt.Sprintf("Volume %d%%  -/+", int(math.Round(se*100)))}
		if !c.CountingDown() {
			lines = append(lines, "", "P resume  R restart  M menu")
		}
		g.panel(dst, core.ColorYellow, lines...)
	case run.ScreenComplete:
		keys := "R replay  M menu"
		if c.NextLevelAvailable() {
			keys = "N next level  " + keys
		}
		title := "Level Complete!"
		if g.practice {
			title = "Level Complete! (practice)"
		}
		g.panel(dst, core.ColorBrightGreen, title, "", c.Score(), "", keys)
	case run.ScreenFailed:
		g.panel(dst, core.ColorBrightRed, "Level Failed", "", c.Score(), "", "R retry  M menu")
	case run.ScreenError:
		msg := "unknown error"
		if err := c.Err(); err != nil {
			msg = err.Error()
		}
		g.panel(dst, core.ColorRed,
			fmt.Sprintf("Cannot load level %d", c.Session().SelectedLevel),
			"", msg, "", "F5 retry  M menu")
	}
}

// panel draws lines centered in a bordered box in the middle of dst.
func (g *Game) panel(dst *core.Screen, c core.Color, lines ...string) {
	inner := 0
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n > dst.Width()-4 {
			lines[i] = string([]rune(l)[:max(0, dst.Width()-7)]) + "..."
		}
		inner = max(inner, utf8.RuneCountInString(lines[i]))
	}
	r := core.NewRect(0, 0, inner+4, len(lines)+2)
	r.X = (dst.Width() - r.W) / 2
	r.Y = (dst.Height() - r.H) / 2
	dst.DrawRect(r, ' ', core.ColorDefault)
	dst.DrawBox(r, c)
	for i, l := range lines {
		dst.DrawTextCentered(r.Y+1+i, l, c)
	}
}
