package compiler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gravity/internal/level"
)

func grid(rows ...string) level.Grid {
	var g level.Grid
	copy(g[:], rows)
	return g
}

func TestCompileSinglePlayerAndFlag(t *testing.T) {
	g := grid(
		"CCCCCCCCCCCC",
		"",
		"",
		"CCCCCCCCCCCC",
		"",
		"   P      F",
		"CCCCCCCCCCCC",
	)

	p, err := Compile(1, g, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 0.0, p.Player.Spawn.X)
	assert.Equal(t, 1.0, p.Player.Spawn.Y)
	assert.Equal(t, -1.0, p.Player.GravitySign)
	assert.Equal(t, 7.0, p.Flag.X)
	assert.Equal(t, 0.57, p.Flag.Y)
	assert.Equal(t, 4.0, p.TotalDistance)
	assert.Equal(t, 1, p.Count(KindPlayer))
	assert.Equal(t, 1, p.Count(KindFlag))
}

func TestCompileIsRepeatable(t *testing.T) {
	g := grid(
		"C CCCGCC  CCCCCCCCCC",
		"     O        T",
		"  T",
		"CCCC  CCCCC  CCCC",
		"    O      T",
		"   P             F",
		"CCCC CCCCCC  CCCCC C",
	)

	first, err := Compile(3, g, DefaultOptions())
	require.NoError(t, err)
	second, err := Compile(3, g, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, first.Placements, second.Placements)
	assert.Equal(t, first.Blocks, second.Blocks)
	assert.Equal(t, first.Spikes, second.Spikes)
	assert.Equal(t, first.Obstacles, second.Obstacles)
	assert.Equal(t, first.Player, second.Player)
	assert.Equal(t, first.Flag, second.Flag)
	assert.Equal(t, first.TotalDistance, second.TotalDistance)
	assert.Equal(t, first.TopVoids.Lanes(), second.TopVoids.Lanes())
	assert.Equal(t, first.BottomVoids.Lanes(), second.BottomVoids.Lanes())
	assert.NotEmpty(t, first.TopVoids.Lanes())
}

func TestCompileTotalDistanceFollowsFlagColumn(t *testing.T) {
	for _, col := range []int{7, 12, 40} {
		row5 := []rune("   P")
		for len(row5) < col {
			row5 = append(row5, ' ')
		}
		row5 = append(row5, 'F')

		p, err := Compile(1, grid("", "", "", "", "", string(row5), ""), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, float64(col)+LeftOffset-FlagOffset, p.TotalDistance, "flag column %d", col)
	}
}

func TestCompileSpawnHeights(t *testing.T) {
	tests := []struct {
		code rune
		row  int
		y    float64
	}{
		{'C', 0, 7}, {'C', 3, 3.5}, {'C', 6, 0},
		{'G', 3, 3.5},
		{'T', 0, 7.5}, {'T', 1, 6.5}, {'T', 2, 4}, {'T', 4, 3}, {'T', 5, 0.5}, {'T', 6, -0.5},
		{'P', 1, 6}, {'P', 2, 4.5}, {'P', 4, 2.5}, {'P', 5, 1},
		{'F', 2, 4.05}, {'F', 5, 0.57},
		{'O', 1, 7}, {'O', 2, 3.5}, {'O', 4, 3.5}, {'O', 5, 0},
	}
	for _, tt := range tests {
		y, ok := SpawnY(tt.code, tt.row)
		if assert.True(t, ok, "%c row %d", tt.code, tt.row) {
			assert.Equal(t, tt.y, y, "%c row %d", tt.code, tt.row)
		}
	}
}

func TestCompileRejectsUnmappedCells(t *testing.T) {
	invalid := []struct {
		code rune
		row  int
	}{
		{'C', 1}, {'C', 2}, {'C', 4}, {'C', 5},
		{'T', 3},
		{'P', 0}, {'P', 3}, {'P', 6},
		{'F', 0}, {'F', 1}, {'F', 3}, {'F', 4}, {'F', 6},
		{'O', 0}, {'O', 3}, {'O', 6},
	}
	for _, tt := range invalid {
		rows := []string{"", "", "", "", "", "   P      F", ""}
		rows[tt.row] = "     " + string(tt.code)

		_, err := Compile(1, grid(rows...), DefaultOptions())
		var ce *level.ContentError
		if assert.ErrorAs(t, err, &ce, "%c in row %d", tt.code, tt.row) {
			assert.Equal(t, level.CodeUnmappedCell, ce.Code)
			assert.Equal(t, tt.row, ce.Row)
			assert.Equal(t, tt.code, ce.Cell)
		}
	}
}

func TestCompileContentErrors(t *testing.T) {
	tests := []struct {
		name string
		g    level.Grid
		code string
	}{
		{"unknown code", grid("", "", "", "", "", "   P  X   F", ""), level.CodeUnknownCell},
		{"no player", grid("", "", "", "", "", "          F", ""), level.CodeNoPlayer},
		{"two players", grid("", "", "", "", "   P", "   P      F", ""), level.CodeMultiplePlayers},
		{"no flag", grid("", "", "", "", "", "   P", ""), level.CodeNoFlag},
		{"two flags", grid("", "", "     F", "", "", "   P      F", ""), level.CodeMultipleFlags},
		{"no distance", grid("", "", "", "", "", " F P", ""), level.CodeNoDistance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(1, tt.g, DefaultOptions())
			var ce *level.ContentError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.code, ce.Code)
		})
	}
}

func TestCompileGravityAndObstacleDirection(t *testing.T) {
	tests := []struct {
		row   int
		sign  float64
		speed float64
	}{
		{1, 1, -4},
		{2, -1, 4},
		{4, 1, -4},
		{5, -1, 4},
	}
	for _, tt := range tests {
		rows := []string{"", "", "", "", "", "           F", ""}
		rows[tt.row] = "   P  O"
		if tt.row == 5 {
			rows[5] = "   P  O    F"
		}

		p, err := Compile(1, grid(rows...), DefaultOptions())
		require.NoError(t, err, "row %d", tt.row)
		assert.Equal(t, tt.sign, p.Player.GravitySign, "row %d", tt.row)
		require.Len(t, p.Obstacles, 1)
		assert.Equal(t, tt.speed, p.Obstacles[0].Speed, "row %d", tt.row)
	}
}

func TestCompileZones(t *testing.T) {
	for row, zone := range []Zone{ZoneTop, ZoneTop, ZoneMiddle, ZoneMiddle, ZoneMiddle, ZoneBottom, ZoneBottom} {
		assert.Equal(t, zone, ZoneOf(row), "row %d", row)
	}

	g := grid("CC", " T", "", "C", "", "   P      F", "CCC")
	p, err := Compile(1, g, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, p.InZone(ZoneTop), 3)
	assert.Len(t, p.InZone(ZoneMiddle), 1)
	assert.Len(t, p.InZone(ZoneBottom), 5)
}

func TestCompileVoidSets(t *testing.T) {
	g := grid(
		"CC  CC",
		"   ",
		"",
		"C  C",
		"",
		"   P      F",
		"C C   C",
	)
	p, err := Compile(1, g, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []int{-1, 0}, p.TopVoids.Lanes())
	assert.Equal(t, []int{-2, 0, 1, 2}, p.BottomVoids.Lanes())
	assert.True(t, p.IsVoid(-1))
	assert.True(t, p.IsVoid(2))
	assert.False(t, p.IsVoid(3), "positions past a short row are not voids")
	assert.False(t, p.IsVoid(-3))
}

func TestCompileMergesBlocks(t *testing.T) {
	g := grid(
		"CCCC  CC",
		"",
		"",
		"CCCCCCCC",
		"",
		"   P  TT  F",
		"",
	)
	p, err := Compile(1, g, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, TagPlatform, p.Blocks.Tag)
	assert.Equal(t, 14, p.Blocks.Cells)
	require.Len(t, p.Blocks.Boxes, 3)

	first := p.Blocks.Boxes[0]
	assert.InDelta(t, -3.5, first.MinX(), 1e-9)
	assert.InDelta(t, 0.5, first.MaxX(), 1e-9)
	assert.InDelta(t, 7.0, first.Center.Y, 1e-9)

	assert.Equal(t, TagSpike, p.Spikes.Tag)
	assert.Len(t, p.Spikes.Boxes, 2, "spikes smaller than a cell stay separate")
	for _, pl := range p.Placements {
		if pl.Kind == KindSpike {
			assert.Equal(t, Euler{Z: 45}, pl.Rotation)
		}
		if pl.Kind == KindFlag {
			assert.Equal(t, Euler{Y: 180}, pl.Rotation)
		}
	}
}

func TestCompileGrayBlocks(t *testing.T) {
	g := grid("CGGC", "", "", "", "", "   P      F", "")

	solid, err := Compile(1, g, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 4, solid.Blocks.Cells)
	assert.Len(t, solid.Blocks.Boxes, 1)

	opts := DefaultOptions()
	opts.UseGrayBlocks = true
	decor, err := Compile(1, g, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, decor.Blocks.Cells)
	assert.Len(t, decor.Blocks.Boxes, 2)
	assert.Equal(t, 2, decor.Count(KindDecor))
}

func TestCompileBuiltinLevels(t *testing.T) {
	src := level.Builtin()
	ids, err := src.IDs()
	require.NoError(t, err)

	for _, id := range ids {
		g, err := level.Read(context.Background(), src, id)
		require.NoError(t, err, "level %d", id)
		p, err := Compile(id, g, DefaultOptions())
		require.NoError(t, err, "level %d", id)
		assert.Positive(t, p.TotalDistance, "level %d", id)
	}
}

type slowSource struct {
	mu      sync.Mutex
	release map[int]chan struct{}
	maps    map[int]string
}

func (s *slowSource) Load(ctx context.Context, id int) ([]byte, error) {
	s.mu.Lock()
	ch := s.release[id]
	s.mu.Unlock()
	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, &level.IOError{Level: id, Err: ctx.Err()}
		}
	}
	data, ok := s.maps[id]
	if !ok {
		return nil, &level.IOError{Level: id, Err: level.ErrNotFound}
	}
	return []byte(data), nil
}

func (s *slowSource) IDs() ([]int, error) { return []int{1, 2}, nil }

const simpleMap = "<start>\nCCCCCCCCCCCC\n\n\nCCCCCCCCCCCC\n\n   P      F\nCCCCCCCCCCCC\n<end>\n"
const longerMap = "<start>\nCCCCCCCCCCCCCCCCCCCC\n\n\nCCCCCCCCCCCCCCCCCCCC\n\n   P              F\nCCCCCCCCCCCCCCCCCCCC\n<end>\n"

func TestCompilerSynchronous(t *testing.T) {
	src := &slowSource{maps: map[int]string{1: simpleMap}}
	c := NewCompiler(src, DefaultOptions(), nil)
	c.Synchronous = true

	gen := c.Start(context.Background(), 1)
	assert.True(t, c.Pending())

	res, ok := c.Poll()
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, gen, res.Generation)
	assert.Equal(t, 1, res.Level)
	assert.Equal(t, 4.0, res.Plan.TotalDistance)
	assert.False(t, c.Pending())

	_, ok = c.Poll()
	assert.False(t, ok)
}

func TestCompilerDiscardsStaleResults(t *testing.T) {
	slow := make(chan struct{})
	src := &slowSource{
		release: map[int]chan struct{}{1: slow},
		maps:    map[int]string{1: simpleMap, 2: longerMap},
	}
	c := NewCompiler(src, DefaultOptions(), nil)

	c.Start(context.Background(), 1)
	gen := c.Start(context.Background(), 2)
	close(slow)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := c.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, gen, res.Generation)
	assert.Equal(t, 2, res.Level)
	require.NoError(t, res.Err)
	assert.Equal(t, 12.0, res.Plan.TotalDistance, "flag in column 18")
}

func TestCompilerCancel(t *testing.T) {
	src := &slowSource{maps: map[int]string{1: simpleMap}}
	c := NewCompiler(src, DefaultOptions(), nil)
	c.Synchronous = true

	c.Start(context.Background(), 1)
	c.Cancel()

	_, ok := c.Poll()
	assert.False(t, ok, "cancelled job must not be applied")
	assert.False(t, c.Pending())
}

func TestCompilerReportsLoadErrors(t *testing.T) {
	src := &slowSource{maps: map[int]string{}}
	c := NewCompiler(src, DefaultOptions(), nil)
	c.Synchronous = true

	c.Start(context.Background(), 9)
	res, ok := c.Poll()
	require.True(t, ok)
	assert.True(t, errors.Is(res.Err, level.ErrNotFound))
}
