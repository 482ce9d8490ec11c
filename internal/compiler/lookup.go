package compiler

import "github.com/vovakirdan/gravity/internal/level"

const (
	// LeftOffset is the world x of column 0.
	LeftOffset = -3.0
	// FlagOffset is subtracted from the flag's x to get the run length.
	FlagOffset = 3.0
)

// Zone groups map rows into three horizontal bands.
type Zone uint8

const (
	ZoneTop Zone = iota
	ZoneMiddle
	ZoneBottom
	zoneCount
)

func (z Zone) String() string {
	switch z {
	case ZoneTop:
		return "top"
	case ZoneMiddle:
		return "middle"
	case ZoneBottom:
		return "bottom"
	}
	return "unknown"
}

// ZoneOf returns the zone a row belongs to: rows 0-1 top, 2-4 middle,
// 5-6 bottom.
func ZoneOf(row int) Zone {
	switch {
	case row <= 1:
		return ZoneTop
	case row <= 4:
		return ZoneMiddle
	}
	return ZoneBottom
}

// Spawn heights per cell code, indexed by row. A missing entry means the
// code may not appear in that row.
var spawnY = map[rune]map[int]float64{
	level.CellBlock:    {0: 7, 3: 3.5, 6: 0},
	level.CellGray:     {0: 7, 3: 3.5, 6: 0},
	level.CellSpike:    {0: 7.5, 1: 6.5, 2: 4, 4: 3, 5: 0.5, 6: -0.5},
	level.CellPlayer:   {1: 6, 2: 4.5, 4: 2.5, 5: 1},
	level.CellFlag:     {2: 4.05, 5: 0.57},
	level.CellObstacle: {1: 7, 2: 3.5, 4: 3.5, 5: 0},
}

// SpawnY returns the world y for a cell code in a row. The second result
// is false when the code may not appear in that row.
func SpawnY(code rune, row int) (float64, bool) {
	byRow, ok := spawnY[code]
	if !ok {
		return 0, false
	}
	y, ok := byRow[row]
	return y, ok
}

// ColumnX returns the world x of a column.
func ColumnX(col int) float64 {
	return LeftOffset + float64(col)
}

// ceilingLane reports whether a row sits directly under a block row.
// A player spawned there starts with gravity pulling up and an obstacle
// there travels down.
func ceilingLane(row int) bool {
	return row == 1 || row == 4
}
