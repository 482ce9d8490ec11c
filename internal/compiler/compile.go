// Package compiler turns a parsed map grid into a placement plan: world
// positions for every cell, merged static colliders, actor descriptions
// and the void lanes used for wrap-around.
package compiler

import (
	"fmt"

	"github.com/vovakirdan/gravity/internal/config"
	"github.com/vovakirdan/gravity/internal/core"
	"github.com/vovakirdan/gravity/internal/level"
)

// Options controls how cells become geometry.
type Options struct {
	UseGrayBlocks bool    // Gray blocks become non-colliding decoration
	BlockSize     float64 // Edge length of a block collider
	SpikeSize     float64 // Edge length of a spike collider
	ObstacleSpeed float64
}

// DefaultOptions returns the options matching the default configuration.
func DefaultOptions() Options {
	return OptionsFrom(config.DefaultGravityConfig())
}

// OptionsFrom extracts compile options from the game configuration.
func OptionsFrom(cfg config.GravityConfig) Options {
	return Options{
		UseGrayBlocks: cfg.Debug.UseGrayBlocks,
		BlockSize:     cfg.Physics.BlockSize,
		SpikeSize:     cfg.Physics.SpikeSize,
		ObstacleSpeed: cfg.Obstacles.Speed,
	}
}

type cell struct {
	row, col int
	pos      core.Vec2
}

// Compile builds the plan for level id from its grid.
//
// It fails with a *level.ContentError on an unknown cell code, a code in
// a row it cannot occupy, a missing or repeated player or flag, or a flag
// that leaves no distance to travel.
func Compile(id int, g level.Grid, opts Options) (*Plan, error) {
	p := &Plan{
		Level:       id,
		Width:       g.Width(),
		TopVoids:    newVoidSet(),
		BottomVoids: newVoidSet(),
	}

	var blocks, spikes []cell
	players, flags := 0, 0

	err := g.Cells(func(row, col int, code rune) error {
		x := ColumnX(col)
		if code == level.CellVoid {
			switch row {
			case 0:
				p.TopVoids.add(int(x))
			case level.Rows - 1:
				p.BottomVoids.add(int(x))
			}
			return nil
		}

		if _, known := spawnY[code]; !known {
			return &level.ContentError{
				Code: level.CodeUnknownCell, Row: row, Col: col, Cell: code,
				Message: "unknown cell code",
			}
		}
		y, ok := SpawnY(code, row)
		if !ok {
			return &level.ContentError{
				Code: level.CodeUnmappedCell, Row: row, Col: col, Cell: code,
				Message: fmt.Sprintf("cell cannot be placed in row %d", row),
			}
		}

		pl := Placement{Zone: ZoneOf(row), Row: row, Col: col, Pos: core.Vec2{X: x, Y: y}}
		switch code {
		case level.CellBlock:
			pl.Kind = KindBlock
			blocks = append(blocks, cell{row, col, pl.Pos})
		case level.CellGray:
			if opts.UseGrayBlocks {
				pl.Kind = KindDecor
			} else {
				pl.Kind = KindBlock
				blocks = append(blocks, cell{row, col, pl.Pos})
			}
		case level.CellSpike:
			pl.Kind = KindSpike
			pl.Rotation = spikeRotation
			spikes = append(spikes, cell{row, col, pl.Pos})
		case level.CellObstacle:
			pl.Kind = KindObstacle
			speed := opts.ObstacleSpeed
			if ceilingLane(row) {
				speed = -speed
			}
			p.Obstacles = append(p.Obstacles, ObstacleSpec{Spawn: pl.Pos, Speed: speed})
		case level.CellPlayer:
			pl.Kind = KindPlayer
			players++
			if players > 1 {
				return &level.ContentError{
					Code: level.CodeMultiplePlayers, Row: row, Col: col, Cell: code,
					Message: "map has more than one player spawn",
				}
			}
			sign := -1.0
			if ceilingLane(row) {
				sign = 1
			}
			p.Player = PlayerSpec{Spawn: pl.Pos, GravitySign: sign}
		case level.CellFlag:
			pl.Kind = KindFlag
			pl.Rotation = flagRotation
			flags++
			if flags > 1 {
				return &level.ContentError{
					Code: level.CodeMultipleFlags, Row: row, Col: col, Cell: code,
					Message: "map has more than one flag",
				}
			}
			p.Flag = pl.Pos
			p.TotalDistance = x - FlagOffset
		}
		p.Placements = append(p.Placements, pl)
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch {
	case players == 0:
		return nil, contentErr(level.CodeNoPlayer, "map has no player spawn")
	case flags == 0:
		return nil, contentErr(level.CodeNoFlag, "map has no flag")
	case p.TotalDistance <= 0:
		return nil, contentErr(level.CodeNoDistance,
			fmt.Sprintf("flag at x=%.2f leaves no distance to travel", p.Flag.X))
	}

	p.Blocks = merge(TagPlatform, blocks, opts.BlockSize)
	p.Spikes = merge(TagSpike, spikes, opts.SpikeSize)
	return p, nil
}

func contentErr(code, msg string) *level.ContentError {
	return &level.ContentError{Code: code, Row: -1, Col: -1, Message: msg}
}

// merge collapses horizontally adjacent cells of the same row into a single
// box. Cells only touch when size covers the whole column pitch; smaller
// colliders stay separate so the union geometry is unchanged.
func merge(tag string, cells []cell, size float64) Mesh {
	m := Mesh{Tag: tag, Cells: len(cells)}
	joinable := size >= 1-core.Epsilon

	for i := 0; i < len(cells); {
		j := i + 1
		for joinable && j < len(cells) && cells[j].row == cells[i].row && cells[j].col == cells[j-1].col+1 {
			j++
		}
		first, last := cells[i].pos, cells[j-1].pos
		m.Boxes = append(m.Boxes, core.NewBox(
			(first.X+last.X)/2, first.Y,
			last.X-first.X+size, size,
		))
		i = j
	}
	return m
}
