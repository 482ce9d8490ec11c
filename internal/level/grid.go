// Package level reads gravity map files.
//
// A map is seven text rows between a <start> and an <end> marker. Each
// character is one cell; the column index becomes the x position and the
// row selects the lane:
//
//	C = block            G = gray block (decorative or solid)
//	T = spike            O = moving obstacle
//	P = player spawn     F = finish flag
//	' ' = empty; in row 0 or row 6 it also marks a void lane
package level

import "unicode/utf8"

// Rows is the number of rows in every map.
const Rows = 7

// Cell codes used in map files.
const (
	CellBlock    = 'C'
	CellGray     = 'G'
	CellSpike    = 'T'
	CellObstacle = 'O'
	CellPlayer   = 'P'
	CellFlag     = 'F'
	CellVoid     = ' '
)

// Grid is the parsed text of a map, row 0 at the top.
type Grid [Rows]string

// Width returns the length of the longest row in cells.
func (g Grid) Width() int {
	w := 0
	for _, row := range g {
		w = max(w, utf8.RuneCountInString(row))
	}
	return w
}

// Cells calls fn for every character present in the grid, row by row.
// Positions past the end of a short row are not visited.
func (g Grid) Cells(fn func(row, col int, code rune) error) error {
	for r, line := range g {
		col := 0
		for _, code := range line {
			if err := fn(r, col, code); err != nil {
				return err
			}
			col++
		}
	}
	return nil
}
