package render

import (
	"fmt"
	"math"
	"strings"

	"chesstris/game"
)

// Board cell characters, in drawing priority order: a live piece covers the
// ghost, the ghost covers occupancy, occupancy covers the home-zone shading.
const (
	charEmpty    = '.'
	charHomeZone = '_'
	charActive   = '#'
	charGhost    = '+'
	charPiece    = '@'
)

// Dissolving pieces fade through this ramp as opacity drops.
const fadeChars = "@8GCLft1i;:,. "

func fadeChar(opacity float64) byte {
	if opacity <= 0 {
		return fadeChars[len(fadeChars)-1]
	}
	if opacity >= 1 {
		return fadeChars[0]
	}
	index := int((1 - opacity) * float64(len(fadeChars)-1))
	return fadeChars[index]
}

// State renders a full game state snapshot as a text grid plus a status
// line. Rows run top to bottom as z increases.
func State(st game.GameState) string {
	rows, cols := st.Board.Rows, st.Board.Cols
	if rows <= 0 || cols <= 0 {
		return "(empty board)\n"
	}

	grid := make([][]byte, rows)
	for z := range grid {
		grid[z] = make([]byte, cols)
		for x := range grid[z] {
			grid[z][x] = charEmpty
		}
	}

	for _, cell := range st.Board.Cells {
		if cell.X < 0 || cell.X >= cols || cell.Z < 0 || cell.Z >= rows {
			continue
		}
		switch {
		case cell.Active:
			grid[cell.Z][cell.X] = charActive
		case cell.HomeZone:
			grid[cell.Z][cell.X] = charHomeZone
		}
	}

	if st.Ghost != nil {
		stamp(grid, game.Shape{{1}}, st.Ghost.GridX, st.Ghost.GridZ, charGhost)
	}

	if st.Live != nil {
		x := int(math.Floor(st.Live.Pos.X))
		z := int(math.Floor(st.Live.Pos.Z))
		ch := byte(charPiece)
		if st.Live.State == game.StateDissolving {
			ch = fadeChar(st.Live.Opacity)
		}
		stamp(grid, st.Live.Shape, x, z, ch)
	}

	var b strings.Builder
	for z := 0; z < rows; z++ {
		b.Write(grid[z])
		b.WriteByte('\n')
	}

	liveDesc := "none"
	if st.Live != nil {
		liveDesc = fmt.Sprintf("%s@(%.1f, %.1f, %.1f)", st.Live.Kind, st.Live.Pos.X, st.Live.Pos.Y, st.Live.Pos.Z)
	}
	fmt.Fprintf(&b, "live: %s  dissolving: %d  placed: %d  players: %d\n",
		liveDesc, st.Dissolving, st.Placed, len(st.Players))
	return b.String()
}

func stamp(grid [][]byte, shape game.Shape, originX, originZ int, ch byte) {
	for r, row := range shape {
		for c, filled := range row {
			if filled == 0 {
				continue
			}
			z, x := originZ+r, originX+c
			if z < 0 || z >= len(grid) || x < 0 || x >= len(grid[z]) {
				continue
			}
			grid[z][x] = ch
		}
	}
}
