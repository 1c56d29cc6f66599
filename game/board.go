// File: game/board.go
package game

import (
	"github.com/kamstrup/intmap"

	"chesstris/utils"
)

// CellInfo is the engine's read-only view of a board cell.
type CellInfo struct {
	Active   bool   `json:"active"`
	OwnerID  string `json:"ownerId,omitempty"`
	HomeZone bool   `json:"isHomeZone"`
}

// BoardQuery is the narrow interface the physics engine reads the board
// through. QueryCell returns nil for out-of-bounds coordinates, never panics.
type BoardQuery interface {
	QueryCell(x, z int) *CellInfo
}

// Board is the in-memory occupancy/ownership grid used by the host server
// and tests. Home-zone membership is a static mask; occupancy is sparse,
// keyed by packed (x, z).
type Board struct {
	rows, cols int
	home       [][]bool
	occupancy  *intmap.Map[uint64, string]
}

// NewBoard creates an empty board. The first and last homeDepth rows are
// home zone, mirroring the two players' back ranks.
func NewBoard(rows, cols, homeDepth int) *Board {
	home := make([][]bool, rows)
	for z := range home {
		home[z] = make([]bool, cols)
		for x := range home[z] {
			home[z][x] = z < homeDepth || z >= rows-homeDepth
		}
	}
	return &Board{
		rows:      rows,
		cols:      cols,
		home:      home,
		occupancy: intmap.New[uint64, string](64),
	}
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

// QueryCell implements BoardQuery.
func (b *Board) QueryCell(x, z int) *CellInfo {
	if x < 0 || x >= b.cols || z < 0 || z >= b.rows {
		return nil
	}
	owner, active := b.occupancy.Get(utils.PackCell(x, z))
	return &CellInfo{Active: active, OwnerID: owner, HomeZone: b.home[z][x]}
}

// SetCell marks a single cell occupied (or clears it when active is false).
func (b *Board) SetCell(x, z int, active bool, ownerID string) {
	if x < 0 || x >= b.cols || z < 0 || z >= b.rows {
		return
	}
	key := utils.PackCell(x, z)
	if active {
		b.occupancy.Put(key, ownerID)
	} else {
		b.occupancy.Del(key)
	}
}

// ActiveCount returns the number of occupied cells.
func (b *Board) ActiveCount() int {
	return b.occupancy.Len()
}

// Place stamps a placement event's shape onto the board. Cells falling
// outside the bounds are ignored.
func (b *Board) Place(ev PlacementEvent) {
	for r, row := range ev.Shape {
		for c, filled := range row {
			if filled == 0 {
				continue
			}
			b.SetCell(ev.GridX+c, ev.GridZ+r, true, ev.OwnerID)
		}
	}
}

// Snapshot flattens the board into a serializable cell list for broadcast
// and rendering.
func (b *Board) Snapshot() BoardSnapshot {
	snap := BoardSnapshot{
		Rows:  b.rows,
		Cols:  b.cols,
		Cells: make([]CellStateUpdate, 0, b.occupancy.Len()),
	}
	for z := 0; z < b.rows; z++ {
		for x := 0; x < b.cols; x++ {
			owner, active := b.occupancy.Get(utils.PackCell(x, z))
			if !active && !b.home[z][x] {
				continue
			}
			snap.Cells = append(snap.Cells, CellStateUpdate{
				X: x, Z: z,
				Active:   active,
				OwnerID:  owner,
				HomeZone: b.home[z][x],
			})
		}
	}
	return snap
}
