// File: game/support.go
package game

var neighborOffsets = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// ShouldStickAt classifies a landing cell. A landing sticks when the cell
// sits on the board boundary, is a home-zone cell, or touches an active
// neighbor that is itself structurally exposed. Everything else is an
// unsupported interior landing and dissolves.
//
// Pure function of board state and coordinates.
func ShouldStickAt(board BoardQuery, x, z int) bool {
	cell := board.QueryCell(x, z)
	if cell == nil {
		return false
	}
	if cell.HomeZone {
		return true
	}
	if isBoundaryCell(board, x, z) {
		return true
	}
	for _, off := range neighborOffsets {
		nx, nz := x+off[0], z+off[1]
		neighbor := board.QueryCell(nx, nz)
		if neighbor != nil && neighbor.Active && IsEdgeCell(board, nx, nz) {
			return true
		}
	}
	return false
}

// IsEdgeCell reports whether the cell is structurally exposed: on the board
// boundary, or with at least one empty 4-connected neighbor.
func IsEdgeCell(board BoardQuery, x, z int) bool {
	if board.QueryCell(x, z) == nil {
		return false
	}
	if isBoundaryCell(board, x, z) {
		return true
	}
	for _, off := range neighborOffsets {
		neighbor := board.QueryCell(x+off[0], z+off[1])
		if neighbor != nil && !neighbor.Active {
			return true
		}
	}
	return false
}

// isBoundaryCell detects the outer rim without needing board dimensions: a
// cell is on the boundary exactly when one of its 4-neighbors is off-board.
func isBoundaryCell(board BoardQuery, x, z int) bool {
	for _, off := range neighborOffsets {
		if board.QueryCell(x+off[0], z+off[1]) == nil {
			return true
		}
	}
	return false
}
