// File: game/ghost.go
package game

import "chesstris/utils"

// GhostPreview is a non-authoritative landing estimate for the live piece:
// the current (x, z) rounded to the grid, at board-plane height. It does not
// simulate the remaining fall, so it drifts from the true landing spot while
// the piece still carries lateral velocity. That is intended: the ghost is a
// cheap visual cue, not a trajectory solver.
type GhostPreview struct {
	GridX int     `json:"gridX"`
	GridZ int     `json:"gridZ"`
	Y     float64 `json:"y"`
}

// projectGhost derives the preview for a falling piece. Returns nil for any
// other lifecycle state; the ghost has no lifecycle of its own and is
// rebuilt every tick.
func projectGhost(p *Piece, groundY float64) *GhostPreview {
	if p == nil || p.State != StateFalling {
		return nil
	}
	if !utils.IsFinite(p.Pos.X) || !utils.IsFinite(p.Pos.Z) {
		return nil
	}
	return &GhostPreview{
		GridX: utils.RoundInt(p.Pos.X),
		GridZ: utils.RoundInt(p.Pos.Z),
		Y:     groundY,
	}
}
