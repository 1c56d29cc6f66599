// File: game/collision.go
package game

import "chesstris/utils"

// CollisionResult describes what a candidate position ran into and how the
// lifecycle should react.
type CollisionResult struct {
	Collision      bool
	ShouldStick    bool
	ShouldDissolve bool
	GridX, GridZ   int
}

// DetectCollision tests a candidate position against the ground plane and
// the board. A piece touching the plane above a board cell is classified as
// stick or dissolve; touching the plane off the board is a plain bounce.
// Collision is axis-aligned against the piece origin; rotation never
// participates.
func DetectCollision(board BoardQuery, pos Vec3, groundY float64) CollisionResult {
	if pos.Y > groundY {
		return CollisionResult{}
	}

	gridX := utils.FloorInt(pos.X)
	gridZ := utils.FloorInt(pos.Z)
	result := CollisionResult{Collision: true, GridX: gridX, GridZ: gridZ}

	if board == nil || board.QueryCell(gridX, gridZ) == nil {
		// Off the board entirely: bounce, no board interaction.
		return result
	}

	if ShouldStickAt(board, gridX, gridZ) {
		result.ShouldStick = true
	} else {
		result.ShouldDissolve = true
	}
	return result
}

// resolveBounce reflects the vertical velocity with energy loss and kills
// residual micro-motion. The ground normal is the y axis; x/z pass through
// untouched so bounces stay axis-aligned.
func resolveBounce(p *Piece, groundY, bounceFactor, minVelocity float64) {
	p.Pos.Y = groundY
	p.Vel.Y = -p.Vel.Y * bounceFactor

	if utils.Abs(p.Vel.X) < minVelocity {
		p.Vel.X = 0
	}
	if utils.Abs(p.Vel.Y) < minVelocity {
		p.Vel.Y = 0
	}
	if utils.Abs(p.Vel.Z) < minVelocity {
		p.Vel.Z = 0
	}
}
