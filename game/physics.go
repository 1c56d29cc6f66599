// File: game/physics.go
package game

import "chesstris/utils"

// integrate advances a falling piece by one timestep and returns the
// candidate position. Gravity only ever pulls on y; rotation is damped
// multiplicatively for visual settling and has no physical meaning.
//
// Non-finite inputs are repaired in place rather than propagated: a NaN
// velocity component becomes zero, a NaN position component keeps its
// previous value via the caller not committing the candidate.
func integrate(p *Piece, dt, gravity, rotationDamping float64) Vec3 {
	p.Vel.X = utils.Finite(p.Vel.X, 0)
	p.Vel.Y = utils.Finite(p.Vel.Y, 0)
	p.Vel.Z = utils.Finite(p.Vel.Z, 0)

	p.Vel.Y -= gravity * dt

	candidate := Vec3{
		X: utils.Finite(p.Pos.X+p.Vel.X*dt, p.Pos.X),
		Y: utils.Finite(p.Pos.Y+p.Vel.Y*dt, p.Pos.Y),
		Z: utils.Finite(p.Pos.Z+p.Vel.Z*dt, p.Pos.Z),
	}

	p.Rot.X *= rotationDamping
	p.Rot.Y *= rotationDamping
	p.Rot.Z *= rotationDamping

	return candidate
}

// snapToGrid rounds x/z to the nearest integer once lateral drift is slow,
// so a settling piece lines up with the grid before it lands. Runs every
// falling tick; idempotent on already-integer positions.
func snapToGrid(p *Piece, snapThreshold float64) {
	if utils.Abs(p.Vel.X) < snapThreshold && utils.Abs(p.Vel.Z) < snapThreshold {
		p.Pos.X = float64(utils.RoundInt(p.Pos.X))
		p.Pos.Z = float64(utils.RoundInt(p.Pos.Z))
	}
}
