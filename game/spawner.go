// File: game/spawner.go
package game

import (
	"math/rand"

	"chesstris/utils"
)

// Spawner is the server-side piece generator. The simulation asks it for
// replacements; clients can also request a spawn for a specific kind. Piece
// IDs are monotonically increasing so the render layer can key on them.
type Spawner struct {
	cfg    utils.Config
	rng    *rand.Rand
	nextID uint64
}

func NewSpawner(cfg utils.Config, seed int64) *Spawner {
	return &Spawner{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Next creates a random falling piece for ownerID, dropped somewhere above
// the board with a little lateral drift so the snapper and bounce paths get
// exercised in normal play.
func (sp *Spawner) Next(ownerID string) *Piece {
	kind := Kinds[sp.rng.Intn(len(Kinds))]
	return sp.NextOfKind(ownerID, kind)
}

// NextOfKind creates a falling piece of a specific kind.
func (sp *Spawner) NextOfKind(ownerID string, kind Kind) *Piece {
	sp.nextID++
	pos := Vec3{
		X: float64(sp.rng.Intn(utils.MaxInt(sp.cfg.BoardCols, 1))),
		Y: sp.cfg.SpawnHeight,
		Z: float64(sp.rng.Intn(utils.MaxInt(sp.cfg.BoardRows, 1))),
	}
	vel := Vec3{
		X: (sp.rng.Float64()*2 - 1) * sp.cfg.SpawnDrift,
		Z: (sp.rng.Float64()*2 - 1) * sp.cfg.SpawnDrift,
	}
	return NewPiece(sp.nextID, kind, ownerID, pos, vel)
}
