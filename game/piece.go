// File: game/piece.go
package game

import "fmt"

// Kind is the logical tetromino type of a piece. Shapes are authored in the
// lookup table below; the physics engine never invents geometry.
type Kind string

const (
	KindT Kind = "T"
	KindI Kind = "I"
	KindO Kind = "O"
	KindL Kind = "L"
	KindJ Kind = "J"
	KindS Kind = "S"
	KindZ Kind = "Z"
)

// Kinds lists every spawnable tetromino type.
var Kinds = []Kind{KindT, KindI, KindO, KindL, KindJ, KindS, KindZ}

// Shape is a rectangular 0/1 matrix marking occupied sub-cells relative to
// the piece origin: Shape[row][col], rows along z, columns along x.
type Shape [][]int

var shapeTable = map[Kind]Shape{
	KindT: {{1, 1, 1}, {0, 1, 0}},
	KindI: {{1, 1, 1, 1}},
	KindO: {{1, 1}, {1, 1}},
	KindL: {{1, 0}, {1, 0}, {1, 1}},
	KindJ: {{0, 1}, {0, 1}, {1, 1}},
	KindS: {{0, 1, 1}, {1, 1, 0}},
	KindZ: {{1, 1, 0}, {0, 1, 1}},
}

// ShapeFor returns a copy of the shape matrix for the given kind, so callers
// can never corrupt the table. Unknown kinds fall back to a single cell.
func ShapeFor(kind Kind) Shape {
	src, ok := shapeTable[kind]
	if !ok {
		return Shape{{1}}
	}
	out := make(Shape, len(src))
	for i, row := range src {
		out[i] = make([]int, len(row))
		copy(out[i], row)
	}
	return out
}

// Vec3 is a continuous world-space vector. X and Z align with board columns
// and rows, Y is height above the board plane.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LifecycleState tracks a piece through its fall. Stuck and Removed are
// terminal.
type LifecycleState int

const (
	StateFalling LifecycleState = iota
	StateStuck
	StateDissolving
	StateRemoved
)

func (s LifecycleState) String() string {
	switch s {
	case StateFalling:
		return "FALLING"
	case StateStuck:
		return "STUCK"
	case StateDissolving:
		return "DISSOLVING"
	case StateRemoved:
		return "REMOVED"
	}
	return fmt.Sprintf("LifecycleState(%d)", int(s))
}

// Piece is the authoritative falling-piece record. The simulation owns one
// live instance at a time plus a small set of dissolving ones.
type Piece struct {
	ID      uint64         `json:"id"`
	Kind    Kind           `json:"kind"`
	OwnerID string         `json:"ownerId"`
	Shape   Shape          `json:"shape"`
	Pos     Vec3           `json:"pos"`
	Vel     Vec3           `json:"vel"`
	Rot     Vec3           `json:"rot"`
	State   LifecycleState `json:"state"`

	// Dissolution bookkeeping; meaningful only while State == StateDissolving.
	DissolveProgress float64 `json:"dissolveProgress"`
	Opacity          float64 `json:"opacity"`
	Scale            float64 `json:"scale"`
}

// NewPiece creates a falling piece of the given kind at pos.
func NewPiece(id uint64, kind Kind, ownerID string, pos, vel Vec3) *Piece {
	return &Piece{
		ID:      id,
		Kind:    kind,
		OwnerID: ownerID,
		Shape:   ShapeFor(kind),
		Pos:     pos,
		Vel:     vel,
		State:   StateFalling,
		Opacity: 1,
		Scale:   1,
	}
}
