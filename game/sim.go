// File: game/sim.go
package game

import (
	"fmt"
	"time"

	"chesstris/utils"
)

// PlacementEvent is emitted exactly once when a piece sticks. The receiver
// owns the board mutation and any broadcast; the simulation does not wait
// for acknowledgement and never retries.
type PlacementEvent struct {
	Shape   Shape  `json:"shape"`
	GridX   int    `json:"gridX"`
	GridZ   int    `json:"gridZ"`
	OwnerID string `json:"ownerId"`
	Kind    Kind   `json:"kind"`
}

// RenderHint is the one-way channel to the visual layer: plain data, fire
// and forget. One hint per live or dissolving piece per tick.
type RenderHint struct {
	PieceID    uint64  `json:"pieceId"`
	Kind       Kind    `json:"kind"`
	OwnerID    string  `json:"ownerId"`
	Pos        Vec3    `json:"pos"`
	Rot        Vec3    `json:"rot"`
	Opacity    float64 `json:"opacity"`
	Scale      float64 `json:"scale"`
	Dissolving bool    `json:"dissolving"`
}

// Timer is a cancellable deferred action.
type Timer interface {
	Stop() bool
}

// Scheduler abstracts respawn timing so a superseding spawn request can
// invalidate a pending respawn deterministically. The host must arrange for
// fn to run on the same goroutine that calls Tick.
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
}

// AfterFuncScheduler schedules straight onto time.AfterFunc. Suitable for
// embeddings that serialize Tick and timer callbacks themselves; the actor
// host routes callbacks through its mailbox instead.
type AfterFuncScheduler struct{}

func (AfterFuncScheduler) After(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// PhysicsContext carries the simulation's external collaborators. Board and
// Clock are required for full behavior but every field tolerates being nil:
// the dependent step is skipped and logged, never fatal.
type PhysicsContext struct {
	Board   BoardQuery
	Spawn   func() *Piece        // piece generation lives outside the engine
	Place   func(PlacementEvent) // board mutation owner
	Hint    func(RenderHint)     // visual layer, fire and forget
	Removed func(pieceID uint64) // notified when a dissolved piece detaches
	Clock   Scheduler
}

// Simulation is the falling-piece engine: one live piece integrated under
// gravity, a set of dissolving pieces, a ghost preview, and the respawn
// lifecycle. All methods must be called from a single goroutine; Tick is the
// sole entry point for advancing time.
type Simulation struct {
	cfg utils.Config
	ctx PhysicsContext

	live       *Piece
	dissolving *dissolveSet
	ghost      *GhostPreview

	respawn        Timer
	warnedNoBoard  bool
	placedCount    uint64
	dissolvedCount uint64
}

func NewSimulation(cfg utils.Config, ctx PhysicsContext) *Simulation {
	if ctx.Clock == nil {
		ctx.Clock = AfterFuncScheduler{}
	}
	return &Simulation{
		cfg:        cfg,
		ctx:        ctx,
		dissolving: newDissolveSet(),
	}
}

// LivePiece returns the current falling piece, or nil.
func (s *Simulation) LivePiece() *Piece { return s.live }

// GhostPreview returns the landing preview computed on the last tick, or
// nil when nothing is falling.
func (s *Simulation) GhostPreview() *GhostPreview { return s.ghost }

// DissolvingCount returns the number of pieces currently fading out.
func (s *Simulation) DissolvingCount() int { return s.dissolving.len() }

// PlacedCount returns how many pieces have stuck since the simulation
// started.
func (s *Simulation) PlacedCount() uint64 { return s.placedCount }

// DissolvedCount returns how many pieces have fully faded and detached.
func (s *Simulation) DissolvedCount() uint64 { return s.dissolvedCount }

// SpawnPiece installs an externally created piece as the live falling piece.
// A pending respawn timer is cancelled first: the last spawn request wins
// and the engine never runs two live pieces.
func (s *Simulation) SpawnPiece(p *Piece) {
	s.cancelRespawn()
	if p == nil {
		return
	}
	p.State = StateFalling
	if p.Scale == 0 {
		p.Scale = 1
	}
	if p.Opacity == 0 {
		p.Opacity = 1
	}
	s.live = p
	s.ghost = projectGhost(p, s.cfg.GroundY)
}

// Tick advances the simulation by dt seconds: one physics step for the live
// piece plus one dissolution sweep, executed synchronously.
func (s *Simulation) Tick(dt float64) {
	if !utils.IsFinite(dt) || dt < 0 {
		dt = 0
	}

	// A long gap means the host was suspended; integrating it would tunnel
	// the piece through the board. Dissolution still advances because its
	// progress is per-tick, not time-scaled.
	if dt <= s.cfg.MaxFrameGap {
		s.stepLive(dt)
	}

	for _, p := range s.dissolving.sweep(s.cfg.DissolveSpeed, s.cfg.DissolveDrift, s.cfg.DissolveShrink) {
		s.dissolvedCount++
		if s.ctx.Removed != nil {
			s.ctx.Removed(p.ID)
		}
	}
	s.emitDissolvingHints()

	s.ghost = projectGhost(s.live, s.cfg.GroundY)
}

func (s *Simulation) stepLive(dt float64) {
	p := s.live
	if p == nil || p.State != StateFalling {
		return
	}

	candidate := integrate(p, dt, s.cfg.Gravity, s.cfg.RotationDamping)

	// Safety net for runaway motion: a candidate far below the board means
	// something tunneled past collision, so discard instead of resolving.
	if candidate.Y < s.cfg.FallResetY {
		p.Pos = candidate
		s.resetFallThrough(p)
		return
	}

	board := s.ctx.Board
	if board == nil && !s.warnedNoBoard {
		fmt.Println("WARN: Simulation has no board; pieces will bounce on the bare ground plane")
		s.warnedNoBoard = true
	}

	result := DetectCollision(board, candidate, s.cfg.GroundY)
	switch {
	case !result.Collision:
		p.Pos = candidate

	case result.ShouldStick:
		p.Pos = candidate
		s.finalizeStick(p, result)
		return

	case result.ShouldDissolve:
		p.Pos = candidate
		p.Pos.Y = s.cfg.GroundY
		s.startDissolve(p)
		return

	default:
		// Plain ground contact with no board underneath.
		p.Pos.X = candidate.X
		p.Pos.Z = candidate.Z
		resolveBounce(p, s.cfg.GroundY, s.cfg.BounceFactor, s.cfg.MinVelocity)
	}

	snapToGrid(p, s.cfg.SnapThreshold)

	s.emitHint(p, false)
}

// finalizeStick pins the piece to the grid, emits the placement record
// exactly once and schedules the replacement. Post-stick ticks are no-ops
// because the live reference is cleared here.
func (s *Simulation) finalizeStick(p *Piece, result CollisionResult) {
	p.Vel = Vec3{}
	p.Rot = Vec3{}
	p.Pos.X = float64(result.GridX)
	p.Pos.Z = float64(result.GridZ)
	p.Pos.Y = s.cfg.GroundY + s.cfg.StuckYOffset
	p.State = StateStuck

	s.emitHint(p, false)

	if s.ctx.Place != nil {
		s.ctx.Place(PlacementEvent{
			Shape:   p.Shape,
			GridX:   result.GridX,
			GridZ:   result.GridZ,
			OwnerID: p.OwnerID,
			Kind:    p.Kind,
		})
	} else {
		fmt.Printf("WARN: piece %d stuck at (%d,%d) with no placement receiver\n", p.ID, result.GridX, result.GridZ)
	}
	s.placedCount++

	s.live = nil
	s.ghost = nil
	s.scheduleRespawn()
}

// startDissolve moves the live piece into the fading set. No placement is
// ever emitted for a dissolving piece.
func (s *Simulation) startDissolve(p *Piece) {
	s.dissolving.startDissolve(p)
	s.live = nil
	s.ghost = nil
	s.scheduleRespawn()
}

// resetFallThrough handles a piece that fell below the safety threshold.
// This is a recoverable fault, not a stick: the piece is discarded and a
// replacement requested.
func (s *Simulation) resetFallThrough(p *Piece) {
	fmt.Printf("WARN: piece %d fell through the floor at y=%.2f, resetting\n", p.ID, p.Pos.Y)
	p.State = StateRemoved
	s.live = nil
	s.ghost = nil
	s.scheduleRespawn()
}

func (s *Simulation) scheduleRespawn() {
	s.cancelRespawn()
	if s.ctx.Spawn == nil {
		return
	}
	s.respawn = s.ctx.Clock.After(s.cfg.RespawnDelay, s.handleRespawnDue)
}

func (s *Simulation) handleRespawnDue() {
	s.respawn = nil
	if s.live != nil {
		// An external spawn arrived first; last request wins.
		return
	}
	if s.ctx.Spawn == nil {
		return
	}
	if p := s.ctx.Spawn(); p != nil {
		s.SpawnPiece(p)
	}
}

func (s *Simulation) cancelRespawn() {
	if s.respawn != nil {
		s.respawn.Stop()
		s.respawn = nil
	}
}

func (s *Simulation) emitHint(p *Piece, dissolving bool) {
	if s.ctx.Hint == nil {
		return
	}
	s.ctx.Hint(RenderHint{
		PieceID:    p.ID,
		Kind:       p.Kind,
		OwnerID:    p.OwnerID,
		Pos:        p.Pos,
		Rot:        p.Rot,
		Opacity:    p.Opacity,
		Scale:      p.Scale,
		Dissolving: dissolving,
	})
}

func (s *Simulation) emitDissolvingHints() {
	if s.ctx.Hint == nil {
		return
	}
	for _, id := range s.dissolving.order {
		if p, ok := s.dissolving.pieces.Get(id); ok {
			s.emitHint(p, true)
		}
	}
}
