package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDt = 0.05

// tickUntilResolved advances the simulation until the live piece sticks,
// dissolves, or resets. Fails the test if nothing happens within maxTicks.
func tickUntilResolved(t *testing.T, sim *Simulation, maxTicks int) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		sim.Tick(testDt)
		if sim.LivePiece() == nil {
			return
		}
	}
	t.Fatalf("Expected the live piece to resolve within %d ticks, still at %+v", maxTicks, sim.LivePiece().Pos)
}

func TestSimulationFallIsMonotonic(t *testing.T) {
	cfg := newTestConfig()
	sim := NewSimulation(cfg, PhysicsContext{Board: newTestBoard(8, 8), Clock: NewManualScheduler()})

	sim.SpawnPiece(fallingPieceAt(1, Vec3{X: 4, Y: 5, Z: 4}, Vec3{}))

	prevY := sim.LivePiece().Pos.Y
	for i := 0; i < 5; i++ {
		sim.Tick(testDt)
		require.NotNil(t, sim.LivePiece(), "piece should still be falling")
		assert.Less(t, sim.LivePiece().Pos.Y, prevY, "y must decrease while falling")
		prevY = sim.LivePiece().Pos.Y
	}
}

func TestSimulationStickFlow(t *testing.T) {
	cfg := newTestConfig()
	sched := NewManualScheduler()
	places := &placeRecorder{}
	hints := &hintRecorder{}
	spawnCalls := 0

	sim := NewSimulation(cfg, PhysicsContext{
		Board: newTestBoard(8, 8),
		Spawn: func() *Piece {
			spawnCalls++
			return fallingPieceAt(100, Vec3{X: 4, Y: 2, Z: 4}, Vec3{})
		},
		Place: places.record,
		Hint:  hints.record,
		Clock: sched,
	})

	// Boundary column, so the landing sticks.
	sim.SpawnPiece(fallingPieceAt(1, Vec3{X: 0, Y: 2, Z: 4}, Vec3{}))
	require.NotNil(t, sim.GhostPreview())

	tickUntilResolved(t, sim, 100)

	require.Len(t, places.events, 1, "a stick emits exactly one placement")
	ev := places.events[0]
	assert.Equal(t, 0, ev.GridX)
	assert.Equal(t, 4, ev.GridZ)
	assert.Equal(t, "tester", ev.OwnerID)
	assert.Equal(t, KindO, ev.Kind)
	assert.EqualValues(t, 1, sim.PlacedCount())
	assert.Nil(t, sim.GhostPreview(), "ghost clears once nothing is falling")

	// The final hint pins the piece to the grid at resting height.
	last := hints.hints[len(hints.hints)-1]
	assert.Equal(t, float64(0), last.Pos.X)
	assert.Equal(t, float64(4), last.Pos.Z)
	assert.InDelta(t, cfg.GroundY+cfg.StuckYOffset, last.Pos.Y, 1e-9)

	// Post-stick ticks are no-ops: no second placement ever.
	for i := 0; i < 20; i++ {
		sim.Tick(testDt)
	}
	assert.Len(t, places.events, 1, "placement must stay exactly-once")

	// The respawn is pending until the scheduler fires it.
	assert.Equal(t, 1, sched.PendingCount())
	assert.Equal(t, 0, spawnCalls)
	sched.FireAll()
	assert.Equal(t, 1, spawnCalls)
	require.NotNil(t, sim.LivePiece())
	assert.EqualValues(t, 100, sim.LivePiece().ID)
}

func TestSimulationDissolveFlow(t *testing.T) {
	cfg := newTestConfig()
	sched := NewManualScheduler()
	places := &placeRecorder{}
	hints := &hintRecorder{}
	var removedIDs []uint64

	sim := NewSimulation(cfg, PhysicsContext{
		Board:   newTestBoard(8, 8),
		Place:   places.record,
		Hint:    hints.record,
		Removed: func(id uint64) { removedIDs = append(removedIDs, id) },
		Clock:   sched,
	})

	// Interior cell with no support: the landing dissolves.
	sim.SpawnPiece(fallingPieceAt(7, Vec3{X: 4, Y: 2, Z: 4}, Vec3{}))
	tickUntilResolved(t, sim, 100)

	assert.Empty(t, places.events, "a dissolving piece never mutates the board")
	assert.Equal(t, 1, sim.DissolvingCount())
	assert.EqualValues(t, 0, sim.PlacedCount())

	// Fade-out completes within 34 sweeps and detaches the piece.
	for i := 0; i < 34 && sim.DissolvingCount() > 0; i++ {
		sim.Tick(testDt)
	}
	assert.Equal(t, 0, sim.DissolvingCount(), "dissolution must terminate")
	assert.EqualValues(t, 1, sim.DissolvedCount())
	assert.Equal(t, []uint64{7}, removedIDs)
	assert.Empty(t, places.events, "still no placement after fade-out")

	var sawDissolvingHint bool
	for _, h := range hints.hints {
		if h.Dissolving {
			sawDissolvingHint = true
			assert.Less(t, h.Opacity, 1.0)
		}
	}
	assert.True(t, sawDissolvingHint, "dissolving pieces emit render hints")
}

func TestSimulationBounceOffBoard(t *testing.T) {
	cfg := newTestConfig()
	sim := NewSimulation(cfg, PhysicsContext{Board: newTestBoard(8, 8), Clock: NewManualScheduler()})

	// Lands outside the board on the x axis: plain bounce, piece survives.
	sim.SpawnPiece(fallingPieceAt(1, Vec3{X: -2, Y: 0.6, Z: 4}, Vec3{Y: -1}))
	sim.Tick(testDt)

	p := sim.LivePiece()
	require.NotNil(t, p, "bounce keeps the piece alive")
	assert.Equal(t, cfg.GroundY, p.Pos.Y, "bounce pins the piece to the ground plane")
	assert.Positive(t, p.Vel.Y, "vertical velocity reflects upward")
	assert.Equal(t, StateFalling, p.State)
}

func TestSimulationBounceWithoutBoard(t *testing.T) {
	cfg := newTestConfig()
	sim := NewSimulation(cfg, PhysicsContext{Clock: NewManualScheduler()})

	sim.SpawnPiece(fallingPieceAt(1, Vec3{X: 4, Y: 0.6, Z: 4}, Vec3{Y: -1}))
	sim.Tick(testDt)

	p := sim.LivePiece()
	require.NotNil(t, p)
	assert.Equal(t, cfg.GroundY, p.Pos.Y)
	assert.Positive(t, p.Vel.Y)
}

func TestSimulationBounceDecays(t *testing.T) {
	cfg := newTestConfig()
	cfg.Gravity = 0.5 // gentle, so the bounce sequence is observable
	sim := NewSimulation(cfg, PhysicsContext{Clock: NewManualScheduler()})

	sim.SpawnPiece(fallingPieceAt(1, Vec3{X: 4, Y: 0.6, Z: 4}, Vec3{Y: -2}))

	var peakVy float64
	for i := 0; i < 200; i++ {
		sim.Tick(testDt)
		p := sim.LivePiece()
		require.NotNil(t, p)
		if p.Vel.Y > peakVy {
			peakVy = p.Vel.Y
		}
		if p.Vel.Y == 0 && p.Pos.Y == cfg.GroundY {
			return // settled
		}
	}
	t.Fatalf("Expected the bounce sequence to settle, peak vy was %v", peakVy)
}

func TestSimulationFallThroughReset(t *testing.T) {
	cfg := newTestConfig()
	sched := NewManualScheduler()
	sim := NewSimulation(cfg, PhysicsContext{
		Board: newTestBoard(8, 8),
		Spawn: func() *Piece { return fallingPieceAt(2, Vec3{X: 4, Y: 2, Z: 4}, Vec3{}) },
		Clock: sched,
	})

	// Velocity extreme enough to tunnel far below the board in one step.
	sim.SpawnPiece(fallingPieceAt(1, Vec3{X: 4, Y: 2, Z: 4}, Vec3{Y: -400}))
	sim.Tick(testDt)

	assert.Nil(t, sim.LivePiece(), "runaway piece is discarded")
	assert.EqualValues(t, 0, sim.PlacedCount())
	assert.Equal(t, 1, sched.PendingCount(), "a replacement is scheduled")

	sched.FireAll()
	require.NotNil(t, sim.LivePiece())
	assert.EqualValues(t, 2, sim.LivePiece().ID)
}

func TestSimulationFrameGapDiscarded(t *testing.T) {
	cfg := newTestConfig()
	sim := NewSimulation(cfg, PhysicsContext{Board: newTestBoard(8, 8), Clock: NewManualScheduler()})

	sim.SpawnPiece(fallingPieceAt(1, Vec3{X: 4, Y: 2, Z: 4}, Vec3{}))
	before := sim.LivePiece().Pos

	sim.Tick(0.5) // way past MaxFrameGap: tab suspend, debugger, GC stall
	assert.Equal(t, before, sim.LivePiece().Pos, "long gaps skip integration")

	sim.Tick(testDt)
	assert.Less(t, sim.LivePiece().Pos.Y, before.Y, "normal ticks resume")
}

func TestSimulationFrameGapStillSweepsDissolving(t *testing.T) {
	cfg := newTestConfig()
	sim := NewSimulation(cfg, PhysicsContext{Board: newTestBoard(8, 8), Clock: NewManualScheduler()})

	sim.SpawnPiece(fallingPieceAt(1, Vec3{X: 4, Y: 2, Z: 4}, Vec3{}))
	tickUntilResolved(t, sim, 100)
	require.Equal(t, 1, sim.DissolvingCount())

	// Dissolution progress is per-tick, not time-scaled, so a huge dt still
	// advances the fade.
	for i := 0; i < 34 && sim.DissolvingCount() > 0; i++ {
		sim.Tick(10.0)
	}
	assert.Equal(t, 0, sim.DissolvingCount())
}

func TestSpawnPieceSupersedesPendingRespawn(t *testing.T) {
	cfg := newTestConfig()
	sched := NewManualScheduler()
	spawnCalls := 0
	sim := NewSimulation(cfg, PhysicsContext{
		Board: newTestBoard(8, 8),
		Spawn: func() *Piece {
			spawnCalls++
			return fallingPieceAt(50, Vec3{X: 4, Y: 2, Z: 4}, Vec3{})
		},
		Place: (&placeRecorder{}).record,
		Clock: sched,
	})

	sim.SpawnPiece(fallingPieceAt(1, Vec3{X: 0, Y: 2, Z: 4}, Vec3{}))
	tickUntilResolved(t, sim, 100)
	require.Equal(t, 1, sched.PendingCount(), "stick schedules a respawn")

	// An explicit spawn arrives before the timer: it wins.
	external := fallingPieceAt(99, Vec3{X: 4, Y: 2, Z: 4}, Vec3{})
	sim.SpawnPiece(external)
	assert.Equal(t, 0, sched.PendingCount(), "pending respawn is cancelled")

	sched.FireAll()
	assert.Equal(t, 0, spawnCalls, "cancelled respawn never fires")
	assert.Same(t, external, sim.LivePiece())
}

func TestSpawnPieceNilCancelsOnly(t *testing.T) {
	cfg := newTestConfig()
	sched := NewManualScheduler()
	sim := NewSimulation(cfg, PhysicsContext{
		Board: newTestBoard(8, 8),
		Spawn: func() *Piece { return nil },
		Place: (&placeRecorder{}).record,
		Clock: sched,
	})

	sim.SpawnPiece(fallingPieceAt(1, Vec3{X: 0, Y: 2, Z: 4}, Vec3{}))
	tickUntilResolved(t, sim, 100)
	require.Equal(t, 1, sched.PendingCount())

	sim.SpawnPiece(nil)
	assert.Equal(t, 0, sched.PendingCount())
	assert.Nil(t, sim.LivePiece())
}

func TestSimulationGhostTracksLivePiece(t *testing.T) {
	cfg := newTestConfig()
	sim := NewSimulation(cfg, PhysicsContext{Board: newTestBoard(8, 8), Clock: NewManualScheduler()})

	sim.SpawnPiece(fallingPieceAt(1, Vec3{X: 3.4, Y: 2, Z: 4.6}, Vec3{}))
	ghost := sim.GhostPreview()
	require.NotNil(t, ghost)
	assert.Equal(t, 3, ghost.GridX)
	assert.Equal(t, 5, ghost.GridZ)
	assert.Equal(t, cfg.GroundY, ghost.Y)

	sim.Tick(testDt)
	assert.NotNil(t, sim.GhostPreview(), "ghost persists while falling")
}
