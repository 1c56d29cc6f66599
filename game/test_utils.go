// File: game/test_utils.go
package game

import (
	"time"

	"chesstris/utils"
)

// ManualScheduler collects deferred callbacks and fires them only when told
// to, so lifecycle tests control respawn timing deterministically.
type ManualScheduler struct {
	pending []*manualTimer
}

type manualTimer struct {
	fn      func()
	delay   time.Duration
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) After(d time.Duration, fn func()) Timer {
	t := &manualTimer{fn: fn, delay: d}
	s.pending = append(s.pending, t)
	return t
}

// FireAll runs every pending callback that has not been cancelled.
func (s *ManualScheduler) FireAll() {
	pending := s.pending
	s.pending = nil
	for _, t := range pending {
		if t.stopped {
			continue
		}
		t.fired = true
		t.fn()
	}
}

// PendingCount reports timers scheduled and neither fired nor cancelled.
func (s *ManualScheduler) PendingCount() int {
	n := 0
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// newTestConfig returns the default config tuned for fast, deterministic
// unit tests: heavy gravity and a low spawn so pieces land within a few
// ticks.
func newTestConfig() utils.Config {
	cfg := utils.DefaultConfig()
	cfg.Gravity = 50.0
	cfg.SpawnHeight = 2.0
	cfg.SpawnDrift = 0
	cfg.RespawnDelay = 10 * time.Millisecond
	return cfg
}

// newTestBoard builds a rows x cols board with the given cells activated.
func newTestBoard(rows, cols int, active ...[2]int) *Board {
	b := NewBoard(rows, cols, 2)
	for _, cell := range active {
		b.SetCell(cell[0], cell[1], true, "test")
	}
	return b
}

// fallingPieceAt builds a single-cell falling piece positioned for collision
// tests.
func fallingPieceAt(id uint64, pos, vel Vec3) *Piece {
	return NewPiece(id, KindO, "tester", pos, vel)
}

// hintRecorder captures render hints emitted during a tick.
type hintRecorder struct {
	hints []RenderHint
}

func (r *hintRecorder) record(h RenderHint) {
	r.hints = append(r.hints, h)
}

// placeRecorder captures placement events.
type placeRecorder struct {
	events []PlacementEvent
}

func (r *placeRecorder) record(ev PlacementEvent) {
	r.events = append(r.events, ev)
}
