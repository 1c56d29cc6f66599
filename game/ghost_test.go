package game

import (
	"math"
	"testing"
)

func TestProjectGhost(t *testing.T) {
	testCases := []struct {
		name     string
		piece    *Piece
		expected *GhostPreview
	}{
		{
			"NilPiece",
			nil,
			nil,
		},
		{
			"FallingRoundsToGrid",
			fallingPieceAt(1, Vec3{X: 3.6, Y: 4, Z: 2.4}, Vec3{}),
			&GhostPreview{GridX: 4, GridZ: 2, Y: 0.5},
		},
		{
			"NaNPositionSuppressed",
			fallingPieceAt(1, Vec3{X: math.NaN(), Y: 4, Z: 2}, Vec3{}),
			nil,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := projectGhost(tc.piece, 0.5)
			if tc.expected == nil {
				if got != nil {
					t.Errorf("Expected nil ghost, got %+v", got)
				}
				return
			}
			if got == nil || *got != *tc.expected {
				t.Errorf("Expected %+v, got %+v", tc.expected, got)
			}
		})
	}
}

func TestProjectGhostOnlyWhileFalling(t *testing.T) {
	p := fallingPieceAt(1, Vec3{X: 3, Y: 4, Z: 2}, Vec3{})
	for _, state := range []LifecycleState{StateStuck, StateDissolving, StateRemoved} {
		p.State = state
		if ghost := projectGhost(p, 0.5); ghost != nil {
			t.Errorf("Expected no ghost in state %s, got %+v", state, ghost)
		}
	}
}
