package render

import (
	"strings"
	"testing"

	"chesstris/game"
)

func testState() game.GameState {
	return game.GameState{
		Board: game.BoardSnapshot{
			Rows: 4,
			Cols: 4,
			Cells: []game.CellStateUpdate{
				{X: 0, Z: 0, HomeZone: true},
				{X: 1, Z: 1, Active: true, OwnerID: "p1"},
			},
		},
	}
}

func TestStateGridCharacters(t *testing.T) {
	out := State(testState())
	lines := strings.Split(out, "\n")
	if len(lines) < 5 {
		t.Fatalf("Expected 4 grid rows plus a status line, got %d lines", len(lines))
	}

	if lines[0][0] != '_' {
		t.Errorf("Expected home-zone marker at (0, 0), got %q", lines[0][0])
	}
	if lines[1][1] != '#' {
		t.Errorf("Expected active marker at (1, 1), got %q", lines[1][1])
	}
	if lines[2][2] != '.' {
		t.Errorf("Expected empty marker at (2, 2), got %q", lines[2][2])
	}
}

func TestStateDrawsLivePieceOverGhost(t *testing.T) {
	st := testState()
	st.Ghost = &game.GhostPreview{GridX: 2, GridZ: 2, Y: 0.5}
	st.Live = &game.Piece{
		Kind:  game.KindO,
		Shape: game.ShapeFor(game.KindO),
		Pos:   game.Vec3{X: 2, Y: 1.2, Z: 2},
	}

	out := State(st)
	lines := strings.Split(out, "\n")
	if lines[2][2] != '@' {
		t.Errorf("Expected live piece to cover the ghost at (2, 2), got %q", lines[2][2])
	}
	// The O shape spills into the neighboring cells.
	if lines[2][3] != '@' || lines[3][2] != '@' {
		t.Errorf("Expected 2x2 footprint, got rows %q / %q", lines[2], lines[3])
	}
}

func TestStateGhostMarker(t *testing.T) {
	st := testState()
	st.Ghost = &game.GhostPreview{GridX: 3, GridZ: 0, Y: 0.5}

	out := State(st)
	lines := strings.Split(out, "\n")
	if lines[0][3] != '+' {
		t.Errorf("Expected ghost marker at (3, 0), got %q", lines[0][3])
	}
}

func TestStateStatusLine(t *testing.T) {
	out := State(testState())
	if !strings.Contains(out, "live: none") {
		t.Errorf("Expected status line to report no live piece, got %q", out)
	}
}

func TestStateEmptyBoard(t *testing.T) {
	out := State(game.GameState{})
	if out != "(empty board)\n" {
		t.Errorf("Expected empty-board placeholder, got %q", out)
	}
}
