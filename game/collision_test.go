package game

import "testing"

func TestDetectCollisionAboveGround(t *testing.T) {
	board := newTestBoard(8, 8)
	result := DetectCollision(board, Vec3{X: 4, Y: 2.0, Z: 4}, 0.5)
	if result.Collision {
		t.Errorf("Expected no collision above the ground plane, got %+v", result)
	}
}

func TestDetectCollisionClassification(t *testing.T) {
	board := newTestBoard(8, 8)

	testCases := []struct {
		name         string
		pos          Vec3
		stick        bool
		dissolve     bool
		gridX, gridZ int
	}{
		{"BoundaryCellSticks", Vec3{X: 0.2, Y: 0.4, Z: 4.3}, true, false, 0, 4},
		{"HomeZoneSticks", Vec3{X: 4.7, Y: 0.5, Z: 0.1}, true, false, 4, 0},
		{"InteriorDissolves", Vec3{X: 4.2, Y: 0.3, Z: 4.8}, false, true, 4, 4},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := DetectCollision(board, tc.pos, 0.5)
			if !result.Collision {
				t.Fatal("Expected a collision at or below the ground plane")
			}
			if result.ShouldStick != tc.stick || result.ShouldDissolve != tc.dissolve {
				t.Errorf("Expected stick=%v dissolve=%v, got %+v", tc.stick, tc.dissolve, result)
			}
			if result.GridX != tc.gridX || result.GridZ != tc.gridZ {
				t.Errorf("Expected grid (%d, %d), got (%d, %d)", tc.gridX, tc.gridZ, result.GridX, result.GridZ)
			}
		})
	}
}

func TestDetectCollisionOffBoard(t *testing.T) {
	board := newTestBoard(8, 8)

	testCases := []struct {
		name string
		pos  Vec3
	}{
		{"NegativeX", Vec3{X: -2.5, Y: 0.3, Z: 4}},
		{"BeyondCols", Vec3{X: 9.1, Y: 0.3, Z: 4}},
		{"NegativeZ", Vec3{X: 4, Y: 0.3, Z: -1.2}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := DetectCollision(board, tc.pos, 0.5)
			if !result.Collision {
				t.Fatal("Expected ground contact off the board")
			}
			if result.ShouldStick || result.ShouldDissolve {
				t.Errorf("Expected a plain bounce off the board, got %+v", result)
			}
		})
	}
}

func TestDetectCollisionNilBoard(t *testing.T) {
	result := DetectCollision(nil, Vec3{X: 4, Y: 0.2, Z: 4}, 0.5)
	if !result.Collision || result.ShouldStick || result.ShouldDissolve {
		t.Errorf("Expected plain bounce with no board, got %+v", result)
	}
}

func TestResolveBounce(t *testing.T) {
	p := fallingPieceAt(1, Vec3{X: 4, Y: 0.3, Z: 4}, Vec3{X: 0.15, Y: -1.0, Z: 0.005})

	resolveBounce(p, 0.5, 0.3, 0.01)

	if p.Pos.Y != 0.5 {
		t.Errorf("Expected piece pinned to the ground plane, got y=%v", p.Pos.Y)
	}
	if p.Vel.Y != 0.3 {
		t.Errorf("Expected vy reflected to 0.3, got %v", p.Vel.Y)
	}
	if p.Vel.X != 0.15 {
		t.Errorf("Expected vx untouched, got %v", p.Vel.X)
	}
	if p.Vel.Z != 0 {
		t.Errorf("Expected tiny vz zeroed, got %v", p.Vel.Z)
	}
}

func TestResolveBounceKillsMicroMotion(t *testing.T) {
	p := fallingPieceAt(1, Vec3{Y: 0.4}, Vec3{X: 0.005, Y: -0.02, Z: 0.009})

	resolveBounce(p, 0.5, 0.3, 0.01)

	if p.Vel != (Vec3{}) {
		t.Errorf("Expected all residual motion zeroed, got %+v", p.Vel)
	}
}
