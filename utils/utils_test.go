package utils

import (
	"math"
	"testing"
)

func TestPackUnpackCell(t *testing.T) {
	testCases := []struct {
		name string
		x, z int
	}{
		{"Origin", 0, 0},
		{"FirstRow", 7, 0},
		{"FirstCol", 0, 7},
		{"Interior", 4, 5},
		{"Large", 1023, 2047},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key := PackCell(tc.x, tc.z)
			x, z := UnpackCell(key)
			if x != tc.x || z != tc.z {
				t.Errorf("Expected (%d, %d), but got (%d, %d)", tc.x, tc.z, x, z)
			}
		})
	}
}

func TestPackCellDistinct(t *testing.T) {
	// (x, z) and (z, x) must never collide.
	if PackCell(1, 2) == PackCell(2, 1) {
		t.Error("Expected transposed coordinates to pack to distinct keys")
	}
}

func TestIsFinite(t *testing.T) {
	testCases := []struct {
		name     string
		value    float64
		expected bool
	}{
		{"Zero", 0, true},
		{"Negative", -3.5, true},
		{"NaN", math.NaN(), false},
		{"PosInf", math.Inf(1), false},
		{"NegInf", math.Inf(-1), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsFinite(tc.value); got != tc.expected {
				t.Errorf("Expected IsFinite(%v) to be %v, but got %v", tc.value, tc.expected, got)
			}
		})
	}
}

func TestFinite(t *testing.T) {
	if got := Finite(2.5, 0); got != 2.5 {
		t.Errorf("Expected 2.5, but got %v", got)
	}
	if got := Finite(math.NaN(), 7); got != 7 {
		t.Errorf("Expected fallback 7, but got %v", got)
	}
}

func TestFloorInt(t *testing.T) {
	testCases := []struct {
		value    float64
		expected int
	}{
		{2.9, 2},
		{2.0, 2},
		{-0.1, -1},
		{-2.9, -3},
	}
	for _, tc := range testCases {
		if got := FloorInt(tc.value); got != tc.expected {
			t.Errorf("Expected FloorInt(%v) to be %d, but got %d", tc.value, tc.expected, got)
		}
	}
}

func TestRoundInt(t *testing.T) {
	testCases := []struct {
		value    float64
		expected int
	}{
		{2.4, 2},
		{2.5, 3},
		{-2.5, -3},
		{0.49, 0},
	}
	for _, tc := range testCases {
		if got := RoundInt(tc.value); got != tc.expected {
			t.Errorf("Expected RoundInt(%v) to be %d, but got %d", tc.value, tc.expected, got)
		}
	}
}
