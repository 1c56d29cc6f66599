package utils

import "math"

// IsFinite reports whether v is a usable coordinate value.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Finite returns v, or fallback when v is NaN or infinite.
func Finite(v, fallback float64) float64 {
	if !IsFinite(v) {
		return fallback
	}
	return v
}

// FloorInt truncates toward negative infinity.
func FloorInt(v float64) int {
	return int(math.Floor(v))
}

// RoundInt rounds half away from zero.
func RoundInt(v float64) int {
	return int(math.Round(v))
}

func Abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// PackCell packs a (col, row) board coordinate into a single map key.
// Coordinates are validated against board bounds before packing, so the
// uint32 halves never see negative values.
func PackCell(x, z int) uint64 {
	return uint64(uint32(z))<<32 | uint64(uint32(x))
}

// UnpackCell is the inverse of PackCell.
func UnpackCell(key uint64) (x, z int) {
	return int(uint32(key)), int(uint32(key >> 32))
}
