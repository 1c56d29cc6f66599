// File: utils/config.go
package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all tunable engine and host parameters.
type Config struct {
	// Timing
	GameTickPeriod time.Duration `json:"gameTickPeriod" yaml:"game_tick_period"` // Time between simulation steps
	MaxFrameGap    float64       `json:"maxFrameGap" yaml:"max_frame_gap"`       // Ticks with dt above this (seconds) are discarded
	RespawnDelay   time.Duration `json:"respawnDelay" yaml:"respawn_delay"`      // Delay before a replacement piece is requested

	// Board
	BoardRows int `json:"boardRows" yaml:"board_rows"` // Number of rows (z axis)
	BoardCols int `json:"boardCols" yaml:"board_cols"` // Number of columns (x axis)
	HomeDepth int `json:"homeDepth" yaml:"home_depth"` // Rows from each end that count as home zone

	// Falling-piece physics
	Gravity         float64 `json:"gravity" yaml:"gravity"`                  // Vertical acceleration, units/s^2
	GroundY         float64 `json:"groundY" yaml:"ground_y"`                 // Height of the board plane
	BounceFactor    float64 `json:"bounceFactor" yaml:"bounce_factor"`       // Energy kept on a ground bounce
	MinVelocity     float64 `json:"minVelocity" yaml:"min_velocity"`         // Components below this are zeroed after a bounce
	SnapThreshold   float64 `json:"snapThreshold" yaml:"snap_threshold"`     // Lateral speed under which x/z snap to the grid
	RotationDamping float64 `json:"rotationDamping" yaml:"rotation_damping"` // Multiplicative decay of visual rotation per tick
	StuckYOffset    float64 `json:"stuckYOffset" yaml:"stuck_y_offset"`      // Resting height above the board plane after a stick
	FallResetY      float64 `json:"fallResetY" yaml:"fall_reset_y"`          // Below this a falling piece is force-reset
	SpawnHeight     float64 `json:"spawnHeight" yaml:"spawn_height"`         // Height new pieces appear at
	SpawnDrift      float64 `json:"spawnDrift" yaml:"spawn_drift"`           // Max random lateral speed at spawn

	// Dissolution
	DissolveSpeed  float64 `json:"dissolveSpeed" yaml:"dissolve_speed"`   // Progress added per tick
	DissolveDrift  float64 `json:"dissolveDrift" yaml:"dissolve_drift"`   // Cosmetic downward drift per tick
	DissolveShrink float64 `json:"dissolveShrink" yaml:"dissolve_shrink"` // Multiplicative scale decay per tick
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() Config {
	return Config{
		// Timing
		GameTickPeriod: 16 * time.Millisecond,
		MaxFrameGap:    0.1, // ~6 dropped frames; longer gaps mean the tab was suspended
		RespawnDelay:   500 * time.Millisecond,

		// Board
		BoardRows: 8,
		BoardCols: 8,
		HomeDepth: 2,

		// Physics
		Gravity:         0.02,
		GroundY:         0.5,
		BounceFactor:    0.3,
		MinVelocity:     0.01,
		SnapThreshold:   0.2,
		RotationDamping: 0.95,
		StuckYOffset:    0.1,
		FallResetY:      -10,
		SpawnHeight:     5.0,
		SpawnDrift:      0.15,

		// Dissolution
		DissolveSpeed:  0.03,
		DissolveDrift:  0.01,
		DissolveShrink: 0.97,
	}
}

// Load reads a YAML config file, layering it over the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.BoardRows <= 0 || c.BoardCols <= 0 {
		return fmt.Errorf("board dimensions must be positive, got %dx%d", c.BoardRows, c.BoardCols)
	}
	if c.HomeDepth < 0 || c.HomeDepth*2 > c.BoardRows {
		return fmt.Errorf("home depth %d does not fit %d rows", c.HomeDepth, c.BoardRows)
	}
	if c.GameTickPeriod <= 0 {
		return fmt.Errorf("game tick period must be positive")
	}
	if c.Gravity < 0 {
		return fmt.Errorf("gravity must not be negative")
	}
	if c.BounceFactor < 0 || c.BounceFactor >= 1 {
		return fmt.Errorf("bounce factor must be in [0, 1), got %v", c.BounceFactor)
	}
	if c.DissolveSpeed <= 0 {
		return fmt.Errorf("dissolve speed must be positive")
	}
	if c.MaxFrameGap <= 0 {
		return fmt.Errorf("max frame gap must be positive")
	}
	return nil
}
