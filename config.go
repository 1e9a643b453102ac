// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package promap

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/promap/canvas"
	"github.com/gogpu/promap/media"
)

// ErrInvalidConfig is wrapped by Config.Validate errors.
var ErrInvalidConfig = errors.New("promap: invalid config")

// Duration is a time.Duration written as a Go duration string ("4ms") in
// configuration files.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config holds the engine settings that are not part of the show.
type Config struct {
	// TickRate is the presentation rate of Run in Hz.
	TickRate float64 `toml:"tick_rate"`

	// SyncTolerance is the presentation spread across outputs above which
	// a SyncDriftWarning is reported.
	SyncTolerance Duration `toml:"sync_tolerance"`

	// Workers is the size of the rasterization pool. Zero uses GOMAXPROCS.
	Workers int `toml:"workers"`

	// TextureRetireDepth is the number of ticks a replaced content frame
	// stays alive.
	TextureRetireDepth int `toml:"texture_retire_depth"`

	// SurfaceBackend selects the surface backend for outputs that do not
	// name one. Empty picks the best available.
	SurfaceBackend string `toml:"surface_backend"`

	// GPUPostProcess runs edge blend and calibration on the registered
	// PostProcessor when one is available.
	GPUPostProcess bool `toml:"gpu_post_process"`

	// Canvas is the initial canvas size.
	Canvas canvas.Canvas `toml:"canvas"`
}

// DefaultConfig returns a 60 Hz configuration with a 1920x1080 canvas.
func DefaultConfig() Config {
	return Config{
		TickRate:           60,
		SyncTolerance:      Duration(4 * time.Millisecond),
		TextureRetireDepth: media.DefaultRetireDepth,
		GPUPostProcess:     true,
		Canvas:             canvas.Canvas{Width: 1920, Height: 1080},
	}
}

// Validate checks c.
func (c Config) Validate() error {
	switch {
	case math.IsNaN(c.TickRate) || c.TickRate <= 0 || math.IsInf(c.TickRate, 0):
		return fmt.Errorf("%w: tick_rate %v must be positive", ErrInvalidConfig, c.TickRate)
	case c.SyncTolerance < 0:
		return fmt.Errorf("%w: sync_tolerance must not be negative", ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	case c.TextureRetireDepth < 0:
		return fmt.Errorf("%w: texture_retire_depth must not be negative", ErrInvalidConfig)
	}
	if err := c.Canvas.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// TickInterval returns the period between ticks.
func (c Config) TickInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.TickRate)
}

// ParseConfig decodes a TOML configuration on top of DefaultConfig.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("promap: load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Encode returns c as TOML.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
