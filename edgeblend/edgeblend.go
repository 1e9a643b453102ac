// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package edgeblend feathers the alpha of an output frame near its edges so
// that overlapping projectors add up to a seamless image.
//
// Each of the four edges has an independent Zone. Inside a zone the alpha
// ramps from 0 at the edge (shifted by the zone offset) to 1 at the zone
// width, shaped by a shared gamma. Corners where two zones meet multiply.
// Color channels are never modified.
package edgeblend

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/gogpu/promap/frame"
	"github.com/gogpu/promap/internal/parallel"
)

// Limits of the zone parameters.
const (
	MaxWidth  = 0.5
	MaxOffset = 0.1
	MaxGamma  = 4
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("edgeblend: invalid config")

// Zone describes the feathering ramp along one edge.
type Zone struct {
	Enabled bool    `yaml:"enabled" toml:"enabled"`
	Width   float32 `yaml:"width" toml:"width"`
	Offset  float32 `yaml:"offset" toml:"offset"`
}

// Config is the edge blend setup of one output.
type Config struct {
	Left   Zone    `yaml:"left" toml:"left"`
	Right  Zone    `yaml:"right" toml:"right"`
	Top    Zone    `yaml:"top" toml:"top"`
	Bottom Zone    `yaml:"bottom" toml:"bottom"`
	Gamma  float32 `yaml:"gamma" toml:"gamma"`
}

// Default returns a config with every zone disabled and gamma 1.
func Default() Config {
	return Config{Gamma: 1}
}

// Active reports whether any zone is enabled with a positive width.
func (c Config) Active() bool {
	for _, z := range c.zones() {
		if z.active() {
			return true
		}
	}
	return false
}

func (c Config) zones() [4]Zone {
	return [4]Zone{c.Left, c.Right, c.Top, c.Bottom}
}

func (z Zone) active() bool {
	return z.Enabled && z.Width > 0
}

// Validate rejects values that cannot be clamped into meaning: a gamma that
// is not strictly positive and any non-finite number.
func (c Config) Validate() error {
	if !finite(c.Gamma) || c.Gamma <= 0 {
		return fmt.Errorf("%w: gamma %v must be positive", ErrInvalidConfig, c.Gamma)
	}
	names := [4]string{"left", "right", "top", "bottom"}
	for i, z := range c.zones() {
		if !finite(z.Width) || !finite(z.Offset) {
			return fmt.Errorf("%w: %s zone has non-finite width or offset", ErrInvalidConfig, names[i])
		}
	}
	return nil
}

// Normalize clamps widths to [0, 0.5], offsets to [-0.1, 0.1] and gamma to
// at most 4.
func (c Config) Normalize() Config {
	c.Left = c.Left.normalize()
	c.Right = c.Right.normalize()
	c.Top = c.Top.normalize()
	c.Bottom = c.Bottom.normalize()
	if c.Gamma > MaxGamma {
		c.Gamma = MaxGamma
	}
	return c
}

func (z Zone) normalize() Zone {
	z.Width = clamp(z.Width, 0, MaxWidth)
	z.Offset = clamp(z.Offset, -MaxOffset, MaxOffset)
	return z
}

// ZoneAlpha returns the ramp value at distance d into a zone of width w.
// It is exactly 0 at d <= 0 and exactly 1 at d >= w.
func ZoneAlpha(d, w, gamma float32) float32 {
	if !(w > 0) || d >= w {
		return 1
	}
	if !(d > 0) {
		return 0
	}
	t := d / w
	if gamma == 1 {
		return t
	}
	return math32.Pow(t, gamma)
}

// zoneFactor evaluates z at distance edgeDist from its edge.
func (c Config) zoneFactor(z Zone, edgeDist float32) float32 {
	if !z.active() {
		return 1
	}
	return ZoneAlpha(edgeDist-z.Offset, z.Width, c.Gamma)
}

// Horizontal returns the combined left and right factor at local u.
func (c Config) Horizontal(u float32) float32 {
	return c.zoneFactor(c.Left, u) * c.zoneFactor(c.Right, 1-u)
}

// Vertical returns the combined top and bottom factor at local v.
func (c Config) Vertical(v float32) float32 {
	return c.zoneFactor(c.Top, v) * c.zoneFactor(c.Bottom, 1-v)
}

// Alpha returns the blend factor at local (u, v) in [0,1]².
func (c Config) Alpha(u, v float32) float32 {
	return c.Horizontal(u) * c.Vertical(v)
}

// Apply multiplies the alpha of every pixel of f by the blend factor at the
// pixel center. The pool may be nil.
func (c Config) Apply(f *frame.Frame, pool *parallel.Pool) {
	if !c.Active() {
		return
	}
	cols := make([]float32, f.Width)
	for x := range cols {
		cols[x] = c.Horizontal((float32(x) + 0.5) / float32(f.Width))
	}
	rows := make([]float32, f.Height)
	for y := range rows {
		rows[y] = c.Vertical((float32(y) + 0.5) / float32(f.Height))
	}

	pool.Rows(f.Height, parallel.DefaultMinBand, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			ry := rows[y]
			row := f.Row(y)
			if ry == 1 {
				for x, cx := range cols {
					row[x*4+3] *= cx
				}
				continue
			}
			for x, cx := range cols {
				row[x*4+3] *= cx * ry
			}
		}
	})
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
