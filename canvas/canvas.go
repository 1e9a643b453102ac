// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package canvas defines the authoring coordinate space shared by mappings
// and outputs.
//
// All geometry is expressed in the normalized [0,1]x[0,1] frame of the
// canvas. The pixel size only matters for content resolution decisions;
// resizing the canvas never moves mesh vertices.
package canvas

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/promap/geom"
)

// Epsilon is the tolerance applied to region bounds checks.
const Epsilon = 1e-6

// Errors returned by canvas validation.
var (
	ErrInvalidSize   = errors.New("canvas: size must be positive")
	ErrInvalidRegion = errors.New("canvas: invalid region")
)

// Canvas is the authoring surface size in pixels.
type Canvas struct {
	Width  uint32 `yaml:"width" toml:"width"`
	Height uint32 `yaml:"height" toml:"height"`
}

// New returns a canvas of the given size.
func New(width, height uint32) (Canvas, error) {
	c := Canvas{Width: width, Height: height}
	return c, c.Validate()
}

// Validate reports an error for a zero dimension.
func (c Canvas) Validate() error {
	if c.Width == 0 || c.Height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	return nil
}

// Aspect returns width divided by height.
func (c Canvas) Aspect() float64 {
	if c.Height == 0 {
		return 0
	}
	return float64(c.Width) / float64(c.Height)
}

// Region is a normalized rectangle of the canvas.
type Region struct {
	X      float64 `yaml:"x" toml:"x"`
	Y      float64 `yaml:"y" toml:"y"`
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// Full returns the region covering the whole canvas.
func Full() Region {
	return Region{Width: 1, Height: 1}
}

// Validate checks that the region has positive size and lies inside the
// unit square.
func (r Region) Validate() error {
	for _, f := range [...]float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite component in %+v", ErrInvalidRegion, r)
		}
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: non-positive size %gx%g", ErrInvalidRegion, r.Width, r.Height)
	}
	if r.X < -Epsilon || r.Y < -Epsilon || r.X+r.Width > 1+Epsilon || r.Y+r.Height > 1+Epsilon {
		return fmt.Errorf("%w: %+v is outside the unit square", ErrInvalidRegion, r)
	}
	return nil
}

// Rect returns the region as a geometric rectangle.
func (r Region) Rect() geom.Rect {
	return geom.Rect{
		Min: geom.V2(r.X, r.Y),
		Max: geom.V2(r.X+r.Width, r.Y+r.Height),
	}
}

// Area returns Width*Height.
func (r Region) Area() float64 {
	return r.Width * r.Height
}

// Intersects reports whether r and s overlap with positive area.
// The relation is symmetric.
func (r Region) Intersects(s Region) bool {
	return r.Rect().Overlaps(s.Rect())
}

// Intersection returns the overlap of r and s, or false when they do not
// overlap.
func (r Region) Intersection(s Region) (Region, bool) {
	x0 := math.Max(r.X, s.X)
	y0 := math.Max(r.Y, s.Y)
	x1 := math.Min(r.X+r.Width, s.X+s.Width)
	y1 := math.Min(r.Y+r.Height, s.Y+s.Height)
	if x1 <= x0 || y1 <= y0 {
		return Region{}, false
	}
	return Region{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// Contains reports whether p lies inside the region (edges inclusive).
func (r Region) Contains(p geom.Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// ToLocal maps a canvas point into the region's own [0,1] frame.
func (r Region) ToLocal(p geom.Vec2) geom.Vec2 {
	return geom.Vec2{X: (p.X - r.X) / r.Width, Y: (p.Y - r.Y) / r.Height}
}

// FromLocal is the inverse of ToLocal.
func (r Region) FromLocal(p geom.Vec2) geom.Vec2 {
	return geom.Vec2{X: r.X + p.X*r.Width, Y: r.Y + p.Y*r.Height}
}
