// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import "math"

// Filter selects how a frame is sampled at fractional coordinates.
type Filter uint8

const (
	// FilterBilinear interpolates the four nearest pixel centers.
	FilterBilinear Filter = iota

	// FilterNearest picks the pixel containing the coordinate.
	FilterNearest
)

// String returns the filter name.
func (m Filter) String() string {
	switch m {
	case FilterBilinear:
		return "bilinear"
	case FilterNearest:
		return "nearest"
	default:
		return "unknown"
	}
}

// Sample reads the frame at normalized (u, v) with the given filter.
func (f *Frame) Sample(u, v float64, filter Filter) Color {
	if filter == FilterNearest {
		return f.SampleNearest(u, v)
	}
	return f.SampleBilinear(u, v)
}

// SampleNearest returns the pixel containing normalized (u, v), clamped to
// the edge.
func (f *Frame) SampleNearest(u, v float64) Color {
	x := clampInt(int(math.Floor(u*float64(f.Width))), f.Width-1)
	y := clampInt(int(math.Floor(v*float64(f.Height))), f.Height-1)
	return f.At(x, y)
}

// SampleBilinear interpolates between the four pixel centers around
// normalized (u, v), clamped to the edge.
//
// Interpolation happens in straight alpha weighted by coverage so that
// transparent texels do not bleed their color into opaque neighbours.
func (f *Frame) SampleBilinear(u, v float64) Color {
	fx := u*float64(f.Width) - 0.5
	fy := v*float64(f.Height) - 0.5
	if math.IsNaN(fx) || math.IsNaN(fy) {
		return Transparent
	}

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := float32(fx - float64(x0))
	ty := float32(fy - float64(y0))

	x1 := clampInt(x0+1, f.Width-1)
	y1 := clampInt(y0+1, f.Height-1)
	x0 = clampInt(x0, f.Width-1)
	y0 = clampInt(y0, f.Height-1)

	w00 := (1 - tx) * (1 - ty)
	w10 := tx * (1 - ty)
	w01 := (1 - tx) * ty
	w11 := tx * ty

	var r, g, b, a float32
	accumulate := func(x, y int, w float32) {
		i := f.Offset(x, y)
		p := f.Pix[i : i+4 : i+4]
		wa := w * p[3]
		r += p[0] * wa
		g += p[1] * wa
		b += p[2] * wa
		a += wa
	}
	accumulate(x0, y0, w00)
	accumulate(x1, y0, w10)
	accumulate(x0, y1, w01)
	accumulate(x1, y1, w11)

	if a <= 0 {
		return Transparent
	}
	return Color{R: r / a, G: g / a, B: b / a, A: a}
}

func clampInt(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
