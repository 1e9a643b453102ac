// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package blend

import "github.com/gogpu/promap/frame"

// Blender composites source pixels onto a backdrop with a fixed mode.
type Blender struct {
	mode Mode
	fn   ChannelFunc
}

// NewBlender resolves m once. Unknown modes behave as Normal.
func NewBlender(m Mode) Blender {
	if !m.Valid() {
		m = Normal
	}
	return Blender{mode: m, fn: m.Channel()}
}

// Mode returns the resolved mode.
func (b Blender) Mode() Mode {
	return b.mode
}

// Blend composites src with the given opacity onto the straight-alpha
// pixel held in dst[0:4].
func (b Blender) Blend(dst []float32, src frame.Color, opacity float32) {
	as := src.A * opacity
	if !(as > 0) {
		return
	}
	if as > 1 {
		as = 1
	}
	d := dst[:4:4]
	ab := d[3]

	cr, cg, cbl := src.R, src.G, src.B
	if b.fn != nil && ab > 0 {
		cr = (1-ab)*cr + ab*b.fn(unit(d[0]), unit(cr))
		cg = (1-ab)*cg + ab*b.fn(unit(d[1]), unit(cg))
		cbl = (1-ab)*cbl + ab*b.fn(unit(d[2]), unit(cbl))
	}

	keep := ab * (1 - as)
	ao := as + keep
	if ao <= 0 {
		d[0], d[1], d[2], d[3] = 0, 0, 0, 0
		return
	}
	d[0] = (as*cr + keep*d[0]) / ao
	d[1] = (as*cg + keep*d[1]) / ao
	d[2] = (as*cbl + keep*d[2]) / ao
	d[3] = ao
}

// Composite returns src blended over dst.
func (b Blender) Composite(dst, src frame.Color, opacity float32) frame.Color {
	px := [4]float32{dst.R, dst.G, dst.B, dst.A}
	b.Blend(px[:], src, opacity)
	return frame.Color{R: px[0], G: px[1], B: px[2], A: px[3]}
}

func unit(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
