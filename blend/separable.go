// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package blend

import "github.com/chewxy/math32"

// ChannelFunc is the per-channel blend function B(Cb, Cs) on straight,
// unit-range values.
type ChannelFunc func(cb, cs float32) float32

// Channel returns the blend function of m. Normal returns nil: the source
// replaces the backdrop before alpha compositing.
func (m Mode) Channel() ChannelFunc {
	switch m {
	case Add:
		return add
	case Subtract:
		return subtract
	case Multiply:
		return multiply
	case Screen:
		return screen
	case Overlay:
		return overlay
	case SoftLight:
		return softLight
	case HardLight:
		return hardLight
	case Lighten:
		return math32.Max
	case Darken:
		return math32.Min
	case ColorDodge:
		return colorDodge
	case ColorBurn:
		return colorBurn
	case Difference:
		return difference
	case Exclusion:
		return exclusion
	default:
		return nil
	}
}

func add(cb, cs float32) float32      { return math32.Min(1, cb+cs) }
func subtract(cb, cs float32) float32 { return math32.Max(0, cb-cs) }
func multiply(cb, cs float32) float32 { return cb * cs }

func screen(cb, cs float32) float32 {
	return cb + cs - cb*cs
}

func hardLight(cb, cs float32) float32 {
	if cs <= 0.5 {
		return multiply(cb, 2*cs)
	}
	return screen(cb, 2*cs-1)
}

// overlay is hard light with the layers swapped.
func overlay(cb, cs float32) float32 {
	return hardLight(cs, cb)
}

func softLight(cb, cs float32) float32 {
	if cs <= 0.5 {
		return cb - (1-2*cs)*cb*(1-cb)
	}
	var d float32
	if cb <= 0.25 {
		d = ((16*cb-12)*cb + 4) * cb
	} else {
		d = math32.Sqrt(cb)
	}
	return cb + (2*cs-1)*(d-cb)
}

func colorDodge(cb, cs float32) float32 {
	switch {
	case cb <= 0:
		return 0
	case cs >= 1:
		return 1
	default:
		return math32.Min(1, cb/(1-cs))
	}
}

func colorBurn(cb, cs float32) float32 {
	switch {
	case cb >= 1:
		return 1
	case cs <= 0:
		return 0
	default:
		return 1 - math32.Min(1, (1-cb)/cs)
	}
}

func difference(cb, cs float32) float32 {
	return math32.Abs(cb - cs)
}

func exclusion(cb, cs float32) float32 {
	return cb + cs - 2*cb*cs
}
