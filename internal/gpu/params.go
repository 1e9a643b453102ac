// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"encoding/binary"

	"github.com/gogpu/promap/calibration"
	"github.com/gogpu/promap/edgeblend"
	"github.com/gogpu/promap/internal/color"
)

// Stage flags in postParams.Flags.
const (
	flagEdgeBlend   uint32 = 1 << 0
	flagCalibration uint32 = 1 << 1
)

// postParams mirrors the Params uniform of postShaderWGSL. Every field is
// a 4-byte scalar; the size is a multiple of 16.
type postParams struct {
	Width      uint32
	Height     uint32
	Flags      uint32
	BlendGamma float32

	LeftWidth    float32
	LeftOffset   float32
	RightWidth   float32
	RightOffset  float32
	TopWidth     float32
	TopOffset    float32
	BottomWidth  float32
	BottomOffset float32

	Brightness   float32
	Contrast     float32
	InvGammaR    float32
	InvGammaG    float32
	InvGammaB    float32
	TemperatureR float32
	TemperatureG float32
	TemperatureB float32
	Saturation   float32
	_            [3]float32
}

// postParamsSize is the byte size of postParams.
const postParamsSize = 24 * 4

func zoneParams(z edgeblend.Zone) (width, offset float32) {
	if !z.Enabled || !(z.Width > 0) {
		return 0, 0
	}
	return z.Width, z.Offset
}

// newPostParams resolves the per-frame constants of both stages.
func newPostParams(width, height int, eb edgeblend.Config, cal calibration.Calibration) postParams {
	p := postParams{
		Width:      uint32(width),  //nolint:gosec // frame sizes are bounded
		Height:     uint32(height), //nolint:gosec // frame sizes are bounded
		BlendGamma: eb.Gamma,
	}
	if eb.Active() {
		p.Flags |= flagEdgeBlend
		p.LeftWidth, p.LeftOffset = zoneParams(eb.Left)
		p.RightWidth, p.RightOffset = zoneParams(eb.Right)
		p.TopWidth, p.TopOffset = zoneParams(eb.Top)
		p.BottomWidth, p.BottomOffset = zoneParams(eb.Bottom)
	}
	if !cal.IsIdentity() {
		p.Flags |= flagCalibration
		p.Brightness = cal.Brightness
		p.Contrast = cal.Contrast
		p.InvGammaR = 1 / cal.GammaR
		p.InvGammaG = 1 / cal.GammaG
		p.InvGammaB = 1 / cal.GammaB
		p.TemperatureR, p.TemperatureG, p.TemperatureB = color.TemperatureMultiplier(cal.Temperature)
		p.Saturation = cal.Saturation
	}
	return p
}

// bytes encodes p in the uniform buffer layout.
func (p postParams) bytes() []byte {
	buf, err := binary.Append(make([]byte, 0, postParamsSize), binary.LittleEndian, p)
	if err != nil {
		// postParams is fixed size; Append cannot fail.
		panic(err)
	}
	return buf
}
