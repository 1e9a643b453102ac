// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package calibration applies per-output color correction so that
// projectors of different make and age can be matched.
package calibration

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/gogpu/promap/frame"
	"github.com/gogpu/promap/internal/color"
	"github.com/gogpu/promap/internal/parallel"
)

// Parameter ranges.
const (
	MinBrightness  = -1
	MaxBrightness  = 1
	MaxContrast    = 2
	MaxGamma       = 4
	MaxSaturation  = 2
	MinTemperature = color.MinTemperature
	MaxTemperature = color.MaxTemperature
	Neutral        = color.NeutralTemperature
)

// ErrInvalidCalibration is returned by Validate.
var ErrInvalidCalibration = errors.New("calibration: invalid parameters")

// Calibration is the color correction of one output.
//
// Operations run in a fixed order: temperature, contrast and brightness,
// per-channel gamma, saturation.
type Calibration struct {
	Brightness  float32 `yaml:"brightness" toml:"brightness"`
	Contrast    float32 `yaml:"contrast" toml:"contrast"`
	GammaR      float32 `yaml:"gamma_r" toml:"gamma_r"`
	GammaG      float32 `yaml:"gamma_g" toml:"gamma_g"`
	GammaB      float32 `yaml:"gamma_b" toml:"gamma_b"`
	Temperature float32 `yaml:"temperature" toml:"temperature"`
	Saturation  float32 `yaml:"saturation" toml:"saturation"`
}

// Default returns the identity calibration.
func Default() Calibration {
	return Calibration{
		Contrast:    1,
		GammaR:      1,
		GammaG:      1,
		GammaB:      1,
		Temperature: Neutral,
		Saturation:  1,
	}
}

// IsIdentity reports whether applying c leaves pixels unchanged.
func (c Calibration) IsIdentity() bool {
	return c == Default()
}

// Validate rejects non-finite values and gammas that are not strictly
// positive. Everything else is handled by Normalize.
func (c Calibration) Validate() error {
	fields := []struct {
		name string
		v    float32
	}{
		{"brightness", c.Brightness},
		{"contrast", c.Contrast},
		{"gamma_r", c.GammaR},
		{"gamma_g", c.GammaG},
		{"gamma_b", c.GammaB},
		{"temperature", c.Temperature},
		{"saturation", c.Saturation},
	}
	for _, f := range fields {
		if math32.IsNaN(f.v) || math32.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidCalibration, f.name)
		}
	}
	for _, g := range [...]float32{c.GammaR, c.GammaG, c.GammaB} {
		if g <= 0 {
			return fmt.Errorf("%w: gamma %v must be positive", ErrInvalidCalibration, g)
		}
	}
	return nil
}

// Normalize clamps every parameter into its documented range.
func (c Calibration) Normalize() Calibration {
	c.Brightness = clamp(c.Brightness, MinBrightness, MaxBrightness)
	c.Contrast = clamp(c.Contrast, 0, MaxContrast)
	c.GammaR = math32.Min(c.GammaR, MaxGamma)
	c.GammaG = math32.Min(c.GammaG, MaxGamma)
	c.GammaB = math32.Min(c.GammaB, MaxGamma)
	c.Temperature = clamp(c.Temperature, MinTemperature, MaxTemperature)
	c.Saturation = clamp(c.Saturation, 0, MaxSaturation)
	return c
}

// kernel is a calibration with derived constants resolved once per frame.
type kernel struct {
	c          Calibration
	tr, tg, tb float32
	ir, ig, ib float32
}

func (c Calibration) kernel() kernel {
	k := kernel{c: c, ir: 1 / c.GammaR, ig: 1 / c.GammaG, ib: 1 / c.GammaB}
	k.tr, k.tg, k.tb = color.TemperatureMultiplier(c.Temperature)
	return k
}

func (k *kernel) apply(r, g, b float32) (float32, float32, float32) {
	r, g, b = r*k.tr, g*k.tg, b*k.tb

	r = k.tone(r, k.ir)
	g = k.tone(g, k.ig)
	b = k.tone(b, k.ib)

	if k.c.Saturation != 1 {
		l := color.Luma(r, g, b)
		s := k.c.Saturation
		r = l + (r-l)*s
		g = l + (g-l)*s
		b = l + (b-l)*s
	}
	return r, g, b
}

func (k *kernel) tone(v, invGamma float32) float32 {
	v = (v-0.5)*k.c.Contrast + 0.5 + k.c.Brightness
	v = clamp(v, 0, 1)
	if invGamma == 1 {
		return v
	}
	return math32.Pow(v, invGamma)
}

// ApplyPixel returns p corrected by c. Alpha is passed through.
func (c Calibration) ApplyPixel(p frame.Color) frame.Color {
	if c.IsIdentity() {
		return p
	}
	k := c.kernel()
	p.R, p.G, p.B = k.apply(p.R, p.G, p.B)
	return p
}

// Apply corrects every pixel of f in place. The identity calibration is a
// no-op. The pool may be nil.
func (c Calibration) Apply(f *frame.Frame, pool *parallel.Pool) {
	if c.IsIdentity() {
		return
	}
	k := c.kernel()
	pool.Rows(f.Height, parallel.DefaultMinBand, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := f.Row(y)
			for i := 0; i < len(row); i += 4 {
				row[i], row[i+1], row[i+2] = k.apply(row[i], row[i+1], row[i+2])
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
