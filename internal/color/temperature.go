// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package color

import "math"

// Temperature limits in Kelvin.
const (
	MinTemperature     = 2000
	MaxTemperature     = 10000
	NeutralTemperature = 6500
)

// Luma weights (Rec. 709).
const (
	LumaR = 0.2126
	LumaG = 0.7152
	LumaB = 0.0722
)

// Luma returns the Rec. 709 weighted sum of r, g and b.
func Luma(r, g, b float32) float32 {
	return LumaR*r + LumaG*g + LumaB*b
}

// blackbody approximates the color of a black body at kelvin as 8-bit-scale
// RGB. The fit is the usual piecewise curve over 1000..40000 K.
func blackbody(kelvin float64) (r, g, b float64) {
	t := kelvin / 100
	if t <= 66 {
		r = 255
		g = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}
	switch {
	case t >= 66:
		b = 255
	case t <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(t-10) - 305.0447927307
	}
	return clamp255(r), clamp255(g), clamp255(b)
}

func clamp255(v float64) float64 {
	return math.Max(0, math.Min(255, v))
}

// TemperatureMultiplier returns per-channel gains that shift white toward
// kelvin. The result is normalized so that NeutralTemperature yields
// exactly (1, 1, 1). Input is clamped to [MinTemperature, MaxTemperature].
func TemperatureMultiplier(kelvin float32) (r, g, b float32) {
	k := math.Max(MinTemperature, math.Min(MaxTemperature, float64(kelvin)))
	if k == NeutralTemperature {
		return 1, 1, 1
	}
	nr, ng, nb := blackbody(NeutralTemperature)
	tr, tg, tb := blackbody(k)
	return float32(tr / nr), float32(tg / ng), float32(tb / nb)
}
