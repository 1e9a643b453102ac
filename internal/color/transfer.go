// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package color holds the color math shared by the frame and calibration
// stages: sRGB transfer functions, correlated color temperature and luma.
//
// Pixels flow through the engine as straight-alpha linear float32 RGBA.
// Conversion happens only at the edges: when content is imported and when a
// finished frame is handed to a surface.
package color

import "github.com/chewxy/math32"

// decodeLUT maps an 8-bit sRGB code to linear light.
var decodeLUT [256]float32

// encodeLUT maps 12-bit quantized linear light to an 8-bit sRGB code.
var encodeLUT [4096]uint8

func init() {
	for i := range decodeLUT {
		decodeLUT[i] = SRGBToLinear(float32(i) / 255)
	}
	for i := range encodeLUT {
		encodeLUT[i] = quantize(LinearToSRGB(float32(i) / 4095))
	}
}

// SRGBToLinear is the sRGB electro-optical transfer function on [0,1].
func SRGBToLinear(s float32) float32 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math32.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB is the inverse of SRGBToLinear on [0,1].
func LinearToSRGB(l float32) float32 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math32.Pow(l, 1/2.4) - 0.055
}

// DecodeByte converts an 8-bit sRGB code to linear light.
func DecodeByte(s uint8) float32 {
	return decodeLUT[s]
}

// EncodeByte converts linear light to an 8-bit sRGB code.
// Values outside [0,1] are clamped.
func EncodeByte(l float32) uint8 {
	if !(l > 0) {
		return 0
	}
	if l >= 1 {
		return 255
	}
	return encodeLUT[int(l*4095+0.5)]
}

// quantize maps [0,1] to [0,255] with rounding and clamping.
func quantize(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Quantize maps a unit value to a byte without any transfer function.
func Quantize(v float32) uint8 {
	return quantize(v)
}
