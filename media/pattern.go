// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package media

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/promap/frame"
)

func linear(c colorful.Color) frame.Color {
	r, g, b := c.Clamped().LinearRgb()
	return frame.Color{R: float32(r), G: float32(g), B: float32(b), A: 1}
}

// GridPattern renders an alignment grid: white lines on black every cells
// divisions, with a crosshair and circle centred on the frame.
func GridPattern(width, height, cells int) (*frame.Frame, error) {
	f, err := frame.New(width, height)
	if err != nil {
		return nil, err
	}
	if cells < 1 {
		cells = 1
	}
	f.Fill(frame.RGBA(0, 0, 0, 1))
	white := frame.RGBA(1, 1, 1, 1)
	accent := linear(colorful.Hsv(120, 1, 1))

	for i := 0; i <= cells; i++ {
		x := min(i*width/cells, width-1)
		y := min(i*height/cells, height-1)
		for yy := 0; yy < height; yy++ {
			f.Set(x, yy, white)
		}
		for xx := 0; xx < width; xx++ {
			f.Set(xx, y, white)
		}
	}

	cx, cy := width/2, height/2
	for x := 0; x < width; x++ {
		f.Set(x, cy, accent)
	}
	for y := 0; y < height; y++ {
		f.Set(cx, y, accent)
	}
	radius := float64(min(width, height)) / 4
	steps := int(2 * math.Pi * radius)
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		f.Set(cx+int(radius*math.Cos(a)), cy+int(radius*math.Sin(a)), accent)
	}
	return f, nil
}

// ColorBars renders vertical bars at 75% value in the classic order:
// white, yellow, cyan, green, magenta, red, blue.
func ColorBars(width, height int) (*frame.Frame, error) {
	f, err := frame.New(width, height)
	if err != nil {
		return nil, err
	}
	bars := []colorful.Color{
		colorful.Hsv(0, 0, 0.75),
		colorful.Hsv(60, 1, 0.75),
		colorful.Hsv(180, 1, 0.75),
		colorful.Hsv(120, 1, 0.75),
		colorful.Hsv(300, 1, 0.75),
		colorful.Hsv(0, 1, 0.75),
		colorful.Hsv(240, 1, 0.75),
	}
	cols := make([]frame.Color, len(bars))
	for i, c := range bars {
		cols[i] = linear(c)
	}
	for x := 0; x < width; x++ {
		c := cols[x*len(cols)/width]
		for y := 0; y < height; y++ {
			f.Set(x, y, c)
		}
	}
	return f, nil
}

// Gradient renders a horizontal gradient from one color to another,
// interpolated in CIE L*u*v* so that midtones stay even on a projector.
func Gradient(width, height int, from, to colorful.Color) (*frame.Frame, error) {
	f, err := frame.New(width, height)
	if err != nil {
		return nil, err
	}
	for x := 0; x < width; x++ {
		t := 0.0
		if width > 1 {
			t = float64(x) / float64(width-1)
		}
		c := linear(from.BlendLuv(to, t))
		for y := 0; y < height; y++ {
			f.Set(x, y, c)
		}
	}
	return f, nil
}

// Sweep renders a hue wheel rotated by phase turns, useful as moving
// content when checking output synchronization.
func Sweep(width, height int, phase float64) (*frame.Frame, error) {
	f, err := frame.New(width, height)
	if err != nil {
		return nil, err
	}
	for x := 0; x < width; x++ {
		h := math.Mod((float64(x)/float64(width)+phase)*360, 360)
		if h < 0 {
			h += 360
		}
		c := linear(colorful.Hsv(h, 0.8, 1))
		for y := 0; y < height; y++ {
			f.Set(x, y, c)
		}
	}
	return f, nil
}
