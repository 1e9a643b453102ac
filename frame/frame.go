// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package frame provides the float32 pixel buffers that carry content and
// composited output through the engine.
//
// A Frame stores straight (non-premultiplied) alpha RGBA in linear light,
// four float32 values per pixel, rows top to bottom without padding.
package frame

import (
	"errors"
	"fmt"
)

// Errors returned by frame constructors.
var (
	ErrInvalidSize  = errors.New("frame: width and height must be positive")
	ErrSizeTooLarge = errors.New("frame: size exceeds limit")
)

// MaxDimension bounds either side of a frame.
const MaxDimension = 16384

// Color is a straight-alpha linear RGBA color.
type Color struct {
	R, G, B, A float32
}

// Transparent is the zero color.
var Transparent = Color{}

// RGBA returns an opaque or translucent color from components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Frame is a linear float32 RGBA pixel buffer.
type Frame struct {
	Width  int
	Height int
	Pix    []float32
}

// New allocates a transparent frame.
func New(width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrSizeTooLarge, width, height)
	}
	return &Frame{Width: width, Height: height, Pix: make([]float32, width*height*4)}, nil
}

// MustNew is New for sizes known to be valid. It panics on error.
func MustNew(width, height int) *Frame {
	f, err := New(width, height)
	if err != nil {
		panic(err)
	}
	return f
}

// Offset returns the index of the red component of pixel (x, y).
func (f *Frame) Offset(x, y int) int {
	return (y*f.Width + x) * 4
}

// In reports whether (x, y) lies inside the frame.
func (f *Frame) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Width && y < f.Height
}

// At returns the pixel at (x, y), or Transparent outside the frame.
func (f *Frame) At(x, y int) Color {
	if !f.In(x, y) {
		return Transparent
	}
	i := f.Offset(x, y)
	p := f.Pix[i : i+4 : i+4]
	return Color{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set writes the pixel at (x, y). Writes outside the frame are ignored.
func (f *Frame) Set(x, y int, c Color) {
	if !f.In(x, y) {
		return
	}
	i := f.Offset(x, y)
	p := f.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c Color) {
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// Clear makes every pixel transparent.
func (f *Frame) Clear() {
	clear(f.Pix)
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	c := *f
	c.Pix = append([]float32(nil), f.Pix...)
	return &c
}

// Row returns the pixel data of row y.
func (f *Frame) Row(y int) []float32 {
	start := y * f.Width * 4
	return f.Pix[start : start+f.Width*4 : start+f.Width*4]
}
