// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/promap/internal/color"
)

// FromImage decodes an sRGB image into a linear frame of the same size.
func FromImage(img image.Image) (*Frame, error) {
	b := img.Bounds()
	return FromImageScaled(img, b.Dx(), b.Dy())
}

// FromImageScaled decodes img into a linear frame of width x height,
// resampling with a bilinear filter when the sizes differ.
func FromImageScaled(img image.Image, width, height int) (*Frame, error) {
	f, err := New(width, height)
	if err != nil {
		return nil, err
	}

	src := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || src.Dx() != width || src.Dy() != height || src.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, width, height))
		if src.Dx() == width && src.Dy() == height {
			xdraw.Draw(nrgba, nrgba.Bounds(), img, src.Min, xdraw.Src)
		} else {
			xdraw.BiLinear.Scale(nrgba, nrgba.Bounds(), img, src, xdraw.Src, nil)
		}
	}

	for y := 0; y < height; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+width*4]
		out := f.Row(y)
		for i := 0; i < len(row); i += 4 {
			out[i] = color.DecodeByte(row[i])
			out[i+1] = color.DecodeByte(row[i+1])
			out[i+2] = color.DecodeByte(row[i+2])
			out[i+3] = float32(row[i+3]) / 255
		}
	}
	return f, nil
}

// ToRGBA encodes the frame to sRGB, flattened onto black.
// Surfaces and projectors have no alpha channel.
func (f *Frame) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	f.EncodeRGBA(img.Pix)
	return img
}

// EncodeRGBA writes the frame into dst as opaque sRGB bytes, flattened
// onto black. dst must hold Width*Height*4 bytes.
func (f *Frame) EncodeRGBA(dst []byte) {
	for i := 0; i < len(f.Pix); i += 4 {
		a := clampUnit(f.Pix[i+3])
		dst[i] = color.EncodeByte(f.Pix[i] * a)
		dst[i+1] = color.EncodeByte(f.Pix[i+1] * a)
		dst[i+2] = color.EncodeByte(f.Pix[i+2] * a)
		dst[i+3] = 255
	}
}

// ToNRGBA encodes the frame to sRGB keeping straight alpha.
func (f *Frame) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i := 0; i < len(f.Pix); i += 4 {
		img.Pix[i] = color.EncodeByte(f.Pix[i])
		img.Pix[i+1] = color.EncodeByte(f.Pix[i+1])
		img.Pix[i+2] = color.EncodeByte(f.Pix[i+2])
		img.Pix[i+3] = color.Quantize(f.Pix[i+3])
	}
	return img
}

// Resize returns a copy of f resampled to width x height.
func (f *Frame) Resize(width, height int) (*Frame, error) {
	if width == f.Width && height == f.Height {
		return f.Clone(), nil
	}
	out, err := New(width, height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		v := (float64(y) + 0.5) / float64(height)
		row := out.Row(y)
		for x := 0; x < width; x++ {
			c := f.SampleBilinear((float64(x)+0.5)/float64(width), v)
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = c.R, c.G, c.B, c.A
		}
	}
	return out, nil
}

func clampUnit(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
