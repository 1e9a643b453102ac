// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/promap/frame"
)

// ImageSurface keeps the last presented frame as an *image.RGBA.
//
// It is the headless backend: presented frames are encoded to opaque sRGB
// bytes and can be read back with Snapshot or written with SavePNG.
// Unlike other surfaces, Snapshot may be called concurrently with Present.
type ImageSurface struct {
	mu        sync.Mutex
	img       *image.RGBA
	presented uint64
	closed    bool
}

var _ Surface = (*ImageSurface)(nil)

// NewImageSurface returns a black surface of the given size.
// Non-positive dimensions become 1.
func NewImageSurface(width, height int) *ImageSurface {
	w, h := Options{Width: width, Height: height}.size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return &ImageSurface{img: img}
}

// Width returns the surface width.
func (s *ImageSurface) Width() int { return s.img.Rect.Dx() }

// Height returns the surface height.
func (s *ImageSurface) Height() int { return s.img.Rect.Dy() }

// Format returns TextureFormatRGBA8Unorm.
func (s *ImageSurface) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Present encodes f into the surface image.
func (s *ImageSurface) Present(f *frame.Frame) error {
	if err := checkSize(s, f); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	f.EncodeRGBA(s.img.Pix)
	s.presented++
	return nil
}

// Presented returns the number of successful Present calls.
func (s *ImageSurface) Presented() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presented
}

// Snapshot returns a copy of the last presented image.
func (s *ImageSurface) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *s.img
	c.Pix = append([]uint8(nil), s.img.Pix...)
	return &c
}

// SavePNG writes the last presented image to path.
func (s *ImageSurface) SavePNG(path string) error {
	img := s.Snapshot()
	file, err := os.Create(path) //nolint:gosec // caller-provided output path
	if err != nil {
		return fmt.Errorf("surface: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		_ = file.Close()
		return fmt.Errorf("surface: encode %s: %w", path, err)
	}
	return file.Close()
}

// Close marks the surface closed. The image stays readable.
func (s *ImageSurface) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// NullSurface accepts and discards frames.
type NullSurface struct {
	width, height int
	closed        bool
}

var _ Surface = (*NullSurface)(nil)

// NewNullSurface returns a discarding surface of the given size.
func NewNullSurface(width, height int) *NullSurface {
	w, h := Options{Width: width, Height: height}.size()
	return &NullSurface{width: w, height: h}
}

// Width returns the surface width.
func (s *NullSurface) Width() int { return s.width }

// Height returns the surface height.
func (s *NullSurface) Height() int { return s.height }

// Format returns TextureFormatUndefined.
func (s *NullSurface) Format() gputypes.TextureFormat { return gputypes.TextureFormatUndefined }

// Present validates f and drops it.
func (s *NullSurface) Present(f *frame.Frame) error {
	if s.closed {
		return ErrClosed
	}
	return checkSize(s, f)
}

// Close marks the surface closed.
func (s *NullSurface) Close() error {
	s.closed = true
	return nil
}
