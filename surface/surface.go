// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/promap/frame"
)

// Errors returned by surfaces.
var (
	// ErrClosed is returned by Present after Close.
	ErrClosed = errors.New("surface: closed")

	// ErrSizeMismatch is returned when a presented frame does not match the
	// surface size.
	ErrSizeMismatch = errors.New("surface: frame size does not match surface")
)

// Surface is a presentation target for one output.
//
// Present is called from the presentation loop, one call at a time per
// surface. Implementations must not keep f after Present returns.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Format returns the pixel format frames are converted to.
	Format() gputypes.TextureFormat

	// Present shows f. f has the surface's size and straight linear alpha.
	Present(f *frame.Frame) error

	// Close releases the surface. Close is idempotent.
	Close() error
}

// Options describe a surface to create.
type Options struct {
	// Width and Height are the surface size in pixels.
	Width  int
	Height int

	// Title labels windowed surfaces.
	Title string

	// Fullscreen requests an exclusive fullscreen window where supported.
	Fullscreen bool

	// Device is the host GPU device, if any.
	Device DeviceHandle
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}

func checkSize(s Surface, f *frame.Frame) error {
	if f == nil || f.Width != s.Width() || f.Height != s.Height() {
		return ErrSizeMismatch
	}
	return nil
}
