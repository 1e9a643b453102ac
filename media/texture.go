// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package media is the handoff point between content producers (decoders,
// generators, capture devices) and the compositor.
//
// Producers publish frames into per-content slots. The compositor reads the
// latest frame of each slot once per tick without blocking. Replaced frames
// are kept alive for a few ticks and reference counted, so a frame in use by
// a tick is never recycled underneath it.
package media

import (
	"sync/atomic"

	"github.com/gogpu/promap/frame"
)

// ContentRef identifies a piece of content. It is opaque to the engine.
type ContentRef string

// Pipeline supplies the current texture of a content reference.
//
// GetCurrentTexture must not block. A returned texture carries a reference
// owned by the caller, who releases it with Texture.Release.
type Pipeline interface {
	GetCurrentTexture(ref ContentRef) (*Texture, bool)
}

// Texture is a published content frame with a reference count.
type Texture struct {
	ref       ContentRef
	seq       uint64
	frame     *frame.Frame
	refs      atomic.Int32
	onRelease func(*Texture)
}

// NewTexture wraps f with a reference count of one.
// onRelease, if non-nil, runs when the count drops to zero.
func NewTexture(ref ContentRef, f *frame.Frame, onRelease func(*Texture)) *Texture {
	t := &Texture{ref: ref, frame: f, onRelease: onRelease}
	t.refs.Store(1)
	return t
}

// Ref returns the content reference the texture was published under.
func (t *Texture) Ref() ContentRef { return t.ref }

// Seq returns the publication sequence number; later publications have
// larger numbers.
func (t *Texture) Seq() uint64 { return t.seq }

// Frame returns the pixel data. It must not be modified.
func (t *Texture) Frame() *frame.Frame { return t.frame }

// Refs returns the current reference count.
func (t *Texture) Refs() int32 { return t.refs.Load() }

// Retain adds a reference and returns t.
func (t *Texture) Retain() *Texture {
	t.refs.Add(1)
	return t
}

// tryRetain adds a reference unless the texture is already released.
func (t *Texture) tryRetain() bool {
	for {
		n := t.refs.Load()
		if n <= 0 {
			return false
		}
		if t.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Release drops a reference. The last release runs the release hook.
func (t *Texture) Release() {
	if t == nil {
		return
	}
	if n := t.refs.Add(-1); n == 0 && t.onRelease != nil {
		t.onRelease(t)
	}
}
