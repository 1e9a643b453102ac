// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package media

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/promap/frame"
)

// DefaultRetireDepth is the number of completed ticks a replaced texture is
// kept before its slot reference is dropped.
const DefaultRetireDepth = 2

// Slots is an in-memory Pipeline: one atomically swapped texture per
// content reference.
//
// Publish may be called from any goroutine. Collect is called by the
// presentation loop after each tick.
type Slots struct {
	mu      sync.Mutex
	slots   map[ContentRef]*atomic.Pointer[Texture]
	retired []retired

	depth     uint64
	completed atomic.Uint64
	seq       atomic.Uint64
	pool      *frame.Pool
}

type retired struct {
	tex   *Texture
	frame uint64
}

var _ Pipeline = (*Slots)(nil)

// NewSlots returns an empty slot set. Replaced textures are released after
// depth completed ticks; depth below 1 means DefaultRetireDepth. Released
// frames go back to pool when it is non-nil.
func NewSlots(depth int, pool *frame.Pool) *Slots {
	if depth < 1 {
		depth = DefaultRetireDepth
	}
	return &Slots{
		slots: make(map[ContentRef]*atomic.Pointer[Texture]),
		depth: uint64(depth),
		pool:  pool,
	}
}

func (s *Slots) slot(ref ContentRef, create bool) *atomic.Pointer[Texture] {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.slots[ref]
	if !ok && create {
		p = new(atomic.Pointer[Texture])
		s.slots[ref] = p
	}
	return p
}

func (s *Slots) recycle(t *Texture) {
	if s.pool != nil {
		s.pool.Put(t.frame)
	}
}

// Publish makes f the current frame of ref and returns its texture.
// Slots takes ownership of f.
// The previous texture, if any, is retired.
func (s *Slots) Publish(ref ContentRef, f *frame.Frame) *Texture {
	t := NewTexture(ref, f, s.recycle)
	t.seq = s.seq.Add(1)
	old := s.slot(ref, true).Swap(t)
	s.retire(old)
	return t
}

// Clear removes the current texture of ref.
func (s *Slots) Clear(ref ContentRef) {
	p := s.slot(ref, false)
	if p == nil {
		return
	}
	s.retire(p.Swap(nil))
}

func (s *Slots) retire(t *Texture) {
	if t == nil {
		return
	}
	s.mu.Lock()
	s.retired = append(s.retired, retired{tex: t, frame: s.completed.Load()})
	s.mu.Unlock()
}

// GetCurrentTexture returns the latest texture of ref with a reference
// held for the caller.
func (s *Slots) GetCurrentTexture(ref ContentRef) (*Texture, bool) {
	p := s.slot(ref, false)
	if p == nil {
		return nil, false
	}
	for {
		t := p.Load()
		if t == nil {
			return nil, false
		}
		if t.tryRetain() {
			return t, true
		}
		// Released between load and retain; the slot has moved on.
		if p.Load() == t {
			return nil, false
		}
	}
}

// Collect records that tick number completed has finished and drops the
// slot reference of textures retired at least depth ticks earlier.
// It returns the number of textures released.
func (s *Slots) Collect(completed uint64) int {
	s.completed.Store(completed)

	s.mu.Lock()
	var due []*Texture
	kept := s.retired[:0]
	for _, r := range s.retired {
		if r.frame+s.depth <= completed {
			due = append(due, r.tex)
		} else {
			kept = append(kept, r)
		}
	}
	clear(s.retired[len(kept):])
	s.retired = kept
	s.mu.Unlock()

	for _, t := range due {
		t.Release()
	}
	return len(due)
}

// Pending returns the number of retired textures not yet collected.
func (s *Slots) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.retired)
}

// Refs returns the content references that currently hold a texture.
func (s *Slots) Refs() []ContentRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ContentRef, 0, len(s.slots))
	for ref, p := range s.slots {
		if p.Load() != nil {
			out = append(out, ref)
		}
	}
	return out
}
