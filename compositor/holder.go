// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositor

import (
	"sync"

	"github.com/gogpu/promap/media"
)

// Holder keeps the last texture delivered for each content reference so
// that a late media pipeline never blanks an output.
//
// Holder is safe for concurrent use.
type Holder struct {
	mu   sync.Mutex
	held map[media.ContentRef]*media.Texture
}

// NewHolder returns an empty holder.
func NewHolder() *Holder {
	return &Holder{held: make(map[media.ContentRef]*media.Texture)}
}

// Resolution is the outcome of resolving one content reference for a tick.
type Resolution struct {
	// Texture is nil when the content was never delivered.
	Texture *media.Texture

	// Held is true when Texture is a previous frame reused because the
	// pipeline had nothing current.
	Held bool
}

// Resolve asks p for the current texture of ref, falling back to the last
// delivered one. A non-nil result carries a reference owned by the caller.
func (h *Holder) Resolve(p media.Pipeline, ref media.ContentRef) Resolution {
	tex, ok := p.GetCurrentTexture(ref)

	h.mu.Lock()
	defer h.mu.Unlock()

	if ok && tex != nil {
		if old := h.held[ref]; old != tex {
			h.held[ref] = tex.Retain()
			old.Release()
		}
		return Resolution{Texture: tex}
	}
	if old, found := h.held[ref]; found {
		return Resolution{Texture: old.Retain(), Held: true}
	}
	return Resolution{}
}

// Retain drops held textures whose reference is not in live.
func (h *Holder) Retain(live map[media.ContentRef]bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ref, tex := range h.held {
		if !live[ref] {
			delete(h.held, ref)
			tex.Release()
		}
	}
}

// Len returns the number of held textures.
func (h *Holder) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.held)
}

// Close releases every held texture.
func (h *Holder) Close() {
	h.Retain(nil)
}
