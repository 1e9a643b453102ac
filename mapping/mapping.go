// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package mapping holds the renderable units of a show: content bound to
// warp geometry with visibility, ordering and blending.
package mapping

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/jinzhu/copier"

	"github.com/gogpu/promap/blend"
	"github.com/gogpu/promap/geom"
	"github.com/gogpu/promap/media"
)

// Errors returned by the registry.
var (
	ErrUnknownMapping = errors.New("mapping: unknown mapping")
	ErrInvalidMapping = errors.New("mapping: invalid mapping")
)

// ID identifies a mapping within a registry. Zero is never assigned.
type ID uint64

// Mapping binds content to a mesh.
type Mapping struct {
	ID      ID
	Name    string
	Content media.ContentRef
	Mesh    *geom.Mesh
	Blend   blend.Mode
	Visible bool
	Solo    bool
	Locked  bool
	Opacity float32

	// Depth orders mappings back to front; lower values are drawn first.
	Depth float32

	// Revision increases with every accepted change.
	Revision uint64
}

// New returns a visible, fully opaque mapping of content on a unit quad.
func New(name string, content media.ContentRef) Mapping {
	return Mapping{
		Name:    name,
		Content: content,
		Mesh:    geom.NewQuad(),
		Blend:   blend.Normal,
		Visible: true,
		Opacity: 1,
	}
}

// IsRenderable reports whether m contributes to the composite.
// anySolo is true when some mapping in the same registry is soloed.
func (m *Mapping) IsRenderable(anySolo bool) bool {
	return m.Visible && m.Opacity > 0 && (!anySolo || m.Solo)
}

// Clone returns a deep copy of m.
func (m *Mapping) Clone() Mapping {
	var c Mapping
	if err := copier.CopyWithOption(&c, m, copier.Option{CaseSensitive: true, DeepCopy: true}); err != nil {
		// Same-type copies cannot fail; fall back to a manual copy.
		c = *m
		c.Mesh = m.Mesh.Clone()
	}
	return c
}

// normalize validates m and clamps its continuous values.
func (m *Mapping) normalize() error {
	if m.Mesh == nil {
		return fmt.Errorf("%w: mesh is required", ErrInvalidMapping)
	}
	if err := m.Mesh.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}
	if !m.Blend.Valid() {
		return fmt.Errorf("%w: %w: %d", ErrInvalidMapping, blend.ErrUnknownMode, m.Blend)
	}
	if math32.IsNaN(m.Opacity) {
		return fmt.Errorf("%w: opacity is NaN", ErrInvalidMapping)
	}
	if math32.IsNaN(m.Depth) || math32.IsInf(m.Depth, 0) {
		return fmt.Errorf("%w: depth %v is not finite", ErrInvalidMapping, m.Depth)
	}
	m.Opacity = math32.Max(0, math32.Min(1, m.Opacity))
	m.Mesh.Locked = m.Locked
	return nil
}
