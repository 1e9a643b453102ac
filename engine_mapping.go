// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package promap

import (
	"github.com/gogpu/promap/blend"
	"github.com/gogpu/promap/geom"
	"github.com/gogpu/promap/mapping"
	"github.com/gogpu/promap/media"
)

// AddMapping validates m and adds it on top of the mappings of equal depth.
func (e *Engine) AddMapping(m mapping.Mapping) (mapping.ID, error) {
	var id mapping.ID
	err := e.mutate("AddMapping", "mapping", func() error {
		var err error
		id, err = e.mappings.Add(m)
		return err
	})
	return id, err
}

// RemoveMapping deletes a mapping.
func (e *Engine) RemoveMapping(id mapping.ID) error {
	err := e.mutate("RemoveMapping", "id", func() error {
		return e.mappings.Remove(id)
	})
	if err == nil {
		e.comp.Forget(id)
	}
	return err
}

// ConfigureMapping applies fn to a copy of the mapping. The mapping is
// unchanged if fn or validation fails.
func (e *Engine) ConfigureMapping(id mapping.ID, fn func(m *mapping.Mapping) error) error {
	return e.updateMapping("ConfigureMapping", "mapping", id, fn)
}

func (e *Engine) updateMapping(op, field string, id mapping.ID, fn func(m *mapping.Mapping) error) error {
	return e.mutate(op, field, func() error {
		return e.mappings.Update(id, fn)
	})
}

// SetVisible shows or hides a mapping.
func (e *Engine) SetVisible(id mapping.ID, visible bool) error {
	return e.updateMapping("SetVisible", "visible", id, func(m *mapping.Mapping) error {
		m.Visible = visible
		return nil
	})
}

// SetSolo solos a mapping. While any mapping is soloed only soloed
// mappings are rendered.
func (e *Engine) SetSolo(id mapping.ID, solo bool) error {
	return e.updateMapping("SetSolo", "solo", id, func(m *mapping.Mapping) error {
		m.Solo = solo
		return nil
	})
}

// SetLocked locks or unlocks the geometry of a mapping.
func (e *Engine) SetLocked(id mapping.ID, locked bool) error {
	return e.updateMapping("SetLocked", "locked", id, func(m *mapping.Mapping) error {
		m.Locked = locked
		return nil
	})
}

// SetOpacity sets the opacity of a mapping, clamped to [0,1].
func (e *Engine) SetOpacity(id mapping.ID, opacity float32) error {
	return e.updateMapping("SetOpacity", "opacity", id, func(m *mapping.Mapping) error {
		m.Opacity = opacity
		return nil
	})
}

// SetDepth moves a mapping in the composite order. Lower depths are drawn
// first.
func (e *Engine) SetDepth(id mapping.ID, depth float32) error {
	return e.updateMapping("SetDepth", "depth", id, func(m *mapping.Mapping) error {
		m.Depth = depth
		return nil
	})
}

// SetBlendMode sets how a mapping combines with the mappings below it.
func (e *Engine) SetBlendMode(id mapping.ID, mode blend.Mode) error {
	return e.updateMapping("SetBlendMode", "blend", id, func(m *mapping.Mapping) error {
		m.Blend = mode
		return nil
	})
}

// SetKeystone warps a mapping so its unit corners land on corners, given
// top-left, top-right, bottom-right, bottom-left. Interior vertices are
// placed bilinearly.
func (e *Engine) SetKeystone(id mapping.ID, corners [4]geom.Vec2) error {
	return e.updateMapping("SetKeystone", "corners", id, func(m *mapping.Mapping) error {
		return m.Mesh.ApplyKeystone(corners)
	})
}

// SetPerspective warps a mapping by the homography taking the unit square
// to corners, keeping straight lines straight.
func (e *Engine) SetPerspective(id mapping.ID, corners [4]geom.Vec2) error {
	return e.updateMapping("SetPerspective", "corners", id, func(m *mapping.Mapping) error {
		return m.Mesh.ApplyPerspective(corners)
	})
}

// SetPatch warps a mapping through a bicubic patch. Grid meshes become
// bezier meshes carrying the patch.
func (e *Engine) SetPatch(id mapping.ID, patch geom.BezierPatch) error {
	return e.updateMapping("SetPatch", "patch", id, func(m *mapping.Mapping) error {
		return patch.ApplyToMesh(m.Mesh)
	})
}

// SetMesh replaces the geometry of an unlocked mapping with a copy of
// mesh.
func (e *Engine) SetMesh(id mapping.ID, mesh *geom.Mesh) error {
	return e.updateMapping("SetMesh", "mesh", id, func(m *mapping.Mapping) error {
		if m.Locked {
			return geom.ErrLockedMesh
		}
		if mesh == nil {
			return geom.ErrTopology
		}
		m.Mesh = mesh.Clone()
		return nil
	})
}

// MoveVertex moves one vertex of a mapping. Bezier meshes lose their
// patch and become plain grids.
func (e *Engine) MoveVertex(id mapping.ID, vertex int, pos geom.Vec2) error {
	return e.updateMapping("MoveVertex", "vertex", id, func(m *mapping.Mapping) error {
		return m.Mesh.MoveVertex(vertex, pos)
	})
}

// Translate moves a whole mapping by d.
func (e *Engine) Translate(id mapping.ID, d geom.Vec2) error {
	return e.updateMapping("Translate", "offset", id, func(m *mapping.Mapping) error {
		return m.Mesh.Translate(d)
	})
}

// MappingsForContent returns the mappings showing ref in insertion order.
func (e *Engine) MappingsForContent(ref media.ContentRef) []mapping.ID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mappings.MappingsForContent(ref)
}

// Mapping returns a copy of a mapping.
func (e *Engine) Mapping(id mapping.ID) (mapping.Mapping, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mappings.Get(id)
}

// Mappings returns copies of all mappings in insertion order.
func (e *Engine) Mappings() []mapping.Mapping {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mappings.All()
}

// VisibleMappings returns copies of the mappings the next tick renders,
// back to front.
func (e *Engine) VisibleMappings() []mapping.Mapping {
	e.mu.Lock()
	defer e.mu.Unlock()
	vis := e.mappings.VisibleMappings()
	for i := range vis {
		vis[i] = vis[i].Clone()
	}
	return vis
}
