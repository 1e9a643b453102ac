// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mapping

import (
	"fmt"
	"slices"
	"sort"

	"github.com/gogpu/promap/geom"
	"github.com/gogpu/promap/media"
)

// Registry owns the mappings of a show.
//
// Registry is not safe for concurrent use. The engine keeps one mutable
// staging registry behind a mutex and hands immutable clones to ticks.
type Registry struct {
	nextID ID
	order  []ID
	byID   map[ID]*Mapping
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[ID]*Mapping)}
}

// Add validates m, assigns it a fresh ID and stores a copy.
// Any ID already set on m is ignored.
func (r *Registry) Add(m Mapping) (ID, error) {
	c := m.Clone()
	if err := c.normalize(); err != nil {
		return 0, err
	}
	r.nextID++
	c.ID = r.nextID
	c.Revision = 1
	r.byID[c.ID] = &c
	r.order = append(r.order, c.ID)
	return c.ID, nil
}

// Insert stores m under its own ID, used when restoring saved state.
// Later Add calls allocate IDs above every inserted one.
func (r *Registry) Insert(m Mapping) error {
	if m.ID == 0 {
		return fmt.Errorf("%w: id must be non-zero", ErrInvalidMapping)
	}
	if _, dup := r.byID[m.ID]; dup {
		return fmt.Errorf("%w: duplicate id %d", ErrInvalidMapping, m.ID)
	}
	c := m.Clone()
	if err := c.normalize(); err != nil {
		return err
	}
	c.Revision = max(c.Revision, 1)
	r.byID[c.ID] = &c
	r.order = append(r.order, c.ID)
	r.nextID = max(r.nextID, c.ID)
	return nil
}

// Remove deletes a mapping.
func (r *Registry) Remove(id ID) error {
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMapping, id)
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns a deep copy of a mapping.
func (r *Registry) Get(id ID) (Mapping, bool) {
	m, ok := r.byID[id]
	if !ok {
		return Mapping{}, false
	}
	return m.Clone(), true
}

// Update applies fn to a copy of the mapping and stores the result if fn
// and validation succeed. On error the mapping is left unchanged.
func (r *Registry) Update(id ID, fn func(m *Mapping) error) error {
	cur, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMapping, id)
	}
	c := cur.Clone()
	if err := fn(&c); err != nil {
		return err
	}
	c.ID = id
	// A mapping locked before and after fn keeps its geometry.
	if cur.Locked && c.Locked && !sameGeometry(cur.Mesh, c.Mesh) {
		return geom.ErrLockedMesh
	}
	if err := c.normalize(); err != nil {
		return err
	}
	c.Revision = cur.Revision + 1
	r.byID[id] = &c
	return nil
}

// AnySolo reports whether at least one mapping is soloed.
func (r *Registry) AnySolo() bool {
	for _, m := range r.byID {
		if m.Solo {
			return true
		}
	}
	return false
}

// VisibleMappings returns the renderable mappings ordered back to front by
// depth. Mappings of equal depth keep their insertion order.
//
// The returned mappings share meshes with the registry and must be treated
// as read-only.
func (r *Registry) VisibleMappings() []Mapping {
	solo := r.AnySolo()
	out := make([]Mapping, 0, len(r.order))
	for _, id := range r.order {
		m := r.byID[id]
		if m.IsRenderable(solo) {
			out = append(out, *m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Depth < out[j].Depth
	})
	return out
}

// MappingsForContent returns the IDs of mappings showing ref, in insertion
// order.
func (r *Registry) MappingsForContent(ref media.ContentRef) []ID {
	var ids []ID
	for _, id := range r.order {
		if r.byID[id].Content == ref {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of mappings.
func (r *Registry) Len() int {
	return len(r.order)
}

// All returns deep copies of every mapping in insertion order.
func (r *Registry) All() []Mapping {
	out := make([]Mapping, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out
}

// Clone returns an independent deep copy of the registry.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		nextID: r.nextID,
		order:  append([]ID(nil), r.order...),
		byID:   make(map[ID]*Mapping, len(r.byID)),
	}
	for id, m := range r.byID {
		mc := m.Clone()
		c.byID[id] = &mc
	}
	return c
}

func sameGeometry(a, b *geom.Mesh) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || a.Rows != b.Rows || a.Cols != b.Cols {
		return false
	}
	if (a.Patch == nil) != (b.Patch == nil) || (a.Patch != nil && *a.Patch != *b.Patch) {
		return false
	}
	return slices.Equal(a.Vertices, b.Vertices) && slices.Equal(a.Indices, b.Indices)
}
