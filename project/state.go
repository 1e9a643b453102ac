// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package project

import (
	"fmt"

	"github.com/gogpu/promap/canvas"
	"github.com/gogpu/promap/geom"
	"github.com/gogpu/promap/mapping"
	"github.com/gogpu/promap/media"
	"github.com/gogpu/promap/output"
)

// State is the persistent part of an engine.
type State struct {
	Canvas   canvas.Canvas
	Outputs  []output.Output
	Mappings []mapping.Mapping
}

// Encode converts s to a document of CurrentVersion.
func Encode(s State) Document {
	d := Document{
		Version:  CurrentVersion,
		Canvas:   s.Canvas,
		Outputs:  make([]OutputDoc, 0, len(s.Outputs)),
		Mappings: make([]MappingDoc, 0, len(s.Mappings)),
	}
	for _, o := range s.Outputs {
		d.Outputs = append(d.Outputs, OutputDoc{
			ID:          uint64(o.ID),
			Name:        o.Name,
			Width:       o.Resolution.Width,
			Height:      o.Resolution.Height,
			Region:      o.Region,
			Fullscreen:  o.Fullscreen,
			Backend:     o.Backend,
			EdgeBlend:   o.EdgeBlend,
			Calibration: o.Calibration,
		})
	}
	for _, m := range s.Mappings {
		depth := m.Depth
		d.Mappings = append(d.Mappings, MappingDoc{
			ID:      uint64(m.ID),
			Name:    m.Name,
			Content: string(m.Content),
			Blend:   m.Blend,
			Visible: m.Visible,
			Solo:    m.Solo,
			Locked:  m.Locked,
			Opacity: m.Opacity,
			Depth:   &depth,
			Mesh:    encodeMesh(m.Mesh),
		})
	}
	return d
}

func encodeMesh(m *geom.Mesh) MeshDoc {
	if m == nil {
		return MeshDoc{}
	}
	md := MeshDoc{
		Type:     m.Type.String(),
		Rows:     m.Rows,
		Cols:     m.Cols,
		Vertices: make([][4]float64, len(m.Vertices)),
		Indices:  append([]uint32(nil), m.Indices...),
	}
	for i, v := range m.Vertices {
		md.Vertices[i] = [4]float64{v.Position.X, v.Position.Y, v.UV.X, v.UV.Y}
	}
	if m.Patch != nil {
		md.Patch = make([][2]float64, 0, 16)
		for _, row := range m.Patch.Control {
			for _, p := range row {
				md.Patch = append(md.Patch, [2]float64{p.X, p.Y})
			}
		}
	}
	return md
}

// Decode checks the version of d, migrates it and converts it to a State.
// Structural problems are reported as ErrInvalidDocument; value ranges are
// left to the registries that receive the state.
func Decode(d Document) (State, error) {
	ver, err := checkVersion(d.Version)
	if err != nil {
		return State{}, err
	}
	d.Mappings = append([]MappingDoc(nil), d.Mappings...)
	migrate(&d, ver)

	if err := d.Canvas.Validate(); err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	s := State{Canvas: d.Canvas}

	seen := make(map[uint64]bool, len(d.Outputs))
	for i, od := range d.Outputs {
		if od.ID == 0 || seen[od.ID] {
			return State{}, fmt.Errorf("%w: output %d has missing or duplicate id %d", ErrInvalidDocument, i, od.ID)
		}
		seen[od.ID] = true
		o := output.New(od.Name, od.Width, od.Height)
		o.ID = output.ID(od.ID)
		o.Region = od.Region
		o.Fullscreen = od.Fullscreen
		o.Backend = od.Backend
		o.EdgeBlend = od.EdgeBlend
		o.Calibration = od.Calibration
		s.Outputs = append(s.Outputs, o)
	}

	clear(seen)
	for i, md := range d.Mappings {
		if md.ID == 0 || seen[md.ID] {
			return State{}, fmt.Errorf("%w: mapping %d has missing or duplicate id %d", ErrInvalidDocument, i, md.ID)
		}
		seen[md.ID] = true
		mesh, err := decodeMesh(md.Mesh)
		if err != nil {
			return State{}, fmt.Errorf("%w: mapping %q: %w", ErrInvalidDocument, md.Name, err)
		}
		m := mapping.New(md.Name, media.ContentRef(md.Content))
		m.ID = mapping.ID(md.ID)
		m.Mesh = mesh
		m.Blend = md.Blend
		m.Visible = md.Visible
		m.Solo = md.Solo
		m.Locked = md.Locked
		m.Opacity = md.Opacity
		if md.Depth != nil {
			m.Depth = *md.Depth
		}
		mesh.Locked = md.Locked
		s.Mappings = append(s.Mappings, m)
	}
	return s, nil
}

func decodeMesh(md MeshDoc) (*geom.Mesh, error) {
	typ, err := geom.ParseMeshType(md.Type)
	if err != nil {
		return nil, err
	}
	m := &geom.Mesh{
		Type:     typ,
		Rows:     md.Rows,
		Cols:     md.Cols,
		Vertices: make([]geom.Vertex, len(md.Vertices)),
		Indices:  append([]uint32(nil), md.Indices...),
	}
	for i, v := range md.Vertices {
		m.Vertices[i] = geom.Vertex{Position: geom.V2(v[0], v[1]), UV: geom.V2(v[2], v[3])}
	}
	switch {
	case len(md.Patch) == 16:
		p := &geom.BezierPatch{}
		for i, c := range md.Patch {
			p.Control[i/4][i%4] = geom.V2(c[0], c[1])
		}
		m.Patch = p
	case len(md.Patch) != 0:
		return nil, fmt.Errorf("patch has %d control points, want 16", len(md.Patch))
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
