// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by mesh operations.
var (
	// ErrLockedMesh is returned when a locked mesh is asked to change.
	ErrLockedMesh = errors.New("geom: mesh is locked")

	// ErrTopology is returned when vertices and indices disagree with the
	// mesh type.
	ErrTopology = errors.New("geom: invalid mesh topology")

	// ErrDegenerate is returned when corner geometry cannot be solved.
	ErrDegenerate = errors.New("geom: degenerate corner geometry")
)

// MeshType identifies the topology of a Mesh.
type MeshType uint8

const (
	// MeshQuad is a single quad made of two triangles.
	MeshQuad MeshType = iota

	// MeshTriangle is a free triangle list (triangles, fans, ellipses).
	MeshTriangle

	// MeshGrid is a regular Rows x Cols grid of quads.
	MeshGrid

	// MeshBezierPatch is a grid whose vertices are sampled from a bicubic patch.
	MeshBezierPatch
)

// String returns the mesh type name.
func (t MeshType) String() string {
	switch t {
	case MeshQuad:
		return "quad"
	case MeshTriangle:
		return "triangle"
	case MeshGrid:
		return "grid"
	case MeshBezierPatch:
		return "bezier"
	default:
		return fmt.Sprintf("MeshType(%d)", uint8(t))
	}
}

// ParseMeshType is the inverse of MeshType.String.
func ParseMeshType(s string) (MeshType, error) {
	switch s {
	case "quad":
		return MeshQuad, nil
	case "triangle":
		return MeshTriangle, nil
	case "grid":
		return MeshGrid, nil
	case "bezier":
		return MeshBezierPatch, nil
	}
	return 0, fmt.Errorf("%w: unknown mesh type %q", ErrTopology, s)
}

// Vertex pairs a canvas-space position with a content texture coordinate.
type Vertex struct {
	Position Vec2
	UV       Vec2
}

// Mesh is the warp geometry of a mapping.
//
// Positions are normalized canvas coordinates and UVs are normalized
// texture coordinates. Indices form a triangle list for every mesh type.
type Mesh struct {
	Type     MeshType
	Vertices []Vertex
	Indices  []uint32

	// Rows and Cols describe the grid topology of Grid and BezierPatch meshes.
	Rows, Cols int

	// Patch is set only for BezierPatch meshes.
	Patch *BezierPatch

	// Locked meshes reject every geometric edit.
	Locked bool
}

// NewQuad returns the unit quad covering the whole canvas.
// Corners are ordered top-left, top-right, bottom-right, bottom-left.
func NewQuad() *Mesh {
	corners := unitCorners()
	m := &Mesh{
		Type:     MeshQuad,
		Vertices: make([]Vertex, 4),
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
	}
	for i, c := range corners {
		m.Vertices[i] = Vertex{Position: c, UV: c}
	}
	return m
}

// NewTriangle returns an upward pointing triangle inscribed in the unit square.
func NewTriangle() *Mesh {
	pts := []Vec2{{X: 0.5, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	m := &Mesh{
		Type:     MeshTriangle,
		Vertices: make([]Vertex, len(pts)),
		Indices:  []uint32{0, 1, 2},
	}
	for i, p := range pts {
		m.Vertices[i] = Vertex{Position: p, UV: p}
	}
	return m
}

// NewEllipse returns a triangle fan approximating the ellipse inscribed in
// the unit square. Fewer than 3 segments are raised to 3.
func NewEllipse(segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	m := &Mesh{
		Type:     MeshTriangle,
		Vertices: make([]Vertex, 0, segments+1),
		Indices:  make([]uint32, 0, segments*3),
	}
	center := Vec2{X: 0.5, Y: 0.5}
	m.Vertices = append(m.Vertices, Vertex{Position: center, UV: center})
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		p := Vec2{X: 0.5 + 0.5*math.Cos(a), Y: 0.5 + 0.5*math.Sin(a)}
		m.Vertices = append(m.Vertices, Vertex{Position: p, UV: p})
	}
	for i := 0; i < segments; i++ {
		next := (i+1)%segments + 1
		m.Indices = append(m.Indices, 0, uint32(i+1), uint32(next)) //nolint:gosec // bounded by segments
	}
	return m
}

// NewGrid returns a rows x cols grid covering the unit square.
// Values below 1 are raised to 1.
func NewGrid(rows, cols int) *Mesh {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	m := &Mesh{
		Type:     MeshGrid,
		Rows:     rows,
		Cols:     cols,
		Vertices: make([]Vertex, 0, (rows+1)*(cols+1)),
		Indices:  make([]uint32, 0, rows*cols*6),
	}
	for r := 0; r <= rows; r++ {
		for c := 0; c <= cols; c++ {
			p := Vec2{X: float64(c) / float64(cols), Y: float64(r) / float64(rows)}
			m.Vertices = append(m.Vertices, Vertex{Position: p, UV: p})
		}
	}
	stride := uint32(cols + 1) //nolint:gosec // cols is small and positive
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			tl := uint32(r)*stride + uint32(c) //nolint:gosec // bounded by rows, cols
			tr := tl + 1
			bl := tl + stride
			br := bl + 1
			m.Indices = append(m.Indices, tl, tr, br, tl, br, bl)
		}
	}
	return m
}

// NewBezierMesh samples patch on a rows x cols grid.
func NewBezierMesh(patch BezierPatch, rows, cols int) *Mesh {
	m := NewGrid(rows, cols)
	m.Type = MeshBezierPatch
	p := patch
	m.Patch = &p
	p.evaluateVertices(m)
	return m
}

func unitCorners() [4]Vec2 {
	return [4]Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
}

// Validate checks that the vertex count and index list match the mesh type.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	switch m.Type {
	case MeshQuad:
		if n != 4 || len(m.Indices) != 6 {
			return fmt.Errorf("%w: quad needs 4 vertices and 6 indices, got %d and %d", ErrTopology, n, len(m.Indices))
		}
	case MeshTriangle:
		if n < 3 || len(m.Indices) == 0 || len(m.Indices)%3 != 0 {
			return fmt.Errorf("%w: triangle list needs >=3 vertices and a multiple of 3 indices, got %d and %d", ErrTopology, n, len(m.Indices))
		}
	case MeshGrid, MeshBezierPatch:
		if m.Rows < 1 || m.Cols < 1 {
			return fmt.Errorf("%w: grid needs positive rows and cols, got %dx%d", ErrTopology, m.Rows, m.Cols)
		}
		if n != (m.Rows+1)*(m.Cols+1) || len(m.Indices) != m.Rows*m.Cols*6 {
			return fmt.Errorf("%w: %dx%d grid needs %d vertices and %d indices, got %d and %d",
				ErrTopology, m.Rows, m.Cols, (m.Rows+1)*(m.Cols+1), m.Rows*m.Cols*6, n, len(m.Indices))
		}
		if m.Type == MeshBezierPatch && m.Patch == nil {
			return fmt.Errorf("%w: bezier mesh without patch", ErrTopology)
		}
	default:
		return fmt.Errorf("%w: unknown mesh type %d", ErrTopology, m.Type)
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d references vertex %d of %d", ErrTopology, i, idx, n)
		}
	}
	for i, v := range m.Vertices {
		if !v.Position.IsFinite() || !v.UV.IsFinite() {
			return fmt.Errorf("%w: vertex %d is not finite", ErrTopology, i)
		}
	}
	return nil
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	c := *m
	c.Vertices = append([]Vertex(nil), m.Vertices...)
	c.Indices = append([]uint32(nil), m.Indices...)
	if m.Patch != nil {
		p := *m.Patch
		c.Patch = &p
	}
	return &c
}

// Bounds returns the axis-aligned bounding box of all vertex positions.
func (m *Mesh) Bounds() Rect {
	r := EmptyRect()
	for _, v := range m.Vertices {
		r = r.Extend(v.Position)
	}
	return r
}

// ApplyKeystone remaps every vertex through the bilinear surface spanned by
// corners (top-left, top-right, bottom-right, bottom-left), evaluated at the
// vertex UV.
func (m *Mesh) ApplyKeystone(corners [4]Vec2) error {
	if m.Locked {
		return ErrLockedMesh
	}
	for i, c := range corners {
		if !c.IsFinite() {
			return fmt.Errorf("%w: corner %d is not finite", ErrDegenerate, i)
		}
	}
	patch := NewBilinearPatch(corners)
	patch.evaluateVertices(m)
	if m.Type == MeshBezierPatch {
		m.Patch = &patch
	}
	return nil
}

// ApplyPerspective remaps every vertex through the projective transform that
// takes the unit square onto corners. Unlike ApplyKeystone this keeps
// straight lines straight. A bezier mesh becomes a plain grid.
func (m *Mesh) ApplyPerspective(corners [4]Vec2) error {
	if m.Locked {
		return ErrLockedMesh
	}
	h, err := SolveHomography(unitCorners(), corners)
	if err != nil {
		return err
	}
	for i := range m.Vertices {
		m.Vertices[i].Position = h.Apply(m.Vertices[i].UV)
	}
	if m.Type == MeshBezierPatch {
		m.Type = MeshGrid
		m.Patch = nil
	}
	return nil
}

// MoveVertex sets the position of vertex i. Free-form edits turn a bezier
// mesh into a plain grid.
func (m *Mesh) MoveVertex(i int, pos Vec2) error {
	if m.Locked {
		return ErrLockedMesh
	}
	if i < 0 || i >= len(m.Vertices) {
		return fmt.Errorf("%w: vertex %d out of range", ErrTopology, i)
	}
	if !pos.IsFinite() {
		return fmt.Errorf("%w: position is not finite", ErrTopology)
	}
	m.Vertices[i].Position = pos
	if m.Type == MeshBezierPatch {
		m.Type = MeshGrid
		m.Patch = nil
	}
	return nil
}

// Translate moves all vertices by d.
func (m *Mesh) Translate(d Vec2) error {
	if m.Locked {
		return ErrLockedMesh
	}
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Add(d)
	}
	if m.Patch != nil {
		for r := range m.Patch.Control {
			for c := range m.Patch.Control[r] {
				m.Patch.Control[r][c] = m.Patch.Control[r][c].Add(d)
			}
		}
	}
	return nil
}

// TriangleCount returns the number of triangles in the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the vertices of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c Vertex) {
	return m.Vertices[m.Indices[i*3]], m.Vertices[m.Indices[i*3+1]], m.Vertices[m.Indices[i*3+2]]
}

// Triangles returns every triangle as a vertex triple.
func (m *Mesh) Triangles() [][3]Vertex {
	out := make([][3]Vertex, 0, m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		out = append(out, [3]Vertex{a, b, c})
	}
	return out
}
