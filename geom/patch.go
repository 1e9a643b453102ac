// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

// BezierPatch is a bicubic Bezier surface over a 4x4 control grid.
// Control[row][col] where rows run along v and columns along u.
type BezierPatch struct {
	Control [4][4]Vec2
}

// IdentityPatch returns the patch that maps (u, v) to itself.
func IdentityPatch() BezierPatch {
	return NewBilinearPatch(unitCorners())
}

// NewBilinearPatch returns the bicubic patch equivalent to the bilinear
// surface spanned by corners (top-left, top-right, bottom-right, bottom-left).
//
// Control points sit at thirds of the bilinear surface, which is the exact
// degree elevation of a bilinear patch.
func NewBilinearPatch(corners [4]Vec2) BezierPatch {
	tl, tr, br, bl := corners[0], corners[1], corners[2], corners[3]
	var p BezierPatch
	for r := 0; r < 4; r++ {
		v := float64(r) / 3
		for c := 0; c < 4; c++ {
			u := float64(c) / 3
			top := tl.Lerp(tr, u)
			bottom := bl.Lerp(br, u)
			p.Control[r][c] = top.Lerp(bottom, v)
		}
	}
	p.Control[0][0] = tl
	p.Control[0][3] = tr
	p.Control[3][3] = br
	p.Control[3][0] = bl
	return p
}

// bernstein returns the four cubic Bernstein weights at t.
func bernstein(t float64) [4]float64 {
	s := 1 - t
	return [4]float64{s * s * s, 3 * t * s * s, 3 * t * t * s, t * t * t}
}

// Evaluate returns the surface point at (u, v).
// The corners are reproduced exactly: Evaluate(0,0) is Control[0][0] and
// Evaluate(1,1) is Control[3][3].
func (p *BezierPatch) Evaluate(u, v float64) Vec2 {
	switch {
	case u == 0 && v == 0:
		return p.Control[0][0]
	case u == 1 && v == 0:
		return p.Control[0][3]
	case u == 1 && v == 1:
		return p.Control[3][3]
	case u == 0 && v == 1:
		return p.Control[3][0]
	}
	bu := bernstein(u)
	bv := bernstein(v)
	var out Vec2
	for r := 0; r < 4; r++ {
		var row Vec2
		for c := 0; c < 4; c++ {
			row = row.Add(p.Control[r][c].Mul(bu[c]))
		}
		out = out.Add(row.Mul(bv[r]))
	}
	return out
}

// Corners returns the four corner control points
// (top-left, top-right, bottom-right, bottom-left).
func (p *BezierPatch) Corners() [4]Vec2 {
	return [4]Vec2{p.Control[0][0], p.Control[0][3], p.Control[3][3], p.Control[3][0]}
}

// IsFinite reports whether every control point is finite.
func (p *BezierPatch) IsFinite() bool {
	for r := range p.Control {
		for c := range p.Control[r] {
			if !p.Control[r][c].IsFinite() {
				return false
			}
		}
	}
	return true
}

// ApplyToMesh re-evaluates every vertex of mesh at its UV and attaches the
// patch to grid meshes.
func (p *BezierPatch) ApplyToMesh(mesh *Mesh) error {
	if mesh.Locked {
		return ErrLockedMesh
	}
	if !p.IsFinite() {
		return ErrDegenerate
	}
	p.evaluateVertices(mesh)
	if mesh.Type == MeshGrid || mesh.Type == MeshBezierPatch {
		cp := *p
		mesh.Type = MeshBezierPatch
		mesh.Patch = &cp
	}
	return nil
}

func (p *BezierPatch) evaluateVertices(mesh *Mesh) {
	for i := range mesh.Vertices {
		uv := mesh.Vertices[i].UV
		mesh.Vertices[i].Position = p.Evaluate(uv.X, uv.Y)
	}
}
