// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositor

import (
	"math"

	"github.com/gogpu/promap/canvas"
	"github.com/gogpu/promap/geom"
	"github.com/gogpu/promap/internal/cache"
	"github.com/gogpu/promap/mapping"
)

// triangle is a mesh triangle projected into output pixel space and
// oriented so that its signed area is positive.
type triangle struct {
	p    [3]geom.Vec2
	uv   [3]geom.Vec2
	area float64

	// Pixel bounds, inclusive min and exclusive max, clipped to the target.
	x0, y0, x1, y1 int
}

// projectionKey identifies a projected triangle list. A mapping edit bumps
// its revision and an output edit changes the region or size.
type projectionKey struct {
	mapping  mapping.ID
	revision uint64
	region   canvas.Region
	width    int
	height   int
}

func hashProjectionKey(k projectionKey) uint64 {
	return cache.HashUint64s(
		uint64(k.mapping), k.revision,
		math.Float64bits(k.region.X), math.Float64bits(k.region.Y),
		math.Float64bits(k.region.Width), math.Float64bits(k.region.Height),
		uint64(k.width), uint64(k.height), //nolint:gosec // sizes are positive
	)
}

// project transforms every triangle of mesh into the pixel space of a
// width x height target showing region. Triangles that are degenerate or
// fall entirely outside the target are dropped.
func project(mesh *geom.Mesh, region canvas.Region, width, height int) []triangle {
	scale := geom.V2(float64(width)/region.Width, float64(height)/region.Height)
	origin := geom.V2(region.X, region.Y)

	pts := make([]geom.Vec2, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		pts[i] = v.Position.Sub(origin).MulVec(scale)
	}

	tris := make([]triangle, 0, mesh.TriangleCount())
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		ia, ib, ic := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		t := triangle{
			p:  [3]geom.Vec2{pts[ia], pts[ib], pts[ic]},
			uv: [3]geom.Vec2{mesh.Vertices[ia].UV, mesh.Vertices[ib].UV, mesh.Vertices[ic].UV},
		}
		t.area = edge(t.p[0], t.p[1], t.p[2])
		if t.area < 0 {
			t.p[1], t.p[2] = t.p[2], t.p[1]
			t.uv[1], t.uv[2] = t.uv[2], t.uv[1]
			t.area = -t.area
		}
		if !(t.area > 1e-12) {
			continue
		}

		minX := math.Min(t.p[0].X, math.Min(t.p[1].X, t.p[2].X))
		maxX := math.Max(t.p[0].X, math.Max(t.p[1].X, t.p[2].X))
		minY := math.Min(t.p[0].Y, math.Min(t.p[1].Y, t.p[2].Y))
		maxY := math.Max(t.p[0].Y, math.Max(t.p[1].Y, t.p[2].Y))

		// Pixel x is covered when its center x+0.5 lies in [min, max].
		t.x0 = max(0, int(math.Ceil(minX-0.5)))
		t.x1 = min(width, int(math.Floor(maxX-0.5))+1)
		t.y0 = max(0, int(math.Ceil(minY-0.5)))
		t.y1 = min(height, int(math.Floor(maxY-0.5))+1)
		if t.x0 >= t.x1 || t.y0 >= t.y1 {
			continue
		}
		tris = append(tris, t)
	}
	return tris
}

// edge returns the signed edge function of p against a→b. It is computed
// from the lexicographically smaller endpoint so that edge(a,b,p) is
// exactly -edge(b,a,p), which keeps shared edges watertight.
func edge(a, b, p geom.Vec2) float64 {
	if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
		return -rawEdge(b, a, p)
	}
	return rawEdge(a, b, p)
}

func rawEdge(a, b, p geom.Vec2) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// topLeft reports whether pixel centers exactly on edge a→b belong to the
// triangle. Exactly one of two triangles sharing an edge owns it.
func topLeft(a, b geom.Vec2) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	return dy < 0 || (dy == 0 && dx > 0)
}
