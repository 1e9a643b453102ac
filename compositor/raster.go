// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compositor

import (
	"github.com/gogpu/promap/blend"
	"github.com/gogpu/promap/frame"
	"github.com/gogpu/promap/geom"
)

// rasterize blends the part of t that falls in rows [y0, y1) of dst.
// Pixels are sampled at their centers; a center exactly on an edge is
// covered only when that edge is a top or left edge.
func rasterize(dst *frame.Frame, t *triangle, y0, y1 int, tex *frame.Frame, filter frame.Filter, b blend.Blender, opacity float32) {
	ys, ye := max(y0, t.y0), min(y1, t.y1)
	if ys >= ye {
		return
	}
	p0, p1, p2 := t.p[0], t.p[1], t.p[2]
	tl0, tl1, tl2 := topLeft(p1, p2), topLeft(p2, p0), topLeft(p0, p1)
	inv := 1 / t.area

	for y := ys; y < ye; y++ {
		row := dst.Row(y)
		py := float64(y) + 0.5
		for x := t.x0; x < t.x1; x++ {
			p := geom.V2(float64(x)+0.5, py)
			w0 := edge(p1, p2, p)
			w1 := edge(p2, p0, p)
			w2 := edge(p0, p1, p)
			if !covers(w0, tl0) || !covers(w1, tl1) || !covers(w2, tl2) {
				continue
			}
			l0, l1, l2 := w0*inv, w1*inv, w2*inv
			u := l0*t.uv[0].X + l1*t.uv[1].X + l2*t.uv[2].X
			v := l0*t.uv[0].Y + l1*t.uv[1].Y + l2*t.uv[2].Y
			src := tex.Sample(u, v, filter)
			b.Blend(row[x*4:x*4+4], src, opacity)
		}
	}
}

func covers(w float64, topLeft bool) bool {
	return w > 0 || (w == 0 && topLeft)
}
