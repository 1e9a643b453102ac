// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package compositor renders warped mappings into per-output frames.
//
// For one output the compositor culls mappings against the output's canvas
// region, projects each surviving mesh into output pixel space, rasterizes
// its triangles at pixel centers and blends the sampled content back to
// front. Row bands of the target are rendered in parallel; within a band
// mappings are always drawn in order.
package compositor

import (
	"github.com/gogpu/promap/blend"
	"github.com/gogpu/promap/canvas"
	"github.com/gogpu/promap/frame"
	"github.com/gogpu/promap/internal/cache"
	"github.com/gogpu/promap/internal/parallel"
	"github.com/gogpu/promap/mapping"
	"github.com/gogpu/promap/media"
)

// Layer is one mapping to draw together with the texture resolved for it
// this tick.
type Layer struct {
	Mapping *mapping.Mapping
	Texture *media.Texture
}

// Stats describes one Render call.
type Stats struct {
	Drawn     int // layers rasterized
	Culled    int // layers outside the target region
	Skipped   int // layers without a texture
	Triangles int // projected triangles rasterized
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithFilter selects the texture filter. The default is bilinear.
func WithFilter(f frame.Filter) Option {
	return func(c *Compositor) { c.filter = f }
}

// WithMinBand sets the minimum number of rows per parallel band.
func WithMinBand(rows int) Option {
	return func(c *Compositor) { c.minBand = rows }
}

// WithCacheCapacity sets the per-shard capacity of the projection cache.
func WithCacheCapacity(n int) Option {
	return func(c *Compositor) { c.capacity = n }
}

// Compositor draws layers into output frames.
//
// A Compositor is safe for concurrent use; independent outputs may be
// rendered at the same time.
type Compositor struct {
	pool     *parallel.Pool
	filter   frame.Filter
	minBand  int
	capacity int

	projections *cache.Sharded[projectionKey, []triangle]
}

// New returns a compositor that spreads row bands over pool.
// A nil pool renders on the calling goroutine.
func New(pool *parallel.Pool, opts ...Option) *Compositor {
	c := &Compositor{
		pool:    pool,
		filter:  frame.FilterBilinear,
		minBand: parallel.DefaultMinBand,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.projections = cache.NewSharded[projectionKey, []triangle](c.capacity, hashProjectionKey)
	return c
}

// Render composites layers, first to last, into dst, which shows region of
// the canvas. dst is not cleared.
func (c *Compositor) Render(dst *frame.Frame, region canvas.Region, layers []Layer) Stats {
	var stats Stats
	view := region.Rect()

	type job struct {
		tris    []triangle
		tex     *frame.Frame
		blender blend.Blender
		opacity float32
	}
	jobs := make([]job, 0, len(layers))

	for _, l := range layers {
		m := l.Mapping
		if m == nil || m.Mesh == nil {
			continue
		}
		if !m.Mesh.Bounds().Overlaps(view) {
			stats.Culled++
			continue
		}
		if l.Texture == nil || l.Texture.Frame() == nil {
			stats.Skipped++
			continue
		}
		if !(m.Opacity > 0) {
			continue
		}
		tris := c.triangles(m, region, dst.Width, dst.Height)
		if len(tris) == 0 {
			continue
		}
		stats.Drawn++
		stats.Triangles += len(tris)
		jobs = append(jobs, job{
			tris:    tris,
			tex:     l.Texture.Frame(),
			blender: blend.NewBlender(m.Blend),
			opacity: m.Opacity,
		})
	}
	if len(jobs) == 0 {
		return stats
	}

	c.pool.Rows(dst.Height, c.minBand, func(y0, y1 int) {
		for i := range jobs {
			j := &jobs[i]
			for t := range j.tris {
				rasterize(dst, &j.tris[t], y0, y1, j.tex, c.filter, j.blender, j.opacity)
			}
		}
	})
	return stats
}

func (c *Compositor) triangles(m *mapping.Mapping, region canvas.Region, width, height int) []triangle {
	key := projectionKey{
		mapping:  m.ID,
		revision: m.Revision,
		region:   region,
		width:    width,
		height:   height,
	}
	return c.projections.GetOrCreate(key, func() []triangle {
		return project(m.Mesh, region, width, height)
	})
}

// Forget drops cached projections of a mapping.
func (c *Compositor) Forget(id mapping.ID) {
	c.projections.DeleteFunc(func(k projectionKey) bool { return k.mapping == id })
}

// CacheStats reports projection cache counters.
func (c *Compositor) CacheStats() cache.Stats {
	return c.projections.Stats()
}
