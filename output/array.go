// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"

	"github.com/gogpu/promap/canvas"
	"github.com/gogpu/promap/edgeblend"
)

// MaxOverlap is the largest overlap fraction CreateArray accepts; it matches
// the widest possible edge blend zone.
const MaxOverlap = edgeblend.MaxWidth

// ArrayLayout computes the canvas regions of a rows x cols projector array
// whose neighbours overlap by the given fraction of a tile.
//
// Along each axis with n tiles the tile size is 1/(n-(n-1)·overlap) and
// tiles start every size·(1-overlap), so the tiles exactly span [0,1].
// Regions are returned row-major.
func ArrayLayout(rows, cols int, overlap float64) ([]canvas.Region, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: array %dx%d must have at least one tile", ErrInvalidOutput, rows, cols)
	}
	if !(overlap >= 0 && overlap <= MaxOverlap) {
		return nil, fmt.Errorf("%w: overlap %v outside [0, %v]", ErrInvalidOutput, overlap, MaxOverlap)
	}
	xs, ws := axisLayout(cols, overlap)
	ys, hs := axisLayout(rows, overlap)
	regions := make([]canvas.Region, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			regions = append(regions, canvas.Region{X: xs[c], Y: ys[r], Width: ws[c], Height: hs[r]})
		}
	}
	return regions, nil
}

func axisLayout(n int, overlap float64) (starts, sizes []float64) {
	size := 1 / (float64(n) - float64(n-1)*overlap)
	step := size * (1 - overlap)
	starts = make([]float64, n)
	sizes = make([]float64, n)
	for i := 0; i < n; i++ {
		starts[i] = float64(i) * step
		sizes[i] = size
	}
	// Pin the far edge so rounding never leaves a gap or overshoot.
	starts[n-1] = 1 - size
	if n == 1 {
		starts[0] = 0
		sizes[0] = 1
	}
	return starts, sizes
}

// CreateArray adds rows*cols outputs of the given resolution tiling the
// canvas with overlap, and enables the facing edge blend zones of
// neighbouring tiles with width equal to the overlap. It returns the new
// IDs row-major. Nothing is added on error.
func (r *Registry) CreateArray(rows, cols int, res Resolution, overlap float64) ([]ID, error) {
	regions, err := ArrayLayout(rows, cols, overlap)
	if err != nil {
		return nil, err
	}
	if res.Width == 0 || res.Height == 0 {
		return nil, fmt.Errorf("%w: resolution %s must be positive", ErrInvalidOutput, res)
	}

	outs := make([]Output, 0, len(regions))
	for i, region := range regions {
		row, col := i/cols, i%cols
		o := New(fmt.Sprintf("Array %d-%d", row+1, col+1), res.Width, res.Height)
		o.Region = region
		if overlap > 0 {
			zone := edgeblend.Zone{Enabled: true, Width: float32(overlap)}
			if col > 0 {
				o.EdgeBlend.Left = zone
			}
			if col < cols-1 {
				o.EdgeBlend.Right = zone
			}
			if row > 0 {
				o.EdgeBlend.Top = zone
			}
			if row < rows-1 {
				o.EdgeBlend.Bottom = zone
			}
		}
		if err := o.normalize(); err != nil {
			return nil, err
		}
		outs = append(outs, o)
	}

	ids := make([]ID, 0, len(outs))
	for _, o := range outs {
		id, err := r.Add(o)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
