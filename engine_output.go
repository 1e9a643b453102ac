// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package promap

import (
	"github.com/gogpu/promap/calibration"
	"github.com/gogpu/promap/canvas"
	"github.com/gogpu/promap/edgeblend"
	"github.com/gogpu/promap/output"
)

// AddOutput validates o and adds it as an active output. Its surface is
// created by the next tick.
func (e *Engine) AddOutput(o output.Output) (output.ID, error) {
	var id output.ID
	err := e.mutate("AddOutput", "output", func() error {
		var err error
		id, err = e.outputs.Add(o)
		return err
	})
	if err != nil {
		return 0, err
	}
	Logger().Info("promap: output added", "output", id, "name", o.Name, "size", o.Resolution.String())
	return id, nil
}

// RemoveOutput schedules an output for removal. A frame already in flight
// is still presented; the surface is closed after that tick.
func (e *Engine) RemoveOutput(id output.ID) error {
	return e.mutate("RemoveOutput", "id", func() error {
		return e.outputs.Remove(id)
	})
}

// ConfigureOutput applies fn to a copy of the output. The output is
// unchanged if fn or validation fails. Changing the resolution, backend or
// fullscreen flag recreates the surface at the next tick.
func (e *Engine) ConfigureOutput(id output.ID, fn func(o *output.Output) error) error {
	return e.mutate("ConfigureOutput", "output", func() error {
		return e.outputs.Configure(id, fn)
	})
}

// SetOutputRegion sets the canvas region shown by an output.
func (e *Engine) SetOutputRegion(id output.ID, region canvas.Region) error {
	return e.mutate("SetOutputRegion", "region", func() error {
		return e.outputs.SetRegion(id, region)
	})
}

// SetEdgeBlend replaces the edge blend of an output.
func (e *Engine) SetEdgeBlend(id output.ID, cfg edgeblend.Config) error {
	return e.mutate("SetEdgeBlend", "edge_blend", func() error {
		return e.outputs.SetEdgeBlend(id, cfg)
	})
}

// SetCalibration replaces the color calibration of an output.
func (e *Engine) SetCalibration(id output.ID, cal calibration.Calibration) error {
	return e.mutate("SetCalibration", "calibration", func() error {
		return e.outputs.SetCalibration(id, cal)
	})
}

// RestoreOutput returns a degraded output to service. Its surface is
// recreated by the next tick.
func (e *Engine) RestoreOutput(id output.ID) error {
	err := e.mutate("RestoreOutput", "state", func() error {
		return e.outputs.Restore(id)
	})
	if err == nil {
		Logger().Info("promap: output restored", "output", id)
	}
	return err
}

// CreateArray adds rows*cols outputs tiling the canvas with the given
// overlap fraction and blending their shared edges. IDs are returned row
// major.
func (e *Engine) CreateArray(rows, cols int, res output.Resolution, overlap float64) ([]output.ID, error) {
	var ids []output.ID
	err := e.mutate("CreateArray", "layout", func() error {
		var err error
		ids, err = e.outputs.CreateArray(rows, cols, res, overlap)
		return err
	})
	if err != nil {
		return nil, err
	}
	Logger().Info("promap: output array created", "rows", rows, "cols", cols, "overlap", overlap)
	return ids, nil
}

// Output returns a copy of an output.
func (e *Engine) Output(id output.ID) (output.Output, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outputs.Get(id)
}

// Outputs returns all outputs in creation order, including those pending
// removal.
func (e *Engine) Outputs() []output.Output {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outputs.All()
}
