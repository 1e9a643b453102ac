// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package promap

import (
	"github.com/gogpu/promap/mapping"
	"github.com/gogpu/promap/output"
	"github.com/gogpu/promap/project"
)

// ExportState returns the persistent state of the show. Outputs pending
// removal are left out.
func (e *Engine) ExportState() project.State {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := project.State{
		Canvas:   e.canvas,
		Mappings: e.mappings.All(),
	}
	for _, o := range e.outputs.All() {
		if o.State == output.PendingRemoval || o.State == output.Removed {
			continue
		}
		st.Outputs = append(st.Outputs, o)
	}
	return st
}

// ImportState replaces the whole show with st. Nothing changes if st is
// invalid. Surfaces of outputs that no longer exist are closed by the next
// tick; outputs keeping their ID keep their surface when it still fits.
//
// ImportState waits for a running tick to finish and must not be called
// from a surface.
func (e *Engine) ImportState(st project.State) error {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	var forget []mapping.ID
	err := e.mutate("ImportState", "state", func() error {
		if err := st.Canvas.Validate(); err != nil {
			return err
		}
		outputs := output.NewRegistry()
		for _, o := range st.Outputs {
			if err := outputs.Insert(o); err != nil {
				return err
			}
		}
		mappings := mapping.NewRegistry()
		for _, m := range st.Mappings {
			if err := mappings.Insert(m); err != nil {
				return err
			}
		}
		for _, m := range e.mappings.All() {
			forget = append(forget, m.ID)
		}
		e.canvas = st.Canvas
		e.outputs = outputs
		e.mappings = mappings
		return nil
	})
	if err != nil {
		return err
	}
	// Imported mappings restart their revisions, so cached projections of
	// the old ones must not be reused.
	for _, id := range forget {
		e.comp.Forget(id)
	}
	e.snap = nil
	Logger().Info("promap: state imported", "outputs", len(st.Outputs), "mappings", len(st.Mappings))
	return nil
}
