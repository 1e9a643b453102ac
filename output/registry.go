// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"

	"github.com/gogpu/promap/calibration"
	"github.com/gogpu/promap/canvas"
	"github.com/gogpu/promap/edgeblend"
)

// Registry owns the outputs of a show.
//
// Registry is not safe for concurrent use; the engine serializes access.
type Registry struct {
	nextID ID
	order  []ID
	byID   map[ID]*Output
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[ID]*Output)}
}

// Add validates o and stores it as a new active output.
func (r *Registry) Add(o Output) (ID, error) {
	if err := o.normalize(); err != nil {
		return 0, err
	}
	r.nextID++
	o.ID = r.nextID
	if o.Name == "" {
		o.Name = fmt.Sprintf("Output %d", o.ID)
	}
	o.State = Active
	o.Fault = ""
	o.Revision = 1
	r.store(&o)
	return o.ID, nil
}

// Insert stores o under its own ID, used when restoring saved state.
func (r *Registry) Insert(o Output) error {
	if o.ID == 0 {
		return fmt.Errorf("%w: id must be non-zero", ErrInvalidOutput)
	}
	if _, dup := r.byID[o.ID]; dup {
		return fmt.Errorf("%w: duplicate id %d", ErrInvalidOutput, o.ID)
	}
	if err := o.normalize(); err != nil {
		return err
	}
	o.State = Active
	o.Revision = max(o.Revision, 1)
	r.store(&o)
	r.nextID = max(r.nextID, o.ID)
	return nil
}

func (r *Registry) store(o *Output) {
	r.byID[o.ID] = o
	r.order = append(r.order, o.ID)
}

// Get returns a copy of an output.
func (r *Registry) Get(id ID) (Output, bool) {
	o, ok := r.byID[id]
	if !ok {
		return Output{}, false
	}
	return *o, true
}

func (r *Registry) lookup(id ID) (*Output, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOutput, id)
	}
	return o, nil
}

// Configure applies fn to a copy of the output and stores it when fn and
// validation succeed. ID and State cannot be changed this way.
func (r *Registry) Configure(id ID, fn func(o *Output) error) error {
	cur, err := r.lookup(id)
	if err != nil {
		return err
	}
	if cur.State == PendingRemoval || cur.State == Removed {
		return fmt.Errorf("%w: output %d is %s", ErrInvalidState, id, cur.State)
	}
	c := *cur
	if err := fn(&c); err != nil {
		return err
	}
	c.ID, c.State, c.Fault = cur.ID, cur.State, cur.Fault
	if err := c.normalize(); err != nil {
		return err
	}
	c.Revision = cur.Revision + 1
	*cur = c
	return nil
}

// SetRegion changes the canvas region of an output.
func (r *Registry) SetRegion(id ID, region canvas.Region) error {
	return r.Configure(id, func(o *Output) error {
		o.Region = region
		return nil
	})
}

// SetEdgeBlend replaces the edge blend config of an output.
func (r *Registry) SetEdgeBlend(id ID, cfg edgeblend.Config) error {
	return r.Configure(id, func(o *Output) error {
		o.EdgeBlend = cfg
		return nil
	})
}

// SetCalibration replaces the color calibration of an output.
func (r *Registry) SetCalibration(id ID, cal calibration.Calibration) error {
	return r.Configure(id, func(o *Output) error {
		o.Calibration = cal
		return nil
	})
}

// Remove moves an output to PendingRemoval. Removing an output that is
// already pending is a no-op.
func (r *Registry) Remove(id ID) error {
	o, err := r.lookup(id)
	if err != nil {
		return err
	}
	if o.State == Removed {
		return fmt.Errorf("%w: %d", ErrUnknownOutput, id)
	}
	o.State = PendingRemoval
	return nil
}

// MarkDegraded stops scheduling an active output. It reports whether the
// state changed.
func (r *Registry) MarkDegraded(id ID, reason string) bool {
	o, ok := r.byID[id]
	if !ok || o.State != Active {
		return false
	}
	o.State = Degraded
	o.Fault = reason
	return true
}

// Restore returns a degraded output to service.
func (r *Registry) Restore(id ID) error {
	o, err := r.lookup(id)
	if err != nil {
		return err
	}
	if o.State != Degraded {
		return fmt.Errorf("%w: cannot restore %s output %d", ErrInvalidState, o.State, id)
	}
	o.State = Active
	o.Fault = ""
	return nil
}

// Finalize drops an output that is pending removal.
func (r *Registry) Finalize(id ID) error {
	o, err := r.lookup(id)
	if err != nil {
		return err
	}
	if o.State != PendingRemoval {
		return fmt.Errorf("%w: cannot finalize %s output %d", ErrInvalidState, o.State, id)
	}
	o.State = Removed
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Schedulable returns the active outputs in insertion order.
func (r *Registry) Schedulable() []Output {
	return r.filter(func(o *Output) bool { return o.State == Active })
}

// PendingRemovals returns the IDs of outputs waiting to be finalized.
func (r *Registry) PendingRemovals() []ID {
	var ids []ID
	for _, id := range r.order {
		if r.byID[id].State == PendingRemoval {
			ids = append(ids, id)
		}
	}
	return ids
}

// All returns every output in insertion order.
func (r *Registry) All() []Output {
	return r.filter(func(*Output) bool { return true })
}

func (r *Registry) filter(keep func(o *Output) bool) []Output {
	out := make([]Output, 0, len(r.order))
	for _, id := range r.order {
		if o := r.byID[id]; keep(o) {
			out = append(out, *o)
		}
	}
	return out
}

// Len returns the number of outputs not yet finalized.
func (r *Registry) Len() int {
	return len(r.order)
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		nextID: r.nextID,
		order:  append([]ID(nil), r.order...),
		byID:   make(map[ID]*Output, len(r.byID)),
	}
	for id, o := range r.byID {
		oc := *o
		c.byID[id] = &oc
	}
	return c
}
