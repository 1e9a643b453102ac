// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package promap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/promap/canvas"
	"github.com/gogpu/promap/compositor"
	"github.com/gogpu/promap/frame"
	"github.com/gogpu/promap/mapping"
	"github.com/gogpu/promap/media"
	"github.com/gogpu/promap/output"
	"github.com/gogpu/promap/surface"
)

// TickReport describes one presentation tick.
type TickReport struct {
	// Tick is the tick number, starting at 1.
	Tick uint64

	Started  time.Time
	Duration time.Duration

	// Outputs holds one result per output scheduled in this tick.
	Outputs []OutputResult

	// Warnings are *StaleContentWarning and *SyncDriftWarning values.
	Warnings []error

	// Removed lists the outputs whose removal completed after this tick.
	Removed []output.ID

	// Released is the number of retired content frames freed.
	Released int
}

// OutputResult is the outcome of one output in a tick.
type OutputResult struct {
	Output output.ID
	Stats  compositor.Stats

	// Render covers compositing and post-processing.
	Render time.Duration

	// Present is the time spent in Surface.Present.
	Present time.Duration

	// PresentedAt is when Present returned. Zero on failure.
	PresentedAt time.Time

	// Err is a *ResourceError when the output failed and was degraded.
	Err error
}

// Failed returns the errors of the outputs that failed.
func (r *TickReport) Failed() []error {
	var errs []error
	for _, o := range r.Outputs {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errs
}

// snapshot is the staging state one tick renders.
type snapshot struct {
	version uint64
	canvas  canvas.Canvas
	outputs []output.Output
	visible []mapping.Mapping

	// live holds the content of every mapping, visible or not.
	live map[media.ContentRef]bool
}

// takeSnapshot returns the state for the next tick, reusing the previous
// snapshot when nothing changed. Called with tickMu held.
func (e *Engine) takeSnapshot() (*snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEngineClosed
	}
	if e.snap != nil && e.snap.version == e.version {
		return e.snap, nil
	}
	s := &snapshot{
		version: e.version,
		canvas:  e.canvas,
		outputs: e.outputs.Schedulable(),
		visible: e.mappings.VisibleMappings(),
		live:    make(map[media.ContentRef]bool),
	}
	for _, m := range e.mappings.All() {
		s.live[m.Content] = true
	}
	e.snap = s
	return s, nil
}

// Tick renders and presents one frame on every active output.
//
// Failures of individual outputs do not fail the tick: the output is marked
// Degraded and its error is reported in TickReport.Outputs. Tick returns an
// error only when ctx is done or the engine is closed.
func (e *Engine) Tick(ctx context.Context) (TickReport, error) {
	if err := ctx.Err(); err != nil {
		return TickReport{}, err
	}
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	snap, err := e.takeSnapshot()
	if err != nil {
		return TickReport{}, err
	}
	e.tick++
	rep := TickReport{Tick: e.tick, Started: time.Now()}
	log := Logger()

	layers, textures, warnings := e.resolve(snap)
	rep.Warnings = append(rep.Warnings, warnings...)

	n := len(snap.outputs)
	rep.Outputs = make([]OutputResult, n)
	surfaces := make([]surface.Surface, n)
	frames := make([]*frame.Frame, n)

	// Surfaces are created serially; some backends own process-wide
	// resources.
	for i := range snap.outputs {
		o := &snap.outputs[i]
		rep.Outputs[i].Output = o.ID
		s, err := e.surfaceFor(o)
		if err != nil {
			rep.Outputs[i].Err = &ResourceError{Output: o.ID, Err: err}
			continue
		}
		surfaces[i] = s
	}

	var render errgroup.Group
	for i := range snap.outputs {
		if rep.Outputs[i].Err != nil {
			continue
		}
		render.Go(func() error {
			start := time.Now()
			f, st, err := e.renderOutput(&snap.outputs[i], layers)
			frames[i] = f
			res := &rep.Outputs[i]
			res.Stats = st
			res.Render = time.Since(start)
			if err != nil {
				res.Err = &ResourceError{Output: snap.outputs[i].ID, Err: err}
			}
			return nil
		})
	}
	_ = render.Wait()

	var show errgroup.Group
	for i := range snap.outputs {
		if rep.Outputs[i].Err != nil {
			continue
		}
		show.Go(func() error {
			start := time.Now()
			err := present(surfaces[i], frames[i])
			res := &rep.Outputs[i]
			res.Present = time.Since(start)
			if err != nil {
				res.Err = &ResourceError{Output: snap.outputs[i].ID, Err: fmt.Errorf("present: %w", err)}
				return nil
			}
			res.PresentedAt = time.Now()
			return nil
		})
	}
	_ = show.Wait()

	for _, f := range frames {
		e.frames.Put(f)
	}
	for _, t := range textures {
		t.Release()
	}

	rep.Warnings = append(rep.Warnings, e.checkDrift(rep.Outputs)...)
	e.degradeFailed(rep.Outputs)
	rep.Removed = e.finishRemovals()

	e.holder.Retain(snap.live)
	rep.Released = e.slots.Collect(e.tick)
	rep.Duration = time.Since(rep.Started)

	for _, w := range rep.Warnings {
		log.Warn("promap: tick warning", "tick", rep.Tick, "warning", w)
	}
	log.Debug("promap: tick",
		"tick", rep.Tick,
		"outputs", n,
		"mappings", len(snap.visible),
		"duration", rep.Duration)
	return rep, nil
}

// resolve fetches the texture of every visible content reference once and
// builds the layer list shared by all outputs. The returned textures carry
// references the tick must release.
func (e *Engine) resolve(snap *snapshot) ([]compositor.Layer, []*media.Texture, []error) {
	resolved := make(map[media.ContentRef]compositor.Resolution, len(snap.visible))
	var textures []*media.Texture
	for _, m := range snap.visible {
		if _, done := resolved[m.Content]; done {
			continue
		}
		r := e.holder.Resolve(e.pipeline, m.Content)
		resolved[m.Content] = r
		if r.Texture != nil {
			textures = append(textures, r.Texture)
		}
	}

	var warnings []error
	layers := make([]compositor.Layer, len(snap.visible))
	for i := range snap.visible {
		m := &snap.visible[i]
		r := resolved[m.Content]
		layers[i] = compositor.Layer{Mapping: m, Texture: r.Texture}
		if r.Texture == nil || r.Held {
			warnings = append(warnings, &StaleContentWarning{
				Mapping: m.ID,
				Content: m.Content,
				Held:    r.Held,
			})
		}
	}
	return layers, textures, warnings
}

// renderOutput composites and post-processes one output. A panic is
// returned as an error.
func (e *Engine) renderOutput(o *output.Output, layers []compositor.Layer) (f *frame.Frame, st compositor.Stats, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
		}
	}()
	f, err = e.frames.Get(int(o.Resolution.Width), int(o.Resolution.Height))
	if err != nil {
		return nil, st, err
	}
	st = e.comp.Render(f, o.Region, layers)
	e.postProcess(f, o)
	return f, st, nil
}

// postProcess applies edge blend and calibration, on the registered
// PostProcessor when enabled and on the CPU otherwise.
func (e *Engine) postProcess(f *frame.Frame, o *output.Output) {
	eb, cal := o.EdgeBlend, o.Calibration
	if !eb.Active() && cal.IsIdentity() {
		return
	}
	if e.cfg.GPUPostProcess {
		if p := CurrentPostProcessor(); p != nil {
			err := p.Process(f, eb, cal)
			if err == nil {
				return
			}
			if !errors.Is(err, ErrFallbackToCPU) {
				Logger().Warn("promap: post processor failed", "processor", p.Name(), "output", o.ID, "err", err)
			}
		}
	}
	eb.Apply(f, e.pool)
	cal.Apply(f, e.pool)
}

// present shows f on s. A panic is returned as an error.
func present(s surface.Surface, f *frame.Frame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Present(f)
}

// checkDrift reports outputs presented later than the first one by more
// than the sync tolerance. A zero tolerance disables the check.
func (e *Engine) checkDrift(results []OutputResult) []error {
	tol := time.Duration(e.cfg.SyncTolerance)
	if tol <= 0 {
		return nil
	}
	var first time.Time
	for _, r := range results {
		if r.PresentedAt.IsZero() {
			continue
		}
		if first.IsZero() || r.PresentedAt.Before(first) {
			first = r.PresentedAt
		}
	}
	var warnings []error
	for _, r := range results {
		if r.PresentedAt.IsZero() {
			continue
		}
		if d := r.PresentedAt.Sub(first); d > tol {
			warnings = append(warnings, &SyncDriftWarning{Output: r.Output, Drift: d})
		}
	}
	return warnings
}

// degradeFailed marks failed outputs Degraded and drops their surfaces so
// a restore starts from a fresh one.
func (e *Engine) degradeFailed(results []OutputResult) {
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		e.mu.Lock()
		marked := e.outputs.MarkDegraded(r.Output, r.Err.Error())
		if marked {
			e.version++
		}
		e.mu.Unlock()

		if err := e.closeSurface(r.Output); err != nil {
			Logger().Warn("promap: closing failed surface", "output", r.Output, "err", err)
		}
		if marked {
			Logger().Warn("promap: output degraded", "output", r.Output, "err", r.Err)
		}
	}
}

// finishRemovals closes the surfaces of outputs pending removal and of
// outputs that vanished through ImportState. Called with tickMu held
// after all frames of the tick were presented.
func (e *Engine) finishRemovals() []output.ID {
	e.mu.Lock()
	pending := e.outputs.PendingRemovals()
	for _, id := range pending {
		if err := e.outputs.Finalize(id); err != nil {
			Logger().Warn("promap: finalize output", "output", id, "err", err)
		}
	}
	if len(pending) > 0 {
		e.version++
	}
	var orphans []output.ID
	for id := range e.surfaces {
		if _, ok := e.outputs.Get(id); !ok {
			orphans = append(orphans, id)
		}
	}
	e.mu.Unlock()

	for _, id := range orphans {
		if err := e.closeSurface(id); err != nil {
			Logger().Warn("promap: closing removed surface", "output", id, "err", err)
		}
	}
	for _, id := range pending {
		Logger().Info("promap: output removed", "output", id)
	}
	return pending
}

// Run ticks at Config.TickRate until ctx is done and returns ctx.Err(), or
// until the engine is closed and returns ErrEngineClosed. Ticks that
// overrun the interval are dropped, not queued.
func (e *Engine) Run(ctx context.Context) error {
	t := time.NewTicker(e.cfg.TickInterval())
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			rep, err := e.Tick(ctx)
			if err != nil {
				return err
			}
			if e.opts.onTick != nil {
				e.opts.onTick(rep)
			}
		}
	}
}
