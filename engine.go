// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package promap

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/gogpu/promap/canvas"
	"github.com/gogpu/promap/compositor"
	"github.com/gogpu/promap/frame"
	"github.com/gogpu/promap/internal/parallel"
	"github.com/gogpu/promap/mapping"
	"github.com/gogpu/promap/media"
	"github.com/gogpu/promap/output"
	"github.com/gogpu/promap/surface"
)

// Engine composites mappings onto a canvas and presents it on outputs.
//
// All methods are safe for concurrent use. Mutations are validated when
// called and take effect at the next Tick.
type Engine struct {
	opts engineOptions
	cfg  Config

	// Staging state, guarded by mu. version increases with every accepted
	// mutation.
	mu       sync.Mutex
	canvas   canvas.Canvas
	outputs  *output.Registry
	mappings *mapping.Registry
	version  uint64
	closed   bool

	// Presentation state, guarded by tickMu.
	tickMu   sync.Mutex
	tick     uint64
	snap     *snapshot
	surfaces map[output.ID]*surfaceEntry

	pool     *parallel.Pool
	frames   *frame.Pool
	comp     *compositor.Compositor
	holder   *compositor.Holder
	slots    *media.Slots
	pipeline media.Pipeline
}

// surfaceKey is the part of an output that determines its surface.
type surfaceKey struct {
	width, height int
	backend       string
	fullscreen    bool
}

type surfaceEntry struct {
	key surfaceKey
	s   surface.Surface
}

// New creates an engine with no outputs and no mappings.
func New(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	workers := o.config.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	frames := frame.NewPool(2)
	pool := parallel.NewPool(workers)

	e := &Engine{
		opts:     o,
		cfg:      o.config,
		canvas:   o.config.Canvas,
		outputs:  output.NewRegistry(),
		mappings: mapping.NewRegistry(),
		version:  1,
		surfaces: make(map[output.ID]*surfaceEntry),
		pool:     pool,
		frames:   frames,
		comp:     compositor.New(pool, compositor.WithFilter(o.filter)),
		holder:   compositor.NewHolder(),
		slots:    media.NewSlots(o.config.TextureRetireDepth, frames),
	}
	e.pipeline = o.pipeline
	if e.pipeline == nil {
		e.pipeline = e.slots
	}

	if o.device != nil && surface.HasDevice(o.device) {
		if err := SetPostProcessorDeviceProvider(o.device); err != nil {
			Logger().Warn("promap: post processor rejected device", "err", err)
		}
	}

	Logger().Info("promap: engine created",
		"canvas", fmt.Sprintf("%dx%d", e.canvas.Width, e.canvas.Height),
		"workers", workers,
		"tick_rate", e.cfg.TickRate)
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Media returns the engine's content slots. Producers publish frames here
// unless the engine was created WithPipeline.
func (e *Engine) Media() *media.Slots { return e.slots }

// Close closes every surface and releases held content. Close is
// idempotent; other methods return ErrEngineClosed afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	var errs []error
	for id := range e.surfaces {
		if err := e.closeSurface(id); err != nil {
			errs = append(errs, err)
		}
	}
	e.snap = nil
	e.holder.Close()
	e.pool.Close()
	Logger().Info("promap: engine closed", "ticks", e.tick)
	if len(errs) > 0 {
		return fmt.Errorf("promap: close: %w", errs[0])
	}
	return nil
}

// mutate runs fn on the staging state and records a new version when it
// succeeds. Failures are wrapped in a ConfigurationError.
func (e *Engine) mutate(op, field string, fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	if err := fn(); err != nil {
		return configError(op, field, err)
	}
	e.version++
	return nil
}

// CanvasSize returns the canvas size.
func (e *Engine) CanvasSize() canvas.Canvas {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas
}

// ResizeCanvas changes the canvas size. Mesh positions are normalized and
// do not move.
func (e *Engine) ResizeCanvas(width, height uint32) error {
	return e.mutate("ResizeCanvas", "size", func() error {
		c, err := canvas.New(width, height)
		if err != nil {
			return err
		}
		e.canvas = c
		return nil
	})
}

// Surface returns the surface currently presenting output id. Surfaces are
// created lazily by the first tick that renders the output.
func (e *Engine) Surface(id output.ID) (surface.Surface, bool) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	se, ok := e.surfaces[id]
	if !ok {
		return nil, false
	}
	return se.s, true
}

// surfaceFor returns the surface of o, creating or recreating it when its
// size, backend or fullscreen flag changed. Called with tickMu held.
func (e *Engine) surfaceFor(o *output.Output) (surface.Surface, error) {
	key := surfaceKey{
		width:      int(o.Resolution.Width),
		height:     int(o.Resolution.Height),
		backend:    o.Backend,
		fullscreen: o.Fullscreen,
	}
	if se, ok := e.surfaces[o.ID]; ok {
		if se.key == key {
			return se.s, nil
		}
		if err := e.closeSurface(o.ID); err != nil {
			Logger().Warn("promap: closing replaced surface", "output", o.ID, "err", err)
		}
	}

	s, err := e.createSurface(o)
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}
	e.surfaces[o.ID] = &surfaceEntry{key: key, s: s}
	Logger().Info("promap: output surface created",
		"output", o.ID,
		"name", o.Name,
		"size", o.Resolution.String(),
		"format", s.Format())
	return s, nil
}

func (e *Engine) createSurface(o *output.Output) (surface.Surface, error) {
	if e.opts.factory != nil {
		return e.opts.factory(*o)
	}
	opts := surface.Options{
		Width:      int(o.Resolution.Width),
		Height:     int(o.Resolution.Height),
		Title:      o.Name,
		Fullscreen: o.Fullscreen,
		Device:     e.opts.device,
	}
	backend := o.Backend
	if backend == "" {
		backend = e.cfg.SurfaceBackend
	}
	if backend != "" {
		return e.opts.surfaces.NewSurfaceByName(backend, opts)
	}
	return e.opts.surfaces.NewSurface(opts)
}

// closeSurface closes and forgets the surface of id. Called with tickMu
// held.
func (e *Engine) closeSurface(id output.ID) error {
	se, ok := e.surfaces[id]
	if !ok {
		return nil
	}
	delete(e.surfaces, id)
	return se.s.Close()
}
