// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package promap

import (
	"github.com/gogpu/promap/canvas"
	"github.com/gogpu/promap/frame"
	"github.com/gogpu/promap/media"
	"github.com/gogpu/promap/output"
	"github.com/gogpu/promap/surface"
)

// Option configures an Engine during creation.
//
// Example:
//
//	// Defaults: 60 Hz, best available surface backend
//	e, err := promap.New()
//
//	// Headless, custom media source
//	e, err := promap.New(
//	    promap.WithConfig(cfg),
//	    promap.WithPipeline(decoder),
//	    promap.WithSurfaceFactory(func(o output.Output) (surface.Surface, error) {
//	        return surface.NewImageSurface(int(o.Resolution.Width), int(o.Resolution.Height)), nil
//	    }),
//	)
type Option func(*engineOptions)

// SurfaceFactory creates the presentation surface of an output.
type SurfaceFactory func(o output.Output) (surface.Surface, error)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	config   Config
	pipeline media.Pipeline
	surfaces *surface.Registry
	factory  SurfaceFactory
	device   surface.DeviceHandle
	filter   frame.Filter
	onTick   func(TickReport)
}

// defaultOptions returns the default engine options.
func defaultOptions() engineOptions {
	return engineOptions{
		config:   DefaultConfig(),
		surfaces: surface.Default(),
		filter:   frame.FilterBilinear,
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *engineOptions) {
		o.config = cfg
	}
}

// WithCanvas sets the initial canvas size.
func WithCanvas(width, height uint32) Option {
	return func(o *engineOptions) {
		o.config.Canvas = canvas.Canvas{Width: width, Height: height}
	}
}

// WithPipeline sets the media source. By default the engine reads from its
// own slots, see Engine.Media.
func WithPipeline(p media.Pipeline) Option {
	return func(o *engineOptions) {
		o.pipeline = p
	}
}

// WithSurfaceRegistry selects the backend registry used to create
// surfaces. The default is surface.Default().
func WithSurfaceRegistry(r *surface.Registry) Option {
	return func(o *engineOptions) {
		o.surfaces = r
	}
}

// WithSurfaceFactory bypasses the backend registry entirely.
func WithSurfaceFactory(f SurfaceFactory) Option {
	return func(o *engineOptions) {
		o.factory = f
	}
}

// WithDevice shares a host GPU device with surfaces and the post
// processor.
func WithDevice(d surface.DeviceHandle) Option {
	return func(o *engineOptions) {
		o.device = d
	}
}

// WithFilter sets the texture sampling filter. Bilinear by default.
func WithFilter(f frame.Filter) Option {
	return func(o *engineOptions) {
		o.filter = f
	}
}

// WithTickHook calls fn with the report of every tick driven by Run.
// fn runs on the presentation goroutine and delays the next tick.
func WithTickHook(fn func(TickReport)) Option {
	return func(o *engineOptions) {
		o.onTick = fn
	}
}
