// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package promap is a multi-output projection mapping engine.
//
// # Overview
//
// Content (video, generators, capture) is warped onto a shared canvas by
// mappings, each a textured mesh with a blend mode, opacity and depth.
// Outputs are physical projectors; each shows a rectangular region of the
// canvas at its own resolution, feathers its edges where it overlaps a
// neighbour and applies its own color calibration.
//
// # Quick Start
//
//	e, err := promap.New(promap.WithCanvas(3840, 1080))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Close()
//
//	ids, _ := e.CreateArray(1, 2, output.Resolution{Width: 1920, Height: 1080}, 0.1)
//	m, _ := e.AddMapping(mapping.New("facade", "cam0"))
//	_ = e.SetKeystone(m, [4]geom.Vec2{{X: 0.05, Y: 0}, {X: 1, Y: 0.02}, {X: 1, Y: 1}, {X: 0, Y: 0.97}})
//
//	e.Media().Publish("cam0", frame)
//	go e.Run(ctx)
//
// # Pipeline
//
// Every tick the engine snapshots its configuration, resolves one texture
// per content reference, and for each active output runs:
//
//   - compositor: cull, project, rasterize and blend mappings
//   - edgeblend: feather alpha at the output edges
//   - calibration: temperature, contrast, brightness, gamma, saturation
//
// then presents all outputs. Post-processing moves to the GPU when a
// PostProcessor is registered (import github.com/gogpu/promap/gpu) and
// Config.GPUPostProcess is set.
//
// # Concurrency
//
// Mutating methods may be called from any goroutine. They are validated
// immediately and become visible at the next tick. A failing output is
// marked Degraded without affecting the others; removed outputs finish
// their current tick before their surface is closed.
//
// # Coordinate System
//
// Canvas coordinates are normalized to [0,1]² with the origin at the
// top-left and y pointing down. Texture coordinates use the same
// convention.
package promap
