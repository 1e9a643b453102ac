// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface defines where composited output frames go.
//
// A Surface is a presentation target of a fixed pixel size: a window on a
// physical projector, an offscreen image, or a sink that drops frames.
// The engine creates one surface per output and calls Present once per
// tick with the finished frame.
//
// # Registry
//
// Backends register themselves with a priority, the same way GPU and
// software backends do elsewhere in gogpu:
//
//	func init() {
//	    surface.Register("window", 100, newWindow, windowAvailable)
//	}
//
// NewSurface picks the best available backend; NewSurfaceByName selects one
// explicitly. The package registers "image" (priority 10) and "null"
// (priority 1) itself.
//
// # Device sharing
//
// Hosts that already own a GPU device pass it through Options.Device as a
// DeviceHandle so backends reuse it instead of creating their own.
package surface
