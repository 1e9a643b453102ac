// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu implements the GPU post-process stage: edge blending and
// color calibration of a composited output frame in one compute pass.
//
// The pass runs on wgpu/hal with a WGSL shader compiled to SPIR-V by naga.
// When no adapter is available the accelerator reports
// promap.ErrFallbackToCPU and the engine runs the CPU stages instead.
//
// Build with -tags nogpu to compile the package without wgpu.
package gpu
