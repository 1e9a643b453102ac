// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

// Package gpu registers the wgpu post-process accelerator.
//
// Importing the package moves edge blending and color calibration of every
// output onto a compute shader when the engine's GPUPostProcess option is
// on. If no adapter is found the accelerator stays registered in CPU
// fallback mode and the engine runs the CPU stages.
//
// Usage:
//
//	import _ "github.com/gogpu/promap/gpu"
package gpu

import (
	"github.com/gogpu/promap"
	gpuimpl "github.com/gogpu/promap/internal/gpu"
)

func init() {
	if err := promap.RegisterPostProcessor(&gpuimpl.PostAccelerator{}); err != nil {
		promap.Logger().Warn("GPU post-process not available", "err", err)
	}
}

// SetDeviceProvider makes the accelerator use a GPU device owned by the
// host. The provider should be a gpucontext.DeviceProvider that also
// exposes HalDevice and HalQueue.
func SetDeviceProvider(provider any) error {
	return promap.SetPostProcessorDeviceProvider(provider)
}
