// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package promap

import (
	"errors"
	"sync"

	"github.com/gogpu/promap/calibration"
	"github.com/gogpu/promap/edgeblend"
	"github.com/gogpu/promap/frame"
)

// ErrFallbackToCPU indicates a post processor cannot handle a frame. The
// engine then runs the CPU stages.
var ErrFallbackToCPU = errors.New("promap: falling back to CPU post-process")

// PostProcessor runs edge blending and color calibration of an output
// frame on other hardware.
//
// Implementations are provided by GPU packages; applications opt in with
// a blank import:
//
//	import _ "github.com/gogpu/promap/gpu"
type PostProcessor interface {
	// Name identifies the processor in logs.
	Name() string

	// Init acquires resources. Called once during registration.
	Init() error

	// Close releases resources.
	Close()

	// Process applies eb to the alpha and cal to the color of f in place.
	// It returns ErrFallbackToCPU, possibly wrapped, when f was not
	// processed; f must then be unchanged.
	Process(f *frame.Frame, eb edgeblend.Config, cal calibration.Calibration) error
}

// DeviceProviderAware is implemented by post processors that can use a
// GPU device owned by the host.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	postMu sync.RWMutex
	post   PostProcessor
)

// RegisterPostProcessor installs p, replacing and closing any previous
// processor. p.Init is called first; if it fails p is not registered.
func RegisterPostProcessor(p PostProcessor) error {
	if p == nil {
		return errors.New("promap: post processor must not be nil")
	}
	if err := p.Init(); err != nil {
		return err
	}
	propagateLogger(p, Logger())

	postMu.Lock()
	old := post
	post = p
	postMu.Unlock()
	if old != nil && old != p {
		old.Close()
	}
	return nil
}

// CurrentPostProcessor returns the registered post processor, or nil.
func CurrentPostProcessor() PostProcessor {
	postMu.RLock()
	defer postMu.RUnlock()
	return post
}

// UnregisterPostProcessor closes and removes the registered processor.
func UnregisterPostProcessor() {
	postMu.Lock()
	old := post
	post = nil
	postMu.Unlock()
	if old != nil {
		old.Close()
	}
}

// SetPostProcessorDeviceProvider hands a host GPU device to the registered
// processor. It is a no-op when none is registered or it cannot share
// devices.
func SetPostProcessorDeviceProvider(provider any) error {
	p := CurrentPostProcessor()
	if p == nil {
		return nil
	}
	if dpa, ok := p.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
