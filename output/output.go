// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package output describes the physical outputs (projectors, displays) the
// canvas is split across and tracks their lifecycle.
package output

import (
	"errors"
	"fmt"

	"github.com/gogpu/promap/calibration"
	"github.com/gogpu/promap/canvas"
	"github.com/gogpu/promap/edgeblend"
	"github.com/gogpu/promap/frame"
)

// Errors returned by the registry.
var (
	ErrUnknownOutput = errors.New("output: unknown output")
	ErrInvalidOutput = errors.New("output: invalid output")
	ErrInvalidState  = errors.New("output: invalid state transition")
)

// ID identifies an output within a registry. Zero is never assigned.
type ID uint64

// State is the lifecycle state of an output.
type State uint8

const (
	// Active outputs are rendered and presented every tick.
	Active State = iota

	// Degraded outputs hit a resource failure and are skipped until restored.
	Degraded

	// PendingRemoval outputs finish any in-flight frame and then go away.
	PendingRemoval

	// Removed outputs have released their surface.
	Removed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Degraded:
		return "degraded"
	case PendingRemoval:
		return "pending-removal"
	case Removed:
		return "removed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Resolution is an output size in pixels.
type Resolution struct {
	Width  uint32 `yaml:"width" toml:"width"`
	Height uint32 `yaml:"height" toml:"height"`
}

// String formats the resolution as WxH.
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Output is one physical render target.
type Output struct {
	ID          ID
	Name        string
	Resolution  Resolution
	Region      canvas.Region
	Fullscreen  bool
	EdgeBlend   edgeblend.Config
	Calibration calibration.Calibration

	// Backend names the surface backend; empty selects the engine default.
	Backend string

	State State

	// Fault holds the reason of the last degradation.
	Fault string

	// Revision increases with every accepted configuration change.
	Revision uint64
}

// New returns an active output covering the whole canvas with identity
// edge blend and calibration.
func New(name string, width, height uint32) Output {
	return Output{
		Name:        name,
		Resolution:  Resolution{Width: width, Height: height},
		Region:      canvas.Full(),
		EdgeBlend:   edgeblend.Default(),
		Calibration: calibration.Default(),
	}
}

// normalize validates o and clamps its continuous parameters.
func (o *Output) normalize() error {
	if o.Resolution.Width == 0 || o.Resolution.Height == 0 {
		return fmt.Errorf("%w: resolution %s must be positive", ErrInvalidOutput, o.Resolution)
	}
	if o.Resolution.Width > frame.MaxDimension || o.Resolution.Height > frame.MaxDimension {
		return fmt.Errorf("%w: resolution %s exceeds %d", ErrInvalidOutput, o.Resolution, frame.MaxDimension)
	}
	if err := o.Region.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}
	if err := o.EdgeBlend.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}
	if err := o.Calibration.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}
	o.EdgeBlend = o.EdgeBlend.Normalize()
	o.Calibration = o.Calibration.Normalize()
	return nil
}
