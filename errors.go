// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package promap

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/promap/mapping"
	"github.com/gogpu/promap/media"
	"github.com/gogpu/promap/output"
)

// Sentinel errors. Errors returned by the engine wrap these, so they can be
// tested with errors.Is.
var (
	// ErrUnknownOutput is returned for an output ID that does not exist.
	ErrUnknownOutput = output.ErrUnknownOutput

	// ErrUnknownMapping is returned for a mapping ID that does not exist.
	ErrUnknownMapping = mapping.ErrUnknownMapping

	// ErrEngineClosed is returned by every method after Close.
	ErrEngineClosed = errors.New("promap: engine closed")
)

// ConfigurationError reports a rejected mutation. The engine state is
// unchanged when it is returned.
type ConfigurationError struct {
	// Op is the engine method, e.g. "SetEdgeBlend".
	Op string

	// Field names the offending parameter, if known.
	Field string

	// Reason describes the problem.
	Reason string

	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("promap: %s: invalid %s: %s", e.Op, e.Field, e.Reason)
	}
	return fmt.Sprintf("promap: %s: %s", e.Op, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// configError wraps err in a ConfigurationError. ErrEngineClosed and nil
// pass through.
func configError(op, field string, err error) error {
	if err == nil || errors.Is(err, ErrEngineClosed) {
		return err
	}
	return &ConfigurationError{Op: op, Field: field, Reason: err.Error(), Err: err}
}

// ResourceError reports a failure scoped to one output: surface creation,
// rendering or presentation. The output is marked Degraded.
type ResourceError struct {
	Output output.ID
	Err    error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("promap: output %d: %v", e.Output, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// StaleContentWarning reports a mapping whose content had no current frame.
// When Held is true the previous frame was shown; otherwise the mapping was
// skipped.
type StaleContentWarning struct {
	Mapping mapping.ID
	Content media.ContentRef
	Held    bool
}

func (w *StaleContentWarning) Error() string {
	if w.Held {
		return fmt.Sprintf("promap: mapping %d: content %q is stale, holding last frame", w.Mapping, w.Content)
	}
	return fmt.Sprintf("promap: mapping %d: content %q not available, skipped", w.Mapping, w.Content)
}

// SyncDriftWarning reports an output presented later than the first output
// of the same tick by more than Config.SyncTolerance.
type SyncDriftWarning struct {
	Output output.ID
	Drift  time.Duration
}

func (w *SyncDriftWarning) Error() string {
	return fmt.Sprintf("promap: output %d: presented %v after the first output", w.Output, w.Drift)
}
