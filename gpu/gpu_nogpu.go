// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build nogpu

package gpu

// SetDeviceProvider is a no-op when built with the nogpu tag.
func SetDeviceProvider(any) error { return nil }
