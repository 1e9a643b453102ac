// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build nowindow

package window

import "errors"

// ErrNoWindow is returned by Run when the backend is compiled out.
var ErrNoWindow = errors.New("window: built without window support")

// Run returns ErrNoWindow.
func Run() error { return ErrNoWindow }
