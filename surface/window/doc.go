// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package window presents an output in a desktop window using Ebitengine.
//
// Importing the package registers the "window" surface backend with
// priority 100. Ebitengine drives a single window per process, so only the
// first output gets a window; later requests fail with ErrWindowInUse and
// the registry falls back to the next backend.
//
// The window's event loop must own the main goroutine:
//
//	go engine.Run(ctx)
//	if err := window.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Build with -tags nowindow to leave the backend out.
package window
