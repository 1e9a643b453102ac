// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Factory creates a surface for opts.
type Factory func(opts Options) (Surface, error)

// RegistryEntry is a registered surface backend.
type RegistryEntry struct {
	// Name is the unique identifier of the backend.
	Name string

	// Priority orders automatic selection, higher first.
	//   - 100: windows on physical displays
	//   - 10: offscreen images
	//   - 1: discarding sinks
	Priority int

	// Factory creates surfaces.
	Factory Factory

	// Available reports whether the backend can run on this system.
	Available func() bool
}

var globalRegistry = NewRegistry()

// Registry holds surface backends by name.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*RegistryEntry)}
}

// Default returns the process-wide registry used by the package functions.
func Default() *Registry {
	return globalRegistry
}

// Register adds a backend to the default registry.
// A nil available means always available. Registering an existing name
// replaces it.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the default registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns the registered backend names, highest priority first.
func List() []string {
	return globalRegistry.List()
}

// Available returns the names of available backends, highest priority first.
func Available() []string {
	return globalRegistry.Available()
}

// NewSurface creates a surface with the best available backend.
func NewSurface(opts Options) (Surface, error) {
	return globalRegistry.NewSurface(opts)
}

// NewSurfaceByName creates a surface with the named backend.
func NewSurfaceByName(name string, opts Options) (Surface, error) {
	return globalRegistry.NewSurfaceByName(name, opts)
}

// Register adds a backend to r.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	if available == nil {
		available = func() bool { return true }
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from r.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Get returns a copy of the named entry.
func (r *Registry) Get(name string) (RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return RegistryEntry{}, false
	}
	return *e, true
}

// List returns backend names, highest priority first.
func (r *Registry) List() []string {
	return r.sortedNames(false)
}

// Available returns available backend names, highest priority first.
func (r *Registry) Available() []string {
	return r.sortedNames(true)
}

// NewSurface tries available backends in priority order and returns the
// first surface created. If all fail, the errors are joined.
func (r *Registry) NewSurface(opts Options) (Surface, error) {
	names := r.Available()
	if len(names) == 0 {
		return nil, ErrNoBackendAvailable
	}
	var errs []error
	for _, name := range names {
		s, err := r.NewSurfaceByName(name, opts)
		if err == nil {
			return s, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// NewSurfaceByName creates a surface with the named backend.
func (r *Registry) NewSurfaceByName(name string, opts Options) (Surface, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !e.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	s, err := e.Factory(opts)
	if err != nil {
		return nil, fmt.Errorf("surface: %s: %w", name, err)
	}
	return s, nil
}

func (r *Registry) sortedNames(onlyAvailable bool) []string {
	r.mu.RLock()
	entries := make([]RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, *e)
	}
	r.mu.RUnlock()

	// Available may be slow; call it outside the lock.
	names := make([]string, 0, len(entries))
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})
	for _, e := range entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		names = append(names, e.Name)
	}
	return names
}

// ErrNoBackendAvailable is returned when no surface backend is registered
// or available.
var ErrNoBackendAvailable = errors.New("surface: no backend available")

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "surface: backend not found: " + e.Name
}

// BackendUnavailableError indicates a registered backend cannot run here.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "surface: backend unavailable: " + e.Name
}

func init() {
	Register("image", 10, func(opts Options) (Surface, error) {
		return NewImageSurface(opts.Width, opts.Height), nil
	}, nil)
	Register("null", 1, func(opts Options) (Surface, error) {
		return NewNullSurface(opts.Width, opts.Height), nil
	}, nil)
}
