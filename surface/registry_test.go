package surface

import (
	"errors"
	"testing"
)

func imageFactory(opts Options) (Surface, error) {
	return NewImageSurface(opts.Width, opts.Height), nil
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("test", 50, imageFactory, nil)

	entry, ok := r.Get("test")
	if !ok {
		t.Fatal("registered backend not found")
	}
	if entry.Name != "test" {
		t.Errorf("Name = %s, want test", entry.Name)
	}
	if entry.Priority != 50 {
		t.Errorf("Priority = %d, want 50", entry.Priority)
	}
	if !entry.Available() {
		t.Error("backend should be available (nil Available func)")
	}
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register("temp", 10, imageFactory, nil)
	r.Unregister("temp")
	if _, ok := r.Get("temp"); ok {
		t.Error("backend should not exist after unregister")
	}
}

func TestRegistryPriorityOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("low", 1, imageFactory, nil)
	r.Register("high", 100, imageFactory, nil)
	r.Register("mid", 50, imageFactory, nil)
	r.Register("off", 200, imageFactory, func() bool { return false })

	got := r.List()
	want := []string{"off", "high", "mid", "low"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List() = %v, want %v", got, want)
		}
	}
	if avail := r.Available(); len(avail) != 3 || avail[0] != "high" {
		t.Errorf("Available() = %v", avail)
	}
}

func TestRegistryNewSurfaceFallsBack(t *testing.T) {
	r := NewRegistry()
	r.Register("broken", 100, func(Options) (Surface, error) {
		return nil, errors.New("no display")
	}, nil)
	r.Register("image", 10, imageFactory, nil)

	s, err := r.NewSurface(Options{Width: 32, Height: 16})
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	if _, ok := s.(*ImageSurface); !ok {
		t.Errorf("got %T, want *ImageSurface", s)
	}
	if s.Width() != 32 || s.Height() != 16 {
		t.Errorf("size = %dx%d", s.Width(), s.Height())
	}
}

func TestRegistryErrors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.NewSurface(Options{}); !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("empty registry: err = %v", err)
	}

	_, err := r.NewSurfaceByName("missing", Options{})
	var nf *BackendNotFoundError
	if !errors.As(err, &nf) || nf.Name != "missing" {
		t.Errorf("missing backend: err = %v", err)
	}

	r.Register("off", 1, imageFactory, func() bool { return false })
	_, err = r.NewSurfaceByName("off", Options{})
	var ua *BackendUnavailableError
	if !errors.As(err, &ua) {
		t.Errorf("unavailable backend: err = %v", err)
	}
}

func TestDefaultRegistryBuiltins(t *testing.T) {
	names := List()
	has := map[string]bool{}
	for _, n := range names {
		has[n] = true
	}
	if !has["image"] || !has["null"] {
		t.Errorf("builtins missing from %v", names)
	}
}
