// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nowindow

package window

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/promap/frame"
	"github.com/gogpu/promap/surface"
)

// Errors returned by the window backend.
var (
	ErrWindowInUse = errors.New("window: a window surface already exists")
	ErrNoWindow    = errors.New("window: no window surface was created")
)

// Priority is the registry priority of the window backend.
const Priority = 100

// claimed is the surface owning the process window.
var claimed atomic.Pointer[Surface]

func init() {
	surface.Register("window", Priority, func(opts surface.Options) (surface.Surface, error) {
		return New(opts)
	}, func() bool { return claimed.Load() == nil })
}

// Surface is a window showing the frames presented to it.
//
// Present copies the frame into a staging buffer; the Ebitengine draw loop
// uploads the newest buffer on its own schedule.
type Surface struct {
	width, height int
	title         string
	fullscreen    bool

	mu      sync.Mutex
	pixels  []byte
	dirty   bool
	image   *ebiten.Image
	closed  atomic.Bool
	stopped chan struct{}
}

var _ surface.Surface = (*Surface)(nil)

// New claims the process window for an output of the given size.
func New(opts surface.Options) (*Surface, error) {
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		return nil, errors.New("window: invalid size")
	}
	s := &Surface{
		width:      w,
		height:     h,
		title:      opts.Title,
		fullscreen: opts.Fullscreen,
		pixels:     make([]byte, w*h*4),
		stopped:    make(chan struct{}),
	}
	if !claimed.CompareAndSwap(nil, s) {
		return nil, ErrWindowInUse
	}
	return s, nil
}

// Width returns the output width.
func (s *Surface) Width() int { return s.width }

// Height returns the output height.
func (s *Surface) Height() int { return s.height }

// Format returns TextureFormatRGBA8Unorm.
func (s *Surface) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }

// Present stages f for the next draw.
func (s *Surface) Present(f *frame.Frame) error {
	if s.closed.Load() {
		return surface.ErrClosed
	}
	if f == nil || f.Width != s.width || f.Height != s.height {
		return surface.ErrSizeMismatch
	}
	s.mu.Lock()
	f.EncodeRGBA(s.pixels)
	s.dirty = true
	s.mu.Unlock()
	return nil
}

// Close ends the window loop and releases the process window.
func (s *Surface) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		claimed.CompareAndSwap(s, nil)
	}
	return nil
}

// Done is closed when the window loop exits.
func (s *Surface) Done() <-chan struct{} { return s.stopped }

// Update implements ebiten.Game.
func (s *Surface) Update() error {
	if s.closed.Load() || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	return nil
}

// Draw implements ebiten.Game.
func (s *Surface) Draw(screen *ebiten.Image) {
	if s.image == nil {
		s.image = ebiten.NewImage(s.width, s.height)
	}
	s.mu.Lock()
	if s.dirty {
		s.image.WritePixels(s.pixels)
		s.dirty = false
	}
	s.mu.Unlock()
	screen.DrawImage(s.image, nil)
}

// Layout implements ebiten.Game. The output is scaled to the window.
func (s *Surface) Layout(int, int) (int, int) {
	return s.width, s.height
}

// Run shows the claimed window and blocks until it is closed, either by
// the user or by Close. It must be called from the main goroutine.
func Run() error {
	s := claimed.Load()
	if s == nil {
		return ErrNoWindow
	}
	defer close(s.stopped)

	title := s.title
	if title == "" {
		title = "promap"
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(s.width, s.height)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	ebiten.SetFullscreen(s.fullscreen)

	err := ebiten.RunGame(s)
	_ = s.Close()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
