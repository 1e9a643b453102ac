package surface

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/promap/frame"
)

func TestImageSurfacePresent(t *testing.T) {
	s := NewImageSurface(4, 2)
	if s.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v", s.Format())
	}

	f := frame.MustNew(4, 2)
	f.Fill(frame.RGBA(1, 0, 0, 1))
	f.Set(3, 1, frame.RGBA(0, 1, 0, 0))
	if err := s.Present(f); err != nil {
		t.Fatalf("Present: %v", err)
	}

	img := s.Snapshot()
	if got := img.RGBAAt(0, 0); got.R != 255 || got.G != 0 || got.A != 255 {
		t.Errorf("pixel (0,0) = %v, want opaque red", got)
	}
	// Transparent content flattens to black.
	if got := img.RGBAAt(3, 1); got.R != 0 || got.G != 0 || got.B != 0 || got.A != 255 {
		t.Errorf("pixel (3,1) = %v, want opaque black", got)
	}
	if s.Presented() != 1 {
		t.Errorf("Presented() = %d", s.Presented())
	}
}

func TestImageSurfaceSnapshotIsCopy(t *testing.T) {
	s := NewImageSurface(2, 2)
	img := s.Snapshot()
	img.Pix[0] = 200
	if s.Snapshot().Pix[0] != 0 {
		t.Error("Snapshot must not alias the surface image")
	}
}

func TestImageSurfaceErrors(t *testing.T) {
	s := NewImageSurface(4, 4)
	if err := s.Present(frame.MustNew(2, 2)); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("size mismatch: err = %v", err)
	}
	if err := s.Present(nil); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("nil frame: err = %v", err)
	}
	_ = s.Close()
	_ = s.Close()
	if err := s.Present(frame.MustNew(4, 4)); !errors.Is(err, ErrClosed) {
		t.Errorf("after close: err = %v", err)
	}
}

func TestImageSurfaceSavePNG(t *testing.T) {
	s := NewImageSurface(3, 3)
	f := frame.MustNew(3, 3)
	f.Fill(frame.RGBA(0, 0, 1, 1))
	if err := s.Present(f); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := s.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 3 {
		t.Errorf("bounds = %v", b)
	}
	_, _, blue, _ := img.At(1, 1).RGBA()
	if blue>>8 != 255 {
		t.Errorf("blue = %d, want 255", blue>>8)
	}
}

func TestNullSurface(t *testing.T) {
	s := NewNullSurface(0, -1)
	if s.Width() != 1 || s.Height() != 1 {
		t.Errorf("size = %dx%d, want 1x1", s.Width(), s.Height())
	}
	if err := s.Present(frame.MustNew(1, 1)); err != nil {
		t.Errorf("Present: %v", err)
	}
	_ = s.Close()
	if err := s.Present(frame.MustNew(1, 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("after close: err = %v", err)
	}
}

func TestNullDeviceHandle(t *testing.T) {
	var h DeviceHandle = NullDeviceHandle{}
	if h.Device() != nil || h.Queue() != nil || h.Adapter() != nil {
		t.Error("NullDeviceHandle must return nil resources")
	}
	if h.SurfaceFormat() != gputypes.TextureFormatUndefined {
		t.Error("SurfaceFormat should be Undefined")
	}
	if HasDevice(h) || HasDevice(nil) {
		t.Error("HasDevice should be false without a device")
	}
}
