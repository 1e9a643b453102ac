package frame

import (
	"errors"
	"image"
	stdcolor "image/color"
	"math"
	"testing"
)

func approx(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		err  error
	}{
		{"ok", 4, 3, nil},
		{"zero width", 0, 3, ErrInvalidSize},
		{"negative height", 4, -1, ErrInvalidSize},
		{"too large", MaxDimension + 1, 1, ErrSizeTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.w, tt.h)
			if !errors.Is(err, tt.err) {
				t.Fatalf("New(%d, %d) error = %v, want %v", tt.w, tt.h, err, tt.err)
			}
			if err == nil && len(f.Pix) != tt.w*tt.h*4 {
				t.Errorf("len(Pix) = %d, want %d", len(f.Pix), tt.w*tt.h*4)
			}
		})
	}
}

func TestAtSet(t *testing.T) {
	f := MustNew(3, 2)
	c := RGBA(0.1, 0.2, 0.3, 0.4)
	f.Set(2, 1, c)
	if got := f.At(2, 1); got != c {
		t.Errorf("At(2, 1) = %v, want %v", got, c)
	}
	f.Set(5, 5, c)
	if got := f.At(-1, 0); got != Transparent {
		t.Errorf("At(-1, 0) = %v, want transparent", got)
	}
	f.Clear()
	if got := f.At(2, 1); got != Transparent {
		t.Errorf("after Clear At(2, 1) = %v", got)
	}
}

func TestSampleNearest(t *testing.T) {
	f := MustNew(2, 2)
	f.Set(0, 0, RGBA(1, 0, 0, 1))
	f.Set(1, 0, RGBA(0, 1, 0, 1))
	f.Set(0, 1, RGBA(0, 0, 1, 1))
	f.Set(1, 1, RGBA(1, 1, 1, 1))

	tests := []struct {
		u, v float64
		want Color
	}{
		{0.1, 0.1, RGBA(1, 0, 0, 1)},
		{0.9, 0.1, RGBA(0, 1, 0, 1)},
		{0.1, 0.9, RGBA(0, 0, 1, 1)},
		{1.5, 1.5, RGBA(1, 1, 1, 1)},
		{-3, -3, RGBA(1, 0, 0, 1)},
	}
	for _, tt := range tests {
		if got := f.SampleNearest(tt.u, tt.v); got != tt.want {
			t.Errorf("SampleNearest(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
		}
	}
}

func TestSampleBilinear(t *testing.T) {
	f := MustNew(2, 1)
	f.Set(0, 0, RGBA(0, 0, 0, 1))
	f.Set(1, 0, RGBA(1, 1, 1, 1))

	// Pixel centers reproduce the texel exactly.
	if got := f.SampleBilinear(0.25, 0.5); got != RGBA(0, 0, 0, 1) {
		t.Errorf("left center = %v", got)
	}
	if got := f.SampleBilinear(0.75, 0.5); got != RGBA(1, 1, 1, 1) {
		t.Errorf("right center = %v", got)
	}
	mid := f.SampleBilinear(0.5, 0.5)
	if !approx(mid.R, 0.5, 1e-6) || !approx(mid.A, 1, 1e-6) {
		t.Errorf("midpoint = %v, want gray", mid)
	}
}

func TestSampleBilinearIgnoresTransparentColor(t *testing.T) {
	f := MustNew(2, 1)
	f.Set(0, 0, RGBA(1, 0, 0, 1))
	f.Set(1, 0, RGBA(0, 1, 0, 0))
	got := f.SampleBilinear(0.5, 0.5)
	if !approx(got.R, 1, 1e-6) || got.G != 0 || !approx(got.A, 0.5, 1e-6) {
		t.Errorf("SampleBilinear = %v, want red at half alpha", got)
	}
}

func TestPool(t *testing.T) {
	p := NewPool(1)
	f, err := p.Get(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	f.Fill(RGBA(1, 1, 1, 1))
	p.Put(f)
	p.Put(MustNew(4, 4))
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (limit)", p.Len())
	}
	g, _ := p.Get(4, 4)
	if g != f {
		t.Error("pool did not reuse frame")
	}
	if g.At(0, 0) != Transparent {
		t.Error("reused frame not cleared")
	}
}

func TestImageRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(0, 0, stdcolor.NRGBA{R: 255, G: 128, B: 0, A: 255})
	src.SetNRGBA(2, 1, stdcolor.NRGBA{R: 10, G: 20, B: 30, A: 255})

	f, err := FromImage(src)
	if err != nil {
		t.Fatal(err)
	}
	if f.Width != 3 || f.Height != 2 {
		t.Fatalf("size = %dx%d", f.Width, f.Height)
	}
	if c := f.At(0, 0); !approx(c.R, 1, 1e-6) || !approx(c.G, 0.2158605, 1e-4) {
		t.Errorf("decoded pixel = %v", c)
	}

	out := f.ToRGBA()
	for _, p := range []image.Point{{0, 0}, {2, 1}} {
		want := src.NRGBAAt(p.X, p.Y)
		got := out.RGBAAt(p.X, p.Y)
		if absDiff(got.R, want.R) > 1 || absDiff(got.G, want.G) > 1 || absDiff(got.B, want.B) > 1 || got.A != 255 {
			t.Errorf("pixel %v = %v, want %v", p, got, want)
		}
	}
}

func TestToRGBAFlattensOntoBlack(t *testing.T) {
	f := MustNew(1, 1)
	f.Set(0, 0, RGBA(1, 1, 1, 0))
	if got := f.ToRGBA().RGBAAt(0, 0); got != (stdcolor.RGBA{A: 255}) {
		t.Errorf("transparent white = %v, want opaque black", got)
	}
}

func TestFromImageScaled(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	f, err := FromImageScaled(src, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if c := f.At(1, 1); !approx(c.R, 1, 1e-6) || !approx(c.A, 1, 1e-6) {
		t.Errorf("scaled pixel = %v, want white", c)
	}
}

func TestResize(t *testing.T) {
	f := MustNew(4, 4)
	f.Fill(RGBA(0.5, 0.25, 0.125, 1))
	r, err := f.Resize(2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width != 2 || r.Height != 3 {
		t.Fatalf("size = %dx%d", r.Width, r.Height)
	}
	if c := r.At(1, 2); !approx(c.R, 0.5, 1e-6) || !approx(c.B, 0.125, 1e-6) {
		t.Errorf("resized pixel = %v", c)
	}
}

func absDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}
