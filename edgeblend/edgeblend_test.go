package edgeblend

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"github.com/gogpu/promap/frame"
	"github.com/gogpu/promap/internal/parallel"
)

func TestZoneAlphaContract(t *testing.T) {
	for _, w := range []float32{0.05, 0.1, 0.25, 0.5} {
		if got := ZoneAlpha(0, w, 1); got != 0 {
			t.Errorf("ZoneAlpha(0, %v, 1) = %v, want 0", w, got)
		}
		if got := ZoneAlpha(w, w, 1); got != 1 {
			t.Errorf("ZoneAlpha(%v, %v, 1) = %v, want 1", w, w, got)
		}
	}
}

func TestZoneAlphaRamp(t *testing.T) {
	tests := []struct {
		name        string
		d, w, gamma float32
		want        float32
	}{
		{"linear midpoint", 0.05, 0.1, 1, 0.5},
		{"gamma 2", 0.05, 0.1, 2, 0.25},
		{"beyond width", 0.3, 0.1, 2.2, 1},
		{"negative distance", -0.01, 0.1, 1, 0},
		{"zero width", 0, 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ZoneAlpha(tt.d, tt.w, tt.gamma)
			if math32.Abs(got-tt.want) > 1e-6 {
				t.Errorf("ZoneAlpha(%v, %v, %v) = %v, want %v", tt.d, tt.w, tt.gamma, got, tt.want)
			}
		})
	}
}

func TestEveryZoneHitsContract(t *testing.T) {
	const w = 0.2
	zone := Zone{Enabled: true, Width: w}
	tests := []struct {
		name string
		cfg  Config
		edge func(c Config) float32
		full func(c Config) float32
	}{
		{"left", Config{Left: zone, Gamma: 1}, func(c Config) float32 { return c.Alpha(0, 0.5) }, func(c Config) float32 { return c.Alpha(w, 0.5) }},
		{"right", Config{Right: zone, Gamma: 1}, func(c Config) float32 { return c.Alpha(1, 0.5) }, func(c Config) float32 { return c.Alpha(0.5, 0.5) }},
		{"top", Config{Top: zone, Gamma: 1}, func(c Config) float32 { return c.Alpha(0.5, 0) }, func(c Config) float32 { return c.Alpha(0.5, w) }},
		{"bottom", Config{Bottom: zone, Gamma: 1}, func(c Config) float32 { return c.Alpha(0.5, 1) }, func(c Config) float32 { return c.Alpha(0.5, 0.5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.edge(tt.cfg); got != 0 {
				t.Errorf("alpha at edge = %v, want 0", got)
			}
			if got := tt.full(tt.cfg); got != 1 {
				t.Errorf("alpha at width = %v, want 1", got)
			}
		})
	}
}

func TestCornerZonesMultiply(t *testing.T) {
	c := Config{
		Left:  Zone{Enabled: true, Width: 0.2},
		Top:   Zone{Enabled: true, Width: 0.2},
		Gamma: 1,
	}
	if got := c.Alpha(0.1, 0.1); math32.Abs(got-0.25) > 1e-6 {
		t.Errorf("corner alpha = %v, want 0.25", got)
	}
}

func TestOffsetShiftsRamp(t *testing.T) {
	c := Config{Left: Zone{Enabled: true, Width: 0.2, Offset: 0.05}, Gamma: 1}
	if got := c.Alpha(0.05, 0.5); got != 0 {
		t.Errorf("alpha at offset = %v, want 0", got)
	}
	if got := c.Alpha(0.15, 0.5); math32.Abs(got-0.5) > 1e-6 {
		t.Errorf("alpha mid ramp = %v, want 0.5", got)
	}
}

func TestDisabledZoneIgnored(t *testing.T) {
	c := Config{Left: Zone{Enabled: false, Width: 0.5}, Gamma: 1}
	if c.Active() {
		t.Error("Active() = true with only a disabled zone")
	}
	if got := c.Alpha(0, 0); got != 1 {
		t.Errorf("Alpha = %v, want 1", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", Default(), true},
		{"zero gamma", Config{Gamma: 0}, false},
		{"negative gamma", Config{Gamma: -1}, false},
		{"nan gamma", Config{Gamma: math32.NaN()}, false},
		{"inf width", Config{Gamma: 1, Right: Zone{Width: math32.Inf(1)}}, false},
		{"wide but finite", Config{Gamma: 1, Right: Zone{Enabled: true, Width: 0.9}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNormalizeClamps(t *testing.T) {
	c := Config{
		Left:   Zone{Enabled: true, Width: 0.9, Offset: 0.5},
		Bottom: Zone{Enabled: true, Width: -0.1, Offset: -0.3},
		Gamma:  9,
	}.Normalize()
	if c.Left.Width != MaxWidth || c.Left.Offset != MaxOffset {
		t.Errorf("left = %+v", c.Left)
	}
	if c.Bottom.Width != 0 || c.Bottom.Offset != -MaxOffset {
		t.Errorf("bottom = %+v", c.Bottom)
	}
	if c.Gamma != MaxGamma {
		t.Errorf("gamma = %v, want %v", c.Gamma, float32(MaxGamma))
	}
}

func TestApplyOnlyTouchesAlpha(t *testing.T) {
	f := frame.MustNew(10, 4)
	f.Fill(frame.RGBA(0.2, 0.4, 0.6, 1))
	c := Config{Left: Zone{Enabled: true, Width: 0.5}, Gamma: 1}

	pool := parallel.NewPool(2)
	defer pool.Close()
	c.Apply(f, pool)

	for x := 0; x < 10; x++ {
		px := f.At(x, 2)
		if px.R != 0.2 || px.G != 0.4 || px.B != 0.6 {
			t.Fatalf("pixel %d color changed to %v", x, px)
		}
		want := c.Alpha((float32(x)+0.5)/10, 0.5)
		if math32.Abs(px.A-want) > 1e-6 {
			t.Errorf("pixel %d alpha = %v, want %v", x, px.A, want)
		}
	}
	if f.At(9, 0).A != 1 {
		t.Error("pixel outside zone lost alpha")
	}
}

func TestComplementaryOverlapSumsToOne(t *testing.T) {
	// Two outputs overlapping by 0.2 of the canvas: left output's right zone
	// and right output's left zone see the same canvas positions.
	left := Config{Right: Zone{Enabled: true, Width: 0.2}, Gamma: 1}
	right := Config{Left: Zone{Enabled: true, Width: 0.2}, Gamma: 1}
	for i := 0; i <= 10; i++ {
		s := float32(i) / 10 * 0.2
		a := left.Alpha(0.8+s, 0.5)
		b := right.Alpha(s, 0.5)
		if math32.Abs(a+b-1) > 1e-5 {
			t.Errorf("overlap position %v: %v + %v != 1", s, a, b)
		}
	}
}
