package output

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/promap/calibration"
	"github.com/gogpu/promap/canvas"
	"github.com/gogpu/promap/edgeblend"
	"github.com/gogpu/promap/frame"
)

func TestAddValidates(t *testing.T) {
	tests := []struct {
		name string
		mod  func(o *Output)
	}{
		{"zero width", func(o *Output) { o.Resolution.Width = 0 }},
		{"too wide", func(o *Output) { o.Resolution.Width = frame.MaxDimension + 1 }},
		{"too tall", func(o *Output) { o.Resolution.Height = 20000 }},
		{"region outside", func(o *Output) { o.Region = canvas.Region{X: 0.8, Width: 0.5, Height: 1} }},
		{"region empty", func(o *Output) { o.Region = canvas.Region{Width: 0, Height: 1} }},
		{"blend gamma", func(o *Output) { o.EdgeBlend.Gamma = 0 }},
		{"calibration gamma", func(o *Output) { o.Calibration.GammaR = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			o := New("x", 1920, 1080)
			tt.mod(&o)
			_, err := r.Add(o)
			assert.ErrorIs(t, err, ErrInvalidOutput)
			assert.Zero(t, r.Len())
		})
	}
}

func TestAddNormalizes(t *testing.T) {
	r := NewRegistry()
	o := New("", 1280, 720)
	o.EdgeBlend.Left = edgeblend.Zone{Enabled: true, Width: 0.8}
	o.Calibration.Saturation = 5
	id, err := r.Add(o)
	require.NoError(t, err)

	got, ok := r.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Output 1", got.Name)
	assert.Equal(t, Active, got.State)
	assert.Equal(t, float32(edgeblend.MaxWidth), got.EdgeBlend.Left.Width)
	assert.Equal(t, float32(calibration.MaxSaturation), got.Calibration.Saturation)
}

func TestConfigureKeepsPriorStateOnError(t *testing.T) {
	r := NewRegistry()
	id, err := r.Add(New("a", 800, 600))
	require.NoError(t, err)

	err = r.SetRegion(id, canvas.Region{X: 0.5, Width: 0.75, Height: 1})
	assert.ErrorIs(t, err, ErrInvalidOutput)
	got, _ := r.Get(id)
	assert.Equal(t, canvas.Full(), got.Region)
	assert.Equal(t, uint64(1), got.Revision)

	require.NoError(t, r.SetRegion(id, canvas.Region{X: 0.5, Width: 0.5, Height: 1}))
	got, _ = r.Get(id)
	assert.Equal(t, 0.5, got.Region.X)
	assert.Equal(t, uint64(2), got.Revision)

	cal := calibration.Default()
	cal.Brightness = 0.2
	require.NoError(t, r.SetCalibration(id, cal))
	require.NoError(t, r.SetEdgeBlend(id, edgeblend.Config{Gamma: 2.2}))
	got, _ = r.Get(id)
	assert.Equal(t, float32(0.2), got.Calibration.Brightness)
	assert.Equal(t, float32(2.2), got.EdgeBlend.Gamma)

	boom := errors.New("boom")
	assert.ErrorIs(t, r.Configure(id, func(*Output) error { return boom }), boom)
	assert.ErrorIs(t, r.SetRegion(99, canvas.Full()), ErrUnknownOutput)
}

func TestLifecycle(t *testing.T) {
	r := NewRegistry()
	a, _ := r.Add(New("a", 640, 480))
	b, _ := r.Add(New("b", 640, 480))

	assert.True(t, r.MarkDegraded(a, "surface lost"))
	assert.False(t, r.MarkDegraded(a, "again"))
	got, _ := r.Get(a)
	assert.Equal(t, Degraded, got.State)
	assert.Equal(t, "surface lost", got.Fault)
	assert.Len(t, r.Schedulable(), 1)

	require.NoError(t, r.Restore(a))
	assert.ErrorIs(t, r.Restore(a), ErrInvalidState)
	assert.Len(t, r.Schedulable(), 2)

	require.NoError(t, r.Remove(b))
	require.NoError(t, r.Remove(b))
	assert.Equal(t, []ID{b}, r.PendingRemovals())
	assert.Len(t, r.Schedulable(), 1)
	assert.ErrorIs(t, r.SetRegion(b, canvas.Full()), ErrInvalidState)
	assert.ErrorIs(t, r.Finalize(a), ErrInvalidState)

	require.NoError(t, r.Finalize(b))
	_, ok := r.Get(b)
	assert.False(t, ok)
	assert.Empty(t, r.PendingRemovals())
	assert.ErrorIs(t, r.Remove(b), ErrUnknownOutput)
	assert.Equal(t, 1, r.Len())
}

func TestCloneIsIndependent(t *testing.T) {
	r := NewRegistry()
	id, _ := r.Add(New("a", 640, 480))
	c := r.Clone()
	require.NoError(t, r.Remove(id))
	got, _ := c.Get(id)
	assert.Equal(t, Active, got.State)
}

func TestInsert(t *testing.T) {
	r := NewRegistry()
	o := New("restored", 640, 480)
	o.ID = 7
	require.NoError(t, r.Insert(o))
	assert.ErrorIs(t, r.Insert(o), ErrInvalidOutput)
	id, err := r.Add(New("next", 640, 480))
	require.NoError(t, err)
	assert.Equal(t, ID(8), id)
}

// =============================================================================
// Arrays
// =============================================================================

func TestCreateArrayTiling(t *testing.T) {
	r := NewRegistry()
	ids, err := r.CreateArray(2, 2, Resolution{Width: 1920, Height: 1080}, 0.1)
	require.NoError(t, err)
	require.Len(t, ids, 4)

	outs := make([]Output, len(ids))
	for i, id := range ids {
		outs[i], _ = r.Get(id)
		assert.NoError(t, outs[i].Region.Validate())
		assert.Equal(t, Resolution{Width: 1920, Height: 1080}, outs[i].Resolution)
	}

	const eps = 1e-9
	tl, tr, bl, br := outs[0].Region, outs[1].Region, outs[2].Region, outs[3].Region

	// Union covers the unit square.
	assert.InDelta(t, 0, tl.X, eps)
	assert.InDelta(t, 0, tl.Y, eps)
	assert.InDelta(t, 1, br.X+br.Width, eps)
	assert.InDelta(t, 1, br.Y+br.Height, eps)

	// Neighbours overlap by exactly 10% of a tile.
	assert.InDelta(t, 0.1*tl.Width, tl.X+tl.Width-tr.X, eps)
	assert.InDelta(t, 0.1*tl.Height, tl.Y+tl.Height-bl.Y, eps)

	// Tile width is 1/(2-0.1).
	assert.InDelta(t, 1/1.9, tl.Width, eps)

	zone := edgeblend.Zone{Enabled: true, Width: 0.1}
	none := edgeblend.Zone{}
	assert.Equal(t, zone, outs[0].EdgeBlend.Right)
	assert.Equal(t, zone, outs[1].EdgeBlend.Left)
	assert.Equal(t, zone, outs[0].EdgeBlend.Bottom)
	assert.Equal(t, zone, outs[2].EdgeBlend.Top)
	assert.Equal(t, zone, outs[3].EdgeBlend.Left)
	assert.Equal(t, zone, outs[3].EdgeBlend.Top)
	assert.Equal(t, none, outs[0].EdgeBlend.Left)
	assert.Equal(t, none, outs[0].EdgeBlend.Top)
	assert.Equal(t, none, outs[3].EdgeBlend.Right)
	assert.Equal(t, none, outs[3].EdgeBlend.Bottom)
}

func TestArrayLayoutCoversEveryPoint(t *testing.T) {
	regions, err := ArrayLayout(3, 4, 0.15)
	require.NoError(t, err)
	for i := 0; i <= 20; i++ {
		for j := 0; j <= 20; j++ {
			x, y := float64(i)/20, float64(j)/20
			covered := false
			for _, reg := range regions {
				if x >= reg.X-1e-9 && x <= reg.X+reg.Width+1e-9 && y >= reg.Y-1e-9 && y <= reg.Y+reg.Height+1e-9 {
					covered = true
					break
				}
			}
			assert.True(t, covered, "point (%v, %v) not covered", x, y)
		}
	}
}

func TestCreateArrayRejects(t *testing.T) {
	r := NewRegistry()
	_, err := r.CreateArray(0, 2, Resolution{Width: 10, Height: 10}, 0.1)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	_, err = r.CreateArray(1, 2, Resolution{Width: 10, Height: 10}, 0.6)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	_, err = r.CreateArray(1, 2, Resolution{Width: 10, Height: 10}, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidOutput)
	_, err = r.CreateArray(1, 2, Resolution{}, 0.1)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Zero(t, r.Len())
}

func TestCreateArraySingleTile(t *testing.T) {
	r := NewRegistry()
	ids, err := r.CreateArray(1, 1, Resolution{Width: 10, Height: 10}, 0.2)
	require.NoError(t, err)
	o, _ := r.Get(ids[0])
	assert.Equal(t, canvas.Full(), o.Region)
	assert.False(t, o.EdgeBlend.Active())
}
