package promap

import (
	"context"
	"errors"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/promap/blend"
	"github.com/gogpu/promap/calibration"
	"github.com/gogpu/promap/canvas"
	"github.com/gogpu/promap/edgeblend"
	"github.com/gogpu/promap/frame"
	"github.com/gogpu/promap/geom"
	"github.com/gogpu/promap/mapping"
	"github.com/gogpu/promap/media"
	"github.com/gogpu/promap/output"
	"github.com/gogpu/promap/surface"
)

var (
	red   = frame.RGBA(1, 0, 0, 1)
	green = frame.RGBA(0, 1, 0, 1)
)

// testSurface wraps an image surface with hooks.
type testSurface struct {
	*surface.ImageSurface
	name    string
	fail    error
	delay   time.Duration
	onFrame func()

	mu     sync.Mutex
	closed bool
}

func (s *testSurface) Present(f *frame.Frame) error {
	if s.onFrame != nil {
		s.onFrame()
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.fail != nil {
		return s.fail
	}
	return s.ImageSurface.Present(f)
}

func (s *testSurface) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.ImageSurface.Close()
}

func (s *testSurface) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// surfaceRecorder is a SurfaceFactory keeping every surface it created.
type surfaceRecorder struct {
	mu      sync.Mutex
	created []*testSurface
	setup   func(o output.Output, s *testSurface)
}

func (r *surfaceRecorder) factory(o output.Output) (surface.Surface, error) {
	s := &testSurface{
		ImageSurface: surface.NewImageSurface(int(o.Resolution.Width), int(o.Resolution.Height)),
		name:         o.Name,
	}
	if r.setup != nil {
		r.setup(o, s)
	}
	r.mu.Lock()
	r.created = append(r.created, s)
	r.mu.Unlock()
	return s, nil
}

func (r *surfaceRecorder) byName(name string) []*testSurface {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*testSurface
	for _, s := range r.created {
		if s.name == name {
			out = append(out, s)
		}
	}
	return out
}

func newTestEngine(t *testing.T, rec *surfaceRecorder, opts ...Option) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = 2
	cfg.GPUPostProcess = false
	cfg.SyncTolerance = 0
	all := append([]Option{WithConfig(cfg), WithSurfaceFactory(rec.factory)}, opts...)
	e, err := New(all...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func publishSolid(t *testing.T, e *Engine, ref media.ContentRef, c frame.Color) {
	t.Helper()
	f := frame.MustNew(4, 4)
	f.Fill(c)
	e.Media().Publish(ref, f)
}

func pixel(s *testSurface, x, y int) color.RGBA {
	return s.Snapshot().RGBAAt(x, y)
}

func tick(t *testing.T, e *Engine) TickReport {
	t.Helper()
	rep, err := e.Tick(context.Background())
	require.NoError(t, err)
	return rep
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickRate = 0
	_, err := New(WithConfig(cfg))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestTickRendersPublishedContent(t *testing.T) {
	rec := &surfaceRecorder{}
	e := newTestEngine(t, rec)

	_, err := e.AddOutput(output.New("main", 8, 8))
	require.NoError(t, err)
	_, err = e.AddMapping(mapping.New("wall", "cam"))
	require.NoError(t, err)
	publishSolid(t, e, "cam", red)

	rep := tick(t, e)
	require.Len(t, rep.Outputs, 1)
	assert.NoError(t, rep.Outputs[0].Err)
	assert.Equal(t, 1, rep.Outputs[0].Stats.Drawn)
	assert.False(t, rep.Outputs[0].PresentedAt.IsZero())
	assert.Empty(t, rep.Warnings)

	s := rec.byName("main")
	require.Len(t, s, 1)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, pixel(s[0], 0, 0))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, pixel(s[0], 7, 7))

	rep = tick(t, e)
	assert.Equal(t, uint64(2), rep.Tick)
	assert.Len(t, rec.byName("main"), 1, "surface is reused")
}

func TestTickNeverDeliveredContentWarns(t *testing.T) {
	rec := &surfaceRecorder{}
	e := newTestEngine(t, rec)
	_, err := e.AddOutput(output.New("main", 4, 4))
	require.NoError(t, err)
	id, err := e.AddMapping(mapping.New("wall", "missing"))
	require.NoError(t, err)

	rep := tick(t, e)
	require.Len(t, rep.Warnings, 1)
	var w *StaleContentWarning
	require.ErrorAs(t, rep.Warnings[0], &w)
	assert.Equal(t, id, w.Mapping)
	assert.False(t, w.Held)
	assert.Equal(t, 1, rep.Outputs[0].Stats.Skipped)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, pixel(rec.byName("main")[0], 1, 1))
}

// gatedPipeline delivers its texture only while open.
type gatedPipeline struct {
	mu   sync.Mutex
	open bool
	tex  *media.Texture
}

func (p *gatedPipeline) GetCurrentTexture(media.ContentRef) (*media.Texture, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return nil, false
	}
	return p.tex.Retain(), true
}

func (p *gatedPipeline) setOpen(open bool) {
	p.mu.Lock()
	p.open = open
	p.mu.Unlock()
}

func TestTickHoldsLastFrame(t *testing.T) {
	f := frame.MustNew(2, 2)
	f.Fill(green)
	p := &gatedPipeline{open: true, tex: media.NewTexture("cam", f, nil)}

	rec := &surfaceRecorder{}
	e := newTestEngine(t, rec, WithPipeline(p))
	_, err := e.AddOutput(output.New("main", 4, 4))
	require.NoError(t, err)
	_, err = e.AddMapping(mapping.New("wall", "cam"))
	require.NoError(t, err)

	rep := tick(t, e)
	assert.Empty(t, rep.Warnings)

	p.setOpen(false)
	rep = tick(t, e)
	require.Len(t, rep.Warnings, 1)
	var w *StaleContentWarning
	require.ErrorAs(t, rep.Warnings[0], &w)
	assert.True(t, w.Held)
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, pixel(rec.byName("main")[0], 2, 2), "held frame is shown")
}

func TestFailureIsolation(t *testing.T) {
	rec := &surfaceRecorder{setup: func(o output.Output, s *testSurface) {
		if o.Name == "bad" {
			s.fail = errors.New("device lost")
		}
	}}
	e := newTestEngine(t, rec)
	good, err := e.AddOutput(output.New("good", 4, 4))
	require.NoError(t, err)
	bad, err := e.AddOutput(output.New("bad", 4, 4))
	require.NoError(t, err)
	_, err = e.AddMapping(mapping.New("wall", "cam"))
	require.NoError(t, err)
	publishSolid(t, e, "cam", red)

	rep := tick(t, e)
	require.Len(t, rep.Outputs, 2)
	assert.NoError(t, rep.Outputs[0].Err)
	var re *ResourceError
	require.ErrorAs(t, rep.Outputs[1].Err, &re)
	assert.Equal(t, bad, re.Output)
	assert.Len(t, rep.Failed(), 1)

	o, ok := e.Output(bad)
	require.True(t, ok)
	assert.Equal(t, output.Degraded, o.State)
	assert.Contains(t, o.Fault, "device lost")
	assert.True(t, rec.byName("bad")[0].isClosed())

	o, _ = e.Output(good)
	assert.Equal(t, output.Active, o.State)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, pixel(rec.byName("good")[0], 0, 0))

	rep = tick(t, e)
	require.Len(t, rep.Outputs, 1, "degraded output is skipped")
	assert.Equal(t, good, rep.Outputs[0].Output)

	require.NoError(t, e.RestoreOutput(bad))
	rep = tick(t, e)
	assert.Len(t, rep.Outputs, 2)
	assert.Len(t, rec.byName("bad"), 2, "restored output gets a new surface")
}

func TestRemovalDeferredUntilFramePresented(t *testing.T) {
	var e *Engine
	var victim output.ID
	rec := &surfaceRecorder{setup: func(o output.Output, s *testSurface) {
		if o.Name == "victim" {
			s.onFrame = func() {
				// Removal requested while this output's frame is in flight.
				assert.NoError(t, e.RemoveOutput(victim))
			}
		}
	}}
	e = newTestEngine(t, rec)
	var err error
	victim, err = e.AddOutput(output.New("victim", 4, 4))
	require.NoError(t, err)
	_, err = e.AddOutput(output.New("other", 4, 4))
	require.NoError(t, err)

	rep := tick(t, e)
	require.Len(t, rep.Outputs, 2)
	assert.NoError(t, rep.Outputs[0].Err)
	assert.False(t, rep.Outputs[0].PresentedAt.IsZero(), "in-flight frame completes")
	assert.Equal(t, []output.ID{victim}, rep.Removed)

	s := rec.byName("victim")[0]
	assert.True(t, s.isClosed())
	assert.Equal(t, uint64(1), s.Presented())

	_, ok := e.Output(victim)
	assert.False(t, ok)
	_, ok = e.Surface(victim)
	assert.False(t, ok)

	rep = tick(t, e)
	assert.Len(t, rep.Outputs, 1)
	assert.ErrorIs(t, e.RemoveOutput(victim), ErrUnknownOutput)
}

func TestSyncDriftWarning(t *testing.T) {
	rec := &surfaceRecorder{setup: func(o output.Output, s *testSurface) {
		if o.Name == "slow" {
			s.delay = 30 * time.Millisecond
		}
	}}
	cfg := DefaultConfig()
	cfg.GPUPostProcess = false
	cfg.SyncTolerance = Duration(5 * time.Millisecond)
	e := newTestEngine(t, rec, WithConfig(cfg))

	_, err := e.AddOutput(output.New("fast", 4, 4))
	require.NoError(t, err)
	slow, err := e.AddOutput(output.New("slow", 4, 4))
	require.NoError(t, err)

	rep := tick(t, e)
	require.Len(t, rep.Warnings, 1)
	var w *SyncDriftWarning
	require.ErrorAs(t, rep.Warnings[0], &w)
	assert.Equal(t, slow, w.Output)
	assert.Greater(t, w.Drift, 5*time.Millisecond)

	for _, r := range rep.Outputs {
		assert.NoError(t, r.Err, "drift does not degrade outputs")
	}
}

func TestSoloOverride(t *testing.T) {
	e := newTestEngine(t, &surfaceRecorder{})
	a, err := e.AddMapping(mapping.New("a", "x"))
	require.NoError(t, err)
	b, err := e.AddMapping(mapping.New("b", "y"))
	require.NoError(t, err)

	require.NoError(t, e.SetSolo(b, true))
	vis := e.VisibleMappings()
	require.Len(t, vis, 1)
	assert.Equal(t, b, vis[0].ID)

	require.NoError(t, e.SetSolo(b, false))
	assert.Len(t, e.VisibleMappings(), 2)

	require.NoError(t, e.SetDepth(a, 5))
	vis = e.VisibleMappings()
	assert.Equal(t, []mapping.ID{b, a}, []mapping.ID{vis[0].ID, vis[1].ID})
}

func TestMutationsTakeEffectAtNextTick(t *testing.T) {
	rec := &surfaceRecorder{}
	e := newTestEngine(t, rec)
	_, err := e.AddOutput(output.New("main", 4, 4))
	require.NoError(t, err)
	id, err := e.AddMapping(mapping.New("wall", "cam"))
	require.NoError(t, err)
	publishSolid(t, e, "cam", red)
	tick(t, e)

	require.NoError(t, e.SetVisible(id, false))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, pixel(rec.byName("main")[0], 0, 0), "not applied before the tick")

	rep := tick(t, e)
	assert.Equal(t, 0, rep.Outputs[0].Stats.Drawn)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, pixel(rec.byName("main")[0], 0, 0))
}

func TestConfigurationErrors(t *testing.T) {
	e := newTestEngine(t, &surfaceRecorder{})
	id, err := e.AddOutput(output.New("main", 4, 4))
	require.NoError(t, err)
	before, _ := e.Output(id)

	eb := edgeblend.Default()
	eb.Gamma = 0
	err = e.SetEdgeBlend(id, eb)
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "SetEdgeBlend", ce.Op)
	assert.ErrorIs(t, err, edgeblend.ErrInvalidConfig)
	after, _ := e.Output(id)
	assert.Equal(t, before, after, "state unchanged")

	assert.ErrorIs(t, e.SetCalibration(99, calibration.Default()), ErrUnknownOutput)
	assert.ErrorIs(t, e.SetOpacity(99, 1), ErrUnknownMapping)
	assert.Error(t, e.SetOutputRegion(id, canvas.Region{X: 0.5, Y: 0, Width: 1, Height: 1}))
	assert.Error(t, e.ResizeCanvas(0, 10))

	_, err = e.AddOutput(output.New("zero", 0, 10))
	require.ErrorAs(t, err, &ce)
}

func TestLockedMappingRejectsGeometry(t *testing.T) {
	e := newTestEngine(t, &surfaceRecorder{})
	id, err := e.AddMapping(mapping.New("wall", "cam"))
	require.NoError(t, err)
	require.NoError(t, e.SetLocked(id, true))

	corners := [4]geom.Vec2{{X: 0.1, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	assert.ErrorIs(t, e.SetKeystone(id, corners), geom.ErrLockedMesh)
	assert.ErrorIs(t, e.SetMesh(id, geom.NewGrid(2, 2)), geom.ErrLockedMesh)
	assert.ErrorIs(t, e.MoveVertex(id, 0, geom.V2(0.2, 0.2)), geom.ErrLockedMesh)

	require.NoError(t, e.SetOpacity(id, 2), "non-geometric edits stay allowed")
	m, _ := e.Mapping(id)
	assert.Equal(t, float32(1), m.Opacity)

	require.NoError(t, e.SetLocked(id, false))
	require.NoError(t, e.SetKeystone(id, corners))
	m, _ = e.Mapping(id)
	assert.InDelta(t, 0.1, m.Mesh.Vertices[0].Position.X, 1e-12)
}

func TestConfigureMappingRespectsLock(t *testing.T) {
	e := newTestEngine(t, &surfaceRecorder{})
	id, err := e.AddMapping(mapping.New("wall", "cam"))
	require.NoError(t, err)
	require.NoError(t, e.SetLocked(id, true))
	before, _ := e.Mapping(id)

	err = e.ConfigureMapping(id, func(m *mapping.Mapping) error {
		m.Mesh.Vertices[0].Position = geom.V2(0.4, 0.4)
		return nil
	})
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, geom.ErrLockedMesh)
	err = e.ConfigureMapping(id, func(m *mapping.Mapping) error {
		m.Mesh = geom.NewGrid(3, 3)
		return nil
	})
	assert.ErrorIs(t, err, geom.ErrLockedMesh)

	m, _ := e.Mapping(id)
	assert.Equal(t, before.Mesh.Vertices, m.Mesh.Vertices)
	assert.Equal(t, geom.MeshQuad, m.Mesh.Type)

	require.NoError(t, e.ConfigureMapping(id, func(m *mapping.Mapping) error {
		m.Opacity = 0.5
		return nil
	}))
	require.NoError(t, e.ConfigureMapping(id, func(m *mapping.Mapping) error {
		m.Locked = false
		m.Mesh = geom.NewGrid(3, 3)
		return nil
	}))
	m, _ = e.Mapping(id)
	assert.Equal(t, float32(0.5), m.Opacity)
	assert.Equal(t, geom.MeshGrid, m.Mesh.Type)
}

func TestAddOutputRejectsOversizedResolution(t *testing.T) {
	e := newTestEngine(t, &surfaceRecorder{})
	n := len(e.Outputs())

	_, err := e.AddOutput(output.New("huge", 20000, 100))
	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, output.ErrInvalidOutput)
	assert.Len(t, e.Outputs(), n)
}

func TestMappingsForContent(t *testing.T) {
	e := newTestEngine(t, &surfaceRecorder{})
	a, err := e.AddMapping(mapping.New("left", "cam"))
	require.NoError(t, err)
	_, err = e.AddMapping(mapping.New("center", "clip"))
	require.NoError(t, err)
	c, err := e.AddMapping(mapping.New("right", "cam"))
	require.NoError(t, err)

	assert.Equal(t, []mapping.ID{a, c}, e.MappingsForContent("cam"))
	assert.Empty(t, e.MappingsForContent(media.ContentRef("missing")))

	require.NoError(t, e.RemoveMapping(a))
	assert.Equal(t, []mapping.ID{c}, e.MappingsForContent("cam"))
}

func TestMappingEdits(t *testing.T) {
	e := newTestEngine(t, &surfaceRecorder{})
	id, err := e.AddMapping(mapping.New("wall", "cam"))
	require.NoError(t, err)

	require.NoError(t, e.SetBlendMode(id, blend.Screen))
	require.NoError(t, e.SetMesh(id, geom.NewGrid(4, 4)))
	require.NoError(t, e.SetPatch(id, geom.IdentityPatch()))
	m, _ := e.Mapping(id)
	assert.Equal(t, blend.Screen, m.Blend)
	assert.Equal(t, geom.MeshBezierPatch, m.Mesh.Type)

	require.NoError(t, e.MoveVertex(id, 0, geom.V2(0.05, 0.05)))
	m, _ = e.Mapping(id)
	assert.Equal(t, geom.MeshGrid, m.Mesh.Type)

	require.NoError(t, e.Translate(id, geom.V2(0.1, 0)))
	require.NoError(t, e.SetPerspective(id, [4]geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0.1}, {X: 1, Y: 0.9}, {X: 0, Y: 1}}))

	require.NoError(t, e.RemoveMapping(id))
	_, ok := e.Mapping(id)
	assert.False(t, ok)
	assert.ErrorIs(t, e.RemoveMapping(id), ErrUnknownMapping)
}

func TestCreateArray(t *testing.T) {
	e := newTestEngine(t, &surfaceRecorder{})
	ids, err := e.CreateArray(1, 2, output.Resolution{Width: 8, Height: 4}, 0.2)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	left, _ := e.Output(ids[0])
	right, _ := e.Output(ids[1])
	assert.True(t, left.EdgeBlend.Right.Enabled)
	assert.True(t, right.EdgeBlend.Left.Enabled)
	assert.True(t, left.Region.Intersects(right.Region))

	rep := tick(t, e)
	assert.Len(t, rep.Outputs, 2)
}

func TestSurfaceRecreatedOnResize(t *testing.T) {
	rec := &surfaceRecorder{}
	e := newTestEngine(t, rec)
	id, err := e.AddOutput(output.New("main", 4, 4))
	require.NoError(t, err)
	tick(t, e)

	require.NoError(t, e.ConfigureOutput(id, func(o *output.Output) error {
		o.Resolution = output.Resolution{Width: 6, Height: 3}
		return nil
	}))
	tick(t, e)

	created := rec.byName("main")
	require.Len(t, created, 2)
	assert.True(t, created[0].isClosed())
	assert.Equal(t, 6, created[1].Width())
}

func TestPostProcessorUsedWhenEnabled(t *testing.T) {
	t.Cleanup(UnregisterPostProcessor)
	p := &mockProcessor{name: "marker", marker: green}
	require.NoError(t, RegisterPostProcessor(p))

	rec := &surfaceRecorder{}
	cfg := DefaultConfig()
	cfg.SyncTolerance = 0
	e := newTestEngine(t, rec, WithConfig(cfg))

	o := output.New("main", 4, 4)
	o.EdgeBlend.Left = edgeblend.Zone{Enabled: true, Width: 0.25}
	_, err := e.AddOutput(o)
	require.NoError(t, err)
	_, err = e.AddMapping(mapping.New("wall", "cam"))
	require.NoError(t, err)
	publishSolid(t, e, "cam", red)

	tick(t, e)
	assert.Equal(t, 1, p.callCount())
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, pixel(rec.byName("main")[0], 0, 0))

	p.fallback = true
	tick(t, e)
	assert.Equal(t, 2, p.callCount())
	got := pixel(rec.byName("main")[0], 0, 0)
	assert.Less(t, got.R, uint8(255), "CPU edge blend fades the left column")
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, pixel(rec.byName("main")[0], 3, 0))
}

func TestExportImportState(t *testing.T) {
	rec := &surfaceRecorder{}
	e := newTestEngine(t, rec)
	require.NoError(t, e.ResizeCanvas(3840, 1080))
	oid, err := e.AddOutput(output.New("main", 4, 4))
	require.NoError(t, err)
	mid, err := e.AddMapping(mapping.New("wall", "cam"))
	require.NoError(t, err)
	require.NoError(t, e.SetDepth(mid, 2))
	tick(t, e)

	st := e.ExportState()
	assert.EqualValues(t, 3840, st.Canvas.Width)
	require.Len(t, st.Outputs, 1)
	require.Len(t, st.Mappings, 1)

	other := newTestEngine(t, &surfaceRecorder{})
	require.NoError(t, other.ImportState(st))
	m, ok := other.Mapping(mid)
	require.True(t, ok)
	assert.Equal(t, float32(2), m.Depth)
	_, ok = other.Output(oid)
	assert.True(t, ok)

	// An import dropping the output closes its surface at the next tick.
	st.Outputs = nil
	require.NoError(t, e.ImportState(st))
	tick(t, e)
	assert.True(t, rec.byName("main")[0].isClosed())

	bad := st
	bad.Canvas.Width = 0
	var ce *ConfigurationError
	assert.ErrorAs(t, e.ImportState(bad), &ce)
	assert.EqualValues(t, 3840, e.CanvasSize().Width, "failed import leaves state unchanged")
}

func TestClosedEngine(t *testing.T) {
	rec := &surfaceRecorder{}
	e := newTestEngine(t, rec)
	_, err := e.AddOutput(output.New("main", 4, 4))
	require.NoError(t, err)
	tick(t, e)

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	assert.True(t, rec.byName("main")[0].isClosed())

	_, err = e.Tick(context.Background())
	assert.ErrorIs(t, err, ErrEngineClosed)
	_, err = e.AddMapping(mapping.New("late", "cam"))
	assert.ErrorIs(t, err, ErrEngineClosed)
}

func TestRunStopsOnCancel(t *testing.T) {
	var mu sync.Mutex
	var ticks []uint64
	rec := &surfaceRecorder{}
	cfg := DefaultConfig()
	cfg.TickRate = 200
	cfg.GPUPostProcess = false
	e := newTestEngine(t, rec, WithConfig(cfg), WithTickHook(func(r TickReport) {
		mu.Lock()
		ticks = append(ticks, r.Tick)
		mu.Unlock()
	}))
	_, err := e.AddOutput(output.New("main", 2, 2))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = e.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, ticks)
	assert.Equal(t, uint64(1), ticks[0])
}

func TestTextureRetirement(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GPUPostProcess = false
	cfg.SyncTolerance = 0
	cfg.TextureRetireDepth = 1
	e := newTestEngine(t, &surfaceRecorder{}, WithConfig(cfg))
	_, err := e.AddOutput(output.New("main", 2, 2))
	require.NoError(t, err)
	_, err = e.AddMapping(mapping.New("wall", "cam"))
	require.NoError(t, err)

	publishSolid(t, e, "cam", red)
	tick(t, e)
	publishSolid(t, e, "cam", green)
	assert.Equal(t, 1, e.Media().Pending())

	released := 0
	for range 3 {
		released += tick(t, e).Released
	}
	assert.Equal(t, 1, released)
	assert.Zero(t, e.Media().Pending())
}
