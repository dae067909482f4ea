package lighttool

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vec flattens v for component-wise InDelta checks.
func vec(v mgl64.Vec3) []float64 {
	return v[:]
}

type fakeLight struct {
	req       SpawnRequest
	intensity float64
	rng       float64
}

func (l *fakeLight) SetIntensity(v float64) { l.intensity = v }
func (l *fakeLight) SetRange(v float64)     { l.rng = v }

type fakeHost struct {
	spawned    []*fakeLight
	registered []Light
	active     Light
	closed     int
	err        error
}

func (h *fakeHost) Spawn(req SpawnRequest) (Light, error) {
	if h.err != nil {
		return nil, h.err
	}
	l := &fakeLight{req: req, intensity: req.Intensity, rng: req.Range}
	h.spawned = append(h.spawned, l)
	return l, nil
}

func (h *fakeHost) Register(l Light)  { h.registered = append(h.registered, l) }
func (h *fakeHost) SetActive(l Light) { h.active = l }
func (h *fakeHost) CloseTool()        { h.closed++ }

func (h *fakeHost) host() Host {
	return Host{Spawner: h, Index: h, Selection: h, Closer: h}
}

type fakeTrigger struct {
	pressed  bool
	released bool
	consumed bool
}

func (t *fakeTrigger) JustPressed() bool  { return t.pressed }
func (t *fakeTrigger) JustReleased() bool { return t.released }
func (t *fakeTrigger) Consume()           { t.consumed = true }

func press() *fakeTrigger   { return &fakeTrigger{pressed: true} }
func hold() *fakeTrigger    { return &fakeTrigger{} }
func release() *fakeTrigger { return &fakeTrigger{released: true} }

func rayAt(x, y, z float64) Ray {
	return Ray{Origin: mgl64.Vec3{x, y, z}, Forward: mgl64.Vec3{0, 0, 1}}
}

func TestIntensityClampsVerticalDrag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IntensityMin = 1
	cfg.IntensityScaling = 5

	cases := []struct {
		name string
		end  mgl64.Vec3
		want float64
	}{
		{"clamped_high", mgl64.Vec3{0, 15, 0}, 51},
		{"below_start", mgl64.Vec3{0, -3, 0}, 1},
		{"partial", mgl64.Vec3{7, 2, -4}, 11},
		{"exact_cap", mgl64.Vec3{0, 10, 0}, 51},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, Intensity(mgl64.Vec3{}, c.end, cfg), 1e-9)
		})
	}
}

func TestRangeUsesHorizontalDistance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RangeMin = 10
	cfg.RangeScaling = 1000

	assert.InDelta(t, 5010, Range(mgl64.Vec3{}, mgl64.Vec3{3, 5, 4}, 1, cfg), 1e-9)
	assert.InDelta(t, 10, Range(mgl64.Vec3{}, mgl64.Vec3{0, 8, 0}, 1, cfg), 1e-9)
	assert.InDelta(t, 10+5*1000*0.5, Range(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{4, -2, 5}, 0.5, cfg), 1e-9)
}

func TestDrawPoint(t *testing.T) {
	ray := Ray{Origin: mgl64.Vec3{1, 2, 3}, Forward: mgl64.Vec3{0, 0, 1}}
	got := DrawPoint(ray, 0.075, 2)
	assert.InDeltaSlice(t, vec(mgl64.Vec3{1, 2, 3.15}), vec(got), 1e-12)
}

func TestPressSpawnsAndDrags(t *testing.T) {
	h := &fakeHost{}
	cfg := DefaultConfig()
	cfg.DrawDistance = 0
	it := NewInteractor(cfg, h.host())

	trig := press()
	it.ProcessInput(rayAt(0, 0, 0), 1, trig)

	require.Equal(t, Dragging, it.State())
	require.Len(t, h.spawned, 1)
	assert.True(t, trig.consumed)
	assert.Equal(t, Point, h.spawned[0].req.Kind)
	assert.Equal(t, cfg.DefaultColor, h.spawned[0].req.Color)
	assert.InDelta(t, cfg.MinScale, h.spawned[0].req.Scale, 1e-12)
	assert.Equal(t, []Light{h.spawned[0]}, h.registered)
	assert.Same(t, h.spawned[0], h.active)
	assert.Equal(t, cfg.IntensityMin, h.spawned[0].intensity)
	assert.Equal(t, cfg.RangeMin, h.spawned[0].rng)

	trig = hold()
	it.ProcessInput(rayAt(3, 5, 4), 1, trig)
	assert.False(t, trig.consumed)
	assert.InDelta(t, 26, h.spawned[0].intensity, 1e-9)
	assert.InDelta(t, 5010, h.spawned[0].rng, 1e-9)
	assert.Equal(t, mgl64.Vec3{3, 5, 4}, it.Session().End)

	trig = release()
	it.ProcessInput(rayAt(0, 15, 0), 1, trig)
	assert.Equal(t, AwaitingStart, it.State())
	assert.True(t, trig.consumed)
	assert.InDelta(t, 51, h.spawned[0].intensity, 1e-9)
	assert.InDelta(t, 10, h.spawned[0].rng, 1e-9)

	// the released light keeps its values
	it.ProcessInput(rayAt(9, 9, 9), 1, hold())
	assert.InDelta(t, 51, h.spawned[0].intensity, 1e-9)
	assert.Len(t, h.spawned, 1)
}

func TestViewerScaleAppliesToDrawAndRange(t *testing.T) {
	h := &fakeHost{}
	cfg := DefaultConfig()
	it := NewInteractor(cfg, h.host())

	it.ProcessInput(rayAt(0, 0, 0), 4, press())
	require.Len(t, h.spawned, 1)
	assert.InDeltaSlice(t, vec(mgl64.Vec3{0, 0, 0.3}), vec(h.spawned[0].req.Position), 1e-12)
	assert.InDelta(t, cfg.MinScale*4, h.spawned[0].req.Scale, 1e-12)

	it.ProcessInput(rayAt(1, 0, 0), 4, hold())
	assert.InDelta(t, cfg.RangeMin+1*cfg.RangeScaling*4, h.spawned[0].rng, 1e-6)
}

func TestNonPositiveViewerScaleFallsBackToOne(t *testing.T) {
	h := &fakeHost{}
	it := NewInteractor(DefaultConfig(), h.host())
	it.ProcessInput(rayAt(0, 0, 0), 0, press())
	require.Len(t, h.spawned, 1)
	assert.InDelta(t, DefaultConfig().MinScale, h.spawned[0].req.Scale, 1e-12)
}

func TestReleaseWhileAwaitingIsIgnored(t *testing.T) {
	h := &fakeHost{}
	it := NewInteractor(DefaultConfig(), h.host())
	trig := release()
	it.ProcessInput(rayAt(0, 0, 0), 1, trig)
	assert.Equal(t, AwaitingStart, it.State())
	assert.False(t, trig.consumed)
	assert.Empty(t, h.spawned)
}

func TestSpawnFailureStaysArmed(t *testing.T) {
	h := &fakeHost{err: errors.New("no room")}
	it := NewInteractor(DefaultConfig(), h.host())
	trig := press()
	it.ProcessInput(rayAt(0, 0, 0), 1, trig)
	assert.Equal(t, AwaitingStart, it.State())
	assert.False(t, trig.consumed)
	assert.Nil(t, it.Current())

	it = NewInteractor(DefaultConfig(), Host{})
	it.ProcessInput(rayAt(0, 0, 0), 1, press())
	assert.Equal(t, AwaitingStart, it.State())
}

func TestNilTriggerIsNoop(t *testing.T) {
	h := &fakeHost{}
	it := NewInteractor(DefaultConfig(), h.host())
	it.ProcessInput(rayAt(0, 0, 0), 1, nil)
	assert.Equal(t, AwaitingStart, it.State())
}

func TestNeverSpawnsTwiceWhileDragging(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	h := &fakeHost{}
	it := NewInteractor(DefaultConfig(), h.host())

	for i := 0; i < 5000; i++ {
		trig := &fakeTrigger{pressed: rng.Intn(3) == 0, released: rng.Intn(3) == 0}
		before := it.State()
		spawned := len(h.spawned)

		it.ProcessInput(rayAt(rng.Float64(), rng.Float64(), rng.Float64()), 1, trig)

		switch before {
		case Dragging:
			require.Equal(t, spawned, len(h.spawned), "step %d spawned while dragging", i)
			if trig.released {
				require.Equal(t, AwaitingStart, it.State(), "step %d", i)
			} else {
				require.Equal(t, Dragging, it.State(), "step %d", i)
			}
		case AwaitingStart:
			if trig.pressed {
				require.Equal(t, spawned+1, len(h.spawned), "step %d", i)
				require.Equal(t, Dragging, it.State(), "step %d", i)
			} else {
				require.Equal(t, spawned, len(h.spawned), "step %d", i)
				require.Equal(t, AwaitingStart, it.State(), "step %d", i)
			}
		}
	}
}

func TestReselectionAffectsOnlyNextSpawn(t *testing.T) {
	h := &fakeHost{}
	it := NewInteractor(DefaultConfig(), h.host())

	it.SetSelectedKind(Spot)
	it.SetSelectedKind(Area)
	assert.Equal(t, AwaitingStart, it.State())
	assert.Empty(t, h.spawned)

	it.ProcessInput(rayAt(0, 0, 0), 1, press())
	require.Len(t, h.spawned, 1)
	assert.Equal(t, Area, h.spawned[0].req.Kind)

	it.SetSelectedKind(Directional)
	it.ProcessInput(rayAt(0, 1, 0), 1, hold())
	assert.Equal(t, Area, it.Session().Kind)
	assert.Equal(t, Area, it.Params().Kind)
	assert.Equal(t, Area, h.spawned[0].req.Kind)

	it.ProcessInput(rayAt(0, 1, 0), 1, release())
	it.ProcessInput(rayAt(0, 0, 0), 1, press())
	require.Len(t, h.spawned, 2)
	assert.Equal(t, Directional, h.spawned[1].req.Kind)
}

func TestCloseAsksHost(t *testing.T) {
	h := &fakeHost{}
	it := NewInteractor(DefaultConfig(), h.host())
	it.Close()
	assert.Equal(t, 1, h.closed)

	NewInteractor(DefaultConfig(), Host{Spawner: h}).Close()
	assert.Equal(t, 1, h.closed)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	got, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, Point, got)

	_, err = ParseKind("laser")
	assert.Error(t, err)
	assert.Equal(t, "kind(9)", Kind(9).String())
}
