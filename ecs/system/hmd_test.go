package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrtools/ecs"
	"github.com/milk9111/vrtools/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vec flattens v for component-wise InDelta checks.
func vec(v mgl64.Vec3) []float64 {
	return v[:]
}

func TestStepHMD(t *testing.T) {
	cam := &component.HMDCamera{MoveSpeed: 2, TurnSpeed: 90}

	t.Run("forward", func(t *testing.T) {
		tr := component.NewTransform(mgl64.Vec3{})
		StepHMD(tr, cam, component.MotionInput{Forward: 1}, 0.5)
		assert.InDeltaSlice(t, vec(mgl64.Vec3{0, 0, 1}), vec(tr.Position), 1e-9, "got %v", tr.Position)
	})

	t.Run("strafe right is +X", func(t *testing.T) {
		tr := component.NewTransform(mgl64.Vec3{})
		StepHMD(tr, cam, component.MotionInput{Strafe: 1}, 0.5)
		assert.InDeltaSlice(t, vec(mgl64.Vec3{1, 0, 0}), vec(tr.Position), 1e-9, "got %v", tr.Position)
	})

	t.Run("turn", func(t *testing.T) {
		tr := component.NewTransform(mgl64.Vec3{})
		StepHMD(tr, cam, component.MotionInput{Turn: 1}, 1)
		assert.InDeltaSlice(t, vec(mgl64.Vec3{1, 0, 0}), vec(tr.Forward()), 1e-9, "got %v", tr.Forward())
		assert.InDelta(t, 1.0, tr.Rotation.Len(), 1e-12)
	})

	t.Run("diagonal does not exceed move speed", func(t *testing.T) {
		tr := component.NewTransform(mgl64.Vec3{})
		StepHMD(tr, cam, component.MotionInput{Forward: 1, Strafe: 1}, 1)
		assert.InDelta(t, 2.0, tr.Position.Len(), 1e-9)
	})

	t.Run("zero dt", func(t *testing.T) {
		tr := component.NewTransform(mgl64.Vec3{1, 2, 3})
		StepHMD(tr, cam, component.MotionInput{Forward: 1, Turn: 1}, 0)
		assert.Equal(t, mgl64.Vec3{1, 2, 3}, tr.Position)
		assert.Equal(t, mgl64.QuatIdent(), tr.Rotation)
	})

	t.Run("pitched headset walks on the floor", func(t *testing.T) {
		tr := component.NewTransform(mgl64.Vec3{})
		tr.Rotation = mgl64.QuatRotate(mgl64.DegToRad(-30), mgl64.Vec3{1, 0, 0})
		StepHMD(tr, cam, component.MotionInput{Forward: 1}, 1)
		assert.InDelta(t, 0.0, tr.Position.Y(), 1e-12)
		assert.InDelta(t, 2.0, tr.Position.Len(), 1e-9)
	})
}

func TestHMDSystemAppliesMotion(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), component.NewTransform(mgl64.Vec3{})))
	require.NoError(t, ecs.Add(w, e, component.HMDCameraComponent.Kind(), &component.HMDCamera{MoveSpeed: 1.5}))
	require.NoError(t, ecs.Add(w, e, component.MotionInputComponent.Kind(), &component.MotionInput{Forward: 1}))

	ecs.NewScheduler(NewHMDSystem()).Tick(w, 2)

	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.InDelta(t, 3.0, tr.Position.Z(), 1e-9)
}

func TestViewRoundTrip(t *testing.T) {
	v := &View{OriginX: 320, OriginY: 240, PixelsPerMeter: 100}
	p := mgl64.Vec3{1.25, 0.7, -2}
	sx, sy := v.WorldToScreen(p)
	assert.InDelta(t, 445.0, sx, 1e-9)
	assert.InDelta(t, 440.0, sy, 1e-9)
	assert.InDeltaSlice(t, vec(p), vec(v.ScreenToWorld(sx, sy, 0.7)), 1e-9)
}
