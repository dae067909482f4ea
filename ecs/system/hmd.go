package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrtools/ecs"
	"github.com/milk9111/vrtools/ecs/component"
	"github.com/milk9111/vrtools/pose"
)

// HMDSystem walks the simulated headset around the floor.
type HMDSystem struct{}

func NewHMDSystem() *HMDSystem {
	return &HMDSystem{}
}

func (h *HMDSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, component.HMDCameraComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, cam *component.HMDCamera, t *component.Transform) {
		motion, ok := ecs.Get(w, e, component.MotionInputComponent.Kind())
		if !ok {
			return
		}
		StepHMD(t, cam, *motion, dt)
	})
}

// StepHMD turns about world up, then moves along the flattened heading.
func StepHMD(t *component.Transform, cam *component.HMDCamera, in component.MotionInput, dt float64) {
	if t == nil || cam == nil || dt <= 0 {
		return
	}

	if in.Turn != 0 {
		// Positive turn swings forward toward +X, clockwise seen from above.
		yaw := mgl64.QuatRotate(mgl64.DegToRad(in.Turn*cam.TurnSpeed*dt), pose.WorldUp)
		t.Rotation = yaw.Mul(t.Rotation).Normalize()
	}

	if in.Forward == 0 && in.Strafe == 0 {
		return
	}
	fwd := t.Forward()
	fwd = mgl64.Vec3{fwd.X(), 0, fwd.Z()}
	if fwd.LenSqr() < 1e-12 {
		return
	}
	fwd = fwd.Normalize()
	right := pose.WorldUp.Cross(fwd)
	step := fwd.Mul(in.Forward).Add(right.Mul(in.Strafe))
	if l := step.Len(); l > 1 {
		step = step.Mul(1 / l)
	}
	t.Position = t.Position.Add(step.Mul(cam.MoveSpeed * dt))
}
