package entity

import (
	"fmt"

	"github.com/milk9111/vrtools/ecs"
	"github.com/milk9111/vrtools/ecs/component"
	"github.com/milk9111/vrtools/prefabs"
)

func NewHMDCamera(w *ecs.World) (ecs.Entity, error) {
	spec, err := prefabs.LoadHMDSpec()
	if err != nil {
		return 0, fmt.Errorf("hmd: load spec: %w", err)
	}

	hmd := ecs.CreateEntity(w)
	name := spec.Name
	if name == "" {
		name = "hmd"
	}
	if err := ecs.Add(w, hmd, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
		return 0, fmt.Errorf("hmd: add name: %w", err)
	}

	transform := component.NewTransform(spec.Transform.Position.Vec3())
	transform.Rotation = spec.Transform.Rotation()
	if spec.Transform.Scale > 0 {
		transform.Scale = spec.Transform.Scale
	}
	if err := ecs.Add(w, hmd, component.TransformComponent.Kind(), transform); err != nil {
		return 0, fmt.Errorf("hmd: add transform: %w", err)
	}

	moveSpeed := spec.MoveSpeed
	if moveSpeed == 0 {
		moveSpeed = 1.5
	}
	turnSpeed := spec.TurnSpeed
	if turnSpeed == 0 {
		turnSpeed = 90
	}
	if err := ecs.Add(w, hmd, component.HMDCameraComponent.Kind(), &component.HMDCamera{
		FieldOfView:  spec.FieldOfView,
		CullingMask:  spec.CullingMask,
		TargetWidth:  spec.TargetWidth,
		TargetHeight: spec.TargetHeight,
		MoveSpeed:    moveSpeed,
		TurnSpeed:    turnSpeed,
	}); err != nil {
		return 0, fmt.Errorf("hmd: add camera: %w", err)
	}

	if err := ecs.Add(w, hmd, component.MotionInputComponent.Kind(), &component.MotionInput{}); err != nil {
		return 0, fmt.Errorf("hmd: add motion input: %w", err)
	}

	return hmd, nil
}

// NewController creates the pointing controller that drives light tools.
// It is an HMD-only visual, so the preview camera hides it.
func NewController(w *ecs.World) (ecs.Entity, error) {
	spec, err := prefabs.LoadHMDSpec()
	if err != nil {
		return 0, fmt.Errorf("controller: load spec: %w", err)
	}

	controller := ecs.CreateEntity(w)
	if err := ecs.Add(w, controller, component.NameComponent.Kind(), &component.Name{Value: "controller"}); err != nil {
		return 0, fmt.Errorf("controller: add name: %w", err)
	}

	pos := spec.Transform.Position.Vec3().Add(spec.Controller.Vec3())
	if err := ecs.Add(w, controller, component.TransformComponent.Kind(), component.NewTransform(pos)); err != nil {
		return 0, fmt.Errorf("controller: add transform: %w", err)
	}

	scale := spec.ViewerScale
	if scale <= 0 {
		scale = 1
	}
	if err := ecs.Add(w, controller, component.RayOriginComponent.Kind(), &component.RayOrigin{
		ViewerScale: scale,
		Height:      pos.Y(),
	}); err != nil {
		return 0, fmt.Errorf("controller: add ray origin: %w", err)
	}

	if err := ecs.Add(w, controller, component.TriggerComponent.Kind(), &component.Trigger{}); err != nil {
		return 0, fmt.Errorf("controller: add trigger: %w", err)
	}

	if err := ecs.Add(w, controller, component.HMDProxyComponent.Kind(), &component.HMDProxy{Shown: true}); err != nil {
		return 0, fmt.Errorf("controller: add proxy: %w", err)
	}

	return controller, nil
}
