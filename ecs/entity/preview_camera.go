package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrtools/ecs"
	"github.com/milk9111/vrtools/ecs/component"
	"github.com/milk9111/vrtools/prefabs"
	"github.com/milk9111/vrtools/preview"
)

// NewPreviewCamera creates the spectator camera mirroring source.
func NewPreviewCamera(w *ecs.World, source ecs.Entity, alloc preview.SurfaceAllocator) (ecs.Entity, error) {
	spec, err := prefabs.LoadPreviewCameraSpec()
	if err != nil {
		return 0, fmt.Errorf("preview camera: load spec: %w", err)
	}

	camera := ecs.CreateEntity(w)
	name := spec.Name
	if name == "" {
		name = "preview_camera"
	}
	if err := ecs.Add(w, camera, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
		return 0, fmt.Errorf("preview camera: add name: %w", err)
	}

	transform := component.NewTransform(mgl64.Vec3{})
	if src, ok := ecs.Get(w, source, component.TransformComponent.Kind()); ok {
		transform.Position = src.Position
		transform.Rotation = src.Rotation
	}
	if err := ecs.Add(w, camera, component.TransformComponent.Kind(), transform); err != nil {
		return 0, fmt.Errorf("preview camera: add transform: %w", err)
	}

	if err := ecs.Add(w, camera, component.PreviewCameraComponent.Kind(), &component.PreviewCamera{
		Source: source.Ref(),
		Camera: preview.New(spec.Config(), alloc),
	}); err != nil {
		return 0, fmt.Errorf("preview camera: add camera: %w", err)
	}

	return camera, nil
}

// ReloadPreviewCamera swaps in a camera built from the current spec. The old
// render surface is released.
func ReloadPreviewCamera(w *ecs.World, camera ecs.Entity, alloc preview.SurfaceAllocator) error {
	pc, ok := ecs.Get(w, camera, component.PreviewCameraComponent.Kind())
	if !ok {
		return fmt.Errorf("preview camera: entity %v has no camera component", camera)
	}
	spec, err := prefabs.LoadPreviewCameraSpec()
	if err != nil {
		return fmt.Errorf("preview camera: load spec: %w", err)
	}
	if pc.Camera != nil {
		pc.Camera.Close()
	}
	pc.Camera = preview.New(spec.Config(), alloc)
	pc.Skipped = 0
	return nil
}
