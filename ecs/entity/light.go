package entity

import (
	"fmt"

	"github.com/milk9111/vrtools/ecs"
	"github.com/milk9111/vrtools/ecs/component"
	"github.com/milk9111/vrtools/lighttool"
)

// NewLight creates a light entity from a spawn request.
func NewLight(w *ecs.World, req lighttool.SpawnRequest) (ecs.Entity, error) {
	light := ecs.CreateEntity(w)

	if err := ecs.Add(w, light, component.NameComponent.Kind(), &component.Name{
		Value: req.Kind.String() + "_light",
	}); err != nil {
		return 0, fmt.Errorf("light: add name: %w", err)
	}

	transform := component.NewTransform(req.Position)
	transform.Scale = req.Scale
	if err := ecs.Add(w, light, component.TransformComponent.Kind(), transform); err != nil {
		return 0, fmt.Errorf("light: add transform: %w", err)
	}

	if err := ecs.Add(w, light, component.LightComponent.Kind(), &component.Light{
		Kind:      req.Kind,
		Color:     req.Color,
		Intensity: req.Intensity,
		Range:     req.Range,
	}); err != nil {
		return 0, fmt.Errorf("light: add light: %w", err)
	}

	return light, nil
}
