package main

import (
	"errors"
	"fmt"

	"github.com/milk9111/vrtools/ecs"
	"github.com/milk9111/vrtools/ecs/component"
	"github.com/milk9111/vrtools/prefabs"
	"gopkg.in/yaml.v3"
)

var errNoSelection = errors.New("no light selected")

// lightExport is the clipboard form of a light, shaped like a prefab spec.
type lightExport struct {
	Name      string           `yaml:"name"`
	Kind      string           `yaml:"kind"`
	Color     string           `yaml:"color"`
	Intensity float64          `yaml:"intensity"`
	Range     float64          `yaml:"range"`
	Position  prefabs.Vec3Spec `yaml:"position"`
	Scale     float64          `yaml:"scale"`
}

// exportSelectedLight renders the tool's selected light as YAML.
func exportSelectedLight(w *ecs.World, tool ecs.Entity) ([]byte, error) {
	sel, ok := ecs.Get(w, tool, component.SelectionComponent.Kind())
	if !ok || !sel.Active.Valid() {
		return nil, errNoSelection
	}
	e := ecs.FromRef(sel.Active)
	light, ok := ecs.Get(w, e, component.LightComponent.Kind())
	if !ok {
		return nil, fmt.Errorf("export: entity %v: %w", e, errNoSelection)
	}

	out := lightExport{
		Kind:      light.Kind.String(),
		Color:     prefabs.Hex(light.Color),
		Intensity: light.Intensity,
		Range:     light.Range,
	}
	if name, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok {
		out.Name = name.Value
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		out.Position = prefabs.Vec3Spec{X: t.Position.X(), Y: t.Position.Y(), Z: t.Position.Z()}
		out.Scale = t.Scale
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("export: marshal: %w", err)
	}
	return data, nil
}

// describeEvent formats a light tool event for the log.
func describeEvent(evt ecs.Event) string {
	le, ok := evt.Data.(ecs.LightEvent)
	if !ok {
		return evt.Type
	}
	switch evt.Type {
	case ecs.EventToolClosed:
		return fmt.Sprintf("%s tool=%v", evt.Type, le.Entity)
	default:
		return fmt.Sprintf("%s light=%v intensity=%.2f range=%.1f", evt.Type, le.Entity, le.Intensity, le.Range)
	}
}
