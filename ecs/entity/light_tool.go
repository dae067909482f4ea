package entity

import (
	"fmt"

	"github.com/milk9111/vrtools/ecs"
	"github.com/milk9111/vrtools/ecs/component"
	"github.com/milk9111/vrtools/lighttool"
	"github.com/milk9111/vrtools/prefabs"
)

// NewLightTool creates a light tool driven by the ray entity. hl may be nil
// when no menu is displayed.
func NewLightTool(w *ecs.World, ray ecs.Entity, hl lighttool.Highlighter) (ecs.Entity, error) {
	spec, err := prefabs.LoadLightToolSpec()
	if err != nil {
		return 0, fmt.Errorf("light tool: load spec: %w", err)
	}

	menu, err := newMenu(spec, hl)
	if err != nil {
		return 0, fmt.Errorf("light tool: %w", err)
	}

	tool := ecs.CreateEntity(w)
	name := spec.Name
	if name == "" {
		name = "light_tool"
	}
	if err := ecs.Add(w, tool, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
		return 0, fmt.Errorf("light tool: add name: %w", err)
	}

	if err := ecs.Add(w, tool, component.LightToolComponent.Kind(), &component.LightTool{
		Ray:        ray.Ref(),
		Config:     spec.Config(),
		Menu:       menu,
		Enabled:    true,
		TintScript: spec.TintScript,
	}); err != nil {
		return 0, fmt.Errorf("light tool: add tool: %w", err)
	}

	if err := ecs.Add(w, tool, component.MenuInputComponent.Kind(), &component.MenuInput{SelectSlot: -1}); err != nil {
		return 0, fmt.Errorf("light tool: add menu input: %w", err)
	}

	if err := ecs.Add(w, tool, component.SelectionComponent.Kind(), &component.Selection{}); err != nil {
		return 0, fmt.Errorf("light tool: add selection: %w", err)
	}

	return tool, nil
}

// ReloadLightTool applies the current spec to an existing tool. A drag in
// progress finishes with the old tuning; the system rebuilds the interactor
// once it is idle.
func ReloadLightTool(w *ecs.World, tool ecs.Entity, hl lighttool.Highlighter) error {
	lt, ok := ecs.Get(w, tool, component.LightToolComponent.Kind())
	if !ok {
		return fmt.Errorf("light tool: entity %v has no tool component", tool)
	}
	spec, err := prefabs.LoadLightToolSpec()
	if err != nil {
		return fmt.Errorf("light tool: load spec: %w", err)
	}
	menu, err := newMenu(spec, hl)
	if err != nil {
		return fmt.Errorf("light tool: %w", err)
	}

	selected := lighttool.Point
	visible := false
	if lt.Menu != nil {
		selected = lt.Menu.Selected()
		visible = lt.Menu.Visible()
	}
	menu.SetVisible(visible)
	if lt.Interactor != nil {
		menu.Bind(lt.Interactor)
	}
	menu.Select(selected)

	lt.Config = spec.Config()
	lt.Menu = menu
	lt.TintScript = spec.TintScript
	return nil
}

func newMenu(spec *prefabs.LightToolSpec, hl lighttool.Highlighter) (*lighttool.Menu, error) {
	table, slots, err := spec.HighlightTable()
	if err != nil {
		return nil, err
	}
	return lighttool.NewMenu(table, slots, hl)
}
