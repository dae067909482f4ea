package system

import (
	"log"

	"github.com/milk9111/vrtools/ecs"
	"github.com/milk9111/vrtools/ecs/component"
	"github.com/milk9111/vrtools/ecs/entity"
	"github.com/milk9111/vrtools/lighttool"
	"github.com/milk9111/vrtools/spatial"
)

// LightToolSystem runs each enabled light tool against its controller and
// turns the tool's spawns into light entities.
type LightToolSystem struct {
	Index   *spatial.Index
	scripts map[string]*tintScript
}

func NewLightToolSystem(index *spatial.Index) *LightToolSystem {
	if index == nil {
		index = spatial.New(spatial.DefaultCellSize)
	}
	return &LightToolSystem{Index: index}
}

// InvalidateScripts drops compiled tint scripts so the next spawn reloads
// them from disk.
func (s *LightToolSystem) InvalidateScripts() {
	s.scripts = nil
}

func (s *LightToolSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.LightToolComponent.Kind(), func(e ecs.Entity, tool *component.LightTool) {
		if !tool.Enabled {
			return
		}
		s.ensureInteractor(w, e, tool)
		s.applyMenuInput(w, e, tool)
		if !tool.Enabled {
			return
		}

		ray, scale, trig, ok := controllerInput(w, ecs.FromRef(tool.Ray))
		if !ok {
			return
		}

		before := tool.Interactor.State()
		tool.Interactor.ProcessInput(ray, scale, trig)
		after := tool.Interactor.State()

		if before == after {
			return
		}
		evt := ecs.LightEvent{
			Entity:    lightEntity(tool.Interactor.Current()),
			Intensity: tool.Interactor.Params().Intensity,
			Range:     tool.Interactor.Params().Range,
		}
		switch after {
		case lighttool.Dragging:
			w.Events().Push(ecs.Event{Type: ecs.EventLightCreated, Data: evt})
		case lighttool.AwaitingStart:
			w.Events().Push(ecs.Event{Type: ecs.EventLightReleased, Data: evt})
		}
	})
}

// ensureInteractor builds the interactor on first use and rebuilds it when
// the tool's config was reloaded and no drag is in progress.
func (s *LightToolSystem) ensureInteractor(w *ecs.World, e ecs.Entity, tool *component.LightTool) {
	if tool.Interactor != nil {
		if tool.Interactor.State() != lighttool.AwaitingStart || tool.Interactor.Config() == tool.Config {
			return
		}
	}

	selected := lighttool.Point
	if tool.Interactor != nil {
		selected = tool.Interactor.SelectedKind()
	} else if tool.Menu != nil {
		selected = tool.Menu.Selected()
	}

	h := &toolHost{system: s, w: w, tool: e}
	tool.Interactor = lighttool.NewInteractor(tool.Config, lighttool.Host{
		Spawner:   h,
		Index:     h,
		Selection: h,
		Closer:    h,
	})
	tool.Interactor.SetSelectedKind(selected)
	if tool.Menu != nil {
		tool.Menu.Bind(tool.Interactor)
		tool.Menu.Select(selected)
	}
}

func (s *LightToolSystem) applyMenuInput(w *ecs.World, e ecs.Entity, tool *component.LightTool) {
	in, ok := ecs.Get(w, e, component.MenuInputComponent.Kind())
	if !ok || tool.Menu == nil {
		return
	}
	if in.Toggle {
		tool.Menu.SetVisible(!tool.Menu.Visible())
	}
	if in.SelectSlot >= 0 {
		if k, ok := tool.Menu.KindAt(in.SelectSlot); ok {
			tool.Menu.Select(k)
		}
	}
	if in.Close {
		tool.Menu.Close()
	}
}

func controllerInput(w *ecs.World, ctrl ecs.Entity) (lighttool.Ray, float64, lighttool.Trigger, bool) {
	t, ok := ecs.Get(w, ctrl, component.TransformComponent.Kind())
	if !ok {
		return lighttool.Ray{}, 0, nil, false
	}
	trig, ok := ecs.Get(w, ctrl, component.TriggerComponent.Kind())
	if !ok {
		return lighttool.Ray{}, 0, nil, false
	}
	scale := 1.0
	if ro, ok := ecs.Get(w, ctrl, component.RayOriginComponent.Kind()); ok && ro.ViewerScale > 0 {
		scale = ro.ViewerScale
	}
	return lighttool.Ray{Origin: t.Position, Forward: t.Forward()}, scale, trig, true
}

func (s *LightToolSystem) tint(path string, req *lighttool.SpawnRequest) {
	if path == "" {
		return
	}
	if s.scripts == nil {
		s.scripts = map[string]*tintScript{}
	}
	script, ok := s.scripts[path]
	if !ok {
		loaded, err := loadTintScript(path)
		if err != nil {
			log.Printf("LightTool: load tint script %s: %v", path, err)
		}
		// A failed load is cached as nil until InvalidateScripts.
		s.scripts[path] = loaded
		script = loaded
	}
	if script == nil {
		return
	}
	c, err := script.Tint(req.Kind, req.Color)
	if err != nil {
		log.Printf("LightTool: %v", err)
		return
	}
	req.Color = c
}

// lightHandle is the lighttool.Light view of a light entity.
type lightHandle struct {
	w *ecs.World
	e ecs.Entity
}

func (l *lightHandle) SetIntensity(v float64) {
	if light, ok := ecs.Get(l.w, l.e, component.LightComponent.Kind()); ok {
		light.Intensity = v
	}
}

func (l *lightHandle) SetRange(v float64) {
	if light, ok := ecs.Get(l.w, l.e, component.LightComponent.Kind()); ok {
		light.Range = v
	}
}

func lightEntity(l lighttool.Light) ecs.Entity {
	if h, ok := l.(*lightHandle); ok && h != nil {
		return h.e
	}
	return 0
}

// toolHost adapts the world to the interactor's collaborators for one tool.
type toolHost struct {
	system *LightToolSystem
	w      *ecs.World
	tool   ecs.Entity
}

func (h *toolHost) Spawn(req lighttool.SpawnRequest) (lighttool.Light, error) {
	if lt, ok := ecs.Get(h.w, h.tool, component.LightToolComponent.Kind()); ok {
		h.system.tint(lt.TintScript, &req)
	}
	e, err := entity.NewLight(h.w, req)
	if err != nil {
		return nil, err
	}
	return &lightHandle{w: h.w, e: e}, nil
}

func (h *toolHost) Register(l lighttool.Light) {
	e := lightEntity(l)
	t, ok := ecs.Get(h.w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	radius := t.Scale
	h.system.Index.Add(e, t.Position, radius)
	if err := ecs.Add(h.w, e, component.SpatialEntryComponent.Kind(), &component.SpatialEntry{Radius: radius}); err != nil {
		log.Printf("LightTool: register %v: %v", e, err)
	}
}

func (h *toolHost) SetActive(l lighttool.Light) {
	e := lightEntity(l)
	sel, ok := ecs.Get(h.w, h.tool, component.SelectionComponent.Kind())
	if !ok {
		sel = &component.Selection{}
		if err := ecs.Add(h.w, h.tool, component.SelectionComponent.Kind(), sel); err != nil {
			log.Printf("LightTool: select %v: %v", e, err)
			return
		}
	}
	sel.Active = e.Ref()
}

func (h *toolHost) CloseTool() {
	lt, ok := ecs.Get(h.w, h.tool, component.LightToolComponent.Kind())
	if !ok {
		return
	}
	lt.Enabled = false
	if lt.Menu != nil {
		lt.Menu.SetVisible(false)
	}
	h.w.Events().Push(ecs.Event{Type: ecs.EventToolClosed, Data: ecs.LightEvent{Entity: h.tool}})
}

// RemoveLight destroys a light and drops it from the index.
func (s *LightToolSystem) RemoveLight(w *ecs.World, e ecs.Entity) bool {
	s.Index.Remove(e)
	return ecs.DestroyEntity(w, e)
}
