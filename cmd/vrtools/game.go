package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/vrtools/ecs"
	"github.com/milk9111/vrtools/ecs/component"
	"github.com/milk9111/vrtools/ecs/entity"
	"github.com/milk9111/vrtools/ecs/system"
	"github.com/milk9111/vrtools/lighttool"
	"github.com/milk9111/vrtools/prefabs"
	"github.com/milk9111/vrtools/spatial"
	"golang.design/x/clipboard"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

const helpText = "WASD move  Q/E turn  mouse aim  wheel height  LMB drag light  1-4 kind  Tab menu  Esc close tool  C copy"

// highlightRelay forwards menu highlights to whichever UI is current, so the
// UI can be rebuilt on reload without rebuilding the menu.
type highlightRelay struct {
	target lighttool.Highlighter
}

func (r *highlightRelay) SetHighlighted(index int, on bool) {
	if r.target != nil {
		r.target.SetHighlighted(index, on)
	}
}

type Game struct {
	frames int

	world     *ecs.World
	scheduler *ecs.Scheduler
	lights    *system.LightToolSystem

	hmd     ecs.Entity
	preview ecs.Entity
	tool    ecs.Entity

	menu    *lightMenuUI
	relay   *highlightRelay
	watcher *prefabs.Watcher

	clipboard bool
}

type options struct {
	watch          bool
	pixelsPerMeter float64
}

func NewGame(opts options) (*Game, error) {
	g := &Game{world: ecs.NewWorld(), relay: &highlightRelay{}}

	var err error
	if g.hmd, err = entity.NewHMDCamera(g.world); err != nil {
		return nil, err
	}
	controller, err := entity.NewController(g.world)
	if err != nil {
		return nil, err
	}
	if g.preview, err = entity.NewPreviewCamera(g.world, g.hmd, system.EbitenAllocator); err != nil {
		return nil, err
	}
	if g.tool, err = entity.NewLightTool(g.world, controller, g.relay); err != nil {
		return nil, err
	}
	if lt, ok := ecs.Get(g.world, g.tool, component.LightToolComponent.Kind()); ok {
		lt.Menu.SetVisible(true)
	}
	g.rebuildMenu()

	view := system.DefaultView(baseWidth, baseHeight)
	if opts.pixelsPerMeter > 0 {
		view.PixelsPerMeter = opts.pixelsPerMeter
	}

	input := system.NewInputSystem(view)
	input.Read = g.readInput
	g.lights = system.NewLightToolSystem(spatial.New(spatial.DefaultCellSize))

	g.scheduler = ecs.NewScheduler(
		input,
		system.NewHMDSystem(),
		g.lights,
		system.NewRenderSystem(view),
	)
	g.scheduler.AddLate(system.NewPreviewCameraSystem())

	if opts.watch {
		g.startWatcher()
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard: unavailable, copy disabled: %v", err)
	} else {
		g.clipboard = true
	}

	return g, nil
}

// readInput keeps clicks on the menu from reaching the light tool.
func (g *Game) readInput() system.InputFrame {
	in := system.ReadEbitenInput()
	if ebuiinput.UIHovered {
		in.TriggerPressed = false
	}
	return in
}

func (g *Game) rebuildMenu() {
	lt, ok := ecs.Get(g.world, g.tool, component.LightToolComponent.Kind())
	if !ok || lt.Menu == nil {
		return
	}
	menu := lt.Menu
	g.menu = newLightMenuUI(menuLabels(menu), func(slot int) {
		if k, ok := menu.KindAt(slot); ok {
			menu.Select(k)
		}
	}, menu.Close)
	g.relay.target = g.menu
	menu.Select(menu.Selected())
}

func (g *Game) startWatcher() {
	dirs := []string{}
	for _, dir := range []string{prefabs.Dir, filepath.Join(prefabs.Dir, "scripts")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		log.Printf("Prefabs: %s not found, hot reload disabled", prefabs.Dir)
		return
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		log.Printf("Prefabs: watch %v: %v", dirs, err)
		return
	}
	g.watcher = w
	log.Printf("Prefabs: watching %v", dirs)
}

func (g *Game) reloadHandlers() map[string]func() {
	handlers := map[string]func(){
		prefabs.PreviewCameraFile: func() {
			if err := entity.ReloadPreviewCamera(g.world, g.preview, system.EbitenAllocator); err != nil {
				log.Printf("Prefabs: reload %s: %v", prefabs.PreviewCameraFile, err)
				return
			}
			log.Printf("Prefabs: reloaded %s", prefabs.PreviewCameraFile)
		},
		prefabs.LightToolFile: func() {
			if err := entity.ReloadLightTool(g.world, g.tool, g.relay); err != nil {
				log.Printf("Prefabs: reload %s: %v", prefabs.LightToolFile, err)
				return
			}
			g.lights.InvalidateScripts()
			g.rebuildMenu()
			log.Printf("Prefabs: reloaded %s", prefabs.LightToolFile)
		},
		prefabs.HMDFile: func() {
			if err := g.reloadHMD(); err != nil {
				log.Printf("Prefabs: reload %s: %v", prefabs.HMDFile, err)
				return
			}
			log.Printf("Prefabs: reloaded %s", prefabs.HMDFile)
		},
	}
	if lt, ok := ecs.Get(g.world, g.tool, component.LightToolComponent.Kind()); ok && lt.TintScript != "" {
		handlers[filepath.Base(lt.TintScript)] = func() {
			g.lights.InvalidateScripts()
			log.Printf("Prefabs: reloaded %s", lt.TintScript)
		}
	}
	return handlers
}

// reloadHMD applies camera and movement settings. The pose is left alone.
func (g *Game) reloadHMD() error {
	spec, err := prefabs.LoadHMDSpec()
	if err != nil {
		return err
	}
	cam, ok := ecs.Get(g.world, g.hmd, component.HMDCameraComponent.Kind())
	if !ok {
		return fmt.Errorf("hmd %v has no camera", g.hmd)
	}
	cam.FieldOfView = spec.FieldOfView
	cam.CullingMask = spec.CullingMask
	cam.TargetWidth = spec.TargetWidth
	cam.TargetHeight = spec.TargetHeight
	if spec.MoveSpeed > 0 {
		cam.MoveSpeed = spec.MoveSpeed
	}
	if spec.TurnSpeed > 0 {
		cam.TurnSpeed = spec.TurnSpeed
	}
	return nil
}

func (g *Game) Update() error {
	g.frames++

	if g.watcher != nil {
		g.watcher.Poll(g.reloadHandlers())
		select {
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("Prefabs: watcher: %v", err)
			}
		default:
		}
	}

	g.menu.ui.Update()
	g.scheduler.Tick(g.world, 1/float64(ebiten.TPS()))

	for _, evt := range g.world.Events().Drain() {
		log.Printf("LightTool: %s", describeEvent(evt))
	}

	lt, ok := ecs.Get(g.world, g.tool, component.LightToolComponent.Kind())
	if ok && lt.Menu != nil {
		g.menu.SetVisible(lt.Enabled && lt.Menu.Visible())
	}
	if in, ok := ecs.Get(g.world, g.tool, component.MenuInputComponent.Kind()); ok && in.Copy {
		g.copySelection()
	}

	return nil
}

func (g *Game) copySelection() {
	data, err := exportSelectedLight(g.world, g.tool)
	if err != nil {
		log.Printf("Clipboard: %v", err)
		return
	}
	if !g.clipboard {
		log.Printf("Clipboard: unavailable, selection:\n%s", data)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	log.Printf("Clipboard: copied selected light")
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scheduler.Draw(g.world, screen)
	g.menu.ui.Draw(screen)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.2f  %s", ebiten.ActualFPS(), helpText), 8, baseHeight-20)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Printf("Prefabs: close watcher: %v", err)
		}
	}
	if pc, ok := ecs.Get(g.world, g.preview, component.PreviewCameraComponent.Kind()); ok && pc.Camera != nil {
		pc.Camera.Close()
	}
}
