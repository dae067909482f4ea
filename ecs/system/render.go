package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/vrtools/ecs"
	"github.com/milk9111/vrtools/ecs/component"
	"github.com/milk9111/vrtools/lighttool"
	"github.com/milk9111/vrtools/preview"
	"golang.org/x/image/colornames"
)

const (
	nearPlane     = 0.05
	gridExtent    = 10
	insetFraction = 0.33
	insetMargin   = 8
)

var (
	backgroundColor = color.RGBA{R: 18, G: 22, B: 30, A: 255}
	gridColor       = color.RGBA{R: 40, G: 46, B: 58, A: 255}
	insetBackground = color.RGBA{R: 8, G: 10, B: 14, A: 255}
)

// RenderSystem draws the top-down scene and the preview camera inset.
type RenderSystem struct {
	View *View
	// RangeScale converts a light's range to a ring radius in meters.
	RangeScale float64
}

func NewRenderSystem(view *View) *RenderSystem {
	return &RenderSystem{View: view, RangeScale: 1.0 / 1000}
}

func (r *RenderSystem) Update(w *ecs.World) {}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	screen.Fill(backgroundColor)
	r.drawGrid(screen)
	r.drawLights(w, screen)
	r.drawCameras(w, screen)
	r.drawTools(w, screen)
	r.drawPreviews(w, screen)
}

func (r *RenderSystem) drawGrid(screen *ebiten.Image) {
	for i := -gridExtent; i <= gridExtent; i++ {
		x0, y0 := r.View.WorldToScreen(mgl64.Vec3{float64(i), 0, -gridExtent})
		x1, y1 := r.View.WorldToScreen(mgl64.Vec3{float64(i), 0, gridExtent})
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, gridColor, false)
		x0, y0 = r.View.WorldToScreen(mgl64.Vec3{-gridExtent, 0, float64(i)})
		x1, y1 = r.View.WorldToScreen(mgl64.Vec3{gridExtent, 0, float64(i)})
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, gridColor, false)
	}
}

func (r *RenderSystem) drawLights(w *ecs.World, screen *ebiten.Image) {
	selected := selectedLights(w)
	ecs.ForEach2(w, component.LightComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, l *component.Light, t *component.Transform) {
		x, y := r.View.WorldToScreen(t.Position)
		radius := 3 + math.Min(l.Intensity, 60)/6
		vector.FillCircle(screen, float32(x), float32(y), float32(radius), l.Color, true)
		ring := l.Range * r.RangeScale * r.View.scale()
		vector.StrokeCircle(screen, float32(x), float32(y), float32(ring), 1, fade(l.Color, 96), true)
		if selected[e] {
			vector.StrokeCircle(screen, float32(x), float32(y), float32(radius+4), 2, colornames.White, true)
		}
	})
}

func (r *RenderSystem) drawCameras(w *ecs.World, screen *ebiten.Image) {
	ecs.ForEach2(w, component.HMDCameraComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, cam *component.HMDCamera, t *component.Transform) {
		r.drawFrustum(screen, t.Position, t.Forward(), cam.FieldOfView, colornames.Orange)
	})
	ecs.ForEach2(w, component.PreviewCameraComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pc *component.PreviewCamera, t *component.Transform) {
		r.drawFrustum(screen, t.Position, t.Forward(), pc.State.FieldOfView, colornames.Lightskyblue)
	})
	ecs.ForEach2(w, component.HMDProxyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.HMDProxy, t *component.Transform) {
		if !p.Visible() {
			return
		}
		x, y := r.View.WorldToScreen(t.Position)
		vector.StrokeCircle(screen, float32(x), float32(y), 6, 2, colornames.Yellowgreen, true)
	})
}

func (r *RenderSystem) drawFrustum(screen *ebiten.Image, pos, fwd mgl64.Vec3, fov float64, c color.Color) {
	flat := mgl64.Vec3{fwd.X(), 0, fwd.Z()}
	if flat.LenSqr() < 1e-12 {
		return
	}
	flat = flat.Normalize()
	if fov <= 0 {
		fov = preview.DefaultFieldOfView
	}
	half := mgl64.DegToRad(fov) / 2
	x0, y0 := r.View.WorldToScreen(pos)
	for _, a := range []float64{-half, half} {
		edge := mgl64.QuatRotate(a, mgl64.Vec3{0, 1, 0}).Rotate(flat)
		x1, y1 := r.View.WorldToScreen(pos.Add(edge.Mul(0.6)))
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, c, true)
	}
	x1, y1 := r.View.WorldToScreen(pos.Add(flat.Mul(0.3)))
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, c, true)
	vector.FillCircle(screen, float32(x0), float32(y0), 4, c, true)
}

func (r *RenderSystem) drawTools(w *ecs.World, screen *ebiten.Image) {
	line := 0
	ecs.ForEach(w, component.LightToolComponent.Kind(), func(e ecs.Entity, tool *component.LightTool) {
		if tool.Interactor == nil {
			return
		}
		it := tool.Interactor
		if it.State() == lighttool.Dragging {
			sess := it.Session()
			x0, y0 := r.View.WorldToScreen(sess.Start)
			x1, y1 := r.View.WorldToScreen(sess.End)
			vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, colornames.White, true)
		}

		status := fmt.Sprintf("tool %s: %s next=%s", e, it.State(), it.SelectedKind())
		if !tool.Enabled {
			status += " (closed)"
		}
		if it.State() == lighttool.Dragging {
			p := it.Params()
			status += fmt.Sprintf(" intensity=%.2f range=%.1f", p.Intensity, p.Range)
		}
		ebitenutil.DebugPrintAt(screen, status, 8, 8+line*16)
		line++
	})
}

func (r *RenderSystem) drawPreviews(w *ecs.World, screen *ebiten.Image) {
	proxies := HMDProxies(w)
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	slot := 0
	ecs.ForEach(w, component.PreviewCameraComponent.Kind(), func(e ecs.Entity, pc *component.PreviewCamera) {
		if pc.Camera == nil {
			return
		}
		surface, ok := pc.Camera.Surface().(*EbitenSurface)
		if !ok || surface.Image == nil {
			return
		}
		pc.Camera.Render(proxies, func(state preview.CameraState) {
			drawPreview(w, surface.Image, state)
		})

		iw, ih := surface.Size()
		scale := insetFraction * float64(sw) / float64(iw)
		x := float64(sw) - float64(iw)*scale - insetMargin
		y := float64(sh) - float64(ih)*scale*float64(slot+1) - insetMargin*float64(slot+1)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(x, y)
		screen.DrawImage(surface.Image, op)
		vector.StrokeRect(screen, float32(x), float32(y), float32(float64(iw)*scale), float32(float64(ih)*scale), 1, colornames.Lightskyblue, false)
		slot++
	})
}

// drawPreview renders the scene as the preview camera sees it. Proxies are
// hidden by the caller.
func drawPreview(w *ecs.World, img *ebiten.Image, state preview.CameraState) {
	img.Fill(insetBackground)
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()

	for i := -gridExtent; i <= gridExtent; i++ {
		segments := [][2]mgl64.Vec3{
			{{float64(i), 0, -gridExtent}, {float64(i), 0, gridExtent}},
			{{-gridExtent, 0, float64(i)}, {gridExtent, 0, float64(i)}},
		}
		for _, seg := range segments {
			x0, y0, ok0 := Project(state, seg[0], iw, ih)
			x1, y1, ok1 := Project(state, seg[1], iw, ih)
			if ok0 && ok1 {
				vector.StrokeLine(img, float32(x0), float32(y0), float32(x1), float32(y1), 1, gridColor, false)
			}
		}
	}

	ecs.ForEach2(w, component.LightComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, l *component.Light, t *component.Transform) {
		x, y, ok := Project(state, t.Position, iw, ih)
		if !ok {
			return
		}
		dist := math.Max(t.Position.Sub(state.Pose.Position).Len(), nearPlane)
		radius := math.Max(2, (1+l.Intensity/10)/dist*4)
		vector.FillCircle(img, float32(x), float32(y), float32(radius), l.Color, true)
	})

	ecs.ForEach2(w, component.HMDProxyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.HMDProxy, t *component.Transform) {
		if !p.Visible() {
			return
		}
		if x, y, ok := Project(state, t.Position, iw, ih); ok {
			vector.FillRect(img, float32(x-3), float32(y-3), 6, 6, colornames.Yellowgreen, false)
		}
	})
}

// Project maps a world point to pixel coordinates in a w x h target seen
// from state. FieldOfView is vertical. ok is false behind the near plane.
func Project(state preview.CameraState, p mgl64.Vec3, w, h int) (x, y float64, ok bool) {
	local := state.Pose.Orientation.Inverse().Rotate(p.Sub(state.Pose.Position))
	if local.Z() <= nearPlane {
		return 0, 0, false
	}
	fov := state.FieldOfView
	if fov <= 0 {
		fov = preview.DefaultFieldOfView
	}
	f := 1 / math.Tan(mgl64.DegToRad(fov)/2)
	half := float64(h) / 2
	x = float64(w)/2 + local.X()/local.Z()*f*half
	y = half - local.Y()/local.Z()*f*half
	return x, y, true
}

func selectedLights(w *ecs.World) map[ecs.Entity]bool {
	out := map[ecs.Entity]bool{}
	ecs.ForEach(w, component.SelectionComponent.Kind(), func(e ecs.Entity, sel *component.Selection) {
		if sel.Active.Valid() {
			out[ecs.FromRef(sel.Active)] = true
		}
	})
	return out
}

func fade(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}
