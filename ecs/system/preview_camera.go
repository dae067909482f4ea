package system

import (
	"errors"
	"log"

	"github.com/milk9111/vrtools/ecs"
	"github.com/milk9111/vrtools/ecs/component"
	"github.com/milk9111/vrtools/pose"
	"github.com/milk9111/vrtools/prefabs"
	"github.com/milk9111/vrtools/preview"
)

// hmdSource reads a preview.Source from an HMD entity's components.
type hmdSource struct {
	transform *component.Transform
	camera    *component.HMDCamera
}

func (s hmdSource) Pose() pose.Pose        { return s.transform.Pose() }
func (s hmdSource) FieldOfView() float64   { return s.camera.FieldOfView }
func (s hmdSource) CullingMask() uint32    { return s.camera.CullingMask }
func (s hmdSource) TargetSize() (int, int) { return s.camera.TargetWidth, s.camera.TargetHeight }

// PreviewCameraSystem runs in the late phase so it sees this frame's final
// HMD pose.
type PreviewCameraSystem struct {
	Alloc preview.SurfaceAllocator
}

func NewPreviewCameraSystem() *PreviewCameraSystem {
	return &PreviewCameraSystem{Alloc: EbitenAllocator}
}

func (p *PreviewCameraSystem) LateUpdate(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()

	ecs.ForEach(w, component.PreviewCameraComponent.Kind(), func(e ecs.Entity, pc *component.PreviewCamera) {
		if pc.Camera == nil {
			pc.Camera = preview.New(previewConfig(), p.Alloc)
		}

		src, _ := resolveSource(w, pc)
		state, err := pc.Camera.LateUpdate(dt, src)
		if err != nil {
			pc.Skipped++
			if errors.Is(err, preview.ErrNoSource) {
				if pc.Skipped == 1 {
					log.Printf("PreviewCamera: entity=%v skipping frames: %v", e, err)
				}
			} else {
				log.Printf("PreviewCamera: entity=%v late update: %v", e, err)
			}
			return
		}
		if pc.Skipped > 0 {
			log.Printf("PreviewCamera: entity=%v source back after %d skipped frames", e, pc.Skipped)
			pc.Skipped = 0
		}
		pc.State = state

		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.SetPose(state.Pose)
		}
	})
}

// previewConfig reads the preview camera spec, falling back to the stock
// tuning when it cannot be loaded.
func previewConfig() preview.Config {
	spec, err := prefabs.LoadPreviewCameraSpec()
	if err != nil {
		log.Printf("PreviewCamera: %v, using defaults", err)
		return preview.DefaultConfig()
	}
	return spec.Config()
}

// resolveSource returns the mirrored HMD, falling back to the first HMD in
// the world when the stored reference is unset or stale.
func resolveSource(w *ecs.World, pc *component.PreviewCamera) (preview.Source, bool) {
	if pc.Source.Valid() {
		if src, ok := sourceFor(w, ecs.FromRef(pc.Source)); ok {
			return src, true
		}
	}
	hmd, ok := ecs.First(w, component.HMDCameraComponent.Kind())
	if !ok {
		return nil, false
	}
	src, ok := sourceFor(w, hmd)
	if ok {
		pc.Source = hmd.Ref()
	}
	return src, ok
}

func sourceFor(w *ecs.World, e ecs.Entity) (preview.Source, bool) {
	if !ecs.IsAlive(w, e) {
		return nil, false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return nil, false
	}
	cam, ok := ecs.Get(w, e, component.HMDCameraComponent.Kind())
	if !ok {
		return nil, false
	}
	return hmdSource{transform: t, camera: cam}, true
}

// HMDProxies collects every headset-only visual for preview.Camera.Render.
func HMDProxies(w *ecs.World) []preview.Proxy {
	var out []preview.Proxy
	ecs.ForEach(w, component.HMDProxyComponent.Kind(), func(e ecs.Entity, p *component.HMDProxy) {
		out = append(out, p)
	})
	return out
}
