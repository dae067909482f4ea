package component

import "github.com/milk9111/vrtools/preview"

// HMDCamera marks the headset camera the preview mirrors.
type HMDCamera struct {
	FieldOfView  float64
	CullingMask  uint32
	TargetWidth  int
	TargetHeight int
	MoveSpeed    float64 // meters per second
	TurnSpeed    float64 // degrees per second
}

var HMDCameraComponent = NewComponent[HMDCamera]()

// PreviewCamera holds the smoothed spectator camera and its last frame state.
type PreviewCamera struct {
	Source  EntityRef
	Camera  *preview.Camera
	State   preview.CameraState
	Skipped int
}

var PreviewCameraComponent = NewComponent[PreviewCamera]()

// HMDProxy is a visual that appears in the headset only, like a controller
// model. The preview camera hides it while drawing.
type HMDProxy struct {
	Shown bool
}

func (p *HMDProxy) Visible() bool     { return p.Shown }
func (p *HMDProxy) SetVisible(v bool) { p.Shown = v }

var HMDProxyComponent = NewComponent[HMDProxy]()
