package system

import "github.com/go-gl/mathgl/mgl64"

// View maps the top-down scene view between screen pixels and the world XZ
// plane. Screen Y grows down while world Z grows up the screen.
type View struct {
	OriginX        float64
	OriginY        float64
	PixelsPerMeter float64
}

// DefaultView centers the world origin in a w x h screen.
func DefaultView(w, h int) *View {
	return &View{OriginX: float64(w) / 2, OriginY: float64(h) / 2, PixelsPerMeter: 120}
}

func (v *View) scale() float64 {
	if v == nil || v.PixelsPerMeter <= 0 {
		return 1
	}
	return v.PixelsPerMeter
}

// ScreenToWorld returns the world point under a screen pixel at height y.
func (v *View) ScreenToWorld(sx, sy, y float64) mgl64.Vec3 {
	if v == nil {
		return mgl64.Vec3{sx, y, -sy}
	}
	s := v.scale()
	return mgl64.Vec3{(sx - v.OriginX) / s, y, (v.OriginY - sy) / s}
}

// WorldToScreen drops Y and returns the pixel for p.
func (v *View) WorldToScreen(p mgl64.Vec3) (float64, float64) {
	if v == nil {
		return p.X(), -p.Z()
	}
	s := v.scale()
	return v.OriginX + p.X()*s, v.OriginY - p.Z()*s
}
