// Package preview drives a smoothed spectator camera that mirrors an HMD
// camera for on-screen preview rendering.
package preview

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/vrtools/pose"
)

var (
	ErrNoSource  = errors.New("preview: no source camera")
	ErrNoSurface = errors.New("preview: surface allocator returned nil")
)

const (
	DefaultFieldOfView = 40.0
	minFieldOfView     = 1.0
	maxFieldOfView     = 180.0
)

// Source is the camera being mirrored, usually the HMD camera.
type Source interface {
	Pose() pose.Pose
	FieldOfView() float64
	CullingMask() uint32
	TargetSize() (w, h int)
}

// Surface is an allocated render target.
type Surface interface {
	Size() (w, h int)
	Dispose()
}

// SurfaceAllocator creates render targets. It is only invoked when the
// requested dimensions change.
type SurfaceAllocator interface {
	Allocate(w, h int) (Surface, error)
}

// SurfaceAllocatorFunc adapts a function to SurfaceAllocator.
type SurfaceAllocatorFunc func(w, h int) (Surface, error)

func (f SurfaceAllocatorFunc) Allocate(w, h int) (Surface, error) {
	return f(w, h)
}

// Proxy is a visual that must not appear in the preview (controller models,
// HMD gizmos).
type Proxy interface {
	Visible() bool
	SetVisible(bool)
}

// Config is fixed at construction.
type Config struct {
	Smoothing     pose.Config
	FieldOfView   float64
	TargetDisplay int
	// HMDOnlyMask are culling bits that render only inside the headset.
	HMDOnlyMask uint32
	// PixelScale converts the source target size from GUI points to pixels.
	PixelScale float64
}

// DefaultConfig returns the stock preview camera tuning.
func DefaultConfig() Config {
	return Config{
		Smoothing:   pose.DefaultConfig(),
		FieldOfView: DefaultFieldOfView,
		PixelScale:  1,
	}
}

func (c Config) withDefaults() Config {
	if c.FieldOfView == 0 {
		c.FieldOfView = DefaultFieldOfView
	}
	if c.FieldOfView < minFieldOfView {
		c.FieldOfView = minFieldOfView
	}
	if c.FieldOfView > maxFieldOfView {
		c.FieldOfView = maxFieldOfView
	}
	if c.PixelScale <= 0 {
		c.PixelScale = 1
	}
	return c
}

// Rect is a normalized viewport rectangle.
type Rect struct {
	X, Y, W, H float64
}

// CameraState is everything a renderer needs to draw one preview frame.
type CameraState struct {
	Pose          pose.Pose
	FieldOfView   float64
	CullingMask   uint32
	TargetDisplay int
	Viewport      Rect
	Stereo        bool
	Surface       Surface
}

// Camera is the smoothed preview camera.
type Camera struct {
	cfg      Config
	alloc    SurfaceAllocator
	smoother *pose.Smoother
	surface  Surface
	state    CameraState
}

// New creates a preview camera. alloc may be nil, in which case no surface is
// ever allocated.
func New(cfg Config, alloc SurfaceAllocator) *Camera {
	cfg = cfg.withDefaults()
	return &Camera{
		cfg:      cfg,
		alloc:    alloc,
		smoother: pose.NewSmoother(cfg.Smoothing),
	}
}

// Config returns the effective configuration.
func (c *Camera) Config() Config {
	return c.cfg
}

// Smoother exposes the underlying pose filter.
func (c *Camera) Smoother() *pose.Smoother {
	return c.smoother
}

// State returns the state produced by the last successful LateUpdate.
func (c *Camera) State() CameraState {
	return c.state
}

// Surface returns the current render target, or nil.
func (c *Camera) Surface() Surface {
	return c.surface
}

// Activate seeds the smoother from the source without waiting for a tick.
func (c *Camera) Activate(src Source) error {
	if src == nil {
		return ErrNoSource
	}
	c.smoother.Activate(src.Pose())
	return nil
}

// LateUpdate must run after the source pose for this frame is final.
func (c *Camera) LateUpdate(dt float64, src Source) (CameraState, error) {
	if src == nil {
		return c.state, ErrNoSource
	}

	if err := c.ensureSurface(src.TargetSize()); err != nil {
		return c.state, err
	}

	render := c.smoother.Tick(dt, src.Pose())
	c.state = CameraState{
		Pose:          render,
		FieldOfView:   c.cfg.FieldOfView,
		CullingMask:   src.CullingMask() &^ c.cfg.HMDOnlyMask,
		TargetDisplay: c.cfg.TargetDisplay,
		Viewport:      Rect{W: 1, H: 1},
		Stereo:        false,
		Surface:       c.surface,
	}
	return c.state, nil
}

func (c *Camera) ensureSurface(w, h int) error {
	if w <= 0 || h <= 0 || c.alloc == nil {
		return nil
	}
	pw := int(float64(w) * c.cfg.PixelScale)
	ph := int(float64(h) * c.cfg.PixelScale)
	if c.surface != nil {
		if sw, sh := c.surface.Size(); sw == pw && sh == ph {
			return nil
		}
	}

	surface, err := c.alloc.Allocate(pw, ph)
	if err != nil {
		return fmt.Errorf("preview: allocate %dx%d: %w", pw, ph, err)
	}
	if surface == nil {
		return ErrNoSurface
	}
	if c.surface != nil {
		c.surface.Dispose()
	}
	log.Printf("PreviewCamera: allocated surface %dx%d", pw, ph)
	c.surface = surface
	return nil
}

// Render hides the proxies, calls draw with the current state, then restores
// each proxy's previous visibility.
func (c *Camera) Render(proxies []Proxy, draw func(CameraState)) {
	if draw == nil {
		return
	}
	prev := make([]bool, len(proxies))
	for i, p := range proxies {
		if p == nil {
			continue
		}
		prev[i] = p.Visible()
		p.SetVisible(false)
	}
	defer func() {
		for i, p := range proxies {
			if p != nil {
				p.SetVisible(prev[i])
			}
		}
	}()
	draw(c.state)
}

// Close releases the render surface.
func (c *Camera) Close() {
	if c.surface != nil {
		c.surface.Dispose()
		c.surface = nil
	}
	c.state.Surface = nil
}
