// Package pose implements the damped pose filter used by the preview camera.
package pose

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultSmoothingRate    = 3.0
	DefaultPullBackDistance = 0.8
)

var (
	// Forward is the local forward axis of a camera.
	Forward = mgl64.Vec3{0, 0, 1}
	// WorldUp is the fixed up vector used to rebuild the render orientation.
	WorldUp = mgl64.Vec3{0, 1, 0}
)

// Pose is a position plus a unit orientation.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// Identity returns a pose at the origin facing Forward.
func Identity() Pose {
	return Pose{Orientation: mgl64.QuatIdent()}
}

// Forward returns the pose's forward axis in world space.
func (p Pose) Forward() mgl64.Vec3 {
	return p.Orientation.Rotate(Forward)
}

// Config holds the tuning values for a Smoother. A zero PullBackDistance
// keeps the render pose on the smoothed pose.
type Config struct {
	SmoothingRate    float64
	PullBackDistance float64
}

// DefaultConfig returns the stock smoothing rate and pull-back.
func DefaultConfig() Config {
	return Config{SmoothingRate: DefaultSmoothingRate, PullBackDistance: DefaultPullBackDistance}
}

func (c Config) withDefaults() Config {
	if c.SmoothingRate <= 0 {
		c.SmoothingRate = DefaultSmoothingRate
	}
	if c.PullBackDistance < 0 {
		c.PullBackDistance = DefaultPullBackDistance
	}
	return c
}

// Smoother tracks a target pose with exponential-style damping and exposes a
// render pose retracted along its own forward axis.
type Smoother struct {
	cfg      Config
	smoothed Pose
	render   Pose
	active   bool
}

// NewSmoother creates a smoother. It seeds itself from the first target it sees.
func NewSmoother(cfg Config) *Smoother {
	return &Smoother{
		cfg:      cfg.withDefaults(),
		smoothed: Identity(),
		render:   Identity(),
	}
}

// Config returns the effective configuration.
func (s *Smoother) Config() Config {
	return s.cfg
}

// Active reports whether the smoother has been seeded.
func (s *Smoother) Active() bool {
	return s.active
}

// Activate seeds the smoothed pose directly from target.
func (s *Smoother) Activate(target Pose) {
	s.smoothed = Pose{
		Position:    target.Position,
		Orientation: normalize(target.Orientation),
	}
	s.active = true
	s.render = s.project()
}

// Reset drops the seeded state so the next Tick re-activates.
func (s *Smoother) Reset() {
	s.active = false
	s.smoothed = Identity()
	s.render = Identity()
}

// Tick advances the filter by dt seconds toward target and returns the
// render pose.
func (s *Smoother) Tick(dt float64, target Pose) Pose {
	if !s.active {
		s.Activate(target)
		return s.render
	}

	t := Factor(dt, s.cfg.SmoothingRate)
	goal := normalize(target.Orientation)
	if t >= 1 {
		s.smoothed = Pose{Position: target.Position, Orientation: goal}
	} else if t > 0 {
		s.smoothed.Position = Lerp(s.smoothed.Position, target.Position, t)
		s.smoothed.Orientation = Slerp(s.smoothed.Orientation, goal, t)
	}

	s.render = s.project()
	return s.render
}

// Smoothed returns the internal damped pose.
func (s *Smoother) Smoothed() Pose {
	return s.smoothed
}

// Render returns the most recent render pose.
func (s *Smoother) Render() Pose {
	return s.render
}

func (s *Smoother) project() Pose {
	rot := LookRotation(s.smoothed.Orientation.Rotate(Forward), WorldUp)
	back := rot.Rotate(Forward).Mul(s.cfg.PullBackDistance)
	return Pose{
		Position:    s.smoothed.Position.Sub(back),
		Orientation: rot,
	}
}

// Factor returns clamp01(dt*rate). Non-finite products clamp to 1 or 0.
func Factor(dt, rate float64) float64 {
	t := dt * rate
	if math.IsNaN(t) || t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Slerp interpolates along the shortest arc between two orientations.
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	a, b = normalize(a), normalize(b)
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return normalize(mgl64.QuatSlerp(a, b, t))
}

// LookRotation builds the orientation whose forward axis points along forward
// and whose up axis is as close to up as possible.
func LookRotation(forward, up mgl64.Vec3) mgl64.Quat {
	if forward.LenSqr() < 1e-12 {
		return mgl64.QuatIdent()
	}
	f := forward.Normalize()
	right := up.Cross(f)
	if right.LenSqr() < 1e-12 {
		// forward is parallel to up; rotate from the default axis directly.
		return normalize(mgl64.QuatBetweenVectors(Forward, f))
	}
	right = right.Normalize()
	u := f.Cross(right)
	basis := mgl64.Mat3FromCols(right, u, f)
	return normalize(mgl64.Mat4ToQuat(basis.Mat4()))
}

func normalize(q mgl64.Quat) mgl64.Quat {
	if q.Len() < 1e-12 {
		return mgl64.QuatIdent()
	}
	return q.Normalize()
}
