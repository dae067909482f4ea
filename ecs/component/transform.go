package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrtools/pose"
)

// Transform is a world-space position, rotation and uniform scale.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    float64
}

// NewTransform returns an identity transform at pos.
func NewTransform(pos mgl64.Vec3) *Transform {
	return &Transform{Position: pos, Rotation: mgl64.QuatIdent(), Scale: 1}
}

// Forward returns the transform's forward axis.
func (t *Transform) Forward() mgl64.Vec3 {
	return t.Rotation.Rotate(pose.Forward)
}

// Pose returns the position and rotation as a pose.
func (t *Transform) Pose() pose.Pose {
	return pose.Pose{Position: t.Position, Orientation: t.Rotation}
}

// SetPose copies p into the transform.
func (t *Transform) SetPose(p pose.Pose) {
	t.Position = p.Position
	t.Rotation = p.Orientation
}

var TransformComponent = NewComponent[Transform]()

// Name identifies an entity for lookups by name.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
