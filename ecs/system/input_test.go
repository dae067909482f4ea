package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrtools/ecs"
	"github.com/milk9111/vrtools/ecs/component"
	"github.com/milk9111/vrtools/ecs/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputSystemCopiesFrame(t *testing.T) {
	w := ecs.NewWorld()
	hmd, err := entity.NewHMDCamera(w)
	require.NoError(t, err)
	ctrl, err := entity.NewController(w)
	require.NoError(t, err)
	tool, err := entity.NewLightTool(w, ctrl, nil)
	require.NoError(t, err)

	sys := &InputSystem{
		View: &View{OriginX: 100, OriginY: 100, PixelsPerMeter: 100},
		Read: func() InputFrame {
			return InputFrame{
				MouseX:         150,
				MouseY:         50,
				Wheel:          2,
				TriggerHeld:    true,
				TriggerPressed: true,
				Forward:        3,
				Turn:           -0.5,
				SelectSlot:     1,
				ToggleMenu:     true,
			}
		},
	}
	sys.Update(w)

	motion, ok := ecs.Get(w, hmd, component.MotionInputComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 1.0, motion.Forward)
	assert.Equal(t, -0.5, motion.Turn)

	ro, ok := ecs.Get(w, ctrl, component.RayOriginComponent.Kind())
	require.True(t, ok)
	assert.InDelta(t, 1.3, ro.Height, 1e-9)

	ct, ok := ecs.Get(w, ctrl, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.InDeltaSlice(t, vec(mgl64.Vec3{0.5, 1.3, 0.5}), vec(ct.Position), 1e-9, "got %v", ct.Position)

	trig, ok := ecs.Get(w, ctrl, component.TriggerComponent.Kind())
	require.True(t, ok)
	assert.True(t, trig.JustPressed())
	assert.False(t, trig.JustReleased())

	menu, ok := ecs.Get(w, tool, component.MenuInputComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 1, menu.SelectSlot)
	assert.True(t, menu.Toggle)
	assert.False(t, menu.Close)
}

func TestInputSystemClampsControllerHeight(t *testing.T) {
	w := ecs.NewWorld()
	ctrl, err := entity.NewController(w)
	require.NoError(t, err)

	sys := &InputSystem{Read: func() InputFrame { return InputFrame{Wheel: -1000, SelectSlot: -1} }}
	sys.Update(w)

	ro, ok := ecs.Get(w, ctrl, component.RayOriginComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 0.0, ro.Height)
}
