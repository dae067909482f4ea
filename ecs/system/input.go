package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/vrtools/ecs"
	"github.com/milk9111/vrtools/ecs/component"
)

const (
	liftStep  = 0.05
	maxHeight = 3.0
)

// InputFrame is one frame of raw host input.
type InputFrame struct {
	MouseX, MouseY float64
	Wheel          float64

	TriggerHeld     bool
	TriggerPressed  bool
	TriggerReleased bool

	Forward float64
	Strafe  float64
	Turn    float64

	SelectSlot int
	CloseMenu  bool
	ToggleMenu bool
	Copy       bool
}

// ReadEbitenInput polls ebiten for the current frame. The left mouse button
// is the trigger, the wheel raises and lowers the controller.
func ReadEbitenInput() InputFrame {
	mx, my := ebiten.CursorPosition()
	_, wheel := ebiten.Wheel()

	in := InputFrame{
		MouseX:          float64(mx),
		MouseY:          float64(my),
		Wheel:           wheel,
		TriggerHeld:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		TriggerPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		TriggerReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		SelectSlot:      -1,
		CloseMenu:       inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		ToggleMenu:      inpututil.IsKeyJustPressed(ebiten.KeyTab),
		Copy:            inpututil.IsKeyJustPressed(ebiten.KeyC),
	}

	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.Forward += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.Forward -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		in.Strafe += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		in.Strafe -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyE) {
		in.Turn += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		in.Turn -= 1
	}

	slotKeys := []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6}
	for i, k := range slotKeys {
		if inpututil.IsKeyJustPressed(k) {
			in.SelectSlot = i
			break
		}
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		const stickDeadzone = 0.2
		id := gamepads[0]
		if v := -ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical); math.Abs(v) > stickDeadzone {
			in.Forward = v
		}
		if v := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal); math.Abs(v) > stickDeadzone {
			in.Strafe = v
		}
		if v := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal); math.Abs(v) > stickDeadzone {
			in.Turn = v
		}
		in.TriggerHeld = in.TriggerHeld || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		in.TriggerPressed = in.TriggerPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		in.TriggerReleased = in.TriggerReleased || inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonFrontBottomRight)
	}

	return in
}

// InputSystem copies host input onto components: motion onto the HMD, the
// trigger and pointing pose onto controllers, menu keys onto light tools.
type InputSystem struct {
	View *View
	Read func() InputFrame
}

func NewInputSystem(view *View) *InputSystem {
	return &InputSystem{View: view, Read: ReadEbitenInput}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil || i.Read == nil {
		return
	}
	in := i.Read()

	ecs.ForEach(w, component.MotionInputComponent.Kind(), func(e ecs.Entity, motion *component.MotionInput) {
		motion.Forward = mgl64.Clamp(in.Forward, -1, 1)
		motion.Strafe = mgl64.Clamp(in.Strafe, -1, 1)
		motion.Turn = mgl64.Clamp(in.Turn, -1, 1)
	})

	heading := mgl64.QuatIdent()
	if hmd, ok := ecs.First(w, component.HMDCameraComponent.Kind()); ok {
		if t, ok := ecs.Get(w, hmd, component.TransformComponent.Kind()); ok {
			heading = t.Rotation
		}
	}

	ecs.ForEach2(w, component.RayOriginComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, ro *component.RayOrigin, t *component.Transform) {
		ro.Height = mgl64.Clamp(ro.Height+in.Wheel*liftStep, 0, maxHeight)
		t.Position = i.View.ScreenToWorld(in.MouseX, in.MouseY, ro.Height)
		t.Rotation = heading

		if trig, ok := ecs.Get(w, e, component.TriggerComponent.Kind()); ok {
			trig.Set(in.TriggerHeld, in.TriggerPressed, in.TriggerReleased)
		}
	})

	ecs.ForEach(w, component.MenuInputComponent.Kind(), func(e ecs.Entity, menu *component.MenuInput) {
		menu.SelectSlot = in.SelectSlot
		menu.Close = in.CloseMenu
		menu.Toggle = in.ToggleMenu
		menu.Copy = in.Copy
	})
}
