package component

// Trigger stores per-frame edge state for the controller trigger. It
// satisfies lighttool.Trigger, and Consume hides the edge from later readers
// in the same frame.
type Trigger struct {
	Held         bool
	Pressed      bool
	Released     bool
	ConsumedEdge bool
}

// Set records this frame's edges and clears the consumed flag.
func (t *Trigger) Set(held, pressed, released bool) {
	t.Held = held
	t.Pressed = pressed
	t.Released = released
	t.ConsumedEdge = false
}

func (t *Trigger) JustPressed() bool  { return t.Pressed && !t.ConsumedEdge }
func (t *Trigger) JustReleased() bool { return t.Released && !t.ConsumedEdge }
func (t *Trigger) Consume()           { t.ConsumedEdge = true }

var TriggerComponent = NewComponent[Trigger]()

// RayOrigin marks a controller whose Transform is a pointing ray.
type RayOrigin struct {
	ViewerScale float64
	// Height is the controller height above the floor in the demo host.
	Height float64
}

var RayOriginComponent = NewComponent[RayOrigin]()

// MenuInput carries menu key presses for the current frame.
type MenuInput struct {
	SelectSlot int // -1 when nothing was chosen
	Close      bool
	Toggle     bool
	Copy       bool
}

var MenuInputComponent = NewComponent[MenuInput]()

// MotionInput is the HMD move request for the current frame. Axes are in
// [-1, 1].
type MotionInput struct {
	Forward float64
	Strafe  float64
	Turn    float64
}

var MotionInputComponent = NewComponent[MotionInput]()
