// Package lighttool implements the drag-to-create light tool: press the
// trigger to drop a light in front of the controller, drag to shape its
// intensity and range, release to arm for the next one.
package lighttool

import (
	"errors"
	"image/color"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/colornames"
)

// maxIntensityOffset caps the vertical drag counted toward intensity.
const maxIntensityOffset = 10.0

var ErrNoSpawner = errors.New("lighttool: host has no spawner")

// State is the drag session state.
type State int

const (
	AwaitingStart State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "awaiting_start"
}

// Ray is the controller pointing transform.
type Ray struct {
	Origin  mgl64.Vec3
	Forward mgl64.Vec3
}

// Trigger is a per-tick edge-triggered input.
type Trigger interface {
	JustPressed() bool
	JustReleased() bool
	// Consume marks this tick's edge as handled.
	Consume()
}

// Light is a created light whose parameters the tool keeps updating.
type Light interface {
	SetIntensity(float64)
	SetRange(float64)
}

// SpawnRequest describes a light to create.
type SpawnRequest struct {
	Kind     Kind
	Color    color.NRGBA
	Position mgl64.Vec3
	Scale    float64
	// Intensity and Range are the initial values, before any drag.
	Intensity float64
	Range     float64
}

type Spawner interface {
	Spawn(req SpawnRequest) (Light, error)
}

type SpatialIndex interface {
	Register(l Light)
}

type Selection interface {
	SetActive(l Light)
}

type ToolCloser interface {
	CloseTool()
}

// Host bundles the collaborators the tool writes to. Only Spawner is required.
type Host struct {
	Spawner   Spawner
	Index     SpatialIndex
	Selection Selection
	Closer    ToolCloser
}

// Config is fixed at construction.
type Config struct {
	DrawDistance     float64
	IntensityMin     float64
	IntensityScaling float64
	RangeMin         float64
	RangeScaling     float64
	// MinScale keeps a freshly spawned light from having zero size.
	MinScale     float64
	DefaultColor color.NRGBA
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		DrawDistance:     0.075,
		IntensityMin:     1,
		IntensityScaling: 5,
		RangeMin:         10,
		RangeScaling:     1000,
		MinScale:         0.0025,
		DefaultColor:     color.NRGBAModel.Convert(colornames.Cyan).(color.NRGBA),
	}
}

// Params are the values applied to the light being dragged.
type Params struct {
	Kind      Kind
	Color     color.NRGBA
	Intensity float64
	Range     float64
}

// Session is the current drag.
type Session struct {
	Start mgl64.Vec3
	End   mgl64.Vec3
	Kind  Kind
	State State
}

// DrawPoint returns the point the tool draws at for a ray.
func DrawPoint(ray Ray, drawDistance, viewerScale float64) mgl64.Vec3 {
	return ray.Origin.Add(ray.Forward.Mul(drawDistance * viewerScale))
}

// Intensity derives light intensity from vertical drag only.
func Intensity(start, end mgl64.Vec3, cfg Config) float64 {
	raw := mgl64.Clamp(end.Y()-start.Y(), 0, maxIntensityOffset)
	return cfg.IntensityMin + raw*cfg.IntensityScaling
}

// Range derives light range from drag in the horizontal plane.
func Range(start, end mgl64.Vec3, viewerScale float64, cfg Config) float64 {
	flat := mgl64.Vec3{end.X(), start.Y(), end.Z()}
	return cfg.RangeMin + start.Sub(flat).Len()*cfg.RangeScaling*viewerScale
}

// Interactor is the tool's state machine. One drag session at a time.
type Interactor struct {
	cfg      Config
	host     Host
	session  Session
	selected Kind
	current  Light
	params   Params
}

func NewInteractor(cfg Config, host Host) *Interactor {
	return &Interactor{
		cfg:      cfg,
		host:     host,
		selected: Point,
		session:  Session{Kind: Point, State: AwaitingStart},
	}
}

func (it *Interactor) Config() Config {
	return it.cfg
}

func (it *Interactor) State() State {
	return it.session.State
}

func (it *Interactor) Session() Session {
	return it.session
}

// SelectedKind is the kind the next spawn will use.
func (it *Interactor) SelectedKind() Kind {
	return it.selected
}

// SetSelectedKind changes the next spawn's kind. A drag in progress keeps its kind.
func (it *Interactor) SetSelectedKind(k Kind) {
	it.selected = k
}

// Current returns the most recently created light, or nil.
func (it *Interactor) Current() Light {
	return it.current
}

// Params returns the last values applied to the current light.
func (it *Interactor) Params() Params {
	return it.params
}

// ProcessInput advances the state machine by one tick.
func (it *Interactor) ProcessInput(ray Ray, viewerScale float64, trig Trigger) {
	if trig == nil {
		return
	}
	if viewerScale <= 0 {
		viewerScale = 1
	}

	switch it.session.State {
	case AwaitingStart:
		if trig.JustPressed() {
			if err := it.begin(ray, viewerScale); err != nil {
				log.Printf("LightTool: spawn %s light: %v", it.selected, err)
				return
			}
			trig.Consume()
		}
	case Dragging:
		it.drag(ray, viewerScale)
		if trig.JustReleased() {
			it.session.State = AwaitingStart
			trig.Consume()
		}
	}
}

func (it *Interactor) begin(ray Ray, viewerScale float64) error {
	if it.host.Spawner == nil {
		return ErrNoSpawner
	}

	start := DrawPoint(ray, it.cfg.DrawDistance, viewerScale)
	kind := it.selected
	light, err := it.host.Spawner.Spawn(SpawnRequest{
		Kind:      kind,
		Color:     it.cfg.DefaultColor,
		Position:  start,
		Scale:     it.cfg.MinScale * viewerScale,
		Intensity: it.cfg.IntensityMin,
		Range:     it.cfg.RangeMin,
	})
	if err != nil {
		return err
	}

	it.current = light
	it.session = Session{Start: start, End: start, Kind: kind, State: Dragging}
	it.params = Params{
		Kind:      kind,
		Color:     it.cfg.DefaultColor,
		Intensity: it.cfg.IntensityMin,
		Range:     it.cfg.RangeMin,
	}

	if it.host.Index != nil {
		it.host.Index.Register(light)
	}
	if it.host.Selection != nil {
		it.host.Selection.SetActive(light)
	}
	return nil
}

func (it *Interactor) drag(ray Ray, viewerScale float64) {
	it.session.End = DrawPoint(ray, it.cfg.DrawDistance, viewerScale)
	it.params.Intensity = Intensity(it.session.Start, it.session.End, it.cfg)
	it.params.Range = Range(it.session.Start, it.session.End, viewerScale, it.cfg)
	if it.current != nil {
		it.current.SetIntensity(it.params.Intensity)
		it.current.SetRange(it.params.Range)
	}
}

// Close asks the host to put the tool away.
func (it *Interactor) Close() {
	if it.host.Closer != nil {
		it.host.Closer.CloseTool()
	}
}
