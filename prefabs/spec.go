package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrtools/lighttool"
	"github.com/milk9111/vrtools/pose"
	"github.com/milk9111/vrtools/preview"
	"gopkg.in/yaml.v3"
)

const (
	HMDFile           = "hmd.yaml"
	PreviewCameraFile = "preview_camera.yaml"
	LightToolFile     = "light_tool.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

type TransformSpec struct {
	Position Vec3Spec `yaml:"position"`
	// Yaw and Pitch are in degrees.
	Yaw   float64 `yaml:"yaw"`
	Pitch float64 `yaml:"pitch"`
	Scale float64 `yaml:"scale"`
}

// Rotation turns yaw about world up, then pitch about the local right axis.
func (t TransformSpec) Rotation() mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(t.Yaw), pose.WorldUp)
	pitch := mgl64.QuatRotate(mgl64.DegToRad(t.Pitch), mgl64.Vec3{1, 0, 0})
	return yaw.Mul(pitch).Normalize()
}

type HMDSpec struct {
	Name         string        `yaml:"name"`
	Transform    TransformSpec `yaml:"transform"`
	FieldOfView  float64       `yaml:"field_of_view"`
	CullingMask  uint32        `yaml:"culling_mask"`
	TargetWidth  int           `yaml:"target_width"`
	TargetHeight int           `yaml:"target_height"`
	MoveSpeed    float64       `yaml:"move_speed"`
	TurnSpeed    float64       `yaml:"turn_speed"`
	Controller   Vec3Spec      `yaml:"controller"`
	ViewerScale  float64       `yaml:"viewer_scale"`
}

func LoadHMDSpec() (*HMDSpec, error) {
	spec, err := LoadSpec[HMDSpec](HMDFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// PreviewCameraSpec leaves pointer fields nil when the YAML omits them, so
// an explicit 0 can be told apart from a missing key.
type PreviewCameraSpec struct {
	Name             string   `yaml:"name"`
	FieldOfView      float64  `yaml:"field_of_view"`
	PullBackDistance *float64 `yaml:"pull_back_distance"`
	SmoothingRate    *float64 `yaml:"smoothing_rate"`
	TargetDisplay    int      `yaml:"target_display"`
	HMDOnlyMask      uint32   `yaml:"hmd_only_mask"`
	PixelScale       float64  `yaml:"pixel_scale"`
}

func LoadPreviewCameraSpec() (*PreviewCameraSpec, error) {
	spec, err := LoadSpec[PreviewCameraSpec](PreviewCameraFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Config converts the spec into the preview camera's fixed configuration.
// Missing keys keep preview.DefaultConfig values.
func (s *PreviewCameraSpec) Config() preview.Config {
	cfg := preview.DefaultConfig()
	if s.SmoothingRate != nil {
		cfg.Smoothing.SmoothingRate = *s.SmoothingRate
	}
	if s.PullBackDistance != nil {
		cfg.Smoothing.PullBackDistance = *s.PullBackDistance
	}
	if s.FieldOfView != 0 {
		cfg.FieldOfView = s.FieldOfView
	}
	if s.PixelScale != 0 {
		cfg.PixelScale = s.PixelScale
	}
	cfg.TargetDisplay = s.TargetDisplay
	cfg.HMDOnlyMask = s.HMDOnlyMask
	return cfg
}

// LightToolSpec uses pointers for the tuning values so a key set to 0 is
// kept while a missing key falls back to lighttool.DefaultConfig.
type LightToolSpec struct {
	Name             string     `yaml:"name"`
	DrawDistance     *float64   `yaml:"draw_distance"`
	IntensityMin     *float64   `yaml:"intensity_min"`
	IntensityScaling *float64   `yaml:"intensity_scaling"`
	RangeMin         *float64   `yaml:"range_min"`
	RangeScaling     *float64   `yaml:"range_scaling"`
	MinScale         *float64   `yaml:"min_scale"`
	DefaultColor     *YAMLColor `yaml:"default_color"`
	// Menu lists kinds in highlight slot order.
	Menu       []string `yaml:"menu"`
	TintScript string   `yaml:"tint_script"`
}

func LoadLightToolSpec() (*LightToolSpec, error) {
	spec, err := LoadSpec[LightToolSpec](LightToolFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Config converts the spec into lighttool.Config.
func (s *LightToolSpec) Config() lighttool.Config {
	cfg := lighttool.DefaultConfig()
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.DrawDistance, s.DrawDistance)
	set(&cfg.IntensityMin, s.IntensityMin)
	set(&cfg.IntensityScaling, s.IntensityScaling)
	set(&cfg.RangeMin, s.RangeMin)
	set(&cfg.RangeScaling, s.RangeScaling)
	set(&cfg.MinScale, s.MinScale)
	if s.DefaultColor != nil && s.DefaultColor.Color != nil {
		cfg.DefaultColor = color.NRGBAModel.Convert(s.DefaultColor.Color).(color.NRGBA)
	}
	return cfg
}

// HighlightTable builds the explicit kind -> slot table from the menu list.
// An empty list uses lighttool.DefaultHighlightTable.
func (s *LightToolSpec) HighlightTable() (lighttool.HighlightTable, int, error) {
	if len(s.Menu) == 0 {
		return lighttool.DefaultHighlightTable(), len(lighttool.Kinds), nil
	}
	table := make(lighttool.HighlightTable, len(s.Menu))
	for i, name := range s.Menu {
		k, err := lighttool.ParseKind(name)
		if err != nil {
			return nil, 0, fmt.Errorf("prefabs: %s menu[%d]: %w", LightToolFile, i, err)
		}
		if _, dup := table[k]; dup {
			return nil, 0, fmt.Errorf("prefabs: %s menu[%d]: %w: %s listed twice", LightToolFile, i, lighttool.ErrBadHighlightTable, k)
		}
		table[k] = i
	}
	return table, len(s.Menu), nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// ParseColor reads #rrggbb or #rrggbbaa. The leading # is optional.
func ParseColor(value string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(value), "#")

	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return color.NRGBA{}, err
	}
	g, err := parse(2)
	if err != nil {
		return color.NRGBA{}, err
	}
	b, err := parse(4)
	if err != nil {
		return color.NRGBA{}, err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return color.NRGBA{}, err
		}
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// Hex formats a color as #rrggbbaa.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
