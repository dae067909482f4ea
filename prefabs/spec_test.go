package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrtools/lighttool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// vec flattens v for component-wise InDelta checks.
func vec(v mgl64.Vec3) []float64 {
	return v[:]
}

// useDir points Load at dir for the duration of the test.
func useDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
}

func TestEmbeddedSpecsLoad(t *testing.T) {
	useDir(t, t.TempDir())

	hmd, err := LoadHMDSpec()
	require.NoError(t, err)
	assert.Equal(t, "hmd", hmd.Name)
	assert.Equal(t, uint32(0x11), hmd.CullingMask)
	assert.Equal(t, 1.6, hmd.Transform.Position.Y)

	pc, err := LoadPreviewCameraSpec()
	require.NoError(t, err)
	cfg := pc.Config()
	assert.Equal(t, 40.0, cfg.FieldOfView)
	assert.Equal(t, 0.8, cfg.Smoothing.PullBackDistance)
	assert.Equal(t, 3.0, cfg.Smoothing.SmoothingRate)
	assert.Equal(t, uint32(0x10), cfg.HMDOnlyMask)

	lt, err := LoadLightToolSpec()
	require.NoError(t, err)
	assert.Equal(t, lighttool.DefaultConfig(), lt.Config())
	assert.Equal(t, "light_tint.tengo", lt.TintScript)

	script, err := LoadScript(lt.TintScript)
	require.NoError(t, err)
	assert.Contains(t, string(script), "tint")
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, PreviewCameraFile), []byte("field_of_view: 65\npull_back_distance: 0.25\n"), 0o644))
	_, ok := ModTime(PreviewCameraFile)
	assert.True(t, ok)

	pc, err := LoadPreviewCameraSpec()
	require.NoError(t, err)
	assert.Equal(t, 65.0, pc.FieldOfView)
	require.NotNil(t, pc.PullBackDistance)
	assert.Equal(t, 0.25, *pc.PullBackDistance)
	assert.Nil(t, pc.SmoothingRate)
	assert.Equal(t, 3.0, pc.Config().Smoothing.SmoothingRate)

	_, ok = ModTime(LightToolFile)
	assert.False(t, ok)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "light_tint.tengo"), []byte("tint := base\n"), 0o644))
	script, err := LoadScript("prefabs/scripts/light_tint.tengo")
	require.NoError(t, err)
	assert.Equal(t, "tint := base\n", string(script))
}

func TestLoadSpecErrors(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)

	_, err := LoadSpec[HMDSpec]("missing.yaml")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, HMDFile), []byte("name: [unterminated\n"), 0o644))
	_, err = LoadHMDSpec()
	assert.ErrorContains(t, err, HMDFile)
}

func TestTransformSpecRotation(t *testing.T) {
	spec := TransformSpec{Yaw: 90}
	fwd := spec.Rotation().Rotate(mgl64.Vec3{0, 0, 1})
	assert.InDeltaSlice(t, vec(mgl64.Vec3{1, 0, 0}), vec(fwd), 1e-9, "got %v", fwd)

	spec = TransformSpec{Pitch: -90}
	fwd = spec.Rotation().Rotate(mgl64.Vec3{0, 0, 1})
	assert.InDeltaSlice(t, vec(mgl64.Vec3{0, 1, 0}), vec(fwd), 1e-9, "got %v", fwd)
}

func TestLightToolSpecConfigKeepsDefaults(t *testing.T) {
	c := &YAMLColor{Color: color.NRGBA{R: 10, G: 20, B: 30, A: 40}}
	rangeScaling := 50.0
	spec := &LightToolSpec{RangeScaling: &rangeScaling, DefaultColor: c}
	cfg := spec.Config()

	want := lighttool.DefaultConfig()
	want.RangeScaling = 50
	want.DefaultColor = color.NRGBA{R: 10, G: 20, B: 30, A: 40}
	assert.Equal(t, want, cfg)
}

func TestPreviewCameraSpecMissingAndZeroKeys(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		wantPull float64
		wantRate float64
	}{
		{name: "missing keys use defaults", yaml: "name: cam\n", wantPull: 0.8, wantRate: 3},
		{name: "explicit zero pull back", yaml: "pull_back_distance: 0\n", wantPull: 0, wantRate: 3},
		{name: "both set", yaml: "pull_back_distance: 1.5\nsmoothing_rate: 6\n", wantPull: 1.5, wantRate: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			useDir(t, dir)
			require.NoError(t, os.WriteFile(filepath.Join(dir, PreviewCameraFile), []byte(tt.yaml), 0o644))

			spec, err := LoadPreviewCameraSpec()
			require.NoError(t, err)
			cfg := spec.Config()
			assert.Equal(t, tt.wantPull, cfg.Smoothing.PullBackDistance)
			assert.Equal(t, tt.wantRate, cfg.Smoothing.SmoothingRate)
			assert.Equal(t, 40.0, cfg.FieldOfView)
			assert.Equal(t, 1.0, cfg.PixelScale)
		})
	}
}

func TestLightToolSpecExplicitZeros(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	data := "intensity_min: 0\nrange_min: 0\nintensity_scaling: 2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, LightToolFile), []byte(data), 0o644))

	spec, err := LoadLightToolSpec()
	require.NoError(t, err)
	cfg := spec.Config()

	want := lighttool.DefaultConfig()
	want.IntensityMin = 0
	want.RangeMin = 0
	want.IntensityScaling = 2
	assert.Equal(t, want, cfg)
}

func TestLightToolSpecHighlightTable(t *testing.T) {
	tests := []struct {
		name    string
		menu    []string
		want    lighttool.HighlightTable
		slots   int
		wantErr bool
	}{
		{
			name:  "default",
			want:  lighttool.DefaultHighlightTable(),
			slots: 4,
		},
		{
			name:  "reordered subset",
			menu:  []string{"area", "point"},
			want:  lighttool.HighlightTable{lighttool.Area: 0, lighttool.Point: 1},
			slots: 2,
		},
		{
			name:    "unknown kind",
			menu:    []string{"laser"},
			wantErr: true,
		},
		{
			name:    "duplicate",
			menu:    []string{"spot", "Spot"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := &LightToolSpec{Menu: tt.menu}
			table, slots, err := spec.HighlightTable()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, table)
			assert.Equal(t, tt.slots, slots)
		})
	}
}

func TestYAMLColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: `"#ff8000"`, want: color.NRGBA{R: 0xff, G: 0x80, A: 0xff}},
		{in: `"10203040"`, want: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{in: `"#fff"`, wantErr: true},
		{in: `"#gg0000"`, wantErr: true},
		{in: `[1, 2, 3]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c YAMLColor
			err := yaml.Unmarshal([]byte(tt.in), &c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Color)
		})
	}
}

func TestHex(t *testing.T) {
	c := color.NRGBA{R: 0xff, G: 0xd2, B: 0x7f, A: 0xff}
	assert.Equal(t, "#ffd27fff", Hex(c))
	parsed, err := ParseColor(Hex(c))
	require.NoError(t, err)
	assert.Equal(t, c, parsed)
}
