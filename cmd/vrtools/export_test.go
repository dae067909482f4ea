package main

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrtools/ecs"
	"github.com/milk9111/vrtools/ecs/component"
	"github.com/milk9111/vrtools/ecs/entity"
	"github.com/milk9111/vrtools/lighttool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestExportSelectedLight(t *testing.T) {
	w := ecs.NewWorld()
	ctrl, err := entity.NewController(w)
	require.NoError(t, err)
	tool, err := entity.NewLightTool(w, ctrl, nil)
	require.NoError(t, err)

	_, err = exportSelectedLight(w, tool)
	assert.ErrorIs(t, err, errNoSelection)

	light, err := entity.NewLight(w, lighttool.SpawnRequest{
		Kind:      lighttool.Area,
		Color:     color.NRGBA{R: 0xc8, G: 0xe6, B: 0xff, A: 0xff},
		Position:  mgl64.Vec3{1, 2, 3},
		Scale:     0.0025,
		Intensity: 51,
		Range:     5010,
	})
	require.NoError(t, err)
	sel, _ := ecs.Get(w, tool, component.SelectionComponent.Kind())
	sel.Active = component.EntityRef(light)

	data, err := exportSelectedLight(w, tool)
	require.NoError(t, err)

	var got lightExport
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "area_light", got.Name)
	assert.Equal(t, "area", got.Kind)
	assert.Equal(t, "#c8e6ffff", got.Color)
	assert.Equal(t, 51.0, got.Intensity)
	assert.Equal(t, 5010.0, got.Range)
	assert.Equal(t, 3.0, got.Position.Z)

	require.True(t, ecs.DestroyEntity(w, light))
	_, err = exportSelectedLight(w, tool)
	assert.ErrorIs(t, err, errNoSelection)
}

func TestDescribeEvent(t *testing.T) {
	evt := ecs.Event{Type: ecs.EventLightReleased, Data: ecs.LightEvent{Intensity: 51, Range: 5010}}
	assert.Contains(t, describeEvent(evt), "intensity=51.00 range=5010.0")
	assert.Equal(t, "custom", describeEvent(ecs.Event{Type: "custom"}))
}

type recordingHighlighter struct {
	calls [][2]int
}

func (r *recordingHighlighter) SetHighlighted(index int, on bool) {
	v := 0
	if on {
		v = 1
	}
	r.calls = append(r.calls, [2]int{index, v})
}

func TestHighlightRelay(t *testing.T) {
	relay := &highlightRelay{}
	relay.SetHighlighted(0, true)

	rec := &recordingHighlighter{}
	relay.target = rec
	menu, err := lighttool.NewMenu(lighttool.DefaultHighlightTable(), len(lighttool.Kinds), relay)
	require.NoError(t, err)
	menu.Select(lighttool.Point)
	assert.Equal(t, [][2]int{{0, 0}, {1, 0}, {2, 1}, {3, 0}}, rec.calls)
}

func TestMenuLabels(t *testing.T) {
	table := lighttool.HighlightTable{lighttool.Area: 0, lighttool.Spot: 1}
	menu, err := lighttool.NewMenu(table, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"area", "spot"}, menuLabels(menu))
	assert.Equal(t, "1  Area", menuLabel(0, "area"))
	assert.Equal(t, "", menuLabel(2, ""))
}
