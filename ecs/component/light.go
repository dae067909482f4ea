package component

import (
	"image/color"

	"github.com/milk9111/vrtools/lighttool"
)

// Light is a light created in the scene.
type Light struct {
	Kind      lighttool.Kind
	Color     color.NRGBA
	Intensity float64
	Range     float64
}

var LightComponent = NewComponent[Light]()

// LightTool is a light creation tool bound to a controller.
type LightTool struct {
	Ray        EntityRef
	Config     lighttool.Config
	Interactor *lighttool.Interactor
	Menu       *lighttool.Menu
	Enabled    bool
	// TintScript optionally names a tengo script that picks a color per kind.
	TintScript string
}

var LightToolComponent = NewComponent[LightTool]()

// Selection is the editor's active object.
type Selection struct {
	Active EntityRef
}

var SelectionComponent = NewComponent[Selection]()

// SpatialEntry marks an entity registered in the spatial index.
type SpatialEntry struct {
	Radius float64
}

var SpatialEntryComponent = NewComponent[SpatialEntry]()
