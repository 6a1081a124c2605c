package designer

import (
	"encoding/json"

	"github.com/linesmerrill/report-designer-api/catalog"
)

// ComponentType is the fixed kind of a component
type ComponentType string

// Component types
const (
	ComponentChart  ComponentType = catalog.TypeChart
	ComponentTable  ComponentType = catalog.TypeTable
	ComponentText   ComponentType = catalog.TypeText
	ComponentImage  ComponentType = catalog.TypeImage
	ComponentMetric ComponentType = catalog.TypeMetric
)

// Layout declares how component positions are interpreted by the renderer
type Layout string

// Layouts
const (
	LayoutGrid     Layout = "grid"
	LayoutFree     Layout = "free"
	LayoutVertical Layout = "vertical"
)

// PageSize of the rendered report
type PageSize string

// Page sizes
const (
	PageA4     PageSize = "A4"
	PageA3     PageSize = "A3"
	PageLetter PageSize = "Letter"
)

// Orientation of the rendered report
type Orientation string

// Orientations
const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// DefaultTheme is the theme of a new template
const DefaultTheme = "default"

// Template is a report layout composed of positioned components
type Template struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Components  []Component `json:"components"`
	Layout      Layout      `json:"layout" validate:"oneof=grid free vertical"`
	Theme       string      `json:"theme"`
	Settings    Settings    `json:"settings"`
}

// Settings is the page setup of a template
type Settings struct {
	PageSize    PageSize    `json:"pageSize" validate:"oneof=A4 A3 Letter"`
	Orientation Orientation `json:"orientation" validate:"oneof=portrait landscape"`
	Margins     Margins     `json:"margins"`
}

// Margins are page margins, never negative
type Margins struct {
	Top    float64 `json:"top" validate:"gte=0"`
	Right  float64 `json:"right" validate:"gte=0"`
	Bottom float64 `json:"bottom" validate:"gte=0"`
	Left   float64 `json:"left" validate:"gte=0"`
}

// Component is a single addressable report element
type Component struct {
	ID       string
	Type     ComponentType
	Title    string
	Config   Config
	Position Position
}

// Position places a component on the canvas
type Position struct {
	X      float64 `json:"x" validate:"gte=0"`
	Y      float64 `json:"y" validate:"gte=0"`
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

// MarshalJSON renders the component in its stored document form so the
// variant config is written with its per-type fields.
func (c Component) MarshalJSON() ([]byte, error) {
	return json.Marshal(encodeComponent(c))
}

// Component returns the component with the given id
func (t Template) Component(id string) (Component, bool) {
	if i := t.indexOf(id); i >= 0 {
		return t.Components[i].clone(), true
	}
	return Component{}, false
}

func (t Template) indexOf(id string) int {
	for i, c := range t.Components {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// clone deep copies the template so edits never reach a previous state
func (t Template) clone() Template {
	out := t
	out.Components = make([]Component, len(t.Components))
	for i, c := range t.Components {
		out.Components[i] = c.clone()
	}
	return out
}

func (c Component) clone() Component {
	out := c
	if c.Config != nil {
		out.Config = c.Config.clone()
	}
	return out
}

func defaultSettings() Settings {
	return Settings{
		PageSize:    PageA4,
		Orientation: Portrait,
		Margins:     Margins{Top: 20, Right: 20, Bottom: 20, Left: 20},
	}
}
