package models

// ComponentDocument is the stored form of a single report component
type ComponentDocument struct {
	ID       string                   `json:"id" bson:"id"`
	Type     string                   `json:"type" bson:"type"` // "chart", "table", "text", "image", "metric"
	Title    string                   `json:"title" bson:"title"`
	Config   *ComponentConfigDocument `json:"config" bson:"config"`
	Position *PositionDocument        `json:"position" bson:"position"`
}

// ComponentConfigDocument holds every configuration field any component type
// can carry. Which fields are meaningful depends on the component type; the
// designer enforces the per-type rules when it decodes a document.
type ComponentConfigDocument struct {
	Subtype    string              `json:"subtype" bson:"subtype"`
	DataSource *string             `json:"dataSource" bson:"dataSource"`
	Style      *StyleDocument      `json:"style,omitempty" bson:"style,omitempty"`
	Chart      *ChartStyleDocument `json:"chartConfig,omitempty" bson:"chartConfig,omitempty"`
	Content    *string             `json:"content,omitempty" bson:"content,omitempty"`
	FontSize   *int                `json:"fontSize,omitempty" bson:"fontSize,omitempty"`
	Color      *string             `json:"color,omitempty" bson:"color,omitempty"`
	Align      *string             `json:"align,omitempty" bson:"align,omitempty"`
}

// StyleDocument is the box style shared by all component types
type StyleDocument struct {
	BackgroundColor string  `json:"backgroundColor" bson:"backgroundColor"`
	BorderColor     string  `json:"borderColor" bson:"borderColor"`
	BorderWidth     float64 `json:"borderWidth" bson:"borderWidth"`
}

// ChartStyleDocument is the chart specific style
type ChartStyleDocument struct {
	Colors []string `json:"colors" bson:"colors"`
	Legend bool     `json:"legend" bson:"legend"`
	Grid   bool     `json:"grid" bson:"grid"`
}

// PositionDocument places a component on the canvas
type PositionDocument struct {
	X      *float64 `json:"x" bson:"x"`
	Y      *float64 `json:"y" bson:"y"`
	Width  *float64 `json:"width" bson:"width"`
	Height *float64 `json:"height" bson:"height"`
}
