package designer

import "fmt"

// TextAlign is the horizontal alignment of a text block
type TextAlign string

// Text alignments
const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// Text size limits in pixels
const (
	MinFontSize     = 12
	MaxFontSize     = 48
	DefaultFontSize = 14
)

// DefaultTextContent is the placeholder of a new text component
const DefaultTextContent = "Enter content here"

// Config is the type specific configuration of a component. It is a closed
// set: *ChartConfig, *TableConfig, *TextConfig, *MetricConfig and
// *ImageConfig are the only implementations.
type Config interface {
	Kind() ComponentType
	// Binding is the bound data source key, nil when unbound.
	Binding() *string
	clone() Config
	setBinding(key *string)
}

// Style is the box style every component carries
type Style struct {
	BackgroundColor string  `validate:"omitempty,iscolor"`
	BorderColor     string  `validate:"omitempty,iscolor"`
	BorderWidth     float64 `validate:"gte=0"`
}

// ChartStyle holds chart only display options
type ChartStyle struct {
	Legend bool
	Grid   bool
	Colors []string `validate:"dive,iscolor"`
}

// ChartConfig configures a chart component
type ChartConfig struct {
	Subtype    string
	DataSource *string
	Style      Style
	Chart      ChartStyle
}

// TableConfig configures a table component
type TableConfig struct {
	Subtype    string
	DataSource *string
	Style      Style
}

// TextConfig configures a text block
type TextConfig struct {
	Subtype    string
	DataSource *string
	Style      Style
	Content    string
	FontSize   int       `validate:"gte=12,lte=48"`
	Color      string    `validate:"omitempty,iscolor"`
	Align      TextAlign `validate:"oneof=left center right"`
}

// MetricConfig configures a KPI metric
type MetricConfig struct {
	Subtype    string
	DataSource *string
	Style      Style
}

// ImageConfig configures an image block
type ImageConfig struct {
	Subtype    string
	DataSource *string
	Style      Style
}

// Kind reports that a ChartConfig configures a chart component
func (*ChartConfig) Kind() ComponentType { return ComponentChart }

// Kind reports that a TableConfig configures a table component
func (*TableConfig) Kind() ComponentType { return ComponentTable }

// Kind reports that a TextConfig configures a text component
func (*TextConfig) Kind() ComponentType { return ComponentText }

// Kind reports that a MetricConfig configures a metric component
func (*MetricConfig) Kind() ComponentType { return ComponentMetric }

// Kind reports that an ImageConfig configures an image component
func (*ImageConfig) Kind() ComponentType { return ComponentImage }

// Binding returns the data source key of the chart, or nil when unbound
func (c *ChartConfig) Binding() *string { return c.DataSource }

// Binding returns the data source key of the table, or nil when unbound
func (c *TableConfig) Binding() *string { return c.DataSource }

// Binding returns the data source key of the text, or nil when unbound
func (c *TextConfig) Binding() *string { return c.DataSource }

// Binding returns the data source key of the metric, or nil when unbound
func (c *MetricConfig) Binding() *string { return c.DataSource }

// Binding returns the data source key of the image, or nil when unbound
func (c *ImageConfig) Binding() *string { return c.DataSource }

func (c *ChartConfig) setBinding(key *string)  { c.DataSource = key }
func (c *TableConfig) setBinding(key *string)  { c.DataSource = key }
func (c *TextConfig) setBinding(key *string)   { c.DataSource = key }
func (c *MetricConfig) setBinding(key *string) { c.DataSource = key }
func (c *ImageConfig) setBinding(key *string)  { c.DataSource = key }

func (c *ChartConfig) clone() Config {
	out := *c
	out.DataSource = cloneString(c.DataSource)
	if c.Chart.Colors != nil {
		out.Chart.Colors = append([]string{}, c.Chart.Colors...)
	}
	return &out
}

func (c *TableConfig) clone() Config {
	out := *c
	out.DataSource = cloneString(c.DataSource)
	return &out
}

func (c *TextConfig) clone() Config {
	out := *c
	out.DataSource = cloneString(c.DataSource)
	return &out
}

func (c *MetricConfig) clone() Config {
	out := *c
	out.DataSource = cloneString(c.DataSource)
	return &out
}

func (c *ImageConfig) clone() Config {
	out := *c
	out.DataSource = cloneString(c.DataSource)
	return &out
}

// subtypeOf reads the subtype of any config kind
func subtypeOf(cfg Config) string {
	switch c := cfg.(type) {
	case *ChartConfig:
		return c.Subtype
	case *TableConfig:
		return c.Subtype
	case *TextConfig:
		return c.Subtype
	case *MetricConfig:
		return c.Subtype
	case *ImageConfig:
		return c.Subtype
	default:
		panic(fmt.Sprintf("designer: unknown config kind %T", cfg))
	}
}

// styleOf returns a pointer to the box style of any config kind
func styleOf(cfg Config) *Style {
	switch c := cfg.(type) {
	case *ChartConfig:
		return &c.Style
	case *TableConfig:
		return &c.Style
	case *TextConfig:
		return &c.Style
	case *MetricConfig:
		return &c.Style
	case *ImageConfig:
		return &c.Style
	default:
		panic(fmt.Sprintf("designer: unknown config kind %T", cfg))
	}
}

func defaultStyle() Style {
	return Style{
		BackgroundColor: "#ffffff",
		BorderColor:     "#d9d9d9",
		BorderWidth:     1,
	}
}

// defaultConfig builds the initial configuration of a new component
func defaultConfig(kind ComponentType, subtype string) (Config, error) {
	switch kind {
	case ComponentChart:
		return &ChartConfig{
			Subtype: subtype,
			Style:   defaultStyle(),
			Chart:   ChartStyle{Legend: true, Grid: true, Colors: []string{}},
		}, nil
	case ComponentTable:
		return &TableConfig{Subtype: subtype, Style: defaultStyle()}, nil
	case ComponentText:
		return &TextConfig{
			Subtype:  subtype,
			Style:    defaultStyle(),
			Content:  DefaultTextContent,
			FontSize: DefaultFontSize,
			Color:    "#000000",
			Align:    AlignLeft,
		}, nil
	case ComponentMetric:
		return &MetricConfig{Subtype: subtype, Style: defaultStyle()}, nil
	case ComponentImage:
		return &ImageConfig{Subtype: subtype, Style: defaultStyle()}, nil
	default:
		return nil, fmt.Errorf("%w: unknown component type %q", ErrInvalidCatalogEntry, kind)
	}
}

// defaultTitle mirrors the placeholder titles of the component library
func defaultTitle(kind ComponentType) string {
	switch kind {
	case ComponentChart:
		return "New Chart"
	case ComponentTable:
		return "New Table"
	default:
		return "New Component"
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
