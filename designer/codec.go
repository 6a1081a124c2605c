package designer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/linesmerrill/report-designer-api/catalog"
	"github.com/linesmerrill/report-designer-api/models"
)

// stored subtypes are checked against the built-in component catalog; images
// have no catalog entry and accept any subtype
var builtinComponents = catalog.NewComponentCatalog()

// Serialize renders a template as a stored document. Name, description and
// the other library fields come from meta, not from the template. updatedAt
// is stored in UTC at the millisecond precision Mongo keeps. UsageCount is
// left at zero; the store keeps the real count.
func Serialize(t Template, meta Metadata, updatedAt time.Time) models.TemplateDocument {
	components := make([]models.ComponentDocument, 0, len(t.Components))
	for _, c := range t.Components {
		components = append(components, encodeComponent(c))
	}
	m := t.Settings.Margins
	return models.TemplateDocument{
		ID:          t.ID,
		Name:        meta.Name,
		Description: meta.Description,
		Category:    meta.Category,
		Tags:        append([]string{}, meta.Tags...),
		IsPublic:    meta.IsPublic,
		Layout:      string(t.Layout),
		Theme:       t.Theme,
		Settings: &models.SettingsDocument{
			PageSize:    string(t.Settings.PageSize),
			Orientation: string(t.Settings.Orientation),
			Margins: &models.MarginsDocument{
				Top:    float(m.Top),
				Right:  float(m.Right),
				Bottom: float(m.Bottom),
				Left:   float(m.Left),
			},
		},
		Components: components,
		UpdatedAt:  updatedAt.UTC().Truncate(time.Millisecond),
	}
}

// DecodeDocument parses a JSON template document and restores the template
func DecodeDocument(data []byte) (Template, error) {
	var doc models.TemplateDocument
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return Template{}, schemaErr("document", "%v", err)
	}
	return Deserialize(doc)
}

// Deserialize restores a template from its stored document. Missing required
// fields and out of range values fail with ErrSchema, repeated component ids
// with ErrDuplicateComponentID.
func Deserialize(doc models.TemplateDocument) (Template, error) {
	if doc.ID == "" {
		return Template{}, schemaErr("id", "required")
	}
	if doc.Settings == nil {
		return Template{}, schemaErr("settings", "required")
	}
	if doc.Settings.Margins == nil {
		return Template{}, schemaErr("settings.margins", "required")
	}
	if doc.Components == nil {
		return Template{}, schemaErr("components", "required")
	}
	if doc.UpdatedAt.IsZero() {
		return Template{}, schemaErr("updatedAt", "required")
	}
	margins, err := decodeMargins(doc.Settings.Margins)
	if err != nil {
		return Template{}, err
	}

	t := Template{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		Components:  make([]Component, 0, len(doc.Components)),
		Layout:      Layout(doc.Layout),
		Theme:       doc.Theme,
		Settings: Settings{
			PageSize:    PageSize(doc.Settings.PageSize),
			Orientation: Orientation(doc.Settings.Orientation),
			Margins:     margins,
		},
	}
	if err := checkTemplate(t); err != nil {
		return Template{}, schemaErr("template", "%v", err)
	}

	seen := make(map[string]bool, len(doc.Components))
	for i, cd := range doc.Components {
		field := fmt.Sprintf("components[%d]", i)
		c, err := decodeComponent(field, cd)
		if err != nil {
			return Template{}, err
		}
		if seen[c.ID] {
			return Template{}, fmt.Errorf("%w: %s", ErrDuplicateComponentID, c.ID)
		}
		seen[c.ID] = true
		t.Components = append(t.Components, c)
	}
	return t, nil
}

func encodeComponent(c Component) models.ComponentDocument {
	p := c.Position
	return models.ComponentDocument{
		ID:     c.ID,
		Type:   string(c.Type),
		Title:  c.Title,
		Config: encodeConfig(c.Config),
		Position: &models.PositionDocument{
			X:      float(p.X),
			Y:      float(p.Y),
			Width:  float(p.Width),
			Height: float(p.Height),
		},
	}
}

func encodeConfig(cfg Config) *models.ComponentConfigDocument {
	if cfg == nil {
		return nil
	}
	doc := &models.ComponentConfigDocument{
		Subtype:    subtypeOf(cfg),
		DataSource: cloneString(cfg.Binding()),
		Style:      encodeStyle(*styleOf(cfg)),
	}
	switch c := cfg.(type) {
	case *ChartConfig:
		var colors []string
		if c.Chart.Colors != nil {
			colors = append([]string{}, c.Chart.Colors...)
		}
		doc.Chart = &models.ChartStyleDocument{
			Colors: colors,
			Legend: c.Chart.Legend,
			Grid:   c.Chart.Grid,
		}
	case *TextConfig:
		content, size, color, align := c.Content, c.FontSize, c.Color, string(c.Align)
		doc.Content = &content
		doc.FontSize = &size
		doc.Color = &color
		doc.Align = &align
	case *TableConfig, *MetricConfig, *ImageConfig:
	default:
		panic(fmt.Sprintf("designer: unknown config kind %T", cfg))
	}
	return doc
}

func encodeStyle(s Style) *models.StyleDocument {
	return &models.StyleDocument{
		BackgroundColor: s.BackgroundColor,
		BorderColor:     s.BorderColor,
		BorderWidth:     s.BorderWidth,
	}
}

func decodeComponent(field string, cd models.ComponentDocument) (Component, error) {
	if cd.ID == "" {
		return Component{}, schemaErr(field+".id", "required")
	}
	if cd.Config == nil {
		return Component{}, schemaErr(field+".config", "required")
	}
	if cd.Position == nil {
		return Component{}, schemaErr(field+".position", "required")
	}
	pos, err := decodePosition(field+".position", cd.Position)
	if err != nil {
		return Component{}, err
	}
	kind := ComponentType(cd.Type)
	cfg, err := decodeConfig(field+".config", kind, cd.Config)
	if err != nil {
		return Component{}, err
	}
	if kind != ComponentImage {
		if _, ok := builtinComponents.Lookup(cd.Type, cd.Config.Subtype); !ok {
			return Component{}, schemaErr(field+".config.subtype", "%q is not a %s subtype, want one of %s",
				cd.Config.Subtype, kind, strings.Join(builtinComponents.SubtypesOf(cd.Type), ", "))
		}
	}

	c := Component{
		ID:       cd.ID,
		Type:     kind,
		Title:    cd.Title,
		Config:   cfg,
		Position: pos,
	}
	if err := checkComponent(c); err != nil {
		return Component{}, schemaErr(field, "%v", err)
	}
	return c, nil
}

// decodeConfig restores the config variant selected by the component type
func decodeConfig(field string, kind ComponentType, cd *models.ComponentConfigDocument) (Config, error) {
	style := Style{}
	if cd.Style != nil {
		style = Style{
			BackgroundColor: cd.Style.BackgroundColor,
			BorderColor:     cd.Style.BorderColor,
			BorderWidth:     cd.Style.BorderWidth,
		}
	}
	binding := cloneString(cd.DataSource)

	switch kind {
	case ComponentChart:
		if cd.Chart == nil {
			return nil, schemaErr(field+".chartConfig", "required for a chart")
		}
		var colors []string
		if cd.Chart.Colors != nil {
			colors = append([]string{}, cd.Chart.Colors...)
		}
		return &ChartConfig{
			Subtype:    cd.Subtype,
			DataSource: binding,
			Style:      style,
			Chart:      ChartStyle{Legend: cd.Chart.Legend, Grid: cd.Chart.Grid, Colors: colors},
		}, nil
	case ComponentTable:
		return &TableConfig{Subtype: cd.Subtype, DataSource: binding, Style: style}, nil
	case ComponentText:
		switch {
		case cd.Content == nil:
			return nil, schemaErr(field+".content", "required for text")
		case cd.FontSize == nil:
			return nil, schemaErr(field+".fontSize", "required for text")
		case cd.Color == nil:
			return nil, schemaErr(field+".color", "required for text")
		case cd.Align == nil:
			return nil, schemaErr(field+".align", "required for text")
		}
		return &TextConfig{
			Subtype:    cd.Subtype,
			DataSource: binding,
			Style:      style,
			Content:    *cd.Content,
			FontSize:   *cd.FontSize,
			Color:      *cd.Color,
			Align:      TextAlign(*cd.Align),
		}, nil
	case ComponentMetric:
		return &MetricConfig{Subtype: cd.Subtype, DataSource: binding, Style: style}, nil
	case ComponentImage:
		return &ImageConfig{Subtype: cd.Subtype, DataSource: binding, Style: style}, nil
	default:
		return nil, schemaErr(field, "unknown component type %q", kind)
	}
}

func decodePosition(field string, pd *models.PositionDocument) (Position, error) {
	switch {
	case pd.X == nil:
		return Position{}, schemaErr(field+".x", "required")
	case pd.Y == nil:
		return Position{}, schemaErr(field+".y", "required")
	case pd.Width == nil:
		return Position{}, schemaErr(field+".width", "required")
	case pd.Height == nil:
		return Position{}, schemaErr(field+".height", "required")
	}
	return Position{X: *pd.X, Y: *pd.Y, Width: *pd.Width, Height: *pd.Height}, nil
}

func decodeMargins(md *models.MarginsDocument) (Margins, error) {
	switch {
	case md.Top == nil:
		return Margins{}, schemaErr("settings.margins.top", "required")
	case md.Right == nil:
		return Margins{}, schemaErr("settings.margins.right", "required")
	case md.Bottom == nil:
		return Margins{}, schemaErr("settings.margins.bottom", "required")
	case md.Left == nil:
		return Margins{}, schemaErr("settings.margins.left", "required")
	}
	return Margins{Top: *md.Top, Right: *md.Right, Bottom: *md.Bottom, Left: *md.Left}, nil
}

func float(v float64) *float64 {
	return &v
}
