package designer

import "fmt"

// ComponentPatch is a partial update of a component. Nil fields are left
// unchanged. The component type can never be patched.
type ComponentPatch struct {
	Title    *string        `json:"title,omitempty"`
	Position *PositionPatch `json:"position,omitempty"`
	Config   *ConfigPatch   `json:"config,omitempty"`
}

// PositionPatch moves or resizes a component
type PositionPatch struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// StylePatch updates the box style
type StylePatch struct {
	BackgroundColor *string  `json:"backgroundColor,omitempty"`
	BorderColor     *string  `json:"borderColor,omitempty"`
	BorderWidth     *float64 `json:"borderWidth,omitempty"`
}

// ConfigPatch updates type specific configuration. Text fields only apply to
// text components and chart fields only to charts. Bindings are changed with
// SetBinding, not through a patch.
type ConfigPatch struct {
	Subtype *string     `json:"subtype,omitempty"`
	Style   *StylePatch `json:"style,omitempty"`

	Content  *string    `json:"content,omitempty"`
	FontSize *int       `json:"fontSize,omitempty"`
	Color    *string    `json:"color,omitempty"`
	Align    *TextAlign `json:"align,omitempty"`

	Legend *bool    `json:"legend,omitempty"`
	Grid   *bool    `json:"grid,omitempty"`
	Colors []string `json:"colors,omitempty"`
}

func (p *ConfigPatch) hasTextFields() bool {
	return p.Content != nil || p.FontSize != nil || p.Color != nil || p.Align != nil
}

func (p *ConfigPatch) hasChartFields() bool {
	return p.Legend != nil || p.Grid != nil || p.Colors != nil
}

// applyPatch merges p into a copy of c. The returned component still needs
// validation.
func applyPatch(c Component, p ComponentPatch) (Component, error) {
	out := c.clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Position != nil {
		applyPositionPatch(&out.Position, *p.Position)
	}
	if p.Config != nil {
		if err := applyConfigPatch(out.Config, *p.Config); err != nil {
			return c, err
		}
	}
	return out, nil
}

func applyPositionPatch(pos *Position, p PositionPatch) {
	if p.X != nil {
		pos.X = *p.X
	}
	if p.Y != nil {
		pos.Y = *p.Y
	}
	if p.Width != nil {
		pos.Width = *p.Width
	}
	if p.Height != nil {
		pos.Height = *p.Height
	}
}

func applyConfigPatch(cfg Config, p ConfigPatch) error {
	if p.Style != nil {
		s := styleOf(cfg)
		if p.Style.BackgroundColor != nil {
			s.BackgroundColor = *p.Style.BackgroundColor
		}
		if p.Style.BorderColor != nil {
			s.BorderColor = *p.Style.BorderColor
		}
		if p.Style.BorderWidth != nil {
			s.BorderWidth = *p.Style.BorderWidth
		}
	}

	switch c := cfg.(type) {
	case *ChartConfig:
		if p.hasTextFields() {
			return fmt.Errorf("%w: text fields do not apply to a chart", ErrInvalidPatch)
		}
		if p.Subtype != nil {
			c.Subtype = *p.Subtype
		}
		if p.Legend != nil {
			c.Chart.Legend = *p.Legend
		}
		if p.Grid != nil {
			c.Chart.Grid = *p.Grid
		}
		if p.Colors != nil {
			c.Chart.Colors = append([]string{}, p.Colors...)
		}
	case *TextConfig:
		if p.hasChartFields() {
			return fmt.Errorf("%w: chart fields do not apply to text", ErrInvalidPatch)
		}
		if p.Subtype != nil {
			c.Subtype = *p.Subtype
		}
		if p.Content != nil {
			c.Content = *p.Content
		}
		if p.FontSize != nil {
			c.FontSize = *p.FontSize
		}
		if p.Color != nil {
			c.Color = *p.Color
		}
		if p.Align != nil {
			c.Align = *p.Align
		}
	case *TableConfig:
		if err := rejectTypedFields(p, cfg.Kind()); err != nil {
			return err
		}
		if p.Subtype != nil {
			c.Subtype = *p.Subtype
		}
	case *MetricConfig:
		if err := rejectTypedFields(p, cfg.Kind()); err != nil {
			return err
		}
		if p.Subtype != nil {
			c.Subtype = *p.Subtype
		}
	case *ImageConfig:
		if err := rejectTypedFields(p, cfg.Kind()); err != nil {
			return err
		}
		if p.Subtype != nil {
			c.Subtype = *p.Subtype
		}
	default:
		panic(fmt.Sprintf("designer: unknown config kind %T", cfg))
	}
	return nil
}

func rejectTypedFields(p ConfigPatch, kind ComponentType) error {
	if p.hasTextFields() || p.hasChartFields() {
		return fmt.Errorf("%w: only subtype and style apply to a %s", ErrInvalidPatch, kind)
	}
	return nil
}
