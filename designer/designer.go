// Package designer is the report template designer: the template document
// model, the editing session layered over it and the codec that turns a
// template into its stored document form.
//
// Every template operation is a pure transformation. It returns a new
// Template and leaves its input untouched, including on failure.
package designer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/linesmerrill/report-designer-api/catalog"
)

// ComponentLookup resolves addable component kinds
type ComponentLookup interface {
	Lookup(componentType, subtype string) (catalog.Entry, bool)
}

// BindingResolver resolves data source keys
type BindingResolver interface {
	IsValidKey(key string) bool
}

// Designer applies edit operations to templates against a component catalog
// and a data source catalog.
type Designer struct {
	components ComponentLookup
	sources    BindingResolver
	newID      func(prefix string) string
	place      Placer
}

// Option configures a Designer
type Option func(*Designer)

// WithIDGenerator replaces the uuid based id generator
func WithIDGenerator(fn func(prefix string) string) Option {
	return func(d *Designer) {
		d.newID = fn
	}
}

// WithPlacer replaces the default placement of new components
func WithPlacer(p Placer) Option {
	return func(d *Designer) {
		d.place = p
	}
}

// New creates a Designer
func New(components ComponentLookup, sources BindingResolver, opts ...Option) *Designer {
	d := &Designer{
		components: components,
		sources:    sources,
		newID:      uuidID,
		place:      RandomPlacer(nil),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func uuidID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// CreateTemplate returns an empty template with a fresh id and default settings
func (d *Designer) CreateTemplate() Template {
	return Template{
		ID:         d.newID("template"),
		Name:       "Untitled Report",
		Components: []Component{},
		Layout:     LayoutGrid,
		Theme:      DefaultTheme,
		Settings:   defaultSettings(),
	}
}

// AddComponent appends a new component of the given catalog kind and returns
// its id.
func (d *Designer) AddComponent(t Template, kind ComponentType, subtype string) (Template, string, error) {
	if _, ok := d.components.Lookup(string(kind), subtype); !ok {
		return t, "", fmt.Errorf("%w: %s/%s", ErrInvalidCatalogEntry, kind, subtype)
	}
	cfg, err := defaultConfig(kind, subtype)
	if err != nil {
		return t, "", err
	}

	c := Component{
		ID:       d.newID("component"),
		Type:     kind,
		Title:    defaultTitle(kind),
		Config:   cfg,
		Position: d.place(t.Components),
	}
	if c.Position.Width <= 0 || c.Position.Height <= 0 {
		c.Position.Width, c.Position.Height = DefaultWidth, DefaultHeight
	}

	out := t.clone()
	out.Components = append(out.Components, c)
	return out, c.ID, nil
}

// UpdateComponent merges a patch into the component with the given id
func (d *Designer) UpdateComponent(t Template, id string, patch ComponentPatch) (Template, error) {
	i := t.indexOf(id)
	if i < 0 {
		return t, fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}
	current := t.Components[i]

	updated, err := applyPatch(current, patch)
	if err != nil {
		return t, err
	}
	if sub := subtypeOf(updated.Config); sub != subtypeOf(current.Config) {
		if _, ok := d.components.Lookup(string(updated.Type), sub); !ok {
			return t, fmt.Errorf("%w: %s/%s", ErrInvalidCatalogEntry, updated.Type, sub)
		}
	}
	if err := checkComponent(updated); err != nil {
		return t, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	out := t.clone()
	out.Components[i] = updated
	return out, nil
}

// RemoveComponent deletes the component with the given id. Removing an
// absent id is an error.
func (d *Designer) RemoveComponent(t Template, id string) (Template, error) {
	i := t.indexOf(id)
	if i < 0 {
		return t, fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}
	out := t.clone()
	out.Components = append(out.Components[:i], out.Components[i+1:]...)
	return out, nil
}

// SetBinding binds a component to a data source key, or unbinds it when key
// is nil.
func (d *Designer) SetBinding(t Template, id string, key *string) (Template, error) {
	i := t.indexOf(id)
	if i < 0 {
		return t, fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}
	if key != nil && !d.sources.IsValidKey(*key) {
		return t, fmt.Errorf("%w: %q", ErrInvalidDataSource, *key)
	}
	out := t.clone()
	out.Components[i].Config.setBinding(cloneString(key))
	return out, nil
}

// Duplicate copies a template under a new id. Every component gets a new id
// as well so the copy shares nothing with the original.
func (d *Designer) Duplicate(t Template) Template {
	out := t.clone()
	out.ID = d.newID("template")
	out.Name = t.Name + " (copy)"
	for i := range out.Components {
		out.Components[i].ID = d.newID("component")
	}
	return out
}
