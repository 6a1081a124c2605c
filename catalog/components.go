// Package catalog holds the static registries the report designer consults:
// the component kinds a user can add and the metrics a component can bind to.
package catalog

// Component types known to the designer
const (
	TypeChart  = "chart"
	TypeTable  = "table"
	TypeText   = "text"
	TypeImage  = "image"
	TypeMetric = "metric"
)

// Entry is a single addable component kind
type Entry struct {
	Type        string `json:"type"`
	Subtype     string `json:"subtype"`
	DisplayName string `json:"displayName"`
}

// Category groups entries for display in the component library
type Category struct {
	Category string  `json:"category"`
	Entries  []Entry `json:"entries"`
}

var componentCategories = []Category{
	{
		Category: "Charts",
		Entries: []Entry{
			{Type: TypeChart, Subtype: "line", DisplayName: "Trend Line"},
			{Type: TypeChart, Subtype: "bar", DisplayName: "Bar Chart"},
			{Type: TypeChart, Subtype: "pie", DisplayName: "Pie Chart"},
		},
	},
	{
		Category: "Data Tables",
		Entries: []Entry{
			{Type: TypeTable, Subtype: "basic", DisplayName: "Basic Table"},
			{Type: TypeTable, Subtype: "summary", DisplayName: "Summary Table"},
		},
	},
	{
		Category: "Text Content",
		Entries: []Entry{
			{Type: TypeText, Subtype: "title", DisplayName: "Title"},
			{Type: TypeText, Subtype: "paragraph", DisplayName: "Paragraph"},
			{Type: TypeMetric, Subtype: "kpi", DisplayName: "KPI Metric"},
		},
	},
}

// ComponentCatalog is the registry of addable component kinds
type ComponentCatalog struct {
	categories []Category
	index      map[string]Entry
}

// NewComponentCatalog returns the built-in component catalog
func NewComponentCatalog() *ComponentCatalog {
	return newComponentCatalog(componentCategories)
}

func newComponentCatalog(categories []Category) *ComponentCatalog {
	c := &ComponentCatalog{
		categories: categories,
		index:      make(map[string]Entry),
	}
	for _, category := range categories {
		for _, e := range category.Entries {
			c.index[entryKey(e.Type, e.Subtype)] = e
		}
	}
	return c
}

// ListCategories returns the categories in display order. The result is a
// copy and may be modified by the caller.
func (c *ComponentCatalog) ListCategories() []Category {
	out := make([]Category, len(c.categories))
	for i, category := range c.categories {
		out[i] = Category{
			Category: category.Category,
			Entries:  append([]Entry(nil), category.Entries...),
		}
	}
	return out
}

// Lookup reports whether the type/subtype pair can be added
func (c *ComponentCatalog) Lookup(componentType, subtype string) (Entry, bool) {
	e, ok := c.index[entryKey(componentType, subtype)]
	return e, ok
}

// SubtypesOf lists the catalog subtypes registered for a component type
func (c *ComponentCatalog) SubtypesOf(componentType string) []string {
	var subtypes []string
	for _, category := range c.categories {
		for _, e := range category.Entries {
			if e.Type == componentType {
				subtypes = append(subtypes, e.Subtype)
			}
		}
	}
	return subtypes
}

func entryKey(componentType, subtype string) string {
	return componentType + "/" + subtype
}
