package catalog

// TemplateCategory groups saved templates in the template library
type TemplateCategory struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var templateCategories = []TemplateCategory{
	{Key: "quality", Label: "Quality Analysis"},
	{Key: "user", Label: "User Analysis"},
	{Key: "system", Label: "System Monitoring"},
	{Key: "business", Label: "Business Analysis"},
}

// TemplateCategories returns the template library categories in display order
func TemplateCategories() []TemplateCategory {
	return append([]TemplateCategory(nil), templateCategories...)
}

// IsTemplateCategory reports whether key names a template category
func IsTemplateCategory(key string) bool {
	for _, c := range templateCategories {
		if c.Key == key {
			return true
		}
	}
	return false
}
