package models

import "time"

// TemplateDocument is the stored form of a report template. It is what the
// designer saves and what report generation reads back by ID.
type TemplateDocument struct {
	ID          string              `json:"id" bson:"_id"`
	Name        string              `json:"name" bson:"name"`
	Description string              `json:"description" bson:"description"`
	Category    string              `json:"category" bson:"category"`
	Tags        []string            `json:"tags" bson:"tags"`
	IsPublic    bool                `json:"isPublic" bson:"isPublic"`
	UsageCount  int64               `json:"usageCount" bson:"usageCount"` // maintained by the store, not by saves
	Layout      string              `json:"layout" bson:"layout"`
	Theme       string              `json:"theme" bson:"theme"`
	Settings    *SettingsDocument   `json:"settings" bson:"settings"`
	Components  []ComponentDocument `json:"components" bson:"components"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// SettingsDocument holds the page setup of a template
type SettingsDocument struct {
	PageSize    string           `json:"pageSize" bson:"pageSize"`       // "A4", "A3", "Letter"
	Orientation string           `json:"orientation" bson:"orientation"` // "portrait", "landscape"
	Margins     *MarginsDocument `json:"margins" bson:"margins"`
}

// MarginsDocument holds the four page margins
type MarginsDocument struct {
	Top    *float64 `json:"top" bson:"top"`
	Right  *float64 `json:"right" bson:"right"`
	Bottom *float64 `json:"bottom" bson:"bottom"`
	Left   *float64 `json:"left" bson:"left"`
}

// TemplateSummary is the list view of a stored template
type TemplateSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	IsPublic       bool      `json:"isPublic"`
	UsageCount     int64     `json:"usageCount"`
	ComponentCount int       `json:"componentCount"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Summary returns the list view of the document
func (d TemplateDocument) Summary() TemplateSummary {
	return TemplateSummary{
		ID:             d.ID,
		Name:           d.Name,
		Description:    d.Description,
		Category:       d.Category,
		Tags:           d.Tags,
		IsPublic:       d.IsPublic,
		UsageCount:     d.UsageCount,
		ComponentCount: len(d.Components),
		UpdatedAt:      d.UpdatedAt,
	}
}
