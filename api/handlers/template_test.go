package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/report-designer-api/api/handlers"
	"github.com/linesmerrill/report-designer-api/designer"
	"github.com/linesmerrill/report-designer-api/gateway"
	"github.com/linesmerrill/report-designer-api/models"
)

var savedAt = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func seedTemplate(t *testing.T, ta *testApp, name string) (designer.Template, models.TemplateDocument) {
	t.Helper()
	tpl := ta.design.CreateTemplate()
	var err error
	tpl, _, err = ta.design.AddComponent(tpl, designer.ComponentChart, "line")
	require.NoError(t, err)
	tpl, _, err = ta.design.AddComponent(tpl, designer.ComponentText, "title")
	require.NoError(t, err)
	doc := designer.Serialize(tpl, designer.Metadata{Name: name, Description: "seeded"}, savedAt)
	ta.store.put(doc)
	return tpl, doc
}

func TestTemplate_TemplatesHandler(t *testing.T) {
	ta := newTestApp(t)
	seedTemplate(t, ta, "Quality weekly")
	seedTemplate(t, ta, "System health")

	rr := ta.do(t, "GET", "/api/v1/templates?q=quality&page=1&limit=5", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var page gateway.Page
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 5, page.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Quality weekly", page.Items[0].Name)
	assert.Equal(t, 2, page.Items[0].ComponentCount)
}

func TestTemplate_TemplatesHandlerDefaults(t *testing.T) {
	ta := newTestApp(t)
	seedTemplate(t, ta, "A")
	seedTemplate(t, ta, "B")

	rr := ta.do(t, "GET", "/api/v1/templates?page=abc", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var page gateway.Page
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, gateway.DefaultLimit, page.Limit)
}

// seedLibraryTemplate seeds a template carrying library fields
func seedLibraryTemplate(t *testing.T, ta *testApp, name, category string, tags ...string) models.TemplateDocument {
	t.Helper()
	_, doc := seedTemplate(t, ta, name)
	doc.Category = category
	doc.Tags = tags
	ta.store.put(doc)
	return doc
}

func TestTemplate_TemplatesHandlerSearchAndCategory(t *testing.T) {
	ta := newTestApp(t)
	seedLibraryTemplate(t, ta, "Defect trend", "quality", "weekly")
	seedLibraryTemplate(t, ta, "Uptime", "system", "weekly")
	seedLibraryTemplate(t, ta, "Churn", "user")

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"tag match", "?q=WEEKLY", []string{"Defect trend", "Uptime"}},
		{"description match", "?q=seeded&category=user", []string{"Churn"}},
		{"category only", "?category=system", []string{"Uptime"}},
		{"category with no match", "?q=churn&category=quality", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ta.do(t, "GET", "/api/v1/templates"+tt.query, nil)

			require.Equal(t, http.StatusOK, rr.Code)
			var page gateway.Page
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
			names := []string{}
			for _, item := range page.Items {
				names = append(names, item.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestTemplate_TemplatesHandlerUnknownCategory(t *testing.T) {
	ta := newTestApp(t)
	rr := ta.do(t, "GET", "/api/v1/templates?category=finance", nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "failed to list templates", decodeError(t, rr).Response.Message)
}

func TestTemplate_CategoriesHandler(t *testing.T) {
	ta := newTestApp(t)
	seedLibraryTemplate(t, ta, "Defect trend", "quality")
	seedLibraryTemplate(t, ta, "Escapes", "quality")
	seedLibraryTemplate(t, ta, "Uptime", "system")
	seedTemplate(t, ta, "Scratch")

	rr := ta.do(t, "GET", "/api/v1/templates/categories", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var summary gateway.CategorySummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, int64(4), summary.Total)
	require.Len(t, summary.Categories, 4)
	counts := map[string]int64{}
	for _, c := range summary.Categories {
		counts[c.Key] = c.Count
	}
	assert.Equal(t, map[string]int64{"quality": 2, "user": 0, "system": 1, "business": 0}, counts)
}

func TestTemplate_TemplateByIDHandler(t *testing.T) {
	ta := newTestApp(t)
	_, doc := seedTemplate(t, ta, "Quality weekly")

	rr := ta.do(t, "GET", "/api/v1/templates/"+doc.ID, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var got models.TemplateDocument
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, doc, got)
}

func TestTemplate_TemplateByIDHandlerNotFound(t *testing.T) {
	ta := newTestApp(t)
	rr := ta.do(t, "GET", "/api/v1/templates/template_missing", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "failed to get template by ID", decodeError(t, rr).Response.Message)
}

func TestTemplate_DeleteTemplateHandler(t *testing.T) {
	ta := newTestApp(t)
	_, doc := seedTemplate(t, ta, "Quality weekly")

	rr := ta.do(t, "DELETE", "/api/v1/templates/"+doc.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	_, ok := ta.store.get(doc.ID)
	assert.False(t, ok)

	rr = ta.do(t, "DELETE", "/api/v1/templates/"+doc.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTemplate_DuplicateTemplateHandler(t *testing.T) {
	ta := newTestApp(t)
	_, doc := seedTemplate(t, ta, "Quality weekly")

	rr := ta.do(t, "POST", "/api/v1/templates/"+doc.ID+"/duplicate", nil)

	require.Equal(t, http.StatusCreated, rr.Code)
	var copied models.TemplateDocument
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &copied))
	assert.NotEqual(t, doc.ID, copied.ID)
	assert.Equal(t, "Quality weekly (copy)", copied.Name)
	assert.Equal(t, "seeded", copied.Description)
	require.Len(t, copied.Components, len(doc.Components))
	for i := range doc.Components {
		assert.NotEqual(t, doc.Components[i].ID, copied.Components[i].ID)
		assert.Equal(t, doc.Components[i].Type, copied.Components[i].Type)
		assert.Equal(t, doc.Components[i].Config, copied.Components[i].Config)
	}

	stored, ok := ta.store.get(copied.ID)
	require.True(t, ok)
	assert.Equal(t, copied.Name, stored.Name)
	_, ok = ta.store.get(doc.ID)
	assert.True(t, ok)
}

func TestTemplate_DuplicateTemplateHandlerKeepsLibraryFields(t *testing.T) {
	ta := newTestApp(t)
	doc := seedLibraryTemplate(t, ta, "Uptime", "system", "ops", "daily")
	doc.IsPublic = true
	doc.UsageCount = 12
	ta.store.put(doc)

	rr := ta.do(t, "POST", "/api/v1/templates/"+doc.ID+"/duplicate", nil)

	require.Equal(t, http.StatusCreated, rr.Code)
	var copied models.TemplateDocument
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &copied))
	assert.Equal(t, "system", copied.Category)
	assert.Equal(t, []string{"ops", "daily"}, copied.Tags)
	assert.True(t, copied.IsPublic)
	assert.Equal(t, int64(0), copied.UsageCount)
}

func TestTemplate_DuplicateTemplateHandlerNotFound(t *testing.T) {
	ta := newTestApp(t)
	rr := ta.do(t, "POST", "/api/v1/templates/template_missing/duplicate", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTemplate_ValidateTemplateHandler(t *testing.T) {
	ta := newTestApp(t)
	tpl, doc := seedTemplate(t, ta, "Quality weekly")
	body, err := json.Marshal(doc)
	require.NoError(t, err)

	rr := ta.do(t, "POST", "/api/v1/templates/validate", string(body))

	require.Equal(t, http.StatusOK, rr.Code)
	var got handlers.ValidationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, handlers.ValidationResponse{Valid: true, TemplateID: tpl.ID, ComponentCount: 2}, got)
}

func TestTemplate_ValidateTemplateHandlerInvalid(t *testing.T) {
	ta := newTestApp(t)
	_, doc := seedTemplate(t, ta, "Quality weekly")
	doc.Components = append(doc.Components, doc.Components[0])
	duplicated, err := json.Marshal(doc)
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
		err  error
	}{
		{"not json", "{", designer.ErrSchema},
		{"missing settings", `{"id":"template_1","components":[],"updatedAt":"2024-03-01T09:30:00Z"}`, designer.ErrSchema},
		{"duplicate component id", string(duplicated), designer.ErrDuplicateComponentID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ta.do(t, "POST", "/api/v1/templates/validate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, decodeError(t, rr).Response.Error, tt.err.Error())
		})
	}
}
