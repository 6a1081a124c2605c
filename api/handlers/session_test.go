package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/report-designer-api/designer"
	"github.com/linesmerrill/report-designer-api/models"
)

func TestSession_CreateSessionHandler(t *testing.T) {
	ta := newTestApp(t)
	rr := ta.do(t, "POST", "/api/v1/sessions", nil)

	require.Equal(t, http.StatusCreated, rr.Code)
	body := decodeSession(t, rr)
	assert.Contains(t, body.SessionID, "session_")
	assert.Nil(t, body.Template)
	assert.Nil(t, body.SelectedID)
	assert.False(t, body.PreviewMode)
	assert.Equal(t, 1, ta.app.Sessions.Len())
}

func TestSession_CreateSessionHandlerMalformedBody(t *testing.T) {
	ta := newTestApp(t)
	rr := ta.do(t, "POST", "/api/v1/sessions", "{not json")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, ta.app.Sessions.Len())
}

func TestSession_CreateSessionHandlerOpensTemplate(t *testing.T) {
	ta := newTestApp(t)
	tpl := ta.design.CreateTemplate()
	tpl, componentID, err := ta.design.AddComponent(tpl, designer.ComponentChart, "bar")
	require.NoError(t, err)
	ta.store.put(designer.Serialize(tpl, designer.Metadata{Name: "Weekly"}, time.Now()))

	rr := ta.do(t, "POST", "/api/v1/sessions", map[string]string{"templateId": tpl.ID})

	require.Equal(t, http.StatusCreated, rr.Code)
	body := decodeSession(t, rr)
	require.NotNil(t, body.Template)
	assert.Equal(t, tpl.ID, body.Template.ID)
	assert.Equal(t, "Weekly", body.Template.Name)
	require.Len(t, body.Template.Components, 1)
	assert.Equal(t, componentID, body.Template.Components[0].ID)
	assert.Nil(t, body.SelectedID)

	stored, ok := ta.store.get(tpl.ID)
	require.True(t, ok)
	assert.Equal(t, int64(1), stored.UsageCount)
}

func TestSession_CreateSessionHandlerUsageFailureStillOpens(t *testing.T) {
	ta := newTestApp(t)
	tpl := ta.design.CreateTemplate()
	ta.store.put(designer.Serialize(tpl, designer.Metadata{Name: "Weekly"}, time.Now()))
	ta.store.useErr = errors.New("mocked-error")

	rr := ta.do(t, "POST", "/api/v1/sessions", map[string]string{"templateId": tpl.ID})

	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, decodeSession(t, rr).Template)
	stored, _ := ta.store.get(tpl.ID)
	assert.Equal(t, int64(0), stored.UsageCount)
}

func TestSession_CreateSessionHandlerUnknownTemplate(t *testing.T) {
	ta := newTestApp(t)
	rr := ta.do(t, "POST", "/api/v1/sessions", map[string]string{"templateId": "template_missing"})

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "failed to load template", decodeError(t, rr).Response.Message)
	assert.Equal(t, 0, ta.app.Sessions.Len())
}

func TestSession_CreateSessionHandlerCorruptTemplate(t *testing.T) {
	ta := newTestApp(t)
	ta.store.put(models.TemplateDocument{ID: "template_bad", Name: "broken"})

	rr := ta.do(t, "POST", "/api/v1/sessions", map[string]string{"templateId": "template_bad"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSession_UnknownSession(t *testing.T) {
	ta := newTestApp(t)
	routes := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"GET", "/api/v1/sessions/nope", nil},
		{"DELETE", "/api/v1/sessions/nope", nil},
		{"POST", "/api/v1/sessions/nope/initialize", nil},
		{"POST", "/api/v1/sessions/nope/components", map[string]string{"type": "chart", "subtype": "line"}},
		{"PATCH", "/api/v1/sessions/nope/components/c1", map[string]string{"title": "x"}},
		{"DELETE", "/api/v1/sessions/nope/components/c1", nil},
		{"PUT", "/api/v1/sessions/nope/components/c1/binding", map[string]interface{}{"dataSource": nil}},
		{"PUT", "/api/v1/sessions/nope/selection", map[string]interface{}{"componentId": nil}},
		{"PATCH", "/api/v1/sessions/nope/selection", map[string]string{"title": "x"}},
		{"POST", "/api/v1/sessions/nope/preview", nil},
		{"POST", "/api/v1/sessions/nope/save", map[string]string{"name": "x"}},
		{"GET", "/api/v1/sessions/nope/events", nil},
	}
	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			rr := ta.do(t, r.method, r.path, r.body)
			assert.Equal(t, http.StatusNotFound, rr.Code)
		})
	}
}

func TestSession_OperationsWithoutTemplate(t *testing.T) {
	ta := newTestApp(t)
	id := ta.newSession(t)

	rr := ta.do(t, "POST", "/api/v1/sessions/"+id+"/components", map[string]string{"type": "chart", "subtype": "line"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, designer.ErrNoTemplate.Error(), decodeError(t, rr).Response.Error)

	rr = ta.do(t, "POST", "/api/v1/sessions/"+id+"/preview", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ta.do(t, "POST", "/api/v1/sessions/"+id+"/save", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestSession_EditFlow(t *testing.T) {
	ta := newTestApp(t)
	id := ta.newSession(t)
	base := "/api/v1/sessions/" + id

	rr := ta.do(t, "POST", base+"/initialize", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeSession(t, rr)
	require.NotNil(t, body.Template)
	assert.Equal(t, "grid", body.Template.Layout)
	assert.Empty(t, body.Template.Components)

	rr = ta.do(t, "POST", base+"/components", map[string]string{"type": "chart", "subtype": "line"})
	require.Equal(t, http.StatusOK, rr.Code)
	body = decodeSession(t, rr)
	chartID := body.ComponentID
	require.NotEmpty(t, chartID)
	require.NotNil(t, body.SelectedID)
	assert.Equal(t, chartID, *body.SelectedID)
	require.Len(t, body.Template.Components, 1)
	assert.Equal(t, "chart", body.Template.Components[0].Type)
	require.NotNil(t, body.Template.Components[0].Position)
	assert.Equal(t, float64(designer.DefaultWidth), *body.Template.Components[0].Position.Width)

	rr = ta.do(t, "POST", base+"/components", map[string]string{"type": "text", "subtype": "title"})
	require.Equal(t, http.StatusOK, rr.Code)
	textID := decodeSession(t, rr).ComponentID

	rr = ta.do(t, "PATCH", base+"/components/"+textID, map[string]interface{}{
		"title":  "Headline",
		"config": map[string]interface{}{"fontSize": 24, "align": "center"},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	body = decodeSession(t, rr)
	text := body.Template.Components[1]
	assert.Equal(t, "Headline", text.Title)
	require.NotNil(t, text.Config.FontSize)
	assert.Equal(t, 24, *text.Config.FontSize)
	require.NotNil(t, text.Config.Align)
	assert.Equal(t, "center", *text.Config.Align)

	rr = ta.do(t, "PUT", base+"/selection", map[string]string{"componentId": chartID})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, chartID, *decodeSession(t, rr).SelectedID)

	rr = ta.do(t, "PATCH", base+"/selection", map[string]interface{}{
		"config": map[string]interface{}{"legend": false, "colors": []string{"#ff0000"}},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	chart := decodeSession(t, rr).Template.Components[0]
	require.NotNil(t, chart.Config.Chart)
	assert.False(t, chart.Config.Chart.Legend)
	assert.True(t, chart.Config.Chart.Grid)
	assert.Equal(t, []string{"#ff0000"}, chart.Config.Chart.Colors)

	rr = ta.do(t, "PUT", base+"/components/"+chartID+"/binding", map[string]string{"dataSource": "quality.resolution_rate"})
	require.Equal(t, http.StatusOK, rr.Code)
	chart = decodeSession(t, rr).Template.Components[0]
	require.NotNil(t, chart.Config.DataSource)
	assert.Equal(t, "quality.resolution_rate", *chart.Config.DataSource)

	rr = ta.do(t, "PUT", base+"/components/"+chartID+"/binding", map[string]interface{}{"dataSource": nil})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decodeSession(t, rr).Template.Components[0].Config.DataSource)

	rr = ta.do(t, "DELETE", base+"/components/"+chartID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body = decodeSession(t, rr)
	assert.Nil(t, body.SelectedID)
	require.Len(t, body.Template.Components, 1)
	assert.Equal(t, textID, body.Template.Components[0].ID)

	rr = ta.do(t, "GET", base, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeSession(t, rr).Template.Components, 1)
}

func TestSession_EditErrors(t *testing.T) {
	ta := newTestApp(t)
	id := ta.newSession(t)
	base := "/api/v1/sessions/" + id
	require.Equal(t, http.StatusOK, ta.do(t, "POST", base+"/initialize", nil).Code)
	rr := ta.do(t, "POST", base+"/components", map[string]string{"type": "text", "subtype": "paragraph"})
	require.Equal(t, http.StatusOK, rr.Code)
	textID := decodeSession(t, rr).ComponentID

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		err    error
	}{
		{"unknown catalog entry", "POST", base + "/components", map[string]string{"type": "chart", "subtype": "radar"}, http.StatusBadRequest, designer.ErrInvalidCatalogEntry},
		{"malformed add body", "POST", base + "/components", "[", http.StatusBadRequest, nil},
		{"unknown component", "PATCH", base + "/components/component_missing", map[string]string{"title": "x"}, http.StatusNotFound, designer.ErrComponentNotFound},
		{"font size out of range", "PATCH", base + "/components/" + textID, map[string]interface{}{"config": map[string]int{"fontSize": 99}}, http.StatusBadRequest, designer.ErrInvalidPatch},
		{"type is not patchable", "PATCH", base + "/components/" + textID, map[string]string{"type": "chart"}, http.StatusBadRequest, designer.ErrInvalidPatch},
		{"chart field on text", "PATCH", base + "/components/" + textID, map[string]interface{}{"config": map[string]bool{"legend": true}}, http.StatusBadRequest, designer.ErrInvalidPatch},
		{"unknown data source", "PUT", base + "/components/" + textID + "/binding", map[string]string{"dataSource": "quality"}, http.StatusBadRequest, designer.ErrInvalidDataSource},
		{"select unknown", "PUT", base + "/selection", map[string]string{"componentId": "component_missing"}, http.StatusNotFound, designer.ErrComponentNotFound},
		{"remove unknown", "DELETE", base + "/components/component_missing", nil, http.StatusNotFound, designer.ErrComponentNotFound},
		{"save without name", "POST", base + "/save", map[string]string{"description": "x"}, http.StatusBadRequest, designer.ErrInvalidMetadata},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ta.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rr.Code)
			if tt.err != nil {
				assert.Contains(t, decodeError(t, rr).Response.Error, tt.err.Error())
			}
		})
	}

	rr = ta.do(t, "GET", base, nil)
	body := decodeSession(t, rr)
	require.Len(t, body.Template.Components, 1)
	assert.Equal(t, "paragraph", body.Template.Components[0].Config.Subtype)
	assert.Equal(t, 0, ta.store.saves)
}

func TestSession_UpdateSelectedWithoutSelection(t *testing.T) {
	ta := newTestApp(t)
	id := ta.newSession(t)
	base := "/api/v1/sessions/" + id
	require.Equal(t, http.StatusOK, ta.do(t, "POST", base+"/initialize", nil).Code)

	rr := ta.do(t, "PATCH", base+"/selection", map[string]string{"title": "x"})

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, designer.ErrNoSelection.Error(), decodeError(t, rr).Response.Error)
}

func TestSession_PreviewBlocksEdits(t *testing.T) {
	ta := newTestApp(t)
	id := ta.newSession(t)
	base := "/api/v1/sessions/" + id
	require.Equal(t, http.StatusOK, ta.do(t, "POST", base+"/initialize", nil).Code)
	rr := ta.do(t, "POST", base+"/components", map[string]string{"type": "metric", "subtype": "kpi"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ta.do(t, "POST", base+"/preview", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeSession(t, rr)
	assert.True(t, body.PreviewMode)
	assert.Nil(t, body.SelectedID)

	rr = ta.do(t, "POST", base+"/components", map[string]string{"type": "chart", "subtype": "pie"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, designer.ErrPreviewActive.Error(), decodeError(t, rr).Response.Error)

	rr = ta.do(t, "POST", base+"/save", map[string]string{"name": "Preview save"})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ta.do(t, "POST", base+"/preview", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decodeSession(t, rr).PreviewMode)
}

func TestSession_SaveHandler(t *testing.T) {
	ta := newTestApp(t)
	id := ta.newSession(t)
	base := "/api/v1/sessions/" + id
	require.Equal(t, http.StatusOK, ta.do(t, "POST", base+"/initialize", nil).Code)
	rr := ta.do(t, "POST", base+"/components", map[string]string{"type": "table", "subtype": "basic"})
	require.Equal(t, http.StatusOK, rr.Code)
	templateID := decodeSession(t, rr).Template.ID

	rr = ta.do(t, "POST", base+"/save", designer.Metadata{Name: "Quality review", Description: "monthly"})

	require.Equal(t, http.StatusOK, rr.Code)
	var doc models.TemplateDocument
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.Equal(t, templateID, doc.ID)
	assert.Equal(t, "Quality review", doc.Name)
	assert.Equal(t, "monthly", doc.Description)
	assert.Len(t, doc.Components, 1)
	assert.False(t, doc.UpdatedAt.IsZero())

	stored, ok := ta.store.get(templateID)
	require.True(t, ok)
	assert.Equal(t, "Quality review", stored.Name)
}

func TestSession_SaveHandlerKeepsUsageCount(t *testing.T) {
	ta := newTestApp(t)
	tpl := ta.design.CreateTemplate()
	doc := designer.Serialize(tpl, designer.Metadata{Name: "Weekly", Category: "business"}, time.Now())
	doc.UsageCount = 5
	ta.store.put(doc)

	rr := ta.do(t, "POST", "/api/v1/sessions", map[string]string{"templateId": tpl.ID})
	require.Equal(t, http.StatusCreated, rr.Code)
	base := "/api/v1/sessions/" + decodeSession(t, rr).SessionID

	rr = ta.do(t, "POST", base+"/save", designer.Metadata{Name: "Weekly v2", Category: "business", Tags: []string{"kpi"}})

	require.Equal(t, http.StatusOK, rr.Code)
	var saved models.TemplateDocument
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saved))
	assert.Equal(t, "Weekly v2", saved.Name)
	assert.Equal(t, []string{"kpi"}, saved.Tags)
	assert.Equal(t, int64(6), saved.UsageCount)
}

func TestSession_SaveHandlerStorageError(t *testing.T) {
	ta := newTestApp(t)
	id := ta.newSession(t)
	base := "/api/v1/sessions/" + id
	require.Equal(t, http.StatusOK, ta.do(t, "POST", base+"/initialize", nil).Code)
	ta.store.saveErr = errors.New("mocked-error")

	rr := ta.do(t, "POST", base+"/save", map[string]string{"name": "x"})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "mocked-error", decodeError(t, rr).Response.Error)
}

func TestSession_DeleteSessionHandler(t *testing.T) {
	ta := newTestApp(t)
	id := ta.newSession(t)

	rr := ta.do(t, "DELETE", "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 0, ta.app.Sessions.Len())

	rr = ta.do(t, "GET", "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSession_OperationsPublishState(t *testing.T) {
	ta := newTestApp(t)
	id := ta.newSession(t)
	entry, err := ta.app.Sessions.Get(id)
	require.NoError(t, err)
	updates, cancel := entry.Subscribe()
	defer cancel()

	require.Equal(t, http.StatusOK, ta.do(t, "POST", "/api/v1/sessions/"+id+"/initialize", nil).Code)
	// failed operations publish nothing
	require.Equal(t, http.StatusBadRequest, ta.do(t, "POST", "/api/v1/sessions/"+id+"/components", map[string]string{"type": "x"}).Code)

	select {
	case st := <-updates:
		require.NotNil(t, st.Template)
	default:
		t.Fatal("expected a published state")
	}
	select {
	case st := <-updates:
		t.Fatalf("unexpected state %+v", st)
	default:
	}
}
