package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/report-designer-api/api"
	"github.com/linesmerrill/report-designer-api/catalog"
	"github.com/linesmerrill/report-designer-api/config"
	"github.com/linesmerrill/report-designer-api/designer"
	"github.com/linesmerrill/report-designer-api/gateway"
)

// maxDocumentSize caps the body of a validate request
const maxDocumentSize = 1 << 20

// Template exported for testing purposes
type Template struct {
	Store    TemplateStore
	Designer *designer.Designer
	Now      func() time.Time
}

// ValidationResponse reports a document that decoded cleanly
type ValidationResponse struct {
	Valid          bool   `json:"valid"`
	TemplateID     string `json:"templateId"`
	ComponentCount int    `json:"componentCount"`
}

// TemplatesHandler returns a page of saved templates. ?q= searches names,
// descriptions and tags, ?category= narrows to one category.
func (t Template) TemplatesHandler(w http.ResponseWriter, r *http.Request) {
	q := gateway.ListQuery{
		Search:   r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", gateway.DefaultLimit),
	}
	if q.Category != "" && !catalog.IsTemplateCategory(q.Category) {
		writeError(w, "failed to list templates", fmt.Errorf("%w: unknown category %q", errBadQuery, q.Category))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	page, err := t.Store.List(ctx, q)
	if err != nil {
		writeError(w, "failed to list templates", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// CategoriesHandler returns the template count of every library category
func (t Template) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	summary, err := t.Store.CategoryCounts(ctx)
	if err != nil {
		writeError(w, "failed to count template categories", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// TemplateByIDHandler returns a saved template document
func (t Template) TemplateByIDHandler(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateId"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := t.Store.Load(ctx, templateID)
	if err != nil {
		writeError(w, "failed to get template by ID", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteTemplateHandler removes a saved template
func (t Template) DeleteTemplateHandler(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateId"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := t.Store.Delete(ctx, templateID); err != nil {
		writeError(w, "failed to delete template", err)
		return
	}
	zap.S().Infow("template deleted", "templateId", templateID)
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateTemplateHandler saves a copy of a template under a new id
func (t Template) DuplicateTemplateHandler(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateId"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	doc, err := t.Store.Load(ctx, templateID)
	if err != nil {
		writeError(w, "failed to get template by ID", err)
		return
	}
	original, err := designer.Deserialize(doc)
	if err != nil {
		writeError(w, "stored template is invalid", err)
		return
	}

	dup := t.Designer.Duplicate(original)
	copied := designer.Serialize(dup, designer.Metadata{
		Name:        dup.Name,
		Description: dup.Description,
		Category:    doc.Category,
		Tags:        doc.Tags,
		IsPublic:    doc.IsPublic,
	}, t.now())
	if err := t.Store.Save(ctx, copied); err != nil {
		writeError(w, "failed to save template copy", err)
		return
	}
	zap.S().Infow("template duplicated", "templateId", templateID, "copyId", copied.ID)
	writeJSON(w, http.StatusCreated, copied)
}

// ValidateTemplateHandler checks a posted template document without saving it
func (t Template) ValidateTemplateHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
	if err != nil {
		config.ErrorStatus("failed to read request body", http.StatusBadRequest, w, err)
		return
	}
	tpl, err := designer.DecodeDocument(body)
	if err != nil {
		writeError(w, "template document is invalid", err)
		return
	}
	writeJSON(w, http.StatusOK, ValidationResponse{
		Valid:          true,
		TemplateID:     tpl.ID,
		ComponentCount: len(tpl.Components),
	})
}

func (t Template) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		zap.S().Warnf("%s not set correctly, using default of %v, err: %v", key, fallback, err)
		return fallback
	}
	return n
}
