// Package docs Report Designer API.
//
// Documentation of the Report Designer API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/report-designer-api/api/handlers"
	"github.com/linesmerrill/report-designer-api/catalog"
	"github.com/linesmerrill/report-designer-api/designer"
	"github.com/linesmerrill/report-designer-api/gateway"
	"github.com/linesmerrill/report-designer-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse
//   503: errorResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/v1/catalog/components catalog componentCatalog
// Lists the addable component kinds grouped by category.
// responses:
//   200: componentCatalogResponse

// swagger:response componentCatalogResponse
type componentCatalogResponseWrapper struct {
	// in:body
	Body []catalog.Category
}

// swagger:route GET /api/v1/catalog/data-sources catalog dataSourceCatalog
// Lists the data source tree and the label of every bindable key.
// responses:
//   200: dataSourceCatalogResponse

// swagger:response dataSourceCatalogResponse
type dataSourceCatalogResponseWrapper struct {
	// in:body
	Body handlers.DataSourcesResponse
}

// swagger:route POST /api/v1/sessions sessions createSession
// Starts an editing session, opening a saved template when templateId is given.
// responses:
//   201: sessionResponse
//   404: errorResponse

// swagger:route POST /api/v1/sessions/{sessionId}/components sessions addComponent
// Adds a catalog component to the session template and selects it.
// responses:
//   200: sessionResponse
//   400: errorResponse
//   409: errorResponse

// swagger:route PATCH /api/v1/sessions/{sessionId}/components/{componentId} sessions updateComponent
// Merges a patch into a component. The component type cannot be changed.
// responses:
//   200: sessionResponse
//   400: errorResponse
//   404: errorResponse
//   409: errorResponse

// The session state after an operation
// swagger:response sessionResponse
type sessionResponseWrapper struct {
	// in:body
	Body handlers.SessionResponse
}

// swagger:parameters updateComponent
type updateComponentParamsWrapper struct {
	// in:body
	Body designer.ComponentPatch
}

// swagger:route POST /api/v1/sessions/{sessionId}/save sessions saveSession
// Saves the session template under the given name and description.
// responses:
//   200: templateResponse
//   400: errorResponse
//   409: errorResponse

// swagger:parameters saveSession
type saveSessionParamsWrapper struct {
	// in:body
	Body designer.Metadata
}

// swagger:route GET /api/v1/templates templates listTemplates
// Lists saved templates, newest first. q searches names, descriptions and tags; category narrows to one category.
// responses:
//   200: templatePageResponse
//   400: errorResponse

// swagger:response templatePageResponse
type templatePageResponseWrapper struct {
	// in:body
	Body gateway.Page
}

// swagger:route GET /api/v1/templates/categories templates templateCategories
// Counts saved templates per library category.
// responses:
//   200: templateCategoriesResponse

// swagger:response templateCategoriesResponse
type templateCategoriesResponseWrapper struct {
	// in:body
	Body gateway.CategorySummary
}

// swagger:route GET /api/v1/templates/{templateId} templates templateByID
// Gets a single saved template by ID.
// responses:
//   200: templateResponse
//   404: errorResponse

// swagger:route POST /api/v1/templates/{templateId}/duplicate templates duplicateTemplate
// Saves a copy of a template with new ids.
// responses:
//   201: templateResponse
//   404: errorResponse

// Shows a single stored template
// swagger:response templateResponse
type templateResponseWrapper struct {
	// in:body
	Body models.TemplateDocument
}

// swagger:route POST /api/v1/templates/validate templates validateTemplate
// Checks a template document without saving it.
// responses:
//   200: validationResponse
//   400: errorResponse

// swagger:response validationResponse
type validationResponseWrapper struct {
	// in:body
	Body handlers.ValidationResponse
}

// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.ErrorMessageResponse
}
