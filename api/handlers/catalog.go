package handlers

import (
	"net/http"

	"github.com/linesmerrill/report-designer-api/catalog"
)

// Catalog exported for testing purposes
type Catalog struct {
	Components  *catalog.ComponentCatalog
	DataSources *catalog.DataSourceCatalog
}

// DataSourcesResponse is the data source tree plus display labels for every
// bindable key
type DataSourcesResponse struct {
	Tree   []catalog.DataSourceNode `json:"tree"`
	Labels map[string]string        `json:"labels"`
}

// ComponentsHandler returns the component library grouped by category
func (c Catalog) ComponentsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.Components.ListCategories())
}

// DataSourcesHandler returns the bindable metrics
func (c Catalog) DataSourcesHandler(w http.ResponseWriter, r *http.Request) {
	labels := make(map[string]string)
	for _, key := range c.DataSources.Keys() {
		labels[key], _ = c.DataSources.Label(key)
	}
	writeJSON(w, http.StatusOK, DataSourcesResponse{
		Tree:   c.DataSources.Tree(),
		Labels: labels,
	})
}
