package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/report-designer-api/api"
	"github.com/linesmerrill/report-designer-api/api/sessions"
	"github.com/linesmerrill/report-designer-api/catalog"
	"github.com/linesmerrill/report-designer-api/config"
	"github.com/linesmerrill/report-designer-api/databases"
	"github.com/linesmerrill/report-designer-api/designer"
	"github.com/linesmerrill/report-designer-api/gateway"
	"github.com/linesmerrill/report-designer-api/logging"
	"github.com/linesmerrill/report-designer-api/models"
)

// RequestTimeout bounds every REST request. The events stream is exempt.
const RequestTimeout = 30 * time.Second

// pingTimeout bounds the database check behind /health
const pingTimeout = 2 * time.Second

// TemplateStore is the template library the API saves to and reads from
type TemplateStore interface {
	gateway.Gateway
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q gateway.ListQuery) (gateway.Page, error)
	RecordUse(ctx context.Context, id string) error
	CategoryCounts(ctx context.Context) (gateway.CategorySummary, error)
}

// App stores the router and its collaborators, so it can be reused
type App struct {
	Router      *mux.Router
	Config      config.Config
	Components  *catalog.ComponentCatalog
	DataSources *catalog.DataSourceCatalog
	Designer    *designer.Designer
	Templates   TemplateStore
	Sessions    *sessions.Store
	Client      databases.ClientHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)

	c := Catalog{Components: a.Components, DataSources: a.DataSources}
	s := Session{Sessions: a.Sessions, Templates: a.Templates}
	t := Template{Store: a.Templates, Designer: a.Designer}

	// healthchex
	r.HandleFunc("/health", a.healthCheckHandler)
	r.Handle("/metrics", api.MetricsHandler())

	// long lived, so registered outside the timeout subrouter
	r.HandleFunc("/api/v1/sessions/{sessionId}/events", s.EventsHandler).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(RequestTimeout))

	apiCreate.HandleFunc("/catalog/components", c.ComponentsHandler).Methods("GET")
	apiCreate.HandleFunc("/catalog/data-sources", c.DataSourcesHandler).Methods("GET")

	apiCreate.HandleFunc("/sessions", s.CreateSessionHandler).Methods("POST")
	apiCreate.HandleFunc("/sessions/{sessionId}", s.SessionHandler).Methods("GET")
	apiCreate.HandleFunc("/sessions/{sessionId}", s.DeleteSessionHandler).Methods("DELETE")
	apiCreate.HandleFunc("/sessions/{sessionId}/initialize", s.InitializeHandler).Methods("POST")
	apiCreate.HandleFunc("/sessions/{sessionId}/components", s.AddComponentHandler).Methods("POST")
	apiCreate.HandleFunc("/sessions/{sessionId}/components/{componentId}", s.UpdateComponentHandler).Methods("PATCH")
	apiCreate.HandleFunc("/sessions/{sessionId}/components/{componentId}", s.RemoveComponentHandler).Methods("DELETE")
	apiCreate.HandleFunc("/sessions/{sessionId}/components/{componentId}/binding", s.SetBindingHandler).Methods("PUT")
	apiCreate.HandleFunc("/sessions/{sessionId}/selection", s.SelectHandler).Methods("PUT")
	apiCreate.HandleFunc("/sessions/{sessionId}/selection", s.UpdateSelectedHandler).Methods("PATCH")
	apiCreate.HandleFunc("/sessions/{sessionId}/preview", s.TogglePreviewHandler).Methods("POST")
	apiCreate.HandleFunc("/sessions/{sessionId}/save", s.SaveHandler).Methods("POST")

	apiCreate.HandleFunc("/templates", t.TemplatesHandler).Methods("GET")
	apiCreate.HandleFunc("/templates/categories", t.CategoriesHandler).Methods("GET")
	apiCreate.HandleFunc("/templates/validate", t.ValidateTemplateHandler).Methods("POST")
	apiCreate.HandleFunc("/templates/{templateId}", t.TemplateByIDHandler).Methods("GET")
	apiCreate.HandleFunc("/templates/{templateId}", t.DeleteTemplateHandler).Methods("DELETE")
	apiCreate.HandleFunc("/templates/{templateId}/duplicate", t.DuplicateTemplateHandler).Methods("POST")

	return r
}

// Initialize is invoked by the serve command to connect with the database and create a router
func (a *App) Initialize(ctx context.Context) error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	err = client.Connect(ctx)
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	a.Client = client
	zap.S().Info("report-designer-api has connected to the database")

	store, err := gateway.NewStore(databases.NewTemplateDatabase(databases.NewDatabase(&a.Config, client)), a.Config.TemplateCacheSize)
	if err != nil {
		return err
	}
	a.Templates = store
	a.Components = catalog.NewComponentCatalog()
	a.DataSources = catalog.NewDataSourceCatalog()
	a.Designer = designer.New(a.Components, a.DataSources)
	a.Sessions = sessions.NewStore(a.Designer, a.Templates, sessions.WithLogger(logging.New("sessions")))

	// initialize api router
	a.initializeRoutes()
	return nil

}

// Close disconnects from the database
func (a *App) Close(ctx context.Context) error {
	if a.Client == nil {
		return nil
	}
	return a.Client.Disconnect(ctx)
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// healthCheckHandler reports the service alive, or unavailable when the
// database does not answer a ping
func (a *App) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if a.Client != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := a.Client.Ping(ctx); err != nil {
			config.ErrorStatus("database is unreachable", http.StatusServiceUnavailable, w, err)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}

// writeJSON marshals v and writes it with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
