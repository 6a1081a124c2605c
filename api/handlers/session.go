package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/report-designer-api/api"
	"github.com/linesmerrill/report-designer-api/api/sessions"
	"github.com/linesmerrill/report-designer-api/designer"
)

// Session exported for testing purposes
type Session struct {
	Sessions  *sessions.Store
	Templates TemplateStore
}

// SessionResponse is the state of a session after an operation
type SessionResponse struct {
	SessionID string `json:"sessionId"`
	designer.State
	ComponentID string `json:"componentId,omitempty"`
}

type createSessionRequest struct {
	TemplateID string `json:"templateId"`
}

type addComponentRequest struct {
	Type    designer.ComponentType `json:"type"`
	Subtype string                 `json:"subtype"`
}

type bindingRequest struct {
	DataSource *string `json:"dataSource"`
}

type selectionRequest struct {
	ComponentID *string `json:"componentId"`
}

// CreateSessionHandler starts a session, optionally opening a saved template
func (s Session) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeError(w, "failed to decode request body", err)
		return
	}

	var opened *designer.Template
	if req.TemplateID != "" {
		ctx, cancel := api.WithQueryTimeout(r.Context())
		defer cancel()
		doc, err := s.Templates.Load(ctx, req.TemplateID)
		if err != nil {
			writeError(w, "failed to load template", err)
			return
		}
		t, err := designer.Deserialize(doc)
		if err != nil {
			writeError(w, "stored template is invalid", err)
			return
		}
		opened = &t
		if err := s.Templates.RecordUse(ctx, req.TemplateID); err != nil {
			zap.S().Warnw("failed to record template use", "templateId", req.TemplateID, "error", err)
		}
	}

	entry := s.Sessions.Create()
	if opened != nil {
		entry.Session.Open(*opened)
	}
	api.SetActiveSessions(s.Sessions.Len())
	zap.S().Infow("session started", "sessionId", entry.ID, "templateId", req.TemplateID)
	writeJSON(w, http.StatusCreated, SessionResponse{SessionID: entry.ID, State: entry.Session.State()})
}

// SessionHandler returns the current state of a session
func (s Session) SessionHandler(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{SessionID: entry.ID, State: entry.Session.State()})
}

// DeleteSessionHandler discards a session
func (s Session) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if err := s.Sessions.Discard(sessionID); err != nil {
		writeError(w, "failed to discard session", err)
		return
	}
	api.SetActiveSessions(s.Sessions.Len())
	w.WriteHeader(http.StatusNoContent)
}

// InitializeHandler replaces the session template with a new empty one
func (s Session) InitializeHandler(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	entry.Session.Initialize()
	s.respond(w, entry, "initialize", nil, "")
}

// AddComponentHandler adds a catalog component and selects it
func (s Session) AddComponentHandler(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	var req addComponentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "failed to decode request body", err)
		return
	}
	id, err := entry.Session.AddComponent(req.Type, req.Subtype)
	s.respond(w, entry, "add_component", err, id)
}

// UpdateComponentHandler patches a component
func (s Session) UpdateComponentHandler(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	patch, err := decodePatch(r)
	if err != nil {
		writeError(w, "failed to decode component patch", err)
		return
	}
	err = entry.Session.UpdateComponent(mux.Vars(r)["componentId"], patch)
	s.respond(w, entry, "update_component", err, "")
}

// UpdateSelectedHandler patches the selected component
func (s Session) UpdateSelectedHandler(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	patch, err := decodePatch(r)
	if err != nil {
		writeError(w, "failed to decode component patch", err)
		return
	}
	err = entry.Session.UpdateSelected(patch)
	s.respond(w, entry, "update_selected", err, "")
}

// RemoveComponentHandler deletes a component
func (s Session) RemoveComponentHandler(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	err := entry.Session.RemoveComponent(mux.Vars(r)["componentId"])
	s.respond(w, entry, "remove_component", err, "")
}

// SetBindingHandler binds a component to a data source, or unbinds it for a
// null dataSource
func (s Session) SetBindingHandler(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	var req bindingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "failed to decode request body", err)
		return
	}
	err := entry.Session.SetBinding(mux.Vars(r)["componentId"], req.DataSource)
	s.respond(w, entry, "set_binding", err, "")
}

// SelectHandler selects a component, or clears the selection for a null id
func (s Session) SelectHandler(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	var req selectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "failed to decode request body", err)
		return
	}
	err := entry.Session.Select(req.ComponentID)
	s.respond(w, entry, "select", err, "")
}

// TogglePreviewHandler switches between editing and previewing
func (s Session) TogglePreviewHandler(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	_, err := entry.Session.TogglePreview()
	s.respond(w, entry, "toggle_preview", err, "")
}

// SaveHandler writes the session template to the library
func (s Session) SaveHandler(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	var meta designer.Metadata
	if err := decodeBody(r, &meta); err != nil {
		writeError(w, "failed to decode request body", err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	doc, err := entry.Session.Save(ctx, meta)
	api.RecordOperation("save", err)
	if err != nil {
		writeError(w, "failed to save template", err)
		return
	}
	// read back so the response carries the stored usage count
	if stored, err := s.Templates.Load(ctx, doc.ID); err == nil {
		doc = stored
	} else {
		zap.S().Warnw("failed to read back saved template", "templateId", doc.ID, "error", err)
	}
	zap.S().Infow("template saved",
		"sessionId", entry.ID,
		"templateId", doc.ID,
		"components", len(doc.Components),
		"requestId", api.RequestID(r.Context()),
	)
	writeJSON(w, http.StatusOK, doc)
}

// entry resolves the session named in the route, writing a 404 when it is
// unknown
func (s Session) entry(w http.ResponseWriter, r *http.Request) (*sessions.Entry, bool) {
	sessionID := mux.Vars(r)["sessionId"]
	entry, err := s.Sessions.Get(sessionID)
	if err != nil {
		writeError(w, fmt.Sprintf("failed to get session %s", sessionID), err)
		return nil, false
	}
	return entry, true
}

// respond finishes a session operation: it counts it, pushes the new state to
// listeners on success and writes the state back.
func (s Session) respond(w http.ResponseWriter, entry *sessions.Entry, op string, err error, componentID string) {
	api.RecordOperation(op, err)
	if err != nil {
		writeError(w, fmt.Sprintf("failed to %s", op), err)
		return
	}
	st := entry.Session.State()
	entry.Publish(st)
	writeJSON(w, http.StatusOK, SessionResponse{SessionID: entry.ID, State: st, ComponentID: componentID})
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// decodeOptionalBody accepts an empty body
func decodeOptionalBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// decodePatch rejects fields a patch cannot carry, such as the component type
func decodePatch(r *http.Request) (designer.ComponentPatch, error) {
	var patch designer.ComponentPatch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		return designer.ComponentPatch{}, fmt.Errorf("%w: %v", designer.ErrInvalidPatch, err)
	}
	return patch, nil
}
