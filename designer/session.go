package designer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/linesmerrill/report-designer-api/models"
)

// Saver persists a serialized template
type Saver interface {
	Save(ctx context.Context, doc models.TemplateDocument) error
}

// State is a point in time copy of a session
type State struct {
	Template    *Template `json:"template"`
	SelectedID  *string   `json:"selectedComponentId"`
	PreviewMode bool      `json:"previewMode"`
}

// Session is the editing state wrapped around one template: the template
// itself, the selected component and the preview toggle.
//
// A session starts empty. Initialize or Open moves it to editing, and
// TogglePreview switches between editing and previewing. Every transition
// keeps the selection pointing at an existing component or at nothing, and
// previewing always has nothing selected.
//
// Operations are serialized by an internal mutex. Save only holds it long
// enough to snapshot the template, so edits continue while the write is in
// flight; a second Save in that window is rejected with ErrSaveInProgress.
type Session struct {
	mu       sync.Mutex
	designer *Designer
	saver    Saver
	now      func() time.Time

	template *Template
	selected string
	preview  bool
	saving   bool
}

// NewSession returns an empty session
func NewSession(d *Designer, saver Saver) *Session {
	return &Session{
		designer: d,
		saver:    saver,
		now:      time.Now,
	}
}

// State returns a copy of the session state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	st := State{PreviewMode: s.preview}
	if s.template != nil {
		t := s.template.clone()
		st.Template = &t
	}
	if s.selected != "" {
		id := s.selected
		st.SelectedID = &id
	}
	return st
}

// Template returns a copy of the current template
func (s *Session) Template() (Template, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.template == nil {
		return Template{}, false
	}
	return s.template.clone(), true
}

// SelectedID returns the selected component id
func (s *Session) SelectedID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.selected != ""
}

// PreviewMode reports whether the session is previewing
func (s *Session) PreviewMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// Initialize starts a new template, discarding the current one
func (s *Session) Initialize() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.designer.CreateTemplate()
	s.replaceLocked(t)
	return s.stateLocked()
}

// Open starts editing an existing template
func (s *Session) Open(t Template) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(t.clone())
	return s.stateLocked()
}

func (s *Session) replaceLocked(t Template) {
	s.template = &t
	s.selected = ""
	s.preview = false
}

// AddComponent adds a component and selects it
func (s *Session) AddComponent(kind ComponentType, subtype string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return "", err
	}
	t, id, err := s.designer.AddComponent(*s.template, kind, subtype)
	if err != nil {
		return "", err
	}
	s.template = &t
	s.selected = id
	return id, nil
}

// Select selects a component, or clears the selection when id is nil. It does
// nothing while previewing.
func (s *Session) Select(id *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.template == nil {
		return ErrNoTemplate
	}
	if s.preview {
		return nil
	}
	if id == nil {
		s.selected = ""
		return nil
	}
	if s.template.indexOf(*id) < 0 {
		return fmt.Errorf("%w: %s", ErrComponentNotFound, *id)
	}
	s.selected = *id
	return nil
}

// UpdateComponent patches the component with the given id
func (s *Session) UpdateComponent(id string, patch ComponentPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(id, patch)
}

// UpdateSelected patches the selected component
func (s *Session) UpdateSelected(patch ComponentPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	if s.selected == "" || s.template.indexOf(s.selected) < 0 {
		return ErrNoSelection
	}
	return s.updateLocked(s.selected, patch)
}

func (s *Session) updateLocked(id string, patch ComponentPatch) error {
	if err := s.editableLocked(); err != nil {
		return err
	}
	t, err := s.designer.UpdateComponent(*s.template, id, patch)
	if err != nil {
		return err
	}
	s.template = &t
	return nil
}

// SetBinding binds or unbinds a component's data source
func (s *Session) SetBinding(id string, key *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	t, err := s.designer.SetBinding(*s.template, id, key)
	if err != nil {
		return err
	}
	s.template = &t
	return nil
}

// RemoveComponent deletes a component and drops the selection if it pointed
// at it.
func (s *Session) RemoveComponent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	t, err := s.designer.RemoveComponent(*s.template, id)
	if err != nil {
		return err
	}
	s.template = &t
	if s.selected == id {
		s.selected = ""
	}
	return nil
}

// TogglePreview switches between editing and previewing. Entering preview
// clears the selection.
func (s *Session) TogglePreview() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.template == nil {
		return false, ErrNoTemplate
	}
	s.preview = !s.preview
	if s.preview {
		s.selected = ""
	}
	return s.preview, nil
}

// Save writes the current template with the given name and description. The
// session itself is not changed.
func (s *Session) Save(ctx context.Context, meta Metadata) (models.TemplateDocument, error) {
	s.mu.Lock()
	if s.template == nil {
		s.mu.Unlock()
		return models.TemplateDocument{}, ErrNoTemplate
	}
	if s.saving {
		s.mu.Unlock()
		return models.TemplateDocument{}, ErrSaveInProgress
	}
	if err := meta.Validate(); err != nil {
		s.mu.Unlock()
		return models.TemplateDocument{}, err
	}
	doc := Serialize(*s.template, meta, s.now())
	s.saving = true
	s.mu.Unlock()

	err := s.saver.Save(ctx, doc)

	s.mu.Lock()
	s.saving = false
	s.mu.Unlock()
	if err != nil {
		return models.TemplateDocument{}, err
	}
	return doc, nil
}

func (s *Session) editableLocked() error {
	if s.template == nil {
		return ErrNoTemplate
	}
	if s.preview {
		return ErrPreviewActive
	}
	return nil
}
