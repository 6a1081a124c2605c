package designer

import (
	"errors"
	"fmt"
)

// Template model errors
var (
	ErrInvalidCatalogEntry  = errors.New("component type and subtype are not in the component catalog")
	ErrComponentNotFound    = errors.New("component not found")
	ErrInvalidDataSource    = errors.New("data source key is not in the data source catalog")
	ErrInvalidPatch         = errors.New("invalid component patch")
	ErrSchema               = errors.New("template document does not match the schema")
	ErrDuplicateComponentID = errors.New("duplicate component id")
	ErrInvalidMetadata      = errors.New("invalid template metadata")
)

// Session state errors
var (
	ErrNoTemplate     = errors.New("session has no template")
	ErrNoSelection    = errors.New("no component is selected")
	ErrPreviewActive  = errors.New("session is in preview mode")
	ErrSaveInProgress = errors.New("a save is already in progress")
)

// SchemaError names the document field that failed to decode
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrSchema, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrSchema
func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

func schemaErr(field, format string, args ...interface{}) error {
	return &SchemaError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
