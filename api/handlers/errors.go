package handlers

import (
	"errors"
	"net/http"

	"github.com/linesmerrill/report-designer-api/api/sessions"
	"github.com/linesmerrill/report-designer-api/config"
	"github.com/linesmerrill/report-designer-api/designer"
	"github.com/linesmerrill/report-designer-api/gateway"
)

// errBadRequest marks request bodies that could not be read
var errBadRequest = errors.New("malformed request body")

// errBadQuery marks query parameters outside their allowed values
var errBadQuery = errors.New("invalid query parameter")

// statusFor maps a domain error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound),
		errors.Is(err, designer.ErrComponentNotFound),
		errors.Is(err, gateway.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, designer.ErrInvalidCatalogEntry),
		errors.Is(err, designer.ErrInvalidDataSource),
		errors.Is(err, designer.ErrInvalidPatch),
		errors.Is(err, designer.ErrSchema),
		errors.Is(err, designer.ErrDuplicateComponentID),
		errors.Is(err, designer.ErrInvalidMetadata),
		errors.Is(err, errBadRequest),
		errors.Is(err, errBadQuery):
		return http.StatusBadRequest
	case errors.Is(err, designer.ErrNoSelection),
		errors.Is(err, designer.ErrPreviewActive),
		errors.Is(err, designer.ErrNoTemplate),
		errors.Is(err, designer.ErrSaveInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err with the status its kind maps to
func writeError(w http.ResponseWriter, message string, err error) {
	config.ErrorStatus(message, statusFor(err), w, err)
}
