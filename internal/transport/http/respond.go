package http

import (
	"encoding/json"
	"errors"
	"net/http"

	svcerrors "github.com/doylet/docsearch/internal/errors"
)

// errorBody is the user-visible REST error envelope of spec.md §7:
// {code, message, details?}. The MCP transport reports errors through its
// own ToolError instead.
type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto the taxonomy's HTTP status classes (spec.md
// §7) and writes the {code, message, details?} envelope.
func writeError(w http.ResponseWriter, err error) {
	var se *svcerrors.ServiceError
	if !errors.As(err, &se) {
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Code:    string(svcerrors.CategoryInternal),
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, statusForCategory(se.Category), errorBody{
		Code:    string(se.Category),
		Message: se.Message,
		Details: se.Details,
	})
}

func statusForCategory(cat svcerrors.Category) int {
	switch cat {
	case svcerrors.CategoryValidation:
		return http.StatusBadRequest
	case svcerrors.CategoryNotFound:
		return http.StatusNotFound
	case svcerrors.CategoryPermissionDenied:
		return http.StatusForbidden
	case svcerrors.CategoryConfiguration:
		return http.StatusBadRequest
	case svcerrors.CategoryExternalService, svcerrors.CategoryNetwork, svcerrors.CategorySerialization, svcerrors.CategoryInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func notFoundRoute() error {
	return svcerrors.NotFound("route", "no such endpoint")
}
