package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/migraplan/portal-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleError maps domain error kinds to HTTP status codes. Unknown
// errors are reported as 500 without leaking their message.
func handleError(w http.ResponseWriter, err error) {
	if errors.Is(err, model.ErrTokenRevoked) ||
		errors.Is(err, model.ErrTokenExpired) ||
		errors.Is(err, model.ErrTokenMismatch) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid session"})
		return
	}

	kind := model.KindOf(err)
	switch kind {
	case model.KindAlreadyRegistered, model.KindDuplicateUsername:
		writeJSON(w, http.StatusConflict, errorResponse{Error: errorMessage(err)})
	case model.KindWeakCredential:
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: errorMessage(err)})
	case model.KindInvalidCredential:
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errorMessage(err)})
	case model.KindNotFound:
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errorMessage(err)})
	case model.KindValidation:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorMessage(err)})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func errorMessage(err error) string {
	var domainErr *model.Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	if errors.Is(err, model.ErrNotFound) {
		return "not found"
	}
	return err.Error()
}
