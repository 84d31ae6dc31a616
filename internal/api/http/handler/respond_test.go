package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/migraplan/portal-server/internal/model"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "already registered",
			err:        model.NewError(model.KindAlreadyRegistered, "User already registered"),
			wantStatus: http.StatusConflict,
			wantBody:   "User already registered",
		},
		{
			name:       "duplicate username",
			err:        model.NewError(model.KindDuplicateUsername, "username is taken, use a different email"),
			wantStatus: http.StatusConflict,
			wantBody:   "use a different email",
		},
		{
			name:       "weak credential",
			err:        model.NewError(model.KindWeakCredential, "Password should be at least 6 characters"),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "Password should be at least 6 characters",
		},
		{
			name:       "invalid credential",
			err:        model.NewError(model.KindInvalidCredential, "Invalid login credentials"),
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid login credentials",
		},
		{
			name:       "not found kind",
			err:        model.NewError(model.KindNotFound, "account profile not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   "account profile not found",
		},
		{
			name:       "not found sentinel",
			err:        model.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   "not found",
		},
		{
			name:       "wrapped not found sentinel",
			err:        fmt.Errorf("failed to resolve client: %w", model.ErrNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "validation",
			err:        model.NewError(model.KindValidation, "full name is required"),
			wantStatus: http.StatusBadRequest,
			wantBody:   "full name is required",
		},
		{
			name:       "revoked token",
			err:        model.ErrTokenRevoked,
			wantStatus: http.StatusUnauthorized,
			wantBody:   "invalid session",
		},
		{
			name:       "expired token",
			err:        model.ErrTokenExpired,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown error hides message",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandleError_UnknownNeverLeaksInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	handleError(rec, errors.New("dial tcp 10.0.0.5:5432: i/o timeout"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}
