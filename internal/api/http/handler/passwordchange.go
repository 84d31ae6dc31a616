package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/migraplan/portal-server/internal/logger"
	"github.com/migraplan/portal-server/internal/model"
	"github.com/migraplan/portal-server/internal/service"
)

// PasswordChangeService defines the forced password-change workflow.
type PasswordChangeService interface {
	Check(ctx context.Context, identityID uuid.UUID) (bool, error)
	Change(ctx context.Context, req service.ChangeRequest) error
}

// ProfileService resolves account profiles.
type ProfileService interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.Profile, error)
}

// PasswordChange handles HTTP endpoints for the forced password-change
// gate.
type PasswordChange struct {
	passwordChange PasswordChangeService
	profiles       ProfileService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewPasswordChange creates a new PasswordChange handler.
func NewPasswordChange(
	passwordChange PasswordChangeService,
	profiles ProfileService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *PasswordChange {
	return &PasswordChange{
		passwordChange: passwordChange,
		profiles:       profiles,
		contextManager: contextManager,
		logger:         logger,
	}
}

type checkResponse struct {
	Required bool `json:"required"`
}

// Check reports whether the caller must change their password before
// proceeding.
func (h *PasswordChange) Check(w http.ResponseWriter, r *http.Request) {
	identityID, ok := h.contextManager.GetIdentityIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	required, err := h.passwordChange.Check(r.Context(), identityID)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkResponse{Required: required})
}

type changeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Change applies a password change for the caller.
func (h *PasswordChange) Change(w http.ResponseWriter, r *http.Request) {
	identityID, ok := h.contextManager.GetIdentityIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	var req changeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	h.logger.Debug("Password change handler: processing change", "identity_id", identityID)

	profile, err := h.profiles.GetByID(r.Context(), identityID)
	if err != nil {
		handleError(w, err)
		return
	}

	err = h.passwordChange.Change(r.Context(), service.ChangeRequest{
		IdentityID:      identityID,
		Email:           profile.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.logger.Error("Password change handler: change failed",
			"identity_id", identityID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Password change handler: change completed", "identity_id", identityID)

	w.WriteHeader(http.StatusNoContent)
}
