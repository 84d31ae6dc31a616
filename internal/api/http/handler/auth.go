package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/migraplan/portal-server/internal/logger"
	"github.com/migraplan/portal-server/internal/service"
)

// AuthService defines login operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (service.LoginResult, error)
}

// TokenService defines token refresh and revoke operations.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (accessToken string, newRefreshToken string, err error)
	RevokeByToken(ctx context.Context, refreshToken string) error
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService  AuthService
	tokenService TokenService
	logger       *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokenService TokenService, logger *logger.Logger) *Auth {
	return &Auth{
		authService:  authService,
		tokenService: tokenService,
		logger:       logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginResponse struct {
	AccessToken            string          `json:"access_token"`
	RefreshToken           string          `json:"refresh_token"`
	PasswordChangeRequired bool            `json:"password_change_required"`
	Profile                profileResponse `json:"profile"`
}

// Login verifies a credential and returns a session token pair.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email and password are required"})
		return
	}

	h.logger.Debug("Auth handler: processing login request", "email", req.Email)

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"email", req.Email,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Auth handler: login completed", "email", req.Email)

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:            result.AccessToken,
		RefreshToken:           result.RefreshToken,
		PasswordChangeRequired: result.PasswordChangeRequired,
		Profile: profileResponse{
			ID:       result.Profile.ID.String(),
			Email:    result.Profile.Email,
			Username: result.Profile.Username,
			Role:     string(result.Profile.Role),
		},
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a refresh token for a new token pair.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "refresh token is required"})
		return
	}

	h.logger.Debug("Auth handler: processing token refresh request")

	accessToken, refreshToken, err := h.tokenService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Error("Auth handler: token refresh failed", "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Logout revokes a refresh token.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "refresh token is required"})
		return
	}

	if err := h.tokenService.RevokeByToken(r.Context(), req.RefreshToken); err != nil {
		h.logger.Error("Auth handler: token revoke failed", "error", err.Error())
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
