package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/migraplan/portal-server/internal/logger"
	"github.com/migraplan/portal-server/internal/model"
)

// TokenService resolves the identity id from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects the identity id into
// the request context.
type Authenticate struct {
	tokenService   TokenService
	profileStore   model.ProfileStore
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(
	tokenService TokenService,
	profileStore model.ProfileStore,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		tokenService:   tokenService,
		profileStore:   profileStore,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handle parses the Authorization header, validates the token, and
// passes the request on with the identity id in its context.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if tokenString == "" {
			unauthorized(w, "missing authorization token")
			return
		}

		identityID, err := m.tokenService.GetUserID(r.Context(), tokenString)
		if err != nil || identityID == uuid.Nil {
			unauthorized(w, "invalid authorization token")
			return
		}

		ctx := m.contextManager.SetIdentityIDToContext(r.Context(), identityID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests whose authenticated identity does not
// hold the admin role. It must run after Handle.
func (m *Authenticate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identityID, ok := m.contextManager.GetIdentityIDFromContext(r.Context())
		if !ok {
			unauthorized(w, "not authenticated")
			return
		}

		profile, err := m.profileStore.GetByID(r.Context(), identityID)
		if err != nil {
			m.logger.Error("Authenticate middleware: profile lookup failed",
				"identity_id", identityID,
				"error", err.Error())
			unauthorized(w, "not authenticated")
			return
		}

		if profile.Role != model.RoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "admin role required"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
