package context

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const identityIDKey contextKey = iota

// Manager stores and retrieves the authenticated identity id on request
// contexts using an unexported key, so handlers cannot collide with it.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetIdentityIDToContext returns a child context carrying the identity id.
func (m *Manager) SetIdentityIDToContext(ctx context.Context, identityID uuid.UUID) context.Context {
	return context.WithValue(ctx, identityIDKey, identityID)
}

// GetIdentityIDFromContext retrieves the identity id set by the
// authentication middleware.
func (m *Manager) GetIdentityIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	identityID, ok := ctx.Value(identityIDKey).(uuid.UUID)
	return identityID, ok
}
