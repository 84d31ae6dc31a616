package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager sets and retrieves the authenticated identity id on a
// request context.
type ContextManager interface {
	SetIdentityIDToContext(ctx context.Context, identityID uuid.UUID) context.Context
	GetIdentityIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
