package identity

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the external authentication-service account record. The
// credential itself is never held by the application.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// Grant is the result of a successful credential verification.
type Grant struct {
	Identity    Identity
	AccessToken string
}

// Provider wraps the hosted authentication service. None of these
// operations are idempotent at the application layer: repeating SignUp
// for the same email fails with an already-registered error.
type Provider interface {
	// SignUp creates a new identity with the given credential.
	SignUp(ctx context.Context, email, password string) (Identity, error)
	// SignIn verifies a credential and returns the provider session.
	SignIn(ctx context.Context, email, password string) (Grant, error)
	// UpdatePassword replaces the credential of an existing identity.
	UpdatePassword(ctx context.Context, identityID uuid.UUID, newPassword string) error
}
