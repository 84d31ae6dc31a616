package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/migraplan/portal-server/internal/identity"
)

// IdentityProvider is a mock implementation of identity.Provider.
type IdentityProvider struct {
	mock.Mock
}

func (m *IdentityProvider) SignUp(ctx context.Context, email, password string) (identity.Identity, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(identity.Identity), args.Error(1)
}

func (m *IdentityProvider) SignIn(ctx context.Context, email, password string) (identity.Grant, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(identity.Grant), args.Error(1)
}

func (m *IdentityProvider) UpdatePassword(ctx context.Context, identityID uuid.UUID, newPassword string) error {
	args := m.Called(ctx, identityID, newPassword)
	return args.Error(0)
}
