package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/migraplan/portal-server/internal/identity"
	"github.com/migraplan/portal-server/internal/logger"
	"github.com/migraplan/portal-server/internal/mocks"
	"github.com/migraplan/portal-server/internal/model"
)

type authFixture struct {
	provider     *mocks.IdentityProvider
	profileStore *mocks.ProfileStore
	clientStore  *mocks.ClientStore
	manager      *mocks.TokenManager
	tokenStore   *mocks.RefreshTokenStore
	auth         *Auth
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		provider:     &mocks.IdentityProvider{},
		profileStore: &mocks.ProfileStore{},
		clientStore:  &mocks.ClientStore{},
		manager:      &mocks.TokenManager{},
		tokenStore:   &mocks.RefreshTokenStore{},
	}

	log := logger.New(0)
	tokenService := NewTokenService(f.manager, f.tokenStore, log)
	passwordChange := NewPasswordChange(f.provider, f.clientStore, laxPolicy(), log)
	f.auth = NewAuth(f.provider, f.profileStore, tokenService, passwordChange, log)
	return f
}

func (f *authFixture) expectTokens(identityID uuid.UUID) {
	f.manager.On("GenerateAccessToken", identityID).Return("access-token", nil)
	f.manager.On("GenerateRefreshToken", identityID).Return("refresh-token", "jti-1", nil)
	f.tokenStore.On("Create", mock.Anything, mock.Anything).Return(nil)
}

func TestAuth_Login_Success(t *testing.T) {
	f := newAuthFixture()
	identityID := uuid.New()

	f.provider.On("SignIn", mock.Anything, "cliente@test.com", "temporal1").
		Return(identity.Grant{Identity: identity.Identity{ID: identityID, Email: "cliente@test.com"}}, nil)
	f.profileStore.On("GetByID", mock.Anything, identityID).
		Return(model.Profile{ID: identityID, Email: "cliente@test.com", Role: model.RoleClient, Active: true}, nil)
	f.expectTokens(identityID)
	f.clientStore.On("GetByIdentityID", mock.Anything, identityID).
		Return(model.Client{IdentityID: identityID, CreatedByAdmin: true, FirstLoginCompleted: false}, nil)

	result, err := f.auth.Login(context.Background(), "cliente@test.com", "temporal1")
	require.NoError(t, err)
	assert.Equal(t, "access-token", result.AccessToken)
	assert.Equal(t, "refresh-token", result.RefreshToken)
	assert.Equal(t, identityID, result.Profile.ID)
	assert.True(t, result.PasswordChangeRequired)
}

func TestAuth_Login_InvalidCredential(t *testing.T) {
	f := newAuthFixture()

	f.provider.On("SignIn", mock.Anything, "cliente@test.com", "wrong").
		Return(identity.Grant{}, model.NewError(model.KindInvalidCredential, "Invalid login credentials"))

	_, err := f.auth.Login(context.Background(), "cliente@test.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, model.KindInvalidCredential, model.KindOf(err))

	f.profileStore.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAuth_Login_MissingProfile(t *testing.T) {
	f := newAuthFixture()
	identityID := uuid.New()

	f.provider.On("SignIn", mock.Anything, "orphan@test.com", "temporal1").
		Return(identity.Grant{Identity: identity.Identity{ID: identityID, Email: "orphan@test.com"}}, nil)
	f.profileStore.On("GetByID", mock.Anything, identityID).
		Return(model.Profile{}, model.ErrNotFound)

	_, err := f.auth.Login(context.Background(), "orphan@test.com", "temporal1")
	require.Error(t, err)
	assert.Equal(t, model.KindNotFound, model.KindOf(err))
}

func TestAuth_Login_InactiveProfile(t *testing.T) {
	f := newAuthFixture()
	identityID := uuid.New()

	f.provider.On("SignIn", mock.Anything, "cliente@test.com", "temporal1").
		Return(identity.Grant{Identity: identity.Identity{ID: identityID}}, nil)
	f.profileStore.On("GetByID", mock.Anything, identityID).
		Return(model.Profile{ID: identityID, Active: false}, nil)

	_, err := f.auth.Login(context.Background(), "cliente@test.com", "temporal1")
	require.Error(t, err)
	assert.Equal(t, model.KindInvalidCredential, model.KindOf(err))

	f.manager.AssertNotCalled(t, "GenerateAccessToken", mock.Anything)
}

func TestAuth_Login_GatingCheckFailureDoesNotBlockLogin(t *testing.T) {
	f := newAuthFixture()
	identityID := uuid.New()

	f.provider.On("SignIn", mock.Anything, "cliente@test.com", "temporal1").
		Return(identity.Grant{Identity: identity.Identity{ID: identityID}}, nil)
	f.profileStore.On("GetByID", mock.Anything, identityID).
		Return(model.Profile{ID: identityID, Role: model.RoleClient, Active: true}, nil)
	f.expectTokens(identityID)
	f.clientStore.On("GetByIdentityID", mock.Anything, identityID).
		Return(model.Client{}, assert.AnError)

	result, err := f.auth.Login(context.Background(), "cliente@test.com", "temporal1")
	require.NoError(t, err)
	assert.False(t, result.PasswordChangeRequired)
}
