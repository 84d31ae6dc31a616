package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/migraplan/portal-server/internal/identity"
	"github.com/migraplan/portal-server/internal/logger"
	"github.com/migraplan/portal-server/internal/model"
)

// Auth signs portal users in against the hosted identity provider and
// issues local session tokens.
type Auth struct {
	provider       identity.Provider
	profileStore   model.ProfileStore
	tokenService   *TokenService
	passwordChange *PasswordChange
	logger         *logger.Logger
}

func NewAuth(
	provider identity.Provider,
	profileStore model.ProfileStore,
	tokenService *TokenService,
	passwordChange *PasswordChange,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		provider:       provider,
		profileStore:   profileStore,
		tokenService:   tokenService,
		passwordChange: passwordChange,
		logger:         logger,
	}
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	AccessToken            string
	RefreshToken           string
	Profile                model.Profile
	PasswordChangeRequired bool
}

// Login verifies the credential with the provider, resolves the account
// profile, and issues a token pair. The result carries the gating check
// so the UI can open the password-change dialog immediately.
func (a *Auth) Login(ctx context.Context, email, password string) (LoginResult, error) {
	a.logger.Debug("Auth service: logging in", "email", email)

	grant, err := a.provider.SignIn(ctx, email, password)
	if err != nil {
		a.logger.Info("Auth service: sign in rejected", "email", email)
		return LoginResult{}, err
	}

	profile, err := a.profileStore.GetByID(ctx, grant.Identity.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Error("Auth service: identity has no profile",
				"email", email,
				"identity_id", grant.Identity.ID)
			return LoginResult{}, model.NewError(model.KindNotFound, "account profile not found")
		}
		return LoginResult{}, fmt.Errorf("failed to get profile: %w", err)
	}

	if !profile.Active {
		return LoginResult{}, model.NewError(model.KindInvalidCredential, "account is inactive")
	}

	accessToken, refreshToken, err := a.tokenService.Issue(ctx, profile.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	// The gating surface re-checks when it opens, so a failed read here
	// must not block the login itself.
	required, err := a.passwordChange.Check(ctx, profile.ID)
	if err != nil {
		a.logger.Error("Auth service: gating check failed during login",
			"identity_id", profile.ID,
			"error", err.Error())
		required = false
	}

	a.logger.Info("Auth service: login completed",
		"email", email,
		"identity_id", profile.ID,
		"password_change_required", required)

	return LoginResult{
		AccessToken:            accessToken,
		RefreshToken:           refreshToken,
		Profile:                profile,
		PasswordChangeRequired: required,
	}, nil
}
