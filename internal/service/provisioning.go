package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/migraplan/portal-server/internal/identity"
	"github.com/migraplan/portal-server/internal/logger"
	"github.com/migraplan/portal-server/internal/model"
)

const minTemporaryPasswordLength = 6

// Provisioning creates client accounts on behalf of an administrator.
// Creation is a strict three-step chain: identity at the provider,
// account profile, client record. Each step runs only after the previous
// one succeeded; a failure aborts the rest and is reported without
// rolling back earlier steps.
type Provisioning struct {
	provider     identity.Provider
	profileStore model.ProfileStore
	clientStore  model.ClientStore
	logger       *logger.Logger
	now          func() time.Time
}

func NewProvisioning(
	provider identity.Provider,
	profileStore model.ProfileStore,
	clientStore model.ClientStore,
	logger *logger.Logger,
) *Provisioning {
	return &Provisioning{
		provider:     provider,
		profileStore: profileStore,
		clientStore:  clientStore,
		logger:       logger,
		now:          time.Now,
	}
}

// ClientForm carries the data a client submits to complete their profile.
type ClientForm struct {
	FullName       string
	PassportNumber string
	DateOfBirth    time.Time
	PhoneNumber    string
	CurrentAgency  string
}

// CreateClient provisions a new client from an email and a temporary
// password. On success the created client record (with its generated id)
// is returned so the administrator can continue to the profile form.
func (p *Provisioning) CreateClient(ctx context.Context, email, tempPassword string) (model.Client, error) {
	p.logger.Debug("Provisioning service: creating client", "email", email)

	username, err := usernameFromEmail(email)
	if err != nil {
		return model.Client{}, err
	}
	if len(tempPassword) < minTemporaryPasswordLength {
		return model.Client{}, model.NewError(model.KindWeakCredential,
			fmt.Sprintf("temporary password must be at least %d characters", minTemporaryPasswordLength))
	}

	account, err := p.provider.SignUp(ctx, email, tempPassword)
	if err != nil {
		p.logger.Error("Provisioning service: identity creation failed",
			"email", email,
			"error", err.Error())
		return model.Client{}, err
	}

	profile := model.Profile{
		ID:       account.ID,
		Email:    email,
		Username: username,
		Role:     model.RoleClient,
		Active:   true,
	}
	if _, err := p.profileStore.Create(ctx, profile); err != nil {
		// The identity now exists without a profile/client chain. There
		// is no automatic rollback; cleanup is an operational task.
		p.logger.Error("Provisioning service: profile creation failed, identity is orphaned",
			"email", email,
			"identity_id", account.ID,
			"error", err.Error())
		return model.Client{}, err
	}

	now := p.now()
	client := model.Client{
		IdentityID:          account.ID,
		Email:               email,
		FullName:            email,
		PassportNumber:      fmt.Sprintf("%s%d", model.PlaceholderPassportPrefix, now.Unix()),
		DateOfBirth:         now,
		PhoneNumber:         model.PlaceholderPhone,
		HasCompletedForm:    false,
		CreatedByAdmin:      true,
		FirstLoginCompleted: false,
	}

	saved, err := p.clientStore.Create(ctx, client)
	if err != nil {
		p.logger.Error("Provisioning service: client record creation failed, identity is orphaned",
			"email", email,
			"identity_id", account.ID,
			"error", err.Error())
		return model.Client{}, fmt.Errorf("failed to create client record: %w", err)
	}

	p.logger.Info("Provisioning service: client provisioned",
		"email", email,
		"identity_id", account.ID,
		"client_id", saved.ID)

	return saved, nil
}

// CompleteForm replaces the placeholder case data with the submitted
// form and marks the form as completed.
func (p *Provisioning) CompleteForm(ctx context.Context, identityID uuid.UUID, form ClientForm) error {
	p.logger.Debug("Provisioning service: completing client form", "identity_id", identityID)

	if strings.TrimSpace(form.FullName) == "" {
		return model.NewError(model.KindValidation, "full name is required")
	}
	if strings.TrimSpace(form.PassportNumber) == "" {
		return model.NewError(model.KindValidation, "passport number is required")
	}

	completed := true
	patch := model.ClientPatch{
		FullName:         &form.FullName,
		PassportNumber:   &form.PassportNumber,
		DateOfBirth:      &form.DateOfBirth,
		PhoneNumber:      &form.PhoneNumber,
		CurrentAgency:    &form.CurrentAgency,
		HasCompletedForm: &completed,
	}
	if err := p.clientStore.Update(ctx, identityID, patch); err != nil {
		return fmt.Errorf("failed to complete client form: %w", err)
	}

	p.logger.Info("Provisioning service: client form completed", "identity_id", identityID)

	return nil
}

// ListClients returns all client records for the back office.
func (p *Provisioning) ListClients(ctx context.Context) ([]model.Client, error) {
	return p.clientStore.List(ctx)
}

// GetClient returns the client record for an identity.
func (p *Provisioning) GetClient(ctx context.Context, identityID uuid.UUID) (model.Client, error) {
	return p.clientStore.GetByIdentityID(ctx, identityID)
}

func usernameFromEmail(email string) (string, error) {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return "", model.NewError(model.KindValidation, "invalid email address")
	}
	return local, nil
}
