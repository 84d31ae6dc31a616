package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/migraplan/portal-server/internal/identity"
	"github.com/migraplan/portal-server/internal/logger"
	"github.com/migraplan/portal-server/internal/model"
)

// ChangePolicy configures the forced password-change workflow. The two
// deployed variants differ only in these knobs, not in code path.
type ChangePolicy struct {
	MinLength             int
	RequireUpper          bool
	RequireDigit          bool
	RequireReverification bool
}

// ChangeRequest is one password-change submission.
type ChangeRequest struct {
	IdentityID      uuid.UUID
	Email           string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// PasswordChange gates application access for admin-created accounts
// until the temporary password has been replaced.
type PasswordChange struct {
	provider    identity.Provider
	clientStore model.ClientStore
	policy      ChangePolicy
	logger      *logger.Logger

	// checks collapses concurrent gate checks for the same identity;
	// changing tracks identities with a change in flight so a duplicate
	// submission cannot trigger a second credential update.
	checks   singleflight.Group
	mu       sync.Mutex
	changing map[uuid.UUID]struct{}
}

func NewPasswordChange(
	provider identity.Provider,
	clientStore model.ClientStore,
	policy ChangePolicy,
	logger *logger.Logger,
) *PasswordChange {
	return &PasswordChange{
		provider:    provider,
		clientStore: clientStore,
		policy:      policy,
		logger:      logger,
		changing:    make(map[uuid.UUID]struct{}),
	}
}

// Check reports whether the identity must change its password before
// proceeding: true only for admin-created accounts that have not
// completed their first login. Identities without a client record
// (administrators) are never gated.
func (s *PasswordChange) Check(ctx context.Context, identityID uuid.UUID) (bool, error) {
	required, err, _ := s.checks.Do(identityID.String(), func() (any, error) {
		client, err := s.clientStore.GetByIdentityID(ctx, identityID)
		if err != nil {
			if model.KindOf(err) == model.KindNotFound {
				return false, nil
			}
			return false, fmt.Errorf("failed to read onboarding flags: %w", err)
		}
		return client.CreatedByAdmin && !client.FirstLoginCompleted, nil
	})
	if err != nil {
		s.logger.Error("Password change service: check failed",
			"identity_id", identityID,
			"error", err.Error())
		return false, err
	}

	return required.(bool), nil
}

// Change validates and applies a password change, then marks the first
// login as completed. Validation failures never reach the provider.
// If the credential updates but the flag write fails, the error is
// returned and the account will simply be re-prompted on the next check.
func (s *PasswordChange) Change(ctx context.Context, req ChangeRequest) error {
	s.logger.Debug("Password change service: processing change", "identity_id", req.IdentityID)

	if !s.begin(req.IdentityID) {
		return model.NewError(model.KindValidation, "a password change is already in progress")
	}
	defer s.end(req.IdentityID)

	if req.NewPassword != req.ConfirmPassword {
		return model.NewError(model.KindValidation, "new password and confirmation do not match")
	}
	if err := s.validatePolicy(req.NewPassword); err != nil {
		return err
	}

	if s.policy.RequireReverification {
		if _, err := s.provider.SignIn(ctx, req.Email, req.CurrentPassword); err != nil {
			s.logger.Info("Password change service: reverification failed",
				"identity_id", req.IdentityID)
			return err
		}
	}

	if err := s.provider.UpdatePassword(ctx, req.IdentityID, req.NewPassword); err != nil {
		s.logger.Error("Password change service: credential update failed",
			"identity_id", req.IdentityID,
			"error", err.Error())
		return err
	}

	completed := true
	if err := s.clientStore.Update(ctx, req.IdentityID, model.ClientPatch{FirstLoginCompleted: &completed}); err != nil {
		s.logger.Error("Password change service: flag update failed after credential update",
			"identity_id", req.IdentityID,
			"error", err.Error())
		return fmt.Errorf("failed to record completed first login: %w", err)
	}

	s.logger.Info("Password change service: password changed", "identity_id", req.IdentityID)

	return nil
}

func (s *PasswordChange) validatePolicy(password string) error {
	if len(password) < s.policy.MinLength {
		return model.NewError(model.KindWeakCredential,
			"password must be at least "+strconv.Itoa(s.policy.MinLength)+" characters")
	}

	hasUpper := false
	hasDigit := false
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}

	if s.policy.RequireUpper && !hasUpper {
		return model.NewError(model.KindWeakCredential, "password must contain an uppercase letter")
	}
	if s.policy.RequireDigit && !hasDigit {
		return model.NewError(model.KindWeakCredential, "password must contain a digit")
	}

	return nil
}

func (s *PasswordChange) begin(identityID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.changing[identityID]; busy {
		return false
	}
	s.changing[identityID] = struct{}{}
	return true
}

func (s *PasswordChange) end(identityID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.changing, identityID)
}
