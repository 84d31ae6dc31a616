package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ClientStore defines persistence operations for client records.
type ClientStore interface {
	Create(ctx context.Context, client Client) (Client, error)
	GetByIdentityID(ctx context.Context, identityID uuid.UUID) (Client, error)
	Update(ctx context.Context, identityID uuid.UUID, patch ClientPatch) error
	List(ctx context.Context) ([]Client, error)
}

// Client holds a service client's case data and onboarding flags.
// Admin-provisioned clients start with placeholder case fields until the
// client completes the profile form.
type Client struct {
	ID                  uuid.UUID
	IdentityID          uuid.UUID
	Email               string
	FullName            string
	PassportNumber      string
	DateOfBirth         time.Time
	PhoneNumber         string
	CurrentAgency       string
	HasCompletedForm    bool
	CreatedByAdmin      bool
	FirstLoginCompleted bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ClientPatch carries a partial update; nil fields are left untouched.
type ClientPatch struct {
	FullName            *string
	PassportNumber      *string
	DateOfBirth         *time.Time
	PhoneNumber         *string
	CurrentAgency       *string
	HasCompletedForm    *bool
	FirstLoginCompleted *bool
}

// Placeholder values written by admin provisioning, replaced when the
// client completes the form.
const (
	PlaceholderPassportPrefix = "TEMP-"
	PlaceholderPhone          = "0000000000"
)
