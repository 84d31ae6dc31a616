package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role determines what a profile may do in the portal.
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// ProfileStore defines persistence operations for account profiles.
type ProfileStore interface {
	Create(ctx context.Context, profile Profile) (Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (Profile, error)
}

// Profile maps an identity-provider account to a portal role and
// username. There is exactly one profile per identity id; it is created
// right after the identity and never before it.
type Profile struct {
	ID        uuid.UUID // identity-provider account id
	Email     string
	Username  string
	Role      Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
