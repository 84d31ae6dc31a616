// Package mocks provides testify mocks for store and provider interfaces.
package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/migraplan/portal-server/internal/model"
)

// ProfileStore is a mock implementation of model.ProfileStore.
type ProfileStore struct {
	mock.Mock
}

func (m *ProfileStore) Create(ctx context.Context, profile model.Profile) (model.Profile, error) {
	args := m.Called(ctx, profile)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *ProfileStore) GetByID(ctx context.Context, id uuid.UUID) (model.Profile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Profile), args.Error(1)
}

// ClientStore is a mock implementation of model.ClientStore.
type ClientStore struct {
	mock.Mock
}

func (m *ClientStore) Create(ctx context.Context, client model.Client) (model.Client, error) {
	args := m.Called(ctx, client)
	return args.Get(0).(model.Client), args.Error(1)
}

func (m *ClientStore) GetByIdentityID(ctx context.Context, identityID uuid.UUID) (model.Client, error) {
	args := m.Called(ctx, identityID)
	return args.Get(0).(model.Client), args.Error(1)
}

func (m *ClientStore) Update(ctx context.Context, identityID uuid.UUID, patch model.ClientPatch) error {
	args := m.Called(ctx, identityID, patch)
	return args.Error(0)
}

func (m *ClientStore) List(ctx context.Context) ([]model.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Client), args.Error(1)
}

// DocumentStore is a mock implementation of model.DocumentStore.
type DocumentStore struct {
	mock.Mock
}

func (m *DocumentStore) Create(ctx context.Context, document model.Document) (model.Document, error) {
	args := m.Called(ctx, document)
	return args.Get(0).(model.Document), args.Error(1)
}

func (m *DocumentStore) GetByID(ctx context.Context, id uuid.UUID) (model.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Document), args.Error(1)
}

func (m *DocumentStore) GetByClientID(ctx context.Context, clientID uuid.UUID) ([]model.Document, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *DocumentStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// RefreshTokenStore is a mock implementation of model.RefreshTokenStore.
type RefreshTokenStore struct {
	mock.Mock
}

func (m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenStore) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *RefreshTokenStore) RevokeByJTI(ctx context.Context, jti string) error {
	args := m.Called(ctx, jti)
	return args.Error(0)
}

func (m *RefreshTokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// TokenManagerService mocks the token lookup used by the
// authentication middleware.
type TokenManagerService struct {
	mock.Mock
}

func (m *TokenManagerService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// TokenManager is a mock implementation of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) GenerateRefreshToken(userID uuid.UUID) (string, string, error) {
	args := m.Called(userID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *TokenManager) ParseAccessToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *TokenManager) ParseRefreshToken(token string) (uuid.UUID, string, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

// Storage is a mock implementation of model.Storage.
type Storage struct {
	mock.Mock
}

func (m *Storage) Upload(ctx context.Context, key string, reader io.Reader) error {
	args := m.Called(ctx, key, reader)
	return args.Error(0)
}

func (m *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *Storage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *Storage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
