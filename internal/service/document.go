package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/migraplan/portal-server/internal/logger"
	"github.com/migraplan/portal-server/internal/model"
)

// Document manages a client's case documents: metadata rows in the
// database, payloads in object storage.
type Document struct {
	documentStore model.DocumentStore
	clientStore   model.ClientStore
	storage       model.Storage
	logger        *logger.Logger
}

func NewDocument(
	documentStore model.DocumentStore,
	clientStore model.ClientStore,
	storage model.Storage,
	logger *logger.Logger,
) *Document {
	return &Document{
		documentStore: documentStore,
		clientStore:   clientStore,
		storage:       storage,
		logger:        logger,
	}
}

// Upload stores the payload and creates the metadata row for the
// client owning the given identity.
func (s *Document) Upload(ctx context.Context, identityID uuid.UUID, name, contentType string, size int64, reader io.Reader) (model.Document, error) {
	client, err := s.clientStore.GetByIdentityID(ctx, identityID)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to resolve client: %w", err)
	}

	key := fmt.Sprintf("documents/%s/%s", client.ID, uuid.New())
	if err := s.storage.Upload(ctx, key, reader); err != nil {
		return model.Document{}, fmt.Errorf("failed to upload document payload: %w", err)
	}

	document := model.Document{
		ID:          uuid.New(),
		ClientID:    client.ID,
		Name:        name,
		ContentType: contentType,
		S3Key:       key,
		Size:        size,
	}

	saved, err := s.documentStore.Create(ctx, document)
	if err != nil {
		// The payload is already in storage; the orphaned object is
		// cleaned up out of band.
		s.logger.Error("Document service: metadata insert failed after upload",
			"client_id", client.ID,
			"s3_key", key,
			"error", err.Error())
		return model.Document{}, fmt.Errorf("failed to create document metadata: %w", err)
	}

	s.logger.Info("Document service: document uploaded",
		"client_id", client.ID,
		"document_id", saved.ID)

	return saved, nil
}

// Download returns the metadata and payload of one of the caller's
// documents. Documents of other clients are reported as not found.
func (s *Document) Download(ctx context.Context, identityID, documentID uuid.UUID) (model.Document, io.ReadCloser, error) {
	document, err := s.authorize(ctx, identityID, documentID)
	if err != nil {
		return model.Document{}, nil, err
	}

	reader, err := s.storage.Download(ctx, document.S3Key)
	if err != nil {
		return model.Document{}, nil, fmt.Errorf("failed to download document payload: %w", err)
	}

	return document, reader, nil
}

// List returns the caller's documents.
func (s *Document) List(ctx context.Context, identityID uuid.UUID) ([]model.Document, error) {
	client, err := s.clientStore.GetByIdentityID(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve client: %w", err)
	}

	return s.documentStore.GetByClientID(ctx, client.ID)
}

// Delete removes one of the caller's documents.
func (s *Document) Delete(ctx context.Context, identityID, documentID uuid.UUID) error {
	document, err := s.authorize(ctx, identityID, documentID)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, document.S3Key); err != nil {
		return fmt.Errorf("failed to delete document payload: %w", err)
	}

	if err := s.documentStore.SoftDelete(ctx, document.ID); err != nil {
		return fmt.Errorf("failed to delete document metadata: %w", err)
	}

	s.logger.Info("Document service: document deleted", "document_id", documentID)

	return nil
}

func (s *Document) authorize(ctx context.Context, identityID, documentID uuid.UUID) (model.Document, error) {
	client, err := s.clientStore.GetByIdentityID(ctx, identityID)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to resolve client: %w", err)
	}

	document, err := s.documentStore.GetByID(ctx, documentID)
	if err != nil {
		return model.Document{}, err
	}
	if document.ClientID != client.ID {
		return model.Document{}, model.ErrNotFound
	}

	return document, nil
}
