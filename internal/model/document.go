package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DocumentStore defines persistence operations for case-document metadata.
type DocumentStore interface {
	Create(ctx context.Context, document Document) (Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (Document, error)
	GetByClientID(ctx context.Context, clientID uuid.UUID) ([]Document, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// Document is the metadata row for an uploaded case document (passport
// scan, contract, ...). The payload lives in object storage under S3Key.
type Document struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	Name        string
	ContentType string
	S3Key       string
	Size        int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}
