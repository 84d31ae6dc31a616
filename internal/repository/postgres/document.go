package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/migraplan/portal-server/internal/model"
)

var _ model.DocumentStore = (*DocumentRepository)(nil)

type DocumentRepository struct {
	db *Connection
}

func NewDocumentRepository(db *Connection) *DocumentRepository {
	return &DocumentRepository{
		db: db,
	}
}

func (r *DocumentRepository) Create(ctx context.Context, document model.Document) (model.Document, error) {
	query := `INSERT INTO documents (id, client_id, name, content_type, s3_key, size)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, client_id, name, content_type, s3_key, size, created_at, updated_at, deleted_at`

	if document.ID == uuid.Nil {
		document.ID = uuid.New()
	}

	var saved model.Document
	err := r.db.QueryRow(ctx, query,
		document.ID, document.ClientID, document.Name, document.ContentType,
		document.S3Key, document.Size,
	).Scan(
		&saved.ID, &saved.ClientID, &saved.Name, &saved.ContentType, &saved.S3Key,
		&saved.Size, &saved.CreatedAt, &saved.UpdatedAt, &saved.DeletedAt,
	)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to create document: %w", err)
	}

	return saved, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Document, error) {
	query := `SELECT id, client_id, name, content_type, s3_key, size, created_at, updated_at, deleted_at
			  FROM documents WHERE id = $1 AND deleted_at IS NULL`

	var document model.Document
	err := r.db.QueryRow(ctx, query, id).Scan(
		&document.ID, &document.ClientID, &document.Name, &document.ContentType, &document.S3Key,
		&document.Size, &document.CreatedAt, &document.UpdatedAt, &document.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Document{}, model.ErrNotFound
		}
		return model.Document{}, fmt.Errorf("failed to get document by id: %w", err)
	}

	return document, nil
}

func (r *DocumentRepository) GetByClientID(ctx context.Context, clientID uuid.UUID) ([]model.Document, error) {
	query := `SELECT id, client_id, name, content_type, s3_key, size, created_at, updated_at, deleted_at
			  FROM documents WHERE client_id = $1 AND deleted_at IS NULL
			  ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var documents []model.Document
	for rows.Next() {
		var document model.Document
		err := rows.Scan(
			&document.ID, &document.ClientID, &document.Name, &document.ContentType, &document.S3Key,
			&document.Size, &document.CreatedAt, &document.UpdatedAt, &document.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, document)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return documents, nil
}

func (r *DocumentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE documents SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
