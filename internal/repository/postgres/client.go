package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/migraplan/portal-server/internal/model"
)

var _ model.ClientStore = (*ClientRepository)(nil)

type ClientRepository struct {
	db *Connection
}

func NewClientRepository(db *Connection) *ClientRepository {
	return &ClientRepository{
		db: db,
	}
}

const clientColumns = `id, identity_id, email, full_name, passport_number, date_of_birth,
		phone_number, current_agency, has_completed_form, created_by_admin,
		first_login_completed, created_at, updated_at`

func (r *ClientRepository) Create(ctx context.Context, client model.Client) (model.Client, error) {
	query := `INSERT INTO clients (id, identity_id, email, full_name, passport_number, date_of_birth,
				  phone_number, current_agency, has_completed_form, created_by_admin, first_login_completed)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + clientColumns

	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}

	var saved model.Client
	err := r.db.QueryRow(ctx, query,
		client.ID, client.IdentityID, client.Email, client.FullName, client.PassportNumber,
		client.DateOfBirth, client.PhoneNumber, client.CurrentAgency,
		client.HasCompletedForm, client.CreatedByAdmin, client.FirstLoginCompleted,
	).Scan(scanTargets(&saved)...)
	if err != nil {
		return model.Client{}, fmt.Errorf("failed to create client: %w", err)
	}

	return saved, nil
}

func (r *ClientRepository) GetByIdentityID(ctx context.Context, identityID uuid.UUID) (model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE identity_id = $1`

	var client model.Client
	err := r.db.QueryRow(ctx, query, identityID).Scan(scanTargets(&client)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Client{}, model.ErrNotFound
		}
		return model.Client{}, fmt.Errorf("failed to get client by identity id: %w", err)
	}

	return client, nil
}

// Update applies only the non-nil fields of the patch. Returns
// model.ErrNotFound when no client row matches the identity id.
func (r *ClientRepository) Update(ctx context.Context, identityID uuid.UUID, patch model.ClientPatch) error {
	assignments := []string{"updated_at = NOW()"}
	args := []any{identityID}

	addAssignment := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.FullName != nil {
		addAssignment("full_name", *patch.FullName)
	}
	if patch.PassportNumber != nil {
		addAssignment("passport_number", *patch.PassportNumber)
	}
	if patch.DateOfBirth != nil {
		addAssignment("date_of_birth", *patch.DateOfBirth)
	}
	if patch.PhoneNumber != nil {
		addAssignment("phone_number", *patch.PhoneNumber)
	}
	if patch.CurrentAgency != nil {
		addAssignment("current_agency", *patch.CurrentAgency)
	}
	if patch.HasCompletedForm != nil {
		addAssignment("has_completed_form", *patch.HasCompletedForm)
	}
	if patch.FirstLoginCompleted != nil {
		addAssignment("first_login_completed", *patch.FirstLoginCompleted)
	}

	query := fmt.Sprintf("UPDATE clients SET %s WHERE identity_id = $1", strings.Join(assignments, ", "))

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *ClientRepository) List(ctx context.Context) ([]model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var client model.Client
		if err := rows.Scan(scanTargets(&client)...); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}

	return clients, nil
}

func scanTargets(c *model.Client) []any {
	return []any{
		&c.ID, &c.IdentityID, &c.Email, &c.FullName, &c.PassportNumber, &c.DateOfBirth,
		&c.PhoneNumber, &c.CurrentAgency, &c.HasCompletedForm, &c.CreatedByAdmin,
		&c.FirstLoginCompleted, &c.CreatedAt, &c.UpdatedAt,
	}
}
