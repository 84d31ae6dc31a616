package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/migraplan/portal-server/internal/logger"
	"github.com/migraplan/portal-server/internal/model"
	"github.com/migraplan/portal-server/internal/service"
)

// ProvisioningService defines client account creation and profile
// operations.
type ProvisioningService interface {
	CreateClient(ctx context.Context, email, tempPassword string) (model.Client, error)
	CompleteForm(ctx context.Context, identityID uuid.UUID, form service.ClientForm) error
	ListClients(ctx context.Context) ([]model.Client, error)
	GetClient(ctx context.Context, identityID uuid.UUID) (model.Client, error)
}

// Client handles HTTP endpoints for client records: admin provisioning
// and listing, plus the client's own record and profile form.
type Client struct {
	provisioning   ProvisioningService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewClient creates a new Client handler.
func NewClient(provisioning ProvisioningService, contextManager model.ContextManager, logger *logger.Logger) *Client {
	return &Client{
		provisioning:   provisioning,
		contextManager: contextManager,
		logger:         logger,
	}
}

type createClientRequest struct {
	Email             string `json:"email"`
	TemporaryPassword string `json:"temporary_password"`
}

type clientResponse struct {
	ID                  string    `json:"id"`
	IdentityID          string    `json:"identity_id"`
	Email               string    `json:"email"`
	FullName            string    `json:"full_name"`
	PassportNumber      string    `json:"passport_number"`
	DateOfBirth         time.Time `json:"date_of_birth"`
	PhoneNumber         string    `json:"phone_number"`
	CurrentAgency       string    `json:"current_agency"`
	HasCompletedForm    bool      `json:"has_completed_form"`
	CreatedByAdmin      bool      `json:"created_by_admin"`
	FirstLoginCompleted bool      `json:"first_login_completed"`
	CreatedAt           time.Time `json:"created_at"`
}

func toClientResponse(client model.Client) clientResponse {
	return clientResponse{
		ID:                  client.ID.String(),
		IdentityID:          client.IdentityID.String(),
		Email:               client.Email,
		FullName:            client.FullName,
		PassportNumber:      client.PassportNumber,
		DateOfBirth:         client.DateOfBirth,
		PhoneNumber:         client.PhoneNumber,
		CurrentAgency:       client.CurrentAgency,
		HasCompletedForm:    client.HasCompletedForm,
		CreatedByAdmin:      client.CreatedByAdmin,
		FirstLoginCompleted: client.FirstLoginCompleted,
		CreatedAt:           client.CreatedAt,
	}
}

// Create provisions a new client account from an email and a temporary
// password. Admin only.
func (h *Client) Create(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	h.logger.Debug("Client handler: processing create request", "email", req.Email)

	client, err := h.provisioning.CreateClient(r.Context(), req.Email, req.TemporaryPassword)
	if err != nil {
		h.logger.Error("Client handler: create failed",
			"email", req.Email,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Client handler: client created",
		"email", req.Email,
		"client_id", client.ID)

	writeJSON(w, http.StatusCreated, toClientResponse(client))
}

// List returns all client records. Admin only.
func (h *Client) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.provisioning.ListClients(r.Context())
	if err != nil {
		h.logger.Error("Client handler: list failed", "error", err.Error())
		handleError(w, err)
		return
	}

	response := make([]clientResponse, 0, len(clients))
	for _, client := range clients {
		response = append(response, toClientResponse(client))
	}

	writeJSON(w, http.StatusOK, response)
}

// Me returns the caller's own client record.
func (h *Client) Me(w http.ResponseWriter, r *http.Request) {
	identityID, ok := h.contextManager.GetIdentityIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	client, err := h.provisioning.GetClient(r.Context(), identityID)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toClientResponse(client))
}

type completeFormRequest struct {
	FullName       string    `json:"full_name"`
	PassportNumber string    `json:"passport_number"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	PhoneNumber    string    `json:"phone_number"`
	CurrentAgency  string    `json:"current_agency"`
}

// CompleteForm replaces the caller's placeholder case data with the
// submitted profile form.
func (h *Client) CompleteForm(w http.ResponseWriter, r *http.Request) {
	identityID, ok := h.contextManager.GetIdentityIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	var req completeFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	h.logger.Debug("Client handler: processing form submission", "identity_id", identityID)

	err := h.provisioning.CompleteForm(r.Context(), identityID, service.ClientForm{
		FullName:       req.FullName,
		PassportNumber: req.PassportNumber,
		DateOfBirth:    req.DateOfBirth,
		PhoneNumber:    req.PhoneNumber,
		CurrentAgency:  req.CurrentAgency,
	})
	if err != nil {
		h.logger.Error("Client handler: form submission failed",
			"identity_id", identityID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Client handler: form completed", "identity_id", identityID)

	w.WriteHeader(http.StatusNoContent)
}
