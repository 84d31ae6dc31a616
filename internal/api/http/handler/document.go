package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/migraplan/portal-server/internal/logger"
	"github.com/migraplan/portal-server/internal/model"
)

// maxUploadSize caps the multipart form kept in memory before spilling
// to disk.
const maxUploadSize = 32 << 20

// DocumentService defines case-document operations.
type DocumentService interface {
	Upload(ctx context.Context, identityID uuid.UUID, name, contentType string, size int64, reader io.Reader) (model.Document, error)
	Download(ctx context.Context, identityID, documentID uuid.UUID) (model.Document, io.ReadCloser, error)
	List(ctx context.Context, identityID uuid.UUID) ([]model.Document, error)
	Delete(ctx context.Context, identityID, documentID uuid.UUID) error
}

// Document handles HTTP endpoints for a client's case documents.
type Document struct {
	documentService DocumentService
	contextManager  model.ContextManager
	logger          *logger.Logger
}

// NewDocument creates a new Document handler.
func NewDocument(documentService DocumentService, contextManager model.ContextManager, logger *logger.Logger) *Document {
	return &Document{
		documentService: documentService,
		contextManager:  contextManager,
		logger:          logger,
	}
}

type documentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDocumentResponse(document model.Document) documentResponse {
	return documentResponse{
		ID:          document.ID.String(),
		Name:        document.Name,
		ContentType: document.ContentType,
		Size:        document.Size,
		CreatedAt:   document.CreatedAt,
	}
}

// Upload accepts a multipart form with a single "file" part.
func (h *Document) Upload(w http.ResponseWriter, r *http.Request) {
	identityID, ok := h.contextManager.GetIdentityIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file part is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h.logger.Debug("Document handler: processing upload",
		"identity_id", identityID,
		"name", header.Filename)

	document, err := h.documentService.Upload(r.Context(), identityID, header.Filename, contentType, header.Size, file)
	if err != nil {
		h.logger.Error("Document handler: upload failed",
			"identity_id", identityID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDocumentResponse(document))
}

// List returns the caller's documents.
func (h *Document) List(w http.ResponseWriter, r *http.Request) {
	identityID, ok := h.contextManager.GetIdentityIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	documents, err := h.documentService.List(r.Context(), identityID)
	if err != nil {
		handleError(w, err)
		return
	}

	response := make([]documentResponse, 0, len(documents))
	for _, document := range documents {
		response = append(response, toDocumentResponse(document))
	}

	writeJSON(w, http.StatusOK, response)
}

// Download streams a document payload back to its owner.
func (h *Document) Download(w http.ResponseWriter, r *http.Request) {
	identityID, ok := h.contextManager.GetIdentityIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	documentID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid document id"})
		return
	}

	document, reader, err := h.documentService.Download(r.Context(), identityID, documentID)
	if err != nil {
		handleError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", document.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+document.Name+`"`)
	if document.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(document.Size, 10))
	}

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("Document handler: payload stream interrupted",
			"document_id", documentID,
			"error", err.Error())
	}
}

// Delete removes one of the caller's documents.
func (h *Document) Delete(w http.ResponseWriter, r *http.Request) {
	identityID, ok := h.contextManager.GetIdentityIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not authenticated"})
		return
	}

	documentID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid document id"})
		return
	}

	if err := h.documentService.Delete(r.Context(), identityID, documentID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
