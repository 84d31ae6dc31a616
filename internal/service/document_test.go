package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/migraplan/portal-server/internal/logger"
	"github.com/migraplan/portal-server/internal/mocks"
	"github.com/migraplan/portal-server/internal/model"
)

func TestDocument_Upload_Success(t *testing.T) {
	ctx := context.Background()
	documentStore := &mocks.DocumentStore{}
	clientStore := &mocks.ClientStore{}
	storage := &mocks.Storage{}

	identityID := uuid.New()
	clientID := uuid.New()
	payload := strings.NewReader("passport scan")

	clientStore.On("GetByIdentityID", mock.Anything, identityID).
		Return(model.Client{ID: clientID, IdentityID: identityID}, nil)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "documents/"+clientID.String()+"/")
	}), payload).Return(nil)
	documentStore.On("Create", mock.Anything, mock.MatchedBy(func(d model.Document) bool {
		return d.ClientID == clientID && d.Name == "passport.pdf" && d.Size == 13
	})).Return(model.Document{ID: uuid.New(), ClientID: clientID, Name: "passport.pdf"}, nil)

	s := NewDocument(documentStore, clientStore, storage, logger.New(0))

	saved, err := s.Upload(ctx, identityID, "passport.pdf", "application/pdf", 13, payload)
	require.NoError(t, err)
	assert.Equal(t, clientID, saved.ClientID)
}

func TestDocument_Upload_MetadataFailureAfterUpload(t *testing.T) {
	ctx := context.Background()
	documentStore := &mocks.DocumentStore{}
	clientStore := &mocks.ClientStore{}
	storage := &mocks.Storage{}

	identityID := uuid.New()
	clientStore.On("GetByIdentityID", mock.Anything, identityID).
		Return(model.Client{ID: uuid.New()}, nil)
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	documentStore.On("Create", mock.Anything, mock.Anything).
		Return(model.Document{}, assert.AnError)

	s := NewDocument(documentStore, clientStore, storage, logger.New(0))

	_, err := s.Upload(ctx, identityID, "passport.pdf", "application/pdf", 13, strings.NewReader("x"))
	require.Error(t, err)
}

func TestDocument_Download_OtherClientsDocumentNotFound(t *testing.T) {
	ctx := context.Background()
	documentStore := &mocks.DocumentStore{}
	clientStore := &mocks.ClientStore{}
	storage := &mocks.Storage{}

	identityID := uuid.New()
	documentID := uuid.New()

	clientStore.On("GetByIdentityID", mock.Anything, identityID).
		Return(model.Client{ID: uuid.New()}, nil)
	documentStore.On("GetByID", mock.Anything, documentID).
		Return(model.Document{ID: documentID, ClientID: uuid.New()}, nil)

	s := NewDocument(documentStore, clientStore, storage, logger.New(0))

	_, _, err := s.Download(ctx, identityID, documentID)
	require.ErrorIs(t, err, model.ErrNotFound)

	storage.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)
}

func TestDocument_Download_Success(t *testing.T) {
	ctx := context.Background()
	documentStore := &mocks.DocumentStore{}
	clientStore := &mocks.ClientStore{}
	storage := &mocks.Storage{}

	identityID := uuid.New()
	clientID := uuid.New()
	documentID := uuid.New()

	clientStore.On("GetByIdentityID", mock.Anything, identityID).
		Return(model.Client{ID: clientID}, nil)
	documentStore.On("GetByID", mock.Anything, documentID).
		Return(model.Document{ID: documentID, ClientID: clientID, S3Key: "documents/key"}, nil)
	storage.On("Download", mock.Anything, "documents/key").
		Return(io.NopCloser(strings.NewReader("payload")), nil)

	s := NewDocument(documentStore, clientStore, storage, logger.New(0))

	document, reader, err := s.Download(ctx, identityID, documentID)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, documentID, document.ID)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestDocument_Delete_Success(t *testing.T) {
	ctx := context.Background()
	documentStore := &mocks.DocumentStore{}
	clientStore := &mocks.ClientStore{}
	storage := &mocks.Storage{}

	identityID := uuid.New()
	clientID := uuid.New()
	documentID := uuid.New()

	clientStore.On("GetByIdentityID", mock.Anything, identityID).
		Return(model.Client{ID: clientID}, nil)
	documentStore.On("GetByID", mock.Anything, documentID).
		Return(model.Document{ID: documentID, ClientID: clientID, S3Key: "documents/key"}, nil)
	storage.On("Delete", mock.Anything, "documents/key").Return(nil)
	documentStore.On("SoftDelete", mock.Anything, documentID).Return(nil)

	s := NewDocument(documentStore, clientStore, storage, logger.New(0))

	require.NoError(t, s.Delete(ctx, identityID, documentID))
	documentStore.AssertExpectations(t)
	storage.AssertExpectations(t)
}
