package service

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/pkg/serverutils"
	"ai-concierge-be/internal/repository/memory"
	"ai-concierge-be/pkg/store"
)

// IDocumentService manages the per-session document set used for grounding.
type IDocumentService interface {
	Ingest(ctx context.Context, userId uuid.UUID, request *dto.IngestDocumentRequest) (*dto.DocumentResponse, error)
	List(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.DocumentResponse, error)
	Remove(ctx context.Context, userId uuid.UUID, request *dto.RemoveDocumentRequest) error
}

type documentService struct {
	sessionRepo  *memory.SessionRepository
	documentRepo *memory.DocumentRepository
}

func NewDocumentService(sessionRepo *memory.SessionRepository, documentRepo *memory.DocumentRepository) IDocumentService {
	return &documentService{
		sessionRepo:  sessionRepo,
		documentRepo: documentRepo,
	}
}

// Ingest stores pre-extracted document text. Re-uploading under the same
// name replaces the previous instance.
func (ds *documentService) Ingest(ctx context.Context, userId uuid.UUID, request *dto.IngestDocumentRequest) (*dto.DocumentResponse, error) {
	if err := ds.verifyOwnership(request.ChatSessionId, userId); err != nil {
		return nil, err
	}

	doc := store.Document{
		Name:       request.Name,
		MimeType:   request.MimeType,
		RawText:    request.Text,
		ByteSize:   request.Size,
		IngestedAt: time.Now(),
	}
	ds.documentRepo.Upsert(request.ChatSessionId.String(), doc)

	return &dto.DocumentResponse{
		Name:       doc.Name,
		MimeType:   doc.MimeType,
		ByteSize:   doc.ByteSize,
		IngestedAt: doc.IngestedAt,
	}, nil
}

// List returns the session's documents without their raw text.
func (ds *documentService) List(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.DocumentResponse, error) {
	if err := ds.verifyOwnership(sessionId, userId); err != nil {
		return nil, err
	}

	docs := ds.documentRepo.Snapshot(sessionId.String())
	response := make([]*dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		response = append(response, &dto.DocumentResponse{
			Name:       doc.Name,
			MimeType:   doc.MimeType,
			ByteSize:   doc.ByteSize,
			IngestedAt: doc.IngestedAt,
		})
	}
	return response, nil
}

// Remove deletes one document by name.
func (ds *documentService) Remove(ctx context.Context, userId uuid.UUID, request *dto.RemoveDocumentRequest) error {
	if err := ds.verifyOwnership(request.ChatSessionId, userId); err != nil {
		return err
	}

	if !ds.documentRepo.Remove(request.ChatSessionId.String(), request.Name) {
		return serverutils.NewApiError(fiber.StatusNotFound, "Document not found")
	}
	return nil
}

func (ds *documentService) verifyOwnership(sessionId uuid.UUID, userId uuid.UUID) error {
	session, found := ds.sessionRepo.Get(sessionId.String())
	if !found || session.UserID != userId.String() {
		return serverutils.NewApiError(fiber.StatusNotFound, "Session not found or access denied")
	}
	return nil
}
