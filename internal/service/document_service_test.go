package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/pkg/serverutils"
	"ai-concierge-be/internal/repository/memory"
	"ai-concierge-be/pkg/store"
)

func newDocumentFixture(t *testing.T) (IDocumentService, uuid.UUID, uuid.UUID) {
	t.Helper()
	sessionRepo := memory.NewSessionRepository()
	userId := uuid.New()
	sessionId := uuid.New()
	sessionRepo.Save(&store.Session{
		ID:     sessionId.String(),
		UserID: userId.String(),
		Mode:   store.ModeGeneral,
	})
	return NewDocumentService(sessionRepo, memory.NewDocumentRepository()), userId, sessionId
}

func TestDocumentIngestListRemove(t *testing.T) {
	svc, userId, sessionId := newDocumentFixture(t)
	ctx := context.Background()

	res, err := svc.Ingest(ctx, userId, &dto.IngestDocumentRequest{
		ChatSessionId: sessionId,
		Name:          "notes.txt",
		MimeType:      "text/plain",
		Text:          "The meeting is on Tuesday.",
		Size:          26,
	})
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", res.Name)
	assert.False(t, res.IngestedAt.IsZero())

	docs, err := svc.List(ctx, userId, sessionId)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 26, docs[0].ByteSize)

	err = svc.Remove(ctx, userId, &dto.RemoveDocumentRequest{
		ChatSessionId: sessionId,
		Name:          "notes.txt",
	})
	require.NoError(t, err)

	docs, err = svc.List(ctx, userId, sessionId)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentRemoveMissingReturnsNotFound(t *testing.T) {
	svc, userId, sessionId := newDocumentFixture(t)

	err := svc.Remove(context.Background(), userId, &dto.RemoveDocumentRequest{
		ChatSessionId: sessionId,
		Name:          "absent.txt",
	})
	var apiErr *serverutils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Code)
}

func TestDocumentOwnershipEnforced(t *testing.T) {
	svc, _, sessionId := newDocumentFixture(t)

	_, err := svc.List(context.Background(), uuid.New(), sessionId)
	var apiErr *serverutils.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Code)
}
