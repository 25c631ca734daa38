package dto

import (
	"time"

	"github.com/google/uuid"
)

// IngestDocumentRequest carries pre-extracted text from the file-extraction
// collaborator. The text field is trusted as-is.
type IngestDocumentRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Name          string    `json:"name" validate:"required"`
	MimeType      string    `json:"mime_type" validate:"required"`
	Text          string    `json:"text" validate:"required"`
	Size          int       `json:"size" validate:"gte=0"`
}

type DocumentResponse struct {
	Name       string    `json:"name"`
	MimeType   string    `json:"mime_type"`
	ByteSize   int       `json:"byte_size"`
	IngestedAt time.Time `json:"ingested_at"`
}

type RemoveDocumentRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Name          string    `json:"name" validate:"required"`
}
