package store

import "time"

// Document represents one uploaded document owned by a chat session.
// The text arrives pre-extracted from the upload collaborator; it is trusted as-is.
// Documents are immutable: re-uploading under the same name replaces the instance.
type Document struct {
	Name       string    `json:"name"` // unique key within the session
	MimeType   string    `json:"mime_type"`
	RawText    string    `json:"raw_text"`
	ByteSize   int       `json:"byte_size"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Session represents the active conversation state in memory
type Session struct {
	ID     string `json:"id"` // ChatSessionID
	UserID string `json:"user_id"`
	Mode   string `json:"mode"` // "GENERAL" | "AGENT_BOOKING"

	// Running chat history for the conversational path
	History []ChatTurn `json:"history"`

	// Metadata for last interaction
	LastQuery string `json:"last_query"`
}

// ChatTurn is one entry of the running history
type ChatTurn struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// Conversation modes. The mode is a flag toggled by an explicit user action,
// never switched automatically and never split into sub-states.
const (
	ModeGeneral      = "GENERAL"
	ModeAgentBooking = "AGENT_BOOKING"
)
