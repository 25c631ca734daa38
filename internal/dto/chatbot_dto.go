package dto

import (
	"github.com/google/uuid"

	"ai-concierge-be/pkg/booking"
)

type CreateSessionResponse struct {
	Id   uuid.UUID `json:"id"`
	Mode string    `json:"mode"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID `json:"id"`
	Mode      string    `json:"mode"`
	LastQuery string    `json:"last_query,omitempty"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Chat          string    `json:"chat" validate:"required"`
}

type SendChatResponse struct {
	ChatSessionId uuid.UUID             `json:"chat_session_id"`
	Reply         string                `json:"reply"`
	Mode          string                `json:"mode"`
	Intent        string                `json:"intent,omitempty"`
	ActionResult  *booking.ActionResult `json:"action_result,omitempty"`
}

type SetModeRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Mode          string    `json:"mode" validate:"required,oneof=GENERAL AGENT_BOOKING"`
}

type SetModeResponse struct {
	ChatSessionId uuid.UUID `json:"chat_session_id"`
	Mode          string    `json:"mode"`
}

type GetChatHistoryResponse struct {
	Role string `json:"role"`
	Chat string `json:"chat"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
}
