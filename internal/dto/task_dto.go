package dto

import (
	"time"

	"github.com/google/uuid"

	"ai-concierge-be/pkg/booking"
)

// PublishActionResultMessage is the payload published on the action-result
// topic after a booking action is dispatched. The consumer persists it and
// notifies the user.
type PublishActionResultMessage struct {
	UserId        uuid.UUID             `json:"user_id"`
	ChatSessionId uuid.UUID             `json:"chat_session_id"`
	Intent        string                `json:"intent"`
	Result        *booking.ActionResult `json:"result"`
}

// TaskResponse is one persisted action result, as shown in the task list.
type TaskResponse struct {
	Id        uuid.UUID   `json:"id"`
	SessionId uuid.UUID   `json:"session_id"`
	Intent    string      `json:"intent"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Payload   interface{} `json:"payload,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
