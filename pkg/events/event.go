package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "AGENT_ACTION_DISPATCHED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// ActionDispatchedEventType is emitted once per dispatched booking action,
// success or failure. The task sink consumes it for persistence and
// notification; the pipeline never waits on it.
const ActionDispatchedEventType = "AGENT_ACTION_DISPATCHED"

// NewActionDispatchedEvent builds the event for one normalized action result.
func NewActionDispatchedEvent(userID, sessionID, intent string, success bool, message string) Event {
	return BaseEvent{
		Type: ActionDispatchedEventType,
		Data: map[string]interface{}{
			"user_id":    userID,
			"session_id": sessionID,
			"intent":     intent,
			"success":    success,
			"message":    message,
		},
		OccurredAt: time.Now(),
	}
}
