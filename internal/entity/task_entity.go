package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Task is one persisted record of a dispatched booking action. The chat
// pipeline emits these through the event bus and never waits on the insert.
type Task struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId        uuid.UUID `gorm:"type:uuid;index"`
	ChatSessionId uuid.UUID `gorm:"type:uuid;index"`
	Intent        string
	Success       bool
	Message       string
	Payload       datatypes.JSON
	CreatedAt     time.Time
}
