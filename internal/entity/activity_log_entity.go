package entity

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is the persisted trace of a notebook or note lifecycle event.
type ActivityLog struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	EventType string
	SubjectId uuid.UUID
	Details   map[string]interface{}
	CreatedAt time.Time
}
