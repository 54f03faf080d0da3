package dto

import (
	"time"

	"github.com/google/uuid"
)

type ListActivityRequest struct {
	SubjectId string `query:"subject_id" validate:"omitempty,uuid"`
	EventType string `query:"event_type" validate:"omitempty,max=64"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=200"`
}

type ActivityResponse struct {
	Id        uuid.UUID              `json:"id"`
	EventType string                 `json:"event_type"`
	SubjectId uuid.UUID              `json:"subject_id"`
	Details   map[string]interface{} `json:"details"`
	CreatedAt time.Time              `json:"created_at"`
}
