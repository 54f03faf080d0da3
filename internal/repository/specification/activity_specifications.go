package specification

import (
	"notebook-tree-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySubjectID struct {
	SubjectID uuid.UUID
}

func (s BySubjectID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("subject_id = ?", s.SubjectID)
}

func (s BySubjectID) Matches(record interface{}) bool {
	a, ok := record.(*entity.ActivityLog)
	return ok && a.SubjectId == s.SubjectID
}

type ByEventType struct {
	EventType string
}

func (s ByEventType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("event_type = ?", s.EventType)
}

func (s ByEventType) Matches(record interface{}) bool {
	a, ok := record.(*entity.ActivityLog)
	return ok && a.EventType == s.EventType
}
