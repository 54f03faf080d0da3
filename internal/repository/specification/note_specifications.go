package specification

import (
	"notebook-tree-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByNotebookID struct {
	NotebookID uuid.UUID
}

func (s ByNotebookID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notebook_id = ?", s.NotebookID)
}

func (s ByNotebookID) Matches(record interface{}) bool {
	n, ok := record.(*entity.Note)
	return ok && n.NotebookId == s.NotebookID
}

type ByNotebookIDs struct {
	NotebookIDs []uuid.UUID
}

func (s ByNotebookIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notebook_id IN ?", s.NotebookIDs)
}

func (s ByNotebookIDs) Matches(record interface{}) bool {
	n, ok := record.(*entity.Note)
	return ok && containsId(s.NotebookIDs, n.NotebookId)
}
