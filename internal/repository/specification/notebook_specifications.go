package specification

import (
	"notebook-tree-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByParentID struct {
	ParentID *uuid.UUID
}

func (s ByParentID) Apply(db *gorm.DB) *gorm.DB {
	if s.ParentID == nil {
		return db.Where("parent_id IS NULL")
	}
	return db.Where("parent_id = ?", s.ParentID)
}

func (s ByParentID) Matches(record interface{}) bool {
	nb, ok := record.(*entity.Notebook)
	if !ok {
		return false
	}
	if s.ParentID == nil {
		return nb.IsRoot()
	}
	return nb.ParentId != nil && *nb.ParentId == *s.ParentID
}

// ByParentIDs selects the direct children of any of the given notebooks.
type ByParentIDs struct {
	ParentIDs []uuid.UUID
}

func (s ByParentIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("parent_id IN ?", s.ParentIDs)
}

func (s ByParentIDs) Matches(record interface{}) bool {
	nb, ok := record.(*entity.Notebook)
	return ok && nb.ParentId != nil && containsId(s.ParentIDs, *nb.ParentId)
}
