package specification

import (
	"fmt"

	"notebook-tree-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ByID filters by ID
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

func (s ByID) Matches(record interface{}) bool {
	id, ok := recordId(record)
	return ok && id == s.ID
}

// UserOwnedBy scopes a query to a single owner
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

func (s UserOwnedBy) Matches(record interface{}) bool {
	switch r := record.(type) {
	case *entity.Notebook:
		return r.UserId == s.UserID
	case *entity.Note:
		return r.UserId == s.UserID
	case *entity.ActivityLog:
		return r.UserId == s.UserID
	}
	return false
}

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// Pagination
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}

// ForUpdate locks the selected rows until the surrounding transaction ends.
type ForUpdate struct{}

func (s ForUpdate) Apply(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func recordId(record interface{}) (uuid.UUID, bool) {
	switch r := record.(type) {
	case *entity.Notebook:
		return r.Id, true
	case *entity.Note:
		return r.Id, true
	case *entity.ActivityLog:
		return r.Id, true
	}
	return uuid.Nil, false
}

func containsId(ids []uuid.UUID, target uuid.UUID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
