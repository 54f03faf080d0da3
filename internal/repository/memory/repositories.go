package memory

import (
	"context"
	"time"

	"notebook-tree-be/internal/entity"
	"notebook-tree-be/internal/repository/contract"
	"notebook-tree-be/internal/repository/specification"

	"github.com/google/uuid"
)

type notebookRepository struct {
	uow *UnitOfWork
}

func (r *notebookRepository) Create(ctx context.Context, notebook *entity.Notebook) error {
	defer r.uow.lockWrite()()
	store := r.uow.store

	if notebook.ParentId != nil && !store.notebooks.has(*notebook.ParentId) {
		return contract.ErrReferenceMissing
	}
	if notebook.Id == uuid.Nil {
		notebook.Id = uuid.New()
	}
	now := time.Now()
	if notebook.CreatedAt.IsZero() {
		notebook.CreatedAt = now
	}
	if notebook.UpdatedAt == nil {
		notebook.UpdatedAt = &now
	}
	store.notebooks.put(notebook.Id, notebook)
	return nil
}

func (r *notebookRepository) Update(ctx context.Context, notebook *entity.Notebook) error {
	defer r.uow.lockWrite()()
	store := r.uow.store

	if notebook.ParentId != nil && !store.notebooks.has(*notebook.ParentId) {
		return contract.ErrReferenceMissing
	}
	now := time.Now()
	notebook.UpdatedAt = &now
	store.notebooks.put(notebook.Id, notebook)
	return nil
}

func (r *notebookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.uow.lockWrite()()
	store := r.uow.store

	if !store.notebooks.has(id) {
		return nil
	}
	notes, err := store.notes.query(specification.ByNotebookID{NotebookID: id}, specification.Pagination{Limit: 1})
	if err != nil {
		return err
	}
	children, err := store.notebooks.query(specification.ByParentID{ParentID: &id}, specification.Pagination{Limit: 1})
	if err != nil {
		return err
	}
	if len(notes) > 0 || len(children) > 0 {
		return contract.ErrStillReferenced
	}
	store.notebooks.remove(id)
	return nil
}

func (r *notebookRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error) {
	found, err := r.uow.store.notebooks.query(append(specs, specification.Pagination{Limit: 1})...)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (r *notebookRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error) {
	return r.uow.store.notebooks.query(specs...)
}

func (r *notebookRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, err := r.uow.store.notebooks.query(specs...)
	return int64(len(found)), err
}

// LockTree is a no-op: transactions already hold the store lock.
func (r *notebookRepository) LockTree(ctx context.Context, userId uuid.UUID) error {
	return nil
}

type noteRepository struct {
	uow *UnitOfWork
}

func (r *noteRepository) Create(ctx context.Context, note *entity.Note) error {
	defer r.uow.lockWrite()()
	store := r.uow.store

	if !store.notebooks.has(note.NotebookId) {
		return contract.ErrReferenceMissing
	}
	if note.Id == uuid.Nil {
		note.Id = uuid.New()
	}
	now := time.Now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	if note.UpdatedAt == nil {
		note.UpdatedAt = &now
	}
	store.notes.put(note.Id, note)
	return nil
}

func (r *noteRepository) Update(ctx context.Context, note *entity.Note) error {
	defer r.uow.lockWrite()()
	store := r.uow.store

	if !store.notebooks.has(note.NotebookId) {
		return contract.ErrReferenceMissing
	}
	now := time.Now()
	note.UpdatedAt = &now
	store.notes.put(note.Id, note)
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.uow.lockWrite()()
	r.uow.store.notes.remove(id)
	return nil
}

func (r *noteRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	found, err := r.uow.store.notes.query(append(specs, specification.Pagination{Limit: 1})...)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (r *noteRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	return r.uow.store.notes.query(specs...)
}

func (r *noteRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, err := r.uow.store.notes.query(specs...)
	return int64(len(found)), err
}

type activityLogRepository struct {
	uow *UnitOfWork
}

func (r *activityLogRepository) Create(ctx context.Context, log *entity.ActivityLog) error {
	defer r.uow.lockWrite()()
	if log.Id == uuid.Nil {
		log.Id = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	r.uow.store.activities.put(log.Id, log)
	return nil
}

func (r *activityLogRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ActivityLog, error) {
	return r.uow.store.activities.query(specs...)
}

func cloneNotebook(n *entity.Notebook) *entity.Notebook {
	c := *n
	if n.ParentId != nil {
		pid := *n.ParentId
		c.ParentId = &pid
	}
	if n.UpdatedAt != nil {
		at := *n.UpdatedAt
		c.UpdatedAt = &at
	}
	return &c
}

func cloneNote(n *entity.Note) *entity.Note {
	c := *n
	if n.UpdatedAt != nil {
		at := *n.UpdatedAt
		c.UpdatedAt = &at
	}
	return &c
}

func cloneActivityLog(a *entity.ActivityLog) *entity.ActivityLog {
	c := *a
	if a.Details != nil {
		c.Details = make(map[string]interface{}, len(a.Details))
		for k, v := range a.Details {
			c.Details[k] = v
		}
	}
	return &c
}

func notebookField(n *entity.Notebook, field string) (interface{}, bool) {
	switch field {
	case "created_at":
		return n.CreatedAt, true
	case "name":
		return n.Name, true
	}
	return nil, false
}

func noteField(n *entity.Note, field string) (interface{}, bool) {
	switch field {
	case "created_at":
		return n.CreatedAt, true
	case "title":
		return n.Title, true
	}
	return nil, false
}

func activityLogField(a *entity.ActivityLog, field string) (interface{}, bool) {
	if field == "created_at" {
		return a.CreatedAt, true
	}
	return nil, false
}
