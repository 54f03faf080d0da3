package unitofwork

import (
	"context"

	"notebook-tree-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NotebookRepository() contract.NotebookRepository
	NoteRepository() contract.NoteRepository
	ActivityLogRepository() contract.ActivityLogRepository
}
