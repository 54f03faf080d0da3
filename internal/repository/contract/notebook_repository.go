package contract

import (
	"context"

	"notebook-tree-be/internal/entity"
	"notebook-tree-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NotebookRepository interface {
	Create(ctx context.Context, notebook *entity.Notebook) error
	Update(ctx context.Context, notebook *entity.Notebook) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// LockTree blocks other LockTree callers for the same owner until the
	// surrounding transaction ends.
	LockTree(ctx context.Context, userId uuid.UUID) error
}
