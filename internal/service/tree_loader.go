package service

import (
	"context"

	"notebook-tree-be/internal/entity"
	"notebook-tree-be/internal/repository/specification"
	"notebook-tree-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var oldestFirst = specification.OrderBy{Field: "created_at"}

// loadUserTree loads every notebook and note the user owns.
func loadUserTree(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.NotebookTree, error) {
	notebooks, err := uow.NotebookRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		oldestFirst,
	)
	if err != nil {
		return nil, err
	}

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		oldestFirst,
	)
	if err != nil {
		return nil, err
	}

	return entity.NewNotebookTree(notebooks, notes), nil
}

// loadSubtree loads root, all of its descendants and every note they hold,
// one level per query.
func loadSubtree(ctx context.Context, uow unitofwork.UnitOfWork, root *entity.Notebook) (*entity.NotebookTree, error) {
	notebooks := []*entity.Notebook{root}
	seen := map[uuid.UUID]struct{}{root.Id: {}}
	frontier := []uuid.UUID{root.Id}

	for len(frontier) > 0 {
		children, err := uow.NotebookRepository().FindAll(ctx,
			specification.ByParentIDs{ParentIDs: frontier},
			oldestFirst,
		)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0:0]
		for _, child := range children {
			if _, dup := seen[child.Id]; dup {
				continue
			}
			seen[child.Id] = struct{}{}
			notebooks = append(notebooks, child)
			frontier = append(frontier, child.Id)
		}
	}

	ids := make([]uuid.UUID, 0, len(notebooks))
	for _, nb := range notebooks {
		ids = append(ids, nb.Id)
	}
	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByNotebookIDs{NotebookIDs: ids},
		oldestFirst,
	)
	if err != nil {
		return nil, err
	}

	return entity.NewNotebookTree(notebooks, notes), nil
}
