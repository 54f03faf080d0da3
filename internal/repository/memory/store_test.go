package memory

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"notebook-tree-be/internal/entity"
	"notebook-tree-be/internal/repository/contract"
	"notebook-tree-be/internal/repository/specification"
	"notebook-tree-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RollbackRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	factory := NewRepositoryFactory(NewStore())
	userId := uuid.New()

	setup := factory.NewUnitOfWork(ctx)
	kept := &entity.Notebook{Id: uuid.New(), Name: "kept", UserId: userId}
	require.NoError(t, setup.NotebookRepository().Create(ctx, kept))

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.NotebookRepository().Create(ctx, &entity.Notebook{Id: uuid.New(), Name: "discarded", UserId: userId}))
	require.NoError(t, uow.NotebookRepository().Delete(ctx, kept.Id))
	require.NoError(t, uow.Rollback())

	all, err := factory.NewUnitOfWork(ctx).NotebookRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "kept", all[0].Name)
}

func TestStore_ReadsDuringRollbackSeeCommittedRows(t *testing.T) {
	ctx := context.Background()
	factory := NewRepositoryFactory(NewStore())
	userId := uuid.New()

	kept := &entity.Notebook{Id: uuid.New(), Name: "kept", UserId: userId}
	require.NoError(t, factory.NewUnitOfWork(ctx).NotebookRepository().Create(ctx, kept))

	var done atomic.Bool
	go func() {
		defer done.Store(true)
		for i := 0; i < 500; i++ {
			uow := factory.NewUnitOfWork(ctx)
			if err := uow.Begin(ctx); err != nil {
				return
			}
			_ = uow.NotebookRepository().Create(ctx, &entity.Notebook{Id: uuid.New(), Name: "discarded", UserId: userId})
			_ = uow.Rollback()
		}
	}()

	reader := factory.NewUnitOfWork(ctx).NotebookRepository()
	for !done.Load() {
		found, err := reader.FindOne(ctx, specification.ByID{ID: kept.Id})
		require.NoError(t, err)
		require.NotNil(t, found, "committed notebook vanished while a rollback ran")
	}

	count, err := reader.Count(ctx, specification.UserOwnedBy{UserID: userId})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestStore_CommitKeepsWrites(t *testing.T) {
	ctx := context.Background()
	factory := NewRepositoryFactory(NewStore())

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	nb := &entity.Notebook{Id: uuid.New(), Name: "a"}
	require.NoError(t, uow.NotebookRepository().Create(ctx, nb))
	require.NoError(t, uow.Commit())

	assert.ErrorIs(t, uow.Rollback(), unitofwork.ErrNoTransaction)
	assert.ErrorIs(t, uow.Commit(), unitofwork.ErrNoTransaction)

	found, err := factory.NewUnitOfWork(ctx).NotebookRepository().FindOne(ctx, specification.ByID{ID: nb.Id})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "a", found.Name)
}

func TestStore_BeginTwice(t *testing.T) {
	ctx := context.Background()
	uow := NewRepositoryFactory(NewStore()).NewUnitOfWork(ctx)

	require.NoError(t, uow.Begin(ctx))
	assert.ErrorIs(t, uow.Begin(ctx), unitofwork.ErrTransactionStarted)
	require.NoError(t, uow.Rollback())
}

func TestStore_ReferentialChecks(t *testing.T) {
	ctx := context.Background()
	uow := NewRepositoryFactory(NewStore()).NewUnitOfWork(ctx)

	missing := uuid.New()
	err := uow.NotebookRepository().Create(ctx, &entity.Notebook{Id: uuid.New(), ParentId: &missing})
	assert.ErrorIs(t, err, contract.ErrReferenceMissing)

	err = uow.NoteRepository().Create(ctx, &entity.Note{Id: uuid.New(), NotebookId: missing})
	assert.ErrorIs(t, err, contract.ErrReferenceMissing)

	parent := &entity.Notebook{Id: uuid.New(), Name: "parent"}
	require.NoError(t, uow.NotebookRepository().Create(ctx, parent))
	pid := parent.Id
	child := &entity.Notebook{Id: uuid.New(), Name: "child", ParentId: &pid}
	require.NoError(t, uow.NotebookRepository().Create(ctx, child))
	note := &entity.Note{Id: uuid.New(), NotebookId: child.Id}
	require.NoError(t, uow.NoteRepository().Create(ctx, note))

	assert.ErrorIs(t, uow.NotebookRepository().Delete(ctx, parent.Id), contract.ErrStillReferenced)
	assert.ErrorIs(t, uow.NotebookRepository().Delete(ctx, child.Id), contract.ErrStillReferenced)

	require.NoError(t, uow.NoteRepository().Delete(ctx, note.Id))
	require.NoError(t, uow.NotebookRepository().Delete(ctx, child.Id))
	require.NoError(t, uow.NotebookRepository().Delete(ctx, parent.Id))
}

func TestStore_QueryOrderingAndPaging(t *testing.T) {
	ctx := context.Background()
	uow := NewRepositoryFactory(NewStore()).NewUnitOfWork(ctx)
	userId := uuid.New()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	names := []string{"c", "a", "b"}
	for i, name := range names {
		require.NoError(t, uow.NotebookRepository().Create(ctx, &entity.Notebook{
			Id:        uuid.New(),
			Name:      name,
			UserId:    userId,
			CreatedAt: base.Add(time.Duration(len(names)-i) * time.Minute),
		}))
	}
	require.NoError(t, uow.NotebookRepository().Create(ctx, &entity.Notebook{Id: uuid.New(), Name: "other", UserId: uuid.New()}))

	byCreated, err := uow.NotebookRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at"},
	)
	require.NoError(t, err)
	require.Len(t, byCreated, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{byCreated[0].Name, byCreated[1].Name, byCreated[2].Name})

	page, err := uow.NotebookRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "name", Desc: true},
		specification.Pagination{Limit: 2, Offset: 1},
	)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].Name)
	assert.Equal(t, "a", page[1].Name)

	count, err := uow.NotebookRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	_, err = uow.NotebookRepository().FindAll(ctx, specification.OrderBy{Field: "nope"})
	assert.ErrorIs(t, err, ErrUnsupportedSpecification)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	uow := NewRepositoryFactory(NewStore()).NewUnitOfWork(ctx)

	nb := &entity.Notebook{Id: uuid.New(), Name: "original"}
	require.NoError(t, uow.NotebookRepository().Create(ctx, nb))
	nb.Name = "mutated after create"

	found, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: nb.Id})
	require.NoError(t, err)
	found.Name = "mutated after read"

	again, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: nb.Id})
	require.NoError(t, err)
	assert.Equal(t, "original", again.Name)
}
