package integration

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"notebook-tree-be/internal/dto"
	"notebook-tree-be/internal/entity"
	"notebook-tree-be/internal/pkg/logger"
	"notebook-tree-be/internal/repository/contract"
	"notebook-tree-be/internal/repository/specification"
	"notebook-tree-be/internal/repository/unitofwork"
	"notebook-tree-be/internal/service"
	"notebook-tree-be/pkg/cache"
	"notebook-tree-be/pkg/database"
	"notebook-tree-be/pkg/events"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type discardPublisher struct{}

func (discardPublisher) Publish(context.Context, events.Event) error { return nil }

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, nil))
	return db
}

func TestGormConnection(t *testing.T) {
	db := openDB(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	_, err = uow.NotebookRepository().Count(ctx)
	assert.NoError(t, err)
	_, err = uow.NoteRepository().Count(ctx)
	assert.NoError(t, err)
	_, err = uow.ActivityLogRepository().FindAll(ctx, specification.Pagination{Limit: 1})
	assert.NoError(t, err)
}

func TestForeignKeys(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	userId := uuid.New()

	orphan := &entity.Note{Id: uuid.New(), Title: "orphan", NotebookId: uuid.New(), UserId: userId, CreatedAt: time.Now()}
	err := uow.NoteRepository().Create(ctx, orphan)
	assert.ErrorIs(t, err, contract.ErrReferenceMissing)

	notebook := &entity.Notebook{Id: uuid.New(), Name: "held", UserId: userId, CreatedAt: time.Now()}
	require.NoError(t, uow.NotebookRepository().Create(ctx, notebook))
	note := &entity.Note{Id: uuid.New(), Title: "pin", NotebookId: notebook.Id, UserId: userId, CreatedAt: time.Now()}
	require.NoError(t, uow.NoteRepository().Create(ctx, note))

	err = uow.NotebookRepository().Delete(ctx, notebook.Id)
	assert.ErrorIs(t, err, contract.ErrStillReferenced)

	require.NoError(t, uow.NoteRepository().Delete(ctx, note.Id))
	require.NoError(t, uow.NotebookRepository().Delete(ctx, notebook.Id))
}

func newNotebookService(factory unitofwork.RepositoryFactory) service.INotebookService {
	return service.NewNotebookService(
		factory,
		discardPublisher{},
		cache.NewMemoryListingCache(time.Minute),
		logger.NewNopLogger(),
		service.DefaultContent(),
	)
}

func TestCascadingDelete(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(db)
	notebooks := newNotebookService(factory)
	userId := uuid.New()

	a, err := notebooks.Create(ctx, userId, &dto.CreateNotebookRequest{})
	require.NoError(t, err)
	b, err := notebooks.Create(ctx, userId, &dto.CreateNotebookRequest{ParentId: &a.Id})
	require.NoError(t, err)
	_, err = notebooks.Create(ctx, userId, &dto.CreateNotebookRequest{ParentId: &b.Id})
	require.NoError(t, err)

	resp, err := notebooks.Delete(ctx, userId, a.Id)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.NotebooksDeleted)
	assert.Equal(t, 3, resp.NotesDeleted)

	uow := factory.NewUnitOfWork(ctx)
	left, err := uow.NotebookRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	require.NoError(t, err)
	assert.Zero(t, left)
	left, err = uow.NoteRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestConcurrentCrossMoves(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	notebooks := newNotebookService(unitofwork.NewRepositoryFactory(db))
	userId := uuid.New()

	for round := 0; round < 20; round++ {
		x, err := notebooks.Create(ctx, userId, &dto.CreateNotebookRequest{})
		require.NoError(t, err)
		y, err := notebooks.Create(ctx, userId, &dto.CreateNotebookRequest{})
		require.NoError(t, err)

		requests := []*dto.MoveNotebookRequest{
			{Id: x.Id, ParentId: y.Id.String()},
			{Id: y.Id, ParentId: x.Id.String()},
		}
		errs := make([]error, len(requests))
		start := make(chan struct{})
		var wg sync.WaitGroup
		for i, req := range requests {
			wg.Add(1)
			go func(i int, req *dto.MoveNotebookRequest) {
				defer wg.Done()
				<-start
				_, errs[i] = notebooks.MoveNotebook(ctx, userId, req)
			}(i, req)
		}
		close(start)
		wg.Wait()

		failed := 0
		for _, err := range errs {
			if err != nil {
				failed++
				assert.ErrorIs(t, err, entity.ErrNotebookCycle)
			}
		}
		assert.Equal(t, 1, failed, "round %d", round)

		tree, err := notebooks.GetTree(ctx, userId)
		require.NoError(t, err)
		require.Len(t, tree, 1, "round %d", round)

		_, err = notebooks.Delete(ctx, userId, tree[0].Id)
		require.NoError(t, err)
	}
}
