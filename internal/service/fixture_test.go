package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"notebook-tree-be/internal/entity"
	"notebook-tree-be/internal/pkg/logger"
	"notebook-tree-be/internal/repository/contract"
	"notebook-tree-be/internal/repository/memory"
	"notebook-tree-be/internal/repository/specification"
	"notebook-tree-be/internal/repository/unitofwork"
	"notebook-tree-be/pkg/cache"
	"notebook-tree-be/pkg/events"

	"github.com/google/uuid"
)

var errInjected = errors.New("injected failure")

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type fixture struct {
	factory   unitofwork.RepositoryFactory
	publisher *recordingPublisher
	cache     *cache.MemoryListingCache
	notebooks INotebookService
	notes     INoteService
	home      IHomeService
	userId    uuid.UUID
}

func newFixture() *fixture {
	return newFixtureWith(memory.NewRepositoryFactory(memory.NewStore()))
}

func newFixtureWith(factory unitofwork.RepositoryFactory) *fixture {
	memoryCache := cache.NewMemoryListingCache(time.Minute)
	return newFixtureWithCache(factory, memoryCache, memoryCache)
}

// newFixtureWithCache hands listingCache to the services; backing is the
// memory cache underneath it, used for assertions.
func newFixtureWithCache(factory unitofwork.RepositoryFactory, listingCache cache.ListingCache, backing *cache.MemoryListingCache) *fixture {
	publisher := &recordingPublisher{}
	log := logger.NewNopLogger()
	defaults := DefaultContent()

	return &fixture{
		factory:   factory,
		publisher: publisher,
		cache:     backing,
		notebooks: NewNotebookService(factory, publisher, listingCache, log, defaults),
		notes:     NewNoteService(factory, publisher, listingCache, log, defaults),
		home:      NewHomeService(factory, publisher, listingCache, log, defaults),
		userId:    uuid.New(),
	}
}

func (f *fixture) findNotebook(id uuid.UUID) *entity.Notebook {
	ctx := context.Background()
	nb, err := f.factory.NewUnitOfWork(ctx).NotebookRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		panic(err)
	}
	return nb
}

func (f *fixture) findNote(id uuid.UUID) *entity.Note {
	ctx := context.Background()
	n, err := f.factory.NewUnitOfWork(ctx).NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		panic(err)
	}
	return n
}

func (f *fixture) counts() (notebooks, notes int64) {
	ctx := context.Background()
	uow := f.factory.NewUnitOfWork(ctx)
	notebooks, err := uow.NotebookRepository().Count(ctx)
	if err != nil {
		panic(err)
	}
	notes, err = uow.NoteRepository().Count(ctx)
	if err != nil {
		panic(err)
	}
	return notebooks, notes
}

// faultyFactory wraps a factory and breaks selected note operations.
type faultyFactory struct {
	inner        unitofwork.RepositoryFactory
	failDeleteAt int
	hideNotes    bool
	deletes      int
	treeLocks    atomic.Int32
}

func (f *faultyFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &faultyUnitOfWork{UnitOfWork: f.inner.NewUnitOfWork(ctx), factory: f}
}

type faultyUnitOfWork struct {
	unitofwork.UnitOfWork
	factory *faultyFactory
}

func (u *faultyUnitOfWork) NoteRepository() contract.NoteRepository {
	return &faultyNoteRepository{NoteRepository: u.UnitOfWork.NoteRepository(), factory: u.factory}
}

func (u *faultyUnitOfWork) NotebookRepository() contract.NotebookRepository {
	return &countingNotebookRepository{NotebookRepository: u.UnitOfWork.NotebookRepository(), factory: u.factory}
}

type countingNotebookRepository struct {
	contract.NotebookRepository
	factory *faultyFactory
}

func (r *countingNotebookRepository) LockTree(ctx context.Context, userId uuid.UUID) error {
	r.factory.treeLocks.Add(1)
	return r.NotebookRepository.LockTree(ctx, userId)
}

type faultyNoteRepository struct {
	contract.NoteRepository
	factory *faultyFactory
}

func (r *faultyNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.factory.deletes++
	if r.factory.deletes == r.factory.failDeleteAt {
		return errInjected
	}
	return r.NoteRepository.Delete(ctx, id)
}

func (r *faultyNoteRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	if r.factory.hideNotes {
		return nil, nil
	}
	return r.NoteRepository.FindAll(ctx, specs...)
}
