package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"notebook-tree-be/internal/entity"
	"notebook-tree-be/internal/repository/contract"
	"notebook-tree-be/internal/repository/unitofwork"

	"github.com/patrickmn/go-cache"
)

// Store is an in-process replacement for the relational store, used by
// tests and by STORAGE_DRIVER=memory. Transactions are serialised by a
// single lock and roll back by restoring a snapshot. Uncommitted writes are
// visible to readers outside the transaction.
type Store struct {
	mu  sync.Mutex
	seq atomic.Int64

	notebooks  *table[*entity.Notebook]
	notes      *table[*entity.Note]
	activities *table[*entity.ActivityLog]
}

type snapshot struct {
	notebooks  map[string]cache.Item
	notes      map[string]cache.Item
	activities map[string]cache.Item
}

func NewStore() *Store {
	s := &Store{}
	s.notebooks = newTable(&s.seq, cloneNotebook, notebookField)
	s.notes = newTable(&s.seq, cloneNote, noteField)
	s.activities = newTable(&s.seq, cloneActivityLog, activityLogField)
	return s
}

func (s *Store) snapshot() *snapshot {
	return &snapshot{
		notebooks:  s.notebooks.snapshot(),
		notes:      s.notes.snapshot(),
		activities: s.activities.snapshot(),
	}
}

func (s *Store) restore(snap *snapshot) {
	s.notebooks.restore(snap.notebooks)
	s.notes.restore(snap.notes)
	s.activities.restore(snap.activities)
}

type RepositoryFactory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &RepositoryFactory{store: store}
}

func (f *RepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

type UnitOfWork struct {
	store *Store
	snap  *snapshot
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.snap != nil {
		return unitofwork.ErrTransactionStarted
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.mu.Lock()
	u.snap = u.store.snapshot()
	return nil
}

func (u *UnitOfWork) Commit() error {
	if u.snap == nil {
		return unitofwork.ErrNoTransaction
	}
	u.snap = nil
	u.store.mu.Unlock()
	return nil
}

func (u *UnitOfWork) Rollback() error {
	if u.snap == nil {
		return unitofwork.ErrNoTransaction
	}
	u.store.restore(u.snap)
	u.snap = nil
	u.store.mu.Unlock()
	return nil
}

// lockWrite serialises a write made outside a transaction with running
// transactions, so a rollback never discards it.
func (u *UnitOfWork) lockWrite() func() {
	if u.snap != nil {
		return func() {}
	}
	u.store.mu.Lock()
	return u.store.mu.Unlock
}

func (u *UnitOfWork) NotebookRepository() contract.NotebookRepository {
	return &notebookRepository{uow: u}
}

func (u *UnitOfWork) NoteRepository() contract.NoteRepository {
	return &noteRepository{uow: u}
}

func (u *UnitOfWork) ActivityLogRepository() contract.ActivityLogRepository {
	return &activityLogRepository{uow: u}
}
