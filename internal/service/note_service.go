package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"notebook-tree-be/internal/dto"
	"notebook-tree-be/internal/entity"
	"notebook-tree-be/internal/pkg/logger"
	"notebook-tree-be/internal/repository/contract"
	"notebook-tree-be/internal/repository/specification"
	"notebook-tree-be/internal/repository/unitofwork"
	"notebook-tree-be/pkg/cache"
	"notebook-tree-be/pkg/events"

	"github.com/google/uuid"
)

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID, id uuid.UUID) (*dto.ShowNoteResponse, error)
	ListByNotebook(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID) ([]*dto.NoteSummary, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID, id uuid.UUID) error
}

type noteService struct {
	uowFactory unitofwork.RepositoryFactory
	notifier   *lifecycleNotifier
	defaults   ContentDefaults
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	listingCache cache.ListingCache,
	logger logger.ILogger,
	defaults ContentDefaults,
) INoteService {
	return &noteService{
		uowFactory: uowFactory,
		notifier: &lifecycleNotifier{
			publisher:    publisherService,
			listingCache: listingCache,
			logger:       logger,
		},
		defaults: defaults,
	}
}

func (c *noteService) noteTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return c.defaults.NoteTitle
	}
	return title
}

func (c *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error) {
	ctx, span := tracer.Start(ctx, "NoteService.Create", withNotebook(req.NotebookId))
	defer span.End()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: req.NotebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, ErrNotebookNotFound
	}

	note := &entity.Note{
		Id:        uuid.New(),
		Title:     c.noteTitle(req.Title),
		Content:   req.Content,
		UserId:    userId,
		CreatedAt: time.Now(),
	}
	tree := entity.NewNotebookTree([]*entity.Notebook{notebook}, nil)
	if err := tree.AddNote(notebook.Id, note); err != nil {
		return nil, err
	}

	if err := uow.NoteRepository().Create(ctx, note); err != nil {
		if errors.Is(err, contract.ErrReferenceMissing) {
			return nil, ErrNotebookNotFound
		}
		return nil, err
	}

	c.notifier.committed(ctx, "NOTE", userId,
		events.NewLifecycleEvent(events.NoteCreated, userId, note.Id, map[string]interface{}{
			"notebook_id": notebook.Id.String(),
		}),
	)

	return &dto.CreateNoteResponse{
		Id: note.Id,
	}, nil
}

func (c *noteService) Show(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID, id uuid.UUID) (*dto.ShowNoteResponse, error) {
	ctx, span := tracer.Start(ctx, "NoteService.Show")
	defer span.End()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByNotebookID{NotebookID: notebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	breadcrumb, err := c.breadcrumb(ctx, uow, userId, note.NotebookId)
	if err != nil {
		return nil, err
	}

	return &dto.ShowNoteResponse{
		Id:         note.Id,
		Title:      note.Title,
		Content:    note.Content,
		NotebookId: note.NotebookId,
		Breadcrumb: breadcrumb,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	}, nil
}

// breadcrumb walks the parent chain upwards and returns it root first.
func (c *noteService) breadcrumb(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, notebookId uuid.UUID) ([]dto.BreadcrumbItem, error) {
	var chain []*entity.Notebook
	seen := make(map[uuid.UUID]struct{})
	next := &notebookId
	for next != nil {
		if _, loop := seen[*next]; loop {
			break
		}
		seen[*next] = struct{}{}

		nb, err := uow.NotebookRepository().FindOne(ctx,
			specification.ByID{ID: *next},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if nb == nil {
			break
		}
		chain = append(chain, nb)
		next = nb.ParentId
	}

	tree := entity.NewNotebookTree(chain, nil)
	path := tree.Path(notebookId)
	result := make([]dto.BreadcrumbItem, 0, len(path))
	for _, nb := range path {
		result = append(result, dto.BreadcrumbItem{Id: nb.Id, Name: nb.Name})
	}
	return result, nil
}

func (c *noteService) ListByNotebook(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID) ([]*dto.NoteSummary, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: notebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, ErrNotebookNotFound
	}

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByNotebookID{NotebookID: notebookId},
		oldestFirst,
	)
	if err != nil {
		return nil, err
	}
	return toNoteSummaries(notes), nil
}

func toNoteSummaries(notes []*entity.Note) []*dto.NoteSummary {
	result := make([]*dto.NoteSummary, 0, len(notes))
	for _, note := range notes {
		result = append(result, &dto.NoteSummary{
			Id:        note.Id,
			Title:     note.Title,
			CreatedAt: note.CreatedAt,
			UpdatedAt: note.UpdatedAt,
		})
	}
	return result
}

func (c *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.UpdateNoteResponse, error) {
	ctx, span := tracer.Start(ctx, "NoteService.Update")
	defer span.End()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.ByNotebookID{NotebookID: req.NotebookId},
		specification.UserOwnedBy{UserID: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	note.Title = c.noteTitle(req.Title)
	note.Content = req.Content
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	c.notifier.committed(ctx, "NOTE", userId,
		events.NewLifecycleEvent(events.NoteUpdated, userId, note.Id, map[string]interface{}{
			"notebook_id": note.NotebookId.String(),
		}),
	)

	return &dto.UpdateNoteResponse{
		Id: note.Id,
	}, nil
}

func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "NoteService.Delete")
	defer span.End()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByNotebookID{NotebookID: notebookId},
		specification.UserOwnedBy{UserID: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return err
	}
	if note == nil {
		return ErrNoteNotFound
	}

	if err := uow.NoteRepository().Delete(ctx, note.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	c.notifier.committed(ctx, "NOTE", userId,
		events.NewLifecycleEvent(events.NoteDeleted, userId, note.Id, map[string]interface{}{
			"notebook_id": notebookId.String(),
		}),
	)
	return nil
}
