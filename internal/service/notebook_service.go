package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notebook-tree-be/internal/dto"
	"notebook-tree-be/internal/entity"
	"notebook-tree-be/internal/pkg/logger"
	"notebook-tree-be/internal/repository/contract"
	"notebook-tree-be/internal/repository/specification"
	"notebook-tree-be/internal/repository/unitofwork"
	"notebook-tree-be/pkg/cache"
	"notebook-tree-be/pkg/events"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type INotebookService interface {
	GetTree(ctx context.Context, userId uuid.UUID) ([]*dto.NotebookTreeNode, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.CreateNotebookResponse, error)
	Detail(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NotebookDetailResponse, error)
	UpdateTitle(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookTitleRequest) (*dto.UpdateNotebookResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeleteNotebookResponse, error)
	MoveNotebook(ctx context.Context, userId uuid.UUID, req *dto.MoveNotebookRequest) (*dto.MoveNotebookResponse, error)
}

type notebookService struct {
	uowFactory unitofwork.RepositoryFactory
	notifier   *lifecycleNotifier
	logger     logger.ILogger
	defaults   ContentDefaults
}

func NewNotebookService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	listingCache cache.ListingCache,
	logger logger.ILogger,
	defaults ContentDefaults,
) INotebookService {
	return &notebookService{
		uowFactory: uowFactory,
		notifier: &lifecycleNotifier{
			publisher:    publisherService,
			listingCache: listingCache,
			logger:       logger,
		},
		logger:   logger,
		defaults: defaults,
	}
}

func (c *notebookService) GetTree(ctx context.Context, userId uuid.UUID) ([]*dto.NotebookTreeNode, error) {
	ctx, span := tracer.Start(ctx, "NotebookService.GetTree")
	defer span.End()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	tree, err := loadUserTree(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.NotebookTreeNode, 0)
	for _, root := range tree.Roots() {
		result = append(result, buildTreeNode(tree, root))
	}
	span.SetAttributes(attribute.Int("notebook.count", tree.Len()))
	return result, nil
}

func buildTreeNode(tree *entity.NotebookTree, nb *entity.Notebook) *dto.NotebookTreeNode {
	node := &dto.NotebookTreeNode{
		Id:        nb.Id,
		Name:      nb.Name,
		ParentId:  nb.ParentId,
		CreatedAt: nb.CreatedAt,
		UpdatedAt: nb.UpdatedAt,
		Notes:     make([]*dto.NotebookTreeNote, 0),
		Children:  make([]*dto.NotebookTreeNode, 0),
	}
	for _, note := range tree.Notes(nb.Id) {
		node.Notes = append(node.Notes, &dto.NotebookTreeNote{
			Id:        note.Id,
			Title:     note.Title,
			CreatedAt: note.CreatedAt,
			UpdatedAt: note.UpdatedAt,
		})
	}
	for _, child := range tree.Children(nb.Id) {
		node.Children = append(node.Children, buildTreeNode(tree, child))
	}
	return node
}

// Create makes a notebook holding one default note, either as a root or
// under req.ParentId.
func (c *notebookService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.CreateNotebookResponse, error) {
	ctx, span := tracer.Start(ctx, "NotebookService.Create")
	defer span.End()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	var parent *entity.Notebook
	if req != nil && req.ParentId != nil {
		var err error
		parent, err = uow.NotebookRepository().FindOne(ctx,
			specification.ByID{ID: *req.ParentId},
			specification.UserOwnedBy{UserID: userId},
			specification.ForUpdate{},
		)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrNotebookNotFound
		}
	}

	tree := entity.NewNotebookTree([]*entity.Notebook{parent}, nil)
	notebook := c.defaults.newNotebook(userId)
	tree.Insert(notebook)
	if parent != nil {
		if err := tree.AddChild(parent.Id, notebook.Id); err != nil {
			return nil, err
		}
	}
	note := c.defaults.newNote(userId)
	if err := tree.AddNote(notebook.Id, note); err != nil {
		return nil, err
	}

	if err := uow.NotebookRepository().Create(ctx, notebook); err != nil {
		if errors.Is(err, contract.ErrReferenceMissing) {
			return nil, ErrNotebookNotFound
		}
		return nil, err
	}
	if err := uow.NoteRepository().Create(ctx, note); err != nil {
		return nil, err
	}
	if parent != nil {
		if err := uow.NotebookRepository().Update(ctx, parent); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	details := map[string]interface{}{"name": notebook.Name}
	if parent != nil {
		details["parent_id"] = parent.Id.String()
	}
	c.notifier.committed(ctx, "NOTEBOOK", userId,
		events.NewLifecycleEvent(events.NotebookCreated, userId, notebook.Id, details),
		events.NewLifecycleEvent(events.NoteCreated, userId, note.Id, map[string]interface{}{"notebook_id": notebook.Id.String()}),
	)

	return &dto.CreateNotebookResponse{
		Id:     notebook.Id,
		NoteId: note.Id,
	}, nil
}

// Detail resolves the note a notebook opens on: its oldest note.
func (c *notebookService) Detail(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NotebookDetailResponse, error) {
	ctx, span := tracer.Start(ctx, "NotebookService.Detail", withNotebook(id))
	defer span.End()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, ErrNotebookNotFound
	}

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByNotebookID{NotebookID: notebook.Id},
		oldestFirst,
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	return &dto.NotebookDetailResponse{
		NotebookId: notebook.Id,
		NoteId:     note.Id,
		RedirectTo: fmt.Sprintf("/books/%s/notes/%s", notebook.Id, note.Id),
	}, nil
}

// UpdateTitle renames a notebook. A blank title stores the placeholder
// name instead.
func (c *notebookService) UpdateTitle(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookTitleRequest) (*dto.UpdateNotebookResponse, error) {
	ctx, span := tracer.Start(ctx, "NotebookService.UpdateTitle", withNotebook(req.Id))
	defer span.End()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, ErrNotebookNotFound
	}

	previous := notebook.Name
	notebook.Name = NormalizeNotebookTitle(req.Title, c.defaults.UntitledName)
	if err := uow.NotebookRepository().Update(ctx, notebook); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	c.notifier.committed(ctx, "NOTEBOOK", userId,
		events.NewLifecycleEvent(events.NotebookRenamed, userId, notebook.Id, map[string]interface{}{
			"previous_name": previous,
			"name":          notebook.Name,
		}),
	)

	return &dto.UpdateNotebookResponse{
		Id:   notebook.Id,
		Name: notebook.Name,
	}, nil
}

// Delete removes a notebook with all of its descendants and their notes in
// one transaction. Notes go before the notebook holding them and children
// before their parent.
func (c *notebookService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeleteNotebookResponse, error) {
	ctx, span := tracer.Start(ctx, "NotebookService.Delete", withNotebook(id))
	defer span.End()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, ErrNotebookNotFound
	}

	tree, err := loadSubtree(ctx, uow, notebook)
	if err != nil {
		return nil, err
	}
	steps, err := tree.CascadeOrder(notebook.Id)
	if err != nil {
		return nil, err
	}

	res := &dto.DeleteNotebookResponse{Id: notebook.Id}
	for _, step := range steps {
		switch step.Kind {
		case entity.CascadeNote:
			err = uow.NoteRepository().Delete(ctx, step.Id)
			res.NotesDeleted++
		case entity.CascadeNotebook:
			err = uow.NotebookRepository().Delete(ctx, step.Id)
			res.NotebooksDeleted++
		}
		if err != nil {
			c.logger.Error("NOTEBOOK", "Cascade delete failed, rolling back", map[string]interface{}{
				"notebook_id": notebook.Id.String(),
				"step":        step.Kind.String(),
				"step_id":     step.Id.String(),
				"error":       err,
			})
			return nil, fmt.Errorf("delete %s %s: %w", step.Kind, step.Id, err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("notebook.deleted", res.NotebooksDeleted),
		attribute.Int("note.deleted", res.NotesDeleted),
	)
	c.notifier.committed(ctx, "NOTEBOOK", userId,
		events.NewLifecycleEvent(events.NotebookDeleted, userId, notebook.Id, map[string]interface{}{
			"name":              notebook.Name,
			"notebooks_deleted": res.NotebooksDeleted,
			"notes_deleted":     res.NotesDeleted,
		}),
	)

	return res, nil
}

// MoveNotebook reparents a notebook, or makes it a root when ParentId is
// empty. Moving a notebook under itself or one of its descendants fails.
func (c *notebookService) MoveNotebook(ctx context.Context, userId uuid.UUID, req *dto.MoveNotebookRequest) (*dto.MoveNotebookResponse, error) {
	ctx, span := tracer.Start(ctx, "NotebookService.MoveNotebook", withNotebook(req.Id))
	defer span.End()

	var targetId *uuid.UUID
	if raw := strings.TrimSpace(req.ParentId); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrInvalidParentId
		}
		targetId = &parsed
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// moves for one owner run one at a time; the cycle check reads the whole tree
	if err := uow.NotebookRepository().LockTree(ctx, userId); err != nil {
		return nil, err
	}

	locked, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return nil, ErrNotebookNotFound
	}

	tree, err := loadUserTree(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	notebook, ok := tree.Notebook(req.Id)
	if !ok {
		return nil, ErrNotebookNotFound
	}
	previous := notebook.ParentId

	if targetId != nil {
		if _, ok := tree.Notebook(*targetId); !ok {
			return nil, ErrNotebookNotFound
		}
		if err := tree.AddChild(*targetId, notebook.Id); err != nil {
			return nil, err
		}
	} else if notebook.ParentId != nil {
		tree.RemoveChild(*notebook.ParentId, notebook.Id)
	}

	if err := uow.NotebookRepository().Update(ctx, notebook); err != nil {
		if errors.Is(err, contract.ErrReferenceMissing) {
			return nil, ErrNotebookNotFound
		}
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	details := map[string]interface{}{"parent_id": nil, "previous_parent_id": nil}
	if notebook.ParentId != nil {
		details["parent_id"] = notebook.ParentId.String()
	}
	if previous != nil {
		details["previous_parent_id"] = previous.String()
	}
	c.notifier.committed(ctx, "NOTEBOOK", userId,
		events.NewLifecycleEvent(events.NotebookMoved, userId, notebook.Id, details),
	)

	return &dto.MoveNotebookResponse{
		Id:       notebook.Id,
		ParentId: notebook.ParentId,
	}, nil
}
