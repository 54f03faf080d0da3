package service

import (
	"context"

	"notebook-tree-be/internal/dto"
	"notebook-tree-be/internal/entity"
	"notebook-tree-be/internal/pkg/logger"
	"notebook-tree-be/internal/repository/specification"
	"notebook-tree-be/internal/repository/unitofwork"
	"notebook-tree-be/pkg/cache"
	"notebook-tree-be/pkg/events"

	"github.com/google/uuid"
)

// maxProvisionPasses bounds how often Home restarts after creating default
// content. An empty account takes three passes: notebook, note, listing.
const maxProvisionPasses = 4

type IHomeService interface {
	Home(ctx context.Context, userId uuid.UUID) (*dto.HomeResponse, error)
}

type homeService struct {
	uowFactory   unitofwork.RepositoryFactory
	listingCache cache.ListingCache
	notifier     *lifecycleNotifier
	logger       logger.ILogger
	defaults     ContentDefaults
}

func NewHomeService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	listingCache cache.ListingCache,
	logger logger.ILogger,
	defaults ContentDefaults,
) IHomeService {
	return &homeService{
		uowFactory:   uowFactory,
		listingCache: listingCache,
		notifier: &lifecycleNotifier{
			publisher:    publisherService,
			listingCache: listingCache,
			logger:       logger,
		},
		logger:   logger,
		defaults: defaults,
	}
}

// Home returns the landing listing. A user without notebooks first gets a
// root notebook, and a target notebook without notes gets a default note.
// Each of those steps commits on its own before the listing is rebuilt.
func (c *homeService) Home(ctx context.Context, userId uuid.UUID) (*dto.HomeResponse, error) {
	ctx, span := tracer.Start(ctx, "HomeService.Home")
	defer span.End()

	var cached dto.HomeResponse
	hit, err := c.listingCache.Get(ctx, userId, &cached)
	if err != nil {
		c.logger.Warn("HOME", "Listing cache read failed", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err,
		})
	}
	if hit {
		return &cached, nil
	}

	for pass := 0; pass < maxProvisionPasses; pass++ {
		// read before the listing so a change committed meanwhile wins
		generation, genErr := c.listingCache.Generation(ctx, userId)

		listing, restart, err := c.provision(ctx, userId)
		if err != nil {
			return nil, err
		}
		if restart {
			continue
		}

		if genErr != nil {
			c.logger.Warn("HOME", "Listing cache generation read failed", map[string]interface{}{
				"user_id": userId.String(),
				"error":   genErr,
			})
			return listing, nil
		}
		stored, err := c.listingCache.Set(ctx, userId, generation, listing)
		if err != nil {
			c.logger.Warn("HOME", "Listing cache write failed", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err,
			})
		} else if !stored {
			c.logger.Debug("HOME", "Listing changed while building, not cached", map[string]interface{}{
				"user_id": userId.String(),
			})
		}
		return listing, nil
	}

	return nil, ErrProvisioningIncomplete
}

// provision runs at most one creation phase. It reports restart when it
// created something, otherwise it returns the finished listing.
func (c *homeService) provision(ctx context.Context, userId uuid.UUID) (*dto.HomeResponse, bool, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}
	defer uow.Rollback()

	notebooks, err := uow.NotebookRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		oldestFirst,
	)
	if err != nil {
		return nil, false, err
	}

	if len(notebooks) == 0 {
		notebook := c.defaults.newNotebook(userId)
		if err := uow.NotebookRepository().Create(ctx, notebook); err != nil {
			return nil, false, err
		}
		if err := uow.Commit(); err != nil {
			return nil, false, err
		}
		c.logger.Info("HOME", "Provisioned default notebook", map[string]interface{}{
			"user_id":     userId.String(),
			"notebook_id": notebook.Id.String(),
		})
		c.notifier.committed(ctx, "HOME", userId,
			events.NewLifecycleEvent(events.NotebookCreated, userId, notebook.Id, map[string]interface{}{
				"name":        notebook.Name,
				"provisioned": true,
			}),
		)
		return nil, true, nil
	}

	target := notebooks[0]
	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByNotebookID{NotebookID: target.Id},
		oldestFirst,
	)
	if err != nil {
		return nil, false, err
	}

	if len(notes) == 0 {
		note := c.defaults.newNote(userId)
		tree := entity.NewNotebookTree([]*entity.Notebook{target}, nil)
		if err := tree.AddNote(target.Id, note); err != nil {
			return nil, false, err
		}
		if err := uow.NoteRepository().Create(ctx, note); err != nil {
			return nil, false, err
		}
		if err := uow.NotebookRepository().Update(ctx, target); err != nil {
			return nil, false, err
		}
		if err := uow.Commit(); err != nil {
			return nil, false, err
		}
		c.logger.Info("HOME", "Provisioned default note", map[string]interface{}{
			"user_id":     userId.String(),
			"notebook_id": target.Id.String(),
			"note_id":     note.Id.String(),
		})
		c.notifier.committed(ctx, "HOME", userId,
			events.NewLifecycleEvent(events.NoteCreated, userId, note.Id, map[string]interface{}{
				"notebook_id": target.Id.String(),
				"provisioned": true,
			}),
		)
		return nil, true, nil
	}

	if err := uow.Commit(); err != nil {
		return nil, false, err
	}

	listing := &dto.HomeResponse{
		NotebookList:   make([]*dto.HomeNotebook, 0, len(notebooks)),
		TargetNotebook: toHomeNotebook(target),
		NoteList:       toNoteSummaries(notes),
	}
	for _, nb := range notebooks {
		listing.NotebookList = append(listing.NotebookList, toHomeNotebook(nb))
	}
	listing.TargetNote = listing.NoteList[0]
	return listing, false, nil
}

func toHomeNotebook(nb *entity.Notebook) *dto.HomeNotebook {
	return &dto.HomeNotebook{
		Id:       nb.Id,
		Name:     nb.Name,
		ParentId: nb.ParentId,
	}
}
