package bootstrap

import (
	"context"
	"time"

	"notebook-tree-be/internal/config"
	"notebook-tree-be/internal/controller"
	"notebook-tree-be/internal/pkg/logger"
	"notebook-tree-be/internal/repository/unitofwork"
	"notebook-tree-be/internal/service"
	"notebook-tree-be/pkg/cache"
	"notebook-tree-be/pkg/events"
	pktNats "notebook-tree-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	NotebookController controller.INotebookController
	NoteController     controller.INoteController
	HomeController     controller.IHomeController
	ActivityController controller.IActivityController

	// Services used outside HTTP (seed tool)
	NotebookService service.INotebookService
	NoteService     service.INoteService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(uowFactory unitofwork.RepositoryFactory, cfg *config.Config, sysLogger logger.ILogger) *Container {
	c := &Container{Logger: sysLogger}

	// 1. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 2. Infrastructure
	var forwarder events.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS unavailable, lifecycle events stay in-process", map[string]interface{}{"error": err})
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	listingCache := newListingCache(cfg, sysLogger, c)

	// 3. Services
	defaults := service.ContentDefaults{
		NotebookName: cfg.Notebook.DefaultNotebookName,
		NoteTitle:    cfg.Notebook.DefaultNoteTitle,
		NoteContent:  cfg.Notebook.DefaultNoteContent,
		UntitledName: cfg.Notebook.UntitledName,
	}
	publisherService := service.NewPublisherService(cfg.App.EventTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.EventTopic, uowFactory, forwarder, sysLogger)

	c.NotebookService = service.NewNotebookService(uowFactory, publisherService, listingCache, sysLogger, defaults)
	c.NoteService = service.NewNoteService(uowFactory, publisherService, listingCache, sysLogger, defaults)
	homeService := service.NewHomeService(uowFactory, publisherService, listingCache, sysLogger, defaults)
	activityService := service.NewActivityService(uowFactory)

	// 4. Controllers
	c.NotebookController = controller.NewNotebookController(c.NotebookService)
	c.NoteController = controller.NewNoteController(c.NoteService)
	c.HomeController = controller.NewHomeController(homeService)
	c.ActivityController = controller.NewActivityController(activityService)

	return c
}

func newListingCache(cfg *config.Config, sysLogger logger.ILogger, c *Container) cache.ListingCache {
	if cfg.App.RedisURL == "" {
		return cache.NewMemoryListingCache(cfg.Notebook.ListingCacheTTL)
	}

	rdb := cache.NewRedisClient(cfg.App.RedisURL)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		sysLogger.Warn("BOOTSTRAP", "Redis unavailable, caching listings in process", map[string]interface{}{"error": err})
		_ = rdb.Close()
		return cache.NewMemoryListingCache(cfg.Notebook.ListingCacheTTL)
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return cache.NewRedisListingCache(rdb, cfg.Notebook.ListingCacheTTL)
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
