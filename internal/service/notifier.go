package service

import (
	"context"

	"notebook-tree-be/internal/pkg/logger"
	"notebook-tree-be/pkg/cache"
	"notebook-tree-be/pkg/events"

	"github.com/google/uuid"
)

// lifecycleNotifier runs the side effects of a committed change. Failures
// are logged; the change itself already happened.
type lifecycleNotifier struct {
	publisher    IPublisherService
	listingCache cache.ListingCache
	logger       logger.ILogger
}

func (n *lifecycleNotifier) committed(ctx context.Context, module string, userId uuid.UUID, evts ...events.Event) {
	if err := n.listingCache.Invalidate(ctx, userId); err != nil {
		n.logger.Warn(module, "Failed to invalidate listing cache", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err,
		})
	}

	if n.publisher == nil {
		return
	}
	for _, evt := range evts {
		if err := n.publisher.Publish(ctx, evt); err != nil {
			n.logger.Warn(module, "Failed to publish lifecycle event", map[string]interface{}{
				"event_type": evt.EventType(),
				"error":      err,
			})
		}
	}
}
