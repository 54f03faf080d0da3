package service

import (
	"context"
	"encoding/json"

	"notebook-tree-be/internal/entity"
	"notebook-tree-be/internal/pkg/logger"
	"notebook-tree-be/internal/repository/unitofwork"
	"notebook-tree-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService records lifecycle events in the activity log and relays
// them to an external bus when one is configured.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	forwarder  events.Publisher
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	forwarder events.Publisher,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		forwarder:  forwarder,
		logger:     logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// malformed messages are acked so they are not redelivered forever
	defer msg.Ack()

	var event events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("CONSUMER", "Failed to decode lifecycle event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err,
		})
		return
	}

	userId, subjectId, ok := events.LifecycleIds(event)
	if !ok {
		cs.logger.Warn("CONSUMER", "Lifecycle event without ids", map[string]interface{}{
			"message_id": msg.UUID,
			"event_type": event.Type,
		})
		return
	}

	details := make(map[string]interface{}, len(event.Data))
	for k, v := range event.Data {
		if k == events.KeyUserId || k == events.KeySubjectId {
			continue
		}
		details[k] = v
	}

	activity := &entity.ActivityLog{
		Id:        uuid.New(),
		UserId:    userId,
		EventType: event.Type,
		SubjectId: subjectId,
		Details:   details,
		CreatedAt: event.OccurredAt,
	}
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ActivityLogRepository().Create(ctx, activity); err != nil {
		cs.logger.Error("CONSUMER", "Failed to record activity", map[string]interface{}{
			"event_type": event.Type,
			"subject_id": subjectId.String(),
			"error":      err,
		})
	}

	if cs.forwarder == nil {
		return
	}
	if err := cs.forwarder.Publish(ctx, event); err != nil {
		cs.logger.Warn("CONSUMER", "Failed to forward lifecycle event", map[string]interface{}{
			"event_type": event.Type,
			"error":      err,
		})
	}
}
