package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/entity"
	"ai-concierge-be/internal/repository/implementation"
	internalWS "ai-concierge-be/internal/websocket"
	"ai-concierge-be/pkg/events"
	pktNats "ai-concierge-be/pkg/nats"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService is the task sink: it drains the action-result topic,
// persists each dispatched action and notifies the owning user.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	taskRepo       implementation.ITaskRepository
	hub            *internalWS.Hub
	eventPublisher *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	taskRepo implementation.ITaskRepository,
	hub *internalWS.Hub,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		taskRepo:       taskRepo,
		hub:            hub,
		eventPublisher: eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
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
	var payload dto.PublishActionResultMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal action result message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}
	if payload.Result == nil {
		log.Printf("[ERROR] Action result message without result, session %s", payload.ChatSessionId)
		msg.Ack()
		return
	}

	task := entity.Task{
		Id:            uuid.New(),
		UserId:        payload.UserId,
		ChatSessionId: payload.ChatSessionId,
		Intent:        payload.Intent,
		Success:       payload.Result.Success,
		Message:       payload.Result.Message,
		CreatedAt:     time.Now(),
	}
	if raw, err := json.Marshal(payload.Result); err == nil {
		task.Payload = datatypes.JSON(raw)
	}

	if cs.taskRepo != nil {
		if err := cs.taskRepo.Create(ctx, &task); err != nil {
			log.Printf("[ERROR] Failed to persist task for session %s: %v", payload.ChatSessionId, err)
			msg.Nack() // Nack for retriable errors
			return
		}
	}

	if cs.hub != nil {
		cs.hub.Send(payload.UserId, internalWS.TaskNotification{
			TaskId:    task.Id,
			SessionId: payload.ChatSessionId,
			Intent:    payload.Intent,
			Success:   payload.Result.Success,
			Message:   payload.Result.Message,
		})
	}

	// Mirror to NATS for external consumers; auxiliary, never blocks the sink.
	if cs.eventPublisher != nil {
		evt := events.NewActionDispatchedEvent(
			payload.UserId.String(),
			payload.ChatSessionId.String(),
			payload.Intent,
			payload.Result.Success,
			payload.Result.Message,
		)
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to mirror action event to NATS: %v", err)
		}
	}

	msg.Ack()
}
