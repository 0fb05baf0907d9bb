// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"time"

	"event-kiosk-be/internal/dto"
	"event-kiosk-be/internal/entity"
	"event-kiosk-be/internal/pkg/logger"
	"event-kiosk-be/internal/repository/contract"
	"event-kiosk-be/pkg/events"
	pktNats "event-kiosk-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	outcomeRepository contract.RouteOutcomeRepository
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	outcomeRepository contract.RouteOutcomeRepository,
	eventPublisher *pktNats.Publisher,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		outcomeRepository: outcomeRepository,
		eventPublisher:    eventPublisher,
		logger:            logger,
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
	var payload dto.RouteOutcomeMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER_SERVICE", "failed to unmarshal outcome event", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack malformed messages to prevent infinite retry
		msg.Ack()
		return
	}

	record := &entity.RouteOutcomeRecord{
		Id:             uuid.New(),
		SessionId:      payload.SessionId,
		Lang:           payload.Lang,
		Mode:           payload.Mode,
		Rating1To5:     payload.Rating1To5,
		TimeOnScreenMs: payload.TimeOnScreenMs,
		RouteUsed:      payload.RouteUsed,
		Confidence:     payload.Confidence,
		SourcesCount:   payload.SourcesCount,
		ErrorCode:      payload.ErrorCode,
		LatencyMs:      payload.LatencyMs,
		HashedQuery:    payload.HashedQuery,
		Ts:             time.Now().UTC(),
	}

	if err := cs.outcomeRepository.Create(ctx, record); err != nil {
		cs.logger.Error("CONSUMER_SERVICE", "failed to persist route outcome", map[string]interface{}{
			"error":      err.Error(),
			"session_id": payload.SessionId,
		})
		msg.Nack()
		return
	}

	// Mirror to the event bus for external dashboards, best effort.
	if cs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "ROUTE_OUTCOME_RECORDED",
			Data: map[string]interface{}{
				"session_id": payload.SessionId,
				"mode":       payload.Mode,
				"route_used": payload.RouteUsed,
				"confidence": payload.Confidence,
				"latency_ms": payload.LatencyMs,
			},
			OccurredAt: record.Ts,
		}
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("CONSUMER_SERVICE", "failed to mirror outcome event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}
