package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/pkg/logger"
)

// IAuditPublisher hands audit records to the background consumer. Audit is
// fire-and-forget: a failed publish is logged and swallowed, the AI call it
// describes has already succeeded.
type IAuditPublisher interface {
	Publish(ctx context.Context, kind string, payload interface{})
}

type auditPublisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
	log       logger.ILogger
}

func NewAuditPublisherService(topicName string, pubSub *gochannel.GoChannel, log logger.ILogger) IAuditPublisher {
	return &auditPublisherService{
		topicName: topicName,
		pubSub:    pubSub,
		log:       log,
	}
}

func (s *auditPublisherService) Publish(ctx context.Context, kind string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("AuditPublisher", "Failed to encode audit payload", map[string]interface{}{
			"kind":  kind,
			"error": err.Error(),
		})
		return
	}

	envelope, err := json.Marshal(dto.AuditMessage{Kind: kind, Payload: body})
	if err != nil {
		s.log.Warn("AuditPublisher", "Failed to encode audit envelope", map[string]interface{}{
			"kind":  kind,
			"error": err.Error(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), envelope)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.log.Warn("AuditPublisher", "Failed to publish audit record", map[string]interface{}{
			"kind":  kind,
			"error": err.Error(),
		})
	}
}
