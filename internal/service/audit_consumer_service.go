package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/pkg/logger"
	"warehouse-ai-be/internal/repository/contract"
)

type IAuditConsumerService interface {
	Consume(ctx context.Context) error
}

type auditConsumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	log       logger.ILogger

	generations contract.GenerationRepository
	embeddings  contract.EmbeddingRepository
	forecasts   contract.ForecastRepository
	searches    contract.SearchRepository
	indexes     contract.IndexMetadataRepository
	objects     contract.ObjectMetadataRepository
}

func NewAuditConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	log logger.ILogger,
	generations contract.GenerationRepository,
	embeddings contract.EmbeddingRepository,
	forecasts contract.ForecastRepository,
	searches contract.SearchRepository,
	indexes contract.IndexMetadataRepository,
	objects contract.ObjectMetadataRepository,
) IAuditConsumerService {
	return &auditConsumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		log:         log,
		generations: generations,
		embeddings:  embeddings,
		forecasts:   forecasts,
		searches:    searches,
		indexes:     indexes,
		objects:     objects,
	}
}

func (cs *auditConsumerService) Consume(ctx context.Context) error {
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

// processMessage always acks. Audit rows are best-effort; an insert that
// failed once is not worth a redelivery loop.
func (cs *auditConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var envelope dto.AuditMessage
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.log.Warn("AuditConsumer", "Failed to decode audit message", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := cs.store(ctx, envelope); err != nil {
		cs.log.Warn("AuditConsumer", "Failed to store audit record", map[string]interface{}{
			"kind":  envelope.Kind,
			"error": err.Error(),
		})
	}
}

func (cs *auditConsumerService) store(ctx context.Context, envelope dto.AuditMessage) error {
	switch envelope.Kind {
	case dto.AuditKindGeneration:
		var record entity.GenerationRecord
		if err := json.Unmarshal(envelope.Payload, &record); err != nil {
			return err
		}
		return cs.generations.Store(ctx, &record)

	case dto.AuditKindEmbedding:
		var record entity.EmbeddingRecord
		if err := json.Unmarshal(envelope.Payload, &record); err != nil {
			return err
		}
		return cs.embeddings.Store(ctx, &record)

	case dto.AuditKindForecast:
		var record entity.ForecastRecord
		if err := json.Unmarshal(envelope.Payload, &record); err != nil {
			return err
		}
		return cs.forecasts.Store(ctx, &record)

	case dto.AuditKindSearch:
		var record entity.SearchRecord
		if err := json.Unmarshal(envelope.Payload, &record); err != nil {
			return err
		}
		return cs.searches.Store(ctx, &record)

	case dto.AuditKindIndexCreate:
		var record entity.VectorIndexMetadata
		if err := json.Unmarshal(envelope.Payload, &record); err != nil {
			return err
		}
		return cs.indexes.Store(ctx, &record)

	case dto.AuditKindIndexDrop:
		var payload struct {
			IndexName string `json:"index_name"`
		}
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return err
		}
		return cs.indexes.Remove(ctx, payload.IndexName)

	case dto.AuditKindObjectTable:
		var record entity.ObjectTableMetadata
		if err := json.Unmarshal(envelope.Payload, &record); err != nil {
			return err
		}
		return cs.objects.StoreTable(ctx, &record)

	case dto.AuditKindObjectRef:
		var record entity.ObjectRefMetadata
		if err := json.Unmarshal(envelope.Payload, &record); err != nil {
			return err
		}
		return cs.objects.StoreRef(ctx, &record)

	case dto.AuditKindRefAnalysis:
		var record contract.ObjectAnalysisRecord
		if err := json.Unmarshal(envelope.Payload, &record); err != nil {
			return err
		}
		return cs.objects.StoreAnalysis(ctx, &record)
	}

	cs.log.Warn("AuditConsumer", "Unknown audit kind, dropping", map[string]interface{}{
		"kind": envelope.Kind,
	})
	return nil
}
