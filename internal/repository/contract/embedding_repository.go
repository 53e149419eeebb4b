package contract

import (
	"context"

	"warehouse-ai-be/internal/entity"
)

type EmbeddingRepository interface {
	Store(ctx context.Context, record *entity.EmbeddingRecord) error
	// FindByHash returns (nil, nil) on a miss; the hash lookup is advisory.
	FindByHash(ctx context.Context, contentHash string) (*entity.EmbeddingRecord, error)
	History(ctx context.Context, limit int, modelName, contentType string) ([]*entity.EmbeddingRecord, error)
}
