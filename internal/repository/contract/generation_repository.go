package contract

import (
	"context"

	"warehouse-ai-be/internal/entity"
)

type GenerationRepository interface {
	Store(ctx context.Context, record *entity.GenerationRecord) error
	// History returns most-recent-first generation records, optionally
	// filtered by model name.
	History(ctx context.Context, limit int, modelName string) ([]*entity.GenerationRecord, error)
}
