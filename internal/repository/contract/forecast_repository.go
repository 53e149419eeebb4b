package contract

import (
	"context"

	"warehouse-ai-be/internal/entity"
)

type ForecastRepository interface {
	Store(ctx context.Context, record *entity.ForecastRecord) error
}
