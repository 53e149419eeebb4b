package contract

import (
	"context"

	"warehouse-ai-be/internal/entity"
)

type SearchRepository interface {
	Store(ctx context.Context, record *entity.SearchRecord) error
}
