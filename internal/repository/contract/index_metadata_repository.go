package contract

import (
	"context"

	"warehouse-ai-be/internal/entity"
)

type IndexMetadataRepository interface {
	Store(ctx context.Context, record *entity.VectorIndexMetadata) error
	Remove(ctx context.Context, indexName string) error
}
