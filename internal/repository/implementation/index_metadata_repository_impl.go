package implementation

import (
	"context"
	"fmt"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/repository/contract"
	"warehouse-ai-be/internal/warehouse"
)

const indexMetadataTable = "vector_indexes_metadata"

type IndexMetadataRepositoryImpl struct {
	runner warehouse.Runner
	cfg    config.WarehouseConfig
}

func NewIndexMetadataRepository(runner warehouse.Runner, cfg config.WarehouseConfig) contract.IndexMetadataRepository {
	return &IndexMetadataRepositoryImpl{
		runner: runner,
		cfg:    cfg,
	}
}

func (r *IndexMetadataRepositoryImpl) Store(ctx context.Context, record *entity.VectorIndexMetadata) error {
	row := warehouse.Row{
		"index_name":       record.IndexName,
		"table_id":         record.TableID,
		"embedding_column": record.EmbeddingColumn,
		"distance_type":    record.DistanceType,
		"index_type":       record.IndexType,
		"options":          jsonText(record.Options),
		"created_at":       record.CreatedAt,
	}
	return r.runner.InsertRows(ctx, indexMetadataTable, []warehouse.Row{row})
}

func (r *IndexMetadataRepositoryImpl) Remove(ctx context.Context, indexName string) error {
	query := fmt.Sprintf(
		"DELETE FROM `%s` WHERE index_name = %s",
		r.cfg.FullTableID(indexMetadataTable),
		warehouse.QuoteString(indexName),
	)
	return r.runner.Exec(ctx, query)
}
