package implementation

import (
	"context"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/repository/contract"
	"warehouse-ai-be/internal/warehouse"
)

const searchTable = "vector_searches"

type SearchRepositoryImpl struct {
	runner warehouse.Runner
	cfg    config.WarehouseConfig
}

func NewSearchRepository(runner warehouse.Runner, cfg config.WarehouseConfig) contract.SearchRepository {
	return &SearchRepositoryImpl{
		runner: runner,
		cfg:    cfg,
	}
}

func (r *SearchRepositoryImpl) Store(ctx context.Context, record *entity.SearchRecord) error {
	row := warehouse.Row{
		"id":               record.Id.String(),
		"query_vector":     record.QueryVector,
		"table_id":         record.TableID,
		"embedding_column": record.EmbeddingColumn,
		"top_k":            record.TopK,
		"distance_type":    record.DistanceType,
		"results_count":    record.ResultsCount,
		"filters":          jsonText(record.Filters),
		"created_at":       record.CreatedAt,
	}
	return r.runner.InsertRows(ctx, searchTable, []warehouse.Row{row})
}
