package implementation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/repository/contract"
	"warehouse-ai-be/internal/warehouse"
)

const embeddingTable = "embeddings"

type EmbeddingRepositoryImpl struct {
	runner warehouse.Runner
	cfg    config.WarehouseConfig
}

func NewEmbeddingRepository(runner warehouse.Runner, cfg config.WarehouseConfig) contract.EmbeddingRepository {
	return &EmbeddingRepositoryImpl{
		runner: runner,
		cfg:    cfg,
	}
}

func (r *EmbeddingRepositoryImpl) Store(ctx context.Context, record *entity.EmbeddingRecord) error {
	row := warehouse.Row{
		"id":               record.Id.String(),
		"content_type":     record.ContentType,
		"content_hash":     record.ContentHash,
		"embedding_vector": record.Vector,
		"model_name":       record.ModelName,
		"dimensions":       record.Dimensions,
		"metadata":         jsonText(record.Metadata),
		"created_at":       record.CreatedAt,
	}
	return r.runner.InsertRows(ctx, embeddingTable, []warehouse.Row{row})
}

func (r *EmbeddingRepositoryImpl) FindByHash(ctx context.Context, contentHash string) (*entity.EmbeddingRecord, error) {
	query := fmt.Sprintf(`
        SELECT
            id,
            content_type,
            content_hash,
            embedding_vector,
            model_name,
            dimensions,
            metadata,
            created_at
        FROM `+"`%s`"+`
        WHERE content_hash = %s
        LIMIT 1`,
		r.cfg.FullTableID(embeddingTable),
		warehouse.QuoteString(contentHash),
	)

	rows, err := r.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToEmbedding(rows[0]), nil
}

func (r *EmbeddingRepositoryImpl) History(ctx context.Context, limit int, modelName, contentType string) ([]*entity.EmbeddingRecord, error) {
	query := fmt.Sprintf(`
        SELECT
            id,
            content_type,
            content_hash,
            embedding_vector,
            model_name,
            dimensions,
            metadata,
            created_at
        FROM `+"`%s`"+`
        WHERE 1=1`, r.cfg.FullTableID(embeddingTable))

	if modelName != "" {
		query += fmt.Sprintf(" AND model_name = %s", warehouse.QuoteString(modelName))
	}
	if contentType != "" {
		query += fmt.Sprintf(" AND content_type = %s", warehouse.QuoteString(contentType))
	}

	query += fmt.Sprintf(`
        ORDER BY created_at DESC
        LIMIT %d`, limit)

	rows, err := r.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	records := make([]*entity.EmbeddingRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, rowToEmbedding(row))
	}
	return records, nil
}

func rowToEmbedding(row warehouse.Row) *entity.EmbeddingRecord {
	id, _ := uuid.Parse(warehouse.String(row, "id"))
	return &entity.EmbeddingRecord{
		Id:          id,
		ContentType: warehouse.String(row, "content_type"),
		ContentHash: warehouse.String(row, "content_hash"),
		Vector:      warehouse.Floats(row, "embedding_vector"),
		ModelName:   warehouse.String(row, "model_name"),
		Dimensions:  int(warehouse.Int(row, "dimensions")),
		Metadata:    jsonMap(warehouse.String(row, "metadata")),
		CreatedAt:   warehouse.Timestamp(row, "created_at"),
	}
}
