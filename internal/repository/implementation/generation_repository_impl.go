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

const generationTable = "generated_content"

type GenerationRepositoryImpl struct {
	runner warehouse.Runner
	cfg    config.WarehouseConfig
}

func NewGenerationRepository(runner warehouse.Runner, cfg config.WarehouseConfig) contract.GenerationRepository {
	return &GenerationRepositoryImpl{
		runner: runner,
		cfg:    cfg,
	}
}

func (r *GenerationRepositoryImpl) Store(ctx context.Context, record *entity.GenerationRecord) error {
	row := warehouse.Row{
		"id":              record.Id.String(),
		"generation_type": record.GenerationType,
		"prompt":          record.Prompt,
		"generated_content": record.Output,
		"model_name":      record.ModelName,
		"parameters":      jsonText(record.Parameters),
		"status":          record.Status,
		"created_at":      record.CreatedAt,
	}
	if record.Schema != nil {
		row["schema"] = jsonText(record.Schema)
	}
	return r.runner.InsertRows(ctx, generationTable, []warehouse.Row{row})
}

func (r *GenerationRepositoryImpl) History(ctx context.Context, limit int, modelName string) ([]*entity.GenerationRecord, error) {
	query := fmt.Sprintf(`
        SELECT
            id,
            generation_type,
            prompt,
            generated_content,
            model_name,
            parameters,
            status,
            created_at
        FROM `+"`%s`"+`
        WHERE 1=1`, r.cfg.FullTableID(generationTable))

	if modelName != "" {
		query += fmt.Sprintf(" AND model_name = %s", warehouse.QuoteString(modelName))
	}

	query += fmt.Sprintf(`
        ORDER BY created_at DESC
        LIMIT %d`, limit)

	rows, err := r.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	records := make([]*entity.GenerationRecord, 0, len(rows))
	for _, row := range rows {
		id, _ := uuid.Parse(warehouse.String(row, "id"))
		records = append(records, &entity.GenerationRecord{
			Id:             id,
			GenerationType: warehouse.String(row, "generation_type"),
			Prompt:         warehouse.String(row, "prompt"),
			Output:         warehouse.String(row, "generated_content"),
			ModelName:      warehouse.String(row, "model_name"),
			Parameters:     jsonMap(warehouse.String(row, "parameters")),
			Status:         warehouse.String(row, "status"),
			CreatedAt:      warehouse.Timestamp(row, "created_at"),
		})
	}
	return records, nil
}
