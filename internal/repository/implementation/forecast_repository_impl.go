package implementation

import (
	"context"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/repository/contract"
	"warehouse-ai-be/internal/warehouse"
)

const forecastTable = "forecasts"

type ForecastRepositoryImpl struct {
	runner warehouse.Runner
	cfg    config.WarehouseConfig
}

func NewForecastRepository(runner warehouse.Runner, cfg config.WarehouseConfig) contract.ForecastRepository {
	return &ForecastRepositoryImpl{
		runner: runner,
		cfg:    cfg,
	}
}

func (r *ForecastRepositoryImpl) Store(ctx context.Context, record *entity.ForecastRecord) error {
	row := warehouse.Row{
		"id":            record.Id.String(),
		"target_column": record.TargetColumn,
		"time_column":   record.TimeColumn,
		"horizon":       record.Horizon,
		"model_name":    record.ModelName,
		"source_table":  record.SourceTable,
		"data_points":   record.DataPoints,
		"result":        jsonText(record.Result),
		"parameters":    jsonText(record.Parameters),
		"created_at":    record.CreatedAt,
	}
	return r.runner.InsertRows(ctx, forecastTable, []warehouse.Row{row})
}
