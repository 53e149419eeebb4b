package implementation

import (
	"context"
	"fmt"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/repository/contract"
	"warehouse-ai-be/internal/warehouse"
)

const (
	objectTablesTable = "object_tables_metadata"
	objectRefsTable   = "object_refs_metadata"
	refAnalysesTable  = "object_ref_analyses"
)

type ObjectMetadataRepositoryImpl struct {
	runner warehouse.Runner
	cfg    config.WarehouseConfig
}

func NewObjectMetadataRepository(runner warehouse.Runner, cfg config.WarehouseConfig) contract.ObjectMetadataRepository {
	return &ObjectMetadataRepositoryImpl{
		runner: runner,
		cfg:    cfg,
	}
}

func (r *ObjectMetadataRepositoryImpl) StoreTable(ctx context.Context, record *entity.ObjectTableMetadata) error {
	row := warehouse.Row{
		"table_id":     record.TableID,
		"bucket_name":  record.BucketName,
		"file_pattern": record.FilePattern,
		"file_format":  record.FileFormat,
		"options":      jsonText(record.Options),
		"created_at":   record.CreatedAt,
	}
	return r.runner.InsertRows(ctx, objectTablesTable, []warehouse.Row{row})
}

func (r *ObjectMetadataRepositoryImpl) StoreRef(ctx context.Context, record *entity.ObjectRefMetadata) error {
	row := warehouse.Row{
		"object_ref":  record.ObjectRef,
		"bucket_name": record.BucketName,
		"file_path":   record.FilePath,
		"object_type": record.ObjectType,
		"options":     jsonText(record.Options),
		"created_at":  record.CreatedAt,
	}
	return r.runner.InsertRows(ctx, objectRefsTable, []warehouse.Row{row})
}

func (r *ObjectMetadataRepositoryImpl) StoreAnalysis(ctx context.Context, record *contract.ObjectAnalysisRecord) error {
	row := warehouse.Row{
		"analysis_id": record.AnalysisID,
		"object_ref":  record.ObjectRef,
		"prompt":      record.Prompt,
		"result":      record.Result,
		"model_name":  record.ModelName,
		"parameters":  jsonText(record.Parameters),
	}
	return r.runner.InsertRows(ctx, refAnalysesTable, []warehouse.Row{row})
}

func (r *ObjectMetadataRepositoryImpl) RefUsageStats(ctx context.Context) (map[string]interface{}, error) {
	refsQuery := fmt.Sprintf(`
        SELECT
            COUNT(*) AS total_refs,
            COUNT(DISTINCT object_type) AS distinct_types,
            COUNT(DISTINCT bucket_name) AS distinct_buckets
        FROM `+"`%s`", r.cfg.FullTableID(objectRefsTable))

	rows, err := r.runner.RunQuery(ctx, refsQuery)
	if err != nil {
		return nil, err
	}

	stats := map[string]interface{}{
		"total_refs":       int64(0),
		"distinct_types":   int64(0),
		"distinct_buckets": int64(0),
		"total_analyses":   int64(0),
		"analyzed_models":  []string{},
	}
	if len(rows) > 0 {
		stats["total_refs"] = warehouse.Int(rows[0], "total_refs")
		stats["distinct_types"] = warehouse.Int(rows[0], "distinct_types")
		stats["distinct_buckets"] = warehouse.Int(rows[0], "distinct_buckets")
	}

	analysesQuery := fmt.Sprintf(`
        SELECT
            COUNT(*) AS total_analyses,
            ARRAY_AGG(DISTINCT model_name IGNORE NULLS) AS analyzed_models
        FROM `+"`%s`", r.cfg.FullTableID(refAnalysesTable))

	rows, err = r.runner.RunQuery(ctx, analysesQuery)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		stats["total_analyses"] = warehouse.Int(rows[0], "total_analyses")
		stats["analyzed_models"] = warehouse.Strings(rows[0], "analyzed_models")
	}

	return stats, nil
}
