package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/pkg/logger"
	"warehouse-ai-be/internal/warehouse"
)

// assumedOptimalBytesPerRow anchors the efficiency score; indexes get
// dinged as rows grow beyond it.
const assumedOptimalBytesPerRow = 100.0

type IIndexService interface {
	Create(ctx context.Context, req *dto.CreateIndexRequest) (*dto.CreateIndexResponse, error)
	List(ctx context.Context) ([]*dto.IndexInfo, error)
	Status(ctx context.Context, indexName string) (*dto.IndexStatusResponse, error)
	Drop(ctx context.Context, indexName string) error
	Optimize(ctx context.Context, indexName string, req *dto.OptimizeIndexRequest) (*dto.OptimizeIndexResponse, error)
}

type indexService struct {
	runner warehouse.Runner
	cfg    *config.Config
	audit  IAuditPublisher
	log    logger.ILogger
}

func NewIndexService(
	runner warehouse.Runner,
	cfg *config.Config,
	audit IAuditPublisher,
	log logger.ILogger,
) IIndexService {
	return &indexService{
		runner: runner,
		cfg:    cfg,
		audit:  audit,
		log:    log,
	}
}

func (s *indexService) Create(ctx context.Context, req *dto.CreateIndexRequest) (*dto.CreateIndexResponse, error) {
	embeddingColumn := req.EmbeddingColumn
	if embeddingColumn == "" {
		embeddingColumn = defaultEmbeddingColumn
	}
	distanceType := req.DistanceType
	if distanceType == "" {
		distanceType = defaultDistanceType
	}
	indexType := req.IndexType
	if indexType == "" {
		indexType = "ivf"
	}

	options := []string{
		fmt.Sprintf("distance_type = %s", warehouse.QuoteString(strings.ToUpper(distanceType))),
		fmt.Sprintf("index_type = %s", warehouse.QuoteString(strings.ToUpper(indexType))),
	}
	options = append(options, renderIndexOptions(req.Options)...)

	query := fmt.Sprintf(
		"CREATE VECTOR INDEX `%s` ON `%s`(%s) OPTIONS(%s)",
		req.IndexName,
		req.TableID,
		embeddingColumn,
		strings.Join(options, ", "),
	)

	if err := s.runner.Exec(ctx, query); err != nil {
		return nil, fmt.Errorf("create vector index failed: %w", err)
	}

	now := time.Now()
	s.audit.Publish(ctx, dto.AuditKindIndexCreate, &entity.VectorIndexMetadata{
		IndexName:       req.IndexName,
		TableID:         req.TableID,
		EmbeddingColumn: embeddingColumn,
		DistanceType:    distanceType,
		IndexType:       indexType,
		Options:         req.Options,
		CreatedAt:       now,
	})

	return &dto.CreateIndexResponse{
		IndexName:       req.IndexName,
		TableID:         req.TableID,
		EmbeddingColumn: embeddingColumn,
		DistanceType:    distanceType,
		IndexType:       indexType,
		CreatedAt:       now,
	}, nil
}

func (s *indexService) List(ctx context.Context) ([]*dto.IndexInfo, error) {
	query := fmt.Sprintf(`
        SELECT
            index_name,
            table_name,
            index_status,
            coverage_percentage
        FROM `+"`%s.%s.INFORMATION_SCHEMA.VECTOR_INDEXES`",
		s.cfg.Warehouse.ProjectID,
		s.cfg.Warehouse.DatasetID,
	)

	rows, err := s.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vector indexes failed: %w", err)
	}

	infos := make([]*dto.IndexInfo, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, &dto.IndexInfo{
			IndexName:          warehouse.String(row, "index_name"),
			TableName:          warehouse.String(row, "table_name"),
			Status:             warehouse.String(row, "index_status"),
			CoveragePercentage: warehouse.Float(row, "coverage_percentage"),
		})
	}
	return infos, nil
}

func (s *indexService) Status(ctx context.Context, indexName string) (*dto.IndexStatusResponse, error) {
	query := fmt.Sprintf(`
        SELECT
            index_name,
            table_name,
            index_status,
            coverage_percentage
        FROM `+"`%s.%s.INFORMATION_SCHEMA.VECTOR_INDEXES`"+`
        WHERE index_name = %s`,
		s.cfg.Warehouse.ProjectID,
		s.cfg.Warehouse.DatasetID,
		warehouse.QuoteString(indexName),
	)

	rows, err := s.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("index status failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("vector index %s not found", indexName)
	}

	info := dto.IndexInfo{
		IndexName:          warehouse.String(rows[0], "index_name"),
		TableName:          warehouse.String(rows[0], "table_name"),
		Status:             warehouse.String(rows[0], "index_status"),
		CoveragePercentage: warehouse.Float(rows[0], "coverage_percentage"),
	}

	// Table stats feed the local efficiency score; failure here degrades to
	// a status without metrics.
	metrics, err := s.tableMetrics(ctx, info.TableName)
	if err != nil {
		s.log.Warn("Index", "Failed to read table stats", map[string]interface{}{
			"index": indexName,
			"error": err.Error(),
		})
	}

	return &dto.IndexStatusResponse{Info: info, Metrics: metrics}, nil
}

func (s *indexService) Drop(ctx context.Context, indexName string) error {
	// The drop DDL needs the owning table, which only the information schema
	// knows at this point.
	status, err := s.Status(ctx, indexName)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DROP VECTOR INDEX `%s` ON `%s`",
		indexName,
		s.cfg.Warehouse.FullTableID(status.Info.TableName),
	)
	if err := s.runner.Exec(ctx, query); err != nil {
		return fmt.Errorf("drop vector index failed: %w", err)
	}

	s.audit.Publish(ctx, dto.AuditKindIndexDrop, map[string]interface{}{
		"index_name": indexName,
	})
	return nil
}

func (s *indexService) Optimize(ctx context.Context, indexName string, req *dto.OptimizeIndexRequest) (*dto.OptimizeIndexResponse, error) {
	options := renderIndexOptions(req.Options)

	query := fmt.Sprintf("ALTER VECTOR INDEX `%s` REBUILD", indexName)
	if len(options) > 0 {
		query = fmt.Sprintf("ALTER VECTOR INDEX `%s` SET OPTIONS(%s)", indexName, strings.Join(options, ", "))
	}

	if err := s.runner.Exec(ctx, query); err != nil {
		return nil, fmt.Errorf("optimize vector index failed: %w", err)
	}

	return &dto.OptimizeIndexResponse{
		IndexName: indexName,
		Status:    "optimizing",
	}, nil
}

func (s *indexService) tableMetrics(ctx context.Context, tableName string) (*dto.IndexMetrics, error) {
	query := fmt.Sprintf(`
        SELECT size_bytes, row_count
        FROM `+"`%s.%s.__TABLES__`"+`
        WHERE table_id = %s`,
		s.cfg.Warehouse.ProjectID,
		s.cfg.Warehouse.DatasetID,
		warehouse.QuoteString(tableName),
	)

	rows, err := s.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("table %s not found", tableName)
	}

	sizeBytes := warehouse.Float(rows[0], "size_bytes")
	rowCount := warehouse.Int(rows[0], "row_count")

	return &dto.IndexMetrics{
		SizeMB:          sizeBytes / (1024 * 1024),
		RowCount:        rowCount,
		EfficiencyScore: EfficiencyScore(rowCount, sizeBytes),
	}, nil
}

// EfficiencyScore grades storage efficiency from bytes-per-row against the
// assumed optimum, clamped to [0, 100]. No rows scores 0; zero bytes per
// row scores a perfect 100.
func EfficiencyScore(rowCount int64, sizeBytes float64) float64 {
	if rowCount == 0 {
		return 0
	}
	bytesPerRow := sizeBytes / float64(rowCount)
	if bytesPerRow == 0 {
		return 100
	}
	score := 100 - (bytesPerRow/assumedOptimalBytesPerRow)*50
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// renderIndexOptions keeps only the option keys the index DDL understands.
func renderIndexOptions(options map[string]interface{}) []string {
	allowed := map[string]bool{
		"max_distance":  true,
		"num_clusters":  true,
		"num_neighbors": true,
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		if allowed[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	rendered := make([]string, 0, len(keys))
	for _, k := range keys {
		rendered = append(rendered, fmt.Sprintf("%s = %s", k, warehouse.Literal(options[k])))
	}
	return rendered
}
