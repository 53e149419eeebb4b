package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/pkg/logger"
	"warehouse-ai-be/internal/warehouse"
)

type IObjectTableService interface {
	Create(ctx context.Context, req *dto.CreateObjectTableRequest) (*dto.CreateObjectTableResponse, error)
	Query(ctx context.Context, req *dto.QueryObjectTableRequest) (*dto.QueryObjectTableResponse, error)
	Analyze(ctx context.Context, req *dto.AnalyzeObjectTableRequest) (*dto.AnalyzeObjectTableResponse, error)
}

type objectTableService struct {
	runner warehouse.Runner
	cfg    *config.Config
	audit  IAuditPublisher
	log    logger.ILogger
}

func NewObjectTableService(
	runner warehouse.Runner,
	cfg *config.Config,
	audit IAuditPublisher,
	log logger.ILogger,
) IObjectTableService {
	return &objectTableService{
		runner: runner,
		cfg:    cfg,
		audit:  audit,
		log:    log,
	}
}

func (s *objectTableService) Create(ctx context.Context, req *dto.CreateObjectTableRequest) (*dto.CreateObjectTableResponse, error) {
	filePattern := req.FilePattern
	if filePattern == "" {
		filePattern = "*"
	}
	fileFormat := req.FileFormat
	if fileFormat == "" {
		fileFormat = "AUTO"
	}

	options := []string{
		"object_metadata = 'SIMPLE'",
		fmt.Sprintf("uris = [%s]", warehouse.QuoteString(fmt.Sprintf("gs://%s/%s", s.cfg.Warehouse.Bucket, filePattern))),
	}
	if v, ok := req.Options["max_file_size"]; ok {
		options = append(options, fmt.Sprintf("max_file_size = %s", warehouse.Literal(v)))
	}
	if v, ok := req.Options["file_encoding"]; ok {
		options = append(options, fmt.Sprintf("file_encoding = %s", warehouse.Literal(v)))
	}
	if v, ok := req.Options["skip_leading_rows"]; ok {
		options = append(options, fmt.Sprintf("skip_leading_rows = %s", warehouse.Literal(v)))
	}

	tableID := s.cfg.Warehouse.FullTableID(req.TableName)
	query := fmt.Sprintf(
		"CREATE OR REPLACE EXTERNAL TABLE `%s` OPTIONS(%s)",
		tableID,
		strings.Join(options, ", "),
	)

	if err := s.runner.Exec(ctx, query); err != nil {
		return nil, fmt.Errorf("create object table failed: %w", err)
	}

	now := time.Now()
	s.audit.Publish(ctx, dto.AuditKindObjectTable, &entity.ObjectTableMetadata{
		TableID:     tableID,
		BucketName:  s.cfg.Warehouse.Bucket,
		FilePattern: filePattern,
		FileFormat:  fileFormat,
		Options:     req.Options,
		CreatedAt:   now,
	})

	return &dto.CreateObjectTableResponse{
		TableID:     tableID,
		BucketName:  s.cfg.Warehouse.Bucket,
		FilePattern: filePattern,
		FileFormat:  fileFormat,
		CreatedAt:   now,
	}, nil
}

func (s *objectTableService) Query(ctx context.Context, req *dto.QueryObjectTableRequest) (*dto.QueryObjectTableResponse, error) {
	columns := "*"
	if len(req.Columns) > 0 {
		columns = strings.Join(req.Columns, ", ")
	}

	query := fmt.Sprintf("SELECT %s FROM `%s`", columns, s.cfg.Warehouse.FullTableID(req.TableName))
	if req.Where != "" {
		query += " WHERE " + req.Where
	}
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", req.Limit)
	}

	rows, err := s.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("object table query failed: %w", err)
	}

	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		out = append(out, warehouse.NormalizeRow(row))
	}
	return &dto.QueryObjectTableResponse{
		Rows:      out,
		TotalRows: len(out),
	}, nil
}

func (s *objectTableService) Analyze(ctx context.Context, req *dto.AnalyzeObjectTableRequest) (*dto.AnalyzeObjectTableResponse, error) {
	analysisType := req.AnalysisType
	if analysisType == "" {
		analysisType = "general"
	}
	modelName := req.ModelName
	if modelName == "" {
		modelName = s.cfg.Models.DefaultTextModel
	}

	query := s.analysisQuery(s.cfg.Warehouse.FullTableID(req.TableName), analysisType, modelName)
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", req.Limit)
	}

	rows, err := s.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("object table analysis failed: %w", err)
	}

	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		out = append(out, warehouse.NormalizeRow(row))
	}

	return &dto.AnalyzeObjectTableResponse{
		AnalysisType: analysisType,
		Rows:         out,
		Insights:     AnalysisInsights(out, analysisType),
	}, nil
}

func (s *objectTableService) analysisQuery(tableID, analysisType, modelName string) string {
	switch analysisType {
	case "text_extraction":
		return fmt.Sprintf(`
        SELECT
            file_name,
            file_type,
            file_size,
            file_last_modified,
            text_content,
            LENGTH(text_content) AS text_length,
            ARRAY_LENGTH(SPLIT(text_content, ' ')) AS word_count
        FROM `+"`%s`"+`
        WHERE text_content IS NOT NULL
        ORDER BY file_size DESC`, tableID)

	case "image_analysis":
		return fmt.Sprintf(`
        SELECT
            file_name,
            file_type,
            file_size,
            file_last_modified,
            image_width,
            image_height,
            image_format
        FROM `+"`%s`"+`
        WHERE image_width IS NOT NULL
        ORDER BY file_size DESC`, tableID)

	case "document_summary":
		return fmt.Sprintf(`
        SELECT
            file_name,
            file_type,
            file_size,
            AI.GENERATE(
                CONCAT('Summarize this document in 3 bullet points: ', text_content),
                %s
            ).result AS summary
        FROM `+"`%s`"+`
        WHERE text_content IS NOT NULL AND LENGTH(text_content) > 100
        ORDER BY file_size DESC`, warehouse.QuoteString(modelName), tableID)

	default:
		return fmt.Sprintf(`
        SELECT
            file_name,
            file_type,
            file_size,
            file_last_modified,
            CASE
                WHEN file_type LIKE '%%pdf%%' THEN 'Document'
                WHEN file_type LIKE '%%image%%' THEN 'Image'
                WHEN file_type LIKE '%%text%%' THEN 'Text'
                ELSE 'Other'
            END AS content_category
        FROM `+"`%s`"+`
        ORDER BY file_size DESC`, tableID)
	}
}

// AnalysisInsights aggregates analysis rows locally: file type counts, size
// distribution, and per-analysis content insights.
func AnalysisInsights(rows []map[string]interface{}, analysisType string) map[string]interface{} {
	insights := map[string]interface{}{
		"analysis_type": analysisType,
		"total_files":   len(rows),
	}
	if len(rows) == 0 {
		return insights
	}

	fileTypes := map[string]int{}
	var minSize, maxSize, totalSize float64
	first := true
	for _, row := range rows {
		fileType := "unknown"
		if t, ok := row["file_type"].(string); ok && t != "" {
			fileType = t
		}
		fileTypes[fileType]++

		size := asFloat(row["file_size"])
		totalSize += size
		if first || size < minSize {
			minSize = size
		}
		if first || size > maxSize {
			maxSize = size
		}
		first = false
	}

	insights["file_types"] = fileTypes
	insights["size_distribution"] = map[string]interface{}{
		"min_size": minSize,
		"max_size": maxSize,
		"avg_size": totalSize / float64(len(rows)),
	}

	switch analysisType {
	case "text_extraction":
		insights["content_insights"] = textInsights(rows)
	case "image_analysis":
		insights["content_insights"] = imageInsights(rows)
	}
	return insights
}

func textInsights(rows []map[string]interface{}) map[string]interface{} {
	var totalLength, totalWords float64
	for _, row := range rows {
		totalLength += asFloat(row["text_length"])
		totalWords += asFloat(row["word_count"])
	}
	n := float64(len(rows))
	return map[string]interface{}{
		"total_text_length": totalLength,
		"total_word_count":  totalWords,
		"avg_text_length":   totalLength / n,
		"avg_word_count":    totalWords / n,
	}
}

// imageInsights buckets images by resolution: under one megapixel, one to
// five, and above.
func imageInsights(rows []map[string]interface{}) map[string]interface{} {
	formats := map[string]int{}
	resolution := map[string]int{
		"low_res":    0,
		"medium_res": 0,
		"high_res":   0,
	}

	for _, row := range rows {
		format := "unknown"
		if f, ok := row["image_format"].(string); ok && f != "" {
			format = f
		}
		formats[format]++

		width := asFloat(row["image_width"])
		height := asFloat(row["image_height"])
		if width == 0 || height == 0 {
			continue
		}
		megapixels := width * height / 1_000_000
		switch {
		case megapixels < 1:
			resolution["low_res"]++
		case megapixels < 5:
			resolution["medium_res"]++
		default:
			resolution["high_res"]++
		}
	}

	return map[string]interface{}{
		"total_images":            len(rows),
		"image_formats":           formats,
		"resolution_distribution": resolution,
	}
}

func asFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	}
	return 0
}
