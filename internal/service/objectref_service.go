package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/pkg/logger"
	"warehouse-ai-be/internal/repository/contract"
	"warehouse-ai-be/internal/warehouse"
)

const objectFilesTable = "object_files"

type IObjectRefService interface {
	Create(ctx context.Context, req *dto.CreateObjectRefRequest) (*dto.CreateObjectRefResponse, error)
	Analyze(ctx context.Context, req *dto.AnalyzeObjectRefRequest) (*dto.AnalyzeObjectRefResponse, error)
	AnalyzeBatch(ctx context.Context, req *dto.BatchAnalyzeObjectRefRequest) (*dto.BatchAnalyzeObjectRefResponse, error)
	ExtractMetadata(ctx context.Context, objectRef string) (map[string]interface{}, error)
	UsageStats(ctx context.Context) (*dto.ObjectRefStatsResponse, error)
}

type objectRefService struct {
	runner  warehouse.Runner
	cfg     *config.Config
	objects contract.ObjectMetadataRepository
	audit   IAuditPublisher
	log     logger.ILogger
}

func NewObjectRefService(
	runner warehouse.Runner,
	cfg *config.Config,
	objects contract.ObjectMetadataRepository,
	audit IAuditPublisher,
	log logger.ILogger,
) IObjectRefService {
	return &objectRefService{
		runner:  runner,
		cfg:     cfg,
		objects: objects,
		audit:   audit,
		log:     log,
	}
}

func (s *objectRefService) Create(ctx context.Context, req *dto.CreateObjectRefRequest) (*dto.CreateObjectRefResponse, error) {
	objectType := req.ObjectType
	if objectType == "" {
		objectType = "file"
	}

	objectRef := fmt.Sprintf("gs://%s/%s", s.cfg.Warehouse.Bucket, strings.TrimPrefix(req.FilePath, "/"))
	if err := ValidateObjectRef(objectRef); err != nil {
		return nil, err
	}

	now := time.Now()
	s.audit.Publish(ctx, dto.AuditKindObjectRef, &entity.ObjectRefMetadata{
		ObjectRef:  objectRef,
		BucketName: s.cfg.Warehouse.Bucket,
		FilePath:   req.FilePath,
		ObjectType: objectType,
		Options:    req.Options,
		CreatedAt:  now,
	})

	return &dto.CreateObjectRefResponse{
		ObjectRef:  objectRef,
		BucketName: s.cfg.Warehouse.Bucket,
		FilePath:   req.FilePath,
		ObjectType: objectType,
		CreatedAt:  now,
	}, nil
}

func (s *objectRefService) Analyze(ctx context.Context, req *dto.AnalyzeObjectRefRequest) (*dto.AnalyzeObjectRefResponse, error) {
	if err := ValidateObjectRef(req.ObjectRef); err != nil {
		return nil, err
	}

	modelName := req.ModelName
	if modelName == "" {
		modelName = s.cfg.Models.DefaultTextModel
	}

	query := fmt.Sprintf(`
        SELECT AI.GENERATE(
            %s,
            %s,
            STRUCT(%s AS object_ref)
        ).result AS analysis_result`,
		warehouse.QuoteString(req.Prompt),
		warehouse.QuoteString(modelName),
		warehouse.QuoteString(req.ObjectRef),
	)

	rows, err := s.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("object ref analysis failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("object ref analysis returned no rows")
	}

	result := extractText(rows[0], "analysis_result")
	analysisID := uuid.New().String()

	s.audit.Publish(ctx, dto.AuditKindRefAnalysis, &contract.ObjectAnalysisRecord{
		AnalysisID: analysisID,
		ObjectRef:  req.ObjectRef,
		Prompt:     req.Prompt,
		Result:     result,
		ModelName:  modelName,
		Parameters: req.Params,
	})

	return &dto.AnalyzeObjectRefResponse{
		AnalysisID: analysisID,
		ObjectRef:  req.ObjectRef,
		Result:     result,
		ModelName:  modelName,
	}, nil
}

func (s *objectRefService) AnalyzeBatch(ctx context.Context, req *dto.BatchAnalyzeObjectRefRequest) (*dto.BatchAnalyzeObjectRefResponse, error) {
	results := make([]dto.BatchAnalyzeObjectRefResult, 0, len(req.Requests))
	successful := 0

	for i := range req.Requests {
		item := req.Requests[i]
		res, err := s.Analyze(ctx, &item)
		if err != nil {
			results = append(results, dto.BatchAnalyzeObjectRefResult{
				Index: i,
				Error: err.Error(),
			})
			continue
		}
		successful++
		results = append(results, dto.BatchAnalyzeObjectRefResult{
			Index:    i,
			Success:  true,
			Response: res,
		})
	}

	return &dto.BatchAnalyzeObjectRefResponse{
		Results:        results,
		TotalProcessed: len(req.Requests),
		Successful:     successful,
	}, nil
}

// ExtractMetadata reads file metadata for a ref from the object files table
// without running any AI analysis.
func (s *objectRefService) ExtractMetadata(ctx context.Context, objectRef string) (map[string]interface{}, error) {
	if err := ValidateObjectRef(objectRef); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
        SELECT
            file_name,
            file_size,
            file_type,
            file_last_modified
        FROM `+"`%s`"+`
        WHERE gs_uri = %s
        LIMIT 1`,
		s.cfg.Warehouse.FullTableID(objectFilesTable),
		warehouse.QuoteString(objectRef),
	)

	rows, err := s.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("metadata extraction failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no metadata found for %s", objectRef)
	}
	return warehouse.NormalizeRow(rows[0]), nil
}

func (s *objectRefService) UsageStats(ctx context.Context) (*dto.ObjectRefStatsResponse, error) {
	stats, err := s.objects.RefUsageStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("usage stats failed: %w", err)
	}
	return &dto.ObjectRefStatsResponse{Stats: stats}, nil
}

// ValidateObjectRef checks the gs://bucket/path shape. Existence of the
// object is deliberately not verified here.
func ValidateObjectRef(objectRef string) error {
	if !strings.HasPrefix(objectRef, "gs://") {
		return fmt.Errorf("object ref must start with gs://")
	}
	if strings.Count(objectRef, "/") < 3 {
		return fmt.Errorf("object ref must have format gs://bucket/path")
	}
	return nil
}
