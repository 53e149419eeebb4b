package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/pkg/logger"
	"warehouse-ai-be/internal/repository/contract"
	"warehouse-ai-be/internal/warehouse"
	"warehouse-ai-be/pkg/events"
	pktNats "warehouse-ai-be/pkg/nats"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1024
)

type ITextGenerationService interface {
	Generate(ctx context.Context, req *dto.GenerateTextRequest) (*dto.GenerateTextResponse, error)
	GenerateBatch(ctx context.Context, req *dto.BatchGenerateTextRequest) (*dto.BatchGenerateTextResponse, error)
	History(ctx context.Context, limit int, modelName string) ([]*dto.GenerationHistoryItem, error)
}

type textGenerationService struct {
	runner         warehouse.Runner
	cfg            *config.Config
	generations    contract.GenerationRepository
	audit          IAuditPublisher
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewTextGenerationService(
	runner warehouse.Runner,
	cfg *config.Config,
	generations contract.GenerationRepository,
	audit IAuditPublisher,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ITextGenerationService {
	return &textGenerationService{
		runner:         runner,
		cfg:            cfg,
		generations:    generations,
		audit:          audit,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *textGenerationService) Generate(ctx context.Context, req *dto.GenerateTextRequest) (*dto.GenerateTextResponse, error) {
	modelName := req.ModelName
	if modelName == "" {
		modelName = s.cfg.Models.DefaultTextModel
	}

	params := samplingParams(req)
	query := fmt.Sprintf(`
        SELECT ml_generate_text_result['predictions'][0]['content'] AS generated_text
        FROM ML.GENERATE_TEXT(
            MODEL `+"`%s`"+`,
            (SELECT %s AS prompt),
            STRUCT(%s)
        )`,
		modelRef(s.cfg.Warehouse, modelName),
		warehouse.QuoteString(req.Prompt),
		renderStructArgs(params),
	)

	rows, err := s.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("text generation failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("text generation returned no rows")
	}

	output := extractText(rows[0], "generated_text")

	id := uuid.New()
	now := time.Now()

	s.audit.Publish(ctx, dto.AuditKindGeneration, &entity.GenerationRecord{
		Id:             id,
		GenerationType: "text",
		Prompt:         req.Prompt,
		Output:         output,
		ModelName:      modelName,
		Parameters:     params,
		Status:         "completed",
		CreatedAt:      now,
	})
	s.publishEvent("TEXT_GENERATED", id, modelName)

	return &dto.GenerateTextResponse{
		Id:            id,
		GeneratedText: output,
		ModelName:     modelName,
		Parameters:    params,
		Metadata: dto.GenerationMetadata{
			PromptLength: len(req.Prompt),
			OutputLength: len(output),
			GeneratedAt:  now,
		},
	}, nil
}

// GenerateBatch processes requests strictly in order. One failing item does
// not stop the rest; its slot carries the error instead of a response.
func (s *textGenerationService) GenerateBatch(ctx context.Context, req *dto.BatchGenerateTextRequest) (*dto.BatchGenerateTextResponse, error) {
	results := make([]dto.BatchGenerateTextResult, 0, len(req.Requests))
	successful := 0

	for i := range req.Requests {
		item := req.Requests[i]
		res, err := s.Generate(ctx, &item)
		if err != nil {
			results = append(results, dto.BatchGenerateTextResult{
				Index: i,
				Error: err.Error(),
			})
			continue
		}
		successful++
		results = append(results, dto.BatchGenerateTextResult{
			Index:    i,
			Success:  true,
			Response: res,
		})
	}

	return &dto.BatchGenerateTextResponse{
		Results:        results,
		TotalProcessed: len(req.Requests),
		Successful:     successful,
	}, nil
}

// History degrades to an empty list when the audit table read fails; the
// audit trail is advisory and never blocks a caller.
func (s *textGenerationService) History(ctx context.Context, limit int, modelName string) ([]*dto.GenerationHistoryItem, error) {
	if limit <= 0 {
		limit = 50
	}

	records, err := s.generations.History(ctx, limit, modelName)
	if err != nil {
		s.log.Warn("TextGeneration", "History read failed", map[string]interface{}{
			"error": err.Error(),
		})
		return []*dto.GenerationHistoryItem{}, nil
	}

	items := make([]*dto.GenerationHistoryItem, 0, len(records))
	for _, r := range records {
		items = append(items, &dto.GenerationHistoryItem{
			Id:             r.Id,
			GenerationType: r.GenerationType,
			Prompt:         r.Prompt,
			GeneratedText:  r.Output,
			ModelName:      r.ModelName,
			Parameters:     r.Parameters,
			Status:         r.Status,
			CreatedAt:      r.CreatedAt,
		})
	}
	return items, nil
}

func (s *textGenerationService) publishEvent(eventType string, id uuid.UUID, modelName string) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.OperationCompleted(eventType, id.String(), map[string]interface{}{
		"model_name": modelName,
	})
	if err := s.eventPublisher.Publish(context.Background(), evt); err != nil {
		s.log.Warn("TextGeneration", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func samplingParams(req *dto.GenerateTextRequest) map[string]interface{} {
	params := map[string]interface{}{
		"temperature":       defaultTemperature,
		"max_output_tokens": defaultMaxTokens,
	}
	if req.Temperature != nil {
		params["temperature"] = *req.Temperature
	}
	if req.MaxTokens != nil {
		params["max_output_tokens"] = *req.MaxTokens
	}
	if req.TopP != nil {
		params["top_p"] = *req.TopP
	}
	if req.TopK != nil {
		params["top_k"] = *req.TopK
	}
	for k, v := range req.Params {
		params[k] = v
	}
	return params
}

// renderStructArgs renders generation parameters as STRUCT arguments in a
// stable (sorted) order.
func renderStructArgs(params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s AS %s", warehouse.Literal(params[k]), k))
	}
	return strings.Join(parts, ", ")
}

// modelRef resolves a bare model name against the configured dataset;
// dotted names are taken as fully qualified already.
func modelRef(cfg config.WarehouseConfig, name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return cfg.FullTableID(name)
}

// extractText pulls a string field out of a result row, stripping the JSON
// quoting the generation operators wrap scalar results in.
func extractText(row warehouse.Row, key string) string {
	var raw string
	switch v := row[key].(type) {
	case nil:
		return ""
	case string:
		raw = v
	default:
		raw = fmt.Sprintf("%v", warehouse.Normalize(v))
	}
	return strings.Trim(raw, `"`)
}
