package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/pkg/logger"
	"warehouse-ai-be/internal/warehouse"
)

type IContentGenerationService interface {
	Generate(ctx context.Context, req *dto.GenerateContentRequest) (*dto.GenerateContentResponse, error)
	GenerateStructured(ctx context.Context, req *dto.GenerateStructuredRequest) (*dto.GenerateStructuredResponse, error)
}

type contentGenerationService struct {
	runner warehouse.Runner
	cfg    *config.Config
	audit  IAuditPublisher
	log    logger.ILogger
}

func NewContentGenerationService(
	runner warehouse.Runner,
	cfg *config.Config,
	audit IAuditPublisher,
	log logger.ILogger,
) IContentGenerationService {
	return &contentGenerationService{
		runner: runner,
		cfg:    cfg,
		audit:  audit,
		log:    log,
	}
}

func (s *contentGenerationService) Generate(ctx context.Context, req *dto.GenerateContentRequest) (*dto.GenerateContentResponse, error) {
	modelName := req.ModelName
	if modelName == "" {
		modelName = s.cfg.Models.DefaultTextModel
	}

	temperature := defaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	params := map[string]interface{}{"temperature": temperature}
	for k, v := range req.Params {
		params[k] = v
	}

	query := fmt.Sprintf(`
        SELECT AI.GENERATE(
            %s,
            connection_id => %s,
            endpoint => %s
        ).result AS content`,
		warehouse.QuoteString(req.Prompt),
		warehouse.QuoteString(s.connectionID()),
		warehouse.QuoteString(modelName),
	)

	rows, err := s.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("content generation failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("content generation returned no rows")
	}

	output := extractText(rows[0], "content")

	id := uuid.New()
	now := time.Now()

	s.audit.Publish(ctx, dto.AuditKindGeneration, &entity.GenerationRecord{
		Id:             id,
		GenerationType: "content",
		Prompt:         req.Prompt,
		Output:         output,
		ModelName:      modelName,
		Parameters:     params,
		Status:         "completed",
		CreatedAt:      now,
	})

	return &dto.GenerateContentResponse{
		Id:         id,
		Content:    output,
		ModelName:  modelName,
		Parameters: params,
		Metadata: dto.GenerationMetadata{
			PromptLength: len(req.Prompt),
			OutputLength: len(output),
			GeneratedAt:  now,
		},
	}, nil
}

func (s *contentGenerationService) GenerateStructured(ctx context.Context, req *dto.GenerateStructuredRequest) (*dto.GenerateStructuredResponse, error) {
	modelName := req.ModelName
	if modelName == "" {
		modelName = s.cfg.Models.DefaultTextModel
	}

	outputSchema, err := schemaToColumnList(req.OutputSchema)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
        SELECT TO_JSON_STRING(AI.GENERATE(
            %s,
            connection_id => %s,
            endpoint => %s,
            output_schema => %s
        )) AS content`,
		warehouse.QuoteString(req.Prompt),
		warehouse.QuoteString(s.connectionID()),
		warehouse.QuoteString(modelName),
		warehouse.QuoteString(outputSchema),
	)

	rows, err := s.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("structured generation failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("structured generation returned no rows")
	}

	rawOutput := extractText(rows[0], "content")

	var content map[string]interface{}
	if err := json.Unmarshal([]byte(rawOutput), &content); err != nil {
		content = map[string]interface{}{}
	}

	compliance := CheckSchemaCompliance(content, req.OutputSchema)

	id := uuid.New()
	now := time.Now()

	s.audit.Publish(ctx, dto.AuditKindGeneration, &entity.GenerationRecord{
		Id:             id,
		GenerationType: "structured",
		Prompt:         req.Prompt,
		Output:         rawOutput,
		ModelName:      modelName,
		Schema:         req.OutputSchema,
		Status:         "completed",
		CreatedAt:      now,
	})

	return &dto.GenerateStructuredResponse{
		Id:         id,
		Content:    content,
		RawOutput:  rawOutput,
		Compliance: compliance,
		ModelName:  modelName,
		Metadata: dto.GenerationMetadata{
			PromptLength: len(req.Prompt),
			OutputLength: len(rawOutput),
			GeneratedAt:  now,
		},
	}, nil
}

func (s *contentGenerationService) connectionID() string {
	return fmt.Sprintf("%s.%s", s.cfg.Warehouse.Location, "ai_connection")
}

// schemaToColumnList converts the JSON-schema style properties map into the
// "name TYPE, ..." column list the structured generation operator takes.
func schemaToColumnList(schema map[string]interface{}) (string, error) {
	properties, ok := schema["properties"].(map[string]interface{})
	if !ok || len(properties) == 0 {
		return "", fmt.Errorf("output_schema must declare properties")
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]string, 0, len(names))
	for _, name := range names {
		columns = append(columns, fmt.Sprintf("%s %s", name, columnType(properties[name])))
	}
	return strings.Join(columns, ", "), nil
}

func columnType(property interface{}) string {
	spec, _ := property.(map[string]interface{})
	declared, _ := spec["type"].(string)
	switch declared {
	case "integer":
		return "INT64"
	case "number":
		return "FLOAT64"
	case "boolean":
		return "BOOL"
	default:
		return "STRING"
	}
}

// CheckSchemaCompliance validates decoded content against the requested
// output schema: required fields must be present, declared primitive types
// must match. Extra fields are reported but do not fail compliance on their
// own.
func CheckSchemaCompliance(content map[string]interface{}, schema map[string]interface{}) dto.SchemaCompliance {
	compliance := dto.SchemaCompliance{
		MissingFields:  []string{},
		ExtraFields:    []string{},
		TypeMismatches: []string{},
	}

	properties, _ := schema["properties"].(map[string]interface{})

	var required []string
	if list, ok := schema["required"].([]interface{}); ok {
		for _, item := range list {
			if name, ok := item.(string); ok {
				required = append(required, name)
			}
		}
	}

	for _, name := range required {
		if _, present := content[name]; !present {
			compliance.MissingFields = append(compliance.MissingFields, name)
		}
	}

	names := make([]string, 0, len(content))
	for name := range content {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec, declaredHere := properties[name]
		if !declaredHere {
			compliance.ExtraFields = append(compliance.ExtraFields, name)
			continue
		}
		if mismatch := typeMismatch(name, content[name], spec); mismatch != "" {
			compliance.TypeMismatches = append(compliance.TypeMismatches, mismatch)
		}
	}

	compliance.IsCompliant = len(compliance.MissingFields) == 0 && len(compliance.TypeMismatches) == 0
	return compliance
}

func typeMismatch(name string, value interface{}, property interface{}) string {
	spec, _ := property.(map[string]interface{})
	declared, _ := spec["type"].(string)
	if declared == "" {
		return ""
	}

	ok := true
	switch declared {
	case "string":
		_, ok = value.(string)
	case "boolean":
		_, ok = value.(bool)
	case "number":
		_, ok = value.(float64)
	case "integer":
		f, isFloat := value.(float64)
		ok = isFloat && f == math.Trunc(f)
	}

	if !ok {
		return fmt.Sprintf("%s: expected %s, got %T", name, declared, value)
	}
	return ""
}
