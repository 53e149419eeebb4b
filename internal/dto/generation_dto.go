package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateTextRequest struct {
	Prompt      string                 `json:"prompt" validate:"required"`
	ModelName   string                 `json:"model_name,omitempty"`
	Temperature *float64               `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=1"`
	MaxTokens   *int                   `json:"max_tokens,omitempty" validate:"omitempty,gte=1,lte=8192"`
	TopP        *float64               `json:"top_p,omitempty" validate:"omitempty,gte=0,lte=1"`
	TopK        *int                   `json:"top_k,omitempty" validate:"omitempty,gte=1"`
	Params      map[string]interface{} `json:"params,omitempty"`
}

type GenerateTextResponse struct {
	Id            uuid.UUID              `json:"id"`
	GeneratedText string                 `json:"generated_text"`
	ModelName     string                 `json:"model_name"`
	Parameters    map[string]interface{} `json:"parameters"`
	Metadata      GenerationMetadata     `json:"metadata"`
}

type GenerationMetadata struct {
	PromptLength int       `json:"prompt_length"`
	OutputLength int       `json:"output_length"`
	GeneratedAt  time.Time `json:"generated_at"`
}

type BatchGenerateTextRequest struct {
	Requests []GenerateTextRequest `json:"requests" validate:"required,min=1,max=50,dive"`
}

// BatchGenerateTextResult is one slot of a batch response. Exactly one of
// Response or Error is set; slots keep the order of the incoming requests.
type BatchGenerateTextResult struct {
	Index    int                   `json:"index"`
	Success  bool                  `json:"success"`
	Response *GenerateTextResponse `json:"response,omitempty"`
	Error    string                `json:"error,omitempty"`
}

type BatchGenerateTextResponse struct {
	Results        []BatchGenerateTextResult `json:"results"`
	TotalProcessed int                       `json:"total_processed"`
	Successful     int                       `json:"successful"`
}

type GenerationHistoryItem struct {
	Id             uuid.UUID              `json:"id"`
	GenerationType string                 `json:"generation_type"`
	Prompt         string                 `json:"prompt"`
	GeneratedText  string                 `json:"generated_text"`
	ModelName      string                 `json:"model_name"`
	Parameters     map[string]interface{} `json:"parameters,omitempty"`
	Status         string                 `json:"status"`
	CreatedAt      time.Time              `json:"created_at"`
}

type GenerateContentRequest struct {
	Prompt      string                 `json:"prompt" validate:"required"`
	ModelName   string                 `json:"model_name,omitempty"`
	Temperature *float64               `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=1"`
	Params      map[string]interface{} `json:"params,omitempty"`
}

type GenerateContentResponse struct {
	Id         uuid.UUID              `json:"id"`
	Content    string                 `json:"content"`
	ModelName  string                 `json:"model_name"`
	Parameters map[string]interface{} `json:"parameters"`
	Metadata   GenerationMetadata     `json:"metadata"`
}

type GenerateStructuredRequest struct {
	Prompt       string                 `json:"prompt" validate:"required"`
	OutputSchema map[string]interface{} `json:"output_schema" validate:"required"`
	ModelName    string                 `json:"model_name,omitempty"`
	Temperature  *float64               `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// SchemaCompliance is computed locally against the requested output schema,
// not by the warehouse.
type SchemaCompliance struct {
	IsCompliant    bool     `json:"is_compliant"`
	MissingFields  []string `json:"missing_fields"`
	ExtraFields    []string `json:"extra_fields"`
	TypeMismatches []string `json:"type_mismatches"`
}

type GenerateStructuredResponse struct {
	Id         uuid.UUID              `json:"id"`
	Content    map[string]interface{} `json:"content"`
	RawOutput  string                 `json:"raw_output"`
	Compliance SchemaCompliance       `json:"schema_compliance"`
	ModelName  string                 `json:"model_name"`
	Metadata   GenerationMetadata     `json:"metadata"`
}
