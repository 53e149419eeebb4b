package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateEmbeddingRequest struct {
	Content     string                 `json:"content" validate:"required"`
	ContentType string                 `json:"content_type,omitempty" validate:"omitempty,oneof=text document query"`
	ModelName   string                 `json:"model_name,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type GenerateEmbeddingResponse struct {
	Id          uuid.UUID              `json:"id"`
	ContentType string                 `json:"content_type"`
	ContentHash string                 `json:"content_hash"`
	Vector      []float64              `json:"vector"`
	Dimensions  int                    `json:"dimensions"`
	ModelName   string                 `json:"model_name"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type BatchGenerateEmbeddingRequest struct {
	Requests []GenerateEmbeddingRequest `json:"requests" validate:"required,min=1,max=100,dive"`
}

type BatchGenerateEmbeddingResult struct {
	Index    int                        `json:"index"`
	Success  bool                       `json:"success"`
	Response *GenerateEmbeddingResponse `json:"response,omitempty"`
	Error    string                     `json:"error,omitempty"`
}

type BatchGenerateEmbeddingResponse struct {
	Results        []BatchGenerateEmbeddingResult `json:"results"`
	TotalProcessed int                            `json:"total_processed"`
	Successful     int                            `json:"successful"`
}

type EmbeddingHistoryItem struct {
	Id          uuid.UUID `json:"id"`
	ContentType string    `json:"content_type"`
	ContentHash string    `json:"content_hash"`
	Dimensions  int       `json:"dimensions"`
	ModelName   string    `json:"model_name"`
	CreatedAt   time.Time `json:"created_at"`
}
