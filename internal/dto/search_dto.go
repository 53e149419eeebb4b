package dto

import "github.com/google/uuid"

type VectorSearchRequest struct {
	QueryVector     []float64              `json:"query_vector" validate:"required,min=1"`
	TableID         string                 `json:"table_id" validate:"required"`
	EmbeddingColumn string                 `json:"embedding_column,omitempty"`
	TopK            int                    `json:"top_k,omitempty" validate:"omitempty,gte=1,lte=100"`
	DistanceType    string                 `json:"distance_type,omitempty" validate:"omitempty,oneof=cosine euclidean dot_product"`
	Filters         map[string]interface{} `json:"filters,omitempty"`
}

type SearchResult struct {
	SimilarityScore float64                `json:"similarity_score"`
	Data            map[string]interface{} `json:"data"`
}

type SearchMetrics struct {
	AvgScore     float64        `json:"avg_score"`
	MaxScore     float64        `json:"max_score"`
	MinScore     float64        `json:"min_score"`
	ScoreRange   float64        `json:"score_range"`
	Distribution map[string]int `json:"distribution,omitempty"`
}

type VectorSearchResponse struct {
	Id           uuid.UUID      `json:"id"`
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"total_results"`
	DistanceType string         `json:"distance_type"`
	Metrics      *SearchMetrics `json:"metrics,omitempty"`
}
