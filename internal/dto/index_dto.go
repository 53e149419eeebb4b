package dto

import "time"

type CreateIndexRequest struct {
	IndexName       string                 `json:"index_name" validate:"required"`
	TableID         string                 `json:"table_id" validate:"required"`
	EmbeddingColumn string                 `json:"embedding_column,omitempty"`
	DistanceType    string                 `json:"distance_type,omitempty" validate:"omitempty,oneof=cosine euclidean dot_product"`
	IndexType       string                 `json:"index_type,omitempty" validate:"omitempty,oneof=ivf tree_ah"`
	Options         map[string]interface{} `json:"options,omitempty"`
}

type CreateIndexResponse struct {
	IndexName       string    `json:"index_name"`
	TableID         string    `json:"table_id"`
	EmbeddingColumn string    `json:"embedding_column"`
	DistanceType    string    `json:"distance_type"`
	IndexType       string    `json:"index_type"`
	CreatedAt       time.Time `json:"created_at"`
}

type IndexInfo struct {
	IndexName          string  `json:"index_name"`
	TableName          string  `json:"table_name"`
	Status             string  `json:"status"`
	CoveragePercentage float64 `json:"coverage_percentage"`
	DistanceType       string  `json:"distance_type,omitempty"`
	IndexType          string  `json:"index_type,omitempty"`
}

type IndexMetrics struct {
	SizeMB          float64 `json:"size_mb"`
	RowCount        int64   `json:"row_count"`
	EfficiencyScore float64 `json:"efficiency_score"`
}

type IndexStatusResponse struct {
	Info    IndexInfo     `json:"info"`
	Metrics *IndexMetrics `json:"metrics,omitempty"`
}

type OptimizeIndexRequest struct {
	Options map[string]interface{} `json:"options,omitempty"`
}

type OptimizeIndexResponse struct {
	IndexName string `json:"index_name"`
	Status    string `json:"status"`
}
