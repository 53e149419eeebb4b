package entity

import (
	"time"

	"github.com/google/uuid"
)

// SearchRecord is one similarity search call.
type SearchRecord struct {
	Id              uuid.UUID
	QueryVector     []float64
	TableID         string
	EmbeddingColumn string
	TopK            int
	DistanceType    string
	ResultsCount    int
	Filters         map[string]interface{}
	CreatedAt       time.Time
}
