package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmbeddingRecord is one embedding computation. ContentHash is the advisory
// dedup key: lookups by hash may miss even when the computation succeeded.
type EmbeddingRecord struct {
	Id          uuid.UUID
	ContentType string
	ContentHash string
	Vector      []float64
	ModelName   string
	Dimensions  int
	Metadata    map[string]interface{}
	CreatedAt   time.Time
}
