package entity

import (
	"time"

	"github.com/google/uuid"
)

// GenerationRecord is one text or content generation call, appended to the
// generated_content audit table. Never updated or deleted by this service.
type GenerationRecord struct {
	Id             uuid.UUID
	GenerationType string // "text_generation" | "ai_generate" | "ai_generate_structured"
	Prompt         string
	Output         string
	ModelName      string
	Parameters     map[string]interface{}
	Schema         map[string]interface{} // only for structured generation
	Status         string
	CreatedAt      time.Time
}
