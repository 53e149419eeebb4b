package dto

import "encoding/json"

// Audit record kinds carried over the in-process audit topic.
const (
	AuditKindGeneration  = "generation"
	AuditKindEmbedding   = "embedding"
	AuditKindForecast    = "forecast"
	AuditKindSearch      = "search"
	AuditKindIndexCreate = "index_create"
	AuditKindIndexDrop   = "index_drop"
	AuditKindObjectTable = "object_table"
	AuditKindObjectRef   = "object_ref"
	AuditKindRefAnalysis = "ref_analysis"
)

type AuditMessage struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}
