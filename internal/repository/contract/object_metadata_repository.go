package contract

import (
	"context"

	"warehouse-ai-be/internal/entity"
)

// ObjectAnalysisRecord is one AI analysis over a single object reference.
type ObjectAnalysisRecord struct {
	AnalysisID string
	ObjectRef  string
	Prompt     string
	Result     string
	ModelName  string
	Parameters map[string]interface{}
}

type ObjectMetadataRepository interface {
	StoreTable(ctx context.Context, record *entity.ObjectTableMetadata) error
	StoreRef(ctx context.Context, record *entity.ObjectRefMetadata) error
	StoreAnalysis(ctx context.Context, record *ObjectAnalysisRecord) error
	// RefUsageStats aggregates over the ref metadata and analysis audit
	// tables.
	RefUsageStats(ctx context.Context) (map[string]interface{}, error)
}
