package entity

import (
	"time"

	"github.com/google/uuid"
)

// ForecastRecord is one forecasting call. SourceTable is empty when the call
// ran against inline data loaded into a temporary table.
type ForecastRecord struct {
	Id           uuid.UUID
	TargetColumn string
	TimeColumn   string
	Horizon      int
	ModelName    string
	SourceTable  string
	DataPoints   int
	Result       map[string]interface{}
	Parameters   map[string]interface{}
	CreatedAt    time.Time
}
