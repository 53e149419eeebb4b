package dto

import (
	"time"

	"github.com/google/uuid"
)

type TimeSeriesPoint struct {
	Timestamp time.Time `json:"timestamp" validate:"required"`
	Value     float64   `json:"value"`
}

// ForecastRequest accepts either inline data points or a reference to an
// existing table. Exactly one of the two must be provided; the controller
// relies on the service to enforce that.
type ForecastRequest struct {
	Points          []TimeSeriesPoint      `json:"points,omitempty" validate:"omitempty,min=2,dive"`
	TableID         string                 `json:"table_id,omitempty"`
	Where           string                 `json:"where,omitempty"`
	TimeColumn      string                 `json:"time_column,omitempty"`
	TargetColumn    string                 `json:"target_column,omitempty"`
	Horizon         int                    `json:"horizon,omitempty" validate:"omitempty,gte=1,lte=1000"`
	ConfidenceLevel *float64               `json:"confidence_level,omitempty" validate:"omitempty,gt=0,lt=1"`
	Seasonality     *float64               `json:"seasonality,omitempty"`
	Trend           string                 `json:"trend,omitempty"`
	ModelName       string                 `json:"model_name,omitempty"`
	Params          map[string]interface{} `json:"params,omitempty"`
}

type ForecastPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Value      float64   `json:"value"`
	LowerBound float64   `json:"lower_bound"`
	UpperBound float64   `json:"upper_bound"`
}

type ForecastMetrics struct {
	Mean            float64                `json:"mean"`
	Range           float64                `json:"range"`
	StdDev          float64                `json:"std_dev"`
	ConfidenceLevel float64                `json:"confidence_level"`
	ModelInfo       map[string]interface{} `json:"model_info,omitempty"`
}

type ForecastResponse struct {
	Id         uuid.UUID              `json:"id"`
	Forecast   []ForecastPoint        `json:"forecast"`
	Metrics    ForecastMetrics        `json:"metrics"`
	Horizon    int                    `json:"horizon"`
	ModelName  string                 `json:"model_name"`
	DataPoints int                    `json:"data_points"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
