package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/pkg/logger"
	"warehouse-ai-be/internal/warehouse"
)

const (
	defaultHorizon         = 30
	defaultConfidenceLevel = 0.95
	defaultTimeColumn      = "ts"
	defaultTargetColumn    = "value"
)

type IForecastService interface {
	Forecast(ctx context.Context, req *dto.ForecastRequest) (*dto.ForecastResponse, error)
}

type forecastService struct {
	runner warehouse.Runner
	cfg    *config.Config
	audit  IAuditPublisher
	log    logger.ILogger
}

func NewForecastService(
	runner warehouse.Runner,
	cfg *config.Config,
	audit IAuditPublisher,
	log logger.ILogger,
) IForecastService {
	return &forecastService{
		runner: runner,
		cfg:    cfg,
		audit:  audit,
		log:    log,
	}
}

func (s *forecastService) Forecast(ctx context.Context, req *dto.ForecastRequest) (*dto.ForecastResponse, error) {
	hasPoints := len(req.Points) > 0
	hasTable := req.TableID != ""
	if hasPoints == hasTable {
		return nil, fmt.Errorf("exactly one of points or table_id must be provided")
	}

	timeColumn := req.TimeColumn
	if timeColumn == "" {
		timeColumn = defaultTimeColumn
	}
	targetColumn := req.TargetColumn
	if targetColumn == "" {
		targetColumn = defaultTargetColumn
	}
	horizon := req.Horizon
	if horizon <= 0 {
		horizon = defaultHorizon
	}
	confidence := defaultConfidenceLevel
	if req.ConfidenceLevel != nil {
		confidence = *req.ConfidenceLevel
	}
	modelName := req.ModelName
	if modelName == "" {
		modelName = s.cfg.Models.DefaultForecastModel
	}

	args := forecastArgs{
		timeColumn:      timeColumn,
		targetColumn:    targetColumn,
		horizon:         horizon,
		confidenceLevel: confidence,
		modelName:       modelName,
		seasonality:     req.Seasonality,
		trend:           req.Trend,
	}

	var (
		sourceTable string
		dataPoints  int
		rows        []warehouse.Row
		err         error
	)

	if hasPoints {
		dataPoints = len(req.Points)
		rows, err = s.forecastInline(ctx, req, args)
	} else {
		sourceTable = req.TableID
		rows, err = s.forecastTable(ctx, req, args)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("forecast returned no rows")
	}

	forecast := make([]dto.ForecastPoint, 0, len(rows))
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		point := dto.ForecastPoint{
			Timestamp:  warehouse.Timestamp(row, "forecast_timestamp"),
			Value:      warehouse.Float(row, "forecast_value"),
			LowerBound: warehouse.Float(row, "prediction_interval_lower_bound"),
			UpperBound: warehouse.Float(row, "prediction_interval_upper_bound"),
		}
		forecast = append(forecast, point)
		values = append(values, point.Value)
	}

	metrics := dto.ForecastMetrics{
		Mean:            mean(values),
		Range:           valueRange(values),
		StdDev:          sampleStdDev(values),
		ConfidenceLevel: confidence,
	}

	id := uuid.New()
	s.audit.Publish(ctx, dto.AuditKindForecast, &entity.ForecastRecord{
		Id:           id,
		TargetColumn: targetColumn,
		TimeColumn:   timeColumn,
		Horizon:      horizon,
		ModelName:    modelName,
		SourceTable:  sourceTable,
		DataPoints:   dataPoints,
		Result: map[string]interface{}{
			"forecast_points": len(forecast),
			"mean":            metrics.Mean,
			"std_dev":         metrics.StdDev,
		},
		Parameters: forecastParams(req, confidence),
		CreatedAt:  time.Now(),
	})

	return &dto.ForecastResponse{
		Id:         id,
		Forecast:   forecast,
		Metrics:    metrics,
		Horizon:    horizon,
		ModelName:  modelName,
		DataPoints: dataPoints,
	}, nil
}

// forecastInline loads the inline points into a uniquely named temporary
// table, forecasts over it, and drops the table on the way out. The deferred
// delete is the only delete; it runs on success and error paths alike.
func (s *forecastService) forecastInline(ctx context.Context, req *dto.ForecastRequest, args forecastArgs) ([]warehouse.Row, error) {
	tempTable, err := tempForecastTableName()
	if err != nil {
		return nil, err
	}

	schema := bigquery.Schema{
		{Name: args.timeColumn, Type: bigquery.TimestampFieldType},
		{Name: args.targetColumn, Type: bigquery.FloatFieldType},
	}
	if err := s.runner.CreateTable(ctx, tempTable, schema); err != nil {
		return nil, fmt.Errorf("create temp forecast table: %w", err)
	}
	defer func() {
		if err := s.runner.DeleteTable(context.WithoutCancel(ctx), tempTable); err != nil {
			s.log.Warn("Forecast", "Failed to drop temp table", map[string]interface{}{
				"table": tempTable,
				"error": err.Error(),
			})
		}
	}()

	insertRows := make([]warehouse.Row, 0, len(req.Points))
	for _, p := range req.Points {
		insertRows = append(insertRows, warehouse.Row{
			args.timeColumn:   p.Timestamp,
			args.targetColumn: p.Value,
		})
	}
	if err := s.runner.InsertRows(ctx, tempTable, insertRows); err != nil {
		return nil, fmt.Errorf("load forecast data: %w", err)
	}

	query := s.forecastQuery(s.cfg.Warehouse.FullTableID(tempTable), "", args)
	rows, err := s.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("forecast failed: %w", err)
	}
	return rows, nil
}

func (s *forecastService) forecastTable(ctx context.Context, req *dto.ForecastRequest, args forecastArgs) ([]warehouse.Row, error) {
	query := s.forecastQuery(req.TableID, req.Where, args)
	rows, err := s.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("forecast failed: %w", err)
	}
	return rows, nil
}

// forecastArgs is everything the operator call itself needs; seasonality and
// trend are optional tuning arguments rendered only when supplied.
type forecastArgs struct {
	timeColumn      string
	targetColumn    string
	horizon         int
	confidenceLevel float64
	modelName       string
	seasonality     *float64
	trend           string
}

func (s *forecastService) forecastQuery(tableID, where string, args forecastArgs) string {
	source := fmt.Sprintf("SELECT * FROM `%s`", tableID)
	if where != "" {
		source += " WHERE " + where
	}

	operatorArgs := []string{
		fmt.Sprintf("data_col => %s", warehouse.QuoteString(args.targetColumn)),
		fmt.Sprintf("timestamp_col => %s", warehouse.QuoteString(args.timeColumn)),
		fmt.Sprintf("model => %s", warehouse.QuoteString(args.modelName)),
		fmt.Sprintf("horizon => %d", args.horizon),
		fmt.Sprintf("confidence_level => %s", warehouse.Literal(args.confidenceLevel)),
	}
	if args.seasonality != nil {
		operatorArgs = append(operatorArgs, fmt.Sprintf("seasonality => %s", warehouse.Literal(*args.seasonality)))
	}
	if args.trend != "" {
		operatorArgs = append(operatorArgs, fmt.Sprintf("trend => %s", warehouse.QuoteString(args.trend)))
	}

	return fmt.Sprintf(`
        SELECT
            forecast_timestamp,
            forecast_value,
            prediction_interval_lower_bound,
            prediction_interval_upper_bound
        FROM AI.FORECAST(
            (%s),
            %s
        )`,
		source,
		strings.Join(operatorArgs, ",\n            "),
	)
}

func forecastParams(req *dto.ForecastRequest, confidence float64) map[string]interface{} {
	params := map[string]interface{}{
		"confidence_level": confidence,
	}
	if req.Seasonality != nil {
		params["seasonality"] = *req.Seasonality
	}
	if req.Trend != "" {
		params["trend"] = req.Trend
	}
	for k, v := range req.Params {
		params[k] = v
	}
	return params
}

func tempForecastTableName() (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate temp table name: %w", err)
	}
	return "temp_forecast_" + hex.EncodeToString(suffix), nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func valueRange(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max - min
}

// sampleStdDev is the Bessel-corrected sample standard deviation; fewer than
// two values yields 0.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
