package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/pkg/logger"
	"warehouse-ai-be/internal/warehouse"
)

const (
	defaultTopK            = 10
	defaultDistanceType    = "cosine"
	defaultEmbeddingColumn = "embedding"
)

type IVectorSearchService interface {
	Search(ctx context.Context, req *dto.VectorSearchRequest) (*dto.VectorSearchResponse, error)
}

type vectorSearchService struct {
	runner warehouse.Runner
	cfg    *config.Config
	audit  IAuditPublisher
	log    logger.ILogger
}

func NewVectorSearchService(
	runner warehouse.Runner,
	cfg *config.Config,
	audit IAuditPublisher,
	log logger.ILogger,
) IVectorSearchService {
	return &vectorSearchService{
		runner: runner,
		cfg:    cfg,
		audit:  audit,
		log:    log,
	}
}

func (s *vectorSearchService) Search(ctx context.Context, req *dto.VectorSearchRequest) (*dto.VectorSearchResponse, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	distanceType := req.DistanceType
	if distanceType == "" {
		distanceType = defaultDistanceType
	}
	embeddingColumn := req.EmbeddingColumn
	if embeddingColumn == "" {
		embeddingColumn = defaultEmbeddingColumn
	}

	source := fmt.Sprintf("SELECT * FROM `%s`", req.TableID)
	if where := BuildWhereClause(req.Filters); where != "" {
		source += " WHERE " + where
	}

	query := fmt.Sprintf(`
        SELECT base.*, distance
        FROM VECTOR_SEARCH(
            (%s),
            %s,
            (SELECT %s AS query_vector),
            top_k => %d,
            distance_type => %s
        )`,
		source,
		warehouse.QuoteString(embeddingColumn),
		warehouse.FloatArray(req.QueryVector),
		topK,
		warehouse.QuoteString(strings.ToUpper(distanceType)),
	)

	rows, err := s.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	// Zero matches is a valid outcome, unlike the generation operators.
	// Rank by the raw signed distance: smaller always means more similar,
	// including the negated dot-product distances which go below zero.
	type scoredRow struct {
		distance float64
		data     map[string]interface{}
	}
	scored := make([]scoredRow, 0, len(rows))
	for _, row := range rows {
		distance := warehouse.Float(row, "distance")
		data := warehouse.NormalizeRow(row)
		delete(data, "distance")
		delete(data, embeddingColumn)
		scored = append(scored, scoredRow{distance: distance, data: data})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].distance < scored[j].distance
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}

	results := make([]dto.SearchResult, 0, len(scored))
	for _, sr := range scored {
		results = append(results, dto.SearchResult{
			SimilarityScore: similarityFromDistance(sr.distance),
			Data:            sr.data,
		})
	}

	id := uuid.New()
	s.audit.Publish(ctx, dto.AuditKindSearch, &entity.SearchRecord{
		Id:              id,
		QueryVector:     req.QueryVector,
		TableID:         req.TableID,
		EmbeddingColumn: embeddingColumn,
		TopK:            topK,
		DistanceType:    distanceType,
		ResultsCount:    len(results),
		Filters:         req.Filters,
		CreatedAt:       time.Now(),
	})

	return &dto.VectorSearchResponse{
		Id:           id,
		Results:      results,
		TotalResults: len(results),
		DistanceType: distanceType,
		Metrics:      SearchMetricsFor(results),
	}, nil
}

// similarityFromDistance maps a signed distance to a score in (0, 1),
// strictly decreasing over all of it, so descending score always agrees with
// ascending distance. Dot-product distances are negative for similar
// vectors; the logistic keeps those above 0.5 and everything else below.
func similarityFromDistance(distance float64) float64 {
	return 1 / (1 + math.Exp(distance))
}

// BuildWhereClause translates a filter map into a conjunctive WHERE clause:
// strings become quoted equality, numbers stay unquoted, lists become IN.
// Keys are sorted so the generated text is stable.
func BuildWhereClause(filters map[string]interface{}) string {
	if len(filters) == 0 {
		return ""
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conditions := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := filters[k].(type) {
		case []interface{}:
			conditions = append(conditions, fmt.Sprintf("%s IN %s", k, warehouse.Literal(v)))
		default:
			conditions = append(conditions, fmt.Sprintf("%s = %s", k, warehouse.Literal(v)))
		}
	}
	return strings.Join(conditions, " AND ")
}

// SearchMetricsFor summarizes result scores plus a frequency distribution
// over a category-like field when the rows carry one.
func SearchMetricsFor(results []dto.SearchResult) *dto.SearchMetrics {
	if len(results) == 0 {
		return nil
	}

	min, max, sum := results[0].SimilarityScore, results[0].SimilarityScore, 0.0
	for _, r := range results {
		if r.SimilarityScore < min {
			min = r.SimilarityScore
		}
		if r.SimilarityScore > max {
			max = r.SimilarityScore
		}
		sum += r.SimilarityScore
	}

	metrics := &dto.SearchMetrics{
		AvgScore:   sum / float64(len(results)),
		MaxScore:   max,
		MinScore:   min,
		ScoreRange: max - min,
	}

	distribution := map[string]int{}
	for _, r := range results {
		for _, field := range []string{"category", "type"} {
			if label, ok := r.Data[field].(string); ok {
				distribution[label]++
				break
			}
		}
	}
	if len(distribution) > 0 {
		metrics.Distribution = distribution
	}
	return metrics
}
