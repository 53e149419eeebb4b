package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/pkg/logger"
	"warehouse-ai-be/internal/repository/contract"
	"warehouse-ai-be/internal/warehouse"
)

const defaultContentType = "text"

type IEmbeddingService interface {
	Generate(ctx context.Context, req *dto.GenerateEmbeddingRequest) (*dto.GenerateEmbeddingResponse, error)
	GenerateBatch(ctx context.Context, req *dto.BatchGenerateEmbeddingRequest) (*dto.BatchGenerateEmbeddingResponse, error)
	GetByHash(ctx context.Context, contentHash string) (*dto.GenerateEmbeddingResponse, error)
	History(ctx context.Context, limit int, modelName, contentType string) ([]*dto.EmbeddingHistoryItem, error)
}

type embeddingService struct {
	runner     warehouse.Runner
	cfg        *config.Config
	embeddings contract.EmbeddingRepository
	audit      IAuditPublisher
	hashCache  *cache.Cache
	log        logger.ILogger
}

func NewEmbeddingService(
	runner warehouse.Runner,
	cfg *config.Config,
	embeddings contract.EmbeddingRepository,
	audit IAuditPublisher,
	log logger.ILogger,
) IEmbeddingService {
	return &embeddingService{
		runner:     runner,
		cfg:        cfg,
		embeddings: embeddings,
		audit:      audit,
		hashCache:  cache.New(1*time.Hour, 10*time.Minute),
		log:        log,
	}
}

func (s *embeddingService) Generate(ctx context.Context, req *dto.GenerateEmbeddingRequest) (*dto.GenerateEmbeddingResponse, error) {
	contentType := req.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	modelName := req.ModelName
	if modelName == "" {
		modelName = s.cfg.Models.DefaultEmbeddingModel
	}

	// The hash is an advisory dedup key for the GetByHash read path, never a
	// reason to skip the operator: the same content embeds differently under
	// a different model.
	contentHash := HashContent(req.Content)

	query := fmt.Sprintf(`
        SELECT ml_generate_embedding_result AS embedding
        FROM ML.GENERATE_EMBEDDING(
            MODEL `+"`%s`"+`,
            (SELECT %s AS content),
            STRUCT(TRUE AS flatten_json_output)
        )`,
		modelRef(s.cfg.Warehouse, modelName),
		warehouse.QuoteString(req.Content),
	)

	rows, err := s.runner.RunQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("embedding generation returned no rows")
	}

	vector := warehouse.Floats(rows[0], "embedding")

	res := &dto.GenerateEmbeddingResponse{
		Id:          uuid.New(),
		ContentType: contentType,
		ContentHash: contentHash,
		Vector:      vector,
		Dimensions:  len(vector),
		ModelName:   modelName,
		Metadata:    req.Metadata,
		CreatedAt:   time.Now(),
	}

	s.hashCache.Set(contentHash, res, cache.DefaultExpiration)

	s.audit.Publish(ctx, dto.AuditKindEmbedding, &entity.EmbeddingRecord{
		Id:          res.Id,
		ContentType: contentType,
		ContentHash: contentHash,
		Vector:      vector,
		ModelName:   modelName,
		Dimensions:  len(vector),
		Metadata:    req.Metadata,
		CreatedAt:   res.CreatedAt,
	})

	return res, nil
}

func (s *embeddingService) GenerateBatch(ctx context.Context, req *dto.BatchGenerateEmbeddingRequest) (*dto.BatchGenerateEmbeddingResponse, error) {
	results := make([]dto.BatchGenerateEmbeddingResult, 0, len(req.Requests))
	successful := 0

	for i := range req.Requests {
		item := req.Requests[i]
		res, err := s.Generate(ctx, &item)
		if err != nil {
			results = append(results, dto.BatchGenerateEmbeddingResult{
				Index: i,
				Error: err.Error(),
			})
			continue
		}
		successful++
		results = append(results, dto.BatchGenerateEmbeddingResult{
			Index:    i,
			Success:  true,
			Response: res,
		})
	}

	return &dto.BatchGenerateEmbeddingResponse{
		Results:        results,
		TotalProcessed: len(req.Requests),
		Successful:     successful,
	}, nil
}

// GetByHash never errors: a lookup failure or a miss both come back as an
// absent result.
func (s *embeddingService) GetByHash(ctx context.Context, contentHash string) (*dto.GenerateEmbeddingResponse, error) {
	if cached, found := s.hashCache.Get(contentHash); found {
		if res, ok := cached.(*dto.GenerateEmbeddingResponse); ok {
			return res, nil
		}
	}

	record, err := s.embeddings.FindByHash(ctx, contentHash)
	if err != nil {
		s.log.Warn("Embedding", "Hash lookup failed", map[string]interface{}{
			"content_hash": contentHash,
			"error":        err.Error(),
		})
		return nil, nil
	}
	if record == nil {
		return nil, nil
	}

	res := &dto.GenerateEmbeddingResponse{
		Id:          record.Id,
		ContentType: record.ContentType,
		ContentHash: record.ContentHash,
		Vector:      record.Vector,
		Dimensions:  record.Dimensions,
		ModelName:   record.ModelName,
		Metadata:    record.Metadata,
		CreatedAt:   record.CreatedAt,
	}
	s.hashCache.Set(contentHash, res, cache.DefaultExpiration)
	return res, nil
}

func (s *embeddingService) History(ctx context.Context, limit int, modelName, contentType string) ([]*dto.EmbeddingHistoryItem, error) {
	if limit <= 0 {
		limit = 50
	}

	records, err := s.embeddings.History(ctx, limit, modelName, contentType)
	if err != nil {
		s.log.Warn("Embedding", "History read failed", map[string]interface{}{
			"error": err.Error(),
		})
		return []*dto.EmbeddingHistoryItem{}, nil
	}

	items := make([]*dto.EmbeddingHistoryItem, 0, len(records))
	for _, r := range records {
		items = append(items, &dto.EmbeddingHistoryItem{
			Id:          r.Id,
			ContentType: r.ContentType,
			ContentHash: r.ContentHash,
			Dimensions:  r.Dimensions,
			ModelName:   r.ModelName,
			CreatedAt:   r.CreatedAt,
		})
	}
	return items, nil
}

// HashContent is the deterministic dedup key for embedding content.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
