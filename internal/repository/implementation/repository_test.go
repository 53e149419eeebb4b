package implementation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-ai-be/internal/config"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/warehouse"
)

type stubRunner struct {
	queries      []string
	execs        []string
	insertedInto []string
	insertedRows [][]warehouse.Row

	queryRows []warehouse.Row
	queryErr  error
	execErr   error
}

func (s *stubRunner) RunQuery(_ context.Context, sql string) ([]warehouse.Row, error) {
	s.queries = append(s.queries, sql)
	return s.queryRows, s.queryErr
}

func (s *stubRunner) Exec(_ context.Context, sql string) error {
	s.execs = append(s.execs, sql)
	return s.execErr
}

func (s *stubRunner) InsertRows(_ context.Context, table string, rows []warehouse.Row) error {
	s.insertedInto = append(s.insertedInto, table)
	s.insertedRows = append(s.insertedRows, rows)
	return nil
}

func (s *stubRunner) CreateTable(context.Context, string, bigquery.Schema) error { return nil }
func (s *stubRunner) DeleteTable(context.Context, string) error                  { return nil }

func repoConfig() config.WarehouseConfig {
	return config.WarehouseConfig{
		ProjectID: "test-project",
		Location:  "US",
		DatasetID: "test_dataset",
		Bucket:    "test-bucket",
	}
}

func TestGenerationStoreRow(t *testing.T) {
	runner := &stubRunner{}
	repo := NewGenerationRepository(runner, repoConfig())

	id := uuid.New()
	err := repo.Store(context.Background(), &entity.GenerationRecord{
		Id:             id,
		GenerationType: "text_generation",
		Prompt:         "say hello",
		Output:         "hello",
		ModelName:      "gemini-pro",
		Parameters:     map[string]interface{}{"temperature": 0.7},
		Status:         "completed",
		CreatedAt:      time.Now(),
	})
	require.NoError(t, err)

	require.Equal(t, []string{"generated_content"}, runner.insertedInto)
	row := runner.insertedRows[0][0]
	assert.Equal(t, id.String(), row["id"])
	assert.Equal(t, "say hello", row["prompt"])
	assert.Equal(t, "hello", row["generated_content"])
	assert.Equal(t, `{"temperature":0.7}`, row["parameters"])
	_, hasSchema := row["schema"]
	assert.False(t, hasSchema)
}

func TestGenerationStoreIncludesSchemaWhenSet(t *testing.T) {
	runner := &stubRunner{}
	repo := NewGenerationRepository(runner, repoConfig())

	err := repo.Store(context.Background(), &entity.GenerationRecord{
		Id:     uuid.New(),
		Schema: map[string]interface{}{"type": "object"},
	})
	require.NoError(t, err)

	row := runner.insertedRows[0][0]
	assert.Equal(t, `{"type":"object"}`, row["schema"])
}

func TestGenerationHistoryQuery(t *testing.T) {
	id := uuid.New()
	runner := &stubRunner{
		queryRows: []warehouse.Row{
			{
				"id":                id.String(),
				"generation_type":   "text_generation",
				"prompt":            "p",
				"generated_content": "out",
				"model_name":        "gemini-pro",
				"parameters":        `{"temperature":0.7}`,
				"status":            "completed",
				"created_at":        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			},
		},
	}
	repo := NewGenerationRepository(runner, repoConfig())

	records, err := repo.History(context.Background(), 25, "gemini-pro")
	require.NoError(t, err)

	require.Len(t, runner.queries, 1)
	sql := runner.queries[0]
	assert.Contains(t, sql, "`test-project.test_dataset.generated_content`")
	assert.Contains(t, sql, "AND model_name = 'gemini-pro'")
	assert.Contains(t, sql, "ORDER BY created_at DESC")
	assert.Contains(t, sql, "LIMIT 25")

	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].Id)
	assert.Equal(t, "out", records[0].Output)
	assert.Equal(t, 0.7, records[0].Parameters["temperature"])
}

func TestGenerationHistoryNoModelFilter(t *testing.T) {
	runner := &stubRunner{}
	repo := NewGenerationRepository(runner, repoConfig())

	_, err := repo.History(context.Background(), 10, "")
	require.NoError(t, err)
	assert.NotContains(t, runner.queries[0], "AND model_name")
}

func TestEmbeddingFindByHashMiss(t *testing.T) {
	runner := &stubRunner{}
	repo := NewEmbeddingRepository(runner, repoConfig())

	record, err := repo.FindByHash(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Nil(t, record)

	sql := runner.queries[0]
	assert.Contains(t, sql, "WHERE content_hash = 'abc123'")
	assert.Contains(t, sql, "LIMIT 1")
}

func TestEmbeddingFindByHashHit(t *testing.T) {
	id := uuid.New()
	runner := &stubRunner{
		queryRows: []warehouse.Row{
			{
				"id":               id.String(),
				"content_type":     "text",
				"content_hash":     "abc123",
				"embedding_vector": []bigquery.Value{0.1, 0.2},
				"model_name":       "text-embedding-001",
				"dimensions":       int64(2),
				"metadata":         "",
				"created_at":       time.Now(),
			},
		},
	}
	repo := NewEmbeddingRepository(runner, repoConfig())

	record, err := repo.FindByHash(context.Background(), "abc123")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, id, record.Id)
	assert.Equal(t, []float64{0.1, 0.2}, record.Vector)
	assert.Equal(t, 2, record.Dimensions)
	assert.Nil(t, record.Metadata)
}

func TestEmbeddingFindByHashQueryError(t *testing.T) {
	runner := &stubRunner{queryErr: errors.New("quota exceeded")}
	repo := NewEmbeddingRepository(runner, repoConfig())

	record, err := repo.FindByHash(context.Background(), "abc123")
	assert.Error(t, err)
	assert.Nil(t, record)
}

func TestEmbeddingHistoryFilters(t *testing.T) {
	runner := &stubRunner{}
	repo := NewEmbeddingRepository(runner, repoConfig())

	_, err := repo.History(context.Background(), 50, "text-embedding-001", "document")
	require.NoError(t, err)

	sql := runner.queries[0]
	assert.Contains(t, sql, "AND model_name = 'text-embedding-001'")
	assert.Contains(t, sql, "AND content_type = 'document'")
}

func TestIndexMetadataRemove(t *testing.T) {
	runner := &stubRunner{}
	repo := NewIndexMetadataRepository(runner, repoConfig())

	err := repo.Remove(context.Background(), "docs_idx")
	require.NoError(t, err)

	require.Len(t, runner.execs, 1)
	assert.Contains(t, runner.execs[0], "DELETE FROM `test-project.test_dataset.vector_indexes_metadata`")
	assert.Contains(t, runner.execs[0], "WHERE index_name = 'docs_idx'")
}

func TestObjectRefUsageStats(t *testing.T) {
	runner := &stubRunner{
		queryRows: []warehouse.Row{
			{
				"total_refs":      int64(4),
				"distinct_types":  int64(2),
				"total_analyses":  int64(7),
				"analyzed_models": []bigquery.Value{"gemini-pro"},
			},
		},
	}
	repo := NewObjectMetadataRepository(runner, repoConfig())

	stats, err := repo.RefUsageStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats["total_refs"])
	assert.Equal(t, int64(7), stats["total_analyses"])
	assert.Equal(t, []string{"gemini-pro"}, stats["analyzed_models"])

	require.Len(t, runner.queries, 2)
	assert.True(t, strings.Contains(runner.queries[0], "object_refs_metadata") || strings.Contains(runner.queries[1], "object_refs_metadata"))
}

func TestJSONCodecRoundTrip(t *testing.T) {
	assert.Equal(t, "", jsonText(nil))
	assert.Nil(t, jsonMap(""))
	assert.Nil(t, jsonMap("{broken"))

	encoded := jsonText(map[string]interface{}{"k": "v"})
	assert.Equal(t, map[string]interface{}{"k": "v"}, jsonMap(encoded))
}
