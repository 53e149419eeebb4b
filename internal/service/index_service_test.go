package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/warehouse"
)

func TestEfficiencyScore(t *testing.T) {
	tests := []struct {
		name      string
		rowCount  int64
		sizeBytes float64
		want      float64
	}{
		{name: "no rows", rowCount: 0, sizeBytes: 1000, want: 0},
		{name: "zero bytes per row", rowCount: 100, sizeBytes: 0, want: 100},
		{name: "at assumed optimum", rowCount: 10, sizeBytes: 1000, want: 50},
		{name: "half the optimum", rowCount: 10, sizeBytes: 500, want: 75},
		{name: "clamped at zero", rowCount: 1, sizeBytes: 100000, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EfficiencyScore(tt.rowCount, tt.sizeBytes), 1e-9)
		})
	}
}

func TestIndexCreate(t *testing.T) {
	runner := &fakeRunner{}
	audit := &fakeAudit{}
	svc := NewIndexService(runner, testConfig(), audit, nopLogger{})

	res, err := svc.Create(context.Background(), &dto.CreateIndexRequest{
		IndexName: "docs_idx",
		TableID:   "test-project.test_dataset.docs",
		Options:   map[string]interface{}{"num_clusters": float64(50), "ignored_key": "x"},
	})
	require.NoError(t, err)

	assert.Equal(t, "docs_idx", res.IndexName)
	assert.Equal(t, "embedding", res.EmbeddingColumn)
	assert.Equal(t, "cosine", res.DistanceType)
	assert.Equal(t, "ivf", res.IndexType)

	require.Len(t, runner.execs, 1)
	assert.Contains(t, runner.execs[0], "CREATE VECTOR INDEX `docs_idx`")
	assert.Contains(t, runner.execs[0], "distance_type = 'COSINE'")
	assert.Contains(t, runner.execs[0], "index_type = 'IVF'")
	assert.Contains(t, runner.execs[0], "num_clusters = 50")
	assert.NotContains(t, runner.execs[0], "ignored_key")

	require.Equal(t, []string{dto.AuditKindIndexCreate}, audit.kinds)
}

func TestIndexList(t *testing.T) {
	runner := &fakeRunner{
		runQueryFn: func(sql string) ([]warehouse.Row, error) {
			return []warehouse.Row{
				{
					"index_name":          "docs_idx",
					"table_name":          "docs",
					"index_status":        "ACTIVE",
					"coverage_percentage": 98.5,
				},
			}, nil
		},
	}
	svc := NewIndexService(runner, testConfig(), &fakeAudit{}, nopLogger{})

	infos, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "docs_idx", infos[0].IndexName)
	assert.Equal(t, "ACTIVE", infos[0].Status)
	assert.InDelta(t, 98.5, infos[0].CoveragePercentage, 1e-9)

	assert.Contains(t, runner.queries[0], "INFORMATION_SCHEMA.VECTOR_INDEXES")
}

func TestIndexStatusWithMetrics(t *testing.T) {
	runner := &fakeRunner{
		runQueryFn: func(sql string) ([]warehouse.Row, error) {
			if strings.Contains(sql, "__TABLES__") {
				return []warehouse.Row{{"size_bytes": 1000.0, "row_count": int64(10)}}, nil
			}
			return []warehouse.Row{
				{
					"index_name":          "docs_idx",
					"table_name":          "docs",
					"index_status":        "ACTIVE",
					"coverage_percentage": 100.0,
				},
			}, nil
		},
	}
	svc := NewIndexService(runner, testConfig(), &fakeAudit{}, nopLogger{})

	res, err := svc.Status(context.Background(), "docs_idx")
	require.NoError(t, err)

	assert.Equal(t, "docs_idx", res.Info.IndexName)
	require.NotNil(t, res.Metrics)
	assert.Equal(t, int64(10), res.Metrics.RowCount)
	assert.InDelta(t, 50.0, res.Metrics.EfficiencyScore, 1e-9)
}

func TestIndexStatusNotFound(t *testing.T) {
	runner := &fakeRunner{}
	svc := NewIndexService(runner, testConfig(), &fakeAudit{}, nopLogger{})

	_, err := svc.Status(context.Background(), "missing_idx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestIndexDrop(t *testing.T) {
	runner := &fakeRunner{
		runQueryFn: func(sql string) ([]warehouse.Row, error) {
			if strings.Contains(sql, "__TABLES__") {
				return []warehouse.Row{{"size_bytes": 0.0, "row_count": int64(0)}}, nil
			}
			return []warehouse.Row{
				{
					"index_name":   "docs_idx",
					"table_name":   "docs",
					"index_status": "ACTIVE",
				},
			}, nil
		},
	}
	audit := &fakeAudit{}
	svc := NewIndexService(runner, testConfig(), audit, nopLogger{})

	err := svc.Drop(context.Background(), "docs_idx")
	require.NoError(t, err)

	require.Len(t, runner.execs, 1)
	assert.Contains(t, runner.execs[0], "DROP VECTOR INDEX `docs_idx` ON `test-project.test_dataset.docs`")
	require.Equal(t, []string{dto.AuditKindIndexDrop}, audit.kinds)
}

