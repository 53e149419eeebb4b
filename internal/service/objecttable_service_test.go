package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/warehouse"
)

func TestObjectTableCreate(t *testing.T) {
	runner := &fakeRunner{}
	audit := &fakeAudit{}
	svc := NewObjectTableService(runner, testConfig(), audit, nopLogger{})

	res, err := svc.Create(context.Background(), &dto.CreateObjectTableRequest{
		TableName:   "media_files",
		FilePattern: "images/*.png",
		Options:     map[string]interface{}{"max_file_size": "100MB"},
	})
	require.NoError(t, err)

	assert.Equal(t, "test-project.test_dataset.media_files", res.TableID)
	assert.Equal(t, "test-bucket", res.BucketName)

	require.Len(t, runner.execs, 1)
	assert.Contains(t, runner.execs[0], "EXTERNAL TABLE `test-project.test_dataset.media_files`")
	assert.Contains(t, runner.execs[0], "uris = ['gs://test-bucket/images/*.png']")
	assert.Contains(t, runner.execs[0], "max_file_size = '100MB'")

	require.Equal(t, []string{dto.AuditKindObjectTable}, audit.kinds)
}

func TestObjectTableQuery(t *testing.T) {
	runner := &fakeRunner{
		runQueryFn: func(sql string) ([]warehouse.Row, error) {
			return []warehouse.Row{{"file_name": "a.png"}, {"file_name": "b.png"}}, nil
		},
	}
	svc := NewObjectTableService(runner, testConfig(), &fakeAudit{}, nopLogger{})

	res, err := svc.Query(context.Background(), &dto.QueryObjectTableRequest{
		TableName: "media_files",
		Columns:   []string{"file_name", "file_size"},
		Where:     "file_size > 1024",
		Limit:     10,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalRows)

	assert.Contains(t, runner.queries[0], "SELECT file_name, file_size")
	assert.Contains(t, runner.queries[0], "WHERE file_size > 1024")
	assert.Contains(t, runner.queries[0], "LIMIT 10")
}

func TestAnalysisInsightsGeneral(t *testing.T) {
	rows := []map[string]interface{}{
		{"file_type": "application/pdf", "file_size": float64(2000)},
		{"file_type": "application/pdf", "file_size": float64(1000)},
		{"file_type": "image/png", "file_size": float64(3000)},
	}

	insights := AnalysisInsights(rows, "general")

	assert.Equal(t, 3, insights["total_files"])
	assert.Equal(t, map[string]int{"application/pdf": 2, "image/png": 1}, insights["file_types"])

	sizes := insights["size_distribution"].(map[string]interface{})
	assert.InDelta(t, 1000, sizes["min_size"].(float64), 1e-9)
	assert.InDelta(t, 3000, sizes["max_size"].(float64), 1e-9)
	assert.InDelta(t, 2000, sizes["avg_size"].(float64), 1e-9)
}

func TestAnalysisInsightsEmpty(t *testing.T) {
	insights := AnalysisInsights(nil, "general")
	assert.Equal(t, 0, insights["total_files"])
	_, hasSizes := insights["size_distribution"]
	assert.False(t, hasSizes)
}

func TestAnalysisInsightsText(t *testing.T) {
	rows := []map[string]interface{}{
		{"file_type": "text/plain", "file_size": float64(10), "text_length": float64(100), "word_count": float64(20)},
		{"file_type": "text/plain", "file_size": float64(10), "text_length": float64(300), "word_count": float64(60)},
	}

	insights := AnalysisInsights(rows, "text_extraction")
	content := insights["content_insights"].(map[string]interface{})

	assert.InDelta(t, 400, content["total_text_length"].(float64), 1e-9)
	assert.InDelta(t, 80, content["total_word_count"].(float64), 1e-9)
	assert.InDelta(t, 200, content["avg_text_length"].(float64), 1e-9)
	assert.InDelta(t, 40, content["avg_word_count"].(float64), 1e-9)
}

func TestAnalysisInsightsImageResolutionBuckets(t *testing.T) {
	rows := []map[string]interface{}{
		{"file_type": "image/png", "file_size": float64(1), "image_format": "png", "image_width": float64(800), "image_height": float64(600)},    // 0.48MP
		{"file_type": "image/jpeg", "file_size": float64(1), "image_format": "jpeg", "image_width": float64(2000), "image_height": float64(1500)}, // 3MP
		{"file_type": "image/jpeg", "file_size": float64(1), "image_format": "jpeg", "image_width": float64(4000), "image_height": float64(3000)}, // 12MP
		{"file_type": "image/gif", "file_size": float64(1), "image_format": "gif"}, // no dimensions
	}

	insights := AnalysisInsights(rows, "image_analysis")
	content := insights["content_insights"].(map[string]interface{})

	assert.Equal(t, 4, content["total_images"])
	assert.Equal(t, map[string]int{"png": 1, "jpeg": 2, "gif": 1}, content["image_formats"])
	assert.Equal(t, map[string]int{"low_res": 1, "medium_res": 1, "high_res": 1}, content["resolution_distribution"])
}

func TestObjectTableAnalyzeQueries(t *testing.T) {
	tests := []struct {
		analysisType string
		wantFragment string
	}{
		{analysisType: "general", wantFragment: "content_category"},
		{analysisType: "text_extraction", wantFragment: "word_count"},
		{analysisType: "image_analysis", wantFragment: "image_width"},
		{analysisType: "document_summary", wantFragment: "AI.GENERATE"},
	}

	for _, tt := range tests {
		t.Run(tt.analysisType, func(t *testing.T) {
			runner := &fakeRunner{
				runQueryFn: func(sql string) ([]warehouse.Row, error) {
					return []warehouse.Row{{"file_type": "text/plain", "file_size": int64(5)}}, nil
				},
			}
			svc := NewObjectTableService(runner, testConfig(), &fakeAudit{}, nopLogger{})

			res, err := svc.Analyze(context.Background(), &dto.AnalyzeObjectTableRequest{
				TableName:    "media_files",
				AnalysisType: tt.analysisType,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.analysisType, res.AnalysisType)
			assert.Contains(t, runner.queries[0], tt.wantFragment)
		})
	}
}
