package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/warehouse"
)

func TestCheckSchemaCompliance(t *testing.T) {
	schema := map[string]interface{}{
		"properties": map[string]interface{}{
			"a": map[string]interface{}{"type": "string"},
			"n": map[string]interface{}{"type": "number"},
			"i": map[string]interface{}{"type": "integer"},
			"b": map[string]interface{}{"type": "boolean"},
		},
		"required": []interface{}{"a"},
	}

	tests := []struct {
		name           string
		content        map[string]interface{}
		wantCompliant  bool
		wantMissing    []string
		wantExtra      []string
		wantMismatches int
	}{
		{
			name:          "compliant",
			content:       map[string]interface{}{"a": "text", "n": 1.5, "i": 5.0, "b": true},
			wantCompliant: true,
		},
		{
			name:           "required field with wrong type",
			content:        map[string]interface{}{"a": 5.0},
			wantCompliant:  false,
			wantMismatches: 1,
		},
		{
			name:          "missing required field",
			content:       map[string]interface{}{"n": 1.0},
			wantCompliant: false,
			wantMissing:   []string{"a"},
		},
		{
			name:          "extra fields reported but allowed",
			content:       map[string]interface{}{"a": "ok", "surplus": 1.0},
			wantCompliant: true,
			wantExtra:     []string{"surplus"},
		},
		{
			name:           "fractional value fails integer",
			content:        map[string]interface{}{"a": "ok", "i": 5.5},
			wantCompliant:  false,
			wantMismatches: 1,
		},
		{
			name:           "boolean type enforced",
			content:        map[string]interface{}{"a": "ok", "b": "true"},
			wantCompliant:  false,
			wantMismatches: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckSchemaCompliance(tt.content, schema)

			assert.Equal(t, tt.wantCompliant, got.IsCompliant)
			if tt.wantMissing == nil {
				assert.Empty(t, got.MissingFields)
			} else {
				assert.Equal(t, tt.wantMissing, got.MissingFields)
			}
			if tt.wantExtra == nil {
				assert.Empty(t, got.ExtraFields)
			} else {
				assert.Equal(t, tt.wantExtra, got.ExtraFields)
			}
			assert.Len(t, got.TypeMismatches, tt.wantMismatches)
		})
	}
}

func TestSchemaToColumnList(t *testing.T) {
	out, err := schemaToColumnList(map[string]interface{}{
		"properties": map[string]interface{}{
			"name":   map[string]interface{}{"type": "string"},
			"age":    map[string]interface{}{"type": "integer"},
			"score":  map[string]interface{}{"type": "number"},
			"active": map[string]interface{}{"type": "boolean"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "active BOOL, age INT64, name STRING, score FLOAT64", out)

	_, err = schemaToColumnList(map[string]interface{}{})
	require.Error(t, err)
}

func TestGenerateStructured(t *testing.T) {
	runner := &fakeRunner{
		runQueryFn: func(sql string) ([]warehouse.Row, error) {
			return []warehouse.Row{{"content": `{"a": 5}`}}, nil
		},
	}
	audit := &fakeAudit{}
	svc := NewContentGenerationService(runner, testConfig(), audit, nopLogger{})

	res, err := svc.GenerateStructured(context.Background(), &dto.GenerateStructuredRequest{
		Prompt: "extract",
		OutputSchema: map[string]interface{}{
			"properties": map[string]interface{}{
				"a": map[string]interface{}{"type": "string"},
			},
			"required": []interface{}{"a"},
		},
	})
	require.NoError(t, err)

	assert.False(t, res.Compliance.IsCompliant)
	assert.Empty(t, res.Compliance.MissingFields)
	require.Len(t, res.Compliance.TypeMismatches, 1)
	assert.Contains(t, res.Compliance.TypeMismatches[0], "a: expected string")

	assert.Contains(t, runner.queries[0], "AI.GENERATE")
	assert.Contains(t, runner.queries[0], "output_schema => 'a STRING'")
	require.Equal(t, []string{dto.AuditKindGeneration}, audit.kinds)
}

func TestGenerateContentZeroRowsIsError(t *testing.T) {
	runner := &fakeRunner{}
	svc := NewContentGenerationService(runner, testConfig(), &fakeAudit{}, nopLogger{})

	_, err := svc.Generate(context.Background(), &dto.GenerateContentRequest{Prompt: "p"})
	require.Error(t, err)
}
