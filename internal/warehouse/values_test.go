package warehouse

import (
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/stretchr/testify/assert"
)

func TestScalarCoercions(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	row := Row{
		"text":  "hello",
		"count": int64(3),
		"ratio": 0.25,
		"ts":    now,
	}

	assert.Equal(t, "hello", String(row, "text"))
	assert.Equal(t, "", String(row, "count"))
	assert.Equal(t, "", String(row, "missing"))

	assert.Equal(t, int64(3), Int(row, "count"))
	assert.Equal(t, int64(0), Int(row, "ratio"))
	assert.Equal(t, int64(0), Int(row, "missing"))

	assert.Equal(t, 0.25, Float(row, "ratio"))
	assert.Equal(t, 3.0, Float(row, "count"))

	assert.Equal(t, now, Timestamp(row, "ts"))
	assert.True(t, Timestamp(row, "missing").IsZero())
}

func TestFloatCoercionFromInt(t *testing.T) {
	row := Row{"ratio": int64(0)}
	assert.Equal(t, int64(0), Int(row, "ratio"))
	assert.Equal(t, 0.0, Float(row, "ratio"))
}

func TestFloats(t *testing.T) {
	row := Row{
		"vector": []bigquery.Value{0.1, 0.2, int64(3)},
		"scalar": 0.5,
	}

	assert.Equal(t, []float64{0.1, 0.2, 3.0}, Floats(row, "vector"))
	assert.Nil(t, Floats(row, "scalar"))
	assert.Nil(t, Floats(row, "missing"))
}

func TestStrings(t *testing.T) {
	row := Row{
		"models": []bigquery.Value{"gemini-pro", nil, "gemini-flash"},
	}

	assert.Equal(t, []string{"gemini-pro", "gemini-flash"}, Strings(row, "models"))
	assert.Nil(t, Strings(row, "missing"))
}

func TestNormalize(t *testing.T) {
	nested := map[string]bigquery.Value{
		"label": "doc",
		"tags":  []bigquery.Value{"a", int64(1)},
		"inner": map[string]bigquery.Value{"depth": int64(2)},
	}

	got := Normalize(nested)
	want := map[string]interface{}{
		"label": "doc",
		"tags":  []interface{}{"a", int64(1)},
		"inner": map[string]interface{}{"depth": int64(2)},
	}
	assert.Equal(t, want, got)
}

func TestNormalizeRow(t *testing.T) {
	row := Row{
		"id":   "r1",
		"meta": map[string]bigquery.Value{"kind": "text"},
	}

	got := NormalizeRow(row)
	assert.Equal(t, "r1", got["id"])
	assert.Equal(t, map[string]interface{}{"kind": "text"}, got["meta"])
}

func TestStructCoercion(t *testing.T) {
	row := Row{
		"payload": map[string]bigquery.Value{"score": 0.9},
		"flat":    "nope",
	}

	assert.Equal(t, map[string]interface{}{"score": 0.9}, Struct(row, "payload"))
	assert.Empty(t, Struct(row, "flat"))
}
