package warehouse

import (
	"time"

	"cloud.google.com/go/bigquery"
)

// Result field coercion helpers. The SDK hands back loosely typed values
// (nested structs arrive as map[string]Value, arrays as []Value); feature
// services only ever need a handful of shapes out of them.

// String returns the named field as a string, or "" when absent or not one.
func String(row Row, key string) string {
	if s, ok := row[key].(string); ok {
		return s
	}
	return ""
}

// Int returns the named field as an int64, accepting the integer-ish types
// the SDK produces.
func Int(row Row, key string) int64 {
	switch v := row[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Float returns the named field as a float64.
func Float(row Row, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// Timestamp returns the named field as a time.Time, zero when absent.
func Timestamp(row Row, key string) time.Time {
	if t, ok := row[key].(time.Time); ok {
		return t
	}
	return time.Time{}
}

// Struct returns the named field as a plain nested map.
func Struct(row Row, key string) map[string]interface{} {
	m, ok := Normalize(row[key]).(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return m
}

// Floats returns the named field as a float slice (embedding vectors,
// forecast series).
func Floats(row Row, key string) []float64 {
	raw, ok := row[key].([]bigquery.Value)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		switch f := v.(type) {
		case float64:
			out = append(out, f)
		case int64:
			out = append(out, float64(f))
		}
	}
	return out
}

// Strings returns the named field as a string slice (ARRAY_AGG results).
func Strings(row Row, key string) []string {
	raw, ok := row[key].([]bigquery.Value)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Normalize converts SDK value trees into plain maps/slices so they can be
// JSON-encoded and returned to API callers as-is.
func Normalize(v bigquery.Value) interface{} {
	switch t := v.(type) {
	case map[string]bigquery.Value:
		out := make(map[string]interface{}, len(t))
		for k, nested := range t {
			out[k] = Normalize(nested)
		}
		return out
	case []bigquery.Value:
		out := make([]interface{}, 0, len(t))
		for _, nested := range t {
			out = append(out, Normalize(nested))
		}
		return out
	default:
		return v
	}
}

// NormalizeRow flattens a full result row.
func NormalizeRow(row Row) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		out[k] = Normalize(v)
	}
	return out
}
