package warehouse

import (
	"fmt"
	"strconv"
	"strings"
)

// EscapeString escapes a caller-supplied value for inclusion in a single
// quoted SQL string literal. Query text here is assembled by templating, so
// every interpolated string must pass through this.
func EscapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}

// QuoteString returns the value escaped and wrapped in single quotes.
func QuoteString(s string) string {
	return "'" + EscapeString(s) + "'"
}

// Literal renders a caller-supplied value as a SQL literal. Strings are
// quoted, numbers stay unquoted (JSON-decoded 5 renders as 5, not 5.0),
// slices become parenthesized lists for IN clauses.
func Literal(v interface{}) string {
	switch t := v.(type) {
	case string:
		return QuoteString(t)
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, Literal(item))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case nil:
		return "NULL"
	default:
		return QuoteString(fmt.Sprintf("%v", t))
	}
}

// FloatArray renders a float slice as a SQL array literal.
func FloatArray(values []float64) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
