package implementation

import "encoding/json"

// jsonText flattens a parameters/metadata map into the string column the
// audit tables use. Encoding failures degrade to an empty string.
func jsonText(m map[string]interface{}) string {
	if len(m) == 0 {
		return ""
	}
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}

// jsonMap is the inverse used by the history read paths.
func jsonMap(s string) map[string]interface{} {
	if s == "" {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}
