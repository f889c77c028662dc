package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanAIResponseText strips markdown code fences the model tends to wrap
// JSON payloads with.
func CleanAIResponseText(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// ExtractJSONObject finds the first '{' and last '}' in free-form model output
// and unmarshals the slice between them. Everything around the braces is prose
// the model was not asked for.
func ExtractJSONObject(text string, out interface{}) error {
	cleaned := CleanAIResponseText(text)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("no JSON object found in model output")
	}
	return json.Unmarshal([]byte(cleaned[start:end+1]), out)
}

// ExtractJSONArray is ExtractJSONObject for top level arrays.
func ExtractJSONArray(text string, out interface{}) error {
	cleaned := CleanAIResponseText(text)
	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("no JSON array found in model output")
	}
	return json.Unmarshal([]byte(cleaned[start:end+1]), out)
}

// ExtractJSONObjectRaw returns the object as a generic map, for callers that
// need to inspect which keys the model actually produced.
func ExtractJSONObjectRaw(text string) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := ExtractJSONObject(text, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
