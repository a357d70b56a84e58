package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanOutput strips markdown code fences that models wrap around JSON
func CleanOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// DecodeJSON decodes the first JSON object found in a completion into v.
// Leading prose and trailing commentary around the object are ignored.
func DecodeJSON(text string, v any) error {
	cleaned := CleanOutput(text)

	start := strings.Index(cleaned, "{")
	if start < 0 {
		return fmt.Errorf("no JSON object in response: %q", truncate(cleaned, 120))
	}

	dec := json.NewDecoder(strings.NewReader(cleaned[start:]))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode JSON response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
