package refine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// wrapperKeys are object keys models conventionally wrap array payloads in
// despite array-only instructions.
var wrapperKeys = []string{"matches", "results", "fields"}

// decodeSuggestions parses a completion payload defensively: markdown code
// fences are stripped, and both a bare JSON array and an object wrapping the
// array under a conventional key are accepted.
func decodeSuggestions(raw string) ([]Suggestion, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("refine: empty completion payload")
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(cleaned), &suggestions); err == nil {
		return suggestions, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &wrapped); err != nil {
		return nil, fmt.Errorf("refine: parse completion payload: %w", err)
	}
	for _, key := range wrapperKeys {
		body, ok := wrapped[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(body, &suggestions); err != nil {
			return nil, fmt.Errorf("refine: parse %q wrapper: %w", key, err)
		}
		return suggestions, nil
	}
	return nil, fmt.Errorf("refine: completion payload has no suggestion array")
}

func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
