package narrative

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseConstrainedJSON decodes a generative-text reply that was asked to
// contain only a JSON object. Models occasionally wrap the object in
// markdown code fences; those are stripped before decoding. A reply that
// still fails to decode is an error the caller treats as
// enrichment-unavailable.
func ParseConstrainedJSON(text string, out any) error {
	cleaned := stripCodeFences(text)
	if cleaned == "" {
		return fmt.Errorf("empty reply")
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("parse constrained JSON: %w", err)
	}
	return nil
}

func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line (```json or bare ```).
		trimmed = trimmed[idx+1:]
	}
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
