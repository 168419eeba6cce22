package refine

import (
	"encoding/json"
	"strings"
)

type promptPayload struct {
	Fields        []Candidate `json:"fields"`
	AvailableKeys []string    `json:"availableKeys"`
}

// buildPrompt renders the refinement instruction. The scoring rubric and the
// JSON-only requirement are part of the contract with the parser; change one
// and the other breaks.
func buildPrompt(candidates []Candidate, availableKeys []string) (string, error) {
	payload, err := json.MarshalIndent(promptPayload{
		Fields:        candidates,
		AvailableKeys: availableKeys,
	}, "", "  ")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("You match web form fields to saved profile keys. Return JSON only.\n\n")
	sb.WriteString("Each field below was extracted from a form; availableKeys lists the\n")
	sb.WriteString("profile keys you may assign. Pick the best key for each field, or skip\n")
	sb.WriteString("the field when nothing fits.\n\n")
	sb.Write(payload)
	sb.WriteString("\n\n")
	sb.WriteString(`Scoring:
- 95: perfect semantic match
- 80: good match
- 60: possible match
- below 60: no match, omit the field

Respond with a JSON array of:
  {"fieldIndex": <index>, "matchedKey": "<key>", "confidence": <0-100>, "reasoning": "<short>"}

Rules:
- matchedKey must be one of availableKeys, verbatim
- fieldIndex must echo the field's index value
- keep reasoning under ten words
- never invent keys, never guess on password or payment fields

Return ONLY the JSON array, no other text.`)
	return sb.String(), nil
}
