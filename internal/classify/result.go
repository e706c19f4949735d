package classify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the classification produced for one inquiry. Fields are pointers
// so a key the model omitted stays distinguishable from an empty answer.
type Result struct {
	Summary           *string `json:"summary"`
	AlignmentScore    *int    `json:"alignment_score"`
	SuggestedNextStep *string `json:"suggested_next_step"`
}

// Score returns the alignment score, or 0 when the model did not supply one.
func (r *Result) Score() int {
	if r == nil || r.AlignmentScore == nil {
		return 0
	}
	return *r.AlignmentScore
}

// ParseResult decodes a raw model response into a Result. The model is asked
// for bare JSON but routinely wraps it in a markdown code fence, so fences
// are stripped before decoding. Any decode failure is an error; the caller
// treats it as a soft failure for that inquiry.
func ParseResult(raw string) (*Result, error) {
	text := stripFences(raw)
	if text == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
	}

	return &result, nil
}

// stripFences removes surrounding whitespace and a ```json / ``` code fence
// if present. Running it on already-clean JSON is a no-op.
func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}
	return text
}
