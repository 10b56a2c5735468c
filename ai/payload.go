package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedPayload indicates the generator's output could not be parsed
// into the expected lesson structure.
var ErrMalformedPayload = errors.New("malformed lesson payload")

// LessonPayload is the JSON structure the generator is asked to emit.
type LessonPayload struct {
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	Activity    string `json:"activity"`
	Question    string `json:"question"`
}

// ParseLessonPayload parses raw generator output into a LessonPayload.
// It strips markdown code fences and repairs common JSON defects before
// parsing. A payload that parses but lacks a title or explanation is still
// malformed; the structure contract requires both.
func ParseLessonPayload(raw string) (*LessonPayload, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	text = repairJSON(text)

	var payload LessonPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	if payload.Title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrMalformedPayload)
	}
	if payload.Explanation == "" {
		return nil, fmt.Errorf("%w: missing explanation", ErrMalformedPayload)
	}

	return &payload, nil
}
