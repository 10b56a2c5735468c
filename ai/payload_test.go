package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLessonPayload(t *testing.T) {
	raw := `{"title":"Motion","explanation":"Things move.","activity":"Roll a ball.","question":"Why?"}`

	payload, err := ParseLessonPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "Motion", payload.Title)
	assert.Equal(t, "Things move.", payload.Explanation)
	assert.Equal(t, "Roll a ball.", payload.Activity)
	assert.Equal(t, "Why?", payload.Question)
}

func TestParseLessonPayload_CodeFences(t *testing.T) {
	raw := "```json\n{\"title\":\"Motion\",\"explanation\":\"Things move.\"}\n```"

	payload, err := ParseLessonPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "Motion", payload.Title)
}

func TestParseLessonPayload_RepairsMissingQuote(t *testing.T) {
	// Missing opening quote before a key, a defect some local models emit.
	raw := `{"title":"Motion", explanation":"Things move."}`

	payload, err := ParseLessonPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "Things move.", payload.Explanation)
}

func TestParseLessonPayload_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "Here is your lesson about motion!"},
		{name: "truncated", raw: `{"title":"Motion","explanation":`},
		{name: "empty", raw: ""},
		{name: "missing title", raw: `{"explanation":"Things move."}`},
		{name: "missing explanation", raw: `{"title":"Motion"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLessonPayload(tt.raw)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}
