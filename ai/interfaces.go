package ai

import "context"

// Generator synthesizes lesson prose from a prompt.
// Implementations must be thread-safe for concurrent use.
// The returned text is expected, but not guaranteed, to be the JSON payload
// described by LessonPayload; callers must validate with ParseLessonPayload.
type Generator interface {
	// GenerateLesson invokes the model with the given prompt and returns the
	// raw response text. Returns an error only if the call itself fails;
	// malformed output is returned as-is for the caller to handle.
	GenerateLesson(ctx context.Context, prompt string) (string, error)

	// Model returns the model identifier, used for source attribution.
	Model() string
}
