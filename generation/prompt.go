// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package generation

import (
	"fmt"
	"strings"

	"github.com/poiesic/gurukul/core"
	"github.com/poiesic/gurukul/retrieval"
)

// maxExcerptRunes bounds each grounding excerpt so a handful of long chunks
// cannot blow past the model's context window.
const maxExcerptRunes = 1500

// buildPrompt merges retrieved grounding material into the generation prompt.
// With no grounding at all, the prompt asks the model to draw on its own
// knowledge of the subject.
func buildPrompt(subject, topic string, chunks []retrieval.Chunk, entry *core.WikiEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a lesson about %q for the subject %q.\n", topic, subject)

	excerpts := groundingExcerpts(chunks, entry)
	if len(excerpts) == 0 {
		b.WriteString("No reference material is available; rely on your own knowledge of the subject.\n")
		return b.String()
	}

	b.WriteString("Base the lesson on the following reference material:\n")
	for i, excerpt := range excerpts {
		fmt.Fprintf(&b, "\n--- Reference %d ---\n%s\n", i+1, excerpt)
	}
	return b.String()
}

func groundingExcerpts(chunks []retrieval.Chunk, entry *core.WikiEntry) []string {
	var excerpts []string

	for _, chunk := range chunks {
		if text := clipExcerpt(chunk.Text); text != "" {
			excerpts = append(excerpts, text)
		}
	}

	if entry != nil && !entry.Empty() {
		text := entry.Content
		if text == "" {
			text = entry.Summary
		}
		if text = clipExcerpt(text); text != "" {
			excerpts = append(excerpts, text)
		}
	}
	return excerpts
}

func clipExcerpt(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= maxExcerptRunes {
		return text
	}
	return string(runes[:maxExcerptRunes])
}
