package wiki

import (
	"fmt"
	"strings"
)

// subjectNames maps curriculum subject labels to the encyclopedia subject
// names that actually resolve to articles.
var subjectNames = map[string]string{
	"science":   "ancient Indian science",
	"maths":     "Indian mathematics",
	"math":      "Indian mathematics",
	"history":   "history of India",
	"ayurveda":  "Ayurveda",
	"astronomy": "Indian astronomy",
	"sanskrit":  "Sanskrit",
}

// QueryVariants returns the search queries to try for a (subject, topic)
// pair, most specific first, deduplicated preserving first-seen order.
func QueryVariants(subject, topic string) []string {
	subject = strings.TrimSpace(subject)
	topic = strings.TrimSpace(topic)

	variants := []string{
		fmt.Sprintf("%s in %s", topic, subject),
		fmt.Sprintf("%s %s ancient India", topic, subject),
	}
	if mapped, ok := subjectNames[strings.ToLower(subject)]; ok {
		variants = append(variants, fmt.Sprintf("%s in %s", topic, mapped))
	}
	variants = append(variants, topic)

	seen := make(map[string]bool, len(variants))
	unique := variants[:0]
	for _, v := range variants {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		unique = append(unique, v)
	}
	return unique
}
