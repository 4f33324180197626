package rag

import (
	"strings"
	"unicode/utf8"
)

// isRelevant reports whether the content lexically corroborates the query:
// any query word longer than three runes appearing case-insensitively in the
// content is enough. Short words are skipped so stop words like "the" or
// "how" cannot promote an unrelated chunk.
func isRelevant(query, content string) bool {
	lowered := strings.ToLower(content)
	for _, word := range strings.Fields(query) {
		if utf8.RuneCountInString(word) <= 3 {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(word)) {
			return true
		}
	}
	return false
}

// filterRelevant keeps the weak candidates that pass the lexical check,
// preserving their distance order.
func filterRelevant(query string, weak []Candidate) []Candidate {
	var relevant []Candidate
	for _, c := range weak {
		if isRelevant(query, c.Content) {
			relevant = append(relevant, c)
		}
	}
	return relevant
}
