package rag

import (
	"fmt"
	"strings"
)

const kbTemplate = `Answer the question using ONLY the facts below.

Facts:
%s

Question:
%s

Rules:
- Combine facts naturally
- If the question contradicts the facts, say so
- If info is missing, say "not mentioned"
- Do NOT invent new facts

Answer concisely in 1-2 sentences:`

const fallbackTemplate = `Answer the question based on general knowledge only.
Do NOT assume facts from KB if not present.

Question:
%s

Answer:`

// BuildKBPrompt assembles the grounded prompt: newline-joined context
// contents as facts, the question, and the fixed answering rules. When
// citations are enabled each context's source is listed at the end.
func BuildKBPrompt(question string, contexts []Candidate, citations bool) string {
	facts := make([]string, 0, len(contexts))
	for _, c := range contexts {
		facts = append(facts, c.Content)
	}

	prompt := fmt.Sprintf(kbTemplate, strings.Join(facts, "\n"), question)
	if citations && len(contexts) > 0 {
		sources := make([]string, 0, len(contexts))
		for _, c := range contexts {
			sources = append(sources, c.Source)
		}
		prompt += "\n\nCitations:\n" + strings.Join(sources, "\n")
	}
	return prompt
}

// BuildFallbackPrompt assembles the ungrounded prompt. Weak hints that failed
// the relevance check are appended under an explicit unconfirmed label so the
// model can use them without treating them as established facts.
func BuildFallbackPrompt(question string, hints []Candidate) string {
	prompt := fmt.Sprintf(fallbackTemplate, question)
	if len(hints) > 0 {
		lines := make([]string, 0, len(hints))
		for _, c := range hints {
			lines = append(lines, c.Content)
		}
		prompt += "\n\n(Optional facts that might be related but not confirmed):\n" + strings.Join(lines, "\n")
	}
	return prompt
}
