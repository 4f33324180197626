package rag

// Decide runs the answer-mode state machine over a tier-partitioned
// retrieval. The priority order is fixed:
//
//  1. Any strong candidate answers in KB mode from the strong set alone.
//     Weak candidates are ignored outright.
//  2. Otherwise, weak candidates that pass the lexical relevance check
//     answer in KB mode. If none pass, fall back, carrying every weak
//     candidate as unconfirmed hints.
//  3. Otherwise fall back with no hints.
//
// ContextUsed counts only candidates that entered the prompt as confirmed
// facts, so it is always zero in fallback mode.
func Decide(question string, ret Retrieval, citations bool) Decision {
	if len(ret.Strong) > 0 {
		return Decision{
			Mode:        ModeKB,
			Prompt:      BuildKBPrompt(question, ret.Strong, citations),
			ContextUsed: len(ret.Strong),
		}
	}

	if len(ret.Weak) > 0 {
		if relevant := filterRelevant(question, ret.Weak); len(relevant) > 0 {
			return Decision{
				Mode:        ModeKB,
				Prompt:      BuildKBPrompt(question, relevant, citations),
				ContextUsed: len(relevant),
			}
		}
		return Decision{
			Mode:   ModeFallback,
			Prompt: BuildFallbackPrompt(question, ret.Weak),
		}
	}

	return Decision{
		Mode:   ModeFallback,
		Prompt: BuildFallbackPrompt(question, nil),
	}
}
