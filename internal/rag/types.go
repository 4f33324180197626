package rag

// Tier classifies a candidate's similarity confidence. The tier is derived
// purely from the candidate's distance and the two configured thresholds.
type Tier int

const (
	// TierIrrelevant candidates are dropped before retrieval returns.
	TierIrrelevant Tier = iota
	// TierWeak candidates need lexical corroboration before being trusted.
	TierWeak
	// TierStrong candidates are used as facts directly.
	TierStrong
)

func (t Tier) String() string {
	switch t {
	case TierStrong:
		return "strong"
	case TierWeak:
		return "weak"
	default:
		return "irrelevant"
	}
}

// AnswerMode identifies which prompt path answered a query.
type AnswerMode string

const (
	// ModeKB answers from retrieved context (strong or accepted-weak).
	ModeKB AnswerMode = "KB"
	// ModeFallback answers from the model's own knowledge, with no usable context.
	ModeFallback AnswerMode = "FALLBACK"
)

// Candidate is a stored chunk returned by a similarity query, alive only for
// the duration of one retrieval call.
type Candidate struct {
	// Key is the stored-record key ("source::chunk-index").
	Key string
	// Source is the originating document identifier from the payload envelope.
	Source string
	// ChunkIndex is the chunk's position within its document.
	ChunkIndex int
	// Content is the chunk text.
	Content string
	// Distance is the inner product distance to the query vector.
	// More negative means more similar.
	Distance float64
	// Tier is the confidence bucket derived from Distance.
	Tier Tier
}

// Retrieval holds the tier-partitioned candidates for one query.
// Irrelevant candidates are already discarded.
type Retrieval struct {
	Strong []Candidate
	Weak   []Candidate
}

// Decision is the outcome of the answer-mode state machine: which mode to
// answer in, the assembled prompt, and how many candidates entered the prompt
// as confirmed context. Unconfirmed weak hints do not count.
type Decision struct {
	Mode        AnswerMode
	Prompt      string
	ContextUsed int
}

// AskRequest represents a question to answer.
type AskRequest struct {
	Question string `json:"query"`
	Session  string `json:"session,omitempty"`
}

// AskResponse represents the answer to a question.
type AskResponse struct {
	Query       string     `json:"query"`
	Answer      string     `json:"answer"`
	Mode        AnswerMode `json:"mode"`
	ContextUsed int        `json:"context_used"`
}
