package rag

// classifyTier buckets an inner product distance against the two thresholds.
// Distances are ascending-is-better: at or below strong means the chunk can
// be trusted as a fact, at or below soft means it is only a hint, anything
// above soft carries no signal.
func classifyTier(distance, strong, soft float64) Tier {
	switch {
	case distance <= strong:
		return TierStrong
	case distance <= soft:
		return TierWeak
	default:
		return TierIrrelevant
	}
}
