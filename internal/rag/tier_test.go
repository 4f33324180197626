package rag

import "testing"

func TestClassifyTier(t *testing.T) {
	const strong, soft = -0.85, -0.5

	tests := []struct {
		name     string
		distance float64
		want     Tier
	}{
		{"well inside strong band", -0.92, TierStrong},
		{"exactly at strong threshold", -0.85, TierStrong},
		{"weak band", -0.6, TierWeak},
		{"exactly at soft threshold", -0.5, TierWeak},
		{"just above soft threshold", -0.49, TierIrrelevant},
		{"near zero", -0.1, TierIrrelevant},
		{"positive distance", 0.3, TierIrrelevant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyTier(tt.distance, strong, soft); got != tt.want {
				t.Errorf("classifyTier(%v) = %v, want %v", tt.distance, got, tt.want)
			}
		})
	}
}

func TestTierString(t *testing.T) {
	if TierStrong.String() != "strong" || TierWeak.String() != "weak" || TierIrrelevant.String() != "irrelevant" {
		t.Errorf("unexpected tier names: %v %v %v", TierStrong, TierWeak, TierIrrelevant)
	}
}
