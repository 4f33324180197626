package rag

import (
	"strings"
	"testing"
)

func TestDecideStrongWinsOverWeak(t *testing.T) {
	ret := Retrieval{
		Strong: []Candidate{{Source: "orion.md", Content: "Project Orion is licensed under Apache 2.0", Distance: -0.92}},
		Weak:   []Candidate{{Source: "misc.md", Content: "Orion trivia that would also pass the filter", Distance: -0.6}},
	}

	dec := Decide("What license does Orion use?", ret, false)

	if dec.Mode != ModeKB {
		t.Fatalf("Mode = %v, want KB", dec.Mode)
	}
	if dec.ContextUsed != 1 {
		t.Errorf("ContextUsed = %d, want 1 (strong set only)", dec.ContextUsed)
	}
	if !strings.Contains(dec.Prompt, "Project Orion is licensed under Apache 2.0") {
		t.Error("strong fact missing from prompt")
	}
	if strings.Contains(dec.Prompt, "Orion trivia") {
		t.Error("weak content leaked into a strong-mode prompt")
	}
	if strings.Contains(dec.Prompt, "general knowledge") {
		t.Error("fallback language in a KB prompt")
	}
}

func TestDecideWeakRelevantSubset(t *testing.T) {
	ret := Retrieval{
		Weak: []Candidate{
			{Source: "a.md", Content: "orion uses apache licensing", Distance: -0.7},
			{Source: "b.md", Content: "cafeteria menu for the week", Distance: -0.6},
		},
	}

	dec := Decide("what license does orion use", ret, false)

	if dec.Mode != ModeKB {
		t.Fatalf("Mode = %v, want KB", dec.Mode)
	}
	if dec.ContextUsed != 1 {
		t.Errorf("ContextUsed = %d, want 1 (only the relevant weak chunk)", dec.ContextUsed)
	}
	if strings.Contains(dec.Prompt, "cafeteria") {
		t.Error("irrelevant weak chunk entered the prompt as a fact")
	}
}

func TestDecideWeakIrrelevantFallsBackWithHints(t *testing.T) {
	ret := Retrieval{
		Weak: []Candidate{
			{Source: "a.md", Content: "unrelated payroll memo", Distance: -0.7},
			{Source: "b.md", Content: "cafeteria menu", Distance: -0.6},
		},
	}

	dec := Decide("kubernetes ingress routing", ret, false)

	if dec.Mode != ModeFallback {
		t.Fatalf("Mode = %v, want FALLBACK", dec.Mode)
	}
	if dec.ContextUsed != 0 {
		t.Errorf("ContextUsed = %d, want 0 in fallback", dec.ContextUsed)
	}
	if !strings.Contains(dec.Prompt, "(Optional facts that might be related but not confirmed):") {
		t.Error("weak hints missing from fallback prompt")
	}
	if !strings.Contains(dec.Prompt, "unrelated payroll memo") || !strings.Contains(dec.Prompt, "cafeteria menu") {
		t.Error("all weak candidates should be carried as hints")
	}
}

func TestDecideEmptyRetrievalFallsBackClean(t *testing.T) {
	dec := Decide("anything at all", Retrieval{}, false)

	if dec.Mode != ModeFallback {
		t.Fatalf("Mode = %v, want FALLBACK", dec.Mode)
	}
	if dec.ContextUsed != 0 {
		t.Errorf("ContextUsed = %d, want 0", dec.ContextUsed)
	}
	if strings.Contains(dec.Prompt, "Optional facts") {
		t.Error("hint block present although nothing was retrieved")
	}
}

func TestDecideCitationsFollowConfig(t *testing.T) {
	ret := Retrieval{
		Strong: []Candidate{{Source: "orion.md", Content: "fact", Distance: -0.9}},
	}

	if dec := Decide("q", ret, true); !strings.Contains(dec.Prompt, "Citations:\norion.md") {
		t.Error("citations enabled but block missing")
	}
	if dec := Decide("q", ret, false); strings.Contains(dec.Prompt, "Citations:") {
		t.Error("citations disabled but block present")
	}
}
