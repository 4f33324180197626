package kb

import (
	"strings"
	"testing"
)

func TestChunkID(t *testing.T) {
	tests := []struct {
		source string
		index  int
		want   string
	}{
		{"notes/orion.md", 0, "notes/orion.md::chunk-0"},
		{"readme.txt", 12, "readme.txt::chunk-12"},
	}

	for _, tt := range tests {
		if got := ChunkID(tt.source, tt.index); got != tt.want {
			t.Errorf("ChunkID(%q, %d) = %q, want %q", tt.source, tt.index, got, tt.want)
		}
	}
}

func TestChunkIDUniquePerSource(t *testing.T) {
	a := ChunkID("a/doc.md", 1)
	b := ChunkID("b/doc.md", 1)
	if a == b {
		t.Errorf("chunk IDs for distinct sources collide: %q", a)
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env := Envelope{Source: "kb/orion.md", Chunk: 3, Content: "Project Orion is licensed under Apache 2.0"}

	payload, err := env.Marshal()
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	if !strings.Contains(string(payload), `"source":"kb/orion.md"`) {
		t.Errorf("payload missing source field: %s", payload)
	}

	got, err := ParseEnvelope(payload)
	if err != nil {
		t.Fatalf("ParseEnvelope() unexpected error: %v", err)
	}
	if got != env {
		t.Errorf("round trip = %+v, want %+v", got, env)
	}
}

func TestParseEnvelopeRejectsGarbage(t *testing.T) {
	if _, err := ParseEnvelope([]byte("not json")); err == nil {
		t.Fatal("ParseEnvelope() should fail on malformed payload")
	}
}
