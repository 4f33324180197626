// Package kb defines the stored-record formats shared by ingestion and
// retrieval: the chunk identifier scheme and the JSON payload envelope.
package kb

import (
	"encoding/json"
	"fmt"
)

// Envelope is the JSON payload stored alongside each chunk embedding.
// Its serialized form is also the text handed to the embedding model, so the
// field order and names are part of the knowledge base's observable format.
type Envelope struct {
	Source  string `json:"source"`
	Chunk   int    `json:"chunk"`
	Content string `json:"content"`
}

// ChunkID derives the stored-record key for a chunk. Source is the document's
// identifier (path relative to the ingest root), which keeps keys unique
// across files that share a base name.
func ChunkID(source string, index int) string {
	return fmt.Sprintf("%s::chunk-%d", source, index)
}

// Marshal serializes the envelope to its stored (and embedded) form.
func (e Envelope) Marshal() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload envelope: %w", err)
	}
	return b, nil
}

// ParseEnvelope decodes a stored payload back into an Envelope.
func ParseEnvelope(payload []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(payload, &e); err != nil {
		return Envelope{}, fmt.Errorf("failed to parse payload envelope: %w", err)
	}
	return e, nil
}
