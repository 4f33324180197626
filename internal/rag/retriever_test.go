package rag

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/mock/gomock"

	"askbot/internal/kb"
	"askbot/internal/vectorstore"
	"askbot/internal/vectorstore/mocks"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) EmbedText(context.Context, string) ([]float32, error) {
	return f.vec, f.err
}

func payloadFor(t *testing.T, source string, chunk int, content string) []byte {
	t.Helper()
	payload, err := kb.Envelope{Source: source, Chunk: chunk, Content: content}.Marshal()
	if err != nil {
		t.Fatalf("failed to build payload: %v", err)
	}
	return payload
}

func newTestRetriever(t *testing.T, store vectorstore.VectorStore, embedder Embedder) *Retriever {
	t.Helper()
	r, err := NewRetriever(embedder, store, 5, -0.85, -0.5, 0)
	if err != nil {
		t.Fatalf("NewRetriever() unexpected error: %v", err)
	}
	return r
}

func TestNewRetrieverValidation(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{1}}
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockVectorStore(ctrl)

	if _, err := NewRetriever(embedder, store, 0, -0.85, -0.5, 0); err == nil {
		t.Error("NewRetriever() should reject k=0")
	}
	if _, err := NewRetriever(embedder, store, 5, -0.5, -0.85, 0); err == nil {
		t.Error("NewRetriever() should reject strong > soft")
	}
}

func TestRetrievePartitionsTiers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().
		KNN(gomock.Any(), gomock.Any(), 5).
		Return([]vectorstore.Neighbor{
			{Key: "orion.md::chunk-0", Payload: payloadFor(t, "orion.md", 0, "Project Orion is licensed under Apache 2.0"), Distance: -0.92},
			{Key: "faq.md::chunk-2", Payload: payloadFor(t, "faq.md", 2, "Orion ships quarterly"), Distance: -0.6},
			{Key: "noise.md::chunk-1", Payload: payloadFor(t, "noise.md", 1, "completely unrelated"), Distance: -0.1},
		}, nil)

	r := newTestRetriever(t, store, &fakeEmbedder{vec: []float32{0.1, 0.2}})
	ret, err := r.Retrieve(context.Background(), "What license does Orion use?")
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}

	if len(ret.Strong) != 1 || ret.Strong[0].Source != "orion.md" {
		t.Errorf("Strong = %+v, want the orion.md chunk", ret.Strong)
	}
	if ret.Strong[0].Tier != TierStrong || ret.Strong[0].ChunkIndex != 0 {
		t.Errorf("strong candidate fields wrong: %+v", ret.Strong[0])
	}
	if len(ret.Weak) != 1 || ret.Weak[0].Source != "faq.md" {
		t.Errorf("Weak = %+v, want the faq.md chunk", ret.Weak)
	}
	for _, c := range append(ret.Strong, ret.Weak...) {
		if c.Source == "noise.md" {
			t.Error("irrelevant candidate survived retrieval")
		}
	}
}

func TestRetrieveSkipsMalformedPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().
		KNN(gomock.Any(), gomock.Any(), 5).
		Return([]vectorstore.Neighbor{
			{Key: "bad", Payload: []byte("not json"), Distance: -0.9},
			{Key: "good.md::chunk-0", Payload: payloadFor(t, "good.md", 0, "valid"), Distance: -0.9},
		}, nil)

	r := newTestRetriever(t, store, &fakeEmbedder{vec: []float32{1}})
	ret, err := r.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(ret.Strong) != 1 || ret.Strong[0].Key != "good.md::chunk-0" {
		t.Errorf("Strong = %+v, want only the well-formed record", ret.Strong)
	}
}

func TestRetrievePropagatesStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().
		KNN(gomock.Any(), gomock.Any(), 5).
		Return(nil, fmt.Errorf("%w: connection refused", vectorstore.ErrStore))

	r := newTestRetriever(t, store, &fakeEmbedder{vec: []float32{1}})
	_, err := r.Retrieve(context.Background(), "q")
	if err == nil {
		t.Fatal("Retrieve() must fail when the store fails")
	}
	if !errors.Is(err, vectorstore.ErrStore) {
		t.Errorf("error %v should wrap the store sentinel", err)
	}
}

func TestRetrievePropagatesEmbedError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockVectorStore(ctrl)

	r := newTestRetriever(t, store, &fakeEmbedder{err: errors.New("backend down")})
	if _, err := r.Retrieve(context.Background(), "q"); err == nil {
		t.Fatal("Retrieve() must fail when embedding fails")
	}
}
