package rag

import (
	"context"
	"fmt"
	"strings"

	"askbot/internal/contextutil"
)

// Generator produces a completion for an assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Engine answers questions end to end: retrieve, decide, generate.
type Engine interface {
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
}

type engine struct {
	retriever *Retriever
	generator Generator
	citations bool
}

// NewEngine wires a retriever and a generator into an answering engine.
func NewEngine(retriever *Retriever, generator Generator, citations bool) Engine {
	return &engine{retriever: retriever, generator: generator, citations: citations}
}

// Ask answers one question. Retrieval errors propagate unchanged so the
// caller can distinguish a broken backend from a legitimately empty
// knowledge base.
func (e *engine) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return AskResponse{}, fmt.Errorf("question must not be empty")
	}

	ret, err := e.retriever.Retrieve(ctx, question)
	if err != nil {
		return AskResponse{}, err
	}

	decision := Decide(question, ret, e.citations)
	logger.InfoContext(ctx, "answer mode decided",
		"mode", decision.Mode,
		"strong", len(ret.Strong),
		"weak", len(ret.Weak),
		"context_used", decision.ContextUsed,
	)

	answer, err := e.generator.Generate(ctx, decision.Prompt)
	if err != nil {
		return AskResponse{}, fmt.Errorf("failed to generate answer: %w", err)
	}

	return AskResponse{
		Query:       question,
		Answer:      answer,
		Mode:        decision.Mode,
		ContextUsed: decision.ContextUsed,
	}, nil
}
