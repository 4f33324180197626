package ingest

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"askbot/internal/contextutil"
	"askbot/internal/kb"
	"askbot/internal/vectorstore"
)

// Embedder maps text to a fixed-dimension vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Options configures a Pipeline.
type Options struct {
	Root         string
	Extensions   []string
	ChunkSize    int
	ChunkOverlap int
	Concurrency  int
	StoreTimeout time.Duration
}

// Pipeline drives chunking, embedding and storage to populate the knowledge
// base from a directory of documents.
type Pipeline struct {
	root         string
	exts         map[string]struct{}
	chunkSize    int
	chunkOverlap int
	concurrency  int
	storeTimeout time.Duration
	embedder     Embedder
	store        vectorstore.VectorStore
}

// NewPipeline creates an ingestion pipeline. Chunk geometry is validated here
// so a non-advancing cursor can never reach the chunker.
func NewPipeline(embedder Embedder, store vectorstore.VectorStore, opts Options) (*Pipeline, error) {
	if opts.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be greater than 0, got %d", opts.ChunkSize)
	}
	if opts.ChunkOverlap < 0 || opts.ChunkOverlap >= opts.ChunkSize {
		return nil, fmt.Errorf("chunk overlap must satisfy 0 <= overlap < size, got overlap=%d size=%d", opts.ChunkOverlap, opts.ChunkSize)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if len(opts.Extensions) == 0 {
		return nil, fmt.Errorf("at least one file extension is required")
	}

	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts[ext] = struct{}{}
	}

	return &Pipeline{
		root:         opts.Root,
		exts:         exts,
		chunkSize:    opts.ChunkSize,
		chunkOverlap: opts.ChunkOverlap,
		concurrency:  opts.Concurrency,
		storeTimeout: opts.StoreTimeout,
		embedder:     embedder,
		store:        store,
	}, nil
}

// Run ingests every eligible file under the root and returns a report.
// Files run concurrently up to the configured bound. Failures are isolated to
// the smallest unit: a chunk that fails to embed or upsert is skipped, a file
// that cannot be read is recorded and the run continues. Run only errors when
// the root itself is unusable.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	logger := contextutil.LoggerFromContext(ctx)

	files, err := scanFiles(ctx, p.root, p.exts)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "found files", "count", len(files), "root", p.root)

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			results[i] = p.ingestFile(gctx, file)
			// Unit failures land in the result, never cancel siblings.
			return nil
		})
	}
	_ = g.Wait()

	report := buildReport(results)
	logger.InfoContext(ctx, "knowledge base ingestion complete",
		"files_found", report.FilesFound,
		"files_processed", report.FilesProcessed,
		"files_failed", report.FilesFailed,
		"chunks_stored", report.ChunksStored,
		"chunks_skipped", report.ChunksSkipped,
	)
	return report, nil
}

// ingestFile reads, chunks, embeds and upserts one file. Each chunk is an
// independent embed-then-upsert unit; one bad chunk never loses the others.
func (p *Pipeline) ingestFile(ctx context.Context, file ScannedFile) FileResult {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "ingesting file", "source", file.RelPath)

	result := FileResult{Source: file.RelPath}

	content, err := os.ReadFile(file.AbsPath)
	if err != nil {
		result.Err = fmt.Errorf("failed to read file: %w", err)
		logger.ErrorContext(ctx, "failed to ingest file", "source", file.RelPath, "error", err)
		return result
	}

	result.Title = extractTitle(content, file.RelPath)

	chunks := Chunk(string(content), p.chunkSize, p.chunkOverlap)
	result.Chunks = len(chunks)
	logger.DebugContext(ctx, "chunked file", "source", file.RelPath, "chunks", len(chunks))

	for idx, chunk := range chunks {
		docID := kb.ChunkID(file.RelPath, idx)

		payload, err := kb.Envelope{Source: file.RelPath, Chunk: idx, Content: chunk}.Marshal()
		if err != nil {
			logger.WarnContext(ctx, "skipping chunk", "doc_id", docID, "error", err)
			result.Skipped++
			continue
		}

		// The serialized envelope, not the bare chunk, is what gets embedded.
		vec, err := p.embedder.EmbedText(ctx, string(payload))
		if err != nil {
			logger.WarnContext(ctx, "skipping chunk", "doc_id", docID, "error", err)
			result.Skipped++
			continue
		}

		if err := p.upsert(ctx, vectorstore.Record{Key: docID, Payload: payload, Vector: vec}); err != nil {
			logger.WarnContext(ctx, "skipping chunk", "doc_id", docID, "error", err)
			result.Skipped++
			continue
		}
		result.Stored++
	}

	logger.InfoContext(ctx, "ingested file",
		"source", file.RelPath, "title", result.Title,
		"chunks", result.Chunks, "stored", result.Stored, "skipped", result.Skipped,
	)
	return result
}

func (p *Pipeline) upsert(ctx context.Context, rec vectorstore.Record) error {
	if p.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.storeTimeout)
		defer cancel()
	}
	return p.store.Upsert(ctx, rec)
}
