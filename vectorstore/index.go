package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/poiesic/docingest/ai"
	"github.com/poiesic/docingest/core"
)

// Index embeds chunks and writes them to a Store.
type Index struct {
	store    Store
	embedder ai.Embedder
	logger   *slog.Logger
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithIndexLogger sets the logger used by the Index.
func WithIndexLogger(logger *slog.Logger) IndexOption {
	return func(i *Index) {
		i.logger = logger
	}
}

// NewIndex creates an Index over store using embedder for vectors.
func NewIndex(store Store, embedder ai.Embedder, opts ...IndexOption) (*Index, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	idx := &Index{
		store:    store,
		embedder: embedder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	idx.logger = idx.logger.With("component", "vector-index")
	return idx, nil
}

// AddDocuments embeds the chunk contents in a single provider call and upserts
// them under ids. It returns the ids acknowledged by the store.
func (i *Index) AddDocuments(ctx context.Context, chunks []core.Chunk, ids []string) ([]string, error) {
	if len(chunks) != len(ids) {
		return nil, fmt.Errorf("%w: %d chunks, %d ids", ErrLengthMismatch, len(chunks), len(ids))
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for n, chunk := range chunks {
		texts[n] = chunk.Content
	}

	vectors, err := i.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks", ai.ErrEmbeddingCountMismatch, len(vectors), len(chunks))
	}

	records := make([]Record, len(chunks))
	for n, chunk := range chunks {
		records[n] = Record{
			ID:       ids[n],
			Vector:   vectors[n],
			Document: chunk.Content,
			Metadata: maps.Clone(chunk.Metadata),
		}
	}

	acked, err := i.store.Upsert(ctx, records)
	if err != nil {
		return nil, err
	}
	i.logger.Debug("upserted chunks", "requested", len(records), "acknowledged", len(acked))
	return acked, nil
}

// Close closes the underlying store.
func (i *Index) Close() error {
	return i.store.Close()
}
