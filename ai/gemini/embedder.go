// Package gemini implements ai.Embedder with Google Gemini embedding models.
//
// The langchaingo googleai client provides the transport; it is wrapped by
// embeddings.NewEmbedder so large inputs are split into requests of at most
// MaxTextsPerRequest texts.
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/docingest/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
)

// MaxTextsPerRequest is the largest batch accepted by batchEmbedContents.
const MaxTextsPerRequest = 100

// Embedder implements ai.Embedder using Gemini embedding models.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

func newEmbedder(ctx context.Context, config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Kind != ai.ProviderGemini {
		return nil, fmt.Errorf("gemini: config is for provider %q", config.Kind)
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultEmbeddingModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	batchSize := config.BatchSize
	if batchSize == 0 || batchSize > MaxTextsPerRequest {
		batchSize = MaxTextsPerRequest
	}

	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithBatchSize(batchSize),
		embeddings.WithStripNewLines(false),
	)
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		logger:   slog.Default().With("component", "gemini-embedder"),
	}, nil
}

// NewEmbedder creates a new Gemini embedder using the provided configuration.
// Calls are retried according to config.MaxRetries and config.RetryDelay.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(ctx context.Context, config *ai.Config) (ai.Embedder, error) {
	e, err := newEmbedder(ctx, config)
	if err != nil {
		return nil, err
	}
	return ai.WithRetries(e, config.MaxRetries, config.RetryDelay), nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}
	return vectors, nil
}
