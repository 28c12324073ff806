package config

import (
	"errors"

	"github.com/poiesic/docingest/ai"
	"github.com/poiesic/docingest/vectorstore"
	"github.com/poiesic/docingest/vectorstore/milvus"
	"github.com/poiesic/docingest/vectorstore/pgvector"
	"github.com/poiesic/docingest/vectorstore/weaviate"
)

// EmbeddingConfig returns the provider configuration for EmbeddingsService.
func (c *Config) EmbeddingConfig() (*ai.Config, error) {
	kind, err := ai.ParseEmbeddingProviderKind(c.EmbeddingsService)
	if err != nil {
		return nil, err
	}

	var apiKey, model string
	switch kind {
	case ai.ProviderCohere:
		apiKey, model = c.Cohere.APIKey, c.Cohere.EmbeddingModel
		err = errors.Join(requireKey(KeyCohereAPIKey, apiKey), requireKey(KeyCohereEmbeddingModel, model))
	case ai.ProviderGemini:
		apiKey, model = c.Gemini.APIKey, c.Gemini.EmbeddingModel
		err = errors.Join(requireKey(KeyGeminiAPIKey, apiKey), requireKey(KeyGeminiEmbeddingModel, model))
	}
	if err != nil {
		return nil, err
	}

	return ai.NewConfig(
		ai.WithKind(kind),
		ai.WithAPIKey(apiKey),
		ai.WithModel(model),
		ai.WithRetry(c.Ingest.MaxRetries, c.Ingest.RetryDelay),
	), nil
}

// StoreConfig holds the backend selected by VectorStoreService and its
// settings. Exactly one of the backend fields is set.
type StoreConfig struct {
	Kind     vectorstore.Kind
	PGVector *pgvector.Config
	Milvus   *milvus.Config
	Weaviate *weaviate.Config
}

// StoreConfig returns the vector store configuration for VectorStoreService.
func (c *Config) StoreConfig() (*StoreConfig, error) {
	kind, err := vectorstore.ParseKind(c.VectorStoreService)
	if err != nil {
		return nil, err
	}

	sc := &StoreConfig{Kind: kind}
	switch kind {
	case vectorstore.KindPGVector:
		err = errors.Join(
			requireKey(KeyPostgresURI, c.Postgres.URI),
			requireKey(KeyPostgresCollection, c.Postgres.Collection),
		)
		sc.PGVector = &pgvector.Config{
			ConnectionURL: c.Postgres.URI,
			Collection:    c.Postgres.Collection,
		}
	case vectorstore.KindMilvus:
		err = errors.Join(
			requireKey(KeyMilvusURI, c.Milvus.URI),
			requireKey(KeyMilvusCollection, c.Milvus.Collection),
		)
		sc.Milvus = &milvus.Config{
			URI:        c.Milvus.URI,
			Token:      c.Milvus.Token,
			Collection: c.Milvus.Collection,
			Dim:        c.Milvus.Dim,
		}
	case vectorstore.KindWeaviate:
		err = errors.Join(
			requireKey(KeyWeaviateHost, c.Weaviate.Host),
			requireKey(KeyWeaviateClass, c.Weaviate.Class),
		)
		sc.Weaviate = &weaviate.Config{
			Host:   c.Weaviate.Host,
			APIKey: c.Weaviate.APIKey,
			Class:  c.Weaviate.Class,
		}
	}
	if err != nil {
		return nil, err
	}
	return sc, nil
}
