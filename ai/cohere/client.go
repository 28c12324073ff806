package cohere

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/poiesic/docingest/ai"
	"github.com/tmc/langchaingo/embeddings"
)

const (
	// DefaultBaseURL is the public Cohere API endpoint.
	DefaultBaseURL = "https://api.cohere.com"

	// MaxTextsPerRequest is the largest batch the embed endpoint accepts.
	MaxTextsPerRequest = 96

	embedPath               = "/v2/embed"
	inputTypeSearchDocument = "search_document"
	embeddingTypeFloat      = "float"
	requestTimeout          = 60 * time.Second
)

type embedRequest struct {
	Model          string   `json:"model"`
	Texts          []string `json:"texts"`
	InputType      string   `json:"input_type"`
	EmbeddingTypes []string `json:"embedding_types"`
}

type embedResponse struct {
	ID         string `json:"id"`
	Embeddings struct {
		Float [][]float32 `json:"float"`
	} `json:"embeddings"`
}

type apiError struct {
	Message string `json:"message"`
}

// client calls the Cohere v2 embed endpoint.
type client struct {
	http  *resty.Client
	model string
}

var _ embeddings.EmbedderClient = (*client)(nil)

func newClient(baseURL, apiKey, model string) *client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	http := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(requestTimeout)
	return &client{http: http, model: model}
}

// CreateEmbedding embeds texts as search documents.
func (c *client) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	var out embedResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&embedRequest{
			Model:          c.model,
			Texts:          texts,
			InputType:      inputTypeSearchDocument,
			EmbeddingTypes: []string{embeddingTypeFloat},
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post(embedPath)
	if err != nil {
		return nil, fmt.Errorf("cohere embed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cohere embed: %s: %s", resp.Status(), apiErr.Message)
	}

	if len(out.Embeddings.Float) != len(texts) {
		return nil, fmt.Errorf("cohere embed: %w: expected %d, received %d",
			ai.ErrEmbeddingCountMismatch, len(texts), len(out.Embeddings.Float))
	}
	return out.Embeddings.Float, nil
}
