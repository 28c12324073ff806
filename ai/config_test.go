package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, EmbeddingProviderKind(""), cfg.Kind)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, 0, cfg.BatchSize)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, 3, cfg.MaxRetries)
	})

	t.Run("with all options", func(t *testing.T) {
		cfg := NewConfig(
			WithKind(ProviderGemini),
			WithAPIKey("key"),
			WithModel("text-embedding-004"),
			WithBaseURL("http://localhost:8080"),
			WithBatchSize(50),
			WithRetry(5, 2*time.Second),
		)

		assert.Equal(t, ProviderGemini, cfg.Kind)
		assert.Equal(t, "key", cfg.APIKey)
		assert.Equal(t, "text-embedding-004", cfg.Model)
		assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
		assert.Equal(t, 50, cfg.BatchSize)
		assert.Equal(t, 5, cfg.MaxRetries)
		assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	})
}

func TestConfig_Normalize(t *testing.T) {
	cfg := &Config{
		Kind:    " Cohere ",
		APIKey:  " key ",
		Model:   " embed-english-v3.0\n",
		BaseURL: "https://api.cohere.com/",
	}
	cfg.Normalize()

	assert.Equal(t, ProviderCohere, cfg.Kind)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "embed-english-v3.0", cfg.Model)
	assert.Equal(t, "https://api.cohere.com", cfg.BaseURL)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return NewConfig(WithKind(ProviderCohere), WithAPIKey("key"), WithModel("model"))
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown kind", mutate: func(c *Config) { c.Kind = "openai" }, wantErr: "unknown embedding provider"},
		{name: "missing kind", mutate: func(c *Config) { c.Kind = "" }, wantErr: "unknown embedding provider"},
		{name: "missing api key", mutate: func(c *Config) { c.APIKey = "" }, wantErr: "APIKey is required"},
		{name: "missing model", mutate: func(c *Config) { c.Model = " " }, wantErr: "Model is required"},
		{name: "negative batch size", mutate: func(c *Config) { c.BatchSize = -1 }, wantErr: "BatchSize"},
		{name: "zero retries", mutate: func(c *Config) { c.MaxRetries = 0 }, wantErr: "MaxRetries"},
		{name: "negative delay", mutate: func(c *Config) { c.RetryDelay = -time.Second }, wantErr: "RetryDelay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseEmbeddingProviderKind(t *testing.T) {
	kind, err := ParseEmbeddingProviderKind("cohere")
	require.NoError(t, err)
	assert.Equal(t, ProviderCohere, kind)

	kind, err = ParseEmbeddingProviderKind(" GEMINI ")
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, kind)

	_, err = ParseEmbeddingProviderKind("openai")
	assert.ErrorIs(t, err, ErrUnknownEmbeddingProvider)
}
