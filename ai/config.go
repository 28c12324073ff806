// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for an embedding provider.
type Config struct {
	// Kind selects the provider implementation.
	Kind EmbeddingProviderKind

	// APIKey authenticates against the provider.
	APIKey string

	// Model is the embedding model identifier.
	// Example: "embed-english-v3.0", "text-embedding-004"
	Model string

	// BaseURL overrides the provider endpoint. Empty uses the provider default.
	// Example: "https://api.cohere.com"
	BaseURL string

	// BatchSize is the maximum number of texts sent in one provider request.
	// Zero uses the provider's documented limit.
	BatchSize int

	// MaxRetries is the number of attempts made for each provider request.
	// Default: 3
	MaxRetries int

	// RetryDelay is the base delay of the exponential backoff between attempts.
	// Default: 1s
	RetryDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithKind sets the provider kind.
func WithKind(kind EmbeddingProviderKind) ConfigOption {
	return func(c *Config) {
		c.Kind = kind
	}
}

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithBaseURL overrides the provider endpoint.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithBatchSize sets the maximum texts per provider request.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = size
	}
}

// WithRetry sets the attempts and base backoff delay for provider requests.
func WithRetry(maxRetries int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// DefaultConfig returns a Config with retry defaults and no provider selected.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithKind(ProviderCohere),
//	    WithAPIKey(os.Getenv("COHERE_API_KEY")),
//	    WithModel("embed-english-v3.0"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
func (c *Config) Normalize() {
	c.Kind = EmbeddingProviderKind(strings.ToLower(strings.TrimSpace(string(c.Kind))))
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Model = strings.TrimSpace(c.Model)
	c.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if _, err := ParseEmbeddingProviderKind(string(c.Kind)); err != nil {
		return err
	}
	if c.APIKey == "" {
		return errors.New("ai config: APIKey is required")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.BatchSize < 0 {
		return errors.New("ai config: BatchSize cannot be negative")
	}
	if c.MaxRetries < 1 {
		return errors.New("ai config: MaxRetries must be at least 1")
	}
	if c.RetryDelay < 0 {
		return errors.New("ai config: RetryDelay cannot be negative")
	}
	return nil
}
