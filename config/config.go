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

// Package config loads docingest settings from the environment, an optional
// .env file and an optional YAML or TOML file.
//
// Environment variables take precedence over the config file. A .env file
// never overrides variables already present in the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Recognized keys.
const (
	KeyCohereAPIKey         = "COHERE_API_KEY"
	KeyCohereEmbeddingModel = "COHERE_EMBEDDING_MODEL_NAME"
	KeyCohereChatModel      = "COHERE_MODEL_NAME"

	KeyGeminiAPIKey         = "GEMINI_API_KEY"
	KeyGoogleAPIKey         = "GOOGLE_API_KEY"
	KeyGeminiEmbeddingModel = "GEMINI_EMBEDDING_MODEL_NAME"
	KeyGeminiChatModel      = "GEMINI_MODEL_NAME"

	KeyPostgresURI        = "POSTGRES_DATABASE_URI"
	KeyPostgresCollection = "POSTGRES_COLLECTION_NAME"

	KeyMilvusURI        = "MILVUS_DATABASE_URI"
	KeyMilvusToken      = "MILVUS_ACCESS_TOKEN"
	KeyMilvusCollection = "MILVUS_COLLECTION_NAME"
	KeyMilvusDim        = "MILVUS_VECTOR_DIM"

	KeyWeaviateHost   = "WEAVIATE_HOST"
	KeyWeaviateAPIKey = "WEAVIATE_API_KEY"
	KeyWeaviateClass  = "WEAVIATE_CLASS_NAME"

	KeyEmbeddingsService  = "EMBEDDINGS_SERVICE"
	KeyVectorStoreService = "VECTORSTORE_SERVICE"

	KeyBatchSize      = "INGEST_BATCH_SIZE"
	KeyPacingInterval = "INGEST_PACING_INTERVAL"
	KeyPacePDF        = "INGEST_PACE_PDF"
	KeyMaxRetries     = "INGEST_MAX_RETRIES"
	KeyRetryDelay     = "INGEST_RETRY_DELAY"

	KeyLogLevel        = "LOG_LEVEL"
	KeyLogDir          = "LOG_DIR"
	KeyLedgerPath      = "LEDGER_PATH"
	KeyMetricsTextfile = "METRICS_TEXTFILE"
	KeyUnidocLicense   = "UNIDOC_LICENSE_API_KEY"
)

// Defaults applied when a key is unset.
const (
	DefaultEmbeddingsService  = "cohere"
	DefaultVectorStoreService = "pgvector"
	DefaultBatchSize          = 100
	DefaultPacingInterval     = 60 * time.Second
	DefaultMaxRetries         = 3
	DefaultRetryDelay         = time.Second
	DefaultMilvusDim          = 1024
	DefaultLogLevel           = "info"
)

// CohereConfig holds Cohere credentials and model names.
type CohereConfig struct {
	APIKey         string
	EmbeddingModel string
	// ChatModel is read for completeness; docingest does not generate answers.
	ChatModel string
}

// GeminiConfig holds Gemini credentials and model names.
type GeminiConfig struct {
	APIKey         string
	EmbeddingModel string
	// ChatModel is read for completeness; docingest does not generate answers.
	ChatModel string
}

// PostgresConfig holds pgvector settings.
type PostgresConfig struct {
	URI        string
	Collection string
}

// MilvusConfig holds Milvus settings.
type MilvusConfig struct {
	URI        string
	Token      string
	Collection string
	Dim        int
}

// WeaviateConfig holds Weaviate settings.
type WeaviateConfig struct {
	Host   string
	APIKey string
	Class  string
}

// IngestConfig holds pipeline tuning.
type IngestConfig struct {
	BatchSize      int
	PacingInterval time.Duration
	PacePDF        bool
	MaxRetries     int
	RetryDelay     time.Duration
}

// Config is the complete docingest configuration.
type Config struct {
	EmbeddingsService  string
	VectorStoreService string

	Cohere   CohereConfig
	Gemini   GeminiConfig
	Postgres PostgresConfig
	Milvus   MilvusConfig
	Weaviate WeaviateConfig
	Ingest   IngestConfig

	LogLevel         string
	LogDir           string
	LedgerPath       string
	MetricsTextfile  string
	UnidocLicenseKey string
}

// Default returns a Config holding the defaults Load applies when nothing is set.
func Default() *Config {
	return &Config{
		EmbeddingsService:  DefaultEmbeddingsService,
		VectorStoreService: DefaultVectorStoreService,
		Milvus:             MilvusConfig{Dim: DefaultMilvusDim},
		Ingest: IngestConfig{
			BatchSize:      DefaultBatchSize,
			PacingInterval: DefaultPacingInterval,
			MaxRetries:     DefaultMaxRetries,
			RetryDelay:     DefaultRetryDelay,
		},
		LogLevel: DefaultLogLevel,
	}
}

// LoadOptions selects the files Load reads besides the environment.
type LoadOptions struct {
	// EnvFile is a dotenv file. A missing file is ignored.
	EnvFile string

	// ConfigFile is a YAML or TOML file keyed by the lower-cased variable names.
	// A missing file is an error.
	ConfigFile string
}

// Load reads the configuration.
func Load(opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		EmbeddingsService:  strings.ToLower(strings.TrimSpace(v.GetString(KeyEmbeddingsService))),
		VectorStoreService: strings.ToLower(strings.TrimSpace(v.GetString(KeyVectorStoreService))),
		Cohere: CohereConfig{
			APIKey:         v.GetString(KeyCohereAPIKey),
			EmbeddingModel: v.GetString(KeyCohereEmbeddingModel),
			ChatModel:      v.GetString(KeyCohereChatModel),
		},
		Gemini: GeminiConfig{
			APIKey:         firstNonEmpty(v.GetString(KeyGeminiAPIKey), v.GetString(KeyGoogleAPIKey)),
			EmbeddingModel: v.GetString(KeyGeminiEmbeddingModel),
			ChatModel:      v.GetString(KeyGeminiChatModel),
		},
		Postgres: PostgresConfig{
			URI:        v.GetString(KeyPostgresURI),
			Collection: v.GetString(KeyPostgresCollection),
		},
		Milvus: MilvusConfig{
			URI:        v.GetString(KeyMilvusURI),
			Token:      v.GetString(KeyMilvusToken),
			Collection: v.GetString(KeyMilvusCollection),
			Dim:        v.GetInt(KeyMilvusDim),
		},
		Weaviate: WeaviateConfig{
			Host:   v.GetString(KeyWeaviateHost),
			APIKey: v.GetString(KeyWeaviateAPIKey),
			Class:  v.GetString(KeyWeaviateClass),
		},
		Ingest: IngestConfig{
			BatchSize:      v.GetInt(KeyBatchSize),
			PacingInterval: v.GetDuration(KeyPacingInterval),
			PacePDF:        v.GetBool(KeyPacePDF),
			MaxRetries:     v.GetInt(KeyMaxRetries),
			RetryDelay:     v.GetDuration(KeyRetryDelay),
		},
		LogLevel:         v.GetString(KeyLogLevel),
		LogDir:           v.GetString(KeyLogDir),
		LedgerPath:       v.GetString(KeyLedgerPath),
		MetricsTextfile:  v.GetString(KeyMetricsTextfile),
		UnidocLicenseKey: v.GetString(KeyUnidocLicense),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyEmbeddingsService, DefaultEmbeddingsService)
	v.SetDefault(KeyVectorStoreService, DefaultVectorStoreService)
	v.SetDefault(KeyBatchSize, DefaultBatchSize)
	v.SetDefault(KeyPacingInterval, DefaultPacingInterval)
	v.SetDefault(KeyPacePDF, false)
	v.SetDefault(KeyMaxRetries, DefaultMaxRetries)
	v.SetDefault(KeyRetryDelay, DefaultRetryDelay)
	v.SetDefault(KeyMilvusDim, DefaultMilvusDim)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
}

// Validate checks ranges of the service-independent settings. Credentials are
// checked by EmbeddingConfig and StoreConfig once a service is selected.
func (c *Config) Validate() error {
	if c.Ingest.BatchSize <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidValue, KeyBatchSize, c.Ingest.BatchSize)
	}
	if c.Ingest.PacingInterval < 0 {
		return fmt.Errorf("%w: %s cannot be negative", ErrInvalidValue, KeyPacingInterval)
	}
	if c.Ingest.MaxRetries < 1 {
		return fmt.Errorf("%w: %s must be at least 1", ErrInvalidValue, KeyMaxRetries)
	}
	if c.Ingest.RetryDelay < 0 {
		return fmt.Errorf("%w: %s cannot be negative", ErrInvalidValue, KeyRetryDelay)
	}
	if c.Milvus.Dim < 0 {
		return fmt.Errorf("%w: %s cannot be negative", ErrInvalidValue, KeyMilvusDim)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func requireKey(key, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	return nil
}
