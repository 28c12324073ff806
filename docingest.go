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

// Package docingest wires configuration, an embedding provider, a vector
// store, the run ledger and metrics into an ingestion pipeline.
package docingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/docingest/ai"
	"github.com/poiesic/docingest/ai/cohere"
	"github.com/poiesic/docingest/ai/gemini"
	"github.com/poiesic/docingest/config"
	"github.com/poiesic/docingest/core"
	"github.com/poiesic/docingest/ingestion"
	"github.com/poiesic/docingest/metrics"
	"github.com/poiesic/docingest/reader"
	"github.com/poiesic/docingest/storage"
	"github.com/poiesic/docingest/storage/badger"
	"github.com/poiesic/docingest/vectorstore"
	"github.com/poiesic/docingest/vectorstore/milvus"
	"github.com/poiesic/docingest/vectorstore/pgvector"
	"github.com/poiesic/docingest/vectorstore/weaviate"
)

// ErrNoLedger is returned by operations that need a run ledger when none is configured.
var ErrNoLedger = errors.New("no ledger configured")

// Ingester ingests documents into the configured vector store.
type Ingester struct {
	pipeline    *ingestion.Pipeline
	index       *vectorstore.Index
	ledger      storage.LedgerRepository
	ownsLedger  bool
	metrics     *metrics.Metrics
	metricsPath string
	logger      *slog.Logger
}

// Option configures an Ingester.
type Option func(*options)

type options struct {
	embedder     ai.Embedder
	store        vectorstore.Store
	ledger       storage.LedgerRepository
	logger       *slog.Logger
	pipelineOpts []ingestion.Option
}

// WithEmbedder uses embedder instead of the configured embedding service.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(o *options) {
		o.embedder = embedder
	}
}

// WithStore uses store instead of the configured vector store service.
// The Ingester closes it.
func WithStore(store vectorstore.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLedger uses ledger instead of opening the configured ledger path.
// The caller keeps ownership of ledger.
func WithLedger(ledger storage.LedgerRepository) Option {
	return func(o *options) {
		o.ledger = ledger
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPipelineOptions appends options to the ones derived from the configuration.
func WithPipelineOptions(opts ...ingestion.Option) Option {
	return func(o *options) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// New builds an Ingester from cfg.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Ingester, error) {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger

	if cfg.UnidocLicenseKey != "" {
		if err := reader.SetPDFLicenseKey(cfg.UnidocLicenseKey); err != nil {
			return nil, err
		}
	}

	embedder := o.embedder
	if embedder == nil {
		aiCfg, err := cfg.EmbeddingConfig()
		if err != nil {
			return nil, err
		}
		if embedder, err = NewEmbedder(ctx, aiCfg); err != nil {
			return nil, err
		}
	}

	store := o.store
	if store == nil {
		storeCfg, err := cfg.StoreConfig()
		if err != nil {
			return nil, err
		}
		if store, err = NewStore(ctx, storeCfg, logger); err != nil {
			return nil, err
		}
	}

	index, err := vectorstore.NewIndex(store, embedder, vectorstore.WithIndexLogger(logger))
	if err != nil {
		store.Close()
		return nil, err
	}

	ing := &Ingester{
		index:       index,
		ledger:      o.ledger,
		metrics:     metrics.New(),
		metricsPath: cfg.MetricsTextfile,
		logger:      logger,
	}

	if ing.ledger == nil && cfg.LedgerPath != "" {
		ledger, err := badger.NewLedger(cfg.LedgerPath, logger)
		if err != nil {
			index.Close()
			return nil, fmt.Errorf("opening ledger: %w", err)
		}
		ing.ledger = ledger
		ing.ownsLedger = true
	}

	pipelineOpts := append(pipelineOptions(cfg, logger, ing.metrics, ing.ledger), o.pipelineOpts...)
	ing.pipeline, err = ingestion.NewPipeline(index, pipelineOpts...)
	if err != nil {
		ing.closeResources()
		return nil, err
	}

	return ing, nil
}

func pipelineOptions(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics, ledger storage.LedgerRepository) []ingestion.Option {
	paced := []core.FileType{core.FileTypeParquet}
	if cfg.Ingest.PacePDF {
		paced = append(paced, core.FileTypePDF)
	}

	opts := []ingestion.Option{
		ingestion.WithLogger(logger),
		ingestion.WithMetrics(m),
		ingestion.WithPacing(cfg.Ingest.PacingInterval, paced...),
	}
	if cfg.Ingest.BatchSize > 0 {
		opts = append(opts, ingestion.WithBatchSize(cfg.Ingest.BatchSize))
	}
	if ledger != nil {
		opts = append(opts, ingestion.WithLedger(ledger))
	}
	return opts
}

// NewEmbedder creates the embedder selected by cfg.Kind.
func NewEmbedder(ctx context.Context, cfg *ai.Config) (ai.Embedder, error) {
	switch cfg.Kind {
	case ai.ProviderCohere:
		return cohere.NewEmbedder(cfg)
	case ai.ProviderGemini:
		return gemini.NewEmbedder(ctx, cfg)
	}
	return nil, fmt.Errorf("%w: %q", ai.ErrUnknownEmbeddingProvider, cfg.Kind)
}

// NewStore connects to the vector store selected by cfg.Kind.
func NewStore(ctx context.Context, cfg *config.StoreConfig, logger *slog.Logger) (vectorstore.Store, error) {
	switch cfg.Kind {
	case vectorstore.KindPGVector:
		if cfg.PGVector != nil {
			c := *cfg.PGVector
			c.Logger = logger
			return pgvector.New(ctx, c)
		}
	case vectorstore.KindMilvus:
		if cfg.Milvus != nil {
			c := *cfg.Milvus
			c.Logger = logger
			return milvus.New(ctx, c)
		}
	case vectorstore.KindWeaviate:
		if cfg.Weaviate != nil {
			c := *cfg.Weaviate
			c.Logger = logger
			return weaviate.New(c)
		}
	default:
		return nil, fmt.Errorf("%w: %q", vectorstore.ErrUnknownVectorStore, cfg.Kind)
	}
	return nil, fmt.Errorf("%s store configuration missing", cfg.Kind)
}

// Ingest ingests one document synchronously.
func (i *Ingester) Ingest(ctx context.Context, desc core.Descriptor) *ingestion.Result {
	return i.pipeline.Ingest(ctx, desc)
}

// Submit queues desc on the pipeline's worker pool.
func (i *Ingester) Submit(ctx context.Context, desc core.Descriptor, done func(*ingestion.Result)) error {
	return i.pipeline.Submit(ctx, desc, done)
}

// Wait blocks until every submitted document has been ingested.
func (i *Ingester) Wait() {
	i.pipeline.Wait()
}

func (i *Ingester) Pipeline() *ingestion.Pipeline {
	return i.pipeline
}

func (i *Ingester) Metrics() *metrics.Metrics {
	return i.metrics
}

// Ledger returns the run ledger, or nil when none is configured.
func (i *Ingester) Ledger() storage.LedgerRepository {
	return i.ledger
}

// Unfinished returns the descriptors of ledger runs that were partial or
// failed, most recent first. Re-ingesting them overwrites any chunk that
// was already acknowledged.
func (i *Ingester) Unfinished(ctx context.Context) ([]core.Descriptor, error) {
	if i.ledger == nil {
		return nil, ErrNoLedger
	}
	runs, err := i.ledger.ListRuns(ctx)
	if err != nil {
		return nil, err
	}

	var descs []core.Descriptor
	for _, run := range runs {
		if run.Status != core.RunSucceeded {
			descs = append(descs, run.Descriptor())
		}
	}
	return descs, nil
}

// Close releases the pipeline, writes the metrics textfile if configured,
// and closes the store and any ledger the Ingester opened.
func (i *Ingester) Close() error {
	i.pipeline.Release()

	var errs []error
	if i.metricsPath != "" {
		if err := i.metrics.WriteTextfile(i.metricsPath); err != nil {
			i.logger.Error("error writing metrics textfile", "path", i.metricsPath, "err", err)
			errs = append(errs, err)
		}
	}
	if err := i.closeResources(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (i *Ingester) closeResources() error {
	var errs []error
	if err := i.index.Close(); err != nil {
		i.logger.Error("error closing vector store", "err", err)
		errs = append(errs, err)
	}
	if i.ownsLedger {
		if err := i.ledger.Close(); err != nil {
			i.logger.Error("error closing ledger", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
