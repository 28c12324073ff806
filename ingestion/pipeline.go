package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docingest/core"
	"github.com/poiesic/docingest/metrics"
	"github.com/poiesic/docingest/reader"
	"github.com/poiesic/docingest/storage"
)

// DefaultBatchSize is the number of chunks per window when the bulk write fails.
const DefaultBatchSize = 100

// DocumentStore persists chunks under caller-supplied ids and returns the ids
// it acknowledged. vectorstore.Index is the production implementation.
type DocumentStore interface {
	AddDocuments(ctx context.Context, chunks []core.Chunk, ids []string) ([]string, error)
}

// Pipeline ingests documents into a DocumentStore.
type Pipeline struct {
	store   DocumentStore
	readers map[core.FileType]reader.Reader

	batchSize      int
	pacingInterval time.Duration
	pacedTypes     map[core.FileType]bool
	newPacer       func() Pacer

	readerOpts []reader.Option
	ledger     storage.LedgerRepository
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time

	workers int
	pool    *ants.Pool
	wg      sync.WaitGroup
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithBatchSize sets the window size used after a failed bulk write.
// Default is 100.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidBatchSize, size)
		}
		p.batchSize = size
		return nil
	}
}

// WithPacing sets the pause between windows. When fileTypes are given they
// replace the set of paced file types; otherwise the set is kept.
// An interval of zero disables pacing.
// Default is 60s for parquet only.
func WithPacing(interval time.Duration, fileTypes ...core.FileType) Option {
	return func(p *Pipeline) error {
		if interval < 0 {
			return fmt.Errorf("%w: %s", ErrInvalidPacing, interval)
		}
		p.pacingInterval = interval
		if len(fileTypes) > 0 {
			p.pacedTypes = make(map[core.FileType]bool, len(fileTypes))
			for _, ft := range fileTypes {
				p.pacedTypes[ft] = true
			}
		}
		return nil
	}
}

// WithPacer replaces the default rate limiter used between windows.
// The same pacer is shared by every document.
func WithPacer(pacer Pacer) Option {
	return func(p *Pipeline) error {
		if pacer == nil {
			return ErrPacerRequired
		}
		p.newPacer = func() Pacer { return pacer }
		return nil
	}
}

// WithReaderOptions passes options to every document reader.
func WithReaderOptions(opts ...reader.Option) Option {
	return func(p *Pipeline) error {
		p.readerOpts = append(p.readerOpts, opts...)
		return nil
	}
}

// WithLedger records every run in ledger.
func WithLedger(ledger storage.LedgerRepository) Option {
	return func(p *Pipeline) error {
		p.ledger = ledger
		return nil
	}
}

// WithMetrics records ingestion metrics in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) error {
		p.metrics = m
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithClock overrides the clock used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) error {
		if now != nil {
			p.now = now
		}
		return nil
	}
}

// WithWorkers sets how many documents Submit ingests concurrently.
// Default is 1.
func WithWorkers(n int) Option {
	return func(p *Pipeline) error {
		if n <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidWorkers, n)
		}
		p.workers = n
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline writing to store.
func NewPipeline(store DocumentStore, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	p := &Pipeline{
		store:          store,
		batchSize:      DefaultBatchSize,
		pacingInterval: DefaultPacingInterval,
		pacedTypes:     map[core.FileType]bool{core.FileTypeParquet: true},
		logger:         slog.Default(),
		now:            func() time.Time { return time.Now().UTC() },
		workers:        1,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "ingestion")
	if p.newPacer == nil {
		interval := p.pacingInterval
		p.newPacer = func() Pacer { return NewRatePacer(interval) }
	}

	readerOpts := append([]reader.Option{reader.WithLogger(p.logger)}, p.readerOpts...)
	p.readers = make(map[core.FileType]reader.Reader, len(core.FileTypes))
	for _, ft := range core.FileTypes {
		r, err := reader.New(ft, readerOpts...)
		if err != nil {
			return nil, fmt.Errorf("building %s reader: %w", ft, err)
		}
		p.readers[ft] = r
	}

	pool, err := ants.NewPool(p.workers)
	if err != nil {
		return nil, err
	}
	p.pool = pool

	return p, nil
}

// paced reports whether windows of fileType are paced.
func (p *Pipeline) paced(fileType core.FileType) bool {
	return p.pacingInterval > 0 && p.pacedTypes[fileType]
}

// Ingest reads the document described by desc and writes its chunks to the
// store. The returned Result is never nil.
func (p *Pipeline) Ingest(ctx context.Context, desc core.Descriptor) *Result {
	res := &Result{Descriptor: desc, StartedAt: p.now()}
	logger := p.logger.With("file", desc.Path)

	p.run(ctx, res, logger)

	res.FinishedAt = p.now()
	p.record(ctx, res, logger)
	return res
}

func (p *Pipeline) run(ctx context.Context, res *Result, logger *slog.Logger) {
	desc := res.Descriptor
	fail := func(stage string, err error) {
		res.Status = core.RunFailed
		res.Err = &IngestError{Stage: stage, Path: desc.Path, Err: err}
	}

	if err := core.ValidateDescriptor(desc); err != nil {
		fail(StageSelect, err)
		return
	}
	fileType, err := desc.FileType()
	if err != nil {
		fail(StageSelect, err)
		return
	}
	res.FileType = fileType

	chunks, ids, err := p.readers[fileType].Load(ctx, desc)
	if err != nil {
		fail(StageRead, err)
		return
	}
	res.Chunks = len(chunks)
	if len(chunks) == 0 {
		logger.Info("document produced no chunks")
		res.Status = core.RunSucceeded
		return
	}

	acked, writeErr := p.write(ctx, res, chunks, ids, logger)
	p.reconcile(res, ids, acked, writeErr)
}

// write attempts one bulk upsert and falls back to windows when it fails.
// It returns every id the store acknowledged and the last write error seen.
func (p *Pipeline) write(ctx context.Context, res *Result, chunks []core.Chunk, ids []string, logger *slog.Logger) ([]string, error) {
	acked, err := p.store.AddDocuments(ctx, chunks, ids)
	p.observeUpsert(metrics.ModeBulk, err)
	if err == nil {
		return acked, nil
	}

	logger.Warn("bulk upsert failed, falling back to windows",
		"chunks", len(chunks), "batch_size", p.batchSize, "err", err)
	res.Batched = true
	lastErr := err
	acked = nil

	parts := windows(len(chunks), p.batchSize)
	var pacer Pacer
	if p.paced(res.FileType) {
		pacer = p.newPacer()
	}

	for i, w := range parts {
		if i > 0 && pacer != nil {
			start := time.Now()
			if err := pacer.Wait(ctx); err != nil {
				skipped := len(parts) - i
				logger.Error("pacing interrupted, skipping remaining windows", "skipped", skipped, "err", err)
				res.Windows += skipped
				res.FailedWindows += skipped
				return acked, err
			}
			if p.metrics != nil {
				p.metrics.ObservePacing(time.Since(start))
			}
		}

		res.Windows++
		got, err := p.store.AddDocuments(ctx, chunks[w.start:w.end], ids[w.start:w.end])
		p.observeUpsert(metrics.ModeWindow, err)
		if err != nil {
			res.FailedWindows++
			lastErr = err
			logger.Error("window upsert failed",
				"window", i+1, "windows", len(parts), "start", w.start, "end", w.end, "err", err)
			continue
		}
		acked = append(acked, got...)
		logger.Debug("window upserted", "window", i+1, "windows", len(parts), "acknowledged", len(got))
	}
	return acked, lastErr
}

// reconcile compares acknowledged ids with the expected ids and sets the
// final status of res.
func (p *Pipeline) reconcile(res *Result, expected, acked []string, writeErr error) {
	ackSet := make(map[string]struct{}, len(acked))
	for _, id := range acked {
		ackSet[id] = struct{}{}
	}

	seen := make(map[string]struct{}, len(expected))
	var missing []string
	distinct := 0
	for _, id := range expected {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		distinct++
		if _, ok := ackSet[id]; !ok {
			missing = append(missing, id)
		}
	}
	res.Acknowledged = distinct - len(missing)
	res.Missing = missing

	path := res.Descriptor.Path
	switch {
	case len(missing) == 0:
		res.Status = core.RunSucceeded
	case res.Acknowledged > 0:
		res.Status = core.RunPartial
		res.Err = &IngestError{
			Stage: StageVerify,
			Path:  path,
			Err:   fmt.Errorf("%w: %d of %d chunks missing", ErrPartialIngestion, len(missing), distinct),
		}
	default:
		res.Status = core.RunFailed
		err := ErrNothingAcknowledged
		if writeErr != nil {
			err = fmt.Errorf("%w: %w", ErrNothingAcknowledged, writeErr)
		}
		res.Err = &IngestError{Stage: StageWrite, Path: path, Err: err}
	}
}

// record logs the outcome and stores it in the ledger and metrics.
func (p *Pipeline) record(ctx context.Context, res *Result, logger *slog.Logger) {
	attrs := []any{
		"file_type", res.FileType,
		"status", res.Status,
		"chunks", res.Chunks,
		"acknowledged", res.Acknowledged,
		"batched", res.Batched,
		"duration", res.Duration(),
	}
	switch res.Status {
	case core.RunSucceeded:
		logger.Info("document ingested", attrs...)
	case core.RunPartial:
		logger.Error("document partially ingested", append(attrs, "missing", len(res.Missing), "err", res.Err)...)
	default:
		logger.Error("document ingestion failed", append(attrs, "err", res.Err)...)
	}

	if p.metrics != nil {
		fileType := string(res.FileType)
		if fileType == "" {
			fileType = "unknown"
		}
		p.metrics.ObserveDocument(fileType, string(res.Status), res.Chunks, res.Acknowledged, res.Duration())
	}

	if p.ledger != nil {
		// Recorded even when ctx is cancelled.
		if err := p.ledger.SaveRun(context.WithoutCancel(ctx), res.Run()); err != nil {
			logger.Warn("failed to record run in ledger", "err", err)
		}
	}
}

func (p *Pipeline) observeUpsert(mode string, err error) {
	if p.metrics != nil {
		p.metrics.ObserveUpsert(mode, err)
	}
}

// Submit ingests desc on the worker pool and passes the result to done.
// It blocks while every worker is busy.
func (p *Pipeline) Submit(ctx context.Context, desc core.Descriptor, done func(*Result)) error {
	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()
		res := p.Ingest(ctx, desc)
		if done != nil {
			done(res)
		}
	})
	if err != nil {
		p.wg.Done()
		return fmt.Errorf("submitting %s: %w", desc.Path, err)
	}
	return nil
}

// Wait blocks until every submitted document has been ingested.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
