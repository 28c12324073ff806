package storage

import (
	"context"

	"github.com/poiesic/docingest/core"
)

// LedgerRepository records the outcome of every ingestion run, one entry per
// source document. Implementations must be thread-safe.
type LedgerRepository interface {
	// SaveRun stores run under the id derived from its path, replacing any
	// earlier run of the same document. Sets run.Id.
	SaveRun(ctx context.Context, run *core.IngestRun) error

	// GetRun retrieves the latest run for path.
	// Returns ErrNotFound if the document was never ingested.
	GetRun(ctx context.Context, path string) (*core.IngestRun, error)

	// ListRuns returns every recorded run, most recently finished first.
	ListRuns(ctx context.Context) ([]*core.IngestRun, error)

	// DeleteRun forgets the run for path.
	// Returns ErrNotFound if the document was never ingested.
	DeleteRun(ctx context.Context, path string) error

	// Close releases resources held by the repository.
	Close() error
}
