package ingestion

import (
	"time"

	"github.com/poiesic/docingest/core"
)

// Result reports the outcome of ingesting one document.
type Result struct {
	Descriptor core.Descriptor
	FileType   core.FileType
	Status     core.RunStatus

	Chunks       int      // chunks produced by the reader
	Acknowledged int      // distinct expected ids the store acknowledged
	Missing      []string // expected ids the store never acknowledged, in reader order

	Batched       bool // the bulk write failed and windows were used
	Windows       int  // windows attempted, including failed ones
	FailedWindows int

	StartedAt  time.Time
	FinishedAt time.Time

	// Err is nil when Status is succeeded, otherwise an *IngestError.
	Err error
}

// OK reports whether every chunk was acknowledged.
func (r *Result) OK() bool {
	return r.Status == core.RunSucceeded
}

// Partial reports whether some but not all chunks were acknowledged.
func (r *Result) Partial() bool {
	return r.Status == core.RunPartial
}

// Duration returns the wall time of the ingestion.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Run converts the result into a ledger entry.
func (r *Result) Run() *core.IngestRun {
	run := &core.IngestRun{
		Path:           r.Descriptor.Path,
		FileType:       r.FileType,
		Category:       r.Descriptor.Category,
		SubCategory:    r.Descriptor.SubCategory,
		ExcludeColumns: r.Descriptor.ExcludeColumns,
		Status:         r.Status,
		Chunks:         r.Chunks,
		Acknowledged:   r.Acknowledged,
		Missing:        r.Missing,
		Batched:        r.Batched,
		Windows:        r.Windows,
		FailedWindows:  r.FailedWindows,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
	}
	if r.Err != nil {
		run.Error = r.Err.Error()
	}
	return run
}
