package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreRequired is returned when a document store is not provided.
	ErrStoreRequired = errors.New("document store required")

	// ErrInvalidBatchSize is returned when the window size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrInvalidPacing is returned when the pacing interval is negative.
	ErrInvalidPacing = errors.New("pacing interval cannot be negative")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("worker count must be positive")

	// ErrPacerRequired is returned when WithPacer is given nil.
	ErrPacerRequired = errors.New("pacer required")

	// ErrPartialIngestion is returned when the store acknowledged some but not all chunks.
	ErrPartialIngestion = errors.New("partial ingestion")

	// ErrNothingAcknowledged is returned when the store acknowledged none of the chunks.
	ErrNothingAcknowledged = errors.New("no chunks acknowledged")
)

// Stages at which ingestion of a document can fail.
const (
	StageSelect = "select"
	StageRead   = "read"
	StageWrite  = "write"
	StageVerify = "verify"
)

// IngestError describes why a document was not fully ingested.
type IngestError struct {
	Stage string
	Path  string
	Err   error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest %s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}
