package ingestion

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/docingest/core"
)

// ProgressTracker reports progress of a multi-document ingestion.
// It is safe for use from Submit callbacks.
type ProgressTracker struct {
	writer    io.Writer
	total     int
	startTime time.Time
	started   bool

	done      int
	succeeded int
	partial   int
	failed    int
	chunks    int

	mu sync.Mutex
}

// NewProgressTracker creates a tracker for total documents writing to writer
// (typically os.Stderr).
func NewProgressTracker(writer io.Writer, total int) *ProgressTracker {
	return &ProgressTracker{writer: writer, total: total}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.done, p.succeeded, p.partial, p.failed, p.chunks = 0, 0, 0, 0, 0
}

// Record counts one finished document and reports progress.
func (p *ProgressTracker) Record(res *Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || res == nil {
		return
	}

	p.done++
	p.chunks += res.Acknowledged
	switch res.Status {
	case core.RunSucceeded:
		p.succeeded++
	case core.RunPartial:
		p.partial++
	default:
		p.failed++
	}
	p.report()
}

// Finish prints final progress followed by a newline.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.report()
	fmt.Fprintln(p.writer)
}

// Failed returns the number of documents that were not fully ingested.
func (p *ProgressTracker) Failed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.partial + p.failed
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressTracker) report() {
	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.done) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rDocuments: %d/%d (%.1f%%) - ok %d, partial %d, failed %d - %d chunks",
		p.done, p.total, percentage, p.succeeded, p.partial, p.failed, p.chunks)
}
