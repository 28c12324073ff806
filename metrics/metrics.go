// Package metrics exposes Prometheus instrumentation for document ingestion.
//
// Metrics live on a private registry so several pipelines (and tests) never
// collide on the global one. Batch runs persist them with WriteTextfile for
// the node exporter textfile collector.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Upsert modes.
const (
	ModeBulk   = "bulk"
	ModeWindow = "window"
)

// Upsert outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics groups the ingestion collectors and the registry they are registered on.
type Metrics struct {
	registry *prometheus.Registry

	Documents    *prometheus.CounterVec
	Chunks       *prometheus.CounterVec
	Acknowledged *prometheus.CounterVec
	Upserts      *prometheus.CounterVec
	PacingWait   prometheus.Counter
	Duration     *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docingest_documents_total",
				Help: "Documents processed, by file type and final status.",
			},
			[]string{"file_type", "status"}, // succeeded | partial | failed
		),
		Chunks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docingest_chunks_total",
				Help: "Chunks produced by readers.",
			},
			[]string{"file_type"},
		),
		Acknowledged: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docingest_chunks_acknowledged_total",
				Help: "Chunks acknowledged by the vector store.",
			},
			[]string{"file_type"},
		),
		Upserts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docingest_upserts_total",
				Help: "Vector store write calls, by mode and outcome.",
			},
			[]string{"mode", "outcome"},
		),
		PacingWait: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docingest_pacing_wait_seconds_total",
				Help: "Time spent waiting between paced upsert windows.",
			},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docingest_ingest_duration_seconds",
				Help:    "Wall time of one document ingestion.",
				Buckets: []float64{0.5, 1, 5, 15, 60, 300, 900, 3600},
			},
			[]string{"file_type"},
		),
	}
	m.registry.MustRegister(m.Documents, m.Chunks, m.Acknowledged, m.Upserts, m.PacingWait, m.Duration)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveUpsert counts one vector store write.
func (m *Metrics) ObserveUpsert(mode string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.Upserts.WithLabelValues(mode, outcome).Inc()
}

// ObservePacing adds a pacing wait.
func (m *Metrics) ObservePacing(d time.Duration) {
	m.PacingWait.Add(d.Seconds())
}

// ObserveDocument records the outcome of one document.
func (m *Metrics) ObserveDocument(fileType, status string, chunks, acknowledged int, elapsed time.Duration) {
	m.Documents.WithLabelValues(fileType, status).Inc()
	m.Chunks.WithLabelValues(fileType).Add(float64(chunks))
	m.Acknowledged.WithLabelValues(fileType).Add(float64(acknowledged))
	m.Duration.WithLabelValues(fileType).Observe(elapsed.Seconds())
}

// WriteTextfile atomically writes the registry to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// WritePrometheus writes the registry to w in the text exposition format.
func (m *Metrics) WritePrometheus(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
