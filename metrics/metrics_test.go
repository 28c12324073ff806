package metrics

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveDocument(t *testing.T) {
	m := New()

	m.ObserveDocument("parquet", "partial", 250, 200, 2*time.Second)
	m.ObserveDocument("parquet", "succeeded", 10, 10, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Documents.WithLabelValues("parquet", "partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Documents.WithLabelValues("parquet", "succeeded")))
	assert.Equal(t, 260.0, testutil.ToFloat64(m.Chunks.WithLabelValues("parquet")))
	assert.Equal(t, 210.0, testutil.ToFloat64(m.Acknowledged.WithLabelValues("parquet")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
}

func TestObserveUpsert(t *testing.T) {
	m := New()

	m.ObserveUpsert(ModeBulk, errors.New("timeout"))
	m.ObserveUpsert(ModeWindow, nil)
	m.ObserveUpsert(ModeWindow, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Upserts.WithLabelValues(ModeBulk, OutcomeError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Upserts.WithLabelValues(ModeWindow, OutcomeOK)))
}

func TestObservePacing(t *testing.T) {
	m := New()

	m.ObservePacing(1500 * time.Millisecond)
	m.ObservePacing(500 * time.Millisecond)

	assert.InDelta(t, 2.0, testutil.ToFloat64(m.PacingWait), 1e-9)
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.ObserveUpsert(ModeBulk, nil)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Upserts.WithLabelValues(ModeBulk, OutcomeOK)))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveDocument("pdf", "succeeded", 3, 3, time.Second)

	path := filepath.Join(t.TempDir(), "docingest.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `docingest_documents_total{file_type="pdf",status="succeeded"} 1`)
}

func TestWritePrometheus(t *testing.T) {
	m := New()
	m.ObserveUpsert(ModeWindow, nil)

	var buf bytes.Buffer
	require.NoError(t, m.WritePrometheus(&buf))

	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(`
# HELP docingest_upserts_total Vector store write calls, by mode and outcome.
# TYPE docingest_upserts_total counter
docingest_upserts_total{mode="window",outcome="ok"} 1
`), "docingest_upserts_total")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "docingest_upserts_total")
}
