package storage

import (
	"testing"
	"time"

	"github.com/poiesic/docingest/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSerialization(t *testing.T) {
	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	run := &core.IngestRun{
		Id:            core.IDFromPath("/data/qa.parquet"),
		Path:          "/data/qa.parquet",
		FileType:      core.FileTypeParquet,
		Category:      "faq",
		Status:        core.RunPartial,
		Chunks:        250,
		Acknowledged:  200,
		Missing:       []string{"abc", "def"},
		Batched:       true,
		Windows:       3,
		FailedWindows: 1,
		Error:         "verify: partial ingestion",
		StartedAt:     started,
		FinishedAt:    started.Add(2 * time.Minute),
	}

	data, err := MarshalRun(run)
	require.NoError(t, err)

	decoded, err := UnmarshalRun(data)
	require.NoError(t, err)
	assert.Equal(t, run, decoded)
	assert.Equal(t, 2*time.Minute, decoded.Duration())
}

func TestUnmarshalRun_Errors(t *testing.T) {
	_, err := UnmarshalRun(nil)
	assert.ErrorIs(t, err, ErrTruncatedData)

	_, err = UnmarshalRun([]byte("{not json"))
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
