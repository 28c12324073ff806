package pgvector

import (
	"context"
	"encoding/json"
	"testing"

	pgv "github.com/pgvector/pgvector-go"
	"github.com/poiesic/docingest/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	cfg := Config{ConnectionURL: " postgres://localhost/rag ", Collection: " docs "}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "postgres://localhost/rag", cfg.ConnectionURL)
	assert.Equal(t, "docs", cfg.Collection)

	cfg = Config{Collection: "docs"}
	assert.ErrorContains(t, cfg.Validate(), "ConnectionURL is required")

	cfg = Config{ConnectionURL: "postgres://localhost/rag"}
	assert.ErrorContains(t, cfg.Validate(), "Collection is required")
}

func TestNew_InvalidConfigDoesNotConnect(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.ErrorContains(t, err, "ConnectionURL is required")
}

func TestUpsertArgs(t *testing.T) {
	r := vectorstore.Record{
		ID:       "abc",
		Vector:   []float32{0.1, 0.2},
		Document: "text",
		Metadata: map[string]string{"page_no": "3"},
	}

	args, err := upsertArgs("coll-1", r)
	require.NoError(t, err)
	require.Len(t, args, 5)

	assert.Equal(t, "abc", args[0])
	assert.Equal(t, "coll-1", args[1])
	assert.Equal(t, pgv.NewVector([]float32{0.1, 0.2}), args[2])
	assert.Equal(t, "text", args[3])

	var meta map[string]string
	require.NoError(t, json.Unmarshal(args[4].([]byte), &meta))
	assert.Equal(t, map[string]string{"page_no": "3"}, meta)
}

func TestUpsertArgs_NilMetadataIsEmptyObject(t *testing.T) {
	args, err := upsertArgs("coll-1", vectorstore.Record{ID: "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(args[4].([]byte)))
}

func TestUpsertArgs_RequiresID(t *testing.T) {
	_, err := upsertArgs("coll-1", vectorstore.Record{})
	assert.Error(t, err)
}
