package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"pgvector", KindPGVector},
		{"MILVUS", KindMilvus},
		{" weaviate ", KindWeaviate},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseKind("chroma")
	assert.ErrorIs(t, err, ErrUnknownVectorStore)
	assert.ErrorContains(t, err, "chroma")
}

func TestMemoryStore_UpsertOverwritesByID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Upsert(ctx, []Record{{ID: "a", Document: "first"}})
	require.NoError(t, err)
	acked, err := store.Upsert(ctx, []Record{{ID: "a", Document: "second"}, {ID: "b", Document: "other"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, acked)
	assert.Equal(t, []string{"a", "b"}, store.IDs())
	rec, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, "second", rec.Document)
	assert.Equal(t, 2, store.Calls())
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Upsert(ctx, []Record{{ID: "a"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.Len())
}
