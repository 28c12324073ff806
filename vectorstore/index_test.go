package vectorstore

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/docingest/ai"
	"github.com/poiesic/docingest/ai/mock"
	"github.com/poiesic/docingest/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChunks(contents ...string) ([]core.Chunk, []string) {
	chunks := make([]core.Chunk, len(contents))
	ids := make([]string, len(contents))
	for i, c := range contents {
		chunks[i] = core.Chunk{
			Content: c,
			Metadata: map[string]string{
				core.MetaFileName: "doc.pdf",
				core.MetaPageNo:   "1",
			},
		}
		ids[i] = chunks[i].ID()
	}
	return chunks, ids
}

func TestNewIndex_RequiresDependencies(t *testing.T) {
	_, err := NewIndex(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewIndex(NewMemoryStore(), nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestIndex_AddDocuments(t *testing.T) {
	store := NewMemoryStore()
	embedder := mock.NewMockEmbedder()
	embedder.Dim = 8
	idx, err := NewIndex(store, embedder)
	require.NoError(t, err)

	chunks, ids := testChunks("alpha", "beta", "gamma")
	acked, err := idx.AddDocuments(context.Background(), chunks, ids)
	require.NoError(t, err)

	assert.Equal(t, ids, acked)
	assert.Equal(t, 1, embedder.CallCount(), "all chunks should be embedded in one call")
	assert.Equal(t, 3, embedder.TextCount())
	assert.Equal(t, 3, store.Len())

	rec, ok := store.Get(ids[1])
	require.True(t, ok)
	assert.Equal(t, "beta", rec.Document)
	assert.Equal(t, "doc.pdf", rec.Metadata[core.MetaFileName])
	assert.Equal(t, mock.GenerateDeterministicVector("beta", 8), rec.Vector)
}

func TestIndex_AddDocuments_Empty(t *testing.T) {
	store := NewMemoryStore()
	embedder := mock.NewMockEmbedder()
	idx, err := NewIndex(store, embedder)
	require.NoError(t, err)

	acked, err := idx.AddDocuments(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, acked)
	assert.Equal(t, 0, embedder.CallCount())
	assert.Equal(t, 0, store.Calls())
}

func TestIndex_AddDocuments_LengthMismatch(t *testing.T) {
	idx, err := NewIndex(NewMemoryStore(), mock.NewMockEmbedder())
	require.NoError(t, err)

	chunks, ids := testChunks("a", "b")
	_, err = idx.AddDocuments(context.Background(), chunks, ids[:1])
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestIndex_AddDocuments_EmbedFailure(t *testing.T) {
	store := NewMemoryStore()
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("quota exceeded")
	}
	idx, err := NewIndex(store, embedder)
	require.NoError(t, err)

	chunks, ids := testChunks("a")
	_, err = idx.AddDocuments(context.Background(), chunks, ids)
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Equal(t, 0, store.Calls())
}

func TestIndex_AddDocuments_VectorCountMismatch(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1}}, nil
	}
	idx, err := NewIndex(NewMemoryStore(), embedder)
	require.NoError(t, err)

	chunks, ids := testChunks("a", "b")
	_, err = idx.AddDocuments(context.Background(), chunks, ids)
	assert.ErrorIs(t, err, ai.ErrEmbeddingCountMismatch)
}

func TestIndex_AddDocuments_PartialAcknowledgement(t *testing.T) {
	store := NewMemoryStore()
	store.UpsertFunc = func(ctx context.Context, records []Record) ([]string, error) {
		return []string{records[0].ID}, nil
	}
	idx, err := NewIndex(store, mock.NewMockEmbedder())
	require.NoError(t, err)

	chunks, ids := testChunks("a", "b")
	acked, err := idx.AddDocuments(context.Background(), chunks, ids)
	require.NoError(t, err)
	assert.Equal(t, ids[:1], acked)
}

func TestIndex_AddDocuments_DoesNotAliasMetadata(t *testing.T) {
	store := NewMemoryStore()
	idx, err := NewIndex(store, mock.NewMockEmbedder())
	require.NoError(t, err)

	chunks, ids := testChunks("a")
	_, err = idx.AddDocuments(context.Background(), chunks, ids)
	require.NoError(t, err)

	chunks[0].Metadata[core.MetaCategory] = "changed"
	rec, _ := store.Get(ids[0])
	assert.NotContains(t, rec.Metadata, core.MetaCategory)
}

func TestIndex_Close(t *testing.T) {
	store := NewMemoryStore()
	idx, err := NewIndex(store, mock.NewMockEmbedder())
	require.NoError(t, err)

	require.NoError(t, idx.Close())
	assert.True(t, store.Closed())
}
