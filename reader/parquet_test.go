package reader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/poiesic/docingest/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var qaColumns = []string{"instruction", "question", "answer"}

func writeQA(t *testing.T, rows int) string {
	t.Helper()
	data := make([][]string, rows)
	for i := range data {
		data[i] = []string{
			"Answer the medical question.",
			fmt.Sprintf("What is finding %d?", i),
			fmt.Sprintf("Finding %d is benign.", i),
		}
	}
	path := filepath.Join(t.TempDir(), "medqa.parquet")
	require.NoError(t, WriteParquetFile(path, qaColumns, data))
	return path
}

func TestParquetReader_RowSerialization(t *testing.T) {
	path := writeQA(t, 2)
	r, err := New(core.FileTypeParquet)
	require.NoError(t, err)

	chunks, ids, err := r.Load(context.Background(), core.Descriptor{
		Path:        path,
		Category:    "medical",
		SubCategory: "qa",
	})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	require.Len(t, ids, 2)

	want := "instruction: Answer the medical question.\n\n" +
		"question: What is finding 0?\n\n" +
		"answer: Finding 0 is benign."
	assert.Equal(t, want, chunks[0].Content)
	assert.Equal(t, "1", chunks[0].Metadata[core.MetaPageNo])
	assert.Equal(t, "2", chunks[1].Metadata[core.MetaPageNo])
	assert.Equal(t, "2", chunks[0].Metadata[core.MetaTotalPages])
	assert.Equal(t, "medqa.parquet", chunks[0].Metadata[core.MetaFileName])
	assert.Equal(t, "medical", chunks[1].Metadata[core.MetaCategory])
	assert.Equal(t, "qa", chunks[1].Metadata[core.MetaSubCategory])
	assert.Equal(t, core.ChunkID(chunks[0].Content, "1"), ids[0])
}

func TestParquetReader_ExcludedColumnsAbsent(t *testing.T) {
	const rows = 25
	path := writeQA(t, rows)
	r, err := New(core.FileTypeParquet)
	require.NoError(t, err)

	exclude := []string{"instruction"}
	chunks, _, err := r.Load(context.Background(), core.Descriptor{Path: path, ExcludeColumns: exclude})
	require.NoError(t, err)
	require.Len(t, chunks, rows)

	for _, chunk := range chunks {
		assert.Equal(t, strconv.Itoa(rows), chunk.Metadata[core.MetaTotalPages])
		for _, line := range strings.Split(chunk.Content, "\n") {
			for _, col := range exclude {
				assert.False(t, strings.HasPrefix(line, col), "line %q starts with excluded column", line)
			}
		}
		assert.Contains(t, chunk.Content, "question: ")
	}
}

func TestParquetReader_NoExclusionListKeepsAllColumns(t *testing.T) {
	path := writeQA(t, 1)
	r, err := New(core.FileTypeParquet)
	require.NoError(t, err)

	for _, exclude := range [][]string{nil, {}} {
		chunks, _, err := r.Load(context.Background(), core.Descriptor{Path: path, ExcludeColumns: exclude})
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		for _, col := range qaColumns {
			assert.Contains(t, chunks[0].Content, col+": ")
		}
	}
}

func TestParquetReader_NullRendersEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparse.parquet")
	require.NoError(t, WriteParquetFile(path, []string{"a", "b"}, [][]string{{"x"}}))

	r, err := New(core.FileTypeParquet)
	require.NoError(t, err)

	chunks, _, err := r.Load(context.Background(), core.Descriptor{Path: path})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a: x\n\nb:", chunks[0].Content)
}

func TestParquetReader_MissingFile(t *testing.T) {
	r, err := New(core.FileTypeParquet)
	require.NoError(t, err)

	_, _, err = r.Load(context.Background(), core.Descriptor{Path: filepath.Join(t.TempDir(), "none.parquet")})
	assert.ErrorIs(t, err, core.ErrDocumentNotFound)
}

func TestParquetReader_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.parquet")
	require.NoError(t, os.WriteFile(path, []byte("not parquet at all"), 0o644))

	r, err := New(core.FileTypeParquet)
	require.NoError(t, err)

	_, _, err = r.Load(context.Background(), core.Descriptor{Path: path})
	assert.ErrorIs(t, err, core.ErrMalformedDocument)
}
