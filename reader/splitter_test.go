package reader

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// numberedLines builds n distinct lines of exactly width characters.
func numberedLines(n, width int) []string {
	lines := make([]string, n)
	for i := range lines {
		prefix := fmt.Sprintf("line %03d ", i)
		lines[i] = prefix + strings.Repeat("x", width-len(prefix))
	}
	return lines
}

func TestSplitterConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultSplitterConfig().Validate())

	cfg := DefaultSplitterConfig()
	cfg.ChunkSize = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultSplitterConfig()
	cfg.ChunkOverlap = cfg.ChunkSize
	assert.Error(t, cfg.Validate())

	cfg = DefaultSplitterConfig()
	cfg.Separator = ""
	assert.Error(t, cfg.Validate())
}

func TestUnitSplitter_ShortTextIsOneChunk(t *testing.T) {
	s, err := newUnitSplitter(DefaultSplitterConfig())
	require.NoError(t, err)

	text := strings.Repeat("a", 100)
	pieces, err := s.split(text)
	require.NoError(t, err)
	assert.Equal(t, []string{text}, pieces)
}

func TestUnitSplitter_BlankTextYieldsNothing(t *testing.T) {
	s, err := newUnitSplitter(DefaultSplitterConfig())
	require.NoError(t, err)

	pieces, err := s.split("")
	require.NoError(t, err)
	assert.Empty(t, pieces)
}

func TestUnitSplitter_LongTextOverlaps(t *testing.T) {
	s, err := newUnitSplitter(DefaultSplitterConfig())
	require.NoError(t, err)

	lines := numberedLines(50, 100)
	pieces, err := s.split(strings.Join(lines, "\n"))
	require.NoError(t, err)
	require.Greater(t, len(pieces), 1, "text over the window must be split")

	for i, piece := range pieces {
		assert.LessOrEqual(t, len(piece), DefaultChunkSize, "chunk %d exceeds window", i)
	}

	for i := 1; i < len(pieces); i++ {
		prev := strings.Split(pieces[i-1], "\n")
		next := strings.Split(pieces[i], "\n")
		assert.Equal(t, prev[len(prev)-1], next[0],
			"chunk %d should start with the trailing line of chunk %d", i, i-1)
	}

	// Every source line survives somewhere
	joined := strings.Join(pieces, "\n")
	for _, line := range lines {
		assert.Contains(t, joined, line)
	}
}

func TestUnitSplitter_UnsplittableLineKeptWhole(t *testing.T) {
	s, err := newUnitSplitter(DefaultSplitterConfig())
	require.NoError(t, err)

	long := strings.Repeat("y", 2500)
	pieces, err := s.split(long)
	require.NoError(t, err)
	require.Len(t, pieces, 1)
	assert.Equal(t, long, pieces[0])
}
