package reader

import (
	"fmt"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the target window, in characters, of a chunk.
	DefaultChunkSize = 2000
	// DefaultChunkOverlap is the number of characters shared by consecutive chunks.
	DefaultChunkOverlap = 200
	// DefaultSeparator is the preferred split boundary.
	DefaultSeparator = "\n"
)

// SplitterConfig controls how a unit of text is re-chunked.
type SplitterConfig struct {
	ChunkSize    int
	ChunkOverlap int
	Separator    string
}

// DefaultSplitterConfig returns the 2000/200 newline splitter configuration.
func DefaultSplitterConfig() SplitterConfig {
	return SplitterConfig{
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		Separator:    DefaultSeparator,
	}
}

// Validate checks the window and overlap are usable.
func (c SplitterConfig) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("splitter config: ChunkSize must be greater than 0")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("splitter config: ChunkOverlap must be in [0, ChunkSize)")
	}
	if c.Separator == "" {
		return fmt.Errorf("splitter config: Separator is required")
	}
	return nil
}

// unitSplitter splits the text of a single page or row.
// Pieces with no separator longer than the window are kept whole.
type unitSplitter struct {
	splitter textsplitter.RecursiveCharacter
}

func newUnitSplitter(cfg SplitterConfig) (*unitSplitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &unitSplitter{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithSeparators([]string{cfg.Separator}),
			textsplitter.WithChunkSize(cfg.ChunkSize),
			textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
			textsplitter.WithLenFunc(utf8.RuneCountInString),
		),
	}, nil
}

// split returns the chunks of text in order. Blank text yields no chunks.
func (s *unitSplitter) split(text string) ([]string, error) {
	return s.splitter.SplitText(text)
}
