package reader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/poiesic/docingest/core"
)

// Reader loads a source document into chunks.
// The returned slices have the same length and ids[i] identifies chunks[i].
type Reader interface {
	Load(ctx context.Context, desc core.Descriptor) (chunks []core.Chunk, ids []string, err error)
}

// Option configures a Reader.
type Option func(*options)

type options struct {
	splitter  SplitterConfig
	extractor PageExtractor
	logger    *slog.Logger
}

// WithSplitter overrides the default 2000/200 newline splitter.
func WithSplitter(cfg SplitterConfig) Option {
	return func(o *options) {
		o.splitter = cfg
	}
}

// WithPageExtractor sets how PDF pages are turned into text.
// Default is the unipdf extractor. Ignored by the parquet reader.
func WithPageExtractor(extractor PageExtractor) Option {
	return func(o *options) {
		o.extractor = extractor
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// New returns the reader for fileType.
func New(fileType core.FileType, opts ...Option) (Reader, error) {
	o := &options{
		splitter: DefaultSplitterConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	splitter, err := newUnitSplitter(o.splitter)
	if err != nil {
		return nil, err
	}

	switch fileType {
	case core.FileTypePDF:
		extractor := o.extractor
		if extractor == nil {
			extractor = NewUnipdfExtractor(o.logger)
		}
		return &pdfReader{
			extractor: extractor,
			builder:   &chunkBuilder{splitter: splitter},
			logger:    o.logger.With("reader", "pdf"),
		}, nil
	case core.FileTypeParquet:
		return &parquetReader{
			builder: &chunkBuilder{splitter: splitter},
			logger:  o.logger.With("reader", "parquet"),
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFileType, fileType)
}

// ForPath resolves the reader for path from its extension.
func ForPath(path string, opts ...Option) (Reader, core.FileType, error) {
	fileType, err := core.FileTypeFromPath(path)
	if err != nil {
		return nil, "", err
	}
	r, err := New(fileType, opts...)
	if err != nil {
		return nil, "", err
	}
	return r, fileType, nil
}

// chunkBuilder splits units of a document and stamps chunk metadata.
type chunkBuilder struct {
	splitter *unitSplitter
}

// build splits units[i] as page i+1 of len(units) pages.
func (b *chunkBuilder) build(ctx context.Context, desc core.Descriptor, units []string) ([]core.Chunk, []string, error) {
	fileName := filepath.Base(desc.Path)
	total := strconv.Itoa(len(units))

	var chunks []core.Chunk
	var ids []string
	for i, text := range units {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		pieces, err := b.splitter.split(text)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: splitting page %d: %w", core.ErrMalformedDocument, i+1, err)
		}

		pageNo := strconv.Itoa(i + 1)
		for _, piece := range pieces {
			chunk := core.Chunk{
				Content: piece,
				Metadata: map[string]string{
					core.MetaFileName:    fileName,
					core.MetaPageNo:      pageNo,
					core.MetaTotalPages:  total,
					core.MetaCategory:    desc.Category,
					core.MetaSubCategory: desc.SubCategory,
				},
			}
			chunks = append(chunks, chunk)
			ids = append(ids, core.ChunkID(piece, pageNo))
		}
	}
	return chunks, ids, nil
}
