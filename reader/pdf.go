package reader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/poiesic/docingest/core"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// PageExtractor returns the raw text of every physical page of a PDF, in page order.
type PageExtractor interface {
	ExtractPages(ctx context.Context, path string) ([]string, error)
}

// PageExtractorFunc adapts a function to PageExtractor.
type PageExtractorFunc func(ctx context.Context, path string) ([]string, error)

// ExtractPages calls f.
func (f PageExtractorFunc) ExtractPages(ctx context.Context, path string) ([]string, error) {
	return f(ctx, path)
}

// SetPDFLicenseKey registers a metered unidoc license key with unipdf.
// Must be called before the first extraction when a key is in use.
func SetPDFLicenseKey(key string) error {
	if key == "" {
		return nil
	}
	return license.SetMeteredKey(key)
}

// UnipdfExtractor extracts page text with unipdf.
type UnipdfExtractor struct {
	logger *slog.Logger
}

var _ PageExtractor = (*UnipdfExtractor)(nil)

// NewUnipdfExtractor creates the default page extractor.
func NewUnipdfExtractor(logger *slog.Logger) *UnipdfExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &UnipdfExtractor{logger: logger.With("component", "unipdf-extractor")}
}

// ExtractPages opens path and extracts one text per page.
func (e *UnipdfExtractor) ExtractPages(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrDocumentNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %w", core.ErrMalformedDocument, path, err)
	}
	defer f.Close()

	pdf, err := model.NewPdfReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrMalformedDocument, path, err)
	}

	encrypted, err := pdf.IsEncrypted()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrMalformedDocument, path, err)
	}
	if encrypted {
		// Many PDFs are encrypted with an empty user password only.
		ok, err := pdf.Decrypt([]byte(""))
		if err != nil || !ok {
			return nil, fmt.Errorf("%w: %s: encrypted document", core.ErrMalformedDocument, path)
		}
	}

	numPages, err := pdf.GetNumPages()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrMalformedDocument, path, err)
	}

	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := pdf.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: page %d: %w", core.ErrMalformedDocument, path, i, err)
		}
		ex, err := extractor.New(page)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: page %d: %w", core.ErrMalformedDocument, path, i, err)
		}
		text, err := ex.ExtractText()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: page %d: %w", core.ErrMalformedDocument, path, i, err)
		}
		pages = append(pages, text)
	}

	e.logger.Debug("extracted pdf pages", "path", path, "pages", numPages)
	return pages, nil
}

// pdfReader produces chunks from PDF pages.
type pdfReader struct {
	extractor PageExtractor
	builder   *chunkBuilder
	logger    *slog.Logger
}

var _ Reader = (*pdfReader)(nil)

// Load extracts every page and splits each one independently.
// total_pages is the page count of the PDF, not the number of chunks.
func (r *pdfReader) Load(ctx context.Context, desc core.Descriptor) ([]core.Chunk, []string, error) {
	if _, err := os.Stat(desc.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", core.ErrDocumentNotFound, desc.Path)
		}
		return nil, nil, fmt.Errorf("%w: %s: %w", core.ErrMalformedDocument, desc.Path, err)
	}

	pages, err := r.extractor.ExtractPages(ctx, desc.Path)
	if err != nil {
		return nil, nil, err
	}

	chunks, ids, err := r.builder.build(ctx, desc, pages)
	if err != nil {
		return nil, nil, err
	}

	r.logger.Info("loaded pdf", "path", desc.Path, "pages", len(pages), "chunks", len(chunks))
	return chunks, ids, nil
}
