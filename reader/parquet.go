package reader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/poiesic/docingest/core"
)

// rowSeparator joins the "column: value" entries of a row.
const rowSeparator = "\n\n"

// parquetReader produces one unit per table row.
type parquetReader struct {
	builder *chunkBuilder
	logger  *slog.Logger
}

var _ Reader = (*parquetReader)(nil)

// Load reads the whole table and serializes each row in column order,
// skipping the columns named in desc.ExcludeColumns.
// A nil or empty exclusion list keeps every column.
func (r *parquetReader) Load(ctx context.Context, desc core.Descriptor) ([]core.Chunk, []string, error) {
	rows, err := readRows(ctx, desc.Path, desc.ExcludeColumns)
	if err != nil {
		return nil, nil, err
	}

	chunks, ids, err := r.builder.build(ctx, desc, rows)
	if err != nil {
		return nil, nil, err
	}

	r.logger.Info("loaded parquet", "path", desc.Path, "rows", len(rows), "chunks", len(chunks))
	return chunks, ids, nil
}

// readRows returns the serialized content of every row of the parquet file.
func readRows(ctx context.Context, path string, exclude []string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrDocumentNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %w", core.ErrMalformedDocument, path, err)
	}

	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrMalformedDocument, path, err)
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrMalformedDocument, path, err)
	}

	table, err := fr.ReadTable(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %w", core.ErrMalformedDocument, path, err)
	}
	defer table.Release()

	return serializeRows(table, exclude), nil
}

// serializeRows renders each row as "column: value" entries joined by a blank line.
func serializeRows(table arrow.Table, exclude []string) []string {
	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excluded[name] = struct{}{}
	}

	numRows := int(table.NumRows())
	entries := make([][]string, numRows)

	for c := 0; c < int(table.NumCols()); c++ {
		column := table.Column(c)
		if _, skip := excluded[column.Name()]; skip {
			continue
		}

		row := 0
		for _, chunk := range column.Data().Chunks() {
			for i := 0; i < chunk.Len(); i++ {
				value := ""
				if !chunk.IsNull(i) {
					value = chunk.ValueStr(i)
				}
				entries[row] = append(entries[row], column.Name()+": "+value)
				row++
			}
		}
	}

	rows := make([]string, numRows)
	for i, fields := range entries {
		rows[i] = strings.Join(fields, rowSeparator)
	}
	return rows
}
