package reader

import (
	"bytes"
	"context"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
)

// StaticPages returns a PageExtractor that yields pages regardless of path.
// Intended for tests that exercise chunking without a real PDF.
func StaticPages(pages ...string) PageExtractor {
	return PageExtractorFunc(func(ctx context.Context, _ string) ([]string, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := make([]string, len(pages))
		copy(out, pages)
		return out, nil
	})
}

// WriteParquetFile writes a table of string columns to path.
// A row shorter than columns gets nulls for the missing cells.
// Intended for tests and fixtures.
func WriteParquetFile(path string, columns []string, rows [][]string) error {
	fields := make([]arrow.Field, len(columns))
	for i, name := range columns {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for _, row := range rows {
		for i := range columns {
			sb := builder.Field(i).(*array.StringBuilder)
			if i < len(row) {
				sb.Append(row[i])
			} else {
				sb.AppendNull()
			}
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	var buf bytes.Buffer
	w, err := pqarrow.NewFileWriter(schema, &buf, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		return err
	}
	if err := w.Write(record); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
