package core

import (
	"errors"
	"testing"
)

func TestFileTypeFromPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    FileType
		wantErr error
	}{
		{name: "pdf", path: "docs/guide.pdf", want: FileTypePDF},
		{name: "upper case pdf", path: "docs/GUIDE.PDF", want: FileTypePDF},
		{name: "parquet", path: "medqa.parquet", want: FileTypeParquet},
		{name: "mixed case parquet", path: "medqa.ParQuet", want: FileTypeParquet},
		{name: "text file", path: "notes.txt", wantErr: ErrUnsupportedFileType},
		{name: "no extension", path: "Makefile", wantErr: ErrUnsupportedFileType},
		{name: "pdf in directory name only", path: "x.pdf/notes.csv", wantErr: ErrUnsupportedFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FileTypeFromPath(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FileTypeFromPath(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FileTypeFromPath(%q) unexpected error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("FileTypeFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestValidateDescriptor(t *testing.T) {
	if err := ValidateDescriptor(Descriptor{Path: "a.pdf"}); err != nil {
		t.Errorf("ValidateDescriptor() unexpected error: %v", err)
	}

	err := ValidateDescriptor(Descriptor{})
	if !errors.Is(err, ErrInvalidDescriptor) || !errors.Is(err, ErrEmptyPath) {
		t.Errorf("ValidateDescriptor() error = %v, want ErrInvalidDescriptor wrapping ErrEmptyPath", err)
	}
}

func TestValidateChunk(t *testing.T) {
	meta := func(pageNo, total string) map[string]string {
		return map[string]string{
			MetaFileName:   "a.pdf",
			MetaPageNo:     pageNo,
			MetaTotalPages: total,
		}
	}

	tests := []struct {
		name    string
		chunk   Chunk
		wantErr error
	}{
		{
			name:  "valid chunk",
			chunk: Chunk{Content: "text", Metadata: meta("1", "3")},
		},
		{
			name:  "last page",
			chunk: Chunk{Content: "text", Metadata: meta("3", "3")},
		},
		{
			name:    "missing metadata",
			chunk:   Chunk{Content: "text", Metadata: map[string]string{MetaPageNo: "1"}},
			wantErr: ErrMissingMetadata,
		},
		{
			name:    "page zero",
			chunk:   Chunk{Content: "text", Metadata: meta("0", "3")},
			wantErr: ErrInvalidPageNo,
		},
		{
			name:    "page beyond total",
			chunk:   Chunk{Content: "text", Metadata: meta("4", "3")},
			wantErr: ErrInvalidPageNo,
		},
		{
			name:    "non numeric page",
			chunk:   Chunk{Content: "text", Metadata: meta("one", "3")},
			wantErr: ErrInvalidChunk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
