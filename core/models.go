package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Metadata keys attached to every chunk.
const (
	MetaFileName    = "file_name"
	MetaPageNo      = "page_no"
	MetaTotalPages  = "total_pages"
	MetaCategory    = "category"
	MetaSubCategory = "sub_category"
)

// ID is a compact identifier for ledger entries.
type ID uint64

// IDFromPath generates a deterministic ID for a source path using BLAKE2b hashing.
// The path is cleaned first so equivalent spellings map to the same ID.
func IDFromPath(path string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(filepath.Clean(path)))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkID derives the content-addressed identifier of a chunk: the hex encoded
// SHA-256 digest of the content followed by its page number.
// Identical (content, pageNo) pairs always yield the same identifier, which makes
// re-ingesting a document an overwrite rather than a duplicate insert.
func ChunkID(content, pageNo string) string {
	sum := sha256.Sum256([]byte(content + pageNo))
	return hex.EncodeToString(sum[:])
}

// FileType identifies which reader handles a source document.
type FileType string

const (
	// FileTypePDF is a paged PDF document.
	FileTypePDF FileType = "pdf"
	// FileTypeParquet is a tabular parquet file. Each row is one unit.
	FileTypeParquet FileType = "parquet"
)

// FileTypes lists every supported file type.
var FileTypes = []FileType{FileTypePDF, FileTypeParquet}

// Extension returns the lower-cased extension of path without the dot.
// The extension is the last dot-separated segment of the base name, so a file
// without a dot yields its whole base name.
func Extension(path string) string {
	base := filepath.Base(path)
	parts := strings.Split(base, ".")
	return strings.ToLower(parts[len(parts)-1])
}

// Chunk is the unit ingested into the vector store.
type Chunk struct {
	Content  string
	Metadata map[string]string
}

// ID returns the content-addressed identifier of the chunk.
func (c Chunk) ID() string {
	return ChunkID(c.Content, c.Metadata[MetaPageNo])
}

// Descriptor describes a source document to ingest.
type Descriptor struct {
	Path           string
	Category       string
	SubCategory    string
	ExcludeColumns []string // Parquet only; nil or empty includes every column
}

// FileType derives the file type from the descriptor's path extension.
func (d Descriptor) FileType() (FileType, error) {
	return FileTypeFromPath(d.Path)
}

// RunStatus is the outcome of one ingestion run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunPartial   RunStatus = "partial"
	RunFailed    RunStatus = "failed"
)

// IngestRun records the outcome of ingesting one document.
type IngestRun struct {
	Id             ID
	Path           string
	FileType       FileType
	Category       string
	SubCategory    string
	ExcludeColumns []string
	Status         RunStatus
	Chunks         int
	Acknowledged   int
	Missing        []string
	Batched        bool
	Windows        int
	FailedWindows  int
	Error          string
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Descriptor rebuilds the descriptor the run was started from.
func (r *IngestRun) Descriptor() Descriptor {
	return Descriptor{
		Path:           r.Path,
		Category:       r.Category,
		SubCategory:    r.SubCategory,
		ExcludeColumns: r.ExcludeColumns,
	}
}

// Duration returns how long the run took.
func (r *IngestRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
