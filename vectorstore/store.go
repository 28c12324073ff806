package vectorstore

import (
	"context"
	"fmt"
	"strings"
)

// Record is one embedded chunk ready to be written.
type Record struct {
	ID       string
	Vector   []float32
	Document string
	Metadata map[string]string
}

// Store writes records into a vector collection.
// Implementations must upsert by ID and must be safe for concurrent use.
type Store interface {
	// Upsert writes records and returns the ids the backend acknowledged.
	// A record the backend rejected individually is left out of the result
	// rather than failing the whole call.
	Upsert(ctx context.Context, records []Record) ([]string, error)

	// Close releases connections held by the store.
	Close() error
}

// Kind names a vector store backend.
type Kind string

const (
	KindPGVector Kind = "pgvector"
	KindMilvus   Kind = "milvus"
	KindWeaviate Kind = "weaviate"
)

// Kinds lists every supported backend.
var Kinds = []Kind{KindPGVector, KindMilvus, KindWeaviate}

// ParseKind resolves a backend name, ignoring case and surrounding space.
func ParseKind(name string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, k := range Kinds {
		if k == kind {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVectorStore, name)
}
