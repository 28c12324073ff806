package vectorstore

import "errors"

var (
	// ErrUnknownVectorStore is returned when a vector store name is not recognized.
	ErrUnknownVectorStore = errors.New("unknown vector store")

	// ErrStoreRequired is returned when an Index is built without a Store.
	ErrStoreRequired = errors.New("vector store required")

	// ErrEmbedderRequired is returned when an Index is built without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrLengthMismatch is returned when chunks and ids are not position-aligned.
	ErrLengthMismatch = errors.New("chunks and ids differ in length")
)
