package ai

import "errors"

var (
	// ErrUnknownEmbeddingProvider is returned for a service name outside EmbeddingProviderKinds.
	ErrUnknownEmbeddingProvider = errors.New("unknown embedding provider")

	// ErrInvalidMaxAttempts is returned when maxAttempts is less than 1.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmbeddingCountMismatch is returned when a provider returns a different
	// number of vectors than texts it was given.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
)
