package ai

import (
	"fmt"
	"strings"
)

// EmbeddingProviderKind names a supported embedding provider.
type EmbeddingProviderKind string

const (
	// ProviderCohere embeds through the Cohere embed API.
	ProviderCohere EmbeddingProviderKind = "cohere"
	// ProviderGemini embeds through the Google Gemini API.
	ProviderGemini EmbeddingProviderKind = "gemini"
)

// EmbeddingProviderKinds lists every supported provider.
var EmbeddingProviderKinds = []EmbeddingProviderKind{ProviderCohere, ProviderGemini}

// ParseEmbeddingProviderKind resolves a service name.
// Matching ignores case and surrounding whitespace.
func ParseEmbeddingProviderKind(name string) (EmbeddingProviderKind, error) {
	kind := EmbeddingProviderKind(strings.ToLower(strings.TrimSpace(name)))
	switch kind {
	case ProviderCohere, ProviderGemini:
		return kind, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEmbeddingProvider, name)
}
