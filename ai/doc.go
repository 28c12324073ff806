// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ai provides the embedding abstraction used by docingest.
//
// The Embedder interface turns text into fixed-dimension vectors. Concrete
// providers are selected by EmbeddingProviderKind, a closed set resolved from a
// service name with ParseEmbeddingProviderKind.
//
// # Implementation Packages
//
//   - ai/cohere: Cohere embed API over resty, wrapped by langchaingo embeddings
//   - ai/gemini: Google Gemini embeddings through langchaingo googleai
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (cohere.NewEmbedder, gemini.NewEmbedder) return the
// ai.Embedder interface, already wrapped with WithRetries according to the
// Config. Test utility constructors (mock.NewMockEmbedder) return CONCRETE
// types so tests can inject behavior and assert on call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(
//	    ai.WithKind(ai.ProviderCohere),
//	    ai.WithAPIKey(os.Getenv("COHERE_API_KEY")),
//	    ai.WithModel(os.Getenv("COHERE_EMBEDDING_MODEL_NAME")),
//	)
//	embedder, err := cohere.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vectors, err := embedder.EmbedTexts(ctx, []string{"first chunk", "second chunk"})
package ai
