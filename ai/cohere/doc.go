// Package cohere implements ai.Embedder on the Cohere v2 embed endpoint.
//
// Requests are made with resty and exposed to langchaingo as an
// embeddings.EmbedderClient, so batching across the endpoint's 96-text limit is
// handled by embeddings.NewEmbedder. Texts are embedded with input_type
// "search_document" since every caller in this module indexes documents.
package cohere
