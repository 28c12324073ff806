// Package vectorstore defines the write side of the vector stores that
// ingested chunks land in.
//
// A Store accepts pre-embedded Records and reports which ids it acknowledged.
// Index couples a Store with an ai.Embedder and is what the ingestion pipeline
// writes documents through:
//
//	store, err := pgvector.New(ctx, pgvector.Config{ConnectionURL: uri, Collection: "docs"})
//	if err != nil {
//	    return err
//	}
//	index := vectorstore.NewIndex(store, embedder)
//	ids, err := index.AddDocuments(ctx, chunks, chunkIDs)
//
// Backends live in subpackages: pgvector, milvus and weaviate. Every backend
// upserts by id, so writing the same chunk twice overwrites it.
package vectorstore
