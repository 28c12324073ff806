// Package ingestion turns source documents into vector store entries.
//
// A Pipeline selects the reader for a document's file type, loads its chunks,
// and writes them through a DocumentStore. It first tries a single bulk write.
// When that fails it falls back to fixed-size windows, optionally paced so
// rate-limited embedding providers are not overrun. Finally it reconciles the
// ids the store acknowledged against the ids it expected.
//
// Ingest never returns a bare error. Every outcome, including unsupported
// files and unreadable documents, is reported as a Result:
//
//	res := pipeline.Ingest(ctx, core.Descriptor{Path: "faq.parquet", Category: "support"})
//	switch {
//	case res.OK():
//	case res.Partial():
//	    log.Printf("%d chunks missing", len(res.Missing))
//	default:
//	    log.Printf("ingest failed: %v", res.Err)
//	}
//
// Submit runs Ingest on a worker pool. With the default single worker,
// documents are still ingested one at a time.
package ingestion
