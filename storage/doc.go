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


// Package storage provides the persistence layer for the ingestion ledger.
//
// The ledger keeps one IngestRun per source document so operators can see
// what was ingested, when, and whether every chunk was acknowledged by the
// vector store. Vectors themselves live in the vector store, not here.
//
// # Constructor Return Type Pattern
//
// Public constructors return the LedgerRepository interface so callers are not
// coupled to BadgerDB:
//
//	ledger, err := badger.NewLedger("/var/lib/docingest/ledger", logger)
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Keys
//
// Runs are keyed by core.IDFromPath of the absolute source path, so
// re-ingesting a document replaces its previous entry. A secondary index on
// the finish time serves ListRuns.
//
// # Usage
//
// Use in tests with in-memory storage:
//
//	ledger, err := badger.NewMemoryLedger()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ledger.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
