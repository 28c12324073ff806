package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docingest/core"
	"github.com/poiesic/docingest/storage"
)

// LedgerRepository implements storage.LedgerRepository for BadgerDB.
type LedgerRepository struct {
	backend *Backend
	owned   bool
}

var _ storage.LedgerRepository = (*LedgerRepository)(nil)

// NewLedger opens a ledger database at path. Closing the ledger closes the database.
func NewLedger(path string, logger *slog.Logger) (storage.LedgerRepository, error) {
	backend, err := OpenBackend(path, false, logger)
	if err != nil {
		return nil, fmt.Errorf("opening ledger at %s: %w", path, err)
	}
	return &LedgerRepository{backend: backend, owned: true}, nil
}

// NewLedgerRepository creates a ledger over an existing backend.
// The caller keeps ownership of backend.
func NewLedgerRepository(backend *Backend) *LedgerRepository {
	return &LedgerRepository{backend: backend}
}

// Close closes the backend when the ledger opened it.
func (r *LedgerRepository) Close() error {
	if r.owned {
		return r.backend.Close()
	}
	return nil
}

// runID derives the ledger id for a source path. Relative paths are resolved
// against the working directory so both spellings land on one entry.
func runID(path string) core.ID {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return core.IDFromPath(path)
}

// SaveRun stores run, replacing any earlier run of the same document.
func (r *LedgerRepository) SaveRun(ctx context.Context, run *core.IngestRun) error {
	if run == nil || run.Path == "" {
		return storage.ErrInvalidRun
	}
	run.Id = runID(run.Path)
	value, err := storage.MarshalRun(run)
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRunKey(run.Id)

		old, err := readRun(tx, key)
		if err != nil {
			return err
		}
		if old != nil {
			if err := tx.Delete(makeRunFinishedKey(old.FinishedAt, old.Id)); err != nil {
				return err
			}
		}

		if err := tx.Set(key, value); err != nil {
			return err
		}
		if err := tx.Set(makeRunFinishedKey(run.FinishedAt, run.Id), nil); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetRun retrieves the latest run for path.
func (r *LedgerRepository) GetRun(ctx context.Context, path string) (*core.IngestRun, error) {
	var run *core.IngestRun
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		run, err = readRun(tx, makeRunKey(runID(path)))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
	}
	return run, nil
}

// ListRuns returns every run, most recently finished first.
func (r *LedgerRepository) ListRuns(ctx context.Context) ([]*core.IngestRun, error) {
	var runs []*core.IngestRun
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(runFinishedPrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Reverse = true
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Reverse iteration starts from the largest key under the prefix.
		seek := append(append([]byte{}, prefix...), 0xFF)
		for iter.Seek(seek); iter.ValidForPrefix(prefix); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			id := runIDFromFinishedKey(iter.Item().Key())
			run, err := readRun(tx, makeRunKey(id))
			if err != nil {
				return err
			}
			if run != nil {
				runs = append(runs, run)
			}
		}
		return nil
	}, false)
	return runs, err
}

// DeleteRun removes the run for path and its index entry.
func (r *LedgerRepository) DeleteRun(ctx context.Context, path string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRunKey(runID(path))
		old, err := readRun(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, path)
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		if err := tx.Delete(makeRunFinishedKey(old.FinishedAt, old.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readRun loads the run stored at key. Returns nil, nil if it doesn't exist.
func readRun(tx *badger.Txn, key []byte) (*core.IngestRun, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var run *core.IngestRun
	err = item.Value(func(val []byte) error {
		var err error
		run, err = storage.UnmarshalRun(val)
		return err
	})
	return run, err
}
