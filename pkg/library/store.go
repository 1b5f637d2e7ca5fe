package library

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	badger "github.com/dgraph-io/badger/v4"
)

// ErrEntryNotFound is returned when a catalog entry does not exist.
var ErrEntryNotFound = errors.New("library: entry not found")

const entryKeyPrefix = "entry:"

// Store persists CatalogEntry records in a BadgerDB database. Unlike a
// generic key-value abstraction, Store knows about CatalogEntry directly:
// it owns the JSON encoding and the "entry:" key prefix, so Catalog never
// touches raw bytes.
type Store struct {
	db *badger.DB
}

// StoreOptions configures the on-disk catalog store.
type StoreOptions struct {
	// Dir is the directory for BadgerDB data files. Required unless InMemory.
	Dir string

	// InMemory runs BadgerDB in memory-only mode, for tests.
	InMemory bool
}

// OpenStore opens (or creates) a BadgerDB-backed catalog store.
func OpenStore(opts StoreOptions) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("library: StoreOptions.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	dbOpts = dbOpts.WithLogger(quietLogger{})
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) put(_ context.Context, entry CatalogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(entryKeyPrefix+entry.ID), data)
	})
}

func (s *Store) get(_ context.Context, id string) (CatalogEntry, error) {
	var entry CatalogEntry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(entryKeyPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return CatalogEntry{}, ErrEntryNotFound
	}
	return entry, err
}

func (s *Store) delete(_ context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(entryKeyPrefix + id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (s *Store) list(_ context.Context) ([]CatalogEntry, error) {
	var entries []CatalogEntry
	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = []byte(entryKeyPrefix)
		it := txn.NewIterator(iterOpts)
		defer it.Close()
		for it.Seek(iterOpts.Prefix); it.ValidForPrefix(iterOpts.Prefix); it.Next() {
			var entry CatalogEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// quietLogger suppresses badger's debug and info level logging, keeping
// only errors and warnings on the standard logger.
type quietLogger struct{}

func (quietLogger) Errorf(f string, v ...interface{})   { log.Printf("[badger] ERROR: "+f, v...) }
func (quietLogger) Warningf(f string, v ...interface{}) { log.Printf("[badger] WARN: "+f, v...) }
func (quietLogger) Infof(string, ...interface{})        {}
func (quietLogger) Debugf(string, ...interface{})       {}
