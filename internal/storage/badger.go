package storage

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// keyPrefix namespaces workspace documents inside the badger keyspace.
const keyPrefix = "corkboard:"

// BadgerKV is a KV backed by a badger database.
type BadgerKV struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenBadger opens (or creates) a badger database at path.
func OpenBadger(path string, logger *slog.Logger) (*BadgerKV, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Every document write is durable before Set returns
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup
	return openBadger(opts, logger)
}

// OpenBadgerInMemory opens a badger database that lives only in memory.
func OpenBadgerInMemory(logger *slog.Logger) (*BadgerKV, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return openBadger(opts, logger)
}

func openBadger(opts badger.Options, logger *slog.Logger) (*BadgerKV, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	if logger != nil {
		logger.Info("badger database opened", "path", opts.Dir, "in_memory", opts.InMemory)
	}
	return &BadgerKV{db: db, logger: logger}, nil
}

// Get retrieves a value by key.
func (b *BadgerKV) Get(key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrKeyNotFound
		}
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Set stores a value by key.
func (b *BadgerKV) Set(key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), value)
	})
}

// Delete removes a key from the database.
func (b *BadgerKV) Delete(key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + key))
	})
}

// Keys lists every workspace key.
func (b *BadgerKV) Keys() ([]string, error) {
	var keys []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			keys = append(keys, string(it.Item().Key()[len(keyPrefix):]))
		}
		return nil
	})
	return keys, err
}

// Close gracefully closes the database.
func (b *BadgerKV) Close() error {
	if b.logger != nil {
		b.logger.Info("closing badger database")
	}
	return b.db.Close()
}
