// Package storage is the persistence boundary: it reads and writes the workspace's
// named JSON documents to a durable key-value store.
package storage

import (
	"errors"
)

// ErrKeyNotFound is returned by KV.Get when the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// KV is a synchronous byte-oriented key-value store.
type KV interface {
	// Get returns the stored value or ErrKeyNotFound.
	Get(key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Keys lists every stored key.
	Keys() ([]string, error)
	Close() error
}

// Document keys.
const (
	KeyBoards   = "boards"
	KeyFolders  = "folders"
	KeySettings = "settings"
	KeyArchived = "archived"
	KeyVersions = "versions"
)

// DocumentKeys lists every key the adapter owns, in a stable order.
var DocumentKeys = []string{KeyBoards, KeyFolders, KeySettings, KeyArchived, KeyVersions}
