// Package store provides the persistent key-to-blob storage used by the
// prayer time cache. Two backends exist: one JSON file per key under a
// cache directory, and a single-table SQLite database.
package store

import "errors"

// ErrNotFound is returned by Load when no value exists for the key.
var ErrNotFound = errors.New("store: key not found")

// Store is a flat key-to-blob interface. Implementations must be safe for
// use by a single goroutine at a time; the cache layer serializes access.
type Store interface {
	// Load returns the value for key, or ErrNotFound.
	Load(key string) ([]byte, error)
	// Save inserts or overwrites the value for key.
	Save(key string, data []byte) error
	// Delete removes the value for key. Deleting a missing key is not an
	// error.
	Delete(key string) error
	// Keys lists every stored key.
	Keys() ([]string, error)
	// Close releases any underlying resources.
	Close() error
}
