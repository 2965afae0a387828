// Package store provides durable key-value storage for workspace layouts.
//
// The workspace engine persists three independent records (node list,
// viewport, expanded card id) as opaque byte values under versioned keys.
// This package defines the backend-neutral Store interface and
// implementations for different deployments:
//   - memory: In-memory storage for tests and ephemeral runs
//   - file: JSON files in a config directory for single-user desktop use
//   - redis: Redis-backed storage for hosted multi-instance deployments
//   - mongo: MongoDB-backed storage for hosted deployments
//   - null: Discards everything; disables persistence
//
// Writes are fire-and-forget from the engine's point of view: a failed
// write loses at most the latest layout delta, never corrupts what is
// already stored, because every write carries a complete snapshot.
package store

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a store that has been closed.
var ErrClosed = errors.New("store closed")

// Store is the interface for durable layout storage backends.
//
// Get returns the raw value and whether the key was present. A missing
// key is not an error. Implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves a value. Returns found=false if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value, replacing any previous value for the key.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
