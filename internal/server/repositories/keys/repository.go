// Package keys persists the single vault key.
package keys

import "context"

// Repository stores one symmetric key.
type Repository interface {
	// Get returns the stored key or common.ErrorNotFound.
	Get(ctx context.Context) ([]byte, error)
	// CreateIfAbsent stores key unless a key already exists and returns the
	// key that ended up persisted. Concurrent callers all get the same key.
	CreateIfAbsent(ctx context.Context, key []byte) ([]byte, error)
}
