// Package blobs stores encrypted vault entries by name, on the local
// filesystem or in an S3-compatible bucket.
package blobs

import "context"

// Repository is a flat, write-once namespace of blobs.
type Repository interface {
	// Create stores data under name. An existing name is never overwritten;
	// common.ErrAlreadyExists is returned instead.
	Create(ctx context.Context, name string, data []byte) error
	// Get returns the blob or common.ErrorNotFound.
	Get(ctx context.Context, name string) ([]byte, error)
	// List returns the names of all stored blobs ending in suffix.
	List(ctx context.Context, suffix string) ([]string, error)
}
