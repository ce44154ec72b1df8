// Package common defines shared constants and sentinel errors used across
// the server, the vault and the terminal client. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Vault errors.
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrInvalidName      = errors.New("invalid vault filename")
	ErrInvalidKey       = errors.New("invalid vault key")
)
