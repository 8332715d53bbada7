package storage

import "errors"

// Common client storage errors
var (
	// ErrKeyNotFound indicates that no value is stored under the key
	ErrKeyNotFound = errors.New("storage key not found")

	// ErrStoreClosed indicates that the storage backend is closed
	ErrStoreClosed = errors.New("storage is closed")
)
