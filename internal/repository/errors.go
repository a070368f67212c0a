package repository

import "errors"

var (
	// ErrNotFound means no record matched the lookup.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate means a unique constraint rejected the write.
	ErrDuplicate = errors.New("repository: duplicate entry")
)
