package database

import "errors"

var (
	// ErrNotFound is returned when an operation targets an item id
	// that does not exist in the store.
	ErrNotFound = errors.New("item not found")

	// ErrStorage wraps read/write failures of the persistence layer.
	ErrStorage = errors.New("storage failure")
)
