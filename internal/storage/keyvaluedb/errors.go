package keyvaluedb

import "errors"

var (
	// ErrKeyNotFound is returned when a key does not exist.
	ErrKeyNotFound = errors.New("key not found")

	// ErrDBClosed is returned for operations on a closed database.
	ErrDBClosed = errors.New("database is closed")
)
