package storages

import "errors"

var (
	// ErrUnknownStorage is returned if a scheme of the connection
	// string is not supported.
	ErrUnknownStorage = errors.New("unknown storage")

	// ErrIncorrectConnectionString is returned if connection string
	// cannot be parsed.
	ErrIncorrectConnectionString = errors.New("incorrect connection string")
)
