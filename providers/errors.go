package providers

import "errors"

var (
	// ErrAuthTokenIsRequired is returned if you are trying to initialize
	// a provider which requires some token to work.
	ErrAuthTokenIsRequired = errors.New("auth token is required")

	// ErrDatabaseIsRequired is returned if offline provider is created
	// without a path to the database file.
	ErrDatabaseIsRequired = errors.New("path to the database is required")

	// ErrDatabaseIsClosed is returned on lookups of a provider which was
	// already closed.
	ErrDatabaseIsClosed = errors.New("database is closed")
)
