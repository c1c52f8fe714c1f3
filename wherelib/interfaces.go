package wherelib

import (
	"context"
	"net"
	"net/http"
)

// HTTPClient is an interface for providers which have to talk to
// online services.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Provider resolves an IP address into a location.
type Provider interface {
	Name() string
	Lookup(context.Context, net.IP) (ProviderLookupResult, error)
}

// Enricher derives a location from an IP address. This is a best-effort
// operation so there is no error: if nothing is known, all fields of
// Enrichment are empty.
type Enricher interface {
	Enrich(ctx context.Context, ip string) Enrichment
}

// Storage is an append-only store of records.
//
// ListAll has to return records ordered from the newest to the oldest
// one.
type Storage interface {
	Name() string
	Append(context.Context, *Record) error
	ListAll(context.Context) ([]Record, error)
	Close() error
}

type Logger interface {
	LookupError(ip net.IP, name string, err error)
	StorageError(name string, err error)
	Submitted(record *Record, enriched bool)
}
