package wherelib

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/afero"
)

var (
	ErrBadPayload    = errors.New("payload is not a JSON object")
	ErrCannotPersist = errors.New("cannot persist a record")
	ErrNoStorage     = errors.New("storage is not set")
	ErrNoStaticFs    = errors.New("static filesystem is not set")
	ErrNoEnricher    = errors.New("enricher is not set")
	ErrNoLogger      = errors.New("logger is not set")
)

// Opts is a set of dependencies of Whereabouts.
type Opts struct {
	Storage  Storage
	Enricher Enricher
	Logger   Logger

	// StaticFs is a filesystem with index.html and other static files.
	// Usually this is afero.NewBasePathFs(afero.NewOsFs(), dir).
	StaticFs afero.Fs
}

// Submission is an incoming request to capture a location.
type Submission struct {
	Body         []byte
	RemoteAddr   string
	ForwardedFor string
	UserAgent    string
}

// Whereabouts captures locations and keeps them in a storage. It is
// also an http.Handler which exposes its operations.
type Whereabouts struct {
	storage      Storage
	storageStats *UsageStats
	enricher     Enricher
	logger       Logger
	staticFs     afero.Fs
	handler      http.Handler
	now          func() time.Time
}

func (w *Whereabouts) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	w.handler.ServeHTTP(rw, req)
}

// Submit builds a record out of a submission and persists it. If a
// client has not shared both coordinates, Submit asks the enricher
// about the client IP address.
//
// Returned error wraps ErrBadPayload if the body cannot be accepted and
// ErrCannotPersist if storage has failed. Nothing is persisted in both
// cases.
func (w *Whereabouts) Submit(ctx context.Context, submission Submission) (*Record, error) {
	payload, err := parseSubmitPayload(submission.Body)
	if err != nil {
		return nil, err
	}

	record := &Record{
		Phone:      payload.Phone,
		Permission: payload.Permission,
		Latitude:   payload.Latitude,
		Longitude:  payload.Longitude,
		IP:         resolveClientIP(submission.ForwardedFor, submission.RemoteAddr),
		UserAgent:  submission.UserAgent,
		RawPayload: string(submission.Body),
	}

	enriched := record.Latitude == nil || record.Longitude == nil

	if enriched {
		enrichment := w.enricher.Enrich(ctx, record.IP)

		record.IPCity = enrichment.City
		record.IPRegion = enrichment.Region
		record.IPCountry = enrichment.Country

		if isFalsyCoordinate(record.Latitude) && enrichment.Latitude != nil {
			record.Latitude = enrichment.Latitude
		}

		if isFalsyCoordinate(record.Longitude) && enrichment.Longitude != nil {
			record.Longitude = enrichment.Longitude
		}
	}

	record.Timestamp = w.now().UTC()

	err = w.storage.Append(ctx, record)
	w.storageStats.Used(err)

	if err != nil {
		w.logger.StorageError(w.storage.Name(), err)

		return nil, fmt.Errorf("%w: %v", ErrCannotPersist, err)
	}

	w.logger.Submitted(record, enriched)

	return record, nil
}

// Records returns all stored records, newest first.
func (w *Whereabouts) Records(ctx context.Context) ([]Record, error) {
	records, err := w.storage.ListAll(ctx)
	w.storageStats.Used(err)

	if err != nil {
		w.logger.StorageError(w.storage.Name(), err)

		return nil, fmt.Errorf("cannot list records: %w", err)
	}

	return records, nil
}

// UsageStats returns usage statistics of the storage and of the
// providers if enricher tracks them.
func (w *Whereabouts) UsageStats() []*UsageStats {
	rv := []*UsageStats{w.storageStats}

	if collector, ok := w.enricher.(interface{ UsageStats() []*UsageStats }); ok {
		rv = append(rv, collector.UsageStats()...)
	}

	return rv
}

func isFalsyCoordinate(value *float64) bool {
	return value == nil || *value == 0
}

func NewWhereabouts(opts Opts) (*Whereabouts, error) {
	switch {
	case opts.Storage == nil:
		return nil, ErrNoStorage
	case opts.Enricher == nil:
		return nil, ErrNoEnricher
	case opts.Logger == nil:
		return nil, ErrNoLogger
	case opts.StaticFs == nil:
		return nil, ErrNoStaticFs
	}

	rv := &Whereabouts{
		storage:  opts.Storage,
		enricher: opts.Enricher,
		logger:   opts.Logger,
		staticFs: opts.StaticFs,
		now:      time.Now,
		storageStats: &UsageStats{
			Name: opts.Storage.Name(),
			Kind: "storage",
		},
	}
	rv.handler = newHTTPHandler(rv)

	return rv, nil
}
