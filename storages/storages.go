package storages

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/9seconds/whereabouts/wherelib"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const (
	DefaultCSVPath         = "locations.csv"
	DefaultRedisKey        = "whereabouts:records"
	DefaultMongoDatabase   = "whereabouts"
	DefaultMongoCollection = "location_records"
)

var postgresKeywordDSN = regexp.MustCompile(`(^|\s)(host|hostaddr|dbname|user|port)\s*=`)

// Opts are optional parameters of storages. Zero values fall back to
// defaults.
type Opts struct {
	// Fs is a filesystem for CSV storage. By default this is
	// afero.NewOsFs().
	Fs afero.Fs

	// Logger is used to report skipped records. By default nothing is
	// logged.
	Logger *zerolog.Logger

	RedisKey        string
	MongoCollection string
}

func (o Opts) GetFs() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}

	return o.Fs
}

func (o Opts) GetLogger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}

	return *o.Logger
}

func (o Opts) GetRedisKey() string {
	if o.RedisKey == "" {
		return DefaultRedisKey
	}

	return o.RedisKey
}

func (o Opts) GetMongoCollection() string {
	if o.MongoCollection == "" {
		return DefaultMongoCollection
	}

	return o.MongoCollection
}

// New creates a storage for a given connection string.
//
// Supported schemes: file:// (or no scheme at all) for CSV file,
// postgres:// and postgresql:// for PostgreSQL, redis:// and rediss://
// for Redis, mongodb:// and mongodb+srv:// for MongoDB. An empty
// connection string means a CSV file with a default name.
//
// libpq keyword/value DSN like "host=localhost dbname=whereabouts" is
// PostgreSQL as well. Any other scheme-less string with = is rejected.
func New(ctx context.Context, connString string, opts Opts) (wherelib.Storage, error) {
	connString = strings.TrimSpace(connString)

	if connString == "" {
		return NewCSV(opts.GetFs(), DefaultCSVPath, opts.GetLogger()), nil
	}

	if !strings.Contains(connString, "://") {
		switch {
		case postgresKeywordDSN.MatchString(connString):
			return storageOrNil(NewPostgres(ctx, connString))
		case strings.Contains(connString, "="):
			return nil, fmt.Errorf("%w: %s is neither a path nor a postgres DSN",
				ErrIncorrectConnectionString, connString)
		}

		return NewCSV(opts.GetFs(), connString, opts.GetLogger()), nil
	}

	chunks := strings.SplitN(connString, "://", 2)
	scheme := strings.ToLower(chunks[0])

	switch scheme {
	case "":
		return nil, fmt.Errorf("%w: scheme is empty", ErrIncorrectConnectionString)
	case "file":
		path := chunks[1]
		if path == "" {
			path = DefaultCSVPath
		}

		return NewCSV(opts.GetFs(), path, opts.GetLogger()), nil
	case "postgres", "postgresql":
		return storageOrNil(NewPostgres(ctx, connString))
	case "redis", "rediss":
		return storageOrNil(NewRedis(ctx, connString, opts.GetRedisKey(), opts.GetLogger()))
	case "mongodb", "mongodb+srv":
		return storageOrNil(NewMongo(ctx, connString, opts.GetMongoCollection()))
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownStorage, scheme)
}

// storageOrNil does not let a typed nil pointer leak as a non-nil
// interface value.
func storageOrNil[T wherelib.Storage](storage T, err error) (wherelib.Storage, error) {
	if err != nil {
		return nil, err
	}

	return storage, nil
}
