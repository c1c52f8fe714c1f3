package storages

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/9seconds/whereabouts/wherelib"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const NameRedis = "redis"

// RedisStorage keeps JSON-encoded records in a list. New records are
// pushed to the head so the list is ordered from the newest record.
type RedisStorage struct {
	client *redis.Client
	key    string
	logger zerolog.Logger
}

func (r *RedisStorage) Name() string {
	return NameRedis
}

func (r *RedisStorage) Append(ctx context.Context, record *wherelib.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("cannot encode a record: %w", err)
	}

	if err := r.client.LPush(ctx, r.key, data).Err(); err != nil {
		return fmt.Errorf("cannot push a record: %w", err)
	}

	return nil
}

func (r *RedisStorage) ListAll(ctx context.Context) ([]wherelib.Record, error) {
	values, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("cannot read records: %w", err)
	}

	records := make([]wherelib.Record, 0, len(values))

	for _, v := range values {
		record := wherelib.Record{}

		if err := json.Unmarshal([]byte(v), &record); err != nil {
			r.logger.Debug().Str("data", v).Err(err).Msg("Cannot parse record")

			continue
		}

		record.Timestamp = record.Timestamp.UTC()
		records = append(records, record)
	}

	return records, nil
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}

func NewRedis(ctx context.Context, url, key string, logger zerolog.Logger) (*RedisStorage, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncorrectConnectionString, err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()

		return nil, fmt.Errorf("cannot connect to redis: %w", err)
	}

	return &RedisStorage{
		client: client,
		key:    key,
		logger: logger,
	}, nil
}
