package storages

import (
	"context"
	"fmt"

	"github.com/9seconds/whereabouts/wherelib"
	"github.com/jmoiron/sqlx"

	// PostgreSQL driver for database/sql
	_ "github.com/lib/pq"
)

const NamePostgres = "postgres"

const (
	postgresSchema = `
CREATE TABLE IF NOT EXISTS location_records (
    id          BIGSERIAL PRIMARY KEY,
    created_at  TIMESTAMPTZ NOT NULL,
    phone       TEXT NOT NULL DEFAULT '',
    permission  TEXT,
    latitude    DOUBLE PRECISION,
    longitude   DOUBLE PRECISION,
    ip          TEXT NOT NULL DEFAULT '',
    ip_city     TEXT NOT NULL DEFAULT '',
    ip_region   TEXT NOT NULL DEFAULT '',
    ip_country  TEXT NOT NULL DEFAULT '',
    user_agent  TEXT NOT NULL DEFAULT '',
    raw_payload TEXT NOT NULL DEFAULT ''
)`

	postgresInsert = `
INSERT INTO location_records (
    created_at, phone, permission, latitude, longitude, ip,
    ip_city, ip_region, ip_country, user_agent, raw_payload
) VALUES (
    :created_at, :phone, :permission, :latitude, :longitude, :ip,
    :ip_city, :ip_region, :ip_country, :user_agent, :raw_payload
)`

	postgresSelect = `
SELECT
    created_at, phone, permission, latitude, longitude, ip,
    ip_city, ip_region, ip_country, user_agent, raw_payload
FROM location_records
ORDER BY created_at DESC, id DESC`
)

// PostgresStorage keeps records in location_records table. Each record
// is a single row inserted in its own transaction.
type PostgresStorage struct {
	db *sqlx.DB
}

func (p *PostgresStorage) Name() string {
	return NamePostgres
}

func (p *PostgresStorage) Append(ctx context.Context, record *wherelib.Record) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cannot start a transaction: %w", err)
	}

	if _, err := tx.NamedExecContext(ctx, postgresInsert, record); err != nil {
		tx.Rollback() // nolint: errcheck

		return fmt.Errorf("cannot insert a record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cannot commit a transaction: %w", err)
	}

	return nil
}

func (p *PostgresStorage) ListAll(ctx context.Context) ([]wherelib.Record, error) {
	records := []wherelib.Record{}

	if err := p.db.SelectContext(ctx, &records, postgresSelect); err != nil {
		return nil, fmt.Errorf("cannot select records: %w", err)
	}

	for i := range records {
		records[i].Timestamp = records[i].Timestamp.UTC()
	}

	return records, nil
}

// EnsureSchema creates a table if it does not exist yet.
func (p *PostgresStorage) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("cannot create a schema: %w", err)
	}

	return nil
}

func (p *PostgresStorage) Close() error {
	return p.db.Close()
}

// NewPostgres connects to the database and ensures that schema exists.
func NewPostgres(ctx context.Context, dsn string) (*PostgresStorage, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to postgres: %w", err)
	}

	rv := NewPostgresFromDB(db)

	if err := rv.EnsureSchema(ctx); err != nil {
		db.Close()

		return nil, err
	}

	return rv, nil
}

// NewPostgresFromDB wraps existing connection pool. It does not touch a
// schema.
func NewPostgresFromDB(db *sqlx.DB) *PostgresStorage {
	return &PostgresStorage{
		db: db,
	}
}
