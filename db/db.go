package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// PgxIface is the slice of pgxpool.Pool the store uses. pgxmock stands in
// for it in tests.
type PgxIface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Database is the single source of truth for reminder state. All operations
// are single-statement and atomic, so interleaving front-end calls with
// scheduler ticks needs no extra coordination.
type Database struct {
	pool PgxIface
}

// NewDatabase opens a connection pool and verifies the database is
// reachable.
func NewDatabase(ctx context.Context, connStr string) (*Database, error) {
	// connection string should look like postgresql://localhost:5432/reminders?user=admn&password=passwd
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, errors.Wrap(err, "failed opening connection pool")
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed pinging database")
	}

	return &Database{pool: pool}, nil
}

// New wraps an existing pool. Used by tests.
func New(pool PgxIface) *Database {
	return &Database{pool: pool}
}

// Init creates the reminders table if it doesn't exist yet.
func (d *Database) Init(ctx context.Context) error {
	_, err := d.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS reminders(
id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
user_id BIGINT NOT NULL,
description TEXT NOT NULL,
reminder_time TEXT NOT NULL,
status TEXT NOT NULL)`)
	return errors.Wrap(err, "failed creating reminders table")
}

func (d *Database) Close() {
	d.pool.Close()
}
