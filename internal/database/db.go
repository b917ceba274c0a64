package database

import (
	"context"
	"database/sql"
)

// DB is the Postgres surface the event history and the migration runner
// need. SQLDB backs the runner, which works on database/sql.
type DB interface {
	Ping(ctx context.Context) error
	Close() error

	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)

	SQLDB() *sql.DB
}

type Rows interface {
	Close()
	Next() bool
	Scan(dest ...any) error
	Err() error
}
