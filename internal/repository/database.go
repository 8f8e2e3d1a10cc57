package repository

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// NewDatabase creates a new PostgreSQL database connection pool using the provided host, port,
// username, password and database name. The pool holds at most maxConns connections and
// connecting must succeed within timeout.
func NewDatabase(
	ctx context.Context,
	host, port, username, password, dbName string,
	maxConns int32,
	timeout time.Duration,
) (*pgxpool.Pool, error) {
	var (
		idleTime = 30 * time.Second
		hcPeriod = 30 * time.Second
	)
	var err error

	dbHost := net.JoinHostPort(host, port)
	dbURL := fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=disable",
		username,
		password,
		dbHost,
		dbName,
	)

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = maxConns
	poolConfig.MaxConnIdleTime = idleTime
	poolConfig.HealthCheckPeriod = hcPeriod
	poolConfig.ConnConfig.ConnectTimeout = timeout

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create connection to PostgreSQL: %w", ErrConnection, err)
	}

	if err = dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("%w: failed to ping PostgreSQL DB: %w", ErrConnection, err)
	}

	return dbpool, nil
}

const createEmployeesTable = `
	CREATE TABLE IF NOT EXISTS employees (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		email             TEXT NOT NULL,
		phone_number      TEXT NOT NULL,
		age               INTEGER NOT NULL,
		gender            TEXT NOT NULL,
		department        SMALLINT NOT NULL,
		position          TEXT NOT NULL,
		employment_status SMALLINT NOT NULL,
		emp_status        TEXT NOT NULL DEFAULT 'new',
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ
	);
`

// EnsureSchema creates the employees table when it does not exist yet.
func EnsureSchema(ctx context.Context, db Database) error {
	if _, err := db.Exec(ctx, createEmployeesTable); err != nil {
		return fmt.Errorf("failed to create employees table: %w", err)
	}

	return nil
}
