package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"streamhub/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

type PostgresDB struct {
	Conn *pgxpool.Pool
}

const ErrConflictCode = "23505"

func New(ctx context.Context, storagePath string, maxConns int, maxConnIdleTime time.Duration) (*PostgresDB, error) {
	const op = "postgres.New"
	cfg, err := pgxpool.ParseConfig(storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	if maxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = maxConnIdleTime
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, MapError(err))
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", op, MapError(err))
	}
	return &PostgresDB{Conn: pool}, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (db *PostgresDB) Migrate(ctx context.Context) error {
	if _, err := db.Conn.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres.Migrate: %w", MapError(err))
	}
	return nil
}

func (db *PostgresDB) Ping(ctx context.Context) error {
	return MapError(db.Conn.Ping(ctx))
}

func (db *PostgresDB) Close() {
	db.Conn.Close()
}

// MapError translates driver errors into storage errors. Unknown errors are
// returned as is.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	var connErr *pgconn.ConnectError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return storage.ErrNotFound
	case errors.As(err, &pgErr) && pgErr.Code == ErrConflictCode:
		return storage.ErrConflict
	case pgconn.Timeout(err), errors.Is(err, context.DeadlineExceeded), errors.As(err, &connErr):
		return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}
	return err
}
