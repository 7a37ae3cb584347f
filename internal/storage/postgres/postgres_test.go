package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"streamhub/proj/internal/domain/errs"
	"streamhub/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError(nil))
	assert.ErrorIs(t, MapError(pgx.ErrNoRows), storage.ErrNotFound)
	assert.ErrorIs(t, MapError(fmt.Errorf("wrapped: %w", pgx.ErrNoRows)), storage.ErrNotFound)
	assert.ErrorIs(t, MapError(&pgconn.PgError{Code: ErrConflictCode}), storage.ErrConflict)

	unavailable := MapError(fmt.Errorf("query: %w", context.DeadlineExceeded))
	assert.ErrorIs(t, unavailable, errs.ErrStoreUnavailable)

	other := errors.New("boom")
	assert.Equal(t, other, MapError(other))
	assert.Equal(t, "42P01", MapError(&pgconn.PgError{Code: "42P01"}).(*pgconn.PgError).Code)
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS accounts")
	assert.Contains(t, schema, "accounts_single_protected_idx")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS view_logs")
}
