package models

import (
	"context"

	"streamhub/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Models struct {
	Account *AccountModel
	Content *ContentModel
	ViewLog *ViewLogModel
}

func New(db *postgres.PostgresDB) *Models {
	return &Models{
		Account: &AccountModel{db.Conn},
		Content: &ContentModel{db.Conn},
		ViewLog: &ViewLogModel{db.Conn},
	}
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
