package models

import (
	"context"

	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ViewLogModel struct {
	DB *pgxpool.Pool
}

func (m *ViewLogModel) Append(ctx context.Context, entry models.ViewLogEntry) error {
	_, err := m.DB.Exec(
		ctx,
		`INSERT INTO view_logs (id, content_id, episode_id, user_id, session_id, ip_address, user_agent, duration, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID,
		entry.ContentID,
		entry.EpisodeID,
		entry.UserID,
		entry.SessionID,
		entry.IPAddress,
		entry.UserAgent,
		entry.Duration,
		entry.Timestamp,
	)
	return postgres.MapError(err)
}

func (m *ViewLogModel) Recent(ctx context.Context, n int) ([]models.ViewLogEntry, error) {
	rows, err := m.DB.Query(
		ctx,
		`SELECT id, content_id, episode_id, user_id, session_id, ip_address, user_agent, duration, created_at
		FROM view_logs ORDER BY created_at DESC, id DESC LIMIT $1`,
		n,
	)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ViewLogEntry])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	return entries, nil
}
