package models

import (
	"context"
	"time"

	"streamhub/proj/internal/domain/models"
	"streamhub/proj/internal/domain/rbac"
	"streamhub/proj/internal/storage"
	"streamhub/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountModel struct {
	DB *pgxpool.Pool
}

const accountColumns = `id, email, password_hash, role, protected, created_at, updated_at`

func (m *AccountModel) Insert(ctx context.Context, account *models.Account) error {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return postgres.MapError(err)
	}
	defer tx.Rollback(ctx)
	_, err = tx.Exec(
		ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.Protected,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return postgres.MapError(err)
	}
	for i, p := range account.Profiles {
		_, err = tx.Exec(
			ctx,
			`INSERT INTO profiles (account_id, id, position, name, avatar, favorite_genres, watchlist)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			account.ID, p.ID, i, p.Name, p.Avatar, nonNil(p.FavoriteGenres), nonNil(p.Watchlist),
		)
		if err != nil {
			return postgres.MapError(err)
		}
	}
	return postgres.MapError(tx.Commit(ctx))
}

func (m *AccountModel) get(ctx context.Context, where string, arg any) (*models.Account, error) {
	rows, err := m.DB.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE `+where, arg)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	account, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	accounts := []models.Account{account}
	if err := loadProfiles(ctx, m.DB, accounts); err != nil {
		return nil, err
	}
	return &accounts[0], nil
}

func (m *AccountModel) Get(ctx context.Context, id string) (*models.Account, error) {
	return m.get(ctx, "id = $1", id)
}

func (m *AccountModel) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return m.get(ctx, "email = $1", email)
}

func (m *AccountModel) List(ctx context.Context) ([]models.Account, error) {
	rows, err := m.DB.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, postgres.MapError(err)
	}
	accounts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, postgres.MapError(err)
	}
	if err := loadProfiles(ctx, m.DB, accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (m *AccountModel) Count(ctx context.Context) (int64, error) {
	var n int64
	err := m.DB.QueryRow(ctx, `SELECT count(*) FROM accounts`).Scan(&n)
	return n, postgres.MapError(err)
}

func (m *AccountModel) HasProtected(ctx context.Context) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE protected)`).Scan(&exists)
	return exists, postgres.MapError(err)
}

func (m *AccountModel) UpdateRole(ctx context.Context, id string, role rbac.Role, updatedAt time.Time) error {
	status, err := m.DB.Exec(ctx, `UPDATE accounts SET role = $1, updated_at = $2 WHERE id = $3`, role, updatedAt, id)
	if err != nil {
		return postgres.MapError(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *AccountModel) Delete(ctx context.Context, id string) error {
	status, err := m.DB.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return postgres.MapError(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *AccountModel) AddToWatchlist(ctx context.Context, accountID, profileID, contentID string) error {
	status, err := m.DB.Exec(
		ctx,
		`UPDATE profiles
		SET watchlist = CASE WHEN $3 = ANY(watchlist) THEN watchlist ELSE array_append(watchlist, $3) END
		WHERE account_id = $1 AND id = $2`,
		accountID, profileID, contentID,
	)
	if err != nil {
		return postgres.MapError(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *AccountModel) RemoveFromWatchlist(ctx context.Context, accountID, profileID, contentID string) error {
	status, err := m.DB.Exec(
		ctx,
		`UPDATE profiles SET watchlist = array_remove(watchlist, $3) WHERE account_id = $1 AND id = $2`,
		accountID, profileID, contentID,
	)
	if err != nil {
		return postgres.MapError(err)
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *AccountModel) SetContinueWatching(ctx context.Context, accountID, profileID string, cw models.ContinueWatching) (bool, error) {
	status, err := m.DB.Exec(
		ctx,
		`UPDATE profiles
		SET cw_content_id = $3, cw_episode_id = NULLIF($4, ''), cw_position = $5, cw_last_watched = $6
		WHERE account_id = $1 AND id = $2`,
		accountID, profileID, cw.ContentID, cw.EpisodeID, cw.Position, cw.LastWatched,
	)
	if err != nil {
		return false, postgres.MapError(err)
	}
	return status.RowsAffected() > 0, nil
}

func loadProfiles(ctx context.Context, q querier, accounts []models.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	ids := make([]string, len(accounts))
	index := make(map[string]int, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
		index[a.ID] = i
		accounts[i].Profiles = []models.Profile{}
	}
	rows, err := q.Query(
		ctx,
		`SELECT account_id, id, name, avatar, favorite_genres, watchlist,
		cw_content_id, cw_episode_id, cw_position, cw_last_watched
		FROM profiles WHERE account_id = ANY($1) ORDER BY account_id, position`,
		ids,
	)
	if err != nil {
		return postgres.MapError(err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			accountID   string
			p           models.Profile
			cwContent   *string
			cwEpisode   *string
			cwPosition  *float64
			lastWatched *time.Time
		)
		if err := rows.Scan(
			&accountID, &p.ID, &p.Name, &p.Avatar, &p.FavoriteGenres, &p.Watchlist,
			&cwContent, &cwEpisode, &cwPosition, &lastWatched,
		); err != nil {
			return postgres.MapError(err)
		}
		if cwContent != nil {
			p.ContinueWatching = &models.ContinueWatching{ContentID: *cwContent}
			if cwEpisode != nil {
				p.ContinueWatching.EpisodeID = *cwEpisode
			}
			if cwPosition != nil {
				p.ContinueWatching.Position = *cwPosition
			}
			if lastWatched != nil {
				p.ContinueWatching.LastWatched = *lastWatched
			}
		}
		i := index[accountID]
		accounts[i].Profiles = append(accounts[i].Profiles, p)
	}
	return postgres.MapError(rows.Err())
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
